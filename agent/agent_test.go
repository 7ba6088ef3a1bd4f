package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supalytic/supagent/agent"
	"github.com/supalytic/supagent/llm"
	"github.com/supalytic/supagent/tools"
)

// scriptedProvider replays a fixed sequence of responses and records every
// request it receives.
type scriptedProvider struct {
	responses []*llm.Response
	err       error
	requests  []llm.Request
}

func (p *scriptedProvider) Call(ctx context.Context, request llm.Request) (*llm.Response, error) {
	p.requests = append(p.requests, request)
	if p.err != nil {
		return nil, p.err
	}
	if len(p.responses) == 0 {
		return &llm.Response{Content: "done"}, nil
	}
	response := p.responses[0]
	p.responses = p.responses[1:]
	return response, nil
}

func (p *scriptedProvider) Name() string { return "scripted" }

func testRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	return tools.NewRegistry(tools.NewDataAnalysis(), tools.NewDatetime())
}

func newTestAgent(t *testing.T, provider llm.Provider, opts agent.Options) *agent.Agent {
	t.Helper()
	return agent.NewWithProvider(provider, opts, testRegistry(t), zerolog.Nop())
}

func TestAgentPlainAnswer(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.Response{
		{Content: "The capital of France is Paris."},
	}}
	a := newTestAgent(t, provider, agent.Options{})

	output, err := a.Run(context.Background(), "What is the capital of France?")
	require.NoError(t, err)
	assert.Equal(t, "The capital of France is Paris.", output)

	history := a.History()
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "assistant", history[1].Role)
}

func TestAgentDispatchesToolsAndFeedsResultsBack(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCall{{
			ID:   "call_1",
			Name: "data_analysis",
			Parameters: map[string]interface{}{
				"operation": "sum",
				"values":    []interface{}{2.0, 3.0},
			},
		}}},
		{Content: "The sum is 5."},
	}}
	a := newTestAgent(t, provider, agent.Options{})

	output, err := a.Run(context.Background(), "Add 2 and 3")
	require.NoError(t, err)
	assert.Equal(t, "The sum is 5.", output)

	// Second model call must include the tool result message.
	require.Len(t, provider.requests, 2)
	messages := provider.requests[1].Messages
	require.Len(t, messages, 3)
	assert.Equal(t, "user", messages[0].Role)
	assert.Equal(t, "assistant", messages[1].Role)
	require.Len(t, messages[1].ToolCalls, 1)
	assert.Equal(t, "tool", messages[2].Role)
	assert.Equal(t, "call_1", messages[2].ToolCallID)
	assert.Equal(t, "SUM: 5", messages[2].Content)
}

func TestAgentUnknownToolResultStillReachesModel(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.Response{
		{ToolCalls: []llm.ToolCall{{ID: "call_1", Name: "no_such_tool"}}},
		{Content: "I could not use that tool."},
	}}
	a := newTestAgent(t, provider, agent.Options{})

	output, err := a.Run(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "I could not use that tool.", output)

	messages := provider.requests[1].Messages
	assert.Contains(t, messages[2].Content, "unknown tool")
}

func TestAgentIterationLimit(t *testing.T) {
	// A model that never stops calling tools must be cut off.
	looping := &loopingProvider{}
	a := newTestAgent(t, looping, agent.Options{MaxIterations: 3})

	_, err := a.Run(context.Background(), "loop forever")
	require.Error(t, err)
	assert.ErrorIs(t, err, agent.ErrIterationLimit)
	assert.Equal(t, 3, looping.calls)
}

type loopingProvider struct {
	calls int
}

func (p *loopingProvider) Call(ctx context.Context, request llm.Request) (*llm.Response, error) {
	p.calls++
	return &llm.Response{ToolCalls: []llm.ToolCall{{
		ID:   "again",
		Name: "datetime",
		Parameters: map[string]interface{}{
			"action": "current",
		},
	}}}, nil
}

func (p *loopingProvider) Name() string { return "looping" }

func TestAgentModelErrorPropagates(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("rate limited")}
	a := newTestAgent(t, provider, agent.Options{})

	_, err := a.Run(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestAgentCancelledContext(t *testing.T) {
	provider := &scriptedProvider{}
	a := newTestAgent(t, provider, agent.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Run(ctx, "hello")
	require.Error(t, err)
	assert.Empty(t, provider.requests, "cancelled turn must not call the model")
}

func TestAgentHistoryAccumulatesAcrossTurns(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.Response{
		{Content: "first answer"},
		{Content: "second answer"},
	}}
	a := newTestAgent(t, provider, agent.Options{})
	ctx := context.Background()

	_, err := a.Run(ctx, "first question")
	require.NoError(t, err)
	_, err = a.Run(ctx, "second question")
	require.NoError(t, err)

	history := a.History()
	require.Len(t, history, 4)
	assert.Equal(t, []string{"user", "assistant", "user", "assistant"},
		[]string{history[0].Role, history[1].Role, history[2].Role, history[3].Role})

	// The second call saw the whole prior conversation.
	assert.Len(t, provider.requests[1].Messages, 3)
}

func TestAgentOptionsDefaults(t *testing.T) {
	provider := &scriptedProvider{responses: []*llm.Response{{Content: "hi"}}}
	a := newTestAgent(t, provider, agent.Options{})

	_, err := a.Run(context.Background(), "hello")
	require.NoError(t, err)

	request := provider.requests[0]
	assert.Equal(t, "gpt-4", request.Model)
	assert.Equal(t, 0.7, request.Temperature)
	assert.Equal(t, 1000, request.MaxTokens)
	assert.NotEmpty(t, request.SystemPrompt)
	assert.Contains(t, request.SystemPrompt, "CURRENT DATE AND TIME")
	assert.Len(t, request.Tools, 2)
}
