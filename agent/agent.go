// Package agent builds and drives the conversational executor: one model
// provider, a fixed tool registry and an append-only message history.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/supalytic/supagent/config"
	"github.com/supalytic/supagent/llm"
	"github.com/supalytic/supagent/tools"
)

// ErrIterationLimit is returned when a turn exhausts its model/tool
// round-trip budget without producing a final answer.
var ErrIterationLimit = errors.New("agent iteration limit exceeded")

// Options configures agent behaviour. Zero values are filled with defaults
// at construction time.
type Options struct {
	Model         string
	Temperature   float64 // 0.0–2.0
	MaxTokens     int
	MaxIterations int // bounds the model<->tool round-trip loop per turn
	Verbose       bool
}

func (o Options) withDefaults() Options {
	if o.Model == "" {
		o.Model = "gpt-4"
	}
	if o.Temperature == 0 {
		o.Temperature = 0.7
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = 1000
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = 10
	}
	return o
}

// Agent is the stateful executor for one conversation. It owns the message
// history and appends to it as an ordered side effect of each turn, so it is
// not safe for concurrent invocation: callers must serialize turns.
type Agent struct {
	provider llm.Provider
	registry *tools.Registry
	opts     Options

	systemPrompt string
	history      []llm.Message

	logger zerolog.Logger
}

// New builds an agent from the process configuration. It fails fast when the
// model credential for the selected provider is absent; nothing is retried.
func New(cfg *config.Config, opts Options, registry *tools.Registry, logger zerolog.Logger) (*Agent, error) {
	opts = opts.withDefaults()
	if cfg.Model != "" {
		opts.Model = cfg.Model
	}
	if opts.Temperature < 0 || opts.Temperature > 2 {
		return nil, fmt.Errorf("temperature %.2f out of range [0.0, 2.0]", opts.Temperature)
	}

	var provider llm.Provider
	switch cfg.Provider {
	case config.ProviderAnthropic:
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
		provider = llm.NewAnthropicProvider(cfg.AnthropicKey)
	default:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required")
		}
		provider = llm.NewOpenAIProvider(cfg.OpenAIKey)
	}

	return &Agent{
		provider:     provider,
		registry:     registry,
		opts:         opts,
		systemPrompt: buildSystemPrompt(time.Now()),
		logger:       logger.With().Str("component", "agent").Logger(),
	}, nil
}

// NewWithProvider builds an agent around an explicit provider. The test
// suite uses this to drive the loop with a stub model.
func NewWithProvider(provider llm.Provider, opts Options, registry *tools.Registry, logger zerolog.Logger) *Agent {
	return &Agent{
		provider:     provider,
		registry:     registry,
		opts:         opts.withDefaults(),
		systemPrompt: buildSystemPrompt(time.Now()),
		logger:       logger.With().Str("component", "agent").Logger(),
	}
}

// Registry returns the agent's tool registry.
func (a *Agent) Registry() *tools.Registry {
	return a.registry
}

// History returns a copy of the conversation history accumulated so far.
func (a *Agent) History() []llm.Message {
	history := make([]llm.Message, len(a.history))
	copy(history, a.history)
	return history
}

// Run processes one user input to completion: the model is called repeatedly,
// dispatching any requested tools, until it produces a final text answer or
// the iteration budget runs out.
func (a *Agent) Run(ctx context.Context, input string) (string, error) {
	a.history = append(a.history, llm.Message{Role: "user", Content: input})

	for iteration := 0; iteration < a.opts.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("turn cancelled: %w", err)
		}

		response, err := a.provider.Call(ctx, llm.Request{
			Model:        a.opts.Model,
			SystemPrompt: a.systemPrompt,
			Messages:     a.history,
			Tools:        a.registry.Specs(),
			Temperature:  a.opts.Temperature,
			MaxTokens:    a.opts.MaxTokens,
		})
		if err != nil {
			return "", fmt.Errorf("model call: %w", err)
		}

		if response.Usage != nil {
			a.logger.Debug().
				Int("iteration", iteration+1).
				Int("input_tokens", response.Usage.InputTokens).
				Int("output_tokens", response.Usage.OutputTokens).
				Msg("model responded")
		}

		if len(response.ToolCalls) == 0 {
			a.history = append(a.history, llm.Message{Role: "assistant", Content: response.Content})
			return response.Content, nil
		}

		a.history = append(a.history, llm.Message{
			Role:      "assistant",
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})

		for _, call := range response.ToolCalls {
			result := a.registry.Dispatch(ctx, call)
			if a.opts.Verbose {
				a.logger.Info().
					Str("tool", call.Name).
					Str("result", truncate(result, 120)).
					Msg("tool executed")
			}
			a.history = append(a.history, llm.Message{
				Role:       "tool",
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}

	return "", fmt.Errorf("%w (%d iterations)", ErrIterationLimit, a.opts.MaxIterations)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
