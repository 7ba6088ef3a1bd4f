package tools_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supalytic/supagent/llm"
	"github.com/supalytic/supagent/store"
	"github.com/supalytic/supagent/tools"
)

func TestRegistryDispatchUnknownTool(t *testing.T) {
	registry := tools.NewRegistry(tools.NewDataAnalysis())

	got := registry.Dispatch(context.Background(), llm.ToolCall{Name: "launch_rocket"})
	assert.Contains(t, got, `unknown tool "launch_rocket"`)
}

func TestRegistryDispatchRecoversFromPanic(t *testing.T) {
	exploding := tools.New("explode").
		Description("always panics").
		Schema(tools.ObjectSchema(map[string]interface{}{})).
		Handler(func(ctx context.Context, args map[string]interface{}) string {
			panic("boom")
		})
	registry := tools.NewRegistry(exploding)

	got := registry.Dispatch(context.Background(), llm.ToolCall{Name: "explode"})
	assert.Contains(t, got, "Error executing explode")
	assert.Contains(t, got, "boom")
}

func TestRegistryNamesPreserveRegistrationOrder(t *testing.T) {
	local, err := store.NewLocal()
	require.NoError(t, err)
	registry := tools.DefaultRegistry(&stubEmbedder{vector: []float32{1}}, local)

	assert.Equal(t, []string{
		"document_search",
		"database_query",
		"data_analysis",
		"datetime",
		"conversation_memory",
	}, registry.Names())
}

func TestRegistrySpecsDeclareSchemas(t *testing.T) {
	local, err := store.NewLocal()
	require.NoError(t, err)
	registry := tools.DefaultRegistry(&stubEmbedder{vector: []float32{1}}, local)

	specs := registry.Specs()
	require.Len(t, specs, 5)
	for _, spec := range specs {
		assert.NotEmpty(t, spec.Name)
		assert.NotEmpty(t, spec.Description)
		require.NotNil(t, spec.InputSchema)
		assert.Equal(t, "object", spec.InputSchema["type"])
	}
}

func TestToolValidationRejectsWrongTypes(t *testing.T) {
	tool := tools.NewDataAnalysis()

	got := tool.Call(context.Background(), map[string]interface{}{
		"operation": "mean",
		"values":    "not an array",
	})
	assert.Contains(t, got, "must be an array")

	got = tool.Call(context.Background(), map[string]interface{}{
		"operation": 42,
		"values":    []interface{}{1.0},
	})
	assert.Contains(t, got, "must be a string")
}
