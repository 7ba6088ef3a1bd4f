package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/supalytic/supagent/trace"
)

// FallbackOutput is the user-safe output substituted whenever a turn fails.
const FallbackOutput = "I apologize, but I encountered an error while processing your request. Please try again."

// Result is the uniform success/failure/timing envelope produced exactly
// once per query. It is never mutated after construction.
type Result struct {
	Success    bool                   `json:"success"`
	Output     string                 `json:"output,omitempty"`
	Error      string                 `json:"error,omitempty"`
	DurationMs int64                  `json:"duration_ms"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// Runner wraps an agent with timing, failure normalization and trace
// recording. It shares the agent's serialization requirements: one turn in
// flight at a time.
type Runner struct {
	agent  *Agent
	tracer trace.Recorder
	logger zerolog.Logger
}

// NewRunner creates a runner. tracer may be a disabled no-op recorder.
func NewRunner(a *Agent, tracer trace.Recorder, logger zerolog.Logger) *Runner {
	return &Runner{
		agent:  a,
		tracer: tracer,
		logger: logger.With().Str("component", "runner").Logger(),
	}
}

// RunOnce processes one input and normalizes the outcome. No failure from
// the underlying turn ever propagates: model errors, iteration-limit
// exhaustion and unexpected panics all become a Result with Success=false
// and the fixed fallback output.
func (r *Runner) RunOnce(ctx context.Context, input string, metadata map[string]interface{}) (result Result) {
	start := time.Now()

	defer func() {
		if recovered := recover(); recovered != nil {
			result = Result{
				Success:    false,
				Output:     FallbackOutput,
				Error:      fmt.Sprintf("panic: %v", recovered),
				DurationMs: time.Since(start).Milliseconds(),
				Metadata:   metadata,
			}
		}
		r.record(ctx, input, result, start)
	}()

	output, err := r.agent.Run(ctx, input)
	result = Result{
		DurationMs: time.Since(start).Milliseconds(),
		Metadata:   metadata,
	}

	if err != nil {
		r.logger.Warn().Err(err).Msg("turn failed")
		result.Success = false
		result.Output = FallbackOutput
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.Output = output
	return result
}

// RunBatch applies RunOnce over queries strictly sequentially and in input
// order. A failing query contributes its failure result and the batch
// continues; the returned slice always has one entry per query.
func (r *Runner) RunBatch(ctx context.Context, queries []string) []Result {
	results := make([]Result, 0, len(queries))
	for i, query := range queries {
		r.logger.Info().Int("query", i+1).Int("total", len(queries)).Msg("running batch query")
		results = append(results, r.RunOnce(ctx, query, map[string]interface{}{
			"batch_index": i,
		}))
	}
	return results
}

func (r *Runner) record(ctx context.Context, input string, result Result, start time.Time) {
	if r.tracer == nil {
		return
	}
	run := trace.Run{
		ID:        uuid.New(),
		Name:      "agent_turn",
		Inputs:    map[string]interface{}{"input": input},
		StartTime: start,
		EndTime:   time.Now(),
	}
	if result.Success {
		run.Outputs = map[string]interface{}{"output": result.Output}
	} else {
		run.Error = result.Error
	}
	r.tracer.Record(ctx, run)
}
