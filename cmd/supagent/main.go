// Command supagent runs the conversational agent against a hosted model API
// and a hosted Supabase store. It takes no flags; behaviour is selected
// entirely by environment configuration.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/supalytic/supagent/agent"
	"github.com/supalytic/supagent/config"
	"github.com/supalytic/supagent/llm"
	"github.com/supalytic/supagent/store"
	"github.com/supalytic/supagent/tools"
	"github.com/supalytic/supagent/trace"
)

// demoQueries is the fixed script used by the demo and batch modes.
var demoQueries = []string{
	"Search the knowledge base for our refund policy.",
	"What is the mean of 12, 7, 19 and 4?",
	"What will the date be 30 days from now?",
}

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		// Configuration errors are fatal before any collaborator is
		// contacted.
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	openAI := llm.NewOpenAIProvider(cfg.OpenAIKey)
	embedder, err := llm.NewCachingEmbedder(openAI)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
	defer embedder.Close()

	supabase := store.NewSupabase(cfg.SupabaseURL, cfg.SupabaseKey, logger)
	registry := tools.DefaultRegistry(embedder, supabase)

	ag, err := agent.New(cfg, agent.Options{Verbose: cfg.LogLevel == "debug"}, registry, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}

	tracer := trace.New(cfg.LangSmithKey, cfg.LangSmithProject, cfg.TracingEnabled, logger)
	runner := agent.NewRunner(ag, tracer, logger)

	logger.Info().
		Str("mode", string(cfg.Mode)).
		Str("provider", string(cfg.Provider)).
		Bool("tracing", cfg.TracingEnabled).
		Msg("agent ready")

	ctx := context.Background()

	switch cfg.Mode {
	case config.ModeDemo:
		runDemo(ctx, runner)
	case config.ModeBatch:
		runBatch(ctx, runner)
	default:
		runInteractive(ctx, runner, registry)
	}
}

// runInteractive drives a blocking read-eval-print loop over stdin. Turns
// are strictly serialized: the loop suspends at each read and resumes only
// after the previous turn has fully completed.
func runInteractive(ctx context.Context, runner *agent.Runner, registry *tools.Registry) {
	fmt.Println("supagent - type a question, 'help' for tools, 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break // EOF behaves like exit
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit":
			fmt.Println("Goodbye.")
			return
		case "help":
			printHelp(registry)
			continue
		}

		result := runner.RunOnce(ctx, input, nil)
		fmt.Printf("agent> %s\n", result.Output)
		if !result.Success {
			fmt.Printf("       (failed after %dms: %s)\n", result.DurationMs, result.Error)
		}
	}
}

func printHelp(registry *tools.Registry) {
	fmt.Println("Available tools:")
	for _, name := range registry.Names() {
		tool, _ := registry.Get(name)
		fmt.Printf("  %-20s %s\n", name, tool.Describe())
	}
}

func runDemo(ctx context.Context, runner *agent.Runner) {
	for i, query := range demoQueries {
		fmt.Printf("\n[%d/%d] %s\n", i+1, len(demoQueries), query)
		result := runner.RunOnce(ctx, query, nil)
		fmt.Printf("agent> %s\n", result.Output)

		if i < len(demoQueries)-1 {
			time.Sleep(time.Second)
		}
	}
}

func runBatch(ctx context.Context, runner *agent.Runner) {
	results := runner.RunBatch(ctx, demoQueries)

	succeeded := 0
	var totalMs int64
	for i, result := range results {
		status := "ok"
		if result.Success {
			succeeded++
		} else {
			status = "failed"
		}
		totalMs += result.DurationMs
		fmt.Printf("[%d] %-6s %5dms  %s\n", i+1, status, result.DurationMs, firstLine(result.Output))
	}
	fmt.Printf("\n%d/%d queries succeeded in %dms total\n", succeeded, len(results), totalMs)
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(writer).Level(parsed).With().Timestamp().Logger()
}
