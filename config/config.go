// Package config loads the process configuration from the environment.
//
// Configuration is read exactly once at startup into an explicit struct that
// is passed by reference into the rest of the program; nothing else reads the
// environment after Load returns.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Mode selects the CLI harness behaviour.
type Mode string

const (
	ModeInteractive Mode = "interactive"
	ModeDemo        Mode = "demo"
	ModeBatch       Mode = "batch"
)

// Provider identifies the model backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Config holds every externally supplied setting.
type Config struct {
	// Model access
	OpenAIKey    string
	AnthropicKey string
	Provider     Provider
	Model        string

	// Hosted store
	SupabaseURL string
	SupabaseKey string

	// Tracing
	LangSmithKey     string
	LangSmithProject string
	TracingEnabled   bool

	// Harness
	Mode     Mode
	LogLevel string
}

// Load reads configuration from the environment. A .env file in the working
// directory is honoured when present but never required.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:     os.Getenv("ANTHROPIC_API_KEY"),
		Provider:         Provider(getenv("AGENT_PROVIDER", string(ProviderOpenAI))),
		Model:            os.Getenv("AGENT_MODEL"),
		SupabaseURL:      strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseKey:      os.Getenv("SUPABASE_KEY"),
		LangSmithKey:     os.Getenv("LANGSMITH_API_KEY"),
		LangSmithProject: getenv("LANGSMITH_PROJECT", "supagent"),
		Mode:             Mode(getenv("AGENT_MODE", string(ModeInteractive))),
		LogLevel:         getenv("LOG_LEVEL", "info"),
	}

	if v, err := strconv.ParseBool(os.Getenv("LANGSMITH_TRACING")); err == nil {
		cfg.TracingEnabled = v
	}

	return cfg
}

// Validate checks that every required value is present. All missing variables
// are reported by name in a single error so the operator can fix them in one
// pass.
func (c *Config) Validate() error {
	var missing []string

	if c.OpenAIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.SupabaseKey == "" {
		missing = append(missing, "SUPABASE_KEY")
	}
	if c.LangSmithKey == "" {
		missing = append(missing, "LANGSMITH_API_KEY")
	}
	if c.Provider == ProviderAnthropic && c.AnthropicKey == "" {
		missing = append(missing, "ANTHROPIC_API_KEY")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	switch c.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported AGENT_PROVIDER: %q", c.Provider)
	}

	switch c.Mode {
	case ModeInteractive, ModeDemo, ModeBatch:
	default:
		return fmt.Errorf("unsupported AGENT_MODE: %q (want interactive, demo or batch)", c.Mode)
	}

	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
