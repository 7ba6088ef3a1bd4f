// Package trace records agent turns to a LangSmith-compatible tracing
// service. Recording is strictly best-effort: ingestion failures are logged
// and never surface to the caller.
package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultEndpoint = "https://api.smith.langchain.com"

// Run is one recorded agent turn.
type Run struct {
	ID        uuid.UUID
	Name      string
	Inputs    map[string]interface{}
	Outputs   map[string]interface{}
	Error     string
	StartTime time.Time
	EndTime   time.Time
}

// Recorder accepts completed runs.
type Recorder interface {
	Record(ctx context.Context, run Run)
}

// Tracer posts runs to the tracing service's REST ingestion endpoint.
// A disabled tracer is a no-op recorder.
type Tracer struct {
	endpoint   string
	apiKey     string
	project    string
	enabled    bool
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a tracer for the given project. When enabled is false the
// tracer records nothing and makes no network calls.
func New(apiKey, project string, enabled bool, logger zerolog.Logger) *Tracer {
	return &Tracer{
		endpoint: defaultEndpoint,
		apiKey:   apiKey,
		project:  project,
		enabled:  enabled,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.With().Str("component", "tracer").Logger(),
	}
}

// WithEndpoint overrides the ingestion endpoint. Used by tests.
func (t *Tracer) WithEndpoint(endpoint string) *Tracer {
	t.endpoint = endpoint
	return t
}

// Record posts one run. Failures are logged at warn level and swallowed.
func (t *Tracer) Record(ctx context.Context, run Run) {
	if !t.enabled {
		return
	}

	payload := map[string]interface{}{
		"id":           run.ID.String(),
		"name":         run.Name,
		"run_type":     "chain",
		"inputs":       run.Inputs,
		"outputs":      run.Outputs,
		"start_time":   run.StartTime.UTC().Format(time.RFC3339Nano),
		"end_time":     run.EndTime.UTC().Format(time.RFC3339Nano),
		"session_name": t.project,
	}
	if run.Error != "" {
		payload["error"] = run.Error
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		t.logger.Warn().Err(err).Msg("marshal trace run")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+"/runs", bytes.NewReader(encoded))
	if err != nil {
		t.logger.Warn().Err(err).Msg("create trace request")
		return
	}
	req.Header.Set("x-api-key", t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.Warn().Err(err).Msg("post trace run")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		t.logger.Warn().Int("status", resp.StatusCode).Msg("trace ingestion rejected")
	}
}
