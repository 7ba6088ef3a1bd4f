package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Supabase talks to a hosted Supabase project over its PostgREST API.
// All vector indexing and nearest-neighbour search happens server side; this
// client only issues round-trip RPCs and table reads/writes.
type Supabase struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewSupabase creates a client for the project at baseURL.
func NewSupabase(baseURL, apiKey string, logger zerolog.Logger) *Supabase {
	return &Supabase{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger.With().Str("component", "supabase").Logger(),
	}
}

// MatchDocuments invokes the match_documents remote procedure.
func (s *Supabase) MatchDocuments(ctx context.Context, embedding []float32, threshold float64, count int) ([]MatchResult, error) {
	payload := map[string]interface{}{
		"query_embedding": embedding,
		"match_threshold": threshold,
		"match_count":     count,
	}

	body, err := s.post(ctx, s.baseURL+"/rest/v1/rpc/match_documents", payload, nil)
	if err != nil {
		return nil, fmt.Errorf("match_documents rpc: %w", err)
	}

	var results []MatchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("unmarshal match_documents response: %w", err)
	}

	s.logger.Debug().Int("matches", len(results)).Msg("match_documents returned")
	return results, nil
}

// Select reads rows from table applying each filter as an equality condition.
func (s *Supabase) Select(ctx context.Context, table string, filters map[string]string, limit int) ([]map[string]interface{}, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("limit", strconv.Itoa(limit))
	for field, value := range filters {
		query.Set(field, "eq."+value)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", s.baseURL, url.PathEscape(table), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.setHeaders(req)

	body, err := s.do(req)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal %s rows: %w", table, err)
	}
	return rows, nil
}

// SaveConversation upserts the agent_conversations row for conversationID.
func (s *Supabase) SaveConversation(ctx context.Context, conversationID, message string) error {
	payload := map[string]interface{}{
		"id":         conversationID,
		"messages":   message,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}

	headers := map[string]string{
		"Prefer": "resolution=merge-duplicates",
	}
	endpoint := s.baseURL + "/rest/v1/agent_conversations?on_conflict=id"
	if _, err := s.post(ctx, endpoint, payload, headers); err != nil {
		return fmt.Errorf("save conversation: %w", err)
	}
	return nil
}

// GetConversation reads the stored messages for conversationID.
func (s *Supabase) GetConversation(ctx context.Context, conversationID string) (string, bool, error) {
	rows, err := s.Select(ctx, "agent_conversations", map[string]string{"id": conversationID}, 1)
	if err != nil {
		return "", false, err
	}
	if len(rows) == 0 {
		return "", false, nil
	}

	messages, _ := rows[0]["messages"].(string)
	return messages, true, nil
}

func (s *Supabase) post(ctx context.Context, endpoint string, payload interface{}, headers map[string]string) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.setHeaders(req)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return s.do(req)
}

func (s *Supabase) do(req *http.Request) ([]byte, error) {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("supabase returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func (s *Supabase) setHeaders(req *http.Request) {
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
