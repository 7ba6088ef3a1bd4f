package tools_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supalytic/supagent/tools"
)

// stubReader records every Select it receives.
type stubReader struct {
	rows    []map[string]interface{}
	err     error
	calls   int
	table   string
	filters map[string]string
	limit   int
}

func (r *stubReader) Select(ctx context.Context, table string, filters map[string]string, limit int) ([]map[string]interface{}, error) {
	r.calls++
	r.table = table
	r.filters = filters
	r.limit = limit
	if r.err != nil {
		return nil, r.err
	}
	return r.rows, nil
}

func TestDatabaseQueryAllowListRejection(t *testing.T) {
	reader := &stubReader{}
	tool := tools.NewDatabaseQuery(reader)

	for _, table := range []string{"users", "pg_catalog", "documents; drop table documents", ""} {
		got := tool.Call(context.Background(), map[string]interface{}{"table": table})
		assert.Contains(t, got, "not allowed")
		assert.Contains(t, got, "documents, agent_conversations, document_chunks")
	}

	// Disallowed table names never reach the store.
	require.Zero(t, reader.calls)
}

func TestDatabaseQueryAllowedTables(t *testing.T) {
	for _, table := range []string{"documents", "agent_conversations", "document_chunks"} {
		reader := &stubReader{}
		tool := tools.NewDatabaseQuery(reader)

		tool.Call(context.Background(), map[string]interface{}{"table": table})

		require.Equal(t, 1, reader.calls)
		assert.Equal(t, table, reader.table)
	}
}

func TestDatabaseQueryFiltersAndLimit(t *testing.T) {
	reader := &stubReader{rows: []map[string]interface{}{{"id": "7", "title": "Policy"}}}
	tool := tools.NewDatabaseQuery(reader)

	got := tool.Call(context.Background(), map[string]interface{}{
		"table": "documents",
		"filters": map[string]interface{}{
			"title": "Policy",
			"id":    float64(7),
		},
		"limit": float64(3),
	})

	assert.Equal(t, map[string]string{"title": "Policy", "id": "7"}, reader.filters)
	assert.Equal(t, 3, reader.limit)
	assert.Contains(t, got, `"title":"Policy"`)
}

func TestDatabaseQueryDefaultLimit(t *testing.T) {
	reader := &stubReader{}
	tool := tools.NewDatabaseQuery(reader)

	tool.Call(context.Background(), map[string]interface{}{"table": "documents"})
	assert.Equal(t, 10, reader.limit)
}

func TestDatabaseQueryNoRowsSentinel(t *testing.T) {
	tool := tools.NewDatabaseQuery(&stubReader{})

	got := tool.Call(context.Background(), map[string]interface{}{"table": "documents"})
	assert.Equal(t, "No records found.", got)
}

func TestDatabaseQueryRemoteFailureBecomesText(t *testing.T) {
	tool := tools.NewDatabaseQuery(&stubReader{err: errors.New("connection refused")})

	got := tool.Call(context.Background(), map[string]interface{}{"table": "documents"})
	assert.Contains(t, got, "Error querying table documents")
	assert.Contains(t, got, "connection refused")
}
