package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"
)

// Local is an embedded implementation of Store backed by chromem-go, a pure
// Go in-process vector database. It exists so the tool set can be exercised
// without a hosted project: the test suite and offline experiments run
// against it with the exact same interfaces as Supabase.
type Local struct {
	db   *chromem.DB
	docs *chromem.Collection

	mu            sync.RWMutex
	tables        map[string][]map[string]interface{}
	conversations map[string]string
}

// NewLocal creates an empty embedded store.
func NewLocal() (*Local, error) {
	db := chromem.NewDB()

	docs, err := db.CreateCollection("document_chunks", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &Local{
		db:            db,
		docs:          docs,
		tables:        make(map[string][]map[string]interface{}),
		conversations: make(map[string]string),
	}, nil
}

// AddDocument seeds a document chunk with a precomputed embedding.
func (l *Local) AddDocument(ctx context.Context, id, content string, embedding []float32) error {
	err := l.docs.AddDocument(ctx, chromem.Document{
		ID:        id,
		Content:   content,
		Embedding: embedding,
	})
	if err != nil {
		return fmt.Errorf("add document: %w", err)
	}

	l.mu.Lock()
	l.tables["document_chunks"] = append(l.tables["document_chunks"], map[string]interface{}{
		"id":      id,
		"content": content,
	})
	l.mu.Unlock()
	return nil
}

// AddRow seeds a raw table row for TableReader queries.
func (l *Local) AddRow(table string, row map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tables[table] = append(l.tables[table], row)
}

// MatchDocuments performs cosine similarity search over the seeded chunks.
func (l *Local) MatchDocuments(ctx context.Context, embedding []float32, threshold float64, count int) ([]MatchResult, error) {
	// chromem-go requires nResults <= collection size; shrink until it fits.
	var results []chromem.Result
	for n := count; n >= 1; n-- {
		var err error
		results, err = l.docs.QueryEmbedding(ctx, embedding, n, nil, nil)
		if err == nil {
			break
		}
		if n == 1 {
			// Collection is empty.
			return nil, nil
		}
	}

	var matches []MatchResult
	for _, result := range results {
		if float64(result.Similarity) < threshold {
			continue
		}
		matches = append(matches, MatchResult{
			ID:         result.ID,
			Content:    result.Content,
			Similarity: float64(result.Similarity),
		})
	}
	return matches, nil
}

// Select filters seeded rows with conjunctive equality conditions.
func (l *Local) Select(ctx context.Context, table string, filters map[string]string, limit int) ([]map[string]interface{}, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var rows []map[string]interface{}
	for _, row := range l.tables[table] {
		if matchesFilters(row, filters) {
			rows = append(rows, row)
			if len(rows) >= limit {
				break
			}
		}
	}
	return rows, nil
}

// SaveConversation overwrites the stored message for conversationID.
func (l *Local) SaveConversation(ctx context.Context, conversationID, message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.conversations[conversationID] = message

	// Mirror the hosted schema so database_query sees the row too.
	for _, row := range l.tables["agent_conversations"] {
		if row["id"] == conversationID {
			row["messages"] = message
			row["updated_at"] = time.Now().UTC().Format(time.RFC3339)
			return nil
		}
	}
	l.tables["agent_conversations"] = append(l.tables["agent_conversations"], map[string]interface{}{
		"id":         conversationID,
		"messages":   message,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// GetConversation returns the stored message for conversationID.
func (l *Local) GetConversation(ctx context.Context, conversationID string) (string, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	message, ok := l.conversations[conversationID]
	return message, ok, nil
}

func matchesFilters(row map[string]interface{}, filters map[string]string) bool {
	for field, want := range filters {
		value, ok := row[field]
		if !ok {
			return false
		}
		if fmt.Sprint(value) != want {
			return false
		}
	}
	return true
}
