// Package store provides access to the hosted Supabase tables and the
// match_documents similarity-search RPC, plus an embedded in-process
// implementation of the same interfaces for offline use.
package store

import "context"

// AllowedTables is the closed set of tables that may be read through the
// database_query tool. Any other table name is rejected before a request is
// built.
var AllowedTables = map[string]bool{
	"documents":           true,
	"agent_conversations": true,
	"document_chunks":     true,
}

// MatchResult is one row returned by the match_documents RPC.
type MatchResult struct {
	ID         string  `json:"id"`
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity"`
}

// DocumentSearcher performs similarity search over stored document chunks.
type DocumentSearcher interface {
	// MatchDocuments returns up to count chunks whose embedding similarity
	// to the query embedding is at least threshold, best match first.
	MatchDocuments(ctx context.Context, embedding []float32, threshold float64, count int) ([]MatchResult, error)
}

// TableReader reads rows from a table with conjunctive equality filters.
type TableReader interface {
	Select(ctx context.Context, table string, filters map[string]string, limit int) ([]map[string]interface{}, error)
}

// ConversationStore persists conversation history keyed by conversation ID.
type ConversationStore interface {
	// SaveConversation writes or overwrites the row for conversationID and
	// stamps its updated_at timestamp.
	SaveConversation(ctx context.Context, conversationID, message string) error

	// GetConversation returns the stored message content for conversationID.
	// The second return is false when no row exists.
	GetConversation(ctx context.Context, conversationID string) (string, bool, error)
}

// Store is the full hosted-store surface consumed by the tool set.
type Store interface {
	DocumentSearcher
	TableReader
	ConversationStore
}
