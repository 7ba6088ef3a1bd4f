package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/supalytic/supagent/llm"
	"github.com/supalytic/supagent/store"
)

const (
	// matchThreshold is the fixed similarity floor passed to the
	// match_documents RPC.
	matchThreshold = 0.78

	defaultSearchLimit = 5

	// NoDocumentsFound is the sentinel returned when the similarity search
	// yields zero rows.
	NoDocumentsFound = "No relevant documents found."
)

// NewDocumentSearch builds the document_search tool. The query is embedded
// through the hosted embeddings endpoint and matched against stored chunks
// entirely inside the store's similarity index.
func NewDocumentSearch(embedder llm.Embedder, searcher store.DocumentSearcher) *Tool {
	return New("document_search").
		Description("Search the knowledge base for documents relevant to a query. "+
			"Use this when the user asks about stored content, policies or documentation.").
		Schema(ObjectSchema(map[string]interface{}{
			"query": StringProperty("The search query"),
			"limit": IntegerProperty("Maximum number of results to return (default: 5)"),
		}, "query")).
		Handler(func(ctx context.Context, args map[string]interface{}) string {
			query, ok := stringArg(args, "query")
			if !ok || strings.TrimSpace(query) == "" {
				return "Error: 'query' must be a non-empty string."
			}
			limit := intArg(args, "limit", defaultSearchLimit)
			if limit <= 0 {
				limit = defaultSearchLimit
			}

			embedding, err := embedder.Embed(ctx, query)
			if err != nil {
				return fmt.Sprintf("Error searching documents: %v", err)
			}

			matches, err := searcher.MatchDocuments(ctx, embedding, matchThreshold, limit)
			if err != nil {
				return fmt.Sprintf("Error searching documents: %v", err)
			}
			if len(matches) == 0 {
				return NoDocumentsFound
			}

			var lines []string
			for i, match := range matches {
				if i >= limit {
					break
				}
				lines = append(lines, fmt.Sprintf("Result %d: %s", i+1, match.Content))
			}
			return strings.Join(lines, "\n")
		})
}
