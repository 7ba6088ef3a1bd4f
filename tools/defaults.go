package tools

import (
	"github.com/supalytic/supagent/llm"
	"github.com/supalytic/supagent/store"
)

// DefaultRegistry wires the five standard tools against the given embedder
// and store. The set is fixed for the lifetime of the process.
func DefaultRegistry(embedder llm.Embedder, st store.Store) *Registry {
	return NewRegistry(
		NewDocumentSearch(embedder, st),
		NewDatabaseQuery(st),
		NewDataAnalysis(),
		NewDatetime(),
		NewConversationMemory(st),
	)
}
