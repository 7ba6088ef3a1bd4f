package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/supalytic/supagent/store"
)

const (
	defaultQueryLimit = 10

	// NoRecordsFound is the sentinel returned when a table read matches
	// nothing.
	NoRecordsFound = "No records found."
)

// NewDatabaseQuery builds the database_query tool. Reads are restricted to an
// explicit allow-list of tables; a disallowed name is rejected here and never
// reaches the store.
func NewDatabaseQuery(reader store.TableReader) *Tool {
	return New("database_query").
		Description("Query a database table with optional equality filters. "+
			"Available tables: documents, agent_conversations, document_chunks.").
		Schema(ObjectSchema(map[string]interface{}{
			"table":   StringProperty("Table to query"),
			"filters": ObjectProperty("Field-to-value equality filters, applied conjunctively"),
			"limit":   IntegerProperty("Maximum number of rows to return (default: 10)"),
		}, "table")).
		Handler(func(ctx context.Context, args map[string]interface{}) string {
			table, _ := stringArg(args, "table")
			if !store.AllowedTables[table] {
				return fmt.Sprintf(
					"Error: table %q is not allowed. Allowed tables: %s",
					table, strings.Join(allowedTableNames(), ", "))
			}

			limit := intArg(args, "limit", defaultQueryLimit)
			if limit <= 0 {
				limit = defaultQueryLimit
			}

			filters := map[string]string{}
			if raw, ok := args["filters"].(map[string]interface{}); ok {
				for field, value := range raw {
					filters[field] = fmt.Sprint(value)
				}
			}

			rows, err := reader.Select(ctx, table, filters, limit)
			if err != nil {
				return fmt.Sprintf("Error querying table %s: %v", table, err)
			}
			if len(rows) == 0 {
				return NoRecordsFound
			}

			var lines []string
			for _, row := range rows {
				encoded, err := json.Marshal(row)
				if err != nil {
					lines = append(lines, fmt.Sprint(row))
					continue
				}
				lines = append(lines, string(encoded))
			}
			return strings.Join(lines, "\n")
		})
}

func allowedTableNames() []string {
	// Fixed order keeps the rejection message stable for the model.
	return []string{"documents", "agent_conversations", "document_chunks"}
}
