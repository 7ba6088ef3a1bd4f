// Package tools defines the fixed set of callable operations the model may
// invoke, along with the registry the agent dispatches through.
//
// Failure policy: no error ever crosses a tool boundary. Validation failures,
// remote-call failures and empty-input cases are all converted into
// human-readable result strings, because the model consumes tool output as
// plain text and has no typed error channel.
package tools

import (
	"context"
	"fmt"
	"sort"

	"github.com/supalytic/supagent/llm"
)

// Handler executes a tool against validated arguments and returns the result
// as plain text.
type Handler func(ctx context.Context, args map[string]interface{}) string

// Tool is a named, schema-described callable exposed to the model.
// Tools are immutable after construction.
type Tool struct {
	name        string
	description string
	schema      map[string]interface{}
	handler     Handler
}

// New starts building a tool with the given name.
func New(name string) *Tool {
	return &Tool{name: name}
}

// Description sets the natural-language description the model selects on.
func (t *Tool) Description(description string) *Tool {
	t.description = description
	return t
}

// Schema sets the JSON Schema for the tool's arguments.
func (t *Tool) Schema(schema map[string]interface{}) *Tool {
	t.schema = schema
	return t
}

// Handler sets the tool's handler and completes construction.
func (t *Tool) Handler(handler Handler) *Tool {
	t.handler = handler
	return t
}

// Name returns the tool's unique identifier.
func (t *Tool) Name() string { return t.name }

// Describe returns the tool's description.
func (t *Tool) Describe() string { return t.description }

// Spec returns the declaration handed to the model.
func (t *Tool) Spec() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        t.name,
		Description: t.description,
		InputSchema: t.schema,
	}
}

// Call validates args against the tool's schema and runs the handler.
// Schema mismatches produce a descriptive string, not an error.
func (t *Tool) Call(ctx context.Context, args map[string]interface{}) string {
	if args == nil {
		args = map[string]interface{}{}
	}
	if problem := validateArgs(t.schema, args); problem != "" {
		return fmt.Sprintf("Error: invalid arguments for %s: %s", t.name, problem)
	}
	return t.handler(ctx, args)
}

// Registry is a name-keyed lookup table of tools. Dispatch is a table lookup,
// not inheritance; the set is fixed once the agent is constructed.
type Registry struct {
	tools map[string]*Tool
	order []string
}

// NewRegistry creates a registry holding the given tools in order.
func NewRegistry(tools ...*Tool) *Registry {
	r := &Registry{tools: make(map[string]*Tool)}
	for _, tool := range tools {
		r.Register(tool)
	}
	return r
}

// Register adds a tool, replacing any previous tool of the same name.
func (r *Registry) Register(tool *Tool) {
	if _, exists := r.tools[tool.Name()]; !exists {
		r.order = append(r.order, tool.Name())
	}
	r.tools[tool.Name()] = tool
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (*Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// Names returns all registered tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Specs returns the declarations for every registered tool, sorted by name
// for a stable wire order.
func (r *Registry) Specs() []llm.ToolSpec {
	specs := make([]llm.ToolSpec, 0, len(r.tools))
	for _, name := range r.order {
		specs = append(specs, r.tools[name].Spec())
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// Dispatch runs the tool named by call and returns its text result. Unknown
// tools and panicking handlers degrade to descriptive strings so a single
// bad invocation cannot end the turn.
func (r *Registry) Dispatch(ctx context.Context, call llm.ToolCall) (result string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			result = fmt.Sprintf("Error executing %s: %v", call.Name, recovered)
		}
	}()

	tool, ok := r.Get(call.Name)
	if !ok {
		return fmt.Sprintf("Error: unknown tool %q", call.Name)
	}
	return tool.Call(ctx, call.Parameters)
}

// validateArgs checks required fields and basic types against the schema.
// It returns an empty string when args are acceptable.
func validateArgs(schema, args map[string]interface{}) string {
	if schema == nil {
		return ""
	}

	if required, ok := schema["required"].([]string); ok {
		for _, field := range required {
			if _, present := args[field]; !present {
				return fmt.Sprintf("missing required field %q", field)
			}
		}
	}

	properties, ok := schema["properties"].(map[string]interface{})
	if !ok {
		return ""
	}

	for field, value := range args {
		property, ok := properties[field].(map[string]interface{})
		if !ok {
			continue // unknown fields are tolerated, the handler ignores them
		}
		if problem := checkType(field, property, value); problem != "" {
			return problem
		}
	}
	return ""
}

func checkType(field string, property map[string]interface{}, value interface{}) string {
	wantType, _ := property["type"].(string)

	switch wantType {
	case "string":
		s, ok := value.(string)
		if !ok {
			return fmt.Sprintf("field %q must be a string", field)
		}
		if enum, ok := property["enum"].([]string); ok && !containsString(enum, s) {
			return fmt.Sprintf("field %q must be one of %v", field, enum)
		}
	case "integer", "number":
		switch value.(type) {
		case float64, float32, int, int64:
		default:
			return fmt.Sprintf("field %q must be a number", field)
		}
	case "array":
		if _, ok := value.([]interface{}); !ok {
			return fmt.Sprintf("field %q must be an array", field)
		}
	case "object":
		if _, ok := value.(map[string]interface{}); !ok {
			return fmt.Sprintf("field %q must be an object", field)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("field %q must be a boolean", field)
		}
	}
	return ""
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
