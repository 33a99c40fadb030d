package tools

import (
	"fmt"
	"slices"
)

// Registry is the immutable, ordered set of tools offered to the model.
type Registry struct {
	defs   []ToolDefinition
	byName map[string]int
}

// NewRegistry builds a registry in declaration order. Names must be non-empty and unique.
func NewRegistry(defs ...ToolDefinition) (*Registry, error) {
	r := &Registry{
		defs:   make([]ToolDefinition, 0, len(defs)),
		byName: make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("tools: definition with empty name")
		}
		if d.Function == nil {
			return nil, fmt.Errorf("tools: %s has no function", d.Name)
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, fmt.Errorf("tools: %s registered twice", d.Name)
		}
		r.byName[d.Name] = len(r.defs)
		r.defs = append(r.defs, d)
	}
	return r, nil
}

// MustRegistry is NewRegistry that panics on error; for static tool sets.
func MustRegistry(defs ...ToolDefinition) *Registry {
	r, err := NewRegistry(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Builtins returns all built-in tool definitions wired for the agent.
func Builtins() []ToolDefinition {
	return []ToolDefinition{ReadFileDefinition, ListFilesDefinition, EditFileDefinition, CreateFileDefinition}
}

// Default returns a registry of the built-in tools.
func Default() *Registry {
	return MustRegistry(Builtins()...)
}

// Lookup resolves name by exact match. ok is false when no tool has that name.
func (r *Registry) Lookup(name string) (def ToolDefinition, ok bool) {
	i, ok := r.byName[name]
	if !ok {
		return ToolDefinition{}, false
	}
	return r.defs[i], true
}

// Definitions returns the registered tools in order.
func (r *Registry) Definitions() []ToolDefinition {
	return slices.Clone(r.defs)
}

func (r *Registry) Len() int { return len(r.defs) }
