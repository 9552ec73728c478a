package fieldtype

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownFieldType is returned when no component handles a field type.
var ErrUnknownFieldType = errors.New("fieldtype: unknown field type")

// Registry maps field type identifiers to components.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Component
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{components: make(map[string]Component)}
}

// NewDefaultRegistry returns a registry with every built-in component.
func NewDefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, c := range Defaults() {
		reg.MustRegister(c)
	}
	return reg
}

// Register adds a component. Duplicate identifiers return an error.
func (r *Registry) Register(c Component) error {
	if c == nil {
		return fmt.Errorf("fieldtype: component is required")
	}
	id := c.FieldTypeIdentifier()
	if id == "" {
		return fmt.Errorf("fieldtype: field type identifier is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.components[id]; exists {
		return fmt.Errorf("fieldtype: component %q already registered", id)
	}
	r.components[id] = c
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(c Component) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Replace registers c, overriding any existing component for its identifier.
func (r *Registry) Replace(c Component) {
	if c == nil || c.FieldTypeIdentifier() == "" {
		return
	}
	r.mu.Lock()
	r.components[c.FieldTypeIdentifier()] = c
	r.mu.Unlock()
}

// Get returns the component for a field type.
func (r *Registry) Get(fieldTypeIdentifier string) (Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.components[fieldTypeIdentifier]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFieldType, fieldTypeIdentifier)
	}
	return c, nil
}

// Has reports whether a field type is registered.
func (r *Registry) Has(fieldTypeIdentifier string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.components[fieldTypeIdentifier]
	return ok
}

// List returns the registered field type identifiers, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.components))
	for id := range r.components {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
