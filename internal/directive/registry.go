package directive

import (
	"fmt"
	"sync"
)

// Registry holds directive specifications and resolves invocations by name or
// alias. Registries are injected into parse contexts; there is no ambient
// process-wide table, so independent parse contexts never interfere.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]*Spec // keyed by name and every alias
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]*Spec)}
}

// NewDefaultRegistry creates a registry with the shipped directives
// registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	// Shipped specs are valid by construction.
	if err := r.Register(CodeBlockSpec()); err != nil {
		panic(err)
	}
	if err := r.Register(CodeCellSpec()); err != nil {
		panic(err)
	}
	return r
}

// Register adds a spec under its name and all aliases. Registration fails if
// any of those keys is already taken.
func (r *Registry) Register(spec *Spec) error {
	if spec == nil {
		return fmt.Errorf("cannot register nil directive spec")
	}
	if spec.Name == "" {
		return fmt.Errorf("directive spec has no name")
	}
	if spec.Build == nil {
		return fmt.Errorf("directive %s has no build function", spec.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{spec.Name}, spec.Aliases...)
	for _, key := range keys {
		if existing, taken := r.specs[key]; taken {
			return fmt.Errorf("directive name %q already registered by %q", key, existing.Name)
		}
	}
	for _, key := range keys {
		r.specs[key] = spec
	}
	return nil
}

// Resolve looks up a spec by primary name or alias.
func (r *Registry) Resolve(name string) (*Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[name]
	return spec, ok
}

// Names returns every registered name and alias.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	return names
}
