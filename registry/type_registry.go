/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Factory returns a new, ready to use instance of a registered type.
type Factory func() any

// TypeEntry is one registered symbol.
type TypeEntry struct {
	// Name is the fully qualified symbol, e.g. "entitymeta/generator.UUID".
	Name    string
	Type    reflect.Type
	Factory Factory
}

// TypeRegistry maps fully qualified symbols to instantiable types. It replaces
// dynamic class loading: every generator or transformer an annotation may name
// has to be registered here first, typically from init() functions.
type TypeRegistry struct {
	mu      sync.RWMutex
	entries map[string]*TypeEntry
}

// NewTypeRegistry creates an empty TypeRegistry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{entries: make(map[string]*TypeEntry)}
}

// Register associates name with factory. The factory is called once to learn
// the concrete type it produces. Registering a name twice is an error.
func (r *TypeRegistry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("type registry: empty type name")
	}
	if factory == nil {
		return fmt.Errorf("type registry: nil factory for %q", name)
	}
	sample := factory()
	if sample == nil {
		return fmt.Errorf("type registry: factory for %q returned nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("type registry: type %q already registered", name)
	}
	r.entries[name] = &TypeEntry{Name: name, Type: reflect.TypeOf(sample), Factory: factory}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *TypeRegistry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Lookup returns the entry registered under name.
func (r *TypeRegistry) Lookup(name string) (*TypeEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// Names returns every registered symbol in sorted order.
func (r *TypeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default is the process-wide type registry.
var Default = NewTypeRegistry()

// RegisterType registers a factory in the Default registry.
func RegisterType(name string, factory Factory) error {
	return Default.Register(name, factory)
}

// MustRegisterType registers a factory in the Default registry and panics on error.
func MustRegisterType(name string, factory Factory) {
	Default.MustRegister(name, factory)
}
