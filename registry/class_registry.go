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

// ClassRegistry associates entity class names, as written in declaration
// files, with Go struct types.
type ClassRegistry struct {
	mu     sync.RWMutex
	byName map[string]reflect.Type
	byType map[reflect.Type]string
}

// NewClassRegistry creates an empty ClassRegistry.
func NewClassRegistry() *ClassRegistry {
	return &ClassRegistry{
		byName: make(map[string]reflect.Type),
		byType: make(map[reflect.Type]string),
	}
}

// Register binds name to the struct type t (or the struct t points to).
func (r *ClassRegistry) Register(name string, t reflect.Type) error {
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("class registry: %q must be bound to a struct type, got %v", name, t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, exists := r.byName[name]; exists && prev != t {
		return fmt.Errorf("class registry: class %q already bound to %v", name, prev)
	}
	if prev, exists := r.byType[t]; exists && prev != name {
		return fmt.Errorf("class registry: type %v already registered as %q", t, prev)
	}
	r.byName[name] = t
	r.byType[t] = name
	return nil
}

// RegisterClass binds name to the Go type T.
func RegisterClass[T any](r *ClassRegistry, name string) error {
	var zero T
	return r.Register(name, reflect.TypeOf(zero))
}

// ClassByName returns the struct type registered under name.
func (r *ClassRegistry) ClassByName(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// ClassOf returns the class name registered for t.
func (r *ClassRegistry) ClassOf(t reflect.Type) (string, bool) {
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.byType[t]
	return name, ok
}

// Names returns every registered class name in sorted order.
func (r *ClassRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
