/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"strings"
	"sync"

	"github.com/suparena/entitymeta/errors"
)

// Scope is the declaring context a symbol is resolved from: the namespace of
// the declaring file and the aliases it imports.
type Scope interface {
	Namespace() string
	// Alias expands an imported alias to the namespace or symbol it stands for.
	Alias(name string) (string, bool)
}

// ResolvedType is a symbol bound to a concrete registered type.
type ResolvedType struct {
	Name    string
	Type    reflect.Type
	factory Factory
}

// New returns a fresh instance of the resolved type.
func (t *ResolvedType) New() any {
	return t.factory()
}

// Implements reports whether the resolved type implements iface, given as a
// pointer to an interface, e.g. (*generator.Generator)(nil).
func (t *ResolvedType) Implements(iface any) bool {
	it := reflect.TypeOf(iface)
	if it == nil || it.Kind() != reflect.Pointer || it.Elem().Kind() != reflect.Interface {
		return false
	}
	return t.Type.Implements(it.Elem())
}

func (t *ResolvedType) String() string { return t.Name }

type symbolKey struct {
	namespace string
	expanded  string
	symbol    string
}

// Resolver turns symbols written in annotations into ResolvedTypes. Results
// are cached for the lifetime of the resolver, so resolving the same symbol
// from the same scope always yields the same *ResolvedType.
type Resolver struct {
	types *TypeRegistry

	mu      sync.RWMutex
	symbols map[symbolKey]*ResolvedType
	byName  map[string]*ResolvedType
}

// NewResolver creates a Resolver over types. A nil types uses Default.
func NewResolver(types *TypeRegistry) *Resolver {
	if types == nil {
		types = Default
	}
	return &Resolver{
		types:   types,
		symbols: make(map[symbolKey]*ResolvedType),
		byName:  make(map[string]*ResolvedType),
	}
}

// Resolve binds symbol to a registered type. The symbol is first looked up as
// fully qualified; failing that, an alias prefix ("gen.UUID") or a whole-name
// alias ("UUID") is expanded, and an unqualified symbol is tried relative to
// the scope's namespace.
func (r *Resolver) Resolve(symbol string, scope Scope) (*ResolvedType, error) {
	if scope == nil {
		return nil, errors.NewMissingContextError("")
	}
	key := symbolKey{namespace: scope.Namespace(), expanded: expandAlias(symbol, scope), symbol: symbol}

	r.mu.RLock()
	rt, ok := r.symbols[key]
	r.mu.RUnlock()
	if ok {
		return rt, nil
	}

	for _, candidate := range candidates(symbol, key) {
		entry, found := r.types.Lookup(candidate)
		if !found {
			continue
		}
		return r.remember(key, entry), nil
	}
	return nil, errors.NewUnresolvableTypeError(symbol, key.namespace)
}

func (r *Resolver) remember(key symbolKey, entry *TypeEntry) *ResolvedType {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rt, ok := r.symbols[key]; ok {
		return rt
	}
	rt, ok := r.byName[entry.Name]
	if !ok {
		rt = &ResolvedType{Name: entry.Name, Type: entry.Type, factory: entry.Factory}
		r.byName[entry.Name] = rt
	}
	r.symbols[key] = rt
	return rt
}

func expandAlias(symbol string, scope Scope) string {
	if full, ok := scope.Alias(symbol); ok {
		return full
	}
	if prefix, rest, ok := strings.Cut(symbol, "."); ok {
		if ns, ok := scope.Alias(prefix); ok {
			return ns + "." + rest
		}
	}
	return ""
}

func candidates(symbol string, key symbolKey) []string {
	out := []string{symbol}
	if key.expanded != "" {
		out = append(out, key.expanded)
	}
	if key.namespace != "" && !strings.ContainsAny(symbol, "./") {
		out = append(out, key.namespace+"."+symbol)
	}
	return out
}
