/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package metadata

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/suparena/entitymeta/errors"
)

// Registry builds and caches one Entry per class. The first lookup of a class
// builds its entry; concurrent first lookups share a single build and its
// result. Failed builds are not cached, so a later lookup tries again.
type Registry struct {
	source DeclarationSource

	mu      sync.RWMutex
	entries map[reflect.Type]*Entry
	keys    map[reflect.Type]string
	// gens counts invalidations per type; a build started before one is
	// returned to its callers but not cached.
	gens map[reflect.Type]uint64

	group singleflight.Group
}

// NewRegistry creates a Registry reading declarations from source.
func NewRegistry(source DeclarationSource) *Registry {
	return &Registry{
		source:  source,
		entries: make(map[reflect.Type]*Entry),
		keys:    make(map[reflect.Type]string),
		gens:    make(map[reflect.Type]uint64),
	}
}

// MetadataFor returns the entry of the struct type t (or pointer to it).
func (r *Registry) MetadataFor(t reflect.Type) (*Entry, error) {
	st := structType(t)
	if st == nil {
		return nil, fmt.Errorf("metadata: %s is not a struct type", typeName(t))
	}
	if e := r.cached(st); e != nil {
		return e, nil
	}

	v, err, _ := r.group.Do(r.key(st), func() (any, error) {
		// a flight that finished between our cache miss and Do already
		// stored the entry
		if e := r.cached(st); e != nil {
			return e, nil
		}
		r.mu.RLock()
		gen := r.gens[st]
		r.mu.RUnlock()

		e, err := r.build(st)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		if r.gens[st] == gen {
			r.entries[st] = e
		}
		r.mu.Unlock()
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Entry), nil
}

// For returns the entry of T.
func For[T any](r *Registry) (*Entry, error) {
	var zero T
	return r.MetadataFor(reflect.TypeOf(zero))
}

// Of returns the entry of the dynamic type of v.
func (r *Registry) Of(v any) (*Entry, error) {
	return r.MetadataFor(reflect.TypeOf(v))
}

// Invalidate drops the cached entry of t so the next lookup rebuilds it.
// A build in flight when Invalidate runs is not cached. Entries already
// handed out stay valid.
func (r *Registry) Invalidate(t reflect.Type) {
	st := structType(t)
	if st == nil {
		return
	}
	r.mu.Lock()
	delete(r.entries, st)
	r.gens[st]++
	key, ok := r.keys[st]
	r.mu.Unlock()
	if ok {
		r.group.Forget(key)
	}
}

func (r *Registry) cached(t reflect.Type) *Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[t]
}

// key gives every type its own flight key. Type names alone are not unique.
func (r *Registry) key(t reflect.Type) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keys[t]
	if !ok {
		k = strconv.Itoa(len(r.keys)) + ":" + t.String()
		r.keys[t] = k
	}
	return k
}

func (r *Registry) build(t reflect.Type) (*Entry, error) {
	decl, err := r.source.Declaration(t)
	if err != nil {
		return nil, err
	}
	parents, err := r.parents(decl, map[reflect.Type]bool{t: true})
	if err != nil {
		return nil, err
	}
	return Build(decl, parents...)
}

// parents collects the declarations of the structs decl embeds and of the
// classes it extends, depth first, so the outermost ancestor comes first.
// A parent reached twice is used once.
func (r *Registry) parents(decl *Declaration, visiting map[reflect.Type]bool) ([]*Declaration, error) {
	var out []*Declaration
	add := func(p *Declaration) error {
		visiting[p.Type] = true
		grand, err := r.parents(p, visiting)
		if err != nil {
			return err
		}
		out = append(out, grand...)
		out = append(out, p)
		return nil
	}

	if t := structType(decl.Type); t != nil {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.Anonymous {
				continue
			}
			pt := structType(f.Type)
			if pt == nil || visiting[pt] {
				continue
			}
			p, err := r.source.Declaration(pt)
			if err != nil {
				if errors.IsNotFound(err) {
					continue
				}
				return nil, err
			}
			if err := add(p); err != nil {
				return nil, err
			}
		}
	}

	if len(decl.Extends) == 0 {
		return out, nil
	}
	classes, ok := r.source.(ClassSource)
	if !ok {
		return nil, fmt.Errorf("metadata: class %s extends %v, but its declaration source cannot look up classes by name", decl.Class, decl.Extends)
	}
	for _, name := range decl.Extends {
		p, err := classes.DeclarationByClass(name)
		if err != nil {
			return nil, errors.NewInconsistentMetadataError(decl.Class, "", "", "extends undeclared class "+name)
		}
		if visiting[p.Type] {
			continue
		}
		if err := add(p); err != nil {
			return nil, err
		}
	}
	return out, nil
}
