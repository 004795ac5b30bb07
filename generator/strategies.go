/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package generator

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid"

	"github.com/suparena/entitymeta/entity"
)

// UUID generates random (version 4) or time-ordered (version 7) UUIDs.
// It is stateless and safe for concurrent use.
type UUID struct {
	Version int
}

func (g UUID) Generate(_ context.Context, e entity.Accessor, idProperty string) (any, error) {
	var (
		id  uuid.UUID
		err error
	)
	switch g.Version {
	case 0, 4:
		id, err = uuid.NewRandom()
	case 7:
		id, err = uuid.NewV7()
	default:
		return nil, fmt.Errorf("uuid: unsupported version %d", g.Version)
	}
	if err != nil {
		return nil, err
	}
	return Coerce(e, idProperty, id)
}

// ULID generates lexicographically sortable identifiers. Identifiers created
// within the same millisecond by one ULID value are strictly increasing.
type ULID struct {
	mu      sync.Mutex
	entropy io.Reader
}

// NewULID creates a ULID generator backed by crypto/rand.
func NewULID() *ULID {
	return &ULID{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ULID) Generate(_ context.Context, e entity.Accessor, idProperty string) (any, error) {
	g.mu.Lock()
	if g.entropy == nil {
		g.entropy = ulid.Monotonic(rand.Reader, 0)
	}
	id, err := ulid.New(ulid.Timestamp(time.Now()), g.entropy)
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return Coerce(e, idProperty, id)
}

// SequenceStore hands out consecutive numbers per named sequence. Stores that
// talk to a database block on I/O; every implementation in this module is
// atomic per call, so concurrent callers never receive the same number.
type SequenceStore interface {
	Next(ctx context.Context, name string) (int64, error)
}

// Sequence draws identifiers from a SequenceStore. When Name is empty the
// sequence is named after the entity class.
type Sequence struct {
	Store SequenceStore
	Name  string
}

// NewSequence creates a Sequence generator over store.
func NewSequence(store SequenceStore, name string) *Sequence {
	return &Sequence{Store: store, Name: name}
}

func (g *Sequence) Generate(ctx context.Context, e entity.Accessor, idProperty string) (any, error) {
	if g.Store == nil {
		return nil, fmt.Errorf("sequence: no store configured")
	}
	name := g.Name
	if name == "" {
		name = strings.ToLower(e.Class())
	}
	n, err := g.Store.Next(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("sequence %s: %w", name, err)
	}
	return Coerce(e, idProperty, n)
}

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// Composite builds string identifiers from a template. "{Property}" is
// replaced with the entity's property value and "{next}" with a value drawn
// from Next, e.g. "ORDER#{CustomerID}#{next}".
type Composite struct {
	Template string
	Next     Generator
}

func (g *Composite) Generate(ctx context.Context, e entity.Accessor, idProperty string) (any, error) {
	var firstErr error
	expanded := macroPattern.ReplaceAllStringFunc(g.Template, func(macro string) string {
		if firstErr != nil {
			return ""
		}
		key := strings.Trim(macro, "{}")
		if key == "next" {
			if g.Next == nil {
				firstErr = fmt.Errorf("composite: template uses {next} but no inner generator is set")
				return ""
			}
			// The inner value is embedded in a string; skip coercion to the id type.
			v, err := g.Next.Generate(ctx, entity.NewValues(e.Class(), nil), idProperty)
			if err != nil {
				firstErr = err
				return ""
			}
			return fmt.Sprint(v)
		}
		if key == idProperty {
			firstErr = fmt.Errorf("composite: template cannot reference the identifier %s", idProperty)
			return ""
		}
		v, err := e.Get(key)
		if err != nil {
			firstErr = err
			return ""
		}
		return fmt.Sprint(v)
	})
	if firstErr != nil {
		return nil, fmt.Errorf("composite %q: %w", g.Template, firstErr)
	}
	return Coerce(e, idProperty, expanded)
}

// MemoryStore is an in-process SequenceStore. The zero value is ready to use.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]int64
}

// NewMemoryStore creates an empty MemoryStore; every sequence starts at 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]int64)}
}

func (s *MemoryStore) Next(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	s.values[name]++
	return s.values[name], nil
}

// Reset sets the last value handed out for name.
func (s *MemoryStore) Reset(name string, last int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	s.values[name] = last
}

func (s *MemoryStore) init() {
	if s.values == nil {
		s.values = make(map[string]int64)
	}
}
