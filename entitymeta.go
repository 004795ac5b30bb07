/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitymeta

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/suparena/entitymeta/annotation"
	"github.com/suparena/entitymeta/datastore"
	"github.com/suparena/entitymeta/generator"
	"github.com/suparena/entitymeta/metadata"
	"github.com/suparena/entitymeta/processor"
	"github.com/suparena/entitymeta/registry"
)

// Manager wires the metadata pipeline together: the type table generators and
// transformers are resolved from, the class table Go types are bound through,
// the declaration source and the metadata registry built from it. It also
// keeps one data store per entity class.
type Manager struct {
	Types    *registry.TypeRegistry
	Resolver *registry.Resolver
	Classes  *registry.ClassRegistry
	Parser   *annotation.Parser
	Source   *metadata.StaticSource
	Registry *metadata.Registry

	logger *zap.Logger

	mu     sync.RWMutex
	stores map[reflect.Type]any
}

type options struct {
	types    *registry.TypeRegistry
	sequence generator.SequenceStore
	logger   *zap.Logger
}

type Option func(*options)

// WithTypeRegistry uses types instead of a fresh table. The built-ins are
// still added to it.
func WithTypeRegistry(types *registry.TypeRegistry) Option {
	return func(o *options) { o.types = types }
}

// WithSequenceStore registers the sequence generator backed by store.
func WithSequenceStore(store generator.SequenceStore) Option {
	return func(o *options) { o.sequence = store }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewManager creates a Manager with the built-in generators and transformers
// registered.
func NewManager(opts ...Option) (*Manager, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.types == nil {
		o.types = registry.NewTypeRegistry()
	}
	if err := RegisterBuiltins(o.types, o.sequence); err != nil {
		return nil, fmt.Errorf("failed to register built-in types: %w", err)
	}

	resolver := registry.NewResolver(o.types)
	source := metadata.NewStaticSource()
	return &Manager{
		Types:    o.types,
		Resolver: resolver,
		Classes:  registry.NewClassRegistry(),
		Parser:   annotation.NewParser(resolver),
		Source:   source,
		Registry: metadata.NewRegistry(source),
		logger:   o.logger,
		stores:   make(map[reflect.Type]any),
	}, nil
}

// RegisterClass binds the class name to the Go type T.
func RegisterClass[T any](m *Manager, name string) error {
	return registry.RegisterClass[T](m.Classes, name)
}

// LoadFile loads a YAML declaration file. Every class it declares must have
// been registered with RegisterClass first.
func (m *Manager) LoadFile(path string) error {
	s, err := processor.NewLoader(m.Parser, m.Classes).LoadFile(path)
	if err != nil {
		return err
	}
	return m.register(s)
}

// Load is LoadFile for in-memory YAML; name is used in errors.
func (m *Manager) Load(name string, data []byte) error {
	s, err := processor.NewLoader(m.Parser, m.Classes).Load(name, data)
	if err != nil {
		return err
	}
	return m.register(s)
}

func (m *Manager) register(s *processor.Schema) error {
	if err := s.Register(m.Source); err != nil {
		return err
	}
	m.logger.Info("declarations loaded",
		zap.String("file", s.Source.File), zap.Int("classes", len(s.Declarations)))
	return nil
}

// Metadata returns the entry of T.
func Metadata[T any](m *Manager) (*metadata.Entry, error) {
	return metadata.For[T](m.Registry)
}

// RegisterDataStore makes ds the data store of T. T must be a persistable
// class.
func RegisterDataStore[T any](m *Manager, ds datastore.DataStore[T]) error {
	e, err := Metadata[T](m)
	if err != nil {
		return err
	}
	if !e.Persistable() {
		return fmt.Errorf("class %s is not an @entity", e.Class())
	}

	var zero T
	t := reflect.TypeOf(zero)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.stores[t]; exists {
		return fmt.Errorf("datastore for %s already registered", e.Class())
	}
	m.stores[t] = ds
	m.logger.Debug("datastore registered", zap.String("class", e.Class()), zap.String("table", e.Table()))
	return nil
}

// DataStoreFor returns the data store registered for T.
func DataStoreFor[T any](m *Manager) (datastore.DataStore[T], error) {
	var zero T
	t := reflect.TypeOf(zero)
	m.mu.RLock()
	defer m.mu.RUnlock()
	ds, exists := m.stores[t]
	if !exists {
		return nil, fmt.Errorf("datastore for %s not found", t)
	}
	return ds.(datastore.DataStore[T]), nil
}
