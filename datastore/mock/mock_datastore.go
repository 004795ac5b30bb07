/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory DataStore for testing. Entities are kept
// as storage rows, so every Put and GetOne goes through the same metadata
// pipeline a real backend uses.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/suparena/entitymeta/datastore"
	"github.com/suparena/entitymeta/errors"
	"github.com/suparena/entitymeta/metadata"
	"github.com/suparena/entitymeta/storagemodels"
)

// DataStore is a mock implementation of datastore.DataStore[T] for testing
type DataStore[T any] struct {
	binding     *datastore.Binding[T]
	mu          sync.RWMutex
	rows        map[string]*storagemodels.Row
	putError    error
	deleteError error
}

var _ datastore.DataStore[struct{}] = (*DataStore[struct{}])(nil)

// New creates a new mock DataStore for T, described by reg.
func New[T any](reg *metadata.Registry) (*DataStore[T], error) {
	b, err := datastore.Bind[T](reg)
	if err != nil {
		return nil, err
	}
	return &DataStore[T]{
		binding: b,
		rows:    make(map[string]*storagemodels.Row),
	}, nil
}

// WithPutError makes Put and Insert operations return an error
func (m *DataStore[T]) WithPutError(err error) *DataStore[T] {
	m.putError = err
	return m
}

// WithDeleteError makes Delete operations return an error
func (m *DataStore[T]) WithDeleteError(err error) *DataStore[T] {
	m.deleteError = err
	return m
}

// GetOne retrieves an entity by identifier
func (m *DataStore[T]) GetOne(ctx context.Context, id any) (*T, error) {
	key, err := m.key(id)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	row, exists := m.rows[key]
	m.mu.RUnlock()
	if !exists {
		return nil, errors.NewNotFoundError(m.binding.Entry().Class(), key)
	}
	return m.binding.Decode(row)
}

func (m *DataStore[T]) Put(ctx context.Context, e *T) error {
	return m.put(ctx, e, false)
}

func (m *DataStore[T]) Insert(ctx context.Context, e *T) error {
	return m.put(ctx, e, true)
}

func (m *DataStore[T]) put(ctx context.Context, e *T, mustBeNew bool) error {
	if m.putError != nil {
		return m.putError
	}
	row, id, err := m.binding.Encode(ctx, e)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%v", id)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.rows[key]; exists && mustBeNew {
		return errors.NewConditionFailedError("Insert", "attribute_not_exists("+m.binding.IDColumn()+")")
	}
	m.rows[key] = row
	return nil
}

// Delete removes an entity by identifier
func (m *DataStore[T]) Delete(ctx context.Context, id any) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	key, err := m.key(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.rows[key]; !exists {
		return errors.NewNotFoundError(m.binding.Entry().Class(), key)
	}
	delete(m.rows, key)
	return nil
}

// Helper methods for testing

// Row returns the stored row of id, as written to storage.
func (m *DataStore[T]) Row(id any) (*storagemodels.Row, bool) {
	key, err := m.key(id)
	if err != nil {
		return nil, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.rows[key]
	return row, ok
}

// Count returns the number of stored entities
func (m *DataStore[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

// Clear removes all data
func (m *DataStore[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = make(map[string]*storagemodels.Row)
}

func (m *DataStore[T]) key(id any) (string, error) {
	sid, err := m.binding.StorageID(id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%v", sid), nil
}
