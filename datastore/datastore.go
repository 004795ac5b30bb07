/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"fmt"

	"github.com/suparena/entitymeta/entity"
	"github.com/suparena/entitymeta/metadata"
	"github.com/suparena/entitymeta/storagemodels"
)

type DataStore[T any] interface {
	// GetOne loads the entity whose identifier is id.
	GetOne(ctx context.Context, id any) (*T, error)

	// Put writes e, generating its identifier first when it has none.
	Put(ctx context.Context, e *T) error

	// Insert is Put that fails with a ConditionFailedError when the
	// identifier is already stored.
	Insert(ctx context.Context, e *T) error

	Delete(ctx context.Context, id any) error
}

// Binding ties the Go type T to its metadata entry and converts between T
// and storage rows.
type Binding[T any] struct {
	entry *metadata.Entry
	idCol metadata.ColumnMapping
}

// Bind looks up the entry of T. T must be persistable and declare an
// identifier.
func Bind[T any](reg *metadata.Registry) (*Binding[T], error) {
	e, err := metadata.For[T](reg)
	if err != nil {
		return nil, err
	}
	if !e.Persistable() {
		return nil, fmt.Errorf("class %s is not an @entity", e.Class())
	}
	idCol, ok := e.IDColumn()
	if !ok {
		return nil, fmt.Errorf("class %s has no @id property", e.Class())
	}
	return &Binding[T]{entry: e, idCol: idCol}, nil
}

func (b *Binding[T]) Entry() *metadata.Entry { return b.entry }

func (b *Binding[T]) Table() string { return b.entry.Table() }

// IDColumn returns the name of the identifier column.
func (b *Binding[T]) IDColumn() string { return b.idCol.Column }

// Encode assigns the identifier of e when missing, at most once per call, and
// returns its storage row together with the storage form of the identifier.
func (b *Binding[T]) Encode(ctx context.Context, e *T) (*storagemodels.Row, any, error) {
	if e == nil {
		return nil, nil, fmt.Errorf("cannot store a nil %s", b.entry.Class())
	}
	acc, err := entity.Of(e)
	if err != nil {
		return nil, nil, err
	}
	id, err := b.entry.AssignID(ctx, metadata.NewInsert(acc))
	if err != nil {
		return nil, nil, err
	}
	if entity.IsZero(id) {
		return nil, nil, fmt.Errorf("%s has no identifier and no @idGenerator", b.entry.Class())
	}
	row, err := b.entry.ToStorage(acc)
	if err != nil {
		return nil, nil, err
	}
	key, _ := row.Get(b.idCol.Column)
	return row, key, nil
}

// Decode builds a new T from row.
func (b *Binding[T]) Decode(row *storagemodels.Row) (*T, error) {
	out := new(T)
	acc, err := entity.Of(out)
	if err != nil {
		return nil, err
	}
	if err := b.entry.FromStorage(row, acc); err != nil {
		return nil, err
	}
	return out, nil
}

// StorageID converts an identifier given in its entity form to the form
// stored in the identifier column.
func (b *Binding[T]) StorageID(id any) (any, error) {
	chain, err := b.entry.Transformers(b.idCol.Property)
	if err != nil {
		return nil, err
	}
	if len(chain) == 0 {
		return id, nil
	}
	probe := entity.NewValues(b.entry.Class(), map[string]any{b.idCol.Property: id})
	return chain.ToStorageValue(probe, b.idCol.Property)
}
