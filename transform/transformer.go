/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package transform

import (
	"reflect"

	"github.com/suparena/entitymeta/entity"
)

// ValueTransformer converts one property between its entity representation and
// the representation the storage layer accepts. The two directions must be
// inverses: ToEntityValue(t, c, ToStorageValue(e, p)) yields the original
// value of p for every legal value.
type ValueTransformer interface {
	// ToStorageValue reads property off e and returns the value to store.
	ToStorageValue(e entity.Accessor, property string) (any, error)
	// ToEntityValue converts a value read from table.column back to the
	// entity representation.
	ToEntityValue(table, column string, value any) (any, error)
}

// TypedTransformer is a ValueTransformer whose read side can hand back a value
// of the property's declared Go type. target is nil when the type is unknown,
// in which case the result is the same as ToEntityValue.
type TypedTransformer interface {
	ValueTransformer
	ToEntityValueOf(target reflect.Type, table, column string, value any) (any, error)
}

// Chain applies several transformers to one property. Writes run in
// declaration order, each transformer seeing the previous one's output as the
// property value; reads run in reverse order. An empty Chain passes values
// through unchanged.
type Chain []ValueTransformer

func (c Chain) ToStorageValue(e entity.Accessor, property string) (any, error) {
	if len(c) == 0 {
		return e.Get(property)
	}
	var (
		out any
		cur = e
	)
	for _, t := range c {
		v, err := t.ToStorageValue(cur, property)
		if err != nil {
			return nil, err
		}
		out = v
		cur = entity.With(e, property, v)
	}
	return out, nil
}

func (c Chain) ToEntityValue(table, column string, value any) (any, error) {
	for i := len(c) - 1; i >= 0; i-- {
		v, err := c[i].ToEntityValue(table, column, value)
		if err != nil {
			return nil, err
		}
		value = v
	}
	return value, nil
}

// ToEntityValueOf is ToEntityValue for a property of Go type target. The
// transformer that runs last on read sees target when it is a
// TypedTransformer; the others run untyped.
func (c Chain) ToEntityValueOf(target reflect.Type, table, column string, value any) (any, error) {
	if len(c) == 0 {
		return value, nil
	}
	v, err := c[1:].ToEntityValue(table, column, value)
	if err != nil {
		return nil, err
	}
	if tt, ok := c[0].(TypedTransformer); ok {
		return tt.ToEntityValueOf(target, table, column, v)
	}
	return c[0].ToEntityValue(table, column, v)
}
