/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package metadata

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/suparena/entitymeta/entity"
	"github.com/suparena/entitymeta/errors"
	"github.com/suparena/entitymeta/generator"
	"github.com/suparena/entitymeta/registry"
	"github.com/suparena/entitymeta/storagemodels"
	"github.com/suparena/entitymeta/transform"
)

// ColumnMapping is the mapping of one property to one column.
type ColumnMapping struct {
	Property string
	Column   string
	// Type is the storage type name declared on @column, if any.
	Type       string
	Default    any
	HasDefault bool

	Identifier    bool
	AutoIncrement bool
	NotNull       bool
	Unique        bool
	// MinSize and MaxSize come from @size. Zero means unbounded.
	MinSize int
	MaxSize int
}

// Entry is the assembled, immutable metadata of one entity class. The
// generator and transformer instances it hands out are created on first use
// and shared afterwards.
type Entry struct {
	class       string
	goType      reflect.Type
	table       string
	columns     []ColumnMapping
	columnIndex map[string]int
	idProperty  string

	generatorType *registry.ResolvedType
	genOnce       sync.Once
	gen           generator.Generator
	genErr        error

	// one slot per property with transformers; the map itself is never
	// written after Build.
	transformers map[string]*chainSlot
}

type chainSlot struct {
	types []*registry.ResolvedType
	once  sync.Once
	chain transform.Chain
	err   error
}

func (e *Entry) Class() string { return e.class }

// GoType returns the struct type the class is bound to, or nil.
func (e *Entry) GoType() reflect.Type { return e.goType }

// Table returns the table name, empty when the class is not persistable.
func (e *Entry) Table() string { return e.table }

// Persistable reports whether the class carries @entity.
func (e *Entry) Persistable() bool { return e.table != "" }

// IDProperty returns the property marked @id, or "".
func (e *Entry) IDProperty() string { return e.idProperty }

// Columns returns the column mappings in column order.
func (e *Entry) Columns() []ColumnMapping {
	return append([]ColumnMapping(nil), e.columns...)
}

// ColumnNames returns the column names in column order.
func (e *Entry) ColumnNames() []string {
	out := make([]string, len(e.columns))
	for i, c := range e.columns {
		out[i] = c.Column
	}
	return out
}

// Column returns the mapping of property.
func (e *Entry) Column(property string) (ColumnMapping, bool) {
	i, ok := e.columnIndex[property]
	if !ok {
		return ColumnMapping{}, false
	}
	return e.columns[i], true
}

// IDColumn returns the mapping of the identifier property.
func (e *Entry) IDColumn() (ColumnMapping, bool) {
	if e.idProperty == "" {
		return ColumnMapping{}, false
	}
	return e.Column(e.idProperty)
}

// GeneratorName returns the name of the bound generator type, or "".
func (e *Entry) GeneratorName() string {
	if e.generatorType == nil {
		return ""
	}
	return e.generatorType.Name
}

// TransformerNames returns the names of the transformers bound to property,
// in declaration order.
func (e *Entry) TransformerNames(property string) []string {
	slot, ok := e.transformers[property]
	if !ok {
		return nil
	}
	names := make([]string, len(slot.types))
	for i, t := range slot.types {
		names[i] = t.Name
	}
	return names
}

// Generator returns the class's generator instance, creating it on first
// call. It returns nil, nil when no @idGenerator applies.
func (e *Entry) Generator() (generator.Generator, error) {
	if e.generatorType == nil {
		return nil, nil
	}
	e.genOnce.Do(func() {
		g, ok := e.generatorType.New().(generator.Generator)
		if !ok {
			e.genErr = fmt.Errorf("metadata: %s does not produce a generator", e.generatorType.Name)
			return
		}
		e.gen = g
	})
	return e.gen, e.genErr
}

// Transformers returns the transformer chain bound to property. Properties
// without transformers get an empty Chain.
func (e *Entry) Transformers(property string) (transform.Chain, error) {
	slot, ok := e.transformers[property]
	if !ok {
		return nil, nil
	}
	slot.once.Do(func() {
		chain := make(transform.Chain, 0, len(slot.types))
		for _, t := range slot.types {
			vt, ok := t.New().(transform.ValueTransformer)
			if !ok {
				slot.err = fmt.Errorf("metadata: %s does not produce a value transformer", t.Name)
				return
			}
			chain = append(chain, vt)
		}
		slot.chain = chain
	})
	return slot.chain, slot.err
}

// ToStorage converts the mapped properties of ent to a storage row, running
// each property through its transformer chain.
func (e *Entry) ToStorage(ent entity.Accessor) (*storagemodels.Row, error) {
	row := storagemodels.NewRow(e.table, len(e.columns))
	for _, c := range e.columns {
		chain, err := e.Transformers(c.Property)
		if err != nil {
			return nil, err
		}
		v, err := chain.ToStorageValue(ent, c.Property)
		if err != nil {
			if len(chain) == 0 {
				return nil, fmt.Errorf("metadata: reading %s.%s: %w", e.class, c.Property, err)
			}
			return nil, &errors.TransformError{
				Class:     e.class,
				Property:  c.Property,
				Table:     e.table,
				Column:    c.Column,
				Direction: errors.ToStorage,
				Err:       err,
			}
		}
		row.Set(c.Column, v)
	}
	return row, nil
}

// FromStorage copies the columns present in row onto ent, running each value
// through its transformer chain in reverse. Columns the entity does not map
// are ignored.
func (e *Entry) FromStorage(row *storagemodels.Row, ent entity.Accessor) error {
	for _, c := range e.columns {
		v, ok := row.Get(c.Column)
		if !ok {
			continue
		}
		chain, err := e.Transformers(c.Property)
		if err != nil {
			return err
		}
		// a property the accessor cannot type is read untyped
		target, _ := ent.Type(c.Property)
		if v, err = chain.ToEntityValueOf(target, e.table, c.Column, v); err != nil {
			return &errors.TransformError{
				Class:     e.class,
				Property:  c.Property,
				Table:     e.table,
				Column:    c.Column,
				Direction: errors.ToEntity,
				Err:       err,
			}
		}
		if err := ent.Set(c.Property, v); err != nil {
			return fmt.Errorf("metadata: setting %s.%s: %w", e.class, c.Property, err)
		}
	}
	return nil
}

// Insert tracks one insert operation so its identifier is generated at most
// once, however many times the pipeline asks for it.
type Insert struct {
	entity entity.Accessor
	once   sync.Once
	value  any
	err    error
}

// NewInsert starts an insert of ent.
func NewInsert(ent entity.Accessor) *Insert {
	return &Insert{entity: ent}
}

// Entity returns the entity being inserted.
func (in *Insert) Entity() entity.Accessor { return in.entity }

// GenerateID runs the class generator for in. Only the first call generates;
// later calls return the same value or error.
func (e *Entry) GenerateID(ctx context.Context, in *Insert) (any, error) {
	in.once.Do(func() {
		in.value, in.err = e.generate(ctx, in.entity)
	})
	return in.value, in.err
}

func (e *Entry) generate(ctx context.Context, ent entity.Accessor) (any, error) {
	gen, err := e.Generator()
	if err != nil {
		return nil, errors.NewGenerationError(e.class, e.idProperty, e.GeneratorName(), err)
	}
	if gen == nil {
		return nil, errors.NewGenerationError(e.class, e.idProperty, "", fmt.Errorf("no @idGenerator declared"))
	}
	v, err := gen.Generate(ctx, ent, e.idProperty)
	if err != nil {
		return nil, errors.NewGenerationError(e.class, e.idProperty, e.GeneratorName(), err)
	}
	if v == nil {
		return nil, errors.NewGenerationError(e.class, e.idProperty, e.GeneratorName(), fmt.Errorf("generator returned no value"))
	}
	return v, nil
}

// AssignID sets the identifier of the entity being inserted. Entities that
// already carry an identifier, and classes without a generator, are left
// alone. It returns the identifier the entity ends up with.
func (e *Entry) AssignID(ctx context.Context, in *Insert) (any, error) {
	if e.idProperty == "" {
		return nil, nil
	}
	current, err := in.entity.Get(e.idProperty)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}
	if e.generatorType == nil || !entity.IsZero(current) {
		return current, nil
	}
	v, err := e.GenerateID(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := in.entity.Set(e.idProperty, v); err != nil {
		return nil, errors.NewGenerationError(e.class, e.idProperty, e.GeneratorName(), err)
	}
	return v, nil
}
