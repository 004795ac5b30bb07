/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package annotation

import (
	"github.com/suparena/entitymeta/errors"
	"github.com/suparena/entitymeta/generator"
	"github.com/suparena/entitymeta/registry"
	"github.com/suparena/entitymeta/transform"
)

// Built-in annotation kinds.
const (
	KindEntity        = "entity"
	KindIdGenerator   = "idGenerator"
	KindColumn        = "column"
	KindId            = "id"
	KindAutoIncrement = "autoIncrement"
	KindNotNull       = "notNull"
	KindUnique        = "unique"
	KindSize          = "size"
	KindTransformer   = "transformer"
)

var builtinKinds = map[string]func() Initializer{
	KindEntity:        func() Initializer { return &Entity{} },
	KindIdGenerator:   func() Initializer { return &IdGenerator{} },
	KindColumn:        func() Initializer { return &Column{} },
	KindId:            func() Initializer { return &Id{} },
	KindAutoIncrement: func() Initializer { return &AutoIncrement{} },
	KindNotNull:       func() Initializer { return &NotNull{} },
	KindUnique:        func() Initializer { return &Unique{} },
	KindSize:          func() Initializer { return &Size{} },
	KindTransformer:   func() Initializer { return &Transformer{} },
}

// Entity marks a class as persistable and names its table.
type Entity struct {
	Table string
}

func (*Entity) Kind() string { return KindEntity }
func (*Entity) Usage() Usage { return Usage{Target: TargetClass} }
func (a *Entity) Init(in *Init) (err error) {
	a.Table, err = in.String("table", true)
	return err
}

// IdGenerator selects the primary key generator of a class. The class must
// also declare a property annotated with @id.
type IdGenerator struct {
	Generator *registry.ResolvedType
}

func (*IdGenerator) Kind() string { return KindIdGenerator }
func (*IdGenerator) Usage() Usage { return Usage{Target: TargetClass, Inherited: true} }
func (a *IdGenerator) Init(in *Init) (err error) {
	a.Generator, err = in.Resolve("generator", (*generator.Generator)(nil))
	return err
}

// Column maps a property to a table column.
type Column struct {
	Name string
	// Type is the storage type name, passed through to the SQL layer.
	Type       string
	Default    any
	HasDefault bool
}

func (*Column) Kind() string { return KindColumn }
func (*Column) Usage() Usage { return Usage{Target: TargetProperty} }
func (a *Column) Init(in *Init) (err error) {
	if a.Name, err = in.String("name", true); err != nil {
		return err
	}
	if a.Type, err = in.String("type", false); err != nil {
		return err
	}
	a.Default, a.HasDefault = in.Raw("default")
	return nil
}

// Id marks the identifier property.
type Id struct{}

func (*Id) Kind() string     { return KindId }
func (*Id) Usage() Usage     { return Usage{Target: TargetProperty} }
func (*Id) Init(*Init) error { return nil }

// AutoIncrement marks a column whose value is assigned by the database.
type AutoIncrement struct{}

func (*AutoIncrement) Kind() string     { return KindAutoIncrement }
func (*AutoIncrement) Usage() Usage     { return Usage{Target: TargetProperty} }
func (*AutoIncrement) Init(*Init) error { return nil }

// NotNull marks a column that rejects null values.
type NotNull struct{}

func (*NotNull) Kind() string     { return KindNotNull }
func (*NotNull) Usage() Usage     { return Usage{Target: TargetProperty} }
func (*NotNull) Init(*Init) error { return nil }

// Unique marks a column whose values must be distinct.
type Unique struct{}

func (*Unique) Kind() string     { return KindUnique }
func (*Unique) Usage() Usage     { return Usage{Target: TargetProperty} }
func (*Unique) Init(*Init) error { return nil }

// Size bounds the length of a column value. Zero means unbounded.
type Size struct {
	Min int
	Max int
}

func (*Size) Kind() string { return KindSize }
func (*Size) Usage() Usage { return Usage{Target: TargetProperty} }
func (a *Size) Init(in *Init) error {
	lo, hasMin, err := in.Int("min")
	if err != nil {
		return err
	}
	hi, hasMax, err := in.Int("max")
	if err != nil {
		return err
	}
	if !hasMin && !hasMax {
		return errors.NewMetadataValidationError(KindSize, "", "requires min or max")
	}
	if lo < 0 || hi < 0 {
		return errors.NewMetadataValidationError(KindSize, "", "bounds must not be negative")
	}
	if hasMax && hi < lo {
		return errors.NewMetadataValidationError(KindSize, "max", "must not be lower than min")
	}
	a.Min, a.Max = lo, hi
	return nil
}

// Transformer attaches a value transformer to a property. Several transformers
// on one property are applied in declaration order on write.
type Transformer struct {
	Transformer *registry.ResolvedType
}

func (*Transformer) Kind() string { return KindTransformer }
func (*Transformer) Usage() Usage { return Usage{Target: TargetProperty, Repeatable: true} }
func (a *Transformer) Init(in *Init) (err error) {
	a.Transformer, err = in.Resolve("transformer", (*transform.ValueTransformer)(nil))
	return err
}
