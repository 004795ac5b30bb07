/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package metadata

import (
	"github.com/suparena/entitymeta/annotation"
	"github.com/suparena/entitymeta/errors"
	"github.com/suparena/entitymeta/registry"
)

// Build assembles the Entry of decl. parents are the declarations of the
// classes decl embeds, outermost ancestor first: their inherited class-level
// annotations apply unless decl declares the same kind, and their properties
// come before decl's own in the column order.
func Build(decl *Declaration, parents ...*Declaration) (*Entry, error) {
	class := decl.Class
	if class == "" && decl.Type != nil {
		class = decl.Type.Name()
	}
	b := &builder{class: class, decl: decl}

	classAnns, err := b.classAnnotations(parents)
	if err != nil {
		return nil, err
	}
	props, err := b.properties(parents)
	if err != nil {
		return nil, err
	}

	e := &Entry{
		class:        class,
		goType:       decl.Type,
		columnIndex:  make(map[string]int),
		transformers: make(map[string]*chainSlot),
	}
	for _, a := range classAnns {
		switch a := a.(type) {
		case *annotation.Entity:
			e.table = a.Table
		case *annotation.IdGenerator:
			e.generatorType = a.Generator
		}
	}

	columns := make(map[string]string)
	for _, p := range props {
		col, err := b.column(p)
		if err != nil {
			return nil, err
		}
		if col == nil {
			continue
		}
		if other, dup := columns[col.Column]; dup {
			return nil, errors.NewInconsistentMetadataError(class, p.Name, annotation.KindColumn,
				"maps to column "+col.Column+" which is already mapped by "+other)
		}
		columns[col.Column] = p.Name

		if col.Identifier {
			if e.idProperty != "" {
				return nil, errors.NewInconsistentMetadataError(class, p.Name, annotation.KindId,
					"is declared, but "+e.idProperty+" is already the identifier")
			}
			e.idProperty = p.Name
		}
		var chain []*registry.ResolvedType
		for _, a := range p.Annotations {
			if t, ok := a.(*annotation.Transformer); ok {
				chain = append(chain, t.Transformer)
			}
		}
		if len(chain) > 0 {
			e.transformers[p.Name] = &chainSlot{types: chain}
		}
		e.columnIndex[p.Name] = len(e.columns)
		e.columns = append(e.columns, *col)
	}

	if e.generatorType != nil {
		if e.idProperty == "" {
			return nil, errors.NewInconsistentMetadataError(class, "", annotation.KindIdGenerator,
				"requires a property marked @id")
		}
		if e.columns[e.columnIndex[e.idProperty]].AutoIncrement {
			return nil, errors.NewInconsistentMetadataError(class, e.idProperty, annotation.KindAutoIncrement,
				"conflicts with the class @idGenerator")
		}
	}
	return e, nil
}

type builder struct {
	class string
	decl  *Declaration
}

func (b *builder) classAnnotations(parents []*Declaration) ([]annotation.Annotation, error) {
	own, err := b.checkAnnotations("", b.decl.Annotations, annotation.TargetClass)
	if err != nil {
		return nil, err
	}
	out := append([]annotation.Annotation(nil), b.decl.Annotations...)
	for i := len(parents) - 1; i >= 0; i-- {
		for _, a := range parents[i].Annotations {
			if !a.Usage().Inherited || own[a.Kind()] {
				continue
			}
			own[a.Kind()] = true
			out = append(out, a)
		}
	}
	return out, nil
}

func (b *builder) properties(parents []*Declaration) ([]PropertyDeclaration, error) {
	seen := make(map[string]bool, len(b.decl.Properties))
	for _, p := range b.decl.Properties {
		if seen[p.Name] {
			return nil, errors.NewInconsistentMetadataError(b.class, p.Name, "", "is declared more than once")
		}
		seen[p.Name] = true
		if b.decl.Type != nil {
			if f, ok := b.decl.Type.FieldByName(p.Name); !ok || !f.IsExported() {
				return nil, errors.NewInconsistentMetadataError(b.class, p.Name, "", "is not an exported field of the class")
			}
		}
		if _, err := b.checkAnnotations(p.Name, p.Annotations, annotation.TargetProperty); err != nil {
			return nil, err
		}
	}

	var out []PropertyDeclaration
	for _, parent := range parents {
		for _, p := range parent.Properties {
			if seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			if b.decl.Type != nil {
				if f, ok := b.decl.Type.FieldByName(p.Name); !ok || !f.IsExported() {
					return nil, errors.NewInconsistentMetadataError(b.class, p.Name, "",
						"is inherited from "+parent.Class+" but is not an exported field of the class")
				}
			}
			out = append(out, p)
		}
	}
	return append(out, b.decl.Properties...), nil
}

// checkAnnotations verifies targets and rejects repeated non-repeatable
// kinds. It returns the kinds present.
func (b *builder) checkAnnotations(property string, anns []annotation.Annotation, target annotation.Target) (map[string]bool, error) {
	kinds := make(map[string]bool, len(anns))
	for _, a := range anns {
		u := a.Usage()
		if u.Target != target {
			return nil, errors.NewInconsistentMetadataError(b.class, property, a.Kind(),
				"cannot be declared on a "+target.String())
		}
		if kinds[a.Kind()] && !u.Repeatable {
			return nil, errors.NewInconsistentMetadataError(b.class, property, a.Kind(), "is declared more than once")
		}
		kinds[a.Kind()] = true
	}
	return kinds, nil
}

// column turns the annotations of one property into its column mapping. It
// returns nil for properties that are not mapped.
func (b *builder) column(p PropertyDeclaration) (*ColumnMapping, error) {
	var (
		col   *annotation.Column
		other string
	)
	for _, a := range p.Annotations {
		if c, ok := a.(*annotation.Column); ok {
			col = c
		} else if other == "" {
			other = a.Kind()
		}
	}
	if col == nil {
		if other != "" {
			return nil, errors.NewInconsistentMetadataError(b.class, p.Name, other, "requires @column on the same property")
		}
		return nil, nil
	}

	m := &ColumnMapping{
		Property:   p.Name,
		Column:     col.Name,
		Type:       col.Type,
		Default:    col.Default,
		HasDefault: col.HasDefault,
	}
	for _, a := range p.Annotations {
		switch a := a.(type) {
		case *annotation.Id:
			m.Identifier = true
		case *annotation.AutoIncrement:
			m.AutoIncrement = true
		case *annotation.NotNull:
			m.NotNull = true
		case *annotation.Unique:
			m.Unique = true
		case *annotation.Size:
			m.MinSize, m.MaxSize = a.Min, a.Max
		}
	}
	return m, nil
}
