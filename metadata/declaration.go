/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package metadata

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/suparena/entitymeta/annotation"
	"github.com/suparena/entitymeta/errors"
)

// PropertyDeclaration lists the annotations declared on one property, in
// declaration order.
type PropertyDeclaration struct {
	Name        string
	Annotations []annotation.Annotation
}

// Declaration is everything declared on one entity class: class-level
// annotations and the annotated properties in declaration order.
type Declaration struct {
	Class string
	// Type is the Go struct the class is bound to. It may be nil for classes
	// only known by name, in which case property names are not checked.
	Type        reflect.Type
	Annotations []annotation.Annotation
	Properties  []PropertyDeclaration
	// Extends names parent classes by class name, for parents the Go type
	// does not embed. Their properties must still be fields of Type.
	Extends []string
}

// DeclarationSource supplies the declarations of entity classes. It returns a
// NotFoundError for types nothing was declared for.
type DeclarationSource interface {
	Declaration(t reflect.Type) (*Declaration, error)
}

// ClassSource is a DeclarationSource that can also look declarations up by
// class name. Registries need one to follow Declaration.Extends.
type ClassSource interface {
	DeclarationSource
	DeclarationByClass(class string) (*Declaration, error)
}

// StaticSource is a DeclarationSource populated up front, either by hand or
// by the YAML declaration loader. Both Go types and class names are unique
// within one source.
type StaticSource struct {
	mu      sync.RWMutex
	decls   map[reflect.Type]*Declaration
	byClass map[string]*Declaration
}

// NewStaticSource creates an empty StaticSource.
func NewStaticSource() *StaticSource {
	return &StaticSource{
		decls:   make(map[reflect.Type]*Declaration),
		byClass: make(map[string]*Declaration),
	}
}

// Add stores decl under decl.Type. Declaring a type or a class name twice is
// an error.
func (s *StaticSource) Add(decl *Declaration) error {
	return s.AddAll(decl)
}

// AddAll stores every declaration or none of them.
func (s *StaticSource) AddAll(decls ...*Declaration) error {
	prepared := make([]*Declaration, 0, len(decls))
	for _, decl := range decls {
		d, err := prepare(decl)
		if err != nil {
			return err
		}
		prepared = append(prepared, d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	types := make(map[reflect.Type]bool, len(prepared))
	classes := make(map[string]bool, len(prepared))
	for _, d := range prepared {
		if _, exists := s.decls[d.Type]; exists || types[d.Type] {
			return fmt.Errorf("metadata: class %s already declared", d.Class)
		}
		if _, exists := s.byClass[d.Class]; exists || classes[d.Class] {
			return fmt.Errorf("metadata: class name %s already declared", d.Class)
		}
		types[d.Type], classes[d.Class] = true, true
	}
	for _, d := range prepared {
		s.decls[d.Type] = d
		s.byClass[d.Class] = d
	}
	return nil
}

func prepare(decl *Declaration) (*Declaration, error) {
	if decl == nil || decl.Type == nil {
		return nil, fmt.Errorf("metadata: declaration without a Go type")
	}
	t := structType(decl.Type)
	if t == nil {
		return nil, fmt.Errorf("metadata: class %s must be bound to a struct type, got %v", decl.Class, decl.Type)
	}
	d := *decl
	d.Type = t
	if d.Class == "" {
		d.Class = t.Name()
	}
	return &d, nil
}

// Declare stores decl for the Go type T.
func Declare[T any](s *StaticSource, decl Declaration) error {
	var zero T
	decl.Type = reflect.TypeOf(zero)
	return s.Add(&decl)
}

func (s *StaticSource) Declaration(t reflect.Type) (*Declaration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.decls[structType(t)]; ok {
		return d, nil
	}
	return nil, errors.NewNotFoundError("declaration", typeName(t))
}

func (s *StaticSource) DeclarationByClass(class string) (*Declaration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.byClass[class]; ok {
		return d, nil
	}
	return nil, errors.NewNotFoundError("declaration", class)
}

// Declarations returns every declaration, sorted by class name.
func (s *StaticSource) Declarations() []*Declaration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Declaration, 0, len(s.decls))
	for _, d := range s.decls {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Class < out[j].Class })
	return out
}

func structType(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
