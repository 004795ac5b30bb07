/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package processor

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/suparena/entitymeta/annotation"
	"github.com/suparena/entitymeta/metadata"
	"github.com/suparena/entitymeta/registry"
)

// Loader turns YAML declaration files into metadata declarations.
type Loader struct {
	parser  *annotation.Parser
	classes *registry.ClassRegistry
}

// NewLoader creates a Loader parsing annotations with parser. Classes are
// bound to Go types through classes, which may be nil.
func NewLoader(parser *annotation.Parser, classes *registry.ClassRegistry) *Loader {
	return &Loader{parser: parser, classes: classes}
}

// Schema is the result of loading one file.
type Schema struct {
	Source       *annotation.Source
	Declarations []*metadata.Declaration

	extends map[string][]string
	byClass map[string]*metadata.Declaration
}

// LoadFile loads and parses a YAML declaration file from the given path.
func (l *Loader) LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declaration file %s: %w", path, err)
	}
	return l.Load(path, data)
}

// Load parses YAML data; name is used as the file name in errors.
func (l *Loader) Load(name string, data []byte) (*Schema, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse declaration YAML %s: %w", name, err)
	}

	s := &Schema{
		Source:  &annotation.Source{File: name, Package: f.Namespace, Imports: f.Imports},
		extends: make(map[string][]string),
		byClass: make(map[string]*metadata.Declaration),
	}
	for _, en := range f.Entities {
		decl, err := l.declaration(s.Source, en)
		if err != nil {
			return nil, err
		}
		if _, dup := s.byClass[decl.Class]; dup {
			return nil, fmt.Errorf("%s:%d: class %s declared more than once", name, en.Line, decl.Class)
		}
		decl.Extends = en.Extends
		s.byClass[decl.Class] = decl
		s.extends[decl.Class] = en.Extends
		s.Declarations = append(s.Declarations, decl)
	}
	for class, parents := range s.extends {
		for _, p := range parents {
			if _, ok := s.byClass[p]; !ok {
				return nil, fmt.Errorf("%s: class %s extends undeclared class %s", name, class, p)
			}
		}
	}
	return s, nil
}

func (l *Loader) declaration(src *annotation.Source, en EntityNode) (*metadata.Declaration, error) {
	if en.Class == "" {
		return nil, fmt.Errorf("%s:%d: entity without a class name", src.File, en.Line)
	}
	decl := &metadata.Declaration{Class: en.Class}
	if l.classes != nil {
		if t, ok := l.classes.ClassByName(qualify(src.Package, en.Class)); ok {
			decl.Type = t
		} else if t, ok := l.classes.ClassByName(en.Class); ok {
			decl.Type = t
		}
	}

	var err error
	if decl.Annotations, err = l.annotations(src, en.Annotations); err != nil {
		return nil, fmt.Errorf("%s: class %s: %w", src.File, en.Class, err)
	}
	for _, pn := range en.Properties {
		if pn.Name == "" {
			return nil, fmt.Errorf("%s:%d: class %s: property without a name", src.File, pn.Line, en.Class)
		}
		anns, err := l.annotations(src, pn.Annotations)
		if err != nil {
			return nil, fmt.Errorf("%s: class %s: property %s: %w", src.File, en.Class, pn.Name, err)
		}
		decl.Properties = append(decl.Properties, metadata.PropertyDeclaration{Name: pn.Name, Annotations: anns})
	}
	return decl, nil
}

func (l *Loader) annotations(src *annotation.Source, nodes []AnnotationNode) ([]annotation.Annotation, error) {
	out := make([]annotation.Annotation, 0, len(nodes))
	for _, n := range nodes {
		a, err := l.parser.Parse(n.Kind, n.Properties, src)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// Parents returns the declarations class extends, outermost ancestor first.
func (s *Schema) Parents(class string) ([]*metadata.Declaration, error) {
	var out []*metadata.Declaration
	if err := s.collect(class, map[string]bool{class: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Schema) collect(class string, visiting map[string]bool, out *[]*metadata.Declaration) error {
	for _, p := range s.extends[class] {
		if visiting[p] {
			return fmt.Errorf("%s: class %s has an inheritance cycle through %s", s.Source.File, class, p)
		}
		visiting[p] = true
		if err := s.collect(p, visiting, out); err != nil {
			return err
		}
		delete(visiting, p)
		*out = append(*out, s.byClass[p])
	}
	return nil
}

// Build assembles the entry of every declared class, in file order.
func (s *Schema) Build() ([]*metadata.Entry, error) {
	entries := make([]*metadata.Entry, 0, len(s.Declarations))
	for _, d := range s.Declarations {
		parents, err := s.Parents(d.Class)
		if err != nil {
			return nil, err
		}
		e, err := metadata.Build(d, parents...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Source.File, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Register adds every declaration to src, or none of them when any fails.
// All classes must be bound to Go types; parents named by extends are
// resolved through src when the entries are built.
func (s *Schema) Register(src *metadata.StaticSource) error {
	var unbound []string
	for _, d := range s.Declarations {
		if d.Type == nil {
			unbound = append(unbound, d.Class)
		}
		if _, err := s.Parents(d.Class); err != nil {
			return err
		}
	}
	if len(unbound) > 0 {
		return fmt.Errorf("%s: classes not registered with a Go type: %s", s.Source.File, strings.Join(unbound, ", "))
	}
	if err := src.AddAll(s.Declarations...); err != nil {
		return fmt.Errorf("%s: %w", s.Source.File, err)
	}
	return nil
}

func qualify(namespace, class string) string {
	if namespace == "" {
		return class
	}
	return namespace + "." + class
}
