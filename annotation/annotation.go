/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package annotation

import (
	"fmt"
	"math"
	"sort"

	"github.com/suparena/entitymeta/errors"
	"github.com/suparena/entitymeta/registry"
)

// Target is the kind of declaration an annotation may decorate.
type Target int

const (
	TargetClass Target = iota + 1
	TargetProperty
)

func (t Target) String() string {
	switch t {
	case TargetClass:
		return "class"
	case TargetProperty:
		return "property"
	}
	return fmt.Sprintf("Target(%d)", int(t))
}

// Usage describes where an annotation kind may appear.
type Usage struct {
	Target Target
	// Inherited class annotations also apply to classes embedding the
	// declaring class.
	Inherited bool
	// Repeatable annotations may be declared more than once on one target.
	Repeatable bool
}

// Annotation is one validated declarative metadata block. Instances are
// immutable once Parse returns them.
type Annotation interface {
	Kind() string
	Usage() Usage
}

// Properties is the raw property map of one annotation occurrence, as handed
// over by the declaration parser.
type Properties map[string]any

// Source is the declaring context of an annotation: the file it was written
// in, the namespace symbols are resolved relative to, and imported aliases.
type Source struct {
	File    string
	Package string
	Imports map[string]string
}

func (s *Source) Namespace() string { return s.Package }

func (s *Source) Alias(name string) (string, bool) {
	v, ok := s.Imports[name]
	return v, ok
}

// Init carries the raw properties of one occurrence while an annotation
// initializes itself from them. It records which keys were consumed so that
// unrecognized keys can be reported afterwards.
type Init struct {
	kind     string
	props    Properties
	source   *Source
	resolver *registry.Resolver
	used     map[string]bool
}

func (in *Init) value(key string) (any, bool) {
	in.used[key] = true
	v, ok := in.props[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Has reports whether key is present with a non-nil value.
func (in *Init) Has(key string) bool {
	_, ok := in.value(key)
	return ok
}

// Raw returns the value of key as given.
func (in *Init) Raw(key string) (any, bool) {
	return in.value(key)
}

// String returns the string value of key. A missing key is an error only when
// required.
func (in *Init) String(key string, required bool) (string, error) {
	v, ok := in.value(key)
	if !ok {
		if required {
			return "", errors.NewMissingPropertyError(in.kind, key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.NewMetadataValidationError(in.kind, key, fmt.Sprintf("must be a string, got %T", v))
	}
	if s == "" && required {
		return "", errors.NewMetadataValidationError(in.kind, key, "must not be empty")
	}
	return s, nil
}

// Int returns the integer value of key and whether it was present.
func (in *Init) Int(key string) (int, bool, error) {
	v, ok := in.value(key)
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case int:
		return n, true, nil
	case int64:
		return int(n), true, nil
	case uint64:
		if n <= math.MaxInt32 {
			return int(n), true, nil
		}
	case float64:
		if n == math.Trunc(n) {
			return int(n), true, nil
		}
	}
	return 0, false, errors.NewMetadataValidationError(in.kind, key, fmt.Sprintf("must be an integer, got %v", v))
}

// Resolve resolves the symbol stored under key to a registered type that
// implements iface, given as a pointer to an interface type.
func (in *Init) Resolve(key string, iface any) (*registry.ResolvedType, error) {
	symbol, err := in.String(key, true)
	if err != nil {
		return nil, err
	}
	if in.source == nil {
		return nil, errors.NewMissingContextError(in.kind)
	}
	rt, err := in.resolver.Resolve(symbol, in.source)
	if err != nil {
		return nil, fmt.Errorf("annotation %q: property %q: %w", in.kind, key, err)
	}
	if !rt.Implements(iface) {
		return nil, errors.NewMetadataValidationError(in.kind, key, fmt.Sprintf("type %s does not implement %T", rt.Name, iface))
	}
	return rt, nil
}

func (in *Init) unrecognized() error {
	var extra []string
	for k := range in.props {
		if !in.used[k] {
			extra = append(extra, k)
		}
	}
	if len(extra) == 0 {
		return nil
	}
	sort.Strings(extra)
	return errors.NewMetadataValidationError(in.kind, extra[0], "is not a recognized property")
}

// Initializer is implemented by annotation kinds. Init maps recognized
// properties onto the annotation and validates them.
type Initializer interface {
	Annotation
	Init(in *Init) error
}

// Parser builds annotation instances from raw property maps.
type Parser struct {
	resolver *registry.Resolver
	kinds    map[string]func() Initializer
}

// NewParser creates a Parser that resolves symbols with resolver and knows
// the built-in annotation kinds.
func NewParser(resolver *registry.Resolver) *Parser {
	if resolver == nil {
		resolver = registry.NewResolver(nil)
	}
	p := &Parser{resolver: resolver, kinds: make(map[string]func() Initializer, len(builtinKinds))}
	for k, fn := range builtinKinds {
		p.kinds[k] = fn
	}
	return p
}

// Register adds an annotation kind. Built-in kinds cannot be replaced.
func (p *Parser) Register(kind string, fn func() Initializer) error {
	if _, exists := p.kinds[kind]; exists {
		return fmt.Errorf("annotation kind %q already registered", kind)
	}
	p.kinds[kind] = fn
	return nil
}

// Parse constructs and validates one annotation occurrence. src is the
// declaring context; annotations that reference types fail with a
// MissingContextError when it is nil.
func (p *Parser) Parse(kind string, props Properties, src *Source) (Annotation, error) {
	fn, ok := p.kinds[kind]
	if !ok {
		return nil, errors.NewMetadataValidationError(kind, "", "unknown annotation kind")
	}
	a := fn()
	in := &Init{
		kind:     kind,
		props:    props,
		source:   src,
		resolver: p.resolver,
		used:     make(map[string]bool, len(props)),
	}
	if err := a.Init(in); err != nil {
		return nil, err
	}
	if err := in.unrecognized(); err != nil {
		return nil, err
	}
	return a, nil
}
