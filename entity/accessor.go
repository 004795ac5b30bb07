/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entity

import (
	"fmt"
	"reflect"

	"github.com/suparena/entitymeta/errors"
)

// Accessor reads and writes the properties of one entity instance by name.
type Accessor interface {
	// Class is the name of the entity class the instance belongs to.
	Class() string
	Get(property string) (any, error)
	Set(property string, value any) error
	// Type reports the declared type of a property.
	Type(property string) (reflect.Type, error)
}

// structAccessor exposes the exported fields of a struct, promoted fields of
// embedded structs included.
type structAccessor struct {
	v reflect.Value
}

// Of returns an Accessor over ptr, which must be a non-nil pointer to a struct.
// An Accessor passed in is returned as is.
func Of(ptr any) (Accessor, error) {
	if a, ok := ptr.(Accessor); ok {
		return a, nil
	}
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("entity: expected a non-nil pointer to a struct, got %T", ptr)
	}
	return &structAccessor{v: v.Elem()}, nil
}

func (s *structAccessor) Class() string {
	return s.v.Type().Name()
}

func (s *structAccessor) field(property string) (reflect.Value, error) {
	sf, ok := s.v.Type().FieldByName(property)
	if !ok || !sf.IsExported() {
		return reflect.Value{}, errors.NewNotFoundError(s.Class()+" property", property)
	}
	f, err := s.v.FieldByIndexErr(sf.Index)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("entity: %s.%s: %w", s.Class(), property, err)
	}
	return f, nil
}

func (s *structAccessor) Get(property string) (any, error) {
	f, err := s.field(property)
	if err != nil {
		return nil, err
	}
	return f.Interface(), nil
}

func (s *structAccessor) Set(property string, value any) error {
	f, err := s.field(property)
	if err != nil {
		return err
	}
	if err := assign(f, value); err != nil {
		return fmt.Errorf("entity: %s.%s: %w", s.Class(), property, err)
	}
	return nil
}

func (s *structAccessor) Type(property string) (reflect.Type, error) {
	sf, ok := s.v.Type().FieldByName(property)
	if !ok || !sf.IsExported() {
		return nil, errors.NewNotFoundError(s.Class()+" property", property)
	}
	return sf.Type, nil
}

// assign stores value into dst, converting between numeric kinds and between
// string kinds, and taking the address for pointer fields.
func assign(dst reflect.Value, value any) error {
	if value == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	src := reflect.ValueOf(value)
	dt := dst.Type()

	switch {
	case src.Type().AssignableTo(dt):
		dst.Set(src)
		return nil
	case isNumeric(src.Kind()) && isNumeric(dt.Kind()):
		dst.Set(src.Convert(dt))
		return nil
	case src.Kind() == reflect.String && dt.Kind() == reflect.String:
		dst.Set(src.Convert(dt))
		return nil
	case dt.Kind() == reflect.Pointer:
		elem := reflect.New(dt.Elem())
		if err := assign(elem.Elem(), value); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	case src.Kind() == reflect.Pointer && !src.IsNil():
		return assign(dst, src.Elem().Interface())
	}
	return fmt.Errorf("cannot assign %s to %s", src.Type(), dt)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// IsZero reports whether v is nil or the zero value of its type.
func IsZero(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}
