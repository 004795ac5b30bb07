/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package generator

import (
	"context"
	"fmt"
	"reflect"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/oklog/ulid"

	"github.com/suparena/entitymeta/entity"
	"github.com/suparena/entitymeta/errors"
)

// Generator produces a new primary key value for an entity about to be
// inserted. Implementations return a value assignable to the identifier
// property and must not modify any other property of e.
type Generator interface {
	Generate(ctx context.Context, e entity.Accessor, idProperty string) (any, error)
}

var (
	uuidType       = reflect.TypeOf(uuid.UUID{})
	strfmtULIDType = reflect.TypeOf(strfmt.ULID{})
)

// Coerce converts v to the declared type of property on e. Properties whose
// type is unknown (map-backed entities with no value yet) get v unchanged.
func Coerce(e entity.Accessor, property string, v any) (any, error) {
	target, err := e.Type(property)
	if err != nil {
		if errors.IsNotFound(err) {
			return v, nil
		}
		return nil, err
	}
	if target == nil {
		return v, nil
	}
	return coerceTo(target, v)
}

func coerceTo(target reflect.Type, v any) (any, error) {
	if v == nil {
		return nil, fmt.Errorf("generator produced no value for %s", target)
	}
	src := reflect.ValueOf(v)

	switch {
	case src.Type().AssignableTo(target):
		return v, nil
	case target.Kind() == reflect.Pointer:
		inner, err := coerceTo(target.Elem(), v)
		if err != nil {
			return nil, err
		}
		p := reflect.New(target.Elem())
		p.Elem().Set(reflect.ValueOf(inner))
		return p.Interface(), nil
	case target == uuidType:
		return uuid.Parse(fmt.Sprint(v))
	case target == strfmtULIDType:
		if u, ok := v.(ulid.ULID); ok {
			return strfmt.ULID{ULID: u}, nil
		}
		return strfmt.ParseULID(fmt.Sprint(v))
	case target.Kind() == reflect.String:
		return reflect.ValueOf(fmt.Sprint(v)).Convert(target).Interface(), nil
	case isInt(target.Kind()) && isInt(src.Kind()):
		n := src.Int()
		out := reflect.New(target).Elem()
		if out.OverflowInt(n) {
			return nil, fmt.Errorf("value %d overflows %s", n, target)
		}
		out.SetInt(n)
		return out.Interface(), nil
	case isUint(target.Kind()) && isInt(src.Kind()):
		n := src.Int()
		out := reflect.New(target).Elem()
		if n < 0 || out.OverflowUint(uint64(n)) {
			return nil, fmt.Errorf("value %d overflows %s", n, target)
		}
		out.SetUint(uint64(n))
		return out.Interface(), nil
	}
	return nil, fmt.Errorf("cannot use %T as %s", v, target)
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
