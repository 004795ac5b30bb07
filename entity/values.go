/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entity

import (
	"reflect"

	"github.com/suparena/entitymeta/errors"
)

// Values is a map-backed Accessor for entities that have no Go struct, such as
// rows inspected from the command line.
type Values struct {
	class  string
	values map[string]any
}

// NewValues creates a Values accessor for class, copying the initial values.
func NewValues(class string, values map[string]any) *Values {
	m := make(map[string]any, len(values))
	for k, v := range values {
		m[k] = v
	}
	return &Values{class: class, values: m}
}

func (v *Values) Class() string { return v.class }

func (v *Values) Get(property string) (any, error) {
	val, ok := v.values[property]
	if !ok {
		return nil, errors.NewNotFoundError(v.class+" property", property)
	}
	return val, nil
}

func (v *Values) Set(property string, value any) error {
	v.values[property] = value
	return nil
}

func (v *Values) Type(property string) (reflect.Type, error) {
	val, ok := v.values[property]
	if !ok {
		return nil, errors.NewNotFoundError(v.class+" property", property)
	}
	return reflect.TypeOf(val), nil
}

// Map returns a copy of the current values.
func (v *Values) Map() map[string]any {
	m := make(map[string]any, len(v.values))
	for k, val := range v.values {
		m[k] = val
	}
	return m
}

// overlay reports a substitute value for one property and defers everything
// else to the wrapped accessor.
type overlay struct {
	Accessor
	property string
	value    any
}

// With returns an accessor that reads value for property and base for all
// other properties. Writes go to base.
func With(base Accessor, property string, value any) Accessor {
	return &overlay{Accessor: base, property: property, value: value}
}

func (o *overlay) Get(property string) (any, error) {
	if property == o.property {
		return o.value, nil
	}
	return o.Accessor.Get(property)
}

func (o *overlay) Type(property string) (reflect.Type, error) {
	if property == o.property {
		return reflect.TypeOf(o.value), nil
	}
	return o.Accessor.Type(property)
}
