/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package transform

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"

	"github.com/suparena/entitymeta/entity"
)

// JSON stores a property as a JSON document. Reads decode into the
// property's Go type when it is known and into T otherwise.
type JSON[T any] struct{}

func (JSON[T]) ToStorageValue(e entity.Accessor, property string) (any, error) {
	v, err := e.Get(property)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return string(b), nil
}

func (j JSON[T]) ToEntityValue(table, column string, value any) (any, error) {
	return j.ToEntityValueOf(nil, table, column, value)
}

func (JSON[T]) ToEntityValueOf(target reflect.Type, _, _ string, value any) (any, error) {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return nil, fmt.Errorf("json: cannot decode %T", value)
	}
	if target == nil || target.Kind() == reflect.Interface {
		var out T
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
		return out, nil
	}
	out := reflect.New(target)
	if err := json.Unmarshal(raw, out.Interface()); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return out.Elem().Interface(), nil
}

// dateTimeFormat is fixed width so stored values sort in time order.
const dateTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// DateTime stores date-time properties as UTC RFC 3339 strings with
// nanosecond precision. Reads give back the property's type (time.Time or
// strfmt.DateTime, pointers included) holding the same instant in UTC, or
// strfmt.DateTime when the type is unknown.
type DateTime struct{}

func (DateTime) ToStorageValue(e entity.Accessor, property string) (any, error) {
	v, err := e.Get(property)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case nil:
		return nil, nil
	case strfmt.DateTime:
		return formatDateTime(time.Time(t)), nil
	case *strfmt.DateTime:
		if t == nil {
			return nil, nil
		}
		return formatDateTime(time.Time(*t)), nil
	case time.Time:
		return formatDateTime(t), nil
	case *time.Time:
		if t == nil {
			return nil, nil
		}
		return formatDateTime(*t), nil
	}
	return nil, fmt.Errorf("datetime: unsupported property type %T", v)
}

func formatDateTime(t time.Time) string {
	return t.UTC().Format(dateTimeFormat)
}

func (d DateTime) ToEntityValue(table, column string, value any) (any, error) {
	return d.ToEntityValueOf(nil, table, column, value)
}

func (DateTime) ToEntityValueOf(target reflect.Type, _, _ string, value any) (any, error) {
	var s string
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return nil, fmt.Errorf("datetime: cannot decode %T", value)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		dt, perr := strfmt.ParseDateTime(s)
		if perr != nil {
			return nil, fmt.Errorf("datetime: %w", perr)
		}
		t = time.Time(dt)
	}
	t = t.UTC()

	switch elem(target) {
	case reflect.TypeOf(time.Time{}):
		return t, nil
	case nil, reflect.TypeOf(strfmt.DateTime{}):
		return strfmt.DateTime(t), nil
	}
	return nil, fmt.Errorf("datetime: cannot decode into %s", target)
}

// UUID stores identifiers as their 16 raw bytes. Reads give back the
// property's type: uuid.UUID, strfmt.UUID or string (canonical lowercase
// form), pointers included; uuid.UUID when the type is unknown.
type UUID struct{}

func (UUID) ToStorageValue(e entity.Accessor, property string) (any, error) {
	v, err := e.Get(property)
	if err != nil {
		return nil, err
	}
	var id uuid.UUID
	switch u := v.(type) {
	case nil:
		return nil, nil
	case uuid.UUID:
		id = u
	case *uuid.UUID:
		if u == nil {
			return nil, nil
		}
		id = *u
	case strfmt.UUID:
		if id, err = uuid.Parse(string(u)); err != nil {
			return nil, fmt.Errorf("uuid: %w", err)
		}
	case string:
		if id, err = uuid.Parse(u); err != nil {
			return nil, fmt.Errorf("uuid: %w", err)
		}
	default:
		return nil, fmt.Errorf("uuid: unsupported property type %T", v)
	}
	b, _ := id.MarshalBinary()
	return b, nil
}

func (u UUID) ToEntityValue(table, column string, value any) (any, error) {
	return u.ToEntityValueOf(nil, table, column, value)
}

func (UUID) ToEntityValueOf(target reflect.Type, _, _ string, value any) (any, error) {
	var (
		id  uuid.UUID
		err error
	)
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		id, err = uuid.FromBytes(v)
	case string:
		id, err = uuid.Parse(v)
	default:
		return nil, fmt.Errorf("uuid: cannot decode %T", value)
	}
	if err != nil {
		return nil, fmt.Errorf("uuid: %w", err)
	}

	t := elem(target)
	switch {
	case t == nil || t == reflect.TypeOf(uuid.UUID{}):
		return id, nil
	case t == reflect.TypeOf(strfmt.UUID("")):
		return strfmt.UUID(id.String()), nil
	case t.Kind() == reflect.String:
		return reflect.ValueOf(id.String()).Convert(t).Interface(), nil
	}
	return nil, fmt.Errorf("uuid: cannot decode into %s", target)
}

// elem strips pointers off t; the accessor takes the address on assignment.
// Interface types say nothing about the value, so they count as unknown.
func elem(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Kind() == reflect.Interface {
		return nil
	}
	return t
}

// Enum stores string enumerations as integer codes.
type Enum struct {
	codes map[string]int64

	once  sync.Once
	names map[int64]string
}

// NewEnum creates an Enum whose codes are the positions of names.
func NewEnum(names ...string) *Enum {
	codes := make(map[string]int64, len(names))
	for i, n := range names {
		codes[n] = int64(i)
	}
	return &Enum{codes: codes}
}

// NewEnumCodes creates an Enum from an explicit name to code table.
func NewEnumCodes(codes map[string]int64) *Enum {
	m := make(map[string]int64, len(codes))
	for k, v := range codes {
		m[k] = v
	}
	return &Enum{codes: m}
}

func (en *Enum) reverse() map[int64]string {
	en.once.Do(func() {
		en.names = make(map[int64]string, len(en.codes))
		for n, c := range en.codes {
			en.names[c] = n
		}
	})
	return en.names
}

func (en *Enum) ToStorageValue(e entity.Accessor, property string) (any, error) {
	v, err := e.Get(property)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprint(v)
	code, ok := en.codes[name]
	if !ok {
		return nil, fmt.Errorf("enum: %q is not a member", name)
	}
	return code, nil
}

func (en *Enum) ToEntityValue(_, _ string, value any) (any, error) {
	var code int64
	switch v := value.(type) {
	case int64:
		code = v
	case int:
		code = int64(v)
	case int32:
		code = int64(v)
	case float64:
		code = int64(v)
	case string:
		c, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("enum: %w", err)
		}
		code = c
	default:
		return nil, fmt.Errorf("enum: cannot decode %T", value)
	}
	name, ok := en.reverse()[code]
	if !ok {
		return nil, fmt.Errorf("enum: unknown code %d", code)
	}
	return name, nil
}
