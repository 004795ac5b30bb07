/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package transform

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entitymeta/entity"
)

// suffix appends its tag on write and strips it on read.
type suffix string

func (s suffix) ToStorageValue(e entity.Accessor, property string) (any, error) {
	v, err := e.Get(property)
	if err != nil {
		return nil, err
	}
	return fmt.Sprint(v) + string(s), nil
}

func (s suffix) ToEntityValue(_, _ string, value any) (any, error) {
	str, ok := value.(string)
	if !ok || !strings.HasSuffix(str, string(s)) {
		return nil, fmt.Errorf("value %v does not end in %q", value, s)
	}
	return strings.TrimSuffix(str, string(s)), nil
}

type failing struct{ err error }

func (f failing) ToStorageValue(entity.Accessor, string) (any, error) { return nil, f.err }
func (f failing) ToEntityValue(string, string, any) (any, error)     { return nil, f.err }

type note struct {
	Body string
	Tags []string
}

func roundTrip(t *testing.T, tr ValueTransformer, value any) any {
	t.Helper()
	e := entity.NewValues("Doc", map[string]any{"Field": value})
	stored, err := tr.ToStorageValue(e, "Field")
	require.NoError(t, err)
	back, err := tr.ToEntityValue("docs", "field", stored)
	require.NoError(t, err)
	return back
}

func TestChainOrder(t *testing.T) {
	chain := Chain{suffix("1"), suffix("_2")}
	e := entity.NewValues("Doc", map[string]any{"Title": "x"})

	stored, err := chain.ToStorageValue(e, "Title")
	require.NoError(t, err)
	assert.Equal(t, "x1_2", stored)

	back, err := chain.ToEntityValue("docs", "title", stored)
	require.NoError(t, err)
	assert.Equal(t, "x", back)

	title, _ := e.Get("Title")
	assert.Equal(t, "x", title, "writing must not mutate the entity")
}

func TestChainReadOrderIsReversed(t *testing.T) {
	// Reading "x_21" would succeed if the chain were applied forwards.
	_, err := Chain{suffix("1"), suffix("_2")}.ToEntityValue("docs", "title", "x_21")
	assert.Error(t, err)
}

func TestEmptyChainPassesThrough(t *testing.T) {
	assert.Equal(t, 42, roundTrip(t, Chain{}, 42))
}

func TestChainDoesNotSwallowErrors(t *testing.T) {
	boom := errors.New("boom")
	chain := Chain{suffix("1"), failing{boom}}
	e := entity.NewValues("Doc", map[string]any{"Title": "x"})

	_, err := chain.ToStorageValue(e, "Title")
	assert.ErrorIs(t, err, boom)

	_, err = chain.ToEntityValue("docs", "title", "x1")
	assert.ErrorIs(t, err, boom)
}

func TestJSONRoundTrip(t *testing.T) {
	in := note{Body: "hello", Tags: []string{"a", "b"}}
	assert.Equal(t, in, roundTrip(t, JSON[note]{}, in))
	assert.Nil(t, roundTrip(t, JSON[note]{}, nil))

	_, err := JSON[note]{}.ToEntityValue("docs", "field", "{not json")
	assert.Error(t, err)
}

func TestDateTimeRoundTrip(t *testing.T) {
	at := time.Date(2024, 3, 9, 17, 4, 5, 123_000_000, time.UTC)

	back := roundTrip(t, DateTime{}, strfmt.DateTime(at))
	require.IsType(t, strfmt.DateTime{}, back)
	assert.True(t, time.Time(back.(strfmt.DateTime)).Equal(at))

	back = roundTrip(t, DateTime{}, &at)
	assert.True(t, time.Time(back.(strfmt.DateTime)).Equal(at))

	_, err := DateTime{}.ToEntityValue("docs", "field", "yesterday")
	assert.Error(t, err)
}

func TestUUIDRoundTrip(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id, roundTrip(t, UUID{}, id))
	assert.Equal(t, id, roundTrip(t, UUID{}, strfmt.UUID(id.String())))

	e := entity.NewValues("Doc", map[string]any{"Field": id})
	stored, err := UUID{}.ToStorageValue(e, "Field")
	require.NoError(t, err)
	assert.Len(t, stored, 16)
}

func TestEnumRoundTrip(t *testing.T) {
	status := NewEnum("draft", "published", "archived")
	for _, name := range []string{"draft", "published", "archived"} {
		assert.Equal(t, name, roundTrip(t, status, name))
	}

	e := entity.NewValues("Doc", map[string]any{"Status": "published"})
	code, err := status.ToStorageValue(e, "Status")
	require.NoError(t, err)
	assert.Equal(t, int64(1), code)

	_, err = status.ToStorageValue(entity.NewValues("Doc", map[string]any{"Status": "deleted"}), "Status")
	assert.Error(t, err)
	_, err = status.ToEntityValue("docs", "status", int64(9))
	assert.Error(t, err)

	custom := NewEnumCodes(map[string]int64{"low": 10, "high": 20})
	back, err := custom.ToEntityValue("docs", "priority", "20")
	require.NoError(t, err)
	assert.Equal(t, "high", back)
}

func typedRoundTrip(t *testing.T, tr TypedTransformer, value any) any {
	t.Helper()
	e := entity.NewValues("Doc", map[string]any{"Field": value})
	stored, err := tr.ToStorageValue(e, "Field")
	require.NoError(t, err)
	back, err := tr.ToEntityValueOf(reflect.TypeOf(value), "docs", "field", stored)
	require.NoError(t, err)
	return back
}

func TestTypedReadsReturnPropertyType(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id.String(), typedRoundTrip(t, UUID{}, id.String()))
	assert.Equal(t, strfmt.UUID(id.String()), typedRoundTrip(t, UUID{}, strfmt.UUID(id.String())))
	assert.Equal(t, id, typedRoundTrip(t, UUID{}, &id))

	at := time.Date(2024, 3, 9, 17, 4, 5, 123_456_789, time.UTC)
	assert.Equal(t, at, typedRoundTrip(t, DateTime{}, at))
	assert.Equal(t, strfmt.DateTime(at), typedRoundTrip(t, DateTime{}, strfmt.DateTime(at)))

	in := note{Body: "hello", Tags: []string{"a"}}
	assert.Equal(t, in, typedRoundTrip(t, JSON[any]{}, in))
	assert.Equal(t, []int{1, 2}, typedRoundTrip(t, JSON[any]{}, []int{1, 2}))

	_, err := UUID{}.ToEntityValueOf(reflect.TypeOf(0), "docs", "field", id[:])
	assert.Error(t, err)
	_, err = DateTime{}.ToEntityValueOf(reflect.TypeOf(""), "docs", "field", "2024-03-09T17:04:05Z")
	assert.Error(t, err)
}

func TestDateTimeStoresSortableNanoseconds(t *testing.T) {
	at := time.Date(2024, 3, 9, 17, 4, 5, 1, time.FixedZone("CET", 3600))
	stored, err := DateTime{}.ToStorageValue(entity.NewValues("Doc", map[string]any{"At": at}), "At")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09T16:04:05.000000001Z", stored)

	// values written by other tools in shorter forms still parse
	back, err := DateTime{}.ToEntityValueOf(reflect.TypeOf(time.Time{}), "docs", "at", "2024-03-09T16:04:05.123Z")
	require.NoError(t, err)
	assert.Equal(t, 123_000_000, back.(time.Time).Nanosecond())
}

// typedTag reports the target type it was asked for.
type typedTag struct{ suffix }

func (typedTag) ToEntityValueOf(target reflect.Type, _, _ string, value any) (any, error) {
	return fmt.Sprintf("%v as %v", value, target), nil
}

func TestChainPassesTypeToLastReader(t *testing.T) {
	chain := Chain{typedTag{suffix("1")}, suffix("_2")}
	back, err := chain.ToEntityValueOf(reflect.TypeOf(""), "docs", "title", "x1_2")
	require.NoError(t, err)
	assert.Equal(t, "x1 as string", back)

	back, err = Chain{}.ToEntityValueOf(reflect.TypeOf(""), "docs", "title", "x")
	require.NoError(t, err)
	assert.Equal(t, "x", back)
}
