/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package generator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entitymeta/entity"
)

type stringKeyed struct {
	ID   string
	Name string
}

type typedKeys struct {
	UUID   uuid.UUID
	Strfmt strfmt.UUID
	ULID   strfmt.ULID
	Seq    int32
	Ptr    *int64
	Small  int8
}

type brokenStore struct{ err error }

func (b brokenStore) Next(context.Context, string) (int64, error) { return 0, b.err }

func accessor(t *testing.T, v any) entity.Accessor {
	t.Helper()
	a, err := entity.Of(v)
	require.NoError(t, err)
	return a
}

func TestUUIDGenerator(t *testing.T) {
	ctx := context.Background()
	keys := &typedKeys{}
	a := accessor(t, keys)

	v, err := UUID{}.Generate(ctx, a, "UUID")
	require.NoError(t, err)
	assert.IsType(t, uuid.UUID{}, v)

	v, err = UUID{Version: 7}.Generate(ctx, a, "Strfmt")
	require.NoError(t, err)
	require.IsType(t, strfmt.UUID(""), v)
	assert.True(t, strfmt.IsUUID(string(v.(strfmt.UUID))))

	v, err = UUID{}.Generate(ctx, accessor(t, &stringKeyed{}), "ID")
	require.NoError(t, err)
	_, err = uuid.Parse(v.(string))
	assert.NoError(t, err)

	_, err = UUID{Version: 3}.Generate(ctx, a, "UUID")
	assert.Error(t, err)

	assert.Equal(t, uuid.UUID{}, keys.UUID, "generators never assign the identifier themselves")
}

func TestULIDGenerator(t *testing.T) {
	ctx := context.Background()
	g := NewULID()

	a := accessor(t, &stringKeyed{})
	first, err := g.Generate(ctx, a, "ID")
	require.NoError(t, err)
	second, err := g.Generate(ctx, a, "ID")
	require.NoError(t, err)
	assert.Less(t, first.(string), second.(string))

	v, err := g.Generate(ctx, accessor(t, &typedKeys{}), "ULID")
	require.NoError(t, err)
	assert.IsType(t, strfmt.ULID{}, v)
}

func TestSequenceGenerator(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Reset("orders", 41)

	v, err := NewSequence(store, "orders").Generate(ctx, accessor(t, &typedKeys{}), "Seq")
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)

	v, err = NewSequence(store, "").Generate(ctx, accessor(t, &typedKeys{}), "Ptr")
	require.NoError(t, err)
	require.IsType(t, (*int64)(nil), v)
	assert.Equal(t, int64(1), *v.(*int64))

	v, err = NewSequence(store, "orders").Generate(ctx, accessor(t, &stringKeyed{}), "ID")
	require.NoError(t, err)
	assert.Equal(t, "43", v)

	t.Run("Overflow", func(t *testing.T) {
		store.Reset("tiny", 127)
		_, err := NewSequence(store, "tiny").Generate(ctx, accessor(t, &typedKeys{}), "Small")
		assert.Error(t, err)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		boom := errors.New("table missing")
		_, err := NewSequence(brokenStore{boom}, "x").Generate(ctx, accessor(t, &typedKeys{}), "Seq")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("NoStore", func(t *testing.T) {
		_, err := (&Sequence{}).Generate(ctx, accessor(t, &typedKeys{}), "Seq")
		assert.Error(t, err)
	})
}

func TestMemoryStoreConcurrency(t *testing.T) {
	store := NewMemoryStore()
	const n = 100
	seen := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _ := store.Next(context.Background(), "s")
			seen <- v
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int64]bool)
	for v := range seen {
		unique[v] = true
	}
	assert.Len(t, unique, n)
}

func TestMemoryStoreZeroValue(t *testing.T) {
	var store MemoryStore
	v, err := store.Next(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	var reset MemoryStore
	reset.Reset("s", 41)
	v, err = reset.Next(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)
}

func TestCompositeGenerator(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	type order struct {
		ID         string
		CustomerID string
	}

	g := &Composite{Template: "ORDER#{CustomerID}#{next}", Next: NewSequence(store, "orders")}
	o := &order{CustomerID: "c-9"}
	v, err := g.Generate(ctx, accessor(t, o), "ID")
	require.NoError(t, err)
	assert.Equal(t, "ORDER#c-9#1", v)
	assert.Empty(t, o.ID)

	_, err = (&Composite{Template: "X#{Missing}"}).Generate(ctx, accessor(t, o), "ID")
	assert.Error(t, err)

	_, err = (&Composite{Template: "X#{next}"}).Generate(ctx, accessor(t, o), "ID")
	assert.Error(t, err)

	_, err = (&Composite{Template: "X#{ID}"}).Generate(ctx, accessor(t, o), "ID")
	assert.Error(t, err)
}

func TestCoerceUnknownType(t *testing.T) {
	v, err := Coerce(entity.NewValues("Row", nil), "ID", int64(5))
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	_, err = Coerce(accessor(t, &typedKeys{}), "Seq", 1.5)
	assert.Error(t, err)
}
