/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitymeta_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entitymeta"
	"github.com/suparena/entitymeta/datastore/mock"
	"github.com/suparena/entitymeta/errors"
	"github.com/suparena/entitymeta/generator"
)

type Account struct {
	ID      int64
	Email   string
	Profile map[string]any
}

type Note struct {
	Key  string
	Body string
}

type Tag struct {
	Name string
}

const accountsYAML = `
namespace: app/models
imports:
  gen: entitymeta/generator
  tr: entitymeta/transform
entities:
  - class: Account
    annotations:
      - entity: {table: accounts}
      - idGenerator: {generator: gen.Sequence}
    properties:
      - name: ID
        annotations:
          - column: {name: id}
          - id
      - name: Email
        annotations:
          - column: {name: email}
          - unique
      - name: Profile
        annotations:
          - column: {name: profile}
          - transformer: {transformer: tr.JSON}
  - class: Note
    properties:
      - name: Body
        annotations:
          - column: {name: body}
`

func newManager(t *testing.T) (*entitymeta.Manager, *generator.MemoryStore) {
	t.Helper()
	seq := generator.NewMemoryStore()
	m, err := entitymeta.NewManager(entitymeta.WithSequenceStore(seq))
	require.NoError(t, err)
	require.NoError(t, entitymeta.RegisterClass[Account](m, "app/models.Account"))
	require.NoError(t, entitymeta.RegisterClass[Note](m, "app/models.Note"))
	return m, seq
}

func TestManagerLoadAndMetadata(t *testing.T) {
	m, _ := newManager(t)
	require.NoError(t, m.Load("accounts.yaml", []byte(accountsYAML)))

	e, err := entitymeta.Metadata[Account](m)
	require.NoError(t, err)
	assert.Equal(t, "accounts", e.Table())
	assert.Equal(t, []string{"id", "email", "profile"}, e.ColumnNames())
	assert.Equal(t, entitymeta.GeneratorSequence, e.GeneratorName())
	assert.Equal(t, []string{entitymeta.TransformJSON}, e.TransformerNames("Profile"))

	again, err := entitymeta.Metadata[Account](m)
	require.NoError(t, err)
	assert.Same(t, e, again)

	note, err := entitymeta.Metadata[Note](m)
	require.NoError(t, err)
	assert.False(t, note.Persistable())
}

func TestManagerLoadFile(t *testing.T) {
	m, _ := newManager(t)
	path := filepath.Join(t.TempDir(), "accounts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(accountsYAML), 0o644))
	require.NoError(t, m.LoadFile(path))

	_, err := entitymeta.Metadata[Account](m)
	assert.NoError(t, err)

	assert.Error(t, m.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestManagerFailedLoadRegistersNothing(t *testing.T) {
	m, _ := newManager(t)
	require.NoError(t, entitymeta.RegisterClass[Tag](m, "app/models.Tag"))
	require.NoError(t, m.Load("accounts.yaml", []byte(accountsYAML)))

	clash := "namespace: app/models\nentities:\n  - class: Tag\n  - class: Note\n"
	assert.Error(t, m.Load("clash.yaml", []byte(clash)))

	_, err := entitymeta.Metadata[Tag](m)
	assert.True(t, errors.IsNotFound(err), "got %v", err)
}

func TestManagerUnknownClass(t *testing.T) {
	m, _ := newManager(t)
	_, err := entitymeta.Metadata[Account](m)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestManagerWithoutSequenceStore(t *testing.T) {
	m, err := entitymeta.NewManager()
	require.NoError(t, err)
	require.NoError(t, entitymeta.RegisterClass[Account](m, "app/models.Account"))
	require.NoError(t, entitymeta.RegisterClass[Note](m, "app/models.Note"))

	// gen.Sequence cannot be resolved
	assert.Error(t, m.Load("accounts.yaml", []byte(accountsYAML)))
}

func TestBuiltinsRegistered(t *testing.T) {
	m, err := entitymeta.NewManager()
	require.NoError(t, err)
	for _, name := range []string{
		entitymeta.GeneratorUUID,
		entitymeta.GeneratorUUIDv7,
		entitymeta.GeneratorULID,
		entitymeta.TransformJSON,
		entitymeta.TransformDateTime,
		entitymeta.TransformUUID,
	} {
		_, ok := m.Types.Lookup(name)
		assert.True(t, ok, name)
	}
	_, ok := m.Types.Lookup(entitymeta.GeneratorSequence)
	assert.False(t, ok)

	// registering twice clashes
	assert.Error(t, entitymeta.RegisterBuiltins(m.Types, nil))
}

func TestDataStoreRoundTrip(t *testing.T) {
	m, _ := newManager(t)
	require.NoError(t, m.Load("accounts.yaml", []byte(accountsYAML)))

	store, err := mock.New[Account](m.Registry)
	require.NoError(t, err)
	require.NoError(t, entitymeta.RegisterDataStore[Account](m, store))

	ds, err := entitymeta.DataStoreFor[Account](m)
	require.NoError(t, err)

	ctx := context.Background()
	a := &Account{Email: "ada@example.com", Profile: map[string]any{"lang": "en"}}
	require.NoError(t, ds.Put(ctx, a))
	assert.Equal(t, int64(1), a.ID)

	b := &Account{Email: "grace@example.com"}
	require.NoError(t, ds.Put(ctx, b))
	assert.Equal(t, int64(2), b.ID)

	got, err := ds.GetOne(ctx, int64(1))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "en", got.Profile["lang"])

	raw, ok := store.Row(int64(1))
	require.True(t, ok)
	profile, _ := raw.Get("profile")
	assert.JSONEq(t, `{"lang":"en"}`, fmt.Sprint(profile))
}

func TestRegisterDataStoreErrors(t *testing.T) {
	m, _ := newManager(t)
	require.NoError(t, m.Load("accounts.yaml", []byte(accountsYAML)))

	store, err := mock.New[Account](m.Registry)
	require.NoError(t, err)
	require.NoError(t, entitymeta.RegisterDataStore[Account](m, store))
	assert.Error(t, entitymeta.RegisterDataStore[Account](m, store))

	// Note is not an @entity
	assert.Error(t, entitymeta.RegisterDataStore[Note](m, nil))

	_, err = entitymeta.DataStoreFor[Note](m)
	assert.Error(t, err)
}

func TestConcurrentDataStoreAccess(t *testing.T) {
	m, seq := newManager(t)
	require.NoError(t, m.Load("accounts.yaml", []byte(accountsYAML)))
	store, err := mock.New[Account](m.Registry)
	require.NoError(t, err)
	require.NoError(t, entitymeta.RegisterDataStore[Account](m, store))

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := entitymeta.DataStoreFor[Account](m)
			if err != nil {
				errs <- err
				return
			}
			errs <- ds.Put(context.Background(), &Account{Email: fmt.Sprintf("user%d@example.com", i)})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, n, store.Count())

	next, err := seq.Next(context.Background(), "account")
	require.NoError(t, err)
	assert.Equal(t, int64(n+1), next)
}

func TestVersionInfo(t *testing.T) {
	info := entitymeta.GetVersionInfo()
	assert.Equal(t, entitymeta.Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.String(), info.Version)
}
