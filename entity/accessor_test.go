/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entity

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entitymeta/errors"
)

type Audit struct {
	CreatedBy string
}

type Account struct {
	Audit
	ID       int64
	Name     string
	Nickname *string
	secret   string
}

func TestStructAccessor(t *testing.T) {
	acct := &Account{ID: 7, Name: "ada"}
	a, err := Of(acct)
	require.NoError(t, err)

	assert.Equal(t, "Account", a.Class())

	v, err := a.Get("Name")
	require.NoError(t, err)
	assert.Equal(t, "ada", v)

	t.Run("PromotedField", func(t *testing.T) {
		require.NoError(t, a.Set("CreatedBy", "root"))
		assert.Equal(t, "root", acct.CreatedBy)
	})

	t.Run("NumericConversion", func(t *testing.T) {
		require.NoError(t, a.Set("ID", 42))
		assert.Equal(t, int64(42), acct.ID)
	})

	t.Run("PointerField", func(t *testing.T) {
		require.NoError(t, a.Set("Nickname", "lovelace"))
		require.NotNil(t, acct.Nickname)
		assert.Equal(t, "lovelace", *acct.Nickname)

		require.NoError(t, a.Set("Nickname", nil))
		assert.Nil(t, acct.Nickname)
	})

	t.Run("Type", func(t *testing.T) {
		typ, err := a.Type("ID")
		require.NoError(t, err)
		assert.Equal(t, reflect.TypeOf(int64(0)), typ)
	})

	t.Run("UnknownAndUnexported", func(t *testing.T) {
		_, err := a.Get("Missing")
		assert.True(t, errors.IsNotFound(err))

		_, err = a.Get("secret")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("IncompatibleValue", func(t *testing.T) {
		assert.Error(t, a.Set("Name", 3.5))
	})
}

func TestOfRejectsNonStructPointers(t *testing.T) {
	for _, v := range []any{nil, Account{}, (*Account)(nil), new(int)} {
		_, err := Of(v)
		assert.Error(t, err, "%T", v)
	}
}

func TestValuesAndOverlay(t *testing.T) {
	vals := NewValues("Row", map[string]any{"Name": "x"})

	over := With(vals, "Name", "x1")
	got, err := over.Get("Name")
	require.NoError(t, err)
	assert.Equal(t, "x1", got)

	orig, err := vals.Get("Name")
	require.NoError(t, err)
	assert.Equal(t, "x", orig, "overlay must not change the underlying entity")

	_, err = over.Get("Other")
	assert.True(t, errors.IsNotFound(err))
}

func TestIsZero(t *testing.T) {
	assert.True(t, IsZero(nil))
	assert.True(t, IsZero(""))
	assert.True(t, IsZero(int64(0)))
	assert.False(t, IsZero("id"))
	assert.False(t, IsZero(1))
}
