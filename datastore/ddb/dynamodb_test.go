/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entitymeta/datastore"
	"github.com/suparena/entitymeta/datastore/testmodels"
	"github.com/suparena/entitymeta/errors"
)

// fakeTable keeps items keyed by their string "id" attribute and honours the
// attribute_(not_)exists conditions the store sends.
type fakeTable struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
	err    error
}

func newFakeTable() *fakeTable {
	return &fakeTable{tables: make(map[string]map[string]map[string]types.AttributeValue)}
}

func keyOf(m map[string]types.AttributeValue) string {
	return m["id"].(*types.AttributeValueMemberS).Value
}

func (f *fakeTable) table(name *string) map[string]map[string]types.AttributeValue {
	t, ok := f.tables[aws.ToString(name)]
	if !ok {
		t = make(map[string]map[string]types.AttributeValue)
		f.tables[aws.ToString(name)] = t
	}
	return t
}

func (f *fakeTable) GetItem(_ context.Context, in *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &sdk.GetItemOutput{Item: f.table(in.TableName)[keyOf(in.Key)]}, nil
}

func (f *fakeTable) PutItem(_ context.Context, in *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	t := f.table(in.TableName)
	k := keyOf(in.Item)
	if aws.ToString(in.ConditionExpression) == "attribute_not_exists(#id)" {
		if _, exists := t[k]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("exists")}
		}
	}
	t[k] = in.Item
	return &sdk.PutItemOutput{}, nil
}

func (f *fakeTable) DeleteItem(_ context.Context, in *sdk.DeleteItemInput, _ ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.table(in.TableName)
	k := keyOf(in.Key)
	if _, exists := t[k]; !exists {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("missing")}
	}
	delete(t, k)
	return &sdk.DeleteItemOutput{}, nil
}

func getRatingSystemStore(t *testing.T, opts ...Option) (*DynamodbDataStore[testmodels.RatingSystem], *fakeTable) {
	t.Helper()
	reg, err := testmodels.Registry()
	require.NoError(t, err)
	fake := newFakeTable()
	store, err := NewDynamodbDataStore[testmodels.RatingSystem](fake, reg, opts...)
	require.NoError(t, err)
	return store, fake
}

var _ datastore.DataStore[testmodels.RatingSystem] = (*DynamodbDataStore[testmodels.RatingSystem])(nil)

func TestDynamoDBStorePutAndGet(t *testing.T) {
	store, fake := getRatingSystemStore(t)
	ctx := context.Background()

	ct := strfmt.DateTime(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	rs := &testmodels.RatingSystem{
		Name:        aws.String("Oakville Table Tennis Ranking System (test)"),
		Description: aws.String("This is a test rating system for Oakville Table Tennis Club"),
		CreatedAt:   &ct,
		UpdatedAt:   &ct,
	}
	require.NoError(t, store.Put(ctx, rs))
	_, err := uuid.Parse(rs.ID)
	require.NoError(t, err, "identifier generated on put")

	item := fake.tables["rating_systems"][rs.ID]
	require.NotNil(t, item)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "2025-01-02T03:04:05.000000000Z"}, item["created_at"])
	assert.Contains(t, item, "site_url")

	got, err := store.GetOne(ctx, rs.ID)
	require.NoError(t, err)
	assert.Equal(t, rs.ID, got.ID)
	assert.Equal(t, *rs.Name, *got.Name)
	assert.Equal(t, *rs.Description, *got.Description)
	assert.True(t, time.Time(*got.UpdatedAt).Equal(time.Time(ct)))
}

func TestDynamoDBStoreInsertAndDelete(t *testing.T) {
	store, _ := getRatingSystemStore(t)
	ctx := context.Background()

	rs := &testmodels.RatingSystem{ID: "TTOakville", Name: aws.String("Oakville")}
	require.NoError(t, store.Insert(ctx, rs))
	err := store.Insert(ctx, rs)
	assert.True(t, errors.IsConditionFailed(err), "got %v", err)

	require.NoError(t, store.Delete(ctx, "TTOakville"))
	err = store.Delete(ctx, "TTOakville")
	assert.True(t, errors.IsNotFound(err), "got %v", err)

	_, err = store.GetOne(ctx, "TTOakville")
	assert.True(t, errors.IsNotFound(err), "got %v", err)
}

func TestDynamoDBStoreTableOverride(t *testing.T) {
	store, fake := getRatingSystemStore(t, WithTableName("override"))
	require.NoError(t, store.Put(context.Background(), &testmodels.RatingSystem{ID: "a"}))
	assert.Len(t, fake.tables["override"], 1)
	assert.Empty(t, fake.tables["rating_systems"])
}

func TestDynamoDBStoreClientErrors(t *testing.T) {
	store, fake := getRatingSystemStore(t)
	fake.err = stderrors.New("throttled")

	err := store.Put(context.Background(), &testmodels.RatingSystem{ID: "a"})
	assert.ErrorContains(t, err, "throttled")
	_, err = store.GetOne(context.Background(), "a")
	assert.ErrorContains(t, err, "throttled")
}
