/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entitymeta/generator"
)

// fakeCounter applies ADD updates to an in-memory table.
type fakeCounter struct {
	mu       sync.Mutex
	counters map[string]int64
	last     *sdk.UpdateItemInput
	err      error
	omit     bool
}

func (f *fakeCounter) UpdateItem(_ context.Context, in *sdk.UpdateItemInput, _ ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = in
	if f.err != nil {
		return nil, f.err
	}
	if f.omit {
		return &sdk.UpdateItemOutput{}, nil
	}
	if f.counters == nil {
		f.counters = make(map[string]int64)
	}
	key := aws.ToString(in.TableName) + "/" + in.Key["PK"].(*types.AttributeValueMemberS).Value
	f.counters[key]++
	attr := in.ExpressionAttributeNames["#v"]
	return &sdk.UpdateItemOutput{
		Attributes: map[string]types.AttributeValue{
			attr: &types.AttributeValueMemberN{Value: strconv.FormatInt(f.counters[key], 10)},
		},
	}, nil
}

var _ generator.SequenceStore = (*Store)(nil)

func TestStoreNext(t *testing.T) {
	fake := &fakeCounter{}
	s := NewStore(fake, "sequences")

	for want := int64(1); want <= 3; want++ {
		n, err := s.Next(context.Background(), "users")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	n, err := s.Next(context.Background(), "orders")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	assert.Equal(t, "sequences", aws.ToString(fake.last.TableName))
	assert.Equal(t, "ADD #v :one", aws.ToString(fake.last.UpdateExpression))
	assert.Equal(t, "seq", fake.last.ExpressionAttributeNames["#v"])
	assert.Equal(t, types.ReturnValueUpdatedNew, fake.last.ReturnValues)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "SEQ#orders"}, fake.last.Key["PK"])
}

func TestStoreNextConcurrent(t *testing.T) {
	s := NewStore(&fakeCounter{}, "sequences")

	const n = 50
	seen := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.Next(context.Background(), "users")
			assert.NoError(t, err)
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

func TestStoreNextErrors(t *testing.T) {
	s := NewStore(&fakeCounter{err: errors.New("throttled")}, "sequences")
	_, err := s.Next(context.Background(), "users")
	assert.ErrorContains(t, err, "throttled")

	s = NewStore(&fakeCounter{omit: true}, "sequences")
	_, err = s.Next(context.Background(), "users")
	assert.ErrorContains(t, err, "missing from response")

	fake := &fakeCounter{}
	s = NewStore(fake, "sequences", WithAttributes("PK", "counter"))
	_, err = s.Next(context.Background(), "users")
	require.NoError(t, err)
	assert.Equal(t, "counter", fake.last.ExpressionAttributeNames["#v"])
}
