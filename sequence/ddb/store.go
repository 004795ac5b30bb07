/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// API is the part of the DynamoDB client the store uses.
type API interface {
	UpdateItem(ctx context.Context, params *sdk.UpdateItemInput, optFns ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error)
}

const (
	DefaultKeyAttribute   = "PK"
	DefaultValueAttribute = "seq"
)

// Store keeps one item per sequence. Next increments the item with an ADD
// update, which DynamoDB applies atomically, creating the item on first use.
type Store struct {
	client    API
	table     string
	keyAttr   string
	valueAttr string
	logger    *zap.Logger
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithAttributes overrides the key and counter attribute names.
func WithAttributes(key, value string) Option {
	return func(s *Store) { s.keyAttr, s.valueAttr = key, value }
}

func NewStore(client API, table string, opts ...Option) *Store {
	s := &Store{
		client:    client,
		table:     table,
		keyAttr:   DefaultKeyAttribute,
		valueAttr: DefaultValueAttribute,
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) Next(ctx context.Context, name string) (int64, error) {
	out, err := s.client.UpdateItem(ctx, &sdk.UpdateItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			s.keyAttr: &types.AttributeValueMemberS{Value: "SEQ#" + name},
		},
		UpdateExpression:         aws.String("ADD #v :one"),
		ExpressionAttributeNames: map[string]string{"#v": s.valueAttr},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		s.logger.Error("sequence increment failed",
			zap.String("table", s.table), zap.String("sequence", name), zap.Error(err))
		return 0, fmt.Errorf("UpdateItem failed for sequence %s: %w", name, err)
	}

	attr, ok := out.Attributes[s.valueAttr]
	if !ok {
		return 0, fmt.Errorf("sequence %s: counter attribute %s missing from response", name, s.valueAttr)
	}
	var n int64
	if err := attributevalue.Unmarshal(attr, &n); err != nil {
		return 0, fmt.Errorf("sequence %s: failed to unmarshal counter: %w", name, err)
	}
	s.logger.Debug("sequence drawn", zap.String("sequence", name), zap.Int64("value", n))
	return n, nil
}
