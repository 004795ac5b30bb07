/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/suparena/entitymeta/datastore"
	"github.com/suparena/entitymeta/errors"
	"github.com/suparena/entitymeta/internal/awsclient"
	"github.com/suparena/entitymeta/metadata"
	"github.com/suparena/entitymeta/storagemodels"
)

// API is the part of the DynamoDB client the data store uses.
type API interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
}

// DynamodbDataStore implements datastore.DataStore[T] by using AWS DynamoDB as
// the underlying data store. Each entity is one item; its attributes are the
// entity's columns and the identifier column is the partition key.
type DynamodbDataStore[T any] struct {
	client    API
	binding   *datastore.Binding[T]
	tableName string
	logger    *zap.Logger
}

type options struct {
	tableName string
	logger    *zap.Logger
}

type Option func(*options)

// WithTableName stores items in table instead of the table named by @entity.
func WithTableName(table string) Option {
	return func(o *options) { o.tableName = table }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewDynamoDBClient initializes a DynamoDB client using static AWS credentials.
func NewDynamoDBClient(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	return awsclient.NewDynamoDB(ctx, awsAccessKey, awsSecretKey, awsRegion)
}

// NewDynamodbDataStore constructs a new DynamodbDataStore for type T.
func NewDynamodbDataStore[T any](client API, reg *metadata.Registry, opts ...Option) (*DynamodbDataStore[T], error) {
	b, err := datastore.Bind[T](reg)
	if err != nil {
		return nil, err
	}
	o := options{tableName: b.Table(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger.Info("DynamoDB data store initialized",
		zap.String("class", b.Entry().Class()), zap.String("table", o.tableName))
	return &DynamodbDataStore[T]{
		client:    client,
		binding:   b,
		tableName: o.tableName,
		logger:    o.logger,
	}, nil
}

// GetOne retrieves the item whose identifier is id. It returns a NotFoundError
// when no item exists.
func (d *DynamodbDataStore[T]) GetOne(ctx context.Context, id any) (*T, error) {
	key, err := d.key(id)
	if err != nil {
		return nil, err
	}
	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: aws.String(d.tableName),
		Key:       key,
	})
	if err != nil {
		d.logger.Error("GetItem failed", zap.String("table", d.tableName), zap.Any("id", id), zap.Error(err))
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, errors.NewNotFoundError(d.binding.Entry().Class(), fmt.Sprint(id))
	}

	row, err := d.itemToRow(out.Item)
	if err != nil {
		return nil, err
	}
	return d.binding.Decode(row)
}

// Put stores e, generating its identifier first when it has none.
func (d *DynamodbDataStore[T]) Put(ctx context.Context, e *T) error {
	return d.put(ctx, e, false)
}

// Insert stores e unless an item with the same identifier exists.
func (d *DynamodbDataStore[T]) Insert(ctx context.Context, e *T) error {
	return d.put(ctx, e, true)
}

func (d *DynamodbDataStore[T]) put(ctx context.Context, e *T, mustBeNew bool) error {
	row, id, err := d.binding.Encode(ctx, e)
	if err != nil {
		return err
	}
	item, err := rowToItem(row)
	if err != nil {
		return err
	}

	input := &sdk.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	}
	if mustBeNew {
		input.ConditionExpression = aws.String("attribute_not_exists(#id)")
		input.ExpressionAttributeNames = map[string]string{"#id": d.binding.IDColumn()}
	}

	if _, err := d.client.PutItem(ctx, input); err != nil {
		var cfe *types.ConditionalCheckFailedException
		if stderrors.As(err, &cfe) {
			return errors.NewConditionFailedError("Insert", "attribute_not_exists("+d.binding.IDColumn()+")")
		}
		d.logger.Error("PutItem failed", zap.String("table", d.tableName), zap.Any("id", id), zap.Error(err))
		return fmt.Errorf("PutItem failed: %w", err)
	}
	d.logger.Debug("item stored", zap.String("table", d.tableName), zap.Any("id", id))
	return nil
}

// Delete removes the item whose identifier is id. Deleting a missing item
// returns a NotFoundError.
func (d *DynamodbDataStore[T]) Delete(ctx context.Context, id any) error {
	key, err := d.key(id)
	if err != nil {
		return err
	}
	_, err = d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:                aws.String(d.tableName),
		Key:                      key,
		ConditionExpression:      aws.String("attribute_exists(#id)"),
		ExpressionAttributeNames: map[string]string{"#id": d.binding.IDColumn()},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if stderrors.As(err, &cfe) {
			return errors.NewNotFoundError(d.binding.Entry().Class(), fmt.Sprint(id))
		}
		d.logger.Error("DeleteItem failed", zap.String("table", d.tableName), zap.Any("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	return nil
}

func (d *DynamodbDataStore[T]) key(id any) (map[string]types.AttributeValue, error) {
	sid, err := d.binding.StorageID(id)
	if err != nil {
		return nil, err
	}
	av, err := attributevalue.Marshal(sid)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key: %w", err)
	}
	return map[string]types.AttributeValue{d.binding.IDColumn(): av}, nil
}

func rowToItem(row *storagemodels.Row) (map[string]types.AttributeValue, error) {
	item := make(map[string]types.AttributeValue, row.Len())
	for i, c := range row.Columns {
		av, err := attributevalue.Marshal(row.Values[i])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal column %s: %w", c, err)
		}
		item[c] = av
	}
	return item, nil
}

// itemToRow reads the entity's columns out of item. Numbers are decoded as
// int64 when integral so identifiers keep full precision.
func (d *DynamodbDataStore[T]) itemToRow(item map[string]types.AttributeValue) (*storagemodels.Row, error) {
	columns := d.binding.Entry().ColumnNames()
	row := storagemodels.NewRow(d.tableName, len(columns))
	for _, c := range columns {
		av, ok := item[c]
		if !ok {
			continue
		}
		var v any
		if n, isNum := av.(*types.AttributeValueMemberN); isNum {
			if i, err := strconv.ParseInt(n.Value, 10, 64); err == nil {
				row.Set(c, i)
				continue
			}
		}
		if err := attributevalue.Unmarshal(av, &v); err != nil {
			return nil, fmt.Errorf("failed to unmarshal column %s: %w", c, err)
		}
		row.Set(c, v)
	}
	return row, nil
}
