/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package awsclient builds the AWS clients shared by the DynamoDB data store
// and the DynamoDB sequence store.
package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// NewDynamoDB initializes a DynamoDB client using static AWS credentials.
func NewDynamoDB(ctx context.Context, accessKey, secretKey, region string) (*sdk.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return sdk.NewFromConfig(cfg), nil
}
