/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package awsclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDynamoDB(t *testing.T) {
	client, err := NewDynamoDB(context.Background(), "AKIDEXAMPLE", "secret", "eu-west-1")
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, "eu-west-1", client.Options().Region)

	creds, err := client.Options().Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKIDEXAMPLE", creds.AccessKeyID)
}
