package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBClient is a mock implementation of the aws.DynamoDBClient
// interface for testing.
type DynamoDBClient struct {
	mu sync.Mutex
	// Items records every PutItem payload by table name
	Items map[string][]map[string]types.AttributeValue
	// When set, PutItem fails with this message
	FailWith string
}

// NewDynamoDBClient creates a new mock DynamoDB client
func NewDynamoDBClient() *DynamoDBClient {
	return &DynamoDBClient{
		Items: make(map[string][]map[string]types.AttributeValue),
	}
}

// PutItem records the item under its table name.
func (m *DynamoDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != "" {
		return nil, fmt.Errorf("mock DynamoDB: %s", m.FailWith)
	}

	table := aws.ToString(params.TableName)
	m.Items[table] = append(m.Items[table], params.Item)
	return &dynamodb.PutItemOutput{}, nil
}
