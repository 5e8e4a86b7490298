// Package aws provides the AWS service abstractions used by the onboarding
// pipeline. This file contains the concrete implementations of the service
// interfaces.
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3ClientImpl implements S3Client using the AWS SDK.
type S3ClientImpl struct {
	client *s3.Client
}

// NewS3Client creates a new S3ClientImpl instance
func NewS3Client(client *s3.Client) *S3ClientImpl {
	return &S3ClientImpl{client: client}
}

// GetObject implements the S3Client interface for reading objects
func (c *S3ClientImpl) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return c.client.GetObject(ctx, params, optFns...)
}

// PutObject implements the S3Client interface for writing objects
func (c *S3ClientImpl) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return c.client.PutObject(ctx, params, optFns...)
}

// ComprehendClientImpl implements ComprehendClient using the AWS SDK.
type ComprehendClientImpl struct {
	client *comprehend.Client
}

// NewComprehendClient creates a new ComprehendClientImpl instance
func NewComprehendClient(client *comprehend.Client) *ComprehendClientImpl {
	return &ComprehendClientImpl{client: client}
}

// DetectPiiEntities implements the ComprehendClient interface for PII detection
func (c *ComprehendClientImpl) DetectPiiEntities(ctx context.Context, params *comprehend.DetectPiiEntitiesInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectPiiEntitiesOutput, error) {
	return c.client.DetectPiiEntities(ctx, params, optFns...)
}

// BedrockRuntimeClientImpl implements BedrockRuntimeClient using the AWS SDK.
type BedrockRuntimeClientImpl struct {
	client *bedrockruntime.Client
}

// NewBedrockRuntimeClient creates a new BedrockRuntimeClientImpl instance
func NewBedrockRuntimeClient(client *bedrockruntime.Client) *BedrockRuntimeClientImpl {
	return &BedrockRuntimeClientImpl{client: client}
}

// InvokeModel implements the BedrockRuntimeClient interface for text generation
func (c *BedrockRuntimeClientImpl) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	return c.client.InvokeModel(ctx, params, optFns...)
}

// IAMClientImpl implements IAMClient using the AWS SDK.
type IAMClientImpl struct {
	client *iam.Client
}

// NewIAMClient creates a new IAMClientImpl instance
func NewIAMClient(client *iam.Client) *IAMClientImpl {
	return &IAMClientImpl{client: client}
}

// GetRole implements the IAMClient interface for role lookups
func (c *IAMClientImpl) GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	return c.client.GetRole(ctx, params, optFns...)
}

// ListAttachedRolePolicies implements the IAMClient interface for policy reporting
func (c *IAMClientImpl) ListAttachedRolePolicies(ctx context.Context, params *iam.ListAttachedRolePoliciesInput, optFns ...func(*iam.Options)) (*iam.ListAttachedRolePoliciesOutput, error) {
	return c.client.ListAttachedRolePolicies(ctx, params, optFns...)
}

// DynamoDBClientImpl implements DynamoDBClient using the AWS SDK.
type DynamoDBClientImpl struct {
	client *dynamodb.Client
}

// NewDynamoDBClient creates a new DynamoDBClientImpl instance
func NewDynamoDBClient(client *dynamodb.Client) *DynamoDBClientImpl {
	return &DynamoDBClientImpl{client: client}
}

// PutItem implements the DynamoDBClient interface for registry writes
func (c *DynamoDBClientImpl) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return c.client.PutItem(ctx, params, optFns...)
}
