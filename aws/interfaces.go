// Package aws provides the AWS service abstractions used by the onboarding
// pipeline. It defines narrow interfaces for each managed service so that
// every stage can be exercised against mocks.
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client defines the S3 operations used by the document and audit stores.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ComprehendClient defines the entity-detection operation used by the PII scanner.
type ComprehendClient interface {
	DetectPiiEntities(ctx context.Context, params *comprehend.DetectPiiEntitiesInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectPiiEntitiesOutput, error)
}

// BedrockRuntimeClient defines the model-invocation operation used by the
// structured extractor.
type BedrockRuntimeClient interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// IAMClient defines the read-only role lookups used for provisioning reports.
type IAMClient interface {
	GetRole(ctx context.Context, params *iam.GetRoleInput, optFns ...func(*iam.Options)) (*iam.GetRoleOutput, error)
	ListAttachedRolePolicies(ctx context.Context, params *iam.ListAttachedRolePoliciesInput, optFns ...func(*iam.Options)) (*iam.ListAttachedRolePoliciesOutput, error)
}

// DynamoDBClient defines the registry write used by account provisioning.
type DynamoDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Compile-time interface checks to ensure implementations satisfy interfaces
var (
	_ S3Client             = (*S3ClientImpl)(nil)
	_ ComprehendClient     = (*ComprehendClientImpl)(nil)
	_ BedrockRuntimeClient = (*BedrockRuntimeClientImpl)(nil)
	_ IAMClient            = (*IAMClientImpl)(nil)
	_ DynamoDBClient       = (*DynamoDBClientImpl)(nil)

	// AWS SDK interface checks to ensure SDK clients satisfy interfaces
	_ S3Client             = (*s3.Client)(nil)
	_ ComprehendClient     = (*comprehend.Client)(nil)
	_ BedrockRuntimeClient = (*bedrockruntime.Client)(nil)
	_ IAMClient            = (*iam.Client)(nil)
	_ DynamoDBClient       = (*dynamodb.Client)(nil)
)
