package mock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/comprehend/types"
)

// ComprehendClient is a mock implementation of the aws.ComprehendClient
// interface for testing.
type ComprehendClient struct {
	// Entities returned by every DetectPiiEntities call
	Entities []types.PiiEntity
	// When set, DetectPiiEntities fails with this message
	FailWith string
	// Texts submitted for detection, in order
	Texts []string
}

// NewComprehendClient creates a new mock Comprehend client
func NewComprehendClient() *ComprehendClient {
	return &ComprehendClient{}
}

// Entity builds a PiiEntity covering [begin, end) with the given type.
func Entity(entityType string, score float32, begin, end int32) types.PiiEntity {
	return types.PiiEntity{
		Type:        types.PiiEntityType(entityType),
		Score:       aws.Float32(score),
		BeginOffset: aws.Int32(begin),
		EndOffset:   aws.Int32(end),
	}
}

// DetectPiiEntities returns the configured entities or failure.
func (m *ComprehendClient) DetectPiiEntities(ctx context.Context, params *comprehend.DetectPiiEntitiesInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectPiiEntitiesOutput, error) {
	if m.FailWith != "" {
		return nil, fmt.Errorf("mock Comprehend: %s", m.FailWith)
	}
	m.Texts = append(m.Texts, aws.ToString(params.Text))
	return &comprehend.DetectPiiEntitiesOutput{Entities: m.Entities}, nil
}
