package mock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// BedrockClient is a mock implementation of the aws.BedrockRuntimeClient
// interface for testing. Responses are raw wire-format bodies keyed by
// model identifier; models without a response fail their invocation.
type BedrockClient struct {
	// Responses maps model identifier to the raw response body returned
	Responses map[string][]byte
	// Requests records the request bodies by model identifier
	Requests map[string][]byte
}

// NewBedrockClient creates a new mock Bedrock runtime client
func NewBedrockClient() *BedrockClient {
	return &BedrockClient{
		Responses: make(map[string][]byte),
		Requests:  make(map[string][]byte),
	}
}

// RespondWith seeds the wire-format response body for modelID.
func (m *BedrockClient) RespondWith(modelID string, body []byte) {
	m.Responses[modelID] = body
}

// TitanBody wraps text in the Titan response shape.
func TitanBody(text string) []byte {
	return fmt.Appendf(nil, `{"results":[{"outputText":%q}]}`, text)
}

// ClaudeBody wraps text in the claude completion response shape.
func ClaudeBody(text string) []byte {
	return fmt.Appendf(nil, `{"completion":%q}`, text)
}

// Claude3Body wraps text in the claude-3 messages response shape.
func Claude3Body(text string) []byte {
	return fmt.Appendf(nil, `{"content":[{"text":%q}]}`, text)
}

// InvokeModel returns the seeded response for the requested model.
func (m *BedrockClient) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	modelID := aws.ToString(params.ModelId)
	m.Requests[modelID] = params.Body

	body, ok := m.Responses[modelID]
	if !ok {
		return nil, fmt.Errorf("mock Bedrock: model not available: %s", modelID)
	}
	return &bedrockruntime.InvokeModelOutput{Body: body}, nil
}
