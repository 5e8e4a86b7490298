package textgen

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	json "github.com/goccy/go-json"

	awsx "github.com/gurre/hr-onboard/aws"
)

// Bedrock implements Provider on top of the Bedrock runtime InvokeModel API.
type Bedrock struct {
	client awsx.BedrockRuntimeClient
}

// NewBedrock creates a new Bedrock provider instance
func NewBedrock(client awsx.BedrockRuntimeClient) *Bedrock {
	return &Bedrock{client: client}
}

// anthropicVersion is the Bedrock API version tag required by claude-3
// message-format requests.
const anthropicVersion = "bedrock-2023-05-31"

// titanRequest is the single-field input/output shape used by Titan models.
type titanRequest struct {
	InputText            string      `json:"inputText"`
	TextGenerationConfig titanConfig `json:"textGenerationConfig"`
}

type titanConfig struct {
	MaxTokenCount int     `json:"maxTokenCount"`
	Temperature   float64 `json:"temperature"`
}

type titanResponse struct {
	Results []struct {
		OutputText string `json:"outputText"`
	} `json:"results"`
}

// claudeRequest is the completion-style shape used by claude v1/v2 models.
// The prompt must carry the Human/Assistant framing.
type claudeRequest struct {
	Prompt            string  `json:"prompt"`
	MaxTokensToSample int     `json:"max_tokens_to_sample"`
	Temperature       float64 `json:"temperature"`
}

type claudeResponse struct {
	Completion string `json:"completion"`
}

// claude3Request is the role-based messages shape used by claude-3 models.
type claude3Request struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	Temperature      float64          `json:"temperature"`
	Messages         []claude3Message `json:"messages"`
}

type claude3Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claude3Response struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// ai21Request is the shape used by AI21 Jurassic models.
type ai21Request struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
}

type ai21Response struct {
	Completions []struct {
		Data struct {
			Text string `json:"text"`
		} `json:"data"`
	} `json:"completions"`
}

// Generate invokes modelID with the wire shape its family requires and
// returns the raw completion text.
func (b *Bedrock) Generate(ctx context.Context, modelID string, req Request) (string, error) {
	body, err := encodeRequest(modelID, req)
	if err != nil {
		return "", err
	}

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("invoke %s: %w", modelID, err)
	}

	return decodeResponse(modelID, out.Body)
}

// encodeRequest builds the family-specific request body for modelID.
func encodeRequest(modelID string, req Request) ([]byte, error) {
	switch resolveFamily(modelID) {
	case familyTitan:
		return json.Marshal(titanRequest{
			InputText: req.Prompt,
			TextGenerationConfig: titanConfig{
				MaxTokenCount: req.MaxTokens,
				Temperature:   req.Temperature,
			},
		})
	case familyClaude:
		return json.Marshal(claudeRequest{
			Prompt:            fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", req.Prompt),
			MaxTokensToSample: req.MaxTokens,
			Temperature:       req.Temperature,
		})
	case familyClaude3:
		return json.Marshal(claude3Request{
			AnthropicVersion: anthropicVersion,
			MaxTokens:        req.MaxTokens,
			Temperature:      req.Temperature,
			Messages:         []claude3Message{{Role: "user", Content: req.Prompt}},
		})
	case familyAI21:
		return json.Marshal(ai21Request{
			Prompt:      req.Prompt,
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
		})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, modelID)
	}
}

// decodeResponse extracts the completion text from a family-specific
// response body.
func decodeResponse(modelID string, body []byte) (string, error) {
	switch resolveFamily(modelID) {
	case familyTitan:
		var resp titanResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("decode %s response: %w", modelID, err)
		}
		if len(resp.Results) == 0 {
			return "", fmt.Errorf("decode %s response: no results", modelID)
		}
		return resp.Results[0].OutputText, nil
	case familyClaude:
		var resp claudeResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("decode %s response: %w", modelID, err)
		}
		return resp.Completion, nil
	case familyClaude3:
		var resp claude3Response
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("decode %s response: %w", modelID, err)
		}
		if len(resp.Content) == 0 {
			return "", fmt.Errorf("decode %s response: no content", modelID)
		}
		return resp.Content[0].Text, nil
	case familyAI21:
		var resp ai21Response
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("decode %s response: %w", modelID, err)
		}
		if len(resp.Completions) == 0 {
			return "", fmt.Errorf("decode %s response: no completions", modelID)
		}
		return resp.Completions[0].Data.Text, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedModel, modelID)
	}
}
