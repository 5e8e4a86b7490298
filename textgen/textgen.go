// Package textgen abstracts the text-generation capability behind a single
// Provider interface. The Bedrock implementation speaks one wire shape per
// model family so that callers never branch on model identifiers themselves.
package textgen

import (
	"context"
	"fmt"
	"strings"
)

// Request carries the generation parameters shared by every model family.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Provider generates free-form text from a prompt. Implementations must
// return the raw completion text; callers are responsible for carving any
// structure out of it.
type Provider interface {
	Generate(ctx context.Context, modelID string, req Request) (string, error)
}

// family identifies the request/response wire shape a model speaks.
type family int

const (
	familyTitan   family = iota // inputText / results[0].outputText
	familyClaude                // prompt / completion
	familyClaude3               // messages / content[0].text
	familyAI21                  // prompt+maxTokens / completions[0].data.text
	familyUnknown
)

// resolveFamily maps a model identifier to its wire shape. Identifier
// conventions follow the Bedrock model catalog.
func resolveFamily(modelID string) family {
	id := strings.ToLower(modelID)
	switch {
	case strings.Contains(id, "titan"):
		return familyTitan
	case strings.Contains(id, "claude-3"):
		return familyClaude3
	case strings.Contains(id, "claude"):
		return familyClaude
	case strings.Contains(id, "ai21") || strings.Contains(id, "j2"):
		return familyAI21
	default:
		return familyUnknown
	}
}

// ErrUnsupportedModel is returned for model identifiers whose wire shape is
// unknown. Callers treat it like any other per-model failure and advance to
// the next configured model.
var ErrUnsupportedModel = fmt.Errorf("unsupported model family")
