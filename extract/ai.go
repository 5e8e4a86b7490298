package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/gurre/hr-onboard/employee"
	"github.com/gurre/hr-onboard/textgen"
)

// promptTemplate instructs the model to return the canonical schema and
// nothing else. The example response measurably improves field coverage.
const promptTemplate = `Extract the following information from this HR data and return as VALID JSON with these exact keys: username, email, role, start_date, department, employee_id, manager.

IMPORTANT:
- username should be first.last format from the name
- email should be the email address
- role should be the job position
- start_date should be YYYY-MM-DD format
- department should be the department name
- employee_id should be the employee ID
- manager should be the manager's name

HR Data: %s

Return ONLY valid JSON with exactly those keys, no other text.

Example valid response:
{
  "username": "john.doe",
  "email": "john.doe@company.com",
  "role": "Software Engineer",
  "start_date": "2024-01-15",
  "department": "Engineering",
  "employee_id": "ENG-2024-001",
  "manager": "Jane Smith"
}`

// AIExtractor attempts model-based structured extraction. Each configured
// model is tried in order; per-model failures are silent and the first
// syntactically valid JSON object wins. Schema validation is the caller's
// concern.
type AIExtractor struct {
	provider    textgen.Provider
	modelIDs    []string
	maxTokens   int
	temperature float64
}

// NewAIExtractor creates an AIExtractor over the given provider and ordered
// model list.
func NewAIExtractor(provider textgen.Provider, modelIDs []string, maxTokens int, temperature float64) *AIExtractor {
	return &AIExtractor{
		provider:    provider,
		modelIDs:    modelIDs,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

// Attempt holds the outcome of one model invocation, kept for the audit
// record and metrics.
type Attempt struct {
	ModelID string
	Err     error
}

// Extract runs the model list against rec. It returns the first carved field
// mapping, the model that produced it, and the per-model attempt log. A nil
// mapping with a nil error means every model came up empty; that is a soft
// outcome, never a pipeline error.
func (e *AIExtractor) Extract(ctx context.Context, rec employee.Record) (map[string]any, string, []Attempt, error) {
	if len(e.modelIDs) == 0 {
		return nil, "", nil, nil
	}

	payload, err := rec.JSON()
	if err != nil {
		return nil, "", nil, fmt.Errorf("serialize employee record: %w", err)
	}
	prompt := fmt.Sprintf(promptTemplate, payload)

	attempts := make([]Attempt, 0, len(e.modelIDs))
	for _, modelID := range e.modelIDs {
		if err := ctx.Err(); err != nil {
			return nil, "", attempts, err
		}

		text, err := e.provider.Generate(ctx, modelID, textgen.Request{
			Prompt:      prompt,
			MaxTokens:   e.maxTokens,
			Temperature: e.temperature,
		})
		if err != nil {
			attempts = append(attempts, Attempt{ModelID: modelID, Err: err})
			continue
		}

		fields, err := CarveJSON(strings.TrimSpace(text))
		if err != nil {
			attempts = append(attempts, Attempt{ModelID: modelID, Err: err})
			continue
		}

		attempts = append(attempts, Attempt{ModelID: modelID})
		return fields, modelID, attempts, nil
	}

	return nil, "", attempts, nil
}
