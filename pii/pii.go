// Package pii implements the compliance scan over raw employee records using
// the Comprehend entity-detection capability.
package pii

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/comprehend/types"

	awsx "github.com/gurre/hr-onboard/aws"
	"github.com/gurre/hr-onboard/employee"
)

// Status is the compliance verdict derived from an entity-detection pass.
type Status string

const (
	// StatusCompliant means no PII entities were detected.
	StatusCompliant Status = "COMPLIANT"
	// StatusReviewRequired means at least one PII entity was detected.
	StatusReviewRequired Status = "REVIEW_REQUIRED"
	// StatusCheckFailed means the detection call itself failed. The scan is
	// advisory, so the pipeline proceeds with this status recorded.
	StatusCheckFailed Status = "CHECK_FAILED"
)

// Entity is one detected PII span. Snippet holds only the first characters
// of the matched text plus a mask, so nothing verbatim is retained.
type Entity struct {
	Type    string  `json:"type"`
	Score   float64 `json:"score"`
	Snippet string  `json:"text_snippet"`
}

// Findings is the result of a compliance scan. Produced once per run and
// read-only afterward.
type Findings struct {
	EntityCount int      `json:"pii_entities_found"`
	Entities    []Entity `json:"entities,omitempty"`
	Status      Status   `json:"compliance_status"`
	CheckError  string   `json:"error,omitempty"`
}

// snippetLen is how many leading characters of a detected span survive
// masking.
const snippetLen = 3

// Scanner runs entity detection over serialized employee records.
type Scanner struct {
	client       awsx.ComprehendClient
	languageCode string
}

// NewScanner creates a Scanner using the given language hint.
func NewScanner(client awsx.ComprehendClient, languageCode string) *Scanner {
	return &Scanner{client: client, languageCode: languageCode}
}

// Scan serializes rec and submits it for PII entity detection. A detection
// failure is not an error: it degrades the findings to CHECK_FAILED and the
// run continues.
func (s *Scanner) Scan(ctx context.Context, rec employee.Record) Findings {
	text, err := rec.JSON()
	if err != nil {
		return Findings{Status: StatusCheckFailed, CheckError: err.Error()}
	}

	out, err := s.client.DetectPiiEntities(ctx, &comprehend.DetectPiiEntitiesInput{
		Text:         aws.String(string(text)),
		LanguageCode: types.LanguageCode(s.languageCode),
	})
	if err != nil {
		return Findings{Status: StatusCheckFailed, CheckError: err.Error()}
	}

	findings := Findings{
		EntityCount: len(out.Entities),
		Status:      StatusCompliant,
	}
	if findings.EntityCount > 0 {
		findings.Status = StatusReviewRequired
	}

	for _, e := range out.Entities {
		findings.Entities = append(findings.Entities, Entity{
			Type:    string(e.Type),
			Score:   float64(aws.ToFloat32(e.Score)),
			Snippet: maskSpan(string(text), e.BeginOffset, e.EndOffset),
		})
	}

	return findings
}

// maskSpan truncates a detected span to its first characters plus a mask so
// PII never lands verbatim in findings or logs.
func maskSpan(text string, begin, end *int32) string {
	b, e := int(aws.ToInt32(begin)), int(aws.ToInt32(end))
	if b < 0 || e > len(text) || b >= e {
		return "***"
	}
	span := text[b:e]
	if len(span) > snippetLen {
		span = span[:snippetLen]
	}
	return span + "***"
}
