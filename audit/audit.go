// Package audit writes the immutable compliance trail for onboarding runs.
// Records are write-once, keyed by a freshly generated identifier, and never
// updated or deleted. Raw PII findings are reduced to counts and status
// before they reach the trail.
package audit

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	awsx "github.com/gurre/hr-onboard/aws"
	"github.com/gurre/hr-onboard/config"
	"github.com/gurre/hr-onboard/employee"
	"github.com/gurre/hr-onboard/pii"
)

// PIISummary is the redacted view of a compliance scan kept in the trail.
// Entity snippets, even masked, are excluded by data-minimization policy.
type PIISummary struct {
	EntityCount int        `json:"pii_entities_found"`
	Status      pii.Status `json:"compliance_status"`
}

// RunData is the shallow copy of workflow results embedded in a record.
type RunData struct {
	DocumentKey    string              `json:"document_key"`
	UserData       employee.UserRecord `json:"user_data"`
	ExtractionPath string              `json:"extraction_path"`
	PIISummary     PIISummary          `json:"pii_summary"`
	Provisioning   any                 `json:"provisioning,omitempty"`
}

// Record is one entry in the compliance trail.
type Record struct {
	AuditID             string  `json:"audit_id"`
	Timestamp           string  `json:"timestamp"`
	Workflow            string  `json:"workflow"`
	ComplianceFramework string  `json:"compliance_framework"`
	DataMinimization    bool    `json:"data_minimization"`
	WorkflowData        RunData `json:"workflow_data"`
}

// Recorder appends records to the trail. A failed append is fatal for the
// run, though earlier persisted documents are not rolled back.
type Recorder interface {
	Append(ctx context.Context, data RunData) (Record, string, error)
}

var _ Recorder = (*S3Trail)(nil)

// S3Trail implements Recorder on S3, keying records as
// audit/trail/<id>.json.
type S3Trail struct {
	client awsx.S3Client
	bucket string
}

// NewS3Trail creates a Recorder writing to bucket.
func NewS3Trail(client awsx.S3Client, bucket string) *S3Trail {
	return &S3Trail{client: client, bucket: bucket}
}

// Append builds a Record around data and writes it under a fresh audit id.
func (t *S3Trail) Append(ctx context.Context, data RunData) (Record, string, error) {
	rec := Record{
		AuditID:             uuid.NewString(),
		Timestamp:           time.Now().UTC().Format(time.RFC3339),
		Workflow:            config.WorkflowName,
		ComplianceFramework: config.ComplianceFramework,
		DataMinimization:    true,
		WorkflowData:        data,
	}

	body, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return Record{}, "", fmt.Errorf("serialize audit record: %w", err)
	}

	key := fmt.Sprintf("audit/trail/%s.json", rec.AuditID)
	_, err = t.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(t.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return Record{}, "", fmt.Errorf("append audit record %s: %w", key, err)
	}

	return rec, key, nil
}

// Summarize reduces full findings to the redacted trail view.
func Summarize(f pii.Findings) PIISummary {
	return PIISummary{EntityCount: f.EntityCount, Status: f.Status}
}
