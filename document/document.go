// Package document implements the ingestion store for raw HR documents. Each
// incoming employee record is wrapped with governance metadata and persisted
// to S3 under a deterministic key before any other stage runs.
package document

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
)

// Metadata describes a stored HR document.
type Metadata struct {
	DocumentID          string `json:"document_id"`
	UploadTime          string `json:"upload_time"`
	WorkflowVersion     string `json:"workflow_version"`
	ComplianceFramework string `json:"compliance_framework"`
}

// Document is the persisted form of an ingested employee record.
type Document struct {
	Metadata     Metadata        `json:"metadata"`
	EmployeeData employee.Record `json:"employee_data"`
}

// Store persists incoming HR documents. A failed put aborts the run: every
// downstream stage assumes the source document exists. Get reads a stored
// document back for review tooling.
type Store interface {
	Put(ctx context.Context, rec employee.Record) (Document, string, error)
	Get(ctx context.Context, key string) (Document, error)
}

var _ Store = (*S3Store)(nil)

// s3ObjectMetadata is the governance tagging attached to every stored
// document object.
var s3ObjectMetadata = map[string]string{
	"data-classification": "confidential",
	"retention-period":    "7-years",
	"pii-present":         "true",
}

// S3Store implements Store on S3, keying documents as onboarding/<id>.json.
type S3Store struct {
	client awsx.S3Client
	bucket string
}

// NewS3Store creates a Store writing to bucket.
func NewS3Store(client awsx.S3Client, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

// Put wraps rec with a fresh document id and governance metadata and writes
// it to s3://<bucket>/onboarding/<id>.json.
func (s *S3Store) Put(ctx context.Context, rec employee.Record) (Document, string, error) {
	doc := Document{
		Metadata: Metadata{
			DocumentID:          uuid.NewString(),
			UploadTime:          time.Now().UTC().Format(time.RFC3339),
			WorkflowVersion:     config.WorkflowVersion,
			ComplianceFramework: config.ComplianceFramework,
		},
		EmployeeData: rec,
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Document{}, "", fmt.Errorf("serialize document: %w", err)
	}

	key := fmt.Sprintf("onboarding/%s.json", doc.Metadata.DocumentID)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata:    s3ObjectMetadata,
	})
	if err != nil {
		return Document{}, "", fmt.Errorf("store document %s: %w", key, err)
	}

	return doc, key, nil
}

// Get reads a previously stored document back from S3 and decodes it.
func (s *S3Store) Get(ctx context.Context, key string) (Document, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return Document{}, fmt.Errorf("read document %s: %w", key, err)
	}
	defer out.Body.Close()

	var doc Document
	if err := json.NewDecoder(out.Body).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode document %s: %w", key, err)
	}
	return doc, nil
}
