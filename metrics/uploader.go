package metrics

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	json "github.com/goccy/go-json"

	awsx "github.com/gurre/hr-onboard/aws"
)

// S3Uploader uploads final reports to S3.
type S3Uploader struct {
	client awsx.S3Client
}

// NewS3Uploader creates a new S3Uploader instance
func NewS3Uploader(client awsx.S3Client) *S3Uploader {
	return &S3Uploader{client: client}
}

// UploadReport writes report as JSON to the given s3://bucket/key URI.
func (u *S3Uploader) UploadReport(ctx context.Context, uri string, report Report) error {
	parsed, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("invalid report URI: %w", err)
	}
	if parsed.Scheme != "s3" || parsed.Host == "" {
		return fmt.Errorf("report URI must be s3://bucket/key, got %s", uri)
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	if key == "" {
		return fmt.Errorf("report URI is missing an object key")
	}

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize report: %w", err)
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(parsed.Host),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("upload report to %s: %w", uri, err)
	}
	return nil
}
