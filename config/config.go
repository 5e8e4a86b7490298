// Package config implements configuration management for the onboarding
// pipeline. It handles parsing and validation of all workflow parameters.
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Workflow identity tags stamped on every stored document and audit record.
const (
	WorkflowName        = "hr_onboarding"
	WorkflowVersion     = "2.0"
	ComplianceFramework = "NIST-800-53"
)

// Config holds all configuration for an onboarding run. BucketName and Region
// are required; everything else has a workable default or is optional.
type Config struct {
	BucketName       string   // S3 bucket holding onboarding documents and the audit trail
	Region           string   // AWS region for all service calls
	LanguageCode     string   // Language hint passed to entity detection
	ModelIDs         []string // Model identifiers tried in order for AI extraction; empty disables the AI path
	MaxTokens        int      // Maximum tokens requested per generation call
	Temperature      float64  // Sampling temperature for generation calls
	RegistryTable    string   // DynamoDB table recording provisioned accounts; empty skips the registry write
	ReportRoleName   string   // IAM role inspected for the provisioning report; empty skips the lookup
	BlockOnPIIReview bool     // If true, REVIEW_REQUIRED findings stop account provisioning
	RosterS3URI      string   // S3 URI of a JSONL roster for batch mode (s3://bucket/key)
	ReportS3URI      string   // S3 URI for the final metrics report
	DryRun           bool     // If true, don't write to the account registry

	// Internal fields
	rosterBucket string // Bucket name parsed from RosterS3URI
	rosterKey    string // Object key parsed from RosterS3URI
}

// RosterBucket returns the bucket name parsed from RosterS3URI.
func (c *Config) RosterBucket() string {
	return c.rosterBucket
}

// RosterKey returns the object key parsed from RosterS3URI.
func (c *Config) RosterKey() string {
	return c.rosterKey
}

// Validate ensures all required fields are present and have valid values.
func (c *Config) Validate() error {
	if c.BucketName == "" {
		return fmt.Errorf("bucket name is required")
	}

	if c.Region == "" {
		return fmt.Errorf("region is required")
	}

	if c.LanguageCode == "" {
		return fmt.Errorf("language code is required")
	}

	for _, id := range c.ModelIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("model identifier must not be blank")
		}
	}

	if len(c.ModelIDs) > 0 {
		if c.MaxTokens < 1 {
			return fmt.Errorf("max tokens must be at least 1")
		}
		if c.Temperature < 0 || c.Temperature > 1 {
			return fmt.Errorf("temperature must be between 0 and 1")
		}
	}

	if c.RosterS3URI != "" {
		bucket, key, err := parseS3URI(c.RosterS3URI)
		if err != nil {
			return fmt.Errorf("invalid roster S3 URI: %w", err)
		}
		c.rosterBucket = bucket
		c.rosterKey = key
	}

	if c.ReportS3URI != "" {
		if _, _, err := parseS3URI(c.ReportS3URI); err != nil {
			return fmt.Errorf("invalid report S3 URI: %w", err)
		}
	}

	return nil
}

// parseS3URI splits an s3://bucket/key URI into bucket and key.
func parseS3URI(uri string) (string, string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("URI must use s3 scheme")
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("URI is missing a bucket name")
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("URI is missing an object key")
	}
	return u.Host, key, nil
}
