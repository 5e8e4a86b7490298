package integration

import (
	"context"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/gurre/hr-onboard/audit"
	"github.com/gurre/hr-onboard/config"
	"github.com/gurre/hr-onboard/document"
	"github.com/gurre/hr-onboard/employee"
	"github.com/gurre/hr-onboard/extract"
	"github.com/gurre/hr-onboard/integration/mock"
	"github.com/gurre/hr-onboard/metrics"
	"github.com/gurre/hr-onboard/pii"
	"github.com/gurre/hr-onboard/provision"
	"github.com/gurre/hr-onboard/roster"
	"github.com/gurre/hr-onboard/textgen"
	"github.com/gurre/hr-onboard/workflow"
)

func TestFullOnboardingFlow(t *testing.T) {
	cfg := &config.Config{
		BucketName:     "hr-documents",
		Region:         "us-east-1",
		LanguageCode:   "en",
		ModelIDs:       []string{"amazon.titan-text-express-v1", "anthropic.claude-instant-v1"},
		MaxTokens:      500,
		Temperature:    0.1,
		RegistryTable:  "provisioned-accounts",
		ReportRoleName: "onboarding-exec",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid config: %v", err)
	}

	mockS3 := mock.NewS3Client()
	mockComprehend := mock.NewComprehendClient()
	mockComprehend.Entities = append(mockComprehend.Entities,
		mock.Entity("NAME", 0.99, 14, 35),
		mock.Entity("EMAIL", 0.98, 46, 70),
	)
	mockBedrock := mock.NewBedrockClient()
	// First model offline; second returns valid prose-wrapped JSON.
	mockBedrock.RespondWith("anthropic.claude-instant-v1", mock.ClaudeBody(
		`Here is the data: {"username":"maria.garcia","email":"maria.garcia@company.com","role":"Cloud Engineer","start_date":"2024-02-01","department":"Cloud Infrastructure","employee_id":"CE-2024-002","manager":"Robert Chen"}`))
	mockDynamo := mock.NewDynamoDBClient()
	mockIAM := mock.NewIAMClient()
	mockIAM.AddRole("onboarding-exec", "arn:aws:iam::123456789012:role/onboarding-exec", "AmazonS3FullAccess")

	m := metrics.NewMetrics()
	pipeline := workflow.NewPipeline(
		cfg,
		document.NewS3Store(mockS3, cfg.BucketName),
		pii.NewScanner(mockComprehend, cfg.LanguageCode),
		extract.NewAIExtractor(textgen.NewBedrock(mockBedrock), cfg.ModelIDs, cfg.MaxTokens, cfg.Temperature),
		provision.NewProvisioner(mockDynamo, mockIAM, cfg.RegistryTable, cfg.ReportRoleName, cfg.DryRun),
		audit.NewS3Trail(mockS3, cfg.BucketName),
		m,
		zerolog.Nop(),
	)

	res := pipeline.Run(context.Background(), employee.Record{
		"full_name":   "Maria Garcia Rodriguez",
		"email":       "maria.garcia@company.com",
		"position":    "Cloud Engineer",
		"department":  "Cloud Infrastructure",
		"start_date":  "2024-02-01",
		"employee_id": "CE-2024-002",
		"manager":     "Robert Chen",
	})

	if !res.Success {
		t.Fatalf("onboarding failed at %s: %v", res.FailedStage, res.Err)
	}
	if res.ExtractionPath != workflow.PathAI || res.ModelID != "anthropic.claude-instant-v1" {
		t.Errorf("expected AI extraction via second model, got %s via %q", res.ExtractionPath, res.ModelID)
	}
	if res.User.Username != "maria.garcia" {
		t.Errorf("unexpected user: %+v", res.User)
	}
	if res.PII.Status != pii.StatusReviewRequired || res.PII.EntityCount != 2 {
		t.Errorf("unexpected PII findings: %+v", res.PII)
	}

	// Both storage writes landed under their hierarchical keys.
	var sawDocument, sawAudit bool
	for _, key := range mockS3.PutKeys {
		switch {
		case strings.HasPrefix(key, "onboarding/"):
			sawDocument = true
		case strings.HasPrefix(key, "audit/trail/"):
			sawAudit = true
		}
	}
	if !sawDocument || !sawAudit {
		t.Errorf("expected document and audit objects, got keys %v", mockS3.PutKeys)
	}

	// Audit record carries redacted findings only.
	auditBody := mockS3.Files["hr-documents/"+res.AuditKey]
	var rec audit.Record
	if err := json.Unmarshal(auditBody, &rec); err != nil {
		t.Fatalf("audit record is not valid JSON: %v", err)
	}
	if rec.WorkflowData.PIISummary.EntityCount != 2 {
		t.Errorf("expected entity count in audit record, got %+v", rec.WorkflowData.PIISummary)
	}
	if strings.Contains(string(auditBody), "text_snippet") {
		t.Error("audit record leaks entity snippets")
	}

	// Registry write and role report.
	if len(mockDynamo.Items["provisioned-accounts"]) != 1 {
		t.Errorf("expected one registry item, got %d", len(mockDynamo.Items["provisioned-accounts"]))
	}
	if res.Provisioning.RoleReport == nil || res.Provisioning.RoleReport.RoleARN == "" {
		t.Errorf("expected role report, got %+v", res.Provisioning.RoleReport)
	}

	report := m.GenerateReport()
	if report.RunsCompleted != 1 || report.AIExtractions != 1 || report.ModelFailures != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestRosterBatchFlow(t *testing.T) {
	cfg := &config.Config{
		BucketName:   "hr-documents",
		Region:       "us-east-1",
		LanguageCode: "en",
		RosterS3URI:  "s3://hr-documents/rosters/2024-q1.jsonl",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid config: %v", err)
	}

	mockS3 := mock.NewS3Client()
	mockS3.AddFile("hr-documents", "rosters/2024-q1.jsonl", []byte(
		`{"full_name":"Jane Doe","email":"jane.doe@co.com","position":"Engineer"}
{"full_name":"Bob Lee"}
{broken line
`))

	m := metrics.NewMetrics()
	pipeline := workflow.NewPipeline(
		cfg,
		document.NewS3Store(mockS3, cfg.BucketName),
		pii.NewScanner(mock.NewComprehendClient(), cfg.LanguageCode),
		extract.NewAIExtractor(textgen.NewBedrock(mock.NewBedrockClient()), nil, 0, 0),
		provision.NewProvisioner(nil, nil, "", "", false),
		audit.NewS3Trail(mockS3, cfg.BucketName),
		m,
		zerolog.Nop(),
	)

	runner := roster.NewRunner(mockS3, pipeline, m)
	sum, err := runner.Process(context.Background(), cfg.RosterBucket(), cfg.RosterKey())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sum.Processed != 2 || sum.Failed != 0 || sum.Corrupt != 1 {
		t.Errorf("unexpected summary: %+v", sum)
	}

	// Two documents and two audit records.
	var docs, audits int
	for _, key := range mockS3.PutKeys {
		switch {
		case strings.HasPrefix(key, "onboarding/"):
			docs++
		case strings.HasPrefix(key, "audit/trail/"):
			audits++
		}
	}
	if docs != 2 || audits != 2 {
		t.Errorf("expected 2 documents and 2 audit records, got %d and %d", docs, audits)
	}

	report := m.GenerateReport()
	if report.Fallbacks != 2 || report.CorruptRecords != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
}
