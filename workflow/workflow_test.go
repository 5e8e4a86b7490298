package workflow

import (
	"context"
	"testing"

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
	"github.com/gurre/hr-onboard/textgen"
)

// testEnv bundles the pipeline with its mocks so tests can poke both sides.
type testEnv struct {
	pipeline   *Pipeline
	s3         *mock.S3Client
	comprehend *mock.ComprehendClient
	bedrock    *mock.BedrockClient
	dynamo     *mock.DynamoDBClient
	metrics    *metrics.Metrics
}

func newTestEnv(cfg *config.Config) *testEnv {
	env := &testEnv{
		s3:         mock.NewS3Client(),
		comprehend: mock.NewComprehendClient(),
		bedrock:    mock.NewBedrockClient(),
		dynamo:     mock.NewDynamoDBClient(),
		metrics:    metrics.NewMetrics(),
	}
	env.pipeline = NewPipeline(
		cfg,
		document.NewS3Store(env.s3, cfg.BucketName),
		pii.NewScanner(env.comprehend, cfg.LanguageCode),
		extract.NewAIExtractor(textgen.NewBedrock(env.bedrock), cfg.ModelIDs, cfg.MaxTokens, cfg.Temperature),
		provision.NewProvisioner(env.dynamo, nil, cfg.RegistryTable, "", cfg.DryRun),
		audit.NewS3Trail(env.s3, cfg.BucketName),
		env.metrics,
		zerolog.Nop(),
	)
	return env
}

func testConfig() *config.Config {
	return &config.Config{
		BucketName:   "hr-documents",
		Region:       "us-east-1",
		LanguageCode: "en",
		ModelIDs:     []string{"amazon.titan-text-express-v1"},
		MaxTokens:    500,
		Temperature:  0.1,
	}
}

func TestRunFallbackWhenGenerationUnavailable(t *testing.T) {
	// No seeded Bedrock responses: every model call fails.
	env := newTestEnv(testConfig())

	res := env.pipeline.Run(context.Background(), employee.Record{
		"full_name":   "Jane Doe",
		"email":       "jane.doe@co.com",
		"position":    "Engineer",
		"department":  "R&D",
		"start_date":  "2024-05-01",
		"employee_id": "E-1",
		"manager":     "Sam",
	})

	if !res.Success {
		t.Fatalf("expected success, failed at %s: %v", res.FailedStage, res.Err)
	}
	if res.ExtractionPath != PathRuleBased {
		t.Errorf("expected rule-based path, got %s", res.ExtractionPath)
	}

	want := employee.UserRecord{
		Username: "jane.doe", Email: "jane.doe@co.com", Role: "Engineer",
		StartDate: "2024-05-01", Department: "R&D", EmployeeID: "E-1", Manager: "Sam",
	}
	if res.User != want {
		t.Errorf("expected %+v, got %+v", want, res.User)
	}
}

func TestRunFallbackUsernameFromName(t *testing.T) {
	env := newTestEnv(testConfig())

	res := env.pipeline.Run(context.Background(), employee.Record{"full_name": "Bob Lee"})

	if !res.Success {
		t.Fatalf("expected success, failed at %s: %v", res.FailedStage, res.Err)
	}
	if res.User.Username != "bob.lee" {
		t.Errorf("expected username bob.lee, got %s", res.User.Username)
	}
}

func TestRunAIPathWithTrailingComma(t *testing.T) {
	env := newTestEnv(testConfig())
	env.bedrock.RespondWith("amazon.titan-text-express-v1", mock.TitanBody(
		`Sure! {"username":"a.b","email":"a@b.com","role":"X","start_date":"2024-01-01","department":"D","employee_id":"1","manager":"M",}`))

	res := env.pipeline.Run(context.Background(), employee.Record{"full_name": "A B"})

	if !res.Success {
		t.Fatalf("expected success, failed at %s: %v", res.FailedStage, res.Err)
	}
	if res.ExtractionPath != PathAI {
		t.Errorf("expected AI path, got %s", res.ExtractionPath)
	}
	if res.ModelID != "amazon.titan-text-express-v1" {
		t.Errorf("unexpected model id: %s", res.ModelID)
	}
	if res.User.Username != "a.b" || res.User.Manager != "M" {
		t.Errorf("unexpected user record: %+v", res.User)
	}
}

func TestRunInvalidAIOutputFallsBack(t *testing.T) {
	env := newTestEnv(testConfig())
	// Model returns syntactically valid JSON missing most required fields.
	env.bedrock.RespondWith("amazon.titan-text-express-v1", mock.TitanBody(`{"username":"a.b"}`))

	res := env.pipeline.Run(context.Background(), employee.Record{"full_name": "Bob Lee"})

	if !res.Success {
		t.Fatalf("expected success, failed at %s: %v", res.FailedStage, res.Err)
	}
	if res.ExtractionPath != PathRuleBased {
		t.Errorf("expected rule-based path after schema rejection, got %s", res.ExtractionPath)
	}
	if res.User.Username != "bob.lee" {
		t.Errorf("expected fallback record, got %+v", res.User)
	}
}

func TestRunModelListAdvances(t *testing.T) {
	cfg := testConfig()
	cfg.ModelIDs = []string{"amazon.titan-text-express-v1", "anthropic.claude-instant-v1"}
	env := newTestEnv(cfg)
	// Only the second configured model is available.
	env.bedrock.RespondWith("anthropic.claude-instant-v1", mock.ClaudeBody(
		`{"username":"a.b","email":"a@b.com","role":"X","start_date":"2024-01-01","department":"D","employee_id":"1","manager":"M"}`))

	res := env.pipeline.Run(context.Background(), employee.Record{"full_name": "A B"})

	if !res.Success {
		t.Fatalf("expected success, failed at %s: %v", res.FailedStage, res.Err)
	}
	if res.ModelID != "anthropic.claude-instant-v1" {
		t.Errorf("expected second model to win, got %s", res.ModelID)
	}
}

func TestRunIngestionFailureIsFatal(t *testing.T) {
	env := newTestEnv(testConfig())
	env.s3.FailPutSubstring = "onboarding/"

	res := env.pipeline.Run(context.Background(), employee.Record{"full_name": "Bob Lee"})

	if res.Success {
		t.Fatal("expected run to fail")
	}
	if res.FailedStage != StageIngesting {
		t.Errorf("expected failure at INGESTING, got %s", res.FailedStage)
	}
	if res.Err == nil {
		t.Error("expected the storage fault to be returned")
	}
}

func TestRunAuditFailureIsFatal(t *testing.T) {
	env := newTestEnv(testConfig())
	env.s3.FailPutSubstring = "audit/"

	res := env.pipeline.Run(context.Background(), employee.Record{"full_name": "Bob Lee"})

	if res.Success {
		t.Fatal("expected run to fail")
	}
	if res.FailedStage != StageAuditing {
		t.Errorf("expected failure at AUDITING, got %s", res.FailedStage)
	}
	// The document was persisted before the audit fault; no rollback.
	if res.DocumentKey == "" {
		t.Error("expected document key to survive in the failure result")
	}
	if res.User.Username == "" {
		t.Error("expected extracted user to survive in the failure result")
	}
}

func TestRunPIIDegradedStatus(t *testing.T) {
	env := newTestEnv(testConfig())
	env.comprehend.FailWith = "access denied"

	res := env.pipeline.Run(context.Background(), employee.Record{"full_name": "Bob Lee"})

	if !res.Success {
		t.Fatalf("expected success despite PII check failure, failed at %s: %v", res.FailedStage, res.Err)
	}
	if res.PII.Status != pii.StatusCheckFailed {
		t.Errorf("expected CHECK_FAILED, got %s", res.PII.Status)
	}
}

func TestRunAdvisoryPIIDoesNotBlockProvisioning(t *testing.T) {
	env := newTestEnv(testConfig())
	env.comprehend.Entities = append(env.comprehend.Entities, mock.Entity("NAME", 0.99, 0, 3))

	res := env.pipeline.Run(context.Background(), employee.Record{"full_name": "Bob Lee"})

	if !res.Success {
		t.Fatalf("expected success, failed at %s: %v", res.FailedStage, res.Err)
	}
	if res.PII.Status != pii.StatusReviewRequired {
		t.Errorf("expected REVIEW_REQUIRED, got %s", res.PII.Status)
	}
	if res.Provisioning.Status != provision.StatusProvisioned {
		t.Errorf("expected advisory findings to not gate provisioning, got %s", res.Provisioning.Status)
	}
}

func TestRunBlockOnPIIReview(t *testing.T) {
	cfg := testConfig()
	cfg.BlockOnPIIReview = true
	env := newTestEnv(cfg)
	env.comprehend.Entities = append(env.comprehend.Entities, mock.Entity("NAME", 0.99, 0, 3))

	res := env.pipeline.Run(context.Background(), employee.Record{"full_name": "Bob Lee"})

	if !res.Success {
		t.Fatalf("expected success, failed at %s: %v", res.FailedStage, res.Err)
	}
	if res.Provisioning.Status != provision.StatusSkipped {
		t.Errorf("expected provisioning SKIPPED under gating policy, got %s", res.Provisioning.Status)
	}
	// The audit record is still written.
	if res.AuditKey == "" {
		t.Error("expected audit record despite gated provisioning")
	}
}

func TestRunMetrics(t *testing.T) {
	env := newTestEnv(testConfig())
	env.comprehend.Entities = append(env.comprehend.Entities, mock.Entity("NAME", 0.99, 0, 3))

	env.pipeline.Run(context.Background(), employee.Record{"full_name": "Bob Lee"})

	report := env.metrics.GenerateReport()
	if report.RunsStarted != 1 || report.RunsCompleted != 1 || report.RunsFailed != 0 {
		t.Errorf("unexpected run counters: %+v", report)
	}
	if report.Fallbacks != 1 || report.AIExtractions != 0 {
		t.Errorf("unexpected extraction counters: %+v", report)
	}
	if report.ModelFailures != 1 {
		t.Errorf("expected 1 model failure, got %d", report.ModelFailures)
	}
	if report.PIIEntities != 1 {
		t.Errorf("expected 1 PII entity, got %d", report.PIIEntities)
	}
}
