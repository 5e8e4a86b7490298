// Package main implements the hr-onboard command line interface. It wires
// the AWS clients into the pipeline and runs either a single employee record
// or a JSONL roster from S3.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gurre/s3streamer"
	"github.com/rs/zerolog"

	"github.com/gurre/hr-onboard/audit"
	"github.com/gurre/hr-onboard/aws"
	"github.com/gurre/hr-onboard/config"
	"github.com/gurre/hr-onboard/document"
	"github.com/gurre/hr-onboard/employee"
	"github.com/gurre/hr-onboard/extract"
	"github.com/gurre/hr-onboard/metrics"
	"github.com/gurre/hr-onboard/pii"
	"github.com/gurre/hr-onboard/provision"
	"github.com/gurre/hr-onboard/roster"
	"github.com/gurre/hr-onboard/textgen"
	"github.com/gurre/hr-onboard/workflow"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses flags, validates configuration, and executes the onboarding
// workflow.
func run() error {
	fs := flag.NewFlagSet("onboard", flag.ExitOnError)

	// Required flags
	bucket := fs.String("bucket", "", "S3 bucket for HR documents and the audit trail")

	// Input selection: exactly one of -record or -roster
	recordPath := fs.String("record", "", "Path to a JSON file holding one employee record")
	rosterURI := fs.String("roster", "", "S3 URI of a JSONL employee roster (s3://bucket/key)")

	// Optional flags
	region := fs.String("region", "", "AWS region (defaults to AWS_REGION env)")
	models := fs.String("models", "amazon.titan-text-express-v1", "Comma-separated model identifiers tried in order; empty disables AI extraction")
	maxTokens := fs.Int("max-tokens", 500, "Maximum tokens per generation call")
	temperature := fs.Float64("temperature", 0.1, "Sampling temperature for generation calls")
	language := fs.String("language", "en", "Language hint for PII detection")
	registryTable := fs.String("registry-table", "", "DynamoDB table recording provisioned accounts")
	reportRole := fs.String("report-role", "", "IAM role inspected for the provisioning report")
	blockOnReview := fs.Bool("block-on-pii-review", false, "Stop provisioning when PII findings require review")
	reportURI := fs.String("report", "", "S3 URI for the final metrics report")
	dryRun := fs.Bool("dry-run", false, "Skip the account registry write")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	if (*recordPath == "") == (*rosterURI == "") {
		return fmt.Errorf("exactly one of -record or -roster is required")
	}

	cfg := &config.Config{
		BucketName:       *bucket,
		Region:           *region,
		LanguageCode:     *language,
		ModelIDs:         splitModels(*models),
		MaxTokens:        *maxTokens,
		Temperature:      *temperature,
		RegistryTable:    *registryTable,
		ReportRoleName:   *reportRole,
		BlockOnPIIReview: *blockOnReview,
		RosterS3URI:      *rosterURI,
		ReportS3URI:      *reportURI,
		DryRun:           *dryRun,
	}
	if cfg.Region == "" {
		cfg.Region = os.Getenv("AWS_REGION")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Initialize AWS clients
	rawS3Client := s3.NewFromConfig(awsCfg)
	s3Client := aws.NewS3Client(rawS3Client)
	comprehendClient := aws.NewComprehendClient(comprehend.NewFromConfig(awsCfg))
	bedrockClient := aws.NewBedrockRuntimeClient(bedrockruntime.NewFromConfig(awsCfg))
	iamClient := aws.NewIAMClient(iam.NewFromConfig(awsCfg))
	dynamoClient := aws.NewDynamoDBClient(dynamodb.NewFromConfig(awsCfg))

	// Wire the pipeline stages
	m := metrics.NewMetrics()
	pipeline := workflow.NewPipeline(
		cfg,
		document.NewS3Store(s3Client, cfg.BucketName),
		pii.NewScanner(comprehendClient, cfg.LanguageCode),
		extract.NewAIExtractor(textgen.NewBedrock(bedrockClient), cfg.ModelIDs, cfg.MaxTokens, cfg.Temperature),
		provision.NewProvisioner(dynamoClient, iamClient, cfg.RegistryTable, cfg.ReportRoleName, cfg.DryRun),
		audit.NewS3Trail(s3Client, cfg.BucketName),
		m,
		log,
	)

	if *rosterURI != "" {
		runner := roster.NewRunner(s3streamer.NewS3Streamer(rawS3Client), pipeline, m)
		summary, err := runner.Process(ctx, cfg.RosterBucket(), cfg.RosterKey())
		if err != nil {
			return err
		}
		log.Info().Int("processed", summary.Processed).
			Int("failed", summary.Failed).
			Int("corrupt", summary.Corrupt).Msg("roster processed")
	} else {
		data, err := os.ReadFile(*recordPath)
		if err != nil {
			return fmt.Errorf("read employee record: %w", err)
		}
		rec, err := employee.DecodeRecord(data)
		if err != nil {
			return err
		}

		res := pipeline.Run(ctx, rec)
		if !res.Success {
			return fmt.Errorf("onboarding failed at %s: %w", res.FailedStage, res.Err)
		}
		printResult(res)
	}

	report := m.GenerateReport()
	fmt.Println(report)

	if cfg.ReportS3URI != "" {
		uploader := metrics.NewS3Uploader(s3Client)
		if err := uploader.UploadReport(ctx, cfg.ReportS3URI, report); err != nil {
			return fmt.Errorf("failed to upload report: %w", err)
		}
		log.Info().Str("uri", cfg.ReportS3URI).Msg("report uploaded")
	}

	return nil
}

// printResult renders a single-run outcome to stdout.
func printResult(res workflow.Result) {
	fmt.Printf("Onboarded %s (%s)\n", res.User.Username, res.User.Email)
	fmt.Printf("  Role:        %s\n", res.User.Role)
	fmt.Printf("  Department:  %s\n", res.User.Department)
	fmt.Printf("  Start date:  %s\n", res.User.StartDate)
	fmt.Printf("  Employee ID: %s\n", res.User.EmployeeID)
	fmt.Printf("  Manager:     %s\n", res.User.Manager)
	fmt.Printf("  Extraction:  %s", res.ExtractionPath)
	if res.ModelID != "" {
		fmt.Printf(" (%s)", res.ModelID)
	}
	fmt.Println()
	fmt.Printf("  PII status:  %s (%d entities)\n", res.PII.Status, res.PII.EntityCount)
	fmt.Printf("  Provisioning: %s", res.Provisioning.Status)
	if len(res.Provisioning.PoliciesAssigned) > 0 {
		fmt.Printf(" [%s]", strings.Join(res.Provisioning.PoliciesAssigned, ", "))
	}
	fmt.Println()
	fmt.Printf("  Document:    %s\n", res.DocumentKey)
	fmt.Printf("  Audit:       %s\n", res.AuditKey)
}

// splitModels parses the comma-separated model list, dropping blanks.
func splitModels(s string) []string {
	var out []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
