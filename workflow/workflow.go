// Package workflow orchestrates the onboarding pipeline. Stages run strictly
// in sequence for one employee record per run: ingest, PII scan, structured
// extraction with rule-based fallback, provisioning, audit. Only ingestion
// and audit failures are fatal; everything else degrades and is recorded in
// the structured result.
package workflow

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gurre/hr-onboard/audit"
	"github.com/gurre/hr-onboard/config"
	"github.com/gurre/hr-onboard/document"
	"github.com/gurre/hr-onboard/employee"
	"github.com/gurre/hr-onboard/extract"
	"github.com/gurre/hr-onboard/metrics"
	"github.com/gurre/hr-onboard/pii"
	"github.com/gurre/hr-onboard/provision"
)

// Stage names the pipeline states. A run moves forward only; FAILED is
// reachable from INGESTING and AUDITING alone.
type Stage string

const (
	StageIngesting    Stage = "INGESTING"
	StageScanningPII  Stage = "SCANNING_PII"
	StageExtracting   Stage = "EXTRACTING"
	StageFallback     Stage = "FALLBACK"
	StageProvisioning Stage = "PROVISIONING"
	StageAuditing     Stage = "AUDITING"
	StageComplete     Stage = "COMPLETE"
	StageFailed       Stage = "FAILED"
)

// Extraction paths reported in results and audit records.
const (
	PathAI        = "ai"
	PathRuleBased = "rule_based"
)

// Scanner runs the PII compliance scan.
type Scanner interface {
	Scan(ctx context.Context, rec employee.Record) pii.Findings
}

// Extractor attempts model-based structured extraction. A nil field mapping
// with a nil error is the soft no-result outcome.
type Extractor interface {
	Extract(ctx context.Context, rec employee.Record) (map[string]any, string, []extract.Attempt, error)
}

// Provisioner performs the simulated account provisioning step.
type Provisioner interface {
	Provision(ctx context.Context, user employee.UserRecord) provision.Result
}

// Result is the structured outcome of one onboarding run. Rendering is the
// caller's concern.
type Result struct {
	Success        bool
	FailedStage    Stage // Set only when Success is false
	Err            error // Fatal stage error, when Success is false
	DocumentKey    string
	User           employee.UserRecord
	ExtractionPath string // PathAI or PathRuleBased
	ModelID        string // Model that produced the record, on the AI path
	PII            pii.Findings
	Provisioning   provision.Result
	AuditKey       string
}

// Pipeline wires the stages together. It holds no per-run state; concurrent
// runs share nothing but the injected collaborators.
type Pipeline struct {
	cfg       *config.Config
	store     document.Store
	scanner   Scanner
	extractor Extractor
	prov      Provisioner
	trail     audit.Recorder
	metrics   *metrics.Metrics
	log       zerolog.Logger
}

// NewPipeline creates a Pipeline with all stage collaborators injected.
func NewPipeline(
	cfg *config.Config,
	store document.Store,
	scanner Scanner,
	extractor Extractor,
	prov Provisioner,
	trail audit.Recorder,
	m *metrics.Metrics,
	log zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		store:     store,
		scanner:   scanner,
		extractor: extractor,
		prov:      prov,
		trail:     trail,
		metrics:   m,
		log:       log,
	}
}

// Metrics exposes the pipeline's counters for batch reporting.
func (p *Pipeline) Metrics() *metrics.Metrics {
	return p.metrics
}

// Run processes one employee record through every stage and returns the
// structured result. It always terminates: either a failure tagged with the
// fatal stage, or a canonical user record satisfying the seven-field
// invariant.
func (p *Pipeline) Run(ctx context.Context, rec employee.Record) Result {
	p.metrics.RecordRunStarted()

	// Ingest. A failed write aborts the run.
	p.log.Debug().Str("stage", string(StageIngesting)).Msg("storing HR document")
	doc, docKey, err := p.store.Put(ctx, rec)
	if err != nil {
		p.metrics.RecordRunFailed()
		p.log.Error().Err(err).Str("stage", string(StageIngesting)).Msg("ingestion failed")
		return Result{FailedStage: StageIngesting, Err: err}
	}
	p.log.Info().Str("stage", string(StageIngesting)).Str("key", docKey).
		Str("document_id", doc.Metadata.DocumentID).Msg("HR document stored")

	// PII scan. Advisory: a failed check degrades status and the run continues.
	p.log.Debug().Str("stage", string(StageScanningPII)).Msg("scanning for PII")
	findings := p.scanner.Scan(ctx, rec)
	p.metrics.RecordPIIEntities(findings.EntityCount)
	if findings.Status == pii.StatusCheckFailed {
		p.metrics.RecordPIICheckFailed()
	}
	p.log.Info().Str("stage", string(StageScanningPII)).
		Str("status", string(findings.Status)).
		Int("entities", findings.EntityCount).Msg("PII scan done")

	// Extract. Model failures are soft: any problem on this path selects the
	// rule-based fallback instead of surfacing an error.
	user, path, modelID := p.extractUser(ctx, rec)
	if path == PathAI {
		p.metrics.RecordAIExtraction()
	} else {
		p.metrics.RecordFallback()
	}

	// Provision, unless policy gates on unresolved PII findings.
	var provResult provision.Result
	if p.cfg.BlockOnPIIReview && findings.Status == pii.StatusReviewRequired {
		provResult = provision.Skip(user)
		p.log.Warn().Str("stage", string(StageProvisioning)).
			Str("username", user.Username).Msg("provisioning blocked pending PII review")
	} else {
		p.log.Debug().Str("stage", string(StageProvisioning)).
			Str("username", user.Username).Msg("provisioning account")
		provResult = p.prov.Provision(ctx, user)
	}

	// Audit. The terminal step; its failure is fatal but earlier persisted
	// documents are not rolled back.
	p.log.Debug().Str("stage", string(StageAuditing)).Msg("appending audit record")
	_, auditKey, err := p.trail.Append(ctx, audit.RunData{
		DocumentKey:    docKey,
		UserData:       user,
		ExtractionPath: path,
		PIISummary:     audit.Summarize(findings),
		Provisioning:   provResult,
	})
	if err != nil {
		p.metrics.RecordRunFailed()
		p.log.Error().Err(err).Str("stage", string(StageAuditing)).Msg("audit append failed")
		return Result{
			FailedStage:    StageAuditing,
			Err:            err,
			DocumentKey:    docKey,
			User:           user,
			ExtractionPath: path,
			ModelID:        modelID,
			PII:            findings,
			Provisioning:   provResult,
		}
	}

	p.metrics.RecordRunCompleted()
	p.log.Info().Str("stage", string(StageComplete)).
		Str("username", user.Username).
		Str("extraction_path", path).
		Str("audit_key", auditKey).Msg("onboarding complete")

	return Result{
		Success:        true,
		DocumentKey:    docKey,
		User:           user,
		ExtractionPath: path,
		ModelID:        modelID,
		PII:            findings,
		Provisioning:   provResult,
		AuditKey:       auditKey,
	}
}

// extractUser runs the model path and validates its output, falling back to
// rule-based extraction on any soft failure. It always returns a record
// satisfying the canonical schema.
func (p *Pipeline) extractUser(ctx context.Context, rec employee.Record) (employee.UserRecord, string, string) {
	p.log.Debug().Str("stage", string(StageExtracting)).Msg("attempting AI extraction")

	fields, modelID, attempts, err := p.extractor.Extract(ctx, rec)
	for _, a := range attempts {
		if a.Err != nil {
			p.metrics.RecordModelFailure()
			p.log.Debug().Str("model", a.ModelID).Err(a.Err).Msg("model attempt failed")
		}
	}

	if err == nil && fields != nil {
		user, verr := employee.UserFromFields(fields)
		if verr == nil {
			p.log.Info().Str("stage", string(StageExtracting)).
				Str("model", modelID).Msg("AI extraction accepted")
			return user, PathAI, modelID
		}
		p.log.Info().Str("stage", string(StageExtracting)).Err(verr).
			Msg("AI extraction rejected by schema validation")
	} else if err != nil {
		p.log.Debug().Str("stage", string(StageExtracting)).Err(err).Msg("AI extraction unavailable")
	}

	p.log.Info().Str("stage", string(StageFallback)).Msg("using rule-based extraction")
	return extract.RuleBased(rec), PathRuleBased, ""
}
