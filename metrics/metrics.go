// Package metrics collects counters across onboarding runs and generates the
// final JSON report, optionally uploaded to S3 alongside the audit trail.
package metrics

import (
	"fmt"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

// Metrics collects counters for a batch of onboarding runs. Counters use
// atomic operations so a future concurrent runner would not need changes.
type Metrics struct {
	runsStarted    int64 // Runs entered the pipeline
	runsCompleted  int64 // Runs reached COMPLETE
	runsFailed     int64 // Runs ended in the FAILED terminal state
	aiExtractions  int64 // Runs whose record came from the model path
	fallbacks      int64 // Runs whose record came from the rule-based path
	modelFailures  int64 // Individual model attempts that produced nothing
	piiEntities    int64 // PII entities detected across runs
	piiCheckFailed int64 // Entity-detection calls that failed
	corruptRecords int64 // Roster lines that could not be decoded

	startTime time.Time
}

// NewMetrics creates a Metrics instance with the clock started.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordRunStarted increments the started-runs counter
func (m *Metrics) RecordRunStarted() { atomic.AddInt64(&m.runsStarted, 1) }

// RecordRunCompleted increments the completed-runs counter
func (m *Metrics) RecordRunCompleted() { atomic.AddInt64(&m.runsCompleted, 1) }

// RecordRunFailed increments the failed-runs counter
func (m *Metrics) RecordRunFailed() { atomic.AddInt64(&m.runsFailed, 1) }

// RecordAIExtraction increments the model-path counter
func (m *Metrics) RecordAIExtraction() { atomic.AddInt64(&m.aiExtractions, 1) }

// RecordFallback increments the rule-based-path counter
func (m *Metrics) RecordFallback() { atomic.AddInt64(&m.fallbacks, 1) }

// RecordModelFailure increments the per-model failure counter
func (m *Metrics) RecordModelFailure() { atomic.AddInt64(&m.modelFailures, 1) }

// RecordPIIEntities adds n detected entities to the counter
func (m *Metrics) RecordPIIEntities(n int) { atomic.AddInt64(&m.piiEntities, int64(n)) }

// RecordPIICheckFailed increments the failed-detection counter
func (m *Metrics) RecordPIICheckFailed() { atomic.AddInt64(&m.piiCheckFailed, 1) }

// RecordCorrupt increments the corrupt roster line counter
func (m *Metrics) RecordCorrupt() { atomic.AddInt64(&m.corruptRecords, 1) }

// Report contains the final metrics for a batch of runs.
type Report struct {
	StartTime      time.Time     `json:"startTime"`
	EndTime        time.Time     `json:"endTime"`
	RunsStarted    int64         `json:"runsStarted"`
	RunsCompleted  int64         `json:"runsCompleted"`
	RunsFailed     int64         `json:"runsFailed"`
	AIExtractions  int64         `json:"aiExtractions"`
	Fallbacks      int64         `json:"fallbacks"`
	ModelFailures  int64         `json:"modelFailures"`
	PIIEntities    int64         `json:"piiEntities"`
	PIICheckFailed int64         `json:"piiCheckFailed"`
	CorruptRecords int64         `json:"corruptRecords"`
	Duration       time.Duration `json:"duration"`
}

// GenerateReport snapshots the counters into a Report ready for JSON output.
func (m *Metrics) GenerateReport() Report {
	endTime := time.Now()
	return Report{
		StartTime:      m.startTime,
		EndTime:        endTime,
		RunsStarted:    atomic.LoadInt64(&m.runsStarted),
		RunsCompleted:  atomic.LoadInt64(&m.runsCompleted),
		RunsFailed:     atomic.LoadInt64(&m.runsFailed),
		AIExtractions:  atomic.LoadInt64(&m.aiExtractions),
		Fallbacks:      atomic.LoadInt64(&m.fallbacks),
		ModelFailures:  atomic.LoadInt64(&m.modelFailures),
		PIIEntities:    atomic.LoadInt64(&m.piiEntities),
		PIICheckFailed: atomic.LoadInt64(&m.piiCheckFailed),
		CorruptRecords: atomic.LoadInt64(&m.corruptRecords),
		Duration:       endTime.Sub(m.startTime),
	}
}

// MarshalJSON formats the report with a human-readable duration.
func (r Report) MarshalJSON() ([]byte, error) {
	type Alias Report
	return json.Marshal(&struct {
		Alias
		Duration string `json:"duration"`
	}{
		Alias:    Alias(r),
		Duration: r.Duration.String(),
	})
}

// String returns the console rendering of the report.
func (r Report) String() string {
	return fmt.Sprintf(
		"Onboarding completed in %s\n"+
			"Runs: %d started, %d completed, %d failed\n"+
			"Extraction: %d AI, %d fallback (%d model attempts failed)\n"+
			"PII: %d entities detected, %d checks failed\n"+
			"Corrupt roster records: %d",
		r.Duration,
		r.RunsStarted,
		r.RunsCompleted,
		r.RunsFailed,
		r.AIExtractions,
		r.Fallbacks,
		r.ModelFailures,
		r.PIIEntities,
		r.PIICheckFailed,
		r.CorruptRecords,
	)
}
