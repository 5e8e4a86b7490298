// Package roster implements batch onboarding from a JSONL roster object in
// S3. Each line is one employee record; records run through the pipeline
// sequentially, one run per line.
package roster

import (
	"context"
	"fmt"

	"github.com/gurre/s3streamer"

	"github.com/gurre/hr-onboard/employee"
	"github.com/gurre/hr-onboard/metrics"
	"github.com/gurre/hr-onboard/workflow"
)

// Pipeline runs one employee record end to end.
type Pipeline interface {
	Run(ctx context.Context, rec employee.Record) workflow.Result
}

// Summary reports what a batch run did.
type Summary struct {
	Processed int // Runs that reached COMPLETE
	Failed    int // Runs that ended in FAILED
	Corrupt   int // Lines that could not be decoded and were skipped
}

// Runner streams a roster object and feeds each line through the pipeline.
type Runner struct {
	streamer s3streamer.Streamer
	pipeline Pipeline
	metrics  *metrics.Metrics
}

// NewRunner creates a batch Runner.
func NewRunner(streamer s3streamer.Streamer, pipeline Pipeline, m *metrics.Metrics) *Runner {
	return &Runner{streamer: streamer, pipeline: pipeline, metrics: m}
}

// Process streams s3://<bucket>/<key> line by line. Corrupt lines are
// counted and skipped; a run's fatal failure is counted but does not abort
// the remainder of the roster. Only a streaming fault or context
// cancellation stops the batch.
func (r *Runner) Process(ctx context.Context, bucket, key string) (Summary, error) {
	var sum Summary

	err := r.streamer.Stream(ctx, bucket, key, 0, func(line []byte, _ int64) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(line) == 0 {
			return nil
		}

		rec, err := employee.DecodeRecord(line)
		if err != nil {
			r.metrics.RecordCorrupt()
			sum.Corrupt++
			return nil
		}

		res := r.pipeline.Run(ctx, rec)
		if res.Success {
			sum.Processed++
		} else {
			sum.Failed++
		}
		return nil
	})
	if err != nil {
		return sum, fmt.Errorf("stream roster s3://%s/%s: %w", bucket, key, err)
	}

	return sum, nil
}
