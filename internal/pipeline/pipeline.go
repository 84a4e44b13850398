// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-17
// Last Modified: 2026-10-17

package pipeline

import (
	"context"
	"fmt"
	"iter"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kavirubc/tplcheck/internal/chart"
	"github.com/Kavirubc/tplcheck/internal/logging"
	"github.com/Kavirubc/tplcheck/internal/processor"
	"github.com/Kavirubc/tplcheck/pkg/models"
)

// Messages carried by the terminal event.
const (
	CompleteMessage      = "Processing complete. Plot generated and file saved."
	CompleteEmptyMessage = "Processing complete. No rows to process."
)

// Processor turns one batch of rows into processed rows.
type Processor interface {
	Process(ctx context.Context, rows []models.Row) ([]models.ProcessedRow, error)
}

// Persister durably stores run results. SaveResults replaces the previous snapshot.
type Persister interface {
	SaveResults(ctx context.Context, rows []models.ProcessedRow) error
	SaveChart(ctx context.Context, summary chart.Summary) error
}

// Pipeline runs a dataset through a Processor batch by batch, persisting the
// accumulated result after every batch.
type Pipeline struct {
	proc      Processor
	out       Persister
	batchSize int
	logger    *zap.Logger
	observer  Observer
	newID     func() string
}

// New creates a new pipeline
func New(proc Processor, out Persister, batchSize int, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		proc:      proc,
		out:       out,
		batchSize: batchSize,
		logger:    logging.OrNop(logger),
		newID:     uuid.NewString,
	}
}

// WithObserver registers fn to receive every state transition.
func (p *Pipeline) WithObserver(fn Observer) *Pipeline {
	p.observer = fn
	return p
}

// Run returns the event stream for rows. Nothing happens until the sequence is
// iterated. Each completed batch yields one event, followed by a terminal event.
// A failure yields a single (zero event, error) pair and ends the sequence; snapshots
// persisted before the failure are kept. Breaking out of the loop stops the run after
// the batch that produced the last consumed event.
func (p *Pipeline) Run(ctx context.Context, rows []models.Row) iter.Seq2[models.ProgressEvent, error] {
	return func(yield func(models.ProgressEvent, error) bool) {
		r := &run{Pipeline: p}
		r.transition(StateIdle, -1)

		batches, err := processor.Partition(rows, p.batchSize)
		if err != nil {
			r.fail(yield, err)
			return
		}
		total := len(batches)

		var accumulated []models.ProcessedRow
		tracker := make(BatchTracker, total)

		for i, batch := range batches {
			if tracker.Done(i) {
				continue
			}

			r.transition(StateBatchInFlight, i)
			result, err := p.proc.Process(ctx, batch)
			if err != nil {
				r.fail(yield, fmt.Errorf("batch %d/%d: %w", i+1, total, err))
				return
			}

			tracker.Mark(i)
			accumulated = append(accumulated, result...)

			if err := p.out.SaveResults(ctx, accumulated); err != nil {
				r.fail(yield, fmt.Errorf("%w: batch %d/%d: %w", models.ErrPersistence, i+1, total, err))
				return
			}
			r.transition(StateBatchComplete, i)

			p.logger.Info("batch complete",
				zap.Int("batch", i+1),
				zap.Int("total_batches", total),
				zap.Int("rows", len(result)),
				zap.Int("accumulated", len(accumulated)))

			event := models.ProgressEvent{
				ID:           fmt.Sprintf("batch_%d_%s", i+1, p.newID()),
				Batch:        i + 1,
				TotalBatches: total,
				Message:      fmt.Sprintf("Processing Batch: %d/%d", i+1, total),
				BatchResult:  result,
			}
			if !yield(event, nil) {
				p.logger.Debug("consumer stopped the run", zap.Int("batch", i+1))
				return
			}
		}

		r.transition(StateAllBatchesComplete, -1)
		r.transition(StateFinalizing, -1)

		message := CompleteEmptyMessage
		if len(accumulated) > 0 {
			if err := p.out.SaveChart(ctx, chart.Summarize(accumulated)); err != nil {
				r.fail(yield, fmt.Errorf("%w: chart: %w", models.ErrPersistence, err))
				return
			}
			message = CompleteMessage
		}

		r.transition(StateDone, -1)
		yield(models.ProgressEvent{
			ID:      "complete_" + p.newID(),
			Message: message,
		}, nil)
	}
}

// run holds the per-iteration state of one Run.
type run struct {
	*Pipeline
	state State
}

func (r *run) transition(s State, batch int) {
	r.state = s
	r.logger.Debug("pipeline state", zap.Stringer("state", s), zap.Int("batch", batch))
	if r.observer != nil {
		r.observer(Transition{State: s, Batch: batch})
	}
}

func (r *run) fail(yield func(models.ProgressEvent, error) bool, err error) {
	r.logger.Error("pipeline failed", zap.Stringer("from", r.state), zap.Error(err))
	r.transition(StateFailed, -1)
	yield(models.ProgressEvent{}, err)
}
