package processor

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Kavirubc/tplcheck/internal/criteria"
	"github.com/Kavirubc/tplcheck/internal/logging"
	"github.com/Kavirubc/tplcheck/pkg/models"
)

// Querier sends one row's content to the model and returns the raw reply.
type Querier interface {
	Query(ctx context.Context, content string) (string, error)
}

// Options tune a BatchProcessor.
type Options struct {
	// Concurrency caps in-flight model calls per batch; 0 means one per row.
	Concurrency int
	// ClassifyMissing fills a blank compliance flag with criteria.Classify before deciding to skip.
	ClassifyMissing bool
}

// BatchProcessor turns a batch of rows into processed rows, querying the model
// for every row not already flagged compliant.
type BatchProcessor struct {
	checker Querier
	opts    Options
	logger  *zap.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(checker Querier, opts Options, logger *zap.Logger) *BatchProcessor {
	return &BatchProcessor{
		checker: checker,
		opts:    opts,
		logger:  logging.OrNop(logger),
	}
}

// Process handles one batch. Model calls run concurrently; results keep input order.
// Any row failure fails the whole batch and cancels the calls still in flight.
func (p *BatchProcessor) Process(ctx context.Context, rows []models.Row) ([]models.ProcessedRow, error) {
	out := make([]models.ProcessedRow, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	if p.opts.Concurrency > 0 {
		g.SetLimit(p.opts.Concurrency)
	}

	for i, row := range rows {
		if p.opts.ClassifyMissing && !row.HasFlag() {
			row.TemplateStructure = criteria.Classify(row.Criteria)
			p.logger.Debug("classified blank compliance flag",
				zap.String("id", row.ID),
				zap.String("flag", row.TemplateStructure))
		}

		if row.IsCompliant() {
			p.logger.Debug("row already follows template", zap.String("id", row.ID))
			out[i] = models.SkippedRow(row)
			continue
		}

		g.Go(func() error {
			reply, err := p.checker.Query(gctx, row.Criteria)
			if err != nil {
				return fmt.Errorf("row %q: %w", row.ID, err)
			}
			out[i] = models.NewProcessedRow(row, criteria.Parse(reply))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
