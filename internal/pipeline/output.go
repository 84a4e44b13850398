// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-17
// Last Modified: 2026-10-17

package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/Kavirubc/tplcheck/internal/chart"
	"github.com/Kavirubc/tplcheck/internal/sheet"
	"github.com/Kavirubc/tplcheck/internal/storage"
	"github.com/Kavirubc/tplcheck/pkg/models"
)

// Output persists a run's workbook and chart into a storage.Store.
type Output struct {
	store   storage.Store
	dataset string
	chart   string
}

// NewOutput creates a persister writing the workbook as dataset and the chart as chartName.
func NewOutput(store storage.Store, dataset, chartName string) *Output {
	return &Output{
		store:   store,
		dataset: dataset,
		chart:   chartName,
	}
}

// Dataset returns the name the workbook is written under.
func (o *Output) Dataset() string {
	return o.dataset
}

// SaveResults overwrites the workbook with rows.
func (o *Output) SaveResults(ctx context.Context, rows []models.ProcessedRow) error {
	var buf bytes.Buffer
	if err := sheet.Encode(&buf, rows); err != nil {
		return fmt.Errorf("failed to encode %s: %w", o.dataset, err)
	}
	if err := o.store.Put(ctx, o.dataset, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to save %s: %w", o.dataset, err)
	}
	return nil
}

// SaveChart renders summary and overwrites the chart image.
func (o *Output) SaveChart(ctx context.Context, summary chart.Summary) error {
	data, err := chart.Render(summary)
	if err != nil {
		return err
	}
	if err := o.store.Put(ctx, o.chart, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", o.chart, err)
	}
	return nil
}

// OutputName derives the result workbook name from an upload name:
// "report.xlsx" with suffix "_ui_output.xlsx" becomes "report_ui_output.xlsx".
func OutputName(upload, suffix string) string {
	base := path.Base(strings.ReplaceAll(upload, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base)) + suffix
}
