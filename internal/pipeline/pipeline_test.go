package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kavirubc/tplcheck/internal/chart"
	"github.com/Kavirubc/tplcheck/internal/processor"
	"github.com/Kavirubc/tplcheck/internal/sheet"
	"github.com/Kavirubc/tplcheck/internal/storage"
	"github.com/Kavirubc/tplcheck/pkg/models"
)

const (
	datasetName = "report_ui_output.xlsx"
	chartName   = "plot.png"
)

// scriptedQuerier answers every content with a fixed reply unless told otherwise.
type scriptedQuerier struct {
	replies map[string]string
	fail    map[string]error
}

func (q *scriptedQuerier) Query(_ context.Context, content string) (string, error) {
	if err := q.fail[content]; err != nil {
		return "", err
	}
	if reply, ok := q.replies[content]; ok {
		return reply, nil
	}
	return "100%\nPre-condition: ECU on\nAcceptance Criteria:\nInput: a\nOutput: b\nExpected: c", nil
}

func dataset(n int) []models.Row {
	rows := make([]models.Row, n)
	for i := range rows {
		rows[i] = models.Row{
			ID:                fmt.Sprintf("%d", i+1),
			Criteria:          fmt.Sprintf("criteria %d", i+1),
			TemplateStructure: models.NonCompliant,
		}
	}
	return rows
}

func newTestPipeline(q processor.Querier, store storage.Store, batchSize int) *Pipeline {
	proc := processor.NewBatchProcessor(q, processor.Options{}, nil)
	return New(proc, NewOutput(store, datasetName, chartName), batchSize, nil)
}

func collect(t *testing.T, p *Pipeline, rows []models.Row) ([]models.ProgressEvent, []error) {
	t.Helper()
	var events []models.ProgressEvent
	var errs []error
	for ev, err := range p.Run(context.Background(), rows) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		events = append(events, ev)
	}
	return events, errs
}

func storedRows(t *testing.T, store storage.Store) []models.Row {
	t.Helper()
	data, err := store.Get(context.Background(), datasetName)
	require.NoError(t, err)
	rows, err := sheet.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return rows
}

func TestRun_TwoBatches(t *testing.T) {
	store := storage.NewMemoryStore()
	p := newTestPipeline(&scriptedQuerier{}, store, 10)

	events, errs := collect(t, p, dataset(12))
	require.Empty(t, errs)
	require.Len(t, events, 3)

	assert.Equal(t, 1, events[0].Batch)
	assert.Equal(t, 2, events[0].TotalBatches)
	assert.Equal(t, "Processing Batch: 1/2", events[0].Message)
	assert.Len(t, events[0].BatchResult, 10)
	assert.True(t, strings.HasPrefix(events[0].ID, "batch_1_"))

	assert.Equal(t, 2, events[1].Batch)
	assert.Equal(t, 2, events[1].TotalBatches)
	assert.Len(t, events[1].BatchResult, 2)
	assert.Equal(t, "11", events[1].BatchResult[0].ID)

	assert.True(t, events[2].IsTerminal())
	assert.True(t, strings.HasPrefix(events[2].ID, "complete_"))
	assert.Equal(t, CompleteMessage, events[2].Message)
	assert.Nil(t, events[2].BatchResult)

	rows := storedRows(t, store)
	require.Len(t, rows, 12)
	for i, row := range rows {
		assert.Equal(t, fmt.Sprintf("%d", i+1), row.ID)
	}
	assert.Equal(t, 2, store.Puts(datasetName))

	png, err := store.Get(context.Background(), chartName)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestRun_ReplyWithoutPercent(t *testing.T) {
	store := storage.NewMemoryStore()
	q := &scriptedQuerier{replies: map[string]string{
		"criteria 2": "I could not find any structure in the given content.",
	}}
	p := newTestPipeline(q, store, 10)

	events, errs := collect(t, p, dataset(3))
	require.Empty(t, errs)
	require.Len(t, events, 2)

	row := events[0].BatchResult[1]
	assert.Equal(t, models.TierNoMatch.Description(), row.SimilarityPercent)
	assert.True(t, strings.HasPrefix(row.ProposedSolution, "Pre-condition:None"))
	assert.Equal(t, models.TierFullMatch.Description(), events[0].BatchResult[0].SimilarityPercent)
}

func TestRun_ServiceFailureFailsBeforeFirstEvent(t *testing.T) {
	store := storage.NewMemoryStore()
	q := &scriptedQuerier{fail: map[string]error{
		"criteria 7": fmt.Errorf("%w: connection refused", models.ErrExternalService),
	}}
	p := newTestPipeline(q, store, 10)

	events, errs := collect(t, p, dataset(12))
	assert.Empty(t, events)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], models.ErrExternalService)

	_, err := store.Get(context.Background(), datasetName)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Zero(t, store.Puts(datasetName))
}

func TestRun_FailureKeepsEarlierSnapshot(t *testing.T) {
	store := storage.NewMemoryStore()
	q := &scriptedQuerier{fail: map[string]error{
		"criteria 11": errors.New("boom"),
	}}
	p := newTestPipeline(q, store, 10)

	events, errs := collect(t, p, dataset(12))
	require.Len(t, events, 1)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "batch 2/2")

	assert.Len(t, storedRows(t, store), 10)
	_, err := store.Get(context.Background(), chartName)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRun_StateTransitions(t *testing.T) {
	var got []Transition
	p := newTestPipeline(&scriptedQuerier{}, storage.NewMemoryStore(), 10).
		WithObserver(func(tr Transition) { got = append(got, tr) })

	_, errs := collect(t, p, dataset(12))
	require.Empty(t, errs)

	assert.Equal(t, []Transition{
		{StateIdle, -1},
		{StateBatchInFlight, 0},
		{StateBatchComplete, 0},
		{StateBatchInFlight, 1},
		{StateBatchComplete, 1},
		{StateAllBatchesComplete, -1},
		{StateFinalizing, -1},
		{StateDone, -1},
	}, got)
	assert.True(t, got[len(got)-1].State.Terminal())
}

func TestRun_FailedTransition(t *testing.T) {
	var got []Transition
	q := &scriptedQuerier{fail: map[string]error{"criteria 1": errors.New("boom")}}
	p := newTestPipeline(q, storage.NewMemoryStore(), 10).
		WithObserver(func(tr Transition) { got = append(got, tr) })

	_, errs := collect(t, p, dataset(3))
	require.Len(t, errs, 1)
	assert.Equal(t, []Transition{
		{StateIdle, -1},
		{StateBatchInFlight, 0},
		{StateFailed, -1},
	}, got)
}

func TestRun_ConsumerStopsEarly(t *testing.T) {
	store := storage.NewMemoryStore()
	p := newTestPipeline(&scriptedQuerier{}, store, 5)

	var seen int
	for ev, err := range p.Run(context.Background(), dataset(12)) {
		require.NoError(t, err)
		seen++
		assert.Equal(t, 1, ev.Batch)
		break
	}

	assert.Equal(t, 1, seen)
	assert.Equal(t, 1, store.Puts(datasetName))
	assert.Len(t, storedRows(t, store), 5)
	assert.Zero(t, store.Puts(chartName))
}

func TestRun_EmptyDataset(t *testing.T) {
	store := storage.NewMemoryStore()
	p := newTestPipeline(&scriptedQuerier{}, store, 10)

	events, errs := collect(t, p, nil)
	require.Empty(t, errs)
	require.Len(t, events, 1)
	assert.True(t, events[0].IsTerminal())
	assert.Equal(t, CompleteEmptyMessage, events[0].Message)
	assert.Zero(t, store.Puts(chartName))
}

func TestRun_InvalidBatchSize(t *testing.T) {
	p := newTestPipeline(&scriptedQuerier{}, storage.NewMemoryStore(), 0)

	events, errs := collect(t, p, dataset(3))
	assert.Empty(t, events)
	require.Len(t, errs, 1)
}

// failingPersister rejects every write.
type failingPersister struct{}

func (failingPersister) SaveResults(context.Context, []models.ProcessedRow) error {
	return errors.New("disk full")
}

func (failingPersister) SaveChart(context.Context, chart.Summary) error {
	return errors.New("disk full")
}

func TestRun_PersistenceFailure(t *testing.T) {
	proc := processor.NewBatchProcessor(&scriptedQuerier{}, processor.Options{}, nil)
	p := New(proc, failingPersister{}, 10, nil)

	events, errs := collect(t, p, dataset(3))
	assert.Empty(t, events)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], models.ErrPersistence)
}

func TestRun_IsLazy(t *testing.T) {
	store := storage.NewMemoryStore()
	p := newTestPipeline(&scriptedQuerier{}, store, 10)

	_ = p.Run(context.Background(), dataset(3))
	assert.Zero(t, store.Puts(datasetName))
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		upload string
		want   string
	}{
		{"report.xlsx", "report_ui_output.xlsx"},
		{"my.data.v2.xlsx", "my.data.v2_ui_output.xlsx"},
		{"dir/report.xlsx", "report_ui_output.xlsx"},
		{`C:\tmp\report.xlsx`, "report_ui_output.xlsx"},
		{"noext", "noext_ui_output.xlsx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputName(tt.upload, "_ui_output.xlsx"), tt.upload)
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "batch_in_flight", StateBatchInFlight.String())
	assert.Equal(t, "state(42)", State(42).String())
	assert.False(t, StateFinalizing.Terminal())
}
