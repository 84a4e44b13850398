package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Kavirubc/tplcheck/internal/pipeline"
	"github.com/Kavirubc/tplcheck/internal/sheet"
	"github.com/Kavirubc/tplcheck/internal/storage"
)

func newProcessCmd() *cobra.Command {
	var batchSize int
	cmd := &cobra.Command{
		Use:   "process <file.xlsx>",
		Short: "Check a workbook and print progress events as JSON lines",
		Long: `Stores the workbook, runs every row through the checking pipeline and writes one
JSON progress event per completed batch to stdout, followed by a completion event.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			input := args[0]
			if filepath.Ext(input) != ".xlsx" {
				return fmt.Errorf("only .xlsx files are allowed: %s", input)
			}

			a, err := newApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if batchSize > 0 {
				a.cfg.Pipeline.BatchSize = batchSize
			}
			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			rows, err := sheet.Decode(bytes.NewReader(data))
			if err != nil {
				return err
			}

			store, err := storage.New(a.cfg.Storage)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			upload := filepath.Base(input)
			if err := store.Put(ctx, upload, data); err != nil {
				return fmt.Errorf("failed to store input: %w", err)
			}

			dataset := pipeline.OutputName(upload, a.cfg.Output.Suffix)
			out := pipeline.NewOutput(store, dataset, a.cfg.Output.ChartName)
			p := pipeline.New(a.proc, out, a.cfg.Pipeline.BatchSize, a.logger.Named("pipeline"))

			a.logger.Info("processing workbook",
				zap.String("input", input),
				zap.Int("rows", len(rows)),
				zap.String("dataset", dataset))

			enc := json.NewEncoder(cmd.OutOrStdout())
			for ev, err := range p.Run(ctx, rows) {
				if err != nil {
					return fmt.Errorf("processing failed: %w", err)
				}
				if err := enc.Encode(ev); err != nil {
					return fmt.Errorf("failed to write event: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "rows per batch (overrides pipeline.batch_size)")
	return cmd
}
