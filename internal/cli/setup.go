package cli

import (
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Kavirubc/tplcheck/internal/config"
	"github.com/Kavirubc/tplcheck/internal/criteria"
	"github.com/Kavirubc/tplcheck/internal/llm"
	"github.com/Kavirubc/tplcheck/internal/logging"
	"github.com/Kavirubc/tplcheck/internal/processor"
)

// app bundles what every command that talks to the model needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	llm    llm.Provider
	proc   *processor.BatchProcessor
}

// loadConfig reads .env, locates and validates the config file.
// Validation problems are written to errOut.
func loadConfig(errOut io.Writer) (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(config.FindConfigPath(cfgFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(errOut, "config error: %v\n", e)
		}
		return nil, fmt.Errorf("invalid configuration")
	}
	return cfg, nil
}

// newApp loads configuration and wires the model provider into a batch processor.
func newApp(errOut io.Writer) (*app, error) {
	cfg, err := loadConfig(errOut)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	template, err := cfg.LoadTemplate()
	if err != nil {
		return nil, err
	}

	provider, err := llm.NewProvider(&cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	proc := processor.NewBatchProcessor(criteria.NewChecker(provider, template), processor.Options{
		Concurrency:     cfg.Pipeline.Concurrency,
		ClassifyMissing: cfg.Pipeline.ShouldClassifyMissing(),
	}, logger.Named("processor"))

	logger.Debug("model provider ready",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model))

	return &app{
		cfg:    cfg,
		logger: logger,
		llm:    provider,
		proc:   proc,
	}, nil
}

// Close releases the provider and flushes the logger.
func (a *app) Close() error {
	err := a.llm.Close()
	_ = a.logger.Sync()
	return err
}
