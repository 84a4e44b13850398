package config

import (
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors
func Validate(cfg *Config) []error {
	var errs []error

	switch cfg.LLM.Provider {
	case "ollama":
	case "openai", "gemini":
		if cfg.LLM.APIKey == "" {
			errs = append(errs, ValidationError{"llm.api_key", "required for provider " + cfg.LLM.Provider})
		}
	default:
		errs = append(errs, ValidationError{"llm.provider", "must be 'ollama', 'openai' or 'gemini'"})
	}
	if cfg.LLM.TimeoutSeconds < 0 {
		errs = append(errs, ValidationError{"llm.timeout_seconds", "must not be negative"})
	}
	if cfg.LLM.CacheSize < 0 {
		errs = append(errs, ValidationError{"llm.cache_size", "must not be negative"})
	}

	if cfg.Pipeline.BatchSize <= 0 {
		errs = append(errs, ValidationError{"pipeline.batch_size", "must be positive"})
	}
	if cfg.Pipeline.Concurrency < 0 {
		errs = append(errs, ValidationError{"pipeline.concurrency", "must not be negative"})
	}

	switch cfg.Storage.Backend {
	case "filesystem":
		if cfg.Storage.Dir == "" {
			errs = append(errs, ValidationError{"storage.dir", "required"})
		}
	case "s3":
		if cfg.Storage.S3.Endpoint == "" {
			errs = append(errs, ValidationError{"storage.s3.endpoint", "required"})
		}
		if cfg.Storage.S3.Bucket == "" {
			errs = append(errs, ValidationError{"storage.s3.bucket", "required"})
		}
		if cfg.Storage.S3.AccessKey == "" || cfg.Storage.S3.SecretKey == "" {
			errs = append(errs, ValidationError{"storage.s3", "access_key and secret_key are required"})
		}
	case "memory":
	default:
		errs = append(errs, ValidationError{"storage.backend", "must be 'filesystem', 's3' or 'memory'"})
	}

	if cfg.Output.Suffix == "" {
		errs = append(errs, ValidationError{"output.suffix", "required"})
	}
	if cfg.Output.ChartName == "" {
		errs = append(errs, ValidationError{"output.chart_name", "required"})
	}

	if cfg.Server.MaxUploadMB < 0 {
		errs = append(errs, ValidationError{"server.max_upload_mb", "must not be negative"})
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{"logging.level", "must be one of debug, info, warn, error"})
	}

	return errs
}
