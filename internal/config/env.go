package config

import (
	"os"
	"regexp"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if env var not set
	})
}

// expandConfigEnvVars expands environment variables in config string fields
func expandConfigEnvVars(cfg *Config) {
	cfg.LLM.APIKey = expandEnvVars(cfg.LLM.APIKey)
	cfg.LLM.BaseURL = expandEnvVars(cfg.LLM.BaseURL)
	cfg.Storage.Dir = expandEnvVars(cfg.Storage.Dir)
	cfg.Storage.S3.Endpoint = expandEnvVars(cfg.Storage.S3.Endpoint)
	cfg.Storage.S3.AccessKey = expandEnvVars(cfg.Storage.S3.AccessKey)
	cfg.Storage.S3.SecretKey = expandEnvVars(cfg.Storage.S3.SecretKey)
	cfg.Storage.S3.Bucket = expandEnvVars(cfg.Storage.S3.Bucket)
}
