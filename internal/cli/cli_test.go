package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		cfgFile = ""
		logLevel = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestClassifyCmd(t *testing.T) {
	out, err := run(t, "", "classify", "Pre-condition: x. Acceptance Criteria: Input: a Output: b")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if strings.TrimSpace(out) != "yes" {
		t.Errorf("classify output = %q, want yes", out)
	}

	out, err = run(t, "just a sentence\n", "classify")
	if err != nil {
		t.Fatalf("classify stdin: %v", err)
	}
	if strings.TrimSpace(out) != "no" {
		t.Errorf("classify stdin output = %q, want no", out)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "tplcheck version dev") {
		t.Errorf("version output = %q", out)
	}
}

func TestConfigValidateCmd(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte("llm:\n  provider: ollama\npipeline:\n  batch_size: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "", "config", "validate", "--config", good)
	if err != nil {
		t.Fatalf("validate good config: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Batch size: 5") {
		t.Errorf("validate output missing batch size: %q", out)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("llm:\n  provider: openai\npipeline:\n  batch_size: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "", "config", "validate", "--config", bad)
	if err == nil {
		t.Fatal("expected error for invalid config")
	}
	if !strings.Contains(out, "llm.api_key") || !strings.Contains(out, "pipeline.batch_size") {
		t.Errorf("validate output missing problems: %q", out)
	}
}

func TestProcessCmd_RejectsNonXLSX(t *testing.T) {
	if _, err := run(t, "", "process", "--config", "", "data.csv"); err == nil {
		t.Fatal("expected error for non-xlsx input")
	}
}
