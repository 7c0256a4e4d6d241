package runner

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `project_path: "/tmp/project"`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.GramSize != 3 {
		t.Fatalf("gram_size default: got %d, want 3", cfg.GramSize)
	}
	if cfg.ReportingSize != 10 {
		t.Fatalf("reporting_size default: got %d, want 10", cfg.ReportingSize)
	}
	if !cfg.SaveTokenLineNumbers {
		t.Fatal("save_token_line_numbers default should be true")
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
project_path: "/tmp/project"
gram_size: 5
sequence_length: 5
use_type_info: true
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.GramSize != 5 || cfg.SequenceLength != 5 {
		t.Fatalf("got gram_size=%d sequence_length=%d, want 5/5", cfg.GramSize, cfg.SequenceLength)
	}
	if !cfg.UseTypeInfo {
		t.Fatal("use_type_info should be true")
	}
}

func TestLoadConfigRejectsUnrecognizedOption(t *testing.T) {
	path := writeConfig(t, `
project_path: "/tmp/project"
not_a_real_option: true
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected an error for an unrecognized top-level option")
	}
}

func TestLoadConfigRejectsUnrecognizedAnalysisRunOption(t *testing.T) {
	path := writeConfig(t, `
project_path: "/tmp/project"
do_analysis_run: true
analysis_run:
  gram_sizes: [3]
  bogus_option: true
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected an error for an unrecognized analysis_run option")
	}
}

func TestLoadConfigRejectsSequenceLengthBelowGramSize(t *testing.T) {
	path := writeConfig(t, `
project_path: "/tmp/project"
gram_size: 5
sequence_length: 2
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected an error when sequence_length < gram_size")
	}
}

func TestLoadConfigRejectsMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestRunnerConfigTuplesFiltersBySequenceLengthVsGramSize(t *testing.T) {
	rc := RunnerConfig{
		MinimumTokenOccurrences: []int{3},
		GramSizes:               []int{2, 4},
		SequenceLengths:         []int{2, 3},
	}
	tuples := rc.Tuples()

	for _, tup := range tuples {
		if tup.WindowLength < tup.GramSize {
			t.Fatalf("tuple %+v violates WindowLength >= GramSize", tup)
		}
	}
	// gram=2/seq=2, gram=2/seq=3 qualify; gram=4/seq=2, gram=4/seq=3 don't.
	if len(tuples) != 2 {
		t.Fatalf("got %d tuples, want 2: %+v", len(tuples), tuples)
	}
}
