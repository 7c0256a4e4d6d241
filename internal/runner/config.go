// Package runner wires the whole pipeline together: discover a project's
// source files, tokenize them (optionally type-aware), build a count
// model, then build one n-gram model and report (single mode) or sweep a
// grid of parameter tuples, each producing its own report file in a
// timestamped result folder (sweep mode).
//
// Grounded on original_source/src/analysis/runner.py and
// original_source/src/config.py.
package runner

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pygram-go/pygram/internal/diagnostics"
)

// configOpts and runnerConfigOpts are the whitelists LoadConfig checks a
// loaded document's top-level keys against, mirroring config.py's
// CONFIG_OPTS/RUNNER_CONFIG_OPTS validation.
var configOpts = map[string]bool{
	"use_type_info":                   true,
	"gram_size":                       true,
	"sequence_length":                 true,
	"split_sequences":                 true,
	"minimum_token_occurrence":        true,
	"reporting_size":                  true,
	"path_to_token_count_model":       true,
	"project_path":                    true,
	"save_path_for_token_count_model": true,
	"token_count_model_name":          true,
	"save_token_line_numbers":         true,
	"do_analysis_run":                 true,
	"analysis_run":                    true,
}

var runnerConfigOpts = map[string]bool{
	"sequence_lengths":          true,
	"gram_sizes":                true,
	"minimum_token_occurrences": true,
	"report_name_prefix":        true,
	"typed":                     true,
	"untyped":                   true,
	"analysis_result_folder":    true,
}

// Config holds every recognized single-run option. Any option present in
// a loaded file outside this shape is rejected by LoadConfig.
type Config struct {
	UseTypeInfo                bool          `yaml:"use_type_info"`
	GramSize                   int           `yaml:"gram_size"`
	SequenceLength             int           `yaml:"sequence_length"`
	SplitSequences             bool          `yaml:"split_sequences"`
	MinimumTokenOccurrence     int           `yaml:"minimum_token_occurrence"`
	ReportingSize              int           `yaml:"reporting_size"`
	PathToTokenCountModel      string        `yaml:"path_to_token_count_model"`
	ProjectPath                string        `yaml:"project_path"`
	SavePathForTokenCountModel string        `yaml:"save_path_for_token_count_model"`
	TokenCountModelName        string        `yaml:"token_count_model_name"`
	SaveTokenLineNumbers       bool          `yaml:"save_token_line_numbers"`
	DoAnalysisRun              bool          `yaml:"do_analysis_run"`
	AnalysisRun                *RunnerConfig `yaml:"analysis_run"`
}

// RunnerConfig holds the extra parameters a sweep run needs: lists of
// tuple components to cross-product, plus the typed/untyped side
// selection and naming prefix.
//
// DESIGN.md Open Question #4: the original's __init__ assigns
// report_name_prefix/typed/untyped to local variables instead of
// self.*, silently discarding them — a Go struct literal makes that
// class of bug impossible, so the fields are simply populated here.
type RunnerConfig struct {
	SequenceLengths         []int  `yaml:"sequence_lengths"`
	GramSizes               []int  `yaml:"gram_sizes"`
	MinimumTokenOccurrences []int  `yaml:"minimum_token_occurrences"`
	ReportNamePrefix        string `yaml:"report_name_prefix"`
	Typed                   bool   `yaml:"typed"`
	Untyped                 bool   `yaml:"untyped"`
	AnalysisResultFolder    string `yaml:"analysis_result_folder"`
}

// DefaultConfig mirrors Config.__init__'s keyword defaults.
func DefaultConfig() Config {
	return Config{
		GramSize:               3,
		SequenceLength:         3,
		MinimumTokenOccurrence: 3,
		ReportingSize:          10,
		SaveTokenLineNumbers:   true,
	}
}

// LoadConfig reads and validates a YAML config file at path.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, diagnostics.Wrap(diagnostics.ErrPersistence, "", 0, err, "read config file %q", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, diagnostics.Wrap(diagnostics.ErrPersistence, "", 0, err, "parse config file %q", path)
	}
	if err := validateFields(data); err != nil {
		return Config{}, err
	}
	if cfg.GramSize < 1 {
		return Config{}, diagnostics.NewError(diagnostics.ErrInvariant, "", 0, "gram_size must be >= 1, got %d", cfg.GramSize)
	}
	if cfg.SequenceLength < cfg.GramSize {
		return Config{}, diagnostics.NewError(diagnostics.ErrInvariant, "", 0,
			"sequence_length (%d) must be >= gram_size (%d)", cfg.SequenceLength, cfg.GramSize)
	}
	if cfg.MinimumTokenOccurrence < 1 {
		return Config{}, diagnostics.NewError(diagnostics.ErrInvariant, "", 0, "minimum_token_occurrence must be >= 1")
	}
	if cfg.ReportingSize < 1 {
		return Config{}, diagnostics.NewError(diagnostics.ErrInvariant, "", 0, "reporting_size must be >= 1")
	}
	return cfg, nil
}

// validateFields rejects any top-level key (or, inside analysis_run, any
// nested key) that isn't on the recognized whitelist, mirroring
// config_file_is_valid's CONFIG_OPTS/RUNNER_CONFIG_OPTS check.
func validateFields(data []byte) error {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return diagnostics.Wrap(diagnostics.ErrPersistence, "", 0, err, "parse config file for field validation")
	}
	for key, value := range raw {
		if !configOpts[key] {
			return diagnostics.NewError(diagnostics.ErrInvariant, "", 0, "unrecognized config option %q", key)
		}
		if key == "analysis_run" && value != nil {
			nested, ok := value.(map[string]interface{})
			if !ok {
				return diagnostics.NewError(diagnostics.ErrInvariant, "", 0, "analysis_run must be a mapping")
			}
			for nestedKey := range nested {
				if !runnerConfigOpts[nestedKey] {
					return diagnostics.NewError(diagnostics.ErrInvariant, "", 0, "unrecognized analysis_run option %q", nestedKey)
				}
			}
		}
	}
	return nil
}
