package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pygram-go/pygram/internal/runner"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep <config.yaml>",
	Short: "Run an n-gram parameter sweep described by a config file",
	Long: `sweep reads a YAML config file with an analysis_run section and
builds one report per (minimum_token_occurrence, gram_size,
sequence_length) tuple in its cross product, saving each into a fresh
timestamped result folder alongside a run manifest.`,
	Args: cobra.ExactArgs(1),
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	cfg, err := runner.LoadConfig(args[0])
	if err != nil {
		return err
	}
	if !cfg.DoAnalysisRun || cfg.AnalysisRun == nil {
		return fmt.Errorf("config at %q has no analysis_run section (do_analysis_run must be true)", args[0])
	}
	rc := *cfg.AnalysisRun
	if !rc.Typed && !rc.Untyped {
		return fmt.Errorf("analysis_run must set typed and/or untyped")
	}

	r := &runner.Runner{Files: defaultFileLister(), Logger: logger}

	if rc.Typed {
		if err := sweepSide(r, cfg, rc, true, logger); err != nil {
			return err
		}
	}
	if rc.Untyped {
		if err := sweepSide(r, cfg, rc, false, logger); err != nil {
			return err
		}
	}
	return nil
}

func sweepSide(r *runner.Runner, cfg runner.Config, rc runner.RunnerConfig, typed bool, logger *log.Logger) error {
	side := "untyped"
	if typed {
		side = "typed"
	}
	logger.Info("tokenizing project", "side", side, "path", cfg.ProjectPath)

	result, err := r.TokenizeProject(cfg.ProjectPath, typed)
	if err != nil {
		return err
	}
	model := runner.BuildCountModel(result, cfg.SaveTokenLineNumbers)

	resultsDir, err := runner.ResultFolder(rc.AnalysisResultFolder)
	if err != nil {
		return err
	}

	sweepResults, err := r.Sweep(model, rc, cfg.ReportingSize, cfg.SplitSequences)
	if err != nil {
		return err
	}
	if err := runner.SaveSweepResults(resultsDir, sweepResults); err != nil {
		return err
	}

	names := make([]string, len(sweepResults))
	for i, sr := range sweepResults {
		names[i] = sr.FileName + ".txt"
	}
	if err := runner.SaveManifest(resultsDir, runner.Manifest{
		Project:   result.ProjectName,
		Side:      side,
		Reports:   names,
		ResultDir: resultsDir,
	}); err != nil {
		return err
	}

	logger.Info("sweep complete", "side", side, "reports", len(sweepResults), "result_dir", resultsDir)
	return nil
}
