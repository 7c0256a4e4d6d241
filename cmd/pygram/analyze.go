package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pygram-go/pygram/internal/reportdiff"
	"github.com/pygram-go/pygram/internal/reporter"
	"github.com/pygram-go/pygram/internal/runner"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <project-path>",
	Short: "Tokenize a project and report its lowest-probability sequences",
	Long: `analyze runs a single analysis pass over a project: tokenize every
source file, build a count model and an n-gram model over it, and print
the least probable token sequences. With --both, it tokenizes the
project twice (once type-aware, once not) and additionally reports how
much the two sides agree.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Int("gram-size", 3, "n-gram size")
	analyzeCmd.Flags().Int("sequence-length", 3, "sliding window length (must be >= gram-size)")
	analyzeCmd.Flags().Int("min-occurrence", 3, "minimum token occurrence to be scored")
	analyzeCmd.Flags().Int("reporting-size", 10, "number of sequences to report")
	analyzeCmd.Flags().Bool("split-sequences", false, "hard-split sequences into windows instead of sliding")
	analyzeCmd.Flags().Bool("typed", false, "resolve call targets' return types before tokenizing")
	analyzeCmd.Flags().Bool("both", false, "run both typed and untyped and compare")
	analyzeCmd.Flags().String("save-model", "", "directory to save the built count model in")
	analyzeCmd.Flags().String("model-name", "", "file name (without extension) for the saved count model")
	analyzeCmd.Flags().String("load-model", "", "path to a previously saved count model to analyze instead of retokenizing")
	analyzeCmd.Flags().String("output", "", "directory to save the rendered report(s) in")
	analyzeCmd.Flags().String("report-prefix", "pygram_report", "base file name for saved reports")
	analyzeCmd.Flags().Int("min-overlap", 2, "report an overlapping window only when it appears in more than this many reports")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	both, _ := cmd.Flags().GetBool("both")
	typed, _ := cmd.Flags().GetBool("typed")
	loadModel, _ := cmd.Flags().GetString("load-model")

	if loadModel != "" && both {
		return fmt.Errorf("--load-model and --both are mutually exclusive: a saved model has no typed/untyped pairing")
	}

	if both {
		return runBothSides(cmd, args[0], logger)
	}
	return runSingleSide(cmd, args[0], typed, loadModel, logger)
}

func runSingleSide(cmd *cobra.Command, projectPath string, typed bool, loadModel string, logger *log.Logger) error {
	cfg, err := analyzeConfig(cmd, projectPath, typed, loadModel)
	if err != nil {
		return err
	}

	r := &runner.Runner{Files: defaultFileLister(), Logger: logger}
	report, _, err := r.SingleRun(cfg)
	if err != nil {
		return err
	}

	fmt.Print(report.String())

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		prefix, _ := cmd.Flags().GetString("report-prefix")
		if err := report.SaveToFile(output, prefix); err != nil {
			return err
		}
		logger.Info("report saved", "path", output)
	}
	return nil
}

func runBothSides(cmd *cobra.Command, projectPath string, logger *log.Logger) error {
	typedCfg, err := analyzeConfig(cmd, projectPath, true, "")
	if err != nil {
		return err
	}
	untypedCfg, err := analyzeConfig(cmd, projectPath, false, "")
	if err != nil {
		return err
	}

	r := &runner.Runner{Files: defaultFileLister(), Logger: logger}
	typedReport, _, err := r.SingleRun(typedCfg)
	if err != nil {
		return err
	}
	untypedReport, _, err := r.SingleRun(untypedCfg)
	if err != nil {
		return err
	}

	fmt.Println("--- typed ---")
	fmt.Print(typedReport.String())
	fmt.Println("--- untyped ---")
	fmt.Print(untypedReport.String())

	ratio := reportdiff.MatchRatio(typedReport, untypedReport)
	fmt.Printf("\ntyped/untyped match ratio: %.4f\n", ratio)

	minOverlap, _ := cmd.Flags().GetInt("min-overlap")
	overlaps := reportdiff.FindOverlapping(map[string]*reporter.Report{
		"typed":   typedReport,
		"untyped": untypedReport,
	}, minOverlap)
	printOverlaps(overlaps)

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		prefix, _ := cmd.Flags().GetString("report-prefix")
		if err := typedReport.SaveToFile(output, prefix+"_typed"); err != nil {
			return err
		}
		if err := untypedReport.SaveToFile(output, prefix+"_untyped"); err != nil {
			return err
		}
		logger.Info("reports saved", "path", output)
	}
	return nil
}

func printOverlaps(overlaps []reportdiff.OverlapEntry) {
	if len(overlaps) == 0 {
		fmt.Println("no overlapping sequences above the threshold")
		return
	}
	fmt.Println("\noverlapping sequences:")
	for _, o := range overlaps {
		fmt.Printf("  %s:%d  %s  (overlaps=%d)\n", o.Module, o.Line, o.Sequence, o.Overlaps)
	}
}

func analyzeConfig(cmd *cobra.Command, projectPath string, typed bool, loadModel string) (runner.Config, error) {
	gramSize, _ := cmd.Flags().GetInt("gram-size")
	sequenceLength, _ := cmd.Flags().GetInt("sequence-length")
	minOccurrence, _ := cmd.Flags().GetInt("min-occurrence")
	reportingSize, _ := cmd.Flags().GetInt("reporting-size")
	splitSequences, _ := cmd.Flags().GetBool("split-sequences")
	saveModel, _ := cmd.Flags().GetString("save-model")
	modelName, _ := cmd.Flags().GetString("model-name")

	cfg := runner.DefaultConfig()
	cfg.ProjectPath = projectPath
	cfg.UseTypeInfo = typed
	cfg.GramSize = gramSize
	cfg.SequenceLength = sequenceLength
	cfg.MinimumTokenOccurrence = minOccurrence
	cfg.ReportingSize = reportingSize
	cfg.SplitSequences = splitSequences
	cfg.PathToTokenCountModel = loadModel
	cfg.SavePathForTokenCountModel = saveModel
	cfg.TokenCountModelName = modelName
	cfg.SaveTokenLineNumbers = true

	if cfg.SequenceLength < cfg.GramSize {
		return runner.Config{}, fmt.Errorf("sequence-length (%d) must be >= gram-size (%d)", cfg.SequenceLength, cfg.GramSize)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
	})
	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); quiet {
		logger.SetLevel(log.ErrorLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}
