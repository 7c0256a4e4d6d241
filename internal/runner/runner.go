package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pygram-go/pygram/internal/cliutil"
	"github.com/pygram-go/pygram/internal/countmodel"
	"github.com/pygram-go/pygram/internal/diagnostics"
	"github.com/pygram-go/pygram/internal/dupcount"
	"github.com/pygram-go/pygram/internal/lexer"
	"github.com/pygram-go/pygram/internal/ngram"
	"github.com/pygram-go/pygram/internal/parser"
	"github.com/pygram-go/pygram/internal/past"
	"github.com/pygram-go/pygram/internal/reporter"
	"github.com/pygram-go/pygram/internal/tokenizer"
	"github.com/pygram-go/pygram/internal/typecache"
)

// Runner orchestrates one analysis invocation: tokenizing a project,
// building its count model(s), and producing either a single report or a
// sweep of reports across a parameter grid.
type Runner struct {
	Files  cliutil.FileLister
	Logger *log.Logger
}

// New creates a Runner using the default filesystem-backed file lister.
func New() *Runner {
	return &Runner{
		Files:  cliutil.WalkDirLister{},
		Logger: log.New(os.Stderr),
	}
}

// TokenizeResult is everything TokenizeProject produces for one side
// (typed or untyped) of a project.
type TokenizeResult struct {
	ProjectName string
	Sequences   tokenizer.SequenceSet
	Stats       tokenizer.Stats
	Duplicates  []string
}

// TokenizeProject discovers every source file under projectPath, parses
// each one (in parallel — parsing is pure per-file, see spec.md §5), then
// tokenizes every file in turn: type-aware if typed is set, which first
// requires a sequential preprocessing pass building the shared
// project-wide return-type cache every file's TypeTokenizer then reads.
func (r *Runner) TokenizeProject(projectPath string, typed bool) (*TokenizeResult, error) {
	files, err := r.Files.ListFiles(projectPath)
	if err != nil {
		return nil, diagnostics.Wrap(diagnostics.ErrPersistence, "", 0, err, "list project files under %q", projectPath)
	}
	r.Logger.Info("discovered source files", "count", len(files))

	sources, err := parseAll(files)
	if err != nil {
		return nil, err
	}

	sequences := make(tokenizer.SequenceSet, len(sources))
	stats := tokenizer.Stats{}
	duplicateCounts := make(map[string]int)

	var project *typecache.ProjectCache
	if typed {
		r.Logger.Info("preprocessing project for types")
		project = typecache.NewProjectCache()
		pp := typecache.NewPreprocessor(project)
		available := make(map[string]bool, len(sources))
		for _, s := range sources {
			available[s.modulePath] = true
		}
		for _, s := range sources {
			pp.ProcessFile(s.modulePath, s.mod, available)
		}
	}

	for _, s := range sources {
		dupcount.Count(s.mod, duplicateCounts)

		var diags diagnostics.Bag
		var seqs []tokenizer.Sequence
		if typed {
			project.SetCurrentModule(s.modulePath)
			tt := tokenizer.NewTyped(s.modulePath, project, &diags)
			seqs = tt.Tokenize(s.mod)
			ts := tt.Stats()
			stats.CallTokens += ts.CallTokens
			stats.TypeInferredCallTokens += ts.TypeInferredCallTokens
			stats.Assigns += ts.Assigns
			stats.AnnAssigns += ts.AnnAssigns
		} else {
			t := tokenizer.New(s.modulePath, &diags)
			seqs = t.Tokenize(s.mod)
		}
		sequences[s.modulePath] = seqs

		for _, d := range diags.All() {
			r.Logger.Warn(d.Error())
		}
	}

	if typed && stats.CallTokens > 0 {
		r.Logger.Info("type inference success",
			"call_tokens", stats.CallTokens,
			"type_inferred", stats.TypeInferredCallTokens,
			"ratio", float64(stats.TypeInferredCallTokens)/float64(stats.CallTokens))
	}

	return &TokenizeResult{
		ProjectName: filepath.Base(filepath.Clean(projectPath)),
		Sequences:   sequences,
		Stats:       stats,
		Duplicates:  dupcount.Duplicates(duplicateCounts),
	}, nil
}

type parsedFile struct {
	modulePath string
	mod        *past.Module
}

// parseAll lexes and parses every file concurrently; an unreadable file
// is skipped rather than aborting the run, matching the ParseError
// taxonomy entry (recoverable, logged, rest of the project continues).
func parseAll(files []cliutil.ProjectFile) ([]parsedFile, error) {
	results := make([]*parsedFile, len(files))
	var g errgroup.Group
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			data, err := os.ReadFile(f.AbsPath)
			if err != nil {
				return nil
			}
			lx := lexer.New(string(data))
			ps := parser.New(lx, f.ModulePath)
			mod := ps.ParseModule()
			results[i] = &parsedFile{modulePath: f.ModulePath, mod: mod}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]parsedFile, 0, len(files))
	for _, p := range results {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

// BuildCountModel builds a count model from a tokenize result. Calling
// Save on the result is the caller's responsibility.
func BuildCountModel(result *TokenizeResult, saveLineNumbers bool) *countmodel.Model {
	model := countmodel.New(result.ProjectName, result.Sequences, saveLineNumbers)
	model.Build(0)
	return model
}

// SingleRun builds one CountModel (from sources, or loaded from disk),
// one NGramModel, and one Report for cfg's single parameter tuple.
func (r *Runner) SingleRun(cfg Config) (*reporter.Report, *countmodel.Model, error) {
	var model *countmodel.Model
	if cfg.PathToTokenCountModel != "" {
		loaded, err := countmodel.Load(cfg.PathToTokenCountModel)
		if err != nil {
			return nil, nil, err
		}
		model = loaded
	} else {
		result, err := r.TokenizeProject(cfg.ProjectPath, cfg.UseTypeInfo)
		if err != nil {
			return nil, nil, err
		}
		model = BuildCountModel(result, cfg.SaveTokenLineNumbers)
		if cfg.SavePathForTokenCountModel != "" {
			name := cfg.TokenCountModelName
			if name == "" {
				name = result.ProjectName
			}
			if err := model.Save(filepath.Join(cfg.SavePathForTokenCountModel, name+".msgpack")); err != nil {
				return nil, nil, err
			}
		}
	}

	gram := ngram.New(model, cfg.GramSize, cfg.SequenceLength, cfg.MinimumTokenOccurrence, cfg.SplitSequences)
	gram.Build()
	report := reporter.Generate(gram, model, cfg.ReportingSize)
	return report, model, nil
}

// Tuple is one (minimum_token_occurrence, gram_size, window_length)
// combination in a sweep.
type Tuple struct {
	MinOccurrence int
	GramSize      int
	WindowLength  int
}

// Tuples returns the cross product of rc's three parameter lists, kept
// only where WindowLength >= GramSize — do_analysis_run's filter.
func (rc *RunnerConfig) Tuples() []Tuple {
	var out []Tuple
	for _, moc := range rc.MinimumTokenOccurrences {
		for _, gs := range rc.GramSizes {
			for _, sl := range rc.SequenceLengths {
				if sl >= gs {
					out = append(out, Tuple{MinOccurrence: moc, GramSize: gs, WindowLength: sl})
				}
			}
		}
	}
	return out
}

// SweepResult is one produced report plus the filename it should be
// saved under.
type SweepResult struct {
	Tuple    Tuple
	FileName string
	Report   *reporter.Report
}

// Sweep builds one NGramModel+Report per tuple in rc against model,
// fanning the tuples out concurrently: building an n-gram model only
// reads model (see spec.md §5; CountModel.NumberOfSingleTokens guards its
// own cache), so no further synchronization is needed across tuples.
func (r *Runner) Sweep(model *countmodel.Model, rc RunnerConfig, reportingSize int, splitSequences bool) ([]SweepResult, error) {
	tuples := rc.Tuples()
	results := make([]SweepResult, len(tuples))

	var g errgroup.Group
	for i, t := range tuples {
		i, t := i, t
		g.Go(func() error {
			r.Logger.Info("building n-gram model", "gram_size", t.GramSize, "window_length", t.WindowLength, "min_occurrence", t.MinOccurrence)
			gram := ngram.New(model, t.GramSize, t.WindowLength, t.MinOccurrence, splitSequences)
			gram.Build()
			report := reporter.Generate(gram, model, reportingSize)
			results[i] = SweepResult{
				Tuple:    t,
				FileName: reportFileName(rc.ReportNamePrefix, t),
				Report:   report,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func reportFileName(prefix string, t Tuple) string {
	if prefix == "" {
		prefix = "pygram_report"
	}
	return fmt.Sprintf("%s_n-%d_sl-%d_toc-%d", prefix, t.GramSize, t.WindowLength, t.MinOccurrence)
}

// SaveSweepResults writes every result's report to dir/<FileName>.txt.
func SaveSweepResults(dir string, results []SweepResult) error {
	for _, res := range results {
		if err := res.Report.SaveToFile(dir, res.FileName); err != nil {
			return err
		}
	}
	return nil
}

// Manifest records what a sweep run produced against one side (typed or
// untyped) of a project, persisted as run_manifest.toml alongside the
// reports in its result folder — a durable summary the original only
// ever prints to stdout.
type Manifest struct {
	Project   string   `toml:"project"`
	Side      string   `toml:"side"`
	Reports   []string `toml:"reports"`
	ResultDir string   `toml:"result_dir"`
}

// SaveManifest writes m as TOML to dir/run_manifest.toml.
func SaveManifest(dir string, m Manifest) error {
	f, err := os.Create(filepath.Join(dir, "run_manifest.toml"))
	if err != nil {
		return diagnostics.Wrap(diagnostics.ErrPersistence, m.Project, 0, err, "create run manifest")
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(m); err != nil {
		return diagnostics.Wrap(diagnostics.ErrPersistence, m.Project, 0, err, "write run manifest")
	}
	return nil
}

// ResultFolder creates a fresh result directory under base, named after
// the current time. If a directory of that name already exists, a short
// uuid suffix is appended once; the suffixed name is not re-checked, and
// MkdirAll succeeds on a directory that already exists.
func ResultFolder(base string) (string, error) {
	name := fmt.Sprintf("Pygram Analysis - %s", time.Now().Format("02.01 15:04"))
	dir := filepath.Join(base, name)
	if _, err := os.Stat(dir); err == nil {
		dir = fmt.Sprintf("%s (%s)", dir, uuid.NewString()[:8])
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", diagnostics.Wrap(diagnostics.ErrPersistence, "", 0, err, "create result folder %q", dir)
	}
	return dir, nil
}
