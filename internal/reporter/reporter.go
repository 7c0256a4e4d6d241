// Package reporter extracts the lowest-probability windows from a built
// n-gram model and renders them against the modules and lines they occur
// in.
//
// Grounded on original_source/src/analysis/reporting.py.
package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/mattn/go-isatty"

	"github.com/pygram-go/pygram/internal/countmodel"
	"github.com/pygram-go/pygram/internal/diagnostics"
	"github.com/pygram-go/pygram/internal/ngram"
	"github.com/pygram-go/pygram/internal/tokenizer"
)

// Entry is one reported low-probability sequence: its text, its computed
// probability, and every module it occurs in together with the line(s) of
// the match.
type Entry struct {
	Sequence    string
	Probability *apd.Decimal
	Modules     map[string][]int
}

// Report is a generated, ready-to-render set of Entries.
type Report struct {
	GramSize      int
	WindowLength  int
	MinOccurrence int
	Entries       []Entry
}

// Generate extracts the lowest-probability windows from model and looks up
// their occurrences in count's per-module sequences.
func Generate(model *ngram.Model, count *countmodel.Model, reportingSize int) *Report {
	extracted := extractLowestProbability(model, reportingSize)

	entries := make([]Entry, 0, len(extracted))
	for _, w := range extracted {
		entries = append(entries, Entry{
			Sequence:    w.key,
			Probability: w.probability,
			Modules:     correspondingModules(count, w.key),
		})
	}

	return &Report{
		GramSize:      model.GramSize,
		WindowLength:  model.WindowLength,
		MinOccurrence: model.MinOccurrence,
		Entries:       entries,
	}
}

type weightedKey struct {
	key         string
	probability *apd.Decimal
}

// extractLowestProbability sorts the model's distinct windows ascending by
// probability, ties broken lexicographically by window text, then keeps
// the first 30 when GramSize equals WindowLength (the original's unigram
// report shortcut), else the first reportingSize, else all of them.
//
// The original instead relies on Python's sorted() being stable over the
// probability dict's insertion order to break ties, an ordering with no
// portable Go equivalent over a map; the lexicographic tie-break is the
// literal reading of "lowest probability first" that doesn't depend on
// iteration order.
func extractLowestProbability(model *ngram.Model, reportingSize int) []weightedKey {
	sorted := make([]weightedKey, 0, len(model.Probabilities))
	for key, prob := range model.Probabilities {
		sorted = append(sorted, weightedKey{key: key, probability: prob})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if c := sorted[i].probability.Cmp(sorted[j].probability); c != 0 {
			return c < 0
		}
		return sorted[i].key < sorted[j].key
	})

	if model.GramSize == model.WindowLength {
		return firstN(sorted, 30)
	}
	if len(sorted) <= reportingSize {
		return sorted
	}
	return firstN(sorted, reportingSize)
}

func firstN(s []weightedKey, n int) []weightedKey {
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

// correspondingModules finds every module whose sequences contain
// subSequence as a substring, recording the source line of the token that
// covers the matched position for each occurrence.
//
// DESIGN.md Open Question #1: the original always records the whole
// sequence's own first-token line regardless of where the match actually
// falls; this walks the matched byte offset back to its covering token.
func correspondingModules(count *countmodel.Model, subSequence string) map[string][]int {
	output := make(map[string][]int)
	for module, sequences := range count.TokenSequences {
		for _, seq := range sequences {
			offset := strings.Index(sequenceText(seq), subSequence)
			if offset < 0 {
				continue
			}
			output[module] = append(output[module], lineAtOffset(seq, offset))
		}
	}
	return output
}

func sequenceText(seq tokenizer.Sequence) string {
	var b strings.Builder
	for _, tok := range seq {
		b.WriteString(tok.Lexeme)
	}
	return b.String()
}

// lineAtOffset returns the line of whichever token's lexeme spans byte
// offset within seq's concatenated text.
func lineAtOffset(seq tokenizer.Sequence, offset int) int {
	pos := 0
	for _, tok := range seq {
		pos += len(tok.Lexeme)
		if offset < pos {
			return tok.Line
		}
	}
	if len(seq) > 0 {
		return seq[len(seq)-1].Line
	}
	return 0
}

const (
	reportHeader  = "-------------------- Pygram Report --------------------"
	reportDivider = "-------------------------------------------------------"
)

// String renders the report as plain, unstyled text.
func (r *Report) String() string {
	var b strings.Builder
	r.render(&b, false)
	return b.String()
}

// WriteTo renders the report to w, adding bold section headers when w is
// an attached terminal (and NO_COLOR isn't set), plain text otherwise —
// the same detection funxy's term builtins use for its own output.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	r.render(&b, styleEnabled(w))
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func styleEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *Report) render(b *strings.Builder, styled bool) {
	if len(r.Entries) == 0 {
		b.WriteString("Report is empty")
		return
	}

	bold := func(s string) string {
		if !styled {
			return s
		}
		return "\x1b[1m" + s + "\x1b[0m"
	}

	b.WriteString(bold(reportHeader))
	b.WriteString("\n")
	fmt.Fprintf(b, "Gram Size: %d, Sequence Length: %d, Minimum Token Occurrence: %d\n",
		r.GramSize, r.WindowLength, r.MinOccurrence)
	b.WriteString(reportDivider)
	b.WriteString("\n\n")

	for _, e := range r.Entries {
		b.WriteString(e.Sequence)
		b.WriteString("\n")
		fmt.Fprintf(b, "\tProbability: %s\n", e.Probability.String())
		b.WriteString("\tModules:\n")
		for _, module := range sortedModuleKeys(e.Modules) {
			fmt.Fprintf(b, "\t\t%s in line(s): %s\n", module, formatLines(e.Modules[module]))
		}
		b.WriteString("\n")
		b.WriteString(reportDivider)
		b.WriteString("\n\n")
	}
}

func sortedModuleKeys(modules map[string][]int) []string {
	keys := make([]string, 0, len(modules))
	for k := range modules {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatLines(lines []int) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = fmt.Sprintf("%d", l)
	}
	return strings.Join(parts, ", ")
}

// SaveToFile writes the report's plain-text rendering to
// destination/name.txt.
func (r *Report) SaveToFile(destination, name string) error {
	info, err := os.Stat(destination)
	if err != nil || !info.IsDir() {
		return diagnostics.NewError(diagnostics.ErrPersistence, name, 0,
			"could not save report to %q: not a directory", destination)
	}
	path := filepath.Join(destination, name+".txt")
	if err := os.WriteFile(path, []byte(r.String()), 0o644); err != nil {
		return diagnostics.Wrap(diagnostics.ErrPersistence, name, 0, err, "write report file")
	}
	return nil
}
