// Package countmodel builds and persists the contiguous-subsequence count
// table the n-gram model is built from: for every sequence, the count of
// every (start, end) contiguous run of lexemes, plus a separate table of
// single-token counts.
//
// Grounded on original_source/src/analysis/token_count_model.py.
package countmodel

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pygram-go/pygram/internal/diagnostics"
	"github.com/pygram-go/pygram/internal/tokenizer"
)

// Model is the immutable-once-built count table. Build populates it from a
// SequenceSet; after Build returns, a Model is read-only.
type Model struct {
	Project          string                `msgpack:"project"`
	SaveLineNumbers  bool                  `msgpack:"saved_line_numbers"`
	ShortestSequence int                   `msgpack:"shortest_sequence_length"`
	LongestSequence  int                   `msgpack:"longest_sequence_length"`
	SingleTokens     map[string]int        `msgpack:"single_tokens"`
	TokenSequences   tokenizer.SequenceSet `msgpack:"token_sequences"`
	CountModel       map[string]int        `msgpack:"count_model"`

	cacheMu          sync.RWMutex
	singleTokenCache map[int]int
}

// New creates an empty Model named project over sequences, ready for
// Build. If saveLineNumbers is false, the model can still be built and
// used in-process, but Save refuses to persist it (a model without line
// numbers serves debugging purposes only and cannot be usefully reloaded).
func New(project string, sequences tokenizer.SequenceSet, saveLineNumbers bool) *Model {
	return &Model{
		Project:          project,
		SaveLineNumbers:  saveLineNumbers,
		SingleTokens:     make(map[string]int),
		TokenSequences:   sequences,
		CountModel:       make(map[string]int),
		singleTokenCache: make(map[int]int),
	}
}

// Build computes every contiguous subsequence count across every sequence
// in the model, plus single-token counts, and updates the shortest/longest
// sequence-length metrics. Complexity is quadratic in each sequence's
// length; maxExtend, if positive, caps how long a subsequence is allowed
// to grow before the build stops extending it (an implementation-level
// shortcut spec.md §4.6 explicitly permits, since no n-gram window ever
// needs a longer prefix than its own width).
func (m *Model) Build(maxExtend int) {
	for _, sequences := range m.TokenSequences {
		for _, seq := range sequences {
			m.updateSequenceMetrics(len(seq))
			for i, tok := range seq {
				m.countSingleToken(tok.Lexeme)
				sub := tok.Lexeme
				limit := len(seq)
				if maxExtend > 0 && i+maxExtend < limit {
					limit = i + maxExtend
				}
				for j := i + 1; j < limit; j++ {
					sub += seq[j].Lexeme
					m.countToken(sub)
				}
			}
		}
	}
}

func (m *Model) countToken(sub string) { m.CountModel[sub]++ }

func (m *Model) countSingleToken(tok string) {
	m.CountModel[tok]++
	m.SingleTokens[tok]++
}

func (m *Model) updateSequenceMetrics(length int) {
	if m.ShortestSequence == 0 || length < m.ShortestSequence {
		m.ShortestSequence = length
	}
	if length > m.LongestSequence {
		m.LongestSequence = length
	}
}

// TokenCount returns the count recorded for token or subsequence key,
// or 0 if it was never observed.
func (m *Model) TokenCount(key string) int { return m.CountModel[key] }

// SequencesWithoutMetadata flattens every sequence down to its bare
// lexeme list, discarding module grouping and line numbers — the shape
// the n-gram model's window split consumes.
func (m *Model) SequencesWithoutMetadata() []tokenizer.Sequence {
	var out []tokenizer.Sequence
	for _, sequences := range m.TokenSequences {
		out = append(out, sequences...)
	}
	return out
}

// NumberOfSingleTokens sums every single-token count at or above
// minOccurrence, the normalizing denominator for P(t0) in the n-gram
// model's probability computation. Cached by minOccurrence since a sweep
// run asks this repeatedly for the same threshold; the cache is guarded
// so concurrent n-gram builds across parameter tuples (spec.md §5 permits
// parallelism between tuples given a read-only CountModel) can share one
// Model safely.
func (m *Model) NumberOfSingleTokens(minOccurrence int) int {
	m.cacheMu.RLock()
	if n, ok := m.singleTokenCache[minOccurrence]; ok {
		m.cacheMu.RUnlock()
		return n
	}
	m.cacheMu.RUnlock()

	total := 0
	for _, count := range m.SingleTokens {
		if count >= minOccurrence {
			total += count
		}
	}

	m.cacheMu.Lock()
	m.singleTokenCache[minOccurrence] = total
	m.cacheMu.Unlock()
	return total
}

// Save persists m to path atomically (write to a temp file in the same
// directory, then rename), refusing to write a model built without line
// numbers.
func (m *Model) Save(path string) error {
	if !m.SaveLineNumbers {
		return diagnostics.NewError(diagnostics.ErrPersistence, m.Project, 0,
			"refusing to save a count model without line numbers: it would be unusable for analysis on reload")
	}
	data, err := msgpack.Marshal(m)
	if err != nil {
		return diagnostics.Wrap(diagnostics.ErrPersistence, m.Project, 0, err, "marshal count model")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".countmodel-*.tmp")
	if err != nil {
		return diagnostics.Wrap(diagnostics.ErrPersistence, m.Project, 0, err, "create temp file")
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return diagnostics.Wrap(diagnostics.ErrPersistence, m.Project, 0, err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return diagnostics.Wrap(diagnostics.ErrPersistence, m.Project, 0, err, "close temp file")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return diagnostics.Wrap(diagnostics.ErrPersistence, m.Project, 0, err, "rename temp file")
	}
	return nil
}

// Load restores a Model from path, validating that every required schema
// field is present and that line numbers were saved (a model saved
// without them is rejected outright: it can never serve downstream
// analysis, matching the original's load-time RuntimeError).
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, diagnostics.Wrap(diagnostics.ErrPersistence, "", 0, err, "read count model file")
	}

	var raw rawModel
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return nil, diagnostics.Wrap(diagnostics.ErrPersistence, "", 0, err, "unmarshal count model")
	}
	if err := raw.validate(); err != nil {
		return nil, err
	}
	if !raw.SaveLineNumbers {
		return nil, diagnostics.NewError(diagnostics.ErrPersistence, raw.Project, 0,
			"a count model without line numbers serves only debug purposes and cannot be imported again")
	}

	return &Model{
		Project:          raw.Project,
		SaveLineNumbers:  raw.SaveLineNumbers,
		ShortestSequence: raw.ShortestSequence,
		LongestSequence:  raw.LongestSequence,
		SingleTokens:     raw.SingleTokens,
		TokenSequences:   raw.TokenSequences,
		CountModel:       raw.CountModel,
		singleTokenCache: make(map[int]int),
	}, nil
}

// rawModel mirrors Model's wire shape but keeps every field a plain value
// (no unexported cache) so validate can check schema completeness before
// a Model is constructed — the "every malformed document is rejected"
// half of P5.
type rawModel struct {
	Project          string                `msgpack:"project"`
	SaveLineNumbers  bool                  `msgpack:"saved_line_numbers"`
	ShortestSequence int                   `msgpack:"shortest_sequence_length"`
	LongestSequence  int                   `msgpack:"longest_sequence_length"`
	SingleTokens     map[string]int        `msgpack:"single_tokens"`
	TokenSequences   tokenizer.SequenceSet `msgpack:"token_sequences"`
	CountModel       map[string]int        `msgpack:"count_model"`
}

func (r *rawModel) validate() error {
	if r.SingleTokens == nil || r.TokenSequences == nil || r.CountModel == nil {
		return diagnostics.NewError(diagnostics.ErrPersistence, r.Project, 0,
			"count model at %q is missing required fields", r.Project)
	}
	return nil
}
