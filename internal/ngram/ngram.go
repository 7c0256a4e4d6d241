// Package ngram builds the n-gram probability table over a count model's
// token sequences: every window of a configured length gets a probability
// computed from conditional token frequencies, skipping any window that
// contains a token below the minimum-occurrence threshold.
//
// Grounded on original_source/src/analysis/n_gram_model.py.
package ngram

import (
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/pygram-go/pygram/internal/countmodel"
	"github.com/pygram-go/pygram/internal/tokenizer"
)

// Model is the built probability table, keyed by a window's concatenated
// lexeme string.
type Model struct {
	Count         *countmodel.Model
	GramSize      int
	WindowLength  int
	MinOccurrence int

	// SplitSequences selects the hard-split variant (non-overlapping,
	// fixed-stride chunks of WindowLength) in place of the default
	// sliding window. See DESIGN.md Open Question #3: present in the
	// original but never invoked there; exposed here as a real option.
	SplitSequences bool

	Probabilities map[string]*apd.Decimal
}

// New creates an empty Model over count, ready for Build.
func New(count *countmodel.Model, gramSize, windowLength, minOccurrence int, splitSequences bool) *Model {
	return &Model{
		Count:          count,
		GramSize:       gramSize,
		WindowLength:   windowLength,
		MinOccurrence:  minOccurrence,
		SplitSequences: splitSequences,
		Probabilities:  make(map[string]*apd.Decimal),
	}
}

// probabilityContext controls the precision and rounding used for every
// quotient and product computed while building the table. Precision is set
// generously above the 4 fractional digits each factor is quantized to,
// since the running product (left unrounded between multiplications, per
// _calculate_sequence_probability) can otherwise lose significant digits
// over a long window.
func probabilityContext() *apd.Context {
	ctx := apd.BaseContext.WithPrecision(40)
	ctx.Rounding = apd.RoundHalfEven
	return ctx
}

// Build splits every sequence in the count model into windows of
// WindowLength tokens, discards any window containing an under-occurring
// token, and computes a probability for each distinct remaining window
// exactly once.
func (m *Model) Build() {
	ctx := probabilityContext()
	for _, window := range m.splitSequences() {
		if m.containsInvalidToken(window) {
			continue
		}
		key := sequenceString(window)
		if _, ok := m.Probabilities[key]; ok {
			continue
		}
		m.Probabilities[key] = m.sequenceProbability(ctx, window)
	}
}

func (m *Model) splitSequences() []tokenizer.Sequence {
	var out []tokenizer.Sequence
	for _, seq := range m.Count.SequencesWithoutMetadata() {
		if len(seq) <= m.WindowLength {
			out = append(out, seq)
			continue
		}
		if m.SplitSequences {
			out = append(out, hardSplit(seq, m.WindowLength)...)
		} else {
			out = append(out, slidingWindowSplit(seq, m.WindowLength)...)
		}
	}
	return out
}

// hardSplit cuts seq into non-overlapping chunks of at most w tokens each,
// the trailing chunk possibly shorter.
func hardSplit(seq tokenizer.Sequence, w int) []tokenizer.Sequence {
	var out []tokenizer.Sequence
	for i := 0; i < len(seq); i += w {
		end := i + w
		if end > len(seq) {
			end = len(seq)
		}
		out = append(out, seq[i:end])
	}
	return out
}

// slidingWindowSplit returns every contiguous run of exactly w tokens,
// offsets 0..len(seq)-w inclusive. See DESIGN.md Open Question #2: the
// original windows one offset short of this (range(0, len-w)), silently
// dropping the final window that still fits; this implements the full
// set spec.md's invariant requires.
func slidingWindowSplit(seq tokenizer.Sequence, w int) []tokenizer.Sequence {
	var out []tokenizer.Sequence
	for i := 0; i+w <= len(seq); i++ {
		out = append(out, seq[i:i+w])
	}
	return out
}

func (m *Model) containsInvalidToken(seq tokenizer.Sequence) bool {
	for _, tok := range seq {
		if m.Count.TokenCount(tok.Lexeme) < m.MinOccurrence {
			return true
		}
	}
	return false
}

func sequenceString(seq tokenizer.Sequence) string {
	var b strings.Builder
	for _, tok := range seq {
		b.WriteString(tok.Lexeme)
	}
	return b.String()
}

// sequenceProbability computes P(t0) * P(t1|t0) * P(t2|t0,t1) * ... up to a
// prefix of GramSize-1 tokens, after which the prefix slides: the oldest
// token drops off as the newest is appended. Each factor is independently
// quantized to 4 fractional digits; the running product itself is never
// re-quantized mid-computation, matching the original's literal behavior.
func (m *Model) sequenceProbability(ctx *apd.Context, seq tokenizer.Sequence) *apd.Decimal {
	probability := m.singleProbability(ctx, seq[0].Lexeme)

	prefix := seq[0].Lexeme
	indexToDrop := 0
	prefixTokens := 1

	for i := 1; i < len(seq); i++ {
		token := seq[i].Lexeme
		factor := m.relativeFrequency(ctx, token, prefix)

		next := new(apd.Decimal)
		ctx.Mul(next, probability, factor)
		probability = next

		if prefixTokens < m.GramSize-1 {
			prefix += token
			prefixTokens++
		} else {
			prefix = prefix[len(seq[indexToDrop].Lexeme):] + token
			indexToDrop++
		}
	}
	return probability
}

func (m *Model) singleProbability(ctx *apd.Context, token string) *apd.Decimal {
	return quantizedRatio(ctx, m.Count.TokenCount(token), m.Count.NumberOfSingleTokens(m.MinOccurrence))
}

func (m *Model) relativeFrequency(ctx *apd.Context, token, prefix string) *apd.Decimal {
	return quantizedRatio(ctx, m.Count.TokenCount(prefix+token), m.Count.TokenCount(prefix))
}

// quantizedRatio computes numerator/denominator rounded half-even to 4
// fractional digits. A zero denominator (a prefix that was never itself
// counted, which Build's window filtering should make unreachable in
// practice) yields zero rather than propagating an infinite/NaN decimal.
func quantizedRatio(ctx *apd.Context, numerator, denominator int) *apd.Decimal {
	result := new(apd.Decimal)
	if denominator == 0 {
		return result
	}
	num := apd.New(int64(numerator), 0)
	den := apd.New(int64(denominator), 0)
	ratio := new(apd.Decimal)
	ctx.Quo(ratio, num, den)
	ctx.Quantize(result, ratio, -4)
	return result
}
