// Package reportdiff compares reports produced by different runs of the
// same project (typed vs. untyped tokenization, or a sweep across
// gram-size/sequence-length combinations): how much of one run's findings
// survive in another, and which low-probability sequences recur across
// more than one run.
//
// Grounded on original_source/matcher.py and original_source/overlapping.py
// (see original_source/_INDEX.md). Both originals work by re-parsing their
// own rendered report text back into (module, line[, sequence, rank,
// length]) tuples; here the same comparisons run directly against the
// in-memory *reporter.Report values that produced that text, so no
// re-parse step exists at all.
package reportdiff

import (
	"sort"
	"strings"

	"github.com/pygram-go/pygram/internal/reporter"
)

// ModuleLine identifies one (module, line) occurrence recorded against a
// reported sequence.
type ModuleLine struct {
	Module string
	Line   int
}

func modulePairs(r *reporter.Report) []ModuleLine {
	var out []ModuleLine
	for _, e := range r.Entries {
		for module, lines := range e.Modules {
			for _, line := range lines {
				out = append(out, ModuleLine{Module: module, Line: line})
			}
		}
	}
	return out
}

// MatchRatio reports the fraction of untyped's (module, line) occurrences
// that also appear among typed's occurrences — how much of what the
// untyped run flagged survives once type information is available.
// Grounded on matcher.py's calculate_match_ratio.
func MatchRatio(typed, untyped *reporter.Report) float64 {
	untypedPairs := modulePairs(untyped)
	if len(untypedPairs) == 0 {
		return 0
	}
	typedSet := make(map[ModuleLine]bool, len(typed.Entries))
	for _, p := range modulePairs(typed) {
		typedSet[p] = true
	}
	matches := 0
	for _, p := range untypedPairs {
		if typedSet[p] {
			matches++
		}
	}
	return float64(matches) / float64(len(untypedPairs))
}

// OverlapEntry describes one reported sequence whose occurrence, by
// substring containment within the same module, recurs in more than one
// report.
type OverlapEntry struct {
	Module   string
	Line     int
	Sequence string
	Rank     int
	Length   int
	// Ranks and Lengths record, for every other report the sequence was
	// found to overlap with, that occurrence's own rank and sequence
	// length.
	Ranks    []int
	Lengths  []int
	Reports  []string
	Overlaps int
}

type occurrence struct {
	reportName string
	entry      reporter.Entry
	module     string
	line       int
	rank       int
}

// FindOverlapping looks for sequences that recur, by substring containment
// within the same module, across more than minOverlap of the given named
// reports. rank within each report follows report order (reports are
// expected to already be sorted lowest-probability first, as Generate
// produces them), counting every module/line occurrence in turn.
//
// Grounded on overlapping.py's find_overlapping_sequences /
// are_sequences_matching / result_entry_exists. One divergence: the
// original appends the *candidate's own* rank and length to every match
// it records (`sequence_info[-2]`/`sequence_info[-1]` instead of the
// matched occurrence's own fields) — almost certainly a copy-paste slip
// rather than intended behavior, since it makes Ranks/Lengths carry no
// information about the match itself. This records each matched
// occurrence's own rank and length instead.
func FindOverlapping(reports map[string]*reporter.Report, minOverlap int) []OverlapEntry {
	all := flattenOccurrences(reports)

	var result []OverlapEntry
	for _, candidate := range all {
		var matchedReports []string
		var ranks, lengths []int
		for _, other := range all {
			if other.reportName == candidate.reportName {
				continue
			}
			if !sequencesMatch(candidate, other) {
				continue
			}
			matchedReports = append(matchedReports, other.reportName)
			ranks = append(ranks, other.rank)
			lengths = append(lengths, len(other.entry.Sequence))
		}
		if len(matchedReports) <= minOverlap {
			continue
		}

		entry := OverlapEntry{
			Module:   candidate.module,
			Line:     candidate.line,
			Sequence: candidate.entry.Sequence,
			Rank:     candidate.rank,
			Length:   len(candidate.entry.Sequence),
			Ranks:    ranks,
			Lengths:  lengths,
			Reports:  matchedReports,
			Overlaps: len(matchedReports),
		}
		if !overlapEntryExists(entry, result) {
			result = append(result, entry)
		}
	}

	sort.SliceStable(result, func(i, j int) bool { return rankSum(result[i]) < rankSum(result[j]) })
	sort.SliceStable(result, func(i, j int) bool { return result[i].Overlaps > result[j].Overlaps })
	return result
}

func flattenOccurrences(reports map[string]*reporter.Report) []occurrence {
	var out []occurrence
	for name, report := range reports {
		rank := 1
		for _, e := range report.Entries {
			for _, module := range sortedModuleKeys(e.Modules) {
				for _, line := range e.Modules[module] {
					out = append(out, occurrence{reportName: name, entry: e, module: module, line: line, rank: rank})
					rank++
				}
			}
		}
	}
	return out
}

func sortedModuleKeys(modules map[string][]int) []string {
	keys := make([]string, 0, len(modules))
	for k := range modules {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sequencesMatch reports whether two occurrences belong to the same
// module and one's sequence text contains the other's.
func sequencesMatch(a, b occurrence) bool {
	if a.module != b.module {
		return false
	}
	if len(a.entry.Sequence) < len(b.entry.Sequence) {
		return strings.Contains(b.entry.Sequence, a.entry.Sequence)
	}
	return strings.Contains(a.entry.Sequence, b.entry.Sequence)
}

func overlapEntryExists(candidate OverlapEntry, existing []OverlapEntry) bool {
	for _, e := range existing {
		if e.Module != candidate.Module {
			continue
		}
		if e.Sequence == candidate.Sequence {
			return true
		}
		if strings.Contains(e.Sequence, candidate.Sequence) || strings.Contains(candidate.Sequence, e.Sequence) {
			return true
		}
	}
	return false
}

func rankSum(e OverlapEntry) int {
	sum := e.Rank
	for _, r := range e.Ranks {
		sum += r
	}
	return sum
}
