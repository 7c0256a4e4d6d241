package reportdiff

import (
	"testing"

	"github.com/cockroachdb/apd/v3"

	"github.com/pygram-go/pygram/internal/reporter"
)

func prob(coeff int64) *apd.Decimal {
	return apd.New(coeff, -4)
}

func TestMatchRatioCountsSharedOccurrences(t *testing.T) {
	untyped := &reporter.Report{Entries: []reporter.Entry{
		{Sequence: "ab", Probability: prob(1), Modules: map[string][]int{"mod": {1, 2}}},
	}}
	typed := &reporter.Report{Entries: []reporter.Entry{
		{Sequence: "ab", Probability: prob(1), Modules: map[string][]int{"mod": {1}}},
	}}

	got := MatchRatio(typed, untyped)
	if got != 0.5 {
		t.Fatalf("got %v, want 0.5", got)
	}
}

func TestMatchRatioEmptyUntypedReportIsZero(t *testing.T) {
	untyped := &reporter.Report{}
	typed := &reporter.Report{Entries: []reporter.Entry{
		{Sequence: "ab", Probability: prob(1), Modules: map[string][]int{"mod": {1}}},
	}}
	if got := MatchRatio(typed, untyped); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestFindOverlappingRequiresMoreThanMinOverlapMatches(t *testing.T) {
	reports := map[string]*reporter.Report{
		"a": {Entries: []reporter.Entry{{Sequence: "abc", Probability: prob(1), Modules: map[string][]int{"mod": {1}}}}},
		"b": {Entries: []reporter.Entry{{Sequence: "abc", Probability: prob(1), Modules: map[string][]int{"mod": {2}}}}},
		"c": {Entries: []reporter.Entry{{Sequence: "abc", Probability: prob(1), Modules: map[string][]int{"mod": {3}}}}},
	}

	none := FindOverlapping(reports, 2)
	if len(none) != 0 {
		t.Fatalf("minOverlap=2 with 2 matches per candidate should find nothing, got %d", len(none))
	}

	some := FindOverlapping(reports, 1)
	if len(some) == 0 {
		t.Fatal("minOverlap=1 with 2 matches per candidate should find overlaps")
	}
	for _, e := range some {
		if e.Overlaps != 2 {
			t.Fatalf("got %d overlaps, want 2", e.Overlaps)
		}
	}
}

func TestFindOverlappingRequiresSameModule(t *testing.T) {
	reports := map[string]*reporter.Report{
		"a": {Entries: []reporter.Entry{{Sequence: "abc", Probability: prob(1), Modules: map[string][]int{"mod1": {1}}}}},
		"b": {Entries: []reporter.Entry{{Sequence: "abc", Probability: prob(1), Modules: map[string][]int{"mod2": {1}}}}},
	}
	got := FindOverlapping(reports, 0)
	if len(got) != 0 {
		t.Fatalf("cross-module matches should not overlap, got %d", len(got))
	}
}

func TestFindOverlappingMatchesBySubstringContainment(t *testing.T) {
	reports := map[string]*reporter.Report{
		"a": {Entries: []reporter.Entry{{Sequence: "abcdef", Probability: prob(1), Modules: map[string][]int{"mod": {1}}}}},
		"b": {Entries: []reporter.Entry{{Sequence: "abc", Probability: prob(1), Modules: map[string][]int{"mod": {2}}}}},
		"c": {Entries: []reporter.Entry{{Sequence: "abc", Probability: prob(1), Modules: map[string][]int{"mod": {3}}}}},
	}
	got := FindOverlapping(reports, 1)
	if len(got) == 0 {
		t.Fatal("expected a substring-containment overlap to be found")
	}
}
