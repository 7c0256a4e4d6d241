// Package dupcount counts how many times each function/method name is
// declared across a project, surfacing names declared more than once —
// the kind of naming collision that can make a reported token sequence
// ambiguous about which concrete definition it came from.
//
// Grounded on original_source/src/utils.py
// (get_list_of_duplicate_functions_in_project, analyse_file,
// process_function, analyse_class).
package dupcount

import (
	"sort"

	"github.com/pygram-go/pygram/internal/past"
)

// Count tallies every FunctionDef/async-FunctionDef name declared anywhere
// in mod, including inside nested classes, the way analyse_file/
// analyse_class walk a module's top-level statements.
func Count(mod *past.Module, counts map[string]int) {
	for _, stmt := range mod.Body {
		countStmt(stmt, counts)
	}
}

func countStmt(stmt past.Stmt, counts map[string]int) {
	switch n := stmt.(type) {
	case *past.FunctionDef:
		counts[n.Name]++
	case *past.ClassDef:
		for _, s := range n.Body {
			countStmt(s, counts)
		}
	}
}

// Duplicates returns every name with a count above 1, rendered as a call
// token ("name()") and sorted, matching the original's output shape.
func Duplicates(counts map[string]int) []string {
	var out []string
	for name, n := range counts {
		if n > 1 {
			out = append(out, name+"()")
		}
	}
	sort.Strings(out)
	return out
}
