package tokenizer

import (
	"testing"

	"github.com/pygram-go/pygram/internal/typecache"
)

func buildProject(t *testing.T, sources map[string]string) *typecache.ProjectCache {
	t.Helper()
	available := make(map[string]bool, len(sources))
	for mod := range sources {
		available[mod] = true
	}
	project := typecache.NewProjectCache()
	pp := typecache.NewPreprocessor(project)
	for mod, src := range sources {
		pp.ProcessFile(mod, parseModule(t, src), available)
	}
	return project
}

func TestNewTypedQualifiesStandaloneFunctionCall(t *testing.T) {
	project := buildProject(t, map[string]string{
		"pkg.util": "def helper():\n    pass\n",
		"pkg.main": "from pkg.util import helper\ndef f():\n    helper()\n",
	})
	project.SetCurrentModule("pkg.main")

	tt := NewTyped("pkg.main", project, nil)
	mod := parseModule(t, "from pkg.util import helper\ndef f():\n    helper()\n")
	seqs := tt.Tokenize(mod)

	got := lexemes(seqs[0])
	want := []string{TokDef, "pkg.util.helper()", TokEndDef}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if tt.Stats().CallTokens != 1 || tt.Stats().TypeInferredCallTokens != 1 {
		t.Fatalf("got stats %+v, want 1/1", tt.Stats())
	}
}

func TestNewTypedQualifiesMethodCallViaAnnotatedParameter(t *testing.T) {
	project := buildProject(t, map[string]string{
		"pkg.widgets": "class Widget:\n    def draw(self):\n        pass\n",
		"pkg.main":    "from pkg.widgets import Widget\ndef f(w: Widget):\n    w.draw()\n",
	})
	project.SetCurrentModule("pkg.main")

	tt := NewTyped("pkg.main", project, nil)
	mod := parseModule(t, "from pkg.widgets import Widget\ndef f(w: Widget):\n    w.draw()\n")
	seqs := tt.Tokenize(mod)

	got := lexemes(seqs[0])
	want := []string{TokDef, "Widget.draw()", TokEndDef}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestNewTypedFallsBackToUnqualifiedTokenWhenUnresolvable(t *testing.T) {
	project := buildProject(t, map[string]string{
		"pkg.main": "def f():\n    mystery()\n",
	})
	project.SetCurrentModule("pkg.main")

	tt := NewTyped("pkg.main", project, nil)
	mod := parseModule(t, "def f():\n    mystery()\n")
	seqs := tt.Tokenize(mod)

	got := lexemes(seqs[0])
	want := []string{TokDef, "mystery()", TokEndDef}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if tt.Stats().TypeInferredCallTokens != 0 {
		t.Fatalf("got %d inferred tokens, want 0", tt.Stats().TypeInferredCallTokens)
	}
}

func TestNewTypedTracksAssignAndAnnAssignStats(t *testing.T) {
	project := buildProject(t, map[string]string{
		"pkg.main": "def f():\n    x = 1\n    y: int = 2\n",
	})
	project.SetCurrentModule("pkg.main")

	tt := NewTyped("pkg.main", project, nil)
	mod := parseModule(t, "def f():\n    x = 1\n    y: int = 2\n")
	tt.Tokenize(mod)

	if tt.Stats().Assigns != 2 {
		t.Fatalf("got Assigns=%d, want 2", tt.Stats().Assigns)
	}
	if tt.Stats().AnnAssigns != 1 {
		t.Fatalf("got AnnAssigns=%d, want 1", tt.Stats().AnnAssigns)
	}
}
