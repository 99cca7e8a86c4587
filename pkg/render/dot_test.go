package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/branchmap/pkg/graph"
)

func starGraph() *graph.Graph {
	return &graph.Graph{
		Vertices: []graph.Vertex{
			{Commit: "c1", Label: "main", Names: []string{"main"}},
			{Commit: "c2", Label: "feat", Names: []string{"feat"}},
			{Commit: "c3", Label: "9f2a1b4"},
		},
		Edges: []graph.Edge{
			{From: "9f2a1b4", To: "main"},
			{From: "9f2a1b4", To: "feat"},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(starGraph(), Options{})

	for _, want := range []string{
		"digraph branches {",
		`"main" [label="main"];`,
		`"9f2a1b4" -> "main";`,
		`"9f2a1b4" -> "feat";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTMarksAnonymousAncestors(t *testing.T) {
	dot := ToDOT(starGraph(), Options{})

	line := ""
	for _, l := range strings.Split(dot, "\n") {
		if strings.Contains(l, `"9f2a1b4" [`) {
			line = l
			break
		}
	}
	if line == "" {
		t.Fatalf("no node line for ancestor:\n%s", dot)
	}
	if !strings.Contains(line, "dashed") || !strings.Contains(line, "lightgrey") {
		t.Errorf("ancestor node not styled dashed/grey: %s", line)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(starGraph(), Options{Detailed: true})
	if !strings.Contains(dot, `label="main\nc1"`) {
		t.Errorf("detailed label missing commit id:\n%s", dot)
	}
}

func TestToDOTCluster(t *testing.T) {
	g := &graph.Graph{
		Vertices: []graph.Vertex{
			{Commit: "c1", Label: "feat2", Names: []string{"feat1", "feat2"}},
			{Commit: "c2", Label: "main", Names: []string{"main"}},
		},
		Edges: []graph.Edge{{From: "main", To: "feat2"}},
	}

	dot := ToDOT(g, Options{Cluster: true})

	if !strings.Contains(dot, "subgraph cluster_0 {") {
		t.Fatalf("cluster subgraph missing:\n%s", dot)
	}
	for _, name := range []string{`"feat1"`, `"feat2"`} {
		if !strings.Contains(dot, name) {
			t.Errorf("cluster missing node %s:\n%s", name, dot)
		}
	}
	// Edges still target the winning label.
	if !strings.Contains(dot, `"main" -> "feat2";`) {
		t.Errorf("edge does not target the label node:\n%s", dot)
	}
}

func TestToDOTNoClusterForSingleName(t *testing.T) {
	dot := ToDOT(starGraph(), Options{Cluster: true})
	if strings.Contains(dot, "subgraph") {
		t.Errorf("single-name vertices must not cluster:\n%s", dot)
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"dot", "svg", "png", "json"} {
		if !ValidFormat(f) {
			t.Errorf("ValidFormat(%q) = false", f)
		}
	}
	if ValidFormat("pdf") {
		t.Error("ValidFormat(pdf) = true, want false")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00">`)
	out := normalizeViewBox(in)

	want := `viewBox="0 0 100.00 50.00"`
	if !strings.Contains(string(out), want) {
		t.Errorf("normalizeViewBox = %s, want %s", out, want)
	}
}
