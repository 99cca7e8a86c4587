package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/branchmap/pkg/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		graph   Graph
		wantErr bool
	}{
		{
			name:  "Empty",
			graph: Graph{},
		},
		{
			name: "WellFormed",
			graph: Graph{
				Vertices: []Vertex{
					{Commit: "c1", Label: "main"},
					{Commit: "c2", Label: "feat"},
				},
				Edges: []Edge{{From: "main", To: "feat"}},
			},
		},
		{
			name: "DuplicateLabel",
			graph: Graph{
				Vertices: []Vertex{
					{Commit: "c1", Label: "x"},
					{Commit: "c2", Label: "x"},
				},
			},
			wantErr: true,
		},
		{
			name: "SelfEdge",
			graph: Graph{
				Vertices: []Vertex{{Commit: "c1", Label: "x"}},
				Edges:    []Edge{{From: "x", To: "x"}},
			},
			wantErr: true,
		},
		{
			name: "DanglingEdge",
			graph: Graph{
				Vertices: []Vertex{{Commit: "c1", Label: "x"}},
				Edges:    []Edge{{From: "x", To: "ghost"}},
			},
			wantErr: true,
		},
		{
			name: "Cycle",
			graph: Graph{
				Vertices: []Vertex{
					{Commit: "c1", Label: "a"},
					{Commit: "c2", Label: "b"},
				},
				Edges: []Edge{
					{From: "a", To: "b"},
					{From: "b", To: "a"},
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.graph.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidGraph) {
				t.Errorf("error code = %q, want INVALID_GRAPH", errors.GetCode(err))
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	g := &Graph{
		Vertices: []Vertex{
			{Commit: "c3", Label: "x9f2a1"},
			{Commit: "c1", Label: "main", Names: []string{"main"}},
			{Commit: "c2", Label: "feat2", Names: []string{"feat1", "feat2"}},
		},
		Edges: []Edge{
			{From: "x9f2a1", To: "main"},
			{From: "x9f2a1", To: "feat2"},
		},
		NamesByCommit: map[string][]string{
			"c1": {"main"},
			"c2": {"feat1", "feat2"},
		},
	}

	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if len(got.Vertices) != 3 || len(got.Edges) != 2 {
		t.Errorf("round trip = %d vertices, %d edges; want 3, 2", len(got.Vertices), len(got.Edges))
	}
	if names := got.NamesByCommit["c2"]; len(names) != 2 {
		t.Errorf("NamesByCommit[c2] = %v, want both names preserved", names)
	}

	// Serialization is deterministic regardless of input order.
	again, err := Marshal(got)
	if err != nil {
		t.Fatalf("Marshal again: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("serialization is not deterministic across round trips")
	}
}

func TestReadRejectsInvalidGraph(t *testing.T) {
	in := `{"vertices":[{"commit":"c1","label":"a"}],"edges":[{"from":"a","to":"a"}]}`
	if _, err := Read(strings.NewReader(in)); !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("Read() error = %v, want INVALID_GRAPH", err)
	}
}

func TestReadRejectsMalformedJSON(t *testing.T) {
	if _, err := Read(strings.NewReader("{not json")); err == nil {
		t.Error("Read() error = nil for malformed JSON")
	}
}

func TestVertexLookup(t *testing.T) {
	g := Graph{Vertices: []Vertex{{Commit: "c1", Label: "main"}}}

	if v, ok := g.Vertex("main"); !ok || v.Commit != "c1" {
		t.Errorf("Vertex(main) = (%v, %v), want c1", v, ok)
	}
	if _, ok := g.Vertex("ghost"); ok {
		t.Error("Vertex(ghost) = found, want missing")
	}
}
