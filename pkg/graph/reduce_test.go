package graph

import (
	"slices"
	"testing"
)

func edgeSet(edges []Edge) map[Edge]bool {
	set := make(map[Edge]bool, len(edges))
	for _, e := range edges {
		set[e] = true
	}
	return set
}

// reachPairs computes the full reachability relation of an edge set.
func reachPairs(edges []Edge) map[Edge]bool {
	adj := adjacency(edges)
	nodes := map[string]bool{}
	for _, e := range edges {
		nodes[e.From] = true
		nodes[e.To] = true
	}

	pairs := map[Edge]bool{}
	for from := range nodes {
		visited := map[string]bool{}
		stack := []string{from}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range adj[cur] {
				if !visited[next] {
					visited[next] = true
					pairs[Edge{From: from, To: next}] = true
					stack = append(stack, next)
				}
			}
		}
	}
	return pairs
}

func TestReduce(t *testing.T) {
	tests := []struct {
		name  string
		edges []Edge
		want  []Edge
	}{
		{
			name:  "Empty",
			edges: nil,
			want:  []Edge{},
		},
		{
			name:  "SingleEdge",
			edges: []Edge{{From: "a", To: "b"}},
			want:  []Edge{{From: "a", To: "b"}},
		},
		{
			name: "RedundantShortcut",
			edges: []Edge{
				{From: "X", To: "Y"},
				{From: "Y", To: "Z"},
				{From: "X", To: "Z"},
			},
			want: []Edge{
				{From: "X", To: "Y"},
				{From: "Y", To: "Z"},
			},
		},
		{
			name: "StarIsAlreadyMinimal",
			edges: []Edge{
				{From: "X", To: "A"},
				{From: "X", To: "B"},
				{From: "X", To: "C"},
			},
			want: []Edge{
				{From: "X", To: "A"},
				{From: "X", To: "B"},
				{From: "X", To: "C"},
			},
		},
		{
			name: "DiamondKeepsAllEdges",
			edges: []Edge{
				{From: "a", To: "b"},
				{From: "a", To: "c"},
				{From: "b", To: "d"},
				{From: "c", To: "d"},
			},
			want: []Edge{
				{From: "a", To: "b"},
				{From: "a", To: "c"},
				{From: "b", To: "d"},
				{From: "c", To: "d"},
			},
		},
		{
			name: "LongShortcut",
			edges: []Edge{
				{From: "a", To: "b"},
				{From: "b", To: "c"},
				{From: "c", To: "d"},
				{From: "a", To: "d"},
			},
			want: []Edge{
				{From: "a", To: "b"},
				{From: "b", To: "c"},
				{From: "c", To: "d"},
			},
		},
		{
			name: "DuplicateEdgesCollapse",
			edges: []Edge{
				{From: "a", To: "b"},
				{From: "a", To: "b"},
			},
			want: []Edge{{From: "a", To: "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(tt.edges)
			if len(got) != len(tt.want) || !mapsEqual(edgeSet(got), edgeSet(tt.want)) {
				t.Errorf("Reduce() = %v, want %v", got, tt.want)
			}
		})
	}
}

func mapsEqual(a, b map[Edge]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func TestReduceIdempotent(t *testing.T) {
	edges := []Edge{
		{From: "X", To: "Y"},
		{From: "Y", To: "Z"},
		{From: "X", To: "Z"},
		{From: "Z", To: "W"},
		{From: "Y", To: "W"},
	}

	once := Reduce(edges)
	twice := Reduce(once)
	if !slices.Equal(once, twice) {
		t.Errorf("Reduce not idempotent: %v then %v", once, twice)
	}
}

func TestReducePreservesReachability(t *testing.T) {
	edges := []Edge{
		{From: "root", To: "a"},
		{From: "root", To: "b"},
		{From: "a", To: "c"},
		{From: "b", To: "c"},
		{From: "root", To: "c"},
		{From: "c", To: "d"},
		{From: "a", To: "d"},
	}

	before := reachPairs(edges)
	after := reachPairs(Reduce(edges))

	for pair := range before {
		if !after[pair] {
			t.Errorf("reduction lost reachability %s→%s", pair.From, pair.To)
		}
	}
	for pair := range after {
		if !before[pair] {
			t.Errorf("reduction invented reachability %s→%s", pair.From, pair.To)
		}
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	edges := []Edge{
		{From: "X", To: "Y"},
		{From: "Y", To: "Z"},
		{From: "X", To: "Z"},
	}
	input := slices.Clone(edges)

	Reduce(edges)
	if !slices.Equal(edges, input) {
		t.Error("Reduce mutated its input slice")
	}
}
