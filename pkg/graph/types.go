// Package graph defines the branch-ancestry graph model and its canonical
// serialization format.
//
// A Graph is produced by the ancestry builder and consumed by renderers and
// the preview server. The format is human-readable JSON designed for
// round-trip fidelity: build → export → re-import produces identical
// results.
package graph

import (
	"slices"

	"github.com/matzehuels/branchmap/pkg/errors"
)

// Graph is the canonical form of a branch-ancestry DAG.
//
// Edges reference vertices by display label, not by commit id: label
// assignment happens once after discovery, and everything downstream
// (reduction, rendering) operates purely on labels.
type Graph struct {
	Vertices []Vertex `json:"vertices"`
	Edges    []Edge   `json:"edges"`

	// NamesByCommit preserves the complete set of reference names pointing
	// at each commit. Single-label assignment keeps only one name; cluster
	// rendering needs them all.
	NamesByCommit map[string][]string `json:"names_by_commit,omitempty"`

	// Clustered records whether the graph was built for cluster rendering,
	// where every name sharing a commit is shown instead of one label.
	Clustered bool `json:"clustered,omitempty"`
}

// Vertex is a commit known to the graph.
type Vertex struct {
	Commit string `json:"commit"` // full commit id
	Label  string `json:"label"`  // display label, unique within the graph

	// Names lists the reference names pointing directly at this commit.
	// Empty for pure ancestor vertices discovered via merge-base.
	Names []string `json:"names,omitempty"`
}

// Edge is a directed ancestry relationship between two labeled vertices:
// From is an ancestor of To.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Labels returns the vertex labels in graph order.
func (g *Graph) Labels() []string {
	labels := make([]string, len(g.Vertices))
	for i, v := range g.Vertices {
		labels[i] = v.Label
	}
	return labels
}

// Vertex returns the vertex with the given label, if present.
func (g *Graph) Vertex(label string) (Vertex, bool) {
	for _, v := range g.Vertices {
		if v.Label == label {
			return v, true
		}
	}
	return Vertex{}, false
}

// Validate checks structural integrity and returns nil if the graph is a
// well-formed DAG:
//
//  1. Vertex labels are unique
//  2. Every edge connects two distinct, existing vertices
//  3. No directed cycle exists
//
// Commit ancestry is acyclic by construction, so a cycle always indicates
// a corrupted or hand-edited input file.
func (g *Graph) Validate() error {
	seen := make(map[string]bool, len(g.Vertices))
	for _, v := range g.Vertices {
		if v.Label == "" {
			return errors.New(errors.ErrCodeInvalidGraph, "vertex %s has an empty label", v.Commit)
		}
		if seen[v.Label] {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate vertex label %q", v.Label)
		}
		seen[v.Label] = true
	}

	for _, e := range g.Edges {
		if e.From == e.To {
			return errors.New(errors.ErrCodeInvalidGraph, "self-edge on %q", e.From)
		}
		if !seen[e.From] {
			return errors.New(errors.ErrCodeInvalidGraph, "edge references unknown vertex %q", e.From)
		}
		if !seen[e.To] {
			return errors.New(errors.ErrCodeInvalidGraph, "edge references unknown vertex %q", e.To)
		}
	}

	if hasCycle(g.Edges) {
		return errors.New(errors.ErrCodeInvalidGraph, "graph contains a cycle")
	}
	return nil
}

// hasCycle detects a directed cycle using depth-first search with
// white/gray/black coloring.
func hasCycle(edges []Edge) bool {
	adj := adjacency(edges)

	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int)
	var cyclic bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, next := range adj[id] {
			switch color[next] {
			case white:
				dfs(next)
			case gray:
				cyclic = true
				return
			}
		}
		color[id] = black
	}

	for id := range adj {
		if color[id] == white {
			dfs(id)
			if cyclic {
				return true
			}
		}
	}
	return false
}

// adjacency builds an outgoing adjacency map from an edge list,
// deduplicating repeated edges.
func adjacency(edges []Edge) map[string][]string {
	adj := make(map[string][]string)
	for _, e := range edges {
		if !slices.Contains(adj[e.From], e.To) {
			adj[e.From] = append(adj[e.From], e.To)
		}
	}
	return adj
}
