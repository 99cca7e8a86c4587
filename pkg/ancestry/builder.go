package ancestry

import (
	"context"
	"slices"

	"github.com/matzehuels/branchmap/pkg/gitquery"
	"github.com/matzehuels/branchmap/pkg/graph"
)

// Options configures graph building.
type Options struct {
	// Concurrency bounds the merge-base worker pool per discovery round.
	// Zero means DefaultConcurrency.
	Concurrency int

	// FallbackAbbrevLen is the abbreviation prefix length used when the
	// git abbreviation primitive is unavailable. Zero means
	// DefaultFallbackAbbrevLen.
	FallbackAbbrevLen int

	// ClusterMode marks the graph for cluster rendering, where every
	// reference name sharing a commit is shown instead of a single label.
	ClusterMode bool

	// Progress, if set, receives per-round discovery progress.
	Progress ProgressFunc
}

// BuildGraph discovers the ancestry graph for the given tips and returns
// the labeled result.
//
// tips are commit ids in input order; namesByTip maps each tip commit to
// the reference names that resolved to it (a commit shared by several
// names appears once, with all its names). The returned graph carries:
//   - every tip and every discovered ancestor as a labeled vertex
//   - deduplicated ancestor→descendant edges on labels (raw, unreduced;
//     callers apply graph.Reduce when they want the minimal edge set)
//   - the complete name sets per commit
func BuildGraph(ctx context.Context, q gitquery.Querier, tips []string, namesByTip map[string][]string, opts Options) (*graph.Graph, error) {
	vertices, rawEdges, err := Discover(ctx, q, tips, opts.Concurrency, opts.Progress)
	if err != nil {
		return nil, err
	}

	labels, err := AssignLabels(ctx, q, vertices, namesByTip, opts.FallbackAbbrevLen)
	if err != nil {
		return nil, err
	}

	g := &graph.Graph{
		Vertices:      make([]graph.Vertex, len(vertices)),
		Edges:         make([]graph.Edge, len(rawEdges)),
		NamesByCommit: make(map[string][]string),
		Clustered:     opts.ClusterMode,
	}

	for i, commit := range vertices {
		names := slices.Clone(namesByTip[commit])
		slices.Sort(names)
		g.Vertices[i] = graph.Vertex{
			Commit: commit,
			Label:  labels[commit],
			Names:  names,
		}
		if len(names) > 0 {
			g.NamesByCommit[commit] = names
		}
	}

	for i, e := range rawEdges {
		g.Edges[i] = graph.Edge{From: labels[e.From], To: labels[e.To]}
	}

	return g, nil
}
