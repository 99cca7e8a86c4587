// Package render converts branch-ancestry graphs to Graphviz DOT and
// renders them to SVG or PNG.
//
// Layout is delegated entirely to Graphviz; this package only decides node
// styling and cluster grouping. Anonymous ancestor commits (no reference
// pointing at them) are drawn dashed and grey to distinguish them from
// named tips.
package render

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/branchmap/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// Cluster groups every reference name sharing a commit into a
	// subgraph cluster instead of showing only the winning label.
	Cluster bool

	// Detailed includes the full commit id in each node label.
	Detailed bool
}

// ToDOT converts a Graph to Graphviz DOT format.
// The resulting DOT string can be rendered with [SVG] or [PNG].
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph branches {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	cluster := 0
	for _, v := range g.Vertices {
		if opts.Cluster && len(v.Names) > 1 {
			writeCluster(&buf, v, cluster, opts)
			cluster++
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", v.Label, strings.Join(vertexAttrs(v, v.Label, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeCluster emits one subgraph containing a node per reference name.
// Edges keep pointing at the winning label's node, which lives inside the
// cluster, so the cluster as a whole is connected into the graph.
func writeCluster(buf *bytes.Buffer, v graph.Vertex, n int, opts Options) {
	fmt.Fprintf(buf, "  subgraph cluster_%d {\n", n)
	buf.WriteString("    style=dashed;\n")
	buf.WriteString("    color=grey;\n")

	names := slices.Clone(v.Names)
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(buf, "    %q [%s];\n", name, strings.Join(vertexAttrs(v, name, opts), ", "))
	}
	buf.WriteString("  }\n")
}

// vertexAttrs formats the DOT attribute list for one node.
func vertexAttrs(v graph.Vertex, name string, opts Options) []string {
	label := name
	if opts.Detailed {
		label = name + "\n" + v.Commit
	}

	attrs := []string{fmt.Sprintf("label=%q", label)}
	if len(v.Names) == 0 {
		// Anonymous ancestor: discovered via merge-base, no ref points here.
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}
