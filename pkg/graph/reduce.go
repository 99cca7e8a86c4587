package graph

// Reduce performs a transitive reduction of the edge set: every edge made
// redundant by an alternative directed path is removed, producing the
// minimal edge set with the same reachability relation.
//
// For example, with edges X→Y, Y→Z, and X→Z, the edge X→Z is redundant
// because X already reaches Z through Y, and is dropped.
//
// Reduce operates purely on label strings and never touches the commit
// layer, so it is usable standalone against any abstract string graph.
// The input is treated as a set: duplicate edges are collapsed before the
// reduction runs. The input slice is not modified.
//
// An edge's redundancy in a DAG does not depend on examination order, so
// the result is order-independent; output preserves first-seen input
// order for stable serialization. Complexity is O(E·(V+E)).
func Reduce(edges []Edge) []Edge {
	deduped := dedup(edges)
	adj := adjacency(deduped)

	kept := make([]Edge, 0, len(deduped))
	for _, e := range deduped {
		if !reachable(adj, e.From, e.To, e) {
			kept = append(kept, e)
		}
	}
	return kept
}

// reachable reports whether to is reachable from from, treating the
// excluded edge as absent for this single query. The adjacency structure
// itself is never mutated; exclusion is query-scoped, which keeps the
// function pure and safe to call concurrently over a shared adjacency map.
func reachable(adj map[string][]string, from, to string, excluded Edge) bool {
	visited := map[string]bool{from: true}
	stack := []string{from}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, next := range adj[cur] {
			if cur == excluded.From && next == excluded.To {
				continue
			}
			if next == to {
				return true
			}
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}

// dedup collapses repeated edges, preserving first-seen order.
func dedup(edges []Edge) []Edge {
	seen := make(map[Edge]bool, len(edges))
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}
