package ancestry

import (
	"context"
	"slices"

	"github.com/matzehuels/branchmap/pkg/gitquery"
)

// DefaultFallbackAbbrevLen is the abbreviation prefix length used when the
// external abbreviation primitive is unavailable.
const DefaultFallbackAbbrevLen = 7

// AssignLabels maps every vertex commit to a display label.
//
// A commit with one or more reference names pointing at it takes the
// lexicographically maximal name; the other names stay visible only
// through the returned namesByCommit (and cluster rendering). A pure
// ancestor commit takes the shortest unique abbreviation from the git
// primitive, falling back to a fixed-length prefix (extended until unique
// within the vertex set) if that primitive fails.
//
// Labels are assigned in vertex order, so the result is deterministic for
// a given discovery outcome.
func AssignLabels(ctx context.Context, q gitquery.Querier, vertices []string, namesByCommit map[string][]string, fallbackLen int) (map[string]string, error) {
	if fallbackLen <= 0 {
		fallbackLen = DefaultFallbackAbbrevLen
	}

	labels := make(map[string]string, len(vertices))
	used := make(map[string]bool, len(vertices))

	for _, commit := range vertices {
		var label string
		if names := namesByCommit[commit]; len(names) > 0 {
			// Last alphabetically wins. Deliberate: collisions are resolved
			// by the maximal name, and the losers surface via namesByCommit.
			label = slices.Max(names)
		} else {
			label = abbreviate(ctx, q, commit, fallbackLen, used)
		}
		labels[commit] = label
		used[label] = true
	}
	return labels, nil
}

// abbreviate returns a short, unique label for an unnamed commit.
func abbreviate(ctx context.Context, q gitquery.Querier, commit string, fallbackLen int, used map[string]bool) string {
	if short, err := q.ShortAbbrev(ctx, commit); err == nil && short != "" && !used[short] {
		return short
	}

	// Fallback: fixed-length prefix, extended until unique among the
	// labels assigned so far.
	n := min(fallbackLen, len(commit))
	for ; n < len(commit); n++ {
		if !used[commit[:n]] {
			break
		}
	}
	return commit[:n]
}
