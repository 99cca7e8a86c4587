// Package ancestry builds branch-ancestry graphs from merge-base queries.
//
// Given a set of tip commits, the discovery engine iteratively finds every
// nearest common ancestor needed to explain how the tips relate: each newly
// discovered ancestor is itself compared against all known commits, until a
// round discovers nothing new (a fixpoint). Label assignment then names
// every vertex, and the builder assembles the final graph model.
package ancestry

import (
	"context"
	"sync"

	"github.com/matzehuels/branchmap/pkg/errors"
	"github.com/matzehuels/branchmap/pkg/gitquery"
)

// DefaultConcurrency is the merge-base worker pool size per round.
const DefaultConcurrency = 8

// ProgressFunc receives discovery progress: the current round, the number
// of completed pair queries in that round, and the round's total.
// Called from worker goroutines; implementations must be safe for
// concurrent use.
type ProgressFunc func(round, done, total int)

// pair is an unordered commit pair in canonical (sorted) order, used to
// guarantee each pair is queried at most once across all rounds.
type pair struct {
	a, b string
}

func canonical(a, b string) pair {
	if b < a {
		a, b = b, a
	}
	return pair{a: a, b: b}
}

// commitEdge is an ancestry edge on commit ids: From is an ancestor of To.
type commitEdge struct {
	From, To string
}

// job is one merge-base query scheduled within a round.
type job struct {
	idx  int
	a, b string
}

// result is the outcome of one merge-base query.
type result struct {
	a, b  string
	base  string
	found bool
}

// Discover computes the full vertex and raw edge sets for the given tips.
//
// Vertices are returned in discovery order: tips first (input order,
// deduplicated), then ancestors in the order they were found. Edges are
// deduplicated and never self-referential.
//
// Queries within a round run concurrently on a bounded worker pool;
// results are merged by the coordinating goroutine only after the whole
// round completes, so no locking is needed on the vertex and edge sets.
// Rounds are strictly sequential: every commit discovered in round k is
// compared against all previously known commits before round k+1 starts.
//
// A hard query failure aborts the whole pass with no partial result.
// Zero tips is an EMPTY_INPUT error.
func Discover(ctx context.Context, q gitquery.Querier, tips []string, concurrency int, progress ProgressFunc) ([]string, []commitEdge, error) {
	if len(tips) == 0 {
		return nil, nil, errors.New(errors.ErrCodeEmptyInput, "no tips supplied")
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	// Vertex set: ordered slice for deterministic output, map for O(1)
	// membership. New-vertex checks run against the entire accumulated
	// set, never only the current frontier.
	var vertices []string
	known := make(map[string]bool, len(tips))
	for _, tip := range tips {
		if !known[tip] {
			known[tip] = true
			vertices = append(vertices, tip)
		}
	}

	compared := make(map[pair]bool)
	edgeSeen := make(map[commitEdge]bool)
	var edges []commitEdge

	frontier := vertices
	for round := 1; len(frontier) > 0; round++ {
		// Every frontier commit is paired against the full accumulated
		// vertex set, skipping pairs already queried in earlier rounds.
		var jobs []job
		for _, b := range frontier {
			for _, a := range vertices {
				if a == b {
					continue
				}
				key := canonical(a, b)
				if compared[key] {
					continue
				}
				compared[key] = true
				jobs = append(jobs, job{idx: len(jobs), a: a, b: b})
			}
		}

		results, err := runRound(ctx, q, jobs, concurrency, round, progress)
		if err != nil {
			return nil, nil, err
		}

		// Merge sequentially, in job order, for deterministic vertex and
		// edge ordering regardless of worker completion order.
		var next []string
		for _, res := range results {
			if !res.found {
				continue // disjoint histories: no edge, no vertex
			}
			c := res.base
			if !known[c] {
				known[c] = true
				vertices = append(vertices, c)
				next = append(next, c)
			}
			for _, child := range []string{res.a, res.b} {
				if c == child {
					continue // an ancestor is never its own strict ancestor
				}
				e := commitEdge{From: c, To: child}
				if !edgeSeen[e] {
					edgeSeen[e] = true
					edges = append(edges, e)
				}
			}
		}
		frontier = next
	}

	return vertices, edges, nil
}

// runRound executes one round's queries on a bounded worker pool and
// returns results indexed by job order. The first hard failure cancels
// the remaining work and is returned as-is.
func runRound(ctx context.Context, q gitquery.Querier, jobs []job, concurrency int, round int, progress ProgressFunc) ([]result, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobCh := make(chan job)
	results := make([]result, len(jobs))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		done     int
	)

	workers := min(concurrency, len(jobs))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				base, found, err := q.MergeBase(ctx, j.a, j.b)

				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
						cancel()
					}
					mu.Unlock()
					return
				}
				results[j.idx] = result{a: j.a, b: j.b, base: base, found: found}
				done++
				d := done
				mu.Unlock()

				if progress != nil {
					progress(round, d, len(jobs))
				}
			}
		}()
	}

	for _, j := range jobs {
		select {
		case jobCh <- j:
		case <-ctx.Done():
		}
	}
	close(jobCh)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
