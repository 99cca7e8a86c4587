// Package gitquery wraps the git plumbing commands branchmap depends on.
//
// Every query is a thin shell-out to the git binary in the working
// repository. Three primitives are exposed:
//   - ResolveRef: map a reference path to a commit id (non-fatal probe)
//   - MergeBase: nearest common ancestor of two commits
//   - ShortAbbrev: shortest unique abbreviation of a commit id
//
// "Not found" and "no common ancestor" are reported as boolean results,
// not errors; only unexpected git failures (unknown object, broken repo,
// missing binary) surface as QUERY_FAILURE coded errors.
package gitquery

import (
	"context"
	"strings"

	"github.com/matzehuels/branchmap/pkg/errors"
)

// Querier is the set of git primitives the graph builder consumes.
// Implementations must be safe for concurrent use; the discovery engine
// issues merge-base queries from a worker pool.
type Querier interface {
	// ResolveRef resolves a fully spelled reference path (or raw id) to a
	// commit id. A reference that does not exist is (_, false, nil).
	ResolveRef(ctx context.Context, ref string) (string, bool, error)

	// MergeBase returns the nearest common ancestor of two commits.
	// Disjoint histories are (_, false, nil), a valid outcome.
	MergeBase(ctx context.Context, a, b string) (string, bool, error)

	// ShortAbbrev returns the shortest unique abbreviation of a commit id.
	ShortAbbrev(ctx context.Context, commit string) (string, error)
}

// Client runs git queries against a single repository directory.
type Client struct {
	dir string
	run func(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// NewClient creates a querier for the repository at dir.
// An empty dir uses the process working directory.
func NewClient(dir string) *Client {
	return &Client{dir: dir, run: runGit}
}

// ResolveRef resolves ref to a commit id via `git rev-parse`.
//
// The ^{commit} suffix peels annotated tags so every successful resolution
// yields a commit, never a tag object. --verify --quiet makes a missing
// reference exit with status 1 and no stderr noise, which is reported as
// a clean not-found.
func (c *Client) ResolveRef(ctx context.Context, ref string) (string, bool, error) {
	out, err := c.run(ctx, c.dir, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		if exitCode(err) == 1 {
			return "", false, nil
		}
		return "", false, errors.Wrap(errors.ErrCodeQueryFailure, err, "rev-parse %s", ref)
	}
	return strings.TrimSpace(string(out)), true, nil
}

// MergeBase returns the nearest common ancestor of a and b.
//
// git exits with status 1 when the histories share no ancestor; that is a
// normal result for unrelated histories, not an error.
func (c *Client) MergeBase(ctx context.Context, a, b string) (string, bool, error) {
	out, err := c.run(ctx, c.dir, "merge-base", a, b)
	if err != nil {
		if exitCode(err) == 1 {
			return "", false, nil
		}
		return "", false, errors.Wrap(errors.ErrCodeQueryFailure, err, "merge-base %s %s", a, b)
	}
	return strings.TrimSpace(string(out)), true, nil
}

// ShortAbbrev returns git's shortest unique abbreviation of commit.
func (c *Client) ShortAbbrev(ctx context.Context, commit string) (string, error) {
	out, err := c.run(ctx, c.dir, "rev-parse", "--short", commit)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeQueryFailure, err, "rev-parse --short %s", commit)
	}
	return strings.TrimSpace(string(out)), nil
}

// GitDir returns the absolute path of the repository's .git directory,
// which is where the preview server watches for reference changes.
func (c *Client) GitDir(ctx context.Context) (string, error) {
	out, err := c.run(ctx, c.dir, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeQueryFailure, err, "rev-parse --absolute-git-dir")
	}
	return strings.TrimSpace(string(out)), nil
}

// ListRefs returns the short names of references under the given patterns
// (e.g. "refs/heads" for local branches), in git's iteration order.
func (c *Client) ListRefs(ctx context.Context, patterns ...string) ([]string, error) {
	args := append([]string{"for-each-ref", "--format=%(refname:short)"}, patterns...)
	out, err := c.run(ctx, c.dir, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailure, err, "for-each-ref")
	}

	var names []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

var _ Querier = (*Client)(nil)
