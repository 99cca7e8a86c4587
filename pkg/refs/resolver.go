// Package refs resolves user-supplied reference names to commit ids.
//
// A name like "feat/login" is ambiguous: it could be a local branch with a
// slash in its name, a remote-tracking branch, or (without the slash) share
// its spelling with a tag. Resolution therefore probes the reference
// namespaces in a fixed priority order, so the same name always resolves to
// the same commit against the same repository state.
package refs

import (
	"context"
	"strings"

	"github.com/matzehuels/branchmap/pkg/errors"
	"github.com/matzehuels/branchmap/pkg/gitquery"
)

// Resolver maps reference names to commit ids using a deterministic
// namespace priority:
//
//  1. refs/tags/<name> when the name is explicitly tag-marked
//     ("tags/<x>" or "refs/tags/<x>")
//  2. refs/remotes/<name> when the name contains a slash and is not a
//     fully qualified reference path
//  3. refs/heads/<name>
//  4. the name verbatim (fully qualified paths and raw commit ids)
//  5. refs/tags/<name>, unless already probed in step 1
//
// Each probe is a non-fatal existence check; only exhausting every
// namespace fails the resolution.
type Resolver struct {
	q gitquery.Querier
}

// NewResolver creates a resolver over the given git querier.
func NewResolver(q gitquery.Querier) *Resolver {
	return &Resolver{q: q}
}

// Resolve maps name to a commit id.
// Returns an UNRESOLVED_REFERENCE error naming the input when no namespace
// yields a commit. Hard git failures abort immediately as QUERY_FAILURE.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	for _, probe := range candidates(name) {
		id, found, err := r.q.ResolveRef(ctx, probe)
		if err != nil {
			return "", err
		}
		if found {
			return id, nil
		}
	}
	return "", errors.New(errors.ErrCodeUnresolvedReference, "no branch, tag, or commit matches %q", name)
}

// Exists reports whether name resolves in any namespace.
// It probes in the same order as Resolve but filters instead of failing,
// for callers that screen a candidate list before building a graph.
func (r *Resolver) Exists(ctx context.Context, name string) (bool, error) {
	for _, probe := range candidates(name) {
		_, found, err := r.q.ResolveRef(ctx, probe)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

// candidates returns the ordered reference paths to probe for name.
func candidates(name string) []string {
	var probes []string
	tagTried := false

	if stripped, marked := tagMarked(name); marked {
		probes = append(probes, "refs/tags/"+stripped)
		tagTried = true
	}

	// A remote branch "origin/feat" is syntactically indistinguishable from
	// a local branch named "origin/feat"; the remote namespace wins.
	if strings.Contains(name, "/") && !strings.HasPrefix(name, "refs/") {
		probes = append(probes, "refs/remotes/"+name)
	}

	probes = append(probes, "refs/heads/"+name, name)

	if !tagTried {
		probes = append(probes, "refs/tags/"+name)
	}
	return probes
}

// tagMarked reports whether name explicitly addresses the tag namespace,
// returning the name with the marker stripped.
func tagMarked(name string) (string, bool) {
	if stripped, ok := strings.CutPrefix(name, "refs/tags/"); ok {
		return stripped, true
	}
	if stripped, ok := strings.CutPrefix(name, "tags/"); ok {
		return stripped, true
	}
	return name, false
}
