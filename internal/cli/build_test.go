package cli

import (
	"context"
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/branchmap/pkg/errors"
)

// fakeQuerier resolves references from a fixed map and never touches git.
type fakeQuerier struct {
	refs map[string]string // full ref path -> commit id
}

func (f *fakeQuerier) ResolveRef(ctx context.Context, ref string) (string, bool, error) {
	id, ok := f.refs[ref]
	return id, ok, nil
}

func (f *fakeQuerier) MergeBase(ctx context.Context, a, b string) (string, bool, error) {
	return "", false, nil
}

func (f *fakeQuerier) ShortAbbrev(ctx context.Context, commit string) (string, error) {
	if len(commit) > 4 {
		return commit[:4], nil
	}
	return commit, nil
}

func testLogger() *log.Logger {
	return newLogger(io.Discard, log.InfoLevel)
}

func TestResolveTipsSharedCommit(t *testing.T) {
	q := &fakeQuerier{refs: map[string]string{
		"refs/heads/main":  "c1",
		"refs/heads/feat1": "c2",
		"refs/heads/feat2": "c2",
	}}

	tips, names, err := resolveTips(context.Background(), testLogger(), q, []string{"main", "feat1", "feat2"}, false)
	if err != nil {
		t.Fatalf("resolveTips: %v", err)
	}

	if !slices.Equal(tips, []string{"c1", "c2"}) {
		t.Errorf("tips = %v, want [c1 c2] (shared commit deduplicated, input order kept)", tips)
	}
	if !slices.Equal(names["c2"], []string{"feat1", "feat2"}) {
		t.Errorf("names[c2] = %v, want both names", names["c2"])
	}
}

func TestResolveTipsUnknownReferenceFails(t *testing.T) {
	q := &fakeQuerier{refs: map[string]string{"refs/heads/main": "c1"}}

	_, _, err := resolveTips(context.Background(), testLogger(), q, []string{"main", "nope"}, false)
	if !errors.Is(err, errors.ErrCodeUnresolvedReference) {
		t.Errorf("resolveTips error = %v, want UNRESOLVED_REFERENCE", err)
	}
}

func TestResolveTipsIgnoreMissing(t *testing.T) {
	q := &fakeQuerier{refs: map[string]string{"refs/heads/main": "c1"}}

	tips, names, err := resolveTips(context.Background(), testLogger(), q, []string{"main", "nope"}, true)
	if err != nil {
		t.Fatalf("resolveTips: %v", err)
	}
	if !slices.Equal(tips, []string{"c1"}) {
		t.Errorf("tips = %v, want [c1]", tips)
	}
	if len(names) != 1 {
		t.Errorf("names = %v, want only main's commit", names)
	}
}

func TestResolveTipsDuplicateName(t *testing.T) {
	q := &fakeQuerier{refs: map[string]string{"refs/heads/main": "c1"}}

	tips, names, err := resolveTips(context.Background(), testLogger(), q, []string{"main", "main"}, false)
	if err != nil {
		t.Fatalf("resolveTips: %v", err)
	}
	if len(tips) != 1 || len(names["c1"]) != 1 {
		t.Errorf("tips = %v, names = %v, want one tip with one name", tips, names)
	}
}
