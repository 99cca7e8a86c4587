package gitquery

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/branchmap/pkg/errors"
)

// fakeRun builds a run function that matches commands by joined args.
func fakeRun(t *testing.T, responses map[string]any) func(ctx context.Context, dir string, args ...string) ([]byte, error) {
	t.Helper()
	return func(ctx context.Context, dir string, args ...string) ([]byte, error) {
		key := strings.Join(args, " ")
		resp, ok := responses[key]
		if !ok {
			t.Fatalf("unexpected git command: %s", key)
		}
		switch v := resp.(type) {
		case string:
			return []byte(v + "\n"), nil
		case int:
			return nil, &exitError{code: v, msg: "fatal: something"}
		default:
			t.Fatalf("bad response type for %s", key)
			return nil, nil
		}
	}
}

func TestResolveRef(t *testing.T) {
	tests := []struct {
		name      string
		responses map[string]any
		ref       string
		want      string
		wantFound bool
		wantErr   bool
	}{
		{
			name:      "Found",
			responses: map[string]any{"rev-parse --verify --quiet refs/heads/main^{commit}": "abc123"},
			ref:       "refs/heads/main",
			want:      "abc123",
			wantFound: true,
		},
		{
			name:      "NotFound",
			responses: map[string]any{"rev-parse --verify --quiet refs/heads/nope^{commit}": 1},
			ref:       "refs/heads/nope",
			wantFound: false,
		},
		{
			name:      "HardFailure",
			responses: map[string]any{"rev-parse --verify --quiet refs/heads/x^{commit}": 128},
			ref:       "refs/heads/x",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{run: fakeRun(t, tt.responses)}
			got, found, err := c.ResolveRef(context.Background(), tt.ref)

			if tt.wantErr {
				if err == nil {
					t.Fatal("ResolveRef() error = nil, want QUERY_FAILURE")
				}
				if !errors.Is(err, errors.ErrCodeQueryFailure) {
					t.Errorf("ResolveRef() error code = %q, want QUERY_FAILURE", errors.GetCode(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveRef() error = %v", err)
			}
			if found != tt.wantFound || got != tt.want {
				t.Errorf("ResolveRef() = (%q, %v), want (%q, %v)", got, found, tt.want, tt.wantFound)
			}
		})
	}
}

func TestMergeBase(t *testing.T) {
	tests := []struct {
		name      string
		responses map[string]any
		want      string
		wantFound bool
		wantErr   bool
	}{
		{
			name:      "CommonAncestor",
			responses: map[string]any{"merge-base aaa bbb": "ccc"},
			want:      "ccc",
			wantFound: true,
		},
		{
			name:      "DisjointHistories",
			responses: map[string]any{"merge-base aaa bbb": 1},
			wantFound: false,
		},
		{
			name:      "MalformedID",
			responses: map[string]any{"merge-base aaa bbb": 128},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{run: fakeRun(t, tt.responses)}
			got, found, err := c.MergeBase(context.Background(), "aaa", "bbb")

			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeQueryFailure) {
					t.Fatalf("MergeBase() error = %v, want QUERY_FAILURE", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("MergeBase() error = %v", err)
			}
			if found != tt.wantFound || got != tt.want {
				t.Errorf("MergeBase() = (%q, %v), want (%q, %v)", got, found, tt.want, tt.wantFound)
			}
		})
	}
}

func TestShortAbbrev(t *testing.T) {
	c := &Client{run: fakeRun(t, map[string]any{"rev-parse --short abc123": "abc1"})}
	got, err := c.ShortAbbrev(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("ShortAbbrev() error = %v", err)
	}
	if got != "abc1" {
		t.Errorf("ShortAbbrev() = %q, want %q", got, "abc1")
	}
}

func TestShortAbbrevFailure(t *testing.T) {
	c := &Client{run: fakeRun(t, map[string]any{"rev-parse --short zzz": 128})}
	if _, err := c.ShortAbbrev(context.Background(), "zzz"); !errors.Is(err, errors.ErrCodeQueryFailure) {
		t.Errorf("ShortAbbrev() error = %v, want QUERY_FAILURE", err)
	}
}

func TestListRefs(t *testing.T) {
	c := &Client{run: fakeRun(t, map[string]any{
		"for-each-ref --format=%(refname:short) refs/heads": "main\nfeat/login\n",
	})}

	got, err := c.ListRefs(context.Background(), "refs/heads")
	if err != nil {
		t.Fatalf("ListRefs() error = %v", err)
	}
	want := []string{"main", "feat/login"}
	if len(got) != len(want) {
		t.Fatalf("ListRefs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListRefs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
