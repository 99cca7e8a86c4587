package gitquery

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/branchmap/pkg/cache"
)

// CachedQuerier decorates a Querier with a merge-base result cache.
//
// Only MergeBase is cached: the merge-base of two fixed commit ids can
// never change, so entries are stored without expiry and survive across
// runs. Reference resolution is deliberately never cached - refs move.
type CachedQuerier struct {
	inner Querier
	cache cache.Cache
}

// WithCache wraps q with the given cache. A nil cache disables caching.
func WithCache(q Querier, c cache.Cache) Querier {
	if c == nil {
		return q
	}
	return &CachedQuerier{inner: q, cache: c}
}

// mergeBaseEntry is the serialized cache value. Found is stored explicitly
// so "no common ancestor" results are cached too, not re-queried each run.
type mergeBaseEntry struct {
	Base  string `json:"base"`
	Found bool   `json:"found"`
}

// ResolveRef passes through uncached.
func (c *CachedQuerier) ResolveRef(ctx context.Context, ref string) (string, bool, error) {
	return c.inner.ResolveRef(ctx, ref)
}

// MergeBase consults the cache before querying git. Cache failures are
// treated as misses; the query layer never fails because of the cache.
func (c *CachedQuerier) MergeBase(ctx context.Context, a, b string) (string, bool, error) {
	key := cache.MergeBaseKey(a, b)

	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		var entry mergeBaseEntry
		if err := json.Unmarshal(data, &entry); err == nil {
			return entry.Base, entry.Found, nil
		}
	}

	base, found, err := c.inner.MergeBase(ctx, a, b)
	if err != nil {
		return "", false, err
	}

	if data, err := json.Marshal(mergeBaseEntry{Base: base, Found: found}); err == nil {
		_ = c.cache.Set(ctx, key, data, 0)
	}
	return base, found, nil
}

// ShortAbbrev passes through uncached: the shortest unique prefix depends
// on every object in the repository, so it can be invalidated by any fetch.
func (c *CachedQuerier) ShortAbbrev(ctx context.Context, commit string) (string, error) {
	return c.inner.ShortAbbrev(ctx, commit)
}

var _ Querier = (*CachedQuerier)(nil)
