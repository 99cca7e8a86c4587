package cache

// MergeBaseKey generates a cache key for a merge-base query result.
//
// The key is canonical in the pair: MergeBaseKey(a, b) == MergeBaseKey(b, a),
// because merge-base is symmetric and both orderings must hit the same entry.
// Commit ids are content-derived, so an entry never becomes stale.
func MergeBaseKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return hashKey("mergebase", a, b)
}
