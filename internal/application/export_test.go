package application

// Test-only exports bridging unexported internals to the external
// application_test package.
var (
	NewSuggestionCache      = newSuggestionCache
	BuildSuggestionCacheKey = buildSuggestionCacheKey
)

// EntryCount reports the number of live entries in the cache.
func (c *suggestionCache) EntryCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
