package resolve

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"
)

// Empty is the negative-cache sentinel: resolution was attempted for the
// name and produced no result. Distinct from the key being absent.
const Empty = ""

// Cache is a durable mapping from raw entity name to resolved URL. The
// whole mapping is loaded once at startup and rewritten in full after every
// write. Keys are the exact upstream name strings; two spellings of the
// same company are distinct entries. Persistence is best-effort: a write
// failure is logged and swallowed, never surfaced to resolution.
//
// Concurrent processes sharing one cache file will lose updates to each
// other. Acceptable under the single-process sequential design.
type Cache struct {
	path    string
	entries map[string]string
}

// OpenCache loads the cache file at path, treating a missing or unreadable
// file as an empty cache.
func OpenCache(path string) *Cache {
	c := &Cache{path: path, entries: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("cache: read failed, starting empty",
				zap.String("path", path),
				zap.Error(err),
			)
		}
		return c
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		zap.L().Warn("cache: parse failed, starting empty",
			zap.String("path", path),
			zap.Error(err),
		)
		c.entries = make(map[string]string)
	}
	return c
}

// Get returns the cached value for name. The second return distinguishes
// "cached as no result" (Empty, true) from "never looked up" (_, false).
func (c *Cache) Get(name string) (string, bool) {
	v, ok := c.entries[name]
	return v, ok
}

// Put records the resolution outcome for name and rewrites the file.
func (c *Cache) Put(name, url string) {
	c.entries[name] = url
	c.flush()
}

// Delete removes a single key, making that name eligible for
// re-resolution. Returns whether the key existed.
func (c *Cache) Delete(name string) bool {
	if _, ok := c.entries[name]; !ok {
		return false
	}
	delete(c.entries, name)
	c.flush()
	return true
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Snapshot returns a copy of the current entries for display.
func (c *Cache) Snapshot() map[string]string {
	out := make(map[string]string, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

func (c *Cache) flush() {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		zap.L().Warn("cache: marshal failed", zap.Error(err))
		return
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		zap.L().Warn("cache: write failed",
			zap.String("path", c.path),
			zap.Error(err),
		)
	}
}
