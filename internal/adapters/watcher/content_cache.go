package watcher

import (
	"errors"
	"io/fs"
	"sync"
	"unique"
)

// FileHasher fingerprints file contents.
type FileHasher interface {
	ComputeFileHash(path string) (uint64, error)
}

// ContentCache remembers the last seen content hash of each file so that
// saves which do not change a file are not treated as changes.
type ContentCache struct {
	hasher FileHasher

	mu     sync.Mutex
	hashes map[unique.Handle[string]]uint64
}

// NewContentCache creates an empty cache.
func NewContentCache(hasher FileHasher) *ContentCache {
	return &ContentCache{
		hasher: hasher,
		hashes: make(map[unique.Handle[string]]uint64),
	}
}

// Prime records the current content of paths without reporting changes.
// Unreadable paths are skipped.
func (c *ContentCache) Prime(paths ...string) {
	for _, p := range paths {
		sum, err := c.hasher.ComputeFileHash(p)
		if err != nil {
			continue
		}
		c.mu.Lock()
		c.hashes[unique.Make(p)] = sum
		c.mu.Unlock()
	}
}

// Changed reports whether the file at path differs from the last time it was
// seen. A file seen for the first time counts as changed, as does a file that
// disappeared.
func (c *ContentCache) Changed(path string) bool {
	key := unique.Make(path)
	sum, err := c.hasher.ComputeFileHash(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	prev, known := c.hashes[key]
	if err != nil {
		delete(c.hashes, key)
		return known || !errors.Is(err, fs.ErrNotExist)
	}

	c.hashes[key] = sum
	return !known || prev != sum
}

// Filter returns the paths whose content changed, in input order.
func (c *ContentCache) Filter(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if c.Changed(p) {
			out = append(out, p)
		}
	}
	return out
}
