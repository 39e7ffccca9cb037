// Package fs provides file system adapters for the build tree.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// Walker provides directory walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkDirs yields root and every directory below it, skipping VCS metadata
// and any directory whose path equals one of skip. Unreadable subtrees are
// silently left out.
func (w *Walker) WalkDirs(root string, skip []string) iter.Seq[string] {
	skipped := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		skipped[filepath.Clean(s)] = struct{}{}
	}

	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() {
				return nil
			}

			if path != root && shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			if _, ok := skipped[filepath.Clean(path)]; ok {
				return filepath.SkipDir
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func shouldSkipDir(name string) bool {
	switch name {
	case ".git", ".jj":
		return true
	}
	return false
}
