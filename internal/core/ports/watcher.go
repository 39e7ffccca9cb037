package ports

import (
	"context"
	"iter"
)

// WatchOp represents the type of file system operation.
type WatchOp uint8

const (
	// OpCreate indicates a file or directory was created.
	OpCreate WatchOp = iota
	// OpWrite indicates a file was modified.
	OpWrite
	// OpRemove indicates a file or directory was removed.
	OpRemove
	// OpRename indicates a file or directory was renamed.
	OpRename
)

// WatchEvent is a single file system change.
type WatchEvent struct {
	Path string
	Op   WatchOp
}

// Watcher defines the interface for watching sample sources and configs.
//
//go:generate go run go.uber.org/mock/mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start begins watching dirs and everything below them. Subtrees rooted
	// at one of ignore are left out.
	Start(ctx context.Context, dirs, ignore []string) error
	// Stop releases watcher resources and ends the event stream.
	Stop() error
	// Events yields file system events until the watcher stops.
	Events() iter.Seq[WatchEvent]
}
