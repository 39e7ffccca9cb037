package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/jonpalmisc/limoncello/internal/adapters/fs"     //nolint:depguard // Wired in adapter
	"github.com/jonpalmisc/limoncello/internal/adapters/logger" //nolint:depguard // Wired in adapter
	"github.com/jonpalmisc/limoncello/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the file watcher Graft node.
	NodeID graft.ID = "adapter.watcher"
	// ContentCacheNodeID is the unique identifier for the content cache Graft node.
	ContentCacheNodeID graft.ID = "adapter.watcher.content_cache"
)

func init() {
	graft.Register(graft.Node[ports.Watcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.WalkerNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.Watcher, error) {
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewWatcher(walker, log)
		},
	})

	graft.Register(graft.Node[*ContentCache]{
		ID:        ContentCacheNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.HasherNodeID},
		Run: func(ctx context.Context) (*ContentCache, error) {
			hasher, err := graft.Dep[*fs.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewContentCache(hasher), nil
		},
	})
}
