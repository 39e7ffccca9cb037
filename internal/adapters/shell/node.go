package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/jonpalmisc/limoncello/internal/adapters/logger" //nolint:depguard // Wired in adapter
	"github.com/jonpalmisc/limoncello/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the executor Graft node.
	NodeID graft.ID = "adapter.executor"
	// ConcreteNodeID exposes the executor itself so the app can configure it.
	ConcreteNodeID graft.ID = "adapter.executor.concrete"
)

func init() {
	graft.Register(graft.Node[*Executor]{
		ID:        ConcreteNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Executor, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewExecutor(log), nil
		},
	})

	graft.Register(graft.Node[ports.Executor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ConcreteNodeID},
		Run: func(ctx context.Context) (ports.Executor, error) {
			return graft.Dep[*Executor](ctx)
		},
	})
}
