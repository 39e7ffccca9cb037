package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/jonpalmisc/limoncello/internal/core/ports"
)

// Graft node identifiers for the file system adapters.
const (
	WalkerNodeID   graft.ID = "adapter.fs.walker"
	HasherNodeID   graft.ID = "adapter.fs.hasher"
	VerifierNodeID graft.ID = "adapter.fs.verifier"
	OutputsNodeID  graft.ID = "adapter.fs.outputs"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[*Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Hasher, error) {
			return NewHasher(), nil
		},
	})

	graft.Register(graft.Node[ports.Verifier]{
		ID:        VerifierNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Verifier, error) {
			return NewVerifier(), nil
		},
	})

	graft.Register(graft.Node[ports.ArtifactDir]{
		ID:        OutputsNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ArtifactDir, error) {
			return NewOutputs(), nil
		},
	})
}
