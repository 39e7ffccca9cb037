package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for output rendering.
// It decouples telemetry collection from presentation logic,
// allowing the same event stream to drive either a TUI or linear CI logs.
//
//go:generate go run go.uber.org/mock/mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and flush output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlanEmit is called once the artifacts of the run are known.
	OnPlanEmit(names []string)

	// OnTaskStart is called when an invocation begins. group names the
	// sample the invocation belongs to.
	OnTaskStart(spanID, group, name string, startTime time.Time)

	// OnTaskLog is called when an invocation emits output.
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when an invocation finishes.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
