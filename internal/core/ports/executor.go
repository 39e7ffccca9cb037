// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"github.com/jonpalmisc/limoncello/internal/core/domain"
)

// Executor defines the interface for running compiler invocations.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the invocation and blocks until the process exits.
	//
	// Process output is copied to stdout and stderr. A nonzero exit status is
	// returned as an error carrying an "exit_code" field.
	Execute(ctx context.Context, inv domain.Invocation, stdout, stderr io.Writer) error
}
