package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonpalmisc/limoncello/internal/core/domain"
)

// Renderer wraps the Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewRenderer creates a new TUI renderer.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start launches the program in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		final, err := r.program.Run()
		if err == nil {
			if m, ok := final.(*Model); ok && m.Aborted {
				err = domain.ErrInterrupted
			}
		}
		r.errCh <- err
	}()
	return nil
}

// Stop asks the program to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the program has terminated. It returns
// domain.ErrInterrupted when the user quit before the build finished.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnPlanEmit initializes the artifact list.
func (r *Renderer) OnPlanEmit(names []string) {
	r.program.Send(msgPlan{Names: names})
}

// OnTaskStart marks an artifact as running.
func (r *Renderer) OnTaskStart(spanID, group, name string, startTime time.Time) {
	r.program.Send(msgStart{
		SpanID:    spanID,
		Group:     group,
		Name:      name,
		StartTime: startTime,
	})
}

// OnTaskLog appends compiler output to an artifact's log.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.program.Send(msgLog{SpanID: spanID, Data: data})
}

// OnTaskComplete records the outcome of an artifact.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.program.Send(msgComplete{SpanID: spanID, EndTime: endTime, Err: err})
}
