// Package tui provides an interactive view of a running build.
package tui

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonpalmisc/limoncello/internal/ui/output"
)

const defaultTickInterval = 100 * time.Millisecond

// NewModel creates a model that renders to w (stderr when nil).
func NewModel(w io.Writer) Model {
	if w == nil {
		w = os.Stderr
	}
	lipgloss.SetColorProfile(output.New(w).Profile)

	spin := spinner.New(spinner.WithSpinner(spinner.Spinner{
		Frames: spinner.MiniDot.Frames,
		FPS:    defaultTickInterval,
	}))
	spin.Style = runningStyle

	return Model{
		SpanMap:    make(map[string]*ArtifactRow),
		FollowMode: true,
		spinner:    spin,
		help:       help.New(),
		keys:       defaultKeyMap(),
	}
}

// WithDisableTick stops the spinner from scheduling ticks. Used in tests
// that drive the model without a running program.
func (m Model) WithDisableTick() Model {
	m.disableTick = true
	return m
}
