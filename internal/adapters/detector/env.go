// Package detector picks the renderer for a run.
package detector

import (
	"os"
	"strings"

	"github.com/jonpalmisc/limoncello/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode for a build.
type OutputMode int

const (
	// ModeAuto detects the mode from the environment.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive renderer.
	ModeTUI
	// ModeLinear forces line-oriented output.
	ModeLinear
)

// String returns the flag value for the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeLinear:
		return "linear"
	default:
		return "auto"
	}
}

// Environment is the part of the process environment detection looks at.
type Environment struct {
	IsTerminal func() bool
	Getenv     func(string) string
}

// ProcessEnvironment inspects the real stdout and environment variables.
func ProcessEnvironment() Environment {
	return Environment{
		IsTerminal: func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
		Getenv:     os.Getenv,
	}
}

// Detect returns ModeTUI for an interactive terminal outside CI and
// ModeLinear otherwise.
func (e Environment) Detect() OutputMode {
	ci := strings.ToLower(e.Getenv("CI"))
	if ci == "true" || ci == "1" {
		return ModeLinear
	}
	if e.Getenv("TERM") == "dumb" || !e.IsTerminal() {
		return ModeLinear
	}
	return ModeTUI
}

// DetectEnvironment runs Detect against the current process.
func DetectEnvironment() OutputMode {
	return ProcessEnvironment().Detect()
}

// ParseMode parses the --output-mode flag. "ci" is accepted as an alias for
// "linear".
func ParseMode(flag string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "", "auto":
		return ModeAuto, nil
	case "tui":
		return ModeTUI, nil
	case "linear", "ci":
		return ModeLinear, nil
	default:
		return ModeAuto, zerr.With(domain.ErrInvalidOutputMode, "mode", flag)
	}
}

// ResolveMode applies an explicit user choice over the detected mode.
func ResolveMode(detected, requested OutputMode) OutputMode {
	if requested == ModeAuto {
		return detected
	}
	return requested
}
