// Package domain holds the core types of the sample build matrix.
package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// ProgramKind selects what the compiler is asked to produce for a sample.
type ProgramKind uint8

const (
	// Executable builds a regular program.
	Executable ProgramKind = iota
	// Library builds a shared library.
	Library
)

// String returns the lowercase name used in catalog files.
func (k ProgramKind) String() string {
	switch k {
	case Executable:
		return "executable"
	case Library:
		return "library"
	default:
		return "unknown"
	}
}

// ParseProgramKind parses the catalog representation of a ProgramKind.
// An empty string means Executable.
func ParseProgramKind(s string) (ProgramKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "executable", "exe":
		return Executable, nil
	case "library", "lib", "shared":
		return Library, nil
	default:
		return Executable, zerr.With(ErrInvalidProgramKind, "kind", s)
	}
}

// BuildEntry is one catalog record: a source program, its kind, and the
// transformation configuration it is paired with.
type BuildEntry struct {
	Kind ProgramKind
	// Source is relative to the layout's source root.
	Source string
	// Config names a file under the config root. Empty means the plugin's
	// built-in defaults.
	Config string
}

// ShortName is the part of Source before its first dot. Several entries may
// share a short name.
func (e BuildEntry) ShortName() string {
	name, _, _ := strings.Cut(e.Source, ".")
	return name
}

// ConfigTag is the suffix used for transform-enabled artifacts.
func (e BuildEntry) ConfigTag() string {
	if e.Config == "" {
		return BuiltinConfigTag
	}
	return e.Config
}

// String identifies the entry in logs.
func (e BuildEntry) String() string {
	if e.Config == "" {
		return e.ShortName()
	}
	return e.ShortName() + "/" + e.Config
}

// BuildContext carries the externally supplied tool paths for a run.
// It is shared read-only by every worker.
type BuildContext struct {
	CompilerPath string
	PluginPath   string
}

// BuildJob pairs an entry with the run's context. A worker consumes it once.
type BuildJob struct {
	Entry   BuildEntry
	Context BuildContext
}
