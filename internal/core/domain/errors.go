package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidProgramKind is returned when a catalog entry has an unknown kind.
	ErrInvalidProgramKind = zerr.New("invalid program kind, expected 'executable' or 'library'")

	// ErrMissingSource is returned when a catalog entry has no source file.
	ErrMissingSource = zerr.New("sample has no source file")

	// ErrInvalidSource is returned when a source file yields an empty short name.
	ErrInvalidSource = zerr.New("sample source must not start with '.'")

	// ErrDuplicateSample is returned when two entries share source and config.
	ErrDuplicateSample = zerr.New("duplicate sample")

	// ErrAmbiguousShortName is returned when one short name maps to different sources or kinds.
	ErrAmbiguousShortName = zerr.New("short name is shared by different sources")

	// ErrInvalidFilter is returned when the sample filter is not a valid glob.
	ErrInvalidFilter = zerr.New("invalid sample filter")

	// ErrInvalidWorkerCount is returned when the worker count is not positive.
	ErrInvalidWorkerCount = zerr.New("worker count must be at least 1")

	// ErrMissingCompiler is returned when no compiler path is given.
	ErrMissingCompiler = zerr.New("compiler path is required")

	// ErrMissingPlugin is returned when no plugin path is given.
	ErrMissingPlugin = zerr.New("plugin path is required")

	// ErrConfigReadFailed is returned when the catalog file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read catalog file")

	// ErrConfigParseFailed is returned when the catalog file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse catalog file")

	// ErrUnsupportedVersion is returned when the catalog file version is unknown.
	ErrUnsupportedVersion = zerr.New("unsupported catalog version")

	// ErrOutputDirFailed is returned when the output directory cannot be created.
	ErrOutputDirFailed = zerr.New("failed to create output directory")

	// ErrCleanFailed is returned when the output directory cannot be removed.
	ErrCleanFailed = zerr.New("failed to remove output directory")

	// ErrCommandFailed is returned when the compiler exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrEmptyCommand is returned when an invocation has no arguments.
	ErrEmptyCommand = zerr.New("empty command")

	// ErrOutputMissing is recorded when the compiler produced no artifact.
	ErrOutputMissing = zerr.New("build artifact missing")

	// ErrBuildExecutionFailed is returned in strict mode when any invocation failed.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrInvalidOutputMode is returned when --output-mode is not auto, tui or linear.
	ErrInvalidOutputMode = zerr.New("invalid output mode, expected 'auto', 'tui' or 'linear'")

	// ErrInterrupted is returned when the user quits the interactive view mid-build.
	ErrInterrupted = zerr.New("build interrupted")

	// ErrWatchFailed is returned when the file watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to watch sample sources")
)
