// Package shell runs compiler invocations as child processes.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/creack/pty"
	"github.com/jonpalmisc/limoncello/internal/core/domain"
	"github.com/jonpalmisc/limoncello/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec and, optionally, a pty.
type Executor struct {
	logger  ports.Logger
	usePTY  bool
	verbose bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithPTY runs the compiler attached to a pseudo-terminal so it keeps its
// coloured diagnostics. Stdout and stderr are merged in this mode.
func WithPTY(enabled bool) Option {
	return func(e *Executor) {
		e.usePTY = enabled
	}
}

// WithVerbose forwards every line of compiler output to the logger.
func WithVerbose(enabled bool) Option {
	return func(e *Executor) {
		e.verbose = enabled
	}
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger, opts ...Option) *Executor {
	e := &Executor{logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Configure applies options to an already constructed executor. It must be
// called before the first Execute.
func (e *Executor) Configure(opts ...Option) {
	for _, opt := range opts {
		opt(e)
	}
}

// Execute runs the invocation and waits for it to complete.
func (e *Executor) Execute(ctx context.Context, inv domain.Invocation, stdout, stderr io.Writer) error {
	if len(inv.Args) == 0 {
		return zerr.With(domain.ErrEmptyCommand, "sample", inv.Entry.String())
	}

	var stdoutLog, stderrLog *logWriter
	if e.verbose && e.logger != nil {
		stdoutLog = &logWriter{logger: e.logger, level: "info"}
		stderrLog = &logWriter{logger: e.logger, level: "warn"}
		stdout = io.MultiWriter(stdoutLog, stdout)
		stderr = io.MultiWriter(stderrLog, stderr)
		defer func() {
			_ = stdoutLog.Close()
			_ = stderrLog.Close()
		}()
	}

	cmd := exec.CommandContext(ctx, inv.Args[0], inv.Args[1:]...) //nolint:gosec // compiler path is user provided
	cmd.Dir = inv.Dir
	cmd.Env = resolveEnvironment(os.Environ())

	var err error
	if e.usePTY {
		err = runPTY(cmd, stdout)
	} else {
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		err = cmd.Run()
	}

	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		err = zerr.With(zerr.Wrap(err, domain.ErrCommandFailed.Error()), "exit_code", exitCode)
		return zerr.With(err, "artifact", inv.Name())
	}

	return nil
}

// runPTY starts cmd on a pseudo-terminal, copies its output to w and waits
// for both the process and the copy loop.
func runPTY(cmd *exec.Cmd, w io.Writer) error {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return zerr.Wrap(err, "failed to start pty")
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		// Reading a pty whose child exited returns EIO on Linux; that is the
		// normal end of stream.
		_, _ = io.Copy(w, ptmx)
	}()

	err = cmd.Wait()
	<-ioDone
	_ = ptmx.Close()
	return err
}

type logWriter struct {
	logger ports.Logger
	level  string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	// PTYs may introduce \r.
	msg := strings.TrimSuffix(string(line), "\r")

	if w.level == "info" {
		w.logger.Info(msg)
	} else {
		w.logger.Warn(msg)
	}
}

// allowListedEnvVars are the system environment variables the compiler
// inherits. Everything else is dropped so runs do not depend on the shell
// they were started from.
var allowListedEnvVars = map[string]struct{}{
	"HOME":          {},
	"TERM":          {},
	"USER":          {},
	"PATH":          {},
	"TMPDIR":        {},
	"LANG":          {},
	"LC_ALL":        {},
	"SDKROOT":       {},
	"DEVELOPER_DIR": {},
}

func resolveEnvironment(sysEnv []string) []string {
	result := make([]string, 0, len(allowListedEnvVars))
	for _, entry := range sysEnv {
		k, _, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			result = append(result, entry)
		}
	}
	return result
}
