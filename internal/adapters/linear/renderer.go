// Package linear provides a synchronous, line-buffered renderer for CI environments.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/jonpalmisc/limoncello/internal/ui/output"
	"github.com/jonpalmisc/limoncello/internal/ui/style"
	"github.com/muesli/termenv"
)

// Renderer implements ports.Renderer for CI and piped output.
// Compiler output goes to stdout prefixed with the artifact name; progress
// and results go to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu       sync.Mutex
	started  map[string]bool // sample groups already announced
	inflight map[string]*invocationState
	planned  int
	finished int
}

type invocationState struct {
	name      string
	startTime time.Time
	buf       bytes.Buffer
}

// NewRenderer creates a new Renderer. Nil writers default to os.Stdout and
// os.Stderr.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout:   stdout,
		stderr:   stderr,
		output:   output.NewWithProfile(stderr, output.ColorProfileANSI),
		started:  make(map[string]bool),
		inflight: make(map[string]*invocationState),
	}
}

// Start is a no-op; the renderer is synchronous.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes output of invocations that never completed.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, st := range r.inflight {
		r.flushLocked(st)
	}
	return nil
}

// Wait is a no-op; the renderer is synchronous.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints how many artifacts the run will build.
func (r *Renderer) OnPlanEmit(names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.planned = len(names)
	_, _ = fmt.Fprintf(r.stderr, "Planning to build %d artifact(s)\n", len(names))
}

// OnTaskStart announces a sample the first time one of its invocations starts.
func (r *Renderer) OnTaskStart(spanID, group, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.inflight[spanID] = &invocationState{name: name, startTime: startTime}

	if group == "" || r.started[group] {
		return
	}
	r.started[group] = true
	_, _ = fmt.Fprintf(r.stderr, "Building sample %s...\n", group)
}

// OnTaskLog buffers compiler output and prints complete lines.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.inflight[spanID]
	if !ok {
		return
	}

	st.buf.Write(data)
	for {
		i := bytes.IndexByte(st.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		r.printLineLocked(st.name, st.buf.Next(i+1))
	}
}

// OnTaskComplete flushes pending output and prints the result.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.inflight[spanID]
	if !ok {
		return
	}
	delete(r.inflight, spanID)

	r.flushLocked(st)
	r.finished++

	duration := endTime.Sub(st.startTime).Round(time.Millisecond)
	progress := r.output.String(fmt.Sprintf("[%d/%d]", r.finished, r.planned)).Faint().String()

	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s %s failed after %v: %v\n",
			progress, symbol, st.name, duration, err)
		return
	}

	symbol := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s %s (%v)\n", progress, symbol, st.name, duration)
}

func (r *Renderer) flushLocked(st *invocationState) {
	if st.buf.Len() > 0 {
		r.printLineLocked(st.name, st.buf.Bytes())
		st.buf.Reset()
	}
}

func (r *Renderer) printLineLocked(name string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	if len(line) == 0 {
		return
	}

	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", name, line)
}
