package domain

import (
	"path/filepath"
	"time"
)

// Invocation is one fully constructed compiler command line.
type Invocation struct {
	Entry     BuildEntry
	Level     OptLevel
	Transform bool
	// Args starts with the compiler path.
	Args []string
	// Output is the artifact path passed with -o.
	Output string
	// Dir is the working directory of the compiler. Empty means the
	// current directory.
	Dir string
}

// Name is the artifact file name, e.g. "Hello.O0,Default".
func (i Invocation) Name() string {
	return filepath.Base(i.Output)
}

// ArtifactName derives the artifact file name for an entry at a level.
func ArtifactName(e BuildEntry, level OptLevel, transform bool) string {
	tag := level.String()
	if transform {
		tag += "," + e.ConfigTag()
	}
	return e.ShortName() + "." + tag
}

// InvocationResult records what happened to one invocation.
type InvocationResult struct {
	Invocation Invocation
	// Err is set when the compiler could not be started or exited nonzero.
	Err error
	// ExitCode is -1 when the process never produced one.
	ExitCode int
	// OutputMissing is set when the compiler returned but no artifact exists.
	OutputMissing bool
	Duration      time.Duration
}

// Failed reports whether the invocation did not produce its artifact cleanly.
func (r InvocationResult) Failed() bool {
	return r.Err != nil || r.OutputMissing
}

// Report aggregates the results of a run.
type Report struct {
	Results []InvocationResult
}

// Len returns the number of attempted invocations.
func (r *Report) Len() int {
	return len(r.Results)
}

// Failures returns the failed invocations in the order they were recorded.
func (r *Report) Failures() []InvocationResult {
	var out []InvocationResult
	for _, res := range r.Results {
		if res.Failed() {
			out = append(out, res)
		}
	}
	return out
}

// Succeeded returns the number of invocations that produced their artifact.
func (r *Report) Succeeded() int {
	return r.Len() - len(r.Failures())
}
