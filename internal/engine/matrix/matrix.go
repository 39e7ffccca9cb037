// Package matrix expands catalog entries into compiler invocations.
package matrix

import (
	"github.com/jonpalmisc/limoncello/internal/core/domain"
)

// Builder constructs invocations against a fixed layout.
type Builder struct {
	layout domain.Layout
}

// NewBuilder creates a Builder for the given layout.
// Empty layout fields fall back to the defaults.
func NewBuilder(layout domain.Layout) *Builder {
	return &Builder{layout: layout.WithDefaults()}
}

// Layout returns the layout the builder resolves paths against.
func (b *Builder) Layout() domain.Layout {
	return b.layout
}

// BuildInvocation constructs an invocation using the default layout.
func BuildInvocation(
	entry domain.BuildEntry,
	bctx domain.BuildContext,
	level domain.OptLevel,
	transform bool,
) domain.Invocation {
	return NewBuilder(domain.DefaultLayout()).Invocation(entry, bctx, level, transform)
}

// Invocation constructs the compiler command line for one matrix cell.
//
// The argument order is fixed: compiler, -shared for libraries, the plugin
// flags when transforming, the optimization flag, -o <output>, and the source.
// Paths are used verbatim; nothing is checked for existence.
func (b *Builder) Invocation(
	entry domain.BuildEntry,
	bctx domain.BuildContext,
	level domain.OptLevel,
	transform bool,
) domain.Invocation {
	output := b.layout.OutputPath(domain.ArtifactName(entry, level, transform))

	args := make([]string, 0, 11)
	args = append(args, bctx.CompilerPath)

	if entry.Kind == domain.Library {
		args = append(args, "-shared")
	}

	if transform {
		args = append(args,
			"-fplugin="+bctx.PluginPath,
			"-fpass-plugin="+bctx.PluginPath,
		)
		if entry.Config != "" {
			args = append(args,
				"-mllvm",
				"-"+b.layout.ConfigOption+"="+b.layout.ConfigPath(entry.Config),
			)
		}
	}

	args = append(args,
		level.Flag(),
		"-o", output,
		b.layout.SourcePath(entry.Source),
	)

	return domain.Invocation{
		Entry:     entry,
		Level:     level,
		Transform: transform,
		Args:      args,
		Output:    output,
	}
}

// Expand returns the four invocations of a job in the order a worker runs
// them: each level untransformed, then transformed.
func (b *Builder) Expand(job domain.BuildJob) []domain.Invocation {
	levels := domain.OptLevels()
	out := make([]domain.Invocation, 0, 2*len(levels))
	for _, level := range levels {
		out = append(out,
			b.Invocation(job.Entry, job.Context, level, false),
			b.Invocation(job.Entry, job.Context, level, true),
		)
	}
	return out
}

// Plan expands every job, preserving job order.
func (b *Builder) Plan(jobs []domain.BuildJob) []domain.Invocation {
	out := make([]domain.Invocation, 0, 4*len(jobs))
	for _, job := range jobs {
		out = append(out, b.Expand(job)...)
	}
	return out
}
