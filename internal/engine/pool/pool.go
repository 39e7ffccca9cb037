// Package pool runs build jobs on a fixed number of concurrent workers.
package pool

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/jonpalmisc/limoncello/internal/core/domain"
	"github.com/jonpalmisc/limoncello/internal/core/ports"
	"github.com/jonpalmisc/limoncello/internal/engine/matrix"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// invocationsPerJob is the size of one job's matrix: every level, with and
// without the transformation.
var invocationsPerJob = 2 * len(domain.OptLevels())

// Pool executes build jobs with bounded parallelism.
type Pool struct {
	executor ports.Executor
	verifier ports.Verifier
	tracer   ports.Tracer
}

// NewPool creates a new Pool with the given dependencies.
func NewPool(executor ports.Executor, verifier ports.Verifier, tracer ports.Tracer) *Pool {
	return &Pool{
		executor: executor,
		verifier: verifier,
		tracer:   tracer,
	}
}

// Plan describes one run of the pool.
type Plan struct {
	// Root is the directory the compiler runs in and artifacts are checked from.
	Root    string
	Layout  domain.Layout
	Jobs    []domain.BuildJob
	Workers int
}

type queuedJob struct {
	index int
	job   domain.BuildJob
}

type slot struct {
	result    domain.InvocationResult
	attempted bool
}

// Run builds every job and blocks until all of them were attempted.
//
// Each worker takes one job at a time and runs its invocations in order.
// A failing compiler never stops the pool; failures are only recorded in the
// returned report, which lists results in plan order. Run returns early only
// when ctx is cancelled, in which case the partial report is returned along
// with the context error. A cancellation that arrives after the last
// invocation was attempted is not an error.
func (p *Pool) Run(ctx context.Context, plan Plan) (*domain.Report, error) {
	if len(plan.Jobs) == 0 {
		return &domain.Report{}, nil
	}
	if plan.Workers < 1 {
		return nil, zerr.With(domain.ErrInvalidWorkerCount, "workers", plan.Workers)
	}

	builder := matrix.NewBuilder(plan.Layout)

	planned := builder.Plan(plan.Jobs)
	names := make([]string, len(planned))
	for i, inv := range planned {
		names[i] = inv.Name()
	}
	p.tracer.EmitPlan(ctx, names)

	slots := make([]slot, len(planned))
	queue := make(chan queuedJob)

	var g errgroup.Group

	g.Go(func() error {
		defer close(queue)
		for i, job := range plan.Jobs {
			select {
			case queue <- queuedJob{index: i, job: job}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	workers := min(plan.Workers, len(plan.Jobs))
	for range workers {
		g.Go(func() error {
			for q := range queue {
				p.buildJob(ctx, builder, plan.Root, q, slots)
			}
			return nil
		})
	}

	err := g.Wait()

	report := &domain.Report{Results: make([]domain.InvocationResult, 0, len(slots))}
	for _, s := range slots {
		if s.attempted {
			report.Results = append(report.Results, s.result)
		}
	}

	if err == nil && len(report.Results) < len(slots) {
		err = ctx.Err()
	}
	return report, err
}

// buildJob runs the four invocations of one job. Each writes only to its own
// slots, so no locking is needed.
func (p *Pool) buildJob(
	ctx context.Context,
	builder *matrix.Builder,
	root string,
	q queuedJob,
	slots []slot,
) {
	for k, inv := range builder.Expand(q.job) {
		if ctx.Err() != nil {
			return
		}
		inv.Dir = root
		slots[q.index*invocationsPerJob+k] = slot{
			result:    p.invoke(ctx, root, inv),
			attempted: true,
		}
	}
}

func (p *Pool) invoke(ctx context.Context, root string, inv domain.Invocation) domain.InvocationResult {
	ctx, span := p.tracer.Start(ctx, inv.Name(), ports.WithGroup(inv.Entry.String()))
	defer span.End()

	span.SetAttribute("sample.source", inv.Entry.Source)
	span.SetAttribute("sample.kind", inv.Entry.Kind.String())
	span.SetAttribute("sample.level", inv.Level.String())
	span.SetAttribute("sample.transform", inv.Transform)
	span.SetAttribute("sample.args", inv.Args)

	res := domain.InvocationResult{Invocation: inv}
	start := time.Now()

	if err := p.executor.Execute(ctx, inv, span, span); err != nil {
		res.Err = err
		res.ExitCode = exitCode(err)
		span.RecordError(err)
	} else {
		ok, verr := p.verifier.VerifyOutputs(root, []string{inv.Output})
		if verr != nil || !ok {
			res.OutputMissing = true
			missing := zerr.With(domain.ErrOutputMissing, "path", inv.Output)
			span.RecordError(errors.Join(missing, verr))
		}
	}

	res.Duration = time.Since(start)
	span.SetAttribute("sample.exit_code", res.ExitCode)
	return res
}

// exitCode extracts the process exit status from an executor error.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
