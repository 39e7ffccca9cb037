// Package app implements the application layer for buildsamples.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/jonpalmisc/limoncello/internal/adapters/detector"
	"github.com/jonpalmisc/limoncello/internal/adapters/linear"
	"github.com/jonpalmisc/limoncello/internal/adapters/shell"
	"github.com/jonpalmisc/limoncello/internal/adapters/telemetry"
	"github.com/jonpalmisc/limoncello/internal/adapters/tui"
	"github.com/jonpalmisc/limoncello/internal/core/domain"
	"github.com/jonpalmisc/limoncello/internal/core/ports"
	"github.com/jonpalmisc/limoncello/internal/engine/matrix"
	"github.com/jonpalmisc/limoncello/internal/engine/pool"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const tracerName = "buildsamples"

// ChangeFilter drops paths whose content did not change since they were
// last seen.
type ChangeFilter interface {
	Prime(paths ...string)
	Filter(paths []string) []string
}

// executorConfigurer is implemented by executors with per-run terminal
// settings.
type executorConfigurer interface {
	Configure(opts ...shell.Option)
}

// jsonLogger is implemented by loggers that can switch to JSON output.
type jsonLogger interface {
	SetJSON(enable bool)
}

// App represents the main application logic.
type App struct {
	loader      ports.CatalogLoader
	executor    ports.Executor
	verifier    ports.Verifier
	outputs     ports.ArtifactDir
	watcher     ports.Watcher
	changes     ChangeFilter
	logger      ports.Logger
	stdout      io.Writer
	stderr      io.Writer
	env         *detector.Environment
	teaOptions  []tea.ProgramOption
	disableTick bool
}

// New creates a new App instance.
func New(
	loader ports.CatalogLoader,
	executor ports.Executor,
	verifier ports.Verifier,
	outputs ports.ArtifactDir,
	watcher ports.Watcher,
	changes ChangeFilter,
	log ports.Logger,
) *App {
	return &App{
		loader:   loader,
		executor: executor,
		verifier: verifier,
		outputs:  outputs,
		watcher:  watcher,
		changes:  changes,
		logger:   log,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithDisableTick disables the TUI spinner tick loop.
func (a *App) WithDisableTick() *App {
	a.disableTick = true
	return a
}

// WithOutput redirects compiler output and progress reporting.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithEnvironment replaces the process environment used to pick the output mode.
func (a *App) WithEnvironment(env detector.Environment) *App {
	a.env = &env
	return a
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	CompilerPath string
	PluginPath   string
	// Filter is a glob matched against sample short names.
	Filter string
	// Workers is the pool size. Zero selects domain.DefaultWorkers.
	Workers int
	// ConfigPath names a catalog file. Empty means discover samples.yaml.
	ConfigPath string
	OutputMode string
	// Strict makes any failed invocation fail the command.
	Strict   bool
	PTY      bool
	Verbose  bool
	JSONLogs bool
	// Watch keeps running and rebuilds samples whose files change.
	Watch bool
}

// session is everything resolved before the pool runs.
type session struct {
	catalog *domain.Catalog
	entries []domain.BuildEntry
	bctx    domain.BuildContext
	workers int
	mode    detector.OutputMode
}

// Build compiles every selected sample with and without the plugin.
//
// Individual compiler failures are reported but do not make Build fail
// unless opts.Strict is set.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	if l, ok := a.logger.(jsonLogger); ok && opts.JSONLogs {
		l.SetJSON(true)
	}
	if e, ok := a.executor.(executorConfigurer); ok {
		e.Configure(shell.WithPTY(opts.PTY), shell.WithVerbose(opts.Verbose))
	}

	s, err := a.prepare(opts)
	if err != nil {
		return err
	}

	if len(s.entries) == 0 {
		a.logger.Warn(fmt.Sprintf("no samples match %q", filterOrDefault(opts.Filter)))
		return nil
	}

	for _, dir := range outputDirs(s.catalog.Layout, s.entries) {
		if err := a.outputs.Prepare(s.catalog.Root, dir); err != nil {
			return err
		}
	}

	if opts.Watch {
		return a.watch(ctx, s, opts.Strict)
	}

	report, err := a.run(ctx, s.mode, s.plan(s.entries))
	if report != nil {
		a.summarize(report)
	}
	if err != nil {
		return interrupted(err)
	}

	return a.verdict(report, opts.Strict)
}

// prepare loads the catalog and validates the options.
func (a *App) prepare(opts BuildOptions) (*session, error) {
	if opts.CompilerPath == "" {
		return nil, domain.ErrMissingCompiler
	}
	if opts.PluginPath == "" {
		return nil, domain.ErrMissingPlugin
	}

	workers := opts.Workers
	if workers == 0 {
		workers = domain.DefaultWorkers
	}
	if workers < 1 {
		return nil, zerr.With(domain.ErrInvalidWorkerCount, "workers", workers)
	}

	if err := matrix.ValidatePattern(filterOrDefault(opts.Filter)); err != nil {
		return nil, err
	}

	requested, err := detector.ParseMode(opts.OutputMode)
	if err != nil {
		return nil, err
	}

	catalog, err := a.loadCatalog(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	mode := detector.ResolveMode(a.detect(), requested)
	if opts.Watch {
		// Rebuilds are reported one after another; the interactive view
		// owns the terminal and would be torn down after every run.
		mode = detector.ModeLinear
	}

	return &session{
		catalog: catalog,
		entries: matrix.Select(catalog.Entries, opts.Filter),
		bctx: domain.BuildContext{
			CompilerPath: resolveTool(opts.CompilerPath),
			PluginPath:   resolveTool(opts.PluginPath),
		},
		workers: workers,
		mode:    mode,
	}, nil
}

func (s *session) plan(entries []domain.BuildEntry) pool.Plan {
	return pool.Plan{
		Root:    s.catalog.Root,
		Layout:  s.catalog.Layout,
		Jobs:    matrix.Jobs(entries, s.bctx),
		Workers: s.workers,
	}
}

func (a *App) loadCatalog(configPath string) (*domain.Catalog, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get working directory")
	}
	catalog, err := a.loader.Load(cwd, configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load sample catalog")
	}
	return catalog, nil
}

func (a *App) detect() detector.OutputMode {
	if a.env != nil {
		return a.env.Detect()
	}
	return detector.DetectEnvironment()
}

// run drives one pool run with a fresh renderer and tracer.
func (a *App) run(ctx context.Context, mode detector.OutputMode, plan pool.Plan) (*domain.Report, error) {
	var renderer ports.Renderer
	if mode == detector.ModeTUI {
		model := tui.NewModel(a.stderr)
		if a.disableTick {
			model = model.WithDisableTick()
		}
		optsTea := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(a.stderr)}, a.teaOptions...)
		renderer = tui.NewRenderer(&model, optsTea...)
	} else {
		renderer = linear.NewRenderer(a.stdout, a.stderr)
	}

	tp := setupOTel(telemetry.NewBridge(renderer))
	defer func() {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}()

	tracer := telemetry.NewOTelTracer(tracerName).WithRenderer(renderer)
	defer func() {
		_ = tracer.Shutdown(ctx)
	}()

	workers := pool.NewPool(a.executor, a.verifier, tracer)

	var report *domain.Report
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = zerr.With(zerr.New("worker pool panicked"), "panic", fmt.Sprint(r))
			}
			_ = renderer.Stop()
		}()

		report, err = workers.Run(gctx, plan)
		return err
	})

	return report, g.Wait()
}

func (a *App) summarize(report *domain.Report) {
	runID := uuid.NewString()

	for _, res := range report.Failures() {
		a.logger.Error(failure(res))
	}

	failed := len(report.Failures())
	msg := fmt.Sprintf("built %d of %d artifact(s)", report.Succeeded(), report.Len())
	if failed > 0 {
		msg += fmt.Sprintf(", %d failed", failed)
	}
	a.logger.Info(msg + " (run " + runID + ")")
}

func (a *App) verdict(report *domain.Report, strict bool) error {
	failed := len(report.Failures())
	if !strict || failed == 0 {
		return nil
	}
	return errors.Join(domain.ErrBuildExecutionFailed, fmt.Errorf("%d of %d invocation(s) failed", failed, report.Len()))
}

func failure(res domain.InvocationResult) error {
	inv := res.Invocation
	if res.Err != nil {
		return zerr.With(res.Err, "sample", inv.Entry.String())
	}
	err := zerr.With(domain.ErrOutputMissing, "artifact", inv.Name())
	return zerr.With(err, "path", inv.Output)
}

// interrupted maps a cancelled run to ErrInterrupted.
func interrupted(err error) error {
	if errors.Is(err, context.Canceled) {
		return zerr.Wrap(err, domain.ErrInterrupted.Error())
	}
	return err
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	ConfigPath string
}

// Clean removes the artifact directory.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	catalog, err := a.loadCatalog(opts.ConfigPath)
	if err != nil {
		return err
	}

	dir := catalog.Layout.OutputRoot
	a.logger.Info(fmt.Sprintf("removing %s...", dir))
	removed, err := a.outputs.Clean(catalog.Root, dir)
	if err != nil {
		return err
	}
	if !removed {
		a.logger.Info(fmt.Sprintf("%s does not exist", dir))
		return nil
	}
	a.logger.Info(fmt.Sprintf("removed %s", dir))
	return nil
}

// setupOTel installs a global tracer provider that forwards spans to bridge.
func setupOTel(bridge *telemetry.Bridge) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
	return tp
}

// resolveTool makes a tool path absolute so it survives the compiler's
// working directory. Bare names are left for PATH lookup.
func resolveTool(path string) string {
	if !strings.ContainsRune(path, filepath.Separator) {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// outputDirs lists the output root followed by the subdirectories that
// samples kept below the source root write their artifacts to.
func outputDirs(layout domain.Layout, entries []domain.BuildEntry) []string {
	dirs := []string{layout.OutputRoot}
	seen := map[string]bool{}
	for _, e := range entries {
		sub := filepath.Dir(filepath.FromSlash(e.ShortName()))
		if sub == "." || seen[sub] {
			continue
		}
		seen[sub] = true
		dirs = append(dirs, filepath.Join(layout.OutputRoot, sub))
	}
	return dirs
}

func filterOrDefault(filter string) string {
	if filter == "" {
		return domain.DefaultFilter
	}
	return filter
}
