package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonpalmisc/limoncello/internal/adapters/detector"
	"github.com/jonpalmisc/limoncello/internal/app"
	"github.com/jonpalmisc/limoncello/internal/core/domain"
	"github.com/jonpalmisc/limoncello/internal/core/ports"
	"github.com/jonpalmisc/limoncello/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type harness struct {
	loader   *mocks.MockCatalogLoader
	executor *mocks.MockExecutor
	verifier *mocks.MockVerifier
	outputs  *mocks.MockArtifactDir
	watcher  *mocks.MockWatcher
	logger   *mocks.MockLogger
	changes  *passthroughChanges
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	app      *app.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	ctrl := gomock.NewController(t)
	h := &harness{
		loader:   mocks.NewMockCatalogLoader(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		verifier: mocks.NewMockVerifier(ctrl),
		outputs:  mocks.NewMockArtifactDir(ctrl),
		watcher:  mocks.NewMockWatcher(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		changes:  &passthroughChanges{},
		stdout:   new(bytes.Buffer),
		stderr:   new(bytes.Buffer),
	}
	h.app = app.New(h.loader, h.executor, h.verifier, h.outputs, h.watcher, h.changes, h.logger).
		WithOutput(h.stdout, h.stderr).
		WithEnvironment(detector.Environment{
			IsTerminal: func() bool { return false },
			Getenv:     func(string) string { return "" },
		})
	return h
}

// passthroughChanges treats every reported path as changed.
type passthroughChanges struct {
	mu     sync.Mutex
	primed []string
}

func (p *passthroughChanges) Prime(paths ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.primed = append(p.primed, paths...)
}

func (p *passthroughChanges) Filter(paths []string) []string {
	return paths
}

func catalog(root string, entries ...domain.BuildEntry) *domain.Catalog {
	return &domain.Catalog{Root: root, Layout: domain.DefaultLayout(), Entries: entries}
}

var (
	hello    = domain.BuildEntry{Kind: domain.Executable, Source: "Hello.c", Config: "Default"}
	sayHello = domain.BuildEntry{Kind: domain.Executable, Source: "SayHello.c", Config: "StringObfuscator"}
)

func validOptions() app.BuildOptions {
	return app.BuildOptions{
		CompilerPath: "clang",
		PluginPath:   "/opt/limoncello/libLimoncello.so",
		Workers:      2,
	}
}

func TestApp_Build(t *testing.T) {
	h := newHarness(t)
	root := t.TempDir()

	var mu sync.Mutex
	var names []string

	h.loader.EXPECT().Load(gomock.Any(), "").Return(catalog(root, hello, sayHello), nil)
	h.outputs.EXPECT().Prepare(root, domain.DefaultOutputRoot).Return(nil)
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv domain.Invocation, stdout, _ io.Writer) error {
			mu.Lock()
			names = append(names, inv.Name())
			mu.Unlock()
			_, _ = stdout.Write([]byte("compiled " + inv.Name() + "\n"))
			return nil
		}).Times(8)
	h.verifier.EXPECT().VerifyOutputs(root, gomock.Any()).Return(true, nil).Times(8)
	h.logger.EXPECT().Info(gomock.Cond(func(msg string) bool {
		return strings.HasPrefix(msg, "built 8 of 8 artifact(s) (run ")
	}))

	err := h.app.Build(context.Background(), validOptions())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"Hello.O0", "Hello.O0,Default", "Hello.O2", "Hello.O2,Default",
		"SayHello.O0", "SayHello.O0,StringObfuscator", "SayHello.O2", "SayHello.O2,StringObfuscator",
	}, names)
	assert.Contains(t, h.stderr.String(), "Planning to build 8 artifact(s)")
	assert.Contains(t, h.stdout.String(), "[Hello.O2,Default] compiled Hello.O2,Default")
}

func TestApp_Build_NestedSources(t *testing.T) {
	h := newHarness(t)
	root := t.TempDir()
	sha := domain.BuildEntry{Kind: domain.Executable, Source: "crypto/Sha.c", Config: "Default"}

	var mu sync.Mutex
	var outputs []string

	h.loader.EXPECT().Load(gomock.Any(), "").Return(catalog(root, hello, sha), nil)
	gomock.InOrder(
		h.outputs.EXPECT().Prepare(root, domain.DefaultOutputRoot).Return(nil),
		h.outputs.EXPECT().Prepare(root, filepath.Join(domain.DefaultOutputRoot, "crypto")).Return(nil),
	)
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv domain.Invocation, _, _ io.Writer) error {
			mu.Lock()
			outputs = append(outputs, inv.Output)
			mu.Unlock()
			return nil
		}).Times(8)
	h.verifier.EXPECT().VerifyOutputs(root, gomock.Any()).Return(true, nil).Times(8)
	h.logger.EXPECT().Info(gomock.Cond(func(msg string) bool {
		return strings.HasPrefix(msg, "built 8 of 8 artifact(s) (run ")
	}))

	require.NoError(t, h.app.Build(context.Background(), validOptions()))
	assert.Contains(t, outputs, filepath.Join(domain.DefaultOutputRoot, "crypto", "Sha.O2,Default"))
}

func TestApp_Build_FailuresAreReported(t *testing.T) {
	for _, strict := range []bool{false, true} {
		name := "lenient"
		if strict {
			name = "strict"
		}
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			root := t.TempDir()

			h.loader.EXPECT().Load(gomock.Any(), "").Return(catalog(root, hello), nil)
			h.outputs.EXPECT().Prepare(root, domain.DefaultOutputRoot).Return(nil)
			h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, inv domain.Invocation, _, _ io.Writer) error {
					if inv.Transform {
						return errors.New("plugin crashed")
					}
					return nil
				}).Times(4)
			h.verifier.EXPECT().VerifyOutputs(root, gomock.Any()).Return(true, nil).Times(2)
			h.logger.EXPECT().Error(gomock.Any()).Times(2)
			h.logger.EXPECT().Info(gomock.Cond(func(msg string) bool {
				return strings.HasPrefix(msg, "built 2 of 4 artifact(s), 2 failed")
			}))

			opts := validOptions()
			opts.Strict = strict
			err := h.app.Build(context.Background(), opts)

			if !strict {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
			assert.Contains(t, err.Error(), "2 of 4 invocation(s) failed")
		})
	}
}

func TestApp_Build_MissingArtifactIsAFailure(t *testing.T) {
	h := newHarness(t)
	root := t.TempDir()

	h.loader.EXPECT().Load(gomock.Any(), "").Return(catalog(root, hello), nil)
	h.outputs.EXPECT().Prepare(root, domain.DefaultOutputRoot).Return(nil)
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(4)
	h.verifier.EXPECT().VerifyOutputs(root, gomock.Any()).Return(false, nil).Times(4)
	h.logger.EXPECT().Error(gomock.Cond(func(err error) bool {
		return strings.Contains(err.Error(), domain.ErrOutputMissing.Error())
	})).Times(4)
	h.logger.EXPECT().Info(gomock.Any())

	opts := validOptions()
	opts.Strict = true
	err := h.app.Build(context.Background(), opts)
	assert.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
}

func TestApp_Build_ToolPaths(t *testing.T) {
	h := newHarness(t)
	root := t.TempDir()
	t.Chdir(root)

	var args []string
	h.loader.EXPECT().Load(gomock.Any(), "").Return(catalog(root, hello), nil)
	h.outputs.EXPECT().Prepare(root, domain.DefaultOutputRoot).Return(nil)
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv domain.Invocation, _, _ io.Writer) error {
			if inv.Transform && inv.Level == domain.O0 {
				args = inv.Args
			}
			return nil
		}).Times(4)
	h.verifier.EXPECT().VerifyOutputs(root, gomock.Any()).Return(true, nil).Times(4)
	h.logger.EXPECT().Info(gomock.Any())

	opts := validOptions()
	opts.Workers = 1
	opts.CompilerPath = "clang"
	opts.PluginPath = filepath.Join("build", "libLimoncello.so")
	require.NoError(t, h.app.Build(context.Background(), opts))

	// Resolve symlinks the way os.Getwd reports the temp directory.
	cwd, err := filepath.Abs(".")
	require.NoError(t, err)
	plugin := filepath.Join(cwd, "build", "libLimoncello.so")

	require.NotEmpty(t, args)
	assert.Equal(t, "clang", args[0], "bare compiler names are looked up on PATH")
	assert.Contains(t, args, "-fplugin="+plugin)
}

func TestApp_Build_NoMatchingSamples(t *testing.T) {
	h := newHarness(t)

	h.loader.EXPECT().Load(gomock.Any(), "").Return(catalog(t.TempDir(), hello), nil)
	h.logger.EXPECT().Warn(`no samples match "Nope*"`)

	opts := validOptions()
	opts.Filter = "Nope*"
	require.NoError(t, h.app.Build(context.Background(), opts))
}

func TestApp_Build_InvalidOptions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*app.BuildOptions)
		wantErr error
	}{
		{"missing compiler", func(o *app.BuildOptions) { o.CompilerPath = "" }, domain.ErrMissingCompiler},
		{"missing plugin", func(o *app.BuildOptions) { o.PluginPath = "" }, domain.ErrMissingPlugin},
		{"negative workers", func(o *app.BuildOptions) { o.Workers = -1 }, domain.ErrInvalidWorkerCount},
		{"malformed filter", func(o *app.BuildOptions) { o.Filter = "[" }, domain.ErrInvalidFilter},
		{"unknown output mode", func(o *app.BuildOptions) { o.OutputMode = "fancy" }, domain.ErrInvalidOutputMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			opts := validOptions()
			tt.mutate(&opts)

			err := h.app.Build(context.Background(), opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr.Error())
		})
	}
}

func TestApp_Build_LoaderError(t *testing.T) {
	h := newHarness(t)
	h.loader.EXPECT().Load(gomock.Any(), "samples.yaml").Return(nil, domain.ErrConfigParseFailed)

	opts := validOptions()
	opts.ConfigPath = "samples.yaml"
	err := h.app.Build(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load sample catalog")
	assert.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

func TestApp_Build_Cancelled(t *testing.T) {
	h := newHarness(t)
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.loader.EXPECT().Load(gomock.Any(), "").Return(catalog(root, hello), nil)
	h.outputs.EXPECT().Prepare(root, domain.DefaultOutputRoot).Return(nil)
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.Invocation, _, _ io.Writer) error {
			cancel()
			return nil
		})
	h.verifier.EXPECT().VerifyOutputs(root, gomock.Any()).Return(true, nil)
	h.logger.EXPECT().Info(gomock.Cond(func(msg string) bool {
		return strings.HasPrefix(msg, "built 1 of 1 artifact(s)")
	}))

	err := h.app.Build(ctx, validOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrInterrupted.Error())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestApp_Build_TUI(t *testing.T) {
	h := newHarness(t)
	h.app.WithDisableTick().WithTeaOptions(
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	)
	root := t.TempDir()

	h.loader.EXPECT().Load(gomock.Any(), "").Return(catalog(root, hello), nil)
	h.outputs.EXPECT().Prepare(root, domain.DefaultOutputRoot).Return(nil)
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(4)
	h.verifier.EXPECT().VerifyOutputs(root, gomock.Any()).Return(true, nil).Times(4)
	h.logger.EXPECT().Info(gomock.Any())

	opts := validOptions()
	opts.OutputMode = "tui"
	require.NoError(t, h.app.Build(context.Background(), opts))
	assert.Empty(t, h.stdout.String(), "the interactive view does not print compiler output")
}

func TestApp_Build_Watch(t *testing.T) {
	h := newHarness(t)
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var names []string
	const initial, rebuilt = 8, 4

	h.loader.EXPECT().Load(gomock.Any(), "").Return(catalog(root, hello, sayHello), nil)
	h.outputs.EXPECT().Prepare(root, domain.DefaultOutputRoot).Return(nil)
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv domain.Invocation, _, _ io.Writer) error {
			mu.Lock()
			defer mu.Unlock()
			names = append(names, inv.Name())
			if len(names) == initial+rebuilt {
				cancel()
			}
			return nil
		}).Times(initial + rebuilt)
	h.verifier.EXPECT().VerifyOutputs(root, gomock.Any()).Return(true, nil).MinTimes(initial)
	h.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	sources := filepath.Join(root, domain.DefaultSourceRoot)
	h.watcher.EXPECT().Start(gomock.Any(),
		[]string{sources, filepath.Join(root, domain.DefaultConfigRoot)},
		[]string{filepath.Join(root, domain.DefaultOutputRoot)},
	).Return(nil)
	h.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
		// A change to a file no sample uses is ignored.
		if !yield(ports.WatchEvent{Path: filepath.Join(sources, "Unrelated.c"), Op: ports.OpWrite}) {
			return
		}
		if !yield(ports.WatchEvent{Path: filepath.Join(sources, "Hello.c"), Op: ports.OpWrite}) {
			return
		}
		<-ctx.Done()
	}))
	h.watcher.EXPECT().Stop().Return(nil)

	opts := validOptions()
	opts.Watch = true
	require.NoError(t, h.app.Build(ctx, opts))

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"Hello.O0", "Hello.O0,Default", "Hello.O2", "Hello.O2,Default"}, names[initial:])
	assert.Contains(t, h.changes.primed, filepath.Join(root, "test/Samples/Hello.c"))
	assert.Contains(t, h.changes.primed, filepath.Join(root, "test/Configs/Default.yml"))
}

func TestApp_Clean(t *testing.T) {
	h := newHarness(t)
	root := t.TempDir()

	h.loader.EXPECT().Load(gomock.Any(), "").Return(catalog(root), nil)
	h.outputs.EXPECT().Clean(root, domain.DefaultOutputRoot).Return(true, nil)
	gomock.InOrder(
		h.logger.EXPECT().Info("removing test/Samples/Output..."),
		h.logger.EXPECT().Info("removed test/Samples/Output"),
	)

	require.NoError(t, h.app.Clean(context.Background(), app.CleanOptions{}))
}

func TestApp_Clean_NothingToRemove(t *testing.T) {
	h := newHarness(t)
	root := t.TempDir()

	h.loader.EXPECT().Load(gomock.Any(), "").Return(catalog(root), nil)
	h.outputs.EXPECT().Clean(root, domain.DefaultOutputRoot).Return(false, nil)
	h.logger.EXPECT().Info("removing test/Samples/Output...")
	h.logger.EXPECT().Info("test/Samples/Output does not exist")

	require.NoError(t, h.app.Clean(context.Background(), app.CleanOptions{}))
}

func TestApp_Clean_Error(t *testing.T) {
	h := newHarness(t)
	root := t.TempDir()

	h.loader.EXPECT().Load(gomock.Any(), "").Return(catalog(root), nil)
	h.outputs.EXPECT().Clean(root, domain.DefaultOutputRoot).Return(false, domain.ErrCleanFailed)
	h.logger.EXPECT().Info(gomock.Any())

	err := h.app.Clean(context.Background(), app.CleanOptions{})
	assert.ErrorIs(t, err, domain.ErrCleanFailed)
}
