package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/jonpalmisc/limoncello/cmd/buildsamples/commands"
	"github.com/jonpalmisc/limoncello/internal/app"
	"github.com/jonpalmisc/limoncello/internal/build"
	"github.com/jonpalmisc/limoncello/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockApp struct {
	buildFunc func(ctx context.Context, opts app.BuildOptions) error
	listFunc  func(ctx context.Context, opts app.ListOptions, w io.Writer) error
	cleanFunc func(ctx context.Context, opts app.CleanOptions) error
}

func (m *mockApp) Build(ctx context.Context, opts app.BuildOptions) error {
	if m.buildFunc != nil {
		return m.buildFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) List(ctx context.Context, opts app.ListOptions, w io.Writer) error {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts, w)
	}
	return nil
}

func (m *mockApp) Clean(ctx context.Context, opts app.CleanOptions) error {
	if m.cleanFunc != nil {
		return m.cleanFunc(ctx, opts)
	}
	return nil
}

func TestCommands_Build(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.BuildOptions
		called := false

		mock := &mockApp{
			buildFunc: func(_ context.Context, opts app.BuildOptions) error {
				captured = opts
				called = true
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{
			"build", "-c", "/usr/bin/clang", "-p", "libLimoncello.so",
			"-f", "Number*", "-j", "3", "--config", "ci/samples.yaml",
			"--strict", "--pty", "--verbose", "--json-logs", "--output-mode", "tui",
		})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, app.BuildOptions{
			CompilerPath: "/usr/bin/clang",
			PluginPath:   "libLimoncello.so",
			Filter:       "Number*",
			Workers:      3,
			ConfigPath:   "ci/samples.yaml",
			OutputMode:   "tui",
			Strict:       true,
			PTY:          true,
			Verbose:      true,
			JSONLogs:     true,
		}, captured)
	})

	t.Run("defaults", func(t *testing.T) {
		var captured app.BuildOptions
		mock := &mockApp{
			buildFunc: func(_ context.Context, opts app.BuildOptions) error {
				captured = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"build", "-c", "clang", "-p", "plugin.so"})
		require.NoError(t, cli.Execute(context.Background()))

		assert.Equal(t, domain.DefaultFilter, captured.Filter)
		assert.Equal(t, domain.DefaultWorkers, captured.Workers)
		assert.Equal(t, "auto", captured.OutputMode)
		assert.False(t, captured.Strict)
		assert.False(t, captured.Watch)
	})

	t.Run("ci forces linear output", func(t *testing.T) {
		var captured app.BuildOptions
		mock := &mockApp{
			buildFunc: func(_ context.Context, opts app.BuildOptions) error {
				captured = opts
				return nil
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"build", "-c", "clang", "-p", "plugin.so", "--ci", "--watch"})
		require.NoError(t, cli.Execute(context.Background()))

		assert.Equal(t, "linear", captured.OutputMode)
		assert.True(t, captured.Watch)
	})

	t.Run("requires compiler and plugin", func(t *testing.T) {
		mock := &mockApp{
			buildFunc: func(_ context.Context, _ app.BuildOptions) error {
				panic("should not be called")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"build", "-c", "clang"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), `required flag(s) "plugin" not set`)
	})

	t.Run("returns error on build failure", func(t *testing.T) {
		mock := &mockApp{
			buildFunc: func(_ context.Context, _ app.BuildOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"build", "-c", "clang", "-p", "plugin.so"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_List(t *testing.T) {
	var captured app.ListOptions
	mock := &mockApp{
		listFunc: func(_ context.Context, opts app.ListOptions, w io.Writer) error {
			captured = opts
			_, err := io.WriteString(w, "Hello/Default (executable)\n")
			return err
		},
	}

	cli := commands.New(mock)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"list", "-f", "Hello", "--commands", "--config", "samples.yaml"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, app.ListOptions{Filter: "Hello", Commands: true, ConfigPath: "samples.yaml"}, captured)
	assert.Equal(t, "Hello/Default (executable)\n", buf.String())
}

func TestCommands_Clean(t *testing.T) {
	called := false
	mock := &mockApp{
		cleanFunc: func(_ context.Context, opts app.CleanOptions) error {
			called = true
			assert.Empty(t, opts.ConfigPath)
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs([]string{"clean"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, called)
}

func TestCommands_RejectsArguments(t *testing.T) {
	cli := commands.New(&mockApp{})
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"clean", "extra"})

	require.Error(t, cli.Execute(context.Background()))
}

func TestCommands_Version(t *testing.T) {
	mock := &mockApp{}
	cli := commands.New(mock)

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t,
		"buildsamples version "+build.Version+" (commit: "+build.Commit+", date: "+build.Date+")\n",
		buf.String())
}

func TestCommands_VersionFlag(t *testing.T) {
	cli := commands.New(&mockApp{})

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"--version"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, buf.String(), "buildsamples version "+build.Version)
}
