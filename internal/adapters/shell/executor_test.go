package shell_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonpalmisc/limoncello/internal/adapters/shell"
	"github.com/jonpalmisc/limoncello/internal/core/domain"
	"github.com/jonpalmisc/limoncello/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func shInvocation(dir, script string) domain.Invocation {
	return domain.Invocation{
		Entry:  domain.BuildEntry{Source: "Hello.c", Config: "Default"},
		Level:  domain.O0,
		Args:   []string{"sh", "-c", script},
		Output: "out/Hello.O0",
		Dir:    dir,
	}
}

func TestExecutor_Execute_CopiesOutput(t *testing.T) {
	executor := shell.NewExecutor(nil)

	var stdout, stderr bytes.Buffer
	err := executor.Execute(context.Background(), shInvocation(t.TempDir(), "echo line1; echo line2 >&2"), &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "line1\n", stdout.String())
	assert.Equal(t, "line2\n", stderr.String())
}

func TestExecutor_Execute_RunsInDir(t *testing.T) {
	executor := shell.NewExecutor(nil)
	tmpDir := t.TempDir()

	err := executor.Execute(context.Background(), shInvocation(tmpDir, "touch artifact"), io.Discard, io.Discard)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(tmpDir, "artifact"))
	require.NoError(t, err)
}

func TestExecutor_Execute_ArgumentsAreNotSplit(t *testing.T) {
	executor := shell.NewExecutor(nil)
	tmpDir := t.TempDir()

	inv := shInvocation(tmpDir, "")
	inv.Args = []string{"sh", "-c", `printf '%s|' "$@"`, "argv0", "-o", "out/Hello.O0,Default", "a b"}

	var stdout bytes.Buffer
	require.NoError(t, executor.Execute(context.Background(), inv, &stdout, io.Discard))
	assert.Equal(t, "-o|out/Hello.O0,Default|a b|", stdout.String())
}

func TestExecutor_Execute_CommandFailure(t *testing.T) {
	executor := shell.NewExecutor(nil)

	err := executor.Execute(context.Background(), shInvocation(t.TempDir(), "exit 42"), io.Discard, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command failed")

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 42, exitErr.ExitCode())
}

func TestExecutor_Execute_MissingCompiler(t *testing.T) {
	executor := shell.NewExecutor(nil)

	inv := shInvocation(t.TempDir(), "")
	inv.Args = []string{"nonexistent-compiler-xyz123", "-O0"}

	err := executor.Execute(context.Background(), inv, io.Discard, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command failed")
}

func TestExecutor_Execute_EmptyCommand(t *testing.T) {
	executor := shell.NewExecutor(nil)

	inv := shInvocation(t.TempDir(), "")
	inv.Args = nil

	err := executor.Execute(context.Background(), inv, io.Discard, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrEmptyCommand.Error())
}

func TestExecutor_Execute_Cancelled(t *testing.T) {
	executor := shell.NewExecutor(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := executor.Execute(ctx, shInvocation(t.TempDir(), "sleep 5"), io.Discard, io.Discard)
	require.Error(t, err)
}

func TestExecutor_Execute_FiltersEnvironment(t *testing.T) {
	t.Setenv("LIMONCELLO_SECRET", "hunter2")
	executor := shell.NewExecutor(nil)

	var stdout bytes.Buffer
	err := executor.Execute(context.Background(), shInvocation(t.TempDir(), `echo "[$LIMONCELLO_SECRET]"`), &stdout, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", stdout.String())
}

func TestExecutor_Execute_VerboseForwardsLines(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("compiled").Times(1)
	mockLogger.EXPECT().Warn("warning: unused variable").Times(1)
	mockLogger.EXPECT().Info("partial").Times(1)

	executor := shell.NewExecutor(mockLogger, shell.WithVerbose(true))

	script := "echo compiled; echo 'warning: unused variable' >&2; printf partial"
	var stdout bytes.Buffer
	err := executor.Execute(context.Background(), shInvocation(t.TempDir(), script), &stdout, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "compiled\npartial", stdout.String())
}

func TestExecutor_Execute_QuietByDefault(t *testing.T) {
	ctrl := gomock.NewController(t)

	// No expectations: any logger call fails the test.
	mockLogger := mocks.NewMockLogger(ctrl)
	executor := shell.NewExecutor(mockLogger)

	err := executor.Execute(context.Background(), shInvocation(t.TempDir(), "echo hi; echo warn >&2"), io.Discard, io.Discard)
	require.NoError(t, err)
}

func TestExecutor_Execute_PTY(t *testing.T) {
	executor := shell.NewExecutor(nil)
	executor.Configure(shell.WithPTY(true))

	// Command outputting ANSI red colour, which a pty must pass through.
	ansiRed := "\033[31m"
	msg := "Hello Red World"

	var stdout bytes.Buffer
	err := executor.Execute(context.Background(),
		shInvocation(t.TempDir(), "printf '"+ansiRed+msg+"'; echo to-stderr >&2"), &stdout, io.Discard)
	if err != nil && strings.Contains(err.Error(), "failed to start pty") {
		t.Skip("pty not available")
	}
	require.NoError(t, err)

	output := stdout.String()
	assert.Contains(t, output, ansiRed)
	assert.Contains(t, output, msg)
	assert.Contains(t, output, "to-stderr", "pty merges stderr into stdout")
}

func TestExecutor_Execute_PTYFailure(t *testing.T) {
	executor := shell.NewExecutor(nil, shell.WithPTY(true))

	err := executor.Execute(context.Background(), shInvocation(t.TempDir(), "exit 3"), io.Discard, io.Discard)
	require.Error(t, err)
	if strings.Contains(err.Error(), "failed to start pty") {
		t.Skip("pty not available")
	}

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.ExitCode())
}
