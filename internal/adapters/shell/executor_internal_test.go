package shell

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		sysEnv   []string
		expected []string
	}{
		{
			name:     "Allowed",
			sysEnv:   []string{"USER=test", "PATH=/bin", "HOME=/home/test"},
			expected: []string{"USER=test", "PATH=/bin", "HOME=/home/test"},
		},
		{
			name:     "Filtered",
			sysEnv:   []string{"USER=test", "SSH_AUTH_SOCK=/tmp/ssh", "SECRET=key"},
			expected: []string{"USER=test"},
		},
		{
			name:     "Toolchain",
			sysEnv:   []string{"SDKROOT=/sdk", "DEVELOPER_DIR=/xcode", "CC=gcc"},
			expected: []string{"SDKROOT=/sdk", "DEVELOPER_DIR=/xcode"},
		},
		{
			name:     "Malformed",
			sysEnv:   []string{"PATH", "TMPDIR=/tmp"},
			expected: []string{"TMPDIR=/tmp"},
		},
		{
			name:     "Empty",
			sysEnv:   nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveEnvironment(tt.sysEnv)

			sort.Strings(got)
			sort.Strings(tt.expected)

			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLogWriter_FlushesPartialLine(t *testing.T) {
	var lines []string
	w := &logWriter{logger: recordLogger{lines: &lines}, level: "info"}

	_, _ = w.Write([]byte("one\r\ntw"))
	_, _ = w.Write([]byte("o\nthree"))
	assert.Equal(t, []string{"one", "two"}, lines)

	_ = w.Close()
	assert.Equal(t, []string{"one", "two", "three"}, lines)
}

type recordLogger struct {
	lines *[]string
}

func (r recordLogger) Info(msg string) { *r.lines = append(*r.lines, msg) }
func (r recordLogger) Warn(msg string) { *r.lines = append(*r.lines, msg) }
func (r recordLogger) Error(err error) { *r.lines = append(*r.lines, err.Error()) }
