package tui_test

import (
	"strings"
	"testing"

	"github.com/jonpalmisc/limoncello/internal/adapters/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVterm_FollowsTail(t *testing.T) {
	v := tui.NewVterm()
	v.Resize(40, 3)

	for _, line := range []string{"one", "two", "three", "four", "five"} {
		_, err := v.Write([]byte(line + "\n"))
		require.NoError(t, err)
	}

	view := v.View()
	assert.NotContains(t, view, "one")
	assert.Contains(t, view, "five")
	assert.LessOrEqual(t, len(strings.Split(view, "\n")), 3)
}

func TestVterm_ScrollStopsFollowing(t *testing.T) {
	v := tui.NewVterm()
	v.Resize(40, 2)
	for range 10 {
		_, _ = v.Write([]byte("x\n"))
	}

	v.Top()
	assert.Equal(t, 0, v.Offset())

	_, _ = v.Write([]byte("more\n"))
	assert.Equal(t, 0, v.Offset(), "a scrolled-up view stays put")

	v.Bottom()
	_, _ = v.Write([]byte("tail\n"))
	assert.Contains(t, v.View(), "tail")
}

func TestVterm_ScrollIsClamped(t *testing.T) {
	v := tui.NewVterm()
	v.Resize(40, 4)
	_, _ = v.Write([]byte("a\nb\n"))

	v.Scroll(-10)
	assert.Equal(t, 0, v.Offset())

	v.Scroll(100)
	v.Page(5)
	assert.LessOrEqual(t, v.Offset(), v.Lines())
	assert.GreaterOrEqual(t, v.Offset(), 0)
}

func TestVterm_CarriageReturnOverwrites(t *testing.T) {
	v := tui.NewVterm()
	v.Resize(40, 4)
	_, _ = v.Write([]byte("progress 10%\rprogress 99%\n"))

	assert.Contains(t, v.View(), "progress 99%")
	assert.NotContains(t, v.View(), "10%")
}
