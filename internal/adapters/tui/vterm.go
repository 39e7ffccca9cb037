package tui

import (
	"bytes"
	"sync"

	"github.com/vito/midterm"
)

// Vterm holds the compiler output of one artifact. Output is replayed through
// a virtual terminal so colored diagnostics and carriage returns render the
// way they would in a real one.
type Vterm struct {
	mu      sync.Mutex
	vt      *midterm.Terminal
	offset  int
	height  int
	viewBuf bytes.Buffer
}

// NewVterm creates an empty Vterm.
func NewVterm() *Vterm {
	return &Vterm{
		vt:     midterm.NewAutoResizingTerminal(),
		height: 1,
	}
}

// Write feeds output to the terminal, following the tail if the view was
// already at the bottom.
func (v *Vterm) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	follow := v.offset >= v.maxOffset()
	n, err := v.vt.Write(p)
	if follow {
		v.offset = v.maxOffset()
	}
	return n, err
}

// Resize sets the visible area.
func (v *Vterm) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	follow := v.offset >= v.maxOffset()
	v.height = max(height, 1)
	v.vt.ResizeX(max(width, 1))

	if follow {
		v.offset = v.maxOffset()
	}
	v.clamp()
}

// Lines returns the number of lines written so far.
func (v *Vterm) Lines() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vt.UsedHeight()
}

// Offset returns the first visible line.
func (v *Vterm) Offset() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.offset
}

// Scroll moves the view by delta lines.
func (v *Vterm) Scroll(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset += delta
	v.clamp()
}

// Page moves the view by whole screens.
func (v *Vterm) Page(pages int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset += pages * v.height
	v.clamp()
}

// Top jumps to the first line.
func (v *Vterm) Top() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset = 0
}

// Bottom jumps to the last screen of output.
func (v *Vterm) Bottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset = v.maxOffset()
}

// View renders the visible lines.
func (v *Vterm) View() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.clamp()
	v.viewBuf.Reset()

	used := v.vt.UsedHeight()
	for i := range v.height {
		row := v.offset + i
		if row >= used {
			break
		}
		if i > 0 {
			_ = v.viewBuf.WriteByte('\n')
		}
		_ = v.vt.RenderLine(&v.viewBuf, row)
	}

	return v.viewBuf.String()
}

func (v *Vterm) clamp() {
	if v.offset > v.maxOffset() {
		v.offset = v.maxOffset()
	}
	if v.offset < 0 {
		v.offset = 0
	}
}

func (v *Vterm) maxOffset() int {
	return max(v.vt.UsedHeight()-v.height, 0)
}
