package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	listWidthRatio   = 0.35
	logPaneChrome    = 3 // border, padding, margin
	rowChrome        = 6 // cursor, icon, margin
	footerHeight     = 1
	listHeaderHeight = 2
)

// ArtifactStatus is the state of one planned artifact.
type ArtifactStatus int

const (
	// StatusPending means the invocation has not started.
	StatusPending ArtifactStatus = iota
	// StatusRunning means the compiler is running.
	StatusRunning
	// StatusDone means the artifact was produced.
	StatusDone
	// StatusFailed means the compiler failed or produced nothing.
	StatusFailed
)

// ArtifactRow is one planned invocation. Untransformed artifacts shared by
// several samples appear once per sample.
type ArtifactRow struct {
	Name   string
	Group  string
	Status ArtifactStatus
	Err    error
	Term   *Vterm
}

// Model is the Bubble Tea model of a build.
type Model struct {
	Rows    []*ArtifactRow
	SpanMap map[string]*ArtifactRow

	SelectedIdx int
	ListOffset  int
	ListHeight  int
	ListWidth   int
	LogWidth    int
	LogHeight   int
	FollowMode  bool

	// Aborted is set when the user quit before the build finished.
	Aborted bool

	done    int
	failed  int
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	disableTick bool
}

// Init starts the spinner.
func (m *Model) Init() tea.Cmd {
	if m.disableTick {
		return nil
	}
	return m.spinner.Tick
}

// Finished reports whether every planned artifact was attempted.
func (m *Model) Finished() bool {
	return len(m.Rows) > 0 && m.done+m.failed == len(m.Rows)
}

// Update handles incoming messages.
//
//nolint:cyclop // message dispatch
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case spinner.TickMsg:
		if m.disableTick {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case msgPlan:
		m.Rows = make([]*ArtifactRow, len(msg.Names))
		m.SpanMap = make(map[string]*ArtifactRow)
		m.SelectedIdx, m.ListOffset, m.done, m.failed = 0, 0, 0, 0
		for i, name := range msg.Names {
			m.Rows[i] = &ArtifactRow{Name: name, Term: m.newTerm()}
		}

	case msgStart:
		idx := m.claimRow(msg.Name)
		if idx < 0 {
			return m, nil
		}
		row := m.Rows[idx]
		row.Status = StatusRunning
		row.Group = msg.Group
		m.SpanMap[msg.SpanID] = row
		if m.FollowMode {
			m.SelectedIdx = idx
			m.ensureVisible()
		}

	case msgLog:
		if row, ok := m.SpanMap[msg.SpanID]; ok {
			_, _ = row.Term.Write(msg.Data)
		}

	case msgComplete:
		row, ok := m.SpanMap[msg.SpanID]
		if !ok {
			return m, nil
		}
		delete(m.SpanMap, msg.SpanID)
		if msg.Err != nil {
			row.Status = StatusFailed
			row.Err = msg.Err
			m.failed++
		} else {
			row.Status = StatusDone
			m.done++
		}
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Aborted = !m.Finished()
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Follow):
		m.FollowMode = true
		for i, row := range m.Rows {
			if row.Status == StatusRunning {
				m.SelectedIdx = i
				break
			}
		}
		m.ensureVisible()
	default:
		row := m.selected()
		if row == nil {
			return nil
		}
		switch {
		case key.Matches(msg, m.keys.PgUp):
			row.Term.Page(-1)
		case key.Matches(msg, m.keys.PgDown):
			row.Term.Page(1)
		case key.Matches(msg, m.keys.Top):
			row.Term.Top()
		case key.Matches(msg, m.keys.Bottom):
			row.Term.Bottom()
		}
	}
	return nil
}

// claimRow finds the first pending row with the given name.
func (m *Model) claimRow(name string) int {
	for i, row := range m.Rows {
		if row.Name == name && row.Status == StatusPending {
			return i
		}
	}
	return -1
}

func (m *Model) moveSelection(delta int) {
	next := m.SelectedIdx + delta
	if next < 0 || next >= len(m.Rows) {
		return
	}
	m.SelectedIdx = next
	m.FollowMode = false
	m.ensureVisible()
}

func (m *Model) selected() *ArtifactRow {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Rows) {
		return m.Rows[m.SelectedIdx]
	}
	return nil
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}

func (m *Model) resize(width, height int) {
	m.ListWidth = int(float64(width) * listWidthRatio)
	m.LogWidth = max(width-m.ListWidth-logPaneChrome, 1)

	headerHeight := lipgloss.Height(titleStyle.Render("LOGS"))
	m.LogHeight = max(height-headerHeight-footerHeight, 1)
	m.ListHeight = max(height-listHeaderHeight-footerHeight, 1)
	m.help.Width = width
	m.ensureVisible()

	for _, row := range m.Rows {
		row.Term.Resize(m.LogWidth, m.LogHeight)
	}
}

func (m *Model) newTerm() *Vterm {
	term := NewVterm()
	if m.LogWidth > 0 && m.LogHeight > 0 {
		term.Resize(m.LogWidth, m.LogHeight)
	}
	return term
}
