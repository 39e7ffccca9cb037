package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jonpalmisc/limoncello/internal/ui/style"
	"github.com/mattn/go-runewidth"
)

// View renders the UI.
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Initializing..."
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.artifactList(), m.logPane())
	return lipgloss.JoinVertical(lipgloss.Left, body, m.help.View(m.keys))
}

func (m *Model) artifactList() string {
	var s strings.Builder

	title := fmt.Sprintf("SAMPLES %d/%d", m.done+m.failed, len(m.Rows))
	if m.failed > 0 {
		s.WriteString(failureTitleStyle.Render(fmt.Sprintf("%s (%d failed)", title, m.failed)))
	} else {
		s.WriteString(titleStyle.Render(title))
	}
	s.WriteString("\n\n")

	end := min(m.ListOffset+m.ListHeight, len(m.Rows))
	start := min(m.ListOffset, end)

	for i := start; i < end; i++ {
		s.WriteString(m.renderRow(i, m.Rows[i]) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m *Model) renderRow(index int, row *ArtifactRow) string {
	rowStyle := statusStyle(row.Status)

	cursor := "  "
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		if row.Status == StatusPending || row.Status == StatusRunning {
			rowStyle = selectedStyle
		}
	}

	name := row.Name
	if m.ListWidth > rowChrome {
		name = runewidth.Truncate(name, m.ListWidth-rowChrome, "…")
	}

	line := cursor + rowStyle.Render(m.icon(row)+" "+name)
	if row.Group != "" && row.Group != shortName(row.Name) {
		line += " " + groupStyle.Render(row.Group)
	}
	return line
}

func (m *Model) icon(row *ArtifactRow) string {
	switch row.Status {
	case StatusRunning:
		if m.disableTick {
			return style.Dot
		}
		return m.spinner.View()
	case StatusDone:
		return style.Check
	case StatusFailed:
		return style.Cross
	default:
		return style.Circle
	}
}

func statusStyle(s ArtifactStatus) lipgloss.Style {
	switch s {
	case StatusRunning:
		return runningStyle
	case StatusDone:
		return doneStyle
	case StatusFailed:
		return failedStyle
	default:
		return pendingStyle
	}
}

func (m *Model) logPane() string {
	row := m.selected()
	if row == nil {
		return logStyle.Render(titleStyle.Render("LOGS (Waiting...)"))
	}

	mode := " (Manual)"
	if m.FollowMode {
		mode = " (Following)"
	}

	header := titleStyle.Render("LOGS: " + row.Name + mode)
	if row.Status == StatusFailed {
		header = failureTitleStyle.Render("FAILED: " + row.Name + mode)
	}

	content := row.Term.View()
	if content == "" && row.Err != nil {
		content = failedStyle.Render(row.Err.Error())
	}

	return logStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, content))
}

// shortName strips the level and config from an artifact name.
func shortName(artifact string) string {
	name, _, _ := strings.Cut(artifact, ".")
	return name
}
