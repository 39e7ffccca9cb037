package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func PlanMsg(names ...string) tea.Msg {
	return msgPlan{Names: names}
}

func StartMsg(spanID, group, name string) tea.Msg {
	return msgStart{SpanID: spanID, Group: group, Name: name, StartTime: time.Now()}
}

func LogMsg(spanID, data string) tea.Msg {
	return msgLog{SpanID: spanID, Data: []byte(data)}
}

func CompleteMsg(spanID string, err error) tea.Msg {
	return msgComplete{SpanID: spanID, EndTime: time.Now(), Err: err}
}
