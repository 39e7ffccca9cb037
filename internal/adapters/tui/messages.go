package tui

import "time"

type msgPlan struct {
	Names []string
}

type msgStart struct {
	SpanID    string
	Group     string
	Name      string
	StartTime time.Time
}

type msgLog struct {
	SpanID string
	Data   []byte
}

type msgComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}
