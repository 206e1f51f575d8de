package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Messages delivered to the form model
type viewChangedMsg struct{}

type noticeKind int

const (
	noticeSuccess noticeKind = iota
	noticeError
)

type noticeMsg struct {
	kind noticeKind
	text string
}

type mountedMsg struct {
	err error
}

type actionDoneMsg struct {
	action string
	err    error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
