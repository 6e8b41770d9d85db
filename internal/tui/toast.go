package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const toastDuration = 5 * time.Second

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastSuccess
	toastError
)

// toast is a one-line message above the status bar. A sticky toast stays
// until replaced or dismissed by a successful reload.
type toast struct {
	message string
	level   toastLevel
	expires time.Time
	sticky  bool
}

type toastExpiredMsg struct{}

func (t toast) isActive() bool {
	if t.message == "" {
		return false
	}
	return t.sticky || time.Now().Before(t.expires)
}

func (t toast) render() string {
	if !t.isActive() {
		return ""
	}
	switch t.level {
	case toastSuccess:
		return toastSuccessStyle.Render(t.message)
	case toastError:
		return toastErrorStyle.Render(t.message)
	default:
		return t.message
	}
}

func newToast(msg string, level toastLevel) toast {
	return toast{
		message: msg,
		level:   level,
		expires: time.Now().Add(toastDuration),
	}
}

func newStickyToast(msg string) toast {
	return toast{message: msg, level: toastError, sticky: true}
}

func scheduleToastClear() tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{}
	})
}
