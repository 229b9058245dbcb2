package gui

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// StatusLevel selects the status bar icon.
type StatusLevel int

const (
	StatusInfo StatusLevel = iota
	StatusSuccess
	StatusWarning
	StatusError
)

// StatusBar shows the outcome of the last action, a spinner while any
// action is still running, and the backend URL on the right.
type StatusBar struct {
	widget.BaseWidget

	mu      sync.Mutex
	running activity

	icon    *widget.Icon
	label   *widget.Label
	spinner *widget.Activity
	backend *widget.Label
}

// NewStatusBar creates a status bar reading "Ready".
func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.label = widget.NewLabel("Ready")
	sb.label.TextStyle = fyne.TextStyle{Italic: true}
	sb.label.Truncation = fyne.TextTruncateEllipsis
	sb.icon = widget.NewIcon(theme.InfoIcon())
	sb.spinner = widget.NewActivity()
	sb.spinner.Hide()
	sb.backend = widget.NewLabel("")
	sb.backend.Importance = widget.LowImportance
	sb.ExtendBaseWidget(sb)
	return sb
}

// SetBackend shows the backend URL. Call it before the window is shown.
func (sb *StatusBar) SetBackend(url string) {
	sb.backend.SetText(url)
}

// Begin records a started action and shows its label with the spinner.
func (sb *StatusBar) Begin(actionID, label string) {
	sb.mu.Lock()
	sb.running.begin(actionID, label)
	text := sb.running.summary()
	sb.mu.Unlock()

	fyne.Do(func() {
		sb.label.SetText(text)
		sb.icon.Hide()
		sb.spinner.Show()
		sb.spinner.Start()
	})
}

// End records a finished action and shows its outcome. The spinner stays
// while other actions are in flight.
func (sb *StatusBar) End(actionID, message string, level StatusLevel) {
	sb.mu.Lock()
	sb.running.end(actionID)
	busy := sb.running.len() > 0
	sb.mu.Unlock()

	sb.show(message, level, busy)
}

// SetWarning shows message with the warning icon.
func (sb *StatusBar) SetWarning(message string) {
	sb.show(message, StatusWarning, sb.busy())
}

// SetError shows message with the error icon.
func (sb *StatusBar) SetError(message string) {
	sb.show(message, StatusError, sb.busy())
}

func (sb *StatusBar) busy() bool {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.running.len() > 0
}

func (sb *StatusBar) show(message string, level StatusLevel, busy bool) {
	fyne.Do(func() {
		sb.label.SetText(message)
		sb.icon.SetResource(levelIcon(level))
		sb.icon.Show()
		if busy {
			sb.spinner.Show()
			sb.spinner.Start()
		} else {
			sb.spinner.Stop()
			sb.spinner.Hide()
		}
	})
}

func levelIcon(level StatusLevel) fyne.Resource {
	switch level {
	case StatusSuccess:
		return theme.ConfirmIcon()
	case StatusWarning:
		return theme.WarningIcon()
	case StatusError:
		return theme.ErrorIcon()
	}
	return theme.InfoIcon()
}

// CreateRenderer implements fyne.Widget
func (sb *StatusBar) CreateRenderer() fyne.WidgetRenderer {
	left := container.NewHBox(sb.icon, sb.spinner)
	content := container.NewBorder(nil, nil, left, sb.backend, sb.label)
	return widget.NewSimpleRenderer(content)
}

// activity tracks in-flight actions in start order.
type activity struct {
	ids    []string
	labels map[string]string
}

func (a *activity) begin(id, label string) {
	if a.labels == nil {
		a.labels = make(map[string]string)
	}
	if _, ok := a.labels[id]; !ok {
		a.ids = append(a.ids, id)
	}
	a.labels[id] = label
}

func (a *activity) end(id string) {
	if _, ok := a.labels[id]; !ok {
		return
	}
	delete(a.labels, id)
	for i, v := range a.ids {
		if v == id {
			a.ids = append(a.ids[:i], a.ids[i+1:]...)
			break
		}
	}
}

func (a *activity) len() int {
	return len(a.ids)
}

// summary names the newest running action and counts the rest.
func (a *activity) summary() string {
	switch n := len(a.ids); n {
	case 0:
		return "Ready"
	case 1:
		return a.labels[a.ids[0]] + "..."
	default:
		return fmt.Sprintf("%s... (+%d more)", a.labels[a.ids[n-1]], n-1)
	}
}
