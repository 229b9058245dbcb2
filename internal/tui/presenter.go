package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// alertMsg asks the model to show text until the user dismisses it.
type alertMsg struct {
	text string
	done chan struct{}
}

// confirmMsg asks the model for a yes/no answer on reply.
type confirmMsg struct {
	prompt string
	reply  chan bool
}

// sender is the part of *tea.Program the presenter needs.
type sender interface {
	Send(msg tea.Msg)
}

// programPresenter forwards controller alerts and confirmations into the
// running program and blocks until the model answers. Controller calls run
// inside tea.Cmds, never on the update loop.
type programPresenter struct {
	mu      sync.Mutex
	program sender
	quit    chan struct{}
}

func newProgramPresenter() *programPresenter {
	return &programPresenter{quit: make(chan struct{})}
}

func (p *programPresenter) attach(s sender) {
	p.mu.Lock()
	p.program = s
	p.mu.Unlock()
}

// stop releases callers still waiting once the program has exited.
func (p *programPresenter) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	select {
	case <-p.quit:
	default:
		close(p.quit)
	}
}

func (p *programPresenter) send(msg tea.Msg) bool {
	p.mu.Lock()
	s := p.program
	p.mu.Unlock()
	if s == nil {
		return false
	}
	s.Send(msg)
	return true
}

func (p *programPresenter) Alert(text string) {
	done := make(chan struct{})
	if !p.send(alertMsg{text: text, done: done}) {
		return
	}
	select {
	case <-done:
	case <-p.quit:
	}
}

func (p *programPresenter) Confirm(prompt string) bool {
	reply := make(chan bool, 1)
	if !p.send(confirmMsg{prompt: prompt, reply: reply}) {
		return false
	}
	select {
	case ok := <-reply:
		return ok
	case <-p.quit:
		return false
	}
}
