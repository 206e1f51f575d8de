package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/usvote/internal/election"
)

// ProgramNotifier forwards controller notifications and view changes into a
// running bubbletea program. Messages sent before Attach are dropped; the
// rest reach the program in the order they were raised.
type ProgramNotifier struct {
	mu     sync.Mutex
	send   func(tea.Msg)
	queue  []tea.Msg
	wake   chan struct{}
	closed bool
}

var _ election.Notifier = (*ProgramNotifier)(nil)

// NewProgramNotifier creates a notifier with no program attached
func NewProgramNotifier() *ProgramNotifier {
	return &ProgramNotifier{}
}

// Attach routes messages to p
func (n *ProgramNotifier) Attach(p *tea.Program) {
	n.AttachFunc(p.Send)
}

// AttachFunc routes messages to send
func (n *ProgramNotifier) AttachFunc(send func(tea.Msg)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.send = send
	if n.wake == nil && !n.closed {
		n.wake = make(chan struct{}, 1)
		go n.forward(n.wake)
	}
}

// Close stops forwarding. Queued messages are dropped.
func (n *ProgramNotifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	n.queue = nil
	if n.wake != nil {
		close(n.wake)
	}
}

// Success shows a success notice
func (n *ProgramNotifier) Success(msg string) {
	n.deliver(noticeMsg{kind: noticeSuccess, text: msg})
}

// Error shows an error notice
func (n *ProgramNotifier) Error(msg string) {
	n.deliver(noticeMsg{kind: noticeError, text: msg})
}

// ViewChanged is registered with Controller.OnChange
func (n *ProgramNotifier) ViewChanged(election.View) {
	n.deliver(viewChangedMsg{})
}

// deliver never blocks the caller. Controller callbacks can run inside
// Update, where a synchronous Send would deadlock the event loop.
func (n *ProgramNotifier) deliver(msg tea.Msg) {
	n.mu.Lock()
	if n.send == nil || n.closed {
		n.mu.Unlock()
		return
	}
	n.queue = append(n.queue, msg)
	wake := n.wake
	n.mu.Unlock()

	select {
	case wake <- struct{}{}:
	default:
	}
}

// forward drains the queue on a single goroutine
func (n *ProgramNotifier) forward(wake <-chan struct{}) {
	for range wake {
		for {
			n.mu.Lock()
			if len(n.queue) == 0 || n.closed {
				n.mu.Unlock()
				break
			}
			msg := n.queue[0]
			n.queue = n.queue[1:]
			send := n.send
			n.mu.Unlock()

			send(msg)
		}
	}
}
