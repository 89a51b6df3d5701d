package trainer

import (
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/phonix/internal/render"
)

type clearMsg struct{}

type promptMsg struct{ Prompt render.Prompt }

type feedbackMsg struct{ Feedback render.Feedback }

type inputMsg struct{ Enabled bool }

type actionsMsg struct{ Actions []render.Action }

type stageMsg struct{ Title string }

// flowDoneMsg is sent when the flow goroutine returns.
type flowDoneMsg struct{ Err error }

// Bridge is the render.Renderer used by the flow goroutine. Every call
// becomes a message delivered to the screen through Listen.
type Bridge struct {
	ch        chan tea.Msg
	done      chan struct{}
	closeOnce sync.Once
}

var _ render.Renderer = (*Bridge)(nil)

// NewBridge creates a Bridge with a small buffer.
func NewBridge() *Bridge {
	return &Bridge{
		ch:   make(chan tea.Msg, 32),
		done: make(chan struct{}),
	}
}

// Close unblocks pending sends; later calls are dropped.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}

func (b *Bridge) send(msg tea.Msg) {
	select {
	case <-b.done:
	case b.ch <- msg:
	}
}

// Listen returns a command that waits for the next message.
func (b *Bridge) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.ch:
			return msg
		case <-b.done:
			return nil
		}
	}
}

func (b *Bridge) Clear()                         { b.send(clearMsg{}) }
func (b *Bridge) ShowPrompt(p render.Prompt)     { b.send(promptMsg{Prompt: p}) }
func (b *Bridge) ShowFeedback(f render.Feedback) { b.send(feedbackMsg{Feedback: f}) }
func (b *Bridge) SetInputEnabled(enabled bool)   { b.send(inputMsg{Enabled: enabled}) }

func (b *Bridge) OfferActions(actions ...render.Action) {
	b.send(actionsMsg{Actions: append([]render.Action(nil), actions...)})
}

// Stage reports a stage change to the screen header.
func (b *Bridge) Stage(title string) { b.send(stageMsg{Title: title}) }
