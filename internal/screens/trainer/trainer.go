// Package trainer is the interactive screen that hosts a training session.
// The session flow runs on its own goroutine and draws through a Bridge;
// key presses reach it through a render.Inbox.
package trainer

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/phonix/internal/render"
	"github.com/abhisek/phonix/internal/router"
	"github.com/abhisek/phonix/internal/screen"
	"github.com/abhisek/phonix/internal/ui/components"
	"github.com/abhisek/phonix/internal/ui/layout"
)

// maxFeedback is how many feedback lines stay on screen.
const maxFeedback = 3

// RunFunc runs one training flow until it returns.
type RunFunc func(ctx context.Context, ui *Bridge, in render.Input) error

// actionChosenMsg is produced by the action menu.
type actionChosenMsg struct{ ID render.ActionID }

// Screen implements screen.Screen for a running session.
type Screen struct {
	run    RunFunc
	bridge *Bridge
	inbox  *render.Inbox
	cancel context.CancelFunc

	stage        string
	prompt       render.Prompt
	feedback     []render.Feedback
	input        components.TextInput
	inputEnabled bool
	actions      []render.Action
	menu         components.Menu
	focusActions bool
	notice       string

	done bool
	err  error
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.BackHandler = (*Screen)(nil)

// New creates a trainer screen; the flow starts in Init.
func New(run RunFunc) *Screen {
	s := &Screen{
		run:    run,
		bridge: NewBridge(),
		inbox:  render.NewInbox(),
		input:  components.NewTextInput("Type your answer", 64),
		stage:  "Trainer",
	}
	s.input.SetEnabled(false)
	return s
}

func (s *Screen) Init() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	run := func() tea.Msg {
		return flowDoneMsg{Err: s.run(ctx, s.bridge, s.inbox)}
	}
	return tea.Batch(run, s.bridge.Listen())
}

func (s *Screen) Title() string {
	return s.stage
}

// Back stops the flow and leaves the screen.
func (s *Screen) Back() tea.Cmd {
	s.stop()
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (s *Screen) stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.bridge.Close()
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.done {
		return []layout.KeyHint{{Key: "Esc", Description: "Home"}}
	}
	hints := []layout.KeyHint{}
	switch {
	case s.inputEnabled && !s.focusActions:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Check"})
	case len(s.actions) > 0:
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Choose"},
			layout.KeyHint{Key: "Enter", Description: "Select"},
		)
	}
	if s.inputEnabled && len(s.actions) > 0 {
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Switch"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Leave"})
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case clearMsg:
		s.prompt = render.Prompt{}
		s.feedback = nil
		s.notice = ""
		s.input.Reset()
		s.setActions(nil)
		return s, s.bridge.Listen()

	case promptMsg:
		s.prompt = msg.Prompt
		if msg.Prompt.Placeholder != "" {
			s.input.SetPlaceholder(msg.Prompt.Placeholder)
		}
		return s, s.bridge.Listen()

	case feedbackMsg:
		s.feedback = append(s.feedback, msg.Feedback)
		if len(s.feedback) > maxFeedback {
			s.feedback = s.feedback[len(s.feedback)-maxFeedback:]
		}
		return s, s.bridge.Listen()

	case inputMsg:
		s.inputEnabled = msg.Enabled
		cmd := s.input.SetEnabled(msg.Enabled)
		s.refocus()
		return s, tea.Batch(cmd, s.bridge.Listen())

	case actionsMsg:
		s.setActions(msg.Actions)
		return s, s.bridge.Listen()

	case stageMsg:
		s.stage = msg.Title
		return s, s.bridge.Listen()

	case actionChosenMsg:
		s.post(render.Invoke(msg.ID))
		return s, nil

	case flowDoneMsg:
		return s.handleDone(msg.Err)

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleDone(err error) (screen.Screen, tea.Cmd) {
	s.done = true
	s.err = err
	s.inputEnabled = false
	s.input.SetEnabled(false)
	s.setActions(nil)
	s.stop()

	switch {
	case err == nil:
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case errors.Is(err, context.Canceled):
		return s, nil
	}
	s.notice = "The session has ended. Press Esc to return home."
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.done {
		return s, nil
	}

	if msg.String() == "tab" && s.inputEnabled && len(s.actions) > 0 {
		s.focusActions = !s.focusActions
		s.menu.Focused = s.focusActions
		return s, nil
	}

	if s.inputEnabled && !s.focusActions {
		if msg.String() == "enter" {
			if s.post(render.Answer(s.input.Value())) {
				s.input.Reset()
			}
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

// post hands ev to the flow. Events arriving while the flow is busy are
// dropped with a notice.
func (s *Screen) post(ev render.Event) bool {
	if s.inbox.Post(ev) {
		s.notice = ""
		return true
	}
	s.notice = "Please wait..."
	return false
}

func (s *Screen) setActions(actions []render.Action) {
	s.actions = actions
	items := make([]components.MenuItem, 0, len(actions))
	for _, a := range actions {
		id := a.ID
		items = append(items, components.MenuItem{
			Label: a.Label,
			Action: func() tea.Cmd {
				return func() tea.Msg { return actionChosenMsg{ID: id} }
			},
		})
	}
	s.menu = components.NewMenu(items)
	s.refocus()
}

func (s *Screen) refocus() {
	s.focusActions = len(s.actions) > 0 && !s.inputEnabled
	s.menu.Focused = s.focusActions
}
