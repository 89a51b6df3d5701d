package trainer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/phonix/internal/render"
	"github.com/abhisek/phonix/internal/router"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func noFlow(context.Context, *Bridge, render.Input) error { return nil }

// awaitEvent starts a flow-side reader on the screen's inbox.
func awaitEvent(t *testing.T, s *Screen) <-chan render.Event {
	t.Helper()
	out := make(chan render.Event, 1)
	go func() {
		ev, err := s.inbox.Next(context.Background())
		if err == nil {
			out <- ev
		}
	}()
	require.Eventually(t, s.inbox.Waiting, time.Second, time.Millisecond)
	return out
}

func receive(t *testing.T, ch <-chan render.Event) render.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
		return render.Event{}
	}
}

func TestBridgeDeliversMessages(t *testing.T) {
	b := NewBridge()
	b.ShowPrompt(render.Prompt{Heading: "Spell the word"})
	b.OfferActions(render.Action{ID: render.ActionRetry, Label: "Retry"})

	assert.Equal(t, promptMsg{Prompt: render.Prompt{Heading: "Spell the word"}}, b.Listen()())
	msg := b.Listen()()
	require.IsType(t, actionsMsg{}, msg)
	assert.Equal(t, render.ActionRetry, msg.(actionsMsg).Actions[0].ID)

	b.Close()
	assert.Nil(t, b.Listen()())
	for range 64 {
		b.Clear()
	}
}

func TestAnswerIsPostedToFlow(t *testing.T) {
	s := New(noFlow)
	s.Update(promptMsg{Prompt: render.Prompt{Heading: "Spell", Target: "/kæt/"}})
	s.Update(inputMsg{Enabled: true})

	events := awaitEvent(t, s)
	for _, r := range "cat" {
		s.Update(keyPress(r))
	}
	s.Update(specialKey(tea.KeyEnter))

	ev := receive(t, events)
	assert.Equal(t, render.Answer("cat"), ev)
	assert.Empty(t, s.input.Value())
	assert.Contains(t, s.View(80, 24), "/kæt/")
}

func TestAnswerWhileBusyIsDropped(t *testing.T) {
	s := New(noFlow)
	s.Update(inputMsg{Enabled: true})
	s.Update(keyPress('x'))
	s.Update(specialKey(tea.KeyEnter))

	assert.Equal(t, "x", s.input.Value())
	assert.Contains(t, s.View(80, 24), "Please wait...")
}

func TestActionMenu(t *testing.T) {
	s := New(noFlow)
	s.Update(actionsMsg{Actions: []render.Action{
		{ID: render.ActionRetry, Label: "Retry"},
		{ID: render.ActionQuit, Label: "Quit"},
	}})
	require.True(t, s.focusActions)

	events := awaitEvent(t, s)
	s.Update(specialKey(tea.KeyDown))
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	s.Update(cmd())

	assert.Equal(t, render.Invoke(render.ActionQuit), receive(t, events))
}

func TestTabSwitchesFocus(t *testing.T) {
	s := New(noFlow)
	s.Update(inputMsg{Enabled: true})
	s.Update(actionsMsg{Actions: []render.Action{{ID: render.ActionRestart, Label: "Restart"}}})
	assert.False(t, s.focusActions)

	s.Update(specialKey(tea.KeyTab))
	assert.True(t, s.focusActions)
	assert.True(t, s.menu.Focused)

	s.Update(keyPress('z'))
	assert.Empty(t, s.input.Value(), "keys go to the menu while it has focus")
}

func TestFeedbackKeepsLatestLines(t *testing.T) {
	s := New(noFlow)
	for _, text := range []string{"one", "two", "three", "four"} {
		s.Update(feedbackMsg{Feedback: render.Feedback{Text: text}})
	}
	view := s.View(80, 24)
	assert.NotContains(t, view, "one")
	assert.Contains(t, view, "four")

	s.Update(clearMsg{})
	assert.NotContains(t, s.View(80, 24), "four")
}

func TestFlowDone(t *testing.T) {
	t.Run("quit pops the screen", func(t *testing.T) {
		s := New(noFlow)
		_, cmd := s.Update(flowDoneMsg{})
		require.NotNil(t, cmd)
		assert.Equal(t, router.PopScreenMsg{}, cmd())
	})

	t.Run("failure stays with a notice", func(t *testing.T) {
		s := New(noFlow)
		_, cmd := s.Update(flowDoneMsg{Err: errors.New("unhealthy")})
		assert.Nil(t, cmd)
		assert.True(t, strings.Contains(s.View(80, 24), "Press Esc"))
		assert.Equal(t, []string{"Esc"}, hintKeys(s))
	})
}

func TestFlowRunsThroughBridge(t *testing.T) {
	flow := func(ctx context.Context, ui *Bridge, in render.Input) error {
		ui.Stage("Spelling")
		ui.ShowPrompt(render.Prompt{Heading: "Hello"})
		ui.OfferActions(render.Action{ID: render.ActionStart, Label: "Click to start"})
		_, err := render.AwaitAction(ctx, in, render.ActionStart)
		return err
	}
	s := New(flow)
	s.Init()

	done := make(chan error, 1)
	go func() { done <- s.run(context.Background(), s.bridge, s.inbox) }()

	for range 3 {
		s.Update(s.bridge.Listen()())
	}
	assert.Equal(t, "Spelling", s.Title())
	assert.Contains(t, s.View(80, 24), "Click to start")

	require.Eventually(t, s.inbox.Waiting, time.Second, time.Millisecond)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	s.Update(cmd())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("flow did not finish")
	}

	back := s.Back()
	assert.Equal(t, router.PopScreenMsg{}, back())
}

func hintKeys(s *Screen) []string {
	var keys []string
	for _, h := range s.KeyHints() {
		keys = append(keys, h.Key)
	}
	return keys
}
