package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/phonix/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
	updates int
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { s.updates++; return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPush(t *testing.T) {
	r := New(&stubScreen{title: "home"})

	trainer := &stubScreen{title: "trainer"}
	r.Update(PushScreenMsg{Screen: trainer})

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "trainer" {
		t.Errorf("expected active 'trainer', got %q", r.Active().Title())
	}
	if !trainer.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Push(&stubScreen{title: "trainer"})
	r.Update(PopScreenMsg{})

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "home" {
		t.Errorf("expected active 'home', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	r := New(&stubScreen{title: "home"})
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestReplace(t *testing.T) {
	r := New(&stubScreen{title: "welcome"})
	r.Push(&stubScreen{title: "trainer"})

	home := &stubScreen{title: "home"}
	r.Update(ReplaceScreenMsg{Screen: home})

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active() != home {
		t.Errorf("expected active 'home', got %q", r.Active().Title())
	}
	if !home.initRan {
		t.Error("expected Init() to run on replacement")
	}
}

func TestUpdateForwardsToActive(t *testing.T) {
	home := &stubScreen{title: "home"}
	trainer := &stubScreen{title: "trainer"}
	r := New(home)
	r.Push(trainer)

	r.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})

	if trainer.updates != 1 || home.updates != 0 {
		t.Errorf("expected only the active screen to update, got trainer=%d home=%d", trainer.updates, home.updates)
	}
	if got := r.View(80, 24); got != "trainer" {
		t.Errorf("expected active view, got %q", got)
	}
}
