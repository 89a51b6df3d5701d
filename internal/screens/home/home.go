// Package home is the main menu.
package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/phonix/internal/router"
	"github.com/abhisek/phonix/internal/screen"
	"github.com/abhisek/phonix/internal/ui/components"
	"github.com/abhisek/phonix/internal/ui/theme"
)

// Factories build the screens reachable from the menu. A nil factory
// disables its item.
type Factories struct {
	Trainer func() screen.Screen
	History func() screen.Screen
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	menu   components.Menu
	server string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. server is shown under the title.
func New(f Factories, server string) *HomeScreen {
	push := func(factory func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: factory()} }
		}
	}

	items := []components.MenuItem{
		{Label: "Start training", Disabled: f.Trainer == nil},
		{Label: "Service log", Disabled: f.History == nil},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}
	if f.Trainer != nil {
		items[0].Action = push(f.Trainer)
	}
	if f.History != nil {
		items[1].Action = push(f.History)
	}

	return &HomeScreen{
		menu:   components.NewMenu(items),
		server: server,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	sections := []string{
		theme.Title.Render("English Pronunciation Trainer"),
		theme.Subtitle.Render("Phoneme spelling and homophones"),
	}
	if h.server != "" {
		sections = append(sections, theme.Hint.Render("scoring service: "+h.server))
	}
	sections = append(sections, "", theme.Card.Render(strings.TrimRight(h.menu.View(), "\n")))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
