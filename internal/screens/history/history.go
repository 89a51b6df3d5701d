// Package history shows the local log of scoring service calls.
package history

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/phonix/internal/router"
	"github.com/abhisek/phonix/internal/screen"
	"github.com/abhisek/phonix/internal/store"
	"github.com/abhisek/phonix/internal/ui/layout"
	"github.com/abhisek/phonix/internal/ui/theme"
)

const recentLimit = 50

type historyLoadedMsg struct {
	Stats *store.Stats
	Calls []store.RemoteCallEvent
	Err   error
}

// HistoryScreen displays call statistics and the most recent calls.
type HistoryScreen struct {
	repo       store.StatsRepo
	stats      *store.Stats
	calls      []store.RemoteCallEvent
	failedOnly bool
	selected   int
	loaded     bool
	errMsg     string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.StatsRepo) *HistoryScreen {
	return &HistoryScreen{repo: repo}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return s.load()
}

func (s *HistoryScreen) load() tea.Cmd {
	repo, failed := s.repo, s.failedOnly
	return func() tea.Msg {
		ctx := context.Background()
		stats, err := repo.Stats(ctx)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		calls, err := repo.RecentRemoteCalls(ctx, store.QueryOpts{Limit: recentLimit, Failed: failed})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Stats: stats, Calls: calls}
	}
}

func (s *HistoryScreen) Title() string {
	return "Service Log"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	filter := "Failures only"
	if s.failedOnly {
		filter = "All calls"
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "F", Description: filter},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.stats = msg.Stats
			s.calls = msg.Calls
			s.errMsg = ""
		}
		s.selected = 0
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.calls)-1 {
				s.selected++
			}
		case "f":
			s.failedOnly = !s.failedOnly
			s.loaded = false
			return s, s.load()
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading service log...")
	}
	if len(s.calls) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).Render("\n\n  No calls recorded yet.")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Render(summaryLine(s.stats)))
	b.WriteString("\n\n")

	rows := max(height-4, 1)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	end := min(start+rows, len(s.calls))

	for i := start; i < end; i++ {
		c := s.calls[i]
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := prefix + callLine(c)

		style := theme.Body
		if !c.Success {
			style = theme.Caution
		}
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func summaryLine(st *store.Stats) string {
	if st == nil {
		return ""
	}
	calls, failures := 0, 0
	for _, e := range st.Endpoints {
		calls += e.Calls
		failures += e.Failures
	}
	parts := []string{fmt.Sprintf("%d calls, %d failed", calls, failures)}

	kinds := make([]string, 0, len(st.FailuresByKind))
	for k := range st.FailuresByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s %d", k, st.FailuresByKind[k]))
	}
	return strings.Join(parts, " · ")
}

func callLine(c store.RemoteCallEvent) string {
	ts := c.Timestamp.Format("Jan 02 15:04:05")
	endpoint := c.Endpoint
	if c.Param != "" {
		endpoint += "/" + c.Param
	}
	if c.Success {
		return fmt.Sprintf("%s  %-20s ok      %4dms", ts, endpoint, c.LatencyMs)
	}
	status := c.Kind
	if c.Status != 0 {
		status = fmt.Sprintf("%s %d", c.Kind, c.Status)
	}
	return fmt.Sprintf("%s  %-20s %-7s %4dms  %s", ts, endpoint, status, c.LatencyMs, c.Detail)
}
