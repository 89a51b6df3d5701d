package trainer

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/phonix/internal/render"
	"github.com/abhisek/phonix/internal/ui/layout"
	"github.com/abhisek/phonix/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	cardWidth := min(width-4, 72)
	if layout.IsCompactWidth(width) {
		cardWidth = width - 2
	}

	var sections []string
	if p := s.renderPrompt(); p != "" {
		sections = append(sections, theme.Card.Width(cardWidth).Render(p))
	}
	if f := s.renderFeedback(); f != "" {
		sections = append(sections, f)
	}
	if s.inputEnabled || s.input.Value() != "" {
		sections = append(sections, s.input.View())
	}
	if !s.menu.Empty() {
		sections = append(sections, s.menu.View())
	}
	if s.notice != "" {
		sections = append(sections, theme.Hint.Render(s.notice))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *Screen) renderPrompt() string {
	p := s.prompt
	var lines []string
	if p.Heading != "" {
		lines = append(lines, theme.Title.Render(p.Heading))
	}
	if p.Target != "" {
		line := theme.Target.Render(p.Target)
		if p.Trailer != "" {
			line += " " + theme.Body.Render(p.Trailer)
		}
		lines = append(lines, "", line)
	}
	if len(p.Body) > 0 {
		lines = append(lines, "")
		for _, b := range p.Body {
			lines = append(lines, theme.Body.Render(b))
		}
	}
	return strings.Join(lines, "\n")
}

func (s *Screen) renderFeedback() string {
	lines := make([]string, 0, len(s.feedback))
	for _, f := range s.feedback {
		style := toneStyle(f.Tone)
		line := style.Render(f.Text)
		if len(f.Items) > 0 {
			line += " " + theme.Target.Render(strings.Join(f.Items, ", "))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func toneStyle(t render.Tone) lipgloss.Style {
	switch t {
	case render.ToneSuccess:
		return theme.Correct
	case render.ToneWarning:
		return theme.Caution
	case render.ToneError:
		return theme.Incorrect
	default:
		return theme.Info
	}
}
