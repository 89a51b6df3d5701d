package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/phonix/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with phonix styling. A disabled input
// keeps its value but ignores keys.
type TextInput struct {
	Model    textinput.Model
	disabled bool
}

// NewTextInput creates a new styled text input.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()
	return TextInput{Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.disabled {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	if t.disabled {
		v := t.Model.Value()
		if v == "" {
			v = t.Model.Placeholder
		}
		return theme.Disabled.Render("> " + v)
	}
	return t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Reset clears the value.
func (t *TextInput) Reset() {
	t.Model.Reset()
}

// SetPlaceholder replaces the placeholder text.
func (t *TextInput) SetPlaceholder(p string) {
	t.Model.Placeholder = p
}

// SetEnabled toggles key handling and focus.
func (t *TextInput) SetEnabled(enabled bool) tea.Cmd {
	t.disabled = !enabled
	if enabled {
		return t.Model.Focus()
	}
	t.Model.Blur()
	return nil
}

// Enabled reports whether the input accepts keys.
func (t TextInput) Enabled() bool {
	return !t.disabled
}
