package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

// FilterInput is the one-line text entry shown while typing a filter
// pattern. The pattern applies live on every keystroke; Enter keeps it,
// Esc restores what was active before.
type FilterInput struct {
	input    textinput.Model
	active   bool
	previous string
	theme    themes.Theme
	width    int
}

// NewFilterInput creates an inactive filter input.
func NewFilterInput() FilterInput {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.CharLimit = 128
	return FilterInput{
		input: ti,
		theme: themes.Solarized(),
	}
}

// SetTheme updates the input theme.
func (f *FilterInput) SetTheme(theme themes.Theme) {
	f.theme = theme
	f.input.PromptStyle = lipgloss.NewStyle().Foreground(theme.FilterColor)
	f.input.TextStyle = lipgloss.NewStyle().Foreground(theme.Foreground)
}

// SetWidth sets the input width.
func (f *FilterInput) SetWidth(width int) {
	f.width = width
	f.input.Width = width - 4
}

// Activate opens the input seeded with the currently applied pattern.
func (f *FilterInput) Activate(current string) tea.Cmd {
	f.active = true
	f.previous = current
	f.input.SetValue(current)
	f.input.CursorEnd()
	return f.input.Focus()
}

// Deactivate closes the input.
func (f *FilterInput) Deactivate() {
	f.active = false
	f.input.Blur()
}

// Active reports whether the input is capturing keys.
func (f *FilterInput) Active() bool {
	return f.active
}

// Value returns the pattern currently typed.
func (f *FilterInput) Value() string {
	return f.input.Value()
}

// Previous returns the pattern that was applied when the input opened.
func (f *FilterInput) Previous() string {
	return f.previous
}

// Update forwards key input to the text field.
func (f *FilterInput) Update(msg tea.Msg) tea.Cmd {
	if !f.active {
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

// View renders the input line.
func (f *FilterInput) View() string {
	if !f.active {
		return ""
	}
	return lipgloss.NewStyle().
		Background(f.theme.StatusBarBg).
		Width(f.width).
		Padding(0, 1).
		Render(f.input.View())
}
