package components

import (
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/endorses/nekotop/internal/pkg/tui/help"
	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

// HelpView displays the embedded keybinding reference, rendered from
// markdown into a scrollable viewport.
type HelpView struct {
	vp       viewport.Model
	theme    themes.Theme
	width    int
	height   int
	rendered bool
}

// NewHelpView creates the help overlay view.
func NewHelpView() *HelpView {
	return &HelpView{
		vp:    viewport.New(80, 20),
		theme: themes.Solarized(),
	}
}

// SetTheme updates the view theme.
func (v *HelpView) SetTheme(theme themes.Theme) {
	v.theme = theme
}

// SetSize updates the dimensions and re-renders the markdown at the
// new wrap width.
func (v *HelpView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.vp.Width = width
	v.vp.Height = height
	v.render()
}

// render converts the embedded markdown to styled terminal text.
func (v *HelpView) render() {
	raw, err := help.Files.ReadFile("keybindings.md")
	if err != nil {
		v.vp.SetContent("help content unavailable: " + err.Error())
		v.rendered = true
		return
	}

	wrap := v.width - 4
	if wrap < 40 {
		wrap = 40
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		v.vp.SetContent(string(raw))
		v.rendered = true
		return
	}

	out, err := renderer.Render(string(raw))
	if err != nil {
		out = string(raw)
	}
	v.vp.SetContent(out)
	v.rendered = true
}

// Scrolling passthroughs for the keyboard handler.

func (v *HelpView) LineUp(n int)   { v.vp.LineUp(n) }
func (v *HelpView) LineDown(n int) { v.vp.LineDown(n) }
func (v *HelpView) GotoTop()       { v.vp.GotoTop() }
func (v *HelpView) GotoBottom()    { v.vp.GotoBottom() }

// View renders the help text.
func (v *HelpView) View() string {
	if !v.rendered {
		v.render()
	}
	title := lipgloss.NewStyle().
		Foreground(v.theme.HeaderFg).
		Bold(true).
		Padding(0, 1).
		Render("Help")
	return title + "\n" + v.vp.View()
}
