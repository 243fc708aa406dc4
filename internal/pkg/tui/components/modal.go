package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

// ModalRenderOptions configures modal rendering.
type ModalRenderOptions struct {
	Title      string       // Modal title (optional)
	Content    string       // Modal content (required)
	Footer     string       // Footer text (optional, e.g. keybindings)
	Width      int          // Terminal width
	Height     int          // Terminal height
	Theme      themes.Theme // Color theme
	ModalWidth int          // Specific modal width (0 = auto-calculate)
}

// RenderModal is the unified modal rendering function. Every overlay in
// the application (connection details, confirm dialogs, help) wraps its
// content through here so the chrome stays consistent.
func RenderModal(opts ModalRenderOptions) string {
	modalWidth := opts.ModalWidth
	if modalWidth == 0 {
		// Default: 60-80 characters, or 70% of screen width
		modalWidth = opts.Width * 7 / 10
		if modalWidth > 80 {
			modalWidth = 80
		}
		if modalWidth < 60 {
			modalWidth = 60
		}
	}

	// Ensure modal fits in terminal
	if modalWidth > opts.Width-4 {
		modalWidth = opts.Width - 4
	}
	if modalWidth < 40 {
		modalWidth = 40
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(opts.Theme.InfoColor).
		Padding(1, 2).
		Width(modalWidth)

	var titleRendered string
	if opts.Title != "" {
		titleStyle := lipgloss.NewStyle().
			Foreground(opts.Theme.HeaderBg).
			Bold(true).
			Padding(0, 1).
			Width(modalWidth - 4)
		titleRendered = titleStyle.Render(opts.Title) + "\n\n"
	}

	contentStyle := lipgloss.NewStyle().
		Foreground(opts.Theme.Foreground).
		Width(modalWidth - 4)
	contentRendered := contentStyle.Render(opts.Content)

	var footerRendered string
	if opts.Footer != "" {
		footerStyle := lipgloss.NewStyle().
			Foreground(opts.Theme.StatusBarFg).
			Italic(true).
			Width(modalWidth - 4)
		footerRendered = "\n\n" + footerStyle.Render(opts.Footer)
	}

	modal := modalStyle.Render(titleRendered + contentRendered + footerRendered)

	return lipgloss.Place(
		opts.Width,
		opts.Height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
	)
}
