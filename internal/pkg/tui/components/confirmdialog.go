package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

// ConfirmDialogType represents the severity of a confirmation dialog.
type ConfirmDialogType int

const (
	ConfirmDialogWarning ConfirmDialogType = iota
	ConfirmDialogDanger
	ConfirmDialogInfo
)

// ConfirmDialogResult is sent when the user confirms or cancels.
type ConfirmDialogResult struct {
	Confirmed bool
	UserData  interface{} // Optional user data to pass through
}

// ConfirmDialogOptions configures the confirmation dialog appearance and behavior.
type ConfirmDialogOptions struct {
	Type        ConfirmDialogType
	Title       string
	Message     string
	Details     []string    // Optional details to display
	ConfirmText string      // Text for confirm button (default "y")
	CancelText  string      // Text for cancel button (default "n")
	UserData    interface{} // Optional data to pass through to result
}

// ConfirmDialog is a reusable yes/no confirmation modal. While active it
// swallows all key input; y/enter confirms, n/esc cancels, and either way
// a ConfirmDialogResult carrying UserData is emitted.
type ConfirmDialog struct {
	active      bool
	dialogType  ConfirmDialogType
	title       string
	message     string
	details     []string
	confirmText string
	cancelText  string
	userData    interface{}
	theme       themes.Theme
	width       int
	height      int
}

// NewConfirmDialog creates a new confirmation dialog.
func NewConfirmDialog() ConfirmDialog {
	return ConfirmDialog{
		dialogType:  ConfirmDialogWarning,
		confirmText: "y",
		cancelText:  "n",
		theme:       themes.Solarized(),
	}
}

// Show activates the confirmation dialog.
func (c *ConfirmDialog) Show(opts ConfirmDialogOptions) {
	c.active = true
	c.dialogType = opts.Type
	c.title = opts.Title
	c.message = opts.Message
	c.details = opts.Details
	c.userData = opts.UserData

	c.confirmText = opts.ConfirmText
	if c.confirmText == "" {
		c.confirmText = "y"
	}
	c.cancelText = opts.CancelText
	if c.cancelText == "" {
		c.cancelText = "n"
	}
}

// Deactivate hides the confirmation dialog.
func (c *ConfirmDialog) Deactivate() {
	c.active = false
	c.userData = nil
}

// IsActive returns whether the dialog is currently shown.
func (c *ConfirmDialog) IsActive() bool {
	return c.active
}

// SetTheme updates the dialog's theme.
func (c *ConfirmDialog) SetTheme(theme themes.Theme) {
	c.theme = theme
}

// SetSize updates the dialog's layout dimensions.
func (c *ConfirmDialog) SetSize(width, height int) {
	c.width = width
	c.height = height
}

// Update handles key input while the dialog is active.
func (c *ConfirmDialog) Update(msg tea.Msg) tea.Cmd {
	if !c.active {
		return nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch key.String() {
	case "y", "Y", "enter":
		userData := c.userData
		c.Deactivate()
		return func() tea.Msg {
			return ConfirmDialogResult{Confirmed: true, UserData: userData}
		}
	case "n", "N", "esc":
		userData := c.userData
		c.Deactivate()
		return func() tea.Msg {
			return ConfirmDialogResult{Confirmed: false, UserData: userData}
		}
	}

	return nil
}

// View renders the confirmation dialog.
func (c *ConfirmDialog) View() string {
	if !c.active {
		return ""
	}

	var content strings.Builder

	var icon string
	var iconColor lipgloss.Color
	switch c.dialogType {
	case ConfirmDialogDanger:
		icon = "⚠"
		iconColor = c.theme.ErrorColor
	case ConfirmDialogInfo:
		icon = "ℹ"
		iconColor = c.theme.InfoColor
	default:
		icon = "⚠"
		iconColor = c.theme.WarningColor
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(iconColor).
		Bold(true)
	content.WriteString(titleStyle.Render(icon + "  " + c.title))
	content.WriteString("\n\n")

	messageStyle := lipgloss.NewStyle().
		Foreground(c.theme.Foreground)
	content.WriteString(messageStyle.Render(c.message))

	if len(c.details) > 0 {
		content.WriteString("\n\n")
		detailStyle := lipgloss.NewStyle().
			Foreground(c.theme.MutedColor)
		for _, detail := range c.details {
			content.WriteString(detailStyle.Render(detail))
			content.WriteString("\n")
		}
	}

	footer := c.confirmText + "/enter: Confirm  " + c.cancelText + "/esc: Cancel"

	return RenderModal(ModalRenderOptions{
		Content:    content.String(),
		Footer:     footer,
		Width:      c.width,
		Height:     c.height,
		Theme:      c.theme,
		ModalWidth: 60,
	})
}
