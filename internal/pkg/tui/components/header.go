package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/endorses/nekotop/internal/pkg/tui/themes"
	"github.com/endorses/nekotop/internal/pkg/version"
)

// Header displays the top status bar: application identity on the left,
// the control API endpoint and core version in the middle, and live
// traffic figures on the right.
type Header struct {
	width       int
	theme       themes.Theme
	connected   bool
	paused      bool
	apiURL      string
	coreVersion string
	uploadRate  float64
	downRate    float64
	uploadTotal int64
	downTotal   int64
	activeConns int
	totalConns  int64
}

// NewHeader creates a new header component.
func NewHeader() Header {
	return Header{
		width: 80,
		theme: themes.Solarized(),
	}
}

// SetTheme updates the theme.
func (h *Header) SetTheme(theme themes.Theme) {
	h.theme = theme
}

// SetWidth sets the header width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetState updates the connection and pause state.
func (h *Header) SetState(connected, paused bool) {
	h.connected = connected
	h.paused = paused
}

// SetEndpoint sets the control API URL shown in the middle section.
func (h *Header) SetEndpoint(apiURL string) {
	h.apiURL = apiURL
}

// SetCoreVersion sets the core version string shown next to the endpoint.
func (h *Header) SetCoreVersion(v string) {
	h.coreVersion = v
}

// SetRates updates the instantaneous upload and download rates.
func (h *Header) SetRates(up, down float64) {
	h.uploadRate = up
	h.downRate = down
}

// SetTotals updates the cumulative transfer counters.
func (h *Header) SetTotals(up, down int64) {
	h.uploadTotal = up
	h.downTotal = down
}

// SetConnCounts updates the active and lifetime connection counts.
func (h *Header) SetConnCounts(active int, total int64) {
	h.activeConns = active
	h.totalConns = total
}

// stateBadge renders the connection state indicator.
func (h *Header) stateBadge() string {
	switch {
	case !h.connected:
		return lipgloss.NewStyle().
			Foreground(h.theme.ErrorColor).
			Bold(true).
			Render("○ OFFLINE")
	case h.paused:
		return lipgloss.NewStyle().
			Foreground(h.theme.WarningColor).
			Bold(true).
			Render("‖ PAUSED")
	default:
		return lipgloss.NewStyle().
			Foreground(h.theme.SuccessColor).
			Bold(true).
			Render("● LIVE")
	}
}

// View renders the header as a single bar with three sections.
func (h *Header) View() string {
	nameStyle := lipgloss.NewStyle().
		Foreground(h.theme.HeaderFg).
		Bold(true)
	mutedStyle := lipgloss.NewStyle().
		Foreground(h.theme.MutedColor)
	upStyle := lipgloss.NewStyle().
		Foreground(h.theme.UploadColor)
	downStyle := lipgloss.NewStyle().
		Foreground(h.theme.DownloadColor)

	left := nameStyle.Render("nekotop") + " " +
		mutedStyle.Render(version.Version) + "  " +
		h.stateBadge()

	var middleParts []string
	if h.apiURL != "" {
		middleParts = append(middleParts, mutedStyle.Render(h.apiURL))
	}
	if h.coreVersion != "" {
		middleParts = append(middleParts, mutedStyle.Render("core "+h.coreVersion))
	}
	middle := strings.Join(middleParts, "  ")

	right := upStyle.Render("↑ "+formatRate(h.uploadRate)) + " " +
		downStyle.Render("↓ "+formatRate(h.downRate)) + "  " +
		mutedStyle.Render(
			"Σ ↑"+formatBytes(h.uploadTotal)+
				" ↓"+formatBytes(h.downTotal)+
				"  conns "+formatNumber(int64(h.activeConns))+
				"/"+formatNumber(h.totalConns))

	leftW := lipgloss.Width(left)
	rightW := lipgloss.Width(right)
	middleW := h.width - leftW - rightW - 4
	if middleW < 0 {
		middleW = 0
		middle = ""
	}
	if lipgloss.Width(middle) > middleW {
		middle = mutedStyle.Render(truncateString(h.apiURL, middleW))
	}

	middleAligned := lipgloss.NewStyle().
		Width(middleW).
		Align(lipgloss.Center).
		Render(middle)

	bar := " " + left + " " + middleAligned + " " + right + " "
	return lipgloss.NewStyle().
		Background(h.theme.HeaderBg).
		Width(h.width).
		Render(bar)
}
