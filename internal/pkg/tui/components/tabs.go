package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Label      string // Full label for wide terminals (e.g., "Proxy Providers")
	ShortLabel string // Abbreviated label for medium terminals (e.g., "ProxyProv")
}

// tabDisplayMode represents how tab labels should be rendered.
type tabDisplayMode int

const (
	tabDisplayWide   tabDisplayMode = iota // number + full label
	tabDisplayMedium                       // number + short label
	tabDisplayNarrow                       // number only
)

// Tabs displays a one-line tab bar for switching views. Tabs are numbered
// from 1 so the bar doubles as a reminder of the direct-jump keys.
type Tabs struct {
	tabs   []Tab
	active int
	width  int
	theme  themes.Theme
}

// NewTabs creates a new tabs component.
func NewTabs(tabs []Tab) Tabs {
	return Tabs{
		tabs:  tabs,
		width: 80,
		theme: themes.Solarized(),
	}
}

// SetTheme updates the theme.
func (t *Tabs) SetTheme(theme themes.Theme) {
	t.theme = theme
}

// SetWidth sets the tabs width.
func (t *Tabs) SetWidth(width int) {
	t.width = width
}

// SetActive sets the active tab index.
func (t *Tabs) SetActive(index int) {
	if index >= 0 && index < len(t.tabs) {
		t.active = index
	}
}

// GetActive returns the active tab index.
func (t *Tabs) GetActive() int {
	return t.active
}

// Count returns the number of tabs.
func (t *Tabs) Count() int {
	return len(t.tabs)
}

// Next switches to the next tab, wrapping around.
func (t *Tabs) Next() {
	t.active = (t.active + 1) % len(t.tabs)
}

// Previous switches to the previous tab, wrapping around.
func (t *Tabs) Previous() {
	t.active = (t.active - 1 + len(t.tabs)) % len(t.tabs)
}

// getTabContent returns the rendered label for a tab at the given display mode.
func (t *Tabs) getTabContent(index int, mode tabDisplayMode) string {
	tab := t.tabs[index]
	num := fmt.Sprintf("%d", index+1)
	switch mode {
	case tabDisplayNarrow:
		return num
	case tabDisplayMedium:
		label := tab.ShortLabel
		if label == "" {
			label = tab.Label
		}
		return num + ":" + label
	default:
		return num + ":" + tab.Label
	}
}

// barWidth computes the rendered width of the whole bar at a display mode.
func (t *Tabs) barWidth(mode tabDisplayMode) int {
	total := 0
	for i := range t.tabs {
		// 1 char padding on each side, 1 char gap after
		total += lipgloss.Width(t.getTabContent(i, mode)) + 3
	}
	return total
}

// determineDisplayMode picks the widest mode whose bar fits the terminal.
func (t *Tabs) determineDisplayMode() tabDisplayMode {
	for _, mode := range []tabDisplayMode{tabDisplayWide, tabDisplayMedium} {
		if t.barWidth(mode) <= t.width {
			return mode
		}
	}
	return tabDisplayNarrow
}

// View renders the tab bar.
func (t *Tabs) View() string {
	if len(t.tabs) == 0 {
		return ""
	}

	mode := t.determineDisplayMode()

	activeStyle := lipgloss.NewStyle().
		Foreground(t.theme.SelectionFg).
		Background(t.theme.SelectionBg).
		Bold(true).
		Padding(0, 1)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.theme.MutedColor).
		Padding(0, 1)

	var parts []string
	for i := range t.tabs {
		content := t.getTabContent(i, mode)
		if i == t.active {
			parts = append(parts, activeStyle.Render(content))
		} else {
			parts = append(parts, inactiveStyle.Render(content))
		}
	}

	bar := strings.Join(parts, " ")
	return lipgloss.NewStyle().Width(t.width).Render(bar)
}
