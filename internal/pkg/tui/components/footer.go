package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/endorses/nekotop/internal/pkg/tui/responsive"
	"github.com/endorses/nekotop/internal/pkg/tui/themes"
	"github.com/endorses/nekotop/internal/pkg/version"
)

// TabKeybind represents a single keybinding shown in the footer.
type TabKeybind struct {
	Key         string // Display key (e.g., "/", "Space", "Enter")
	Description string // Action description (e.g., "filter", "pause")
	ShortDesc   string // Abbreviated description (e.g., "flt")
	Essential   bool   // If true, show even in narrow mode
}

// Footer displays the bottom bar with the keybindings of the active tab.
type Footer struct {
	width       int
	theme       themes.Theme
	activeTab   int
	filterMode  bool
	hasFilter   bool
	paused      bool
	streamsDown []string
}

// NewFooter creates a new footer component.
func NewFooter() Footer {
	return Footer{
		width: 200, // real size arrives with the first WindowSizeMsg
		theme: themes.Solarized(),
	}
}

// SetTheme updates the theme.
func (f *Footer) SetTheme(theme themes.Theme) {
	f.theme = theme
}

// SetWidth sets the footer width.
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetActiveTab sets the active tab index.
func (f *Footer) SetActiveTab(index int) {
	f.activeTab = index
}

// SetFilterMode sets whether filter input is active.
func (f *Footer) SetFilterMode(active bool) {
	f.filterMode = active
}

// SetHasFilter sets whether a filter pattern is currently applied.
func (f *Footer) SetHasFilter(has bool) {
	f.hasFilter = has
}

// SetPaused sets whether display updates are paused.
func (f *Footer) SetPaused(paused bool) {
	f.paused = paused
}

// SetStreamsDown sets the names of streams currently disconnected. A
// non-empty list puts a reconnect banner at the left edge of the bar.
func (f *Footer) SetStreamsDown(names []string) {
	f.streamsDown = names
}

// Tab indices as laid out in the tab bar.
const (
	TabOverview = iota
	TabConnections
	TabProxies
	TabProxyProviders
	TabLogs
	TabRules
	TabRuleProviders
	TabConfig
)

// getTabKeybinds returns the keybindings for a given tab.
func (f *Footer) getTabKeybinds(tab int) []TabKeybind {
	pauseDesc, pauseShort := "pause", "pse"
	if f.paused {
		pauseDesc, pauseShort = "resume", "res"
	}

	common := []TabKeybind{
		{Key: "Tab", Description: "next tab", ShortDesc: "tab", Essential: true},
		{Key: "Space", Description: pauseDesc, ShortDesc: pauseShort, Essential: true},
	}
	filter := TabKeybind{Key: "/", Description: "filter", ShortDesc: "flt", Essential: true}
	sortKey := TabKeybind{Key: "s", Description: "sort", ShortDesc: "srt"}
	tail := []TabKeybind{
		{Key: "?", Description: "help", ShortDesc: "hlp"},
		{Key: "q", Description: "quit", ShortDesc: "qt", Essential: true},
	}

	var binds []TabKeybind
	switch tab {
	case TabOverview:
		binds = common
	case TabConnections:
		binds = append(common,
			filter, sortKey,
			TabKeybind{Key: "Enter", Description: "details", ShortDesc: "dtl", Essential: true},
			TabKeybind{Key: "x", Description: "close conn", ShortDesc: "cls"},
			TabKeybind{Key: "X", Description: "close all", ShortDesc: "clsA"},
		)
	case TabProxies:
		binds = append(common,
			filter,
			TabKeybind{Key: "Enter", Description: "select proxy", ShortDesc: "sel", Essential: true},
			TabKeybind{Key: "t", Description: "test latency", ShortDesc: "tst"},
			TabKeybind{Key: "T", Description: "test group", ShortDesc: "tstG"},
		)
	case TabProxyProviders:
		binds = append(common,
			filter, sortKey,
			TabKeybind{Key: "u", Description: "update", ShortDesc: "upd", Essential: true},
			TabKeybind{Key: "h", Description: "healthcheck", ShortDesc: "hc"},
		)
	case TabLogs:
		binds = append(common,
			filter,
			TabKeybind{Key: "l", Description: "log level", ShortDesc: "lvl"},
			TabKeybind{Key: "c", Description: "clear", ShortDesc: "clr"},
		)
	case TabRules:
		binds = append(common,
			filter,
			TabKeybind{Key: "d", Description: "enable/disable", ShortDesc: "tgl", Essential: true},
		)
	case TabRuleProviders:
		binds = append(common,
			filter, sortKey,
			TabKeybind{Key: "u", Description: "update", ShortDesc: "upd", Essential: true},
		)
	case TabConfig:
		binds = append(common,
			TabKeybind{Key: "e", Description: "edit", ShortDesc: "edt", Essential: true},
			TabKeybind{Key: "r", Description: "reload", ShortDesc: "rld"},
			TabKeybind{Key: "R", Description: "restart core", ShortDesc: "rst"},
			TabKeybind{Key: "f", Description: "flush fakeip", ShortDesc: "fIP"},
			TabKeybind{Key: "F", Description: "flush dns", ShortDesc: "fDNS"},
			TabKeybind{Key: "u", Description: "update geo", ShortDesc: "geo"},
		)
	default:
		binds = common
	}

	return append(binds, tail...)
}

// getResponsiveKeybinds filters and abbreviates keybinds for the width class.
func (f *Footer) getResponsiveKeybinds(binds []TabKeybind, class responsive.WidthClass) []string {
	var parts []string
	for _, kb := range binds {
		if class == responsive.Narrow && !kb.Essential {
			continue
		}
		desc := kb.Description
		if class != responsive.Wide && kb.ShortDesc != "" {
			desc = kb.ShortDesc
		}
		parts = append(parts, fmt.Sprintf("%s: %s", kb.Key, desc))
	}
	return parts
}

// renderFilterModeFooter renders the footer while the filter input is active.
func (f *Footer) renderFilterModeFooter() string {
	style := lipgloss.NewStyle().
		Background(f.theme.StatusBarBg).
		Foreground(f.theme.FilterColor).
		Width(f.width).
		Padding(0, 1)
	return style.Render("FILTER  Enter: apply  Esc: cancel")
}

// View renders the footer bar.
func (f *Footer) View() string {
	if f.filterMode {
		return f.renderFilterModeFooter()
	}

	class := responsive.GetWidthClass(f.width)
	parts := f.getResponsiveKeybinds(f.getTabKeybinds(f.activeTab), class)

	if f.hasFilter {
		clearStyle := lipgloss.NewStyle().Foreground(f.theme.FilterColor)
		parts = append([]string{clearStyle.Render("Esc: clear filter")}, parts...)
	}

	if len(f.streamsDown) > 0 {
		downStyle := lipgloss.NewStyle().Foreground(f.theme.ErrorColor).Bold(true)
		banner := "DOWN " + strings.Join(f.streamsDown, ",") + "  ctrl+r: reconnect"
		parts = append([]string{downStyle.Render(banner)}, parts...)
	}

	left := strings.Join(parts, "  ")
	right := version.Version

	textStyle := lipgloss.NewStyle().
		Foreground(f.theme.StatusBarFg)
	gap := f.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		right = ""
		gap = f.width - lipgloss.Width(left) - 2
		if gap < 0 {
			gap = 0
		}
	}

	bar := " " + textStyle.Render(left) + strings.Repeat(" ", gap) + textStyle.Render(right) + " "
	return lipgloss.NewStyle().
		Background(f.theme.StatusBarBg).
		Width(f.width).
		Render(bar)
}
