package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/endorses/nekotop/internal/pkg/tui/components"
)

// View renders the full screen: header, tab bar, active tab content,
// the filter line while typing, footer. The confirm dialog and the help
// overlay replace the content band; a visible toast floats above the
// footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "starting nekotop..."
	}

	contentHeight := m.height - chromeRows
	if m.filter.Active() {
		contentHeight--
	}
	if contentHeight < 3 {
		contentHeight = 3
	}

	var content string
	switch {
	case m.confirm.IsActive():
		content = m.confirm.View()
	case m.helpOpen:
		content = m.helpView.View()
	default:
		content = m.activeTabView()
	}

	content = lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	if m.toast.Visible() && !m.confirm.IsActive() {
		content = spliceToast(content, m.toast.View(), m.width)
	}

	sections := []string{
		m.header.View(),
		m.tabs.View(),
		content,
	}
	if m.filter.Active() {
		sections = append(sections, m.filter.View())
	}
	sections = append(sections, m.footer.View())
	return strings.Join(sections, "\n")
}

func (m Model) activeTabView() string {
	switch m.tabs.GetActive() {
	case components.TabOverview:
		return m.overview.View()
	case components.TabConnections:
		return m.connsView.View()
	case components.TabProxies:
		return m.proxiesView.View()
	case components.TabProxyProviders:
		return m.proxyProvView.View()
	case components.TabLogs:
		return m.logsView.View()
	case components.TabRules:
		return m.rulesView.View()
	case components.TabRuleProviders:
		return m.ruleProvView.View()
	case components.TabConfig:
		return m.configView.View()
	}
	return ""
}

// spliceToast replaces the bottom rows of the content band with the
// toast, centered. Whole lines are swapped so styling stays intact.
func spliceToast(content, toast string, width int) string {
	lines := strings.Split(content, "\n")
	band := lipgloss.Place(width, lipgloss.Height(toast), lipgloss.Center, lipgloss.Center, toast)
	bandLines := strings.Split(band, "\n")
	if len(bandLines) >= len(lines) {
		return content
	}
	copy(lines[len(lines)-len(bandLines):], bandLines)
	return strings.Join(lines, "\n")
}
