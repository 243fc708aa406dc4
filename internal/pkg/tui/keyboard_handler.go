package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"

	"github.com/endorses/nekotop/internal/pkg/tui/components"
)

// logLevelCycle is the order the logs tab steps through with the level key.
var logLevelCycle = []string{"debug", "info", "warning", "error", "silent"}

// listNavigator is the shared cursor surface of the table-backed tabs.
type listNavigator interface {
	MoveSelection(delta int)
	SelectFirst()
	SelectLast()
	PageSize() int
}

// navigateList applies one cursor movement key, reporting whether the
// key was one.
func navigateList(nav listNavigator, key string) bool {
	switch key {
	case "j", "down":
		nav.MoveSelection(1)
	case "k", "up":
		nav.MoveSelection(-1)
	case "g", "home":
		nav.SelectFirst()
	case "G", "end":
		nav.SelectLast()
	case "pgup":
		nav.MoveSelection(-nav.PageSize())
	case "pgdown":
		nav.MoveSelection(nav.PageSize())
	default:
		return false
	}
	return true
}

// handleFilterKey processes keys while the filter input is open. The
// pattern applies live; Enter keeps it, Esc restores the previous one.
func (m Model) handleFilterKey(msg tea.KeyMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		prev := m.filter.Previous()
		m.filter.Deactivate()
		m.applyFilter(prev)
		m.footer.SetFilterMode(false)
		m.footer.SetHasFilter(prev != "")
		m.layoutViews()
		return m, toastCmd
	case "enter":
		applied := m.filter.Value()
		m.filter.Deactivate()
		m.footer.SetFilterMode(false)
		m.footer.SetHasFilter(applied != "")
		m.layoutViews()
		return m, toastCmd
	default:
		inputCmd := m.filter.Update(msg)
		m.applyFilter(m.filter.Value())
		return m, tea.Batch(toastCmd, inputCmd)
	}
}

func (m Model) handleKeyboard(msg tea.KeyMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		m.bridge.Stop()
		return m, tea.Quit
	}

	if m.helpOpen {
		return m.handleHelpKey(key, toastCmd)
	}

	if m.tabs.GetActive() == components.TabConnections && m.connsView.DetailActive() {
		return m.handleConnDetailKey(key, toastCmd)
	}

	switch key {
	case "1", "2", "3", "4", "5", "6", "7", "8":
		return m.switchTab(int(key[0]-'1'), toastCmd)
	case "tab":
		m.tabs.Next()
		return m.afterTabSwitch(toastCmd)
	case "shift+tab":
		m.tabs.Previous()
		return m.afterTabSwitch(toastCmd)
	case " ":
		return m.togglePause(toastCmd)
	case "ctrl+r":
		return m.reconnectStreams(toastCmd)
	case "?":
		m.helpOpen = true
		m.helpReturnsTab = m.tabs.GetActive()
		m.helpView.GotoTop()
		return m, toastCmd
	case "/":
		if tabFilterable(m.tabs.GetActive()) {
			focusCmd := m.filter.Activate(m.activePattern())
			m.footer.SetFilterMode(true)
			m.layoutViews()
			return m, tea.Batch(toastCmd, focusCmd)
		}
		return m, toastCmd
	case "esc":
		if m.activePattern() != "" {
			m.applyFilter("")
			m.footer.SetHasFilter(false)
		}
		return m, toastCmd
	case "s":
		// The config tab scrolls with plain keys, so s is not sort there.
		if m.tabs.GetActive() != components.TabConfig {
			m.cycleSort()
			return m, toastCmd
		}
	case "S":
		m.toggleSortOrder()
		return m, toastCmd
	}

	return m.handleTabKey(key, toastCmd)
}

func (m Model) handleHelpKey(key string, toastCmd tea.Cmd) (Model, tea.Cmd) {
	switch key {
	case "?", "esc":
		m.helpOpen = false
		m.tabs.SetActive(m.helpReturnsTab)
		return m.afterTabSwitch(toastCmd)
	case "1", "2", "3", "4", "5", "6", "7", "8":
		m.helpOpen = false
		return m.switchTab(int(key[0]-'1'), toastCmd)
	case "j", "down":
		m.helpView.LineDown(1)
	case "k", "up":
		m.helpView.LineUp(1)
	case "pgdown":
		m.helpView.LineDown(10)
	case "pgup":
		m.helpView.LineUp(10)
	case "g", "home":
		m.helpView.GotoTop()
	case "G", "end":
		m.helpView.GotoBottom()
	}
	return m, toastCmd
}

func (m Model) handleConnDetailKey(key string, toastCmd tea.Cmd) (Model, tea.Cmd) {
	switch key {
	case "esc", "enter":
		m.connsView.CloseDetail()
	case "x":
		if row, ok := m.connsView.DetailRow(); ok && !row.Closed {
			m.confirm.Show(components.ConfirmDialogOptions{
				Type:     components.ConfirmDialogWarning,
				Title:    "Close connection",
				Message:  "Close this connection?",
				Details:  []string{connSummary(row.Conn.Metadata.Host, row.Conn.Metadata.DestinationIP)},
				UserData: confirmCloseConn{id: row.Conn.ID},
			})
		}
	}
	return m, toastCmd
}

func (m Model) handleTabKey(key string, toastCmd tea.Cmd) (Model, tea.Cmd) {
	switch m.tabs.GetActive() {
	case components.TabConnections:
		return m.handleConnectionsKey(key, toastCmd)
	case components.TabProxies:
		return m.handleProxiesKey(key, toastCmd)
	case components.TabProxyProviders:
		return m.handleProxyProvidersKey(key, toastCmd)
	case components.TabLogs:
		return m.handleLogsKey(key, toastCmd)
	case components.TabRules:
		return m.handleRulesKey(key, toastCmd)
	case components.TabRuleProviders:
		return m.handleRuleProvidersKey(key, toastCmd)
	case components.TabConfig:
		return m.handleConfigKey(key, toastCmd)
	}
	return m, toastCmd
}

func (m Model) handleConnectionsKey(key string, toastCmd tea.Cmd) (Model, tea.Cmd) {
	if navigateList(m.connsView, key) {
		return m, toastCmd
	}
	switch key {
	case "enter":
		if row, ok := m.connsView.Selected(); ok {
			m.connsView.ShowDetail(row)
		}
	case "x":
		if row, ok := m.connsView.Selected(); ok && !row.Closed {
			m.confirm.Show(components.ConfirmDialogOptions{
				Type:     components.ConfirmDialogWarning,
				Title:    "Close connection",
				Message:  "Close this connection?",
				Details:  []string{connSummary(row.Conn.Metadata.Host, row.Conn.Metadata.DestinationIP)},
				UserData: confirmCloseConn{id: row.Conn.ID},
			})
		}
	case "X":
		m.confirm.Show(components.ConfirmDialogOptions{
			Type:     components.ConfirmDialogDanger,
			Title:    "Close all connections",
			Message:  fmt.Sprintf("Close all %d active connections?", m.connStore.OpenCount()),
			UserData: confirmCloseAll{},
		})
	}
	return m, toastCmd
}

func (m Model) handleProxiesKey(key string, toastCmd tea.Cmd) (Model, tea.Cmd) {
	if navigateList(m.proxiesView, key) {
		return m, toastCmd
	}
	switch key {
	case "enter":
		if group, node, ok := m.proxiesView.Selected(); ok {
			return m, tea.Batch(toastCmd, switchProxyCmd(m.client, group, node))
		}
	case "t":
		if _, node, ok := m.proxiesView.Selected(); ok {
			m.proxiesView.MarkTesting(node)
			return m, tea.Batch(toastCmd, delayTestCmd(m.client, node, m.testURL, m.testTimeoutMS))
		}
	case "T":
		if group, ok := m.proxiesView.SelectedGroup(); ok {
			members := m.proxies[group].All
			m.proxiesView.MarkTesting(members...)
			return m, tea.Batch(toastCmd, groupDelayCmd(m.client, group, members, m.testURL, m.testTimeoutMS))
		}
	}
	return m, toastCmd
}

func (m Model) handleProxyProvidersKey(key string, toastCmd tea.Cmd) (Model, tea.Cmd) {
	if navigateList(m.proxyProvView, key) {
		return m, toastCmd
	}
	switch key {
	case "u":
		if p, ok := m.proxyProvView.Selected(); ok {
			m.proxyProvView.MarkUpdating(p.Name)
			return m, tea.Batch(toastCmd, proxyProviderUpdateCmd(m.client, p.Name))
		}
	case "h":
		if p, ok := m.proxyProvView.Selected(); ok {
			return m, tea.Batch(
				toastCmd,
				m.toast.Show("health checking "+p.Name, components.ToastInfo, components.ToastDurationShort),
				healthCheckCmd(m.client, p.Name),
			)
		}
	}
	return m, toastCmd
}

func (m Model) handleLogsKey(key string, toastCmd tea.Cmd) (Model, tea.Cmd) {
	if navigateList(m.logsView, key) {
		return m, toastCmd
	}
	switch key {
	case "l":
		next := nextLogLevel(m.logsView.Level())
		m.logsView.SetLevel(next)
		m.bridge.SetLogLevel(next)
		return m, tea.Batch(
			toastCmd,
			m.toast.Show("log level: "+next, components.ToastInfo, components.ToastDurationShort),
			m.bridge.Start(streamLogs),
		)
	case "c":
		m.logStore.Clear()
		m.logsView.Ingest(m.logStore.Snapshot())
	}
	return m, toastCmd
}

func (m Model) handleRulesKey(key string, toastCmd tea.Cmd) (Model, tea.Cmd) {
	if navigateList(m.rulesView, key) {
		return m, toastCmd
	}
	if key == "d" {
		patch, ok := m.rulesView.ToggleSelected()
		if !ok {
			return m, tea.Batch(toastCmd, m.toast.Show(
				"this core build does not expose rule toggling", components.ToastInfo, components.ToastDurationNormal))
		}
		return m, tea.Batch(toastCmd, ruleToggleCmd(m.client, patch))
	}
	return m, toastCmd
}

func (m Model) handleRuleProvidersKey(key string, toastCmd tea.Cmd) (Model, tea.Cmd) {
	if navigateList(m.ruleProvView, key) {
		return m, toastCmd
	}
	if key == "u" {
		if p, ok := m.ruleProvView.Selected(); ok {
			m.ruleProvView.MarkUpdating(p.Name)
			return m, tea.Batch(toastCmd, ruleProviderUpdateCmd(m.client, p.Name))
		}
	}
	return m, toastCmd
}

func (m Model) handleConfigKey(key string, toastCmd tea.Cmd) (Model, tea.Cmd) {
	switch key {
	case "j", "down":
		m.configView.LineDown(1)
	case "k", "up":
		m.configView.LineUp(1)
	case "pgdown":
		m.configView.PageDown()
	case "pgup":
		m.configView.PageUp()
	case "g", "home":
		m.configView.GotoTop()
	case "G", "end":
		m.configView.GotoBottom()
	case "e":
		return m.startConfigEdit(toastCmd)
	case "r":
		m.confirm.Show(components.ConfirmDialogOptions{
			Type:     components.ConfirmDialogWarning,
			Title:    "Reload configuration",
			Message:  "Reload the core configuration from disk?",
			UserData: confirmReload{},
		})
	case "R":
		m.confirm.Show(components.ConfirmDialogOptions{
			Type:     components.ConfirmDialogDanger,
			Title:    "Restart core",
			Message:  "Restart the proxy core? All connections will drop.",
			UserData: confirmRestart{},
		})
	case "f":
		m.confirm.Show(components.ConfirmDialogOptions{
			Type:     components.ConfirmDialogWarning,
			Title:    "Flush fake-ip cache",
			Message:  "Flush the fake-ip cache?",
			UserData: confirmFlushFakeIP{},
		})
	case "F":
		m.confirm.Show(components.ConfirmDialogOptions{
			Type:     components.ConfirmDialogWarning,
			Title:    "Flush DNS cache",
			Message:  "Flush the DNS cache?",
			UserData: confirmFlushDNS{},
		})
	case "u":
		m.confirm.Show(components.ConfirmDialogOptions{
			Type:     components.ConfirmDialogWarning,
			Title:    "Update geo databases",
			Message:  "Download fresh geo databases?",
			UserData: confirmUpdateGeo{},
		})
	}
	return m, toastCmd
}

// startConfigEdit writes the running config to a temp file and hands the
// terminal to $EDITOR. Changed top-level keys are patched back on return.
func (m Model) startConfigEdit(toastCmd tea.Cmd) (Model, tea.Cmd) {
	if !m.configView.Loaded() {
		return m, tea.Batch(toastCmd, m.toast.Show(
			"configuration not loaded yet", components.ToastInfo, components.ToastDurationShort))
	}

	raw := m.configView.RawYAML()
	var before map[string]any
	if err := yaml.Unmarshal([]byte(raw), &before); err != nil {
		return m, tea.Batch(toastCmd, m.toast.Show(
			"config parse failed: "+err.Error(), components.ToastError, components.ToastDurationNormal))
	}

	path, err := writeEditorFile(raw)
	if err != nil {
		return m, tea.Batch(toastCmd, m.toast.Show(
			"temp file: "+err.Error(), components.ToastError, components.ToastDurationNormal))
	}

	m.editorPath = path
	m.editorBefore = before
	return m, tea.Batch(toastCmd, startEditorCmd(path))
}

func nextLogLevel(current string) string {
	for i, level := range logLevelCycle {
		if level == current {
			return logLevelCycle[(i+1)%len(logLevelCycle)]
		}
	}
	return logLevelCycle[0]
}

func connSummary(host, destIP string) string {
	if host != "" {
		return host
	}
	return destIP
}

func (m Model) switchTab(idx int, toastCmd tea.Cmd) (Model, tea.Cmd) {
	m.tabs.SetActive(idx)
	return m.afterTabSwitch(toastCmd)
}

// afterTabSwitch syncs the footer and forces the new tab's next REST
// refresh to happen on the upcoming tick.
func (m Model) afterTabSwitch(toastCmd tea.Cmd) (Model, tea.Cmd) {
	tab := m.tabs.GetActive()
	m.footer.SetActiveTab(tab)
	m.footer.SetHasFilter(m.activePattern() != "")
	delete(m.lastRefresh, tab)
	return m, toastCmd
}

func (m Model) togglePause(toastCmd tea.Cmd) (Model, tea.Cmd) {
	m.paused = !m.paused
	if m.paused {
		m.overview.Freeze()
		m.connsView.Freeze()
		m.proxiesView.Freeze()
		m.proxyProvView.Freeze()
		m.logsView.Freeze()
		m.rulesView.Freeze()
		m.ruleProvView.Freeze()
	} else {
		m.overview.Thaw()
		m.connsView.Thaw()
		m.proxiesView.Thaw()
		m.proxyProvView.Thaw()
		m.logsView.Thaw()
		m.rulesView.Thaw()
		m.ruleProvView.Thaw()
	}
	m.header.SetState(m.allStreamsUp(), m.paused)
	m.footer.SetPaused(m.paused)
	return m, toastCmd
}

// tabFilterable reports whether a tab has a pattern filter.
func tabFilterable(tab int) bool {
	switch tab {
	case components.TabConnections, components.TabProxies, components.TabProxyProviders,
		components.TabLogs, components.TabRules, components.TabRuleProviders:
		return true
	}
	return false
}

// activePattern returns the filter pattern applied on the active tab.
func (m Model) activePattern() string {
	switch m.tabs.GetActive() {
	case components.TabConnections:
		return m.connsView.Pattern()
	case components.TabProxies:
		return m.proxiesView.Pattern()
	case components.TabProxyProviders:
		return m.proxyProvView.Pattern()
	case components.TabLogs:
		return m.logsView.Pattern()
	case components.TabRules:
		return m.rulesView.Pattern()
	case components.TabRuleProviders:
		return m.ruleProvView.Pattern()
	}
	return ""
}

// applyFilter sets the pattern on the active tab's view.
func (m *Model) applyFilter(pattern string) {
	switch m.tabs.GetActive() {
	case components.TabConnections:
		m.connsView.SetPattern(pattern)
	case components.TabProxies:
		m.proxiesView.SetPattern(pattern)
	case components.TabProxyProviders:
		m.proxyProvView.SetPattern(pattern)
	case components.TabLogs:
		m.logsView.SetPattern(pattern)
	case components.TabRules:
		m.rulesView.SetPattern(pattern)
	case components.TabRuleProviders:
		m.ruleProvView.SetPattern(pattern)
	}
}

// cycleSort advances the sort column on tabs with sortable tables.
func (m *Model) cycleSort() {
	switch m.tabs.GetActive() {
	case components.TabConnections:
		m.connsView.CycleSort()
	case components.TabProxyProviders:
		m.proxyProvView.CycleSort()
	case components.TabRuleProviders:
		m.ruleProvView.CycleSort()
	}
}

// toggleSortOrder flips ascending/descending on tabs with sortable tables.
func (m *Model) toggleSortOrder() {
	switch m.tabs.GetActive() {
	case components.TabConnections:
		m.connsView.ToggleOrder()
	case components.TabProxyProviders:
		m.proxyProvView.ToggleOrder()
	case components.TabRuleProviders:
		m.ruleProvView.ToggleOrder()
	}
}
