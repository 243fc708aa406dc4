package tui

import (
	"fmt"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/endorses/nekotop/internal/pkg/api"
	"github.com/endorses/nekotop/internal/pkg/constants"
	"github.com/endorses/nekotop/internal/pkg/logger"
	"github.com/endorses/nekotop/internal/pkg/tui/components"
)

// chromeRows is the fixed vertical space around the tab content:
// header, tab bar, footer.
const chromeRows = 3

// layoutViews propagates the current terminal size to every component.
// Called on resize and when the filter input line appears or goes away.
func (m *Model) layoutViews() {
	contentHeight := m.height - chromeRows
	if m.filter.Active() {
		contentHeight--
	}
	if contentHeight < 3 {
		contentHeight = 3
	}

	m.header.SetWidth(m.width)
	m.tabs.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.filter.SetWidth(m.width)
	m.toast.SetSize(m.width, m.height)

	// The confirm dialog centers itself inside the content band so the
	// header, tab bar and footer stay visible around it.
	m.confirm.SetSize(m.width, contentHeight)

	m.overview.SetSize(m.width, contentHeight)
	m.connsView.SetSize(m.width, contentHeight)
	m.proxiesView.SetSize(m.width, contentHeight)
	m.proxyProvView.SetSize(m.width, contentHeight)
	m.logsView.SetSize(m.width, contentHeight)
	m.rulesView.SetSize(m.width, contentHeight)
	m.ruleProvView.SetSize(m.width, contentHeight)
	m.configView.SetSize(m.width, contentHeight)
	m.helpView.SetSize(m.width, contentHeight)
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.layoutViews()
	return m
}

func (m Model) handleTick(toastCmd tea.Cmd) (Model, tea.Cmd) {
	m.refreshHeader()
	m.pushOverview()

	cmds := []tea.Cmd{tickCmd(), toastCmd}
	if cmd := m.scheduledRefresh(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// refreshHeader feeds the header the latest rates, totals and counts.
func (m *Model) refreshHeader() {
	traffic, _ := m.metrics.Last()
	m.header.SetRates(float64(traffic.Up), float64(traffic.Down))
	upTotal, downTotal := m.metrics.Totals()
	m.header.SetTotals(upTotal, downTotal)
	m.header.SetConnCounts(m.connStore.OpenCount(), m.connStore.Total())
}

// pushOverview hands the overview tab a fresh snapshot. The view keeps
// showing its frozen copy while paused.
func (m *Model) pushOverview() {
	up, down := m.metrics.TrafficWindows()
	traffic, memory := m.metrics.Last()
	upTotal, downTotal := m.metrics.Totals()
	groups, nodes := countProxies(m.proxies)

	m.overview.SetData(components.OverviewData{
		UpWindow:   up,
		DownWindow: down,
		MemWindow:  m.metrics.MemoryWindow(),

		UpRate:   float64(traffic.Up),
		DownRate: float64(traffic.Down),
		MemInUse: memory.InUse,

		UpTotal:   upTotal,
		DownTotal: downTotal,

		ActiveConns: m.connStore.OpenCount(),
		TotalConns:  m.connStore.Total(),

		NodeCount:       nodes,
		GroupCount:      groups,
		RuleCount:       m.ruleCount,
		ProxyProviders:  m.proxyProvCount,
		RuleProviders:   m.ruleProvCount,
		CoreVersion:     m.coreVersion.Version,
		CorePremiumMeta: m.coreVersion.Meta,
	})
}

// countProxies splits the proxy map into visible groups and plain nodes.
// GLOBAL aggregates every proxy and would double count, so it is only
// counted when it is a selectable group itself.
func countProxies(proxies map[string]api.Proxy) (groups, nodes int) {
	groups = len(api.GroupNames(proxies))
	for _, p := range proxies {
		if !p.IsGroup() && !p.Hidden {
			nodes++
		}
	}
	return groups, nodes
}

// scheduledRefresh refetches the REST-backed list of the active tab once
// its refresh interval has elapsed. Stream-fed tabs never poll.
func (m *Model) scheduledRefresh() tea.Cmd {
	tab := m.tabs.GetActive()
	now := time.Now()
	if last, ok := m.lastRefresh[tab]; ok && now.Sub(last) < constants.RESTRefreshInterval {
		return nil
	}

	var cmd tea.Cmd
	switch tab {
	case components.TabOverview:
		cmd = tea.Batch(
			fetchProxiesCmd(m.client, m.epoch),
			fetchRulesCmd(m.client, m.epoch),
			fetchProxyProvidersCmd(m.client, m.epoch),
			fetchRuleProvidersCmd(m.client, m.epoch),
		)
	case components.TabProxies:
		cmd = fetchProxiesCmd(m.client, m.epoch)
	case components.TabProxyProviders:
		cmd = fetchProxyProvidersCmd(m.client, m.epoch)
	case components.TabRules:
		cmd = fetchRulesCmd(m.client, m.epoch)
	case components.TabRuleProviders:
		cmd = fetchRuleProvidersCmd(m.client, m.epoch)
	case components.TabConfig:
		cmd = fetchConfigCmd(m.client, m.epoch)
	}
	if cmd != nil {
		m.lastRefresh[tab] = now
	}
	return cmd
}

// refetchAll reloads every REST-backed dataset under the current epoch.
func (m Model) refetchAll() tea.Cmd {
	return tea.Batch(
		fetchVersionCmd(m.client, m.epoch),
		fetchProxiesCmd(m.client, m.epoch),
		fetchRulesCmd(m.client, m.epoch),
		fetchProxyProvidersCmd(m.client, m.epoch),
		fetchRuleProvidersCmd(m.client, m.epoch),
		fetchConfigCmd(m.client, m.epoch),
	)
}

func (m Model) allStreamsUp() bool {
	return m.streamsUp[streamTraffic] && m.streamsUp[streamMemory] &&
		m.streamsUp[streamLogs] && m.streamsUp[streamConnections]
}

// downStreams lists the streams currently marked down, in dial order.
func (m Model) downStreams() []string {
	var down []string
	for _, name := range []string{streamTraffic, streamMemory, streamLogs, streamConnections} {
		if up, seen := m.streamsUp[name]; seen && !up {
			down = append(down, name)
		}
	}
	return down
}

func (m Model) handleConnectionsFrame(msg ConnectionsMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	m.connStore.Apply(msg.Frame.Events)
	m.metrics.SetTotals(msg.Frame.UploadTotal, msg.Frame.DownloadTotal)
	m.connsView.Ingest(m.connStore.Snapshot())
	return m, toastCmd
}

func (m Model) handleStreamUp(msg StreamUpMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	_, seen := m.streamsUp[msg.Stream]
	wasDown := seen && !m.streamsUp[msg.Stream]
	m.streamsUp[msg.Stream] = true
	m.header.SetState(m.allStreamsUp(), m.paused)
	m.footer.SetStreamsDown(m.downStreams())

	if !wasDown {
		return m, toastCmd
	}

	// The core may have restarted behind the reconnect. Refetch under a
	// new epoch so results still in flight from before the drop are
	// recognizably stale.
	logger.Info("stream reconnected", "stream", msg.Stream)
	m.epoch = uuid.New()
	return m, tea.Batch(
		toastCmd,
		m.toast.Show(msg.Stream+" stream reconnected", components.ToastSuccess, components.ToastDurationShort),
		m.refetchAll(),
	)
}

// handleStreamDown marks the stream inert. There is no background retry
// loop: the feature stays dead until ctrl+r redials the down streams.
func (m Model) handleStreamDown(msg StreamDownMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	m.streamsUp[msg.Stream] = false
	m.header.SetState(false, m.paused)
	m.footer.SetStreamsDown(m.downStreams())

	var showCmd tea.Cmd
	if msg.Err != nil {
		showCmd = m.toast.Show(
			fmt.Sprintf("%s stream down: %v (ctrl+r to reconnect)", msg.Stream, msg.Err),
			components.ToastError, components.ToastDurationLong)
	}
	return m, tea.Batch(toastCmd, showCmd)
}

// reconnectStreams redials every stream currently marked down.
func (m Model) reconnectStreams(toastCmd tea.Cmd) (Model, tea.Cmd) {
	cmds := []tea.Cmd{toastCmd}
	for _, name := range m.downStreams() {
		cmds = append(cmds, m.bridge.Start(name))
	}
	if len(cmds) == 1 {
		return m, tea.Batch(toastCmd, m.toast.Show(
			"all streams are up", components.ToastInfo, components.ToastDurationShort))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleVersionResult(msg VersionResultMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	if msg.Epoch != m.epoch {
		return m, toastCmd
	}
	if msg.Err != nil {
		return m, tea.Batch(toastCmd, m.toast.Show(
			"version fetch failed: "+msg.Err.Error(), components.ToastError, components.ToastDurationNormal))
	}
	m.coreVersion = msg.Info
	m.header.SetCoreVersion(msg.Info.Version)
	return m, toastCmd
}

func (m Model) handleProxiesResult(msg ProxiesResultMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	if msg.Epoch != m.epoch {
		return m, toastCmd
	}
	if msg.Err != nil {
		return m, tea.Batch(toastCmd, m.toast.Show(
			"proxies fetch failed: "+msg.Err.Error(), components.ToastError, components.ToastDurationNormal))
	}
	m.proxies = msg.Proxies
	m.proxiesView.Ingest(msg.Proxies)
	return m, toastCmd
}

func (m Model) handleRulesResult(msg RulesResultMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	if msg.Epoch != m.epoch {
		return m, toastCmd
	}
	if msg.Err != nil {
		return m, tea.Batch(toastCmd, m.toast.Show(
			"rules fetch failed: "+msg.Err.Error(), components.ToastError, components.ToastDurationNormal))
	}
	m.ruleCount = len(msg.Rules)
	m.rulesView.Ingest(msg.Rules)
	return m, toastCmd
}

func (m Model) handleProxyProvidersResult(msg ProxyProvidersResultMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	if msg.Epoch != m.epoch {
		return m, toastCmd
	}
	if msg.Err != nil {
		return m, tea.Batch(toastCmd, m.toast.Show(
			"proxy providers fetch failed: "+msg.Err.Error(), components.ToastError, components.ToastDurationNormal))
	}
	m.proxyProvCount = len(msg.Providers)
	m.proxyProvView.Ingest(msg.Providers)
	return m, toastCmd
}

func (m Model) handleRuleProvidersResult(msg RuleProvidersResultMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	if msg.Epoch != m.epoch {
		return m, toastCmd
	}
	if msg.Err != nil {
		return m, tea.Batch(toastCmd, m.toast.Show(
			"rule providers fetch failed: "+msg.Err.Error(), components.ToastError, components.ToastDurationNormal))
	}
	m.ruleProvCount = len(msg.Providers)
	m.ruleProvView.Ingest(msg.Providers)
	return m, toastCmd
}

func (m Model) handleConfigResult(msg ConfigResultMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	if msg.Epoch != m.epoch {
		return m, toastCmd
	}
	if msg.Err != nil {
		return m, tea.Batch(toastCmd, m.toast.Show(
			"config fetch failed: "+msg.Err.Error(), components.ToastError, components.ToastDurationNormal))
	}
	if err := m.configView.SetConfig(msg.Config); err != nil {
		return m, tea.Batch(toastCmd, m.toast.Show(
			"config render failed: "+err.Error(), components.ToastError, components.ToastDurationNormal))
	}
	return m, toastCmd
}

func (m Model) handleSwitchProxyResult(msg SwitchProxyResultMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	if msg.Err != nil {
		return m, tea.Batch(toastCmd, m.toast.Show(
			fmt.Sprintf("switch failed: %v", msg.Err), components.ToastError, components.ToastDurationNormal))
	}
	return m, tea.Batch(
		toastCmd,
		m.toast.Show(fmt.Sprintf("%s now uses %s", msg.Group, msg.Node), components.ToastSuccess, components.ToastDurationShort),
		fetchProxiesCmd(m.client, m.epoch),
	)
}

func (m Model) handleDelayResult(msg DelayResultMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	m.proxiesView.ClearTesting(msg.Node)
	if msg.Err != nil {
		return m, tea.Batch(toastCmd, m.toast.Show(
			fmt.Sprintf("latency test %s: %v", msg.Node, msg.Err), components.ToastError, components.ToastDurationNormal))
	}
	return m, tea.Batch(
		toastCmd,
		m.toast.Show(fmt.Sprintf("%s: %d ms", msg.Node, msg.Delay), components.ToastSuccess, components.ToastDurationShort),
		fetchProxiesCmd(m.client, m.epoch),
	)
}

func (m Model) handleGroupDelayResult(msg GroupDelayResultMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	m.proxiesView.ClearTesting(msg.Members...)
	if msg.Err != nil {
		return m, tea.Batch(toastCmd, m.toast.Show(
			fmt.Sprintf("group test %s: %v", msg.Group, msg.Err), components.ToastError, components.ToastDurationNormal))
	}
	return m, tea.Batch(
		toastCmd,
		m.toast.Show(fmt.Sprintf("%s: tested %d nodes", msg.Group, len(msg.Delays)), components.ToastSuccess, components.ToastDurationShort),
		fetchProxiesCmd(m.client, m.epoch),
	)
}

func (m Model) handleRuleToggleResult(msg RuleToggleResultMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.rulesView.Rollback(msg.Patch)
		logger.Error("rule toggle failed", "rules", patchRuleRefs(msg.Patch), "error", msg.Err)
		return m, tea.Batch(toastCmd, m.toast.Show(
			fmt.Sprintf("toggle rule %s failed: %v", patchRuleRefs(msg.Patch), msg.Err),
			components.ToastError, components.ToastDurationNormal))
	}
	m.rulesView.Confirm(msg.Patch)
	return m, tea.Batch(toastCmd, fetchRulesCmd(m.client, m.epoch))
}

// patchRuleRefs names the rules a toggle patch covers, for messages.
func patchRuleRefs(patch map[int]bool) string {
	idxs := make([]int, 0, len(patch))
	for idx := range patch {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	parts := make([]string, len(idxs))
	for i, idx := range idxs {
		parts[i] = "#" + strconv.Itoa(idx)
	}
	return strings.Join(parts, ",")
}

func (m Model) handleProviderUpdateResult(msg ProviderUpdateResultMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	var refetch tea.Cmd
	switch msg.Kind {
	case providerKindProxy:
		m.proxyProvView.ClearUpdating(msg.Name)
		refetch = tea.Batch(
			fetchProxyProvidersCmd(m.client, m.epoch),
			fetchProxiesCmd(m.client, m.epoch),
		)
	case providerKindRule:
		m.ruleProvView.ClearUpdating(msg.Name)
		refetch = tea.Batch(
			fetchRuleProvidersCmd(m.client, m.epoch),
			fetchRulesCmd(m.client, m.epoch),
		)
	}
	if msg.Err != nil {
		return m, tea.Batch(toastCmd, refetch, m.toast.Show(
			fmt.Sprintf("update %s failed: %v", msg.Name, msg.Err), components.ToastError, components.ToastDurationNormal))
	}
	return m, tea.Batch(
		toastCmd,
		refetch,
		m.toast.Show("provider "+msg.Name+" updated", components.ToastSuccess, components.ToastDurationShort),
	)
}

func (m Model) handleHealthCheckResult(msg HealthCheckResultMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	if msg.Err != nil {
		return m, tea.Batch(toastCmd, m.toast.Show(
			fmt.Sprintf("health check %s: %v", msg.Name, msg.Err), components.ToastError, components.ToastDurationNormal))
	}
	return m, tea.Batch(
		toastCmd,
		m.toast.Show("health check "+msg.Name+" finished", components.ToastSuccess, components.ToastDurationShort),
		fetchProxyProvidersCmd(m.client, m.epoch),
		fetchProxiesCmd(m.client, m.epoch),
	)
}

func (m Model) handleConnCloseResult(msg ConnCloseResultMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	if msg.Err != nil {
		return m, tea.Batch(toastCmd, m.toast.Show(
			fmt.Sprintf("close failed: %v", msg.Err), components.ToastError, components.ToastDurationNormal))
	}
	text := "connection closed"
	if msg.All {
		text = "all connections closed"
	}
	return m, tea.Batch(toastCmd, m.toast.Show(text, components.ToastSuccess, components.ToastDurationShort))
}

func (m Model) handleCoreActionResult(msg CoreActionResultMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	if msg.Err != nil {
		return m, tea.Batch(toastCmd, m.toast.Show(
			fmt.Sprintf("%s failed: %v", msg.Action, msg.Err), components.ToastError, components.ToastDurationLong))
	}

	cmds := []tea.Cmd{
		toastCmd,
		m.toast.Show(msg.Action+" done", components.ToastSuccess, components.ToastDurationShort),
	}
	if msg.Action == actionReload {
		cmds = append(cmds, m.refetchAll())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleEditorFinished(msg EditorFinishedMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	path := m.editorPath
	before := m.editorBefore
	m.editorPath = ""
	m.editorBefore = nil
	if path == "" {
		return m, toastCmd
	}

	if msg.Err != nil {
		os.Remove(path)
		return m, tea.Batch(toastCmd, m.toast.Show(
			"editor: "+msg.Err.Error(), components.ToastError, components.ToastDurationNormal))
	}

	data, err := os.ReadFile(path)
	os.Remove(path)
	if err != nil {
		return m, tea.Batch(toastCmd, m.toast.Show(
			"read edited config: "+err.Error(), components.ToastError, components.ToastDurationNormal))
	}

	var after map[string]any
	if err := yaml.Unmarshal(data, &after); err != nil {
		return m, tea.Batch(toastCmd, m.toast.Show(
			"edited config is not valid yaml: "+err.Error(), components.ToastError, components.ToastDurationLong))
	}

	patch := diffTopLevel(before, after)
	if len(patch) == 0 {
		return m, tea.Batch(toastCmd, m.toast.Show(
			"no config changes", components.ToastInfo, components.ToastDurationShort))
	}
	return m, tea.Batch(toastCmd, applyConfigPatchCmd(m.client, patch))
}

// diffTopLevel returns the keys whose values changed between two config
// documents. Deleted keys are skipped: the patch endpoint merges keys
// and cannot remove them.
func diffTopLevel(before, after map[string]any) map[string]any {
	patch := make(map[string]any)
	for k, v := range after {
		if old, ok := before[k]; !ok || !reflect.DeepEqual(old, v) {
			patch[k] = v
		}
	}
	return patch
}

func (m Model) handleConfigPatchResult(msg ConfigPatchResultMsg, toastCmd tea.Cmd) (Model, tea.Cmd) {
	if msg.Err != nil {
		return m, tea.Batch(toastCmd, m.toast.Show(
			"config patch failed: "+msg.Err.Error(), components.ToastError, components.ToastDurationLong))
	}
	return m, tea.Batch(
		toastCmd,
		m.toast.Show("config updated", components.ToastSuccess, components.ToastDurationShort),
		fetchConfigCmd(m.client, m.epoch),
	)
}

func (m Model) handleConfirmResult(msg components.ConfirmDialogResult, toastCmd tea.Cmd) (Model, tea.Cmd) {
	if !msg.Confirmed {
		return m, toastCmd
	}

	switch intent := msg.UserData.(type) {
	case confirmCloseConn:
		return m, tea.Batch(toastCmd, closeConnCmd(m.client, intent.id))
	case confirmCloseAll:
		return m, tea.Batch(toastCmd, closeAllConnsCmd(m.client))
	case confirmReload:
		return m, tea.Batch(toastCmd, coreActionCmd(m.client, actionReload))
	case confirmRestart:
		return m, tea.Batch(toastCmd, coreActionCmd(m.client, actionRestart))
	case confirmFlushFakeIP:
		return m, tea.Batch(toastCmd, coreActionCmd(m.client, actionFlushFakeIP))
	case confirmFlushDNS:
		return m, tea.Batch(toastCmd, coreActionCmd(m.client, actionFlushDNS))
	case confirmUpdateGeo:
		return m, tea.Batch(toastCmd, coreActionCmd(m.client, actionUpdateGeo))
	}
	return m, toastCmd
}
