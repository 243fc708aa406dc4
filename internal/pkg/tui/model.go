package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/endorses/nekotop/internal/pkg/api"
	"github.com/endorses/nekotop/internal/pkg/config"
	"github.com/endorses/nekotop/internal/pkg/constants"
	"github.com/endorses/nekotop/internal/pkg/tui/components"
	"github.com/endorses/nekotop/internal/pkg/tui/store"
	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

// TickMsg drives periodic redraws and refresh scheduling.
type TickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(constants.TUITickInterval, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Model is the application state. Stream pumps and request commands
// feed it messages; all mutation happens inside Update.
type Model struct {
	client *api.Client
	bridge *Bridge

	// Data stores. Ingest keeps running while the display is paused.
	connStore *store.ConnStore
	logStore  *store.LogStore
	metrics   *store.MetricsHistory

	// Chrome components.
	theme     themes.Theme
	themeName string
	header    components.Header
	tabs      components.Tabs
	footer    components.Footer
	toast     components.Toast
	confirm   components.ConfirmDialog
	filter    components.FilterInput

	// Tab views.
	overview       *components.OverviewView
	connsView      *components.ConnectionsView
	proxiesView    *components.ProxiesView
	proxyProvView  *components.ProxyProvidersView
	logsView       *components.LogsView
	rulesView      *components.RulesView
	ruleProvView   *components.RuleProvidersView
	configView     *components.ConfigView
	helpView       *components.HelpView
	helpOpen       bool
	helpReturnsTab int

	// Cached REST state for the overview counters.
	coreVersion    api.VersionInfo
	proxies        map[string]api.Proxy
	ruleCount      int
	proxyProvCount int
	ruleProvCount  int

	// epoch invalidates in-flight request results across reconnects.
	epoch       uuid.UUID
	streamsUp   map[string]bool
	paused      bool
	quitting    bool
	width       int
	height      int
	lastRefresh map[int]time.Time

	// Latency probe settings from the config.
	testURL       string
	testTimeoutMS int

	// Config editor round trip state.
	editorPath   string
	editorBefore map[string]any
}

// NewModel builds the initial application state around a connected client.
func NewModel(client *api.Client) Model {
	themeName := viper.GetString(config.KeyTheme)
	theme := themes.GetTheme(themeName)

	// The logs tab starts at info; the level key cycles it live.
	logLevel := "info"

	m := Model{
		client:    client,
		connStore: store.NewConnStore(constants.ConnsBufferSize),
		logStore:  store.NewLogStore(constants.LogsBufferSize),
		metrics:   store.NewMetricsHistory(constants.MetricsWindowSize),

		theme:     theme,
		themeName: themeName,
		header:    components.NewHeader(),
		tabs: components.NewTabs([]components.Tab{
			{Label: "Overview", ShortLabel: "Over"},
			{Label: "Connections", ShortLabel: "Conns"},
			{Label: "Proxies", ShortLabel: "Prox"},
			{Label: "Proxy Providers", ShortLabel: "PProv"},
			{Label: "Logs", ShortLabel: "Logs"},
			{Label: "Rules", ShortLabel: "Rules"},
			{Label: "Rule Providers", ShortLabel: "RProv"},
			{Label: "Config", ShortLabel: "Conf"},
		}),
		footer:  components.NewFooter(),
		toast:   components.NewToast(),
		confirm: components.NewConfirmDialog(),
		filter:  components.NewFilterInput(),

		overview:      components.NewOverviewView(),
		connsView:     components.NewConnectionsView(),
		proxiesView:   components.NewProxiesView(),
		proxyProvView: components.NewProxyProvidersView(),
		logsView:      components.NewLogsView(logLevel),
		rulesView:     components.NewRulesView(),
		ruleProvView:  components.NewRuleProvidersView(),
		configView:    components.NewConfigView(themeName),
		helpView:      components.NewHelpView(),

		epoch:       uuid.New(),
		streamsUp:   make(map[string]bool),
		lastRefresh: make(map[int]time.Time),

		testURL:       viper.GetString(config.KeyTestURL),
		testTimeoutMS: viper.GetInt(config.KeyTestTimeoutMS),
	}

	// Init fetches these lists already; stamping them keeps the first
	// tick from refetching immediately. The config tab stays unstamped
	// so it loads the moment it is opened.
	now := time.Now()
	for _, tab := range []int{
		components.TabOverview, components.TabProxies, components.TabProxyProviders,
		components.TabRules, components.TabRuleProviders,
	} {
		m.lastRefresh[tab] = now
	}

	m.bridge = NewBridge(client, logLevel)
	m.applyTheme()
	m.header.SetEndpoint(client.BaseURL())
	return m
}

// BridgeRef exposes the stream bridge so the caller can attach the
// program handle after tea.NewProgram.
func (m *Model) BridgeRef() *Bridge {
	return m.bridge
}

// applyTheme pushes the active theme into every component.
func (m *Model) applyTheme() {
	m.header.SetTheme(m.theme)
	m.tabs.SetTheme(m.theme)
	m.footer.SetTheme(m.theme)
	m.toast.SetTheme(m.theme)
	m.confirm.SetTheme(m.theme)
	m.filter.SetTheme(m.theme)
	m.overview.SetTheme(m.theme)
	m.connsView.SetTheme(m.theme)
	m.proxiesView.SetTheme(m.theme)
	m.proxyProvView.SetTheme(m.theme)
	m.logsView.SetTheme(m.theme)
	m.rulesView.SetTheme(m.theme)
	m.ruleProvView.SetTheme(m.theme)
	m.configView.SetTheme(m.theme)
	m.helpView.SetTheme(m.theme)
}

// Init starts the tick loop, the stream pumps, and the first data fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.bridge.StartAll(),
		fetchVersionCmd(m.client, m.epoch),
		fetchProxiesCmd(m.client, m.epoch),
		fetchRulesCmd(m.client, m.epoch),
		fetchProxyProvidersCmd(m.client, m.epoch),
		fetchRuleProvidersCmd(m.client, m.epoch),
	)
}

// Update routes messages. The toast countdown runs first so it keeps
// ticking under any modal; the confirm dialog and filter input swallow
// key input while active.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var toastCmd tea.Cmd
	if m.toast.Visible() {
		toastCmd = m.toast.Update(msg)
	}

	if m.confirm.IsActive() {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Batch(toastCmd, m.confirm.Update(msg))
		}
	}

	if m.filter.Active() {
		if key, ok := msg.(tea.KeyMsg); ok {
			return m.handleFilterKey(key, toastCmd)
		}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyboard(msg, toastCmd)
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), toastCmd
	case TickMsg:
		return m.handleTick(toastCmd)

	case TrafficMsg:
		m.metrics.PushTraffic(msg.Sample)
		return m, toastCmd
	case MemoryMsg:
		m.metrics.PushMemory(msg.Sample)
		return m, toastCmd
	case LogMsg:
		m.logStore.Add(store.LogRow{Level: msg.Line.Type, Payload: msg.Line.Payload, At: time.Now()})
		m.logsView.Ingest(m.logStore.Snapshot())
		return m, toastCmd
	case ConnectionsMsg:
		return m.handleConnectionsFrame(msg, toastCmd)
	case StreamUpMsg:
		return m.handleStreamUp(msg, toastCmd)
	case StreamDownMsg:
		return m.handleStreamDown(msg, toastCmd)

	case VersionResultMsg:
		return m.handleVersionResult(msg, toastCmd)
	case ProxiesResultMsg:
		return m.handleProxiesResult(msg, toastCmd)
	case RulesResultMsg:
		return m.handleRulesResult(msg, toastCmd)
	case ProxyProvidersResultMsg:
		return m.handleProxyProvidersResult(msg, toastCmd)
	case RuleProvidersResultMsg:
		return m.handleRuleProvidersResult(msg, toastCmd)
	case ConfigResultMsg:
		return m.handleConfigResult(msg, toastCmd)

	case SwitchProxyResultMsg:
		return m.handleSwitchProxyResult(msg, toastCmd)
	case DelayResultMsg:
		return m.handleDelayResult(msg, toastCmd)
	case GroupDelayResultMsg:
		return m.handleGroupDelayResult(msg, toastCmd)
	case RuleToggleResultMsg:
		return m.handleRuleToggleResult(msg, toastCmd)
	case ProviderUpdateResultMsg:
		return m.handleProviderUpdateResult(msg, toastCmd)
	case HealthCheckResultMsg:
		return m.handleHealthCheckResult(msg, toastCmd)
	case ConnCloseResultMsg:
		return m.handleConnCloseResult(msg, toastCmd)
	case CoreActionResultMsg:
		return m.handleCoreActionResult(msg, toastCmd)
	case EditorFinishedMsg:
		return m.handleEditorFinished(msg, toastCmd)
	case ConfigPatchResultMsg:
		return m.handleConfigPatchResult(msg, toastCmd)

	case components.ConfirmDialogResult:
		return m.handleConfirmResult(msg, toastCmd)
	}

	return m, toastCmd
}
