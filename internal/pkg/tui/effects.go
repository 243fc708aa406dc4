package tui

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/endorses/nekotop/internal/pkg/api"
	"github.com/endorses/nekotop/internal/pkg/constants"
)

// Fetch results carry the epoch they were requested under. The model
// regenerates its epoch when streams reconnect, so results from before
// the reconnect are recognizably stale and dropped.

// VersionResultMsg is the response to a core version fetch.
type VersionResultMsg struct {
	Epoch uuid.UUID
	Info  api.VersionInfo
	Err   error
}

// ProxiesResultMsg is the response to a proxies fetch.
type ProxiesResultMsg struct {
	Epoch   uuid.UUID
	Proxies map[string]api.Proxy
	Err     error
}

// RulesResultMsg is the response to a rules fetch.
type RulesResultMsg struct {
	Epoch uuid.UUID
	Rules []api.Rule
	Err   error
}

// ProxyProvidersResultMsg is the response to a proxy providers fetch,
// sorted by provider name.
type ProxyProvidersResultMsg struct {
	Epoch     uuid.UUID
	Providers []api.ProxyProvider
	Err       error
}

// RuleProvidersResultMsg is the response to a rule providers fetch,
// sorted by provider name.
type RuleProvidersResultMsg struct {
	Epoch     uuid.UUID
	Providers []api.RuleProvider
	Err       error
}

// ConfigResultMsg is the response to a running-config fetch.
type ConfigResultMsg struct {
	Epoch  uuid.UUID
	Config map[string]any
	Err    error
}

// SwitchProxyResultMsg is the outcome of selecting a node in a group.
type SwitchProxyResultMsg struct {
	Group string
	Node  string
	Err   error
}

// DelayResultMsg is the outcome of a single-node latency test.
type DelayResultMsg struct {
	Node  string
	Delay int
	Err   error
}

// GroupDelayResultMsg is the outcome of a whole-group latency test.
// Members holds every node that was marked as testing when the probe
// started; nodes that timed out are absent from Delays.
type GroupDelayResultMsg struct {
	Group   string
	Members []string
	Delays  map[string]int
	Err     error
}

// RuleToggleResultMsg is the outcome of a rule disable/enable patch.
type RuleToggleResultMsg struct {
	Patch map[int]bool
	Err   error
}

// Provider kinds for ProviderUpdateResultMsg.
const (
	providerKindProxy = "proxy"
	providerKindRule  = "rule"
)

// ProviderUpdateResultMsg is the outcome of a provider refresh.
type ProviderUpdateResultMsg struct {
	Kind string
	Name string
	Err  error
}

// HealthCheckResultMsg is the outcome of a provider health check.
type HealthCheckResultMsg struct {
	Name string
	Err  error
}

// ConnCloseResultMsg is the outcome of closing one or all connections.
type ConnCloseResultMsg struct {
	ID  string
	All bool
	Err error
}

// Core maintenance actions.
const (
	actionReload      = "configuration reload"
	actionRestart     = "core restart"
	actionFlushFakeIP = "fake-ip cache flush"
	actionFlushDNS    = "dns cache flush"
	actionUpdateGeo   = "geo database update"
)

// CoreActionResultMsg is the outcome of a core maintenance action.
type CoreActionResultMsg struct {
	Action string
	Err    error
}

// EditorFinishedMsg reports the external editor process exiting.
type EditorFinishedMsg struct {
	Err error
}

// ConfigPatchResultMsg is the outcome of applying edited config keys.
type ConfigPatchResultMsg struct {
	Err error
}

// Confirm dialog intents, carried through ConfirmDialogResult.UserData.
type (
	confirmCloseConn   struct{ id string }
	confirmCloseAll    struct{}
	confirmReload      struct{}
	confirmRestart     struct{}
	confirmFlushFakeIP struct{}
	confirmFlushDNS    struct{}
	confirmUpdateGeo   struct{}
)

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), constants.RequestTimeout)
}

func fetchVersionCmd(client *api.Client, epoch uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		info, err := client.Version(ctx)
		return VersionResultMsg{Epoch: epoch, Info: info, Err: err}
	}
}

func fetchProxiesCmd(client *api.Client, epoch uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		proxies, err := client.Proxies(ctx)
		return ProxiesResultMsg{Epoch: epoch, Proxies: proxies, Err: err}
	}
}

func fetchRulesCmd(client *api.Client, epoch uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		rules, err := client.Rules(ctx)
		return RulesResultMsg{Epoch: epoch, Rules: rules, Err: err}
	}
}

func fetchProxyProvidersCmd(client *api.Client, epoch uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		byName, err := client.ProxyProviders(ctx)
		if err != nil {
			return ProxyProvidersResultMsg{Epoch: epoch, Err: err}
		}
		providers := make([]api.ProxyProvider, 0, len(byName))
		for _, p := range byName {
			providers = append(providers, p)
		}
		sort.Slice(providers, func(i, j int) bool { return providers[i].Name < providers[j].Name })
		return ProxyProvidersResultMsg{Epoch: epoch, Providers: providers}
	}
}

func fetchRuleProvidersCmd(client *api.Client, epoch uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		byName, err := client.RuleProviders(ctx)
		if err != nil {
			return RuleProvidersResultMsg{Epoch: epoch, Err: err}
		}
		providers := make([]api.RuleProvider, 0, len(byName))
		for _, p := range byName {
			providers = append(providers, p)
		}
		sort.Slice(providers, func(i, j int) bool { return providers[i].Name < providers[j].Name })
		return RuleProvidersResultMsg{Epoch: epoch, Providers: providers}
	}
}

func fetchConfigCmd(client *api.Client, epoch uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		cfg, err := client.Configs(ctx)
		return ConfigResultMsg{Epoch: epoch, Config: cfg, Err: err}
	}
}

func switchProxyCmd(client *api.Client, group, node string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		err := client.SwitchProxy(ctx, group, node)
		return SwitchProxyResultMsg{Group: group, Node: node, Err: err}
	}
}

func delayTestCmd(client *api.Client, node, testURL string, timeoutMS int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(),
			constants.RequestTimeout+time.Duration(timeoutMS)*time.Millisecond)
		defer cancel()
		delay, err := client.ProxyDelay(ctx, node, testURL, timeoutMS)
		return DelayResultMsg{Node: node, Delay: delay, Err: err}
	}
}

func groupDelayCmd(client *api.Client, group string, members []string, testURL string, timeoutMS int) tea.Cmd {
	return func() tea.Msg {
		// A group probe covers every member, so it can take the full
		// per-node timeout before the core answers.
		ctx, cancel := context.WithTimeout(context.Background(),
			constants.RequestTimeout+time.Duration(timeoutMS)*time.Millisecond)
		defer cancel()
		delays, err := client.GroupDelay(ctx, group, testURL, timeoutMS)
		return GroupDelayResultMsg{Group: group, Members: members, Delays: delays, Err: err}
	}
}

func ruleToggleCmd(client *api.Client, patch map[int]bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		err := client.SetRulesDisabled(ctx, patch)
		return RuleToggleResultMsg{Patch: patch, Err: err}
	}
}

func proxyProviderUpdateCmd(client *api.Client, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		err := client.UpdateProxyProvider(ctx, name)
		return ProviderUpdateResultMsg{Kind: providerKindProxy, Name: name, Err: err}
	}
}

func ruleProviderUpdateCmd(client *api.Client, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		err := client.UpdateRuleProvider(ctx, name)
		return ProviderUpdateResultMsg{Kind: providerKindRule, Name: name, Err: err}
	}
}

func healthCheckCmd(client *api.Client, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(),
			constants.RequestTimeout+time.Duration(constants.DefaultTestTimeoutMS)*time.Millisecond)
		defer cancel()
		err := client.HealthCheckProvider(ctx, name)
		return HealthCheckResultMsg{Name: name, Err: err}
	}
}

func closeConnCmd(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		err := client.CloseConnection(ctx, id)
		return ConnCloseResultMsg{ID: id, Err: err}
	}
}

func closeAllConnsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		err := client.CloseAllConnections(ctx)
		return ConnCloseResultMsg{All: true, Err: err}
	}
}

func coreActionCmd(client *api.Client, action string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		var err error
		switch action {
		case actionReload:
			err = client.ReloadConfigs(ctx)
		case actionRestart:
			err = client.Restart(ctx)
		case actionFlushFakeIP:
			err = client.FlushFakeIP(ctx)
		case actionFlushDNS:
			err = client.FlushDNS(ctx)
		case actionUpdateGeo:
			err = client.UpdateGeo(ctx)
		default:
			err = fmt.Errorf("unknown core action %q", action)
		}
		return CoreActionResultMsg{Action: action, Err: err}
	}
}

// writeEditorFile materializes the running config so an external editor
// can work on it. The caller removes the file after the round trip.
func writeEditorFile(raw string) (string, error) {
	f, err := os.CreateTemp("", "nekotop-config-*.yaml")
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(raw); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// startEditorCmd suspends the program and hands the terminal to $EDITOR.
func startEditorCmd(path string) tea.Cmd {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	c := exec.Command(editor, path)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return EditorFinishedMsg{Err: err}
	})
}

func applyConfigPatchCmd(client *api.Client, patch map[string]any) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		err := client.PatchConfigs(ctx, patch)
		return ConfigPatchResultMsg{Err: err}
	}
}
