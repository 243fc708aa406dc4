// Package api implements the typed client for a Clash-Meta-compatible
// control API: one-shot request/response calls over HTTP plus streaming
// endpoints over WebSocket. The client owns no shared UI state; every
// operation returns values and errors for the caller to route.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/endorses/nekotop/internal/pkg/constants"
	"github.com/endorses/nekotop/internal/pkg/logger"
	"github.com/endorses/nekotop/internal/pkg/version"
)

// Client talks to one control API endpoint.
type Client struct {
	base   string
	secret string
	httpc  *http.Client
}

// New creates a client for the given base URL. The secret may be empty.
func New(baseURL, secret string) (*Client, error) {
	base := strings.TrimRight(baseURL, "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse control API URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("control API URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("control API URL %q has no host", baseURL)
	}
	return &Client{
		base:   base,
		secret: secret,
		httpc:  &http.Client{Timeout: constants.RequestTimeout},
	}, nil
}

// BaseURL returns the configured endpoint for display.
func (c *Client) BaseURL() string {
	return c.base
}

// Connect verifies the control API is reachable and compatible by fetching
// its version. Fails fast with a ConnectError; there is no retry loop.
func (c *Client) Connect(ctx context.Context) (VersionInfo, error) {
	var info VersionInfo
	if err := c.do(ctx, http.MethodGet, "/version", nil, nil, &info); err != nil {
		return VersionInfo{}, &ConnectError{URL: c.base, Err: err}
	}
	logger.Info("connected to control API",
		"url", c.base,
		"core_version", info.Version,
		"meta", info.Meta)
	return info, nil
}

// Version fetches the core version.
func (c *Client) Version(ctx context.Context) (VersionInfo, error) {
	var info VersionInfo
	err := c.do(ctx, http.MethodGet, "/version", nil, nil, &info)
	return info, err
}

// Proxies returns every proxy node and group, keyed by name.
func (c *Client) Proxies(ctx context.Context) (map[string]Proxy, error) {
	var resp proxiesResponse
	if err := c.do(ctx, http.MethodGet, "/proxies", nil, nil, &resp); err != nil {
		return nil, err
	}
	for name, p := range resp.Proxies {
		if p.Name == "" {
			p.Name = name
			resp.Proxies[name] = p
		}
	}
	return resp.Proxies, nil
}

// SwitchProxy selects a node inside a selector group.
func (c *Client) SwitchProxy(ctx context.Context, group, name string) error {
	body := map[string]string{"name": name}
	return c.do(ctx, http.MethodPut, "/proxies/"+url.PathEscape(group), nil, body, nil)
}

// ProxyDelay probes one node once and returns its latency in milliseconds.
// No internal retry; a failed probe is the result.
func (c *Client) ProxyDelay(ctx context.Context, name, testURL string, timeoutMS int) (int, error) {
	q := url.Values{}
	q.Set("url", testURL)
	q.Set("timeout", strconv.Itoa(timeoutMS))
	var resp delayResponse
	err := c.do(ctx, http.MethodGet, "/proxies/"+url.PathEscape(name)+"/delay", q, nil, &resp)
	return resp.Delay, err
}

// GroupDelay probes every node of a group and returns latencies keyed by
// node name. Nodes that failed the probe are absent from the result.
func (c *Client) GroupDelay(ctx context.Context, group, testURL string, timeoutMS int) (map[string]int, error) {
	q := url.Values{}
	q.Set("url", testURL)
	q.Set("timeout", strconv.Itoa(timeoutMS))
	var resp map[string]int
	err := c.do(ctx, http.MethodGet, "/group/"+url.PathEscape(group)+"/delay", q, nil, &resp)
	return resp, err
}

// ProxyProviders returns external node sources keyed by provider name.
func (c *Client) ProxyProviders(ctx context.Context) (map[string]ProxyProvider, error) {
	var resp proxyProvidersResponse
	if err := c.do(ctx, http.MethodGet, "/providers/proxies", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Providers, nil
}

// UpdateProxyProvider refetches a provider's node list from its source.
func (c *Client) UpdateProxyProvider(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPut, "/providers/proxies/"+url.PathEscape(name), nil, nil, nil)
}

// HealthCheckProvider triggers a health check across a provider's nodes.
func (c *Client) HealthCheckProvider(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodGet, "/providers/proxies/"+url.PathEscape(name)+"/healthcheck", nil, nil, nil)
}

// Rules returns the routing rules in evaluation order. The wire position
// is the rule index; disable requests refer to it.
func (c *Client) Rules(ctx context.Context) ([]Rule, error) {
	var resp rulesResponse
	if err := c.do(ctx, http.MethodGet, "/rules", nil, nil, &resp); err != nil {
		return nil, err
	}
	for i := range resp.Rules {
		resp.Rules[i].Index = i
	}
	return resp.Rules, nil
}

// SetRulesDisabled submits accumulated disable-state changes in one batch,
// keyed by rule index.
func (c *Client) SetRulesDisabled(ctx context.Context, changes map[int]bool) error {
	if len(changes) == 0 {
		return nil
	}
	body := make(map[string]bool, len(changes))
	for idx, disabled := range changes {
		body[strconv.Itoa(idx)] = disabled
	}
	return c.do(ctx, http.MethodPatch, "/rules/disable", nil, body, nil)
}

// RuleProviders returns external rulesets keyed by provider name.
func (c *Client) RuleProviders(ctx context.Context) (map[string]RuleProvider, error) {
	var resp ruleProvidersResponse
	if err := c.do(ctx, http.MethodGet, "/providers/rules", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Providers, nil
}

// UpdateRuleProvider refetches a ruleset from its source.
func (c *Client) UpdateRuleProvider(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPut, "/providers/rules/"+url.PathEscape(name), nil, nil, nil)
}

// Configs returns the core's current configuration document.
func (c *Client) Configs(ctx context.Context) (map[string]any, error) {
	var doc map[string]any
	if err := c.do(ctx, http.MethodGet, "/configs", nil, nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// PatchConfigs applies a partial configuration change.
func (c *Client) PatchConfigs(ctx context.Context, patch map[string]any) error {
	if len(patch) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodPatch, "/configs", nil, patch, nil)
}

// ReloadConfigs asks the core to reload its configuration from disk.
func (c *Client) ReloadConfigs(ctx context.Context) error {
	q := url.Values{}
	q.Set("force", "true")
	body := map[string]string{"path": "", "payload": ""}
	return c.do(ctx, http.MethodPut, "/configs", q, body, nil)
}

// Restart restarts the core process.
func (c *Client) Restart(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/restart", nil, nil, nil)
}

// FlushFakeIP clears the fake-ip cache.
func (c *Client) FlushFakeIP(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/cache/fakeip/flush", nil, nil, nil)
}

// FlushDNS clears the DNS cache.
func (c *Client) FlushDNS(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/cache/dns/flush", nil, nil, nil)
}

// UpdateGeo refreshes the GEO databases.
func (c *Client) UpdateGeo(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/configs/geo", nil, nil, nil)
}

// CloseConnection terminates one tracked connection. The endpoint always
// returns an empty body.
func (c *Client) CloseConnection(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/connections/"+url.PathEscape(id), nil, nil, nil)
}

// CloseAllConnections terminates every tracked connection.
func (c *Client) CloseAllConnections(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/connections", nil, nil, nil)
}

// GroupNames returns selectable group names ordered like the GLOBAL group
// when present, with hidden groups dropped. Falls back to name order.
func GroupNames(proxies map[string]Proxy) []string {
	global, hasGlobal := proxies["GLOBAL"]

	isVisibleGroup := func(name string) bool {
		p, ok := proxies[name]
		return ok && p.IsGroup() && !p.Hidden
	}

	var names []string
	if hasGlobal {
		for _, name := range global.All {
			if isVisibleGroup(name) {
				names = append(names, name)
			}
		}
		if isVisibleGroup("GLOBAL") {
			names = append(names, "GLOBAL")
		}
		return names
	}

	for name, p := range proxies {
		if p.IsGroup() && !p.Hidden {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// do performs one request. A non-2xx status or transport failure comes
// back as an APIError so the dispatcher can report it without inspecting
// HTTP details. path must already be escaped; it is used verbatim.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	op := method + " " + path

	endpoint := c.base + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &APIError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, rd)
	if err != nil {
		return &APIError{Op: op, Err: err}
	}
	req.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.secret != "" {
		req.Header.Set("Authorization", "Bearer "+c.secret)
	}

	logger.Trace("control API request", "op", op)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &APIError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := strings.TrimSpace(string(detail))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Op: op, Status: resp.StatusCode, Err: errors.New(msg)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
