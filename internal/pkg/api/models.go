package api

import "time"

// VersionInfo is returned by GET /version.
type VersionInfo struct {
	Version string `json:"version"`
	Meta    bool   `json:"meta"`
}

// Traffic is one byte-rate sample from the /traffic stream, in bytes/second.
type Traffic struct {
	Up   int64 `json:"up"`
	Down int64 `json:"down"`
}

// Memory is one heap sample from the /memory stream.
type Memory struct {
	InUse   int64 `json:"inuse"`
	OSLimit int64 `json:"oslimit"`
}

// LogLine is one core log record from the /logs stream.
type LogLine struct {
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

// ConnectionMetadata describes one tracked connection's endpoints.
type ConnectionMetadata struct {
	Network         string `json:"network"`
	Type            string `json:"type"`
	SourceIP        string `json:"sourceIP"`
	DestinationIP   string `json:"destinationIP"`
	SourcePort      string `json:"sourcePort"`
	DestinationPort string `json:"destinationPort"`
	Host            string `json:"host"`
	DNSMode         string `json:"dnsMode"`
	Process         string `json:"process"`
	ProcessPath     string `json:"processPath"`
	SpecialProxy    string `json:"specialProxy"`
}

// Connection is one entry of a /connections snapshot. Chains are in wire
// order, exit node first; display reverses them.
type Connection struct {
	ID          string             `json:"id"`
	Metadata    ConnectionMetadata `json:"metadata"`
	Upload      int64              `json:"upload"`
	Download    int64              `json:"download"`
	Start       time.Time          `json:"start"`
	Chains      []string           `json:"chains"`
	Rule        string             `json:"rule"`
	RulePayload string             `json:"rulePayload"`
}

// ConnectionsSnapshot is one full-state frame from the /connections stream.
// The core sends the complete current connection set on each interval.
type ConnectionsSnapshot struct {
	DownloadTotal int64        `json:"downloadTotal"`
	UploadTotal   int64        `json:"uploadTotal"`
	Connections   []Connection `json:"connections"`
	Memory        int64        `json:"memory"`
}

// DelayPoint is one historical latency probe result for a proxy node.
type DelayPoint struct {
	Time  time.Time `json:"time"`
	Delay int       `json:"delay"`
}

// Proxy is a node or group from GET /proxies. Groups carry All and Now;
// leaf nodes carry latency History.
type Proxy struct {
	Name    string       `json:"name"`
	Type    string       `json:"type"`
	Now     string       `json:"now"`
	All     []string     `json:"all"`
	History []DelayPoint `json:"history"`
	Alive   bool         `json:"alive"`
	UDP     bool         `json:"udp"`
	XUDP    bool         `json:"xudp"`
	Hidden  bool         `json:"hidden"`
}

// IsGroup reports whether the proxy is a selectable group rather than a node.
func (p Proxy) IsGroup() bool {
	return len(p.All) > 0
}

// LastDelay returns the most recent probe latency, 0 when unknown.
func (p Proxy) LastDelay() int {
	if len(p.History) == 0 {
		return 0
	}
	return p.History[len(p.History)-1].Delay
}

type proxiesResponse struct {
	Proxies map[string]Proxy `json:"proxies"`
}

type delayResponse struct {
	Delay int `json:"delay"`
}

// RuleExtra carries the disable flag and hit statistics on cores that
// support per-rule state. Cores without it return rules with Extra nil.
type RuleExtra struct {
	Disabled bool   `json:"disabled"`
	HitCount int    `json:"hitCount"`
	HitAt    string `json:"hitAt"`
}

// Rule is one routing rule from GET /rules. Index is assigned from wire
// position when the core does not provide it.
type Rule struct {
	Type    string     `json:"type"`
	Payload string     `json:"payload"`
	Proxy   string     `json:"proxy"`
	Size    int        `json:"size"`
	Index   int        `json:"index"`
	Extra   *RuleExtra `json:"extra"`
}

// SupportsDisable reports whether the core exposes per-rule disable state.
func (r Rule) SupportsDisable() bool {
	return r.Extra != nil
}

type rulesResponse struct {
	Rules []Rule `json:"rules"`
}

// RuleProvider is one external ruleset from GET /providers/rules.
type RuleProvider struct {
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Behavior    string    `json:"behavior"`
	Format      string    `json:"format"`
	VehicleType string    `json:"vehicleType"`
	RuleCount   int       `json:"ruleCount"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ruleProvidersResponse struct {
	Providers map[string]RuleProvider `json:"providers"`
}

// SubscriptionInfo is airtime accounting attached to subscription-backed
// proxy providers. The core serializes these keys capitalized.
type SubscriptionInfo struct {
	Upload   int64 `json:"Upload"`
	Download int64 `json:"Download"`
	Total    int64 `json:"Total"`
	Expire   int64 `json:"Expire"`
}

// ProxyProvider is one node source from GET /providers/proxies.
type ProxyProvider struct {
	Name             string            `json:"name"`
	Type             string            `json:"type"`
	VehicleType      string            `json:"vehicleType"`
	Proxies          []Proxy           `json:"proxies"`
	TestURL          string            `json:"testUrl"`
	ExpectedStatus   string            `json:"expectedStatus"`
	UpdatedAt        time.Time         `json:"updatedAt"`
	SubscriptionInfo *SubscriptionInfo `json:"subscriptionInfo"`
}

type proxyProvidersResponse struct {
	Providers map[string]ProxyProvider `json:"providers"`
}
