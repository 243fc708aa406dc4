package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRule_DecodeWithExtra(t *testing.T) {
	raw := `{
		"type": "RuleSet",
		"payload": "ads",
		"proxy": "REJECT",
		"size": 51207,
		"extra": {"disabled": true, "hitCount": 12, "hitAt": "2025-11-02T10:30:00Z"}
	}`

	var r Rule
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	assert.Equal(t, "RuleSet", r.Type)
	assert.Equal(t, 51207, r.Size)
	require.True(t, r.SupportsDisable())
	assert.True(t, r.Extra.Disabled)
	assert.Equal(t, 12, r.Extra.HitCount)
	assert.Equal(t, 2025, r.Extra.HitAt.Year())
}

func TestRule_DecodeWithoutExtra(t *testing.T) {
	raw := `{"type":"MATCH","payload":"","proxy":"GLOBAL","size":-1}`

	var r Rule
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	assert.Nil(t, r.Extra)
	assert.False(t, r.SupportsDisable())
	assert.Equal(t, -1, r.Size)
}

func TestProxy_LastDelay(t *testing.T) {
	p := Proxy{
		Name: "node-1",
		History: []DelayPoint{
			{Time: time.Now().Add(-2 * time.Minute), Delay: 310},
			{Time: time.Now().Add(-time.Minute), Delay: 95},
		},
	}
	assert.Equal(t, 95, p.LastDelay())

	empty := Proxy{Name: "node-2"}
	assert.Equal(t, 0, empty.LastDelay())
}

func TestConnection_DecodeMetadata(t *testing.T) {
	raw := `{
		"id": "uuid-1",
		"metadata": {
			"network": "tcp",
			"type": "HTTP Connect",
			"sourceIP": "192.168.1.5",
			"destinationIP": "1.2.3.4",
			"sourcePort": "51524",
			"destinationPort": "443",
			"host": "example.com",
			"process": "firefox"
		},
		"upload": 1024,
		"download": 40960,
		"start": "2025-11-02T10:30:00Z",
		"chains": ["DIRECT", "select", "GLOBAL"],
		"rule": "DomainSuffix",
		"rulePayload": "example.com"
	}`

	var conn Connection
	require.NoError(t, json.Unmarshal([]byte(raw), &conn))

	assert.Equal(t, "uuid-1", conn.ID)
	assert.Equal(t, "tcp", conn.Metadata.Network)
	assert.Equal(t, "example.com", conn.Metadata.Host)
	assert.Equal(t, "firefox", conn.Metadata.Process)
	assert.EqualValues(t, 40960, conn.Download)
	assert.Equal(t, []string{"DIRECT", "select", "GLOBAL"}, conn.Chains)
}

func TestProxyProvider_DecodeSubscription(t *testing.T) {
	raw := `{
		"name": "my-sub",
		"type": "Proxy",
		"vehicleType": "HTTP",
		"testUrl": "https://example.com/gen204",
		"updatedAt": "2025-11-01T00:00:00Z",
		"subscriptionInfo": {"Upload": 100, "Download": 2048, "Total": 10240, "Expire": 1767225600},
		"proxies": [{"name":"a","type":"Vmess"},{"name":"b","type":"Trojan"}]
	}`

	var p ProxyProvider
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, "my-sub", p.Name)
	assert.Len(t, p.Proxies, 2)
	require.NotNil(t, p.SubscriptionInfo)
	assert.EqualValues(t, 10240, p.SubscriptionInfo.Total)
	assert.EqualValues(t, 1767225600, p.SubscriptionInfo.Expire)
}
