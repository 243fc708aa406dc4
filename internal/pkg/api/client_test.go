package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   []byte
}

func newTestClient(t *testing.T, secret string, status int, respBody string, rec *recordedRequest) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rec != nil {
			rec.method = r.Method
			rec.path = r.URL.EscapedPath()
			rec.query = r.URL.Query()
			rec.header = r.Header.Clone()
			rec.body, _ = io.ReadAll(r.Body)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, secret)
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := New("ftp://127.0.0.1:9090", "")
	assert.Error(t, err)

	_, err = New("http://", "")
	assert.Error(t, err)

	c, err := New("http://127.0.0.1:9090/", "")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9090", c.BaseURL())
}

func TestClient_Connect(t *testing.T) {
	var rec recordedRequest
	c := newTestClient(t, "s3cret", http.StatusOK, `{"version":"v1.18.0","meta":true}`, &rec)

	info, err := c.Connect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "v1.18.0", info.Version)
	assert.True(t, info.Meta)
	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/version", rec.path)
	assert.Equal(t, "Bearer s3cret", rec.header.Get("Authorization"))
	assert.Contains(t, rec.header.Get("User-Agent"), "nekotop/")
}

func TestClient_Connect_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listening anymore

	c, err := New(srv.URL, "")
	require.NoError(t, err)

	_, err = c.Connect(context.Background())
	require.Error(t, err)

	var connErr *ConnectError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, srv.URL, connErr.URL)
}

func TestClient_NoAuthHeaderWithoutSecret(t *testing.T) {
	var rec recordedRequest
	c := newTestClient(t, "", http.StatusOK, `{"version":"v1.18.0"}`, &rec)

	_, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rec.header.Get("Authorization"))
}

func TestClient_ErrorStatusMapping(t *testing.T) {
	c := newTestClient(t, "", http.StatusUnauthorized, `{"message":"Unauthorized"}`, nil)

	_, err := c.Proxies(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Contains(t, apiErr.Error(), "GET /proxies")
	assert.Contains(t, apiErr.Error(), "Unauthorized")
}

func TestClient_Proxies_FillsMissingNames(t *testing.T) {
	body := `{"proxies":{
		"GLOBAL":{"type":"Selector","now":"auto","all":["auto","DIRECT"]},
		"DIRECT":{"name":"DIRECT","type":"Direct"}
	}}`
	c := newTestClient(t, "", http.StatusOK, body, nil)

	proxies, err := c.Proxies(context.Background())
	require.NoError(t, err)
	require.Len(t, proxies, 2)

	assert.Equal(t, "GLOBAL", proxies["GLOBAL"].Name)
	assert.Equal(t, "DIRECT", proxies["DIRECT"].Name)
	assert.True(t, proxies["GLOBAL"].IsGroup())
	assert.False(t, proxies["DIRECT"].IsGroup())
}

func TestClient_SwitchProxy_EscapesGroupName(t *testing.T) {
	var rec recordedRequest
	c := newTestClient(t, "", http.StatusNoContent, "", &rec)

	err := c.SwitchProxy(context.Background(), "My Group", "node-1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/proxies/My%20Group", rec.path)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.body, &body))
	assert.Equal(t, "node-1", body["name"])
}

func TestClient_ProxyDelay_QueryParams(t *testing.T) {
	var rec recordedRequest
	c := newTestClient(t, "", http.StatusOK, `{"delay":153}`, &rec)

	delay, err := c.ProxyDelay(context.Background(), "node-1", "https://example.com/gen204", 5000)
	require.NoError(t, err)

	assert.Equal(t, 153, delay)
	assert.Equal(t, "/proxies/node-1/delay", rec.path)
	assert.Equal(t, "https://example.com/gen204", rec.query.Get("url"))
	assert.Equal(t, "5000", rec.query.Get("timeout"))
}

func TestClient_GroupDelay(t *testing.T) {
	var rec recordedRequest
	c := newTestClient(t, "", http.StatusOK, `{"node-1":42,"node-2":180}`, &rec)

	delays, err := c.GroupDelay(context.Background(), "auto", "https://example.com/gen204", 5000)
	require.NoError(t, err)

	assert.Equal(t, "/group/auto/delay", rec.path)
	assert.Equal(t, map[string]int{"node-1": 42, "node-2": 180}, delays)
}

func TestClient_Rules_AssignsPositionalIndex(t *testing.T) {
	body := `{"rules":[
		{"type":"DOMAIN-SUFFIX","payload":"example.com","proxy":"DIRECT"},
		{"type":"GEOIP","payload":"CN","proxy":"DIRECT","size":1234},
		{"type":"MATCH","payload":"","proxy":"GLOBAL"}
	]}`
	c := newTestClient(t, "", http.StatusOK, body, nil)

	rules, err := c.Rules(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 3)

	for i, r := range rules {
		assert.Equal(t, i, r.Index)
	}
	assert.Equal(t, 1234, rules[1].Size)
	assert.False(t, rules[0].SupportsDisable())
}

func TestClient_SetRulesDisabled(t *testing.T) {
	var rec recordedRequest
	c := newTestClient(t, "", http.StatusNoContent, "", &rec)

	err := c.SetRulesDisabled(context.Background(), map[int]bool{3: true, 17: false})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, rec.method)
	assert.Equal(t, "/rules/disable", rec.path)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.body, &body))
	assert.Equal(t, map[string]bool{"3": true, "17": false}, body)
}

func TestClient_SetRulesDisabled_EmptyIsNoop(t *testing.T) {
	var rec recordedRequest
	c := newTestClient(t, "", http.StatusInternalServerError, "", &rec)

	// No request should be sent, so the 500 handler must never fire.
	err := c.SetRulesDisabled(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, rec.method)
}

func TestClient_ReloadConfigs(t *testing.T) {
	var rec recordedRequest
	c := newTestClient(t, "", http.StatusNoContent, "", &rec)

	err := c.ReloadConfigs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/configs", rec.path)
	assert.Equal(t, "true", rec.query.Get("force"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.body, &body))
	assert.Equal(t, "", body["path"])
	assert.Equal(t, "", body["payload"])
}

func TestClient_Configs(t *testing.T) {
	c := newTestClient(t, "", http.StatusOK, `{"mode":"rule","mixed-port":7890}`, nil)

	doc, err := c.Configs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rule", doc["mode"])
	assert.EqualValues(t, 7890, doc["mixed-port"])
}

func TestClient_CloseConnection(t *testing.T) {
	var rec recordedRequest
	c := newTestClient(t, "", http.StatusNoContent, "", &rec)

	err := c.CloseConnection(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/connections/abc-123", rec.path)

	err = c.CloseAllConnections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/connections", rec.path)
}

func TestClient_ProviderEndpoints(t *testing.T) {
	var rec recordedRequest
	c := newTestClient(t, "", http.StatusNoContent, "", &rec)

	require.NoError(t, c.UpdateProxyProvider(context.Background(), "my sub"))
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/providers/proxies/my%20sub", rec.path)

	require.NoError(t, c.HealthCheckProvider(context.Background(), "my sub"))
	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/providers/proxies/my%20sub/healthcheck", rec.path)

	require.NoError(t, c.UpdateRuleProvider(context.Background(), "ads"))
	assert.Equal(t, "/providers/rules/ads", rec.path)
}

func TestGroupNames_GlobalOrder(t *testing.T) {
	proxies := map[string]Proxy{
		"GLOBAL": {Name: "GLOBAL", Type: "Selector", All: []string{"select", "auto", "DIRECT", "hidden-group"}},
		"select": {Name: "select", Type: "Selector", All: []string{"a", "b"}},
		"auto":   {Name: "auto", Type: "URLTest", All: []string{"a", "b"}},
		"hidden-group": {
			Name: "hidden-group", Type: "Selector", All: []string{"a"}, Hidden: true,
		},
		"DIRECT": {Name: "DIRECT", Type: "Direct"},
		"a":      {Name: "a", Type: "Shadowsocks"},
		"b":      {Name: "b", Type: "Vmess"},
	}

	names := GroupNames(proxies)
	assert.Equal(t, []string{"select", "auto", "GLOBAL"}, names)
}

func TestGroupNames_NoGlobalFallsBackToSorted(t *testing.T) {
	proxies := map[string]Proxy{
		"zeta":  {Name: "zeta", Type: "Selector", All: []string{"a"}},
		"alpha": {Name: "alpha", Type: "URLTest", All: []string{"a"}},
		"a":     {Name: "a", Type: "Vmess"},
	}

	names := GroupNames(proxies)
	assert.Equal(t, []string{"alpha", "zeta"}, names)
}

func TestClient_ContextCancellation(t *testing.T) {
	c := newTestClient(t, "", http.StatusOK, `{}`, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Version(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
