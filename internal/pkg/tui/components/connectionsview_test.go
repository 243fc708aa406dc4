package components

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/endorses/nekotop/internal/pkg/api"
	"github.com/endorses/nekotop/internal/pkg/tui/responsive"
	"github.com/endorses/nekotop/internal/pkg/tui/store"
)

func testConnRow(id, host string) store.ConnRow {
	return store.ConnRow{
		Conn: api.Connection{
			ID: id,
			Metadata: api.ConnectionMetadata{
				Network:         "tcp",
				Host:            host,
				SourceIP:        "192.168.1.10",
				SourcePort:      "52311",
				DestinationIP:   "104.16.0.1",
				DestinationPort: "443",
			},
			Start:       time.Now().Add(-time.Minute),
			Chains:      []string{"ExitNode", "Selector", "GLOBAL"},
			Rule:        "DomainSuffix",
			RulePayload: "example.com",
			Upload:      1024,
			Download:    4096,
		},
	}
}

func TestConnHost(t *testing.T) {
	row := testConnRow("c1", "example.com")
	assert.Equal(t, "example.com:443", connHost(row))

	// Without a sniffed hostname the destination address stands in.
	row.Conn.Metadata.Host = ""
	assert.Equal(t, "104.16.0.1:443", connHost(row))

	row.Conn.Metadata.DestinationPort = ""
	assert.Equal(t, "104.16.0.1", connHost(row))
}

func TestConnChainsReversed(t *testing.T) {
	row := testConnRow("c1", "example.com")

	// Wire order is exit-first; display shows the path as traversed.
	assert.Equal(t, "GLOBAL > Selector > ExitNode", connChains(row))
}

func TestConnRule(t *testing.T) {
	row := testConnRow("c1", "example.com")
	assert.Equal(t, "DomainSuffix(example.com)", connRule(row))

	row.Conn.RulePayload = ""
	assert.Equal(t, "DomainSuffix", connRule(row))
}

func TestConnNetwork(t *testing.T) {
	row := testConnRow("c1", "example.com")
	assert.Equal(t, "tcp", connNetwork(row))

	row.Conn.Metadata.Type = "HTTPS"
	assert.Equal(t, "tcp/HTTPS", connNetwork(row))
}

func TestDisplayColumnSubsets(t *testing.T) {
	narrow := displayColumnIDs(responsive.Narrow)
	medium := displayColumnIDs(responsive.Medium)
	wide := displayColumnIDs(responsive.Wide)

	assert.Len(t, narrow, 3)
	assert.Len(t, medium, 5)
	assert.Len(t, wide, 9)
	assert.Contains(t, wide, "chains")
	assert.NotContains(t, narrow, "chains")
}

func TestSelectColumns(t *testing.T) {
	cols := connectionColumns()
	picked := selectColumns(cols, []string{"age", "host", "bogus"})

	require.Len(t, picked, 2)
	assert.Equal(t, "age", picked[0].ID)
	assert.Equal(t, "host", picked[1].ID)
}

func TestConnectionsView_IngestAndFilter(t *testing.T) {
	v := NewConnectionsView()
	v.Ingest([]store.ConnRow{
		testConnRow("c1", "example.com"),
		testConnRow("c2", "github.com"),
	})
	require.Equal(t, 2, v.RowCount())

	v.SetPattern("github")
	assert.Equal(t, 1, v.RowCount())

	row, ok := v.Selected()
	require.True(t, ok)
	assert.Equal(t, "c2", row.Conn.ID)
}

func TestConnectionsView_NarrowWidthHidesColumns(t *testing.T) {
	v := NewConnectionsView()
	v.Ingest([]store.ConnRow{testConnRow("c1", "example.com")})

	v.SetSize(60, 20)
	assert.NotContains(t, v.View(), "Chains")

	v.SetSize(200, 20)
	assert.Contains(t, v.View(), "Chains")
}

func TestConnectionsView_Detail(t *testing.T) {
	v := NewConnectionsView()
	v.SetSize(100, 30)
	row := testConnRow("c1", "example.com")
	v.Ingest([]store.ConnRow{row})
	require.False(t, v.DetailActive())

	v.ShowDetail(row)
	assert.True(t, v.DetailActive())

	out := v.View()
	assert.Contains(t, out, "example.com:443")
	assert.Contains(t, out, "GLOBAL > Selector > ExitNode")
	assert.Contains(t, out, "x: close connection")

	v.CloseDetail()
	assert.False(t, v.DetailActive())
	_, ok := v.DetailRow()
	assert.False(t, ok)
}

func TestConnectionsView_ClosedDetailFooter(t *testing.T) {
	v := NewConnectionsView()
	v.SetSize(100, 30)
	row := testConnRow("c1", "example.com")
	row.Closed = true
	row.ClosedAt = time.Now()

	v.ShowDetail(row)
	out := v.View()
	assert.Contains(t, out, "closed")
	assert.NotContains(t, out, "x: close connection")
}
