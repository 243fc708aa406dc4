package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/endorses/nekotop/internal/pkg/tui/filters"
	"github.com/endorses/nekotop/internal/pkg/tui/responsive"
	"github.com/endorses/nekotop/internal/pkg/tui/store"
	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

// ConnectionsView is the live connection table. Filtering and sorting
// run over the full column schema even when a narrow terminal hides
// some columns from display.
type ConnectionsView struct {
	list     *store.ListState[store.ConnRow]
	table    *Table[store.ConnRow]
	theme    themes.Theme
	width    int
	height   int
	detail   *store.ConnRow
	detailAt time.Time
}

// connHost returns the display host, preferring the sniffed hostname
// over the raw destination address.
func connHost(row store.ConnRow) string {
	host := row.Conn.Metadata.Host
	if host == "" {
		host = row.Conn.Metadata.DestinationIP
	}
	if port := row.Conn.Metadata.DestinationPort; port != "" {
		host += ":" + port
	}
	return host
}

// connRule renders the matched rule with its payload when present.
func connRule(row store.ConnRow) string {
	if row.Conn.RulePayload == "" {
		return row.Conn.Rule
	}
	return row.Conn.Rule + "(" + row.Conn.RulePayload + ")"
}

// connChains renders the proxy chain entry-first, the reverse of wire
// order.
func connChains(row store.ConnRow) string {
	chains := row.Conn.Chains
	parts := make([]string, 0, len(chains))
	for i := len(chains) - 1; i >= 0; i-- {
		parts = append(parts, chains[i])
	}
	return strings.Join(parts, " > ")
}

func connNetwork(row store.ConnRow) string {
	net := row.Conn.Metadata.Network
	if row.Conn.Metadata.Type != "" {
		net += "/" + row.Conn.Metadata.Type
	}
	return net
}

func connSource(row store.ConnRow) string {
	return row.Conn.Metadata.SourceIP + ":" + row.Conn.Metadata.SourcePort
}

func connAge(row store.ConnRow) string {
	end := time.Now()
	if row.Closed && !row.ClosedAt.IsZero() {
		end = row.ClosedAt
	}
	return formatAge(end.Sub(row.Conn.Start))
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// connectionColumns is the full schema: every filterable and sortable
// field, whether or not the current width shows it.
func connectionColumns() []filters.Column[store.ConnRow] {
	return []filters.Column[store.ConnRow]{
		{
			ID: "host", Title: "Host", Width: 0,
			Filterable: true, Sortable: true,
			Text:    connHost,
			Compare: func(a, b store.ConnRow) int { return strings.Compare(connHost(a), connHost(b)) },
		},
		{
			ID: "network", Title: "Net", Width: 9,
			Filterable: true,
			Text:       connNetwork,
		},
		{
			ID: "rule", Title: "Rule", Width: 20,
			Filterable: true, Sortable: true,
			Text:    connRule,
			Compare: func(a, b store.ConnRow) int { return strings.Compare(connRule(a), connRule(b)) },
		},
		{
			ID: "chains", Title: "Chains", Width: 22,
			Filterable: true, Sortable: true,
			Text:    connChains,
			Compare: func(a, b store.ConnRow) int { return strings.Compare(connChains(a), connChains(b)) },
		},
		{
			ID: "ul_rate", Title: "UL", Width: 9, AlignRight: true,
			Sortable: true,
			Text:     func(r store.ConnRow) string { return formatRate(float64(r.UploadRate)) },
			Compare:  func(a, b store.ConnRow) int { return compareInt64(a.UploadRate, b.UploadRate) },
		},
		{
			ID: "dl_rate", Title: "DL", Width: 9, AlignRight: true,
			Sortable: true,
			Text:     func(r store.ConnRow) string { return formatRate(float64(r.DownloadRate)) },
			Compare:  func(a, b store.ConnRow) int { return compareInt64(a.DownloadRate, b.DownloadRate) },
		},
		{
			ID: "ul_total", Title: "UL Σ", Width: 8, AlignRight: true,
			Sortable: true,
			Text:     func(r store.ConnRow) string { return formatBytes(r.Conn.Upload) },
			Compare:  func(a, b store.ConnRow) int { return compareInt64(a.Conn.Upload, b.Conn.Upload) },
		},
		{
			ID: "dl_total", Title: "DL Σ", Width: 8, AlignRight: true,
			Sortable: true,
			Text:     func(r store.ConnRow) string { return formatBytes(r.Conn.Download) },
			Compare:  func(a, b store.ConnRow) int { return compareInt64(a.Conn.Download, b.Conn.Download) },
		},
		{
			ID: "source", Title: "Source", Width: 20,
			Filterable: true, Sortable: true,
			Text:    connSource,
			Compare: func(a, b store.ConnRow) int { return strings.Compare(connSource(a), connSource(b)) },
		},
		{
			ID: "age", Title: "Age", Width: 7, AlignRight: true,
			Sortable: true,
			Text:     connAge,
			Compare: func(a, b store.ConnRow) int {
				// Older start sorts as larger age.
				return b.Conn.Start.Compare(a.Conn.Start)
			},
		},
	}
}

// displayColumnIDs picks the column subset for the width class. Hidden
// columns stay active for filtering and sorting.
func displayColumnIDs(class responsive.WidthClass) []string {
	switch class {
	case responsive.Narrow:
		return []string{"host", "dl_rate", "age"}
	case responsive.Medium:
		return []string{"host", "rule", "ul_rate", "dl_rate", "age"}
	default:
		return []string{"host", "network", "rule", "chains", "ul_rate", "dl_rate", "ul_total", "dl_total", "age"}
	}
}

func selectColumns[T any](cols []filters.Column[T], ids []string) []filters.Column[T] {
	out := make([]filters.Column[T], 0, len(ids))
	for _, id := range ids {
		for _, col := range cols {
			if col.ID == id {
				out = append(out, col)
				break
			}
		}
	}
	return out
}

// NewConnectionsView creates the connections tab view.
func NewConnectionsView() *ConnectionsView {
	cols := connectionColumns()
	v := &ConnectionsView{
		list:  store.NewListState(cols),
		table: NewTable(cols),
		theme: themes.Solarized(),
	}
	v.table.SetRowStyle(v.rowStyle)
	return v
}

func (v *ConnectionsView) rowStyle(row store.ConnRow) lipgloss.Style {
	if row.Closed {
		return lipgloss.NewStyle().Foreground(v.theme.MutedColor)
	}
	return lipgloss.NewStyle().Foreground(v.theme.Foreground)
}

// SetTheme updates the view theme.
func (v *ConnectionsView) SetTheme(theme themes.Theme) {
	v.theme = theme
	v.table.SetTheme(theme)
}

// SetSize updates the view dimensions and the displayed column subset.
func (v *ConnectionsView) SetSize(width, height int) {
	v.width = width
	v.height = height
	class := responsive.GetWidthClass(width)
	v.table = NewTable(selectColumns(connectionColumns(), displayColumnIDs(class)))
	v.table.SetTheme(v.theme)
	v.table.SetRowStyle(v.rowStyle)
	v.table.SetSize(width, height)
}

// Ingest records the newest connection rows.
func (v *ConnectionsView) Ingest(rows []store.ConnRow) {
	v.list.SetRows(rows)
}

// Freeze pins the current view for paused display.
func (v *ConnectionsView) Freeze() { v.list.Freeze() }

// Thaw resumes live display.
func (v *ConnectionsView) Thaw() { v.list.Thaw() }

// Pattern returns the active filter pattern.
func (v *ConnectionsView) Pattern() string { return v.list.Pattern() }

// SetPattern applies a filter pattern.
func (v *ConnectionsView) SetPattern(p string) { v.list.SetPattern(p) }

// CycleSort advances to the next sortable column.
func (v *ConnectionsView) CycleSort() { v.list.CycleSort() }

// ToggleOrder flips the sort direction.
func (v *ConnectionsView) ToggleOrder() { v.list.ToggleOrder() }

// MoveSelection moves the cursor by delta rows.
func (v *ConnectionsView) MoveSelection(delta int) { v.list.MoveSelection(delta) }

// SelectFirst moves the cursor to the top.
func (v *ConnectionsView) SelectFirst() { v.list.SelectFirst() }

// SelectLast moves the cursor to the bottom.
func (v *ConnectionsView) SelectLast() { v.list.SelectLast() }

// PageSize returns rows per page for pgup/pgdn movement.
func (v *ConnectionsView) PageSize() int { return v.table.VisibleRows() }

// Selected returns the row under the cursor.
func (v *ConnectionsView) Selected() (store.ConnRow, bool) { return v.list.Selected() }

// RowCount returns the number of rows in the current view.
func (v *ConnectionsView) RowCount() int { return len(v.list.View()) }

// ShowDetail opens the detail overlay for a row. The overlay holds a
// copy; counters shown there do not tick while it is open.
func (v *ConnectionsView) ShowDetail(row store.ConnRow) {
	v.detail = &row
	v.detailAt = time.Now()
}

// CloseDetail dismisses the detail overlay.
func (v *ConnectionsView) CloseDetail() { v.detail = nil }

// DetailActive reports whether the detail overlay is open.
func (v *ConnectionsView) DetailActive() bool { return v.detail != nil }

// DetailRow returns the row shown in the detail overlay.
func (v *ConnectionsView) DetailRow() (store.ConnRow, bool) {
	if v.detail == nil {
		return store.ConnRow{}, false
	}
	return *v.detail, true
}

// View renders the table, or the detail overlay when open.
func (v *ConnectionsView) View() string {
	if v.detail != nil {
		return v.renderDetail()
	}
	return v.table.View(v.list.View(), v.list.SelectedIndex(), v.list.Sort())
}

func detailLine(label, value string, labelStyle lipgloss.Style) string {
	return labelStyle.Render(renderCell(label, 10, false)) + value
}

func (v *ConnectionsView) renderDetail() string {
	row := *v.detail
	labelStyle := lipgloss.NewStyle().Foreground(v.theme.MutedColor)

	status := "open"
	if row.Closed {
		status = "closed"
	}

	lines := []string{
		detailLine("ID", row.Conn.ID, labelStyle),
		detailLine("Status", status, labelStyle),
		detailLine("Host", connHost(row), labelStyle),
		detailLine("Network", connNetwork(row), labelStyle),
		detailLine("Source", connSource(row), labelStyle),
		detailLine("Dest", row.Conn.Metadata.DestinationIP+":"+row.Conn.Metadata.DestinationPort, labelStyle),
		detailLine("Rule", connRule(row), labelStyle),
		detailLine("Chains", connChains(row), labelStyle),
		detailLine("Transfer", "↑ "+formatBytes(row.Conn.Upload)+"  ↓ "+formatBytes(row.Conn.Download), labelStyle),
		detailLine("Rates", "↑ "+formatRate(float64(row.UploadRate))+"  ↓ "+formatRate(float64(row.DownloadRate)), labelStyle),
		detailLine("Started", row.Conn.Start.Local().Format("15:04:05")+" ("+connAge(row)+")", labelStyle),
	}
	if row.Conn.Metadata.Process != "" {
		lines = append(lines, detailLine("Process", row.Conn.Metadata.Process, labelStyle))
	}
	if row.Conn.Metadata.DNSMode != "" {
		lines = append(lines, detailLine("DNS", row.Conn.Metadata.DNSMode, labelStyle))
	}

	footer := "x: close connection  esc: back"
	if row.Closed {
		footer = "esc: back"
	}

	return RenderModal(ModalRenderOptions{
		Title:   "Connection",
		Content: strings.Join(lines, "\n"),
		Footer:  footer,
		Width:   v.width,
		Height:  v.height,
		Theme:   v.theme,
	})
}
