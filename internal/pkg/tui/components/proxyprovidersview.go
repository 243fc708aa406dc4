package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/endorses/nekotop/internal/pkg/api"
	"github.com/endorses/nekotop/internal/pkg/tui/filters"
	"github.com/endorses/nekotop/internal/pkg/tui/store"
	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

// detailPaneHeight is the area reserved under the provider table for
// the selected provider's subscription details.
const detailPaneHeight = 5

// ProxyProvidersView lists node sources with a detail pane showing the
// selected provider's subscription quota.
type ProxyProvidersView struct {
	list     *store.ListState[api.ProxyProvider]
	table    *Table[api.ProxyProvider]
	usage    *ProgressBar
	theme    themes.Theme
	width    int
	height   int
	updating map[string]bool
}

func (v *ProxyProvidersView) proxyProviderColumns() []filters.Column[api.ProxyProvider] {
	return []filters.Column[api.ProxyProvider]{
		{
			ID: "name", Title: "Name", Width: 0,
			Filterable: true, Sortable: true,
			Text: func(p api.ProxyProvider) string {
				if v.updating[p.Name] {
					return "⟳ " + p.Name
				}
				return p.Name
			},
			Compare: func(a, b api.ProxyProvider) int { return strings.Compare(a.Name, b.Name) },
		},
		{
			ID: "vehicle", Title: "Vehicle", Width: 12,
			Filterable: true,
			Text:       func(p api.ProxyProvider) string { return p.VehicleType },
		},
		{
			ID: "nodes", Title: "Nodes", Width: 7, AlignRight: true,
			Sortable: true,
			Text:     func(p api.ProxyProvider) string { return formatNumber(int64(len(p.Proxies))) },
			Compare: func(a, b api.ProxyProvider) int {
				return compareInt64(int64(len(a.Proxies)), int64(len(b.Proxies)))
			},
		},
		{
			ID: "updated", Title: "Updated", Width: 12,
			Sortable: true,
			Text:     func(p api.ProxyProvider) string { return formatTimeAgo(p.UpdatedAt, time.Now()) },
			Compare:  func(a, b api.ProxyProvider) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
		},
	}
}

// NewProxyProvidersView creates the proxy providers tab view.
func NewProxyProvidersView() *ProxyProvidersView {
	v := &ProxyProvidersView{
		theme:    themes.Solarized(),
		updating: make(map[string]bool),
	}
	cols := v.proxyProviderColumns()
	v.list = store.NewListState(cols)
	v.table = NewTable(cols)
	v.usage = NewProgressBar(ProgressBarConfig{Width: 30, ShowPercentage: true})
	return v
}

// SetTheme updates the view theme.
func (v *ProxyProvidersView) SetTheme(theme themes.Theme) {
	v.theme = theme
	v.table.SetTheme(theme)
	v.usage.SetTheme(theme)
}

// SetSize updates the view dimensions, keeping room for the detail pane.
func (v *ProxyProvidersView) SetSize(width, height int) {
	v.width = width
	v.height = height
	tableHeight := height - detailPaneHeight
	if tableHeight < 3 {
		tableHeight = 3
	}
	v.table.SetSize(width, tableHeight)
	barWidth := width / 3
	if barWidth < 20 {
		barWidth = 20
	}
	v.usage.SetWidth(barWidth)
}

// Ingest records the newest provider list.
func (v *ProxyProvidersView) Ingest(providers []api.ProxyProvider) {
	v.list.SetRows(providers)
}

// MarkUpdating flags a provider with a request in flight.
func (v *ProxyProvidersView) MarkUpdating(name string) { v.updating[name] = true }

// ClearUpdating removes the in-flight flag once the request settles.
func (v *ProxyProvidersView) ClearUpdating(name string) { delete(v.updating, name) }

// Freeze pins the current view for paused display.
func (v *ProxyProvidersView) Freeze() { v.list.Freeze() }

// Thaw resumes live display.
func (v *ProxyProvidersView) Thaw() { v.list.Thaw() }

// Pattern returns the active filter pattern.
func (v *ProxyProvidersView) Pattern() string { return v.list.Pattern() }

// SetPattern applies a filter pattern.
func (v *ProxyProvidersView) SetPattern(p string) { v.list.SetPattern(p) }

// CycleSort advances to the next sortable column.
func (v *ProxyProvidersView) CycleSort() { v.list.CycleSort() }

// ToggleOrder flips the sort direction.
func (v *ProxyProvidersView) ToggleOrder() { v.list.ToggleOrder() }

// MoveSelection moves the cursor by delta rows.
func (v *ProxyProvidersView) MoveSelection(delta int) { v.list.MoveSelection(delta) }

// SelectFirst moves the cursor to the top.
func (v *ProxyProvidersView) SelectFirst() { v.list.SelectFirst() }

// SelectLast moves the cursor to the bottom.
func (v *ProxyProvidersView) SelectLast() { v.list.SelectLast() }

// PageSize returns rows per page for pgup/pgdn movement.
func (v *ProxyProvidersView) PageSize() int { return v.table.VisibleRows() }

// RowCount returns the number of rows in the current view.
func (v *ProxyProvidersView) RowCount() int { return len(v.list.View()) }

// Selected returns the provider under the cursor.
func (v *ProxyProvidersView) Selected() (api.ProxyProvider, bool) { return v.list.Selected() }

// View renders the table with the selected provider's details below.
func (v *ProxyProvidersView) View() string {
	var b strings.Builder
	b.WriteString(v.table.View(v.list.View(), v.list.SelectedIndex(), v.list.Sort()))
	b.WriteString("\n")
	b.WriteString(v.renderDetail())
	return b.String()
}

func (v *ProxyProvidersView) renderDetail() string {
	sep := lipgloss.NewStyle().
		Foreground(v.theme.BorderColor).
		Render(strings.Repeat("─", v.width))

	provider, ok := v.list.Selected()
	if !ok {
		return sep
	}

	labelStyle := lipgloss.NewStyle().Foreground(v.theme.MutedColor)
	valueStyle := lipgloss.NewStyle().Foreground(v.theme.Foreground)

	var lines []string
	lines = append(lines, sep)
	lines = append(lines,
		valueStyle.Bold(true).Render(provider.Name)+
			labelStyle.Render("  "+provider.Type+" / "+provider.VehicleType))

	if provider.TestURL != "" {
		lines = append(lines, labelStyle.Render("Test URL  ")+valueStyle.Render(provider.TestURL))
	}

	if sub := provider.SubscriptionInfo; sub != nil {
		used := sub.Upload + sub.Download
		lines = append(lines, labelStyle.Render("Usage     ")+v.usage.RenderUsage(used, sub.Total))
		lines = append(lines, labelStyle.Render("Expires   ")+valueStyle.Render(formatExpire(sub.Expire)))
	} else {
		lines = append(lines, labelStyle.Render("No subscription accounting for this provider"))
	}

	return strings.Join(lines, "\n")
}

// formatExpire renders a unix expiry timestamp with remaining time.
func formatExpire(expire int64) string {
	if expire <= 0 {
		return "-"
	}
	t := time.Unix(expire, 0)
	remaining := time.Until(t)
	if remaining < 0 {
		return t.Format("2006-01-02") + " (expired)"
	}
	days := int(remaining.Hours() / 24)
	return t.Format("2006-01-02") + " (in " + formatNumber(int64(days)) + "d)"
}
