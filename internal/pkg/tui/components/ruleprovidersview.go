package components

import (
	"strings"
	"time"

	"github.com/endorses/nekotop/internal/pkg/api"
	"github.com/endorses/nekotop/internal/pkg/tui/filters"
	"github.com/endorses/nekotop/internal/pkg/tui/store"
	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

// RuleProvidersView lists external rulesets with their freshness.
type RuleProvidersView struct {
	list   *store.ListState[api.RuleProvider]
	table  *Table[api.RuleProvider]
	theme  themes.Theme
	width  int
	height int

	// updating marks providers with an update request in flight. The
	// marker clears when the request settles.
	updating map[string]bool
}

func (v *RuleProvidersView) ruleProviderColumns() []filters.Column[api.RuleProvider] {
	return []filters.Column[api.RuleProvider]{
		{
			ID: "name", Title: "Name", Width: 0,
			Filterable: true, Sortable: true,
			Text: func(p api.RuleProvider) string {
				if v.updating[p.Name] {
					return "⟳ " + p.Name
				}
				return p.Name
			},
			Compare: func(a, b api.RuleProvider) int { return strings.Compare(a.Name, b.Name) },
		},
		{
			ID: "behavior", Title: "Behavior", Width: 10,
			Filterable: true,
			Text:       func(p api.RuleProvider) string { return p.Behavior },
		},
		{
			ID: "format", Title: "Format", Width: 8,
			Text: func(p api.RuleProvider) string { return p.Format },
		},
		{
			ID: "vehicle", Title: "Vehicle", Width: 8,
			Text: func(p api.RuleProvider) string { return p.VehicleType },
		},
		{
			ID: "rules", Title: "Rules", Width: 8, AlignRight: true,
			Sortable: true,
			Text:     func(p api.RuleProvider) string { return formatNumber(int64(p.RuleCount)) },
			Compare: func(a, b api.RuleProvider) int {
				return compareInt64(int64(a.RuleCount), int64(b.RuleCount))
			},
		},
		{
			ID: "updated", Title: "Updated", Width: 12,
			Sortable: true,
			Text:     func(p api.RuleProvider) string { return formatTimeAgo(p.UpdatedAt, time.Now()) },
			Compare:  func(a, b api.RuleProvider) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
		},
	}
}

// NewRuleProvidersView creates the rule providers tab view.
func NewRuleProvidersView() *RuleProvidersView {
	v := &RuleProvidersView{
		theme:    themes.Solarized(),
		updating: make(map[string]bool),
	}
	cols := v.ruleProviderColumns()
	v.list = store.NewListState(cols)
	v.table = NewTable(cols)
	return v
}

// SetTheme updates the view theme.
func (v *RuleProvidersView) SetTheme(theme themes.Theme) {
	v.theme = theme
	v.table.SetTheme(theme)
}

// SetSize updates the view dimensions.
func (v *RuleProvidersView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.table.SetSize(width, height)
}

// Ingest records the newest provider list and clears in-flight markers
// for providers whose refresh has landed.
func (v *RuleProvidersView) Ingest(providers []api.RuleProvider) {
	v.list.SetRows(providers)
	seen := make(map[string]bool, len(providers))
	for _, p := range providers {
		seen[p.Name] = true
	}
	for name := range v.updating {
		if !seen[name] {
			delete(v.updating, name)
		}
	}
}

// MarkUpdating flags a provider with an update request in flight.
func (v *RuleProvidersView) MarkUpdating(name string) { v.updating[name] = true }

// ClearUpdating removes the in-flight flag once the request settles.
func (v *RuleProvidersView) ClearUpdating(name string) { delete(v.updating, name) }

// Freeze pins the current view for paused display.
func (v *RuleProvidersView) Freeze() { v.list.Freeze() }

// Thaw resumes live display.
func (v *RuleProvidersView) Thaw() { v.list.Thaw() }

// Pattern returns the active filter pattern.
func (v *RuleProvidersView) Pattern() string { return v.list.Pattern() }

// SetPattern applies a filter pattern.
func (v *RuleProvidersView) SetPattern(p string) { v.list.SetPattern(p) }

// CycleSort advances to the next sortable column.
func (v *RuleProvidersView) CycleSort() { v.list.CycleSort() }

// ToggleOrder flips the sort direction.
func (v *RuleProvidersView) ToggleOrder() { v.list.ToggleOrder() }

// MoveSelection moves the cursor by delta rows.
func (v *RuleProvidersView) MoveSelection(delta int) { v.list.MoveSelection(delta) }

// SelectFirst moves the cursor to the top.
func (v *RuleProvidersView) SelectFirst() { v.list.SelectFirst() }

// SelectLast moves the cursor to the bottom.
func (v *RuleProvidersView) SelectLast() { v.list.SelectLast() }

// PageSize returns rows per page for pgup/pgdn movement.
func (v *RuleProvidersView) PageSize() int { return v.table.VisibleRows() }

// RowCount returns the number of rows in the current view.
func (v *RuleProvidersView) RowCount() int { return len(v.list.View()) }

// Selected returns the provider under the cursor.
func (v *RuleProvidersView) Selected() (api.RuleProvider, bool) { return v.list.Selected() }

// View renders the provider table.
func (v *RuleProvidersView) View() string {
	return v.table.View(v.list.View(), v.list.SelectedIndex(), v.list.Sort())
}
