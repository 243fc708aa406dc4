package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/endorses/nekotop/internal/pkg/api"
	"github.com/endorses/nekotop/internal/pkg/logger"
	"github.com/endorses/nekotop/internal/pkg/tui/filters"
	"github.com/endorses/nekotop/internal/pkg/tui/store"
	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

// RulesView is the routing rule table. Rules keep their core-side order,
// so no column sorts; the filter matches the rendered rule text.
//
// Disable toggles are optimistic: the staged target state renders as a
// transition ("Y -> N") until the next rules refresh confirms it or the
// toggle request fails and the entry is rolled back.
type RulesView struct {
	list    *store.ListState[api.Rule]
	table   *Table[api.Rule]
	theme   themes.Theme
	width   int
	height  int

	// pending maps rule index to the staged disabled state; confirmed
	// marks entries whose PATCH the core has already accepted.
	pending   map[int]bool
	confirmed map[int]bool
}

// ruleText renders the rule in its canonical comma-joined form.
func ruleText(r api.Rule) string {
	parts := []string{r.Type}
	if r.Payload != "" {
		parts = append(parts, r.Payload)
	}
	parts = append(parts, r.Proxy)
	return strings.Join(parts, ",")
}

func ruleSize(r api.Rule) string {
	if r.Size < 0 {
		return "-"
	}
	return formatNumber(int64(r.Size))
}

func ruleHits(r api.Rule) string {
	if r.Extra == nil {
		return "-"
	}
	return formatNumber(int64(r.Extra.HitCount))
}

func ruleHitAt(r api.Rule) string {
	if r.Extra == nil || r.Extra.HitAt == "" {
		return "-"
	}
	if t, err := time.Parse(time.RFC3339, r.Extra.HitAt); err == nil && !t.IsZero() {
		return formatTimeAgo(t, time.Now())
	}
	return "-"
}

func (v *RulesView) ruleState(r api.Rule) string {
	if r.Extra == nil {
		return "-"
	}
	backend := r.Extra.Disabled
	cur := "N"
	if backend {
		cur = "Y"
	}
	want, ok := v.pending[r.Index]
	if !ok || want == backend {
		return cur
	}
	next := "N"
	if want {
		next = "Y"
	}
	return cur + " -> " + next
}

func (v *RulesView) ruleColumns() []filters.Column[api.Rule] {
	return []filters.Column[api.Rule]{
		{
			ID: "index", Title: "#", Width: 5, AlignRight: true,
			Text: func(r api.Rule) string { return fmt.Sprintf("%d", r.Index) },
		},
		{
			ID: "rule", Title: "Rule", Width: 0,
			Filterable: true,
			Text:       ruleText,
		},
		{
			ID: "size", Title: "Size", Width: 8, AlignRight: true,
			Text: ruleSize,
		},
		{
			ID: "hits", Title: "Hits", Width: 7, AlignRight: true,
			Text: ruleHits,
		},
		{
			ID: "hit_at", Title: "Last hit", Width: 11,
			Text: ruleHitAt,
		},
		{
			ID: "disabled", Title: "Disabled", Width: 8,
			Text: v.ruleState,
		},
	}
}

// NewRulesView creates the rules tab view.
func NewRulesView() *RulesView {
	v := &RulesView{
		theme:     themes.Solarized(),
		pending:   make(map[int]bool),
		confirmed: make(map[int]bool),
	}
	cols := v.ruleColumns()
	v.list = store.NewListState(cols)
	v.table = NewTable(cols)
	v.table.SetRowStyle(v.rowStyle)
	return v
}

func (v *RulesView) rowStyle(r api.Rule) lipgloss.Style {
	if r.Extra != nil && r.Extra.Disabled {
		return lipgloss.NewStyle().Foreground(v.theme.MutedColor).Strikethrough(true)
	}
	if _, ok := v.pending[r.Index]; ok {
		return lipgloss.NewStyle().Foreground(v.theme.WarningColor)
	}
	return lipgloss.NewStyle().Foreground(v.theme.Foreground)
}

// SetTheme updates the view theme.
func (v *RulesView) SetTheme(theme themes.Theme) {
	v.theme = theme
	v.table.SetTheme(theme)
}

// SetSize updates the view dimensions.
func (v *RulesView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.table.SetSize(width, height)
}

// Ingest records the newest rule list and reconciles staged toggles
// against it. A staged entry is dropped as soon as the core reports the
// staged state, and unconditionally once its PATCH was accepted and a
// refresh has come back: the core's value wins even when it disagrees
// with the accepted toggle, which is logged as a warning.
func (v *RulesView) Ingest(rules []api.Rule) {
	v.list.SetRows(rules)
	for _, r := range rules {
		want, ok := v.pending[r.Index]
		if !ok {
			continue
		}
		backend := r.Extra != nil && r.Extra.Disabled
		if want != backend && !v.confirmed[r.Index] {
			continue
		}
		if want != backend {
			logger.Warn("rule state differs from accepted toggle",
				"rule", r.Index, "requested", want, "core", backend)
		}
		delete(v.pending, r.Index)
		delete(v.confirmed, r.Index)
	}
}

// Freeze pins the current view for paused display.
func (v *RulesView) Freeze() { v.list.Freeze() }

// Thaw resumes live display.
func (v *RulesView) Thaw() { v.list.Thaw() }

// Pattern returns the active filter pattern.
func (v *RulesView) Pattern() string { return v.list.Pattern() }

// SetPattern applies a filter pattern.
func (v *RulesView) SetPattern(p string) { v.list.SetPattern(p) }

// MoveSelection moves the cursor by delta rows.
func (v *RulesView) MoveSelection(delta int) { v.list.MoveSelection(delta) }

// SelectFirst moves the cursor to the top.
func (v *RulesView) SelectFirst() { v.list.SelectFirst() }

// SelectLast moves the cursor to the bottom.
func (v *RulesView) SelectLast() { v.list.SelectLast() }

// PageSize returns rows per page for pgup/pgdn movement.
func (v *RulesView) PageSize() int { return v.table.VisibleRows() }

// RowCount returns the number of rows in the current view.
func (v *RulesView) RowCount() int { return len(v.list.View()) }

// Selected returns the rule under the cursor.
func (v *RulesView) Selected() (api.Rule, bool) { return v.list.Selected() }

// ToggleSelected stages a disable flip for the rule under the cursor
// and returns the patch to send. Rules without per-rule state cannot be
// toggled.
func (v *RulesView) ToggleSelected() (map[int]bool, bool) {
	rule, ok := v.list.Selected()
	if !ok || rule.Extra == nil {
		return nil, false
	}
	want := !rule.Extra.Disabled
	if cur, staged := v.pending[rule.Index]; staged {
		want = !cur
	}
	v.pending[rule.Index] = want
	return map[int]bool{rule.Index: want}, true
}

// Confirm marks staged entries as accepted by the core. The next rules
// refresh drops them regardless of the state it reports.
func (v *RulesView) Confirm(patch map[int]bool) {
	for idx := range patch {
		if _, ok := v.pending[idx]; ok {
			v.confirmed[idx] = true
		}
	}
}

// Rollback drops staged entries after a failed toggle request, reverting
// the display to the backend state.
func (v *RulesView) Rollback(patch map[int]bool) {
	for idx := range patch {
		delete(v.pending, idx)
		delete(v.confirmed, idx)
	}
}

// PendingCount returns how many toggles await confirmation.
func (v *RulesView) PendingCount() int { return len(v.pending) }

// View renders the rule table.
func (v *RulesView) View() string {
	return v.table.View(v.list.View(), v.list.SelectedIndex(), filters.SortSpec{})
}
