package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/endorses/nekotop/internal/pkg/tui/filters"
	"github.com/endorses/nekotop/internal/pkg/tui/store"
	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

// LogsView is the core log feed. Rows keep arrival order; only the
// filter narrows them, so sorting keys are no-ops here.
type LogsView struct {
	list   *store.ListState[store.LogRow]
	table  *Table[store.LogRow]
	theme  themes.Theme
	width  int
	height int
	level  string
	follow bool
}

func logColumns() []filters.Column[store.LogRow] {
	return []filters.Column[store.LogRow]{
		{
			ID: "time", Title: "Time", Width: 8,
			Text: func(r store.LogRow) string { return r.At.Local().Format("15:04:05") },
		},
		{
			ID: "level", Title: "Level", Width: 7,
			Filterable: true,
			Text:       func(r store.LogRow) string { return r.Level },
		},
		{
			ID: "payload", Title: "Message", Width: 0,
			Filterable: true,
			Text:       func(r store.LogRow) string { return r.Payload },
		},
	}
}

// NewLogsView creates the logs tab view.
func NewLogsView(level string) *LogsView {
	cols := logColumns()
	v := &LogsView{
		list:   store.NewListState(cols),
		table:  NewTable(cols),
		theme:  themes.Solarized(),
		level:  level,
		follow: true,
	}
	v.table.SetRowStyle(v.rowStyle)
	return v
}

func (v *LogsView) rowStyle(row store.LogRow) lipgloss.Style {
	var color lipgloss.Color
	switch strings.ToLower(row.Level) {
	case "error":
		color = v.theme.LogErrorColor
	case "warning":
		color = v.theme.LogWarningColor
	case "debug":
		color = v.theme.LogDebugColor
	default:
		color = v.theme.LogInfoColor
	}
	return lipgloss.NewStyle().Foreground(color)
}

// SetTheme updates the view theme.
func (v *LogsView) SetTheme(theme themes.Theme) {
	v.theme = theme
	v.table.SetTheme(theme)
}

// SetSize updates the view dimensions.
func (v *LogsView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.table.SetSize(width, height)
}

// Level returns the subscription level the feed runs at.
func (v *LogsView) Level() string { return v.level }

// SetLevel records the new subscription level after a resubscribe.
func (v *LogsView) SetLevel(level string) { v.level = level }

// Ingest records the newest log rows. While following, the cursor
// sticks to the newest entry.
func (v *LogsView) Ingest(rows []store.LogRow) {
	v.list.SetRows(rows)
	if v.follow && v.list.Live() {
		v.list.SelectLast()
	}
}

// Freeze pins the current view for paused display.
func (v *LogsView) Freeze() { v.list.Freeze() }

// Thaw resumes live display.
func (v *LogsView) Thaw() { v.list.Thaw() }

// Pattern returns the active filter pattern.
func (v *LogsView) Pattern() string { return v.list.Pattern() }

// SetPattern applies a filter pattern.
func (v *LogsView) SetPattern(p string) { v.list.SetPattern(p) }

// MoveSelection moves the cursor and detaches it from the feed tail.
// Moving to the newest row reattaches.
func (v *LogsView) MoveSelection(delta int) {
	v.follow = false
	v.list.MoveSelection(delta)
	if v.list.SelectedIndex() == len(v.list.View())-1 {
		v.follow = true
	}
}

// SelectFirst jumps to the oldest entry.
func (v *LogsView) SelectFirst() {
	v.follow = false
	v.list.SelectFirst()
}

// SelectLast jumps to the newest entry and reattaches the cursor.
func (v *LogsView) SelectLast() {
	v.follow = true
	v.list.SelectLast()
}

// PageSize returns rows per page for pgup/pgdn movement.
func (v *LogsView) PageSize() int { return v.table.VisibleRows() }

// RowCount returns the number of rows in the current view.
func (v *LogsView) RowCount() int { return len(v.list.View()) }

// View renders the log table.
func (v *LogsView) View() string {
	return v.table.View(v.list.View(), v.list.SelectedIndex(), filters.SortSpec{})
}
