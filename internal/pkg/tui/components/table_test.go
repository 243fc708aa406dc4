package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/endorses/nekotop/internal/pkg/tui/filters"
)

type tableRow struct {
	name  string
	value string
}

func testColumns() []filters.Column[tableRow] {
	return []filters.Column[tableRow]{
		{ID: "name", Title: "Name", Width: 10, Text: func(r tableRow) string { return r.name }},
		{ID: "value", Title: "Value", Width: 0, Text: func(r tableRow) string { return r.value }},
		{ID: "fixed", Title: "Fix", Width: 6, AlignRight: true, Text: func(r tableRow) string { return "x" }},
	}
}

func TestTable_ColumnWidths(t *testing.T) {
	table := NewTable(testColumns())
	table.SetSize(40, 10)

	// Fixed columns keep their width, the flex column absorbs the rest:
	// 40 - (10 + 6 + 2 gaps of 2) = 20.
	assert.Equal(t, []int{10, 20, 6}, table.columnWidths())
}

func TestTable_ColumnWidthsFlexFloor(t *testing.T) {
	table := NewTable(testColumns())
	table.SetSize(18, 10)

	// The flex column never shrinks below its floor even when the fixed
	// columns already overflow the terminal.
	widths := table.columnWidths()
	assert.Equal(t, 8, widths[1])
}

func TestRenderCell(t *testing.T) {
	assert.Equal(t, "ab   ", renderCell("ab", 5, false))
	assert.Equal(t, "   ab", renderCell("ab", 5, true))
	assert.Equal(t, "abcd…", renderCell("abcdefgh", 5, false))
	assert.Equal(t, "exact", renderCell("exact", 5, false))
}

func TestTable_EnsureVisible(t *testing.T) {
	table := NewTable(testColumns())
	table.SetSize(40, 5)
	require.Equal(t, 4, table.VisibleRows())

	// Selection below the window scrolls down.
	table.ensureVisible(7, 10)
	assert.Equal(t, 4, table.offset)

	// Selection above the window scrolls back up.
	table.ensureVisible(2, 10)
	assert.Equal(t, 2, table.offset)

	// Everything fits: no scrolling at all.
	table.ensureVisible(3, 4)
	assert.Equal(t, 0, table.offset)
}

func TestTable_ViewEmpty(t *testing.T) {
	table := NewTable(testColumns())
	table.SetSize(40, 5)

	out := table.View(nil, -1, filters.SortSpec{})
	assert.Contains(t, out, "no entries")
}

func TestTable_ViewWindowsRows(t *testing.T) {
	table := NewTable(testColumns())
	table.SetSize(40, 4)

	rows := []tableRow{
		{name: "alpha"}, {name: "beta"}, {name: "gamma"},
		{name: "delta"}, {name: "epsilon"},
	}

	out := table.View(rows, 4, filters.SortSpec{})
	assert.Contains(t, out, "epsilon")
	assert.NotContains(t, out, "alpha")

	// Header plus the three visible rows.
	assert.Len(t, strings.Split(out, "\n"), 4)
}

func TestTable_ViewSortIndicator(t *testing.T) {
	table := NewTable(testColumns())
	table.SetSize(40, 5)

	out := table.View(nil, -1, filters.SortSpec{ColumnID: "name", Ascending: true})
	assert.Contains(t, out, "Name ▲")

	out = table.View(nil, -1, filters.SortSpec{ColumnID: "name", Ascending: false})
	assert.Contains(t, out, "Name ▼")
}

func TestTable_ScrollInfo(t *testing.T) {
	table := NewTable(testColumns())
	table.SetSize(40, 5)

	assert.Equal(t, "0 of 0", table.ScrollInfo(0))

	table.ensureVisible(7, 10)
	assert.Equal(t, "5-8 of 10", table.ScrollInfo(10))
}
