package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/endorses/nekotop/internal/pkg/tui/filters"
)

type item struct {
	name string
	size int
}

func itemColumns() []filters.Column[item] {
	return []filters.Column[item]{
		{
			ID: "name", Title: "Name", Filterable: true, Sortable: true,
			Text:    func(i item) string { return i.name },
			Compare: func(a, b item) int { return strings.Compare(a.name, b.name) },
		},
		{
			ID: "size", Title: "Size", Sortable: true,
			Text:    func(i item) string { return "" },
			Compare: func(a, b item) int { return a.size - b.size },
		},
	}
}

func TestListState_ViewFollowsRowsWhenLive(t *testing.T) {
	ls := NewListState(itemColumns())
	ls.SetRows([]item{{name: "b"}, {name: "a"}})

	view := ls.View()
	require.Len(t, view, 2)
	assert.Equal(t, "b", view[0].name, "insertion order until a sort is chosen")

	ls.SetRows([]item{{name: "b"}, {name: "a"}, {name: "c"}})
	assert.Len(t, ls.View(), 3)
}

func TestListState_FreezePinsView(t *testing.T) {
	ls := NewListState(itemColumns())
	ls.SetRows([]item{{name: "a"}, {name: "b"}})
	require.Len(t, ls.View(), 2)

	ls.Freeze()
	assert.False(t, ls.Live())

	// New entities keep arriving, the visible view must not move.
	ls.SetRows([]item{{name: "a"}, {name: "b"}, {name: "c"}, {name: "d"}})
	assert.Len(t, ls.View(), 2)
	assert.Len(t, ls.Rows(), 4, "ingest continues while frozen")

	ls.Thaw()
	assert.True(t, ls.Live())
	assert.Len(t, ls.View(), 4, "thaw picks up everything that arrived")
}

func TestListState_FilterAppliesWhileFrozen(t *testing.T) {
	ls := NewListState(itemColumns())
	ls.SetRows([]item{{name: "alpha"}, {name: "beta"}, {name: "alps"}})
	ls.Freeze()

	ls.SetRows([]item{{name: "alpha"}, {name: "beta"}, {name: "alps"}, {name: "albatross"}})

	ls.SetPattern("al")
	view := ls.View()
	// Derived from the frozen snapshot, not from the newest rows.
	require.Len(t, view, 2)
	assert.Equal(t, "alpha", view[0].name)
	assert.Equal(t, "alps", view[1].name)
}

func TestListState_PatternPersistsAcrossFreezeThaw(t *testing.T) {
	ls := NewListState(itemColumns())
	ls.SetRows([]item{{name: "alpha"}, {name: "beta"}})

	ls.SetPattern("al")
	ls.Freeze()
	ls.Thaw()

	assert.Equal(t, "al", ls.Pattern())
	require.Len(t, ls.View(), 1)
	assert.Equal(t, "alpha", ls.View()[0].name)
}

func TestListState_SortAppliesWhileFrozen(t *testing.T) {
	ls := NewListState(itemColumns())
	ls.SetRows([]item{{name: "c", size: 3}, {name: "a", size: 1}, {name: "b", size: 2}})
	ls.Freeze()

	ls.CycleSort() // name, ascending
	view := ls.View()
	require.Len(t, view, 3)
	assert.Equal(t, "a", view[0].name)
	assert.Equal(t, "c", view[2].name)

	ls.ToggleOrder()
	view = ls.View()
	assert.Equal(t, "c", view[0].name)
}

func TestListState_CycleSortNoopWithoutSortableColumns(t *testing.T) {
	cols := []filters.Column[item]{
		{ID: "name", Title: "Name", Filterable: true, Text: func(i item) string { return i.name }},
	}
	ls := NewListState(cols)
	ls.SetRows([]item{{name: "b"}, {name: "a"}})

	ls.CycleSort()
	assert.True(t, ls.Sort().IsZero())

	view := ls.View()
	assert.Equal(t, "b", view[0].name, "order unchanged by a no-op cycle")
}

func TestListState_SelectionClampsToView(t *testing.T) {
	ls := NewListState(itemColumns())
	ls.SetRows([]item{{name: "a"}, {name: "b"}, {name: "c"}})

	ls.MoveSelection(10)
	assert.Equal(t, 2, ls.SelectedIndex())

	ls.MoveSelection(-10)
	assert.Equal(t, 0, ls.SelectedIndex())

	ls.SelectLast()
	assert.Equal(t, 2, ls.SelectedIndex())

	sel, ok := ls.Selected()
	require.True(t, ok)
	assert.Equal(t, "c", sel.name)

	// Shrinking the view pulls the cursor back in range.
	ls.SetRows([]item{{name: "a"}})
	assert.Equal(t, 0, ls.SelectedIndex())

	ls.SetRows(nil)
	_, ok = ls.Selected()
	assert.False(t, ok)
}

func TestListState_PatternChangeResetsSelection(t *testing.T) {
	ls := NewListState(itemColumns())
	ls.SetRows([]item{{name: "a"}, {name: "b"}, {name: "c"}})
	ls.SelectLast()
	require.Equal(t, 2, ls.SelectedIndex())

	ls.SetPattern("b")
	assert.Equal(t, 0, ls.SelectedIndex())
}
