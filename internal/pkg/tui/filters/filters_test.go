package filters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	host  string
	proto string
	bytes int
}

func testColumns() []Column[row] {
	return []Column[row]{
		{
			ID: "host", Title: "Host", Filterable: true, Sortable: true,
			Text:    func(r row) string { return r.host },
			Compare: func(a, b row) int { return strings.Compare(a.host, b.host) },
		},
		{
			ID: "proto", Title: "Proto", Filterable: true,
			Text: func(r row) string { return r.proto },
		},
		{
			ID: "bytes", Title: "Bytes", Sortable: true, AlignRight: true,
			Text:    func(r row) string { return "" },
			Compare: func(a, b row) int { return a.bytes - b.bytes },
		},
	}
}

func TestMatch_EmptyPatternMatchesAll(t *testing.T) {
	cols := testColumns()
	assert.True(t, Match(cols, row{host: "example.com"}, ""))
}

func TestMatch_CaseInsensitiveSubstring(t *testing.T) {
	cols := testColumns()
	r := row{host: "Api.Example.COM", proto: "tcp"}

	assert.True(t, Match(cols, r, "example"))
	assert.True(t, Match(cols, r, "API"))
	assert.True(t, Match(cols, r, "TCP"))
	assert.False(t, Match(cols, r, "udp"))
}

func TestMatch_IgnoresNonFilterableColumns(t *testing.T) {
	cols := testColumns()
	// "bytes" renders empty text and is not filterable anyway.
	assert.False(t, Match(cols, row{host: "a", proto: "b", bytes: 42}, "42"))
}

func TestDeriveView_FilterThenSort(t *testing.T) {
	cols := testColumns()
	rows := []row{
		{host: "zeta.com", proto: "tcp", bytes: 5},
		{host: "alpha.com", proto: "udp", bytes: 9},
		{host: "mid.com", proto: "tcp", bytes: 1},
	}

	view := DeriveView(rows, cols, SortSpec{ColumnID: "host", Ascending: true}, "tcp")
	require.Len(t, view, 2)
	assert.Equal(t, "mid.com", view[0].host)
	assert.Equal(t, "zeta.com", view[1].host)
}

func TestDeriveView_StableSortKeepsInsertionOrderOnTies(t *testing.T) {
	cols := testColumns()
	rows := []row{
		{host: "c", bytes: 7},
		{host: "a", bytes: 7},
		{host: "b", bytes: 7},
	}

	view := DeriveView(rows, cols, SortSpec{ColumnID: "bytes", Ascending: true}, "")
	require.Len(t, view, 3)
	assert.Equal(t, "c", view[0].host)
	assert.Equal(t, "a", view[1].host)
	assert.Equal(t, "b", view[2].host)

	// Descending must preserve insertion order among ties too.
	view = DeriveView(rows, cols, SortSpec{ColumnID: "bytes", Ascending: false}, "")
	assert.Equal(t, "c", view[0].host)
	assert.Equal(t, "a", view[1].host)
	assert.Equal(t, "b", view[2].host)
}

func TestDeriveView_ZeroSpecKeepsInsertionOrder(t *testing.T) {
	cols := testColumns()
	rows := []row{{host: "z"}, {host: "a"}, {host: "m"}}

	view := DeriveView(rows, cols, SortSpec{}, "")
	require.Len(t, view, 3)
	assert.Equal(t, "z", view[0].host)
	assert.Equal(t, "a", view[1].host)
	assert.Equal(t, "m", view[2].host)
}

func TestDeriveView_DoesNotMutateInput(t *testing.T) {
	cols := testColumns()
	rows := []row{{host: "z", bytes: 2}, {host: "a", bytes: 1}}

	_ = DeriveView(rows, cols, SortSpec{ColumnID: "host", Ascending: true}, "")
	assert.Equal(t, "z", rows[0].host)
}

func TestCycleSort_SkipsNonSortable(t *testing.T) {
	cols := testColumns()

	spec := CycleSort(cols, SortSpec{})
	assert.Equal(t, "host", spec.ColumnID)
	assert.True(t, spec.Ascending)

	// "proto" is not sortable, so host cycles straight to bytes.
	spec = CycleSort(cols, spec)
	assert.Equal(t, "bytes", spec.ColumnID)

	spec = CycleSort(cols, spec)
	assert.Equal(t, "host", spec.ColumnID)
}

func TestCycleSort_NoSortableColumnsIsNoop(t *testing.T) {
	cols := []Column[row]{
		{ID: "a", Title: "A", Text: func(r row) string { return r.host }},
		{ID: "b", Title: "B", Text: func(r row) string { return r.proto }},
	}

	spec := CycleSort(cols, SortSpec{})
	assert.True(t, spec.IsZero())

	spec = CycleSort(cols, SortSpec{ColumnID: "a", Ascending: true})
	assert.True(t, spec.IsZero())
}

func TestSortSpec_Toggle(t *testing.T) {
	spec := SortSpec{ColumnID: "host", Ascending: true}
	assert.False(t, spec.Toggle().Ascending)
	assert.Equal(t, "host", spec.Toggle().ColumnID)

	assert.True(t, SortSpec{}.Toggle().IsZero())
}
