// Package filters derives the visible slice of a list view from its raw
// entities: case-insensitive substring filtering over the filterable
// columns, then a stable sort on the selected column. Columns double as
// table metadata so each tab declares its surface once.
package filters

import (
	"sort"
	"strings"
)

// Column describes one column of a list view. Text renders the canonical
// cell content; filtering only consults columns marked Filterable and
// sorting only columns marked Sortable.
type Column[T any] struct {
	ID         string
	Title      string
	Width      int // fixed width in cells; 0 means take a share of the rest
	AlignRight bool
	Filterable bool
	Sortable   bool
	Text       func(row T) string
	Compare    func(a, b T) int // required when Sortable
}

// SortSpec selects the sort column and direction. The zero value means
// insertion order.
type SortSpec struct {
	ColumnID  string
	Ascending bool
}

// IsZero reports whether the spec leaves rows in insertion order.
func (s SortSpec) IsZero() bool {
	return s.ColumnID == ""
}

// Toggle flips the sort direction, keeping the column.
func (s SortSpec) Toggle() SortSpec {
	if s.IsZero() {
		return s
	}
	return SortSpec{ColumnID: s.ColumnID, Ascending: !s.Ascending}
}

// CycleSort advances to the next sortable column, wrapping around and
// skipping columns that cannot sort. With no sortable column at all the
// zero spec comes back, so cycling is a no-op on such views.
func CycleSort[T any](cols []Column[T], current SortSpec) SortSpec {
	sortable := make([]int, 0, len(cols))
	for i, col := range cols {
		if col.Sortable {
			sortable = append(sortable, i)
		}
	}
	if len(sortable) == 0 {
		return SortSpec{}
	}

	if current.IsZero() {
		return SortSpec{ColumnID: cols[sortable[0]].ID, Ascending: true}
	}
	for n, i := range sortable {
		if cols[i].ID == current.ColumnID {
			next := sortable[(n+1)%len(sortable)]
			return SortSpec{ColumnID: cols[next].ID, Ascending: current.Ascending}
		}
	}
	return SortSpec{ColumnID: cols[sortable[0]].ID, Ascending: current.Ascending}
}

// Match reports whether the pattern occurs in any filterable column of
// the row. The empty pattern matches everything.
func Match[T any](cols []Column[T], row T, pattern string) bool {
	if pattern == "" {
		return true
	}
	needle := strings.ToLower(pattern)
	for _, col := range cols {
		if !col.Filterable || col.Text == nil {
			continue
		}
		if strings.Contains(strings.ToLower(col.Text(row)), needle) {
			return true
		}
	}
	return false
}

// DeriveView filters rows by pattern and sorts them by spec. The sort is
// stable, so rows that compare equal keep their insertion order; a zero
// spec or an unsortable column leaves insertion order untouched.
func DeriveView[T any](rows []T, cols []Column[T], spec SortSpec, pattern string) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if Match(cols, row, pattern) {
			out = append(out, row)
		}
	}

	col := findColumn(cols, spec.ColumnID)
	if col == nil || !col.Sortable || col.Compare == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := col.Compare(out[i], out[j])
		if spec.Ascending {
			return c < 0
		}
		return c > 0
	})
	return out
}

func findColumn[T any](cols []Column[T], id string) *Column[T] {
	if id == "" {
		return nil
	}
	for i := range cols {
		if cols[i].ID == id {
			return &cols[i]
		}
	}
	return nil
}
