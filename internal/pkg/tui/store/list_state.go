package store

import (
	"github.com/endorses/nekotop/internal/pkg/tui/filters"
)

// ListState owns the view-side state of one list tab: sort, filter
// pattern, live/frozen mode, selection, and the cached derived view. It
// is only touched from the update loop and needs no locking.
//
// Ingest and display are decoupled: SetRows always records the newest
// entities, but while frozen the view keeps deriving from the snapshot
// taken at freeze time, so sort and filter changes still apply to what
// is on screen.
type ListState[T any] struct {
	cols    []filters.Column[T]
	sort    filters.SortSpec
	pattern string

	rows   []T // newest entities, insertion order
	frozen []T // pause-time snapshot; nil when live

	view     []T
	dirty    bool
	selected int
}

// NewListState creates the state for a tab with the given columns.
func NewListState[T any](cols []filters.Column[T]) *ListState[T] {
	return &ListState[T]{cols: cols}
}

// Columns returns the column metadata for rendering.
func (ls *ListState[T]) Columns() []filters.Column[T] { return ls.cols }

// SetRows records the newest entity snapshot. While frozen this does not
// touch the visible view.
func (ls *ListState[T]) SetRows(rows []T) {
	ls.rows = rows
	if ls.Live() {
		ls.dirty = true
	}
}

// Rows returns the newest entities regardless of freeze state.
func (ls *ListState[T]) Rows() []T { return ls.rows }

// View returns the derived view, recomputing it only when something
// changed since the last call.
func (ls *ListState[T]) View() []T {
	if ls.dirty {
		ls.view = filters.DeriveView(ls.source(), ls.cols, ls.sort, ls.pattern)
		ls.clampSelection()
		ls.dirty = false
	}
	return ls.view
}

func (ls *ListState[T]) source() []T {
	if ls.frozen != nil {
		return ls.frozen
	}
	return ls.rows
}

// Live reports whether the view follows incoming data.
func (ls *ListState[T]) Live() bool { return ls.frozen == nil }

// Freeze pins the view to the current entities. Freezing twice keeps the
// first snapshot.
func (ls *ListState[T]) Freeze() {
	if ls.frozen != nil {
		return
	}
	if ls.rows == nil {
		ls.frozen = []T{}
		return
	}
	ls.frozen = ls.rows
}

// Thaw returns to live mode; the next View call picks up everything that
// arrived while frozen.
func (ls *ListState[T]) Thaw() {
	if ls.frozen == nil {
		return
	}
	ls.frozen = nil
	ls.dirty = true
}

// Pattern returns the current filter pattern.
func (ls *ListState[T]) Pattern() string { return ls.pattern }

// SetPattern replaces the filter pattern and resets the selection. The
// pattern applies to the frozen snapshot too.
func (ls *ListState[T]) SetPattern(pattern string) {
	if pattern == ls.pattern {
		return
	}
	ls.pattern = pattern
	ls.selected = 0
	ls.dirty = true
}

// Sort returns the current sort spec.
func (ls *ListState[T]) Sort() filters.SortSpec { return ls.sort }

// CycleSort moves to the next sortable column; a no-op on views without
// sortable columns.
func (ls *ListState[T]) CycleSort() {
	next := filters.CycleSort(ls.cols, ls.sort)
	if next == ls.sort {
		return
	}
	ls.sort = next
	ls.dirty = true
}

// ToggleOrder flips the sort direction.
func (ls *ListState[T]) ToggleOrder() {
	next := ls.sort.Toggle()
	if next == ls.sort {
		return
	}
	ls.sort = next
	ls.dirty = true
}

// SelectedIndex returns the cursor position within the view.
func (ls *ListState[T]) SelectedIndex() int {
	ls.View()
	return ls.selected
}

// Selected returns the entity under the cursor.
func (ls *ListState[T]) Selected() (T, bool) {
	view := ls.View()
	if len(view) == 0 {
		var zero T
		return zero, false
	}
	return view[ls.selected], true
}

// MoveSelection moves the cursor by delta, clamped to the view.
func (ls *ListState[T]) MoveSelection(delta int) {
	ls.View()
	ls.selected += delta
	ls.clampSelection()
}

// SelectFirst jumps to the top of the view.
func (ls *ListState[T]) SelectFirst() { ls.selected = 0 }

// SelectLast jumps to the bottom of the view.
func (ls *ListState[T]) SelectLast() {
	ls.selected = len(ls.View()) - 1
	ls.clampSelection()
}

func (ls *ListState[T]) clampSelection() {
	if n := len(ls.view); ls.selected >= n {
		ls.selected = n - 1
	}
	if ls.selected < 0 {
		ls.selected = 0
	}
}
