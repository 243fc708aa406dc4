package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/endorses/nekotop/internal/pkg/tui/filters"
	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

// Table renders rows of T as a scrollable column view. The column
// definitions double as the filter and sort schema, so every tab that
// shows a list drives this one component with its own column set.
//
// A column with Width 0 is the flex column and absorbs whatever
// horizontal space the fixed columns leave over. The table keeps only
// scroll state; rows are passed to View on every render.
type Table[T any] struct {
	columns  []filters.Column[T]
	theme    themes.Theme
	width    int
	height   int
	offset   int
	rowStyle func(T) lipgloss.Style
}

// NewTable creates a table over the given column schema.
func NewTable[T any](columns []filters.Column[T]) *Table[T] {
	return &Table[T]{
		columns: columns,
		theme:   themes.Solarized(),
		width:   80,
		height:  20,
	}
}

// SetTheme updates the table theme.
func (t *Table[T]) SetTheme(theme themes.Theme) {
	t.theme = theme
}

// SetSize sets the table's render area. Height includes the header row.
func (t *Table[T]) SetSize(width, height int) {
	t.width = width
	t.height = height
}

// SetRowStyle installs a per-row base style hook, e.g. to dim closed
// connections or color log levels. Selection styling wins over it.
func (t *Table[T]) SetRowStyle(fn func(T) lipgloss.Style) {
	t.rowStyle = fn
}

// VisibleRows returns how many data rows fit under the header.
func (t *Table[T]) VisibleRows() int {
	n := t.height - 1
	if n < 1 {
		n = 1
	}
	return n
}

// columnWidths distributes the available width across columns. Fixed
// columns keep their declared width; the flex column takes the rest.
func (t *Table[T]) columnWidths() []int {
	const gap = 2
	widths := make([]int, len(t.columns))
	flexIdx := -1
	used := 0
	for i, col := range t.columns {
		if col.Width <= 0 {
			flexIdx = i
			continue
		}
		widths[i] = col.Width
		used += col.Width
	}
	used += gap * (len(t.columns) - 1)

	if flexIdx >= 0 {
		flex := t.width - used
		if flex < 8 {
			flex = 8
		}
		widths[flexIdx] = flex
	}
	return widths
}

// renderCell pads or truncates text to the column width.
func renderCell(text string, width int, alignRight bool) string {
	text = truncateString(text, width)
	pad := width - lipgloss.Width(text)
	if pad <= 0 {
		return text
	}
	if alignRight {
		return strings.Repeat(" ", pad) + text
	}
	return text + strings.Repeat(" ", pad)
}

// headerRow renders the column titles with a sort indicator on the
// active sort column.
func (t *Table[T]) headerRow(widths []int, sort filters.SortSpec) string {
	style := lipgloss.NewStyle().
		Foreground(t.theme.HeaderFg).
		Background(t.theme.HeaderBg).
		Bold(true)

	cells := make([]string, len(t.columns))
	for i, col := range t.columns {
		title := col.Title
		if !sort.IsZero() && sort.ColumnID == col.ID {
			if sort.Ascending {
				title += " ▲"
			} else {
				title += " ▼"
			}
		}
		cells[i] = renderCell(title, widths[i], col.AlignRight)
	}
	return style.Width(t.width).Render(strings.Join(cells, "  "))
}

// ensureVisible scrolls the window so the selected row stays on screen.
func (t *Table[T]) ensureVisible(selected, total int) {
	visible := t.VisibleRows()
	if total <= visible {
		t.offset = 0
		return
	}
	if selected < t.offset {
		t.offset = selected
	}
	if selected >= t.offset+visible {
		t.offset = selected - visible + 1
	}
	if t.offset > total-visible {
		t.offset = total - visible
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

// View renders the header and the visible row window. The selected row
// is highlighted; pass selected -1 for no selection.
func (t *Table[T]) View(rows []T, selected int, sort filters.SortSpec) string {
	widths := t.columnWidths()

	var b strings.Builder
	b.WriteString(t.headerRow(widths, sort))
	b.WriteString("\n")

	if len(rows) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(t.theme.MutedColor).
			Italic(true).
			Render("  no entries")
		b.WriteString(empty)
		return b.String()
	}

	if selected >= 0 {
		t.ensureVisible(selected, len(rows))
	}

	selectedStyle := lipgloss.NewStyle().
		Foreground(t.theme.SelectionFg).
		Background(t.theme.SelectionBg).
		Bold(true)
	defaultStyle := lipgloss.NewStyle().
		Foreground(t.theme.Foreground)

	end := t.offset + t.VisibleRows()
	if end > len(rows) {
		end = len(rows)
	}

	for i := t.offset; i < end; i++ {
		row := rows[i]
		cells := make([]string, len(t.columns))
		for c, col := range t.columns {
			cells[c] = renderCell(col.Text(row), widths[c], col.AlignRight)
		}
		line := strings.Join(cells, "  ")

		style := defaultStyle
		if t.rowStyle != nil {
			style = t.rowStyle(row)
		}
		if i == selected {
			style = selectedStyle
		}
		b.WriteString(style.Width(t.width).Render(line))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// ScrollInfo describes the visible window for a status line, e.g.
// "12-31 of 240".
func (t *Table[T]) ScrollInfo(total int) string {
	if total == 0 {
		return "0 of 0"
	}
	first := t.offset + 1
	last := t.offset + t.VisibleRows()
	if last > total {
		last = total
	}
	return formatNumber(int64(first)) + "-" + formatNumber(int64(last)) + " of " + formatNumber(int64(total))
}
