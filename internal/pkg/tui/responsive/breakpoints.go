// Package responsive maps terminal widths to layout classes. Wide
// terminals get full tab labels and all table columns; medium ones get
// short labels; narrow ones drop optional columns and label text.
package responsive

// Breakpoint thresholds
const (
	// NarrowMaxWidth is the maximum width for the narrow layout
	NarrowMaxWidth = 79

	// MediumMaxWidth is the maximum width for the medium layout
	MediumMaxWidth = 119

	// Wide layout is used for widths >= 120
)

// WidthClass represents the responsive width category
type WidthClass int

const (
	// Narrow is for terminals < 80 chars
	Narrow WidthClass = iota

	// Medium is for terminals 80-119 chars
	Medium

	// Wide is for terminals >= 120 chars
	Wide
)

// GetWidthClass returns the width class for a given terminal width
func GetWidthClass(width int) WidthClass {
	switch {
	case width <= NarrowMaxWidth:
		return Narrow
	case width <= MediumMaxWidth:
		return Medium
	default:
		return Wide
	}
}

// String returns a human-readable name for the width class
func (w WidthClass) String() string {
	switch w {
	case Narrow:
		return "narrow"
	case Medium:
		return "medium"
	case Wide:
		return "wide"
	default:
		return "unknown"
	}
}
