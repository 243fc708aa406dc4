package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/endorses/nekotop/internal/pkg/constants"
	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

// ToastType defines the severity of a toast notification.
type ToastType int

const (
	ToastSuccess ToastType = iota
	ToastError
	ToastInfo
	ToastWarning
)

// Toast duration constants.
const (
	ToastDurationShort  = 2 * time.Second // action acknowledged
	ToastDurationNormal = 3 * time.Second // operation started
	ToastDurationLong   = 5 * time.Second // operation completed, errors
)

// toastQueueItem represents a queued toast notification.
type toastQueueItem struct {
	message   string
	toastType ToastType
	duration  time.Duration
}

// Toast is a transient notification overlay. One toast shows at a time;
// Show calls made while one is visible queue up behind it.
type Toast struct {
	active    bool
	message   string
	toastType ToastType
	startTime time.Time
	duration  time.Duration
	theme     themes.Theme
	width     int
	height    int
	queue     []toastQueueItem
}

// ToastTickMsg is sent periodically to check if the toast should be dismissed.
type ToastTickMsg struct {
	Time time.Time
}

// NewToast creates a new Toast component.
func NewToast() Toast {
	return Toast{
		theme:    themes.Solarized(),
		duration: ToastDurationShort,
	}
}

// SetTheme updates the toast theme.
func (t *Toast) SetTheme(theme themes.Theme) {
	t.theme = theme
}

// SetSize updates the screen area the toast positions itself within.
func (t *Toast) SetSize(width, height int) {
	t.width = width
	t.height = height
}

// Show displays a toast, or queues it when one is already on screen.
func (t *Toast) Show(message string, toastType ToastType, duration time.Duration) tea.Cmd {
	if duration <= 0 {
		duration = ToastDurationNormal
	}
	if t.active {
		t.queue = append(t.queue, toastQueueItem{
			message:   message,
			toastType: toastType,
			duration:  duration,
		})
		return nil
	}

	t.active = true
	t.message = message
	t.toastType = toastType
	t.startTime = time.Now()
	t.duration = duration
	return toastTickCmd()
}

// Update advances the countdown. When the active toast expires the next
// queued one is promoted, keeping the tick loop alive until the queue
// drains.
func (t *Toast) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(ToastTickMsg)
	if !ok || !t.active {
		return nil
	}
	if tick.Time.Sub(t.startTime) < t.duration {
		return toastTickCmd()
	}
	if len(t.queue) > 0 {
		next := t.queue[0]
		t.queue = t.queue[1:]
		t.message = next.message
		t.toastType = next.toastType
		t.duration = next.duration
		t.startTime = tick.Time
		return toastTickCmd()
	}
	t.active = false
	return nil
}

// Dismiss drops the visible toast and everything queued behind it.
func (t *Toast) Dismiss() {
	t.active = false
	t.queue = nil
}

// Visible reports whether a toast is currently on screen.
func (t *Toast) Visible() bool {
	return t.active
}

func toastTickCmd() tea.Cmd {
	return tea.Tick(constants.TUITickInterval, func(ts time.Time) tea.Msg {
		return ToastTickMsg{Time: ts}
	})
}

// View renders the active toast, or an empty string when idle.
func (t *Toast) View() string {
	if !t.active {
		return ""
	}

	accent := t.accentColor()
	maxWidth := t.width - 6
	if maxWidth < 20 {
		maxWidth = 20
	}
	msg := truncateString(t.message, maxWidth)

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Foreground(t.theme.Foreground).
		Background(t.theme.Background).
		Padding(0, 1)

	return style.Render(t.symbol() + " " + msg)
}

func (t *Toast) accentColor() lipgloss.Color {
	switch t.toastType {
	case ToastSuccess:
		return t.theme.SuccessColor
	case ToastError:
		return t.theme.ErrorColor
	case ToastWarning:
		return t.theme.WarningColor
	default:
		return t.theme.InfoColor
	}
}

func (t *Toast) symbol() string {
	switch t.toastType {
	case ToastSuccess:
		return "✓"
	case ToastError:
		return "✗"
	case ToastWarning:
		return "!"
	default:
		return "•"
	}
}
