package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

// ProgressBarConfig holds configuration for a progress bar.
type ProgressBarConfig struct {
	Width          int     // Total width in characters
	ShowPercentage bool    // Show percentage value
	LowThreshold   float64 // Below this = green (default 0.5)
	HighThreshold  float64 // Above this = red (default 0.85)
}

// ProgressBar is a utilization bar with threshold-based coloring. It
// renders subscription quota usage in the provider tabs.
type ProgressBar struct {
	config ProgressBarConfig
	theme  themes.Theme
}

// NewProgressBar creates a new progress bar with the given configuration.
func NewProgressBar(cfg ProgressBarConfig) *ProgressBar {
	if cfg.Width <= 0 {
		cfg.Width = 40
	}
	if cfg.LowThreshold <= 0 {
		cfg.LowThreshold = 0.5
	}
	if cfg.HighThreshold <= 0 {
		cfg.HighThreshold = 0.85
	}
	if cfg.HighThreshold <= cfg.LowThreshold {
		cfg.HighThreshold = cfg.LowThreshold + 0.3
	}

	return &ProgressBar{
		config: cfg,
		theme:  themes.Solarized(),
	}
}

// SetTheme updates the progress bar theme.
func (pb *ProgressBar) SetTheme(theme themes.Theme) {
	pb.theme = theme
}

// SetWidth updates the progress bar width.
func (pb *ProgressBar) SetWidth(width int) {
	if width > 0 {
		pb.config.Width = width
	}
}

func (pb *ProgressBar) getColor(ratio float64) lipgloss.Color {
	switch {
	case ratio >= pb.config.HighThreshold:
		return pb.theme.ErrorColor
	case ratio >= pb.config.LowThreshold:
		return pb.theme.WarningColor
	default:
		return pb.theme.SuccessColor
	}
}

// Render draws the progress bar for a given ratio (0.0 to 1.0).
func (pb *ProgressBar) Render(ratio float64) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	barWidth := pb.config.Width
	if pb.config.ShowPercentage {
		barWidth -= 7 // " 100.0%"
	}
	if barWidth < 10 {
		barWidth = 10
	}

	filledWidth := int(float64(barWidth) * ratio)
	emptyWidth := barWidth - filledWidth
	fillColor := pb.getColor(ratio)

	filled := lipgloss.NewStyle().
		Foreground(fillColor).
		Render(strings.Repeat("█", filledWidth))
	empty := lipgloss.NewStyle().
		Foreground(pb.theme.MutedColor).
		Render(strings.Repeat("░", emptyWidth))

	var b strings.Builder
	b.WriteString(filled)
	b.WriteString(empty)

	if pb.config.ShowPercentage {
		pctStyle := lipgloss.NewStyle().Foreground(fillColor)
		b.WriteString(" ")
		b.WriteString(pctStyle.Render(fmt.Sprintf("%5.1f%%", ratio*100)))
	}

	return b.String()
}

// RenderUsage draws the bar for used bytes out of a total, with the
// values alongside. A missing total renders as an unmetered dash bar.
func (pb *ProgressBar) RenderUsage(used, total int64) string {
	if total <= 0 {
		muted := lipgloss.NewStyle().Foreground(pb.theme.MutedColor)
		return muted.Render(strings.Repeat("░", pb.config.Width) + " unmetered")
	}

	ratio := float64(used) / float64(total)
	valueStyle := lipgloss.NewStyle().Foreground(pb.theme.MutedColor)
	return pb.Render(ratio) + " " + valueStyle.Render(formatBytes(used)+" / "+formatBytes(total))
}
