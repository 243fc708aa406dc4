package components

import (
	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"

	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

// SparklineConfig holds configuration for a sparkline chart.
type SparklineConfig struct {
	Width    int
	Height   int
	MaxValue float64 // If 0, auto-scales
	Style    lipgloss.Style
}

// Sparkline wraps ntcharts sparkline with theme-aware styling.
type Sparkline struct {
	model  sparkline.Model
	config SparklineConfig
	theme  themes.Theme
}

// NewSparkline creates a new sparkline with the given configuration.
func NewSparkline(cfg SparklineConfig) *Sparkline {
	opts := []sparkline.Option{}
	if cfg.MaxValue > 0 {
		opts = append(opts, sparkline.WithMaxValue(cfg.MaxValue))
	}
	if cfg.Style.Value() != "" {
		opts = append(opts, sparkline.WithStyle(cfg.Style))
	}

	return &Sparkline{
		model:  sparkline.New(cfg.Width, cfg.Height, opts...),
		config: cfg,
		theme:  themes.Solarized(),
	}
}

// SetTheme updates the sparkline theme.
func (s *Sparkline) SetTheme(theme themes.Theme) {
	s.theme = theme
	s.model.Style = lipgloss.NewStyle().Foreground(theme.InfoColor)
}

// SetStyle sets a custom style for the sparkline.
func (s *Sparkline) SetStyle(style lipgloss.Style) {
	s.model.Style = style
}

// Resize changes the sparkline dimensions.
func (s *Sparkline) Resize(width, height int) {
	s.config.Width = width
	s.config.Height = height
	s.model.Resize(width, height)
}

// SetData replaces all data with new values.
func (s *Sparkline) SetData(values []float64) {
	s.model.Clear()
	s.model.PushAll(values)
}

// View renders the sparkline.
func (s *Sparkline) View() string {
	s.model.DrawColumnsOnly()
	return s.model.View()
}

// RenderRateSparkline renders a bytes/sec rate window as a sparkline in
// the given color. Scaling is left automatic so the window always fills
// the vertical range.
func RenderRateSparkline(rates []float64, width, height int, color lipgloss.Color) string {
	if len(rates) == 0 {
		return ""
	}

	style := lipgloss.NewStyle().Foreground(color)
	sl := sparkline.New(width, height,
		sparkline.WithStyle(style),
		sparkline.WithData(rates),
	)
	sl.DrawColumnsOnly()
	return sl.View()
}

// RenderMemorySparkline renders a memory usage window, colored by how
// close the newest sample sits to the window peak.
func RenderMemorySparkline(samples []float64, width, height int, theme themes.Theme) string {
	if len(samples) == 0 {
		return ""
	}

	peak := 0.0
	for _, v := range samples {
		if v > peak {
			peak = v
		}
	}

	color := theme.SuccessColor
	if peak > 0 {
		ratio := samples[len(samples)-1] / peak
		switch {
		case ratio > 0.9:
			color = theme.ErrorColor
		case ratio > 0.66:
			color = theme.WarningColor
		}
	}

	style := lipgloss.NewStyle().Foreground(color)
	sl := sparkline.New(width, height,
		sparkline.WithStyle(style),
		sparkline.WithData(samples),
	)
	sl.DrawColumnsOnly()
	return sl.View()
}
