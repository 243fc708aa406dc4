package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

func TestProgressBar_Defaults(t *testing.T) {
	pb := NewProgressBar(ProgressBarConfig{})
	assert.Equal(t, 40, pb.config.Width)
	assert.InDelta(t, 0.5, pb.config.LowThreshold, 0.001)
	assert.InDelta(t, 0.85, pb.config.HighThreshold, 0.001)
}

func TestProgressBar_RenderFill(t *testing.T) {
	pb := NewProgressBar(ProgressBarConfig{Width: 40})

	out := pb.Render(0.5)
	assert.Equal(t, 20, strings.Count(out, "█"))
	assert.Equal(t, 20, strings.Count(out, "░"))
}

func TestProgressBar_RenderClamps(t *testing.T) {
	pb := NewProgressBar(ProgressBarConfig{Width: 40})

	out := pb.Render(-0.5)
	assert.Equal(t, 0, strings.Count(out, "█"))
	assert.Equal(t, 40, strings.Count(out, "░"))

	out = pb.Render(1.5)
	assert.Equal(t, 40, strings.Count(out, "█"))
	assert.Equal(t, 0, strings.Count(out, "░"))
}

func TestProgressBar_Percentage(t *testing.T) {
	pb := NewProgressBar(ProgressBarConfig{Width: 40, ShowPercentage: true})

	out := pb.Render(1.0)
	assert.Contains(t, out, "100.0%")
	assert.Equal(t, 33, strings.Count(out, "█"))
}

func TestProgressBar_ThresholdColors(t *testing.T) {
	theme := themes.Solarized()
	pb := NewProgressBar(ProgressBarConfig{Width: 40})
	pb.SetTheme(theme)

	assert.Equal(t, theme.SuccessColor, pb.getColor(0.2))
	assert.Equal(t, theme.WarningColor, pb.getColor(0.6))
	assert.Equal(t, theme.ErrorColor, pb.getColor(0.9))
}

func TestProgressBar_RenderUsage(t *testing.T) {
	pb := NewProgressBar(ProgressBarConfig{Width: 40})

	assert.Contains(t, pb.RenderUsage(100, 0), "unmetered")

	out := pb.RenderUsage(512, 1024)
	assert.Contains(t, out, "512B / 1.0KB")
	assert.Equal(t, 20, strings.Count(out, "█"))
}
