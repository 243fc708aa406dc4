package components

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

func TestSparkline_SetDataAndView(t *testing.T) {
	sl := NewSparkline(SparklineConfig{Width: 10, Height: 2})
	sl.SetData([]float64{1, 5, 3, 8, 2})

	out := sl.View()
	assert.NotEmpty(t, out)
	assert.Equal(t, 2, lipgloss.Height(out))
}

func TestSparkline_Resize(t *testing.T) {
	sl := NewSparkline(SparklineConfig{Width: 10, Height: 1})
	sl.SetData([]float64{1, 2, 3})
	sl.Resize(20, 3)

	out := sl.View()
	assert.Equal(t, 3, lipgloss.Height(out))
}

func TestRenderRateSparkline(t *testing.T) {
	assert.Equal(t, "", RenderRateSparkline(nil, 10, 1, lipgloss.Color("#ffffff")))

	out := RenderRateSparkline([]float64{100, 2048, 512}, 10, 1, lipgloss.Color("#ffffff"))
	assert.NotEmpty(t, out)
	assert.Equal(t, 1, lipgloss.Height(out))
}

func TestRenderMemorySparkline(t *testing.T) {
	theme := themes.Solarized()
	assert.Equal(t, "", RenderMemorySparkline(nil, 10, 1, theme))

	out := RenderMemorySparkline([]float64{100, 200, 150}, 12, 2, theme)
	assert.NotEmpty(t, out)
	assert.Equal(t, 2, lipgloss.Height(out))
}
