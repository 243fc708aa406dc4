package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testTabs() Tabs {
	return NewTabs([]Tab{
		{Label: "Alpha", ShortLabel: "A"},
		{Label: "Beta", ShortLabel: "B"},
		{Label: "Gamma", ShortLabel: "G"},
	})
}

func TestTabs_ActiveBounds(t *testing.T) {
	tabs := testTabs()
	assert.Equal(t, 0, tabs.GetActive())
	assert.Equal(t, 3, tabs.Count())

	tabs.SetActive(2)
	assert.Equal(t, 2, tabs.GetActive())

	// Out-of-range indexes are ignored.
	tabs.SetActive(5)
	assert.Equal(t, 2, tabs.GetActive())
	tabs.SetActive(-1)
	assert.Equal(t, 2, tabs.GetActive())
}

func TestTabs_NextPreviousWrap(t *testing.T) {
	tabs := testTabs()

	tabs.Next()
	tabs.Next()
	assert.Equal(t, 2, tabs.GetActive())
	tabs.Next()
	assert.Equal(t, 0, tabs.GetActive())

	tabs.Previous()
	assert.Equal(t, 2, tabs.GetActive())
}

func TestTabs_DisplayModes(t *testing.T) {
	tabs := testTabs()

	assert.Equal(t, "1:Alpha", tabs.getTabContent(0, tabDisplayWide))
	assert.Equal(t, "2:B", tabs.getTabContent(1, tabDisplayMedium))
	assert.Equal(t, "3", tabs.getTabContent(2, tabDisplayNarrow))

	// A tab without a short label falls back to the full one.
	bare := NewTabs([]Tab{{Label: "Solo"}})
	assert.Equal(t, "1:Solo", bare.getTabContent(0, tabDisplayMedium))
}

func TestTabs_ModeSelectionByWidth(t *testing.T) {
	tabs := testTabs()

	// Wide bar: "1:Alpha" + "2:Beta" + "3:Gamma" at 3 extra chars each.
	tabs.SetWidth(200)
	assert.Equal(t, tabDisplayWide, tabs.determineDisplayMode())

	tabs.SetWidth(20)
	assert.Equal(t, tabDisplayMedium, tabs.determineDisplayMode())

	tabs.SetWidth(10)
	assert.Equal(t, tabDisplayNarrow, tabs.determineDisplayMode())
}

func TestTabs_ViewMarksActive(t *testing.T) {
	tabs := testTabs()
	tabs.SetWidth(200)
	tabs.SetActive(1)

	out := tabs.View()
	assert.Contains(t, out, "1:Alpha")
	assert.Contains(t, out, "2:Beta")
	assert.Contains(t, out, "3:Gamma")
}
