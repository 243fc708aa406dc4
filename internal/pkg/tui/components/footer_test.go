package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func keybindKeys(binds []TabKeybind) []string {
	keys := make([]string, len(binds))
	for i, kb := range binds {
		keys[i] = kb.Key
	}
	return keys
}

func TestFooter_SortKeyOnSortableTabs(t *testing.T) {
	f := NewFooter()

	for _, tab := range []int{TabConnections, TabProxyProviders, TabRuleProviders} {
		assert.Contains(t, keybindKeys(f.getTabKeybinds(tab)), "s", "tab %d", tab)
	}

	// Rules keep their core-side order, so no sort key there.
	assert.NotContains(t, keybindKeys(f.getTabKeybinds(TabRules)), "s")
}

func TestFooter_PauseLabelFollowsState(t *testing.T) {
	f := NewFooter()
	binds := f.getTabKeybinds(TabOverview)
	assert.Equal(t, "pause", binds[1].Description)

	f.SetPaused(true)
	binds = f.getTabKeybinds(TabOverview)
	assert.Equal(t, "resume", binds[1].Description)
}

func TestFooter_StreamDownBanner(t *testing.T) {
	f := NewFooter()
	f.SetWidth(120)
	assert.NotContains(t, f.View(), "reconnect")

	f.SetStreamsDown([]string{"traffic", "logs"})
	out := f.View()
	assert.Contains(t, out, "DOWN traffic,logs")
	assert.Contains(t, out, "ctrl+r: reconnect")

	f.SetStreamsDown(nil)
	assert.NotContains(t, f.View(), "reconnect")
}
