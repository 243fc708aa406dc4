package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/endorses/nekotop/internal/pkg/api"
	"github.com/endorses/nekotop/internal/pkg/constants"
	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

// proxyRow is one display line: either a group heading or a node entry
// belonging to the group above it.
type proxyRow struct {
	IsGroup bool
	Group   string // owning group name (same as Name for group rows)
	Name    string
	Proxy   api.Proxy
	IsNow   bool
}

// proxySnapshot is everything the render needs, captured as a unit so
// pausing pins a coherent picture.
type proxySnapshot struct {
	groups  []string
	proxies map[string]api.Proxy
}

// ProxiesView shows selector groups with their member nodes. Navigation
// moves across node rows; group headings are skipped. The view derives
// its row list from the latest snapshot, or from the pinned one while
// frozen.
type ProxiesView struct {
	latest  proxySnapshot
	frozen  *proxySnapshot
	pattern string
	rows    []proxyRow
	dirty   bool

	selected int
	offset   int
	testing  map[string]bool

	theme  themes.Theme
	width  int
	height int
}

// NewProxiesView creates the proxies tab view.
func NewProxiesView() *ProxiesView {
	return &ProxiesView{
		theme:   themes.Solarized(),
		testing: make(map[string]bool),
		width:   80,
		height:  20,
		dirty:   true,
	}
}

// SetTheme updates the view theme.
func (v *ProxiesView) SetTheme(theme themes.Theme) {
	v.theme = theme
}

// SetSize updates the view dimensions.
func (v *ProxiesView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Ingest records the newest proxy map. Group order follows the core's
// GLOBAL ordering.
func (v *ProxiesView) Ingest(proxies map[string]api.Proxy) {
	v.latest = proxySnapshot{
		groups:  api.GroupNames(proxies),
		proxies: proxies,
	}
	if v.frozen == nil {
		v.dirty = true
	}
}

// Freeze pins the current snapshot for paused display.
func (v *ProxiesView) Freeze() {
	snap := v.latest
	v.frozen = &snap
	v.dirty = true
}

// Thaw resumes live display.
func (v *ProxiesView) Thaw() {
	v.frozen = nil
	v.dirty = true
}

// Pattern returns the active filter pattern.
func (v *ProxiesView) Pattern() string { return v.pattern }

// SetPattern applies a filter pattern over node names. A group whose
// own name matches keeps all its nodes.
func (v *ProxiesView) SetPattern(p string) {
	if v.pattern == p {
		return
	}
	v.pattern = p
	v.dirty = true
	v.selected = 0
}

func (v *ProxiesView) source() proxySnapshot {
	if v.frozen != nil {
		return *v.frozen
	}
	return v.latest
}

// derive rebuilds the display rows from the active snapshot.
func (v *ProxiesView) derive() {
	if !v.dirty {
		return
	}
	v.dirty = false
	snap := v.source()
	pattern := strings.ToLower(v.pattern)

	var rows []proxyRow
	for _, groupName := range snap.groups {
		group, ok := snap.proxies[groupName]
		if !ok {
			continue
		}
		groupMatches := pattern == "" || strings.Contains(strings.ToLower(groupName), pattern)

		var nodes []proxyRow
		for _, nodeName := range group.All {
			if !groupMatches && !strings.Contains(strings.ToLower(nodeName), pattern) {
				continue
			}
			node := snap.proxies[nodeName]
			if node.Name == "" {
				node.Name = nodeName
			}
			nodes = append(nodes, proxyRow{
				Group: groupName,
				Name:  nodeName,
				Proxy: node,
				IsNow: nodeName == group.Now,
			})
		}
		if len(nodes) == 0 {
			continue
		}
		rows = append(rows, proxyRow{IsGroup: true, Group: groupName, Name: groupName, Proxy: group})
		rows = append(rows, nodes...)
	}
	v.rows = rows
	v.clampSelection()
}

// clampSelection keeps the cursor on a node row.
func (v *ProxiesView) clampSelection() {
	if len(v.rows) == 0 {
		v.selected = 0
		return
	}
	if v.selected >= len(v.rows) {
		v.selected = len(v.rows) - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}
	// Slide off a group heading to the next node row.
	for v.selected < len(v.rows) && v.rows[v.selected].IsGroup {
		v.selected++
	}
	if v.selected >= len(v.rows) {
		// Only headings past this point; walk back instead.
		for v.selected = len(v.rows) - 1; v.selected > 0 && v.rows[v.selected].IsGroup; v.selected-- {
		}
	}
}

// MoveSelection moves the cursor by delta node rows, skipping headings.
func (v *ProxiesView) MoveSelection(delta int) {
	v.derive()
	if len(v.rows) == 0 || delta == 0 {
		return
	}
	step := 1
	if delta < 0 {
		step = -1
		delta = -delta
	}
	pos := v.selected
	for moved := 0; moved < delta; moved++ {
		next := pos + step
		for next >= 0 && next < len(v.rows) && v.rows[next].IsGroup {
			next += step
		}
		if next < 0 || next >= len(v.rows) {
			break
		}
		pos = next
	}
	v.selected = pos
}

// SelectFirst moves the cursor to the first node row.
func (v *ProxiesView) SelectFirst() {
	v.derive()
	v.selected = 0
	v.clampSelection()
}

// SelectLast moves the cursor to the last node row.
func (v *ProxiesView) SelectLast() {
	v.derive()
	v.selected = len(v.rows) - 1
	if v.selected < 0 {
		v.selected = 0
	}
	for v.selected > 0 && v.rows[v.selected].IsGroup {
		v.selected--
	}
}

// PageSize returns rows per page for pgup/pgdn movement.
func (v *ProxiesView) PageSize() int {
	n := v.height - 1
	if n < 1 {
		n = 1
	}
	return n
}

// Selected returns the group and node under the cursor.
func (v *ProxiesView) Selected() (group, node string, ok bool) {
	v.derive()
	if v.selected < 0 || v.selected >= len(v.rows) {
		return "", "", false
	}
	row := v.rows[v.selected]
	if row.IsGroup {
		return row.Group, "", false
	}
	return row.Group, row.Name, true
}

// SelectedGroup returns the group the cursor sits in.
func (v *ProxiesView) SelectedGroup() (string, bool) {
	v.derive()
	if v.selected < 0 || v.selected >= len(v.rows) {
		return "", false
	}
	return v.rows[v.selected].Group, true
}

// MarkTesting flags nodes with a latency probe in flight.
func (v *ProxiesView) MarkTesting(names ...string) {
	for _, n := range names {
		v.testing[n] = true
	}
}

// ClearTesting removes in-flight probe flags.
func (v *ProxiesView) ClearTesting(names ...string) {
	for _, n := range names {
		delete(v.testing, n)
	}
}

// RowCount returns the number of display rows, headings included.
func (v *ProxiesView) RowCount() int {
	v.derive()
	return len(v.rows)
}

func (v *ProxiesView) latencyCell(p api.Proxy) string {
	if v.testing[p.Name] {
		return lipgloss.NewStyle().Foreground(v.theme.MutedColor).Render("   ...")
	}
	delay := p.LastDelay()
	if delay <= 0 {
		return lipgloss.NewStyle().Foreground(v.theme.MutedColor).Render("     -")
	}
	var color lipgloss.Color
	switch {
	case delay <= constants.LatencyGoodMS:
		color = v.theme.LatencyGood
	case delay <= constants.LatencyMediumMS:
		color = v.theme.LatencyMedium
	default:
		color = v.theme.LatencyBad
	}
	text := formatNumber(int64(delay)) + "ms"
	pad := 6 - lipgloss.Width(text)
	if pad > 0 {
		text = strings.Repeat(" ", pad) + text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func (v *ProxiesView) renderGroupRow(row proxyRow) string {
	style := lipgloss.NewStyle().
		Foreground(v.theme.HeaderFg).
		Bold(true)
	meta := lipgloss.NewStyle().Foreground(v.theme.MutedColor)

	head := style.Render("▾ " + row.Name)
	info := meta.Render(" (" + row.Proxy.Type + ")")
	now := ""
	if row.Proxy.Now != "" {
		now = meta.Render(" → ") + style.Render(row.Proxy.Now)
	}
	count := meta.Render("  [" + formatNumber(int64(len(row.Proxy.All))) + "]")
	return head + info + now + count
}

func (v *ProxiesView) renderNodeRow(row proxyRow, selected bool) string {
	marker := "  "
	if row.IsNow {
		marker = lipgloss.NewStyle().Foreground(v.theme.SuccessColor).Render("● ")
	}

	nameWidth := v.width - 24
	if nameWidth < 10 {
		nameWidth = 10
	}
	// A recorded probe with zero delay means the node timed out.
	nameStyle := lipgloss.NewStyle().Foreground(v.theme.Foreground)
	if len(row.Proxy.History) > 0 && row.Proxy.LastDelay() == 0 {
		nameStyle = lipgloss.NewStyle().Foreground(v.theme.MutedColor)
	}
	name := nameStyle.Render(renderCell(row.Name, nameWidth, false))

	typeStyle := lipgloss.NewStyle().Foreground(v.theme.MutedColor)
	typ := typeStyle.Render(renderCell(row.Proxy.Type, 12, false))

	line := "  " + marker + name + " " + typ + " " + v.latencyCell(row.Proxy)
	if selected {
		return lipgloss.NewStyle().
			Background(v.theme.SelectionBg).
			Width(v.width).
			Render(line)
	}
	return line
}

// View renders the grouped proxy list.
func (v *ProxiesView) View() string {
	v.derive()

	if len(v.rows) == 0 {
		return lipgloss.NewStyle().
			Foreground(v.theme.MutedColor).
			Italic(true).
			Render("  no proxy groups")
	}

	visible := v.height
	if visible < 1 {
		visible = 1
	}
	if v.selected < v.offset {
		v.offset = v.selected
	}
	if v.selected >= v.offset+visible {
		v.offset = v.selected - visible + 1
	}
	if v.offset > len(v.rows)-visible {
		v.offset = len(v.rows) - visible
	}
	if v.offset < 0 {
		v.offset = 0
	}

	end := v.offset + visible
	if end > len(v.rows) {
		end = len(v.rows)
	}

	var b strings.Builder
	for i := v.offset; i < end; i++ {
		row := v.rows[i]
		if row.IsGroup {
			b.WriteString(v.renderGroupRow(row))
		} else {
			b.WriteString(v.renderNodeRow(row, i == v.selected))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
