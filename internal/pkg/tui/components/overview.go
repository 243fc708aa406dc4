package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

// OverviewData is the dashboard snapshot rendered by the overview tab.
type OverviewData struct {
	UpWindow   []float64
	DownWindow []float64
	MemWindow  []float64

	UpRate   float64
	DownRate float64
	MemInUse int64

	UpTotal   int64
	DownTotal int64

	ActiveConns int
	TotalConns  int64

	NodeCount       int
	GroupCount      int
	RuleCount       int
	ProxyProviders  int
	RuleProviders   int
	CoreVersion     string
	CorePremiumMeta bool
}

// OverviewView is the dashboard tab: traffic and memory charts with
// headline counters. While frozen it renders the snapshot taken at
// freeze time.
type OverviewView struct {
	latest OverviewData
	frozen *OverviewData
	theme  themes.Theme
	width  int
	height int
}

// NewOverviewView creates the overview tab view.
func NewOverviewView() *OverviewView {
	return &OverviewView{
		theme:  themes.Solarized(),
		width:  80,
		height: 20,
	}
}

// SetTheme updates the view theme.
func (v *OverviewView) SetTheme(theme themes.Theme) {
	v.theme = theme
}

// SetSize updates the view dimensions.
func (v *OverviewView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SetData records the newest dashboard snapshot.
func (v *OverviewView) SetData(data OverviewData) {
	v.latest = data
}

// Freeze pins the current snapshot for paused display.
func (v *OverviewView) Freeze() {
	snap := v.latest
	v.frozen = &snap
}

// Thaw resumes live display.
func (v *OverviewView) Thaw() {
	v.frozen = nil
}

func (v *OverviewView) data() OverviewData {
	if v.frozen != nil {
		return *v.frozen
	}
	return v.latest
}

func peak(window []float64) float64 {
	max := 0.0
	for _, val := range window {
		if val > max {
			max = val
		}
	}
	return max
}

// View renders the dashboard.
func (v *OverviewView) View() string {
	d := v.data()

	colWidth := v.width/2 - 2
	if colWidth < 30 {
		colWidth = 30
	}
	chartWidth := colWidth - 2
	chartHeight := 4

	titleStyle := lipgloss.NewStyle().Foreground(v.theme.HeaderFg).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(v.theme.Foreground)
	mutedStyle := lipgloss.NewStyle().Foreground(v.theme.MutedColor)
	upStyle := lipgloss.NewStyle().Foreground(v.theme.UploadColor)
	downStyle := lipgloss.NewStyle().Foreground(v.theme.DownloadColor)

	upPanel := strings.Join([]string{
		titleStyle.Render("Upload"),
		upStyle.Render("↑ "+formatRate(d.UpRate)) + mutedStyle.Render("  peak "+formatRate(peak(d.UpWindow))),
		RenderRateSparkline(d.UpWindow, chartWidth, chartHeight, v.theme.UploadColor),
	}, "\n")

	downPanel := strings.Join([]string{
		titleStyle.Render("Download"),
		downStyle.Render("↓ "+formatRate(d.DownRate)) + mutedStyle.Render("  peak "+formatRate(peak(d.DownWindow))),
		RenderRateSparkline(d.DownWindow, chartWidth, chartHeight, v.theme.DownloadColor),
	}, "\n")

	memPanel := strings.Join([]string{
		titleStyle.Render("Core memory"),
		valueStyle.Render(formatBytes(d.MemInUse)),
		RenderMemorySparkline(d.MemWindow, chartWidth, chartHeight, v.theme),
	}, "\n")

	var counters []string
	counters = append(counters, titleStyle.Render("Session"))
	counters = append(counters,
		mutedStyle.Render("Transferred  ")+
			upStyle.Render("↑ "+formatBytes(d.UpTotal))+" "+
			downStyle.Render("↓ "+formatBytes(d.DownTotal)))
	counters = append(counters,
		mutedStyle.Render("Connections  ")+
			valueStyle.Render(formatNumber(int64(d.ActiveConns))+" active")+
			mutedStyle.Render(" / "+formatNumber(d.TotalConns)+" seen"))
	counters = append(counters,
		mutedStyle.Render("Proxies      ")+
			valueStyle.Render(formatNumber(int64(d.NodeCount))+" nodes")+
			mutedStyle.Render(" in "+formatNumber(int64(d.GroupCount))+" groups"))
	counters = append(counters,
		mutedStyle.Render("Rules        ")+
			valueStyle.Render(formatNumber(int64(d.RuleCount))))
	counters = append(counters,
		mutedStyle.Render("Providers    ")+
			valueStyle.Render(formatNumber(int64(d.ProxyProviders))+" proxy")+
			mutedStyle.Render(" / ")+
			valueStyle.Render(formatNumber(int64(d.RuleProviders))+" rule"))
	if d.CoreVersion != "" {
		core := d.CoreVersion
		if d.CorePremiumMeta {
			core += " (meta)"
		}
		counters = append(counters, mutedStyle.Render("Core         ")+valueStyle.Render(core))
	}
	countersPanel := strings.Join(counters, "\n")

	colStyle := lipgloss.NewStyle().Width(colWidth).Padding(0, 1)
	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		colStyle.Render(upPanel),
		colStyle.Render(downPanel),
	)
	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top,
		colStyle.Render(memPanel),
		colStyle.Render(countersPanel),
	)

	return topRow + "\n\n" + bottomRow
}
