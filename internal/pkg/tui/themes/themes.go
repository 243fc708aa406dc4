package themes

import "github.com/charmbracelet/lipgloss"

// Theme represents a color theme for the TUI
type Theme struct {
	Name string

	// General UI colors
	Background         lipgloss.Color
	Foreground         lipgloss.Color
	TerminalBg         lipgloss.Color // Actual terminal background (transparent)
	HeaderBg           lipgloss.Color
	HeaderFg           lipgloss.Color
	StatusBarBg        lipgloss.Color
	StatusBarFg        lipgloss.Color
	SelectionBg        lipgloss.Color
	SelectionFg        lipgloss.Color
	BorderColor        lipgloss.Color
	FocusedBorderColor lipgloss.Color
	MutedColor         lipgloss.Color

	// Network colors
	TCPColor      lipgloss.Color
	UDPColor      lipgloss.Color
	UploadColor   lipgloss.Color
	DownloadColor lipgloss.Color

	// Latency colors
	LatencyGood   lipgloss.Color
	LatencyMedium lipgloss.Color
	LatencyBad    lipgloss.Color

	// Log level colors
	LogDebugColor   lipgloss.Color
	LogInfoColor    lipgloss.Color
	LogWarningColor lipgloss.Color
	LogErrorColor   lipgloss.Color

	// Emphasis colors
	WarningColor lipgloss.Color
	SuccessColor lipgloss.Color
	InfoColor    lipgloss.Color
	ErrorColor   lipgloss.Color
	FilterColor  lipgloss.Color
}

// Solarized color palette
var (
	// Solarized Dark base colors
	solarizedBase02 = lipgloss.Color("#073642") // background highlights
	solarizedBase01 = lipgloss.Color("#586e75") // comments / secondary content
	solarizedBase0  = lipgloss.Color("#839496") // body text / default code
	solarizedBase1  = lipgloss.Color("#93a1a1") // optional emphasized content

	// Solarized accent colors
	solarizedYellow  = lipgloss.Color("#b58900")
	solarizedOrange  = lipgloss.Color("#cb4b16")
	solarizedRed     = lipgloss.Color("#dc322f")
	solarizedMagenta = lipgloss.Color("#d33682")
	solarizedViolet  = lipgloss.Color("#6c71c4")
	solarizedBlue    = lipgloss.Color("#268bd2")
	solarizedCyan    = lipgloss.Color("#2aa198")
	solarizedGreen   = lipgloss.Color("#859900")
)

// Solarized returns the Solarized theme (htop-like with transparent background)
func Solarized() Theme {
	return Theme{
		Name: "Solarized",

		// General UI
		Background:         lipgloss.Color("0"),
		Foreground:         solarizedBase0,
		TerminalBg:         lipgloss.Color("0"),
		HeaderBg:           solarizedGreen,
		HeaderFg:           lipgloss.Color("0"),
		StatusBarBg:        solarizedBase02,
		StatusBarFg:        solarizedBase0,
		SelectionBg:        solarizedCyan,
		SelectionFg:        lipgloss.Color("0"),
		BorderColor:        solarizedBase1,
		FocusedBorderColor: solarizedRed,
		MutedColor:         solarizedBase01,

		// Network
		TCPColor:      solarizedCyan,
		UDPColor:      solarizedGreen,
		UploadColor:   solarizedOrange,
		DownloadColor: solarizedBlue,

		// Latency
		LatencyGood:   solarizedGreen,
		LatencyMedium: solarizedYellow,
		LatencyBad:    solarizedRed,

		// Log levels
		LogDebugColor:   solarizedBase01,
		LogInfoColor:    solarizedBlue,
		LogWarningColor: solarizedOrange,
		LogErrorColor:   solarizedRed,

		// Emphasis
		WarningColor: solarizedOrange,
		SuccessColor: solarizedGreen,
		InfoColor:    solarizedBlue,
		ErrorColor:   solarizedRed,
		FilterColor:  solarizedViolet,
	}
}

// Dracula color palette
var (
	draculaBg      = lipgloss.Color("#282a36")
	draculaComment = lipgloss.Color("#6272a4")
	draculaFg      = lipgloss.Color("#f8f8f2")
	draculaCyan    = lipgloss.Color("#8be9fd")
	draculaGreen   = lipgloss.Color("#50fa7b")
	draculaOrange  = lipgloss.Color("#ffb86c")
	draculaPink    = lipgloss.Color("#ff79c6")
	draculaPurple  = lipgloss.Color("#bd93f9")
	draculaRed     = lipgloss.Color("#ff5555")
	draculaYellow  = lipgloss.Color("#f1fa8c")
)

// Dracula returns the Dracula theme
func Dracula() Theme {
	return Theme{
		Name: "Dracula",

		// General UI
		Background:         lipgloss.Color("0"),
		Foreground:         draculaFg,
		TerminalBg:         lipgloss.Color("0"),
		HeaderBg:           draculaPurple,
		HeaderFg:           draculaBg,
		StatusBarBg:        draculaBg,
		StatusBarFg:        draculaFg,
		SelectionBg:        draculaPink,
		SelectionFg:        draculaBg,
		BorderColor:        draculaComment,
		FocusedBorderColor: draculaPink,
		MutedColor:         draculaComment,

		// Network
		TCPColor:      draculaCyan,
		UDPColor:      draculaGreen,
		UploadColor:   draculaOrange,
		DownloadColor: draculaCyan,

		// Latency
		LatencyGood:   draculaGreen,
		LatencyMedium: draculaYellow,
		LatencyBad:    draculaRed,

		// Log levels
		LogDebugColor:   draculaComment,
		LogInfoColor:    draculaCyan,
		LogWarningColor: draculaOrange,
		LogErrorColor:   draculaRed,

		// Emphasis
		WarningColor: draculaOrange,
		SuccessColor: draculaGreen,
		InfoColor:    draculaCyan,
		ErrorColor:   draculaRed,
		FilterColor:  draculaPurple,
	}
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	switch name {
	case "solarized":
		return Solarized()
	case "dracula":
		return Dracula()
	default:
		return Solarized() // Default to solarized
	}
}
