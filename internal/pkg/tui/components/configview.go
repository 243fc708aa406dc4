package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/endorses/nekotop/internal/pkg/tui/themes"
)

// ConfigView renders the core's running configuration as scrollable,
// syntax-highlighted YAML. The raw marshaled text is kept for the
// external editor round trip.
type ConfigView struct {
	vp        viewport.Model
	raw       string
	theme     themes.Theme
	themeName string
	width     int
	height    int
	loaded    bool
}

// NewConfigView creates the config tab view.
func NewConfigView(themeName string) *ConfigView {
	return &ConfigView{
		vp:        viewport.New(80, 20),
		theme:     themes.Solarized(),
		themeName: themeName,
	}
}

// SetTheme updates the view theme.
func (v *ConfigView) SetTheme(theme themes.Theme) {
	v.theme = theme
}

// SetThemeName selects the highlight palette matching the UI theme.
func (v *ConfigView) SetThemeName(name string) {
	v.themeName = name
	if v.loaded {
		v.vp.SetContent(v.highlight(v.raw))
	}
}

// SetSize updates the view dimensions.
func (v *ConfigView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.vp.Width = width
	v.vp.Height = height
}

// SetConfig marshals and highlights the configuration document.
func (v *ConfigView) SetConfig(cfg map[string]any) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	v.raw = string(data)
	v.loaded = true
	atBottom := v.vp.AtBottom()
	v.vp.SetContent(v.highlight(v.raw))
	if atBottom {
		v.vp.GotoBottom()
	}
	return nil
}

// chromaStyle maps the UI theme to a chroma style name.
func (v *ConfigView) chromaStyle() string {
	if v.themeName == "dracula" {
		return "dracula"
	}
	return "solarized-dark256"
}

// highlight runs the YAML text through chroma, falling back to the
// plain text when highlighting fails.
func (v *ConfigView) highlight(src string) string {
	var b strings.Builder
	if err := quick.Highlight(&b, src, "yaml", "terminal256", v.chromaStyle()); err != nil {
		return src
	}
	return b.String()
}

// RawYAML returns the unhighlighted document text.
func (v *ConfigView) RawYAML() string {
	return v.raw
}

// Loaded reports whether a configuration document has been fetched.
func (v *ConfigView) Loaded() bool {
	return v.loaded
}

// Scrolling passthroughs for the keyboard handler.

func (v *ConfigView) LineUp(n int)   { v.vp.LineUp(n) }
func (v *ConfigView) LineDown(n int) { v.vp.LineDown(n) }
func (v *ConfigView) PageUp()        { v.vp.ViewUp() }
func (v *ConfigView) PageDown()      { v.vp.ViewDown() }
func (v *ConfigView) GotoTop()       { v.vp.GotoTop() }
func (v *ConfigView) GotoBottom()    { v.vp.GotoBottom() }

// View renders the highlighted document.
func (v *ConfigView) View() string {
	if !v.loaded {
		return lipgloss.NewStyle().
			Foreground(v.theme.MutedColor).
			Italic(true).
			Render("  loading configuration...")
	}
	return v.vp.View()
}
