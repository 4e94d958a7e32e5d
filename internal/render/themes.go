package render

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// Markdown style names
const (
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleTeal       = "teal"
	StyleTokyoNight = "tokyonight"
	StyleDracula    = "dracula"
	StylePink       = "pink"
	StyleNoTTY      = "notty"
	StyleASCII      = "ascii"
)

// standardStyles maps our names onto glamour's bundled styles.
var standardStyles = map[string]string{
	StyleDark:       styles.DarkStyle,
	StyleLight:      styles.LightStyle,
	StyleTokyoNight: styles.TokyoNightStyle,
	StyleDracula:    styles.DraculaStyle,
	StylePink:       styles.PinkStyle,
	StyleNoTTY:      styles.NoTTYStyle,
	StyleASCII:      styles.AsciiStyle,
}

func strPtr(s string) *string { return &s }

// tealStyle is the dark style with teal headings and links.
func tealStyle() ansi.StyleConfig {
	cfg := styles.DarkStyleConfig

	cfg.H1.Color = strPtr("#ecfeff")
	cfg.H1.BackgroundColor = strPtr("#0f766e")
	cfg.Heading.Color = strPtr("#2dd4bf")
	cfg.Link.Color = strPtr("#5eead4")
	cfg.LinkText.Color = strPtr("#99f6e4")
	cfg.Item.BlockPrefix = "• "

	return cfg
}

// styleOption picks the glamour option for a style name or JSON path.
func styleOption(style string) glamour.TermRendererOption {
	if style == StyleTeal {
		return glamour.WithStyles(tealStyle())
	}
	if name, ok := standardStyles[style]; ok {
		return glamour.WithStandardStyle(name)
	}
	return glamour.WithStylePath(style)
}

// IsBuiltinStyle reports whether style names a bundled style rather than a file.
func IsBuiltinStyle(style string) bool {
	if style == StyleTeal {
		return true
	}
	_, ok := standardStyles[style]
	return ok
}

// ThemeInfo describes a markdown style for display.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes lists the bundled markdown styles.
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: StyleDark, Description: "Dark theme (default)"},
		{Name: StyleTeal, Description: "Dark theme with teal headings"},
		{Name: StyleLight, Description: "Light theme for bright terminals"},
		{Name: StyleTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: StyleDracula, Description: "Dracula color scheme"},
		{Name: StylePink, Description: "Pink accents"},
		{Name: StyleNoTTY, Description: "Plain text (no styling)"},
		{Name: StyleASCII, Description: "ASCII-only output"},
	}
}

// ThemeNames returns just the style names.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
