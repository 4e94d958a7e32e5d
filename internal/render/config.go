package render

import (
	"os"

	"github.com/diogo/sahayi/internal/config"
)

// EnvStyle overrides the configured markdown style
const EnvStyle = "GLAMOUR_STYLE"

// OptionsFromConfig builds render options from the user's markdown settings.
// GLAMOUR_STYLE takes precedence over the config file; a blank style or a
// non-positive width falls back to the defaults.
func OptionsFromConfig(md config.MarkdownConfig, width int) Options {
	opts := Options{MarkdownConfig: md, Width: width}

	if opts.Style == "" {
		opts.Style = StyleDark
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if style := os.Getenv(EnvStyle); style != "" {
		opts.Style = style
	}

	return opts
}
