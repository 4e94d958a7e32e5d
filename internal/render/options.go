// Package render turns assistant replies into terminal output: markdown via
// glamour and colour themes for the chat screen via lipgloss.
package render

import "github.com/diogo/sahayi/internal/config"

// DefaultWidth is the wrap width used until the terminal size is known.
const DefaultWidth = 80

// Options selects a pooled renderer: the markdown section of the config file
// plus the wrap width of the bubble being drawn. It is comparable and used as
// a cache key.
type Options struct {
	config.MarkdownConfig
	Width int
}

// DefaultOptions renders with the stock markdown settings at DefaultWidth.
func DefaultOptions() Options {
	return Options{MarkdownConfig: config.DefaultMarkdownConfig(), Width: DefaultWidth}
}

// WithWidth returns a copy wrapping at width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns a copy using style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
