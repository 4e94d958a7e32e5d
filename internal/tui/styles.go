// Package tui provides the interactive chat screen for sahayi.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/sahayi/internal/errors"
	"github.com/diogo/sahayi/internal/render"
)

// Color variables (updated from theme)
var (
	colorSurface lipgloss.Color
	colorBorder  lipgloss.Color

	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color

	colorText     lipgloss.Color
	colorTextDim  lipgloss.Color
	colorTextMute lipgloss.Color

	colorCallout lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	messagesAreaStyle    lipgloss.Style
	userBubbleStyle      lipgloss.Style
	userLabelStyle       lipgloss.Style
	assistantBubbleStyle lipgloss.Style
	assistantLabelStyle  lipgloss.Style
	scriptTagStyle       lipgloss.Style

	// Required-documents callout
	calloutStyle        lipgloss.Style
	calloutHeadingStyle lipgloss.Style
	calloutItemStyle    lipgloss.Style

	// Session error panel
	errorPanelStyle lipgloss.Style
	errorTitleStyle lipgloss.Style
	retryStyle      lipgloss.Style

	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style
	loadingStyle    lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style
	feedbackStyle   lipgloss.Style

	errorStyle lipgloss.Style

	welcomeStyle      lipgloss.Style
	welcomeTitleStyle lipgloss.Style
	welcomeIconStyle  lipgloss.Style
	exampleKeyStyle   lipgloss.Style
	exampleTextStyle  lipgloss.Style
	examplesBoxStyle  lipgloss.Style

	// Settings menu
	settingsPanelStyle    lipgloss.Style
	settingsTitleStyle    lipgloss.Style
	settingsCursorStyle   lipgloss.Style
	settingsItemStyle     lipgloss.Style
	settingsSelectedStyle lipgloss.Style
	settingsValueStyle    lipgloss.Style
	settingsPathStyle     lipgloss.Style
	enabledStyle          lipgloss.Style
	disabledStyle         lipgloss.Style
)

// Gradient colors for the loading bar
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#0f766e"),
	lipgloss.Color("#14b8a6"),
	lipgloss.Color("#2dd4bf"),
	lipgloss.Color("#5eead4"),
	lipgloss.Color("#fbbf24"),
	lipgloss.Color("#f59e0b"),
	lipgloss.Color("#5eead4"),
	lipgloss.Color("#2dd4bf"),
}

func init() {
	UpdateTheme()
}

// UpdateTheme refreshes all styles from the active TUI theme
func UpdateTheme() {
	theme := render.GetTUITheme()

	colorSurface = theme.Surface
	colorBorder = theme.Border
	colorPrimary = theme.Primary
	colorSecondary = theme.Secondary
	colorAccent = theme.Accent
	colorWarning = theme.Warning
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim
	colorTextMute = theme.TextMute
	colorCallout = theme.Callout

	rebuildStyles()
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2).
		MarginBottom(1)

	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1)

	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSecondary).
		Padding(0, 1).
		MarginLeft(4)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true).
		MarginLeft(4)

	assistantBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(4)

	assistantLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	scriptTagStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true).
		MarginLeft(1)

	calloutStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderTop(false).
		BorderRight(false).
		BorderBottom(false).
		BorderForeground(colorWarning).
		Background(colorCallout).
		Padding(0, 1).
		MarginTop(1)

	calloutHeadingStyle = lipgloss.NewStyle().
		Foreground(colorWarning).
		Background(colorCallout).
		Bold(true)

	calloutItemStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Background(colorCallout)

	errorPanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorError).
		Padding(1, 2).
		Align(lipgloss.Center)

	errorTitleStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	retryStyle = lipgloss.NewStyle().
		Foreground(colorSurface).
		Background(colorPrimary).
		Bold(true).
		Padding(0, 2).
		MarginTop(1)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		MarginTop(1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginRight(1)

	loadingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		MarginTop(1)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	feedbackStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	welcomeStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Align(lipgloss.Center)

	welcomeTitleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Align(lipgloss.Center)

	welcomeIconStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Align(lipgloss.Center)

	exampleKeyStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	exampleTextStyle = lipgloss.NewStyle().
		Foreground(colorText)

	examplesBoxStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSecondary).
		Padding(0, 1)

	settingsPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2).
		MarginTop(1)

	settingsTitleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	settingsCursorStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	settingsItemStyle = lipgloss.NewStyle().
		Foreground(colorText)

	settingsSelectedStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	settingsValueStyle = lipgloss.NewStyle().
		Foreground(colorSecondary)

	settingsPathStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true)

	enabledStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	disabledStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)
}

// FormatError returns a styled error message with the details carried by
// the typed errors.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if body := errors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
	} else if errors.IsNetworkError(err) {
		sb.WriteString(dimStyle.Render("\n  Hint: Check that the assistant service is running and reachable (see --api-url)"))
	}

	return sb.String()
}

// PrintError prints a styled error message.
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Println(FormatError(err))
}
