package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/sahayi/internal/config"
	"github.com/diogo/sahayi/internal/render"
)

// settingsView represents the current view in the settings menu
type settingsView int

const (
	viewMain settingsView = iota
	viewThemeSelect
	viewTUIThemeSelect
)

// Menu item indices for main view
const (
	menuCopyToClipboard = iota
	menuEmoji
	menuTheme    // Markdown theme
	menuTUITheme // Chat color theme
	menuExit
	menuItemCount
)

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// SettingsOptions wires the settings menu to its storage
type SettingsOptions struct {
	Config     config.Config
	ConfigPath string
	// Save persists the config; defaults to config.SaveConfig
	Save func(config.Config) error
}

// SettingsModel is the interactive settings menu
type SettingsModel struct {
	config     config.Config
	configPath string
	save       func(config.Config) error

	view           settingsView
	cursor         int
	themeCursor    int
	tuiThemeCursor int

	feedback        string
	feedbackTimeout time.Duration

	width  int
	height int
	ready  bool
}

// NewSettingsModel creates the settings menu for opts.Config
func NewSettingsModel(opts SettingsOptions) SettingsModel {
	if opts.Save == nil {
		opts.Save = config.SaveConfig
	}

	return SettingsModel{
		config:          opts.Config,
		configPath:      opts.ConfigPath,
		save:            opts.Save,
		view:            viewMain,
		themeCursor:     indexOf(render.ThemeNames(), markdownStyle(opts.Config)),
		tuiThemeCursor:  indexOf(render.TUIThemeNames(), chatTheme(opts.Config)),
		feedbackTimeout: 2 * time.Second,
	}
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return 0
}

func markdownStyle(cfg config.Config) string {
	if cfg.Markdown.Style == "" {
		return render.StyleDark
	}
	return cfg.Markdown.Style
}

func chatTheme(cfg config.Config) string {
	if cfg.TUITheme == "" {
		return render.TealTheme.Name
	}
	return cfg.TUITheme
}

// Config returns the settings as last saved or edited
func (m SettingsModel) Config() config.Config {
	return m.config
}

// Init initializes the model
func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Update handles messages and updates the model
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

// move shifts the cursor of the current view, wrapping at both ends
func (m *SettingsModel) move(delta int) {
	wrap := func(v, n int) int {
		return (v%n + n) % n
	}
	switch m.view {
	case viewMain:
		m.cursor = wrap(m.cursor+delta, menuItemCount)
	case viewThemeSelect:
		m.themeCursor = wrap(m.themeCursor+delta, len(render.ThemeNames()))
	case viewTUIThemeSelect:
		m.tuiThemeCursor = wrap(m.tuiThemeCursor+delta, len(render.TUIThemeNames()))
	}
}

// persist saves next and reports the outcome as feedback. On failure the
// previous settings are kept.
func (m SettingsModel) persist(next config.Config, done string) (tea.Model, tea.Cmd) {
	if err := m.save(next); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.config = next
		m.feedback = done
	}
	m.view = viewMain
	return m, clearFeedback(m.feedbackTimeout)
}

// handleSelect handles menu item selection
func (m SettingsModel) handleSelect() (tea.Model, tea.Cmd) {
	next := m.config

	switch m.view {
	case viewMain:
		switch m.cursor {
		case menuCopyToClipboard:
			next.CopyToClipboard = !next.CopyToClipboard
			return m.persist(next, "Copy to clipboard "+onOff(next.CopyToClipboard))

		case menuEmoji:
			next.Markdown.EnableEmoji = !next.Markdown.EnableEmoji
			return m.persist(next, "Emoji "+onOff(next.Markdown.EnableEmoji))

		case menuTheme:
			m.view = viewThemeSelect
			return m, nil

		case menuTUITheme:
			m.view = viewTUIThemeSelect
			return m, nil

		case menuExit:
			return m, tea.Quit
		}

	case viewThemeSelect:
		next.Markdown.Style = render.ThemeNames()[m.themeCursor]
		return m.persist(next, "Markdown theme set to "+next.Markdown.Style)

	case viewTUIThemeSelect:
		selected := render.TUIThemeNames()[m.tuiThemeCursor]
		next.TUITheme = selected
		model, cmd := m.persist(next, "Chat theme set to "+selected)
		if model.(SettingsModel).config.TUITheme == selected {
			// Apply the new theme immediately
			render.SetTUITheme(selected)
			UpdateTheme()
		}
		return model, cmd
	}

	return m, nil
}

func onOff(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

// View renders the settings menu
func (m SettingsModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string

	header := headerStyle.Width(contentWidth).Render(titleStyle.Render("✦ Settings"))
	sections = append(sections, header)

	paths := lipgloss.JoinVertical(lipgloss.Left,
		settingsTitleStyle.Render("Service"),
		fmt.Sprintf("   Config:  %s", settingsPathStyle.Render(m.configPath)),
		fmt.Sprintf("   API URL: %s", settingsPathStyle.Render(m.config.APIURL)),
	)
	sections = append(sections, settingsPanelStyle.Width(contentWidth).Render(paths))

	var body string
	switch m.view {
	case viewMain:
		body = m.renderMainMenu()
	case viewThemeSelect:
		body = m.renderChoices("Markdown theme", m.themeCursor, markdownStyle(m.config), themeChoices())
	case viewTUIThemeSelect:
		body = m.renderChoices("Chat theme", m.tuiThemeCursor, chatTheme(m.config), tuiThemeChoices())
	}
	sections = append(sections, settingsPanelStyle.Width(contentWidth).Render(body))

	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render("✓ "+m.feedback))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SettingsModel) menuLine(index int, label, value string) string {
	cursor := "  "
	style := settingsItemStyle
	if m.cursor == index {
		cursor = settingsCursorStyle.Render("▸ ")
		style = settingsSelectedStyle
	}
	if value == "" {
		return cursor + style.Render(label)
	}
	return cursor + style.Render(fmt.Sprintf("%-20s", label)) + value
}

// renderMainMenu renders the main settings menu
func (m SettingsModel) renderMainMenu() string {
	items := []string{
		settingsTitleStyle.Render("Settings"),
		"",
		m.menuLine(menuCopyToClipboard, "Copy to Clipboard", renderBoolValue(m.config.CopyToClipboard)),
		m.menuLine(menuEmoji, "Emoji", renderBoolValue(m.config.Markdown.EnableEmoji)),
		m.menuLine(menuTheme, "Markdown Theme", settingsValueStyle.Render(markdownStyle(m.config))),
		m.menuLine(menuTUITheme, "Chat Theme", settingsValueStyle.Render(chatTheme(m.config))),
		"",
		m.menuLine(menuExit, "Exit", ""),
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

type choice struct {
	name        string
	description string
}

func themeChoices() []choice {
	var out []choice
	for _, t := range render.AvailableThemes() {
		out = append(out, choice{t.Name, t.Description})
	}
	return out
}

func tuiThemeChoices() []choice {
	var out []choice
	for _, t := range render.AvailableTUIThemes() {
		out = append(out, choice{t.Name, t.Description})
	}
	return out
}

// renderChoices renders a selection sub-menu
func (m SettingsModel) renderChoices(title string, cursorAt int, current string, choices []choice) string {
	items := []string{settingsTitleStyle.Render("Select " + title), ""}

	for i, c := range choices {
		cursor := "  "
		style := settingsItemStyle
		if cursorAt == i {
			cursor = settingsCursorStyle.Render("▸ ")
			style = settingsSelectedStyle
		}

		mark := ""
		if c.name == current {
			mark = enabledStyle.Render(" (current)")
		}

		items = append(items, cursor+style.Render(c.name+" - "+c.description)+mark)
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderBoolValue renders a boolean value with appropriate styling
func renderBoolValue(value bool) string {
	if value {
		return enabledStyle.Render("enabled")
	}
	return disabledStyle.Render("disabled")
}

// renderStatusBar renders the bottom status bar
func (m SettingsModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}

	shortcuts := [][2]string{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", back},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s[0])+statusDescStyle.Render(" "+s[1]))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunSettings starts the settings menu and returns the final settings
func RunSettings(opts SettingsOptions) (config.Config, error) {
	p := tea.NewProgram(NewSettingsModel(opts), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return opts.Config, err
	}
	return final.(SettingsModel).Config(), nil
}
