package tui

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/diogo/sahayi/internal/annotate"
	"github.com/diogo/sahayi/internal/conversation"
	apierrors "github.com/diogo/sahayi/internal/errors"
	"github.com/diogo/sahayi/internal/locale"
	"github.com/diogo/sahayi/internal/models"
	"github.com/diogo/sahayi/internal/render"
)

// copiedFor is how long the "copied" feedback stays in the status bar
const copiedFor = 2 * time.Second

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	// sessionMsg reports the end of session creation or resumption
	sessionMsg struct {
		err error
	}
	replyMsg struct {
		reply models.Message
		err   error
	}
	historyMsg struct {
		err error
	}
	copiedMsg struct {
		err error
	}
	clearStatusMsg struct {
		seq int
	}
)

// Options configures the chat screen
type Options struct {
	Pack   locale.Pack
	Render render.Options
	Logger zerolog.Logger
	// ResumeID attaches an existing session instead of creating one
	ResumeID string
	// CopyOnReply copies every successful reply to the clipboard
	CopyOnReply bool
	// Clipboard writes text to the system clipboard
	Clipboard func(string) error
}

// Model is the chat screen. It renders Snapshots of the conversation and
// forwards user intents to the session manager.
type Model struct {
	ctx       context.Context
	manager   *conversation.Manager
	pack      locale.Pack
	annotator *annotate.Annotator
	render    render.Options
	logger    zerolog.Logger
	resumeID  string
	copyReply bool
	clipboard func(string) error

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	snap           conversation.Snapshot
	ready          bool
	showExamples   bool
	status         string
	statusSeq      int
	animationFrame int

	// Dimensions
	width  int
	height int
}

// NewChatModel creates the chat screen for manager
func NewChatModel(ctx context.Context, manager *conversation.Manager, opts Options) Model {
	if opts.Pack.Code == "" {
		opts.Pack = locale.Default()
	}
	if opts.Render == (render.Options{}) {
		opts.Render = render.DefaultOptions()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	ta := textarea.New()
	ta.Placeholder = opts.Pack.Strings.Placeholder
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		ctx:       ctx,
		manager:   manager,
		pack:      opts.Pack,
		annotator: annotate.New(opts.Pack.Vocabulary),
		render:    opts.Render,
		logger:    opts.Logger,
		resumeID:  opts.ResumeID,
		copyReply: opts.CopyOnReply,
		clipboard: opts.Clipboard,
		textarea:  ta,
		spinner:   s,
		snap:      manager.Snapshot(),
	}
}

// Init starts the session as soon as the screen opens
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.startSession(),
	)
}

// startSession creates or resumes the remote session
func (m Model) startSession() tea.Cmd {
	manager, ctx, resumeID := m.manager, m.ctx, m.resumeID
	return func() tea.Msg {
		if resumeID != "" {
			if err := manager.Resume(resumeID); err != nil {
				return sessionMsg{err: err}
			}
			return historyMsg{err: manager.FetchHistory(ctx)}
		}
		return sessionMsg{err: manager.Initialize(ctx)}
	}
}

func (m Model) retrySession() tea.Cmd {
	manager, ctx := m.manager, m.ctx
	return func() tea.Msg {
		return sessionMsg{err: manager.Retry(ctx)}
	}
}

func resolveTurn(ctx context.Context, turn *conversation.Turn) tea.Cmd {
	return func() tea.Msg {
		reply, err := turn.Resolve(ctx)
		return replyMsg{reply: reply, err: err}
	}
}

func (m Model) refreshHistory() tea.Cmd {
	manager, ctx := m.manager, m.ctx
	return func() tea.Msg {
		return historyMsg{err: manager.FetchHistory(ctx)}
	}
}

func (m Model) copyText(text string) tea.Cmd {
	write := m.clipboard
	return func() tea.Msg {
		return copiedMsg{err: write(text)}
	}
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case sessionMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("session not started")
		}
		m.sync()

	case replyMsg:
		m.sync()
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("reply replaced by fallback")
		} else if m.copyReply {
			cmds = append(cmds, m.copyText(msg.reply.Content))
		}

	case historyMsg:
		m.sync()
		if msg.err != nil && !apierrors.IsGuardError(msg.err) {
			m.logger.Warn().Err(msg.err).Msg("history refresh failed")
			cmds = append(cmds, m.flash(m.pack.Strings.HistoryError))
		}

	case copiedMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("clipboard write failed")
			cmds = append(cmds, m.flash(msg.err.Error()))
		} else {
			cmds = append(cmds, m.flash(m.pack.Strings.Copied))
		}

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case animationTickMsg:
		if m.snap.IsLoading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only key input reaches the textarea, and never while a reply is pending
	if _, ok := msg.(tea.KeyMsg); ok && m.acceptsInput() {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey processes shortcuts; handled is false for plain typing
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	key := msg.String()

	switch key {
	case "ctrl+c":
		return m, tea.Quit, true
	case "esc":
		if m.showExamples {
			m.showExamples = false
			m.refreshViewport()
			return m, nil, true
		}
		return m, tea.Quit, true
	case "ctrl+e":
		m.showExamples = !m.showExamples
		m.resize()
		return m, nil, true
	case "ctrl+y":
		return m, m.copyLastReply(), true
	}

	if m.snap.Phase == conversation.PhaseErrored {
		if key == "r" || key == "enter" {
			return m, m.retrySession(), true
		}
		return m, nil, true
	}

	if n, ok := exampleKey(key); ok {
		if n <= len(m.pack.Examples) && m.acceptsInput() {
			m.textarea.SetValue(m.pack.Examples[n-1])
			m.textarea.CursorEnd()
			m.showExamples = false
			m.resize()
		}
		return m, nil, true
	}

	if key == "enter" {
		next, cmd := m.submit()
		return next, cmd, true
	}

	return m, nil, false
}

// exampleKey maps alt+1..alt+9 to 1..9
func exampleKey(key string) (int, bool) {
	if len(key) != 5 || !strings.HasPrefix(key, "alt+") {
		return 0, false
	}
	d := key[4]
	if d < '1' || d > '9' {
		return 0, false
	}
	return int(d - '0'), true
}

// submit handles the enter key: slash commands or a new turn
func (m Model) submit() (Model, tea.Cmd) {
	input := m.textarea.Value()

	switch strings.TrimSpace(input) {
	case "exit", "quit", "/exit", "/quit":
		return m, tea.Quit
	case "/copy":
		m.textarea.Reset()
		return m, m.copyLastReply()
	case "/history":
		m.textarea.Reset()
		return m, m.refreshHistory()
	case "/examples":
		m.textarea.Reset()
		m.showExamples = !m.showExamples
		m.resize()
		return m, nil
	case "/new":
		if err := m.manager.Reset(); err != nil {
			return m, nil
		}
		m.textarea.Reset()
		m.resumeID = ""
		m.sync()
		return m, m.startSession()
	}

	turn, err := m.manager.Begin(input)
	if err != nil {
		// empty input, no session and busy are silent no-ops
		if !apierrors.IsGuardError(err) {
			m.logger.Warn().Err(err).Msg("submit rejected")
		}
		return m, nil
	}

	m.textarea.Reset()
	m.showExamples = false
	m.animationFrame = 0
	m.sync()
	m.resize()

	return m, tea.Batch(
		resolveTurn(m.ctx, turn),
		m.spinner.Tick,
		animationTick(),
	)
}

func (m Model) copyLastReply() tea.Cmd {
	reply, ok := m.snap.LastAssistant()
	if !ok {
		return nil
	}
	return m.copyText(reply.Content)
}

// flash shows text in the status bar for copiedFor
func (m *Model) flash(text string) tea.Cmd {
	m.statusSeq++
	m.status = text
	seq := m.statusSeq
	return tea.Tick(copiedFor, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m Model) acceptsInput() bool {
	return m.snap.Phase == conversation.PhaseReady && !m.snap.IsLoading
}

// sync pulls a fresh snapshot and redraws the log
func (m *Model) sync() {
	m.snap = m.manager.Snapshot()
	m.refreshViewport()
	m.viewport.GotoBottom()
}

// resize lays out the viewport around the fixed panels
func (m *Model) resize() {
	if m.width == 0 {
		return
	}

	headerHeight := 4
	inputHeight := 6
	statusHeight := 2
	examplesHeight := 0
	if m.showExamples && len(m.snap.Messages) > 0 {
		examplesHeight = len(m.pack.Examples) + 3
	}

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - examplesHeight - 2
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := m.width - 4

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
	m.refreshViewport()
}

// refreshViewport re-renders the message log into the viewport
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	opts := m.render.WithWidth(bubbleWidth - 4)

	for i, msg := range m.snap.Messages {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(m.renderMessage(msg, bubbleWidth, opts))
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

func (m Model) renderMessage(msg models.Message, width int, opts render.Options) string {
	tag := ""
	if m.pack.ContainsScript(msg.Content) {
		tag = scriptTagStyle.Render(m.pack.Name)
	}

	if !msg.IsAssistant() {
		label := userLabelStyle.Render("● You") + tag
		return label + "\n" + userBubbleStyle.Width(width).Render(msg.Content)
	}

	label := assistantLabelStyle.Render("✦ "+m.pack.Strings.AppTitle) + tag
	body := strings.TrimRight(render.MarkdownOrPlain(msg.Content, opts), "\n")

	if docs := m.annotator.Message(msg); len(docs) > 0 {
		body = lipgloss.JoinVertical(lipgloss.Left, body, m.renderDocuments(docs, width-4))
	}

	return label + "\n" + assistantBubbleStyle.Width(width).Render(body)
}

// renderDocuments draws the required-documents callout
func (m Model) renderDocuments(docs []string, width int) string {
	lines := []string{calloutHeadingStyle.Render("📄 " + m.pack.Strings.DocumentsHeading)}
	for _, doc := range docs {
		lines = append(lines, calloutItemStyle.Render("• "+doc))
	}
	return calloutStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  " + m.pack.Strings.AppTitle + "...")
	}

	contentWidth := m.width - 4
	sections := []string{m.renderHeader(contentWidth)}

	switch {
	case m.snap.Phase == conversation.PhaseErrored:
		sections = append(sections, m.renderSessionError(contentWidth))
	case len(m.snap.Messages) == 0:
		sections = append(sections, messagesAreaStyle.
			Width(contentWidth).
			Height(m.viewport.Height).
			Render(m.renderWelcome()))
	default:
		sections = append(sections, messagesAreaStyle.
			Width(contentWidth).
			Height(m.viewport.Height).
			Render(m.viewport.View()))
		if m.showExamples {
			sections = append(sections, m.renderExamples(m.pack.Strings.MoreExamples, m.pack.Examples, contentWidth))
		}
	}

	sections = append(sections, m.renderInput(contentWidth))
	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(width int) string {
	parts := []string{
		titleStyle.Render("✦ " + m.pack.Strings.AppTitle),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.pack.Strings.Tagline),
	}
	if m.snap.HasSession() {
		parts = append(parts,
			hintStyle.Render("  •  "),
			hintStyle.Render(shortID(m.snap.SessionID)),
		)
	}
	content := lipgloss.JoinHorizontal(lipgloss.Center, parts...)
	return headerStyle.Width(width).Render(content)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// renderWelcome renders the empty-log screen with the featured examples
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	s := m.pack.Strings

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		welcomeIconStyle.Width(width).Render("✦"),
		"",
		welcomeTitleStyle.Width(width).Render(s.WelcomeTitle),
		"",
		welcomeStyle.Width(width).Render(s.WelcomeBody),
		"",
		m.renderExamples(s.ExamplesHeading, m.pack.FeaturedExamples(4), width),
	)

	topPadding := (m.viewport.Height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

// renderExamples lists example questions with their alt+N shortcuts
func (m Model) renderExamples(heading string, examples []string, width int) string {
	lines := []string{subtitleStyle.Render(heading)}
	for i, ex := range examples {
		lines = append(lines, exampleKeyStyle.Render(fmt.Sprintf("alt+%d ", i+1))+exampleTextStyle.Render(ex))
	}
	return examplesBoxStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderSessionError renders the failed-session panel with its retry action
func (m Model) renderSessionError(width int) string {
	s := m.pack.Strings
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		errorTitleStyle.Render("⚠ "+s.SystemErrorTitle),
		"",
		subtitleStyle.Render(m.snap.SessionError),
		retryStyle.Render("r  "+s.Retry),
	)
	return errorPanelStyle.Width(width).Height(m.viewport.Height).Render(content)
}

func (m Model) renderInput(width int) string {
	var content string
	switch {
	case m.snap.Phase == conversation.PhaseInitializing:
		content = m.spinner.View() + " " + loadingStyle.Render(m.pack.Strings.AppTitle+"...")
	case m.snap.IsLoading:
		content = m.renderLoadingAnimation()
	default:
		content = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("✎"),
			m.textarea.View(),
		)
	}
	return inputPanelStyle.Width(width).Render(content)
}

// renderLoadingAnimation renders the animated waiting indicator
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spin := lipgloss.NewStyle().
		Foreground(gradientColors[frame%len(gradientColors)]).
		Bold(true).
		Render(chars[frame%len(chars)])

	var bar strings.Builder
	for i := 0; i < 16; i++ {
		style := lipgloss.NewStyle().Foreground(gradientColors[(i+frame)%len(gradientColors)])
		bar.WriteString(style.Render(barChars[(i+frame/2)%len(barChars)]))
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(m.pack.Strings.Thinking)

	return fmt.Sprintf("%s %s %s", spin, bar.String(), text)
}

// renderStatusBar renders the bottom shortcuts and transient feedback
func (m Model) renderStatusBar(width int) string {
	if m.status != "" {
		return statusBarStyle.Width(width).Align(lipgloss.Center).Render(feedbackStyle.Render("✓ " + m.status))
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", m.pack.Strings.Send},
		{"Ctrl+E", m.pack.Strings.ShowExamples},
		{"Ctrl+Y", "Copy"},
		{"Esc", "Quit"},
	}
	if m.snap.Phase == conversation.PhaseErrored {
		shortcuts[0] = struct {
			key  string
			desc string
		}{"r", m.pack.Strings.Retry}
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunChat starts the chat TUI and blocks until the user quits
func RunChat(ctx context.Context, manager *conversation.Manager, opts Options) error {
	m := NewChatModel(ctx, manager, opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	if stderrors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
