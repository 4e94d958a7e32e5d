package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/sahayi/internal/annotate"
	apierrors "github.com/diogo/sahayi/internal/errors"
	"github.com/diogo/sahayi/internal/models"
	"github.com/diogo/sahayi/internal/render"
)

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	colors  []lipgloss.Color
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner writing to out
func newSpinner(out io.Writer, message string) *spinner {
	theme := render.GetTUITheme()
	return &spinner{
		out:     out,
		message: message,
		colors:  []lipgloss.Color{theme.Primary, theme.Secondary, theme.Accent, theme.Callout},
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinColor := s.colors[s.frame%len(s.colors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots.WriteString(lipgloss.NewStyle().Foreground(s.colors[(s.frame+i)%len(s.colors)]).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(render.GetTUITheme().TextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(render.GetTUITheme().Text).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	success := lipgloss.NewStyle().Foreground(render.GetTUITheme().Secondary)
	fmt.Fprintf(s.out, "%s %s\n", success.Bold(true).Render("✓"), success.Render(message))
}

// stopWithError stops the spinner
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// progress wraps an optional spinner so quiet runs need no nil checks
type progress struct {
	out     io.Writer
	enabled bool
	spin    *spinner
}

func (p *progress) begin(message string) {
	if !p.enabled {
		return
	}
	p.spin = newSpinner(p.out, message)
	p.spin.start()
}

func (p *progress) success(message string) {
	if p.spin != nil {
		p.spin.stopWithSuccess(message)
		p.spin = nil
	}
}

func (p *progress) fail() {
	if p.spin != nil {
		p.spin.stopWithError()
		p.spin = nil
	}
}

// runQuery opens a session, sends one question and prints the reply.
// When stdout is not a terminal, or raw output is requested, only the
// reply and its documents list are printed.
func runQuery(ctx context.Context, deps *Dependencies, question string, qf *queryFlags) error {
	question = strings.TrimSpace(question)
	if models.IsBlank(question) {
		return fmt.Errorf("question cannot be empty: %w", apierrors.ErrEmptyInput)
	}

	decorate := !qf.raw && deps.IsTTY()
	prog := &progress{out: deps.Stderr, enabled: decorate}
	strs := deps.Pack.Strings

	manager := deps.newManager()

	prog.begin("Connecting to " + strs.AppTitle)
	if err := manager.Initialize(ctx); err != nil {
		prog.fail()
		return err
	}
	prog.success("Connected")

	prog.begin(strs.Thinking)
	startTime := time.Now()
	reply, err := manager.Submit(ctx, question)
	if err != nil {
		prog.fail()
		return err
	}
	prog.success("Done")

	deps.Logger.Debug().
		Str("session_id", manager.Snapshot().SessionID).
		Dur("took", time.Since(startTime)).
		Msg("query answered")

	docs := annotate.New(deps.Pack.Vocabulary).Message(reply)
	text := plainReply(reply.Content, strs.DocumentsHeading, docs)

	if qf.copy || deps.Config.CopyToClipboard {
		if err := deps.Clipboard(reply.Content); err != nil {
			fmt.Fprintln(deps.Stderr, warnStyle().Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else if decorate {
			fmt.Fprintln(deps.Stderr, successStyle().Render("✓ "+strs.Copied))
		}
	}

	if qf.output != "" {
		if err := os.WriteFile(qf.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if decorate {
			fmt.Fprintln(deps.Stderr, successStyle().Render(fmt.Sprintf("✓ Reply saved to %s", qf.output)))
		}
		return nil
	}

	if !decorate {
		fmt.Fprint(deps.Stdout, text)
		return nil
	}

	fmt.Fprintln(deps.Stdout, decoratedReply(deps, reply.Content, docs))
	return nil
}

// plainReply appends the documents list as a markdown blockquote
func plainReply(content, heading string, docs []string) string {
	text := strings.TrimRight(content, "\n") + "\n"
	if len(docs) > 0 {
		text += "\n" + render.DocumentsMarkdown(heading, docs)
	}
	return text
}

// decoratedReply renders the reply inside a bordered bubble with the
// documents callout below it
func decoratedReply(deps *Dependencies, content string, docs []string) string {
	theme := render.GetTUITheme()

	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	label := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("✦ " + deps.Pack.Strings.AppTitle)

	opts := render.OptionsFromConfig(deps.Config.Markdown, contentWidth)
	rendered := strings.TrimRight(render.MarkdownOrPlain(content, opts), "\n")

	bubble := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Foreground(theme.Text).
		Padding(0, 1).
		MarginTop(1).
		Width(bubbleWidth).
		Render(rendered)

	parts := []string{label, bubble}
	if len(docs) > 0 {
		var sb strings.Builder
		sb.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("📄 " + deps.Pack.Strings.DocumentsHeading))
		for _, doc := range docs {
			sb.WriteString("\n• " + doc)
		}
		callout := lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(theme.Accent).
			Foreground(theme.Text).
			PaddingLeft(1).
			Width(bubbleWidth).
			Render(sb.String())
		parts = append(parts, callout)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func warnStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(render.GetTUITheme().Error)
}

func successStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(render.GetTUITheme().Secondary)
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
