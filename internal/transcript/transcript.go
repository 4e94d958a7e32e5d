// Package transcript exports a conversation log as Markdown or JSON.
package transcript

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/diogo/sahayi/internal/annotate"
	"github.com/diogo/sahayi/internal/locale"
	"github.com/diogo/sahayi/internal/models"
	"github.com/diogo/sahayi/internal/render"
)

// Format represents the format for exporting conversations
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat accepts "markdown", "md" and "json"
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (use markdown or json)", s)
	}
}

// Labels are the headings used in Markdown output
type Labels struct {
	User      string
	Assistant string
	Documents string
}

// Options configures how conversations are exported
type Options struct {
	Format Format
	Labels Labels
	// Annotator, when set, adds each assistant reply's document list
	Annotator *annotate.Annotator
}

// DefaultOptions returns Markdown export with the default vocabulary
func DefaultOptions() Options {
	return Options{
		Format: FormatMarkdown,
		Labels: Labels{
			User:      "User",
			Assistant: "Assistant",
			Documents: "Documents",
		},
		Annotator: annotate.New(locale.Default().Vocabulary),
	}
}

// Transcript is one exported conversation
type Transcript struct {
	SessionID  string
	ExportedAt time.Time
	Messages   []models.Message
}

// FromHistory builds a transcript from a fetched history record
func FromHistory(h models.History, at time.Time) Transcript {
	return Transcript{
		SessionID:  h.SessionID,
		ExportedAt: at,
		Messages:   models.CloneMessages(h.Messages),
	}
}

// Markdown renders t as a Markdown document
func Markdown(t Transcript, opts Options) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(t.SessionID)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "**Exported:** %s\n", t.ExportedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "**Messages:** %d\n\n---\n\n", len(t.Messages))

	for i, msg := range t.Messages {
		label := opts.Labels.User
		if msg.IsAssistant() {
			label = opts.Labels.Assistant
		}

		sb.WriteString("## ")
		sb.WriteString(label)
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if docs := documents(opts.Annotator, msg); len(docs) > 0 {
			sb.WriteString("\n")
			sb.WriteString(render.DocumentsMarkdown(opts.Labels.Documents, docs))
		}

		if i < len(t.Messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

type exportMessage struct {
	Role      models.Role `json:"role"`
	Content   string      `json:"content"`
	Documents []string    `json:"documents,omitempty"`
}

type exportTranscript struct {
	SessionID  string          `json:"session_id"`
	ExportedAt time.Time       `json:"exported_at"`
	Messages   []exportMessage `json:"messages"`
}

// JSON renders t as indented JSON
func JSON(t Transcript, opts Options) ([]byte, error) {
	export := exportTranscript{
		SessionID:  t.SessionID,
		ExportedAt: t.ExportedAt,
		Messages:   make([]exportMessage, len(t.Messages)),
	}
	for i, msg := range t.Messages {
		export.Messages[i] = exportMessage{
			Role:      msg.Role,
			Content:   msg.Content,
			Documents: documents(opts.Annotator, msg),
		}
	}
	return json.MarshalIndent(export, "", "  ")
}

// Write encodes t in opts.Format to w
func Write(w io.Writer, t Transcript, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		data, err := JSON(t, opts)
		if err != nil {
			return fmt.Errorf("failed to encode transcript: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case FormatMarkdown, "":
		_, err := io.WriteString(w, Markdown(t, opts))
		return err
	default:
		return fmt.Errorf("unknown export format %q", opts.Format)
	}
}

func documents(a *annotate.Annotator, msg models.Message) []string {
	if a == nil {
		return nil
	}
	return a.Message(msg)
}
