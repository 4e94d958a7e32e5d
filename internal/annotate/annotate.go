// Package annotate extracts "required documents" lists from assistant replies.
//
// The extraction is a best-effort heuristic over fixed locale markers, not a
// parser. It runs in two stages: a message-level gate (the reply must mention
// one of the message triggers) followed by a line-level OR filter (a line is
// kept if it carries a bullet marker or a line trigger). A line that does not
// start with a bullet and ends with a colon reads as the list heading and is
// dropped. Lines holding nothing but bullet markers are dropped too.
package annotate

import (
	"strings"

	"github.com/diogo/sahayi/internal/locale"
	"github.com/diogo/sahayi/internal/models"
)

// Annotator scans replies using one locale's vocabulary. The zero value is
// not usable; build one with New.
type Annotator struct {
	vocab locale.Vocabulary
}

// New creates an Annotator for the given vocabulary
func New(vocab locale.Vocabulary) *Annotator {
	return &Annotator{vocab: vocab}
}

var defaultAnnotator = New(locale.Default().Vocabulary)

// Annotate scans content with the built-in vocabulary. A nil result means
// the reply carries no document list.
func Annotate(content string) []string {
	return defaultAnnotator.Annotate(content)
}

// Message annotates an assistant message. User messages are never scanned.
func (a *Annotator) Message(msg models.Message) []string {
	if !msg.IsAssistant() {
		return nil
	}
	return a.Annotate(msg.Content)
}

// Annotate returns the ordered document lines found in content, or nil.
func (a *Annotator) Annotate(content string) []string {
	if !containsAny(content, a.vocab.MessageTriggers) {
		return nil
	}

	var docs []string
	for _, line := range splitLines(content) {
		if !containsAny(line, a.vocab.Bullets) && !containsAny(line, a.vocab.LineTriggers) {
			continue
		}
		item := a.clean(line)
		if item == "" {
			continue
		}
		if !a.isBullet(line) && strings.HasSuffix(item, ":") {
			continue
		}
		docs = append(docs, item)
	}

	if len(docs) == 0 {
		return nil
	}
	return docs
}

// isBullet reports whether the trimmed line starts with a bullet marker.
func (a *Annotator) isBullet(line string) bool {
	s := strings.TrimSpace(line)
	for _, b := range a.vocab.Bullets {
		if b != "" && strings.HasPrefix(s, b) {
			return true
		}
	}
	return false
}

// clean trims the line and strips the run of bullet markers at its start.
func (a *Annotator) clean(line string) string {
	s := strings.TrimSpace(line)
	for {
		stripped := false
		for _, b := range a.vocab.Bullets {
			if b != "" && strings.HasPrefix(s, b) {
				s = strings.TrimPrefix(s, b)
				stripped = true
			}
		}
		if !stripped {
			break
		}
	}
	return strings.TrimSpace(s)
}

func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(content, "\n")
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}
