package locale

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML locale pack and overlays it on the built-in default.
// Fields left empty in the file keep their default value, so a file may
// override just the trigger vocabulary or a handful of strings.
func LoadFile(path string) (Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("failed to read locale file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML locale pack and overlays it on the built-in default.
func Parse(data []byte) (Pack, error) {
	var override Pack
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Default(), fmt.Errorf("failed to parse locale file: %w", err)
	}

	pack := Default()
	pack.merge(override)

	if err := pack.Validate(); err != nil {
		return Default(), err
	}
	return pack, nil
}

// Validate checks the pack can drive the annotator.
func (p Pack) Validate() error {
	if len(p.Vocabulary.MessageTriggers) == 0 {
		return fmt.Errorf("locale %q: vocabulary.message_triggers must not be empty", p.Code)
	}
	for _, group := range [][]string{p.Vocabulary.MessageTriggers, p.Vocabulary.LineTriggers, p.Vocabulary.Bullets} {
		for _, s := range group {
			if s == "" {
				return fmt.Errorf("locale %q: vocabulary entries must not be empty", p.Code)
			}
		}
	}
	if p.ScriptHigh < p.ScriptLow {
		return fmt.Errorf("locale %q: script_high is below script_low", p.Code)
	}
	return nil
}

func (p *Pack) merge(o Pack) {
	if o.Code != "" {
		p.Code = o.Code
	}
	if o.Name != "" {
		p.Name = o.Name
	}
	mergeString(&p.Strings.AppTitle, o.Strings.AppTitle)
	mergeString(&p.Strings.Tagline, o.Strings.Tagline)
	mergeString(&p.Strings.WelcomeTitle, o.Strings.WelcomeTitle)
	mergeString(&p.Strings.WelcomeBody, o.Strings.WelcomeBody)
	mergeString(&p.Strings.SessionError, o.Strings.SessionError)
	mergeString(&p.Strings.SystemErrorTitle, o.Strings.SystemErrorTitle)
	mergeString(&p.Strings.Retry, o.Strings.Retry)
	mergeString(&p.Strings.EmptyReply, o.Strings.EmptyReply)
	mergeString(&p.Strings.TechnicalError, o.Strings.TechnicalError)
	mergeString(&p.Strings.Thinking, o.Strings.Thinking)
	mergeString(&p.Strings.Placeholder, o.Strings.Placeholder)
	mergeString(&p.Strings.ExamplesHeading, o.Strings.ExamplesHeading)
	mergeString(&p.Strings.MoreExamples, o.Strings.MoreExamples)
	mergeString(&p.Strings.ShowExamples, o.Strings.ShowExamples)
	mergeString(&p.Strings.DocumentsHeading, o.Strings.DocumentsHeading)
	mergeString(&p.Strings.Send, o.Strings.Send)
	mergeString(&p.Strings.Copied, o.Strings.Copied)
	mergeString(&p.Strings.HistoryError, o.Strings.HistoryError)

	if len(o.Vocabulary.MessageTriggers) > 0 {
		p.Vocabulary.MessageTriggers = o.Vocabulary.MessageTriggers
	}
	if len(o.Vocabulary.LineTriggers) > 0 {
		p.Vocabulary.LineTriggers = o.Vocabulary.LineTriggers
	}
	if len(o.Vocabulary.Bullets) > 0 {
		p.Vocabulary.Bullets = o.Vocabulary.Bullets
	}
	if len(o.Examples) > 0 {
		p.Examples = o.Examples
	}
	if o.ScriptLow != 0 || o.ScriptHigh != 0 {
		p.ScriptLow = o.ScriptLow
		p.ScriptHigh = o.ScriptHigh
	}
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}
