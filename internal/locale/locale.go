// Package locale holds the user-facing strings and the trigger vocabulary
// used to annotate assistant replies.
package locale

import "unicode"

// Vocabulary is the fixed set of markers the reply annotator looks for.
type Vocabulary struct {
	// MessageTriggers gate the whole reply: at least one must appear.
	MessageTriggers []string `yaml:"message_triggers"`
	// LineTriggers keep an individual line even without a bullet.
	LineTriggers []string `yaml:"line_triggers"`
	// Bullets are the list markers; a line containing one is kept and
	// leading runs of them are stripped.
	Bullets []string `yaml:"bullets"`
}

// Strings are the fixed localized texts shown by the front end.
type Strings struct {
	AppTitle         string `yaml:"app_title"`
	Tagline          string `yaml:"tagline"`
	WelcomeTitle     string `yaml:"welcome_title"`
	WelcomeBody      string `yaml:"welcome_body"`
	SessionError     string `yaml:"session_error"`
	SystemErrorTitle string `yaml:"system_error_title"`
	Retry            string `yaml:"retry"`
	EmptyReply       string `yaml:"empty_reply"`
	TechnicalError   string `yaml:"technical_error"`
	Thinking         string `yaml:"thinking"`
	Placeholder      string `yaml:"placeholder"`
	ExamplesHeading  string `yaml:"examples_heading"`
	MoreExamples     string `yaml:"more_examples_heading"`
	ShowExamples     string `yaml:"show_examples"`
	DocumentsHeading string `yaml:"documents_heading"`
	Send             string `yaml:"send"`
	Copied           string `yaml:"copied"`
	HistoryError     string `yaml:"history_error"`
}

// Pack bundles everything that changes with the target locale.
type Pack struct {
	Code       string     `yaml:"code"`
	Name       string     `yaml:"name"`
	Strings    Strings    `yaml:"strings"`
	Vocabulary Vocabulary `yaml:"vocabulary"`
	Examples   []string   `yaml:"examples"`
	// ScriptLow and ScriptHigh bound the Unicode block of the locale's script.
	ScriptLow  rune `yaml:"script_low"`
	ScriptHigh rune `yaml:"script_high"`
}

// Malayalam is the built-in pack for Kerala government services.
func Malayalam() Pack {
	return Pack{
		Code: "ml",
		Name: "മലയാളം",
		Strings: Strings{
			AppTitle:         "കേരള സർക്കാർ സഹായി",
			Tagline:          "സർക്കാർ സേവനങ്ങൾക്കുള്ള താങ്കളുടെ സ്നേഹ സഹായി",
			WelcomeTitle:     "കേരള ഗവൺമെന്റ് സഹായി",
			WelcomeBody:      "സർക്കാർ സേവനങ്ങൾ, രേഖകൾ, നടപടിക്രമങ്ങൾ എന്നിവയെക്കുറിച്ചുള്ള നിങ്ങളുടെ ചോദ്യങ്ങൾക്ക് സഹായിക്കാൻ എനിക്ക് കഴിയും.",
			SessionError:     "സെഷൻ ആരംഭിക്കാൻ കഴിഞ്ഞില്ല. ദയവായി പേജ് റീലോഡ് ചെയ്യുക.",
			SystemErrorTitle: "സിസ്റ്റം പിശക്",
			Retry:            "വീണ്ടും ശ്രമിക്കുക",
			EmptyReply:       "മറുപടി ലഭിക്കാൻ കഴിഞ്ഞില്ല. വീണ്ടും ശ്രമിക്കുക.",
			TechnicalError:   "സാങ്കേതിക പിശക് ഉണ്ടായി. ദയവായി വീണ്ടും ശ്രമിക്കുക.",
			Thinking:         "ഉത്തരം തയ്യാറാക്കുന്നു...",
			Placeholder:      "നിങ്ങളുടെ ചോദ്യം ഇവിടെ ടൈപ്പ് ചെയ്യുക...",
			ExamplesHeading:  "ഇതുപോലെ ചോദിക്കാം:",
			MoreExamples:     "ചോദിക്കാവുന്ന മറ്റ് ചോദ്യങ്ങൾ:",
			ShowExamples:     "ഉദാഹരണ ചോദ്യങ്ങൾ",
			DocumentsHeading: "ആവശ്യമായ രേഖകൾ:",
			Send:             "അയയ്ക്കുക",
			Copied:           "Copied",
			HistoryError:     "ചരിത്രം ലഭ്യമല്ല",
		},
		Vocabulary: Vocabulary{
			MessageTriggers: []string{"രേഖകൾ", "ഡോക്യുമെന്റ്"},
			LineTriggers:    []string{"രേഖ", "സർട്ടിഫിക്കറ്റ്"},
			Bullets:         []string{"•", "-"},
		},
		Examples: []string{
			"ബാങ്ക് അക്കൗണ്ട് തുടങ്ങാൻ എന്തെല്ലാം രേഖകൾ വേണം?",
			"സീനിയർ സിറ്റിസൺ കാർഡിന് എങ്ങനെ അപേക്ഷിക്കാം?",
			"വയോജന പെൻഷനു വേണ്ട രേഖകൾ എന്തൊക്കെയാണ്?",
			"ആധാർ കാർഡ് അപ്ഡേറ്റ് ചെയ്യേണ്ടത് എങ്ങനെ?",
			"വിധവാ പെൻഷൻ അപേക്ഷിക്കുന്നതിനുള്ള നടപടിക്രമം എന്താണ്?",
			"റേഷൻ കാർഡ് പുതുക്കുന്നത് എങ്ങനെ?",
		},
		ScriptLow:  0x0D00,
		ScriptHigh: 0x0D7F,
	}
}

// Default returns the pack used when no locale file is configured.
func Default() Pack {
	return Malayalam()
}

// ContainsScript reports whether text has at least one letter or mark in
// the pack's script block.
func (p Pack) ContainsScript(text string) bool {
	if p.ScriptLow == 0 && p.ScriptHigh == 0 {
		return false
	}
	for _, r := range text {
		if r >= p.ScriptLow && r <= p.ScriptHigh && (unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r)) {
			return true
		}
	}
	return false
}

// FeaturedExamples returns the first n examples (all of them if n exceeds the list).
func (p Pack) FeaturedExamples(n int) []string {
	if n < 0 || n > len(p.Examples) {
		n = len(p.Examples)
	}
	out := make([]string, n)
	copy(out, p.Examples[:n])
	return out
}
