package transcript

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/sahayi/internal/models"
)

var exportedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func sampleTranscript() Transcript {
	return FromHistory(models.History{
		SessionID: "abc",
		Messages: []models.Message{
			models.UserMessage("ആധാർ കാർഡിന് എന്ത് രേഖകൾ വേണം?"),
			models.AssistantMessage("ആധാർ കാർഡിന് വേണ്ട രേഖകൾ:\n• ഫോട്ടോ\n• വിലാസ തെളിവ്"),
			models.UserMessage("നന്ദി"),
			models.AssistantMessage("സ്വാഗതം!"),
		},
	}, exportedAt)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"Markdown", FormatMarkdown, false},
		{"json", FormatJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromHistory_CopiesMessages(t *testing.T) {
	h := models.History{SessionID: "abc", Messages: []models.Message{models.UserMessage("x")}}
	tr := FromHistory(h, exportedAt)
	h.Messages[0].Content = "changed"

	assert.Equal(t, "x", tr.Messages[0].Content)
}

func TestMarkdown(t *testing.T) {
	opts := DefaultOptions()
	opts.Labels = Labels{User: "നിങ്ങൾ", Assistant: "സഹായി", Documents: "ആവശ്യമായ രേഖകൾ"}

	md := Markdown(sampleTranscript(), opts)

	assert.True(t, strings.HasPrefix(md, "# abc\n"))
	assert.Contains(t, md, "**Exported:** 2026-03-14 09:30:00")
	assert.Contains(t, md, "**Messages:** 4")
	assert.Equal(t, 2, strings.Count(md, "## നിങ്ങൾ"))
	assert.Equal(t, 2, strings.Count(md, "## സഹായി"))
	assert.Contains(t, md, "> **ആവശ്യമായ രേഖകൾ**\n>\n> - ഫോട്ടോ\n> - വിലാസ തെളിവ്\n")
	assert.Equal(t, 1, strings.Count(md, "> **ആവശ്യമായ രേഖകൾ**"), "only the reply with documents gets a callout")
	assert.Equal(t, 4, strings.Count(md, "\n---\n"), "header rule plus one between each message")
}

func TestMarkdown_WithoutAnnotator(t *testing.T) {
	opts := DefaultOptions()
	opts.Annotator = nil

	md := Markdown(sampleTranscript(), opts)
	assert.NotContains(t, md, "> **Documents**")
}

func TestJSON(t *testing.T) {
	data, err := JSON(sampleTranscript(), DefaultOptions())
	require.NoError(t, err)

	var decoded struct {
		SessionID  string    `json:"session_id"`
		ExportedAt time.Time `json:"exported_at"`
		Messages   []struct {
			Role      string   `json:"role"`
			Content   string   `json:"content"`
			Documents []string `json:"documents"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "abc", decoded.SessionID)
	assert.True(t, decoded.ExportedAt.Equal(exportedAt))
	require.Len(t, decoded.Messages, 4)
	assert.Equal(t, "user", decoded.Messages[0].Role)
	assert.Nil(t, decoded.Messages[0].Documents)
	assert.Equal(t, []string{"ഫോട്ടോ", "വിലാസ തെളിവ്"}, decoded.Messages[1].Documents)
	assert.Nil(t, decoded.Messages[3].Documents)
}

func TestWrite(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, sampleTranscript(), DefaultOptions()))
		assert.Contains(t, buf.String(), "## Assistant")
	})

	t.Run("json", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Format = FormatJSON
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, sampleTranscript(), opts))
		assert.True(t, json.Valid(buf.Bytes()))
		assert.True(t, strings.HasSuffix(buf.String(), "}\n"))
	})

	t.Run("unknown", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Format = "pdf"
		require.Error(t, Write(&bytes.Buffer{}, sampleTranscript(), opts))
	})
}

func TestMarkdown_EmptyTranscript(t *testing.T) {
	md := Markdown(Transcript{SessionID: "empty", ExportedAt: exportedAt}, DefaultOptions())
	assert.Contains(t, md, "**Messages:** 0")
	assert.NotContains(t, md, "## ")
}
