package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/diogo/sahayi/internal/errors"
	"github.com/diogo/sahayi/internal/models"
)

func historyFixture() *models.History {
	return &models.History{
		SessionID: "abc",
		Messages: []models.Message{
			models.UserMessage("ആധാർ കാർഡിന് എന്തൊക്കെ വേണം?"),
			models.AssistantMessage(documentsReply),
		},
	}
}

func TestHistoryCommand(t *testing.T) {
	cmd := NewHistoryCmd(NewDependencies())

	assert.Equal(t, "history <session-id>", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, "markdown", cmd.Flags().Lookup("format").DefValue)
}

func TestHistoryExport_Markdown(t *testing.T) {
	env := newTestEnv(t)
	env.client.HistoryVal = historyFixture()

	require.NoError(t, env.run("history", "abc"))

	out := env.stdout.String()
	assert.Contains(t, out, "# abc\n")
	assert.Contains(t, out, "**Exported:** 2024-05-01 10:30:00")
	assert.Contains(t, out, "## You\n")
	assert.Contains(t, out, "## "+env.deps.Pack.Strings.AppTitle+"\n")
	assert.Contains(t, out, "> - ഫോട്ടോ")
	assert.Equal(t, "abc", env.client.LastSessionID)

	create, _, history := env.client.Calls()
	assert.Zero(t, create, "export must not create a session")
	assert.Equal(t, 1, history)
}

func TestHistoryExport_JSONFile(t *testing.T) {
	env := newTestEnv(t)
	env.client.HistoryVal = historyFixture()
	path := filepath.Join(t.TempDir(), "abc.json")

	require.NoError(t, env.run("history", "abc", "--format", "json", "-o", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got struct {
		SessionID string `json:"session_id"`
		Messages  []struct {
			Role      string   `json:"role"`
			Content   string   `json:"content"`
			Documents []string `json:"documents"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "abc", got.SessionID)
	require.Len(t, got.Messages, 2)
	assert.Empty(t, got.Messages[0].Documents)
	assert.Equal(t, []string{"ഫോട്ടോ", "വിലാസ തെളിവ്"}, got.Messages[1].Documents)
	assert.Contains(t, env.stderr.String(), "Exported 2 messages")
	assert.Empty(t, env.stdout.String())
}

func TestHistoryExport_BadFormat(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("history", "abc", "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown export format")

	_, _, history := env.client.Calls()
	assert.Zero(t, history)
}

func TestHistoryExport_FetchFailure(t *testing.T) {
	env := newTestEnv(t)
	env.client.HistoryErr = apierrors.NewHistoryFetchError("abc", apierrors.NewAPIError(404, "/chat/abc", "fetch history failed"))

	err := env.run("history", "abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, apierrors.ErrHistoryFetch)
	assert.Equal(t, 404, apierrors.GetHTTPStatus(err))
	assert.Empty(t, env.stdout.String())
}

func TestHistoryExport_RequiresID(t *testing.T) {
	env := newTestEnv(t)

	require.Error(t, env.run("history"))
}
