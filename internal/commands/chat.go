package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/sahayi/internal/render"
	"github.com/diogo/sahayi/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the assistant.

A new conversation is created on start; pass --session to continue an
existing one. Type /new for a fresh conversation, /history to reload the
current one from the service, /copy to copy the last reply, and 'exit',
'quit' or Ctrl+C to leave.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationFullscreen: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps, sessionID)
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Resume an existing session by id")

	return cmd
}

func runChat(cmd *cobra.Command, deps *Dependencies, sessionID string) error {
	manager := deps.newManager()

	deps.Logger.Info().Str("resume", sessionID).Msg("starting chat")

	return deps.TUI.RunChat(cmd.Context(), manager, tui.Options{
		Pack:        deps.Pack,
		Render:      render.OptionsFromConfig(deps.Config.Markdown, 80),
		Logger:      deps.Logger,
		ResumeID:    sessionID,
		CopyOnReply: deps.Config.CopyToClipboard,
		Clipboard:   deps.Clipboard,
	})
}
