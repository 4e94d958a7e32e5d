package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/sahayi/internal/annotate"
	"github.com/diogo/sahayi/internal/transcript"
)

// NewHistoryCmd creates the command that exports a stored conversation
func NewHistoryCmd(deps *Dependencies) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "history <session-id>",
		Short: "Export a conversation from the service",
		Long: `Fetch the message log of a session from the assistant service and
write it as Markdown or JSON. Assistant replies that list required documents
carry the extracted list in both formats.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryExport(cmd, deps, args[0], format, output)
		},
	}

	cmd.Flags().StringVar(&format, "format", "markdown", "Export format: markdown or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

func runHistoryExport(cmd *cobra.Command, deps *Dependencies, sessionID, format, output string) error {
	f, err := transcript.ParseFormat(format)
	if err != nil {
		return err
	}

	manager := deps.newManager()
	if err := manager.Resume(sessionID); err != nil {
		return err
	}
	if err := manager.FetchHistory(cmd.Context()); err != nil {
		return err
	}

	snap := manager.Snapshot()
	t := transcript.Transcript{
		SessionID:  snap.SessionID,
		ExportedAt: deps.Now(),
		Messages:   snap.Messages,
	}

	opts := transcript.Options{
		Format: f,
		Labels: transcript.Labels{
			User:      "You",
			Assistant: deps.Pack.Strings.AppTitle,
			Documents: deps.Pack.Strings.DocumentsHeading,
		},
		Annotator: annotate.New(deps.Pack.Vocabulary),
	}

	var w io.Writer = deps.Stdout
	if output != "" {
		file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		w = file
	}

	if err := transcript.Write(w, t, opts); err != nil {
		return err
	}

	deps.Logger.Info().
		Str("session_id", sessionID).
		Int("messages", len(t.Messages)).
		Str("format", string(f)).
		Msg("history exported")

	if output != "" {
		fmt.Fprintf(deps.Stderr, "Exported %d messages to %s\n", len(t.Messages), output)
	}
	return nil
}
