// Package commands provides CLI commands for sahayi.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/sahayi/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// queryFlags are the flags of the one-shot query on the root command
type queryFlags struct {
	output string
	file   string
	copy   bool
	raw    bool
}

// NewRootCmd builds the command tree over deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	flags := &globalFlags{}
	qf := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "sahayi [question]",
		Short: "Terminal client for the Kerala government services assistant",
		Long: `sahayi talks to the Malayalam assistant for Kerala government services.
Ask a single question, or open an interactive chat. Replies that list
required documents get a separate documents callout.

Examples:
  sahayi chat                              Start interactive chat
  sahayi chat --session <id>               Continue an existing conversation
  sahayi "റേഷൻ കാർഡ് എങ്ങനെ അപേക്ഷിക്കാം?"       Ask a single question
  sahayi -f question.txt                   Read the question from a file
  cat question.txt | sahayi                Read the question from stdin
  sahayi history <id> --format json        Export a conversation
  sahayi config set api_url http://localhost:8000`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[annotationNoSetup] == "true" {
				return nil
			}
			if v, _ := cmd.Flags().GetBool("version"); v {
				return nil
			}
			return deps.prepare(cmd, flags)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Check for version flag
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "sahayi %s (built %s)\n", Version, BuildTime)
				return nil
			}

			question, ok, err := readQuestion(deps.Stdin, qf.file, args)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}
			return runQuery(cmd.Context(), deps, question, qf)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.apiURL, "api-url", "", "Assistant service base URL (overrides config)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, disabled")
	pf.StringVar(&flags.logFile, "log-file", "", "Write JSON logs to this file")
	pf.StringVar(&flags.localeFile, "locale", "", "YAML locale pack overlaid on the built-in Malayalam pack")
	pf.IntVar(&flags.timeout, "timeout", 0, "Request timeout in seconds (0 disables)")

	cmd.Flags().StringVarP(&qf.output, "output", "o", "", "Save reply to file")
	cmd.Flags().StringVarP(&qf.file, "file", "f", "", "Read question from file")
	cmd.Flags().BoolVarP(&qf.copy, "copy", "c", false, "Copy the reply to the clipboard")
	cmd.Flags().BoolVar(&qf.raw, "raw", false, "Print the reply without decoration")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	// Add subcommands
	cmd.AddCommand(NewChatCmd(deps))
	cmd.AddCommand(NewHistoryCmd(deps))
	cmd.AddCommand(NewConfigCmd(deps))

	return cmd
}

// readQuestion picks the question from -f, piped stdin or the argument,
// in that order. ok is false when none was given.
func readQuestion(stdin io.Reader, file string, args []string) (string, bool, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if hasPipedInput(stdin) {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	return "", false, nil
}

// hasPipedInput reports whether r is a pipe or file rather than a terminal.
// Readers that are not files count as piped.
func hasPipedInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

var (
	defaultDeps = NewDependencies()

	// rootCmd represents the base command
	rootCmd = NewRootCmd(defaultDeps)
)

// Execute runs the root command
func Execute() {
	err := rootCmd.Execute()
	defaultDeps.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, tui.FormatError(err))
		os.Exit(1)
	}
}
