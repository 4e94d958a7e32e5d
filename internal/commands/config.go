package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/sahayi/internal/config"
	"github.com/diogo/sahayi/internal/render"
	"github.com/diogo/sahayi/internal/tui"
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	noSetup := map[string]string{annotationNoSetup: "true"}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change sahayi settings stored in ~/.sahayi/config.json.

Without a subcommand an interactive menu opens on a terminal; otherwise
the effective configuration is printed.`,
		Annotations: noSetup,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !deps.IsTTY() {
				return runConfigShow(deps)
			}
			return runConfigMenu(deps)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:         "show",
		Short:       "Print the effective configuration",
		Args:        cobra.NoArgs,
		Annotations: noSetup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(deps)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:         "path",
		Short:       "Print the config file location",
		Args:        cobra.NoArgs,
		Annotations: noSetup,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long: fmt.Sprintf(`Change one setting and save the file.

Keys: %s`, strings.Join(config.Keys(), ", ")),
		Args:        cobra.ExactArgs(2),
		Annotations: noSetup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(deps, args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:         "themes",
		Short:       "List markdown and chat themes",
		Args:        cobra.NoArgs,
		Annotations: noSetup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigThemes(deps)
		},
	})

	return cmd
}

func runConfigShow(deps *Dependencies) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return err
	}
	cfg = config.ApplyEnv(cfg)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintln(deps.Stdout, string(data))
	return nil
}

func runConfigMenu(deps *Dependencies) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return err
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}

	_, err = deps.TUI.RunSettings(tui.SettingsOptions{
		Config:     cfg,
		ConfigPath: path,
		Save:       config.SaveConfig,
	})
	return err
}

func runConfigSet(deps *Dependencies, key, value string) error {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return err
	}

	if key == "tui_theme" {
		if _, ok := render.GetTUIThemeByName(value); !ok {
			return fmt.Errorf("unknown tui_theme %q (valid: %s)", value, strings.Join(render.TUIThemeNames(), ", "))
		}
	}

	cfg, err = config.Set(cfg, key, value)
	if err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s = %s\n", key, value)
	return nil
}

func runConfigThemes(deps *Dependencies) error {
	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "MARKDOWN STYLE\tDESCRIPTION")
	for _, t := range render.AvailableThemes() {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Description)
	}
	_, _ = fmt.Fprintln(w, "\t")
	_, _ = fmt.Fprintln(w, "CHAT THEME\tDESCRIPTION")
	for _, t := range render.AvailableTUIThemes() {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Description)
	}

	return w.Flush()
}
