package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diogo/sahayi/internal/api"
	"github.com/diogo/sahayi/internal/config"
	"github.com/diogo/sahayi/internal/conversation"
	"github.com/diogo/sahayi/internal/locale"
	"github.com/diogo/sahayi/internal/logging"
	"github.com/diogo/sahayi/internal/render"
	"github.com/diogo/sahayi/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, manager *conversation.Manager, opts tui.Options) error
	RunSettings(opts tui.SettingsOptions) (config.Config, error)
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, manager *conversation.Manager, opts tui.Options) error {
	return tui.RunChat(ctx, manager, opts)
}

func (d *DefaultTUI) RunSettings(opts tui.SettingsOptions) (config.Config, error) {
	return tui.RunSettings(opts)
}

// Dependencies holds the external dependencies for the commands.
// Tests replace Client, TUI and the standard streams.
type Dependencies struct {
	// Client is the assistant service client. When nil, one is built from
	// the loaded configuration.
	Client api.ClientInterface

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Clipboard writes text to the system clipboard.
	Clipboard func(string) error

	// LoadConfig reads the user configuration.
	LoadConfig func() (config.Config, error)

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTTY reports whether stdout is a terminal.
	IsTTY func() bool

	Now func() time.Time

	// Populated by prepare
	Config config.Config
	Logger zerolog.Logger
	Pack   locale.Pack

	closers []io.Closer
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:        &DefaultTUI{},
		Clipboard:  clipboard.WriteAll,
		LoadConfig: config.LoadConfig,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		IsTTY:      isStdoutTTY,
		Now:        time.Now,
		Logger:     zerolog.Nop(),
		Pack:       locale.Default(),
	}
}

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	apiURL     string
	logLevel   string
	logFile    string
	localeFile string
	timeout    int
}

// annotationFullscreen marks commands that hand the terminal to the TUI
const annotationFullscreen = "sahayi/fullscreen"

// annotationNoSetup marks commands that only touch the config file
const annotationNoSetup = "sahayi/no-setup"

// prepare loads configuration, applies env and flag overrides and builds the
// logger, locale pack and client for cmd.
func (d *Dependencies) prepare(cmd *cobra.Command, flags *globalFlags) error {
	cfg, err := d.LoadConfig()
	if err != nil {
		return err
	}
	cfg = config.ApplyEnv(cfg)

	fs := cmd.Flags()
	if fs.Changed("api-url") {
		cfg.APIURL = strings.TrimRight(flags.apiURL, "/")
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if fs.Changed("log-file") {
		cfg.LogFile = flags.logFile
	}
	if fs.Changed("locale") {
		cfg.LocaleFile = flags.localeFile
	}
	if fs.Changed("timeout") {
		cfg.TimeoutSeconds = flags.timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	d.Config = cfg

	logger, closer, err := logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		File:   cfg.LogFile,
		Writer: d.Stderr,
		Quiet:  cmd.Annotations[annotationFullscreen] == "true",
	})
	if err != nil {
		return err
	}
	d.closers = append(d.closers, closer)
	d.Logger = logger.With().Str("command", cmd.Name()).Logger()

	if cfg.LocaleFile != "" {
		pack, err := locale.LoadFile(cfg.LocaleFile)
		if err != nil {
			return err
		}
		d.Pack = pack
	}

	if cfg.TUITheme != "" && !render.SetTUITheme(cfg.TUITheme) {
		d.Logger.Warn().Str("theme", cfg.TUITheme).Msg("unknown TUI theme, keeping default")
	}
	tui.UpdateTheme()

	if d.Client == nil {
		client, err := api.NewClient(
			api.WithBaseURL(cfg.APIURL),
			api.WithTimeout(cfg.Timeout()),
			api.WithLogger(d.Logger),
		)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}
		d.Client = client
		d.closers = append(d.closers, closerFunc(func() error {
			client.Close()
			return nil
		}))
	}

	d.Logger.Debug().
		Str("api_url", cfg.APIURL).
		Dur("timeout", cfg.Timeout()).
		Str("locale", d.Pack.Code).
		Msg("dependencies ready")

	return nil
}

// newManager builds a session manager over the prepared client
func (d *Dependencies) newManager() *conversation.Manager {
	return conversation.NewManager(d.Client,
		conversation.WithLogger(d.Logger),
		conversation.WithStrings(d.Pack.Strings),
	)
}

// Close releases everything opened by prepare
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		_ = d.closers[i].Close()
	}
	d.closers = nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
