package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrreacto/reacto/internal/app"
	"github.com/mrreacto/reacto/internal/config"
	"github.com/mrreacto/reacto/internal/infrastructure/sqlite"
	"github.com/mrreacto/reacto/internal/log"
	"github.com/mrreacto/reacto/internal/prefs"
	"github.com/mrreacto/reacto/internal/session"
	"github.com/mrreacto/reacto/internal/sound"
	"github.com/mrreacto/reacto/internal/timeline"
	"github.com/mrreacto/reacto/internal/tracing"
	"github.com/mrreacto/reacto/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const localConfigPath = ".reacto/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "reacto",
	Short: "Mr. Reacto, a terminal reaction trainer",
	Long: `Mr. Reacto plays a sound cue at random intervals for a fixed session
length so you can practise reacting to it. Configure the session in the
form, press Enter to start and s or Esc to stop early.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/reacto/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write a debug log (also REACTO_DEBUG=1, path from REACTO_LOG)")
}

// setDefaults registers every key so Unmarshal fills what the file omits.
func setDefaults(v *viper.Viper) {
	d := config.Defaults()
	v.SetDefault("session.duration", d.Session.Duration)
	v.SetDefault("session.min_interval", d.Session.MinInterval)
	v.SetDefault("session.max_interval", d.Session.MaxInterval)
	v.SetDefault("session.min_duration", d.Session.MinDuration)
	v.SetDefault("session.max_duration", d.Session.MaxDuration)
	v.SetDefault("ui.language", d.UI.Language)
	v.SetDefault("ui.show_help_hints", d.UI.ShowHelpHints)
	v.SetDefault("audio.enabled", d.Audio.Enabled)
	v.SetDefault("audio.player", d.Audio.Player)
	v.SetDefault("audio.asset", d.Audio.Asset)
	v.SetDefault("theme.pulse", d.Theme.Pulse)
	v.SetDefault("theme.accent", d.Theme.Accent)
	v.SetDefault("theme.error", d.Theme.Error)
	v.SetDefault("theme.muted", d.Theme.Muted)
	v.SetDefault("storage.db_path", d.Storage.DBPath)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

func initConfig() {
	setDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .reacto/config.yaml (current directory)
		// 2. ~/.config/reacto/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			viper.AddConfigPath(config.DefaultConfigDir())
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// First run: write the commented template, else run on defaults.
			defaultPath := config.DefaultConfigPath()
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// reloadConfig re-reads the active config file for the TUI watcher.
func reloadConfig() (config.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		return config.Config{}, fmt.Errorf("reading config: %w", err)
	}
	var next config.Config
	if err := viper.Unmarshal(&next); err != nil {
		return config.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return next, nil
}

// initLogging enables the debug log when --debug or REACTO_DEBUG is set.
// The returned cleanup is never nil.
func initLogging(prefix string) (func(), bool, error) {
	debug := os.Getenv("REACTO_DEBUG") != "" || debugFlag
	if !debug {
		return func() {}, false, nil
	}

	logPath := os.Getenv("REACTO_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return nil, false, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "Debug logging enabled", "logPath", logPath, "config", viper.ConfigFileUsed())
	return cleanup, true, nil
}

// openPrefs opens the preferences database configured in cfg.
func openPrefs(cfg config.Config) (*prefs.Service, func(), error) {
	db, err := sqlite.NewDB(cfg.DBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening preferences: %w", err)
	}
	svc := prefs.NewService(db.PreferenceRepository(), prefs.Defaults{
		Params:      cfg.SessionParams(),
		Language:    cfg.Language(),
		MinDuration: cfg.Session.MinDuration,
		MaxDuration: cfg.Session.MaxDuration,
	})
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.ErrorErr(log.CatDB, "Closing database failed", err)
		}
	}
	return svc, closeDB, nil
}

// newTracer starts the configured tracing provider. Shutdown flushes
// buffered spans.
func newTracer(cfg config.Config) (*tracing.Provider, func(), error) {
	provider, err := tracing.NewProvider(cfg.TracingConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("starting tracing: %w", err)
	}
	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Tracing shutdown failed", err)
		}
	}
	return provider, shutdown, nil
}

func runApp(_ *cobra.Command, _ []string) error {
	cleanup, debug, err := initLogging("reacto")
	if err != nil {
		return err
	}
	defer cleanup()

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := styles.ApplyTheme(cfg.StyleTheme()); err != nil {
		return fmt.Errorf("applying theme: %w", err)
	}

	provider, shutdown, err := newTracer(cfg)
	if err != nil {
		return err
	}
	defer shutdown()

	prefsSvc, closeDB, err := openPrefs(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	loop := timeline.NewLoop()
	defer loop.Close()

	sess := session.New(loop,
		session.WithCuePlayer(sound.New(cfg.SoundConfig(), nil)),
		session.WithTracer(provider.Tracer()),
	)
	defer sess.Close()

	zone.NewGlobal()

	model := app.New(app.Services{
		Session:    sess,
		Prefs:      prefsSvc,
		Config:     cfg,
		ConfigPath: viper.ConfigFileUsed(),
		LoadConfig: reloadConfig,
		Debug:      debug,
	})
	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	// Stops any active session and the config watcher.
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
