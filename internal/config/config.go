// Package config provides configuration types and defaults for reacto.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mrreacto/reacto/internal/i18n"
	"github.com/mrreacto/reacto/internal/log"
	"github.com/mrreacto/reacto/internal/session"
	"github.com/mrreacto/reacto/internal/sound"
	"github.com/mrreacto/reacto/internal/tracing"
	"github.com/mrreacto/reacto/internal/ui/styles"
)

// Config holds all configuration options for reacto.
type Config struct {
	Session SessionConfig  `mapstructure:"session"`
	UI      UIConfig       `mapstructure:"ui"`
	Audio   AudioConfig    `mapstructure:"audio"`
	Theme   ThemeConfig    `mapstructure:"theme"`
	Storage StorageConfig  `mapstructure:"storage"`
	Tracing tracing.Config `mapstructure:"tracing"`
}

// SessionConfig holds default session parameters and the limits the
// configuration form enforces. All values are seconds.
type SessionConfig struct {
	Duration    int `mapstructure:"duration"`
	MinInterval int `mapstructure:"min_interval"`
	MaxInterval int `mapstructure:"max_interval"`
	MinDuration int `mapstructure:"min_duration"`
	MaxDuration int `mapstructure:"max_duration"`
}

// UIConfig holds user interface options.
type UIConfig struct {
	Language      string `mapstructure:"language"` // "fi" (default) or "en"
	ShowHelpHints bool   `mapstructure:"show_help_hints"`
}

// AudioConfig selects how the cue sound is played.
type AudioConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Player  string `mapstructure:"player"` // auto, bell, none, or an executable name
	Asset   string `mapstructure:"asset"`
}

// ThemeConfig holds hex colors for the TUI. Empty values keep the built-in
// adaptive colors.
type ThemeConfig struct {
	Pulse  string `mapstructure:"pulse"`
	Accent string `mapstructure:"accent"`
	Error  string `mapstructure:"error"`
	Muted  string `mapstructure:"muted"`
}

// StorageConfig locates the preferences database.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// SessionParams returns the configured default session parameters.
func (c Config) SessionParams() session.Params {
	return session.Params{
		DurationSeconds:    c.Session.Duration,
		MinIntervalSeconds: c.Session.MinInterval,
		MaxIntervalSeconds: c.Session.MaxInterval,
	}
}

// Language returns the configured UI language, falling back to Finnish.
func (c Config) Language() i18n.Language {
	return i18n.Resolve(c.UI.Language)
}

// SoundConfig converts the audio section for sound.New.
func (c Config) SoundConfig() sound.Config {
	return sound.Config{
		Enabled: c.Audio.Enabled,
		Player:  c.Audio.Player,
		Asset:   ExpandHome(c.Audio.Asset),
	}
}

// TracingConfig returns the tracing section with paths expanded.
func (c Config) TracingConfig() tracing.Config {
	t := c.Tracing
	t.FilePath = ExpandHome(t.FilePath)
	return t
}

// StyleTheme converts the theme section for styles.ApplyTheme.
func (c Config) StyleTheme() styles.ThemeConfig {
	return styles.ThemeConfig{
		Pulse:  c.Theme.Pulse,
		Accent: c.Theme.Accent,
		Error:  c.Theme.Error,
		Muted:  c.Theme.Muted,
	}
}

// DBPath returns the expanded database path.
func (c Config) DBPath() string {
	return ExpandHome(c.Storage.DBPath)
}

// DefaultConfigDir returns ~/.config/reacto.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".reacto")
	}
	return filepath.Join(home, ".config", "reacto")
}

// DefaultConfigPath returns ~/.config/reacto/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// Defaults returns the default configuration.
func Defaults() Config {
	t := tracing.DefaultConfig()
	t.FilePath = "~/.config/reacto/traces/traces.jsonl"

	return Config{
		Session: SessionConfig{
			Duration:    60,
			MinInterval: 2,
			MaxInterval: 5,
			MinDuration: 30,
			MaxDuration: 3600,
		},
		UI: UIConfig{
			Language:      string(i18n.DefaultLanguage),
			ShowHelpHints: true,
		},
		Audio: AudioConfig{
			Enabled: true,
			Player:  sound.PlayerAuto,
			Asset:   "~/.config/reacto/sounds/gunshot.mp3",
		},
		Storage: StorageConfig{
			DBPath: "~/.config/reacto/reacto.db",
		},
		Tracing: t,
	}
}

// Validate checks every section.
func Validate(cfg Config) error {
	if err := ValidateSession(cfg.Session); err != nil {
		return err
	}
	if err := ValidateUI(cfg.UI); err != nil {
		return err
	}
	if err := ValidateAudio(cfg.Audio); err != nil {
		return err
	}
	if err := ValidateTheme(cfg.Theme); err != nil {
		return err
	}
	if cfg.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateSession checks the form limits and that the default parameters
// satisfy them.
func ValidateSession(s SessionConfig) error {
	if s.MinDuration <= 0 {
		return fmt.Errorf("session.min_duration must be positive, got %d", s.MinDuration)
	}
	if s.MaxDuration < s.MinDuration {
		return fmt.Errorf("session.max_duration (%d) must be at least session.min_duration (%d)", s.MaxDuration, s.MinDuration)
	}
	if s.Duration < s.MinDuration || s.Duration > s.MaxDuration {
		return fmt.Errorf("session.duration must be between %d and %d, got %d", s.MinDuration, s.MaxDuration, s.Duration)
	}
	if s.MinInterval <= 0 {
		return fmt.Errorf("session.min_interval must be positive, got %d", s.MinInterval)
	}
	if s.MaxInterval <= s.MinInterval {
		return fmt.Errorf("session.max_interval (%d) must be greater than session.min_interval (%d)", s.MaxInterval, s.MinInterval)
	}
	return nil
}

// ValidateUI checks the language code.
func ValidateUI(ui UIConfig) error {
	if ui.Language == "" {
		return nil
	}
	if _, ok := i18n.ParseLanguage(ui.Language); !ok {
		return fmt.Errorf("ui.language must be \"fi\" or \"en\", got %q", ui.Language)
	}
	return nil
}

// ValidateAudio checks the player name.
func ValidateAudio(a AudioConfig) error {
	if strings.ContainsAny(a.Player, " \t/") {
		return fmt.Errorf("audio.player must be auto, bell, none, or a bare executable name, got %q", a.Player)
	}
	return nil
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateTheme checks that every set color is a hex color.
func ValidateTheme(t ThemeConfig) error {
	for name, value := range map[string]string{
		"pulse":  t.Pulse,
		"accent": t.Accent,
		"error":  t.Error,
		"muted":  t.Muted,
	} {
		if value != "" && !hexColor.MatchString(value) {
			return fmt.Errorf("theme.%s must be a hex color like \"#FF5F5F\", got %q", name, value)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Path requirements apply only when tracing is enabled.
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	switch t.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
	}

	if t.Enabled {
		if t.Exporter == tracing.ExporterFile && t.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if t.Exporter == tracing.ExporterOTLP && t.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the commented YAML written on first run.
func DefaultConfigTemplate() string {
	return `# reacto configuration

# Default session parameters (seconds). Values stored from the last
# session take precedence over these.
session:
  duration: 60
  min_interval: 2
  max_interval: 5
  # Limits enforced by the configuration form
  min_duration: 30
  max_duration: 3600

ui:
  # "fi" (default) or "en". The language chosen in the app is remembered
  # and takes precedence.
  language: fi
  show_help_hints: true

audio:
  enabled: true
  # auto: first of afplay, paplay, aplay, ffplay that is installed
  # bell: terminal bell
  # none: silent
  # or the name of any player that accepts a file argument
  player: auto
  asset: ~/.config/reacto/sounds/gunshot.mp3

# Hex colors; leave empty for the built-in adaptive palette
# theme:
#   pulse: "#FF5F5F"
#   accent: "#54A0FF"
#   error: "#FF8787"
#   muted: "#696969"

storage:
  db_path: ~/.config/reacto/reacto.db

# Session tracing
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # none, file, stdout, otlp (default: file)
#   file_path: ~/.config/reacto/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at configPath from the default
// template, creating the parent directory if needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
