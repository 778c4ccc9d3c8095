package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrreacto/reacto/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or edit the config file",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the path of the config file in use",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), activeConfigPath())
		return err
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one config value, keeping comments",
	Long: `Set a dotted config key in the config file. Comments and unrelated keys
are preserved. The change is rejected if it makes the config invalid.

A running TUI picks up theme and audio changes immediately.

Examples:
  reacto config set ui.language en
  reacto config set theme.pulse "#FF00AA"
  reacto config set audio.player bell`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := activeConfigPath()
		if err := setConfigValue(path, args[0], args[1]); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (%s)\n", args[0], args[1], path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func activeConfigPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return config.DefaultConfigPath()
}

// setConfigValue writes key, then validates the whole file and restores the
// previous contents if the result is invalid.
func setConfigValue(path, key, value string) error {
	backup, err := os.ReadFile(path) //nolint:gosec // G304: user-chosen config path
	existed := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := config.SetValue(path, key, value); err != nil {
		return err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	var next config.Config
	err = v.ReadInConfig()
	if err == nil {
		err = v.Unmarshal(&next)
	}
	if err == nil {
		err = config.Validate(next)
	}
	if err != nil {
		if restoreErr := restore(path, backup, existed); restoreErr != nil {
			return fmt.Errorf("restoring %s after invalid change: %w", path, restoreErr)
		}
		return fmt.Errorf("rejected %s=%s: %w", key, value, err)
	}
	return nil
}

func restore(path string, data []byte, existed bool) error {
	if !existed {
		return os.Remove(path)
	}
	return os.WriteFile(path, data, 0o600)
}
