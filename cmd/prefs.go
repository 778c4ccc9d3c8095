package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrreacto/reacto/internal/config"
	"github.com/mrreacto/reacto/internal/prefs"
	"github.com/mrreacto/reacto/internal/presentation"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect or reset stored preferences",
	Long: `The TUI remembers the last valid session settings and the chosen
language. These commands show or clear what is stored.`,
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print stored preferences as JSON",
	Long: `Print every stored preference and the values the next session would
use as JSON.

Examples:
  reacto prefs list
  reacto prefs list | jq '.effective'`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withPrefs(func(svc *prefs.Service) error {
			return listPrefs(cmd, svc)
		})
	},
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete stored preferences",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withPrefs(func(svc *prefs.Service) error {
			if err := svc.Reset(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "preferences reset")
			return nil
		})
	},
}

func init() {
	prefsCmd.AddCommand(prefsListCmd, prefsResetCmd)
	rootCmd.AddCommand(prefsCmd)
}

func withPrefs(fn func(*prefs.Service) error) error {
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	svc, closeDB, err := openPrefs(cfg)
	if err != nil {
		return err
	}
	defer closeDB()
	return fn(svc)
}

func listPrefs(cmd *cobra.Command, svc *prefs.Service) error {
	ctx := cmd.Context()
	entries, err := svc.List(ctx)
	if err != nil {
		return err
	}
	return presentation.NewFormatter(cmd.OutOrStdout()).FormatPreferences(presentation.PreferencesDTO{
		Stored:    presentation.FromEntries(entries),
		Effective: presentation.FromParams(string(svc.Language(ctx)), svc.Params(ctx)),
	})
}
