// ABOUTME: CLI commands for viewing and editing the care4u config file.
// ABOUTME: Shows the effective settings and sets validated keys.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/care4u/internal/config"
	"github.com/harperreed/care4u/internal/storage"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or change settings",
	Long: `View or change settings in ~/.config/care4u/config.json.

Secrets are never stored in the file. Set them in the environment:

  CARE4U_API_KEY       API key for the openai companion provider
  CARE4U_AUTH_SECRET   signing secret for local auth

EXAMPLES:

  care4u config show
  care4u config keys
  care4u config set backend sqlite
  care4u config set companion.provider openai
  care4u config set companion.model gpt-4o-mini`,
	Annotations: map[string]string{annotationNoStore: "true"},
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Print the effective settings",
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		faint := color.New(color.Faint)
		fmt.Println(faint.Sprint(config.GetConfigPath()))
		fmt.Println()

		rows := [][2]string{
			{"backend", cfg.GetBackend()},
			{"data_dir", cfg.GetDataDir()},
			{"theme", string(cfg.GetTheme())},
			{"log_level", cfg.GetLogLevel()},
			{"seed_file", cfg.SeedFile},
			{"companion.provider", cfg.GetProvider()},
			{"companion.base_url", cfg.Companion.BaseURL},
			{"companion.model", cfg.Companion.Model},
			{"companion.timeout_seconds", fmt.Sprint(int(cfg.GetTimeout().Seconds()))},
			{"companion.disable_stream", fmt.Sprint(cfg.Companion.DisableStream)},
			{"auth.mode", cfg.GetAuthMode()},
		}
		for _, r := range rows {
			v := r[1]
			if v == "" {
				v = faint.Sprint("(unset)")
			}
			fmt.Printf("%s %s\n", padRight(r[0], 26), v)
		}

		if cfg.GetBackend() == config.BackendSQLite {
			printSQLiteStatus()
		}

		fmt.Println()
		fmt.Printf("%s %s\n", padRight(config.EnvAPIKey, 26), secretStatus(config.EnvAPIKey))
		fmt.Printf("%s %s\n", padRight(config.EnvAuthSecret, 26), secretStatus(config.EnvAuthSecret))
		return nil
	},
}

var configJSONCmd = &cobra.Command{
	Use:         "json",
	Short:       "Print the raw config file contents",
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:         "keys",
	Short:       "List keys accepted by 'config set'",
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, k := range config.Keys() {
			fmt.Println(k)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:         "set <key> <value>",
	Short:       "Change one setting",
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := cfg.Set(key, value); err != nil {
			if errors.Is(err, config.ErrUnknownKey) {
				return fmt.Errorf("%w (known keys: %s)", err, strings.Join(config.Keys(), ", "))
			}
			return err
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		color.Green("✓ %s = %s", key, strings.TrimSpace(value))
		return nil
	},
}

// printSQLiteStatus reports the database file and last save without creating it.
func printSQLiteStatus() {
	faint := color.New(color.Faint)
	path := cfg.SQLitePath()
	fmt.Println()
	if _, err := os.Stat(path); err != nil {
		fmt.Printf("%s %s\n", padRight("database", 26), faint.Sprint("(not created yet)"))
		return
	}

	db, err := storage.Open(path)
	if err != nil {
		fmt.Printf("%s %s\n", padRight("database", 26), color.RedString(err.Error()))
		return
	}
	defer func() { _ = db.Close() }()

	fmt.Printf("%s %s\n", padRight("database", 26), db.Path())
	if saved, err := db.SavedAt(); err == nil {
		fmt.Printf("%s %s\n", padRight("last saved", 26), saved.Local().Format("2006-01-02 15:04"))
	} else {
		fmt.Printf("%s %s\n", padRight("last saved", 26), faint.Sprint("never"))
	}
}

func secretStatus(env string) string {
	if os.Getenv(env) == "" {
		return color.New(color.Faint).Sprint("not set")
	}
	return color.GreenString("set")
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configJSONCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
