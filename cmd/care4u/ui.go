// ABOUTME: CLI command for the full-screen Care4U app.
// ABOUTME: Starts the Bubble Tea program over the shared store.
package main

import (
	"github.com/spf13/cobra"

	"github.com/harperreed/care4u/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"app"},
	Short:   "Open the full-screen app",
	Long: `Open the full-screen Care4U app. This is what 'care4u' runs by default.

NEW USERS go through sign up, choose a companion and name their plant.
RETURNING USERS land on the dashboard of their last session.

KEYS:

  1-5        Home, Flora, Schedule, Watch, History
  c          Choose a companion
  ,          Settings
  t          Toggle dark/light theme
  ?          Show all keys
  q          Quit

Logs are written to care4u.log in the data directory while the app runs.
When stdout is not a terminal a short hint is printed instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUI(cmd)
	},
}

func runUI(cmd *cobra.Command) error {
	responder, err := cfg.NewResponder()
	if err != nil {
		return err
	}
	logger.Info("starting app", "backend", cfg.GetBackend(), "provider", cfg.GetProvider())

	m := tui.New(st, responder,
		tui.WithLogger(logger),
		tui.WithTimeout(cfg.GetTimeout()),
		tui.WithContext(cmd.Context()),
	)
	return tui.Run(m)
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
