// ABOUTME: Root Cobra command for the care4u CLI.
// ABOUTME: Builds config, logger, repository and store in PersistentPreRunE and tears them down after.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harperreed/care4u/internal/config"
	"github.com/harperreed/care4u/internal/logging"
	"github.com/harperreed/care4u/internal/models"
	"github.com/harperreed/care4u/internal/storage"
	"github.com/harperreed/care4u/internal/store"
)

// annotationNoStore marks commands that only need the config.
const annotationNoStore = "care4u/no-store"

var (
	cfg         *config.Config
	logger      *log.Logger
	logFile     *os.File
	repo        storage.Repository
	st          *store.Store
	unsubscribe func()

	seedFile string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "care4u",
	Short: "Wellness companion for medications, vitals and a chatty plant",
	Long: `Care4U is a terminal wellness companion. A plant companion keeps you
company while you track medications, glance at vitals and review history.

Running 'care4u' with no subcommand opens the full-screen app.

QUICK START:

  $ care4u                               # Open the app and sign up
  $ care4u meds list                     # Today's schedule
  $ care4u meds toggle m1                # Mark a dose taken
  $ care4u ask "I went for a walk"       # Talk to your companion

SCHEDULE AND ACCOUNTS:

  $ care4u meds add Vitamin D --dosage 1000IU --at "08:00 AM" --slot Morning
  $ care4u accounts add grandpa --name "Joe"
  $ care4u accounts switch grandpa

DATA:

  $ care4u vitals                        # Latest watch readings
  $ care4u history                       # Daily activity log
  $ care4u export json -o backup.json    # Back up everything
  $ care4u migrate --from sqlite --to badger

MCP INTEGRATION:

  Run 'care4u mcp' to expose the schedule, vitals and companion to an
  MCP-compatible assistant over stdio:

  {
    "mcpServers": {
      "care4u": { "command": "care4u", "args": ["mcp"] }
    }
  }

CONFIGURATION:

  Settings live in ~/.config/care4u/config.json. See 'care4u config keys'.
  The storage backend defaults to memory; pick sqlite, badger or charm
  to keep data between runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		// PersistentPostRunE is skipped when RunE fails, so release anything left over.
		if err := closeAll(); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if seedFile != "" {
			cfg.SeedFile = seedFile
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		if err := openLogger(cmd); err != nil {
			return err
		}

		if cmd.Annotations[annotationNoStore] != "" {
			return nil
		}
		return openStore()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUI(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ownsTerminal reports whether cmd runs the full-screen app.
func ownsTerminal(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == uiCmd
}

func openLogger(cmd *cobra.Command) error {
	if ownsTerminal(cmd) {
		l, f, err := logging.OpenFile(cfg.LogPath(), cfg.GetLogLevel())
		if err != nil {
			return err
		}
		logger, logFile = l, f
		return nil
	}
	l, err := logging.New(os.Stderr, cfg.GetLogLevel())
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// openStore loads the saved session, falling back to a fresh seeded one.
func openStore() error {
	seed, err := cfg.LoadSeed()
	if err != nil {
		return fmt.Errorf("failed to load seed: %w", err)
	}

	repo, err = cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
	}

	state, err := repo.LoadState()
	switch {
	case errors.Is(err, storage.ErrNoState):
		state = seed.AppState()
		state.Theme = cfg.GetTheme()
		logger.Debug("starting fresh session", "backend", cfg.GetBackend())
	case err != nil:
		return fmt.Errorf("failed to load state: %w", err)
	}

	authenticator, err := cfg.NewAuthenticator()
	if err != nil {
		return err
	}

	st = store.New(state,
		store.WithCompanions(seed.Companions),
		store.WithAuthenticator(authenticator),
		store.WithLogger(logger),
	)
	unsubscribe = st.Subscribe(persist)
	return nil
}

// persist saves every settled snapshot. Partial streaming replies are skipped.
func persist(snap models.AppState) {
	if n := len(snap.ChatMessages); n > 0 && snap.ChatMessages[n-1].IsStreaming {
		return
	}
	if err := repo.SaveState(&snap); err != nil {
		logger.Error("failed to save state", "backend", cfg.GetBackend(), "err", err)
	}
}

func closeAll() error {
	if unsubscribe != nil {
		unsubscribe()
		unsubscribe = nil
	}
	st = nil

	var err error
	if repo != nil {
		err = repo.Close()
		repo = nil
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&seedFile, "seed", "", "YAML file replacing the built-in companions, medications and history")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides config)")
}
