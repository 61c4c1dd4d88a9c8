// ABOUTME: CLI command for moving data between storage backends.
// ABOUTME: Copies the saved session from one backend to another.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/care4u/internal/config"
	"github.com/harperreed/care4u/internal/storage"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data between storage backends",
	Long: `Copy the saved session from one storage backend to another.

BACKENDS:

  sqlite   <data_dir>/care4u.db
  badger   <data_dir>/badger/
  charm    Charm KV, synced to Charm Cloud

IMPORTANT:

  - The destination is replaced wholesale
  - A non-empty badger destination needs --force
  - Run with --dry-run first to see what would be copied
  - Afterwards run 'care4u config set backend <to>' to switch over

USAGE:

  care4u migrate --from sqlite --to badger --dry-run
  care4u migrate --from sqlite --to charm`,
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFrom == migrateTo {
			return fmt.Errorf("--from and --to are both %q", migrateFrom)
		}
		if migrateFrom == config.BackendMemory || migrateTo == config.BackendMemory {
			return fmt.Errorf("the memory backend does not keep data between runs")
		}

		if migrateTo == config.BackendBadger && !migrateForce && !migrateDryRun {
			dir := filepath.Join(cfg.GetDataDir(), "badger")
			nonEmpty, err := storage.IsDirNonEmpty(dir)
			if err != nil {
				return err
			}
			if nonEmpty {
				return fmt.Errorf("%s already has data; use --force to replace it", dir)
			}
		}

		src, err := openBackend(migrateFrom)
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			state, err := src.LoadState()
			if err != nil {
				return fmt.Errorf("load %s: %w", migrateFrom, err)
			}
			fmt.Printf("Would copy from %s to %s:\n", migrateFrom, migrateTo)
			fmt.Printf("  Accounts: %d\n", len(state.Accounts))
			fmt.Printf("  Medications: %d\n", len(state.Medications))
			fmt.Printf("  Vitals: %d\n", len(state.Vitals))
			fmt.Printf("  History: %d\n", len(state.History))
			fmt.Printf("  Messages: %d\n", len(state.ChatMessages))
			return nil
		}

		dst, err := openBackend(migrateTo)
		if err != nil {
			return err
		}
		defer func() { _ = dst.Close() }()

		summary, err := storage.MigrateData(src, dst)
		if err != nil {
			return err
		}
		logger.Info("migrated state", "from", migrateFrom, "to", migrateTo)

		color.Green("✓ Migrated %s → %s", migrateFrom, migrateTo)
		fmt.Printf("  Accounts: %d\n", summary.Accounts)
		fmt.Printf("  Medications: %d\n", summary.Medications)
		fmt.Printf("  Vitals: %d\n", summary.Vitals)
		fmt.Printf("  History: %d\n", summary.History)
		fmt.Printf("  Messages: %d\n", summary.Messages)
		if cfg.GetBackend() != migrateTo {
			fmt.Println()
			fmt.Printf("Run 'care4u config set backend %s' to use it.\n", migrateTo)
		}
		return nil
	},
}

// openBackend opens a repository with the current config but another backend.
func openBackend(backend string) (storage.Repository, error) {
	c := *cfg
	if err := c.Set("backend", backend); err != nil {
		return nil, err
	}
	r, err := c.OpenStorage()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", backend, err)
	}
	return r, nil
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", config.BackendSQLite, "source backend")
	migrateCmd.Flags().StringVar(&migrateTo, "to", config.BackendBadger, "destination backend")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "replace a non-empty destination")
	rootCmd.AddCommand(migrateCmd)
}
