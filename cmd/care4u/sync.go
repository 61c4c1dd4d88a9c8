// ABOUTME: CLI commands for Charm-based sync of the charm backend.
// ABOUTME: Supports link, unlink, status, now, repair, reset, and wipe operations.
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/care4u/internal/charm"
	"github.com/harperreed/care4u/internal/config"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync care4u data across devices",
	Long: `Sync care4u data across devices using Charm Cloud.

Only applies when the storage backend is 'charm':

  care4u config set backend charm

Your data is E2E encrypted with your SSH key before upload.

COMMANDS:

  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  status      Show sync status and account info
  now         Sync immediately
  repair      Repair database corruption
  reset       Reset local data and restore from cloud (destructive)
  wipe        Delete cloud and local data (destructive)

Data syncs automatically after each change.`,
	Annotations: map[string]string{annotationNoStore: "true"},
}

var syncLinkCmd = &cobra.Command{
	Use:         "link",
	Short:       "Link this device to Charm",
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm("link"); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}
		color.Green("\n✓ Device linked to Charm")

		client, err := charm.InitClient()
		if err != nil {
			color.Yellow("⚠ Could not open Charm KV: %v", err)
			return nil
		}
		defer func() { _ = client.Close() }()
		if err := client.Sync(); err != nil {
			color.Yellow("⚠ Initial sync failed: %v", err)
		} else {
			color.Green("✓ Initial sync complete")
		}
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:         "unlink",
	Short:       "Disconnect from Charm",
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm("unlink"); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}
		color.Green("✓ Device unlinked from Charm")
		fmt.Println("Your local care4u data is preserved.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:         "status",
	Short:       "Show sync status",
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.GetBackend() != config.BackendCharm {
			color.Yellow("Backend is %s; sync only applies to the charm backend", cfg.GetBackend())
			return nil
		}

		client, err := charm.InitClient()
		if err != nil {
			return fmt.Errorf("failed to open charm kv: %w", err)
		}
		defer func() { _ = client.Close() }()

		id, err := client.ID()
		if err != nil {
			color.Yellow("Not linked to Charm")
			fmt.Println("\nRun 'care4u sync link' to connect to Charm.")
			return nil
		}

		fmt.Println("Charm ID:", id)
		fmt.Println("Server:", charm.Host)
		if client.IsReadOnly() {
			color.Yellow("⚠ Read-only: another process (MCP server?) holds the lock")
		}
		fmt.Println()

		state, err := client.LoadState()
		if err != nil {
			color.Green("✓ Connected to Charm")
			fmt.Println("  No saved session yet.")
			return nil
		}
		color.Green("✓ Connected to Charm")
		fmt.Printf("  Medications: %d\n", len(state.Medications))
		fmt.Printf("  Vitals: %d\n", len(state.Vitals))
		fmt.Printf("  Messages: %d\n", len(state.ChatMessages))
		return nil
	},
}

var syncNowCmd = &cobra.Command{
	Use:         "now",
	Short:       "Sync immediately",
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := charm.InitClient()
		if err != nil {
			return fmt.Errorf("failed to open charm kv: %w", err)
		}
		defer func() { _ = client.Close() }()

		if err := client.Sync(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		color.Green("✓ Synced with %s", charm.Host)
		return nil
	},
}

var syncRepairCmd = &cobra.Command{
	Use:         "repair",
	Short:       "Repair database corruption",
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		fmt.Println("Repairing care4u database...")
		result, err := kv.Repair(charm.DBName, force)

		if result.WalCheckpointed {
			color.Green("  ✓ WAL checkpointed")
		}
		if result.ShmRemoved {
			color.Green("  ✓ SHM file removed")
		}
		if result.IntegrityOK {
			color.Green("  ✓ Integrity check passed")
		} else {
			color.Red("  ✗ Integrity check failed")
		}
		if result.Vacuumed {
			color.Green("  ✓ Database vacuumed")
		}

		if err != nil {
			if !force {
				color.Yellow("\nRun with --force to attempt recovery.")
			}
			return fmt.Errorf("repair failed: %w", err)
		}

		color.Green("\n✓ Repair complete")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:         "reset",
	Short:       "Reset local data and restore from cloud",
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd, "This will DELETE all local care4u data and restore from cloud.\nContinue? [y/N]: ", "y", "Y") {
			fmt.Println("Canceled.")
			return nil
		}

		client, err := charm.InitClient()
		if err != nil {
			return fmt.Errorf("failed to open charm kv: %w", err)
		}
		defer func() { _ = client.Close() }()

		if err := client.Reset(); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		color.Green("✓ Local data reset and restored from cloud")
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:         "wipe",
	Short:       "Delete all cloud and local data",
	Annotations: map[string]string{annotationNoStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd, "This will PERMANENTLY DELETE all cloud backups and local care4u data.\nType 'wipe' to confirm: ", "wipe") {
			fmt.Println("Canceled.")
			return nil
		}

		result, err := kv.Wipe(charm.DBName)
		if err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}

		color.Green("✓ Data wiped successfully")
		fmt.Printf("  Cloud backups deleted: %d\n", result.CloudBackupsDeleted)
		fmt.Printf("  Local files deleted: %d\n", result.LocalFilesDeleted)
		return nil
	},
}

func runCharm(arg string) error {
	c := exec.Command("charm", arg)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

// confirm prints prompt and reports whether the typed answer is one of accepted.
func confirm(cmd *cobra.Command, prompt string, accepted ...string) bool {
	fmt.Print(prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer := strings.TrimSpace(line)
	for _, a := range accepted {
		if answer == a {
			return true
		}
	}
	return false
}

func init() {
	syncRepairCmd.Flags().Bool("force", false, "Attempt recovery even if integrity checks fail")

	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncNowCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	syncCmd.AddCommand(syncWipeCmd)
	rootCmd.AddCommand(syncCmd)
}
