// ABOUTME: CLI commands for exporting and importing care4u data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/care4u/internal/storage"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export care4u data",
	Long: `Export the whole session in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export with the schedule grouped by time slot
  markdown   Markdown summary (for sharing with family or a doctor)

OPTIONS:

  --output, -o   Write to file instead of stdout

EXAMPLES:

  care4u export json                        # Export all data as JSON
  care4u export json -o backup.json         # Save to file
  care4u export markdown -o care-notes.md   # Shareable summary`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		snap := st.Snapshot()

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = storage.ExportJSON(snap)
		case "yaml":
			data, err = storage.ExportYAML(snap)
		case "markdown", "md":
			data = []byte(storage.ExportMarkdown(snap))
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore care4u data from a JSON export",
	Long: `Restore a session from a JSON file written by 'care4u export json'.

The imported session replaces everything in the configured backend.

EXAMPLES:

  care4u import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		state, err := storage.ImportJSON(data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		if err := repo.SaveState(state); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		fmt.Printf("  Medications: %d\n", len(state.Medications))
		fmt.Printf("  Vitals: %d\n", len(state.Vitals))
		fmt.Printf("  Messages: %d\n", len(state.ChatMessages))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
