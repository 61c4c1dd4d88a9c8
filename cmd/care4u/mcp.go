// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server over the shared store for assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/care4u/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout. Logs go to stderr.

CONFIGURATION:

  {
    "mcpServers": {
      "care4u": {
        "command": "care4u",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_medications    List the schedule, optionally by time slot
  add_medication      Add an item to the schedule
  toggle_medication   Mark an item taken or untaken
  list_vitals         Latest watch readings
  list_history        Daily activity log with totals
  list_accounts       Active and other accounts
  add_account         Add an account
  switch_account      Make another account active
  select_companion    Pick a plant companion
  set_view            Change the dashboard view
  toggle_theme        Switch dark/light
  send_message        Talk to the companion

AVAILABLE RESOURCES:

  care4u://summary        Greeting, next medication and companion
  care4u://schedule       Schedule grouped by slot
  care4u://conversation   The chat transcript`,
	RunE: func(cmd *cobra.Command, args []string) error {
		responder, err := cfg.NewResponder()
		if err != nil {
			return err
		}

		server, err := mcp.NewServer(st, responder)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		go func() {
			select {
			case <-sigChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		logger.Info("mcp server listening on stdio", "backend", cfg.GetBackend())
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
