// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server bound to the signed-in session.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/timetrack/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to log and analyse your time through a
standardized protocol. The server communicates via stdin/stdout and acts as
whoever is signed in with 'timetrack login'.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "timetrack": {
        "command": "timetrack",
        "args": ["mcp"]
      }
    }
  }

  On macOS, the config is at:
    ~/Library/Application Support/Claude/claude_desktop_config.json

AVAILABLE TOOLS:

  add_activity      Log an activity for a day
  list_activities   List a day's activities with totals
  update_activity   Change fields of an activity
  delete_activity   Delete an activity by ID
  analyse_day       Category breakdown, bars and timeline for a day
  list_categories   Known categories with labels and colors

AVAILABLE RESOURCES:

  timetrack://today     Today's activities and totals
  timetrack://summary   Today's analytics summary`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(activities, authSvc.Current)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
