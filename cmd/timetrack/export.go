// ABOUTME: CLI commands for exporting and importing activity data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats; imports JSON.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/timetrack/internal/storage"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export activity data",
	Long: `Export all of your logged days in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export with per-category totals (human-readable)
  markdown   One table per day (for documentation/sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout

EXAMPLES:

  timetrack export json                     # Export all data as JSON
  timetrack export json -o backup.json      # Save to file
  timetrack export yaml                     # Export as YAML
  timetrack export markdown -o log.md       # Export as Markdown`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		var data []byte
		switch args[0] {
		case "json":
			data, err = storage.ExportJSON(cmd.Context(), repo, session.UID)
		case "yaml":
			data, err = storage.ExportYAML(cmd.Context(), repo, session.UID)
		case "markdown", "md":
			data, err = storage.ExportMarkdown(cmd.Context(), repo, session.UID)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", args[0])
		}
		if err != nil {
			return storeFailure("export data", err)
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
	Short: "Import activity data from JSON",
	Long: `Import activities from a JSON backup file made with 'timetrack export json'.

Activities keep their IDs, so importing the same file twice overwrites rather
than duplicates. Records that fail validation are skipped. The 24-hour limit
is not checked on import.

EXAMPLES:

  timetrack import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]
		session, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		data, err := storage.ParseExport(raw)
		if err != nil {
			return err
		}

		imported, skipped, err := storage.ImportData(cmd.Context(), repo, session.UID, data)
		if err != nil {
			return storeFailure("import data", err)
		}

		color.Green("✓ Imported %d activities from %s", imported, filename)
		if skipped > 0 {
			color.Yellow("  Skipped %d invalid records", skipped)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
