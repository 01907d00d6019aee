// ABOUTME: CLI command for deleting an activity.
// ABOUTME: Supports deletion by full ID or ID prefix within the selected day.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/timetrack/internal/analytics"
	"github.com/harperreed/timetrack/internal/tracker"
	"github.com/harperreed/timetrack/internal/ui"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete an activity",
	Long: `Delete an activity by its ID or ID prefix.

The ID prefix is shown in the first column of 'timetrack list' output. IDs are
looked up within today, or within --date.

EXAMPLES:

  timetrack delete 01hq3k2m                  # Delete by 8-char prefix
  timetrack rm 01hq --date 2025-01-31        # Short prefix (if unique)

CAUTION:

  This permanently deletes the activity. There is no undo.
  If the prefix matches multiple activities, an error is returned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := selectedDate()
		if err != nil {
			return err
		}
		session, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		day, err := activities.Day(cmd.Context(), session, date)
		if err != nil {
			return storeFailure("load activities", err)
		}
		activity, err := tracker.Resolve(day.Activities, args[0])
		if err != nil {
			return err
		}

		if err := activities.Delete(cmd.Context(), session, date, activity.ID); err != nil {
			return storeFailure("delete activity", err)
		}

		color.Yellow("✗ Deleted %s", truncate(activity.Name, 40))
		fmt.Printf("  %s %s %s\n",
			color.New(color.Faint).Sprint(ui.ShortID(activity.ID)),
			padRight(analytics.FormatDuration(activity.Duration), 8),
			ui.CategoryBadge(activity.Category))
		return nil
	},
}

func init() {
	addDateFlag(deleteCmd)
	rootCmd.AddCommand(deleteCmd)
}
