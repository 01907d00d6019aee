// ABOUTME: CLI command for listing a day's activities.
// ABOUTME: Shows the progress card followed by one line per activity.
package main

import (
	"fmt"
	"strings"

	"github.com/harperreed/timetrack/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List a day's activities",
	Long: `List the activities logged for today, or for --date.

OUTPUT FORMAT:

  A progress card with the hours logged and remaining, then one line per
  activity: ID  NAME  DURATION  CATEGORY

  The ID is an 8-character prefix you can use with edit and delete.

EXAMPLES:

  timetrack list
  timetrack list --date 2025-01-31
  timetrack ls -d 2025-01-31`,
	Args: cobra.NoArgs,
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

		fmt.Println(ui.ProgressCard(day.Date, day.Activities))
		fmt.Println()
		fmt.Println(ui.ActivityList(day.Activities))
		return nil
	},
}

func init() {
	addDateFlag(listCmd)
	rootCmd.AddCommand(listCmd)
}

// truncate shortens s to maxLen runes, ending in "..." when cut.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:max(maxLen-3, 0)]) + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
