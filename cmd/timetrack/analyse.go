// ABOUTME: CLI command for the analytics view of a day.
// ABOUTME: Renders stat cards, category and duration charts, and a timeline.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/harperreed/timetrack/internal/analytics"
	"github.com/harperreed/timetrack/internal/ui"
	"github.com/spf13/cobra"
)

var analyseJSON bool

var analyseCmd = &cobra.Command{
	Use:     "analyse",
	Aliases: []string{"analyze", "stats"},
	Short:   "Analyse a day",
	Long: `Show analytics for today, or for --date.

SECTIONS:

  Stat cards     Total hours, number of activities, number of categories
  By category    Share of logged time per category
  Duration       One bar per activity, in hours
  Timeline       Activities in logged order with their share of the day

A day with nothing logged shows "No data yet".

EXAMPLES:

  timetrack analyse
  timetrack analyse --date 2025-01-31
  timetrack analyse --json`,
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

		list, err := activities.List(cmd.Context(), session, date)
		if err != nil {
			return storeFailure("load activities", err)
		}

		summary := analytics.Summarize(date, list)
		if analyseJSON {
			out, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		if !analytics.CanAnalyse(list) {
			fmt.Println(ui.NoData(date))
			return nil
		}
		fmt.Println(ui.Dashboard(summary))
		return nil
	},
}

func init() {
	analyseCmd.Flags().BoolVar(&analyseJSON, "json", false, "print the summary as JSON")
	addDateFlag(analyseCmd)
	rootCmd.AddCommand(analyseCmd)
}
