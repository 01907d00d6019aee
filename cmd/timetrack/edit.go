// ABOUTME: CLI command for editing an activity.
// ABOUTME: Merges flag values over the stored record and rechecks the day's budget.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/timetrack/internal/analytics"
	"github.com/harperreed/timetrack/internal/models"
	"github.com/harperreed/timetrack/internal/tracker"
	"github.com/harperreed/timetrack/internal/ui"
	"github.com/spf13/cobra"
)

var (
	editName     string
	editCategory string
	editMinutes  int
)

var editCmd = &cobra.Command{
	Use:     "edit <id>",
	Aliases: []string{"e", "update"},
	Short:   "Edit an activity",
	Long: `Edit an activity by its ID or ID prefix.

Only the fields you pass change; the record is then saved as a whole. The new
duration may use the minutes left in the day plus the activity's current
duration.

EXAMPLES:

  timetrack edit 01hq3k2m --minutes 90
  timetrack edit 01hq3k2m --name "Deep work" --category work
  timetrack edit 01hq --date 2025-01-31 --category study`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("category") && !cmd.Flags().Changed("minutes") {
			return errors.New("nothing to change: pass --name, --category or --minutes")
		}
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
		current, err := tracker.Resolve(day.Activities, args[0])
		if err != nil {
			return err
		}

		in, err := mergeEdit(current, cmd.Flags().Changed("name"), cmd.Flags().Changed("category"), cmd.Flags().Changed("minutes"))
		if err != nil {
			return err
		}

		day, err = activities.UpdateChecked(cmd.Context(), session, date, current.ID, in)
		if err != nil {
			return formFailure("update activity", err, day, func(d *tracker.DayLog) *tracker.Form {
				return tracker.EditForm(d, current)
			})
		}

		color.Green("✓ Updated %s", in.Name)
		fmt.Printf("  %s %s %s\n\n",
			color.New(color.Faint).Sprint(ui.ShortID(current.ID)),
			analytics.FormatDuration(in.Duration),
			ui.CategoryBadge(in.Category))
		fmt.Println(ui.ProgressCard(day.Date, day.Activities))
		return nil
	},
}

func init() {
	editCmd.Flags().StringVarP(&editName, "name", "n", "", "new activity name")
	editCmd.Flags().StringVarP(&editCategory, "category", "c", "", "new category")
	editCmd.Flags().IntVarP(&editMinutes, "minutes", "m", 0, "new duration in minutes")
	addDateFlag(editCmd)
	rootCmd.AddCommand(editCmd)
}

// mergeEdit applies the changed edit flags to current.
func mergeEdit(current models.Activity, nameSet, categorySet, minutesSet bool) (models.ActivityInput, error) {
	in := current.Input()
	if nameSet {
		in.WithName(editName)
	}
	if categorySet {
		c, err := parseCategory(editCategory)
		if err != nil {
			return in, err
		}
		in.WithCategory(c)
	}
	if minutesSet {
		in.WithDuration(editMinutes)
	}
	return in, in.Validate()
}
