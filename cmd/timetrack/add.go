// ABOUTME: CLI command for logging an activity.
// ABOUTME: Checks the day's remaining minutes before writing, then shows progress.
package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/timetrack/internal/analytics"
	"github.com/harperreed/timetrack/internal/models"
	"github.com/harperreed/timetrack/internal/tracker"
	"github.com/harperreed/timetrack/internal/ui"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:     "add <name> <category> <minutes>",
	Aliases: []string{"a"},
	Short:   "Log an activity",
	Long: `Log an activity for today, or for --date.

The duration is in minutes and may not exceed the minutes left in the day.
Once all 1440 minutes are logged the day is complete and nothing more can be
added.

CATEGORIES:

  work, sleep, study, exercise, entertainment, other

EXAMPLES:

  timetrack add "Sleep" sleep 480
  timetrack add "Gym" exercise 60
  timetrack add "Reading" study 45 --date 2025-01-31`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := selectedDate()
		if err != nil {
			return err
		}
		in, err := parseActivityArgs(args[0], args[1], args[2])
		if err != nil {
			return err
		}

		session, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		id, day, err := activities.AddChecked(cmd.Context(), session, date, *in)
		if err != nil {
			return formFailure("add activity", err, day, tracker.NewForm)
		}

		color.Green("✓ Added %s", in.Name)
		fmt.Printf("  %s %s %s\n\n",
			color.New(color.Faint).Sprint(ui.ShortID(id)),
			analytics.FormatDuration(in.Duration),
			ui.CategoryBadge(in.Category))
		fmt.Println(ui.ProgressCard(day.Date, day.Activities))
		return nil
	},
}

func init() {
	addDateFlag(addCmd)
	rootCmd.AddCommand(addCmd)
}

func parseActivityArgs(name, category, minutes string) (*models.ActivityInput, error) {
	c, err := parseCategory(category)
	if err != nil {
		return nil, err
	}
	m, err := parseMinutes(minutes)
	if err != nil {
		return nil, err
	}
	in := models.NewActivityInput(name, c, m)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}

func parseCategory(s string) (models.Category, error) {
	c := strings.ToLower(strings.TrimSpace(s))
	if !models.IsValidCategory(c) {
		names := make([]string, 0, len(models.AllCategories))
		for _, known := range models.AllCategories {
			names = append(names, string(known))
		}
		return "", fmt.Errorf("unknown category: %s\nValid categories: %s", s, strings.Join(names, ", "))
	}
	return models.Category(c), nil
}

func parseMinutes(s string) (int, error) {
	m, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid minutes: %s", s)
	}
	if m < 1 {
		return 0, models.ErrInvalidDuration
	}
	return m, nil
}

// formFailure passes form and lookup errors through with context and turns
// anything else into a generic store failure.
func formFailure(action string, err error, day *tracker.DayLog, form func(*tracker.DayLog) *tracker.Form) error {
	switch {
	case errors.Is(err, tracker.ErrDayComplete):
		return fmt.Errorf("%w. Pick another day with --date", err)
	case errors.Is(err, tracker.ErrExceedsRemaining):
		return fmt.Errorf("%w: at most %s can be logged on %s",
			tracker.ErrExceedsRemaining, analytics.FormatDuration(max(form(day).MaxDuration(), 0)), day.Date)
	case errors.Is(err, models.ErrEmptyName),
		errors.Is(err, models.ErrInvalidCategory),
		errors.Is(err, models.ErrInvalidDuration),
		errors.Is(err, tracker.ErrNotFound),
		errors.Is(err, tracker.ErrAmbiguous):
		return err
	}
	return storeFailure(action, err)
}
