// ABOUTME: Pure aggregation over a day's activities: totals, remaining minutes, progress.
// ABOUTME: Remaining may go negative; callers treat <= 0 as "day complete".
package analytics

import (
	"github.com/harperreed/timetrack/internal/models"
)

// TotalMinutes sums the durations of all activities.
func TotalMinutes(activities []models.Activity) int {
	total := 0
	for _, a := range activities {
		total += a.Duration
	}
	return total
}

// RemainingMinutes returns the minutes left in the day.
func RemainingMinutes(activities []models.Activity) int {
	return models.MinutesPerDay - TotalMinutes(activities)
}

// IsComplete reports whether the day has no minutes left.
func IsComplete(activities []models.Activity) bool {
	return RemainingMinutes(activities) <= 0
}

// CanAnalyse reports whether there is anything to analyse.
func CanAnalyse(activities []models.Activity) bool {
	return TotalMinutes(activities) > 0
}

// ProgressPercent returns the share of the day that has been logged.
func ProgressPercent(activities []models.Activity) float64 {
	return float64(TotalMinutes(activities)) / float64(models.MinutesPerDay) * 100
}
