// ABOUTME: Day summary combining totals and chart data for the analytics view.
// ABOUTME: Also holds the duration formatting helpers shared by CLI and MCP output.
package analytics

import (
	"fmt"
	"math"

	"github.com/harperreed/timetrack/internal/models"
)

// Summary is everything the analytics dashboard shows for one day.
type Summary struct {
	Date             models.Date     `json:"date"`
	TotalMinutes     int             `json:"total_minutes"`
	TotalHours       float64         `json:"total_hours"`
	RemainingMinutes int             `json:"remaining_minutes"`
	ProgressPercent  float64         `json:"progress_percent"`
	Complete         bool            `json:"complete"`
	ActivityCount    int             `json:"activity_count"`
	CategoryCount    int             `json:"category_count"`
	Categories       []CategoryTotal `json:"categories"`
	Bars             []Bar           `json:"bars"`
	Timeline         []TimelineEntry `json:"timeline"`
}

// Summarize builds the dashboard summary for a day.
func Summarize(date models.Date, activities []models.Activity) Summary {
	total := TotalMinutes(activities)
	categories := ByCategory(activities)
	return Summary{
		Date:             date,
		TotalMinutes:     total,
		TotalHours:       Hours(total),
		RemainingMinutes: models.MinutesPerDay - total,
		ProgressPercent:  ProgressPercent(activities),
		Complete:         total >= models.MinutesPerDay,
		ActivityCount:    len(activities),
		CategoryCount:    len(categories),
		Categories:       categories,
		Bars:             Bars(activities),
		Timeline:         Timeline(activities),
	}
}

// Hours converts minutes to hours rounded to one decimal.
func Hours(minutes int) float64 {
	return math.Round(float64(minutes)/60*10) / 10
}

// FormatDuration renders minutes compactly: "45m", "2h", "2h 5m".
func FormatDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// FormatClock renders minutes with both parts: "0h 45m", "24h 0m".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// FormatHours renders minutes as hours with one decimal: "17.0h".
func FormatHours(minutes int) string {
	return fmt.Sprintf("%.1fh", float64(minutes)/60)
}
