// ABOUTME: Chart data derived from a day's activities: category totals, bars, timeline.
// ABOUTME: Used for display only; nothing here is persisted.
package analytics

import (
	"github.com/harperreed/timetrack/internal/models"
)

const (
	barNameLimit     = 15
	minTimelineWidth = 10.0
)

// CategoryTotal is the summed duration for one category.
type CategoryTotal struct {
	Category models.Category `json:"category"`
	Label    string          `json:"label"`
	Minutes  int             `json:"minutes"`
	Hours    float64         `json:"hours"`
}

// Bar is one activity in the duration bar chart.
type Bar struct {
	Name     string          `json:"name"`
	Minutes  int             `json:"minutes"`
	Label    string          `json:"label"`
	Category models.Category `json:"category"`
}

// TimelineEntry is one activity in the timeline with its relative width.
type TimelineEntry struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Minutes      int             `json:"minutes"`
	Label        string          `json:"label"`
	Category     models.Category `json:"category"`
	WidthPercent float64         `json:"width_percent"`
}

// ByCategory groups durations by category in display order, dropping empty groups.
// Activities with unknown categories belong to no group.
func ByCategory(activities []models.Activity) []CategoryTotal {
	sums := make(map[models.Category]int)
	for _, a := range activities {
		sums[a.Category] += a.Duration
	}

	var totals []CategoryTotal
	for _, c := range models.AllCategories {
		minutes := sums[c]
		if minutes <= 0 {
			continue
		}
		totals = append(totals, CategoryTotal{
			Category: c,
			Label:    c.Label(),
			Minutes:  minutes,
			Hours:    Hours(minutes),
		})
	}
	return totals
}

// CategoryMinutes returns the category aggregation as a map.
func CategoryMinutes(activities []models.Activity) map[models.Category]int {
	out := make(map[models.Category]int)
	for _, ct := range ByCategory(activities) {
		out[ct.Category] = ct.Minutes
	}
	return out
}

// Bars returns one bar per activity, with long names truncated.
func Bars(activities []models.Activity) []Bar {
	bars := make([]Bar, 0, len(activities))
	for _, a := range activities {
		bars = append(bars, Bar{
			Name:     truncateName(a.Name, barNameLimit),
			Minutes:  a.Duration,
			Label:    a.Category.Label(),
			Category: a.Category.Normalize(),
		})
	}
	return bars
}

// Timeline returns the activities with their share of the logged total.
// Widths never drop below 10% so short activities stay visible.
func Timeline(activities []models.Activity) []TimelineEntry {
	total := TotalMinutes(activities)
	entries := make([]TimelineEntry, 0, len(activities))
	for _, a := range activities {
		width := minTimelineWidth
		if total > 0 {
			width = max(float64(a.Duration)/float64(total)*100, minTimelineWidth)
		}
		entries = append(entries, TimelineEntry{
			ID:           a.ID,
			Name:         a.Name,
			Minutes:      a.Duration,
			Label:        a.Category.Label(),
			Category:     a.Category.Normalize(),
			WidthPercent: width,
		})
	}
	return entries
}

func truncateName(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
