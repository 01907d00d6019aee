// ABOUTME: Terminal rendering for the day view and analytics dashboard.
// ABOUTME: Uses lipgloss for layout and go-colorful to turn category HSL colors into hex.
package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/timetrack/internal/analytics"
	"github.com/harperreed/timetrack/internal/models"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	barWidth   = 30
	shortIDLen = 8
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// CategoryColor returns the category's display color as a lipgloss color.
func CategoryColor(c models.Category) lipgloss.Color {
	hsl := c.Color()
	return lipgloss.Color(colorful.Hsl(hsl.H, hsl.S, hsl.L).Hex())
}

// CategoryBadge renders the category label in its color.
func CategoryBadge(c models.Category) string {
	return lipgloss.NewStyle().Foreground(CategoryColor(c)).Render(c.Label())
}

// ShortID trims an activity id for display.
func ShortID(id string) string {
	if len(id) > shortIDLen {
		return strings.ToLower(id[:shortIDLen])
	}
	return strings.ToLower(id)
}

// ProgressCard shows how much of the day is logged.
func ProgressCard(date models.Date, activities []models.Activity) string {
	total := analytics.TotalMinutes(activities)
	remaining := analytics.RemainingMinutes(activities)
	pct := analytics.ProgressPercent(activities)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(date.Display()))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s logged  %s\n",
		analytics.FormatClock(total),
		mutedStyle.Render(fmt.Sprintf("%s remaining", analytics.FormatClock(max(remaining, 0)))))
	sb.WriteString(bar(pct/100, barWidth, lipgloss.Color("#22c55e")))
	fmt.Fprintf(&sb, " %.0f%%", math.Min(pct, 100))
	if analytics.IsComplete(activities) {
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22c55e")).Render("Day complete! All 24 hours logged."))
	}
	return cardStyle.Render(sb.String())
}

// ActivityList renders the day's activities, one per line.
func ActivityList(activities []models.Activity) string {
	if len(activities) == 0 {
		return mutedStyle.Render("No activities logged yet.")
	}

	nameWidth := 0
	for _, a := range activities {
		nameWidth = max(nameWidth, lipgloss.Width(a.Name))
	}

	lines := make([]string, 0, len(activities))
	for _, a := range activities {
		name := a.Name + strings.Repeat(" ", nameWidth-lipgloss.Width(a.Name))
		lines = append(lines, fmt.Sprintf("%s  %s  %-8s %s",
			mutedStyle.Render(ShortID(a.ID)),
			name,
			analytics.FormatDuration(a.Duration),
			CategoryBadge(a.Category)))
	}
	return strings.Join(lines, "\n")
}

// NoData is the analytics view for a day with nothing logged.
func NoData(date models.Date) string {
	return cardStyle.Render(titleStyle.Render("No data yet") + "\n" +
		mutedStyle.Render(fmt.Sprintf("Log activities for %s to see analytics.", date.Display())))
}

// Dashboard renders the analytics view for a day.
func Dashboard(s analytics.Summary) string {
	if s.TotalMinutes <= 0 {
		return NoData(s.Date)
	}

	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("Total Time", analytics.FormatHours(s.TotalMinutes)),
		statCard("Activities", fmt.Sprintf("%d", s.ActivityCount)),
		statCard("Categories", fmt.Sprintf("%d", s.CategoryCount)),
	)

	sections := []string{
		titleStyle.Render("Analytics for " + s.Date.Display()),
		stats,
		titleStyle.Render("Time by Category"),
		categoryChart(s),
		titleStyle.Render("Activity Duration"),
		barChart(s.Bars),
		titleStyle.Render("Activity Timeline"),
		timeline(s.Timeline),
	}
	return strings.Join(sections, "\n\n")
}

func statCard(label, value string) string {
	return cardStyle.Width(16).Render(mutedStyle.Render(label) + "\n" + titleStyle.Render(value))
}

func categoryChart(s analytics.Summary) string {
	lines := make([]string, 0, len(s.Categories))
	for _, ct := range s.Categories {
		share := float64(ct.Minutes) / float64(s.TotalMinutes)
		lines = append(lines, fmt.Sprintf("%-13s %s %s (%.0f%%)",
			ct.Label,
			bar(share, barWidth, CategoryColor(ct.Category)),
			analytics.FormatHours(ct.Minutes),
			share*100))
	}
	return strings.Join(lines, "\n")
}

func barChart(bars []analytics.Bar) string {
	longest := 0
	for _, b := range bars {
		longest = max(longest, b.Minutes)
	}

	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		name := b.Name + strings.Repeat(" ", max(18-lipgloss.Width(b.Name), 0))
		lines = append(lines, fmt.Sprintf("%s %s %s",
			name,
			bar(float64(b.Minutes)/float64(longest), barWidth, CategoryColor(b.Category)),
			analytics.FormatDuration(b.Minutes)))
	}
	return strings.Join(lines, "\n")
}

func timeline(entries []analytics.TimelineEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s %s  %s %s",
			bar(e.WidthPercent/100, barWidth, CategoryColor(e.Category)),
			e.Name,
			mutedStyle.Render(analytics.FormatDuration(e.Minutes)),
			CategoryBadge(e.Category)))
	}
	return strings.Join(lines, "\n")
}

// bar draws a horizontal bar filled to fraction of width.
func bar(fraction float64, width int, color lipgloss.Color) string {
	fraction = math.Max(0, math.Min(fraction, 1))
	filled := int(math.Round(fraction * float64(width)))
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
}
