// ABOUTME: Export and import functionality for timetrack data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats; imports JSON.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/timetrack/internal/analytics"
	"github.com/harperreed/timetrack/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for one user's activities.
type ExportData struct {
	Version    string      `json:"version" yaml:"version"`
	ExportedAt time.Time   `json:"exported_at" yaml:"exported_at"`
	Tool       string      `json:"tool" yaml:"tool"`
	UserID     string      `json:"user_id" yaml:"user_id"`
	Days       []DayExport `json:"days" yaml:"days"`
}

// DayExport is one bucket in an export.
type DayExport struct {
	Date         models.Date       `json:"date" yaml:"date"`
	TotalMinutes int               `json:"total_minutes" yaml:"total_minutes"`
	Activities   []models.Activity `json:"activities" yaml:"activities"`
}

// GetAllData retrieves all of a user's buckets for export.
func GetAllData(ctx context.Context, repo Repository, userID string) (*ExportData, error) {
	dates, err := repo.ListDates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list dates: %w", err)
	}

	days := make([]DayExport, 0, len(dates))
	for _, date := range dates {
		activities, err := repo.ListByDate(ctx, userID, date)
		if err != nil {
			return nil, fmt.Errorf("list activities for %s: %w", date, err)
		}
		days = append(days, DayExport{
			Date:         date,
			TotalMinutes: analytics.TotalMinutes(activities),
			Activities:   activities,
		})
	}

	return &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "timetrack",
		UserID:     userID,
		Days:       days,
	}, nil
}

// ImportData writes an export into repo for userID, keeping activity IDs.
// Records that fail validation are skipped and counted.
func ImportData(ctx context.Context, repo Repository, userID string, data *ExportData) (imported, skipped int, err error) {
	for _, day := range data.Days {
		if _, err := models.ParseDate(string(day.Date)); err != nil {
			skipped += len(day.Activities)
			continue
		}
		for _, a := range day.Activities {
			if a.Input().Validate() != nil || a.ID == "" {
				skipped++
				continue
			}
			if err := repo.Update(ctx, userID, day.Date, a.ID, a.Input()); err != nil {
				return imported, skipped, fmt.Errorf("import activity %s: %w", a.ID, err)
			}
			imported++
		}
	}
	return imported, skipped, nil
}

// ParseExport decodes a JSON export.
func ParseExport(raw []byte) (*ExportData, error) {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse export: %w", err)
	}
	return &data, nil
}

// ExportJSON exports all data as JSON.
func ExportJSON(ctx context.Context, repo Repository, userID string) ([]byte, error) {
	data, err := GetAllData(ctx, repo, userID)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML, grouping each day's minutes by category.
func ExportYAML(ctx context.Context, repo Repository, userID string) ([]byte, error) {
	data, err := GetAllData(ctx, repo, userID)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string    `yaml:"version"`
		ExportedAt string    `yaml:"exported_at"`
		Tool       string    `yaml:"tool"`
		Days       []yamlDay `yaml:"days"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Days:       make([]yamlDay, 0, len(data.Days)),
	}

	for _, day := range data.Days {
		yd := yamlDay{
			Date:       string(day.Date),
			Total:      analytics.FormatDuration(day.TotalMinutes),
			Categories: make(map[string]int),
		}
		for c, minutes := range analytics.CategoryMinutes(day.Activities) {
			yd.Categories[string(c)] = minutes
		}
		for _, a := range day.Activities {
			yd.Activities = append(yd.Activities, yamlActivity{
				ID:       a.ID,
				Name:     a.Name,
				Category: string(a.Category),
				Minutes:  a.Duration,
			})
		}
		yamlData.Days = append(yamlData.Days, yd)
	}

	return yaml.Marshal(yamlData)
}

type yamlDay struct {
	Date       string         `yaml:"date"`
	Total      string         `yaml:"total"`
	Categories map[string]int `yaml:"categories"`
	Activities []yamlActivity `yaml:"activities"`
}

type yamlActivity struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Minutes  int    `yaml:"minutes"`
}

// ExportMarkdown exports all data as a Markdown document, one section per day.
func ExportMarkdown(ctx context.Context, repo Repository, userID string) ([]byte, error) {
	data, err := GetAllData(ctx, repo, userID)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("# Time Log\n\n")
	fmt.Fprintf(&sb, "*Exported: %s*\n\n", data.ExportedAt.Format("2006-01-02 15:04"))

	if len(data.Days) == 0 {
		sb.WriteString("No activities logged.\n")
		return []byte(sb.String()), nil
	}

	for _, day := range data.Days {
		fmt.Fprintf(&sb, "## %s\n\n", day.Date.Display())
		fmt.Fprintf(&sb, "Logged %s of 24h (%s left)\n\n",
			analytics.FormatClock(day.TotalMinutes),
			analytics.FormatClock(max(models.MinutesPerDay-day.TotalMinutes, 0)))

		sb.WriteString("| Activity | Category | Duration |\n")
		sb.WriteString("|----------|----------|----------|\n")
		for _, a := range day.Activities {
			fmt.Fprintf(&sb, "| %s | %s | %s |\n",
				escapeMarkdownCell(a.Name), a.Category.Label(), analytics.FormatDuration(a.Duration))
		}
		sb.WriteString("\n")

		for _, ct := range analytics.ByCategory(day.Activities) {
			fmt.Fprintf(&sb, "- **%s**: %s\n", ct.Label, analytics.FormatDuration(ct.Minutes))
		}
		sb.WriteString("\n")
	}

	return []byte(sb.String()), nil
}

func escapeMarkdownCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
