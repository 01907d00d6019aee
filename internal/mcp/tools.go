// ABOUTME: MCP tool implementations for the activity log.
// ABOUTME: Provides add, list, update, delete, analyse, and category listing.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/timetrack/internal/analytics"
	"github.com/harperreed/timetrack/internal/models"
	"github.com/harperreed/timetrack/internal/tracker"
	"github.com/harperreed/timetrack/internal/ui"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// add_activity
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_activity",
		Description: "Log a time block (name, category, minutes) on a day; rejected if it exceeds the day's remaining minutes",
	}, s.handleAddActivity)

	// list_activities
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_activities",
		Description: "List a day's activities with total and remaining minutes",
	}, s.handleListActivities)

	// update_activity
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_activity",
		Description: "Replace an activity by ID or ID prefix; omitted fields keep their current values",
	}, s.handleUpdateActivity)

	// delete_activity
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_activity",
		Description: "Delete an activity by ID or ID prefix",
	}, s.handleDeleteActivity)

	// analyse_day
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "analyse_day",
		Description: "Category breakdown, bar chart and timeline data for a day",
	}, s.handleAnalyseDay)

	// list_categories
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_categories",
		Description: "List the valid activity categories with labels and colors",
	}, s.handleListCategories)
}

// Tool input/output types

type addActivityInput struct {
	Name     string `json:"name" jsonschema:"What the time was spent on"`
	Category string `json:"category" jsonschema:"One of work, sleep, study, exercise, entertainment, other"`
	Minutes  int    `json:"minutes" jsonschema:"Duration in minutes, at least 1"`
	Date     string `json:"date,omitempty" jsonschema:"Day as yyyy-MM-dd, defaults to today"`
}

type activityOutput struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Category         string `json:"category"`
	Minutes          int    `json:"minutes"`
	Date             string `json:"date"`
	RemainingMinutes int    `json:"remaining_minutes"`
	Message          string `json:"message"`
}

type dayInput struct {
	Date string `json:"date,omitempty" jsonschema:"Day as yyyy-MM-dd, defaults to today"`
}

type dayOutput struct {
	Date             string            `json:"date"`
	Activities       []models.Activity `json:"activities"`
	TotalMinutes     int               `json:"total_minutes"`
	RemainingMinutes int               `json:"remaining_minutes"`
	Complete         bool              `json:"complete"`
}

type updateActivityInput struct {
	ID       string `json:"id" jsonschema:"Activity ID or unique prefix"`
	Name     string `json:"name,omitempty" jsonschema:"New name"`
	Category string `json:"category,omitempty" jsonschema:"New category"`
	Minutes  int    `json:"minutes,omitempty" jsonschema:"New duration in minutes"`
	Date     string `json:"date,omitempty" jsonschema:"Day as yyyy-MM-dd, defaults to today"`
}

type deleteActivityInput struct {
	ID   string `json:"id" jsonschema:"Activity ID or unique prefix"`
	Date string `json:"date,omitempty" jsonschema:"Day as yyyy-MM-dd, defaults to today"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type listCategoriesInput struct{}

type categoryInfo struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
}

type categoriesOutput struct {
	Categories []categoryInfo `json:"categories"`
}

// Tool handlers

func (s *Server) handleAddActivity(ctx context.Context, req *mcp.CallToolRequest, input addActivityInput) (*mcp.CallToolResult, activityOutput, error) {
	session, err := s.currentSession(ctx)
	if err != nil {
		return nil, activityOutput{}, err
	}
	date, err := s.dateOrToday(input.Date)
	if err != nil {
		return nil, activityOutput{}, err
	}

	in := *models.NewActivityInput(input.Name, models.Category(input.Category), input.Minutes)
	id, day, err := s.tracker.AddChecked(ctx, session, date, in)
	if err != nil {
		return nil, activityOutput{}, describeFormError(err, day)
	}

	return nil, activityOutput{
		ID:               id,
		Name:             in.Name,
		Category:         string(in.Category),
		Minutes:          in.Duration,
		Date:             string(date),
		RemainingMinutes: day.RemainingMinutes,
		Message: fmt.Sprintf("Added %s (%s, %s) on %s. %s remaining.",
			in.Name, in.Category.Label(), analytics.FormatDuration(in.Duration), date, analytics.FormatClock(max(day.RemainingMinutes, 0))),
	}, nil
}

func (s *Server) handleListActivities(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, dayOutput, error) {
	day, err := s.fetchDay(ctx, input.Date)
	if err != nil {
		return nil, dayOutput{}, err
	}
	return nil, toDayOutput(day), nil
}

func (s *Server) handleUpdateActivity(ctx context.Context, req *mcp.CallToolRequest, input updateActivityInput) (*mcp.CallToolResult, activityOutput, error) {
	session, err := s.currentSession(ctx)
	if err != nil {
		return nil, activityOutput{}, err
	}
	date, err := s.dateOrToday(input.Date)
	if err != nil {
		return nil, activityOutput{}, err
	}

	day, err := s.tracker.Day(ctx, session, date)
	if err != nil {
		return nil, activityOutput{}, err
	}
	current, err := tracker.Resolve(day.Activities, input.ID)
	if err != nil {
		return nil, activityOutput{}, err
	}

	in := current.Input()
	if input.Name != "" {
		in.WithName(input.Name)
	}
	if input.Category != "" {
		in.WithCategory(models.Category(input.Category))
	}
	if input.Minutes != 0 {
		in.WithDuration(input.Minutes)
	}

	day, err = s.tracker.UpdateChecked(ctx, session, date, current.ID, in)
	if err != nil {
		return nil, activityOutput{}, describeFormError(err, day)
	}

	return nil, activityOutput{
		ID:               current.ID,
		Name:             in.Name,
		Category:         string(in.Category),
		Minutes:          in.Duration,
		Date:             string(date),
		RemainingMinutes: day.RemainingMinutes,
		Message:          fmt.Sprintf("Updated %s: %s (%s, %s)", current.ID, in.Name, in.Category.Label(), analytics.FormatDuration(in.Duration)),
	}, nil
}

func (s *Server) handleDeleteActivity(ctx context.Context, req *mcp.CallToolRequest, input deleteActivityInput) (*mcp.CallToolResult, simpleOutput, error) {
	session, err := s.currentSession(ctx)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	date, err := s.dateOrToday(input.Date)
	if err != nil {
		return nil, simpleOutput{}, err
	}

	activities, err := s.tracker.List(ctx, session, date)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	target, err := tracker.Resolve(activities, input.ID)
	if errors.Is(err, tracker.ErrNotFound) {
		// Deleting something that is already gone is not a failure.
		return nil, simpleOutput{Message: fmt.Sprintf("No activity %s on %s; nothing deleted.", input.ID, date)}, nil
	}
	if err != nil {
		return nil, simpleOutput{}, err
	}

	if err := s.tracker.Delete(ctx, session, date, target.ID); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted %s (%s) from %s", target.Name, target.ID, date),
	}, nil
}

func (s *Server) handleAnalyseDay(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, analytics.Summary, error) {
	day, err := s.fetchDay(ctx, input.Date)
	if err != nil {
		return nil, analytics.Summary{}, err
	}
	return nil, analytics.Summarize(day.Date, day.Activities), nil
}

func (s *Server) handleListCategories(ctx context.Context, req *mcp.CallToolRequest, input listCategoriesInput) (*mcp.CallToolResult, categoriesOutput, error) {
	out := categoriesOutput{Categories: make([]categoryInfo, 0, len(models.AllCategories))}
	for _, c := range models.AllCategories {
		out.Categories = append(out.Categories, categoryInfo{
			Value: string(c),
			Label: c.Label(),
			Color: string(ui.CategoryColor(c)),
		})
	}
	return nil, out, nil
}

func (s *Server) fetchDay(ctx context.Context, rawDate string) (*tracker.DayLog, error) {
	session, err := s.currentSession(ctx)
	if err != nil {
		return nil, err
	}
	date, err := s.dateOrToday(rawDate)
	if err != nil {
		return nil, err
	}
	return s.tracker.Day(ctx, session, date)
}

func toDayOutput(day *tracker.DayLog) dayOutput {
	return dayOutput{
		Date:             string(day.Date),
		Activities:       day.Activities,
		TotalMinutes:     day.TotalMinutes,
		RemainingMinutes: day.RemainingMinutes,
		Complete:         day.Complete(),
	}
}

// describeFormError adds the day's remaining minutes to cap violations.
func describeFormError(err error, day *tracker.DayLog) error {
	if day != nil && (errors.Is(err, tracker.ErrExceedsRemaining) || errors.Is(err, tracker.ErrDayComplete)) {
		return fmt.Errorf("%w (%s remaining on %s)", err, analytics.FormatClock(max(day.RemainingMinutes, 0)), day.Date)
	}
	return err
}
