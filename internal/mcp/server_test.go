// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, session gating, and resource handlers.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/timetrack/internal/analytics"
	"github.com/harperreed/timetrack/internal/auth"
	"github.com/harperreed/timetrack/internal/models"
	"github.com/harperreed/timetrack/internal/storage"
	"github.com/harperreed/timetrack/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const testDate = models.Date("2025-01-31")

func signedIn(ctx context.Context) (*auth.Session, error) {
	return &auth.Session{
		User:      auth.User{UID: "user-1", Email: "ada@example.com"},
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func signedOut(ctx context.Context) (*auth.Session, error) {
	return nil, nil
}

// setupTestServer creates a server over an in-memory badger store, pinned to testDate.
func setupTestServer(t *testing.T, session SessionFunc) *Server {
	t.Helper()

	backend, err := storage.OpenBadger("")
	if err != nil {
		t.Fatalf("Failed to open badger: %v", err)
	}
	repo := storage.NewKVStore(backend)
	t.Cleanup(func() { _ = repo.Close() })

	server, err := NewServer(tracker.NewService(repo, nil), session)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	server.today = func() models.Date { return testDate }
	return server
}

func addActivity(t *testing.T, s *Server, name, category string, minutes int) activityOutput {
	t.Helper()
	_, out, err := s.handleAddActivity(context.Background(), &mcp.CallToolRequest{}, addActivityInput{
		Name: name, Category: category, Minutes: minutes,
	})
	if err != nil {
		t.Fatalf("add %s failed: %v", name, err)
	}
	return out
}

func TestNewServer(t *testing.T) {
	server := setupTestServer(t, signedIn)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.tracker == nil {
		t.Error("Expected non-nil tracker")
	}
}

func TestHandleAddActivity(t *testing.T) {
	server := setupTestServer(t, signedIn)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     addActivityInput
		wantErr   error
		errSubstr string
	}{
		{
			name:  "valid activity",
			input: addActivityInput{Name: "Sleep", Category: "sleep", Minutes: 480},
		},
		{
			name:  "explicit date",
			input: addActivityInput{Name: "Work", Category: "work", Minutes: 60, Date: "2025-01-30"},
		},
		{
			name:    "unknown category",
			input:   addActivityInput{Name: "Hobby", Category: "hobby", Minutes: 30},
			wantErr: models.ErrInvalidCategory,
		},
		{
			name:    "empty name",
			input:   addActivityInput{Name: "   ", Category: "work", Minutes: 30},
			wantErr: models.ErrEmptyName,
		},
		{
			name:      "bad date",
			input:     addActivityInput{Name: "Work", Category: "work", Minutes: 30, Date: "31/01/2025"},
			errSubstr: "date",
		},
		{
			name:      "exceeds remaining",
			input:     addActivityInput{Name: "Marathon", Category: "exercise", Minutes: 961},
			wantErr:   tracker.ErrExceedsRemaining,
			errSubstr: "16h 0m remaining",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleAddActivity(ctx, &mcp.CallToolRequest{}, tt.input)

			if tt.wantErr == nil && tt.errSubstr == "" {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if output.ID == "" {
					t.Error("Expected an ID")
				}
				return
			}
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.errSubstr != "" && !strings.Contains(err.Error(), tt.errSubstr) {
				t.Errorf("error %q should contain %q", err.Error(), tt.errSubstr)
			}
		})
	}
}

func TestHandleAddActivityFillsDay(t *testing.T) {
	server := setupTestServer(t, signedIn)
	addActivity(t, server, "Sleep", "sleep", 480)
	addActivity(t, server, "Work", "work", 480)
	addActivity(t, server, "Gym", "exercise", 60)

	out := addActivity(t, server, "Leisure", "entertainment", 420)
	if out.RemainingMinutes != 0 {
		t.Errorf("RemainingMinutes = %d, want 0", out.RemainingMinutes)
	}

	_, _, err := server.handleAddActivity(context.Background(), &mcp.CallToolRequest{}, addActivityInput{
		Name: "Nap", Category: "sleep", Minutes: 1,
	})
	if !errors.Is(err, tracker.ErrDayComplete) {
		t.Errorf("error = %v, want ErrDayComplete", err)
	}
}

func TestHandleListActivities(t *testing.T) {
	server := setupTestServer(t, signedIn)
	addActivity(t, server, "Sleep", "sleep", 480)
	addActivity(t, server, "Work", "work", 480)
	addActivity(t, server, "Gym", "exercise", 60)

	_, out, err := server.handleListActivities(context.Background(), &mcp.CallToolRequest{}, dayInput{})
	if err != nil {
		t.Fatalf("handleListActivities failed: %v", err)
	}
	if len(out.Activities) != 3 {
		t.Errorf("Expected 3 activities, got %d", len(out.Activities))
	}
	if out.TotalMinutes != 1020 || out.RemainingMinutes != 420 {
		t.Errorf("totals = %d/%d, want 1020/420", out.TotalMinutes, out.RemainingMinutes)
	}
	if out.Date != string(testDate) {
		t.Errorf("Date = %s, want %s", out.Date, testDate)
	}
}

func TestHandleListActivitiesEmpty(t *testing.T) {
	server := setupTestServer(t, signedIn)

	_, out, err := server.handleListActivities(context.Background(), &mcp.CallToolRequest{}, dayInput{Date: "2024-06-01"})
	if err != nil {
		t.Fatalf("handleListActivities failed: %v", err)
	}
	if out.Activities == nil || len(out.Activities) != 0 {
		t.Errorf("Expected empty (non-nil) list, got %#v", out.Activities)
	}
	if out.RemainingMinutes != models.MinutesPerDay {
		t.Errorf("RemainingMinutes = %d, want %d", out.RemainingMinutes, models.MinutesPerDay)
	}
}

func TestHandleUpdateActivity(t *testing.T) {
	server := setupTestServer(t, signedIn)
	ctx := context.Background()
	work := addActivity(t, server, "Work", "work", 480)

	_, out, err := server.handleUpdateActivity(ctx, &mcp.CallToolRequest{}, updateActivityInput{
		ID:      work.ID,
		Minutes: 300,
	})
	if err != nil {
		t.Fatalf("handleUpdateActivity failed: %v", err)
	}
	if out.Name != "Work" || out.Category != "work" || out.Minutes != 300 {
		t.Errorf("output = %+v, want Work/work/300", out)
	}
	if out.RemainingMinutes != 1140 {
		t.Errorf("RemainingMinutes = %d, want 1140", out.RemainingMinutes)
	}

	_, _, err = server.handleUpdateActivity(ctx, &mcp.CallToolRequest{}, updateActivityInput{ID: "nope", Minutes: 10})
	if !errors.Is(err, tracker.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestHandleUpdateActivityCap(t *testing.T) {
	server := setupTestServer(t, signedIn)
	addActivity(t, server, "Sleep", "sleep", 1000)
	work := addActivity(t, server, "Work", "work", 400)

	_, _, err := server.handleUpdateActivity(context.Background(), &mcp.CallToolRequest{}, updateActivityInput{
		ID: work.ID, Minutes: 441,
	})
	if !errors.Is(err, tracker.ErrExceedsRemaining) {
		t.Errorf("error = %v, want ErrExceedsRemaining", err)
	}

	_, out, err := server.handleUpdateActivity(context.Background(), &mcp.CallToolRequest{}, updateActivityInput{
		ID: work.ID, Minutes: 440,
	})
	if err != nil {
		t.Fatalf("update to exactly the limit failed: %v", err)
	}
	if out.RemainingMinutes != 0 {
		t.Errorf("RemainingMinutes = %d, want 0", out.RemainingMinutes)
	}
}

func TestHandleDeleteActivity(t *testing.T) {
	server := setupTestServer(t, signedIn)
	ctx := context.Background()
	gym := addActivity(t, server, "Gym", "exercise", 60)
	addActivity(t, server, "Work", "work", 60)

	_, out, err := server.handleDeleteActivity(ctx, &mcp.CallToolRequest{}, deleteActivityInput{ID: gym.ID})
	if err != nil {
		t.Fatalf("handleDeleteActivity failed: %v", err)
	}
	if !strings.Contains(out.Message, "Deleted Gym") {
		t.Errorf("Message = %q", out.Message)
	}

	_, day, _ := server.handleListActivities(ctx, &mcp.CallToolRequest{}, dayInput{})
	if len(day.Activities) != 1 {
		t.Errorf("Expected 1 activity left, got %d", len(day.Activities))
	}
}

func TestHandleDeleteActivityMissing(t *testing.T) {
	server := setupTestServer(t, signedIn)

	_, out, err := server.handleDeleteActivity(context.Background(), &mcp.CallToolRequest{}, deleteActivityInput{ID: "missing"})
	if err != nil {
		t.Fatalf("deleting a missing id should not fail: %v", err)
	}
	if !strings.Contains(out.Message, "nothing deleted") {
		t.Errorf("Message = %q", out.Message)
	}
}

func TestHandleAnalyseDay(t *testing.T) {
	server := setupTestServer(t, signedIn)
	addActivity(t, server, "Sleep", "sleep", 480)
	addActivity(t, server, "Work", "work", 480)
	addActivity(t, server, "Gym", "exercise", 60)

	_, summary, err := server.handleAnalyseDay(context.Background(), &mcp.CallToolRequest{}, dayInput{})
	if err != nil {
		t.Fatalf("handleAnalyseDay failed: %v", err)
	}
	if summary.TotalMinutes != 1020 || summary.RemainingMinutes != 420 {
		t.Errorf("totals = %d/%d, want 1020/420", summary.TotalMinutes, summary.RemainingMinutes)
	}

	got := map[models.Category]int{}
	for _, ct := range summary.Categories {
		got[ct.Category] = ct.Minutes
	}
	want := map[models.Category]int{models.CategorySleep: 480, models.CategoryWork: 480, models.CategoryExercise: 60}
	if len(got) != len(want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
	for c, m := range want {
		if got[c] != m {
			t.Errorf("%s = %d, want %d", c, got[c], m)
		}
	}
}

func TestHandleListCategories(t *testing.T) {
	server := setupTestServer(t, signedIn)

	_, out, err := server.handleListCategories(context.Background(), &mcp.CallToolRequest{}, listCategoriesInput{})
	if err != nil {
		t.Fatalf("handleListCategories failed: %v", err)
	}
	if len(out.Categories) != len(models.AllCategories) {
		t.Fatalf("Expected %d categories, got %d", len(models.AllCategories), len(out.Categories))
	}
	if out.Categories[0].Value != "work" || out.Categories[0].Label != "Work" {
		t.Errorf("first category = %+v", out.Categories[0])
	}
	if !strings.HasPrefix(out.Categories[0].Color, "#") {
		t.Errorf("Color = %q, want hex", out.Categories[0].Color)
	}
}

func TestToolsRequireSession(t *testing.T) {
	server := setupTestServer(t, signedOut)
	ctx := context.Background()
	req := &mcp.CallToolRequest{}

	_, _, err := server.handleAddActivity(ctx, req, addActivityInput{Name: "Work", Category: "work", Minutes: 10})
	if !errors.Is(err, tracker.ErrNotSignedIn) {
		t.Errorf("add: error = %v, want ErrNotSignedIn", err)
	}
	_, _, err = server.handleListActivities(ctx, req, dayInput{})
	if !errors.Is(err, tracker.ErrNotSignedIn) {
		t.Errorf("list: error = %v, want ErrNotSignedIn", err)
	}
	_, _, err = server.handleDeleteActivity(ctx, req, deleteActivityInput{ID: "x"})
	if !errors.Is(err, tracker.ErrNotSignedIn) {
		t.Errorf("delete: error = %v, want ErrNotSignedIn", err)
	}
	if _, err := server.handleTodayResource(ctx, &mcp.ReadResourceRequest{}); !errors.Is(err, tracker.ErrNotSignedIn) {
		t.Errorf("today resource: error = %v, want ErrNotSignedIn", err)
	}
}

func TestHandleTodayResource(t *testing.T) {
	server := setupTestServer(t, signedIn)
	addActivity(t, server, "Sleep", "sleep", 480)

	result, err := server.handleTodayResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleTodayResource failed: %v", err)
	}
	if len(result.Contents) != 1 || result.Contents[0].URI != todayURI {
		t.Fatalf("unexpected contents: %+v", result.Contents)
	}

	var day dayOutput
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &day); err != nil {
		t.Fatalf("Failed to parse resource JSON: %v", err)
	}
	if day.Date != string(testDate) || day.TotalMinutes != 480 || len(day.Activities) != 1 {
		t.Errorf("today = %+v", day)
	}
}

func TestHandleSummaryResource(t *testing.T) {
	server := setupTestServer(t, signedIn)
	addActivity(t, server, "Sleep", "sleep", 480)
	addActivity(t, server, "Work", "work", 240)

	result, err := server.handleSummaryResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleSummaryResource failed: %v", err)
	}

	var summary analytics.Summary
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &summary); err != nil {
		t.Fatalf("Failed to parse resource JSON: %v", err)
	}
	if summary.TotalMinutes != 720 || summary.CategoryCount != 2 || len(summary.Timeline) != 2 {
		t.Errorf("summary = %+v", summary)
	}
}
