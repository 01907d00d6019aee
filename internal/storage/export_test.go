// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON, YAML, and Markdown export formats and JSON re-import.
package storage

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/harperreed/timetrack/internal/models"
	"gopkg.in/yaml.v3"
)

func seedExportData(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()
	seed := []struct {
		date models.Date
		in   models.ActivityInput
	}{
		{"2025-01-31", models.ActivityInput{Name: "Sleep", Category: models.CategorySleep, Duration: 480}},
		{"2025-01-31", models.ActivityInput{Name: "Work | focus", Category: models.CategoryWork, Duration: 500}},
		{"2025-02-01", models.ActivityInput{Name: "Gym", Category: models.CategoryExercise, Duration: 45}},
	}
	for _, s := range seed {
		if _, err := repo.Create(ctx, testUser, s.date, s.in); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
}

func TestExportJSON(t *testing.T) {
	repo := NewKVStore(newMapBackend())
	seedExportData(t, repo)

	data, err := ExportJSON(context.Background(), repo, testUser)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if export.Version != "1.0" {
		t.Errorf("Version = %s, want 1.0", export.Version)
	}
	if export.Tool != "timetrack" {
		t.Errorf("Tool = %s, want timetrack", export.Tool)
	}
	if len(export.Days) != 2 {
		t.Fatalf("Days = %d, want 2", len(export.Days))
	}
	if export.Days[0].Date != "2025-01-31" || export.Days[0].TotalMinutes != 980 {
		t.Errorf("first day = %s/%d, want 2025-01-31/980", export.Days[0].Date, export.Days[0].TotalMinutes)
	}
	if len(export.Days[1].Activities) != 1 || export.Days[1].Activities[0].Name != "Gym" {
		t.Errorf("second day activities = %+v", export.Days[1].Activities)
	}
}

func TestExportYAML(t *testing.T) {
	repo := NewKVStore(newMapBackend())
	seedExportData(t, repo)

	data, err := ExportYAML(context.Background(), repo, testUser)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if parsed["tool"] != "timetrack" {
		t.Errorf("tool = %v, want timetrack", parsed["tool"])
	}

	content := string(data)
	for _, want := range []string{"total: 16h 20m", "sleep: 480", "work: 500", "exercise: 45"} {
		if !strings.Contains(content, want) {
			t.Errorf("YAML missing %q:\n%s", want, content)
		}
	}
}

func TestExportMarkdown(t *testing.T) {
	repo := NewKVStore(newMapBackend())
	seedExportData(t, repo)

	data, err := ExportMarkdown(context.Background(), repo, testUser)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}

	content := string(data)
	for _, want := range []string{
		"# Time Log",
		"## Friday, January 31, 2025",
		"| Work \\| focus | Work | 8h 20m |",
		"- **Sleep**: 8h",
		"## Saturday, February 1, 2025",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("Markdown missing %q:\n%s", want, content)
		}
	}
}

func TestExportMarkdownEmpty(t *testing.T) {
	repo := NewKVStore(newMapBackend())

	data, err := ExportMarkdown(context.Background(), repo, testUser)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	if !strings.Contains(string(data), "No activities logged.") {
		t.Errorf("empty export should say so, got:\n%s", data)
	}
}

func TestImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := NewKVStore(newMapBackend())
	seedExportData(t, src)

	raw, err := ExportJSON(ctx, src, testUser)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	data, err := ParseExport(raw)
	if err != nil {
		t.Fatalf("ParseExport failed: %v", err)
	}

	dst := NewKVStore(newMapBackend())
	imported, skipped, err := ImportData(ctx, dst, otherUser, data)
	if err != nil {
		t.Fatalf("ImportData failed: %v", err)
	}
	if imported != 3 || skipped != 0 {
		t.Errorf("imported/skipped = %d/%d, want 3/0", imported, skipped)
	}

	want, _ := src.ListByDate(ctx, testUser, "2025-01-31")
	got, _ := dst.ListByDate(ctx, otherUser, "2025-01-31")
	if len(got) != len(want) {
		t.Fatalf("imported %d activities, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("activity %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestImportSkipsInvalidRecords(t *testing.T) {
	data := &ExportData{
		Days: []DayExport{
			{Date: "not-a-date", Activities: []models.Activity{{ID: "a", Name: "x", Category: models.CategoryWork, Duration: 5}}},
			{Date: "2025-01-31", Activities: []models.Activity{
				{ID: "ok", Name: "Read", Category: models.CategoryStudy, Duration: 30},
				{ID: "bad", Name: "", Category: models.CategoryStudy, Duration: 30},
				{ID: "", Name: "No id", Category: models.CategoryStudy, Duration: 30},
				{ID: "zero", Name: "Zero", Category: models.CategoryStudy, Duration: 0},
			}},
		},
	}

	repo := NewKVStore(newMapBackend())
	imported, skipped, err := ImportData(context.Background(), repo, testUser, data)
	if err != nil {
		t.Fatalf("ImportData failed: %v", err)
	}
	if imported != 1 || skipped != 4 {
		t.Errorf("imported/skipped = %d/%d, want 1/4", imported, skipped)
	}
}

func TestParseExportInvalid(t *testing.T) {
	if _, err := ParseExport([]byte("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
