// ABOUTME: Tests for day aggregation: totals, remaining minutes, completion.
// ABOUTME: Includes the sleep/work/gym scenario and the empty-day case.
package analytics

import (
	"testing"

	"github.com/harperreed/timetrack/internal/models"
)

func scenarioDay() []models.Activity {
	return []models.Activity{
		{ID: "a1", Name: "Sleep", Category: models.CategorySleep, Duration: 480},
		{ID: "a2", Name: "Work", Category: models.CategoryWork, Duration: 480},
		{ID: "a3", Name: "Gym", Category: models.CategoryExercise, Duration: 60},
	}
}

func TestTotalAndRemaining(t *testing.T) {
	tests := []struct {
		name          string
		activities    []models.Activity
		wantTotal     int
		wantRemaining int
	}{
		{"empty", nil, 0, 1440},
		{"single", []models.Activity{{Duration: 90}}, 90, 1350},
		{"scenario", scenarioDay(), 1020, 420},
		{"full day", []models.Activity{{Duration: 1000}, {Duration: 440}}, 1440, 0},
		{"over budget", []models.Activity{{Duration: 1000}, {Duration: 500}}, 1500, -60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalMinutes(tt.activities); got != tt.wantTotal {
				t.Errorf("TotalMinutes() = %d, want %d", got, tt.wantTotal)
			}
			if got := RemainingMinutes(tt.activities); got != tt.wantRemaining {
				t.Errorf("RemainingMinutes() = %d, want %d", got, tt.wantRemaining)
			}
		})
	}
}

func TestIsComplete(t *testing.T) {
	if IsComplete(scenarioDay()) {
		t.Error("scenario day should not be complete")
	}
	if !IsComplete([]models.Activity{{Duration: 1440}}) {
		t.Error("1440 minutes should be complete")
	}
	if !IsComplete([]models.Activity{{Duration: 1500}}) {
		t.Error("over-budget day should read as complete")
	}
}

func TestCanAnalyse(t *testing.T) {
	if CanAnalyse(nil) {
		t.Error("empty day should not be analysable")
	}
	if !CanAnalyse([]models.Activity{{Duration: 1}}) {
		t.Error("day with one minute should be analysable")
	}
}

func TestProgressPercent(t *testing.T) {
	got := ProgressPercent([]models.Activity{{Duration: 720}})
	if got != 50 {
		t.Errorf("ProgressPercent() = %f, want 50", got)
	}
}
