// ABOUTME: Tests for the add/edit form limits.
package tracker

import (
	"errors"
	"testing"

	"github.com/harperreed/timetrack/internal/models"
)

func TestFormLimits(t *testing.T) {
	editing := models.Activity{ID: "a", Name: "Work", Category: models.CategoryWork, Duration: 120}

	tests := []struct {
		name      string
		form      *Form
		wantMax   int
		canSubmit bool
	}{
		{"empty day", NewForm(&DayLog{RemainingMinutes: 1440}), 1440, true},
		{"partly logged", NewForm(&DayLog{RemainingMinutes: 420}), 420, true},
		{"full day", NewForm(&DayLog{RemainingMinutes: 0}), 0, false},
		{"overfull day", NewForm(&DayLog{RemainingMinutes: -30}), -30, false},
		{"edit on full day", EditForm(&DayLog{RemainingMinutes: 0}, editing), 120, true},
		{"edit with room", EditForm(&DayLog{RemainingMinutes: 60}, editing), 180, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.form.MaxDuration(); got != tt.wantMax {
				t.Errorf("MaxDuration() = %d, want %d", got, tt.wantMax)
			}
			if got := tt.form.CanSubmit(); got != tt.canSubmit {
				t.Errorf("CanSubmit() = %v, want %v", got, tt.canSubmit)
			}
		})
	}
}

func TestFormCheck(t *testing.T) {
	form := NewForm(&DayLog{RemainingMinutes: 60})

	tests := []struct {
		name    string
		in      models.ActivityInput
		wantErr error
	}{
		{"fits", models.ActivityInput{Name: "Walk", Category: models.CategoryExercise, Duration: 30}, nil},
		{"exactly remaining", models.ActivityInput{Name: "Walk", Category: models.CategoryExercise, Duration: 60}, nil},
		{"one over", models.ActivityInput{Name: "Walk", Category: models.CategoryExercise, Duration: 61}, ErrExceedsRemaining},
		{"zero minutes", models.ActivityInput{Name: "Walk", Category: models.CategoryExercise, Duration: 0}, models.ErrInvalidDuration},
		{"bad category", models.ActivityInput{Name: "Walk", Category: "hobby", Duration: 10}, models.ErrInvalidCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := form.Check(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Check() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := NewForm(&DayLog{RemainingMinutes: 0}).Check(models.ActivityInput{Name: "x", Category: models.CategoryOther, Duration: 1}); !errors.Is(err, ErrDayComplete) {
		t.Errorf("full day Check() = %v, want ErrDayComplete", err)
	}
}
