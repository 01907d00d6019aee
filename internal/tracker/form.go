// ABOUTME: Form-layer checks that keep a day's logged minutes within 24 hours.
// ABOUTME: Runs before any store call; the store itself never enforces the cap.
package tracker

import (
	"errors"
	"fmt"

	"github.com/harperreed/timetrack/internal/models"
)

var (
	// ErrDayComplete means the day has no minutes left to log.
	ErrDayComplete = errors.New("all 24 hours are logged for this day")
	// ErrExceedsRemaining means the duration is longer than the minutes left.
	ErrExceedsRemaining = errors.New("duration exceeds remaining minutes")
)

// Form holds the limits for one add or edit.
type Form struct {
	remaining int
	editing   *models.Activity
}

// NewForm returns a form for adding a new activity to day.
func NewForm(day *DayLog) *Form {
	return &Form{remaining: day.RemainingMinutes}
}

// EditForm returns a form for replacing activity within day.
func EditForm(day *DayLog, activity models.Activity) *Form {
	return &Form{remaining: day.RemainingMinutes, editing: &activity}
}

// MaxDuration is the longest duration the form accepts.
func (f *Form) MaxDuration() int {
	limit := f.remaining
	if f.editing != nil {
		limit += f.editing.Duration
	}
	return limit
}

// CanSubmit reports whether any duration would be accepted.
func (f *Form) CanSubmit() bool {
	return f.MaxDuration() > 0
}

// Check validates in and its duration against MaxDuration.
func (f *Form) Check(in models.ActivityInput) error {
	if !f.CanSubmit() {
		return ErrDayComplete
	}
	if err := in.Validate(); err != nil {
		return err
	}
	if in.Duration > f.MaxDuration() {
		return fmt.Errorf("%w: %d > %d", ErrExceedsRemaining, in.Duration, f.MaxDuration())
	}
	return nil
}
