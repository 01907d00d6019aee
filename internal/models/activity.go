// ABOUTME: Activity model: one named, categorized time block on a given day.
// ABOUTME: ActivityInput is the stored record; Activity adds the store-assigned ID.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// MinutesPerDay is the number of minutes a day can hold.
const MinutesPerDay = 1440

var (
	ErrEmptyName       = errors.New("activity name is required")
	ErrInvalidCategory = errors.New("unknown category")
	ErrInvalidDuration = errors.New("duration must be at least 1 minute")
)

// ActivityInput is the stored part of an activity, without its ID.
type ActivityInput struct {
	Name     string   `json:"name" yaml:"name"`
	Category Category `json:"category" yaml:"category"`
	Duration int      `json:"duration" yaml:"duration"`
}

// Activity is a logged time block with its store-assigned ID.
type Activity struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Category Category `json:"category" yaml:"category"`
	Duration int      `json:"duration" yaml:"duration"`
}

// NewActivityInput creates an input with the given fields.
func NewActivityInput(name string, category Category, minutes int) *ActivityInput {
	return &ActivityInput{
		Name:     strings.TrimSpace(name),
		Category: category,
		Duration: minutes,
	}
}

// WithName replaces the name.
func (a *ActivityInput) WithName(name string) *ActivityInput {
	a.Name = strings.TrimSpace(name)
	return a
}

// WithCategory replaces the category.
func (a *ActivityInput) WithCategory(category Category) *ActivityInput {
	a.Category = category
	return a
}

// WithDuration replaces the duration in minutes.
func (a *ActivityInput) WithDuration(minutes int) *ActivityInput {
	a.Duration = minutes
	return a
}

// Validate checks the record-level invariants. It does not know about the day's budget.
func (a ActivityInput) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !IsValidCategory(string(a.Category)) {
		return fmt.Errorf("%w: %s", ErrInvalidCategory, a.Category)
	}
	if a.Duration < 1 {
		return ErrInvalidDuration
	}
	return nil
}

// Input returns the stored part of the activity.
func (a Activity) Input() ActivityInput {
	return ActivityInput{Name: a.Name, Category: a.Category, Duration: a.Duration}
}

// WithID attaches an ID to an input.
func (a ActivityInput) WithID(id string) Activity {
	return Activity{ID: id, Name: a.Name, Category: a.Category, Duration: a.Duration}
}
