// ABOUTME: Date type for day buckets in yyyy-MM-dd form.
// ABOUTME: Parsing is strict so bucket keys stay canonical.
package models

import (
	"fmt"
	"time"
)

// DateLayout is the canonical bucket key layout.
const DateLayout = "2006-01-02"

// Date is a calendar day in yyyy-MM-dd form.
type Date string

// Today returns the current local date.
func Today() Date {
	return DateOf(time.Now())
}

// DateOf returns the date of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate parses a yyyy-MM-dd string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the date. Zero time if the date is malformed.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

// Display formats the date like "Monday, January 2, 2006".
func (d Date) Display() string {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return string(d)
	}
	return t.Format("Monday, January 2, 2006")
}

func (d Date) String() string {
	return string(d)
}
