// ABOUTME: Category enum for logged activities with display labels and colors.
// ABOUTME: Six fixed categories; unknown values fall back to "other" for display.
package models

// Category represents the kind of time block being logged.
type Category string

const (
	CategoryWork          Category = "work"
	CategorySleep         Category = "sleep"
	CategoryStudy         Category = "study"
	CategoryExercise      Category = "exercise"
	CategoryEntertainment Category = "entertainment"
	CategoryOther         Category = "other"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{
	CategoryWork,
	CategorySleep,
	CategoryStudy,
	CategoryExercise,
	CategoryEntertainment,
	CategoryOther,
}

// HSL is a color in hue (degrees), saturation and lightness (0-1).
type HSL struct {
	H float64
	S float64
	L float64
}

var categoryLabels = map[Category]string{
	CategoryWork:          "Work",
	CategorySleep:         "Sleep",
	CategoryStudy:         "Study",
	CategoryExercise:      "Exercise",
	CategoryEntertainment: "Entertainment",
	CategoryOther:         "Other",
}

var categoryColors = map[Category]HSL{
	CategoryWork:          {H: 200, S: 0.80, L: 0.50},
	CategorySleep:         {H: 260, S: 0.60, L: 0.55},
	CategoryStudy:         {H: 174, S: 0.72, L: 0.45},
	CategoryExercise:      {H: 340, S: 0.75, L: 0.55},
	CategoryEntertainment: {H: 45, S: 0.90, L: 0.55},
	CategoryOther:         {H: 210, S: 0.20, L: 0.60},
}

// IsValidCategory checks if a string is a known category.
func IsValidCategory(s string) bool {
	_, ok := categoryLabels[Category(s)]
	return ok
}

// Label returns the display label, "Other" for unknown categories.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return categoryLabels[CategoryOther]
}

// Color returns the chart color, the "other" color for unknown categories.
func (c Category) Color() HSL {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return categoryColors[CategoryOther]
}

// Normalize maps unknown categories to CategoryOther.
func (c Category) Normalize() Category {
	if _, ok := categoryLabels[c]; ok {
		return c
	}
	return CategoryOther
}
