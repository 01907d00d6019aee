// ABOUTME: Hierarchical key scheme users/{uid}/days/{date}/activities/{id}.
// ABOUTME: Validates path segments so keys from different buckets never collide.
package storage

import (
	"fmt"
	"strings"

	"github.com/harperreed/timetrack/internal/models"
)

const forbiddenSegmentChars = "/.#$[]"

// ActivityPath returns the key for a single activity.
func ActivityPath(userID string, date models.Date, id string) string {
	return BucketPath(userID, date) + id
}

// BucketPath returns the key prefix shared by every activity in a bucket.
func BucketPath(userID string, date models.Date) string {
	return fmt.Sprintf("users/%s/days/%s/activities/", userID, date)
}

// DaysPath returns the key prefix shared by every bucket of a user.
func DaysPath(userID string) string {
	return fmt.Sprintf("users/%s/days/", userID)
}

// parseActivityPath splits a key below DaysPath into its date and activity ID.
func parseActivityPath(userID, key string) (models.Date, string, bool) {
	rest, ok := strings.CutPrefix(key, DaysPath(userID))
	if !ok {
		return "", "", false
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[1] != "activities" || parts[2] == "" {
		return "", "", false
	}
	return models.Date(parts[0]), parts[2], true
}

func validateSegment(kind, s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty %s", ErrInvalidKey, kind)
	}
	if strings.ContainsAny(s, forbiddenSegmentChars) {
		return fmt.Errorf("%w: %s %q contains one of %q", ErrInvalidKey, kind, s, forbiddenSegmentChars)
	}
	return nil
}

func validateBucket(userID string, date models.Date) error {
	if err := validateSegment("user id", userID); err != nil {
		return err
	}
	if _, err := models.ParseDate(string(date)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return nil
}
