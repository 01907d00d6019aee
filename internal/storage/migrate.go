// ABOUTME: Data migration between timetrack storage backends.
// ABOUTME: Copies every bucket of one user, keeping activity IDs.

package storage

import (
	"context"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Days       int
	Activities int
}

// MigrateData copies all of a user's activities from src to dst.
// IDs are preserved by writing through Update, which creates missing records.
// Running it twice is harmless: the second pass overwrites with the same values.
func MigrateData(ctx context.Context, src, dst Repository, userID string) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	dates, err := src.ListDates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list source dates: %w", err)
	}

	for _, date := range dates {
		activities, err := src.ListByDate(ctx, userID, date)
		if err != nil {
			return nil, fmt.Errorf("list source activities for %s: %w", date, err)
		}
		if len(activities) == 0 {
			continue
		}

		for _, a := range activities {
			if err := dst.Update(ctx, userID, date, a.ID, a.Input()); err != nil {
				return nil, fmt.Errorf("copy activity %s: %w", a.ID, err)
			}
			summary.Activities++
		}
		summary.Days++
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
