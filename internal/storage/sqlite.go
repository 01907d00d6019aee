// ABOUTME: Activity CRUD operations for SQLite storage.
// ABOUTME: Update is an upsert so writes to unknown IDs create the row.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harperreed/timetrack/internal/models"
	"github.com/oklog/ulid/v2"
)

func newULID() string {
	return ulid.Make().String()
}

// Create stores a new activity under a freshly allocated ID.
func (s *SQLiteStore) Create(ctx context.Context, userID string, date models.Date, in models.ActivityInput) (string, error) {
	if err := validateBucket(userID, date); err != nil {
		return "", err
	}

	id := s.newID()
	query := `
		INSERT INTO activities (user_id, day, id, name, category, duration)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query, userID, string(date), id, in.Name, string(in.Category), in.Duration)
	if err != nil {
		return "", fmt.Errorf("create activity: %w", err)
	}
	return id, nil
}

// ListByDate returns the bucket's activities in insertion order.
func (s *SQLiteStore) ListByDate(ctx context.Context, userID string, date models.Date) ([]models.Activity, error) {
	if err := validateBucket(userID, date); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, category, duration
		FROM activities
		WHERE user_id = ? AND day = ?
		ORDER BY rowid
	`
	rows, err := s.db.QueryContext(ctx, query, userID, string(date))
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

// Update overwrites the activity at id, inserting it if missing.
func (s *SQLiteStore) Update(ctx context.Context, userID string, date models.Date, id string, in models.ActivityInput) error {
	if err := validateBucket(userID, date); err != nil {
		return err
	}
	if err := validateSegment("activity id", id); err != nil {
		return err
	}

	query := `
		INSERT INTO activities (user_id, day, id, name, category, duration)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, day, id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			duration = excluded.duration
	`
	_, err := s.db.ExecContext(ctx, query, userID, string(date), id, in.Name, string(in.Category), in.Duration)
	if err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	return nil
}

// Delete removes the activity at id. Deleting a missing row is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, userID string, date models.Date, id string) error {
	if err := validateBucket(userID, date); err != nil {
		return err
	}
	if err := validateSegment("activity id", id); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM activities WHERE user_id = ? AND day = ? AND id = ?",
		userID, string(date), id)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return nil
}

// ListDates returns every date with at least one activity.
func (s *SQLiteStore) ListDates(ctx context.Context, userID string) ([]models.Date, error) {
	if err := validateSegment("user id", userID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT day FROM activities WHERE user_id = ? ORDER BY day",
		userID)
	if err != nil {
		return nil, fmt.Errorf("list dates: %w", err)
	}
	defer rows.Close()

	var dates []models.Date
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		dates = append(dates, models.Date(day))
	}
	return dates, rows.Err()
}

// scanActivities scans multiple rows into a slice of Activities.
func scanActivities(rows *sql.Rows) ([]models.Activity, error) {
	activities := []models.Activity{}

	for rows.Next() {
		var a models.Activity
		var category string
		if err := rows.Scan(&a.ID, &a.Name, &category, &a.Duration); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Category = models.Category(category)
		activities = append(activities, a)
	}

	return activities, rows.Err()
}
