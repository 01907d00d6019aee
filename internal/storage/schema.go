// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: One activities table keyed by (user_id, day, id).
package storage

// initSchema creates or updates the database schema.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS activities (
		user_id TEXT NOT NULL,
		day TEXT NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		duration INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, day, id)
	);

	CREATE INDEX IF NOT EXISTS idx_activities_user_day ON activities(user_id, day);
	`

	_, err := s.db.Exec(schema)
	return err
}
