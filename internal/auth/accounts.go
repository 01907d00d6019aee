// ABOUTME: SQLite-backed account store for password and Google identities.
// ABOUTME: Tracks bcrypt hashes, failed sign-in attempts, and lockout windows.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/timetrack/internal/storage"
)

const accountsSchema = `
CREATE TABLE IF NOT EXISTS accounts (
	uid TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL DEFAULT '',
	provider TEXT NOT NULL,
	failed_attempts INTEGER NOT NULL DEFAULT 0,
	locked_until INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
`

const (
	providerPassword = "password"
	providerGoogle   = "google"
)

var errAccountNotFound = errors.New("account not found")

type account struct {
	UID            string
	Email          string
	PasswordHash   string
	Provider       string
	FailedAttempts int
	LockedUntil    time.Time
}

// AccountStore persists accounts in SQLite.
type AccountStore struct {
	db *sql.DB
}

// OpenAccounts opens or creates the account database at path.
func OpenAccounts(path string) (*AccountStore, error) {
	db, err := storage.OpenDB(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(accountsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize accounts schema: %w", err)
	}
	return &AccountStore{db: db}, nil
}

// Close closes the database connection.
func (s *AccountStore) Close() error {
	return s.db.Close()
}

func (s *AccountStore) byEmail(ctx context.Context, email string) (*account, error) {
	query := `
		SELECT uid, email, password_hash, provider, failed_attempts, locked_until
		FROM accounts WHERE email = ?
	`
	var a account
	var lockedUntil int64
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&a.UID, &a.Email, &a.PasswordHash, &a.Provider, &a.FailedAttempts, &lockedUntil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}
	if lockedUntil > 0 {
		a.LockedUntil = time.Unix(lockedUntil, 0)
	}
	return &a, nil
}

func (s *AccountStore) insert(ctx context.Context, a *account, now time.Time) error {
	query := `
		INSERT INTO accounts (uid, email, password_hash, provider, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query, a.UID, a.Email, a.PasswordHash, a.Provider, now.Unix())
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *AccountStore) recordFailure(ctx context.Context, uid string, attempts int, lockedUntil time.Time) error {
	var locked int64
	if !lockedUntil.IsZero() {
		locked = lockedUntil.Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET failed_attempts = ?, locked_until = ? WHERE uid = ?`,
		attempts, locked, uid)
	if err != nil {
		return fmt.Errorf("record failed attempt: %w", err)
	}
	return nil
}

func (s *AccountStore) clearFailures(ctx context.Context, uid string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET failed_attempts = 0, locked_until = 0 WHERE uid = ?`, uid)
	if err != nil {
		return fmt.Errorf("clear failed attempts: %w", err)
	}
	return nil
}
