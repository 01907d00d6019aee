// ABOUTME: Shared setup for auth tests.
// ABOUTME: Builds a Service over a temp account database and session file.
package auth

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()

	accounts, err := OpenAccounts(filepath.Join(dir, "accounts.db"))
	if err != nil {
		t.Fatalf("OpenAccounts failed: %v", err)
	}
	t.Cleanup(func() { _ = accounts.Close() })

	return NewService(Options{
		Accounts:    accounts,
		Tokens:      NewTokenManager("test-secret", time.Hour),
		SessionPath: filepath.Join(dir, "session.json"),
	})
}
