// ABOUTME: Shared fixtures for tracker tests.
// ABOUTME: Provides a signed-in session and a repository that counts calls.
package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/harperreed/timetrack/internal/auth"
	"github.com/harperreed/timetrack/internal/models"
	"github.com/harperreed/timetrack/internal/storage"
)

const testDate = models.Date("2025-01-31")

func testSession() *auth.Session {
	return &auth.Session{
		User:      auth.User{UID: "user-1", Email: "ada@example.com"},
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// countingRepo records how many writes reach the wrapped repository.
type countingRepo struct {
	storage.Repository
	reads  int
	writes int
}

func (r *countingRepo) Create(ctx context.Context, userID string, date models.Date, in models.ActivityInput) (string, error) {
	r.writes++
	return r.Repository.Create(ctx, userID, date, in)
}

func (r *countingRepo) ListByDate(ctx context.Context, userID string, date models.Date) ([]models.Activity, error) {
	r.reads++
	return r.Repository.ListByDate(ctx, userID, date)
}

func (r *countingRepo) Update(ctx context.Context, userID string, date models.Date, id string, in models.ActivityInput) error {
	r.writes++
	return r.Repository.Update(ctx, userID, date, id, in)
}

func (r *countingRepo) Delete(ctx context.Context, userID string, date models.Date, id string) error {
	r.writes++
	return r.Repository.Delete(ctx, userID, date, id)
}

func newTestService(t *testing.T) (*Service, *countingRepo) {
	t.Helper()
	backend, err := storage.OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger failed: %v", err)
	}
	repo := &countingRepo{Repository: storage.NewKVStore(backend)}
	t.Cleanup(func() { _ = repo.Close() })
	return NewService(repo, nil), repo
}

func mustCreate(t *testing.T, svc *Service, name string, category models.Category, minutes int) string {
	t.Helper()
	id, err := svc.Create(context.Background(), testSession(), testDate, models.ActivityInput{Name: name, Category: category, Duration: minutes})
	if err != nil {
		t.Fatalf("Create(%s) failed: %v", name, err)
	}
	return id
}
