// ABOUTME: Activity service: create, list, update, and delete within a user's day.
// ABOUTME: Every call takes the caller's session and refuses to run without one.
package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harperreed/timetrack/internal/analytics"
	"github.com/harperreed/timetrack/internal/auth"
	"github.com/harperreed/timetrack/internal/models"
	"github.com/harperreed/timetrack/internal/storage"
)

// ErrNotSignedIn is returned when a call arrives without a valid session.
var ErrNotSignedIn = errors.New("not signed in")

// DayLog is the full state of one day after a fetch.
type DayLog struct {
	Date             models.Date       `json:"date"`
	Activities       []models.Activity `json:"activities"`
	TotalMinutes     int               `json:"total_minutes"`
	RemainingMinutes int               `json:"remaining_minutes"`
}

// Complete reports whether the day has no minutes left.
func (d *DayLog) Complete() bool {
	return d.RemainingMinutes <= 0
}

// Service runs activity operations against a repository.
type Service struct {
	repo   storage.Repository
	logger *log.Logger
}

// NewService creates a service. A nil logger uses log.Default().
func NewService(repo storage.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{repo: repo, logger: logger.WithPrefix("tracker")}
}

func uid(session *auth.Session) (string, error) {
	if !session.Valid() {
		return "", ErrNotSignedIn
	}
	return session.UID, nil
}

// Create stores a new activity and returns its id. Remaining minutes are not
// re-checked here; use AddChecked for form input.
func (s *Service) Create(ctx context.Context, session *auth.Session, date models.Date, in models.ActivityInput) (string, error) {
	userID, err := uid(session)
	if err != nil {
		return "", err
	}

	id, err := s.repo.Create(ctx, userID, date, in)
	if err != nil {
		s.logger.Error("add activity failed", "date", date, "err", err)
		return "", fmt.Errorf("add activity: %w", err)
	}
	s.logger.Debug("activity added", "date", date, "id", id, "minutes", in.Duration)
	return id, nil
}

// List returns every activity logged on date. A day with nothing logged yields an empty slice.
func (s *Service) List(ctx context.Context, session *auth.Session, date models.Date) ([]models.Activity, error) {
	userID, err := uid(session)
	if err != nil {
		return nil, err
	}

	activities, err := s.repo.ListByDate(ctx, userID, date)
	if err != nil {
		s.logger.Error("list activities failed", "date", date, "err", err)
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// Update overwrites the activity at id. A missing id is created.
func (s *Service) Update(ctx context.Context, session *auth.Session, date models.Date, id string, in models.ActivityInput) error {
	userID, err := uid(session)
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, userID, date, id, in); err != nil {
		s.logger.Error("update activity failed", "date", date, "id", id, "err", err)
		return fmt.Errorf("update activity: %w", err)
	}
	s.logger.Debug("activity updated", "date", date, "id", id)
	return nil
}

// Delete removes the activity at id. A missing id is not an error.
func (s *Service) Delete(ctx context.Context, session *auth.Session, date models.Date, id string) error {
	userID, err := uid(session)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, date, id); err != nil {
		s.logger.Error("delete activity failed", "date", date, "id", id, "err", err)
		return fmt.Errorf("delete activity: %w", err)
	}
	s.logger.Debug("activity deleted", "date", date, "id", id)
	return nil
}

// Day fetches the whole day and its totals.
func (s *Service) Day(ctx context.Context, session *auth.Session, date models.Date) (*DayLog, error) {
	activities, err := s.List(ctx, session, date)
	if err != nil {
		return nil, err
	}
	return &DayLog{
		Date:             date,
		Activities:       activities,
		TotalMinutes:     analytics.TotalMinutes(activities),
		RemainingMinutes: analytics.RemainingMinutes(activities),
	}, nil
}

// AddChecked validates in against the day's remaining minutes, then creates it.
// It returns the refreshed day.
func (s *Service) AddChecked(ctx context.Context, session *auth.Session, date models.Date, in models.ActivityInput) (string, *DayLog, error) {
	day, err := s.Day(ctx, session, date)
	if err != nil {
		return "", nil, err
	}
	if err := NewForm(day).Check(in); err != nil {
		return "", day, err
	}

	id, err := s.Create(ctx, session, date, in)
	if err != nil {
		return "", day, err
	}

	day, err = s.Day(ctx, session, date)
	return id, day, err
}

// UpdateChecked validates in against the day's remaining minutes plus the
// edited activity's current duration, then overwrites it.
func (s *Service) UpdateChecked(ctx context.Context, session *auth.Session, date models.Date, id string, in models.ActivityInput) (*DayLog, error) {
	day, err := s.Day(ctx, session, date)
	if err != nil {
		return nil, err
	}
	current, err := Resolve(day.Activities, id)
	if err != nil {
		return day, err
	}
	if err := EditForm(day, current).Check(in); err != nil {
		return day, err
	}

	if err := s.Update(ctx, session, date, current.ID, in); err != nil {
		return day, err
	}
	return s.Day(ctx, session, date)
}
