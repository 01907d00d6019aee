// ABOUTME: Repository over a flat key-value backend using path-shaped keys.
// ABOUTME: Values are JSON {name, category, duration}; IDs are ULIDs so key order is insertion order.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/timetrack/internal/models"
)

// Backend is the minimal key-value surface KVStore needs.
// Both the Charm KV client and BadgerBackend satisfy it.
type Backend interface {
	Set(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Close() error
}

// prefixScanner is implemented by backends that can seek to a prefix.
type prefixScanner interface {
	KeysWithPrefix(prefix []byte) ([][]byte, error)
}

// KVStore implements Repository on top of a Backend.
type KVStore struct {
	backend Backend
	newID   func() string
}

// Compile-time check that KVStore implements Repository.
var _ Repository = (*KVStore)(nil)

// NewKVStore wraps a backend.
func NewKVStore(backend Backend) *KVStore {
	return &KVStore{
		backend: backend,
		newID:   newULID,
	}
}

// Create stores a new activity under a freshly allocated ID.
func (s *KVStore) Create(ctx context.Context, userID string, date models.Date, in models.ActivityInput) (string, error) {
	if err := validateBucket(userID, date); err != nil {
		return "", err
	}
	id := s.newID()
	if err := s.put(userID, date, id, in); err != nil {
		return "", fmt.Errorf("create activity: %w", err)
	}
	return id, nil
}

// ListByDate returns the bucket's activities in key order.
func (s *KVStore) ListByDate(ctx context.Context, userID string, date models.Date) ([]models.Activity, error) {
	if err := validateBucket(userID, date); err != nil {
		return nil, err
	}

	prefix := BucketPath(userID, date)
	keys, err := s.keysWithPrefix([]byte(prefix))
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	activities := make([]models.Activity, 0, len(keys))
	for _, key := range keys {
		data, err := s.backend.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue // removed between Keys and Get
			}
			return nil, fmt.Errorf("list activities: %w", err)
		}

		var in models.ActivityInput
		if err := json.Unmarshal(data, &in); err != nil {
			continue // Skip invalid entries
		}
		activities = append(activities, in.WithID(string(key[len(prefix):])))
	}

	return activities, nil
}

// Update overwrites the activity at id.
func (s *KVStore) Update(ctx context.Context, userID string, date models.Date, id string, in models.ActivityInput) error {
	if err := validateBucket(userID, date); err != nil {
		return err
	}
	if err := validateSegment("activity id", id); err != nil {
		return err
	}
	if err := s.put(userID, date, id, in); err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	return nil
}

// Delete removes the activity at id.
func (s *KVStore) Delete(ctx context.Context, userID string, date models.Date, id string) error {
	if err := validateBucket(userID, date); err != nil {
		return err
	}
	if err := validateSegment("activity id", id); err != nil {
		return err
	}
	if err := s.backend.Delete([]byte(ActivityPath(userID, date, id))); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return nil
}

// ListDates returns every date with at least one activity.
func (s *KVStore) ListDates(ctx context.Context, userID string) ([]models.Date, error) {
	if err := validateSegment("user id", userID); err != nil {
		return nil, err
	}

	keys, err := s.keysWithPrefix([]byte(DaysPath(userID)))
	if err != nil {
		return nil, fmt.Errorf("list dates: %w", err)
	}

	seen := make(map[models.Date]bool)
	var dates []models.Date
	for _, key := range keys {
		date, _, ok := parseActivityPath(userID, string(key))
		if !ok || seen[date] {
			continue
		}
		seen[date] = true
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })
	return dates, nil
}

// Close closes the backend.
func (s *KVStore) Close() error {
	return s.backend.Close()
}

func (s *KVStore) put(userID string, date models.Date, id string, in models.ActivityInput) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	return s.backend.Set([]byte(ActivityPath(userID, date, id)), data)
}

func (s *KVStore) keysWithPrefix(prefix []byte) ([][]byte, error) {
	if ps, ok := s.backend.(prefixScanner); ok {
		return ps.KeysWithPrefix(prefix)
	}

	keys, err := s.backend.Keys()
	if err != nil {
		return nil, err
	}
	var matched [][]byte
	for _, key := range keys {
		if bytes.HasPrefix(key, prefix) {
			matched = append(matched, key)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return bytes.Compare(matched[i], matched[j]) < 0 })
	return matched, nil
}
