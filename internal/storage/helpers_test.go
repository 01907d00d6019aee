// ABOUTME: Shared test helpers for storage tests.
// ABOUTME: Opens every Repository implementation against throwaway backends.
package storage

import (
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v3"
)

// mapBackend is a Backend without prefix seeking, returning keys unsorted.
type mapBackend struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapBackend() *mapBackend {
	return &mapBackend{data: make(map[string][]byte)}
}

func (m *mapBackend) Set(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *mapBackend) Get(key []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[string(key)]
	if !ok {
		return nil, badger.ErrKeyNotFound
	}
	return v, nil
}

func (m *mapBackend) Delete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, string(key))
	return nil
}

func (m *mapBackend) Keys() ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([][]byte, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, []byte(k))
	}
	// Reverse order so KVStore has to sort.
	sort.Slice(keys, func(i, j int) bool { return string(keys[i]) > string(keys[j]) })
	return keys, nil
}

func (m *mapBackend) Close() error { return nil }

// openRepositories returns one instance of every Repository implementation.
func openRepositories(t *testing.T) map[string]Repository {
	t.Helper()

	bb, err := OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger failed: %v", err)
	}
	badgerStore := NewKVStore(bb)
	t.Cleanup(func() { _ = badgerStore.Close() })

	sqliteStore, err := OpenSQLite(filepath.Join(t.TempDir(), "timetrack.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]Repository{
		"badger": badgerStore,
		"map":    NewKVStore(newMapBackend()),
		"sqlite": sqliteStore,
	}
}

func forEachRepository(t *testing.T, fn func(t *testing.T, repo Repository)) {
	t.Helper()
	for name, repo := range openRepositories(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, repo)
		})
	}
}
