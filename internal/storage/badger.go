// ABOUTME: Badger-backed key-value Backend for offline use and tests.
// ABOUTME: An empty directory opens an in-memory database.
package storage

import (
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"
)

// BadgerBackend stores keys in a local badger database.
type BadgerBackend struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a badger database in dir. Empty dir means in-memory.
func OpenBadger(dir string) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	} else if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerBackend{db: db}, nil
}

// Set stores a value.
func (b *BadgerBackend) Set(key, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Get returns a copy of the value, or badger.ErrKeyNotFound.
func (b *BadgerBackend) Get(key []byte) ([]byte, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	return out, err
}

// Delete removes a key. Missing keys are not an error.
func (b *BadgerBackend) Delete(key []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Keys returns every key in sorted order.
func (b *BadgerBackend) Keys() ([][]byte, error) {
	return b.KeysWithPrefix(nil)
}

// KeysWithPrefix returns the keys starting with prefix in sorted order.
func (b *BadgerBackend) KeysWithPrefix(prefix []byte) ([][]byte, error) {
	var keys [][]byte
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

// Close closes the database.
func (b *BadgerBackend) Close() error {
	return b.db.Close()
}
