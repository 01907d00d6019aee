// ABOUTME: Charm KV client wrapper used as a timetrack storage backend.
// ABOUTME: Provides thread-safe initialization, read-only detection, and automatic cloud sync.
package charm

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/charmbracelet/log"
	"github.com/harperreed/timetrack/internal/storage"
)

const (
	// DBName is the Charm KV database holding activities.
	DBName    = "timetrack"
	charmHost = "charm.2389.dev"
)

// ErrReadOnly is returned for writes while another process holds the database lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

var (
	globalClient *Client
	clientOnce   sync.Once
	clientErr    error
)

// kvStore is the subset of *kv.KV the client relies on.
type kvStore interface {
	Set(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	IsReadOnly() bool
	Reset() error
	Close() error
}

// Client is a storage.Backend over Charm KV.
type Client struct {
	kv       kvStore
	logger   *log.Logger
	autoSync bool
	mu       sync.RWMutex
}

var _ storage.Backend = (*Client)(nil)

// InitClient initializes the global Charm client.
// Thread-safe; can be called multiple times.
func InitClient(logger *log.Logger) (*Client, error) {
	clientOnce.Do(func() {
		if os.Getenv("CHARM_HOST") == "" {
			if err := os.Setenv("CHARM_HOST", charmHost); err != nil {
				clientErr = err
				return
			}
		}

		db, err := kv.OpenWithDefaultsFallback(DBName)
		if err != nil {
			clientErr = fmt.Errorf("open charm kv: %w", err)
			return
		}

		globalClient = newClient(db, logger)

		// Pull remote data on startup (skip in read-only mode)
		if !db.IsReadOnly() {
			if err := db.Sync(); err != nil {
				globalClient.logger.Warn("initial charm sync failed", "err", err)
			}
		} else {
			globalClient.logger.Info("charm kv opened read-only")
		}
	})

	return globalClient, clientErr
}

func newClient(store kvStore, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		kv:       store,
		logger:   logger.WithPrefix("charm"),
		autoSync: true,
	}
}

// Close closes the KV database connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}

// IsReadOnly returns true if the database is open in read-only mode.
// This happens when another process (like an MCP server) holds the lock.
func (c *Client) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

// Sync synchronizes local state with Charm Cloud.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// syncIfEnabled pushes after a write. Failures are logged, not returned:
// the local write already succeeded.
func (c *Client) syncIfEnabled() {
	if !c.autoSync || c.kv.IsReadOnly() {
		return
	}
	if err := c.kv.Sync(); err != nil {
		c.logger.Warn("charm sync failed", "err", err)
	}
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// ID returns the Charm user ID for the current account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Reset wipes local data and rebuilds from Charm Cloud.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

// Set stores a value with the given key.
func (c *Client) Set(key, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}

	if err := c.kv.Set(key, value); err != nil {
		return err
	}
	c.syncIfEnabled()
	return nil
}

// Get returns the value at key.
func (c *Client) Get(key []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kv.Get(key)
}

// Delete removes a key.
func (c *Client) Delete(key []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}

	if err := c.kv.Delete(key); err != nil {
		return err
	}
	c.syncIfEnabled()
	return nil
}

// Keys returns every key in the database.
func (c *Client) Keys() ([][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kv.Keys()
}
