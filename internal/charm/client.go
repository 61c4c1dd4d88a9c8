// ABOUTME: Charm KV client wrapper for care4u state storage.
// ABOUTME: Provides thread-safe initialization and automatic cloud sync.
package charm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
)

const (
	// DBName is the Charm KV database holding care4u state.
	DBName = "care4u"
	// Host is the default Charm server.
	Host = "charm.2389.dev"
)

var (
	globalClient *Client
	clientOnce   sync.Once
	clientErr    error
)

// Client wraps a Charm KV database.
type Client struct {
	kv *kv.KV
	mu sync.RWMutex
}

// InitClient initializes the global Charm client.
// Thread-safe; can be called multiple times.
func InitClient() (*Client, error) {
	clientOnce.Do(func() {
		// Set server before opening KV, unless the user picked one
		if os.Getenv("CHARM_HOST") == "" {
			if err := os.Setenv("CHARM_HOST", Host); err != nil {
				clientErr = err
				return
			}
		}

		db, err := kv.OpenWithDefaultsFallback(DBName)
		if err != nil {
			clientErr = err
			return
		}

		globalClient = &Client{kv: db}

		// Pull remote data on startup (skip in read-only mode)
		if !db.IsReadOnly() {
			_ = db.Sync()
		}
	})

	return globalClient, clientErr
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

// ErrReadOnly is returned for writes while another process holds the database lock.
var ErrReadOnly = errors.New("cannot write: database is locked by another process (MCP server?)")

// replacePrefixed swaps every key under the managed prefixes for records
// and syncs once at the end.
func (c *Client) replacePrefixed(prefixes []string, records map[string][]byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return ErrReadOnly
	}

	keys, err := c.kv.Keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if !hasAnyPrefix(key, prefixes) {
			continue
		}
		if _, keep := records[string(key)]; keep {
			continue
		}
		if err := c.kv.Delete(key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	for key, data := range records {
		if err := c.kv.Set([]byte(key), data); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	_ = c.kv.Sync()
	return nil
}

// listPrefixed returns every key/value pair under the given prefixes.
func (c *Client) listPrefixed(prefixes []string) (map[string][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}

	out := make(map[string][]byte)
	for _, key := range keys {
		if !hasAnyPrefix(key, prefixes) {
			continue
		}
		val, err := c.kv.Get(key)
		if err != nil {
			return nil, err
		}
		out[string(key)] = val
	}
	return out, nil
}

func hasAnyPrefix(key []byte, prefixes []string) bool {
	for _, p := range prefixes {
		if bytes.HasPrefix(key, []byte(p)) {
			return true
		}
	}
	return false
}

// unmarshalJSON is a helper to unmarshal JSON data.
func unmarshalJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
