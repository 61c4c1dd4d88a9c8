// ABOUTME: Badger-backed Repository storing the state as a JSON document.
// ABOUTME: Suited to single-process local use without SQL.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v3"

	"github.com/harperreed/care4u/internal/models"
)

var stateKey = []byte("care4u/state")

// BadgerStore persists state in a badger key/value database.
type BadgerStore struct {
	db *badger.DB
}

var _ Repository = (*BadgerStore)(nil)

// OpenBadger opens or creates a badger database in dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create badger directory: %w", err)
	}
	return openBadger(badger.DefaultOptions(dir))
}

// OpenBadgerInMemory opens a throwaway in-memory database.
func OpenBadgerInMemory() (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true))
}

func openBadger(opts badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// SaveState writes the state document.
func (b *BadgerStore) SaveState(st *models.AppState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(stateKey, data)
	})
}

// LoadState reads the state document.
func (b *BadgerStore) LoadState() (*models.AppState, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(stateKey)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	var st models.AppState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	return &st, nil
}

// Close closes the database.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}
