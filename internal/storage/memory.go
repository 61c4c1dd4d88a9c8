// ABOUTME: In-memory Repository used when persistence is disabled.
// ABOUTME: Keeps a deep copy of the last saved state for the process lifetime.
package storage

import (
	"sync"

	"github.com/harperreed/care4u/internal/models"
)

// MemoryStore holds state in memory only.
type MemoryStore struct {
	mu    sync.RWMutex
	state *models.AppState
}

var _ Repository = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// LoadState returns a copy of the saved state.
func (m *MemoryStore) LoadState() (*models.AppState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return nil, ErrNoState
	}
	return m.state.Clone(), nil
}

// SaveState stores a copy of st.
func (m *MemoryStore) SaveState(st *models.AppState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = st.Clone()
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
