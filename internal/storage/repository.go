// ABOUTME: Repository interface for persisting the session state.
// ABOUTME: Backends load and save the AppState shape wholesale.
package storage

import (
	"errors"

	"github.com/harperreed/care4u/internal/models"
)

// ErrNoState is returned by LoadState when nothing has been saved yet.
var ErrNoState = errors.New("no saved state")

// Repository defines the storage interface for care4u data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// LoadState returns the last saved state or ErrNoState.
	LoadState() (*models.AppState, error)
	// SaveState replaces the stored state.
	SaveState(st *models.AppState) error

	// Lifecycle
	Close() error
}
