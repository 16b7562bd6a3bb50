package storage

import (
	"errors"

	"github.com/julianstephens/habitgarden/internal/models"
)

// ErrNotInitialized is returned by Load before Init has created the store.
var ErrNotInitialized = errors.New("storage not initialized, run 'habitgarden init' first")

// Provider persists whole State snapshots. Save is last-write-wins.
type Provider interface {
	// Lifecycle
	Init() error
	Load() (*models.State, error)
	Save(*models.State) error
	Close() error

	// Utils
	GetConfigPath() string
}
