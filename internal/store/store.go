// Package store persists observation history across analysis runs.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/rankradius/rankradius/internal/model"
)

// ObservationFilter specifies criteria for reading back history.
type ObservationFilter struct {
	CityName string
	Keyword  string
	Since    time.Time
	Limit    int
}

// Store is the append-only persistence interface for observation rows. Writes
// happen once per run after collection completes; the analysis itself never
// touches the store.
type Store interface {
	// InsertObservations appends one row per observation.
	InsertObservations(ctx context.Context, rows []model.ObservationRow) (int64, error)

	// ListObservations reads history back, newest first.
	ListObservations(ctx context.Context, filter ObservationFilter) ([]model.ObservationRow, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Config mirrors config.StoreConfig without importing it, keeping the store
// usable from tests that have no full configuration.
type Config struct {
	Driver      string
	DatabaseURL string
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
