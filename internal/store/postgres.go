package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/rankradius/rankradius/internal/db"
	"github.com/rankradius/rankradius/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS geo_observations (
	id                     BIGSERIAL PRIMARY KEY,
	observed_at            TIMESTAMPTZ NOT NULL,
	city_name              VARCHAR(100) NOT NULL,
	keyword                VARCHAR(255) NOT NULL,
	tier                   INTEGER NOT NULL DEFAULT 0,
	appears                BOOLEAN NOT NULL DEFAULT FALSE,
	position               INTEGER,
	distance_km            DOUBLE PRECISION NOT NULL,
	competitor_count       INTEGER NOT NULL DEFAULT 0,
	avg_competitor_rating  DOUBLE PRECISION,
	avg_competitor_reviews DOUBLE PRECISION,
	created_at             TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_geo_observations_city ON geo_observations(city_name);
CREATE INDEX IF NOT EXISTS idx_geo_observations_keyword ON geo_observations(keyword);
CREATE INDEX IF NOT EXISTS idx_geo_observations_observed_at ON geo_observations(observed_at);
`

var observationColumns = []string{
	"observed_at", "city_name", "keyword", "tier", "appears", "position",
	"distance_km", "competitor_count", "avg_competitor_rating", "avg_competitor_reviews",
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 5
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Migrate creates the observation table.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// InsertObservations appends rows via the COPY protocol.
func (s *PostgresStore) InsertObservations(ctx context.Context, rows []model.ObservationRow) (int64, error) {
	values := make([][]any, len(rows))
	for i, r := range rows {
		values[i] = []any{
			r.ObservedAt, r.CityName, r.Keyword, r.Tier, r.Appears, r.Position,
			r.DistanceKM, r.CompetitorCount, r.AvgCompetitorRating, r.AvgCompetitorReviews,
		}
	}

	n, err := db.CopyFrom(ctx, s.pool, "geo_observations", observationColumns, values)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: insert observations")
	}
	return n, nil
}

// ListObservations reads history back, newest first.
func (s *PostgresStore) ListObservations(ctx context.Context, filter ObservationFilter) ([]model.ObservationRow, error) {
	query := `SELECT observed_at, city_name, keyword, tier, appears, position,
		distance_km, competitor_count, avg_competitor_rating, avg_competitor_reviews
		FROM geo_observations WHERE 1=1`

	var args []any
	if filter.CityName != "" {
		args = append(args, filter.CityName)
		query += fmt.Sprintf(" AND city_name = $%d", len(args))
	}
	if filter.Keyword != "" {
		args = append(args, filter.Keyword)
		query += fmt.Sprintf(" AND keyword = $%d", len(args))
	}
	if !filter.Since.IsZero() {
		args = append(args, filter.Since)
		query += fmt.Sprintf(" AND observed_at >= $%d", len(args))
	}
	query += " ORDER BY observed_at DESC, city_name, keyword"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	pgxRows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list observations")
	}
	defer pgxRows.Close()

	var rows []model.ObservationRow
	for pgxRows.Next() {
		var r model.ObservationRow
		if err := pgxRows.Scan(&r.ObservedAt, &r.CityName, &r.Keyword, &r.Tier, &r.Appears,
			&r.Position, &r.DistanceKM, &r.CompetitorCount,
			&r.AvgCompetitorRating, &r.AvgCompetitorReviews); err != nil {
			return nil, eris.Wrap(err, "postgres: scan observation")
		}
		rows = append(rows, r)
	}
	if err := pgxRows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate observations")
	}
	return rows, nil
}
