package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/rankradius/rankradius/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = "rankradius.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS geo_observations (
	id                     INTEGER PRIMARY KEY AUTOINCREMENT,
	observed_at            DATETIME NOT NULL,
	city_name              TEXT NOT NULL,
	keyword                TEXT NOT NULL,
	tier                   INTEGER NOT NULL DEFAULT 0,
	appears                BOOLEAN NOT NULL DEFAULT 0,
	position               INTEGER,
	distance_km            REAL NOT NULL,
	competitor_count       INTEGER NOT NULL DEFAULT 0,
	avg_competitor_rating  REAL,
	avg_competitor_reviews REAL,
	created_at             DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_geo_observations_city ON geo_observations(city_name);
CREATE INDEX IF NOT EXISTS idx_geo_observations_keyword ON geo_observations(keyword);
CREATE INDEX IF NOT EXISTS idx_geo_observations_observed_at ON geo_observations(observed_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertObservations appends rows inside a single transaction so a failed run
// never leaves a partial write behind.
func (s *SQLiteStore) InsertObservations(ctx context.Context, rows []model.ObservationRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin insert")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO geo_observations
		 (observed_at, city_name, keyword, tier, appears, position,
		  distance_km, competitor_count, avg_competitor_rating, avg_competitor_reviews)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			r.ObservedAt.UTC(), r.CityName, r.Keyword, r.Tier, r.Appears, r.Position,
			r.DistanceKM, r.CompetitorCount, r.AvgCompetitorRating, r.AvgCompetitorReviews,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert observation %s/%s", r.CityName, r.Keyword)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit insert")
	}
	return int64(len(rows)), nil
}

// ListObservations reads history back, newest first.
func (s *SQLiteStore) ListObservations(ctx context.Context, filter ObservationFilter) ([]model.ObservationRow, error) {
	query := `SELECT observed_at, city_name, keyword, tier, appears, position,
		distance_km, competitor_count, avg_competitor_rating, avg_competitor_reviews
		FROM geo_observations WHERE 1=1`
	var args []any

	if filter.CityName != "" {
		query += ` AND city_name = ?`
		args = append(args, filter.CityName)
	}
	if filter.Keyword != "" {
		query += ` AND keyword = ?`
		args = append(args, filter.Keyword)
	}
	if !filter.Since.IsZero() {
		query += ` AND observed_at >= ?`
		args = append(args, filter.Since.UTC())
	}
	query += ` ORDER BY observed_at DESC, city_name, keyword`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	sqlRows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list observations")
	}
	defer sqlRows.Close()

	var rows []model.ObservationRow
	for sqlRows.Next() {
		r, err := scanObservationRow(sqlRows)
		if err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}
	return rows, eris.Wrap(sqlRows.Err(), "sqlite: list observations iterate")
}

func scanObservationRow(rows *sql.Rows) (model.ObservationRow, error) {
	var (
		r        model.ObservationRow
		observed time.Time
		position sql.NullInt64
		rating   sql.NullFloat64
		reviews  sql.NullFloat64
	)
	err := rows.Scan(&observed, &r.CityName, &r.Keyword, &r.Tier, &r.Appears,
		&position, &r.DistanceKM, &r.CompetitorCount, &rating, &reviews)
	if err != nil {
		return model.ObservationRow{}, eris.Wrap(err, "sqlite: scan observation")
	}

	r.ObservedAt = observed.UTC()
	if position.Valid {
		p := int(position.Int64)
		r.Position = &p
	}
	if rating.Valid {
		v := rating.Float64
		r.AvgCompetitorRating = &v
	}
	if reviews.Valid {
		v := reviews.Float64
		r.AvgCompetitorReviews = &v
	}
	return r, nil
}
