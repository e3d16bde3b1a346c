package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS geo_observations`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertObservations(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectCopyFrom(pgx.Identifier{"geo_observations"}, observationColumns).
		WillReturnResult(2)

	observedAt := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	n, err := s.InsertObservations(context.Background(), testRows(observedAt))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertObservations_Error(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectCopyFrom(pgx.Identifier{"geo_observations"}, observationColumns).
		WillReturnError(assert.AnError)

	observedAt := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	_, err := s.InsertObservations(context.Background(), testRows(observedAt))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert observations")
}

func TestPostgresStore_ListObservations(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	observedAt := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{
		"observed_at", "city_name", "keyword", "tier", "appears", "position",
		"distance_km", "competitor_count", "avg_competitor_rating", "avg_competitor_reviews",
	}).AddRow(observedAt, "Hawthorne", "house cleaning", 1, true, intPtr(3),
		2.4, 7, floatPtr(4.3), floatPtr(120.5))

	mock.ExpectQuery(`FROM geo_observations WHERE 1=1 AND city_name = \$1 ORDER BY observed_at DESC`).
		WithArgs("Hawthorne").
		WillReturnRows(rows)

	got, err := s.ListObservations(context.Background(), ObservationFilter{CityName: "Hawthorne"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Hawthorne", got[0].CityName)
	assert.True(t, got[0].Appears)
	require.NotNil(t, got[0].Position)
	assert.Equal(t, 3, *got[0].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListObservations_AllFilters(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{
		"observed_at", "city_name", "keyword", "tier", "appears", "position",
		"distance_km", "competitor_count", "avg_competitor_rating", "avg_competitor_reviews",
	})

	mock.ExpectQuery(`AND city_name = \$1 AND keyword = \$2 AND observed_at >= \$3 ORDER BY observed_at DESC, city_name, keyword LIMIT \$4`).
		WithArgs("Torrance", "maid service", since, 10).
		WillReturnRows(rows)

	got, err := s.ListObservations(context.Background(), ObservationFilter{
		CityName: "Torrance",
		Keyword:  "maid service",
		Since:    since,
		Limit:    10,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListObservations_QueryError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM geo_observations`).
		WillReturnError(assert.AnError)

	_, err := s.ListObservations(context.Background(), ObservationFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list observations")
}
