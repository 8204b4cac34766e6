package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tourCols = []string{"id", "slug", "title", "duration", "price_label", "unit_price_cents",
	"description", "image_url", "location", "rating", "review_count"}

func TestTourRepoGetBySlugWithOptionalFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM tours WHERE slug = ?").WithArgs("cliffs-of-moher-day-trip").
		WillReturnRows(sqlmock.NewRows(tourCols).AddRow(uint64(2), "cliffs-of-moher-day-trip",
			"Cliffs of Moher Day Trip", "Full day", "€75", int64(7500), "desc", "img",
			"County Clare", 4.9, int32(128)))

	tour, err := NewTourRepo(db).GetBySlug(context.Background(), "cliffs-of-moher-day-trip")
	require.NoError(t, err)
	assert.Equal(t, "Cliffs of Moher Day Trip", tour.Title)
	require.NotNil(t, tour.Location)
	assert.Equal(t, "County Clare", *tour.Location)
	require.NotNil(t, tour.ReviewCount)
	assert.Equal(t, uint32(128), *tour.ReviewCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepoListNullOptionals(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM tours ORDER BY id").
		WillReturnRows(sqlmock.NewRows(tourCols).AddRow(uint64(1), "dublin-city-highlights",
			"Dublin City Highlights", "3 hours", "€35", int64(3500), "desc", "img", nil, nil, nil))

	tours, err := NewTourRepo(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, tours, 1)
	assert.Nil(t, tours[0].Location)
	assert.Nil(t, tours[0].Rating)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepoGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM tours WHERE id = ?").WithArgs(uint64(9)).WillReturnError(sql.ErrNoRows)
	_, err = NewTourRepo(db).Get(context.Background(), 9)
	assert.ErrorIs(t, err, ErrTourNotFound)
}
