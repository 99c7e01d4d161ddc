package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (sqlmock.Sqlmock, *RatingRepo, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return mock, NewRatingRepo(db), func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	}
}

func TestRateFilmRejectsOutOfRangeScore(t *testing.T) {
	_, repo, done := newMock(t)
	defer done()

	for _, score := range []int{0, 6, -1, 100} {
		err := repo.RateFilm(context.Background(), 1, 1, score)
		assert.ErrorIs(t, err, ErrInvalidScore, "score %d", score)
	}
	// no database expectations: nothing may be touched on rejection
}

func TestRateFilmUpsertsOnRepeat(t *testing.T) {
	mock, repo, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM films WHERE id = ? LIMIT 1")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE score = VALUES(score)")).
		WithArgs(uint64(3), uint64(7), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.RateFilm(context.Background(), 3, 7, 5))
}

func TestRateFilmMissingFilm(t *testing.T) {
	mock, repo, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM films WHERE id = ? LIMIT 1")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	err := repo.RateFilm(context.Background(), 3, 99, 4)
	assert.ErrorIs(t, err, ErrFilmNotFound)
}

func TestRateSeriesMissingUserMapsForeignKey(t *testing.T) {
	mock, repo, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM series WHERE id = ? LIMIT 1")).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO series_ratings")).
		WithArgs(uint64(42), uint64(4), 3).
		WillReturnError(assertableError("Error 1452: Cannot add or update a child row: a foreign key constraint fails"))

	err := repo.RateSeries(context.Background(), 42, 4, 3)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFilmAverage(t *testing.T) {
	mock, repo, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT AVG(score) FROM film_ratings WHERE film_id = ?")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(4.25))

	avg, err := repo.FilmAverage(context.Background(), 7)
	require.NoError(t, err)
	assert.InDelta(t, 4.25, avg, 1e-9)
}

func TestFilmAverageNoRatings(t *testing.T) {
	mock, repo, done := newMock(t)
	defer done()

	// AVG over zero rows yields SQL NULL
	mock.ExpectQuery(regexp.QuoteMeta("SELECT AVG(score) FROM film_ratings WHERE film_id = ?")).
		WithArgs(uint64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(nil))

	_, err := repo.FilmAverage(context.Background(), 8)
	assert.ErrorIs(t, err, ErrNoRatings)
}

func TestUserFilmRatingNotFound(t *testing.T) {
	mock, repo, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT score FROM film_ratings WHERE user_id = ? AND film_id = ?")).
		WithArgs(uint64(3), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"score"}))

	_, err := repo.UserFilmRating(context.Background(), 3, 7)
	assert.ErrorIs(t, err, ErrRatingNotFound)
}

func TestUserSeriesRating(t *testing.T) {
	mock, repo, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT score FROM series_ratings WHERE user_id = ? AND series_id = ?")).
		WithArgs(uint64(3), uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"score"}).AddRow(4))

	sr, err := repo.UserSeriesRating(context.Background(), 3, 9)
	require.NoError(t, err)
	assert.Equal(t, 4, sr.Score)
	assert.Equal(t, uint64(9), sr.SeriesID)
}

// assertableError is a plain error type for driving MySQL error paths.
type assertableError string

func (e assertableError) Error() string { return string(e) }
