package repository

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emirhankose/dizifilm-api/internal/model"
)

func filmRowCols() []string {
	return []string{"id", "title", "release_year", "summary", "poster_filename", "duration_min", "director_id", "created_at", "updated_at"}
}

func TestFilmValidation(t *testing.T) {
	_, db, done := newMockDB(t)
	defer done()
	repo := NewFilmRepo(db)

	err := repo.Create(context.Background(), &model.Film{Title: "   "}, nil, nil)
	assert.ErrorIs(t, err, ErrValidation)

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'x'
	}
	err = repo.Create(context.Background(), &model.Film{Title: string(long)}, nil, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFilmValidationCountsRunes(t *testing.T) {
	// a 200-character Turkish title is 400 bytes but still valid
	title := strings.Repeat("ş", 200)
	assert.NoError(t, validateFilm(&model.Film{Title: title}))
	assert.ErrorIs(t, validateFilm(&model.Film{Title: title + "ş"}), ErrValidation)
}

func TestFilmGetByIDNotFound(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewFilmRepo(db)

	mock.ExpectQuery("SELECT .+ FROM films WHERE id = ?").
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows(filmRowCols()))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrFilmNotFound)
}

func TestFilmDeleteIdempotent(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewFilmRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM films WHERE id = ?")).
		WithArgs(uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), 404))
}

func TestFilmUpdateMissing(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewFilmRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM films WHERE id = ? LIMIT 1")).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	err := repo.Update(context.Background(), &model.Film{ID: 404, Title: "Renamed"}, nil, nil)
	assert.ErrorIs(t, err, ErrFilmNotFound)
}

func TestFilmSetGenresClearsThenAdds(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewFilmRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM films WHERE id = ? LIMIT 1")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM film_genres WHERE film_id = ?")).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO film_genres (film_id, genre_id) VALUES (?,?)")).
		WithArgs(uint64(7), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO film_genres (film_id, genre_id) VALUES (?,?)")).
		WithArgs(uint64(7), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SetGenres(context.Background(), 7, []uint64{1, 3}))
}

func TestFilmSetActorsUnknownActor(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewFilmRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM films WHERE id = ? LIMIT 1")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM film_actors WHERE film_id = ?")).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO film_actors (film_id, actor_id) VALUES (?,?)")).
		WithArgs(uint64(7), uint64(999)).
		WillReturnError(assertableError("Error 1452: Cannot add or update a child row: a foreign key constraint fails"))
	mock.ExpectRollback()

	err := repo.SetActors(context.Background(), 7, []uint64{999})
	assert.ErrorIs(t, err, ErrActorNotFound)
}

func TestFilmSetGenresCommitFailure(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewFilmRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM films WHERE id = ? LIMIT 1")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM film_genres WHERE film_id = ?")).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO film_genres (film_id, genre_id) VALUES (?,?)")).
		WithArgs(uint64(7), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(assertableError("commit failed"))

	err := repo.SetGenres(context.Background(), 7, []uint64{1})
	assert.EqualError(t, err, "commit failed")
}

func TestFilmSearchEmptyResult(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewFilmRepo(db)

	mock.ExpectQuery("SELECT .+ FROM films f WHERE").
		WithArgs("%yilmaz%", "%yilmaz%").
		WillReturnRows(sqlmock.NewRows(filmRowCols()))

	films, err := repo.Search(context.Background(), FilmSearchQuery{Keyword: "Yilmaz"})
	require.NoError(t, err)
	assert.Empty(t, films)
	// no hydration queries fire for an empty batch
}

func TestFilmSearchEscapesLikeWildcards(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewFilmRepo(db)

	// "%100" must match as a literal substring, not as a wildcard
	mock.ExpectQuery("SELECT .+ FROM films f WHERE").
		WithArgs(`%\%100%`, `%\%100%`).
		WillReturnRows(sqlmock.NewRows(filmRowCols()))

	_, err := repo.Search(context.Background(), FilmSearchQuery{Keyword: "%100"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFilmUpdatePosterMissingFilm(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewFilmRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE films SET poster_filename = ? WHERE id = ?")).
		WithArgs("poster.jpg", uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM films WHERE id = ? LIMIT 1")).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	err := repo.UpdatePosterFilename(context.Background(), 404, "poster.jpg")
	assert.ErrorIs(t, err, ErrFilmNotFound)
}
