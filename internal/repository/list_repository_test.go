package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emirhankose/dizifilm-api/internal/model"
)

func TestListCreateNameTakenForOwner(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewListRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM user_lists WHERE user_id = ? AND LOWER(name) = LOWER(?) LIMIT 1")).
		WithArgs(uint64(1), "Favorites").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))

	err := repo.Create(context.Background(), &model.UserList{OwnerID: 1, Name: "Favorites"})
	assert.ErrorIs(t, err, ErrListNameExists)
}

func TestListCreateSameNameDifferentOwner(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewListRepo(db)

	// owner 2 can reuse a name owner 1 already has: the probe is per owner
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM user_lists WHERE user_id = ? AND LOWER(name) = LOWER(?) LIMIT 1")).
		WithArgs(uint64(2), "Favorites").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_lists (user_id, name, description) VALUES (?,?,?)")).
		WithArgs(uint64(2), "Favorites", nil).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery("SELECT .+ FROM user_lists WHERE id = ?").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "description", "created_at", "updated_at"}).
			AddRow(11, 2, "Favorites", nil, nowStamp(), nowStamp()))

	l := &model.UserList{OwnerID: 2, Name: "Favorites"}
	require.NoError(t, repo.Create(context.Background(), l))
	assert.Equal(t, uint64(11), l.ID)
}

func TestListAddFilmIdempotent(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewListRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM user_lists WHERE id = ? LIMIT 1")).
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM films WHERE id = ? LIMIT 1")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	// INSERT IGNORE affects zero rows on repeat; still a success
	mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO user_list_films (list_id, film_id) VALUES (?,?)")).
		WithArgs(uint64(10), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.AddFilm(context.Background(), 10, 7))
}

func TestListAddFilmMissingList(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewListRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM user_lists WHERE id = ? LIMIT 1")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	err := repo.AddFilm(context.Background(), 99, 7)
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestListAddSeriesMissingSeries(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewListRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM user_lists WHERE id = ? LIMIT 1")).
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM series WHERE id = ? LIMIT 1")).
		WithArgs(uint64(50)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	err := repo.AddSeries(context.Background(), 10, 50)
	assert.ErrorIs(t, err, ErrSeriesNotFound)
}

func TestListRemoveFilmNotMember(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewListRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM user_lists WHERE id = ? LIMIT 1")).
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_list_films WHERE list_id = ? AND film_id = ?")).
		WithArgs(uint64(10), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.RemoveFilm(context.Background(), 10, 7)
	assert.ErrorIs(t, err, ErrNotInList)
}

func TestFilmsInListEmptyForUnknownList(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewListRepo(db)

	mock.ExpectQuery("SELECT .+ FROM films f").
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{
			"f.id", "f.title", "f.release_year", "f.summary", "f.poster_filename",
			"f.duration_min", "f.director_id", "f.created_at", "f.updated_at",
		}))

	films, err := repo.FilmsInList(context.Background(), 404)
	require.NoError(t, err)
	assert.NotNil(t, films)
	assert.Empty(t, films)
}
