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

func TestGenreCreate(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewGenreRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM genres WHERE LOWER(name) = LOWER(?) LIMIT 1")).
		WithArgs("Drama").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO genres (name) VALUES (?)")).
		WithArgs("Drama").
		WillReturnResult(sqlmock.NewResult(5, 1))

	g := &model.Genre{Name: "  Drama  "}
	require.NoError(t, repo.Create(context.Background(), g))
	assert.Equal(t, uint64(5), g.ID)
	assert.Equal(t, "Drama", g.Name, "name is trimmed before storage")
}

func TestGenreCreateCaseInsensitiveDuplicate(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewGenreRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM genres WHERE LOWER(name) = LOWER(?) LIMIT 1")).
		WithArgs("dRAMA").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	err := repo.Create(context.Background(), &model.Genre{Name: "dRAMA"})
	assert.ErrorIs(t, err, ErrGenreExists)
}

func TestGenreCreateBlankName(t *testing.T) {
	_, db, done := newMockDB(t)
	defer done()
	repo := NewGenreRepo(db)

	err := repo.Create(context.Background(), &model.Genre{Name: "   "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGenreUpdateAllowsCaseOnlyRename(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewGenreRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM genres WHERE id = ? LIMIT 1")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	// the clash probe excludes the genre itself, so renaming Drama -> DRAMA passes
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM genres WHERE LOWER(name) = LOWER(?) AND id <> ? LIMIT 1")).
		WithArgs("DRAMA", uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE genres SET name = ? WHERE id = ?")).
		WithArgs("DRAMA", uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), &model.Genre{ID: 5, Name: "DRAMA"}))
}

func TestGenreDeleteInUse(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewGenreRepo(db)

	mock.ExpectQuery("SELECT .+ FROM film_genres").
		WithArgs(uint64(5), uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"refs"}).AddRow(3))

	err := repo.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, ErrInUse)
}

func TestGenreDeleteUnreferenced(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewGenreRepo(db)

	mock.ExpectQuery("SELECT .+ FROM film_genres").
		WithArgs(uint64(5), uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"refs"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM genres WHERE id = ?")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), 5))
}

func TestGenreListWithKeyword(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewGenreRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM genres WHERE LOWER(name) LIKE ? ORDER BY name")).
		WithArgs("%dra%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(5, "Drama"))

	genres, err := repo.List(context.Background(), "Dra")
	require.NoError(t, err)
	require.Len(t, genres, 1)
	assert.Equal(t, "Drama", genres[0].Name)
}
