package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectorDeleteInUse(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewDirectorRepo(db)

	// one film still credits the director, so the guard refuses
	mock.ExpectQuery("SELECT .+ FROM films WHERE director_id").
		WithArgs(uint64(9), uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"refs"}).AddRow(1))

	err := repo.Delete(context.Background(), 9)
	assert.ErrorIs(t, err, ErrInUse)
}

func TestDirectorDeleteUnreferenced(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewDirectorRepo(db)

	mock.ExpectQuery("SELECT .+ FROM films WHERE director_id").
		WithArgs(uint64(9), uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"refs"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM directors WHERE id = ?")).
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), 9))
}

func TestDirectorSearchEscapesLikeWildcards(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewDirectorRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, birth_date, biography, photo_filename, created_at, updated_at FROM directors WHERE LOWER(name) LIKE ? ORDER BY name")).
		WithArgs(`%y\_lmaz%`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "birth_date", "biography", "photo_filename", "created_at", "updated_at"}))

	out, err := repo.Search(context.Background(), "Y_lmaz")
	require.NoError(t, err)
	assert.Empty(t, out)
}
