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

func TestAddSeasonMissingSeries(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewSeriesRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM series WHERE id = ? LIMIT 1")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	err := repo.AddSeason(context.Background(), 99, &model.Season{Number: 1})
	assert.ErrorIs(t, err, ErrSeriesNotFound)
}

func TestAddSeasonRejectsNonPositiveNumber(t *testing.T) {
	_, db, done := newMockDB(t)
	defer done()
	repo := NewSeriesRepo(db)

	err := repo.AddSeason(context.Background(), 1, &model.Season{Number: 0})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddSeason(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewSeriesRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM series WHERE id = ? LIMIT 1")).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO seasons (series_id, number, name, air_date) VALUES (?,?,?,?)")).
		WithArgs(uint64(4), 2, nil, nil).
		WillReturnResult(sqlmock.NewResult(31, 1))

	s := &model.Season{Number: 2}
	require.NoError(t, repo.AddSeason(context.Background(), 4, s))
	assert.Equal(t, uint64(31), s.ID)
	assert.Equal(t, uint64(4), s.SeriesID)
	assert.NotNil(t, s.Episodes)
}

func TestUpdateEpisodeMissing(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewSeriesRepo(db)

	mock.ExpectExec("UPDATE episodes SET").
		WithArgs(3, nil, nil, nil, nil, uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM episodes WHERE id = ? LIMIT 1")).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	err := repo.UpdateEpisode(context.Background(), &model.Episode{ID: 404, Number: 3})
	assert.ErrorIs(t, err, ErrEpisodeNotFound)
}

func TestEpisodesBySeasonOrdered(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewSeriesRepo(db)

	mock.ExpectQuery("SELECT .+ FROM episodes WHERE season_id = \\? ORDER BY number").
		WithArgs(uint64(31)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "season_id", "number", "name", "summary", "air_date", "duration_min"}).
			AddRow(1, 31, 1, "Pilot", nil, nil, 45).
			AddRow(2, 31, 2, nil, nil, nil, nil))

	eps, err := repo.EpisodesBySeason(context.Background(), 31)
	require.NoError(t, err)
	require.Len(t, eps, 2)
	assert.Equal(t, 1, eps[0].Number)
	assert.Equal(t, "Pilot", *eps[0].Name)
	assert.Nil(t, eps[1].Name)
}
