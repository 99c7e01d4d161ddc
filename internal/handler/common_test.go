package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emirhankose/dizifilm-api/internal/repository"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestGetUserIDShapes(t *testing.T) {
	c, _ := newTestContext(t)

	// jwt decodes numeric claims as float64
	c.Set("user_id", float64(42))
	uid, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)

	c.Set("user_id", uint64(7))
	uid, err = getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), uid)

	c.Set("user_id", "13")
	uid, err = getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(13), uid)

	c.Set("user_id", nil)
	_, err = getUserID(c)
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	c, _ := newTestContext(t)
	c.SetParamNames("id")
	c.SetParamValues("17")

	id, ok := parseID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, uint64(17), id)

	c.SetParamValues("0")
	_, ok = parseID(c, "id")
	assert.False(t, ok)

	c.SetParamValues("abc")
	_, ok = parseID(c, "id")
	assert.False(t, ok)
}

func TestRepoErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{repository.ErrValidation, http.StatusBadRequest},
		{repository.ErrInvalidScore, http.StatusBadRequest},
		{repository.ErrWrongPassword, http.StatusBadRequest},
		{repository.ErrInvalidCredentials, http.StatusUnauthorized},
		{repository.ErrForbidden, http.StatusForbidden},
		{repository.ErrFilmNotFound, http.StatusNotFound},
		{repository.ErrListNotFound, http.StatusNotFound},
		{repository.ErrNotInList, http.StatusNotFound},
		{repository.ErrNoRatings, http.StatusNotFound},
		{repository.ErrGenreExists, http.StatusConflict},
		{repository.ErrListNameExists, http.StatusConflict},
		{repository.ErrInUse, http.StatusConflict},
		{assertedErr("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		c, rec := newTestContext(t)
		require.NoError(t, repoError(c, tc.err))
		assert.Equal(t, tc.code, rec.Code, "error %v", tc.err)
	}
}

type assertedErr string

func (e assertedErr) Error() string { return string(e) }
