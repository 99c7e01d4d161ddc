package handler // handler defines http handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/emirhankose/dizifilm-api/internal/repository"
)

// dbTimeout bounds every repository call issued from a handler.
const dbTimeout = 5 * time.Second

// reqContext derives a bounded context from the incoming request.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// getUserID extracts the user_id placed in the context by the JWT
// middleware and converts it to uint64.  The jwt library decodes
// numeric claims as float64, so the switch covers that along with the
// shapes tests inject directly.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parseID reads a numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// repoError maps the repository sentinels onto HTTP responses so every
// handler reports the same status for the same failure class.
func repoError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrInvalidScore):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrWrongPassword):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrFilmNotFound),
		errors.Is(err, repository.ErrSeriesNotFound),
		errors.Is(err, repository.ErrSeasonNotFound),
		errors.Is(err, repository.ErrEpisodeNotFound),
		errors.Is(err, repository.ErrActorNotFound),
		errors.Is(err, repository.ErrDirectorNotFound),
		errors.Is(err, repository.ErrGenreNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrListNotFound),
		errors.Is(err, repository.ErrRatingNotFound),
		errors.Is(err, repository.ErrNotInList),
		errors.Is(err, repository.ErrNoRatings):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrGenreExists),
		errors.Is(err, repository.ErrUsernameExists),
		errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, repository.ErrListNameExists),
		errors.Is(err, repository.ErrInUse):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
