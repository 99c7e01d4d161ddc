package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/emirhankose/dizifilm-api/internal/model"
	"github.com/emirhankose/dizifilm-api/internal/repository"
)

// GenreHandler bundles the repositories for genre endpoints.  The film
// and series repositories back the per-genre catalog listings.
type GenreHandler struct {
	Genres *repository.GenreRepo
	Films  *repository.FilmRepo
	Series *repository.SeriesRepo
}

func NewGenreHandler(g *repository.GenreRepo, f *repository.FilmRepo, s *repository.SeriesRepo) *GenreHandler {
	if g == nil || f == nil || s == nil {
		panic("nil repository passed to NewGenreHandler")
	}
	return &GenreHandler{Genres: g, Films: f, Series: s}
}

type genreReq struct {
	Name string `json:"name"`
}

// Create adds a genre; a case-insensitive duplicate name is a 409.
func (h *GenreHandler) Create(c echo.Context) error {
	var req genreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	g := &model.Genre{Name: req.Name}
	if err := h.Genres.Create(ctx, g); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, g)
}

// Get returns one genre.
func (h *GenreHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid genre id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	g, err := h.Genres.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// List returns genres, optionally filtered by a name substring via ?q=.
func (h *GenreHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	genres, err := h.Genres.List(ctx, c.QueryParam("q"))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, genres)
}

// Update renames a genre under the same uniqueness rule.
func (h *GenreHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid genre id"})
	}
	var req genreReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	g := &model.Genre{ID: id, Name: req.Name}
	if err := h.Genres.Update(ctx, g); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// Delete removes a genre; a genre still attached to any film or series
// is a 409.
func (h *GenreHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid genre id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Genres.Delete(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// FilmsOf lists the films tagged with the genre.
func (h *GenreHandler) FilmsOf(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid genre id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Genres.GetByID(ctx, id); err != nil {
		return repoError(c, err)
	}
	films, err := h.Films.ByGenre(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, films)
}

// SeriesOf lists the series tagged with the genre.
func (h *GenreHandler) SeriesOf(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid genre id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Genres.GetByID(ctx, id); err != nil {
		return repoError(c, err)
	}
	series, err := h.Series.ByGenre(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, series)
}
