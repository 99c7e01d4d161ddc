package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/emirhankose/dizifilm-api/internal/model"
	"github.com/emirhankose/dizifilm-api/internal/repository"
)

// DirectorHandler bundles the repositories for director endpoints.
type DirectorHandler struct {
	Directors *repository.DirectorRepo
	Films     *repository.FilmRepo
	Series    *repository.SeriesRepo
}

func NewDirectorHandler(d *repository.DirectorRepo, f *repository.FilmRepo, s *repository.SeriesRepo) *DirectorHandler {
	if d == nil || f == nil || s == nil {
		panic("nil repository passed to NewDirectorHandler")
	}
	return &DirectorHandler{Directors: d, Films: f, Series: s}
}

// Create adds a director.
func (h *DirectorHandler) Create(c echo.Context) error {
	var req personReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	d := &model.Director{Name: req.Name, BirthDate: req.BirthDate, Biography: req.Biography, PhotoFilename: req.PhotoFilename}
	if err := h.Directors.Create(ctx, d); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

// Get returns one director with film and series credits.
func (h *DirectorHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid director id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	d, err := h.Directors.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// List returns directors, optionally filtered by a name substring via ?q=.
func (h *DirectorHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	directors, err := h.Directors.Search(ctx, c.QueryParam("q"))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, directors)
}

// Update applies scalar changes to a director.
func (h *DirectorHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid director id"})
	}
	var req personReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	d := &model.Director{ID: id, Name: req.Name, BirthDate: req.BirthDate, Biography: req.Biography, PhotoFilename: req.PhotoFilename}
	if err := h.Directors.Update(ctx, d); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// UpdatePhoto stores the portrait filename assigned by the upload layer.
func (h *DirectorHandler) UpdatePhoto(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid director id"})
	}
	var req photoReq
	if err := c.Bind(&req); err != nil || req.Filename == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "filename required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Directors.UpdatePhotoFilename(ctx, id, req.Filename); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a director; one still credited anywhere is a 409.
func (h *DirectorHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid director id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Directors.Delete(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// FilmsOf lists the films credited to the director, fully hydrated.
func (h *DirectorHandler) FilmsOf(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid director id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Directors.GetByID(ctx, id); err != nil {
		return repoError(c, err)
	}
	films, err := h.Films.ByDirector(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, films)
}

// SeriesOf lists the series credited to the director.
func (h *DirectorHandler) SeriesOf(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid director id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Directors.GetByID(ctx, id); err != nil {
		return repoError(c, err)
	}
	series, err := h.Series.ByDirector(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, series)
}
