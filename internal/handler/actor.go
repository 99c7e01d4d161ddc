package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/emirhankose/dizifilm-api/internal/model"
	"github.com/emirhankose/dizifilm-api/internal/repository"
)

// ActorHandler bundles the repositories for actor endpoints.
type ActorHandler struct {
	Actors *repository.ActorRepo
	Films  *repository.FilmRepo
	Series *repository.SeriesRepo
}

func NewActorHandler(a *repository.ActorRepo, f *repository.FilmRepo, s *repository.SeriesRepo) *ActorHandler {
	if a == nil || f == nil || s == nil {
		panic("nil repository passed to NewActorHandler")
	}
	return &ActorHandler{Actors: a, Films: f, Series: s}
}

type personReq struct {
	Name          string     `json:"name"`
	BirthDate     *time.Time `json:"birth_date"`
	Biography     *string    `json:"biography"`
	PhotoFilename *string    `json:"photo_filename"`
}

type photoReq struct {
	Filename string `json:"filename"`
}

// Create adds an actor.
func (h *ActorHandler) Create(c echo.Context) error {
	var req personReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	a := &model.Actor{Name: req.Name, BirthDate: req.BirthDate, Biography: req.Biography, PhotoFilename: req.PhotoFilename}
	if err := h.Actors.Create(ctx, a); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

// Get returns one actor with film and series credits.
func (h *ActorHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actor id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	a, err := h.Actors.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// List returns actors, optionally filtered by a name substring via ?q=.
func (h *ActorHandler) List(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	actors, err := h.Actors.Search(ctx, c.QueryParam("q"))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, actors)
}

// Update applies scalar changes to an actor.
func (h *ActorHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actor id"})
	}
	var req personReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	a := &model.Actor{ID: id, Name: req.Name, BirthDate: req.BirthDate, Biography: req.Biography, PhotoFilename: req.PhotoFilename}
	if err := h.Actors.Update(ctx, a); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// UpdatePhoto stores the portrait filename assigned by the upload layer.
func (h *ActorHandler) UpdatePhoto(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actor id"})
	}
	var req photoReq
	if err := c.Bind(&req); err != nil || req.Filename == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "filename required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Actors.UpdatePhotoFilename(ctx, id, req.Filename); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes an actor; one still cast anywhere is a 409.
func (h *ActorHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actor id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Actors.Delete(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// FilmsOf lists the films the actor appears in, fully hydrated.
func (h *ActorHandler) FilmsOf(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actor id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Actors.GetByID(ctx, id); err != nil {
		return repoError(c, err)
	}
	films, err := h.Films.ByActor(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, films)
}

// SeriesOf lists the series the actor appears in.
func (h *ActorHandler) SeriesOf(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actor id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Actors.GetByID(ctx, id); err != nil {
		return repoError(c, err)
	}
	series, err := h.Series.ByActor(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, series)
}
