package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/emirhankose/dizifilm-api/internal/model"
	"github.com/emirhankose/dizifilm-api/internal/repository"
)

// ListHandler bundles the repository for user-list endpoints.  Every
// operation here is owner-scoped: the caller id comes from the JWT and
// touching another user's list is a 403, including reads.
type ListHandler struct {
	Lists *repository.ListRepo
}

func NewListHandler(l *repository.ListRepo) *ListHandler {
	if l == nil {
		panic("nil repository passed to NewListHandler")
	}
	return &ListHandler{Lists: l}
}

type listReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type listItemReq struct {
	FilmID   *uint64 `json:"film_id"`
	SeriesID *uint64 `json:"series_id"`
}

// ownedList loads the list and enforces that the caller owns it.
func (h *ListHandler) ownedList(ctx context.Context, c echo.Context, listID uint64) (*model.UserList, error) {
	uid, err := getUserID(c)
	if err != nil {
		return nil, err
	}
	l, err := h.Lists.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != uid {
		return nil, repository.ErrForbidden
	}
	return l, nil
}

// Create makes a new list owned by the caller.
func (h *ListHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	var req listReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	l := &model.UserList{OwnerID: uid, Name: req.Name, Description: req.Description}
	if err := h.Lists.Create(ctx, l); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

// Get returns one of the caller's lists with membership hydrated.
func (h *ListHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid list id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	l, err := h.ownedList(ctx, c, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

// Mine returns all of the caller's lists without membership.
func (h *ListHandler) Mine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	lists, err := h.Lists.ListsByOwner(ctx, uid)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, lists)
}

// Update renames one of the caller's lists or changes its description.
func (h *ListHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid list id"})
	}
	var req listReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.ownedList(ctx, c, id); err != nil {
		return repoError(c, err)
	}
	l := &model.UserList{ID: id, Name: req.Name, Description: req.Description}
	if err := h.Lists.Update(ctx, l); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

// Delete removes one of the caller's lists.
func (h *ListHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid list id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.ownedList(ctx, c, id); err != nil {
		return repoError(c, err)
	}
	if err := h.Lists.Delete(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddItem puts a film or series into the list.  Exactly one of film_id
// and series_id must be present; re-adding a member is a success.
func (h *ListHandler) AddItem(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid list id"})
	}
	var req listItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if (req.FilmID == nil) == (req.SeriesID == nil) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "exactly one of film_id or series_id required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.ownedList(ctx, c, id); err != nil {
		return repoError(c, err)
	}
	var err error
	if req.FilmID != nil {
		err = h.Lists.AddFilm(ctx, id, *req.FilmID)
	} else {
		err = h.Lists.AddSeries(ctx, id, *req.SeriesID)
	}
	if err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveItem takes a film or series out of the list; removing a
// non-member is a 404.
func (h *ListHandler) RemoveItem(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid list id"})
	}
	var req listItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if (req.FilmID == nil) == (req.SeriesID == nil) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "exactly one of film_id or series_id required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.ownedList(ctx, c, id); err != nil {
		return repoError(c, err)
	}
	var err error
	if req.FilmID != nil {
		err = h.Lists.RemoveFilm(ctx, id, *req.FilmID)
	} else {
		err = h.Lists.RemoveSeries(ctx, id, *req.SeriesID)
	}
	if err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
