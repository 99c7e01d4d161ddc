package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/emirhankose/dizifilm-api/internal/model"
	"github.com/emirhankose/dizifilm-api/internal/queue"
	"github.com/emirhankose/dizifilm-api/internal/repository"
	queue_publisher "github.com/emirhankose/dizifilm-api/internal/service"
)

// FilmHandler bundles the repositories the film endpoints need.  The
// rating and user repositories are present so a submitted rating can be
// enriched into a broker event without a second request.
type FilmHandler struct {
	Films   *repository.FilmRepo
	Ratings *repository.RatingRepo
	Users   *repository.UserRepo
}

func NewFilmHandler(f *repository.FilmRepo, r *repository.RatingRepo, u *repository.UserRepo) *FilmHandler {
	if f == nil || r == nil || u == nil {
		panic("nil repository passed to NewFilmHandler")
	}
	return &FilmHandler{Films: f, Ratings: r, Users: u}
}

// ----- DTOs -----

type filmReq struct {
	Title          string   `json:"title"`
	ReleaseYear    *int     `json:"release_year"`
	Summary        *string  `json:"summary"`
	PosterFilename *string  `json:"poster_filename"`
	DurationMin    *int     `json:"duration_min"`
	DirectorID     *uint64  `json:"director_id"`
	GenreIDs       []uint64 `json:"genre_ids"`
	ActorIDs       []uint64 `json:"actor_ids"`
}

type posterReq struct {
	Filename string `json:"filename"`
}

type idListReq struct {
	IDs []uint64 `json:"ids"`
}

type rateReq struct {
	Score int `json:"score"`
}

type ratingResp struct {
	Score   int     `json:"score"`
	Average float64 `json:"average"`
}

type averageResp struct {
	Average float64 `json:"average"`
}

func (req *filmReq) toModel() *model.Film {
	return &model.Film{
		Title:          req.Title,
		ReleaseYear:    req.ReleaseYear,
		Summary:        req.Summary,
		PosterFilename: req.PosterFilename,
		DurationMin:    req.DurationMin,
		DirectorID:     req.DirectorID,
	}
}

// queryUint64 reads an optional numeric query parameter.
func queryUint64(c echo.Context, name string) *uint64 {
	if s := c.QueryParam(name); s != "" {
		if n, err := strconv.ParseUint(s, 10, 64); err == nil && n > 0 {
			return &n
		}
	}
	return nil
}

// queryInt reads an optional signed numeric query parameter.
func queryInt(c echo.Context, name string) *int {
	if s := c.QueryParam(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return &n
		}
	}
	return nil
}

// Create adds a film to the catalog, optionally tagging genres and
// cast in the same call.
func (h *FilmHandler) Create(c echo.Context) error {
	var req filmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	f := req.toModel()
	if err := h.Films.Create(ctx, f, req.GenreIDs, req.ActorIDs); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}

// Get returns one film with director, genres and cast hydrated.
func (h *FilmHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	f, err := h.Films.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

// List searches the film catalog.  All criteria arrive as query
// parameters and combine with AND; with none present the whole catalog
// comes back.
func (h *FilmHandler) List(c echo.Context) error {
	q := repository.FilmSearchQuery{
		Keyword:    c.QueryParam("q"),
		Year:       queryInt(c, "year"),
		GenreID:    queryUint64(c, "genre_id"),
		ActorID:    queryUint64(c, "actor_id"),
		DirectorID: queryUint64(c, "director_id"),
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	films, err := h.Films.Search(ctx, q)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, films)
}

// Update replaces the film's scalar fields; genre and cast lists are
// replaced only when present in the body.
func (h *FilmHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}
	var req filmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	f := req.toModel()
	f.ID = id
	if err := h.Films.Update(ctx, f, req.GenreIDs, req.ActorIDs); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

// Delete removes a film.  Ratings and list memberships cascade away;
// repeating the call is a 204 either way.
func (h *FilmHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Films.Delete(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetGenres replaces the film's genre tags with the provided set.
func (h *FilmHandler) SetGenres(c echo.Context) error {
	return h.setRelation(c, h.Films.SetGenres)
}

// SetActors replaces the film's cast with the provided set.
func (h *FilmHandler) SetActors(c echo.Context) error {
	return h.setRelation(c, h.Films.SetActors)
}

func (h *FilmHandler) setRelation(c echo.Context, set func(context.Context, uint64, []uint64) error) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}
	var req idListReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := set(ctx, id, req.IDs); err != nil {
		return repoError(c, err)
	}
	f, err := h.Films.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

// UpdatePoster stores the filename assigned by the upload layer.
func (h *FilmHandler) UpdatePoster(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}
	var req posterReq
	if err := c.Bind(&req); err != nil || req.Filename == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "filename required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Films.UpdatePosterFilename(ctx, id, req.Filename); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Rate stores the caller's score for the film, overwriting any prior
// one, and publishes a rating.submitted event once the write is safe.
func (h *FilmHandler) Rate(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}
	var req rateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Ratings.RateFilm(ctx, uid, id, req.Score); err != nil {
		return repoError(c, err)
	}
	avg, err := h.Ratings.FilmAverage(ctx, id)
	if err != nil {
		return repoError(c, err)
	}

	go h.publishRating(uid, id, req.Score, avg)

	return c.JSON(http.StatusOK, ratingResp{Score: req.Score, Average: avg})
}

// publishRating enriches and publishes the event off the request path.
// The rating is already stored, so every failure here is log-only.
func (h *FilmHandler) publishRating(userID, filmID uint64, score int, avg float64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := queue.RatingSubmittedEvent{
		UserID:      userID,
		ItemKind:    "film",
		ItemID:      filmID,
		Score:       score,
		NewAverage:  avg,
		SubmittedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if u, err := h.Users.GetByID(ctx, userID); err == nil {
		ev.Username = u.Username
	}
	if f, err := h.Films.GetByID(ctx, filmID); err == nil {
		ev.ItemTitle = f.Title
	}
	_ = queue_publisher.PublishRatingSubmitted(ctx, ev)
}

// MyRating returns the caller's stored score for the film.
func (h *FilmHandler) MyRating(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	fr, err := h.Ratings.UserFilmRating(ctx, uid, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, fr)
}

// AverageRating returns the film's mean score; a film nobody has rated
// yet reports 404 rather than a misleading zero.
func (h *FilmHandler) AverageRating(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	avg, err := h.Ratings.FilmAverage(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, averageResp{Average: avg})
}
