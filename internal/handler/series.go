package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/emirhankose/dizifilm-api/internal/model"
	"github.com/emirhankose/dizifilm-api/internal/queue"
	"github.com/emirhankose/dizifilm-api/internal/repository"
	queue_publisher "github.com/emirhankose/dizifilm-api/internal/service"
)

// SeriesHandler bundles the repositories the series endpoints need,
// covering the whole aggregate: series, seasons and episodes.
type SeriesHandler struct {
	Series  *repository.SeriesRepo
	Ratings *repository.RatingRepo
	Users   *repository.UserRepo
}

func NewSeriesHandler(s *repository.SeriesRepo, r *repository.RatingRepo, u *repository.UserRepo) *SeriesHandler {
	if s == nil || r == nil || u == nil {
		panic("nil repository passed to NewSeriesHandler")
	}
	return &SeriesHandler{Series: s, Ratings: r, Users: u}
}

// ----- DTOs -----

type seriesReq struct {
	Title          string   `json:"title"`
	ReleaseYear    *int     `json:"release_year"`
	Summary        *string  `json:"summary"`
	PosterFilename *string  `json:"poster_filename"`
	Status         string   `json:"status"`
	DirectorID     *uint64  `json:"director_id"`
	GenreIDs       []uint64 `json:"genre_ids"`
	ActorIDs       []uint64 `json:"actor_ids"`
}

type seasonReq struct {
	Number  int        `json:"number"`
	Name    *string    `json:"name"`
	AirDate *time.Time `json:"air_date"`
}

type episodeReq struct {
	Number      int        `json:"number"`
	Name        *string    `json:"name"`
	Summary     *string    `json:"summary"`
	AirDate     *time.Time `json:"air_date"`
	DurationMin *int       `json:"duration_min"`
}

func (req *seriesReq) toModel() *model.Series {
	status, _ := model.ParseSeriesStatus(req.Status)
	return &model.Series{
		Title:          req.Title,
		ReleaseYear:    req.ReleaseYear,
		Summary:        req.Summary,
		PosterFilename: req.PosterFilename,
		Status:         status,
		DirectorID:     req.DirectorID,
	}
}

// Create adds a series to the catalog.  An unrecognized status name
// lands on "unknown" instead of failing the request.
func (h *SeriesHandler) Create(c echo.Context) error {
	var req seriesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	s := req.toModel()
	if err := h.Series.Create(ctx, s, req.GenreIDs, req.ActorIDs); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

// Get returns one series with director, genres, cast, the full season
// and episode chain and its individual ratings.
func (h *SeriesHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid series id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	s, err := h.Series.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// List searches the series catalog; criteria combine with AND.  The
// optional status parameter narrows to one broadcast status.
func (h *SeriesHandler) List(c echo.Context) error {
	q := repository.SeriesSearchQuery{
		Keyword:    c.QueryParam("q"),
		Year:       queryInt(c, "year"),
		GenreID:    queryUint64(c, "genre_id"),
		ActorID:    queryUint64(c, "actor_id"),
		DirectorID: queryUint64(c, "director_id"),
	}
	if s := c.QueryParam("status"); s != "" {
		if parsed, ok := model.ParseSeriesStatus(s); ok {
			q.Status = &parsed
		} else {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	series, err := h.Series.Search(ctx, q)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, series)
}

// Update replaces the series' scalar fields; genre and cast lists are
// replaced only when present in the body.
func (h *SeriesHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid series id"})
	}
	var req seriesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	s := req.toModel()
	s.ID = id
	if err := h.Series.Update(ctx, s, req.GenreIDs, req.ActorIDs); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// Delete removes a series along with its seasons, episodes, ratings
// and list memberships.
func (h *SeriesHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid series id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Series.Delete(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetGenres replaces the series' genre tags with the provided set.
func (h *SeriesHandler) SetGenres(c echo.Context) error {
	return h.setRelation(c, h.Series.SetGenres)
}

// SetActors replaces the series' cast with the provided set.
func (h *SeriesHandler) SetActors(c echo.Context) error {
	return h.setRelation(c, h.Series.SetActors)
}

func (h *SeriesHandler) setRelation(c echo.Context, set func(context.Context, uint64, []uint64) error) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid series id"})
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
	s, err := h.Series.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// UpdatePoster stores the filename assigned by the upload layer.
func (h *SeriesHandler) UpdatePoster(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid series id"})
	}
	var req posterReq
	if err := c.Bind(&req); err != nil || req.Filename == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "filename required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Series.UpdatePosterFilename(ctx, id, req.Filename); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- seasons -----

// AddSeason creates a season under the series.
func (h *SeriesHandler) AddSeason(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid series id"})
	}
	var req seasonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	s := &model.Season{Number: req.Number, Name: req.Name, AirDate: req.AirDate}
	if err := h.Series.AddSeason(ctx, id, s); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

// GetSeason returns one season with its episodes.
func (h *SeriesHandler) GetSeason(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid season id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	s, err := h.Series.GetSeason(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// ListSeasons returns the series' seasons in broadcast order.
func (h *SeriesHandler) ListSeasons(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid series id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if _, err := h.Series.GetByID(ctx, id); err != nil {
		return repoError(c, err)
	}
	seasons, err := h.Series.SeasonsBySeries(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, seasons)
}

// UpdateSeason changes a season's number, name or air date.
func (h *SeriesHandler) UpdateSeason(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid season id"})
	}
	var req seasonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	s := &model.Season{ID: id, Number: req.Number, Name: req.Name, AirDate: req.AirDate}
	if err := h.Series.UpdateSeason(ctx, s); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// DeleteSeason removes a season and its episodes.
func (h *SeriesHandler) DeleteSeason(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid season id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Series.DeleteSeason(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- episodes -----

// AddEpisode creates an episode under the season.
func (h *SeriesHandler) AddEpisode(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid season id"})
	}
	var req episodeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	e := &model.Episode{Number: req.Number, Name: req.Name, Summary: req.Summary, AirDate: req.AirDate, DurationMin: req.DurationMin}
	if err := h.Series.AddEpisode(ctx, id, e); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}

// GetEpisode returns one episode.
func (h *SeriesHandler) GetEpisode(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid episode id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	e, err := h.Series.GetEpisode(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// UpdateEpisode changes an episode's scalar fields.
func (h *SeriesHandler) UpdateEpisode(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid episode id"})
	}
	var req episodeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	e := &model.Episode{ID: id, Number: req.Number, Name: req.Name, Summary: req.Summary, AirDate: req.AirDate, DurationMin: req.DurationMin}
	if err := h.Series.UpdateEpisode(ctx, e); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// DeleteEpisode removes an episode.
func (h *SeriesHandler) DeleteEpisode(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid episode id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Series.DeleteEpisode(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- ratings -----

// Rate stores the caller's score for the series and publishes a
// rating.submitted event once the write is safe.
func (h *SeriesHandler) Rate(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid series id"})
	}
	var req rateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Ratings.RateSeries(ctx, uid, id, req.Score); err != nil {
		return repoError(c, err)
	}
	avg, err := h.Ratings.SeriesAverage(ctx, id)
	if err != nil {
		return repoError(c, err)
	}

	go h.publishRating(uid, id, req.Score, avg)

	return c.JSON(http.StatusOK, ratingResp{Score: req.Score, Average: avg})
}

func (h *SeriesHandler) publishRating(userID, seriesID uint64, score int, avg float64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := queue.RatingSubmittedEvent{
		UserID:      userID,
		ItemKind:    "series",
		ItemID:      seriesID,
		Score:       score,
		NewAverage:  avg,
		SubmittedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if u, err := h.Users.GetByID(ctx, userID); err == nil {
		ev.Username = u.Username
	}
	if s, err := h.Series.GetByID(ctx, seriesID); err == nil {
		ev.ItemTitle = s.Title
	}
	_ = queue_publisher.PublishRatingSubmitted(ctx, ev)
}

// MyRating returns the caller's stored score for the series.
func (h *SeriesHandler) MyRating(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid series id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	sr, err := h.Ratings.UserSeriesRating(ctx, uid, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, sr)
}

// AverageRating returns the series' mean score; 404 when nobody has
// rated it yet.
func (h *SeriesHandler) AverageRating(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid series id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	avg, err := h.Ratings.SeriesAverage(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, averageResp{Average: avg})
}
