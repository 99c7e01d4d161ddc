// Persistence for series.  Same contract as the film repository plus
// the broadcast status and the owned season/episode chain (see
// series_seasons.go for that half).
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/emirhankose/dizifilm-api/internal/model"
)

const seriesColumns = "id, title, release_year, summary, poster_filename, status, director_id, created_at, updated_at"

// SeriesRepo encapsulates all database queries related to series,
// their seasons and their episodes.
type SeriesRepo struct {
	db *sql.DB
}

// NewSeriesRepo constructs a SeriesRepo with the provided DB handle.
func NewSeriesRepo(db *sql.DB) *SeriesRepo {
	return &SeriesRepo{db: db}
}

func validateSeries(s *model.Series) error {
	s.Title = strings.TrimSpace(s.Title)
	if s.Title == "" {
		return validationErrorf("title is required")
	}
	if utf8.RuneCountInString(s.Title) > 200 {
		return validationErrorf("title exceeds 200 characters")
	}
	if s.Summary != nil && utf8.RuneCountInString(*s.Summary) > 1000 {
		return validationErrorf("summary exceeds 1000 characters")
	}
	return nil
}

// Create inserts the base series row first, then attaches the optional
// relationship sets; see FilmRepo.Create for the id-list contract.
func (r *SeriesRepo) Create(ctx context.Context, s *model.Series, genreIDs, actorIDs []uint64) error {
	if err := validateSeries(s); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO series (title, release_year, summary, poster_filename, status, director_id)
		 VALUES (?,?,?,?,?,?)`,
		s.Title, s.ReleaseYear, s.Summary, s.PosterFilename, uint8(s.Status), s.DirectorID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrDirectorNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	if len(genreIDs) > 0 {
		if err := r.SetGenres(ctx, s.ID, genreIDs); err != nil {
			return err
		}
	}
	if len(actorIDs) > 0 {
		if err := r.SetActors(ctx, s.ID, actorIDs); err != nil {
			return err
		}
	}

	stored, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *stored
	return nil
}

// GetByID fetches one series with director, genres, actors, the full
// season/episode chain and its ratings hydrated.
func (r *SeriesRepo) GetByID(ctx context.Context, id uint64) (*model.Series, error) {
	q := "SELECT " + seriesColumns + " FROM series WHERE id = ?"
	s, err := scanSeries(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeriesNotFound
		}
		return nil, err
	}
	if err := r.hydrate(ctx, []*model.Series{s}); err != nil {
		return nil, err
	}
	seasons, err := r.SeasonsBySeries(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Seasons = seasons
	ratings, err := r.ratingsFor(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Ratings = ratings
	return s, nil
}

// Update applies scalar fields and the relationship replacement rule.
// Reports ErrSeriesNotFound when the target id does not exist.
func (r *SeriesRepo) Update(ctx context.Context, s *model.Series, genreIDs, actorIDs []uint64) error {
	if err := validateSeries(s); err != nil {
		return err
	}
	ok, err := rowExists(ctx, r.db, "series", s.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSeriesNotFound
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE series
		 SET title = ?, release_year = ?, summary = ?, poster_filename = ?, status = ?, director_id = ?
		 WHERE id = ?`,
		s.Title, s.ReleaseYear, s.Summary, s.PosterFilename, uint8(s.Status), s.DirectorID, s.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrDirectorNotFound
		}
		return err
	}
	if genreIDs != nil {
		if err := r.SetGenres(ctx, s.ID, genreIDs); err != nil {
			return err
		}
	}
	if actorIDs != nil {
		if err := r.SetActors(ctx, s.ID, actorIDs); err != nil {
			return err
		}
	}
	stored, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *stored
	return nil
}

// Delete removes the series if present.  Seasons, episodes, ratings,
// list memberships and join rows all cascade; idempotent on a missing
// id.
func (r *SeriesRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM series WHERE id = ?", id)
	return err
}

// SetGenres replaces the series' genre set (clear then re-add).
func (r *SeriesRepo) SetGenres(ctx context.Context, seriesID uint64, genreIDs []uint64) error {
	return r.replaceSet(ctx, seriesID, "series_genres", "genre_id", genreIDs, ErrGenreNotFound)
}

// SetActors replaces the series' actor set.
func (r *SeriesRepo) SetActors(ctx context.Context, seriesID uint64, actorIDs []uint64) error {
	return r.replaceSet(ctx, seriesID, "series_actors", "actor_id", actorIDs, ErrActorNotFound)
}

// The error is a named return so the deferred commit can report its
// own failure.
func (r *SeriesRepo) replaceSet(ctx context.Context, seriesID uint64, table, column string, ids []uint64, missing error) (err error) {
	ok, err := rowExists(ctx, r.db, "series", seriesID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSeriesNotFound
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE series_id = ?", seriesID); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err = tx.ExecContext(ctx,
			"INSERT IGNORE INTO "+table+" (series_id, "+column+") VALUES (?,?)", seriesID, id); err != nil {
			if isForeignKeyViolation(err) {
				err = missing
			}
			return err
		}
	}
	return nil
}

// UpdatePosterFilename records the poster filename for a series.
func (r *SeriesRepo) UpdatePosterFilename(ctx context.Context, id uint64, filename string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE series SET poster_filename = ? WHERE id = ?", filename, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if ok, e := rowExists(ctx, r.db, "series", id); e == nil && !ok {
			return ErrSeriesNotFound
		}
	}
	return nil
}

// SeriesSearchQuery carries the AND-combined search criteria for
// series; Status narrows to an exact broadcast status.
type SeriesSearchQuery struct {
	Keyword    string
	Year       *int
	GenreID    *uint64
	ActorID    *uint64
	DirectorID *uint64
	Status     *model.SeriesStatus
}

// Search returns all series matching the criteria, ordered by id, with
// director/genre/actor views hydrated (season chains stay on detail
// reads).
func (r *SeriesRepo) Search(ctx context.Context, q SeriesSearchQuery) ([]*model.Series, error) {
	where := []string{}
	args := []any{}

	if kw := strings.ToLower(strings.TrimSpace(q.Keyword)); kw != "" {
		where = append(where, "(LOWER(s.title) LIKE ? OR LOWER(s.summary) LIKE ?)")
		pat := "%" + escapeLike(kw) + "%"
		args = append(args, pat, pat)
	}
	if q.Year != nil {
		where = append(where, "s.release_year = ?")
		args = append(args, *q.Year)
	}
	if q.GenreID != nil {
		where = append(where, "EXISTS (SELECT 1 FROM series_genres sg WHERE sg.series_id = s.id AND sg.genre_id = ?)")
		args = append(args, *q.GenreID)
	}
	if q.ActorID != nil {
		where = append(where, "EXISTS (SELECT 1 FROM series_actors sa WHERE sa.series_id = s.id AND sa.actor_id = ?)")
		args = append(args, *q.ActorID)
	}
	if q.DirectorID != nil {
		where = append(where, "s.director_id = ?")
		args = append(args, *q.DirectorID)
	}
	if q.Status != nil {
		where = append(where, "s.status = ?")
		args = append(args, uint8(*q.Status))
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	query := "SELECT " + prefixColumns("s", seriesColumns) + " FROM series s WHERE " + cond + " ORDER BY s.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out, err := scanSeriesRows(rows)
	if err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns every series with standard relations hydrated.
func (r *SeriesRepo) List(ctx context.Context) ([]*model.Series, error) {
	return r.Search(ctx, SeriesSearchQuery{})
}

// ByDirector returns the series credited to a director.
func (r *SeriesRepo) ByDirector(ctx context.Context, directorID uint64) ([]*model.Series, error) {
	return r.Search(ctx, SeriesSearchQuery{DirectorID: &directorID})
}

// ByActor returns the series an actor appears in.
func (r *SeriesRepo) ByActor(ctx context.Context, actorID uint64) ([]*model.Series, error) {
	return r.Search(ctx, SeriesSearchQuery{ActorID: &actorID})
}

// ByGenre returns the series tagged with a genre.
func (r *SeriesRepo) ByGenre(ctx context.Context, genreID uint64) ([]*model.Series, error) {
	return r.Search(ctx, SeriesSearchQuery{GenreID: &genreID})
}

func (r *SeriesRepo) ratingsFor(ctx context.Context, seriesID uint64) ([]model.SeriesRating, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT user_id, series_id, score FROM series_ratings WHERE series_id = ? ORDER BY user_id", seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.SeriesRating{}
	for rows.Next() {
		var sr model.SeriesRating
		if err := rows.Scan(&sr.UserID, &sr.SeriesID, &sr.Score); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

// hydrate populates director, genre and actor views for a batch of
// series with three secondary queries keyed by series id.
func (r *SeriesRepo) hydrate(ctx context.Context, series []*model.Series) error {
	if len(series) == 0 {
		return nil
	}
	idx := make(map[uint64]*model.Series, len(series))
	ids := make([]uint64, 0, len(series))
	for _, s := range series {
		s.Genres = []model.GenreRef{}
		s.Actors = []model.PersonRef{}
		idx[s.ID] = s
		ids = append(ids, s.ID)
	}
	in := placeholders(len(ids))
	args := idArgs(ids)

	rows, err := r.db.QueryContext(ctx,
		"SELECT s.id, d.id, d.name FROM series s JOIN directors d ON d.id = s.director_id WHERE s.id IN ("+in+")", args...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var seriesID uint64
		var ref model.PersonRef
		if err := rows.Scan(&seriesID, &ref.ID, &ref.Name); err != nil {
			rows.Close()
			return err
		}
		if s, ok := idx[seriesID]; ok {
			s.Director = &ref
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx,
		"SELECT sg.series_id, g.id, g.name FROM series_genres sg JOIN genres g ON g.id = sg.genre_id WHERE sg.series_id IN ("+in+") ORDER BY g.name", args...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var seriesID uint64
		var ref model.GenreRef
		if err := rows.Scan(&seriesID, &ref.ID, &ref.Name); err != nil {
			rows.Close()
			return err
		}
		if s, ok := idx[seriesID]; ok {
			s.Genres = append(s.Genres, ref)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx,
		"SELECT sa.series_id, a.id, a.name FROM series_actors sa JOIN actors a ON a.id = sa.actor_id WHERE sa.series_id IN ("+in+") ORDER BY a.name", args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var seriesID uint64
		var ref model.PersonRef
		if err := rows.Scan(&seriesID, &ref.ID, &ref.Name); err != nil {
			return err
		}
		if s, ok := idx[seriesID]; ok {
			s.Actors = append(s.Actors, ref)
		}
	}
	return rows.Err()
}

func scanSeries(row rowScanner) (*model.Series, error) {
	s := new(model.Series)
	var status uint8
	err := row.Scan(&s.ID, &s.Title, &s.ReleaseYear, &s.Summary, &s.PosterFilename,
		&status, &s.DirectorID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Status = model.SeriesStatus(status)
	return s, nil
}

func scanSeriesRows(rows *sql.Rows) ([]*model.Series, error) {
	var out []*model.Series
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
