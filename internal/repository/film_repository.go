// This file implements persistence for films: CRUD, the replace-set
// relationship operations, relation-scoped queries and criteria search.
// Relationship reads go through explicit join-table queries that
// populate one-directional views on the returned models; nothing here
// hands out a cyclic object graph.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/emirhankose/dizifilm-api/internal/model"
)

const filmColumns = "id, title, release_year, summary, poster_filename, duration_min, director_id, created_at, updated_at"

// FilmRepo encapsulates all database queries related to films.
type FilmRepo struct {
	db *sql.DB
}

// NewFilmRepo constructs a FilmRepo with the provided DB handle.
func NewFilmRepo(db *sql.DB) *FilmRepo {
	return &FilmRepo{db: db}
}

func validateFilm(f *model.Film) error {
	f.Title = strings.TrimSpace(f.Title)
	if f.Title == "" {
		return validationErrorf("title is required")
	}
	// rune counts, not bytes: the columns are VARCHAR and titles are
	// routinely multibyte
	if utf8.RuneCountInString(f.Title) > 200 {
		return validationErrorf("title exceeds 200 characters")
	}
	if f.Summary != nil && utf8.RuneCountInString(*f.Summary) > 500 {
		return validationErrorf("summary exceeds 500 characters")
	}
	return nil
}

// Create inserts the base film row first so the id exists, then
// attaches the optional relationship sets.  Absent or empty id lists
// leave that relationship empty.  On return the struct carries the
// stored row with relations hydrated.
func (r *FilmRepo) Create(ctx context.Context, f *model.Film, genreIDs, actorIDs []uint64) error {
	if err := validateFilm(f); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO films (title, release_year, summary, poster_filename, duration_min, director_id)
		 VALUES (?,?,?,?,?,?)`,
		f.Title, f.ReleaseYear, f.Summary, f.PosterFilename, f.DurationMin, f.DirectorID)
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
	f.ID = uint64(id)

	if len(genreIDs) > 0 {
		if err := r.SetGenres(ctx, f.ID, genreIDs); err != nil {
			return err
		}
	}
	if len(actorIDs) > 0 {
		if err := r.SetActors(ctx, f.ID, actorIDs); err != nil {
			return err
		}
	}

	stored, err := r.GetByID(ctx, f.ID)
	if err != nil {
		return err
	}
	*f = *stored
	return nil
}

// GetByID fetches one film with director, genres and actors hydrated.
// Returns ErrFilmNotFound when the id does not exist.
func (r *FilmRepo) GetByID(ctx context.Context, id uint64) (*model.Film, error) {
	q := "SELECT " + filmColumns + " FROM films WHERE id = ?"
	f, err := scanFilm(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFilmNotFound
		}
		return nil, err
	}
	if err := r.hydrate(ctx, []*model.Film{f}); err != nil {
		return nil, err
	}
	return f, nil
}

// Update copies the scalar fields onto the existing row and applies the
// relationship replacement rule: a nil id list leaves the relation
// untouched, a non-nil list (possibly empty) fully replaces it.
// Reports ErrFilmNotFound when the target id does not exist.
func (r *FilmRepo) Update(ctx context.Context, f *model.Film, genreIDs, actorIDs []uint64) error {
	if err := validateFilm(f); err != nil {
		return err
	}
	ok, err := rowExists(ctx, r.db, "films", f.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFilmNotFound
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE films
		 SET title = ?, release_year = ?, summary = ?, poster_filename = ?, duration_min = ?, director_id = ?
		 WHERE id = ?`,
		f.Title, f.ReleaseYear, f.Summary, f.PosterFilename, f.DurationMin, f.DirectorID, f.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrDirectorNotFound
		}
		return err
	}
	if genreIDs != nil {
		if err := r.SetGenres(ctx, f.ID, genreIDs); err != nil {
			return err
		}
	}
	if actorIDs != nil {
		if err := r.SetActors(ctx, f.ID, actorIDs); err != nil {
			return err
		}
	}
	stored, err := r.GetByID(ctx, f.ID)
	if err != nil {
		return err
	}
	*f = *stored
	return nil
}

// Delete removes the film if present; ratings, list memberships and
// join rows cascade in the schema.  Deleting a missing id is a silent
// success.
func (r *FilmRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM films WHERE id = ?", id)
	return err
}

// SetGenres replaces the film's genre set with exactly the given ids
// (clear then re-add, in one transaction).  An unknown genre id maps to
// ErrGenreNotFound via the FK.
func (r *FilmRepo) SetGenres(ctx context.Context, filmID uint64, genreIDs []uint64) error {
	return r.replaceSet(ctx, filmID, "film_genres", "genre_id", genreIDs, ErrGenreNotFound)
}

// SetActors replaces the film's actor set, same contract as SetGenres.
func (r *FilmRepo) SetActors(ctx context.Context, filmID uint64, actorIDs []uint64) error {
	return r.replaceSet(ctx, filmID, "film_actors", "actor_id", actorIDs, ErrActorNotFound)
}

// The error is a named return so the deferred commit can report its
// own failure.
func (r *FilmRepo) replaceSet(ctx context.Context, filmID uint64, table, column string, ids []uint64, missing error) (err error) {
	ok, err := rowExists(ctx, r.db, "films", filmID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFilmNotFound
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
	if _, err = tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE film_id = ?", filmID); err != nil {
		return err
	}
	for _, id := range ids {
		// INSERT IGNORE keeps set semantics when the input repeats an id.
		if _, err = tx.ExecContext(ctx,
			"INSERT IGNORE INTO "+table+" (film_id, "+column+") VALUES (?,?)", filmID, id); err != nil {
			if isForeignKeyViolation(err) {
				err = missing
			}
			return err
		}
	}
	return nil
}

// UpdatePosterFilename records the poster filename chosen by the upload
// boundary.  The catalog never touches the file bytes.
func (r *FilmRepo) UpdatePosterFilename(ctx context.Context, id uint64, filename string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE films SET poster_filename = ? WHERE id = ?", filename, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if ok, e := rowExists(ctx, r.db, "films", id); e == nil && !ok {
			return ErrFilmNotFound
		}
	}
	return nil
}

// FilmSearchQuery carries the AND-combined search criteria.  Zero
// values / nil pointers mean "no constraint".
type FilmSearchQuery struct {
	Keyword    string  // case-insensitive substring on title or summary
	Year       *int    // exact production year
	GenreID    *uint64 // membership in film_genres
	ActorID    *uint64 // membership in film_actors
	DirectorID *uint64 // exact director
}

// Search returns all films matching the criteria, ordered by id, with
// standard relations hydrated.
func (r *FilmRepo) Search(ctx context.Context, q FilmSearchQuery) ([]*model.Film, error) {
	where := []string{}
	args := []any{}

	if kw := strings.ToLower(strings.TrimSpace(q.Keyword)); kw != "" {
		where = append(where, "(LOWER(f.title) LIKE ? OR LOWER(f.summary) LIKE ?)")
		pat := "%" + escapeLike(kw) + "%"
		args = append(args, pat, pat)
	}
	if q.Year != nil {
		where = append(where, "f.release_year = ?")
		args = append(args, *q.Year)
	}
	if q.GenreID != nil {
		where = append(where, "EXISTS (SELECT 1 FROM film_genres fg WHERE fg.film_id = f.id AND fg.genre_id = ?)")
		args = append(args, *q.GenreID)
	}
	if q.ActorID != nil {
		where = append(where, "EXISTS (SELECT 1 FROM film_actors fa WHERE fa.film_id = f.id AND fa.actor_id = ?)")
		args = append(args, *q.ActorID)
	}
	if q.DirectorID != nil {
		where = append(where, "f.director_id = ?")
		args = append(args, *q.DirectorID)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	query := "SELECT " + prefixColumns("f", filmColumns) + " FROM films f WHERE " + cond + " ORDER BY f.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	films, err := scanFilms(rows)
	if err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, films); err != nil {
		return nil, err
	}
	return films, nil
}

// List returns the whole catalog with relations hydrated.
func (r *FilmRepo) List(ctx context.Context) ([]*model.Film, error) {
	return r.Search(ctx, FilmSearchQuery{})
}

// ByDirector returns the films credited to a director.
func (r *FilmRepo) ByDirector(ctx context.Context, directorID uint64) ([]*model.Film, error) {
	return r.Search(ctx, FilmSearchQuery{DirectorID: &directorID})
}

// ByActor returns the films an actor appears in.
func (r *FilmRepo) ByActor(ctx context.Context, actorID uint64) ([]*model.Film, error) {
	return r.Search(ctx, FilmSearchQuery{ActorID: &actorID})
}

// ByGenre returns the films tagged with a genre.
func (r *FilmRepo) ByGenre(ctx context.Context, genreID uint64) ([]*model.Film, error) {
	return r.Search(ctx, FilmSearchQuery{GenreID: &genreID})
}

// hydrate populates director, genre and actor views for a batch of
// films with three secondary queries keyed by film id.
func (r *FilmRepo) hydrate(ctx context.Context, films []*model.Film) error {
	if len(films) == 0 {
		return nil
	}
	idx := make(map[uint64]*model.Film, len(films))
	ids := make([]uint64, 0, len(films))
	for _, f := range films {
		f.Genres = []model.GenreRef{}
		f.Actors = []model.PersonRef{}
		idx[f.ID] = f
		ids = append(ids, f.ID)
	}
	in := placeholders(len(ids))
	args := idArgs(ids)

	rows, err := r.db.QueryContext(ctx,
		"SELECT f.id, d.id, d.name FROM films f JOIN directors d ON d.id = f.director_id WHERE f.id IN ("+in+")", args...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var filmID uint64
		var ref model.PersonRef
		if err := rows.Scan(&filmID, &ref.ID, &ref.Name); err != nil {
			rows.Close()
			return err
		}
		if f, ok := idx[filmID]; ok {
			f.Director = &ref
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx,
		"SELECT fg.film_id, g.id, g.name FROM film_genres fg JOIN genres g ON g.id = fg.genre_id WHERE fg.film_id IN ("+in+") ORDER BY g.name", args...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var filmID uint64
		var ref model.GenreRef
		if err := rows.Scan(&filmID, &ref.ID, &ref.Name); err != nil {
			rows.Close()
			return err
		}
		if f, ok := idx[filmID]; ok {
			f.Genres = append(f.Genres, ref)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx,
		"SELECT fa.film_id, a.id, a.name FROM film_actors fa JOIN actors a ON a.id = fa.actor_id WHERE fa.film_id IN ("+in+") ORDER BY a.name", args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var filmID uint64
		var ref model.PersonRef
		if err := rows.Scan(&filmID, &ref.ID, &ref.Name); err != nil {
			return err
		}
		if f, ok := idx[filmID]; ok {
			f.Actors = append(f.Actors, ref)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFilm(row rowScanner) (*model.Film, error) {
	f := new(model.Film)
	err := row.Scan(&f.ID, &f.Title, &f.ReleaseYear, &f.Summary, &f.PosterFilename,
		&f.DurationMin, &f.DirectorID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func scanFilms(rows *sql.Rows) ([]*model.Film, error) {
	var out []*model.Film
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
