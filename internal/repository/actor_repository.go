// Actor persistence.  Detail reads hydrate the actor's film and series
// credits from the join tables; deletion is guarded so an actor still
// cast anywhere cannot be removed.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/emirhankose/dizifilm-api/internal/model"
)

const actorColumns = "id, name, birth_date, biography, photo_filename, created_at, updated_at"

// ActorRepo encapsulates all database queries for actors.
type ActorRepo struct {
	db *sql.DB
}

// NewActorRepo constructs an ActorRepo with the provided DB handle.
func NewActorRepo(db *sql.DB) *ActorRepo {
	return &ActorRepo{db: db}
}

func validateActor(a *model.Actor) error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return validationErrorf("actor name is required")
	}
	if utf8.RuneCountInString(a.Name) > 150 {
		return validationErrorf("actor name exceeds 150 characters")
	}
	if a.Biography != nil && utf8.RuneCountInString(*a.Biography) > 2000 {
		return validationErrorf("biography exceeds 2000 characters")
	}
	return nil
}

// Create inserts an actor.  Names are not unique; two distinct people
// may share one.
func (r *ActorRepo) Create(ctx context.Context, a *model.Actor) error {
	if err := validateActor(a); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO actors (name, birth_date, biography, photo_filename) VALUES (?,?,?,?)",
		a.Name, a.BirthDate, a.Biography, a.PhotoFilename)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return r.reload(ctx, a)
}

// Update applies scalar changes.  Reports ErrActorNotFound on a
// missing id.
func (r *ActorRepo) Update(ctx context.Context, a *model.Actor) error {
	if err := validateActor(a); err != nil {
		return err
	}
	ok, err := rowExists(ctx, r.db, "actors", a.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrActorNotFound
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE actors SET name = ?, birth_date = ?, biography = ?, photo_filename = ? WHERE id = ?",
		a.Name, a.BirthDate, a.Biography, a.PhotoFilename, a.ID); err != nil {
		return err
	}
	return r.reload(ctx, a)
}

// UpdatePhotoFilename stores the filename of an uploaded portrait.
func (r *ActorRepo) UpdatePhotoFilename(ctx context.Context, actorID uint64, filename string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE actors SET photo_filename = ? WHERE id = ?", filename, actorID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if ok, e := rowExists(ctx, r.db, "actors", actorID); e == nil && !ok {
			return ErrActorNotFound
		}
	}
	return nil
}

// Delete removes an actor only when no film or series casts them;
// otherwise ErrInUse.  Missing id is a silent success.
func (r *ActorRepo) Delete(ctx context.Context, actorID uint64) error {
	var refs int
	err := r.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM film_actors WHERE actor_id = ?) +
		        (SELECT COUNT(*) FROM series_actors WHERE actor_id = ?)`,
		actorID, actorID).Scan(&refs)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrInUse
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM actors WHERE id = ?", actorID)
	if isForeignKeyViolation(err) {
		return ErrInUse
	}
	return err
}

// GetByID fetches one actor with film and series credits hydrated.
func (r *ActorRepo) GetByID(ctx context.Context, actorID uint64) (*model.Actor, error) {
	a := new(model.Actor)
	err := r.db.QueryRowContext(ctx,
		"SELECT "+actorColumns+" FROM actors WHERE id = ?", actorID).
		Scan(&a.ID, &a.Name, &a.BirthDate, &a.Biography, &a.PhotoFilename, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	if a.Films, err = r.credits(ctx,
		"SELECT f.id, f.title FROM films f JOIN film_actors fa ON fa.film_id = f.id WHERE fa.actor_id = ? ORDER BY f.title",
		actorID); err != nil {
		return nil, err
	}
	if a.Series, err = r.credits(ctx,
		"SELECT s.id, s.title FROM series s JOIN series_actors sa ON sa.series_id = s.id WHERE sa.actor_id = ? ORDER BY s.title",
		actorID); err != nil {
		return nil, err
	}
	return a, nil
}

// Search returns actors whose name contains the keyword,
// case-insensitively; a blank keyword lists everyone.
func (r *ActorRepo) Search(ctx context.Context, keyword string) ([]*model.Actor, error) {
	query := "SELECT " + actorColumns + " FROM actors"
	args := []any{}
	if kw := strings.TrimSpace(keyword); kw != "" {
		query += " WHERE LOWER(name) LIKE ?"
		args = append(args, "%"+escapeLike(strings.ToLower(kw))+"%")
	}
	query += " ORDER BY name"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Actor{}
	for rows.Next() {
		a := new(model.Actor)
		if err := rows.Scan(&a.ID, &a.Name, &a.BirthDate, &a.Biography, &a.PhotoFilename, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// List returns all actors ordered by name, without credits.
func (r *ActorRepo) List(ctx context.Context) ([]*model.Actor, error) {
	return r.Search(ctx, "")
}

func (r *ActorRepo) credits(ctx context.Context, query string, actorID uint64) ([]model.TitleRef, error) {
	rows, err := r.db.QueryContext(ctx, query, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.TitleRef{}
	for rows.Next() {
		var t model.TitleRef
		if err := rows.Scan(&t.ID, &t.Title); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *ActorRepo) reload(ctx context.Context, a *model.Actor) error {
	return r.db.QueryRowContext(ctx,
		"SELECT "+actorColumns+" FROM actors WHERE id = ?", a.ID).
		Scan(&a.ID, &a.Name, &a.BirthDate, &a.Biography, &a.PhotoFilename, &a.CreatedAt, &a.UpdatedAt)
}
