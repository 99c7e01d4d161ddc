// Director persistence.  Mirrors the actor repository except that the
// credit relation is the nullable director_id column on films and
// series rather than a join table, so the delete guard counts those
// columns directly.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/emirhankose/dizifilm-api/internal/model"
)

const directorColumns = "id, name, birth_date, biography, photo_filename, created_at, updated_at"

// DirectorRepo encapsulates all database queries for directors.
type DirectorRepo struct {
	db *sql.DB
}

// NewDirectorRepo constructs a DirectorRepo with the provided DB handle.
func NewDirectorRepo(db *sql.DB) *DirectorRepo {
	return &DirectorRepo{db: db}
}

func validateDirector(d *model.Director) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return validationErrorf("director name is required")
	}
	if utf8.RuneCountInString(d.Name) > 150 {
		return validationErrorf("director name exceeds 150 characters")
	}
	if d.Biography != nil && utf8.RuneCountInString(*d.Biography) > 2000 {
		return validationErrorf("biography exceeds 2000 characters")
	}
	return nil
}

// Create inserts a director.
func (r *DirectorRepo) Create(ctx context.Context, d *model.Director) error {
	if err := validateDirector(d); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO directors (name, birth_date, biography, photo_filename) VALUES (?,?,?,?)",
		d.Name, d.BirthDate, d.Biography, d.PhotoFilename)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return r.reload(ctx, d)
}

// Update applies scalar changes.  Reports ErrDirectorNotFound on a
// missing id.
func (r *DirectorRepo) Update(ctx context.Context, d *model.Director) error {
	if err := validateDirector(d); err != nil {
		return err
	}
	ok, err := rowExists(ctx, r.db, "directors", d.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDirectorNotFound
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE directors SET name = ?, birth_date = ?, biography = ?, photo_filename = ? WHERE id = ?",
		d.Name, d.BirthDate, d.Biography, d.PhotoFilename, d.ID); err != nil {
		return err
	}
	return r.reload(ctx, d)
}

// UpdatePhotoFilename stores the filename of an uploaded portrait.
func (r *DirectorRepo) UpdatePhotoFilename(ctx context.Context, directorID uint64, filename string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE directors SET photo_filename = ? WHERE id = ?", filename, directorID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if ok, e := rowExists(ctx, r.db, "directors", directorID); e == nil && !ok {
			return ErrDirectorNotFound
		}
	}
	return nil
}

// Delete removes a director only when no film or series credits them;
// otherwise ErrInUse.  Missing id is a silent success.
func (r *DirectorRepo) Delete(ctx context.Context, directorID uint64) error {
	var refs int
	err := r.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM films WHERE director_id = ?) +
		        (SELECT COUNT(*) FROM series WHERE director_id = ?)`,
		directorID, directorID).Scan(&refs)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrInUse
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM directors WHERE id = ?", directorID)
	if isForeignKeyViolation(err) {
		return ErrInUse
	}
	return err
}

// GetByID fetches one director with film and series credits hydrated.
func (r *DirectorRepo) GetByID(ctx context.Context, directorID uint64) (*model.Director, error) {
	d := new(model.Director)
	err := r.db.QueryRowContext(ctx,
		"SELECT "+directorColumns+" FROM directors WHERE id = ?", directorID).
		Scan(&d.ID, &d.Name, &d.BirthDate, &d.Biography, &d.PhotoFilename, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDirectorNotFound
		}
		return nil, err
	}
	if d.Films, err = r.credits(ctx,
		"SELECT id, title FROM films WHERE director_id = ? ORDER BY title", directorID); err != nil {
		return nil, err
	}
	if d.Series, err = r.credits(ctx,
		"SELECT id, title FROM series WHERE director_id = ? ORDER BY title", directorID); err != nil {
		return nil, err
	}
	return d, nil
}

// Search returns directors whose name contains the keyword,
// case-insensitively; a blank keyword lists everyone.
func (r *DirectorRepo) Search(ctx context.Context, keyword string) ([]*model.Director, error) {
	query := "SELECT " + directorColumns + " FROM directors"
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
	out := []*model.Director{}
	for rows.Next() {
		d := new(model.Director)
		if err := rows.Scan(&d.ID, &d.Name, &d.BirthDate, &d.Biography, &d.PhotoFilename, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// List returns all directors ordered by name, without credits.
func (r *DirectorRepo) List(ctx context.Context) ([]*model.Director, error) {
	return r.Search(ctx, "")
}

func (r *DirectorRepo) credits(ctx context.Context, query string, directorID uint64) ([]model.TitleRef, error) {
	rows, err := r.db.QueryContext(ctx, query, directorID)
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

func (r *DirectorRepo) reload(ctx context.Context, d *model.Director) error {
	return r.db.QueryRowContext(ctx,
		"SELECT "+directorColumns+" FROM directors WHERE id = ?", d.ID).
		Scan(&d.ID, &d.Name, &d.BirthDate, &d.Biography, &d.PhotoFilename, &d.CreatedAt, &d.UpdatedAt)
}
