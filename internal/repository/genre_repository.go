// Genre persistence.  Names are unique across the catalog with
// case-insensitive comparison, and a genre cannot be deleted while any
// film or series still carries it (the RESTRICT foreign keys on the
// join tables backstop the count-based guard).
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/emirhankose/dizifilm-api/internal/model"
)

// GenreRepo encapsulates all database queries for genres.
type GenreRepo struct {
	db *sql.DB
}

// NewGenreRepo constructs a GenreRepo with the provided DB handle.
func NewGenreRepo(db *sql.DB) *GenreRepo {
	return &GenreRepo{db: db}
}

func validateGenre(g *model.Genre) error {
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return validationErrorf("genre name is required")
	}
	if utf8.RuneCountInString(g.Name) > 100 {
		return validationErrorf("genre name exceeds 100 characters")
	}
	return nil
}

// Create inserts a genre, rejecting case-insensitive duplicates with
// ErrGenreExists.
func (r *GenreRepo) Create(ctx context.Context, g *model.Genre) error {
	if err := validateGenre(g); err != nil {
		return err
	}
	var existing uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM genres WHERE LOWER(name) = LOWER(?) LIMIT 1", g.Name).Scan(&existing)
	if err == nil {
		return ErrGenreExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	res, err := r.db.ExecContext(ctx, "INSERT INTO genres (name) VALUES (?)", g.Name)
	if err != nil {
		if isDuplicateKey(err, "uq_genres_name") {
			return ErrGenreExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)
	return nil
}

// Update renames a genre under the same uniqueness rule, excluding the
// genre itself so a case-only rename goes through.
func (r *GenreRepo) Update(ctx context.Context, g *model.Genre) error {
	if err := validateGenre(g); err != nil {
		return err
	}
	ok, err := rowExists(ctx, r.db, "genres", g.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrGenreNotFound
	}
	var clash uint64
	err = r.db.QueryRowContext(ctx,
		"SELECT id FROM genres WHERE LOWER(name) = LOWER(?) AND id <> ? LIMIT 1",
		g.Name, g.ID).Scan(&clash)
	if err == nil {
		return ErrGenreExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE genres SET name = ? WHERE id = ?", g.Name, g.ID); err != nil {
		if isDuplicateKey(err, "uq_genres_name") {
			return ErrGenreExists
		}
		return err
	}
	return nil
}

// Delete removes a genre only when nothing references it.  A genre
// still attached to any film or series reports ErrInUse; a missing id
// is a silent success.
func (r *GenreRepo) Delete(ctx context.Context, genreID uint64) error {
	var refs int
	err := r.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM film_genres WHERE genre_id = ?) +
		        (SELECT COUNT(*) FROM series_genres WHERE genre_id = ?)`,
		genreID, genreID).Scan(&refs)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrInUse
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM genres WHERE id = ?", genreID)
	if isForeignKeyViolation(err) {
		return ErrInUse
	}
	return err
}

// GetByID fetches one genre.
func (r *GenreRepo) GetByID(ctx context.Context, genreID uint64) (*model.Genre, error) {
	g := new(model.Genre)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name FROM genres WHERE id = ?", genreID).Scan(&g.ID, &g.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}
	return g, nil
}

// List returns genres ordered by name, optionally filtered by a
// case-insensitive name substring.
func (r *GenreRepo) List(ctx context.Context, keyword string) ([]*model.Genre, error) {
	query := "SELECT id, name FROM genres"
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
	out := []*model.Genre{}
	for rows.Next() {
		g := new(model.Genre)
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
