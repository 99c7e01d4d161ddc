// User-list persistence.  A list name is unique per owner (not
// globally) with case-insensitive comparison; the unique key on
// (user_id, name) backstops the pre-check.  Membership add is
// idempotent, membership remove distinguishes "not in list" from
// "no such list".  Ownership itself is enforced by the HTTP boundary;
// this layer only exposes OwnerID so the check is possible.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/emirhankose/dizifilm-api/internal/model"
)

const listColumns = "id, user_id, name, description, created_at, updated_at"

// ListRepo encapsulates all database queries for user-curated lists.
type ListRepo struct {
	db *sql.DB
}

// NewListRepo constructs a ListRepo with the provided DB handle.
func NewListRepo(db *sql.DB) *ListRepo {
	return &ListRepo{db: db}
}

func validateList(l *model.UserList) error {
	l.Name = strings.TrimSpace(l.Name)
	if l.Name == "" {
		return validationErrorf("list name is required")
	}
	if utf8.RuneCountInString(l.Name) > 150 {
		return validationErrorf("list name exceeds 150 characters")
	}
	if l.Description != nil && utf8.RuneCountInString(*l.Description) > 500 {
		return validationErrorf("description exceeds 500 characters")
	}
	return nil
}

// Create inserts a list for the owner.  Rejects with ErrListNameExists
// when the owner already has a list with that name, case-insensitively.
func (r *ListRepo) Create(ctx context.Context, l *model.UserList) error {
	if err := validateList(l); err != nil {
		return err
	}
	var existing uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM user_lists WHERE user_id = ? AND LOWER(name) = LOWER(?) LIMIT 1",
		l.OwnerID, l.Name).Scan(&existing)
	if err == nil {
		return ErrListNameExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO user_lists (user_id, name, description) VALUES (?,?,?)",
		l.OwnerID, l.Name, l.Description)
	if err != nil {
		if isDuplicateKey(err, "uq_user_lists_owner_name") {
			return ErrListNameExists
		}
		if isForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return r.reload(ctx, l)
}

// Update renames the list and/or changes its description.  The same
// per-owner uniqueness applies, excluding the list itself.  The owner
// id is immutable once set.
func (r *ListRepo) Update(ctx context.Context, l *model.UserList) error {
	if err := validateList(l); err != nil {
		return err
	}
	current, err := r.GetByID(ctx, l.ID)
	if err != nil {
		return err
	}
	var clash uint64
	err = r.db.QueryRowContext(ctx,
		"SELECT id FROM user_lists WHERE user_id = ? AND LOWER(name) = LOWER(?) AND id <> ? LIMIT 1",
		current.OwnerID, l.Name, l.ID).Scan(&clash)
	if err == nil {
		return ErrListNameExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE user_lists SET name = ?, description = ? WHERE id = ?",
		l.Name, l.Description, l.ID); err != nil {
		if isDuplicateKey(err, "uq_user_lists_owner_name") {
			return ErrListNameExists
		}
		return err
	}
	l.OwnerID = current.OwnerID
	return r.reload(ctx, l)
}

// Delete removes the list; membership rows cascade.  Silent no-op when
// the id does not exist.
func (r *ListRepo) Delete(ctx context.Context, listID uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM user_lists WHERE id = ?", listID)
	return err
}

// GetByID fetches a list with its film and series membership hydrated.
// The OwnerID on the result is what the boundary checks ownership
// against.
func (r *ListRepo) GetByID(ctx context.Context, listID uint64) (*model.UserList, error) {
	l := new(model.UserList)
	err := r.db.QueryRowContext(ctx,
		"SELECT "+listColumns+" FROM user_lists WHERE id = ?", listID).
		Scan(&l.ID, &l.OwnerID, &l.Name, &l.Description, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	if l.Films, err = r.FilmsInList(ctx, listID); err != nil {
		return nil, err
	}
	if l.Series, err = r.SeriesInList(ctx, listID); err != nil {
		return nil, err
	}
	return l, nil
}

// ListsByOwner returns the owner's lists ordered by name, without
// membership hydration.
func (r *ListRepo) ListsByOwner(ctx context.Context, ownerID uint64) ([]*model.UserList, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+listColumns+" FROM user_lists WHERE user_id = ? ORDER BY name", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.UserList{}
	for rows.Next() {
		l := new(model.UserList)
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Name, &l.Description, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// AddFilm puts a film into the list.  Adding an already-present film is
// a success, not a duplicate: INSERT IGNORE against the composite key.
func (r *ListRepo) AddFilm(ctx context.Context, listID, filmID uint64) error {
	return r.addItem(ctx, listID, filmID, "films", "user_list_films", "film_id", ErrFilmNotFound)
}

// AddSeries is the series counterpart of AddFilm.
func (r *ListRepo) AddSeries(ctx context.Context, listID, seriesID uint64) error {
	return r.addItem(ctx, listID, seriesID, "series", "user_list_series", "series_id", ErrSeriesNotFound)
}

func (r *ListRepo) addItem(ctx context.Context, listID, itemID uint64, itemTable, joinTable, column string, missing error) error {
	ok, err := rowExists(ctx, r.db, "user_lists", listID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrListNotFound
	}
	ok, err = rowExists(ctx, r.db, itemTable, itemID)
	if err != nil {
		return err
	}
	if !ok {
		return missing
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT IGNORE INTO "+joinTable+" (list_id, "+column+") VALUES (?,?)", listID, itemID)
	return err
}

// RemoveFilm takes a film out of the list.  Removing a film that is
// not a member reports ErrNotInList, distinct from ErrListNotFound for
// a missing list.
func (r *ListRepo) RemoveFilm(ctx context.Context, listID, filmID uint64) error {
	return r.removeItem(ctx, listID, filmID, "user_list_films", "film_id")
}

// RemoveSeries is the series counterpart of RemoveFilm.
func (r *ListRepo) RemoveSeries(ctx context.Context, listID, seriesID uint64) error {
	return r.removeItem(ctx, listID, seriesID, "user_list_series", "series_id")
}

func (r *ListRepo) removeItem(ctx context.Context, listID, itemID uint64, joinTable, column string) error {
	ok, err := rowExists(ctx, r.db, "user_lists", listID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrListNotFound
	}
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM "+joinTable+" WHERE list_id = ? AND "+column+" = ?", listID, itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotInList
	}
	return nil
}

// FilmsInList returns the film rows currently in the list, base fields
// only.  An empty or unknown list yields an empty slice, not an error.
func (r *ListRepo) FilmsInList(ctx context.Context, listID uint64) ([]model.Film, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+prefixColumns("f", filmColumns)+` FROM films f
		 JOIN user_list_films lf ON lf.film_id = f.id
		 WHERE lf.list_id = ? ORDER BY f.title`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Film{}
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

// SeriesInList returns the series rows currently in the list, base
// fields only; empty slice for an empty or unknown list.
func (r *ListRepo) SeriesInList(ctx context.Context, listID uint64) ([]model.Series, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+prefixColumns("s", seriesColumns)+` FROM series s
		 JOIN user_list_series ls ON ls.series_id = s.id
		 WHERE ls.list_id = ? ORDER BY s.title`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Series{}
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *ListRepo) reload(ctx context.Context, l *model.UserList) error {
	return r.db.QueryRowContext(ctx,
		"SELECT "+listColumns+" FROM user_lists WHERE id = ?", l.ID).
		Scan(&l.ID, &l.OwnerID, &l.Name, &l.Description, &l.CreatedAt, &l.UpdatedAt)
}
