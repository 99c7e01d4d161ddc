// User account persistence.  Usernames compare case-sensitively (the
// column carries binary collation), emails are globally unique when
// set.  Login compares the stored password verbatim; the original
// system stores it in plain text on purpose and this port keeps that
// behavior rather than silently changing the data contract.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/emirhankose/dizifilm-api/internal/model"
)

const userColumns = "id, username, password, email, created_at, updated_at"

// UserRepo encapsulates all database queries for user accounts.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the provided DB handle.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func validateUser(u *model.User) error {
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return validationErrorf("username is required")
	}
	if utf8.RuneCountInString(u.Username) > 100 {
		return validationErrorf("username exceeds 100 characters")
	}
	if u.Password == "" {
		return validationErrorf("password is required")
	}
	if u.Email != nil {
		trimmed := strings.TrimSpace(*u.Email)
		if trimmed == "" {
			u.Email = nil
		} else {
			if utf8.RuneCountInString(trimmed) > 150 {
				return validationErrorf("email exceeds 150 characters")
			}
			u.Email = &trimmed
		}
	}
	return nil
}

// Create registers a new account.  Username clashes report
// ErrUsernameExists, email clashes ErrEmailExists; the unique keys
// backstop both pre-checks under concurrency.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if err := validateUser(u); err != nil {
		return err
	}
	var existing uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM users WHERE username = ? LIMIT 1", u.Username).Scan(&existing)
	if err == nil {
		return ErrUsernameExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if u.Email != nil {
		err = r.db.QueryRowContext(ctx,
			"SELECT id FROM users WHERE email = ? LIMIT 1", *u.Email).Scan(&existing)
		if err == nil {
			return ErrEmailExists
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, password, email) VALUES (?,?,?)",
		u.Username, u.Password, u.Email)
	if err != nil {
		if isDuplicateKey(err, "uq_users_username") {
			return ErrUsernameExists
		}
		if isDuplicateKey(err, "uq_users_email") {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return r.reload(ctx, u)
}

// Authenticate checks a username/password pair and returns the account
// on success.  Unknown username and wrong password both collapse into
// ErrInvalidCredentials so the response does not leak which part
// failed.
func (r *UserRepo) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	u := new(model.User)
	err := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ?", username).
		Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u.Password != password {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// ChangePassword swaps the stored password after verifying the old
// one.  A missing account is ErrUserNotFound; a mismatched old
// password is ErrWrongPassword.
func (r *UserRepo) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	if newPassword == "" {
		return validationErrorf("new password is required")
	}
	var stored string
	err := r.db.QueryRowContext(ctx,
		"SELECT password FROM users WHERE id = ?", userID).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if stored != oldPassword {
		return ErrWrongPassword
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE users SET password = ? WHERE id = ?", newPassword, userID)
	return err
}

// UpdateEmail sets or clears the account email.  nil clears; a non-nil
// value must be unique among other accounts.
func (r *UserRepo) UpdateEmail(ctx context.Context, userID uint64, email *string) error {
	ok, err := rowExists(ctx, r.db, "users", userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	if email != nil {
		trimmed := strings.TrimSpace(*email)
		if trimmed == "" {
			email = nil
		} else {
			if utf8.RuneCountInString(trimmed) > 150 {
				return validationErrorf("email exceeds 150 characters")
			}
			email = &trimmed
			var clash uint64
			err = r.db.QueryRowContext(ctx,
				"SELECT id FROM users WHERE email = ? AND id <> ? LIMIT 1", *email, userID).Scan(&clash)
			if err == nil {
				return ErrEmailExists
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
		}
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE users SET email = ? WHERE id = ?", email, userID); err != nil {
		if isDuplicateKey(err, "uq_users_email") {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// Delete removes the account.  Ratings and lists cascade away with it.
// Silent success when the id does not exist.
func (r *UserRepo) Delete(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", userID)
	return err
}

// GetByID fetches one account.
func (r *UserRepo) GetByID(ctx context.Context, userID uint64) (*model.User, error) {
	u := new(model.User)
	err := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", userID).
		Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// GetByUsername fetches one account by its exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u := new(model.User)
	err := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ?", username).
		Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// List returns all accounts ordered by username.
func (r *UserRepo) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.User{}
	for rows.Next() {
		u := new(model.User)
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepo) reload(ctx context.Context, u *model.User) error {
	return r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", u.ID).
		Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.CreatedAt, &u.UpdatedAt)
}
