package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emirhankose/dizifilm-api/internal/model"
)

func userRows(id uint64, username, password string, email *string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "username", "password", "email", "created_at", "updated_at"}).
		AddRow(id, username, password, email, now, now)
}

func TestUserCreateUsernameTaken(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE username = ? LIMIT 1")).
		WithArgs("emir").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	err := repo.Create(context.Background(), &model.User{Username: "emir", Password: "pw"})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestUserCreateEmailTaken(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewUserRepo(db)

	email := "emir@example.com"
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE username = ? LIMIT 1")).
		WithArgs("emir").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE email = ? LIMIT 1")).
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	err := repo.Create(context.Background(), &model.User{Username: "emir", Password: "pw", Email: &email})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthenticateUnknownUsername(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT .+ FROM users WHERE username = ?").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "email", "created_at", "updated_at"}))

	_, err := repo.Authenticate(context.Background(), "ghost", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT .+ FROM users WHERE username = ?").
		WithArgs("emir").
		WillReturnRows(userRows(1, "emir", "correct", nil))

	_, err := repo.Authenticate(context.Background(), "emir", "wrong")
	// wrong password and unknown user collapse into the same sentinel
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateSuccess(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT .+ FROM users WHERE username = ?").
		WithArgs("emir").
		WillReturnRows(userRows(1, "emir", "pw", nil))

	u, err := repo.Authenticate(context.Background(), "emir", "pw")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), u.ID)
}

func TestChangePasswordWrongOld(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT password FROM users WHERE id = ?")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"password"}).AddRow("actual"))

	err := repo.ChangePassword(context.Background(), 1, "guess", "next")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestChangePasswordMissingUser(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT password FROM users WHERE id = ?")).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"password"}))

	err := repo.ChangePassword(context.Background(), 9, "old", "next")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT password FROM users WHERE id = ?")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"password"}).AddRow("old"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password = ? WHERE id = ?")).
		WithArgs("next", uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.ChangePassword(context.Background(), 1, "old", "next"))
}

func TestUpdateEmailConflict(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewUserRepo(db)

	email := "taken@example.com"
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE id = ? LIMIT 1")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE email = ? AND id <> ? LIMIT 1")).
		WithArgs(email, uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	err := repo.UpdateEmail(context.Background(), 1, &email)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUpdateEmailClear(t *testing.T) {
	mock, db, done := newMockDB(t)
	defer done()
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE id = ? LIMIT 1")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET email = ? WHERE id = ?")).
		WithArgs(nil, uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdateEmail(context.Background(), 1, nil))
}
