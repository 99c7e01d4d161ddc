package model

import "time"

// User mirrors the `users` table.  Usernames are unique with binary
// collation, so comparison is case-sensitive.  The password column
// stores the raw string and login compares it verbatim; this repeats
// the original system's explicit design choice and is intentionally
// not "fixed" here.
type User struct {
	ID        uint64    `json:"id"`         // users.id
	Username  string    `json:"username"`   // users.username
	Password  string    `json:"-"`          // users.password (plain text, never serialized)
	Email     *string   `json:"email"`      // users.email (nullable, unique when present)
	CreatedAt time.Time `json:"created_at"` // users.created_at
	UpdatedAt time.Time `json:"updated_at"` // users.updated_at
}
