// Package repository contains the data access layer of the catalog.
// This file defines the sentinel error values shared across the
// repositories.  Handlers match them with errors.Is to choose an HTTP
// response category: validation failures, not-found, uniqueness
// conflicts, referential-guard violations and ownership rejections are
// all distinct outcomes at this layer.
package repository

import "errors"

// ErrValidation wraps every malformed-input rejection (blank required
// name, over-length field, out-of-range score).  Nothing is persisted
// when it is returned.
var ErrValidation = errors.New("validation failed")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrInUse is the referential-guard violation: a genre, actor or
// director cannot be deleted while any film or series still references
// it.  Distinct from uniqueness conflicts so the boundary can respond
// differently.
var ErrInUse = errors.New("still referenced by films or series")

// Not-found sentinels, one per aggregate.
var (
	ErrFilmNotFound     = errors.New("film not found")
	ErrSeriesNotFound   = errors.New("series not found")
	ErrSeasonNotFound   = errors.New("season not found")
	ErrEpisodeNotFound  = errors.New("episode not found")
	ErrActorNotFound    = errors.New("actor not found")
	ErrDirectorNotFound = errors.New("director not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrListNotFound     = errors.New("list not found")
	ErrRatingNotFound   = errors.New("rating not found")
)

// Uniqueness conflicts.
var (
	ErrGenreExists    = errors.New("genre name already exists")
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already in use")
	ErrListNameExists = errors.New("list name already exists for this user")
)

// Operation-specific failures.
var (
	ErrInvalidScore       = errors.New("score must be between 1 and 5")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWrongPassword      = errors.New("old password is incorrect")
	ErrNotInList          = errors.New("item is not in the list")
	ErrNoRatings          = errors.New("no ratings")
)
