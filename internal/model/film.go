package model

import "time"

// Film represents a single movie in the catalog.  It corresponds to a
// row in the `films` table.  Optional columns use pointer fields so
// that nil represents an absent value, mirroring the nullable columns.
//
// Fields:
//  ID             – primary key identifier.
//  Title          – film title (required, max 200 chars).
//  ReleaseYear    – production year (nil if unknown).
//  Summary        – short synopsis (nil if absent, max 500 chars).
//  PosterFilename – filename of the poster image chosen by the upload
//                   layer; the catalog never touches file bytes.
//  DurationMin    – running time in minutes (nil if unknown).
//  DirectorID     – at most one director per film (nil if unassigned).
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Film struct {
	ID             uint64     `json:"id"`              // films.id
	Title          string     `json:"title"`           // films.title
	ReleaseYear    *int       `json:"release_year"`    // films.release_year (nullable)
	Summary        *string    `json:"summary"`         // films.summary (nullable)
	PosterFilename *string    `json:"poster_filename"` // films.poster_filename (nullable)
	DurationMin    *int       `json:"duration_min"`    // films.duration_min (nullable)
	DirectorID     *uint64    `json:"director_id"`     // films.director_id (nullable FK)
	CreatedAt      time.Time  `json:"created_at"`      // films.created_at
	UpdatedAt      time.Time  `json:"updated_at"`      // films.updated_at

	// Relationship views hydrated by the repository through explicit
	// join-table queries.  They are one-directional on purpose: genre
	// and actor rows never point back at films, which keeps the
	// response graph acyclic.
	Director *PersonRef  `json:"director,omitempty"`
	Genres   []GenreRef  `json:"genres,omitempty"`
	Actors   []PersonRef `json:"actors,omitempty"`
}
