package model

import "time"

// Actor mirrors the `actors` table.  Actors participate in
// many-to-many relations with films and series through the
// `film_actors` and `series_actors` join tables.
type Actor struct {
	ID            uint64     `json:"id"`             // actors.id
	Name          string     `json:"name"`           // actors.name
	BirthDate     *time.Time `json:"birth_date"`     // actors.birth_date (nullable)
	Biography     *string    `json:"biography"`      // actors.biography (nullable)
	PhotoFilename *string    `json:"photo_filename"` // actors.photo_filename (nullable)
	CreatedAt     time.Time  `json:"created_at"`     // actors.created_at
	UpdatedAt     time.Time  `json:"updated_at"`     // actors.updated_at

	// Credits hydrated on detail reads.
	Films  []TitleRef `json:"films,omitempty"`
	Series []TitleRef `json:"series,omitempty"`
}

// Director mirrors the `directors` table.  A film or series references
// at most one director via a nullable foreign key; the pointer field on
// the item side keeps that at-most-one constraint explicit.
type Director struct {
	ID            uint64     `json:"id"`             // directors.id
	Name          string     `json:"name"`           // directors.name
	BirthDate     *time.Time `json:"birth_date"`     // directors.birth_date (nullable)
	Biography     *string    `json:"biography"`      // directors.biography (nullable)
	PhotoFilename *string    `json:"photo_filename"` // directors.photo_filename (nullable)
	CreatedAt     time.Time  `json:"created_at"`     // directors.created_at
	UpdatedAt     time.Time  `json:"updated_at"`     // directors.updated_at

	Films  []TitleRef `json:"films,omitempty"`
	Series []TitleRef `json:"series,omitempty"`
}
