package model

// Genre mirrors the `genres` table.  Genre names are unique across the
// whole catalog, case-insensitively.
type Genre struct {
	ID   uint64 `json:"id"`   // genres.id
	Name string `json:"name"` // genres.name
}
