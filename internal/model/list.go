package model

import "time"

// UserList is a user-curated named collection of films and series.
// List names are unique per owner (case-insensitively), not globally,
// and the owner is fixed at creation.  Membership lives in the
// `user_list_films` and `user_list_series` join tables.
type UserList struct {
	ID          uint64    `json:"id"`          // user_lists.id
	OwnerID     uint64    `json:"owner_id"`    // user_lists.user_id
	Name        string    `json:"name"`        // user_lists.name
	Description *string   `json:"description"` // user_lists.description (nullable)
	CreatedAt   time.Time `json:"created_at"`  // user_lists.created_at
	UpdatedAt   time.Time `json:"updated_at"`  // user_lists.updated_at

	// Membership views hydrated on detail reads.
	Films  []Film   `json:"films,omitempty"`
	Series []Series `json:"series,omitempty"`
}
