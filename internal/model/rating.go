package model

// FilmRating is one user's score for one film.  The (user, film) pair
// is the composite primary key, so re-rating overwrites in place and a
// pair can never hold two rows.
type FilmRating struct {
	UserID uint64 `json:"user_id"` // film_ratings.user_id
	FilmID uint64 `json:"film_id"` // film_ratings.film_id
	Score  int    `json:"score"`   // film_ratings.score, always in [1,5]
}

// SeriesRating is the series counterpart of FilmRating, keyed
// (user, series).
type SeriesRating struct {
	UserID   uint64 `json:"user_id"`   // series_ratings.user_id
	SeriesID uint64 `json:"series_id"` // series_ratings.series_id
	Score    int    `json:"score"`     // series_ratings.score, always in [1,5]
}
