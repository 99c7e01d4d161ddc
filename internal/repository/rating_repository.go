// Rating persistence for films and series.  Both tables are keyed
// (user, item), so an upsert on the composite primary key is the whole
// overwrite-on-repeat contract: a pair can never accumulate rows, and
// retrying the same score is a no-op.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/emirhankose/dizifilm-api/internal/model"
)

// RatingRepo encapsulates the rating tables for both item kinds.
type RatingRepo struct {
	db *sql.DB
}

// NewRatingRepo constructs a RatingRepo with the provided DB handle.
func NewRatingRepo(db *sql.DB) *RatingRepo {
	return &RatingRepo{db: db}
}

// RateFilm stores the user's score for a film, overwriting any prior
// score for the same pair.  Scores outside [1,5] are rejected with
// ErrInvalidScore before anything touches the database.
func (r *RatingRepo) RateFilm(ctx context.Context, userID, filmID uint64, score int) error {
	if score < 1 || score > 5 {
		return ErrInvalidScore
	}
	ok, err := rowExists(ctx, r.db, "films", filmID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFilmNotFound
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO film_ratings (user_id, film_id, score) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE score = VALUES(score)`,
		userID, filmID, score)
	if isForeignKeyViolation(err) {
		return ErrUserNotFound
	}
	return err
}

// RateSeries is the series counterpart of RateFilm.
func (r *RatingRepo) RateSeries(ctx context.Context, userID, seriesID uint64, score int) error {
	if score < 1 || score > 5 {
		return ErrInvalidScore
	}
	ok, err := rowExists(ctx, r.db, "series", seriesID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSeriesNotFound
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO series_ratings (user_id, series_id, score) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE score = VALUES(score)`,
		userID, seriesID, score)
	if isForeignKeyViolation(err) {
		return ErrUserNotFound
	}
	return err
}

// FilmAverage returns the arithmetic mean of all scores for a film.
// ErrNoRatings covers both "zero ratings" and "no such film"; the two
// cases are deliberately not distinguished.
func (r *RatingRepo) FilmAverage(ctx context.Context, filmID uint64) (float64, error) {
	return r.average(ctx, "SELECT AVG(score) FROM film_ratings WHERE film_id = ?", filmID)
}

// SeriesAverage is the series counterpart of FilmAverage.
func (r *RatingRepo) SeriesAverage(ctx context.Context, seriesID uint64) (float64, error) {
	return r.average(ctx, "SELECT AVG(score) FROM series_ratings WHERE series_id = ?", seriesID)
}

func (r *RatingRepo) average(ctx context.Context, query string, itemID uint64) (float64, error) {
	var avg sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, query, itemID).Scan(&avg); err != nil {
		return 0, err
	}
	if !avg.Valid {
		return 0, ErrNoRatings
	}
	return avg.Float64, nil
}

// UserFilmRating returns the single stored score for the pair, or
// ErrRatingNotFound when the user has not rated the film.
func (r *RatingRepo) UserFilmRating(ctx context.Context, userID, filmID uint64) (*model.FilmRating, error) {
	fr := &model.FilmRating{UserID: userID, FilmID: filmID}
	err := r.db.QueryRowContext(ctx,
		"SELECT score FROM film_ratings WHERE user_id = ? AND film_id = ?", userID, filmID).
		Scan(&fr.Score)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return fr, nil
}

// UserSeriesRating is the series counterpart of UserFilmRating.
func (r *RatingRepo) UserSeriesRating(ctx context.Context, userID, seriesID uint64) (*model.SeriesRating, error) {
	sr := &model.SeriesRating{UserID: userID, SeriesID: seriesID}
	err := r.db.QueryRowContext(ctx,
		"SELECT score FROM series_ratings WHERE user_id = ? AND series_id = ?", userID, seriesID).
		Scan(&sr.Score)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return sr, nil
}
