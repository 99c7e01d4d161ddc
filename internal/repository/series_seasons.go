// Season and episode persistence.  Both live inside the series
// aggregate: a season always belongs to one series, an episode to one
// season, and both go away with their parent via the schema cascades.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/emirhankose/dizifilm-api/internal/model"
)

func validateSeason(s *model.Season) error {
	if s.Number <= 0 {
		return validationErrorf("season number must be positive")
	}
	if s.Name != nil {
		trimmed := strings.TrimSpace(*s.Name)
		if utf8.RuneCountInString(trimmed) > 200 {
			return validationErrorf("season name exceeds 200 characters")
		}
		s.Name = &trimmed
	}
	return nil
}

func validateEpisode(e *model.Episode) error {
	if e.Number <= 0 {
		return validationErrorf("episode number must be positive")
	}
	if e.Name != nil && utf8.RuneCountInString(*e.Name) > 250 {
		return validationErrorf("episode name exceeds 250 characters")
	}
	if e.Summary != nil && utf8.RuneCountInString(*e.Summary) > 2000 {
		return validationErrorf("episode summary exceeds 2000 characters")
	}
	return nil
}

// AddSeason inserts a season under the given series.  Returns
// ErrSeriesNotFound when the series does not exist.
func (r *SeriesRepo) AddSeason(ctx context.Context, seriesID uint64, s *model.Season) error {
	if err := validateSeason(s); err != nil {
		return err
	}
	ok, err := rowExists(ctx, r.db, "series", seriesID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSeriesNotFound
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO seasons (series_id, number, name, air_date) VALUES (?,?,?,?)",
		seriesID, s.Number, s.Name, s.AirDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.SeriesID = seriesID
	s.Episodes = []model.Episode{}
	return nil
}

// GetSeason fetches one season with its episodes.
func (r *SeriesRepo) GetSeason(ctx context.Context, seasonID uint64) (*model.Season, error) {
	s := new(model.Season)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, series_id, number, name, air_date FROM seasons WHERE id = ?", seasonID).
		Scan(&s.ID, &s.SeriesID, &s.Number, &s.Name, &s.AirDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	episodes, err := r.EpisodesBySeason(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Episodes = episodes
	return s, nil
}

// SeasonsBySeries returns the series' seasons in broadcast order, each
// with its episodes attached via one batched secondary query.
func (r *SeriesRepo) SeasonsBySeries(ctx context.Context, seriesID uint64) ([]model.Season, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, series_id, number, name, air_date FROM seasons WHERE series_id = ? ORDER BY number", seriesID)
	if err != nil {
		return nil, err
	}
	seasons := []model.Season{}
	for rows.Next() {
		var s model.Season
		if err := rows.Scan(&s.ID, &s.SeriesID, &s.Number, &s.Name, &s.AirDate); err != nil {
			rows.Close()
			return nil, err
		}
		s.Episodes = []model.Episode{}
		seasons = append(seasons, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	if len(seasons) == 0 {
		return seasons, nil
	}

	idx := make(map[uint64]*model.Season, len(seasons))
	ids := make([]uint64, 0, len(seasons))
	for i := range seasons {
		idx[seasons[i].ID] = &seasons[i]
		ids = append(ids, seasons[i].ID)
	}
	rows, err = r.db.QueryContext(ctx,
		"SELECT id, season_id, number, name, summary, air_date, duration_min FROM episodes WHERE season_id IN ("+
			placeholders(len(ids))+") ORDER BY season_id, number", idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var e model.Episode
		if err := rows.Scan(&e.ID, &e.SeasonID, &e.Number, &e.Name, &e.Summary, &e.AirDate, &e.DurationMin); err != nil {
			return nil, err
		}
		if s, ok := idx[e.SeasonID]; ok {
			s.Episodes = append(s.Episodes, e)
		}
	}
	return seasons, rows.Err()
}

// UpdateSeason applies number/name/air date changes.  The owning
// series is immutable.  Reports ErrSeasonNotFound on a missing id.
func (r *SeriesRepo) UpdateSeason(ctx context.Context, s *model.Season) error {
	if err := validateSeason(s); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE seasons SET number = ?, name = ?, air_date = ? WHERE id = ?",
		s.Number, s.Name, s.AirDate, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if ok, e := rowExists(ctx, r.db, "seasons", s.ID); e == nil && !ok {
			return ErrSeasonNotFound
		}
	}
	return nil
}

// DeleteSeason removes a season and, via cascade, its episodes.
// Silent success when the id does not exist.
func (r *SeriesRepo) DeleteSeason(ctx context.Context, seasonID uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM seasons WHERE id = ?", seasonID)
	return err
}

// AddEpisode inserts an episode under the given season.  Returns
// ErrSeasonNotFound when the season does not exist.
func (r *SeriesRepo) AddEpisode(ctx context.Context, seasonID uint64, e *model.Episode) error {
	if err := validateEpisode(e); err != nil {
		return err
	}
	ok, err := rowExists(ctx, r.db, "seasons", seasonID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSeasonNotFound
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO episodes (season_id, number, name, summary, air_date, duration_min) VALUES (?,?,?,?,?,?)",
		seasonID, e.Number, e.Name, e.Summary, e.AirDate, e.DurationMin)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	e.SeasonID = seasonID
	return nil
}

// GetEpisode fetches one episode.
func (r *SeriesRepo) GetEpisode(ctx context.Context, episodeID uint64) (*model.Episode, error) {
	e := new(model.Episode)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, season_id, number, name, summary, air_date, duration_min FROM episodes WHERE id = ?", episodeID).
		Scan(&e.ID, &e.SeasonID, &e.Number, &e.Name, &e.Summary, &e.AirDate, &e.DurationMin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEpisodeNotFound
		}
		return nil, err
	}
	return e, nil
}

// EpisodesBySeason returns the season's episodes in order.
func (r *SeriesRepo) EpisodesBySeason(ctx context.Context, seasonID uint64) ([]model.Episode, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, season_id, number, name, summary, air_date, duration_min FROM episodes WHERE season_id = ? ORDER BY number", seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Episode{}
	for rows.Next() {
		var e model.Episode
		if err := rows.Scan(&e.ID, &e.SeasonID, &e.Number, &e.Name, &e.Summary, &e.AirDate, &e.DurationMin); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateEpisode applies scalar changes; the owning season is
// immutable.  Reports ErrEpisodeNotFound on a missing id.
func (r *SeriesRepo) UpdateEpisode(ctx context.Context, e *model.Episode) error {
	if err := validateEpisode(e); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE episodes SET number = ?, name = ?, summary = ?, air_date = ?, duration_min = ? WHERE id = ?",
		e.Number, e.Name, e.Summary, e.AirDate, e.DurationMin, e.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if ok, errEx := rowExists(ctx, r.db, "episodes", e.ID); errEx == nil && !ok {
			return ErrEpisodeNotFound
		}
	}
	return nil
}

// DeleteEpisode removes an episode; silent success when absent.
func (r *SeriesRepo) DeleteEpisode(ctx context.Context, episodeID uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM episodes WHERE id = ?", episodeID)
	return err
}
