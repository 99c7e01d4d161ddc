package model

import (
	"strings"
	"time"
)

// SeriesStatus describes where a series currently stands in its
// broadcast lifecycle.  Stored as a small integer in the `series.status`
// column; zero means unknown so new rows default to it naturally.
type SeriesStatus uint8

const (
	StatusUnknown SeriesStatus = iota
	StatusAnnounced
	StatusOngoing
	StatusCompleted
	StatusCancelled
	StatusOnHiatus
)

var statusNames = map[SeriesStatus]string{
	StatusUnknown:   "unknown",
	StatusAnnounced: "announced",
	StatusOngoing:   "ongoing",
	StatusCompleted: "completed",
	StatusCancelled: "cancelled",
	StatusOnHiatus:  "on_hiatus",
}

// String returns the lowercase wire name of the status.  Unmapped
// values fall back to "unknown".
func (s SeriesStatus) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "unknown"
}

// ParseSeriesStatus converts a wire name back to its SeriesStatus.  The
// second return value reports whether the name was recognised.
func ParseSeriesStatus(name string) (SeriesStatus, bool) {
	for s, n := range statusNames {
		if n == name {
			return s, true
		}
	}
	return StatusUnknown, false
}

// MarshalJSON writes the status as its wire name.
func (s SeriesStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON accepts the wire name; unknown names map to
// StatusUnknown rather than failing the whole payload.
func (s *SeriesStatus) UnmarshalJSON(b []byte) error {
	name := strings.Trim(string(b), `"`)
	parsed, _ := ParseSeriesStatus(name)
	*s = parsed
	return nil
}

// Series represents a TV series.  Same shape as Film except for the
// status column, no duration, and the owned chain of seasons.
type Series struct {
	ID             uint64       `json:"id"`              // series.id
	Title          string       `json:"title"`           // series.title
	ReleaseYear    *int         `json:"release_year"`    // series.release_year (nullable)
	Summary        *string      `json:"summary"`         // series.summary (nullable)
	PosterFilename *string      `json:"poster_filename"` // series.poster_filename (nullable)
	Status         SeriesStatus `json:"status"`          // series.status
	DirectorID     *uint64      `json:"director_id"`     // series.director_id (nullable FK)
	CreatedAt      time.Time    `json:"created_at"`      // series.created_at
	UpdatedAt      time.Time    `json:"updated_at"`      // series.updated_at

	// Hydrated relationship views, see Film.
	Director *PersonRef     `json:"director,omitempty"`
	Genres   []GenreRef     `json:"genres,omitempty"`
	Actors   []PersonRef    `json:"actors,omitempty"`
	Seasons  []Season       `json:"seasons,omitempty"`
	Ratings  []SeriesRating `json:"ratings,omitempty"`
}

// Season belongs to exactly one series and owns an ordered collection
// of episodes.  Deleted together with its series.
type Season struct {
	ID       uint64     `json:"id"`         // seasons.id
	SeriesID uint64     `json:"series_id"`  // seasons.series_id (FK, cascade)
	Number   int        `json:"number"`     // seasons.number
	Name     *string    `json:"name"`       // seasons.name (nullable)
	AirDate  *time.Time `json:"air_date"`   // seasons.air_date (nullable)
	Episodes []Episode  `json:"episodes,omitempty"`
}

// Episode belongs to exactly one season.  Deleted together with its
// season.
type Episode struct {
	ID          uint64     `json:"id"`           // episodes.id
	SeasonID    uint64     `json:"season_id"`    // episodes.season_id (FK, cascade)
	Number      int        `json:"number"`       // episodes.number
	Name        *string    `json:"name"`         // episodes.name (nullable)
	Summary     *string    `json:"summary"`      // episodes.summary (nullable)
	AirDate     *time.Time `json:"air_date"`     // episodes.air_date (nullable)
	DurationMin *int       `json:"duration_min"` // episodes.duration_min (nullable)
}
