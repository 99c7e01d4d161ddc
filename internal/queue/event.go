// Package queue defines message payloads exchanged over the message broker.
package queue

// RatingSubmittedEvent is published when a user rates a film or series.
// It carries enough information for downstream consumers to log, feed
// recommendations, or update analytics without querying the primary
// database.  ItemKind is "film" or "series".
type RatingSubmittedEvent struct {
	UserID      uint64  `json:"user_id"`
	Username    string  `json:"username"`
	ItemKind    string  `json:"item_kind"`
	ItemID      uint64  `json:"item_id"`
	ItemTitle   string  `json:"item_title"`
	Score       int     `json:"score"`
	NewAverage  float64 `json:"new_average"`
	SubmittedAt string  `json:"submitted_at"`
}
