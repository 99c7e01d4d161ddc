package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesStatusNames(t *testing.T) {
	assert.Equal(t, "unknown", StatusUnknown.String())
	assert.Equal(t, "ongoing", StatusOngoing.String())
	assert.Equal(t, "on_hiatus", StatusOnHiatus.String())
	// values outside the mapped range fall back to unknown
	assert.Equal(t, "unknown", SeriesStatus(200).String())
}

func TestParseSeriesStatus(t *testing.T) {
	s, ok := ParseSeriesStatus("completed")
	assert.True(t, ok)
	assert.Equal(t, StatusCompleted, s)

	_, ok = ParseSeriesStatus("renewed")
	assert.False(t, ok)
}

func TestSeriesStatusJSON(t *testing.T) {
	b, err := json.Marshal(StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, `"cancelled"`, string(b))

	var s SeriesStatus
	require.NoError(t, json.Unmarshal([]byte(`"announced"`), &s))
	assert.Equal(t, StatusAnnounced, s)

	// unknown names degrade to StatusUnknown instead of erroring
	require.NoError(t, json.Unmarshal([]byte(`"renewed"`), &s))
	assert.Equal(t, StatusUnknown, s)
}
