package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOfTruncatesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	// 03:00 on March 2 in UTC+10 is still March 1 in UTC.
	local := time.Date(2026, 3, 2, 3, 0, 0, 0, loc)

	day := DayOf(local)
	assert.Equal(t, "2026-03-01", day.String())
	assert.True(t, day.Contains(local))
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", day.String())

	_, err = ParseDay("10/03/2026")
	assert.Error(t, err)
}

func TestDayWindowBoundaries(t *testing.T) {
	day, err := ParseDay("2026-03-10")
	require.NoError(t, err)

	assert.True(t, day.Contains(day.Start()))
	assert.False(t, day.Contains(day.End()), "the end boundary belongs to the next day")
	assert.True(t, day.AddDays(1).Contains(day.End()))
}

func TestAddDaysCrossesMonths(t *testing.T) {
	day, err := ParseDay("2026-02-27")
	require.NoError(t, err)

	assert.Equal(t, "2026-03-01", day.AddDays(2).String())
	assert.Equal(t, "2026-02-24", day.AddDays(-3).String())
}

func TestDaysBetween(t *testing.T) {
	a, err := ParseDay("2026-03-01")
	require.NoError(t, err)
	b, err := ParseDay("2026-03-15")
	require.NoError(t, err)

	assert.Equal(t, 14, DaysBetween(a, b))
	assert.Equal(t, -14, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestDayJSONRoundTrip(t *testing.T) {
	day, err := ParseDay("2026-03-10")
	require.NoError(t, err)

	data, err := json.Marshal(day)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-10"`, string(data))

	var decoded Day
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, day.Equal(decoded))

	assert.Error(t, json.Unmarshal([]byte(`"not-a-day"`), &decoded))
}

func TestNewIDIsUniqueAndNonEmpty(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.False(t, a.IsEmpty())
	assert.NotEqual(t, a, b)
}
