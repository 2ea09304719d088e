package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartAndEndOfDay(t *testing.T) {
	// 2025-03-10 20:00 UTC is 2025-03-11 01:30 on campus.
	utc := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)

	start := StartOfDay(utc)
	assert.Equal(t, 11, start.Day())
	assert.Equal(t, 0, start.Hour())

	end := EndOfDay(utc)
	assert.Equal(t, 11, end.Day())
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
}

func TestIsSameDay(t *testing.T) {
	// Both instants fall on 2025-03-11 campus time even though they
	// straddle UTC midnight.
	a := time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC)
	b := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)
	assert.True(t, IsSameDay(a, b))

	c := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	assert.False(t, IsSameDay(a, c))
}

func TestDaysBetween(t *testing.T) {
	a := Date(2025, 3, 1)
	b := Date(2025, 3, 15)

	assert.Equal(t, 14, DaysBetween(a, b))
	assert.Equal(t, 14, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestDeadlineFromDate(t *testing.T) {
	deadline, err := DeadlineFromDate("2025-06-30")
	require.NoError(t, err)

	// End of June 30 campus day is 18:29:59 UTC.
	assert.Equal(t, time.UTC, deadline.Location())
	assert.Equal(t, 30, deadline.Day())
	assert.Equal(t, 18, deadline.Hour())
	assert.Equal(t, 29, deadline.Minute())

	_, err = DeadlineFromDate("30/06/2025")
	assert.Error(t, err)
}

func TestDeadlinePassed(t *testing.T) {
	deadline := time.Date(2025, 6, 30, 18, 29, 59, 0, time.UTC)

	assert.False(t, DeadlinePassed(deadline, deadline))
	assert.False(t, DeadlinePassed(deadline, deadline.Add(-time.Second)))
	assert.True(t, DeadlinePassed(deadline, deadline.Add(time.Second)))
}

func TestParseDateCampus(t *testing.T) {
	parsed, err := ParseDateCampus("2025-01-15")
	require.NoError(t, err)

	assert.Equal(t, 2025, parsed.Year())
	assert.Equal(t, time.January, parsed.Month())
	assert.Equal(t, 15, parsed.Day())
	assert.Equal(t, "Asia/Kolkata", parsed.Location().String())
}

func TestFormatDateStr(t *testing.T) {
	// 2025-03-10 20:00 UTC is already the next day on campus.
	utc := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-11", FormatDateStr(utc))
}
