package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-14")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 14, d.Day())

	_, err = ParseDate("14/03/2025")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestFormatDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2025-12-31")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-31", FormatDate(d))
}

func TestMidnight(t *testing.T) {
	ts := time.Date(2025, 6, 15, 23, 45, 12, 999, time.UTC)
	got := Midnight(ts)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestDaysBetween(t *testing.T) {
	start, _ := ParseDate("2025-01-01")
	end, _ := ParseDate("2025-01-03")

	assert.Equal(t, 2, DaysBetween(start, end))
	assert.Equal(t, 0, DaysBetween(start, start))
	assert.Equal(t, -2, DaysBetween(end, start))
}

func TestClockMinutes(t *testing.T) {
	min, err := ClockMinutes("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9*60+30, min)

	min, err = ClockMinutes("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, min)

	_, err = ClockMinutes("9:3")
	assert.Error(t, err)
	_, err = ClockMinutes("")
	assert.Error(t, err)
}

func TestIsWeekday(t *testing.T) {
	mon, _ := ParseDate("2025-01-06")
	sat, _ := ParseDate("2025-01-04")
	sun, _ := ParseDate("2025-01-05")

	assert.True(t, IsWeekday(mon))
	assert.False(t, IsWeekday(sat))
	assert.False(t, IsWeekday(sun))
}
