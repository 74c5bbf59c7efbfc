package dateutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-06")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year)
	assert.Equal(t, time.January, d.Month)
	assert.Equal(t, 6, d.Day)
	assert.Equal(t, "2025-01-06", d.String())
}

func TestParseDateRejectsNonexistentDays(t *testing.T) {
	cases := []string{"2025-02-30", "2025-13-01", "2025-04-31", "not-a-date", "2025-1-6", ""}
	for _, raw := range cases {
		_, err := ParseDate(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseDateLeapYear(t *testing.T) {
	_, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	_, err = ParseDate("2025-02-29")
	assert.Error(t, err)
}

func TestDateArithmetic(t *testing.T) {
	d, _ := ParseDate("2025-01-31")
	assert.Equal(t, "2025-02-01", d.AddDays(1).String())
	assert.Equal(t, "2025-01-30", d.AddDays(-1).String())

	before, _ := ParseDate("2025-01-01")
	assert.True(t, before.Before(d))
	assert.True(t, d.After(before))
	assert.True(t, d.Equal(d))

	assert.True(t, Date{}.IsZero())
	assert.False(t, d.IsZero())
}

func TestDateJSONRoundTrip(t *testing.T) {
	d, _ := ParseDate("2025-06-15")
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-06-15"`, string(raw))

	var parsed Date
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.True(t, d.Equal(parsed))
}

func TestWeekdayConversions(t *testing.T) {
	// Template convention: Sunday=0 .. Saturday=6.
	wd, err := WeekdayFromSundayZero(0)
	require.NoError(t, err)
	assert.Equal(t, Sunday, wd)

	wd, err = WeekdayFromSundayZero(1)
	require.NoError(t, err)
	assert.Equal(t, Monday, wd)

	wd, err = WeekdayFromSundayZero(6)
	require.NoError(t, err)
	assert.Equal(t, Saturday, wd)

	_, err = WeekdayFromSundayZero(7)
	assert.Error(t, err)
}

func TestWeekdayRoundTrip(t *testing.T) {
	for wd := Monday; wd <= Sunday; wd++ {
		back, err := WeekdayFromSundayZero(wd.SundayZero())
		require.NoError(t, err)
		assert.Equal(t, wd, back)
	}
}

func TestDateWeekday(t *testing.T) {
	// 2025-01-06 is a Monday.
	d, _ := ParseDate("2025-01-06")
	assert.Equal(t, Monday, d.Weekday())
	assert.False(t, d.IsWeekend())

	// 2025-01-04 is a Saturday.
	sat, _ := ParseDate("2025-01-04")
	assert.Equal(t, Saturday, sat.Weekday())
	assert.True(t, sat.IsWeekend())
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2025, time.February)
	assert.Equal(t, "2025-02-01", start.String())
	assert.Equal(t, "2025-02-28", end.String())

	start, end = MonthRange(2024, time.February)
	assert.Equal(t, "2024-02-01", start.String())
	assert.Equal(t, "2024-02-29", end.String())
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, Clock(9*60+30), c)
	assert.Equal(t, "09:30", c.String())

	for _, raw := range []string{"24:00", "09:60", "9:30", "0930", ""} {
		_, err := ParseClock(raw)
		assert.Error(t, err, raw)
	}
}

func TestClockArithmetic(t *testing.T) {
	c, _ := ParseClock("10:00")
	assert.Equal(t, "12:00", c.AddMinutes(120).String())
	assert.Equal(t, 60, c.Sub(Clock(9*60)))
	assert.True(t, c.Valid())
	assert.False(t, c.AddMinutes(15*60).Valid())
}

func TestOverlap(t *testing.T) {
	parse := func(s string) Clock {
		c, err := ParseClock(s)
		require.NoError(t, err)
		return c
	}

	// 09:00-13:00 vs 12:30-14:00 share exactly 30 minutes.
	assert.Equal(t, 30, Overlap(parse("09:00"), parse("13:00"), parse("12:30"), parse("14:00")))

	// Overlap is commutative.
	assert.Equal(t, 30, Overlap(parse("12:30"), parse("14:00"), parse("09:00"), parse("13:00")))

	// Touching endpoints do not overlap.
	assert.Equal(t, 0, Overlap(parse("09:00"), parse("10:00"), parse("10:00"), parse("11:00")))

	// Disjoint windows.
	assert.Equal(t, 0, Overlap(parse("09:00"), parse("10:00"), parse("11:00"), parse("12:00")))

	// Containment overlaps by the inner window.
	assert.Equal(t, 60, Overlap(parse("09:00"), parse("12:00"), parse("10:00"), parse("11:00")))
}
