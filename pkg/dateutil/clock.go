package dateutil

import (
	"fmt"
	"regexp"
	"strconv"
)

// Clock is a naive local wall-clock time expressed as minutes since
// midnight. No timezone or DST handling is applied; slot times are the
// institution's wall-clock values.
type Clock int

var clockPattern = regexp.MustCompile(`^([0-1]\d|2[0-3]):([0-5]\d)$`)

// ParseClock parses an HH:MM (24h) string.
func ParseClock(raw string) (Clock, error) {
	m := clockPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", raw)
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return Clock(hours*60 + minutes), nil
}

// String formats the value as HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Hour returns the hour component (0-23).
func (c Clock) Hour() int {
	return int(c) / 60
}

// AddMinutes returns the clock value n minutes later. The result may pass
// midnight; callers that care must check Valid.
func (c Clock) AddMinutes(n int) Clock {
	return c + Clock(n)
}

// Sub returns the number of minutes from other to c.
func (c Clock) Sub(other Clock) int {
	return int(c) - int(other)
}

// Valid reports whether the value lies within a single day.
func (c Clock) Valid() bool {
	return c >= 0 && c < 24*60
}

// MarshalJSON encodes the value as an HH:MM string.
func (c Clock) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON decodes an HH:MM string.
func (c *Clock) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid time literal %s", data)
	}
	parsed, err := ParseClock(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Overlap returns the number of minutes the half-open intervals
// [aStart, aEnd) and [bStart, bEnd) share, or 0 when they are disjoint.
func Overlap(aStart, aEnd, bStart, bEnd Clock) int {
	start := aStart
	if bStart > start {
		start = bStart
	}
	end := aEnd
	if bEnd < end {
		end = bEnd
	}
	if end <= start {
		return 0
	}
	return end.Sub(start)
}
