package dateutil

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Value stores the date as a time.Time for DATE columns.
func (d Date) Value() (driver.Value, error) {
	return d.Time(), nil
}

// Scan reads DATE columns returned as time.Time, string or []byte.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		// Drivers may hand back a full timestamp; only the date part matters.
		if len(v) > 10 {
			v = v[:10]
		}
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into dateutil.Date", src)
	}
}

// Value stores the clock as an HH:MM string for TIME columns.
func (c Clock) Value() (driver.Value, error) {
	return c.String(), nil
}

// Scan reads TIME columns returned as string, []byte or time.Time.
// Postgres TIME values arrive as "HH:MM:SS"; only the leading HH:MM is kept.
func (c *Clock) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		if len(v) > 5 {
			v = v[:5]
		}
		parsed, err := ParseClock(v)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case []byte:
		return c.Scan(string(v))
	case time.Time:
		*c = Clock(v.Hour()*60 + v.Minute())
		return nil
	case nil:
		*c = 0
		return nil
	default:
		return fmt.Errorf("cannot scan %T into dateutil.Clock", src)
	}
}
