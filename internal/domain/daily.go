package domain

import "time"

// DateLayout is the layout of calendar date keys.
const DateLayout = "2006-01-02"

// DateKey returns the local calendar date of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateKey parses a YYYY-MM-DD key in the local timezone.
func ParseDateKey(key string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, key, time.Local)
}

// ShiftDateKey returns the key offset by the given number of calendar days from t.
func ShiftDateKey(t time.Time, days int) string {
	y, m, d := t.Date()
	return DateKey(time.Date(y, m, d+days, 12, 0, 0, 0, t.Location()))
}

// DailyCounter counts completed work sessions for one calendar date.
type DailyCounter struct {
	Date  string
	Count int
}

// Rollover zeroes the counter when it belongs to a different date than today.
// It returns true if the counter was reset.
func (c *DailyCounter) Rollover(today string) bool {
	if c.Date == today {
		return false
	}
	c.Date = today
	c.Count = 0
	return true
}
