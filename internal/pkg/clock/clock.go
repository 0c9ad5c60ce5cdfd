// Package clock converts absolute instants into an organization's local
// calendar: minutes of day, day boundaries and month windows.
package clock

import (
	"fmt"
	"strings"
	"time"
)

// DefaultOffsetMinutes is UTC+8, used when an organization has no offset configured.
const DefaultOffsetMinutes = 8 * 60

const dateLayout = "2006-01-02"

type Clock struct {
	loc *time.Location
}

// FixedOffset returns a clock for a fixed offset east of UTC.
func FixedOffset(offsetMinutes int) Clock {
	sign := '+'
	if offsetMinutes < 0 {
		sign = '-'
	}
	name := fmt.Sprintf("UTC%c%02d:%02d", sign, abs(offsetMinutes)/60, abs(offsetMinutes)%60)
	return Clock{loc: time.FixedZone(name, offsetMinutes*60)}
}

// ForOrganization prefers an IANA timezone identifier and falls back to the
// fixed offset when timezone is nil or blank.
func ForOrganization(offsetMinutes int, timezone *string) (Clock, error) {
	if timezone != nil && strings.TrimSpace(*timezone) != "" {
		loc, err := time.LoadLocation(strings.TrimSpace(*timezone))
		if err != nil {
			return Clock{}, fmt.Errorf("load timezone %q: %w", *timezone, err)
		}
		return Clock{loc: loc}, nil
	}
	return FixedOffset(offsetMinutes), nil
}

func (c Clock) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// In returns t expressed in the clock's location.
func (c Clock) In(t time.Time) time.Time {
	return t.In(c.Location())
}

// LocalMinutes returns the minutes elapsed since local midnight.
func (c Clock) LocalMinutes(t time.Time) int {
	local := c.In(t)
	return local.Hour()*60 + local.Minute()
}

// LocalHHMM formats the local time of day of t.
func (c Clock) LocalHHMM(t time.Time) string {
	return MinutesToHHMM(c.LocalMinutes(t))
}

// StartOfDay returns local midnight of the day containing t.
func (c Clock) StartOfDay(t time.Time) time.Time {
	local := c.In(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.Location())
}

// NextDay returns local midnight of the day after the one containing t.
func (c Clock) NextDay(t time.Time) time.Time {
	start := c.StartOfDay(t)
	return time.Date(start.Year(), start.Month(), start.Day()+1, 0, 0, 0, 0, c.Location())
}

// EndOfDay returns the last representable instant of the local day containing t.
func (c Clock) EndOfDay(t time.Time) time.Time {
	return c.NextDay(t).Add(-time.Nanosecond)
}

// DateKey returns the local calendar date of t as YYYY-MM-DD.
func (c Clock) DateKey(t time.Time) string {
	return c.In(t).Format(dateLayout)
}

// ParseDate parses YYYY-MM-DD as local midnight.
func (c Clock) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, c.Location())
}

// MonthWindow returns [first local midnight of the month, first local midnight of the next month).
func (c Clock) MonthWindow(year int, month time.Month) (from, to time.Time) {
	from = time.Date(year, month, 1, 0, 0, 0, 0, c.Location())
	to = time.Date(year, month+1, 1, 0, 0, 0, 0, c.Location())
	return from, to
}

// ParseMonth parses YYYY-MM and returns its local window.
func (c Clock) ParseMonth(s string) (from, to time.Time, err error) {
	m, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	from, to = c.MonthWindow(m.Year(), m.Month())
	return from, to, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
