package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock is a wall-clock time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// DefaultClock is used by weekly and monthly rules that name no time.
var DefaultClock = Clock{Hour: 9}

func NewClock(hour, minute int) (Clock, error) {
	if hour < 0 || hour > 23 {
		return Clock{}, fmt.Errorf("%w: hour %d out of range", ErrMalformedField, hour)
	}
	if minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("%w: minute %d out of range", ErrMalformedField, minute)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// ParseClock reads the "HH:MM" wire form. A seconds part is accepted only when it is zero.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Clock{}, fmt.Errorf("%w: invalid time %q, expected HH:MM", ErrMalformedField, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return Clock{}, fmt.Errorf("%w: invalid hour in %q", ErrMalformedField, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return Clock{}, fmt.Errorf("%w: invalid minute in %q", ErrMalformedField, s)
	}
	if len(parts) == 3 {
		sec, err := strconv.ParseFloat(parts[2], 64)
		if err != nil || sec != 0 {
			return Clock{}, fmt.Errorf("%w: seconds not supported in %q", ErrMalformedField, s)
		}
	}
	return NewClock(h, m)
}

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// On places c on t's calendar date, in t's location. A time skipped by a
// daylight-saving jump lands the length of the jump later (02:30 becomes 03:30).
func (c Clock) On(t time.Time) time.Time {
	y, mo, d := t.Date()
	return wallTime(y, mo, d, c.Hour, c.Minute, 0, 0, t.Location())
}

// wallTime is time.Date that never moves backwards out of a DST gap:
// time.Date may resolve a skipped wall clock to an earlier instant, so the
// result is pushed forward by the difference.
func wallTime(year int, month time.Month, day, hour, minute, sec, nsec int, loc *time.Location) time.Time {
	t := time.Date(year, month, day, hour, minute, sec, nsec, loc)
	want := time.Date(year, month, day, hour, minute, sec, nsec, time.UTC)
	got := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	if gap := want.Sub(got); gap > 0 {
		t = t.Add(gap)
	}
	return t
}

// addDays moves t by n calendar days keeping its wall clock.
func addDays(t time.Time, n int) time.Time {
	y, mo, d := t.Date()
	h, m, s := t.Clock()
	return wallTime(y, mo, d+n, h, m, s, t.Nanosecond(), t.Location())
}

func (c Clock) sinceMidnight() time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute
}

// timeOfDay is how far t's wall clock is past midnight.
func timeOfDay(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
}

// midnight returns the start of t's calendar date shifted by days.
func midnight(t time.Time, days int) time.Time {
	y, mo, d := t.Date()
	return wallTime(y, mo, d+days, 0, 0, 0, 0, t.Location())
}
