package recurrence

import (
	"fmt"
	"time"
)

// Daily repeats every N days, optionally at a fixed time of day.
type Daily struct {
	days  int
	at    Clock
	timed bool
}

// NewDaily returns an untimed daily rule; the time of day is carried over from the previous occurrence.
func NewDaily(days int) (Daily, error) {
	if days < 1 || days > MaxInterval {
		return Daily{}, fmt.Errorf("%w: daily.days must be in [1,%d], got %d", ErrMalformedField, MaxInterval, days)
	}
	return Daily{days: days}, nil
}

// NewDailyAt returns a daily rule pinned to a time of day.
func NewDailyAt(days int, at Clock) (Daily, error) {
	d, err := NewDaily(days)
	if err != nil {
		return Daily{}, err
	}
	if _, err := NewClock(at.Hour, at.Minute); err != nil {
		return Daily{}, err
	}
	d.at, d.timed = at, true
	return d, nil
}

func (d Daily) Days() int { return d.days }

// At returns the pinned time of day, if any.
func (d Daily) At() (Clock, bool) { return d.at, d.timed }

func (Daily) Kind() Kind { return KindDaily }

func (Daily) sealed() {}

// Next returns the following occurrence after t. For timed rules an instant at
// or past today's slot moves to the slot N days later; an earlier instant
// catches today's slot.
func (d Daily) Next(t time.Time) time.Time {
	if !d.timed {
		return addDays(t, d.days)
	}
	if timeOfDay(t) >= d.at.sinceMidnight() {
		return d.at.On(addDays(t, d.days))
	}
	return d.at.On(t)
}

// Previous mirrors Next.
func (d Daily) Previous(t time.Time) (time.Time, error) {
	if !d.timed {
		return addDays(t, -d.days), nil
	}
	if timeOfDay(t) <= d.at.sinceMidnight() {
		return d.at.On(addDays(t, -d.days)), nil
	}
	return d.at.On(t), nil
}

func (d Daily) String() string {
	s := "every day"
	if d.days != 1 {
		s = fmt.Sprintf("every %d days", d.days)
	}
	if d.timed {
		s += " at " + d.at.String()
	}
	return s
}

var dailyPatterns = []pattern{
	// "every day", "every 3 days", "every 2 days at 3:00 pm"
	compile("every-days-at", `every `, countExpr("day"), `(?: at `, timeExpr, `)?`),
	// "3:00 pm every 2 days"
	compile("at-every-days", timeExpr, `\s*every `, countExpr("day")),
}

// ParseDaily reads phrases such as "every 3 days at 15:00". ok is false when
// the text is not a daily phrase.
func ParseDaily(text string) (Daily, bool) {
	c, ok := firstMatch(dailyPatterns, normalize(text))
	if !ok {
		return Daily{}, false
	}
	days, ok := c.count()
	if !ok {
		return Daily{}, false
	}
	if !c.has("hours") {
		return Daily{days: days}, true
	}
	at, ok := c.clock()
	if !ok {
		return Daily{}, false
	}
	return Daily{days: days, at: at, timed: true}, true
}
