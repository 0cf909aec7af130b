package recurrence

import (
	"fmt"
	"time"
)

// Weekly repeats on a set of weekdays every N weeks, at a fixed time of day.
type Weekly struct {
	weeks    int
	weekdays WeekdaySet
	at       Clock
}

// NewWeekly builds a weekly rule. An empty weekday set falls back to DefaultWeekday.
func NewWeekly(weeks int, weekdays WeekdaySet, at Clock) (Weekly, error) {
	if weeks < 1 || weeks > MaxInterval {
		return Weekly{}, fmt.Errorf("%w: weekly.weeks must be in [1,%d], got %d", ErrMalformedField, MaxInterval, weeks)
	}
	if _, err := NewClock(at.Hour, at.Minute); err != nil {
		return Weekly{}, err
	}
	if weekdays.IsEmpty() {
		weekdays = NewWeekdaySet(DefaultWeekday)
	}
	return Weekly{weeks: weeks, weekdays: weekdays, at: at}, nil
}

func (w Weekly) Weeks() int           { return w.weeks }
func (w Weekly) Weekdays() WeekdaySet { return w.weekdays }
func (w Weekly) At() Clock            { return w.at }
func (Weekly) Kind() Kind             { return KindWeekly }
func (Weekly) sealed()                {}

// occurrenceKey orders instants within a week: weekday first, then time of day.
type occurrenceKey struct {
	day Weekday
	tod time.Duration
}

func keyOf(t time.Time) occurrenceKey {
	return occurrenceKey{day: WeekdayOf(t), tod: timeOfDay(t)}
}

func (k occurrenceKey) less(o occurrenceKey) bool {
	if k.day != o.day {
		return k.day < o.day
	}
	return k.tod < o.tod
}

// Next works on t's wall clock in t's location. Once t reaches the last slot
// of its week the rule jumps to the Monday starting the next active week;
// otherwise it bounces to a later weekday of the same week. The current day
// itself is always skipped.
func (w Weekly) Next(t time.Time) time.Time {
	w = w.withDefaults()
	final := occurrenceKey{day: w.weekdays.Last(), tod: w.at.sinceMidnight()}
	if !keyOf(t).less(final) {
		t = midnight(t, 1)
		for WeekdayOf(t) != Monday {
			t = midnight(t, 1)
		}
		t = addDays(t, 7*(w.weeks-1))
	} else {
		t = addDays(t, 1)
	}

	t = w.at.On(t)
	for !w.weekdays.Has(WeekdayOf(t)) {
		t = w.at.On(midnight(t, 1))
	}
	return t
}

// Previous is not implemented for weekly rules.
func (w Weekly) Previous(time.Time) (time.Time, error) {
	return time.Time{}, fmt.Errorf("weekly previous occurrence: %w", ErrUnsupported)
}

// withDefaults fills what the zero value leaves out: one week, DefaultWeekday.
func (w Weekly) withDefaults() Weekly {
	if w.weeks < 1 {
		w.weeks = 1
	}
	if w.weekdays.IsEmpty() {
		w.weekdays = NewWeekdaySet(DefaultWeekday)
	}
	return w
}

func (w Weekly) String() string {
	w = w.withDefaults()
	s := "every week"
	if w.weeks != 1 {
		s = fmt.Sprintf("every %d weeks", w.weeks)
	}
	return s + " on " + w.weekdays.String() + " at " + w.at.String()
}

var weeklyPatterns = []pattern{
	// "every week", "every 3 weeks on tuesday and thursday", "every 2 weeks at 3:00pm"
	compile("every-weeks-on-at", `every `, countExpr("week"), `(?: on `, weekdayListExpr, `)?(?: at `, timeExpr, `)?`),
	// "3:00 pm every 2 weeks", "12:00 every week on tuesday, wednesday, and thursday"
	compile("at-every-weeks-on", timeExpr, `\s*every `, countExpr("week"), `(?: on `, weekdayListExpr, `)?`),
	// "every friday and saturday at 3:00pm"
	compile("every-on-at", `every `, weekdayListExpr, `(?: at `, timeExpr, `)?`),
	// "sunday and tuesday every week"
	compile("on-every-weeks", weekdayListExpr, ` every `, countExpr("week")),
	// "sunday and tuesday at 4:15pm"
	compile("on-at", weekdayListExpr, ` at `, timeExpr),
	// "saturday, sunday, and monday every 2 weeks at 3:00pm"
	compile("on-every-weeks-at", weekdayListExpr, `(?: every `, countExpr("week"), `)?`, ` at `, timeExpr),
	// "saturday at 1am every 4 weeks"
	compile("on-at-every-weeks", weekdayListExpr, `(?: at `, timeExpr, `)?`, ` every `, countExpr("week")),
}

// ParseWeekly reads phrases such as "every 2 weeks on Monday and Friday at 8am".
// Missing parts default to one week, DefaultWeekday and DefaultClock.
func ParseWeekly(text string) (Weekly, bool) {
	c, ok := firstMatch(weeklyPatterns, normalize(text))
	if !ok {
		return Weekly{}, false
	}
	weeks, ok := c.count()
	if !ok {
		return Weekly{}, false
	}
	days, ok := c.weekdays()
	if !ok {
		return Weekly{}, false
	}
	at, ok := c.clockOr(DefaultClock)
	if !ok {
		return Weekly{}, false
	}
	return Weekly{weeks: weeks, weekdays: days, at: at}, true
}
