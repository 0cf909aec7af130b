package recurrence

import (
	"fmt"
	"time"
)

// DefaultDayOfMonth is used by monthly rules that name no day.
const DefaultDayOfMonth = 1

// Monthly repeats on one day of the month every N months. A negative day
// counts back from the end of the month: -1 is the last day.
type Monthly struct {
	months int
	day    int
	at     Clock
}

func NewMonthly(months, day int, at Clock) (Monthly, error) {
	if months < 1 || months > MaxInterval {
		return Monthly{}, fmt.Errorf("%w: monthly.months must be in [1,%d], got %d", ErrMalformedField, MaxInterval, months)
	}
	if day == 0 || day > 31 || day < -31 {
		return Monthly{}, fmt.Errorf("%w: monthly.day must be in [-31,-1] or [1,31], got %d", ErrMalformedField, day)
	}
	if _, err := NewClock(at.Hour, at.Minute); err != nil {
		return Monthly{}, err
	}
	return Monthly{months: months, day: day, at: at}, nil
}

func (m Monthly) Months() int { return m.months }
func (m Monthly) Day() int    { return m.day }
func (m Monthly) At() Clock   { return m.at }
func (Monthly) Kind() Kind    { return KindMonthly }
func (Monthly) sealed()       {}

// daysInMonth accounts for leap years.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// dayIn resolves the rule's day for a concrete month. Days the month does not
// have are pulled onto its first or last day.
func (m Monthly) dayIn(year int, month time.Month) int {
	n := daysInMonth(year, month)
	day := m.day
	if day < 0 {
		day = n + day + 1
	}
	if day < 1 {
		day = 1
	}
	if day > n {
		day = n
	}
	return day
}

func (m Monthly) slot(year int, month time.Month, loc *time.Location) time.Time {
	return wallTime(year, month, m.dayIn(year, month), m.at.Hour, m.at.Minute, 0, 0, loc)
}

// Next returns this month's slot while t has not passed it, otherwise the slot
// N months later.
func (m Monthly) Next(t time.Time) time.Time {
	year, month, _ := t.Date()
	candidate := m.slot(year, month, t.Location())
	if !t.After(candidate) {
		return candidate
	}
	total := int(month) - 1 + m.months
	year += total / 12
	month = time.Month(total%12 + 1)
	return m.slot(year, month, t.Location())
}

// Previous is not implemented for monthly rules.
func (m Monthly) Previous(time.Time) (time.Time, error) {
	return time.Time{}, fmt.Errorf("monthly previous occurrence: %w", ErrUnsupported)
}

func (m Monthly) String() string {
	s := "every month"
	if m.months != 1 {
		s = fmt.Sprintf("every %d months", m.months)
	}
	switch {
	case m.day > 0:
		s += " on the " + ordinal(m.day)
	case m.day == -1:
		s += " on the last day"
	default:
		s += " on the " + ordinal(-m.day) + " to last day"
	}
	return s + " at " + m.at.String()
}

// ordinal renders 1 as "1st", 12 as "12th", 22 as "22nd".
func ordinal(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

var monthlyPatterns = []pattern{
	// "every month", "every 3 months at 3:00 pm", "every month on the last day at 9:00"
	compile("every-months-on-at", `every `, countExpr("month"), `(?P<on> on the `, ordinalDayExpr, `)?(?: at `, timeExpr, `)?`),
	// "3:00 every 3 months"
	compile("at-every-months", timeExpr, `\s*every `, countExpr("month")),
	// "the 1st of every month", "the last day of every 2 months at 9am", "3rd to last day of every month"
	compile("day-of-every-months-at", `(?:the )?`, ordinalDayExpr, ` (?:of )?every `, countExpr("month"), `(?: at `, timeExpr, `)?`),
}

// ParseMonthly reads phrases such as "the last day of every month at 9am".
// Missing parts default to one month, DefaultDayOfMonth and DefaultClock.
func ParseMonthly(text string) (Monthly, bool) {
	c, ok := firstMatch(monthlyPatterns, normalize(text))
	if !ok {
		return Monthly{}, false
	}
	if c.has("on") && !c.has("day") && !c.has("last") {
		return Monthly{}, false
	}
	months, ok := c.count()
	if !ok {
		return Monthly{}, false
	}
	day, ok := c.dayOfMonth(DefaultDayOfMonth)
	if !ok {
		return Monthly{}, false
	}
	at, ok := c.clockOr(DefaultClock)
	if !ok {
		return Monthly{}, false
	}
	return Monthly{months: months, day: day, at: at}, true
}
