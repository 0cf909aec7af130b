package recurrence

import (
	"fmt"
	"strings"
	"time"
)

// Weekday numbers days Monday first: Monday=0 ... Sunday=6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DefaultWeekday is used by weekly rules that name no weekday.
const DefaultWeekday = Monday

var weekdayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// AllWeekdays lists the weekdays in order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (w Weekday) Valid() bool { return w >= Monday && w <= Sunday }

// String returns the display name, e.g. "Monday".
func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// Name returns the wire name, e.g. "MONDAY".
func (w Weekday) Name() string { return strings.ToUpper(w.String()) }

// ParseWeekday accepts full English names and three-letter abbreviations in any case.
func ParseWeekday(name string) (Weekday, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if len(s) >= 3 {
		for i, full := range weekdayNames {
			lf := strings.ToLower(full)
			if s == lf || s == lf[:3] {
				return Weekday(i), nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, name)
}

// WeekdayOf converts t's Sunday-first weekday to the Monday-first numbering.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// WeekdaySet is an immutable set of weekdays.
type WeekdaySet uint8

func NewWeekdaySet(days ...Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.Add(d)
	}
	return s
}

// Add returns a copy of s that also contains d. Invalid weekdays are ignored.
func (s WeekdaySet) Add(d Weekday) WeekdaySet {
	if !d.Valid() {
		return s
	}
	return s | 1<<uint(d)
}

func (s WeekdaySet) Has(d Weekday) bool {
	return d.Valid() && s&(1<<uint(d)) != 0
}

func (s WeekdaySet) IsEmpty() bool { return s == 0 }

func (s WeekdaySet) Len() int {
	n := 0
	for _, d := range AllWeekdays {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// Sorted returns the members in ascending weekday order.
func (s WeekdaySet) Sorted() []Weekday {
	out := make([]Weekday, 0, 7)
	for _, d := range AllWeekdays {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// Last returns the latest weekday of the set. It panics on an empty set.
func (s WeekdaySet) Last() Weekday {
	days := s.Sorted()
	if len(days) == 0 {
		panic("recurrence: Last on empty WeekdaySet")
	}
	return days[len(days)-1]
}

func (s WeekdaySet) String() string {
	days := s.Sorted()
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}
