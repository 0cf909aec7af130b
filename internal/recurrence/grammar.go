package recurrence

import (
	"regexp"
	"strconv"
	"strings"
)

// Shared pattern fragments. Every variant grammar is assembled from these so
// the time, count, weekday and day-of-month syntax stays identical across rules.
var (
	// "3", "3:30", "3:30pm", "15:00", "12 am"
	timeExpr = `(?P<hours>\d+)(?::(?P<minutes>\d+))?\s*(?P<ampm>am|pm)?`

	// "monday", "monday and friday", "monday, tuesday, and thursday"
	weekdayListExpr = func() string {
		names := make([]string, len(weekdayNames))
		for i, n := range weekdayNames {
			names[i] = strings.ToLower(n)
		}
		one := "(?:" + strings.Join(names, "|") + ")"
		return `(?P<weekdays>` + one + `(?:(?:\s*,\s*|\s+)(?:and\s+)?` + one + `)*)`
	}()

	// "1st", "22nd", "last", "2nd last", "3rd to last", each optionally followed by "day"
	ordinalDayExpr = `(?:(?P<day>\d+)(?:st|nd|rd|th))?(?:\s*(?:to )?(?P<last>last))?(?: day)?`
)

// countExpr matches "<unit>" or "N <unit>(s)", e.g. "week" or "3 weeks".
func countExpr(unit string) string {
	return `(?:` + unit + `|\s*(?P<count>\d+) ` + unit + `s?)`
}

// pattern is one anchored alternative of a variant grammar.
type pattern struct {
	name string
	re   *regexp.Regexp
}

func compile(name string, parts ...string) pattern {
	return pattern{name: name, re: regexp.MustCompile("^" + strings.Join(parts, "") + "$")}
}

// captures holds the named groups that took part in a match.
type captures map[string]string

func (p pattern) match(text string) (captures, bool) {
	idx := p.re.FindStringSubmatchIndex(text)
	if idx == nil {
		return nil, false
	}
	c := captures{}
	for i, name := range p.re.SubexpNames() {
		if name == "" || idx[2*i] < 0 {
			continue
		}
		c[name] = text[idx[2*i]:idx[2*i+1]]
	}
	return c, true
}

// firstMatch tries patterns in order and returns the first hit.
func firstMatch(patterns []pattern, text string) (captures, bool) {
	for _, p := range patterns {
		if c, ok := p.match(text); ok {
			return c, true
		}
	}
	return nil, false
}

func (c captures) has(name string) bool {
	_, ok := c[name]
	return ok
}

// MaxInterval bounds the N in "every N days/weeks/months".
const MaxInterval = 10000

// count returns the interval, defaulting to 1. Zero, oversized or unparsable counts fail.
func (c captures) count() (int, bool) {
	raw, ok := c["count"]
	if !ok {
		return 1, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > MaxInterval {
		return 0, false
	}
	return n, true
}

// clock resolves the time-of-day groups, applying the 12-hour rules:
// 12am is midnight, 1-11pm add twelve hours, a missing minute is zero.
// ok is false when the numbers do not form a valid time.
func (c captures) clock() (Clock, bool) {
	hour, err := strconv.Atoi(c["hours"])
	if err != nil {
		return Clock{}, false
	}
	minute := 0
	if raw, ok := c["minutes"]; ok {
		if minute, err = strconv.Atoi(raw); err != nil {
			return Clock{}, false
		}
	}
	switch ampm := c["ampm"]; {
	case hour == 12 && ampm == "am":
		hour = 0
	case hour > 0 && hour < 12 && ampm == "pm":
		hour += 12
	}
	clk, err := NewClock(hour, minute)
	if err != nil {
		return Clock{}, false
	}
	return clk, true
}

// clockOr returns the captured time, or def when no time was given.
func (c captures) clockOr(def Clock) (Clock, bool) {
	if !c.has("hours") {
		return def, true
	}
	return c.clock()
}

func (c captures) weekdays() (WeekdaySet, bool) {
	raw, ok := c["weekdays"]
	if !ok {
		return NewWeekdaySet(DefaultWeekday), true
	}
	raw = strings.ReplaceAll(raw, ",", " ")
	var set WeekdaySet
	for _, word := range strings.Fields(raw) {
		if word == "and" {
			continue
		}
		d, err := ParseWeekday(word)
		if err != nil {
			return 0, false
		}
		set = set.Add(d)
	}
	return set, !set.IsEmpty()
}

// dayOfMonth resolves the ordinal groups: "3rd" is 3, "last" is -1, "3rd to last" is -3.
func (c captures) dayOfMonth(def int) (int, bool) {
	raw, hasDay := c["day"]
	last := c.has("last")
	if !hasDay {
		if last {
			return -1, true
		}
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 31 {
		return 0, false
	}
	if last {
		n = -n
	}
	return n, true
}

// normalize lower-cases text and collapses runs of whitespace.
func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
