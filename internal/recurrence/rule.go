// Package recurrence implements repeat rules for tasks: parsing loose phrases
// such as "every 2 weeks on Monday and Thursday at 8am", computing the next
// occurrence from a given instant, and a tagged JSON form for storage.
//
// Weekdays are numbered Monday first (Monday=0 ... Sunday=6). All values are
// immutable and every function is safe for concurrent use; the package never
// reads the clock, callers pass the current instant in.
package recurrence

import "time"

// Kind discriminates the rule variants, both in code and in the stored form.
type Kind string

const (
	KindDaily   Kind = "Daily"
	KindWeekly  Kind = "Weekly"
	KindMonthly Kind = "Monthly"
)

// Rule is a closed union: Daily, Weekly and Monthly are its only members.
type Rule interface {
	Kind() Kind
	// Next returns the occurrence following t, expressed in t's location.
	Next(t time.Time) time.Time
	// Previous returns the occurrence preceding t, or ErrUnsupported.
	Previous(t time.Time) (time.Time, error)
	// String renders a description that Parse reads back into an equivalent rule.
	String() string

	sealed()
}

var (
	_ Rule = Daily{}
	_ Rule = Weekly{}
	_ Rule = Monthly{}
)

// Parse tries the daily, weekly and monthly grammars in that order and returns
// the first rule that matches. ok is false when nothing matches; that is an
// ordinary outcome for free-text input, not an error.
func Parse(text string) (rule Rule, ok bool) {
	if d, ok := ParseDaily(text); ok {
		return d, true
	}
	if w, ok := ParseWeekly(text); ok {
		return w, true
	}
	if m, ok := ParseMonthly(text); ok {
		return m, true
	}
	return nil, false
}

// Next is rule.Next(t); it exists so callers holding a Rule read naturally.
func Next(rule Rule, t time.Time) time.Time { return rule.Next(t) }

// Display returns the human description of rule, or "" for a nil rule.
func Display(rule Rule) string {
	if rule == nil {
		return ""
	}
	return rule.String()
}

// Equal reports whether two rules describe the same recurrence.
func Equal(a, b Rule) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}
