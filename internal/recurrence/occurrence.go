package recurrence

import "time"

// NextOccurrence is the step used when a repeating task is checked off.
// current is read on the wall clock of local (so "every Tuesday" means a
// Tuesday where the user lives) and the result is returned in ref, usually UTC.
//
// The result is always strictly after current. Monthly rules hand back their
// own slot when current sits exactly on it; the engine then re-evaluates a
// minute at a time until the rule moves past current.
func NextOccurrence(rule Rule, current time.Time, local, ref *time.Location) time.Time {
	if local == nil {
		local = time.Local
	}
	if ref == nil {
		ref = time.UTC
	}
	cur := current.In(local)
	next := rule.Next(cur)
	for step := cur; !next.After(cur); {
		if next.After(step) {
			step = next
		}
		step = step.Add(time.Minute)
		next = rule.Next(step)
	}
	return next.In(ref)
}

// Upcoming lists the next n occurrences after from, each computed from the
// one before.
func Upcoming(rule Rule, from time.Time, n int) []time.Time {
	if n < 0 {
		n = 0
	}
	out := make([]time.Time, 0, n)
	t := from
	for i := 0; i < n; i++ {
		next := NextOccurrence(rule, t, t.Location(), t.Location())
		out = append(out, next)
		t = next
	}
	return out
}
