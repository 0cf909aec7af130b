package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func mustDaily(t *testing.T, days int) Daily {
	t.Helper()
	d, err := NewDaily(days)
	require.NoError(t, err)
	return d
}

func mustDailyAt(t *testing.T, days, hour, minute int) Daily {
	t.Helper()
	d, err := NewDailyAt(days, Clock{Hour: hour, Minute: minute})
	require.NoError(t, err)
	return d
}

func mustWeekly(t *testing.T, weeks int, hour, minute int, days ...Weekday) Weekly {
	t.Helper()
	w, err := NewWeekly(weeks, NewWeekdaySet(days...), Clock{Hour: hour, Minute: minute})
	require.NoError(t, err)
	return w
}

func mustMonthly(t *testing.T, months, day, hour, minute int) Monthly {
	t.Helper()
	m, err := NewMonthly(months, day, Clock{Hour: hour, Minute: minute})
	require.NoError(t, err)
	return m
}
