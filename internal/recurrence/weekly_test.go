package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWeekly(t *testing.T) {
	_, err := NewWeekly(0, NewWeekdaySet(Monday), DefaultClock)
	assert.ErrorIs(t, err, ErrMalformedField)
	_, err = NewWeekly(MaxInterval+1, NewWeekdaySet(Monday), DefaultClock)
	assert.ErrorIs(t, err, ErrMalformedField)

	w, err := NewWeekly(1, 0, DefaultClock)
	require.NoError(t, err)
	assert.Equal(t, NewWeekdaySet(DefaultWeekday), w.Weekdays())
}

func TestWeeklyNext(t *testing.T) {
	monThu := mustWeekly(t, 1, 15, 15, Monday, Thursday)
	tests := []struct {
		name string
		rule Weekly
		from time.Time
		want time.Time
	}{
		{"to later weekday in week", monThu, date(2024, 1, 1, 15, 15), date(2024, 1, 4, 15, 15)},
		{"from last slot to next week", monThu, date(2024, 1, 4, 15, 15), date(2024, 1, 8, 15, 15)},
		{"after last slot", monThu, date(2024, 1, 6, 10, 0), date(2024, 1, 8, 15, 15)},
		{"skips current day", monThu, date(2024, 1, 1, 8, 0), date(2024, 1, 4, 15, 15)},
		{"three week interval", mustWeekly(t, 3, 15, 15, Monday, Thursday), date(2024, 1, 4, 15, 15), date(2024, 1, 22, 15, 15)},
		{"sunday only before slot", mustWeekly(t, 1, 9, 0, Sunday), date(2024, 1, 7, 8, 0), date(2024, 1, 14, 9, 0)},
		{"sunday only after slot", mustWeekly(t, 1, 9, 0, Sunday), date(2024, 1, 7, 10, 0), date(2024, 1, 14, 9, 0)},
		{"three weeks default weekday", mustWeekly(t, 3, 15, 15), date(2024, 1, 1, 15, 15), date(2024, 1, 22, 15, 15)},
		{"year boundary", mustWeekly(t, 2, 9, 0, Monday), date(2024, 12, 30, 9, 0), date(2025, 1, 13, 9, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rule.Next(tt.from)
			assert.Equal(t, tt.want, got)
			assert.True(t, tt.rule.Weekdays().Has(WeekdayOf(got)))
		})
	}
}

func TestWeeklyZeroValue(t *testing.T) {
	var w Weekly
	var got time.Time
	require.NotPanics(t, func() { got = w.Next(date(2024, 1, 2, 10, 0)) })
	assert.Equal(t, date(2024, 1, 8, 0, 0), got)
	assert.Equal(t, "every week on Monday at 00:00", w.String())
}

func TestWeeklyPreviousUnsupported(t *testing.T) {
	_, err := mustWeekly(t, 1, 9, 0, Monday).Previous(date(2024, 1, 1, 0, 0))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestWeeklyString(t *testing.T) {
	assert.Equal(t, "every week on Monday at 09:00", mustWeekly(t, 1, 9, 0).String())
	assert.Equal(t, "every 2 weeks on Friday, Sunday at 18:00", mustWeekly(t, 2, 18, 0, Sunday, Friday).String())
}

func TestParseWeekly(t *testing.T) {
	tests := []struct {
		in   string
		want Weekly
	}{
		{"every week", mustWeekly(t, 1, 9, 0, Monday)},
		{"every 3 weeks on tuesday and thursday", mustWeekly(t, 3, 9, 0, Tuesday, Thursday)},
		{"every 2 weeks at 3:00pm", mustWeekly(t, 2, 15, 0, Monday)},
		{"every 2 weeks on Monday and Thursday at 3:15pm", mustWeekly(t, 2, 15, 15, Monday, Thursday)},
		{"3:00 pm every 2 weeks", mustWeekly(t, 2, 15, 0, Monday)},
		{"12:00 every week on tuesday, wednesday, and thursday", mustWeekly(t, 1, 12, 0, Tuesday, Wednesday, Thursday)},
		{"every friday and saturday at 3:00pm", mustWeekly(t, 1, 15, 0, Friday, Saturday)},
		{"every sunday", mustWeekly(t, 1, 9, 0, Sunday)},
		{"sunday and tuesday every week", mustWeekly(t, 1, 9, 0, Sunday, Tuesday)},
		{"sunday and tuesday at 4:15pm", mustWeekly(t, 1, 16, 15, Sunday, Tuesday)},
		{"saturday, sunday, and monday every 2 weeks at 3:00pm", mustWeekly(t, 2, 15, 0, Saturday, Sunday, Monday)},
		{"monday at 8am", mustWeekly(t, 1, 8, 0, Monday)},
		{"saturday at 1am every 4 weeks", mustWeekly(t, 4, 1, 0, Saturday)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseWeekly(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "weekly", "every 0 weeks", "every monday at 24:00", "funday at 9", "every day"} {
		_, ok := ParseWeekly(bad)
		assert.False(t, ok, bad)
	}
}
