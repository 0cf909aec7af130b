package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMonthly(t *testing.T) {
	for _, tt := range []struct{ months, day int }{{0, 1}, {MaxInterval + 1, 1}, {1, 0}, {1, 32}, {1, -32}} {
		_, err := NewMonthly(tt.months, tt.day, DefaultClock)
		assert.ErrorIs(t, err, ErrMalformedField)
	}
}

func TestMonthlyNext(t *testing.T) {
	tests := []struct {
		name string
		rule Monthly
		from time.Time
		want time.Time
	}{
		{"last day leap year", mustMonthly(t, 1, -1, 9, 0), date(2024, 2, 1, 0, 0), date(2024, 2, 29, 9, 0)},
		{"last day common year", mustMonthly(t, 1, -1, 9, 0), date(2023, 2, 1, 0, 0), date(2023, 2, 28, 9, 0)},
		{"second to last day", mustMonthly(t, 1, -2, 9, 0), date(2024, 4, 1, 0, 0), date(2024, 4, 29, 9, 0)},
		{"exactly on slot stays", mustMonthly(t, 1, 15, 9, 0), date(2024, 1, 15, 9, 0), date(2024, 1, 15, 9, 0)},
		{"past slot moves a month", mustMonthly(t, 1, 15, 9, 0), date(2024, 1, 15, 9, 1), date(2024, 2, 15, 9, 0)},
		{"interval crosses year", mustMonthly(t, 3, 15, 9, 0), date(2024, 11, 20, 0, 0), date(2025, 2, 15, 9, 0)},
		{"december to january", mustMonthly(t, 1, 1, 9, 0), date(2024, 12, 2, 0, 0), date(2025, 1, 1, 9, 0)},
		{"short month clamps", mustMonthly(t, 1, 31, 9, 0), date(2024, 4, 1, 0, 0), date(2024, 4, 30, 9, 0)},
		{"clamps after rollover", mustMonthly(t, 1, 31, 9, 0), date(2024, 1, 31, 10, 0), date(2024, 2, 29, 9, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Next(tt.from))
		})
	}
}

func TestMonthlyPreviousUnsupported(t *testing.T) {
	_, err := mustMonthly(t, 1, 1, 9, 0).Previous(date(2024, 1, 1, 0, 0))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestMonthlyString(t *testing.T) {
	assert.Equal(t, "every month on the 1st at 09:00", mustMonthly(t, 1, 1, 9, 0).String())
	assert.Equal(t, "every 2 months on the 22nd at 18:30", mustMonthly(t, 2, 22, 18, 30).String())
	assert.Equal(t, "every month on the last day at 09:00", mustMonthly(t, 1, -1, 9, 0).String())
	assert.Equal(t, "every month on the 3rd to last day at 09:00", mustMonthly(t, 1, -3, 9, 0).String())
	assert.Equal(t, "every month on the 11th at 09:00", mustMonthly(t, 1, 11, 9, 0).String())
}

func TestParseMonthly(t *testing.T) {
	tests := []struct {
		in   string
		want Monthly
	}{
		{"every month", mustMonthly(t, 1, 1, 9, 0)},
		{"every 3 months at 3:00 pm", mustMonthly(t, 3, 1, 15, 0)},
		{"every month on the 15th at 18:30", mustMonthly(t, 1, 15, 18, 30)},
		{"every month on the last day", mustMonthly(t, 1, -1, 9, 0)},
		{"3:00 every 3 months", mustMonthly(t, 3, 1, 3, 0)},
		{"the 1st of every month", mustMonthly(t, 1, 1, 9, 0)},
		{"the last day of every 2 months at 9am", mustMonthly(t, 2, -1, 9, 0)},
		{"3rd to last day of every month", mustMonthly(t, 1, -3, 9, 0)},
		{"the 2nd last day of every month at 10pm", mustMonthly(t, 1, -2, 22, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseMonthly(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "monthly", "every 0 months", "the 32nd of every month", "every month at 9:99", "every year"} {
		_, ok := ParseMonthly(bad)
		assert.False(t, ok, bad)
	}
}
