package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in   string
		want Weekday
	}{
		{"Monday", Monday},
		{"MONDAY", Monday},
		{"thu", Thursday},
		{" Sun ", Sunday},
		{"saturday", Saturday},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekday(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "mo", "funday", "mondays"} {
		_, err := ParseWeekday(bad)
		assert.ErrorIs(t, err, ErrUnknownWeekday, bad)
	}
}

func TestWeekdayOf(t *testing.T) {
	start := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC) // a Monday
	for i, want := range AllWeekdays {
		assert.Equal(t, want, WeekdayOf(start.AddDate(0, 0, i)))
	}
}

func TestWeekdayNames(t *testing.T) {
	assert.Equal(t, "Wednesday", Wednesday.String())
	assert.Equal(t, "WEDNESDAY", Wednesday.Name())
	assert.Equal(t, "Weekday(9)", Weekday(9).String())
}

func TestWeekdaySet(t *testing.T) {
	s := NewWeekdaySet(Sunday, Friday, Friday)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(Friday))
	assert.False(t, s.Has(Monday))
	assert.Equal(t, Sunday, s.Last())
	assert.Equal(t, []Weekday{Friday, Sunday}, s.Sorted())
	assert.Equal(t, "Friday, Sunday", s.String())

	assert.Equal(t, s, s.Add(Weekday(-1)))
	assert.True(t, WeekdaySet(0).IsEmpty())
	assert.Panics(t, func() { WeekdaySet(0).Last() })
}
