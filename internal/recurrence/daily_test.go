package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDaily(t *testing.T) {
	_, err := NewDaily(0)
	assert.ErrorIs(t, err, ErrMalformedField)
	_, err = NewDaily(MaxInterval + 1)
	assert.ErrorIs(t, err, ErrMalformedField)

	_, err = NewDailyAt(1, Clock{Hour: 24})
	assert.ErrorIs(t, err, ErrMalformedField)

	d := mustDailyAt(t, 2, 15, 0)
	at, timed := d.At()
	assert.True(t, timed)
	assert.Equal(t, Clock{Hour: 15}, at)
	assert.Equal(t, 2, d.Days())
}

func TestDailyNext(t *testing.T) {
	tests := []struct {
		name string
		rule Daily
		from time.Time
		want time.Time
	}{
		{"untimed keeps time of day", mustDaily(t, 3), date(2024, 1, 1, 10, 30), date(2024, 1, 4, 10, 30)},
		{"untimed crosses month", mustDaily(t, 1), date(2024, 1, 31, 8, 0), date(2024, 2, 1, 8, 0)},
		{"before slot catches today", mustDailyAt(t, 1, 9, 0), date(2024, 1, 1, 8, 0), date(2024, 1, 1, 9, 0)},
		{"exactly at slot moves on", mustDailyAt(t, 1, 9, 0), date(2024, 1, 1, 9, 0), date(2024, 1, 2, 9, 0)},
		{"after slot skips interval", mustDailyAt(t, 2, 15, 0), date(2024, 1, 1, 16, 0), date(2024, 1, 3, 15, 0)},
		{"before slot ignores interval", mustDailyAt(t, 2, 15, 0), date(2024, 1, 1, 10, 0), date(2024, 1, 1, 15, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rule.Next(tt.from)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.After(tt.from))
		})
	}
}

func TestDailyNextSecondsPastSlot(t *testing.T) {
	from := time.Date(2024, 1, 1, 9, 0, 30, 0, time.UTC)
	assert.Equal(t, date(2024, 1, 2, 9, 0), mustDailyAt(t, 1, 9, 0).Next(from))
}

func TestDailyPrevious(t *testing.T) {
	tests := []struct {
		name string
		rule Daily
		from time.Time
		want time.Time
	}{
		{"untimed", mustDaily(t, 3), date(2024, 1, 4, 10, 30), date(2024, 1, 1, 10, 30)},
		{"after slot is today", mustDailyAt(t, 1, 9, 0), date(2024, 1, 2, 10, 0), date(2024, 1, 2, 9, 0)},
		{"at slot goes back", mustDailyAt(t, 1, 9, 0), date(2024, 1, 2, 9, 0), date(2024, 1, 1, 9, 0)},
		{"before slot goes back interval", mustDailyAt(t, 2, 9, 0), date(2024, 1, 3, 8, 0), date(2024, 1, 1, 9, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.rule.Previous(tt.from)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDailyString(t *testing.T) {
	assert.Equal(t, "every day", mustDaily(t, 1).String())
	assert.Equal(t, "every 3 days", mustDaily(t, 3).String())
	assert.Equal(t, "every 2 days at 15:00", mustDailyAt(t, 2, 15, 0).String())
}

func TestParseDaily(t *testing.T) {
	tests := []struct {
		in   string
		want Daily
	}{
		{"every day", mustDaily(t, 1)},
		{"Every  3 Days", mustDaily(t, 3)},
		{"every 1 day", mustDaily(t, 1)},
		{"every 2 days at 15:00", mustDailyAt(t, 2, 15, 0)},
		{"every day at 3pm", mustDailyAt(t, 1, 15, 0)},
		{"every day at 3:30 pm", mustDailyAt(t, 1, 15, 30)},
		{"every day at 12am", mustDailyAt(t, 1, 0, 0)},
		{"every day at 12pm", mustDailyAt(t, 1, 12, 0)},
		{"every day at 7", mustDailyAt(t, 1, 7, 0)},
		{"3:00 pm every 2 days", mustDailyAt(t, 2, 15, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDaily(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "daily", "every 0 days", "every day at 25:00", "every day at 10:75", "every week", "every days"} {
		_, ok := ParseDaily(bad)
		assert.False(t, ok, bad)
	}
}
