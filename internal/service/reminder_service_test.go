package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"now-and-here/internal/model"
)

func TestClassify(t *testing.T) {
	now := utc(2024, 3, 10, 12, 0)
	at := func(tm time.Time) *time.Time { return &tm }
	tasks := []model.Task{
		{ID: 1, Due: at(now.Add(-time.Hour))},
		{ID: 2, Due: at(now.Add(3 * time.Hour))},
		{ID: 3, Due: at(now.Add(48 * time.Hour))},
		{ID: 4, Due: at(now.Add(30 * 24 * time.Hour))},
		{ID: 5},
		{ID: 6, Done: true},
	}

	s := Classify(tasks, now, time.UTC)
	ids := func(ts []model.Task) []uint {
		out := make([]uint, 0, len(ts))
		for _, t := range ts {
			out = append(out, t.ID)
		}
		return out
	}
	assert.Equal(t, []uint{1}, ids(s.Overdue))
	assert.Equal(t, []uint{2}, ids(s.Today))
	assert.Equal(t, []uint{3}, ids(s.Upcoming))
	assert.Equal(t, []uint{5}, ids(s.Someday))
	assert.False(t, s.Empty())
	assert.True(t, Classify(nil, now, time.UTC).Empty())
}

func TestClassifyUsesLocalCalendar(t *testing.T) {
	zone := time.FixedZone("UTC+10", 10*3600)
	now := utc(2024, 3, 10, 12, 0) // 22:00 local
	due := utc(2024, 3, 10, 15, 0) // 01:00 local, the next day
	s := Classify([]model.Task{{ID: 1, Due: &due}}, now, zone)
	assert.Empty(t, s.Today)
	assert.Len(t, s.Upcoming, 1)
}

func TestDailySummary(t *testing.T) {
	ctx := context.Background()
	now := utc(2024, 1, 1, 8, 0)
	f := newFixture(t, time.UTC, now)

	empty, err := f.reminder.DailySummary(ctx, *f.user, now)
	require.NoError(t, err)
	assert.Contains(t, empty, "Nothing planned")

	_, err = f.svc.CreateTask(ctx, f.user, TaskInput{Title: "Water <plants>", Category: "Home", Repeat: "every 2 days at 9am"})
	require.NoError(t, err)
	_, err = f.svc.CreateTask(ctx, f.user, TaskInput{Title: "Taxes", Priority: 3, Due: ptr(utc(2023, 12, 31, 9, 0))})
	require.NoError(t, err)

	text, err := f.reminder.DailySummary(ctx, *f.user, now)
	require.NoError(t, err)
	assert.Contains(t, text, "Daily summary")
	assert.Contains(t, text, "<b>Overdue</b>")
	assert.Contains(t, text, "Taxes !!!")
	assert.Contains(t, text, "Water &lt;plants&gt;")
	assert.Contains(t, text, "<i>(Home)</i>")
	assert.Contains(t, text, "🔁 every 2 days at 09:00")
	assert.Contains(t, text, "in 1 hour")
}

func TestRelativeTime(t *testing.T) {
	now := utc(2024, 1, 1, 12, 0)
	tests := []struct {
		at   time.Time
		want string
	}{
		{now.Add(30 * time.Second), "now"},
		{now.Add(5 * time.Minute), "in 5 minutes"},
		{now.Add(time.Hour), "in 1 hour"},
		{now.Add(50 * time.Hour), "in 2 days"},
		{now.Add(-3 * time.Hour), "3 hours ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RelativeTime(tt.at, now))
	}
}
