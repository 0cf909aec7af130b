package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"now-and-here/internal/recurrence"
)

func TestTaskClone(t *testing.T) {
	due := time.Date(2024, 1, 4, 15, 15, 0, 0, time.UTC)
	done := due.Add(time.Hour)
	cat := uint(3)
	rule, ok := recurrence.Parse("every monday and thursday at 3:15pm")
	require.True(t, ok)

	orig := Task{
		ID: 7, UserID: 1, CategoryID: &cat, SeriesID: "series-1",
		Title: "Water plants", Priority: 2, Due: &due, Repeat: NewRepeatRule(rule),
		Done: true, CompletedAt: &done, CreatedAt: due, UpdatedAt: due,
	}
	c := orig.Clone()

	assert.Zero(t, c.ID)
	assert.False(t, c.Done)
	assert.Nil(t, c.CompletedAt)
	assert.True(t, c.CreatedAt.IsZero())
	assert.Equal(t, "series-1", c.SeriesID)
	assert.Equal(t, "Water plants", c.Title)
	assert.Equal(t, 2, c.Priority)
	assert.True(t, c.Repeats())

	// The clone owns its pointers.
	*c.Due = c.Due.AddDate(0, 0, 4)
	*c.CategoryID = 9
	assert.Equal(t, time.Date(2024, 1, 4, 15, 15, 0, 0, time.UTC), *orig.Due)
	assert.Equal(t, uint(3), *orig.CategoryID)
}

func TestTaskBeforeCreateAssignsSeries(t *testing.T) {
	var task Task
	require.NoError(t, task.BeforeCreate(nil))
	assert.Len(t, task.SeriesID, 36)

	task2 := Task{SeriesID: "keep"}
	require.NoError(t, task2.BeforeCreate(nil))
	assert.Equal(t, "keep", task2.SeriesID)
}

func TestTaskOverdue(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, Task{Due: &past}.Overdue(now))
	assert.False(t, Task{Due: &past, Done: true}.Overdue(now))
	assert.False(t, Task{Due: &future}.Overdue(now))
	assert.False(t, Task{}.Overdue(now))
}

func TestValidPriority(t *testing.T) {
	assert.True(t, ValidPriority(0))
	assert.True(t, ValidPriority(3))
	assert.False(t, ValidPriority(-1))
	assert.False(t, ValidPriority(4))
}

func TestUserLocation(t *testing.T) {
	def := time.FixedZone("DEF", 3600)
	assert.Equal(t, def, User{}.Location(def))
	assert.Equal(t, def, User{Timezone: "Not/AZone"}.Location(def))
	assert.Equal(t, time.UTC.String(), User{Timezone: "UTC"}.Location(def).String())
	assert.Equal(t, time.Local, User{}.Location(nil))
}
