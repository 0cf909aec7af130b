package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"now-and-here/internal/model"
	"now-and-here/internal/recurrence"
)

func TestParseTaskID(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		prefix  string
		want    uint
		wantErr bool
	}{
		{name: "plain", data: "12", want: 12},
		{name: "hash", data: " #7 ", want: 7},
		{name: "callback", data: "complete:42", prefix: cbCompletePrefix, want: 42},
		{name: "empty", data: "  ", wantErr: true},
		{name: "negative", data: "-3", wantErr: true},
		{name: "words", data: "twelve", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTaskID(tt.data, tt.prefix)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDue(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)

	got, err := parseDue("2025-11-30 18:30", berlin)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 11, 30, 18, 30, 0, 0, berlin)))

	got, err = parseDue("2025-11-30", berlin)
	require.NoError(t, err)
	assert.Equal(t, recurrence.DefaultClock.Hour, got.Hour())
	assert.Equal(t, 0, got.Minute())
	assert.Equal(t, berlin, got.Location())

	_, err = parseDue("tomorrow", berlin)
	assert.Error(t, err)
}

func TestParsePriority(t *testing.T) {
	p, err := parsePriority(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, p)

	_, err = parsePriority("4")
	assert.Error(t, err)
	_, err = parsePriority("high")
	assert.Error(t, err)
}

func TestSplitFirstWord(t *testing.T) {
	id, rest := splitFirstWord("  12   every monday at 9am ")
	assert.Equal(t, "12", id)
	assert.Equal(t, "every monday at 9am", rest)

	id, rest = splitFirstWord("12")
	assert.Equal(t, "12", id)
	assert.Empty(t, rest)
}

func TestShortTitle(t *testing.T) {
	assert.Equal(t, "Buy milk", shortTitle("buy milk", 20))
	assert.Equal(t, "Water the pla…", shortTitle("water the plants\non the balcony", 14))
}

func TestInputMatchers(t *testing.T) {
	assert.True(t, isSkipInput(btnSkip))
	assert.True(t, isSkipInput(" - "))
	assert.True(t, isConfirmInput("YES"))
	assert.True(t, isCancelInput(btnCancel))
	assert.True(t, isCancelDialogInput(btnCancelDialog))
	assert.False(t, isCancelDialogInput(btnCancel))
}

func TestGroupByCategory(t *testing.T) {
	work, home := uint(1), uint(2)
	names := map[uint]string{work: "Work", home: "home"}
	tasks := []model.Task{
		{ID: 1},
		{ID: 2, CategoryID: &work},
		{ID: 3, CategoryID: &home},
		{ID: 4, CategoryID: &work},
	}

	groups := groupByCategory(tasks, names)
	require.Len(t, groups, 3)
	assert.Equal(t, "home", groups[0].key)
	assert.Equal(t, "work", groups[1].key)
	assert.Equal(t, noCategoryKey, groups[2].key)
	assert.Equal(t, []uint{2, 4}, []uint{groups[1].tasks[0].ID, groups[1].tasks[1].ID})
	assert.Contains(t, groups[1].label, "💼")
}

func TestFormatPreview(t *testing.T) {
	rule, ok := recurrence.Parse("every day at 9am")
	require.True(t, ok)
	from := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	out := formatPreview(rule, recurrence.Upcoming(rule, from, 2))
	assert.Contains(t, out, "Sun 2025-03-02 09:00")
	assert.Contains(t, out, "Mon 2025-03-03 09:00")
}
