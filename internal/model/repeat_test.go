package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"now-and-here/internal/recurrence"
)

func TestRepeatRuleValueAndScan(t *testing.T) {
	rule, ok := recurrence.Parse("every 2 weeks on friday and sunday at 6pm")
	require.True(t, ok)

	v, err := NewRepeatRule(rule).Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"Weekly","weeks":2,"weekdays":["FRIDAY","SUNDAY"],"at":"18:00"}`, v.(string))

	var scanned RepeatRule
	require.NoError(t, scanned.Scan([]byte(v.(string))))
	assert.True(t, scanned.IsSet())
	assert.NoError(t, scanned.Err())
	assert.True(t, recurrence.Equal(rule, scanned.Rule))
	assert.Equal(t, "every 2 weeks on Friday, Sunday at 18:00", scanned.String())
}

func TestRepeatRuleEmpty(t *testing.T) {
	v, err := RepeatRule{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	for _, src := range []any{nil, "", []byte{}} {
		var r RepeatRule
		require.NoError(t, r.Scan(src))
		assert.False(t, r.IsSet())
	}
}

func TestRepeatRuleKeepsUnreadableValue(t *testing.T) {
	const stored = `{"kind":"Yearly","years":1}`

	var r RepeatRule
	require.NoError(t, r.Scan(stored))
	assert.False(t, r.IsSet())
	assert.ErrorIs(t, r.Err(), recurrence.ErrUnknownKind)
	assert.Equal(t, "unreadable repeat rule", r.String())

	v, err := r.Value()
	require.NoError(t, err)
	assert.Equal(t, stored, v)
}

func TestRepeatRuleScanRejectsOtherTypes(t *testing.T) {
	var r RepeatRule
	assert.Error(t, r.Scan(42))
}
