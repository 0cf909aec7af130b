package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestRunParse(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runParse(&buf, "every 2 weeks on monday and thursday at 18:00"))

	out := buf.String()
	assert.Contains(t, out, "kind: Weekly")
	assert.Contains(t, out, `"kind":"Weekly"`)

	assert.Error(t, runParse(&buf, "whenever I feel like it"))
}

func TestRunNext(t *testing.T) {
	var buf bytes.Buffer
	from := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)
	require.NoError(t, runNext(&buf, "every day at 9am", from, 3))

	out := buf.String()
	assert.Contains(t, out, "  1. Sat 2025-02-01 09:00 UTC")
	assert.Contains(t, out, "  3. Mon 2025-02-03 09:00 UTC")

	assert.Error(t, runNext(&buf, "every day at 9am", from, 0))
}

func TestRunDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runDecode(&buf, `{"kind":"Daily","days":3,"at":null}`))
	assert.Contains(t, buf.String(), "(Daily)")

	assert.Error(t, runDecode(&buf, `{"days":3}`))
}

func TestParseFrom(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	est := time.FixedZone("EST", -5*3600)

	got, err := parseFrom("", est, now)
	require.NoError(t, err)
	assert.True(t, got.Equal(now))
	assert.Equal(t, est, got.Location())

	got, err = parseFrom("2025-03-09 01:30", est, now)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 3, 9, 1, 30, 0, 0, est)))

	_, err = parseFrom("yesterday", est, now)
	assert.Error(t, err)
}
