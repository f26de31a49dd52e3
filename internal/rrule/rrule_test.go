package rrule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyAt(t *testing.T) {
	rule, err := DailyAt("08:30")
	require.NoError(t, err)
	assert.Equal(t, "FREQ=DAILY;BYHOUR=8;BYMINUTE=30;BYSECOND=0", rule)

	rule, err = DailyAt("00:00")
	require.NoError(t, err)
	assert.Equal(t, "FREQ=DAILY;BYHOUR=0;BYMINUTE=0;BYSECOND=0", rule)
}

func TestDailyAt_Invalid(t *testing.T) {
	for _, bad := range []string{"24:00", "12:60", "0900", "", "ab:cd"} {
		_, err := DailyAt(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestWeeklyAt(t *testing.T) {
	rule, err := WeeklyAt("09:00")
	require.NoError(t, err)
	assert.Equal(t, "FREQ=WEEKLY;BYHOUR=9;BYMINUTE=0;BYSECOND=0", rule)
}

func TestNextOccurrence_SameDay(t *testing.T) {
	dtstart := time.Date(2026, 3, 10, 6, 0, 0, 0, time.Local)
	after := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

	rule, err := DailyAt("09:00")
	require.NoError(t, err)

	next, err := NextOccurrence(rule, dtstart, after)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local), *next)
}

func TestNextOccurrence_RollsToNextDay(t *testing.T) {
	dtstart := time.Date(2026, 3, 10, 6, 0, 0, 0, time.Local)
	after := time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)

	rule, err := DailyAt("09:00")
	require.NoError(t, err)

	next, err := NextOccurrence(rule, dtstart, after)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2026, 3, 11, 9, 0, 0, 0, time.Local), *next)
}

func TestNextOccurrence_InclusiveAtBoundary(t *testing.T) {
	dtstart := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

	rule, err := DailyAt("09:00")
	require.NoError(t, err)

	next, err := NextOccurrence(rule, dtstart, at)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, at, *next)
}

func TestNextOccurrenceStrict_SkipsCurrent(t *testing.T) {
	dtstart := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	justFired := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

	rule, err := DailyAt("09:00")
	require.NoError(t, err)

	next, err := NextOccurrenceStrict(rule, dtstart, justFired)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2026, 3, 11, 9, 0, 0, 0, time.Local), *next)
}

func TestNextOccurrenceStrict_Weekly(t *testing.T) {
	// 2026-03-10 is a Tuesday; the next weekly occurrence lands a week later.
	dtstart := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	justFired := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

	rule, err := WeeklyAt("09:00")
	require.NoError(t, err)

	next, err := NextOccurrenceStrict(rule, dtstart, justFired)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, time.Date(2026, 3, 17, 9, 0, 0, 0, time.Local), *next)
}

func TestParse_ToleratesPrefix(t *testing.T) {
	dtstart := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)
	_, err := Parse("RRULE:FREQ=DAILY;BYHOUR=9;BYMINUTE=0;BYSECOND=0", dtstart)
	assert.NoError(t, err)
}

func TestParse_Invalid(t *testing.T) {
	dtstart := time.Now()
	_, err := Parse("FREQ=SOMETIMES", dtstart)
	assert.Error(t, err)
}
