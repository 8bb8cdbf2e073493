package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKindOrNormalDefaultsLegacyRecords(t *testing.T) {
	assert.Equal(t, KindNormal, Task{}.KindOrNormal())
	assert.Equal(t, KindReply, Task{Kind: KindReply}.KindOrNormal())
}

func TestIsSnoozedBoundary(t *testing.T) {
	todayKey := "2026-03-10"

	assert.False(t, Task{}.IsSnoozed(todayKey))
	assert.False(t, Task{SnoozeUntil: "2026-03-09"}.IsSnoozed(todayKey))
	// 当日まで = もう表示してよい
	assert.False(t, Task{SnoozeUntil: "2026-03-10"}.IsSnoozed(todayKey))
	assert.True(t, Task{SnoozeUntil: "2026-03-11"}.IsSnoozed(todayKey))
}

func TestActiveToday(t *testing.T) {
	assert.True(t, Task{IsToday: true}.ActiveToday())
	assert.False(t, Task{IsToday: true, Completed: true}.ActiveToday())
	assert.False(t, Task{IsToday: true, IsSecret: true}.ActiveToday())
	assert.False(t, Task{}.ActiveToday())
}

func TestForcedCandidate(t *testing.T) {
	todayKey := "2026-03-10"

	assert.True(t, Task{Kind: KindReply}.ForcedCandidate(todayKey))
	assert.True(t, Task{Kind: KindPayment}.ForcedCandidate(todayKey))
	assert.False(t, Task{Kind: KindNormal}.ForcedCandidate(todayKey))
	assert.False(t, Task{Kind: KindWorkPlan}.ForcedCandidate(todayKey))
	assert.False(t, Task{Kind: KindReply, Completed: true}.ForcedCandidate(todayKey))
	assert.False(t, Task{Kind: KindReply, IsSecret: true}.ForcedCandidate(todayKey))
	assert.False(t, Task{Kind: KindReply, SnoozeUntil: "2026-03-15"}.ForcedCandidate(todayKey))
}

func TestFocusTimerStateExpiry(t *testing.T) {
	state := FocusTimerState{EndsAt: 300_000}

	assert.False(t, state.Expired(time.UnixMilli(299_999)))
	assert.True(t, state.Expired(time.UnixMilli(300_000)))

	assert.Equal(t, time.Duration(0), state.Remaining(time.UnixMilli(400_000)))
	assert.Equal(t, 100*time.Millisecond, state.Remaining(time.UnixMilli(299_900)))
}

func TestPhaseDurations(t *testing.T) {
	assert.Equal(t, 5*time.Minute, PhaseDuration(PhaseStart))
	assert.Equal(t, 25*time.Minute, PhaseDuration(PhaseFocus))
	assert.Equal(t, 5*time.Minute, PhaseDuration(PhaseRest))
}

func TestDateKeyRoundTrip(t *testing.T) {
	key := DateKey(time.Date(2026, 3, 10, 23, 59, 0, 0, time.Local))
	assert.Equal(t, "2026-03-10", key)

	parsed, err := ParseDateKey(key)
	assert.NoError(t, err)
	assert.Equal(t, "2026-03-10", DateKey(parsed))

	_, err = ParseDateKey("not-a-date")
	assert.Error(t, err)
}
