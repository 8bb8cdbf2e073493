package model

import "time"

type FocusPhase string

const (
	PhaseStart FocusPhase = "start"
	PhaseFocus FocusPhase = "focus"
	PhaseRest  FocusPhase = "rest"
)

// PhaseDuration - 各フェーズの固定時間
func PhaseDuration(phase FocusPhase) time.Duration {
	switch phase {
	case PhaseFocus:
		return 25 * time.Minute
	default: // start, rest
		return 5 * time.Minute
	}
}

// FocusTimerState - 同時に1つだけ存在するタイマー状態。遷移のたびに丸ごと差し替える
type FocusTimerState struct {
	TaskID    string     `json:"taskId"`
	StartedAt int64      `json:"startedAt"` // epoch millis
	EndsAt    int64      `json:"endsAt"`    // epoch millis
	Phase     FocusPhase `json:"phase"`
}

func (s FocusTimerState) Expired(now time.Time) bool {
	return now.UnixMilli() >= s.EndsAt
}

func (s FocusTimerState) Remaining(now time.Time) time.Duration {
	remaining := time.Duration(s.EndsAt-now.UnixMilli()) * time.Millisecond
	if remaining < 0 {
		return 0
	}
	return remaining
}
