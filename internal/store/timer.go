package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nakachan-ing/pick3-cli/internal/model"
)

const timerFile = "timer.json"

// TimerStore - アクティブなタイマー状態（最大1件）の置き場所
type TimerStore struct {
	path string
}

func NewTimerStore(config model.Config) *TimerStore {
	return &TimerStore{path: filepath.Join(config.DataDir, timerFile)}
}

// Load - 保存済みタイマーを読む。無ければ nil
func (s *TimerStore) Load() (*model.FocusTimerState, error) {
	var states []model.FocusTimerState
	if err := LoadJson(s.path, &states); err != nil {
		return nil, fmt.Errorf("❌ Failed to load timer state: %w", err)
	}
	if len(states) == 0 {
		return nil, nil
	}
	state := states[0]
	return &state, nil
}

func (s *TimerStore) Save(state model.FocusTimerState) error {
	return SaveJson(s.path, []model.FocusTimerState{state})
}

func (s *TimerStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("❌ Failed to clear timer state: %w", err)
	}
	return nil
}
