package timer

import (
	"errors"
	"log"
	"time"

	"github.com/nakachan-ing/pick3-cli/internal/model"
)

var (
	ErrTimerActive = errors.New("a focus timer is already running")
	ErrNoTimer     = errors.New("no focus timer is running")
	ErrNotEligible = errors.New("task is not an active today task")
)

// TaskSource - バインド先タスクがまだ有効かを確認するための読み取り口
type TaskSource interface {
	Get(id string) (model.Task, bool)
}

// Persistence - タイマー状態の保存先。書き込み失敗はセッション内のメモリ動作に
// フォールバックする（ハード障害にしない）
type Persistence interface {
	Load() (*model.FocusTimerState, error)
	Save(state model.FocusTimerState) error
	Clear() error
}

// Engine - 3フェーズ（start 5分 → focus 25分 → rest 5分）のタイマー。
// 常に最大1つで、1つの今日タスクにバインドされる
type Engine struct {
	tasks TaskSource
	store Persistence
	state *model.FocusTimerState

	// Now is overridable for tests
	Now func() time.Time
}

func NewEngine(tasks TaskSource, store Persistence) *Engine {
	e := &Engine{tasks: tasks, store: store, Now: time.Now}

	state, err := store.Load()
	if err != nil {
		log.Printf("⚠️ Failed to load timer state, starting without a timer: %v", err)
		return e
	}
	e.state = state
	e.Revalidate()
	return e
}

func (e *Engine) State() *model.FocusTimerState {
	return e.state
}

// Begin - 未完了・非シークレットの今日タスクに対して start フェーズを開始する
func (e *Engine) Begin(taskID string) error {
	if e.state != nil {
		return ErrTimerActive
	}
	task, ok := e.tasks.Get(taskID)
	if !ok || !task.ActiveToday() {
		return ErrNotEligible
	}

	now := e.Now().UnixMilli()
	e.state = &model.FocusTimerState{
		TaskID:    taskID,
		StartedAt: now,
		EndsAt:    now + model.PhaseDuration(model.PhaseStart).Milliseconds(),
		Phase:     model.PhaseStart,
	}
	e.persist()
	return nil
}

// Next - 各フェーズの既定アクション。
// start → focus、focus → rest（休憩が既定の低摩擦ルート）、rest → タイマー終了
func (e *Engine) Next() error {
	if e.state == nil {
		return ErrNoTimer
	}
	if !e.Revalidate() {
		return ErrNoTimer
	}

	switch e.state.Phase {
	case model.PhaseStart:
		e.enterPhase(model.PhaseFocus)
	case model.PhaseFocus:
		e.enterPhase(model.PhaseRest)
	case model.PhaseRest:
		return e.Stop()
	}
	return nil
}

// Refocus - もう1周 focus に入る明示的な操作。focus からの既定アクションは
// rest なので、連続フォーカスは必ずこの二次確認を通る
func (e *Engine) Refocus() error {
	if e.state == nil {
		return ErrNoTimer
	}
	if !e.Revalidate() {
		return ErrNoTimer
	}
	if e.state.Phase == model.PhaseStart {
		return errors.New("continue with `focus next` first")
	}
	e.enterPhase(model.PhaseFocus)
	return nil
}

// Stop - どのフェーズからでもタイマーを消す
func (e *Engine) Stop() error {
	if e.state == nil {
		return ErrNoTimer
	}
	e.state = nil
	if err := e.store.Clear(); err != nil {
		log.Printf("⚠️ Failed to clear timer state: %v", err)
	}
	return nil
}

// Expired - endsAt を壁時計と比べるだけ。自動遷移はせずユーザー入力を待つ
func (e *Engine) Expired() bool {
	return e.state != nil && e.state.Expired(e.Now())
}

// Revalidate - バインド先が消えた/完了した/今日から外れたら黙ってタイマーを消す。
// 消したら false を返す
func (e *Engine) Revalidate() bool {
	if e.state == nil {
		return false
	}
	task, ok := e.tasks.Get(e.state.TaskID)
	if !ok || !task.ActiveToday() {
		e.state = nil
		if err := e.store.Clear(); err != nil {
			log.Printf("⚠️ Failed to clear timer state: %v", err)
		}
		return false
	}
	return true
}

func (e *Engine) enterPhase(phase model.FocusPhase) {
	now := e.Now().UnixMilli()
	e.state = &model.FocusTimerState{
		TaskID:    e.state.TaskID,
		StartedAt: now,
		EndsAt:    now + model.PhaseDuration(phase).Milliseconds(),
		Phase:     phase,
	}
	e.persist()
}

func (e *Engine) persist() {
	if e.state == nil {
		return
	}
	if err := e.store.Save(*e.state); err != nil {
		log.Printf("⚠️ Failed to persist timer state (continuing in-memory): %v", err)
	}
}
