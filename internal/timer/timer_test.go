package timer

import (
	"testing"
	"time"

	"github.com/nakachan-ing/pick3-cli/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTasks struct {
	tasks map[string]model.Task
}

func (f *fakeTasks) Get(id string) (model.Task, bool) {
	task, ok := f.tasks[id]
	return task, ok
}

type fakeStore struct {
	state   *model.FocusTimerState
	saveErr error
}

func (f *fakeStore) Load() (*model.FocusTimerState, error) {
	if f.state == nil {
		return nil, nil
	}
	state := *f.state
	return &state, nil
}

func (f *fakeStore) Save(state model.FocusTimerState) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.state = &state
	return nil
}

func (f *fakeStore) Clear() error {
	f.state = nil
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *fakeTasks, *fakeStore) {
	t.Helper()
	tasks := &fakeTasks{tasks: map[string]model.Task{
		"t1": {ID: "t1", Text: "today task", IsToday: true},
	}}
	persistence := &fakeStore{}
	engine := NewEngine(tasks, persistence)
	engine.Now = func() time.Time { return time.UnixMilli(0) }
	return engine, tasks, persistence
}

func TestBeginStartsWithFiveMinutes(t *testing.T) {
	engine, _, persistence := newTestEngine(t)

	require.NoError(t, engine.Begin("t1"))

	state := engine.State()
	require.NotNil(t, state)
	assert.Equal(t, model.PhaseStart, state.Phase)
	assert.Equal(t, int64(0), state.StartedAt)
	assert.Equal(t, int64(300_000), state.EndsAt)
	require.NotNil(t, persistence.state, "state must be persisted")
}

func TestBeginRejectsNonTodayTask(t *testing.T) {
	engine, tasks, _ := newTestEngine(t)
	tasks.tasks["b1"] = model.Task{ID: "b1", Text: "backlog"}

	assert.ErrorIs(t, engine.Begin("b1"), ErrNotEligible)
	assert.ErrorIs(t, engine.Begin("missing"), ErrNotEligible)
}

func TestBeginRejectsCompletedTodayTask(t *testing.T) {
	engine, tasks, _ := newTestEngine(t)
	tasks.tasks["d1"] = model.Task{ID: "d1", IsToday: true, Completed: true}

	assert.ErrorIs(t, engine.Begin("d1"), ErrNotEligible)
}

func TestBeginRejectsSecondTimer(t *testing.T) {
	engine, tasks, _ := newTestEngine(t)
	tasks.tasks["t2"] = model.Task{ID: "t2", IsToday: true}

	require.NoError(t, engine.Begin("t1"))
	assert.ErrorIs(t, engine.Begin("t2"), ErrTimerActive)
}

func TestExpiryBoundary(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	require.NoError(t, engine.Begin("t1"))

	engine.Now = func() time.Time { return time.UnixMilli(299_999) }
	assert.False(t, engine.Expired())

	engine.Now = func() time.Time { return time.UnixMilli(300_000) }
	assert.True(t, engine.Expired())
}

func TestNextWalksThroughPhases(t *testing.T) {
	engine, _, persistence := newTestEngine(t)
	require.NoError(t, engine.Begin("t1"))

	// start → focus (25分)
	engine.Now = func() time.Time { return time.UnixMilli(300_000) }
	require.NoError(t, engine.Next())
	state := engine.State()
	require.NotNil(t, state)
	assert.Equal(t, model.PhaseFocus, state.Phase)
	assert.Equal(t, int64(300_000+1_500_000), state.EndsAt)

	// focus → rest (5分)
	require.NoError(t, engine.Next())
	state = engine.State()
	require.NotNil(t, state)
	assert.Equal(t, model.PhaseRest, state.Phase)

	// rest → 終了
	require.NoError(t, engine.Next())
	assert.Nil(t, engine.State())
	assert.Nil(t, persistence.state)

	assert.ErrorIs(t, engine.Next(), ErrNoTimer)
}

func TestRefocusFromStartRejected(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	require.NoError(t, engine.Begin("t1"))

	assert.Error(t, engine.Refocus())
	assert.Equal(t, model.PhaseStart, engine.State().Phase)
}

func TestRefocusLoopsBackToFocus(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	require.NoError(t, engine.Begin("t1"))
	require.NoError(t, engine.Next()) // focus
	require.NoError(t, engine.Next()) // rest

	engine.Now = func() time.Time { return time.UnixMilli(1_000_000) }
	require.NoError(t, engine.Refocus())

	state := engine.State()
	require.NotNil(t, state)
	assert.Equal(t, model.PhaseFocus, state.Phase)
	assert.Equal(t, int64(1_000_000+1_500_000), state.EndsAt)
}

func TestStopClearsAnyPhase(t *testing.T) {
	engine, _, persistence := newTestEngine(t)
	require.NoError(t, engine.Begin("t1"))

	require.NoError(t, engine.Stop())
	assert.Nil(t, engine.State())
	assert.Nil(t, persistence.state)

	assert.ErrorIs(t, engine.Stop(), ErrNoTimer)
}

func TestRevalidateClearsWhenTaskCompleted(t *testing.T) {
	engine, tasks, persistence := newTestEngine(t)
	require.NoError(t, engine.Begin("t1"))

	tasks.tasks["t1"] = model.Task{ID: "t1", IsToday: true, Completed: true}

	assert.ErrorIs(t, engine.Next(), ErrNoTimer)
	assert.Nil(t, engine.State())
	assert.Nil(t, persistence.state)
}

func TestNewEngineRestoresPersistedState(t *testing.T) {
	tasks := &fakeTasks{tasks: map[string]model.Task{
		"t1": {ID: "t1", IsToday: true},
	}}
	persistence := &fakeStore{state: &model.FocusTimerState{
		TaskID: "t1", StartedAt: 0, EndsAt: 300_000, Phase: model.PhaseStart,
	}}

	engine := NewEngine(tasks, persistence)
	require.NotNil(t, engine.State())
	assert.Equal(t, "t1", engine.State().TaskID)
}

func TestNewEngineDropsStateForInvalidBinding(t *testing.T) {
	tasks := &fakeTasks{tasks: map[string]model.Task{}}
	persistence := &fakeStore{state: &model.FocusTimerState{
		TaskID: "gone", StartedAt: 0, EndsAt: 300_000, Phase: model.PhaseFocus,
	}}

	engine := NewEngine(tasks, persistence)
	assert.Nil(t, engine.State())
	assert.Nil(t, persistence.state)
}

func TestPersistFailureFallsBackToMemory(t *testing.T) {
	engine, _, persistence := newTestEngine(t)
	persistence.saveErr = assert.AnError

	require.NoError(t, engine.Begin("t1"))
	require.NotNil(t, engine.State(), "timer keeps running in memory")

	require.NoError(t, engine.Next())
	assert.Equal(t, model.PhaseFocus, engine.State().Phase)
}
