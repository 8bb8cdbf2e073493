package store

import (
	"testing"
	"time"

	"github.com/nakachan-ing/pick3-cli/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *TaskStore {
	t.Helper()
	s := NewTaskStore(model.Config{DataDir: t.TempDir()})
	// 種まき時のサンプルより必ず新しくなるよう、未来の固定時刻を使う
	s.Now = func() time.Time { return time.UnixMilli(4_100_000_000_000) }
	return s
}

func nonSecret(tasks []model.Task) []model.Task {
	var out []model.Task
	for _, task := range tasks {
		if !task.IsSecret {
			out = append(out, task)
		}
	}
	return out
}

func TestNewTaskStoreSeedsSecretAndSamples(t *testing.T) {
	s := newTestStore(t)

	tasks := s.Tasks()
	require.NotEmpty(t, tasks)
	assert.True(t, tasks[0].IsSecret)
	assert.Equal(t, "secret-zoom", tasks[0].ID)
	assert.Equal(t, int64(0), tasks[0].CreatedAt)
	assert.Len(t, nonSecret(tasks), 2)
}

func TestNewTaskStoreKeepsExistingData(t *testing.T) {
	dir := t.TempDir()
	config := model.Config{DataDir: dir}

	first := NewTaskStore(config)
	first.AddTasks([]NewTask{{Text: "persisted task"}})

	second := NewTaskStore(config)
	_, found := second.Get("secret-zoom")
	assert.True(t, found)

	secretCount := 0
	hasPersisted := false
	for _, task := range second.Tasks() {
		if task.IsSecret {
			secretCount++
		}
		if task.Text == "persisted task" {
			hasPersisted = true
		}
	}
	assert.Equal(t, 1, secretCount, "secret task must not be duplicated on reload")
	assert.True(t, hasPersisted)
}

func TestAddTasksSkipsBlankLines(t *testing.T) {
	s := newTestStore(t)
	before := len(s.Tasks())

	added := s.AddTasks([]NewTask{
		{Text: "   "},
		{Text: "buy milk"},
		{Text: ""},
		{Text: "  write report  "},
	})

	require.Len(t, added, 2)
	assert.Equal(t, "buy milk", added[0].Text)
	assert.Equal(t, "write report", added[1].Text)
	assert.Len(t, s.Tasks(), before+2)
}

func TestAddTasksAllBlankAddsNothing(t *testing.T) {
	s := newTestStore(t)
	before := len(s.Tasks())

	added := s.AddTasks([]NewTask{{Text: " "}, {Text: "\t"}})
	assert.Nil(t, added)
	assert.Len(t, s.Tasks(), before)
}

func TestAddTasksKeepsInputOrderInDisplay(t *testing.T) {
	s := newTestStore(t)

	s.AddTasks([]NewTask{{Text: "first"}, {Text: "second"}, {Text: "third"}})

	sorted := s.Sorted()
	require.True(t, sorted[0].IsSecret)
	assert.Equal(t, "first", sorted[1].Text)
	assert.Equal(t, "second", sorted[2].Text)
	assert.Equal(t, "third", sorted[3].Text)
}

func TestInsertAfterPlacesStepsAfterTarget(t *testing.T) {
	s := newTestStore(t)
	added := s.AddTasks([]NewTask{{Text: "big task"}})
	require.Len(t, added, 1)

	steps, err := s.InsertAfter(added[0].ID, []NewTask{
		{Text: "step 1", Kind: model.KindWorkPlan},
		{Text: "step 2", Kind: model.KindWorkPlan},
	})
	require.NoError(t, err)
	require.Len(t, steps, 2)

	tasks := s.Tasks()
	targetIdx := -1
	for i, task := range tasks {
		if task.ID == added[0].ID {
			targetIdx = i
			break
		}
	}
	require.GreaterOrEqual(t, targetIdx, 0)
	require.Less(t, targetIdx+2, len(tasks))
	assert.Equal(t, "step 1", tasks[targetIdx+1].Text)
	assert.Equal(t, "step 2", tasks[targetIdx+2].Text)
	assert.Equal(t, model.KindWorkPlan, tasks[targetIdx+1].Kind)
}

func TestInsertAfterUnknownTask(t *testing.T) {
	s := newTestStore(t)
	_, err := s.InsertAfter("no-such-id", []NewTask{{Text: "step"}})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestToggleCompletedRoundTrip(t *testing.T) {
	s := newTestStore(t)
	added := s.AddTasks([]NewTask{{Text: "toggle me"}})

	updated, err := s.ToggleCompleted(added[0].ID)
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	updated, err = s.ToggleCompleted(added[0].ID)
	require.NoError(t, err)
	assert.False(t, updated.Completed)
}

func TestEditTextTrimsWhitespace(t *testing.T) {
	s := newTestStore(t)
	added := s.AddTasks([]NewTask{{Text: "old text"}})

	require.NoError(t, s.EditText(added[0].ID, "  hello  "))

	task, found := s.Get(added[0].ID)
	require.True(t, found)
	assert.Equal(t, "hello", task.Text)
}

func TestEditTextRejectsBlank(t *testing.T) {
	s := newTestStore(t)
	added := s.AddTasks([]NewTask{{Text: "keep me"}})

	err := s.EditText(added[0].ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyText)

	task, _ := s.Get(added[0].ID)
	assert.Equal(t, "keep me", task.Text, "text must stay unchanged on rejected edit")
}

func TestDeleteSecretTaskIsNoOp(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Delete("secret-zoom"))

	_, found := s.Get("secret-zoom")
	assert.True(t, found)
}

func TestDeleteRemovesTask(t *testing.T) {
	s := newTestStore(t)
	added := s.AddTasks([]NewTask{{Text: "doomed"}})

	require.NoError(t, s.Delete(added[0].ID))
	_, found := s.Get(added[0].ID)
	assert.False(t, found)

	assert.ErrorIs(t, s.Delete("no-such-id"), ErrTaskNotFound)
}

func TestResolveByPrefix(t *testing.T) {
	s := newTestStore(t)

	task, err := s.Resolve("secret-zoom")
	require.NoError(t, err)
	assert.Equal(t, "secret-zoom", task.ID)

	task, err = s.Resolve("secret")
	require.NoError(t, err)
	assert.Equal(t, "secret-zoom", task.ID)

	_, err = s.Resolve("sample")
	assert.ErrorIs(t, err, ErrAmbiguousID)

	_, err = s.Resolve("nope")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestReorderControlsDisplayOrder(t *testing.T) {
	s := newTestStore(t)
	added := s.AddTasks([]NewTask{{Text: "a"}, {Text: "b"}, {Text: "c"}})
	require.Len(t, added, 3)

	s.Reorder([]string{added[2].ID, added[0].ID, added[1].ID})

	sorted := s.Sorted()
	assert.Equal(t, "c", sorted[1].Text)
	assert.Equal(t, "a", sorted[2].Text)
	assert.Equal(t, "b", sorted[3].Text)
}

func TestSortedCompletedSinkBelowIncomplete(t *testing.T) {
	s := newTestStore(t)
	added := s.AddTasks([]NewTask{{Text: "done soon"}, {Text: "still open"}})

	_, err := s.ToggleCompleted(added[0].ID)
	require.NoError(t, err)

	sorted := s.Sorted()
	var completedIdx, openIdx int
	for i, task := range sorted {
		switch task.ID {
		case added[0].ID:
			completedIdx = i
		case added[1].ID:
			openIdx = i
		}
	}
	assert.Greater(t, completedIdx, openIdx)
}

func TestIncrementDefer(t *testing.T) {
	s := newTestStore(t)
	added := s.AddTasks([]NewTask{{Text: "pushed out"}})

	s.IncrementDefer(added[0].ID)
	s.IncrementDefer(added[0].ID)

	task, _ := s.Get(added[0].ID)
	assert.Equal(t, 2, task.DeferCount)
}

func TestSnooze(t *testing.T) {
	s := newTestStore(t)
	added := s.AddTasks([]NewTask{{Text: "later"}})

	require.NoError(t, s.Snooze(added[0].ID, "2026-04-01"))
	task, _ := s.Get(added[0].ID)
	assert.Equal(t, "2026-04-01", task.SnoozeUntil)

	require.NoError(t, s.Snooze(added[0].ID, ""))
	task, _ = s.Get(added[0].ID)
	assert.Empty(t, task.SnoozeUntil)
}
