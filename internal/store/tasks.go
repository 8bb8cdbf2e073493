package store

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nakachan-ing/pick3-cli/internal/model"
)

const tasksFile = "tasks.json"

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrAmbiguousID  = errors.New("task id prefix is ambiguous")
	ErrEmptyText    = errors.New("task text is empty")
)

// 初期のダミータスク（裏モード入口用）。削除不可、件数にも数えない
func secretTask() model.Task {
	return model.Task{
		ID:        "secret-zoom",
		Text:      "Zoom会議",
		CreatedAt: 0,
		IsSecret:  true,
	}
}

// TaskStore - タスクコレクションの唯一の所有者。メモリ上の状態が正で、
// 永続化失敗は警告ログに落とすだけ（そのセッション中は動き続ける）
type TaskStore struct {
	path  string
	tasks []model.Task

	// Now is overridable for tests
	Now func() time.Time
}

func NewTaskStore(config model.Config) *TaskStore {
	s := &TaskStore{
		path: filepath.Join(config.DataDir, tasksFile),
		Now:  time.Now,
	}

	if err := LoadJson(s.path, &s.tasks); err != nil {
		log.Printf("⚠️ Failed to load %s, starting with initial tasks: %v", tasksFile, err)
		s.tasks = nil
	}

	if len(s.tasks) == 0 {
		now := s.Now().UnixMilli()
		s.tasks = []model.Task{
			secretTask(),
			{ID: "sample-1", Text: "ミルク買う", CreatedAt: now - 3600000},
			{ID: "sample-2", Text: "レポート10分", CreatedAt: now - 7200000},
		}
		s.persist()
		return s
	}

	// 既存データにシークレットタスクが無ければ先頭に足す
	hasSecret := false
	for _, t := range s.tasks {
		if t.IsSecret {
			hasSecret = true
			break
		}
	}
	if !hasSecret {
		s.tasks = append([]model.Task{secretTask()}, s.tasks...)
		s.persist()
	}

	return s
}

func (s *TaskStore) persist() {
	if err := SaveJson(s.path, s.tasks); err != nil {
		log.Printf("⚠️ Failed to persist tasks (in-memory state stays authoritative): %v", err)
	}
}

// Tasks - コレクションのコピーを返す（呼び出し側の変更は反映されない）
func (s *TaskStore) Tasks() []model.Task {
	tasks := make([]model.Task, len(s.tasks))
	copy(tasks, s.tasks)
	return tasks
}

func (s *TaskStore) Get(id string) (model.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Resolve - 完全一致 → 一意なプレフィックス一致の順でIDを解決する
func (s *TaskStore) Resolve(idOrPrefix string) (model.Task, error) {
	if t, ok := s.Get(idOrPrefix); ok {
		return t, nil
	}

	var matched []model.Task
	for _, t := range s.tasks {
		if strings.HasPrefix(t.ID, idOrPrefix) {
			matched = append(matched, t)
		}
	}
	switch len(matched) {
	case 1:
		return matched[0], nil
	case 0:
		return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, idOrPrefix)
	default:
		return model.Task{}, fmt.Errorf("%w: %s", ErrAmbiguousID, idOrPrefix)
	}
}

// NewTask - AddTasks の1行分の入力
type NewTask struct {
	Text       string
	Kind       model.TaskKind
	DeadlineAt string
}

// AddTasks - 複数行をまとめて追加する。空行はスキップ。
// 同一バッチ内では先の行ほど createdAt が大きくなる（timestamp + (n - i)）ので、
// 新しい順の表示で入力順が保たれる。永続化は1回なのでバッチの途中状態は観測されない
func (s *TaskStore) AddTasks(inputs []NewTask) []model.Task {
	var valid []NewTask
	for _, in := range inputs {
		if strings.TrimSpace(in.Text) == "" {
			continue
		}
		valid = append(valid, in)
	}
	if len(valid) == 0 {
		return nil
	}

	timestamp := s.Now().UnixMilli()
	newTasks := make([]model.Task, 0, len(valid))
	for i, in := range valid {
		newTasks = append(newTasks, model.Task{
			ID:         fmt.Sprintf("todo-%d-%d", timestamp, i),
			Text:       strings.TrimSpace(in.Text),
			CreatedAt:  timestamp + int64(len(valid)-i),
			Kind:       in.Kind,
			DeadlineAt: in.DeadlineAt,
		})
	}

	// シークレットタスクの直後に挿入する
	inserted := false
	for i, t := range s.tasks {
		if t.IsSecret {
			rest := make([]model.Task, len(s.tasks[i+1:]))
			copy(rest, s.tasks[i+1:])
			s.tasks = append(s.tasks[:i+1], append(newTasks, rest...)...)
			inserted = true
			break
		}
	}
	if !inserted {
		s.tasks = append(newTasks, s.tasks...)
	}

	s.persist()
	return newTasks
}

// InsertAfter - 指定タスクの直後にまとめて挿入する（AI分解のステップ挿入用）
func (s *TaskStore) InsertAfter(id string, inputs []NewTask) ([]model.Task, error) {
	if _, ok := s.Get(id); !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	var valid []NewTask
	for _, in := range inputs {
		if strings.TrimSpace(in.Text) == "" {
			continue
		}
		valid = append(valid, in)
	}
	if len(valid) == 0 {
		return nil, nil
	}

	timestamp := s.Now().UnixMilli()
	newTasks := make([]model.Task, 0, len(valid))
	for i, in := range valid {
		newTasks = append(newTasks, model.Task{
			ID:         fmt.Sprintf("todo-%d-%d", timestamp, i),
			Text:       strings.TrimSpace(in.Text),
			CreatedAt:  timestamp + int64(len(valid)-i),
			Kind:       in.Kind,
			DeadlineAt: in.DeadlineAt,
		})
	}

	for i, t := range s.tasks {
		if t.ID == id {
			rest := make([]model.Task, len(s.tasks[i+1:]))
			copy(rest, s.tasks[i+1:])
			s.tasks = append(s.tasks[:i+1], append(newTasks, rest...)...)
			break
		}
	}

	s.persist()
	return newTasks, nil
}

// ToggleCompleted - 完了/未完了を反転する。isToday と order には触らない
func (s *TaskStore) ToggleCompleted(id string) (model.Task, error) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = !s.tasks[i].Completed
			s.persist()
			return s.tasks[i], nil
		}
	}
	return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// SetToday - 今日フラグのただのセッター。3件上限の判定は policy 側の責務
func (s *TaskStore) SetToday(id string, value bool) error {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].IsToday = value
			s.persist()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// EditText - trim後が空なら何もしない（空タスクを作らない）
func (s *TaskStore) EditText(id, newText string) error {
	trimmed := strings.TrimSpace(newText)
	if trimmed == "" {
		return ErrEmptyText
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Text = trimmed
			s.persist()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// Delete - レコードを完全に削除する。シークレットタスクは黙って無視
func (s *TaskStore) Delete(id string) error {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			if s.tasks[i].IsSecret {
				return nil
			}
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			s.persist()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

func (s *TaskStore) Snooze(id, untilDateKey string) error {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].SnoozeUntil = untilDateKey
			s.persist()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
}

// Reorder - 渡されたIDに順番どおり order を振る。含まれないタスクは触らない
func (s *TaskStore) Reorder(orderedIds []string) {
	position := make(map[string]int, len(orderedIds))
	for i, id := range orderedIds {
		position[id] = i
	}
	for i := range s.tasks {
		if pos, ok := position[s.tasks[i].ID]; ok {
			p := pos
			s.tasks[i].Order = &p
		}
	}
	s.persist()
}

// IncrementDefer - 今日から押し出されたときのカウント。スコアリングが消費する
func (s *TaskStore) IncrementDefer(id string) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].DeferCount++
			s.persist()
			return
		}
	}
}

// Sorted - 表示用の全順序。キャッシュせず毎回計算する。
//  1. シークレットタスクが常に先頭
//  2. 未完了が完了より上
//  3. order 持ち同士は order 昇順、order 持ちが order 無しより上
//  4. 残りは createdAt の新しい順
func (s *TaskStore) Sorted() []model.Task {
	tasks := s.Tasks()
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.IsSecret != b.IsSecret {
			return a.IsSecret
		}
		if a.Completed != b.Completed {
			return !a.Completed
		}
		switch {
		case a.Order != nil && b.Order != nil:
			if *a.Order != *b.Order {
				return *a.Order < *b.Order
			}
		case a.Order != nil:
			return true
		case b.Order != nil:
			return false
		}
		return a.CreatedAt > b.CreatedAt
	})
	return tasks
}
