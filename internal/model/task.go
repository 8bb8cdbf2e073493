package model

// TaskKind - タスクの種別（reply/payment は強制インクルード対象）
type TaskKind string

const (
	KindNormal   TaskKind = "normal"
	KindWorkPlan TaskKind = "work_plan"
	KindReply    TaskKind = "reply"
	KindPayment  TaskKind = "payment"
)

// Task - tasks.json の1レコード。jsonタグはWebアプリ版のエクスポート形式に合わせる
type Task struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Completed   bool     `json:"completed"`
	CreatedAt   int64    `json:"createdAt"` // epoch millis
	Order       *int     `json:"order,omitempty"`
	IsToday     bool     `json:"isToday,omitempty"`
	SnoozeUntil string   `json:"snoozeUntil,omitempty"` // YYYY-MM-DD
	DeadlineAt  string   `json:"deadlineAt,omitempty"`  // YYYY-MM-DD
	Kind        TaskKind `json:"kind,omitempty"`
	DeferCount  int      `json:"deferCount,omitempty"`
	IsSecret    bool     `json:"isSecret,omitempty"` // 裏モード用のダミータスクかどうか
}

// KindOrNormal - kind未設定の古いレコードは normal 扱い
func (t Task) KindOrNormal() TaskKind {
	if t.Kind == "" {
		return KindNormal
	}
	return t.Kind
}

// IsSnoozed - snoozeUntil が今日より未来（辞書順比較 = 日付順）なら非表示
func (t Task) IsSnoozed(todayKey string) bool {
	return t.SnoozeUntil != "" && t.SnoozeUntil > todayKey
}

// ActiveToday - 今日の3枠を1つ消費している状態かどうか
func (t Task) ActiveToday() bool {
	return t.IsToday && !t.Completed && !t.IsSecret
}

// ForcedCandidate - 強制インクルード候補（未完了の reply/payment、スヌーズ中は除外）
func (t Task) ForcedCandidate(todayKey string) bool {
	if t.IsSecret || t.Completed || t.IsSnoozed(todayKey) {
		return false
	}
	kind := t.KindOrNormal()
	return kind == KindReply || kind == KindPayment
}
