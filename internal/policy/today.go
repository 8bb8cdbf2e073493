package policy

import (
	"errors"
	"sort"
	"time"

	"github.com/nakachan-ing/pick3-cli/internal/model"
	"github.com/nakachan-ing/pick3-cli/internal/score"
)

// TodayCapacity - 今日の枠は3つまで。これを超えることは決してない
const TodayCapacity = 3

var ErrTodayFull = errors.New("today is full")

// ActiveTodayCount - 枠を消費している（未完了の）今日タスク数
func ActiveTodayCount(tasks []model.Task) int {
	count := 0
	for _, t := range tasks {
		if t.ActiveToday() {
			count++
		}
	}
	return count
}

// CheckManualToday - 手動で今日に入れられるかの判定。オンで枠がいっぱいなら
// ErrTodayFull（何も変更しない）。オフ方向は常に許可
func CheckManualToday(tasks []model.Task, id string, value bool) error {
	if !value {
		return nil
	}
	for _, t := range tasks {
		if t.ID == id && t.ActiveToday() {
			return nil // already in today
		}
	}
	if ActiveTodayCount(tasks) >= TodayCapacity {
		return ErrTodayFull
	}
	return nil
}

// EnforceResult - 強制インクルードの適用内容。store への反映は呼び出し側が行う
type EnforceResult struct {
	PromoteID string   // 今日に昇格させる reply/payment タスク
	EvictIDs  []string // 今日から外すタスク（deferCount を増やす対象）
	TodayFull bool     // 枠が完了タスクで埋まっていて昇格できない（1日1回だけ通知）
}

func (r EnforceResult) Changed() bool {
	return r.PromoteID != "" || len(r.EvictIDs) > 0
}

// Enforce - reply/payment の強制インクルードルール。タスク変更のたびに同期的に呼ぶ。
//  1. 候補（未完了・非シークレット・非スヌーズの reply/payment）が無ければ何もしない
//  2. 今日に候補種別が2件以上あれば最高スコア1件だけ残して他は退避
//  3. ちょうど1件なら現状維持
//  4. 0件なら: 今日の枠が空いていれば最高スコア候補を昇格。
//     枠が埋まっていて未完了の今日タスクがあれば、最低スコアのものと入れ替える。
//     全部完了済みで埋まっている場合は退避せず「今日はいっぱい」通知だけ返す
func Enforce(tasks []model.Task, now time.Time) EnforceResult {
	todayKey := model.DateKey(now)

	var candidates []model.Task
	for _, t := range tasks {
		if t.ForcedCandidate(todayKey) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return EnforceResult{}
	}

	var todayCandidates []model.Task
	for _, t := range candidates {
		if t.IsToday {
			todayCandidates = append(todayCandidates, t)
		}
	}

	switch {
	case len(todayCandidates) > 1:
		// 強制枠は1つだけ。最高スコア（同点は先勝ち）以外を退避
		keep := todayCandidates[0]
		keepScore := score.Score(keep, now)
		for _, t := range todayCandidates[1:] {
			if s := score.Score(t, now); s > keepScore {
				keep, keepScore = t, s
			}
		}
		var evicted []string
		for _, t := range todayCandidates {
			if t.ID != keep.ID {
				evicted = append(evicted, t.ID)
			}
		}
		return EnforceResult{EvictIDs: evicted}

	case len(todayCandidates) == 1:
		return EnforceResult{}
	}

	// 今日に候補種別が1件も無い。昇格先を決める
	best := candidates[0]
	bestScore := score.Score(best, now)
	for _, t := range candidates[1:] {
		if s := score.Score(t, now); s > bestScore {
			best, bestScore = t, s
		}
	}

	totalToday := 0
	var incompleteToday []model.Task
	for _, t := range tasks {
		if t.IsSecret || !t.IsToday {
			continue
		}
		totalToday++
		if !t.Completed {
			incompleteToday = append(incompleteToday, t)
		}
	}

	if totalToday < TodayCapacity {
		return EnforceResult{PromoteID: best.ID}
	}

	if len(incompleteToday) == 0 {
		// 3枠すべて完了済み。退避する相手がいないので通知だけ
		return EnforceResult{TodayFull: true}
	}

	worst := incompleteToday[0]
	worstScore := score.Score(worst, now)
	for _, t := range incompleteToday[1:] {
		if s := score.Score(t, now); s < worstScore {
			worst, worstScore = t, s
		}
	}
	return EnforceResult{PromoteID: best.ID, EvictIDs: []string{worst.ID}}
}

// SortByScore - オートソート表示用。スコア降順、同点は createdAt の新しい順。
// シークレットタスクはスコアの対象外で、常に先頭のまま動かさない。
// 表示専用で order の値は消さない
func SortByScore(tasks []model.Task, now time.Time) []model.Task {
	sorted := make([]model.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.IsSecret != b.IsSecret {
			return a.IsSecret
		}
		si, sj := score.Score(a, now), score.Score(b, now)
		if si != sj {
			return si > sj
		}
		return a.CreatedAt > b.CreatedAt
	})
	return sorted
}

// SnoozedCount - スヌーズで隠れているバックログ件数（UIに出して透明性を保つ）
func SnoozedCount(tasks []model.Task, todayKey string) int {
	count := 0
	for _, t := range tasks {
		if t.IsSecret || t.Completed || t.IsToday {
			continue
		}
		if t.IsSnoozed(todayKey) {
			count++
		}
	}
	return count
}
