package score

import (
	"math"
	"strings"
	"time"

	"github.com/nakachan-ing/pick3-cli/internal/model"
)

// 緊急度キーワードの固定テーブル。複数マッチは加算（上限なし）
var keywordWeights = []struct {
	words  []string
	weight int
}{
	{[]string{"レポート", "report"}, 12},
	{[]string{"提出", "submit"}, 10},
	{[]string{"締切", "締め切り", "deadline"}, 10},
	{[]string{"支払", "payment"}, 8},
	{[]string{"返信", "reply"}, 8},
	{[]string{"会議", "meeting"}, 6},
}

// Score - タスクの優先度スコア。決定的な純関数で、now は必ず呼び出し側が渡す
func Score(task model.Task, now time.Time) int {
	total := deadlineScore(task.DeadlineAt, now)
	total += keywordScore(task.Text)
	total += task.DeferCount * 4
	return total
}

// 当日または期限切れは一律100。それ以外は1日あたり5点ずつ減衰し、16日先あたりで0になる
func deadlineScore(deadlineAt string, now time.Time) int {
	if deadlineAt == "" {
		return 0
	}
	deadline, err := model.ParseDateKey(deadlineAt)
	if err != nil {
		return 0
	}

	daysUntil := int(math.Ceil(deadline.Sub(now).Hours() / 24))
	if daysUntil <= 0 {
		return 100
	}
	if s := 80 - daysUntil*5; s > 0 {
		return s
	}
	return 0
}

func keywordScore(text string) int {
	lowered := strings.ToLower(text)
	total := 0
	for _, kw := range keywordWeights {
		for _, word := range kw.words {
			if strings.Contains(lowered, word) {
				total += kw.weight
				break
			}
		}
	}
	return total
}
