package score

import (
	"testing"
	"time"

	"github.com/nakachan-ing/pick3-cli/internal/model"
	"github.com/stretchr/testify/assert"
)

var noon = time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

func TestScoreZeroForPlainTask(t *testing.T) {
	task := model.Task{Text: "散歩する"}
	assert.Equal(t, 0, Score(task, noon))
}

func TestDeadlineOverdueScoresFlat100(t *testing.T) {
	overdue := model.Task{Text: "x", DeadlineAt: "2026-03-09"}
	today := model.Task{Text: "x", DeadlineAt: "2026-03-10"}

	assert.Equal(t, 100, Score(overdue, noon))
	assert.Equal(t, 100, Score(today, noon))
}

func TestDeadlineDecaysPerDay(t *testing.T) {
	tomorrow := model.Task{Text: "x", DeadlineAt: "2026-03-11"}
	threeDays := model.Task{Text: "x", DeadlineAt: "2026-03-13"}

	// 正午基準: 明日0時までは12時間 → ceil 1日 → 80-5
	assert.Equal(t, 75, Score(tomorrow, noon))
	// 3日後0時までは60時間 → ceil 3日 → 80-15
	assert.Equal(t, 65, Score(threeDays, noon))
}

func TestDeadlineFarAwayScoresZero(t *testing.T) {
	far := model.Task{Text: "x", DeadlineAt: "2026-06-01"}
	assert.Equal(t, 0, Score(far, noon))
}

func TestDeadlineMonotonicity(t *testing.T) {
	near := model.Task{Text: "x", DeadlineAt: "2026-03-12"}
	farther := model.Task{Text: "x", DeadlineAt: "2026-03-15"}
	assert.Greater(t, Score(near, noon), Score(farther, noon))
}

func TestInvalidDeadlineIgnored(t *testing.T) {
	task := model.Task{Text: "x", DeadlineAt: "not-a-date"}
	assert.Equal(t, 0, Score(task, noon))
}

func TestKeywordWeights(t *testing.T) {
	assert.Equal(t, 22, Score(model.Task{Text: "レポート提出"}, noon))
	assert.Equal(t, 8, Score(model.Task{Text: "家賃の支払い"}, noon))
	assert.Equal(t, 6, Score(model.Task{Text: "会議の準備"}, noon))
}

func TestKeywordMatchIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, 8, Score(model.Task{Text: "REPLY to boss"}, noon))
}

func TestKeywordGroupCountedOnce(t *testing.T) {
	// 同じグループの単語が両言語で含まれても加点は1回
	assert.Equal(t, 10, Score(model.Task{Text: "締切 deadline"}, noon))
}

func TestDeferCountAddsFourEach(t *testing.T) {
	task := model.Task{Text: "散歩する", DeferCount: 3}
	assert.Equal(t, 12, Score(task, noon))
}

func TestComponentsAreAdditive(t *testing.T) {
	task := model.Task{Text: "レポート", DeadlineAt: "2026-03-09", DeferCount: 1}
	assert.Equal(t, 100+12+4, Score(task, noon))
}
