package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBreakdown = `{
  "steps":[
    {"title":"資料を開く","minutes":5,"why":"着手のハードルを下げる"},
    {"title":"構成を書き出す","minutes":10,"why":"全体像を先に固める"},
    {"title":"本文を書く","minutes":20,"why":"一番重い部分をまとめて進める"},
    {"title":"見直して送る","minutes":15,"why":"仕上げて完了にする"}
  ]
}`

func TestParseBreakdownValid(t *testing.T) {
	steps, err := ParseBreakdown(validBreakdown)
	require.NoError(t, err)
	require.Len(t, steps, 4)
	assert.Equal(t, "資料を開く", steps[0].Title)
	assert.Equal(t, 5, steps[0].Minutes)
}

func TestParseBreakdownExtractsFromFencedText(t *testing.T) {
	wrapped := "もちろんです！以下が分解結果です。\n```json\n" + validBreakdown + "\n```\nがんばってください！"
	steps, err := ParseBreakdown(wrapped)
	require.NoError(t, err)
	assert.Len(t, steps, 4)
}

func TestParseBreakdownRejectsWrongStepCount(t *testing.T) {
	_, err := ParseBreakdown(`{"steps":[{"title":"a","minutes":5,"why":"b"}]}`)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseBreakdownRejectsInvalidMinutes(t *testing.T) {
	_, err := ParseBreakdown(`{"steps":[
		{"title":"a","minutes":7,"why":"b"},
		{"title":"c","minutes":5,"why":"d"},
		{"title":"e","minutes":10,"why":"f"},
		{"title":"g","minutes":15,"why":"h"}
	]}`)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseBreakdownRejectsBlankTitle(t *testing.T) {
	_, err := ParseBreakdown(`{"steps":[
		{"title":"  ","minutes":5,"why":"b"},
		{"title":"c","minutes":5,"why":"d"},
		{"title":"e","minutes":10,"why":"f"},
		{"title":"g","minutes":15,"why":"h"}
	]}`)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseBreakdownRejectsNonJSON(t *testing.T) {
	_, err := ParseBreakdown("すみません、分解できませんでした。")
	assert.ErrorIs(t, err, ErrParse)
}

var candidateIDs = []string{"todo-1", "todo-2", "todo-3", "todo-4"}

const validToday3 = `{
  "picks":[
    {"id":"todo-1","reasonJa":"締切が近い","reasonEn":"Deadline is close","first5minJa":"資料を開く","first5minEn":"Open the doc"},
    {"id":"todo-3","reasonJa":"すぐ終わる","reasonEn":"Quick win","first5minJa":"返信を書き始める","first5minEn":"Start the reply"}
  ],
  "noteJa":"この2つで十分です",
  "noteEn":"These two are enough"
}`

func TestParseToday3Valid(t *testing.T) {
	result, err := ParseToday3(validToday3, candidateIDs)
	require.NoError(t, err)
	require.Len(t, result.Picks, 2)
	assert.Equal(t, "todo-1", result.Picks[0].ID)
	assert.Equal(t, "この2つで十分です", result.NoteJa)
}

func TestParseToday3ExtractsFromFencedText(t *testing.T) {
	wrapped := "```json\n" + validToday3 + "\n```"
	result, err := ParseToday3(wrapped, candidateIDs)
	require.NoError(t, err)
	assert.Len(t, result.Picks, 2)
}

func TestParseToday3RejectsUnknownID(t *testing.T) {
	raw := `{"picks":[{"id":"made-up","reasonJa":"a","reasonEn":"b","first5minJa":"c","first5minEn":"d"}],"noteJa":"x","noteEn":"y"}`
	_, err := ParseToday3(raw, candidateIDs)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseToday3RejectsDuplicateID(t *testing.T) {
	raw := `{"picks":[
		{"id":"todo-1","reasonJa":"a","reasonEn":"b","first5minJa":"c","first5minEn":"d"},
		{"id":"todo-1","reasonJa":"a","reasonEn":"b","first5minJa":"c","first5minEn":"d"}
	],"noteJa":"x","noteEn":"y"}`
	_, err := ParseToday3(raw, candidateIDs)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseToday3RejectsMissingField(t *testing.T) {
	raw := `{"picks":[{"id":"todo-1","reasonJa":"a","reasonEn":"b","first5minJa":"c","first5minEn":""}],"noteJa":"x","noteEn":"y"}`
	_, err := ParseToday3(raw, candidateIDs)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseToday3RejectsUnknownKeys(t *testing.T) {
	raw := `{"picks":[{"id":"todo-1","reasonJa":"a","reasonEn":"b","first5minJa":"c","first5minEn":"d"}],"noteJa":"x","noteEn":"y","extra":"nope"}`
	_, err := ParseToday3(raw, candidateIDs)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseToday3RejectsEmptyPicks(t *testing.T) {
	raw := `{"picks":[],"noteJa":"x","noteEn":"y"}`
	_, err := ParseToday3(raw, candidateIDs)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseToday3RejectsTooManyPicks(t *testing.T) {
	raw := `{"picks":[
		{"id":"todo-1","reasonJa":"a","reasonEn":"b","first5minJa":"c","first5minEn":"d"},
		{"id":"todo-2","reasonJa":"a","reasonEn":"b","first5minJa":"c","first5minEn":"d"},
		{"id":"todo-3","reasonJa":"a","reasonEn":"b","first5minJa":"c","first5minEn":"d"},
		{"id":"todo-4","reasonJa":"a","reasonEn":"b","first5minJa":"c","first5minEn":"d"}
	],"noteJa":"x","noteEn":"y"}`
	_, err := ParseToday3(raw, candidateIDs)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseToday3RejectsMissingNote(t *testing.T) {
	raw := `{"picks":[{"id":"todo-1","reasonJa":"a","reasonEn":"b","first5minJa":"c","first5minEn":"d"}],"noteJa":"x","noteEn":""}`
	_, err := ParseToday3(raw, candidateIDs)
	assert.ErrorIs(t, err, ErrParse)
}

func TestBuildToday3PromptEmbedsCandidates(t *testing.T) {
	prompt, err := BuildToday3Prompt("2026-03-10", "ja", []Candidate{
		{ID: "todo-1", Text: "レポート提出", Score: 22},
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "2026-03-10")
	assert.Contains(t, prompt, `"todo-1"`)
	assert.NotContains(t, prompt, "{{CANDIDATES_JSON}}")
}

func TestBuildBreakdownPromptEmbedsTask(t *testing.T) {
	prompt := BuildBreakdownPrompt("部屋を片付ける")
	assert.Contains(t, prompt, "部屋を片付ける")
	assert.NotContains(t, prompt, "{{TASK_TEXT}}")
}
