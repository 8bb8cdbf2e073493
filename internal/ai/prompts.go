package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Webアプリ版から持ってきたプロンプト。出力契約（JSONのみ・キー固定）はパーサ側と対
const today3PromptTemplate = `あなたはToDoの中から「今日やるべき3つ」を選ぶアシスタントです。
候補リストから最大3件を選び、理由と最初の5分の行動を返してください。

【入力】
- today_key: 今日の日付キー
- language: 現在のUI言語
- candidates: 未完了かつTodayでないタスク候補の配列（idは必ずこの中から選ぶ）

【出力ルール（最重要）】
- 出力は JSONのみ。前後に説明文・コードフェンス・余計な文字を一切付けない。
- JSONは必ずパース可能（ダブルクォート、末尾カンマ禁止）。
- 返すキーは picks, noteJa, noteEn のみ。他のキーは禁止。
- picks は最大3件（足りない場合は1〜2件でも可）。
- picks の id は必ず candidates に含まれる id のみを使う（新規作成は禁止）。
- reasonJa/reasonEn は「なぜ今日やるべきか」を1文で。
- first5minJa/first5minEn は「最初の5分の行動」を具体的に。

【出力JSONスキーマ（この形に完全一致）】
{
  "picks":[
    {
      "id":"todoId",
      "reasonJa":"...",
      "reasonEn":"...",
      "first5minJa":"...",
      "first5minEn":"..."
    }
  ],
  "noteJa":"...",
  "noteEn":"..."
}

today_key: {{TODAY_KEY}}
language: {{LANGUAGE}}
candidates: {{CANDIDATES_JSON}}`

const breakdownPromptTemplate = `あなたはタスクを最初の一歩に分解するアシスタントです。
次のタスクを、すぐ着手できる4つのステップに分解してください。

【出力ルール（最重要）】
- 出力は JSONのみ。前後に説明文・コードフェンス・余計な文字を一切付けない。
- steps はちょうど4件。
- minutes は 5, 10, 15, 20 のいずれか。
- title は具体的な行動を1文で、why はそのステップが必要な理由を1文で。

【出力JSONスキーマ（この形に完全一致）】
{
  "steps":[
    { "title":"...", "minutes":5, "why":"..." }
  ]
}

task: {{TASK_TEXT}}`

// Candidate - pick3 候補としてAIに渡すタスクの射影
type Candidate struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	DeadlineAt string `json:"deadlineAt,omitempty"`
	Kind       string `json:"kind,omitempty"`
	Score      int    `json:"score"`
}

func BuildToday3Prompt(todayKey, language string, candidates []Candidate) (string, error) {
	candidatesJSON, err := json.Marshal(candidates)
	if err != nil {
		return "", fmt.Errorf("failed to encode candidates: %w", err)
	}

	prompt := today3PromptTemplate
	prompt = strings.ReplaceAll(prompt, "{{TODAY_KEY}}", todayKey)
	prompt = strings.ReplaceAll(prompt, "{{LANGUAGE}}", language)
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATES_JSON}}", string(candidatesJSON))
	return prompt, nil
}

func BuildBreakdownPrompt(taskText string) string {
	return strings.ReplaceAll(breakdownPromptTemplate, "{{TASK_TEXT}}", taskText)
}
