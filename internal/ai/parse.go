package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Step - 分解結果の1ステップ
type Step struct {
	Title   string `json:"title"`
	Minutes int    `json:"minutes"`
	Why     string `json:"why"`
}

// Pick - pick3 結果の1件
type Pick struct {
	ID          string `json:"id"`
	ReasonJa    string `json:"reasonJa"`
	ReasonEn    string `json:"reasonEn"`
	First5MinJa string `json:"first5minJa"`
	First5MinEn string `json:"first5minEn"`
}

type Today3 struct {
	Picks  []Pick `json:"picks"`
	NoteJa string `json:"noteJa"`
	NoteEn string `json:"noteEn"`
}

// extractJSON - 応答テキストから最外の {...} を切り出す。コードフェンスや
// 前後の説明文が混ざっていても拾えるように
func extractJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("%w: no JSON object found", ErrParse)
	}
	return raw[start : end+1], nil
}

var allowedMinutes = map[int]bool{5: true, 10: true, 15: true, 20: true}

// ParseBreakdown - 分解応答の厳格パース。ステップはちょうど4件、
// minutes は 5/10/15/20 のみ。少しでも外れたら全体を棄却する
func ParseBreakdown(raw string) ([]Step, error) {
	jsonText, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Steps []Step `json:"steps"`
	}
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if len(parsed.Steps) != 4 {
		return nil, fmt.Errorf("%w: expected 4 steps, got %d", ErrParse, len(parsed.Steps))
	}
	for i, step := range parsed.Steps {
		if strings.TrimSpace(step.Title) == "" {
			return nil, fmt.Errorf("%w: step %d has no title", ErrParse, i+1)
		}
		if strings.TrimSpace(step.Why) == "" {
			return nil, fmt.Errorf("%w: step %d has no why", ErrParse, i+1)
		}
		if !allowedMinutes[step.Minutes] {
			return nil, fmt.Errorf("%w: step %d has invalid minutes %d", ErrParse, i+1, step.Minutes)
		}
	}

	return parsed.Steps, nil
}

// ParseToday3 - pick3 応答の厳格パース。picks は1〜3件、id は候補集合に
// 含まれるもののみ、重複禁止、文字列フィールドはすべて必須
func ParseToday3(raw string, candidateIDs []string) (*Today3, error) {
	jsonText, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	// 契約上は picks/noteJa/noteEn 以外のキーは禁止
	decoder := json.NewDecoder(bytes.NewReader([]byte(jsonText)))
	decoder.DisallowUnknownFields()

	var parsed Today3
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if len(parsed.Picks) < 1 || len(parsed.Picks) > 3 {
		return nil, fmt.Errorf("%w: expected 1-3 picks, got %d", ErrParse, len(parsed.Picks))
	}
	if strings.TrimSpace(parsed.NoteJa) == "" || strings.TrimSpace(parsed.NoteEn) == "" {
		return nil, fmt.Errorf("%w: note is missing", ErrParse)
	}

	known := make(map[string]bool, len(candidateIDs))
	for _, id := range candidateIDs {
		known[id] = true
	}

	seen := map[string]bool{}
	for i, pick := range parsed.Picks {
		if !known[pick.ID] {
			return nil, fmt.Errorf("%w: pick %d references unknown id %q", ErrParse, i+1, pick.ID)
		}
		if seen[pick.ID] {
			return nil, fmt.Errorf("%w: duplicate pick id %q", ErrParse, pick.ID)
		}
		seen[pick.ID] = true

		for field, value := range map[string]string{
			"reasonJa":    pick.ReasonJa,
			"reasonEn":    pick.ReasonEn,
			"first5minJa": pick.First5MinJa,
			"first5minEn": pick.First5MinEn,
		} {
			if strings.TrimSpace(value) == "" {
				return nil, fmt.Errorf("%w: pick %d is missing %s", ErrParse, i+1, field)
			}
		}
	}

	return &parsed, nil
}
