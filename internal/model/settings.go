package model

// Settings - 端末ローカルのUI設定（settings.json）。config.yaml と違い同期対象
type Settings struct {
	AutoSort           bool   `json:"autoSort"`                     // バックログをスコア順で表示
	TodayFullNoticeKey string `json:"todayFullNoticeKey,omitempty"` // "今日はいっぱい"を通知済みの date-key
	CurrentRoomID      string `json:"currentRoomId,omitempty"`
}
