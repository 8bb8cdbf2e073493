package model

import "time"

const dateKeyLayout = "2006-01-02"

// DateKey - スヌーズ/締切の比較に使う YYYY-MM-DD キー
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// ParseDateKey - date-key をローカルタイムの0時としてパース
func ParseDateKey(key string) (time.Time, error) {
	return time.ParseInLocation(dateKeyLayout, key, time.Local)
}
