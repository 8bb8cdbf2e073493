package store

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/nakachan-ing/pick3-cli/internal/model"
)

const labelsFile = "labels.json"

// ルームIDは導出ハッシュで人間には読めないので、端末ローカルに表示名を持つ

func labelsPath(config model.Config) string {
	return filepath.Join(config.DataDir, labelsFile)
}

func loadLabels(config model.Config) map[string]string {
	labels := map[string]string{}
	if err := LoadJson(labelsPath(config), &labels); err != nil {
		log.Printf("⚠️ Failed to load room labels: %v", err)
		return map[string]string{}
	}
	return labels
}

func GetRoomLabel(config model.Config, roomID string) string {
	return loadLabels(config)[roomID]
}

// SetRoomLabel - 空文字を渡すとラベルを消す
func SetRoomLabel(config model.Config, roomID, label string) {
	labels := loadLabels(config)
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		delete(labels, roomID)
	} else {
		labels[roomID] = trimmed
	}
	if err := SaveJson(labelsPath(config), labels); err != nil {
		log.Printf("⚠️ Failed to save room labels: %v", err)
	}
}

func ClearRoomLabel(config model.Config, roomID string) {
	labels := loadLabels(config)
	if _, ok := labels[roomID]; !ok {
		return
	}
	delete(labels, roomID)
	if err := SaveJson(labelsPath(config), labels); err != nil {
		log.Printf("⚠️ Failed to save room labels: %v", err)
	}
}
