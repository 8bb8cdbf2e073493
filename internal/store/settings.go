package store

import (
	"log"
	"path/filepath"

	"github.com/nakachan-ing/pick3-cli/internal/model"
)

const settingsFile = "settings.json"

// LoadSettings - 壊れていてもゼロ値で動き続ける（設定は失っても致命傷ではない）
func LoadSettings(config model.Config) model.Settings {
	var settings model.Settings
	path := filepath.Join(config.DataDir, settingsFile)
	if err := LoadJson(path, &settings); err != nil {
		log.Printf("⚠️ Failed to load settings, using defaults: %v", err)
		return model.Settings{}
	}
	return settings
}

func SaveSettings(config model.Config, settings model.Settings) {
	path := filepath.Join(config.DataDir, settingsFile)
	if err := SaveJson(path, settings); err != nil {
		log.Printf("⚠️ Failed to save settings: %v", err)
	}
}
