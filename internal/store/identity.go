package store

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nakachan-ing/pick3-cli/internal/model"
)

const identityFile = "identity.json"

type identity struct {
	UID string `json:"uid"`
}

// LoadOrCreateUID - ルーム参加に使う匿名UID。初回に生成して使い回す
func LoadOrCreateUID(config model.Config) (string, error) {
	path := filepath.Join(config.DataDir, identityFile)

	var id identity
	if err := LoadJson(path, &id); err != nil {
		return "", fmt.Errorf("❌ Failed to load identity: %w", err)
	}
	if id.UID != "" {
		return id.UID, nil
	}

	id.UID = uuid.NewString()
	if err := SaveJson(path, id); err != nil {
		return "", fmt.Errorf("❌ Failed to save identity: %w", err)
	}
	return id.UID, nil
}
