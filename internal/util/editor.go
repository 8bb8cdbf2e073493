package util

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/nakachan-ing/pick3-cli/internal/model"
)

func OpenEditor(filePath string, config model.Config) error {
	c := exec.Command(config.Editor, filePath)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to open editor (%s): %w", filePath, err)
	}
	return nil
}

// EditTextInEditor - タスク本文をエディタで編集する。一時ファイル経由
func EditTextInEditor(initial string, config model.Config) (string, error) {
	tmpFile, err := os.CreateTemp("", "pick3-edit-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(initial); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := OpenEditor(tmpPath, config); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to read edited file (%s): %w", filepath.Base(tmpPath), err)
	}
	return strings.TrimSpace(string(edited)), nil
}
