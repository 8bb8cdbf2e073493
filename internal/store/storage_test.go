package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nakachan-ing/pick3-cli/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadJsonRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.json")
	tasks := []model.Task{{ID: "t1", Text: "hello", CreatedAt: 42}}

	require.NoError(t, SaveJson(path, tasks))

	var loaded []model.Task
	require.NoError(t, LoadJson(path, &loaded))
	assert.Equal(t, tasks, loaded)
}

func TestLoadJsonMissingFileKeepsZeroValue(t *testing.T) {
	var tasks []model.Task
	require.NoError(t, LoadJson(filepath.Join(t.TempDir(), "missing.json"), &tasks))
	assert.Nil(t, tasks)
}

func TestLoadJsonEmptyFileKeepsZeroValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	var settings model.Settings
	require.NoError(t, LoadJson(path, &settings))
	assert.Equal(t, model.Settings{}, settings)
}

func TestLoadJsonCorruptFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	var tasks []model.Task
	assert.Error(t, LoadJson(path, &tasks))
}

func TestSaveJsonLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, SaveJson(path, model.Settings{AutoSort: true}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "settings.json", entries[0].Name())
}
