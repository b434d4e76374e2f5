package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		lines = append(lines, entry)
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "cadre.log")

	logger, err := New(path, false)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("loaded programs")
	require.NoError(t, logger.Sync())

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	assert.Equal(t, "loaded programs", lines[0]["msg"])
	assert.Equal(t, "cadre", lines[0]["logger"])
	assert.Equal(t, "info", lines[0]["level"])
}

func TestNewVerboseIncludesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cadre.log")

	logger, err := New(path, true)
	require.NoError(t, err)
	logger.Debug("details")
	require.NoError(t, logger.Sync())

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	assert.Equal(t, "debug", lines[0]["level"])
}

func TestNewWithoutPathIsNop(t *testing.T) {
	logger, err := New("  ", true)
	require.NoError(t, err)
	logger.Info("dropped")
}
