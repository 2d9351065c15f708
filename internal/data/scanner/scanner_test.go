package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanFindsInputFiles(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "logs"), 0755))

	want := []string{
		filepath.Join(tempDir, "flight_log.json"),
		filepath.Join(tempDir, "logs", "test.log"),
	}
	for _, path := range want {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "notes.txt"), []byte("x"), 0644))

	files, err := NewFileScanner(tempDir).Scan()

	require.NoError(t, err)
	assert.ElementsMatch(t, want, files)
}

func TestScanEmptyDirectory(t *testing.T) {
	files, err := NewFileScanner(t.TempDir()).Scan()

	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanMatchesCaseInsensitive(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "FLIGHT.JSON")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	files, err := NewFileScanner(tempDir).Scan()

	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestScanMissingDirectory(t *testing.T) {
	files, err := NewFileScanner(filepath.Join(t.TempDir(), "missing")).Scan()

	assert.NoError(t, err, "walk errors on individual entries are skipped")
	assert.Empty(t, files)
}
