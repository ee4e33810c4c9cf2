package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRoot builds a throwaway runtime root with conf/global.yaml and a
// data directory seeded from the dataset fixtures, then points BYLAW_ROOT
// at it so the persistent pre-run picks it up.
func setupRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	yaml := []byte("http:\n  listen_addr: \":8099\"\ndata:\n  dir: data\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), yaml, 0o644))

	dataDir := filepath.Join(root, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	src := filepath.Join("..", "internal", "dataset", "testdata")
	entries, err := os.ReadDir(src)
	require.NoError(t, err)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		b, err := os.ReadFile(filepath.Join(src, e.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, e.Name()), b, 0o644))
	}

	t.Setenv("BYLAW_ROOT", root)
	return root
}

func TestValidateCleanDatasets(t *testing.T) {
	setupRoot(t)

	rootCmd.SetArgs([]string{"validate"})
	require.NoError(t, rootCmd.Execute())
}

func TestValidateFailsOnAuditFinding(t *testing.T) {
	root := setupRoot(t)

	// Push one verification date past today so the audit reports it.
	qh := filepath.Join(root, "data", "quiet_hours.json")
	b, err := os.ReadFile(qh)
	require.NoError(t, err)
	b = bytes.ReplaceAll(b, []byte("2025-06-14"), []byte("2031-01-01"))
	require.NoError(t, os.WriteFile(qh, b, 0o644))

	rootCmd.SetArgs([]string{"validate"})
	err = rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "1 finding(s)")
}
