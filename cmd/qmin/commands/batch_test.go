package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/qmin/manifest"
)

func TestGenerateBatch(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "encoders.toml")
	content := `[defaults]
cmd = 1

[[encoders]]
suffix = "small"
width = 4
prefix = 3

[[encoders]]
suffix = "wide"
width = 20
prefix = 8
`
	require.NoError(t, os.WriteFile(manifestPath, []byte(content), 0o644))

	m, err := manifest.Load(manifestPath)
	require.NoError(t, err)

	outDir := filepath.Join(dir, "rtl")
	require.NoError(t, generateBatch(m, outDir))

	small, err := os.ReadFile(filepath.Join(outDir, "argmin_small.v"))
	require.NoError(t, err)
	assert.Contains(t, string(small), "module argmin_small (")

	wide, err := os.ReadFile(filepath.Join(outDir, "argmin_wide.v"))
	require.NoError(t, err)
	assert.Contains(t, string(wide), "module argmin_wide (")
	// cmd = 1 from the defaults section makes the wide tree clocked
	assert.Contains(t, string(wide), "clk_i")
}

func TestGenerateBatchInvalidEntry(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "encoders.toml")
	content := `[[encoders]]
suffix = "bad"
width = 1
prefix = 3
`
	require.NoError(t, os.WriteFile(manifestPath, []byte(content), 0o644))

	m, err := manifest.Load(manifestPath)
	require.NoError(t, err)

	err = generateBatch(m, filepath.Join(dir, "rtl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encoder 1")
}
