package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/splice/config"
	"github.com/dhamidi/splice/merge"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "splice.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, merge.DefaultPolicy(), cfg.Merge)
	assert.Equal(t, runtime.NumCPU(), cfg.Batch.Jobs)
	assert.Equal(t, config.DefaultPattern, cfg.Batch.Pattern)
	assert.Empty(t, cfg.Batch.Out)
	assert.Nil(t, cfg.LogPath())
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `merge:
  modifiers: keep
  parameters: keep
log:
  verbosity: 2
  path: /tmp/splice.log
batch:
  jobs: 3
  out: merged
`))
	require.NoError(t, err)

	assert.Equal(t, merge.ModifiersKeep, cfg.Merge.Modifiers)
	assert.Equal(t, merge.ParametersKeep, cfg.Merge.Parameters)
	assert.Equal(t, merge.ImportsAdditive, cfg.Merge.Imports)
	assert.Equal(t, 2, cfg.Log.Verbosity)
	require.NotNil(t, cfg.LogPath())
	assert.Equal(t, "/tmp/splice.log", *cfg.LogPath())
	assert.Equal(t, 3, cfg.Batch.Jobs)
	assert.Equal(t, "merged", cfg.Batch.Out)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "batch:\n  jobs: 3\n")
	t.Setenv("SPLICE_BATCH_JOBS", "7")
	t.Setenv("SPLICE_MERGE_MODIFIERS", "keep")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Batch.Jobs)
	assert.Equal(t, merge.ModifiersKeep, cfg.Merge.Modifiers)
}

func TestLoadSearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".splice.yaml"), []byte("batch:\n  jobs: 5\n"), 0o600))
	t.Setenv("HOME", t.TempDir())
	t.Chdir(dir)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Batch.Jobs)
}

func TestLoadWithoutAnyFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"unknown modifier policy", "merge:\n  modifiers: merge\n", merge.ErrUnknownModifierPolicy},
		{"unknown import policy", "merge:\n  imports: sorted\n", merge.ErrUnknownImportPolicy},
		{"zero jobs", "batch:\n  jobs: 0\n", config.ErrInvalidJobs},
		{"empty pattern", "batch:\n  pattern: \"\"\n", config.ErrInvalidPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
