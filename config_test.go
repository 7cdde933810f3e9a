package nrs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nrs-lang/nrs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_WalksUp(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	content := "log_level: debug\nposition_encoding: utf-32\nstrict_coverage: true\ninlay_hints: false\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".nrs.yaml"), []byte(content), 0o600))

	cfg, err := nrs.LoadConfig(nested)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, nrs.EncodingUTF32, cfg.PositionEncoding)
	assert.True(t, cfg.StrictCoverage)
	assert.False(t, cfg.HintsEnabled())
	assert.Equal(t, nrs.DefaultConfig().AnalysisWorkers, cfg.AnalysisWorkers, "unset keys keep defaults")
}

func TestLoadConfig_NotFound(t *testing.T) {
	t.Parallel()

	path, err := nrs.FindConfig(t.TempDir())
	if err == nil {
		// A config above the temp dir belongs to the machine, not this test.
		t.Skipf("found unrelated config at %s", path)
	}

	require.ErrorIs(t, err, nrs.ErrConfigNotFound)
}

func TestLoadConfigFile_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad encoding", "position_encoding: utf-8\n", "position_encoding"},
		{"bad workers", "analysis_workers: -1\n", "analysis_workers"},
		{"bad yaml", "log_level: [\n", "parsing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "nrs.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := nrs.LoadConfigFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := nrs.DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, nrs.EncodingUTF16, cfg.PositionEncoding)
	assert.True(t, cfg.HintsEnabled())
	assert.False(t, cfg.StrictCoverage)
}
