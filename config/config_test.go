package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadDefaults checks struct defaults apply with no file and no
// environment.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Window)
	assert.Equal(t, "United States", cfg.Region)
	assert.Equal(t, 10000, cfg.BackgroundBelow)
	assert.True(t, cfg.LogScale)
	assert.Equal(t, "output.svg", cfg.Output)
}

// TestLoadEnv checks COVID_* variables override defaults.
func TestLoadEnv(t *testing.T) {
	t.Setenv("COVID_WINDOW", "6")
	t.Setenv("COVID_REGION", "Italy")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Window)
	assert.Equal(t, "Italy", cfg.Region)
}

// TestLoadFile checks YAML settings override the environment and carry
// the alias map.
func TestLoadFile(t *testing.T) {
	t.Setenv("COVID_REGION", "Italy")

	p := filepath.Join(t.TempDir(), "covid.yml")
	data := "region: Germany\nwindow: 2\naliases:\n  Holland: Netherlands\n"
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "Germany", cfg.Region)
	assert.Equal(t, 2, cfg.Window)
	assert.Equal(t, map[string]string{"Holland": "Netherlands"}, cfg.Aliases)
}

// TestLoadNegativeWindow checks a negative window is rejected at load.
func TestLoadNegativeWindow(t *testing.T) {
	t.Setenv("COVID_WINDOW", "-3")

	_, err := Load("")
	assert.Error(t, err)
}
