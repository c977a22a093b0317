package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HELP2POSTMAN_API_KEY", "")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultHelpURL, cfg.HelpURL)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultOutputPath, cfg.OutputPath)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingAPIKey)
}

func TestLoadConfig_YAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
help_url: http://docs.internal/Help
base_url: http://api.internal
output_path: out/collection.json
api_key: from-yaml
timeout: 5s
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))
	t.Setenv("HELP2POSTMAN_API_KEY", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://docs.internal/Help", cfg.HelpURL)
	assert.Equal(t, "http://api.internal", cfg.BaseURL)
	assert.Equal(t, "out/collection.json", cfg.OutputPath)
	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("help_url: [unterminated"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate_RequiresURLs(t *testing.T) {
	cfg := Default()
	cfg.APIKey = "k"
	cfg.BaseURL = " "
	assert.EqualError(t, cfg.Validate(), "base_url is required")
}
