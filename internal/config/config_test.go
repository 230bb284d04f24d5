package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pwerrors "github.com/systmms/pwgen/internal/errors"
	"github.com/systmms/pwgen/internal/logging"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pwgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(envBackend, "")

	cfg := &Config{
		Path:   "/nonexistent/path/to/pwgen.yaml",
		Logger: logging.Nop(),
	}

	require.NoError(t, cfg.Load())
	assert.Equal(t, Defaults(), cfg.Definition)
}

func TestConfig_MissingRequiredFile(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Path:     "/nonexistent/path/to/pwgen.yaml",
		Required: true,
		Logger:   logging.Nop(),
	}

	err := cfg.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration file not found")
	assert.ErrorIs(t, err, pwerrors.ErrConfig)
}

func TestConfig_Full(t *testing.T) {
	t.Setenv(envBackend, "")

	path := writeConfig(t, `version: 0
backend: chacha20
arena:
  pages: 31
wordlists:
  diceware: /usr/share/pwgen/diceware.txt
  skey: /usr/share/pwgen/skey.txt
metrics:
  textfile: /var/lib/node_exporter/pwgen.prom
`)

	cfg := &Config{Path: path, Logger: logging.Nop()}
	require.NoError(t, cfg.Load())

	def := cfg.Definition
	assert.Equal(t, "chacha20", def.Backend)
	assert.Equal(t, 31, def.Arena.Pages)
	assert.Equal(t, "/var/lib/node_exporter/pwgen.prom", def.Metrics.Textfile)

	p, err := cfg.Wordlist("skey")
	require.NoError(t, err)
	assert.Equal(t, "/usr/share/pwgen/skey.txt", p)
}

func TestConfig_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv(envBackend, "")

	cfg := &Config{Path: writeConfig(t, "version: 0\n"), Logger: logging.Nop()}
	require.NoError(t, cfg.Load())
	assert.Equal(t, DefaultBackend, cfg.Definition.Backend)
	assert.Equal(t, DefaultArenaPages, cfg.Definition.Arena.Pages)

	_, err := cfg.Wordlist("diceware")
	assert.ErrorIs(t, err, pwerrors.ErrConfig)
}

func TestConfig_EnvOverridesBackend(t *testing.T) {
	t.Setenv(envBackend, "chacha20")

	cfg := &Config{Path: writeConfig(t, "version: 0\nbackend: blowfish\n"), Logger: logging.Nop()}
	require.NoError(t, cfg.Load())
	assert.Equal(t, "chacha20", cfg.Definition.Backend)
}

func TestConfig_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"invalid yaml", "version: 0\narena:\n  pages: [[[\n", "invalid YAML syntax"},
		{"unsupported version", "version: 999\n", "unsupported configuration version"},
		{"unknown key", "version: 0\nbackedn: blowfish\n", "schema validation failed"},
		{"pages too small", "version: 0\narena:\n  pages: 0\n", "schema validation failed"},
		{"pages wrong type", "version: 0\narena:\n  pages: many\n", "schema validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &Config{Path: writeConfig(t, tt.content), Logger: logging.Nop()}
			err := cfg.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestWordlistBeforeLoad(t *testing.T) {
	t.Parallel()

	_, err := (&Config{}).Wordlist("diceware")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Configuration not loaded")
}
