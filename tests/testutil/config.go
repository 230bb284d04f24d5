// Package testutil provides test utilities and helpers for pwgen tests.
//
// This package contains shared test infrastructure including configuration
// builders, logger capture and word list fixtures.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/systmms/pwgen/internal/config"
	"github.com/systmms/pwgen/internal/logging"
)

// TestConfigBuilder provides a fluent API for building test configurations.
//
// The builder writes a pwgen.yaml into a temporary directory that the
// testing framework removes automatically.
//
// Example usage:
//
//	cfg := NewTestConfig(t).
//	    WithBackend("chacha20").
//	    WithWordlist("diceware", WriteWordList(t, Words(8192))).
//	    Build()
type TestConfigBuilder struct {
	def     *config.Definition
	tempDir string
	logger  *logging.Logger
	t       *testing.T
}

// NewTestConfig creates a builder starting from the default definition.
func NewTestConfig(t *testing.T) *TestConfigBuilder {
	t.Helper()

	return &TestConfigBuilder{
		def:     config.Defaults(),
		tempDir: t.TempDir(),
		logger:  logging.Nop(),
		t:       t,
	}
}

// WithBackend sets the generator backend.
func (b *TestConfigBuilder) WithBackend(name string) *TestConfigBuilder {
	b.def.Backend = name
	return b
}

// WithPages sets the usable arena size.
func (b *TestConfigBuilder) WithPages(pages int) *TestConfigBuilder {
	b.def.Arena.Pages = pages
	return b
}

// WithWordlist points a named dictionary at path.
func (b *TestConfigBuilder) WithWordlist(name, path string) *TestConfigBuilder {
	b.t.Helper()

	switch name {
	case "diceware":
		b.def.Wordlists.Diceware = path
	case "skey":
		b.def.Wordlists.Skey = path
	default:
		b.t.Fatalf("unknown word list %q", name)
	}
	return b
}

// WithTextfile enables the prometheus textfile export.
func (b *TestConfigBuilder) WithTextfile(path string) *TestConfigBuilder {
	b.def.Metrics.Textfile = path
	return b
}

// WithLogger sets the logger placed on the built Config.
func (b *TestConfigBuilder) WithLogger(logger *logging.Logger) *TestConfigBuilder {
	b.logger = logger
	return b
}

// Write marshals the definition to pwgen.yaml and returns its path.
func (b *TestConfigBuilder) Write() string {
	b.t.Helper()

	data, err := yaml.Marshal(b.def)
	if err != nil {
		b.t.Fatalf("Failed to marshal config: %v", err)
	}

	path := filepath.Join(b.tempDir, config.DefaultPath)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		b.t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

// Build writes the file and returns an unloaded Config pointing at it.
func (b *TestConfigBuilder) Build() *config.Config {
	b.t.Helper()

	return &config.Config{
		Path:     b.Write(),
		Required: true,
		Logger:   b.logger,
	}
}

// TempDir returns the builder's temporary directory.
func (b *TestConfigBuilder) TempDir() string {
	return b.tempDir
}
