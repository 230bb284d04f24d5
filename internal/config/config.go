package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	pwerrors "github.com/systmms/pwgen/internal/errors"
	"github.com/systmms/pwgen/internal/logging"
)

const (
	// DefaultPath is where the configuration file is looked up.
	DefaultPath = "pwgen.yaml"
	// DefaultBackend is the CSPRNG backend used when none is configured.
	DefaultBackend = "blowfish"
	// DefaultArenaPages is the usable arena size; one guard page is added.
	DefaultArenaPages = 15

	envBackend = "PWGEN_BACKEND"
)

// Config holds the runtime configuration
type Config struct {
	Path string
	// Required makes a missing configuration file an error.
	Required   bool
	Logger     *logging.Logger
	Definition *Definition
}

// Definition represents the pwgen.yaml structure
type Definition struct {
	Version   int             `yaml:"version" json:"version"`
	Backend   string          `yaml:"backend,omitempty" json:"backend,omitempty"`
	Arena     ArenaConfig     `yaml:"arena,omitempty" json:"arena,omitempty"`
	Wordlists WordlistsConfig `yaml:"wordlists,omitempty" json:"wordlists,omitempty"`
	Metrics   MetricsConfig   `yaml:"metrics,omitempty" json:"metrics,omitempty"`
}

// ArenaConfig sizes the secure arena
type ArenaConfig struct {
	Pages int `yaml:"pages,omitempty" json:"pages,omitempty"`
}

// WordlistsConfig points at the dictionaries used by the passphrase modes
type WordlistsConfig struct {
	Diceware string `yaml:"diceware,omitempty" json:"diceware,omitempty"`
	Skey     string `yaml:"skey,omitempty" json:"skey,omitempty"`
}

// MetricsConfig controls the optional prometheus textfile export
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty" json:"textfile,omitempty"`
}

// Defaults returns the definition used when no file is present.
func Defaults() *Definition {
	return &Definition{
		Version: 0,
		Backend: DefaultBackend,
		Arena:   ArenaConfig{Pages: DefaultArenaPages},
	}
}

// Load reads and parses the pwgen.yaml file
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) && !c.Required {
			c.debug("No configuration file at %s, using defaults", c.Path)
			c.Definition = Defaults()
			c.applyEnv()
			return nil
		}
		if os.IsNotExist(err) {
			return pwerrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "configuration file not found",
				Suggestion: "Check the --config path",
			}
		}
		return pwerrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	def, err := Parse(data)
	if err != nil {
		return err
	}

	c.Definition = def
	c.applyEnv()
	return nil
}

// Parse decodes, validates and defaults a configuration document.
func Parse(data []byte) (*Definition, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, pwerrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}

	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	def := Defaults()
	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, pwerrors.ConfigError{
			Message: fmt.Sprintf("cannot decode configuration: %v", err),
		}
	}

	if def.Version != 0 {
		return nil, pwerrors.ConfigError{
			Field:      "version",
			Value:      def.Version,
			Message:    "unsupported configuration version",
			Suggestion: "Set 'version: 0' at the top of your pwgen.yaml file",
		}
	}
	if def.Backend == "" {
		def.Backend = DefaultBackend
	}
	if def.Arena.Pages == 0 {
		def.Arena.Pages = DefaultArenaPages
	}

	return def, nil
}

func validateSchema(doc map[string]interface{}) error {
	// yaml.v3 decodes nested maps with string keys, which gojsonschema accepts as JSON objects.
	if _, err := json.Marshal(doc); err != nil {
		return pwerrors.ConfigError{
			Message:    "configuration cannot be represented as JSON",
			Suggestion: "Use string keys only",
		}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(definitionSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var messages []string
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return pwerrors.ConfigError{
			Message:    "schema validation failed:\n  - " + strings.Join(messages, "\n  - "),
			Suggestion: "Compare your pwgen.yaml with 'pwgen doctor --verbose' output",
		}
	}

	return nil
}

func (c *Config) applyEnv() {
	if backend := os.Getenv(envBackend); backend != "" {
		c.debug("Backend overridden by %s=%s", envBackend, backend)
		c.Definition.Backend = backend
	}
}

func (c *Config) debug(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Debug(format, args...)
	}
}

// Wordlist returns the configured path for a named dictionary.
func (c *Config) Wordlist(name string) (string, error) {
	if c.Definition == nil {
		return "", pwerrors.UserError{
			Message:    "Configuration not loaded",
			Suggestion: "This is an internal error. Please report it",
		}
	}

	var path string
	switch name {
	case "diceware":
		path = c.Definition.Wordlists.Diceware
	case "skey":
		path = c.Definition.Wordlists.Skey
	}
	if path == "" {
		return "", pwerrors.ConfigError{
			Field:      "wordlists." + name,
			Message:    "no word list configured",
			Suggestion: fmt.Sprintf("Set 'wordlists.%s' in %s or pass --wordlist", name, c.Path),
		}
	}
	return path, nil
}
