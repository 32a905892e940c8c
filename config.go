// config.go: optional CLI/REPL configuration.
//
// The driver looks for a pylang.toml in the working directory; a
// missing file just yields the defaults. Only presentation knobs live
// here; language semantics are never configurable.
package pylang

import (
	"errors"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the file the CLI looks for.
const ConfigFileName = "pylang.toml"

// ReplConfig holds REPL presentation settings.
type ReplConfig struct {
	Prompt     string `toml:"prompt"`
	ContPrompt string `toml:"cont_prompt"`
	History    string `toml:"history"` // history file, joined onto the home directory; ~ not expanded
	Color      bool   `toml:"color"`
}

// Config is the root of pylang.toml.
type Config struct {
	Repl ReplConfig `toml:"repl"`
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Repl: ReplConfig{
			Prompt:     ">> ",
			ContPrompt: ".. ",
			History:    ".pylang_history",
			Color:      true,
		},
	}
}

// LoadConfig reads path, falling back to defaults when the file does not
// exist. A present-but-invalid file is an error: silently ignoring a typo
// in a config the user wrote is worse than failing.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
