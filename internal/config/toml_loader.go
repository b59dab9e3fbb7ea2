package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the dedicated configuration file discovered from the working directory
const ConfigFileName = ".lshmatch.toml"

// LshmatchTomlConfig represents the structure of .lshmatch.toml.
// Pointer fields detect unset values so that zero values in the file
// still override defaults.
type LshmatchTomlConfig struct {
	Text     TomlTextConfig     `toml:"text"`
	Authors  TomlAuthorsConfig  `toml:"authors"`
	Sampling TomlSamplingConfig `toml:"sampling"`
	Input    TomlInputConfig    `toml:"input"`
	Output   TomlOutputConfig   `toml:"output"`
	Engine   TomlEngineConfig   `toml:"engine"`
}

type TomlTextConfig struct {
	Threshold     *float64 `toml:"threshold"`
	ShingleLength *int     `toml:"shingle_length"`
	NumPerm       *int     `toml:"num_perm"`
}

type TomlAuthorsConfig struct {
	Threshold *float64 `toml:"threshold"`
	NumPerm   *int     `toml:"num_perm"`
}

type TomlSamplingConfig struct {
	Samples *int    `toml:"samples"`
	Seed    *uint64 `toml:"seed"`
}

type TomlInputConfig struct {
	Paths      []string `toml:"paths"`
	KeyColumn  *int     `toml:"key_column"`
	TextColumn *int     `toml:"text_column"`
	SkipHeader *bool    `toml:"skip_header"`
}

type TomlOutputConfig struct {
	Format    string  `toml:"format"`
	Directory *string `toml:"directory"`
	Path      string  `toml:"path"`
}

type TomlEngineConfig struct {
	Mode     string `toml:"mode"`
	BandHash string `toml:"band_hash"`
}

// TomlConfigLoader handles discovery and loading of .lshmatch.toml
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads the nearest .lshmatch.toml above startDir merged onto
// the defaults, or the defaults alone when no file is found
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, error) {
	configPath, err := l.FindConfigFile(startDir)
	if err != nil {
		return DefaultConfig(), nil
	}
	return l.LoadFile(configPath)
}

// LoadFile loads a specific TOML file merged onto the defaults
func (l *TomlConfigLoader) LoadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var tomlConfig LshmatchTomlConfig
	if err := toml.Unmarshal(data, &tomlConfig); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}

	config := DefaultConfig()
	l.mergeTomlConfig(config, &tomlConfig)
	return config, nil
}

// FindConfigFile walks up the directory tree to find .lshmatch.toml
func (l *TomlConfigLoader) FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}

// mergeTomlConfig overrides defaults with every value set in the file
func (l *TomlConfigLoader) mergeTomlConfig(defaults *Config, file *LshmatchTomlConfig) {
	// Text engine
	if file.Text.Threshold != nil {
		defaults.Text.Threshold = *file.Text.Threshold
	}
	if file.Text.ShingleLength != nil {
		defaults.Text.ShingleLength = *file.Text.ShingleLength
	}
	if file.Text.NumPerm != nil {
		defaults.Text.NumPerm = *file.Text.NumPerm
	}

	// Author engine
	if file.Authors.Threshold != nil {
		defaults.Authors.Threshold = *file.Authors.Threshold
	}
	if file.Authors.NumPerm != nil {
		defaults.Authors.NumPerm = *file.Authors.NumPerm
	}

	// Sampling
	if file.Sampling.Samples != nil {
		defaults.Sampling.Samples = *file.Sampling.Samples
	}
	if file.Sampling.Seed != nil {
		defaults.Sampling.Seed = *file.Sampling.Seed
	}

	// Input
	if len(file.Input.Paths) > 0 {
		defaults.Input.Paths = file.Input.Paths
	}
	if file.Input.KeyColumn != nil {
		defaults.Input.KeyColumn = *file.Input.KeyColumn
	}
	if file.Input.TextColumn != nil {
		defaults.Input.TextColumn = *file.Input.TextColumn
	}
	if file.Input.SkipHeader != nil {
		defaults.Input.SkipHeader = *file.Input.SkipHeader
	}

	// Output
	if file.Output.Format != "" {
		defaults.Output.Format = file.Output.Format
	}
	if file.Output.Directory != nil {
		defaults.Output.Directory = *file.Output.Directory
	}
	if file.Output.Path != "" {
		defaults.Output.Path = file.Output.Path
	}

	// Engine
	if file.Engine.Mode != "" {
		defaults.Engine.Mode = file.Engine.Mode
	}
	if file.Engine.BandHash != "" {
		defaults.Engine.BandHash = file.Engine.BandHash
	}
}

const configHeader = `# lshmatch configuration
#
# Values below are the defaults. Environment variables override them,
# e.g. LSHMATCH_TEXT_THRESHOLD=0.6, and explicitly set CLI flags override both.

`

// SaveConfig writes config as a commented TOML file
func SaveConfig(config *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString(configHeader)

	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}
