package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/lshmatch/domain"
	"github.com/ludo-technologies/lshmatch/internal/analyzer"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding configuration keys,
// e.g. LSHMATCH_TEXT_THRESHOLD for text.threshold
const EnvPrefix = "LSHMATCH"

// Config represents the main configuration structure
type Config struct {
	// Text holds the per-text engine configuration
	Text TextConfig `mapstructure:"text" yaml:"text" toml:"text"`

	// Authors holds the author engine configuration
	Authors AuthorsConfig `mapstructure:"authors" yaml:"authors" toml:"authors"`

	// Sampling holds candidate sampling configuration
	Sampling SamplingConfig `mapstructure:"sampling" yaml:"sampling" toml:"sampling"`

	// Input holds input file configuration
	Input InputConfig `mapstructure:"input" yaml:"input" toml:"input"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" toml:"output"`

	// Engine holds pipeline selection
	Engine EngineConfig `mapstructure:"engine" yaml:"engine" toml:"engine"`
}

// TextConfig configures the engine that signs individual texts
type TextConfig struct {
	// Threshold is the Jaccard similarity the band layout is tuned for
	Threshold float64 `mapstructure:"threshold" yaml:"threshold" toml:"threshold" comment:"Jaccard similarity the band layout is tuned for, in (0, 1)"`

	// ShingleLength is k; shingles are k+1 characters long
	ShingleLength int `mapstructure:"shingle_length" yaml:"shingle_length" toml:"shingle_length" comment:"Shingle length k (windows are k+1 characters)"`

	// NumPerm is the permutation budget
	NumPerm int `mapstructure:"num_perm" yaml:"num_perm" toml:"num_perm" comment:"Permutation budget; bands*rows never exceeds it"`
}

// AuthorsConfig configures the engine that matches keys by their texts' band hashes
type AuthorsConfig struct {
	Threshold float64 `mapstructure:"threshold" yaml:"threshold" toml:"threshold" comment:"Jaccard similarity between keys, in (0, 1)"`
	NumPerm   int     `mapstructure:"num_perm" yaml:"num_perm" toml:"num_perm" comment:"Permutation budget of the author engine"`
}

// SamplingConfig configures candidate sampling
type SamplingConfig struct {
	// Samples is the number of candidate pairs drawn
	Samples int `mapstructure:"samples" yaml:"samples" toml:"samples" comment:"Number of candidate pairs to draw"`

	// Seed makes permutations and sampling reproducible; 0 means random
	Seed uint64 `mapstructure:"seed" yaml:"seed" toml:"seed" comment:"Random seed; 0 picks a fresh one every run"`
}

// InputConfig describes the delimited input files
type InputConfig struct {
	Paths      []string `mapstructure:"paths" yaml:"paths" toml:"paths" comment:"Input files, directories or doublestar globs"`
	KeyColumn  int      `mapstructure:"key_column" yaml:"key_column" toml:"key_column" comment:"0-indexed column holding the key (author)"`
	TextColumn int      `mapstructure:"text_column" yaml:"text_column" toml:"text_column" comment:"0-indexed column holding the text"`
	SkipHeader bool     `mapstructure:"skip_header" yaml:"skip_header" toml:"skip_header" comment:"Skip the first row of every file"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: json, yaml, text, csv
	Format string `mapstructure:"format" yaml:"format" toml:"format" comment:"Report format: json, yaml, csv or text"`

	// Directory is where reports are written when Path is relative or empty
	Directory string `mapstructure:"directory" yaml:"directory" toml:"directory" comment:"Directory for the report file (empty: working directory)"`

	// Path is the report file name
	Path string `mapstructure:"path" yaml:"path" toml:"path" comment:"Report file name"`
}

// EngineConfig selects the pipeline and band hash
type EngineConfig struct {
	Mode     string `mapstructure:"mode" yaml:"mode" toml:"mode" comment:"Pipeline: authors, texts or sets"`
	BandHash string `mapstructure:"band_hash" yaml:"band_hash" toml:"band_hash" comment:"Band hash: sha1, xxhash, xxh3 or murmur3"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Text: TextConfig{
			Threshold:     domain.DefaultTextThreshold,
			ShingleLength: domain.DefaultShingleLength,
			NumPerm:       domain.DefaultTextNumPerm,
		},
		Authors: AuthorsConfig{
			Threshold: domain.DefaultAuthorThreshold,
			NumPerm:   domain.DefaultAuthorNumPerm,
		},
		Sampling: SamplingConfig{
			Samples: domain.DefaultSamples,
			Seed:    0,
		},
		Input: InputConfig{
			Paths:      []string{},
			KeyColumn:  domain.DefaultKeyColumn,
			TextColumn: domain.DefaultTextColumn,
			SkipHeader: true,
		},
		Output: OutputConfig{
			Format:    string(domain.OutputFormatJSON),
			Directory: "",
			Path:      domain.DefaultOutputFile,
		},
		Engine: EngineConfig{
			Mode:     string(domain.MatchModeAuthors),
			BandHash: analyzer.DefaultBandHash,
		},
	}
}

// LoadConfig loads configuration with the following precedence, highest first:
// LSHMATCH_* environment variables, the explicit configPath (toml, yaml or json),
// the nearest .lshmatch.toml above startDir, defaults.
func LoadConfig(configPath, startDir string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" && startDir != "" {
		discovered, err := NewTomlConfigLoader().LoadConfig(startDir)
		if err != nil {
			return nil, err
		}
		config = discovered
	}

	v := newViper(config)
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// newViper returns a viper instance seeded with base so that environment
// variables can override every key even without a config file
func newViper(base *Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("text.threshold", base.Text.Threshold)
	v.SetDefault("text.shingle_length", base.Text.ShingleLength)
	v.SetDefault("text.num_perm", base.Text.NumPerm)
	v.SetDefault("authors.threshold", base.Authors.Threshold)
	v.SetDefault("authors.num_perm", base.Authors.NumPerm)
	v.SetDefault("sampling.samples", base.Sampling.Samples)
	v.SetDefault("sampling.seed", base.Sampling.Seed)
	v.SetDefault("input.paths", base.Input.Paths)
	v.SetDefault("input.key_column", base.Input.KeyColumn)
	v.SetDefault("input.text_column", base.Input.TextColumn)
	v.SetDefault("input.skip_header", base.Input.SkipHeader)
	v.SetDefault("output.format", base.Output.Format)
	v.SetDefault("output.directory", base.Output.Directory)
	v.SetDefault("output.path", base.Output.Path)
	v.SetDefault("engine.mode", base.Engine.Mode)
	v.SetDefault("engine.band_hash", base.Engine.BandHash)

	return v
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Text.Threshold <= 0 || c.Text.Threshold >= 1 {
		return fmt.Errorf("text.threshold must be in (0, 1), got %v", c.Text.Threshold)
	}
	if c.Text.ShingleLength < 1 {
		return fmt.Errorf("text.shingle_length must be >= 1, got %d", c.Text.ShingleLength)
	}
	if c.Text.NumPerm < 1 {
		return fmt.Errorf("text.num_perm must be >= 1, got %d", c.Text.NumPerm)
	}

	if c.Authors.Threshold <= 0 || c.Authors.Threshold >= 1 {
		return fmt.Errorf("authors.threshold must be in (0, 1), got %v", c.Authors.Threshold)
	}
	if c.Authors.NumPerm < 1 {
		return fmt.Errorf("authors.num_perm must be >= 1, got %d", c.Authors.NumPerm)
	}

	if c.Sampling.Samples < 1 {
		return fmt.Errorf("sampling.samples must be >= 1, got %d", c.Sampling.Samples)
	}

	if c.Input.KeyColumn < 0 || c.Input.TextColumn < 0 {
		return fmt.Errorf("input.key_column and input.text_column must be >= 0")
	}
	if c.Input.KeyColumn == c.Input.TextColumn {
		return fmt.Errorf("input.key_column and input.text_column must differ, both are %d", c.Input.KeyColumn)
	}

	if _, err := domain.ParseOutputFormat(c.Output.Format); err != nil {
		return fmt.Errorf("invalid output.format '%s', must be one of: json, yaml, csv, text", c.Output.Format)
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path cannot be empty")
	}

	if _, err := domain.ParseMatchMode(c.Engine.Mode); err != nil {
		return fmt.Errorf("invalid engine.mode '%s', must be one of: authors, texts, sets", c.Engine.Mode)
	}
	if _, err := analyzer.BandHashByName(c.Engine.BandHash); err != nil {
		return fmt.Errorf("invalid engine.band_hash '%s', must be one of: %s",
			c.Engine.BandHash, strings.Join(analyzer.BandHashNames(), ", "))
	}

	return nil
}

// ToMatchRequest converts the configuration into a match request
func (c *Config) ToMatchRequest() *domain.MatchRequest {
	return &domain.MatchRequest{
		Paths: append([]string(nil), c.Input.Paths...),
		Layout: domain.RecordLayout{
			KeyColumn:  c.Input.KeyColumn,
			TextColumn: c.Input.TextColumn,
			SkipHeader: c.Input.SkipHeader,
		},
		Mode: domain.MatchMode(c.Engine.Mode),
		Text: domain.StageParameters{
			Threshold:     c.Text.Threshold,
			NumPerm:       c.Text.NumPerm,
			ShingleLength: c.Text.ShingleLength,
		},
		Authors: domain.StageParameters{
			Threshold: c.Authors.Threshold,
			NumPerm:   c.Authors.NumPerm,
		},
		BandHash:     c.Engine.BandHash,
		Samples:      c.Sampling.Samples,
		Seed:         c.Sampling.Seed,
		OutputFormat: domain.OutputFormat(c.Output.Format),
		OutputPath:   c.OutputFilePath(),
	}
}

// OutputFilePath joins the output directory and file name
func (c *Config) OutputFilePath() string {
	if c.Output.Directory == "" || c.Output.Path == "" || filepath.IsAbs(c.Output.Path) {
		return c.Output.Path
	}
	return filepath.Join(c.Output.Directory, c.Output.Path)
}
