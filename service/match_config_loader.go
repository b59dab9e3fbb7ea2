package service

import (
	"os"

	"github.com/ludo-technologies/lshmatch/domain"
	"github.com/ludo-technologies/lshmatch/internal/config"
)

// MatchConfigurationLoader implements domain.MatchConfigurationLoader.
// Values from the command line win over configuration files only for
// flags the user set explicitly.
type MatchConfigurationLoader struct {
	flagTracker *config.FlagTracker
	startDir    string
}

// NewMatchConfigurationLoader creates a loader that discovers .lshmatch.toml
// from the working directory
func NewMatchConfigurationLoader(flagTracker *config.FlagTracker) *MatchConfigurationLoader {
	if flagTracker == nil {
		flagTracker = config.NewFlagTracker()
	}
	startDir, err := os.Getwd()
	if err != nil {
		startDir = "."
	}
	return &MatchConfigurationLoader{flagTracker: flagTracker, startDir: startDir}
}

// WithStartDir sets the directory discovery starts from
func (c *MatchConfigurationLoader) WithStartDir(dir string) *MatchConfigurationLoader {
	c.startDir = dir
	return c
}

// LoadConfig loads configuration from the specified path
func (c *MatchConfigurationLoader) LoadConfig(path string) (*domain.MatchRequest, error) {
	cfg, err := config.LoadConfig(path, c.startDir)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	return cfg.ToMatchRequest(), nil
}

// LoadDefaultConfig loads the discovered .lshmatch.toml and environment
// overrides, falling back to built-in defaults
func (c *MatchConfigurationLoader) LoadDefaultConfig() *domain.MatchRequest {
	if cfg, err := config.LoadConfig("", c.startDir); err == nil {
		return cfg.ToMatchRequest()
	}
	return config.DefaultConfig().ToMatchRequest()
}

// MergeConfig merges CLI flags with configuration file, respecting explicit flags
func (c *MatchConfigurationLoader) MergeConfig(base *domain.MatchRequest, override *domain.MatchRequest) *domain.MatchRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base
	ft := c.flagTracker

	// Paths come from command arguments
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}

	// Input layout
	merged.Layout.KeyColumn = config.Pick(ft, "key-column", merged.Layout.KeyColumn, override.Layout.KeyColumn)
	merged.Layout.TextColumn = config.Pick(ft, "text-column", merged.Layout.TextColumn, override.Layout.TextColumn)
	merged.Layout.SkipHeader = config.Pick(ft, "skip-header", merged.Layout.SkipHeader, override.Layout.SkipHeader)

	// Engines
	merged.Mode = config.Pick(ft, "mode", merged.Mode, override.Mode)
	merged.BandHash = config.Pick(ft, "band-hash", merged.BandHash, override.BandHash)
	merged.Text.Threshold = config.Pick(ft, "threshold", merged.Text.Threshold, override.Text.Threshold)
	merged.Text.NumPerm = config.Pick(ft, "num-perm", merged.Text.NumPerm, override.Text.NumPerm)
	merged.Text.ShingleLength = config.Pick(ft, "shingle-length", merged.Text.ShingleLength, override.Text.ShingleLength)
	merged.Authors.Threshold = config.Pick(ft, "author-threshold", merged.Authors.Threshold, override.Authors.Threshold)
	merged.Authors.NumPerm = config.Pick(ft, "author-num-perm", merged.Authors.NumPerm, override.Authors.NumPerm)

	// Sampling
	merged.Samples = config.Pick(ft, "samples", merged.Samples, override.Samples)
	merged.Seed = config.Pick(ft, "seed", merged.Seed, override.Seed)

	// Output: format and path are resolved by the command from several flags
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	merged.ShowProgress = override.ShowProgress

	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	return &merged
}
