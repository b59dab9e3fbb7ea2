package domain

import (
	"context"
	"fmt"
	"io"
	"time"
)

// MatchMode selects how records are turned into indexed items
type MatchMode string

const (
	// MatchModeAuthors signs every text, then matches keys by the band hashes of their texts
	MatchModeAuthors MatchMode = "authors"

	// MatchModeTexts matches keys directly by the shingles of their texts
	MatchModeTexts MatchMode = "texts"

	// MatchModeSets matches keys by whitespace-separated integer sets
	MatchModeSets MatchMode = "sets"
)

// ParseMatchMode validates a mode name
func ParseMatchMode(s string) (MatchMode, error) {
	switch m := MatchMode(s); m {
	case MatchModeAuthors, MatchModeTexts, MatchModeSets:
		return m, nil
	default:
		return "", NewValidationError(fmt.Sprintf("unknown match mode: %q (expected authors, texts or sets)", s))
	}
}

// Record is one input row: the key it belongs to and its text
type Record struct {
	Key  string `json:"key" yaml:"key"`
	Text string `json:"text" yaml:"text"`
}

// RecordLayout describes where keys and texts live in a delimited input file
type RecordLayout struct {
	KeyColumn  int
	TextColumn int
	SkipHeader bool
}

// StageParameters holds the tuning of a single engine stage
type StageParameters struct {
	Threshold     float64 `json:"threshold" yaml:"threshold"`
	NumPerm       int     `json:"num_perm" yaml:"num_perm"`
	ShingleLength int     `json:"shingle_length,omitempty" yaml:"shingle_length,omitempty"`
}

// MatchRequest represents a request for sampling similar keys
type MatchRequest struct {
	// Input
	Paths  []string
	Layout RecordLayout

	// Engines
	Mode     MatchMode
	Text     StageParameters
	Authors  StageParameters
	BandHash string

	// Sampling
	Samples int
	Seed    uint64

	// Output
	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string
	ShowProgress bool

	// Configuration
	ConfigPath string
}

// Validate checks the request before any input is read
func (r *MatchRequest) Validate() error {
	if len(r.Paths) == 0 {
		return NewValidationError("no input paths provided")
	}
	if r.Layout.KeyColumn < 0 || r.Layout.TextColumn < 0 {
		return NewValidationError("column indices must be >= 0")
	}
	if r.Layout.KeyColumn == r.Layout.TextColumn {
		return NewValidationError("key column and text column must differ")
	}
	if _, err := ParseMatchMode(string(r.Mode)); err != nil {
		return err
	}
	if err := r.Text.validate("text", r.Mode != MatchModeSets); err != nil {
		return err
	}
	if r.Mode == MatchModeAuthors {
		if err := r.Authors.validate("authors", false); err != nil {
			return err
		}
	}
	if r.Samples < 1 {
		return NewValidationError(fmt.Sprintf("samples must be >= 1, got %d", r.Samples))
	}
	if _, err := ParseOutputFormat(string(r.OutputFormat)); err != nil {
		return err
	}
	return nil
}

func (p StageParameters) validate(stage string, needsShingles bool) error {
	if p.Threshold <= 0 || p.Threshold >= 1 {
		return NewValidationError(fmt.Sprintf("%s threshold must be in (0, 1), got %v", stage, p.Threshold))
	}
	if p.NumPerm < 1 {
		return NewValidationError(fmt.Sprintf("%s num_perm must be >= 1, got %d", stage, p.NumPerm))
	}
	if needsShingles && p.ShingleLength < 1 {
		return NewValidationError(fmt.Sprintf("%s shingle_length must be >= 1, got %d", stage, p.ShingleLength))
	}
	return nil
}

// MatchPair is a sampled pair of candidate keys
type MatchPair struct {
	Key1 string `json:"key1" yaml:"key1"`
	Key2 string `json:"key2" yaml:"key2"`
}

// MatchEntry is one sampled pair with the texts of both keys in input order
type MatchEntry struct {
	Name   string   `json:"name" yaml:"name"`
	Key1   string   `json:"key1" yaml:"key1"`
	Texts1 []string `json:"texts1" yaml:"texts1"`
	Key2   string   `json:"key2" yaml:"key2"`
	Texts2 []string `json:"texts2" yaml:"texts2"`
}

// StageSummary describes the band layout and table state of one engine stage
type StageSummary struct {
	Name                     string  `json:"name" yaml:"name"`
	Threshold                float64 `json:"threshold" yaml:"threshold"`
	NumPerm                  int     `json:"num_perm" yaml:"num_perm"`
	Bands                    int     `json:"bands" yaml:"bands"`
	Rows                     int     `json:"rows" yaml:"rows"`
	FalsePositiveProbability float64 `json:"false_positive_probability" yaml:"false_positive_probability"`
	FalseNegativeProbability float64 `json:"false_negative_probability" yaml:"false_negative_probability"`
	SignedItems              int     `json:"signed_items" yaml:"signed_items"`
	IndexedKeys              int     `json:"indexed_keys" yaml:"indexed_keys"`
	Buckets                  int     `json:"buckets" yaml:"buckets"`
	CandidateBuckets         int     `json:"candidate_buckets" yaml:"candidate_buckets"`
}

// MatchResponse represents the result of a match run
type MatchResponse struct {
	Matches     []MatchEntry   `json:"matches" yaml:"matches"`
	Stages      []StageSummary `json:"stages" yaml:"stages"`
	RecordsRead int            `json:"records_read" yaml:"records_read"`
	Duration    time.Duration  `json:"duration" yaml:"duration"`
	GeneratedAt time.Time      `json:"generated_at" yaml:"generated_at"`
}

// RecordReader loads records from delimited files
type RecordReader interface {
	// ReadRecords reads every record of every path, in path order
	ReadRecords(ctx context.Context, paths []string, layout RecordLayout) ([]Record, error)

	// ResolvePaths expands globs and directories into concrete file paths
	ResolvePaths(paths []string) ([]string, error)
}

// MatchService indexes records and samples candidate pairs
type MatchService interface {
	// FindMatches runs the configured pipeline over the records
	FindMatches(ctx context.Context, records []Record, req *MatchRequest) (*MatchResponse, error)
}

// MatchOutputFormatter renders a match response
type MatchOutputFormatter interface {
	// Write writes the response to the writer in the given format
	Write(response *MatchResponse, format OutputFormat, writer io.Writer) error
}

// MatchConfigurationLoader loads match settings from configuration files
type MatchConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path
	LoadConfig(path string) (*MatchRequest, error)

	// LoadDefaultConfig loads the default configuration
	LoadDefaultConfig() *MatchRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base *MatchRequest, override *MatchRequest) *MatchRequest
}
