package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/lshmatch/app"
	"github.com/ludo-technologies/lshmatch/domain"
	"github.com/ludo-technologies/lshmatch/internal/analyzer"
	"github.com/ludo-technologies/lshmatch/internal/config"
	"github.com/ludo-technologies/lshmatch/service"
)

// MatchCommand represents the match command
type MatchCommand struct {
	// Input
	keyColumn  int
	textColumn int
	skipHeader bool

	// Engines
	mode            string
	bandHash        string
	threshold       float64
	shingleLength   int
	numPerm         int
	authorThreshold float64
	authorNumPerm   int

	// Sampling
	samples int
	seed    uint64

	// Output
	json       bool
	yaml       bool
	csv        bool
	text       bool
	outputPath string
	noProgress bool

	configFile string
}

// NewMatchCommand creates a new match command with the built-in defaults
func NewMatchCommand() *MatchCommand {
	return &MatchCommand{
		keyColumn:       domain.DefaultKeyColumn,
		textColumn:      domain.DefaultTextColumn,
		skipHeader:      true,
		mode:            string(domain.MatchModeAuthors),
		bandHash:        analyzer.DefaultBandHash,
		threshold:       domain.DefaultTextThreshold,
		shingleLength:   domain.DefaultShingleLength,
		numPerm:         domain.DefaultTextNumPerm,
		authorThreshold: domain.DefaultAuthorThreshold,
		authorNumPerm:   domain.DefaultAuthorNumPerm,
		samples:         domain.DefaultSamples,
	}
}

// CreateCobraCommand creates the cobra command for matching
func (c *MatchCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match [files...]",
		Short: "Sample pairs of similar authors or texts",
		Long: `Index CSV records with MinHash LSH and sample candidate pairs.

Modes:
  authors  Shingle every text, collect the band hashes of each author's
           texts and match authors on those sets (default)
  texts    Match records directly on their shingled text
  sets     The text column holds whitespace-separated integers

Paths may be files, directories (all *.csv below them) or glob patterns
such as 'data/**/*.csv'. The report maps match-<i> to the texts of both
matched keys and is written to match_samples.json unless --output is given.

Examples:
  # Match authors of a tweet export
  lshmatch match tweets.csv

  # Ten samples, reproducible
  lshmatch match --samples 10 --seed 42 'exports/**/*.csv'

  # Match texts keyed by the first column, print a summary
  lshmatch match --mode texts --key-column 0 --text-column 1 --text data.csv

  # YAML report at a custom path
  lshmatch match --yaml -o reports/matches.yaml tweets.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.runMatch,
	}

	// Input flags
	cmd.Flags().IntVar(&c.keyColumn, "key-column", c.keyColumn, "Zero-based column holding the key (author)")
	cmd.Flags().IntVar(&c.textColumn, "text-column", c.textColumn, "Zero-based column holding the text")
	cmd.Flags().BoolVar(&c.skipHeader, "skip-header", c.skipHeader, "Skip the first row of every file")

	// Engine flags
	cmd.Flags().StringVarP(&c.mode, "mode", "m", c.mode, "Pipeline: authors, texts or sets")
	cmd.Flags().StringVar(&c.bandHash, "band-hash", c.bandHash, "Band hash: sha1, xxhash, xxh3 or murmur3")
	cmd.Flags().Float64VarP(&c.threshold, "threshold", "t", c.threshold, "Text similarity threshold (0.0-1.0)")
	cmd.Flags().IntVarP(&c.shingleLength, "shingle-length", "k", c.shingleLength, "Shingle length")
	cmd.Flags().IntVar(&c.numPerm, "num-perm", c.numPerm, "Permutation budget of the text engine")
	cmd.Flags().Float64Var(&c.authorThreshold, "author-threshold", c.authorThreshold, "Author similarity threshold (0.0-1.0)")
	cmd.Flags().IntVar(&c.authorNumPerm, "author-num-perm", c.authorNumPerm, "Permutation budget of the author engine")

	// Sampling flags
	cmd.Flags().IntVarP(&c.samples, "samples", "n", c.samples, "Number of candidate pairs to sample")
	cmd.Flags().Uint64Var(&c.seed, "seed", c.seed, "Random seed (0 picks one)")

	// Output flags
	cmd.Flags().BoolVar(&c.json, "json", false, "Write a JSON report")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "Write a YAML report")
	cmd.Flags().BoolVar(&c.csv, "csv", false, "Write a CSV report")
	cmd.Flags().BoolVar(&c.text, "text", false, "Print a text summary")
	cmd.Flags().StringVarP(&c.outputPath, "output", "o", "", "Report path (- for stdout)")
	cmd.Flags().BoolVar(&c.noProgress, "no-progress", false, "Disable progress bars")

	// Configuration
	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Configuration file path")

	_ = cmd.Flags().MarkHidden("band-hash")

	return cmd
}

// runMatch executes the match command
func (c *MatchCommand) runMatch(cmd *cobra.Command, args []string) error {
	request, err := c.createMatchRequest(cmd, args)
	if err != nil {
		return err
	}

	useCase, err := c.createMatchUseCase(cmd, request.ShowProgress)
	if err != nil {
		return fmt.Errorf("failed to create match use case: %w", err)
	}

	response, err := useCase.Execute(cmd.Context(), *request)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Finished finding matches in %s (%s records, %d samples)\n",
		response.Duration.Round(time.Millisecond), humanize.Comma(int64(response.RecordsRead)), len(response.Matches))

	return nil
}

// createMatchRequest builds a request from flags; flags the user did not set
// are filled from configuration by the use case
func (c *MatchCommand) createMatchRequest(cmd *cobra.Command, paths []string) (*domain.MatchRequest, error) {
	format, outputPath, err := c.determineOutput()
	if err != nil {
		return nil, err
	}

	return &domain.MatchRequest{
		Paths: paths,
		Layout: domain.RecordLayout{
			KeyColumn:  c.keyColumn,
			TextColumn: c.textColumn,
			SkipHeader: c.skipHeader,
		},
		Mode: domain.MatchMode(c.mode),
		Text: domain.StageParameters{
			Threshold:     c.threshold,
			NumPerm:       c.numPerm,
			ShingleLength: c.shingleLength,
		},
		Authors: domain.StageParameters{
			Threshold: c.authorThreshold,
			NumPerm:   c.authorNumPerm,
		},
		BandHash:     c.bandHash,
		Samples:      c.samples,
		Seed:         c.seed,
		OutputFormat: format,
		OutputWriter: cmd.OutOrStdout(),
		OutputPath:   outputPath,
		ShowProgress: !c.noProgress && service.IsInteractiveEnvironment(),
		ConfigPath:   c.configFile,
	}, nil
}

// determineOutput resolves the report format and path. Empty results leave
// the choice to configuration.
func (c *MatchCommand) determineOutput() (domain.OutputFormat, string, error) {
	resolver := service.NewOutputFormatResolver()
	format, err := resolver.Determine(c.json, c.yaml, c.csv, c.text, c.outputPath, "")
	if err != nil {
		return "", "", err
	}

	outputPath := c.outputPath
	if outputPath == "" && format != "" {
		if format == domain.OutputFormatText {
			outputPath = app.StdoutPath
		} else {
			outputPath = resolver.ReplaceExtension(domain.DefaultOutputFile, format)
		}
	}
	return format, outputPath, nil
}

// createMatchUseCase wires the match use case
func (c *MatchCommand) createMatchUseCase(cmd *cobra.Command, showProgress bool) (*app.MatchUseCase, error) {
	logger := slog.Default()

	var progress domain.ProgressManager
	if showProgress {
		progress = service.NewProgressManager()
		progress.SetWriter(cmd.ErrOrStderr())
	}

	flagTracker := config.NewFlagTrackerFromFlagSet(cmd.Flags())
	logger.Debug("flags override configuration", "flags", flagTracker.Names())

	return app.NewMatchUseCaseBuilder().
		WithReader(service.NewCSVRecordReader(logger)).
		WithService(service.NewMatchService(progress, logger)).
		WithFormatter(service.NewMatchFormatter()).
		WithConfigLoader(service.NewMatchConfigurationLoader(flagTracker)).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		WithLogger(logger).
		Build()
}

// NewMatchCmd creates and returns the match cobra command
func NewMatchCmd() *cobra.Command {
	return NewMatchCommand().CreateCobraCommand()
}
