package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ludo-technologies/lshmatch/domain"
)

// StdoutPath as an output path writes the report to the request's writer
const StdoutPath = "-"

// MatchUseCase orchestrates the match workflow: configuration, input
// reading, indexing and sampling, and report output
type MatchUseCase struct {
	reader       domain.RecordReader
	service      domain.MatchService
	formatter    domain.MatchOutputFormatter
	configLoader domain.MatchConfigurationLoader
	output       domain.ReportWriter
	logger       *slog.Logger
}

// NewMatchUseCase creates a new match use case
func NewMatchUseCase(
	reader domain.RecordReader,
	service domain.MatchService,
	formatter domain.MatchOutputFormatter,
	configLoader domain.MatchConfigurationLoader,
	output domain.ReportWriter,
	logger *slog.Logger,
) *MatchUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchUseCase{
		reader:       reader,
		service:      service,
		formatter:    formatter,
		configLoader: configLoader,
		output:       output,
		logger:       logger,
	}
}

// Execute runs the match pipeline and writes the report
func (uc *MatchUseCase) Execute(ctx context.Context, req domain.MatchRequest) (*domain.MatchResponse, error) {
	finalReq, response, err := uc.run(ctx, req)
	if err != nil {
		return nil, err
	}

	// Delegate output handling to ReportWriter; "-" selects the writer
	var out io.Writer
	outputPath := finalReq.OutputPath
	if outputPath == StdoutPath {
		outputPath = ""
	}
	if outputPath == "" {
		out = finalReq.OutputWriter
	}
	if err := uc.output.Write(out, outputPath, finalReq.OutputFormat, func(w io.Writer) error {
		return uc.formatter.Write(response, finalReq.OutputFormat, w)
	}); err != nil {
		return nil, passOrWrap(err, domain.NewOutputError, "failed to write output")
	}

	return response, nil
}

// FindAndReturn runs the match pipeline and returns the response without
// writing a report
func (uc *MatchUseCase) FindAndReturn(ctx context.Context, req domain.MatchRequest) (*domain.MatchResponse, error) {
	_, response, err := uc.run(ctx, req)
	return response, err
}

func (uc *MatchUseCase) run(ctx context.Context, req domain.MatchRequest) (domain.MatchRequest, *domain.MatchResponse, error) {
	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return finalReq, nil, passOrWrap(err, domain.NewConfigError, "failed to load configuration")
	}

	if err := finalReq.Validate(); err != nil {
		return finalReq, nil, passOrWrap(err, domain.NewInvalidInputError, "invalid request")
	}

	paths, err := uc.reader.ResolvePaths(finalReq.Paths)
	if err != nil {
		return finalReq, nil, passOrWrap(err, domain.NewInvalidInputError, "failed to resolve input paths")
	}
	uc.logger.Debug("resolved input files", "count", len(paths))

	records, err := uc.reader.ReadRecords(ctx, paths, finalReq.Layout)
	if err != nil {
		return finalReq, nil, passOrWrap(err, domain.NewInvalidInputError, "failed to read records")
	}
	if len(records) == 0 {
		return finalReq, nil, domain.NewInvalidInputError("no records found in the specified paths", nil)
	}

	response, err := uc.service.FindMatches(ctx, records, &finalReq)
	if err != nil {
		return finalReq, nil, passOrWrap(err, domain.NewAnalysisError, "matching failed")
	}

	return finalReq, response, nil
}

// loadAndMergeConfig loads configuration from file and merges with request
func (uc *MatchUseCase) loadAndMergeConfig(req domain.MatchRequest) (domain.MatchRequest, error) {
	if uc.configLoader == nil {
		return req, nil
	}

	var configReq *domain.MatchRequest
	var err error

	if req.ConfigPath != "" {
		configReq, err = uc.configLoader.LoadConfig(req.ConfigPath)
		if err != nil {
			return req, err
		}
	} else {
		configReq = uc.configLoader.LoadDefaultConfig()
	}

	if configReq != nil {
		// Request takes precedence for explicitly set flags
		return *uc.configLoader.MergeConfig(configReq, &req), nil
	}

	return req, nil
}

// passOrWrap keeps errors that already carry a domain code and wraps the rest
func passOrWrap(err error, wrap func(string, error) error, message string) error {
	if domain.ErrorCode(err) != "" {
		return err
	}
	return wrap(message, err)
}

// MatchUseCaseBuilder provides a builder pattern for creating MatchUseCase
type MatchUseCaseBuilder struct {
	reader       domain.RecordReader
	service      domain.MatchService
	formatter    domain.MatchOutputFormatter
	configLoader domain.MatchConfigurationLoader
	output       domain.ReportWriter
	logger       *slog.Logger
}

// NewMatchUseCaseBuilder creates a new builder
func NewMatchUseCaseBuilder() *MatchUseCaseBuilder {
	return &MatchUseCaseBuilder{}
}

// WithReader sets the record reader
func (b *MatchUseCaseBuilder) WithReader(reader domain.RecordReader) *MatchUseCaseBuilder {
	b.reader = reader
	return b
}

// WithService sets the match service
func (b *MatchUseCaseBuilder) WithService(service domain.MatchService) *MatchUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *MatchUseCaseBuilder) WithFormatter(formatter domain.MatchOutputFormatter) *MatchUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *MatchUseCaseBuilder) WithConfigLoader(configLoader domain.MatchConfigurationLoader) *MatchUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithOutputWriter sets the report writer
func (b *MatchUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *MatchUseCaseBuilder {
	b.output = output
	return b
}

// WithLogger sets the logger
func (b *MatchUseCaseBuilder) WithLogger(logger *slog.Logger) *MatchUseCaseBuilder {
	b.logger = logger
	return b
}

// Build creates the MatchUseCase; the config loader and logger are optional
func (b *MatchUseCaseBuilder) Build() (*MatchUseCase, error) {
	if b.reader == nil {
		return nil, fmt.Errorf("record reader is required")
	}
	if b.service == nil {
		return nil, fmt.Errorf("match service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}
	if b.output == nil {
		return nil, fmt.Errorf("report writer is required")
	}

	return NewMatchUseCase(b.reader, b.service, b.formatter, b.configLoader, b.output, b.logger), nil
}
