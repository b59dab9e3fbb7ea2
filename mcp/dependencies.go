package mcp

import (
	"log/slog"
	"os"

	"github.com/ludo-technologies/lshmatch/app"
	"github.com/ludo-technologies/lshmatch/domain"
	"github.com/ludo-technologies/lshmatch/internal/config"
	"github.com/ludo-technologies/lshmatch/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	reader     domain.RecordReader
	config     *config.Config
	configPath string
	logger     *slog.Logger
}

// NewDependencies constructs the dependency set with sane defaults.
// Logs go to stderr; stdout carries JSON-RPC.
func NewDependencies(cfg *config.Config, configPath string) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	return &Dependencies{
		reader:     service.NewCSVRecordReader(logger),
		config:     cfg,
		configPath: configPath,
		logger:     logger,
	}
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.Config {
	return d.config
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// BaseRequest returns a match request filled from the configuration snapshot
func (d *Dependencies) BaseRequest() domain.MatchRequest {
	return *d.config.ToMatchRequest()
}

// BuildMatchUseCase assembles a fresh MatchUseCase. Handlers resolve
// configuration up front, so no config loader is wired.
func (d *Dependencies) BuildMatchUseCase() (*app.MatchUseCase, error) {
	return app.NewMatchUseCaseBuilder().
		WithReader(d.reader).
		WithService(service.NewMatchService(nil, d.logger)).
		WithFormatter(service.NewMatchFormatter()).
		WithOutputWriter(service.NewFileOutputWriter(os.Stderr)).
		WithLogger(d.logger).
		Build()
}
