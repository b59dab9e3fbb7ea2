package mcp

import (
	"io"
	"log/slog"

	"github.com/ludo-technologies/lshmatch/domain"
	"github.com/ludo-technologies/lshmatch/internal/config"
)

func NewTestDependencies(reader domain.RecordReader, cfg *config.Config) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Dependencies{
		reader: reader,
		config: cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
