package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/ludo-technologies/lshmatch/domain"
	"github.com/ludo-technologies/lshmatch/internal/graphgen"
)

// GraphServiceImpl implements domain.GraphService and domain.GraphWriter
type GraphServiceImpl struct {
	logger *slog.Logger
}

// NewGraphService creates a new graph service
func NewGraphService(logger *slog.Logger) *GraphServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphServiceImpl{logger: logger}
}

// Generate draws a random graph as described by req
func (s *GraphServiceImpl) Generate(ctx context.Context, req *domain.GraphRequest) (*domain.Graph, error) {
	graph, err := graphgen.NewGenerator(req.Seed).Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("generated graph", "mode", req.Mode, "nodes", len(graph.Nodes), "edges", len(graph.Edges))
	return graph, nil
}

// Write writes graph as indented JSON
func (s *GraphServiceImpl) Write(graph *domain.Graph, writer io.Writer) error {
	if err := graphgen.WriteJSON(writer, graph); err != nil {
		return domain.NewOutputError("failed to write graph", err)
	}
	return nil
}
