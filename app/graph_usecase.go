package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/lshmatch/domain"
)

// GraphUseCase generates a random directed graph and writes it as JSON
type GraphUseCase struct {
	service domain.GraphService
	writer  domain.GraphWriter
	output  domain.ReportWriter
}

// NewGraphUseCase creates a new graph use case
func NewGraphUseCase(service domain.GraphService, writer domain.GraphWriter, output domain.ReportWriter) (*GraphUseCase, error) {
	if service == nil {
		return nil, fmt.Errorf("graph service is required")
	}
	if writer == nil {
		return nil, fmt.Errorf("graph writer is required")
	}
	if output == nil {
		return nil, fmt.Errorf("report writer is required")
	}
	return &GraphUseCase{service: service, writer: writer, output: output}, nil
}

// Execute generates the graph and writes it to req.OutputPath, or to
// req.OutputWriter when no path is given
func (uc *GraphUseCase) Execute(ctx context.Context, req domain.GraphRequest) (*domain.Graph, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	graph, err := uc.service.Generate(ctx, &req)
	if err != nil {
		return nil, passOrWrap(err, domain.NewAnalysisError, "graph generation failed")
	}

	var out io.Writer
	if req.OutputPath == "" {
		out = req.OutputWriter
	}
	if err := uc.output.Write(out, req.OutputPath, domain.OutputFormatJSON, func(w io.Writer) error {
		return uc.writer.Write(graph, w)
	}); err != nil {
		return nil, passOrWrap(err, domain.NewOutputError, "failed to write graph")
	}

	return graph, nil
}
