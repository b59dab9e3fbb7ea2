package domain

import (
	"context"
	"fmt"
	"io"
)

// GraphMode selects whether generated edges carry costs
type GraphMode string

const (
	GraphModeSimple GraphMode = "simple"
	GraphModeCosts  GraphMode = "costs"
)

// ParseGraphMode validates a graph mode name
func ParseGraphMode(s string) (GraphMode, error) {
	switch m := GraphMode(s); m {
	case GraphModeSimple, GraphModeCosts:
		return m, nil
	default:
		return "", NewValidationError(fmt.Sprintf("unknown graph mode: %q (expected simple or costs)", s))
	}
}

// DefaultOutputFile returns the file a graph of this mode is written to
func (m GraphMode) DefaultOutputFile() string {
	if m == GraphModeCosts {
		return "graph_costs.json"
	}
	return "graph.json"
}

// GraphRequest describes a random directed graph to generate
type GraphRequest struct {
	Mode         GraphMode
	Nodes        int
	Edges        int
	Seed         uint64
	OutputPath   string
	OutputWriter io.Writer
}

// Validate checks that the clique on Nodes vertices has room for Edges ordered pairs
func (r *GraphRequest) Validate() error {
	if _, err := ParseGraphMode(string(r.Mode)); err != nil {
		return err
	}
	if r.Nodes <= 0 {
		return NewValidationError(fmt.Sprintf("number of nodes must be positive, got %d", r.Nodes))
	}
	if r.Edges <= 0 {
		return NewValidationError(fmt.Sprintf("number of edges must be positive, got %d", r.Edges))
	}
	if maxEdges := r.Nodes * (r.Nodes - 1); r.Edges > maxEdges {
		return NewValidationError(fmt.Sprintf("%d nodes allow at most %d edges, got %d", r.Nodes, maxEdges, r.Edges))
	}
	return nil
}

// Edge is a directed edge; Cost is zero for graphs without costs
type Edge struct {
	From int
	To   int
	Cost int
}

// Graph is a generated directed graph over nodes 1..N
type Graph struct {
	Mode  GraphMode
	Nodes []int
	Edges []Edge
}

// GraphService generates random graphs
type GraphService interface {
	Generate(ctx context.Context, req *GraphRequest) (*Graph, error)
}

// GraphWriter serializes generated graphs
type GraphWriter interface {
	Write(graph *Graph, writer io.Writer) error
}
