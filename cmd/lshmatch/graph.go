package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/lshmatch/app"
	"github.com/ludo-technologies/lshmatch/domain"
	"github.com/ludo-technologies/lshmatch/service"
)

// GraphCommand represents the graph command
type GraphCommand struct {
	outputPath string
	seed       uint64
}

// NewGraphCommand creates a new graph command
func NewGraphCommand() *GraphCommand {
	return &GraphCommand{}
}

// CreateCobraCommand creates the cobra command for graph generation
func (g *GraphCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph simple|costs NODES EDGES",
		Short: "Generate a random directed graph",
		Long: `Generate a random directed graph over nodes 1..NODES with EDGES
distinct edges and no self loops.

In costs mode every edge carries an integer cost between 1 and 10.
The graph is written as JSON to graph.json (simple) or graph_costs.json
(costs) unless --output is given.

Examples:
  # 100 nodes, 500 edges
  lshmatch graph simple 100 500

  # Weighted graph, reproducible, printed to stdout
  lshmatch graph costs 10 20 --seed 7 -o -`,
		Args: cobra.ExactArgs(3),
		RunE: g.runGraph,
	}

	cmd.Flags().StringVarP(&g.outputPath, "output", "o", "", "Output path (- for stdout)")
	cmd.Flags().Uint64Var(&g.seed, "seed", 0, "Random seed (0 picks one)")

	return cmd
}

// runGraph executes the graph command
func (g *GraphCommand) runGraph(cmd *cobra.Command, args []string) error {
	request, err := g.createGraphRequest(cmd, args)
	if err != nil {
		return err
	}

	graphService := service.NewGraphService(slog.Default())
	useCase, err := app.NewGraphUseCase(graphService, graphService, service.NewFileOutputWriter(cmd.ErrOrStderr()))
	if err != nil {
		return fmt.Errorf("failed to create graph use case: %w", err)
	}

	graph, err := useCase.Execute(cmd.Context(), *request)
	if err != nil {
		return err
	}

	slog.Debug("graph written", "nodes", len(graph.Nodes), "edges", len(graph.Edges))
	return nil
}

// createGraphRequest parses positional arguments into a request
func (g *GraphCommand) createGraphRequest(cmd *cobra.Command, args []string) (*domain.GraphRequest, error) {
	mode, err := domain.ParseGraphMode(args[0])
	if err != nil {
		return nil, err
	}
	nodes, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("NODES must be an integer, got %q", args[1]), err)
	}
	edges, err := strconv.Atoi(args[2])
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("EDGES must be an integer, got %q", args[2]), err)
	}

	outputPath := g.outputPath
	switch outputPath {
	case "":
		outputPath = mode.DefaultOutputFile()
	case app.StdoutPath:
		outputPath = ""
	}

	return &domain.GraphRequest{
		Mode:         mode,
		Nodes:        nodes,
		Edges:        edges,
		Seed:         g.seed,
		OutputPath:   outputPath,
		OutputWriter: cmd.OutOrStdout(),
	}, nil
}

// NewGraphCmd creates and returns the graph cobra command
func NewGraphCmd() *cobra.Command {
	return NewGraphCommand().CreateCobraCommand()
}
