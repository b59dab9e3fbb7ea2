// Package graphgen generates random directed graphs over a node clique.
package graphgen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/ludo-technologies/lshmatch/domain"
)

// Generator draws edge sets uniformly from the ordered pairs of 1..N
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator; seed 0 picks a random seed
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Generator{rng: rand.New(rand.NewPCG(seed, ^seed))}
}

// Generate picks req.Edges distinct ordered pairs (no self loops) in sample
// order, with a random cost in [MinEdgeCost, MaxEdgeCost] for costs mode
func (g *Generator) Generate(ctx context.Context, req *domain.GraphRequest) (*domain.Graph, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	nodes := make([]int, req.Nodes)
	for i := range nodes {
		nodes[i] = i + 1
	}

	// Partial Fisher-Yates over the virtual array of pair indices; only
	// swapped slots are materialized.
	total := req.Nodes * (req.Nodes - 1)
	swapped := make(map[int]int, req.Edges)
	at := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}

	edges := make([]domain.Edge, 0, req.Edges)
	for i := 0; i < req.Edges; i++ {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		j := i + g.rng.IntN(total-i)
		picked := at(j)
		swapped[j] = at(i)

		edge := pairAt(picked, req.Nodes)
		if req.Mode == domain.GraphModeCosts {
			edge.Cost = domain.MinEdgeCost + g.rng.IntN(domain.MaxEdgeCost-domain.MinEdgeCost+1)
		}
		edges = append(edges, edge)
	}

	return &domain.Graph{Mode: req.Mode, Nodes: nodes, Edges: edges}, nil
}

// pairAt maps index k in [0, n(n-1)) to the k-th ordered pair without self loops
func pairAt(k, n int) domain.Edge {
	from := k / (n - 1)
	to := k % (n - 1)
	if to >= from {
		to++
	}
	return domain.Edge{From: from + 1, To: to + 1}
}

type graphDocument struct {
	Nodes []int   `json:"nodes"`
	Edges [][]int `json:"edges"`
}

// WriteJSON writes {"nodes": [...], "edges": [[from, to(, cost)], ...]} indented by four spaces
func WriteJSON(w io.Writer, graph *domain.Graph) error {
	doc := graphDocument{Nodes: graph.Nodes, Edges: make([][]int, len(graph.Edges))}
	for i, e := range graph.Edges {
		if graph.Mode == domain.GraphModeCosts {
			doc.Edges[i] = []int{e.From, e.To, e.Cost}
		} else {
			doc.Edges[i] = []int{e.From, e.To}
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode graph: %w", err)
	}
	return nil
}
