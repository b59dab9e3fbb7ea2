package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all lshmatch MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	// Tool 1: find_similar_authors - run the match pipeline over CSV files
	s.AddTool(mcp.NewTool("find_similar_authors",
		mcp.WithDescription("Sample pairs of authors (or texts) with similar content from CSV files using MinHash LSH"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("CSV file, directory or glob pattern to read records from")),
		mcp.WithString("mode",
			mcp.Description("Pipeline: authors, texts or sets (default: authors)")),
		mcp.WithNumber("samples",
			mcp.Description("Number of candidate pairs to sample (default: 3)")),
		mcp.WithNumber("seed",
			mcp.Description("Random seed, 0 picks one (default: 0)")),
		mcp.WithNumber("threshold",
			mcp.Description("Text similarity threshold 0.0-1.0 (default: 0.5)")),
		mcp.WithNumber("author_threshold",
			mcp.Description("Author similarity threshold 0.0-1.0 (default: 0.5)")),
		mcp.WithNumber("key_column",
			mcp.Description("Zero-based key column (default: 2)")),
		mcp.WithNumber("text_column",
			mcp.Description("Zero-based text column (default: 3)")),
	), h.HandleFindSimilarAuthors)

	// Tool 2: optimal_parameters - band/row split for a threshold
	s.AddTool(mcp.NewTool("optimal_parameters",
		mcp.WithDescription("Choose LSH bands and rows for a similarity threshold and permutation budget"),
		mcp.WithNumber("threshold",
			mcp.Required(),
			mcp.Description("Target Jaccard similarity in (0, 1)")),
		mcp.WithNumber("num_perm",
			mcp.Required(),
			mcp.Description("Permutation budget, 1 to 1024")),
	), h.HandleOptimalParameters)

	// Tool 3: estimate_similarity - MinHash estimate for two texts
	s.AddTool(mcp.NewTool("estimate_similarity",
		mcp.WithDescription("Estimate the Jaccard similarity of two texts from MinHash signatures and compare it to the exact value"),
		mcp.WithString("text1",
			mcp.Required(),
			mcp.Description("First text")),
		mcp.WithString("text2",
			mcp.Required(),
			mcp.Description("Second text")),
		mcp.WithNumber("shingle_length",
			mcp.Description("Shingle length (default: 6)")),
		mcp.WithNumber("num_perm",
			mcp.Description("Number of permutations (default: 128)")),
		mcp.WithNumber("seed",
			mcp.Description("Random seed, 0 picks one (default: 0)")),
	), h.HandleEstimateSimilarity)
}
