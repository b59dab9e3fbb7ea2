package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/ludo-technologies/lshmatch/domain"
	"github.com/ludo-technologies/lshmatch/internal/analyzer"
	"github.com/ludo-technologies/lshmatch/service"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	defaultEstimatePermutations = 128

	// maxOptimizerPermutations bounds the optimizer's quadratic search
	maxOptimizerPermutations = 1024
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies(nil, "")
	}
	return &HandlerSet{deps: deps}
}

// HandleFindSimilarAuthors handles the find_similar_authors tool
func (h *HandlerSet) HandleFindSimilarAuthors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}

	req := h.deps.BaseRequest()
	req.Paths = []string{path}
	if mode, ok := args["mode"].(string); ok {
		req.Mode = domain.MatchMode(mode)
	}
	if v, ok := intArg(args, "samples"); ok {
		req.Samples = v
	}
	if v, ok := intArg(args, "seed"); ok {
		if v < 0 {
			return mcp.NewToolResultError("seed must be non-negative"), nil
		}
		req.Seed = uint64(v)
	}
	if v, ok := args["threshold"].(float64); ok {
		req.Text.Threshold = v
	}
	if v, ok := args["author_threshold"].(float64); ok {
		req.Authors.Threshold = v
	}
	if v, ok := intArg(args, "key_column"); ok {
		req.Layout.KeyColumn = v
	}
	if v, ok := intArg(args, "text_column"); ok {
		req.Layout.TextColumn = v
	}

	useCase, err := h.deps.BuildMatchUseCase()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create matcher: %v", err)), nil
	}

	response, err := useCase.FindAndReturn(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("matching failed: %v", err)), nil
	}

	// The formatter keeps match and key order, so embed its output as is
	var report bytes.Buffer
	if err := service.NewMatchFormatter().Write(response, domain.OutputFormatJSON, &report); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format matches: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"records_read": response.RecordsRead,
		"stages":       response.Stages,
		"matches":      json.RawMessage(bytes.TrimSpace(report.Bytes())),
	})
}

// HandleOptimalParameters handles the optimal_parameters tool
func (h *HandlerSet) HandleOptimalParameters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	threshold, ok := args["threshold"].(float64)
	if !ok {
		return mcp.NewToolResultError("threshold parameter is required and must be a number"), nil
	}
	numPerm, ok := intArg(args, "num_perm")
	if !ok {
		return mcp.NewToolResultError("num_perm parameter is required and must be an integer"), nil
	}
	if numPerm > maxOptimizerPermutations {
		return mcp.NewToolResultError(fmt.Sprintf("num_perm must be at most %d, got %d", maxOptimizerPermutations, numPerm)), nil
	}

	params, err := analyzer.OptimalBandParameters(threshold, numPerm)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]interface{}{
		"threshold":         threshold,
		"num_perm":          numPerm,
		"bands":             params.Bands,
		"rows":              params.Rows,
		"permutations_used": params.NumPermutations(),
		"false_positive":    params.FalsePositiveProbability,
		"false_negative":    params.FalseNegativeProbability,
	})
}

// HandleEstimateSimilarity handles the estimate_similarity tool
func (h *HandlerSet) HandleEstimateSimilarity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	text1, ok1 := args["text1"].(string)
	text2, ok2 := args["text2"].(string)
	if !ok1 || !ok2 {
		return mcp.NewToolResultError("text1 and text2 parameters are required and must be strings"), nil
	}

	shingleLength := h.deps.Config().Text.ShingleLength
	if v, ok := intArg(args, "shingle_length"); ok {
		shingleLength = v
	}
	numPerm := defaultEstimatePermutations
	if v, ok := intArg(args, "num_perm"); ok {
		numPerm = v
	}
	var seed uint64
	if v, ok := intArg(args, "seed"); ok && v > 0 {
		seed = uint64(v)
	}

	// Both texts share one dictionary so equal shingles get equal ids
	encoder, err := analyzer.NewShingleEncoder(shingleLength)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	set1, err := encoder.Encode(text1)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	set2, err := encoder.Encode(text2)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	hasher, err := analyzer.NewMinHasher(numPerm, analyzer.NewRand(seed))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sig1, err := hasher.ComputeSignature(set1)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sig2, err := hasher.ComputeSignature(set2)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	estimate, err := analyzer.EstimateJaccardSimilarity(sig1, sig2)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]interface{}{
		"estimated_similarity": estimate,
		"exact_similarity":     analyzer.JaccardSimilarity(set1, set2),
		"shingle_length":       shingleLength,
		"num_perm":             numPerm,
		"distinct_shingles":    encoder.Dictionary().Len(),
	})
}

// intArg reads a JSON number argument that must hold an integer
func intArg(args map[string]interface{}, name string) (int, bool) {
	v, ok := args[name].(float64)
	if !ok || v != float64(int(v)) {
		return 0, false
	}
	return int(v), true
}

func jsonResult(data interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
