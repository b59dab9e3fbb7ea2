package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ludo-technologies/lshmatch/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestGraphService_GenerateAndWrite(t *testing.T) {
	svc := NewGraphService(nil)
	graph, err := svc.Generate(t.Context(), &domain.GraphRequest{Mode: domain.GraphModeCosts, Nodes: 5, Edges: 7, Seed: 3})
	require.NoError(t, err)
	require.Len(t, graph.Edges, 7)

	var buf bytes.Buffer
	require.NoError(t, svc.Write(graph, &buf))

	var doc struct {
		Nodes []int   `json:"nodes"`
		Edges [][]int `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, doc.Nodes)
	for _, e := range doc.Edges {
		require.Len(t, e, 3)
		assert.NotEqual(t, e[0], e[1])
		assert.GreaterOrEqual(t, e[2], domain.MinEdgeCost)
		assert.LessOrEqual(t, e[2], domain.MaxEdgeCost)
	}
}

func TestGraphService_InvalidRequest(t *testing.T) {
	_, err := NewGraphService(nil).Generate(t.Context(), &domain.GraphRequest{Mode: domain.GraphModeSimple, Nodes: 3, Edges: 7})
	assert.Equal(t, domain.ErrCodeInvalidInput, domain.ErrorCode(err))
}

func TestGraphService_WriteError(t *testing.T) {
	graph := &domain.Graph{Mode: domain.GraphModeSimple, Nodes: []int{1, 2}, Edges: []domain.Edge{{From: 1, To: 2}}}
	err := NewGraphService(nil).Write(graph, failingWriter{})
	assert.Equal(t, domain.ErrCodeOutputError, domain.ErrorCode(err))
}
