package service

import (
	"context"
	"io"
	"testing"

	"github.com/ludo-technologies/lshmatch/domain"
	"github.com/ludo-technologies/lshmatch/internal/analyzer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingProgress records stage descriptions for assertions
type recordingProgress struct {
	stages    []string
	completed []bool
	updates   int
}

var _ domain.ProgressManager = (*recordingProgress)(nil)

func (p *recordingProgress) StartStage(name string, _ int) { p.stages = append(p.stages, name) }
func (p *recordingProgress) Advance(int)                   { p.updates++ }
func (p *recordingProgress) FinishStage(success bool)      { p.completed = append(p.completed, success) }
func (p *recordingProgress) SetWriter(io.Writer)           {}
func (p *recordingProgress) IsInteractive() bool           { return false }
func (p *recordingProgress) Close()                        {}

func matchRequest(mode domain.MatchMode, samples int) *domain.MatchRequest {
	return &domain.MatchRequest{
		Paths: []string{"unused.csv"},
		Mode:  mode,
		Text: domain.StageParameters{
			Threshold:     domain.DefaultTextThreshold,
			NumPerm:       domain.DefaultTextNumPerm,
			ShingleLength: 3,
		},
		Authors: domain.StageParameters{
			Threshold: domain.DefaultAuthorThreshold,
			NumPerm:   domain.DefaultAuthorNumPerm,
		},
		BandHash:     analyzer.DefaultBandHash,
		Samples:      samples,
		Seed:         42,
		OutputFormat: domain.OutputFormatJSON,
	}
}

// alice and bob post the same texts, carol posts unrelated ones
func twinAuthorRecords() []domain.Record {
	return []domain.Record{
		{Key: "alice", Text: "the quick brown fox jumps over the lazy dog"},
		{Key: "carol", Text: "lorem ipsum dolor sit amet consectetur adipiscing"},
		{Key: "bob", Text: "the quick brown fox jumps over the lazy dog"},
		{Key: "alice", Text: "pack my box with five dozen liquor jugs"},
		{Key: "bob", Text: "pack my box with five dozen liquor jugs"},
		{Key: "carol", Text: "sphinx of black quartz judge my vow 1234567890"},
	}
}

func assertAliceBob(t *testing.T, entry domain.MatchEntry) {
	t.Helper()
	assert.Equal(t, "match-0", entry.Name)
	assert.ElementsMatch(t, []string{"alice", "bob"}, []string{entry.Key1, entry.Key2})
	assert.Equal(t, []string{
		"the quick brown fox jumps over the lazy dog",
		"pack my box with five dozen liquor jugs",
	}, entry.Texts1, "texts follow input order")
	assert.Equal(t, entry.Texts1, entry.Texts2)
}

func TestMatchService_AuthorsMode(t *testing.T) {
	progress := &recordingProgress{}
	svc := NewMatchService(progress, nil)

	resp, err := svc.FindMatches(context.Background(), twinAuthorRecords(), matchRequest(domain.MatchModeAuthors, 1))
	require.NoError(t, err)

	require.Len(t, resp.Matches, 1)
	assertAliceBob(t, resp.Matches[0])

	require.Len(t, resp.Stages, 2)
	assert.Equal(t, "text", resp.Stages[0].Name)
	assert.Equal(t, 6, resp.Stages[0].SignedItems)
	assert.Equal(t, "authors", resp.Stages[1].Name)
	assert.Equal(t, 3, resp.Stages[1].IndexedKeys)
	assert.LessOrEqual(t, resp.Stages[1].Bands*resp.Stages[1].Rows, domain.DefaultAuthorNumPerm)
	assert.Equal(t, 6, resp.RecordsRead)

	assert.Equal(t, []string{"Signing texts", "Indexing authors"}, progress.stages)
	assert.Equal(t, []bool{true, true}, progress.completed)
}

func TestMatchService_TextsMode(t *testing.T) {
	records := []domain.Record{
		{Key: "alice", Text: "the quick brown fox jumps over the lazy dog"},
		{Key: "bob", Text: "the quick brown fox jumps over the lazy dog"},
		{Key: "carol", Text: "lorem ipsum dolor sit amet consectetur adipiscing"},
	}

	resp, err := NewMatchService(nil, nil).FindMatches(context.Background(), records, matchRequest(domain.MatchModeTexts, 1))
	require.NoError(t, err)
	require.Len(t, resp.Matches, 1)
	assert.ElementsMatch(t, []string{"alice", "bob"}, []string{resp.Matches[0].Key1, resp.Matches[0].Key2})
	require.Len(t, resp.Stages, 1)
	assert.Equal(t, 3, resp.Stages[0].IndexedKeys)
}

func TestMatchService_SetsMode(t *testing.T) {
	records := []domain.Record{
		{Key: "a", Text: "1 2 3 4 5"},
		{Key: "b", Text: "5 4 3 2 1"},
		{Key: "c", Text: "100 200 300 400 500"},
	}

	resp, err := NewMatchService(nil, nil).FindMatches(context.Background(), records, matchRequest(domain.MatchModeSets, 1))
	require.NoError(t, err)
	require.Len(t, resp.Matches, 1)
	assert.ElementsMatch(t, []string{"a", "b"}, []string{resp.Matches[0].Key1, resp.Matches[0].Key2})
}

func TestMatchService_Errors(t *testing.T) {
	svc := NewMatchService(nil, nil)
	ctx := context.Background()

	t.Run("no records", func(t *testing.T) {
		_, err := svc.FindMatches(ctx, nil, matchRequest(domain.MatchModeAuthors, 1))
		assert.Equal(t, domain.ErrCodeInvalidInput, domain.ErrorCode(err))
	})

	t.Run("more samples than distinct pairs", func(t *testing.T) {
		_, err := svc.FindMatches(ctx, twinAuthorRecords(), matchRequest(domain.MatchModeAuthors, 2))
		require.Error(t, err)
		assert.Equal(t, domain.ErrCodeInsufficientCandidates, domain.ErrorCode(err))
		assert.ErrorIs(t, err, analyzer.ErrInsufficientCandidates)
	})

	t.Run("empty set", func(t *testing.T) {
		records := []domain.Record{{Key: "a", Text: "1 2"}, {Key: "b", Text: "   "}}
		_, err := svc.FindMatches(ctx, records, matchRequest(domain.MatchModeSets, 1))
		assert.Equal(t, domain.ErrCodeEmptyInputSet, domain.ErrorCode(err))
		assert.Contains(t, err.Error(), `"b"`)
	})

	t.Run("malformed set", func(t *testing.T) {
		records := []domain.Record{{Key: "a", Text: "1 two 3"}}
		_, err := svc.FindMatches(ctx, records, matchRequest(domain.MatchModeSets, 1))
		assert.Equal(t, domain.ErrCodeInvalidInput, domain.ErrorCode(err))
	})

	t.Run("invalid threshold", func(t *testing.T) {
		req := matchRequest(domain.MatchModeTexts, 1)
		req.Text.Threshold = 1.5
		_, err := svc.FindMatches(ctx, twinAuthorRecords(), req)
		assert.Equal(t, domain.ErrCodeInvalidParameter, domain.ErrorCode(err))
	})

	t.Run("cancelled", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := svc.FindMatches(cancelled, twinAuthorRecords(), matchRequest(domain.MatchModeAuthors, 1))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestParseIntegerSet(t *testing.T) {
	set, err := ParseIntegerSet(" 3\t1  2\n")
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 1, 2}, set)

	set, err = ParseIntegerSet("")
	require.NoError(t, err)
	assert.Empty(t, set)

	_, err = ParseIntegerSet("1 -2")
	assert.Error(t, err)
}

func TestBuildMatchEntries(t *testing.T) {
	records := []domain.Record{
		{Key: "a", Text: "a1"},
		{Key: "b", Text: "b1"},
		{Key: "c", Text: "c1"},
		{Key: "a", Text: "a2"},
	}
	pairs := []analyzer.CandidatePair{{Key1: "b", Key2: "a"}, {Key1: "a", Key2: "c"}}

	entries := BuildMatchEntries(records, pairs)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.MatchEntry{Name: "match-0", Key1: "b", Texts1: []string{"b1"}, Key2: "a", Texts2: []string{"a1", "a2"}}, entries[0])
	assert.Equal(t, domain.MatchEntry{Name: "match-1", Key1: "a", Texts1: []string{"a1", "a2"}, Key2: "c", Texts2: []string{"c1"}}, entries[1])
}
