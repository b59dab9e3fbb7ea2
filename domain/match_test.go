package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMatchRequest() *MatchRequest {
	return &MatchRequest{
		Paths:  []string{"tweets.csv"},
		Layout: RecordLayout{KeyColumn: DefaultKeyColumn, TextColumn: DefaultTextColumn, SkipHeader: true},
		Mode:   MatchModeAuthors,
		Text: StageParameters{
			Threshold:     DefaultTextThreshold,
			NumPerm:       DefaultTextNumPerm,
			ShingleLength: DefaultShingleLength,
		},
		Authors: StageParameters{
			Threshold: DefaultAuthorThreshold,
			NumPerm:   DefaultAuthorNumPerm,
		},
		Samples:      DefaultSamples,
		OutputFormat: OutputFormatJSON,
	}
}

func TestMatchRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *MatchRequest)
		wantErr string
	}{
		{name: "defaults", mutate: func(r *MatchRequest) {}},
		{name: "no paths", mutate: func(r *MatchRequest) { r.Paths = nil }, wantErr: "no input paths"},
		{name: "negative column", mutate: func(r *MatchRequest) { r.Layout.KeyColumn = -1 }, wantErr: "column indices"},
		{name: "same column", mutate: func(r *MatchRequest) { r.Layout.TextColumn = r.Layout.KeyColumn }, wantErr: "must differ"},
		{name: "unknown mode", mutate: func(r *MatchRequest) { r.Mode = "tweets" }, wantErr: "unknown match mode"},
		{name: "threshold zero", mutate: func(r *MatchRequest) { r.Text.Threshold = 0 }, wantErr: "text threshold"},
		{name: "threshold one", mutate: func(r *MatchRequest) { r.Authors.Threshold = 1 }, wantErr: "authors threshold"},
		{name: "no permutations", mutate: func(r *MatchRequest) { r.Text.NumPerm = 0 }, wantErr: "num_perm"},
		{name: "no shingle length", mutate: func(r *MatchRequest) { r.Text.ShingleLength = 0 }, wantErr: "shingle_length"},
		{
			name: "sets mode ignores shingle length",
			mutate: func(r *MatchRequest) {
				r.Mode = MatchModeSets
				r.Text.ShingleLength = 0
			},
		},
		{
			name: "texts mode ignores author stage",
			mutate: func(r *MatchRequest) {
				r.Mode = MatchModeTexts
				r.Authors = StageParameters{}
			},
		},
		{name: "no samples", mutate: func(r *MatchRequest) { r.Samples = 0 }, wantErr: "samples"},
		{name: "bad format", mutate: func(r *MatchRequest) { r.OutputFormat = "html" }, wantErr: "unsupported format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validMatchRequest()
			tt.mutate(req)
			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	for _, name := range []string{"text", "json", "yaml", "csv"} {
		f, err := ParseOutputFormat(name)
		require.NoError(t, err)
		assert.Equal(t, name, string(f))
	}

	_, err := ParseOutputFormat("xml")
	assert.Equal(t, ErrCodeUnsupportedFormat, ErrorCode(err))

	assert.Equal(t, "txt", OutputFormatText.Extension())
	assert.Equal(t, "json", OutputFormatJSON.Extension())
}

func TestDomainErrorChain(t *testing.T) {
	cause := errors.New("boom")
	err := NewInsufficientCandidatesError("not enough buckets", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrCodeInsufficientCandidates, ErrorCode(err))
	assert.Equal(t, "[INSUFFICIENT_CANDIDATES] not enough buckets: boom", err.Error())
	assert.Empty(t, ErrorCode(cause))
}
