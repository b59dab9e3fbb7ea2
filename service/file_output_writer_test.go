package service

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/lshmatch/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileOutputWriter_WritesFile(t *testing.T) {
	var status bytes.Buffer
	path := filepath.Join(t.TempDir(), "reports", "match_samples.json")

	err := NewFileOutputWriter(&status).Write(nil, path, domain.OutputFormatJSON, func(w io.Writer) error {
		_, err := io.WriteString(w, "{}\n")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
	assert.Contains(t, status.String(), "JSON report generated: ")
	assert.Contains(t, status.String(), "(3 B)")
}

func TestFileOutputWriter_FailedWriteKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "match_samples.json")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	err := NewFileOutputWriter(io.Discard).Write(nil, path, domain.OutputFormatJSON, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return errors.New("encoder failed")
	})
	assert.Equal(t, domain.ErrCodeOutputError, domain.ErrorCode(err))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileOutputWriter_WritesToWriter(t *testing.T) {
	var status, out bytes.Buffer

	err := NewFileOutputWriter(&status).Write(&out, "", domain.OutputFormatText, func(w io.Writer) error {
		_, err := io.WriteString(w, "report")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "report", out.String())
	assert.Empty(t, status.String())
}

func TestFileOutputWriter_PropagatesWriteError(t *testing.T) {
	err := NewFileOutputWriter(io.Discard).Write(io.Discard, "", domain.OutputFormatCSV, func(io.Writer) error {
		return errors.New("disk full")
	})
	assert.Equal(t, domain.ErrCodeOutputError, domain.ErrorCode(err))
}

func TestProgressManager_NonInteractiveWriter(t *testing.T) {
	pm := NewProgressManager()
	pm.SetWriter(&bytes.Buffer{})
	assert.False(t, pm.IsInteractive())

	pm.StartStage("Indexing records", 10)
	pm.Advance(5)
	pm.FinishStage(true)
	pm.StartStage("Indexing authors", 3)
	pm.Close()
}
