package service

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ludo-technologies/lshmatch/domain"
)

// FileOutputWriter writes reports to a file or to the caller's writer.
// Files are written to a temporary sibling and renamed into place, so a
// failed run never leaves a truncated report behind.
type FileOutputWriter struct {
	status io.Writer // status lines, typically stderr
}

// NewFileOutputWriter creates a new FileOutputWriter.
func NewFileOutputWriter(status io.Writer) *FileOutputWriter {
	if status == nil {
		status = os.Stderr
	}
	return &FileOutputWriter{status: status}
}

// Write implements domain.ReportWriter.
func (w *FileOutputWriter) Write(writer io.Writer, outputPath string, format domain.OutputFormat, writeFunc func(io.Writer) error) error {
	if outputPath == "" {
		if err := writeFunc(writer); err != nil {
			return domain.NewOutputError("failed to write output", err)
		}
		return nil
	}

	size, err := writeFileAtomic(outputPath, writeFunc)
	if err != nil {
		return err
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		absPath = outputPath
	}
	fmt.Fprintf(w.status, "%s report generated: %s (%s)\n",
		strings.ToUpper(string(format)), absPath, humanize.Bytes(uint64(size)))
	return nil
}

func writeFileAtomic(path string, writeFunc func(io.Writer) error) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, domain.NewOutputError(fmt.Sprintf("cannot create output directory: %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return 0, domain.NewOutputError(fmt.Sprintf("failed to create output file: %s", path), err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	counter := &countingWriter{w: tmp}
	buf := bufio.NewWriter(counter)
	if err := writeFunc(buf); err != nil {
		tmp.Close()
		return 0, domain.NewOutputError("failed to write output", err)
	}
	if err := buf.Flush(); err != nil {
		tmp.Close()
		return 0, domain.NewOutputError("failed to write output", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, domain.NewOutputError("failed to write output", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return 0, domain.NewOutputError(fmt.Sprintf("failed to create output file: %s", path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, domain.NewOutputError(fmt.Sprintf("failed to create output file: %s", path), err)
	}
	return counter.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
