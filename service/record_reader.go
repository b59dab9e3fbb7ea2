package service

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ludo-technologies/lshmatch/domain"
	"golang.org/x/sync/errgroup"
)

// cancellation is checked once per this many rows
const rowsPerContextCheck = 1024

// CSVRecordReader implements domain.RecordReader over comma-separated files
type CSVRecordReader struct {
	maxConcurrency int
	logger         *slog.Logger
}

// NewCSVRecordReader creates a reader that loads up to GOMAXPROCS files at once
func NewCSVRecordReader(logger *slog.Logger) *CSVRecordReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVRecordReader{
		maxConcurrency: runtime.GOMAXPROCS(0),
		logger:         logger,
	}
}

// ResolvePaths expands doublestar globs and directories (every **/*.csv
// below them) into files. Order follows the arguments; matches of a single
// argument are sorted. Duplicates are dropped.
func (r *CSVRecordReader) ResolvePaths(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		if isGlobPattern(path) {
			matches, err := doublestar.FilepathGlob(path, doublestar.WithFilesOnly())
			if err != nil {
				return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid glob pattern: %s", path), err)
			}
			if len(matches) == 0 {
				return nil, domain.NewInvalidInputError(fmt.Sprintf("no files found matching %s", path), nil)
			}
			sort.Strings(matches)
			for _, match := range matches {
				add(match)
			}
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		matches, err := doublestar.Glob(os.DirFS(path), "**/*.csv", doublestar.WithFilesOnly())
		if err != nil {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("cannot access directory: %s", path), err)
		}
		if len(matches) == 0 {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("no files found in directory %s", path), nil)
		}
		sort.Strings(matches)
		for _, match := range matches {
			add(filepath.Join(path, filepath.FromSlash(match)))
		}
	}

	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no files found in the specified paths", nil)
	}
	return files, nil
}

// ReadRecords reads every resolved file concurrently and returns the records
// in path order, each file's rows in file order
func (r *CSVRecordReader) ReadRecords(ctx context.Context, paths []string, layout domain.RecordLayout) ([]domain.Record, error) {
	files, err := r.ResolvePaths(paths)
	if err != nil {
		return nil, err
	}

	perFile := make([][]domain.Record, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrency)
	for i, path := range files {
		g.Go(func() error {
			records, err := r.readFile(gctx, path, layout)
			if err != nil {
				return err
			}
			perFile[i] = records
			r.logger.Debug("read input file", "path", path, "records", len(records))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, records := range perFile {
		total += len(records)
	}
	records := make([]domain.Record, 0, total)
	for _, fileRecords := range perFile {
		records = append(records, fileRecords...)
	}
	return records, nil
}

func (r *CSVRecordReader) readFile(ctx context.Context, path string, layout domain.RecordLayout) ([]domain.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewFileNotFoundError(path, err)
		}
		return nil, domain.NewInvalidInputError(fmt.Sprintf("cannot access file: %s", path), err)
	}
	defer file.Close()

	return parseRecords(ctx, path, bufio.NewReader(file), layout)
}

// parseRecords extracts the key and text columns of every row
func parseRecords(ctx context.Context, name string, in io.Reader, layout domain.RecordLayout) ([]domain.Record, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	needed := max(layout.KeyColumn, layout.TextColumn) + 1
	var records []domain.Record
	for row := 0; ; row++ {
		if row%rowsPerContextCheck == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("malformed csv in %s", name), err)
		}
		if row == 0 && layout.SkipHeader {
			continue
		}
		if len(fields) < needed {
			line, _ := reader.FieldPos(0)
			return nil, domain.NewInvalidInputError(
				fmt.Sprintf("%s: record on line %d has %d fields, column %d is required", name, line, len(fields), needed-1), nil)
		}

		records = append(records, domain.Record{
			Key:  fields[layout.KeyColumn],
			Text: fields[layout.TextColumn],
		})
	}
	return records, nil
}

func isGlobPattern(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
