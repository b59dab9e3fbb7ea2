package service

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/lshmatch/domain"
)

// OutputFormatResolver resolves the report format from flags and file names.
type OutputFormatResolver struct{}

func NewOutputFormatResolver() *OutputFormatResolver { return &OutputFormatResolver{} }

// Determine evaluates format flags and returns the selected format.
// At most one of json/yaml/csv/text may be true; if none are true, the
// extension of outputPath decides, falling back to fallback.
func (r *OutputFormatResolver) Determine(json, yaml, csv, text bool, outputPath string, fallback domain.OutputFormat) (domain.OutputFormat, error) {
	formatCount := 0
	var format domain.OutputFormat

	if json {
		formatCount++
		format = domain.OutputFormatJSON
	}
	if yaml {
		formatCount++
		format = domain.OutputFormatYAML
	}
	if csv {
		formatCount++
		format = domain.OutputFormatCSV
	}
	if text {
		formatCount++
		format = domain.OutputFormatText
	}

	if formatCount > 1 {
		return "", fmt.Errorf("only one output format flag can be specified")
	}
	if formatCount == 1 {
		return format, nil
	}

	if byExt, ok := r.FromPath(outputPath); ok {
		return byExt, nil
	}
	return fallback, nil
}

// FromPath infers the format from a report file extension
func (r *OutputFormatResolver) FromPath(path string) (domain.OutputFormat, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return domain.OutputFormatJSON, true
	case ".yaml", ".yml":
		return domain.OutputFormatYAML, true
	case ".csv":
		return domain.OutputFormatCSV, true
	case ".txt":
		return domain.OutputFormatText, true
	default:
		return "", false
	}
}

// ReplaceExtension swaps the extension of path for the one of format
func (r *OutputFormatResolver) ReplaceExtension(path string, format domain.OutputFormat) string {
	if path == "" {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + format.Extension()
}
