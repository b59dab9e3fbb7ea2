package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ludo-technologies/lshmatch/domain"
)

// ErrorCategorizerImpl implements the ErrorCategorizer interface
type ErrorCategorizerImpl struct {
	codes    map[string]domain.ErrorCategory
	patterns []categoryPatterns
}

type categoryPatterns struct {
	category domain.ErrorCategory
	patterns []string
}

// NewErrorCategorizer creates a new error categorizer
func NewErrorCategorizer() domain.ErrorCategorizer {
	return &ErrorCategorizerImpl{
		codes:    initializeErrorCodes(),
		patterns: initializeErrorPatterns(),
	}
}

// initializeErrorCodes maps domain error codes to categories
func initializeErrorCodes() map[string]domain.ErrorCategory {
	return map[string]domain.ErrorCategory{
		domain.ErrCodeInvalidInput:           domain.ErrorCategoryInput,
		domain.ErrCodeFileNotFound:           domain.ErrorCategoryInput,
		domain.ErrCodeEmptyInputSet:          domain.ErrorCategoryInput,
		domain.ErrCodeConfigError:            domain.ErrorCategoryConfig,
		domain.ErrCodeInvalidParameter:       domain.ErrorCategoryConfig,
		domain.ErrCodeUnsupportedFormat:      domain.ErrorCategoryOutput,
		domain.ErrCodeOutputError:            domain.ErrorCategoryOutput,
		domain.ErrCodeInsufficientCandidates: domain.ErrorCategoryProcessing,
		domain.ErrCodeAnalysisError:          domain.ErrorCategoryProcessing,
	}
}

// initializeErrorPatterns lists message fragments per category, checked in order
func initializeErrorPatterns() []categoryPatterns {
	return []categoryPatterns{
		{domain.ErrorCategoryTimeout, []string{
			"timeout",
			"deadline",
			"context canceled",
			"operation timed out",
		}},
		{domain.ErrorCategoryConfig, []string{
			"config",
			"configuration",
			"invalid settings",
			"toml",
			"threshold",
			"num_perm",
		}},
		{domain.ErrorCategoryInput, []string{
			"invalid input",
			"no files found",
			"file not found",
			"cannot access",
			"permission denied",
			"column",
			"csv",
		}},
		{domain.ErrorCategoryOutput, []string{
			"write",
			"output",
			"cannot create",
			"report generation",
		}},
		{domain.ErrorCategoryProcessing, []string{
			"candidate",
			"bucket",
			"signature",
			"index",
		}},
	}
}

// Categorize determines the category of an error
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ec.categorized(domain.ErrorCategoryTimeout, err)
	}

	if category, ok := ec.codes[domain.ErrorCode(err)]; ok {
		return ec.categorized(category, err)
	}

	errMsg := strings.ToLower(err.Error())
	for _, entry := range ec.patterns {
		if containsAnyPattern(errMsg, entry.patterns) {
			return ec.categorized(entry.category, err)
		}
	}

	return &domain.CategorizedError{
		Category: domain.ErrorCategoryUnknown,
		Message:  err.Error(),
		Original: err,
	}
}

func (ec *ErrorCategorizerImpl) categorized(category domain.ErrorCategory, err error) *domain.CategorizedError {
	return &domain.CategorizedError{
		Category: category,
		Message:  ec.getCategoryMessage(category),
		Original: err,
	}
}

// GetRecoverySuggestions returns recovery suggestions for an error category
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	suggestions := map[domain.ErrorCategory][]string{
		domain.ErrorCategoryInput: {
			"Check that the input files exist and are readable CSV",
			"Verify --key-column and --text-column point at the author and text columns",
			"Use --skip-header=false if the files have no header row",
		},
		domain.ErrorCategoryConfig: {
			"Thresholds must be in (0, 1) and num_perm must be at least 1",
			"Try: lshmatch init to generate a valid config file",
			"Check for syntax errors in .lshmatch.toml",
		},
		domain.ErrorCategoryTimeout: {
			"Try a smaller input or fewer files",
			"Check whether the run was interrupted",
		},
		domain.ErrorCategoryOutput: {
			"Check write permissions for the output directory",
			"Use one of --json, --yaml, --csv or --text",
		},
		domain.ErrorCategoryProcessing: {
			"Request fewer samples with --samples",
			"Lower the author threshold so more keys share buckets",
			"Add more input records",
		},
		domain.ErrorCategoryUnknown: {
			"Run with --verbose for detailed error information",
			"Report the issue if it persists",
		},
	}

	if sug, ok := suggestions[category]; ok {
		return sug
	}
	return []string{"Check the error message for more details"}
}

// getCategoryMessage returns a user-friendly message for an error category
func (ec *ErrorCategorizerImpl) getCategoryMessage(category domain.ErrorCategory) string {
	messages := map[domain.ErrorCategory]string{
		domain.ErrorCategoryInput:      "Failed to read input records",
		domain.ErrorCategoryConfig:     "Configuration file or settings error",
		domain.ErrorCategoryTimeout:    "Matching was interrupted",
		domain.ErrorCategoryOutput:     "Failed to generate or write output",
		domain.ErrorCategoryProcessing: "Error while indexing or sampling",
		domain.ErrorCategoryUnknown:    "An unexpected error occurred",
	}

	if msg, ok := messages[category]; ok {
		return msg
	}
	return "An error occurred"
}

// containsAnyPattern checks if a string contains any of the given patterns
func containsAnyPattern(str string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(str, pattern) {
			return true
		}
	}
	return false
}
