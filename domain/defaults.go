package domain

// Engine defaults, taken from the settings the tool has always shipped with:
// a text stage over tweets feeding an author stage.
const (
	// DefaultTextThreshold is the Jaccard threshold of the per-text engine
	DefaultTextThreshold = 0.5

	// DefaultShingleLength is the nominal shingle length k; windows are k+1 runes
	DefaultShingleLength = 6

	// DefaultTextNumPerm is the permutation budget of the per-text engine
	DefaultTextNumPerm = 32

	// DefaultAuthorThreshold is the Jaccard threshold of the author engine
	DefaultAuthorThreshold = 0.5

	// DefaultAuthorNumPerm is the permutation budget of the author engine
	DefaultAuthorNumPerm = 54

	// DefaultSamples is the number of candidate pairs drawn per run
	DefaultSamples = 3
)

// Input layout defaults for delimited tweet exports
const (
	// DefaultKeyColumn is the 0-indexed column holding the author
	DefaultKeyColumn = 2

	// DefaultTextColumn is the 0-indexed column holding the text
	DefaultTextColumn = 3

	// DefaultOutputFile is the report file written when no path is configured
	DefaultOutputFile = "match_samples.json"
)

// Graph generator defaults
const (
	// MinEdgeCost is the smallest random edge cost
	MinEdgeCost = 1

	// MaxEdgeCost is the largest random edge cost
	MaxEdgeCost = 10
)
