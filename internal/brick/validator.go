// Package brick implements Brick vocabulary validation: exact tag lookup
// with SMASH-similarity suggestions on miss.
package brick

import (
	"fmt"
	"log/slog"
	"sort"
)

// DefaultSuggestionLimit is the number of similar tags suggested for an
// unrecognized input.
const DefaultSuggestionLimit = 5

// TagSource supplies the known tag vocabulary. Implementations must return
// the same set in the same order on every call; the order is the tie-break
// for equally-scored suggestions.
type TagSource interface {
	AllTags() ([]string, error)
}

// ValidationResult is the outcome of validating a single tag.
type ValidationResult struct {
	Valid       bool     `json:"valid"`
	Tag         string   `json:"tag"`
	Suggestions []string `json:"suggestions"`
}

// Validator checks strings against the tag vocabulary and ranks suggestions
// for misses.
type Validator struct {
	source TagSource
	limit  int
	logger *slog.Logger
}

// NewValidator creates a Validator reading from source. limit caps the number
// of suggestions per miss; zero or negative selects DefaultSuggestionLimit.
func NewValidator(source TagSource, limit int, logger *slog.Logger) *Validator {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	return &Validator{
		source: source,
		limit:  limit,
		logger: logger,
	}
}

// Validate checks whether tag is a recognized Brick tag. The lookup is
// case-sensitive and the input is used as-is: no trimming or case folding.
// On a miss the result carries up to the configured limit of known tags
// ranked by descending SMASH similarity. The empty string is an ordinary
// miss, not an error.
func (v *Validator) Validate(tag string) (*ValidationResult, error) {
	tags, err := v.source.AllTags()
	if err != nil {
		return nil, fmt.Errorf("loading tag vocabulary: %w", err)
	}

	for _, known := range tags {
		if known == tag {
			return &ValidationResult{
				Valid:       true,
				Tag:         tag,
				Suggestions: []string{},
			}, nil
		}
	}

	suggestions := TopMatches(tag, tags, v.limit)
	v.logger.Debug("Tag not found, ranked suggestions",
		"tag", tag,
		"suggestions", suggestions)

	return &ValidationResult{
		Valid:       false,
		Tag:         tag,
		Suggestions: suggestions,
	}, nil
}

// scoredCandidate pairs a candidate with its similarity to the query.
type scoredCandidate struct {
	value string
	score float64
}

// TopMatches ranks candidates by descending SMASH similarity to query and
// returns the best k. Candidates with equal scores keep their input order,
// so a deterministic candidate order gives a deterministic ranking. When k
// exceeds the candidate count, all candidates are returned.
func TopMatches(query string, candidates []string, k int) []string {
	scored := make([]scoredCandidate, len(candidates))
	for i, c := range candidates {
		scored[i] = scoredCandidate{value: c, score: Score(query, c)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if k > len(scored) {
		k = len(scored)
	}

	results := make([]string, k)
	for i := 0; i < k; i++ {
		results[i] = scored[i].value
	}
	return results
}
