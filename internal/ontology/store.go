// Package ontology provides the Brick vocabulary used by the validation
// tools. The vocabulary (tags, classes, properties) ships embedded in the
// binary; parsing the Brick schema itself happens upstream, this package
// only serves the already-extracted local names.
package ontology

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

//go:embed data/tags.txt data/classes.txt data/properties.txt
var vocabFS embed.FS

// ErrUnavailable indicates the vocabulary could not be loaded. The load is
// local and deterministic, so retrying without fixing the data is pointless.
var ErrUnavailable = errors.New("brick vocabulary unavailable")

// vocabulary holds the loaded word lists. Immutable after load.
type vocabulary struct {
	tags       []string
	tagSet     map[string]struct{}
	classes    []string
	properties []string
}

// Store serves the Brick vocabulary. The underlying data is loaded once on
// first use and shared by all subsequent reads, so a Store is safe for
// concurrent use.
type Store struct {
	logger *slog.Logger
	load   func() (*vocabulary, error)
}

// NewStore creates a Store backed by the embedded vocabulary data.
func NewStore(logger *slog.Logger) *Store {
	s := &Store{logger: logger}
	s.load = sync.OnceValues(func() (*vocabulary, error) {
		vocab, err := loadVocabulary()
		if err != nil {
			logger.Error("Failed to load brick vocabulary", "error", err)
			return nil, err
		}
		logger.Info("Loaded brick vocabulary",
			"tags", len(vocab.tags),
			"classes", len(vocab.classes),
			"properties", len(vocab.properties))
		return vocab, nil
	})
	return s
}

// AllTags returns the complete deduplicated tag vocabulary in sorted order.
// The order is stable across calls, which keeps downstream similarity
// rankings deterministic on score ties.
func (s *Store) AllTags() ([]string, error) {
	vocab, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(vocab.tags))
	copy(out, vocab.tags)
	return out, nil
}

// AllClasses returns all known Brick class names in sorted order.
func (s *Store) AllClasses() ([]string, error) {
	vocab, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(vocab.classes))
	copy(out, vocab.classes)
	return out, nil
}

// AllProperties returns all known Brick property names in sorted order.
func (s *Store) AllProperties() ([]string, error) {
	vocab, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(vocab.properties))
	copy(out, vocab.properties)
	return out, nil
}

// HasTag reports whether tag is in the vocabulary. Matching is
// case-sensitive: "Air" is a tag, "air" is not.
func (s *Store) HasTag(tag string) (bool, error) {
	vocab, err := s.load()
	if err != nil {
		return false, err
	}
	_, ok := vocab.tagSet[tag]
	return ok, nil
}

// Decompose splits a compound Brick class name into its constituent tag
// tokens, preserving source order. Brick composes class names from tags
// joined by underscores, e.g. "Zone_Air_Temperature_Sensor" decomposes to
// ["Zone", "Air", "Temperature", "Sensor"].
func (s *Store) Decompose(term string) []string {
	parts := strings.Split(term, "_")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		tags = append(tags, p)
	}
	return tags
}

// loadVocabulary reads the embedded word lists.
func loadVocabulary() (*vocabulary, error) {
	tags, err := loadWordList("data/tags.txt")
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: tag list is empty", ErrUnavailable)
	}
	classes, err := loadWordList("data/classes.txt")
	if err != nil {
		return nil, err
	}
	properties, err := loadWordList("data/properties.txt")
	if err != nil {
		return nil, err
	}

	tagSet := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		tagSet[t] = struct{}{}
	}

	return &vocabulary{
		tags:       tags,
		tagSet:     tagSet,
		classes:    classes,
		properties: properties,
	}, nil
}

// loadWordList reads one embedded list: one entry per line, blank lines and
// '#' comments skipped, duplicates dropped, result sorted.
func loadWordList(path string) ([]string, error) {
	f, err := vocabFS.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnavailable, path, err)
	}
	defer f.Close()

	seen := make(map[string]struct{})
	var words []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, path, err)
	}

	sort.Strings(words)
	return words, nil
}
