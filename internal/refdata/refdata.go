// Package refdata loads the synonym and substitution tables from JSON files
// and serves read-only snapshots of them.
package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"

	"foodgenius/internal/search"
	"foodgenius/internal/transform"
)

// Store holds the current reference tables. Snapshots returned by its
// getters must not be modified.
type Store struct {
	synonymsPath      string
	substitutionsPath string
	logger            *zap.Logger

	synonyms      atomic.Pointer[search.Synonyms]
	substitutions atomic.Pointer[transform.Substitutions]
}

// Load reads both tables. An empty synonyms path selects the built-in table.
// A missing or malformed file yields an empty table and a warning, never an
// error.
func Load(synonymsPath, substitutionsPath string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		synonymsPath:      synonymsPath,
		substitutionsPath: substitutionsPath,
		logger:            logger,
	}

	syn := search.DefaultSynonyms()
	if synonymsPath != "" {
		loaded, err := ReadSynonyms(synonymsPath)
		if err != nil {
			logger.Warn("synonym table unavailable, using empty table", zap.String("path", synonymsPath), zap.Error(err))
			loaded = search.Synonyms{}
		}
		syn = loaded
	}
	s.synonyms.Store(&syn)

	subs := transform.Substitutions{}
	if substitutionsPath != "" {
		loaded, err := ReadSubstitutions(substitutionsPath)
		if err != nil {
			logger.Warn("substitution table unavailable, using empty table", zap.String("path", substitutionsPath), zap.Error(err))
		} else {
			subs = loaded
		}
	}
	s.substitutions.Store(&subs)

	logger.Info("reference data loaded", zap.Int("synonyms", len(syn)), zap.Int("substitutions", len(subs)))
	return s
}

// NewStatic wraps fixed tables, for tests and the CLI.
func NewStatic(syn search.Synonyms, subs transform.Substitutions) *Store {
	s := &Store{logger: zap.NewNop()}
	s.synonyms.Store(&syn)
	s.substitutions.Store(&subs)
	return s
}

// Synonyms returns the current synonym table.
func (s *Store) Synonyms() search.Synonyms {
	return *s.synonyms.Load()
}

// Substitutions returns the current substitution table.
func (s *Store) Substitutions() transform.Substitutions {
	return *s.substitutions.Load()
}

// ReloadSynonyms re-reads the synonym file. On failure the previous table is
// kept and the error returned.
func (s *Store) ReloadSynonyms() error {
	if s.synonymsPath == "" {
		return nil
	}
	syn, err := ReadSynonyms(s.synonymsPath)
	if err != nil {
		return err
	}
	s.synonyms.Store(&syn)
	s.logger.Info("synonym table reloaded", zap.String("path", s.synonymsPath), zap.Int("entries", len(syn)))
	return nil
}

// ReloadSubstitutions re-reads the substitution file. On failure the previous
// table is kept and the error returned.
func (s *Store) ReloadSubstitutions() error {
	if s.substitutionsPath == "" {
		return nil
	}
	subs, err := ReadSubstitutions(s.substitutionsPath)
	if err != nil {
		return err
	}
	s.substitutions.Store(&subs)
	s.logger.Info("substitution table reloaded", zap.String("path", s.substitutionsPath), zap.Int("entries", len(subs)))
	return nil
}

// ReadSynonyms parses a JSON object of token to alternate spellings.
func ReadSynonyms(path string) (search.Synonyms, error) {
	var syn search.Synonyms
	if err := readJSON(path, &syn); err != nil {
		return nil, err
	}
	if syn == nil {
		syn = search.Synonyms{}
	}
	return syn, nil
}

// ReadSubstitutions parses a JSON object of keyword to candidate objects.
func ReadSubstitutions(path string) (transform.Substitutions, error) {
	var subs transform.Substitutions
	if err := readJSON(path, &subs); err != nil {
		return nil, err
	}
	if subs == nil {
		subs = transform.Substitutions{}
	}
	return subs, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return nil
}
