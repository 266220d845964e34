package search

import (
	"fmt"
	"sort"
	"strings"

	"foodgenius/internal/recipe"
)

// Mode selects how many query tokens a recipe must hit to qualify.
type Mode string

const (
	// ModeAnd requires every query token to hit.
	ModeAnd Mode = "AND"
	// ModeOr requires at least MinHits distinct tokens to hit.
	ModeOr Mode = "OR"
)

// ParseMode accepts "AND" or "OR" in any case. An empty string means AND.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(ModeAnd):
		return ModeAnd, nil
	case string(ModeOr):
		return ModeOr, nil
	}
	return "", fmt.Errorf("unknown search mode %q", s)
}

// Options controls a single search call.
type Options struct {
	Limit   int
	Mode    Mode
	MinHits int
}

// DefaultOptions mirrors the HTTP defaults.
func DefaultOptions() Options {
	return Options{Limit: 30, Mode: ModeAnd, MinHits: 1}
}

// Result is one ranked recipe.
type Result struct {
	Recipe *recipe.Recipe
	Hits   int
	Score  int
}

// Engine ranks recipes against free-text ingredient queries.
type Engine struct {
	synonyms Synonyms
}

// NewEngine creates an engine over the given synonym table. A nil table
// matches tokens only against themselves.
func NewEngine(synonyms Synonyms) *Engine {
	return &Engine{synonyms: synonyms}
}

// Search ranks catalog against query. An empty query returns the first Limit
// recipes in catalog order. Otherwise only qualifying recipes are returned,
// ordered by hits and then score, with ties kept in catalog order. The
// catalog is not modified.
func (e *Engine) Search(query string, catalog []recipe.Recipe, opts Options) []Result {
	limit := opts.Limit
	if limit <= 0 || len(catalog) == 0 {
		return []Result{}
	}

	toks := Tokenize(query)
	if len(toks) == 0 {
		n := min(limit, len(catalog))
		out := make([]Result, n)
		for i := 0; i < n; i++ {
			out[i] = Result{Recipe: &catalog[i]}
		}
		return out
	}

	expansions := make([][]string, len(toks))
	for i, t := range toks {
		expansions[i] = e.synonyms.Expand(t)
	}

	var ranked []Result
	for i := range catalog {
		rec := &catalog[i]
		hits, score := scoreRecipe(rec, toks, expansions, opts)
		if score <= 0 {
			continue
		}
		ranked = append(ranked, Result{Recipe: rec, Hits: hits, Score: score})
	}

	// hits dominate; score breaks ties within equal hits
	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].Hits != ranked[b].Hits {
			return ranked[a].Hits > ranked[b].Hits
		}
		return ranked[a].Score > ranked[b].Score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	if ranked == nil {
		ranked = []Result{}
	}
	return ranked
}

// scoreRecipe returns the hit count and the score, which is 0 when the recipe
// does not satisfy the match mode.
func scoreRecipe(rec *recipe.Recipe, toks []string, expansions [][]string, opts Options) (int, int) {
	title := Normalize(rec.Title)
	names := make([]string, 0, len(rec.Ingredients))
	for _, ing := range rec.Ingredients {
		names = append(names, Normalize(ing.Name))
	}
	hay := title + " " + strings.Join(names, " ")

	hits := 0
	for _, alts := range expansions {
		for _, v := range alts {
			if v != "" && strings.Contains(hay, v) {
				hits++
				break
			}
		}
	}

	if !qualifies(hits, len(toks), opts) {
		return hits, 0
	}

	bonus := 0
	for _, t := range toks {
		bonus += strings.Count(title, t)
	}
	return hits, hits*10 + bonus
}

func qualifies(hits, total int, opts Options) bool {
	switch opts.Mode {
	case ModeOr:
		return hits >= max(opts.MinHits, 1)
	default:
		return hits == total
	}
}
