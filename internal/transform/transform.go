// Package transform applies rule-based rewrites to a single recipe:
// veganization through a substitution table and proportional scaling of
// ingredient amounts.
package transform

import (
	"errors"
	"fmt"

	"foodgenius/internal/recipe"
)

// ErrUnknownGoal is returned for a transformation goal other than veganize
// or scale.
var ErrUnknownGoal = errors.New("unknown transformation goal")

// Goal names a transformation.
type Goal string

const (
	GoalVeganize Goal = "veganize"
	GoalScale    Goal = "scale"
)

// ParseGoal validates a goal name.
func ParseGoal(s string) (Goal, error) {
	switch Goal(s) {
	case GoalVeganize, GoalScale:
		return Goal(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGoal, s)
}

// Substitute is one plant-based candidate for an animal-derived ingredient.
type Substitute struct {
	Name string `json:"name"`
	Note string `json:"note,omitempty"`
}

// Substitutions maps an animal-derived keyword to its candidates, best first.
type Substitutions map[string][]Substitute

// DefaultAnimalTerms is the ordered keyword list checked against ingredient
// names. The first term contained in a name decides the substitution.
var DefaultAnimalTerms = []string{
	"ביצה", "חמאה", "חלב", "גבינה", "גבינת", "עוף", "בשר", "דג", "דגים", "שמנת",
}

const (
	// VeganTitleSuffix is appended to the title of a veganized recipe.
	VeganTitleSuffix = " (גרסה טבעונית)"
	// NoSubstituteNote explains a dropped ingredient.
	NoSubstituteNote = "אין תחליף במאגר"
	// GenericSubstituteName replaces a candidate that has no name.
	GenericSubstituteName = "תחליף צמחי"
)

// Replacement records one veganize decision. To is nil when no candidate
// exists and the ingredient was dropped.
type Replacement struct {
	From string  `json:"from"`
	To   *string `json:"to"`
	Note string  `json:"note,omitempty"`
}

// VeganResult is the veganized view of a recipe.
type VeganResult struct {
	Title        string              `json:"title"`
	Ingredients  []recipe.Ingredient `json:"ingredients"`
	Steps        []string            `json:"steps"`
	Replacements []Replacement       `json:"replacements"`
}

// ScaleResult is the scaled view of a recipe.
type ScaleResult struct {
	Title       string              `json:"title"`
	Ingredients []recipe.Ingredient `json:"ingredients"`
	Steps       []string            `json:"steps"`
}

// Transformer holds the reference data the rules read. It is safe for
// concurrent use as long as the tables are not modified.
type Transformer struct {
	terms []string
	subs  Substitutions
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithAnimalTerms replaces the ordered keyword list.
func WithAnimalTerms(terms []string) Option {
	return func(t *Transformer) {
		t.terms = terms
	}
}

// New creates a Transformer over subs. A nil table substitutes nothing.
func New(subs Substitutions, opts ...Option) *Transformer {
	t := &Transformer{terms: DefaultAnimalTerms, subs: subs}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func steps(r *recipe.Recipe) []string {
	if r.Steps == nil {
		return []string{}
	}
	return r.Steps
}
