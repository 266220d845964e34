package transform

import (
	"strings"

	"foodgenius/internal/recipe"
)

// Veganize swaps every ingredient whose name contains an animal term for the
// first substitute listed under that term. Ingredients without a substitute
// are dropped and reported with a note. Steps are returned untouched.
func (t *Transformer) Veganize(r *recipe.Recipe) VeganResult {
	out := VeganResult{
		Title:        r.Title + VeganTitleSuffix,
		Ingredients:  make([]recipe.Ingredient, 0, len(r.Ingredients)),
		Steps:        steps(r),
		Replacements: []Replacement{},
	}

	for _, ing := range r.Ingredients {
		term, ok := t.matchTerm(ing.Name)
		if !ok {
			out.Ingredients = append(out.Ingredients, ing)
			continue
		}

		options := t.subs[term]
		if len(options) == 0 {
			out.Replacements = append(out.Replacements, Replacement{From: ing.Name, Note: NoSubstituteNote})
			continue
		}

		swapped := options[0].Name
		if swapped == "" {
			swapped = GenericSubstituteName
		}
		out.Replacements = append(out.Replacements, Replacement{From: ing.Name, To: &swapped})
		out.Ingredients = append(out.Ingredients, recipe.Ingredient{Name: swapped})
	}
	return out
}

func (t *Transformer) matchTerm(name string) (string, bool) {
	for _, term := range t.terms {
		if term != "" && strings.Contains(name, term) {
			return term, true
		}
	}
	return "", false
}
