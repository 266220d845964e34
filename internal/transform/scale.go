package transform

import (
	"math"
	"regexp"
	"strconv"

	"foodgenius/internal/recipe"
)

var numeral = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

// Scale multiplies the first numeral in every ingredient amount by factor.
// The factor is not validated; callers derive it from serving counts.
func (t *Transformer) Scale(r *recipe.Recipe, factor float64) ScaleResult {
	out := ScaleResult{
		Title:       r.Title,
		Ingredients: make([]recipe.Ingredient, 0, len(r.Ingredients)),
		Steps:       steps(r),
	}
	for _, ing := range r.Ingredients {
		ing.Amount = ScaleAmount(ing.Amount, factor)
		out.Ingredients = append(out.Ingredients, ing)
	}
	return out
}

// ScaleAmount rewrites the first decimal numeral in amount, rounded to two
// places and printed in its shortest form. Text without a numeral is returned
// as is.
func ScaleAmount(amount string, factor float64) string {
	loc := numeral.FindStringIndex(amount)
	if loc == nil {
		return amount
	}
	n, err := strconv.ParseFloat(amount[loc[0]:loc[1]], 64)
	if err != nil {
		return amount
	}
	scaled := math.Round(n*factor*100) / 100
	if scaled == 0 {
		scaled = 0 // avoid "-0"
	}
	return amount[:loc[0]] + strconv.FormatFloat(scaled, 'f', -1, 64) + amount[loc[1]:]
}
