package recipe

import (
	"encoding/json"
	"strings"
)

// Ingredient is a single line of a recipe's ingredient list.
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount,omitempty"`
	Unit   string `json:"unit,omitempty"`
}

// Recipe represents one dish in the catalog.
type Recipe struct {
	ID          string          `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Image       string          `json:"image,omitempty" db:"image"`
	Ingredients []Ingredient    `json:"ingredients"`
	Steps       []string        `json:"steps"`
	Tags        []string        `json:"tags,omitempty"`
	Nutrition   json.RawMessage `json:"nutrition,omitempty"`
	Source      string          `json:"source,omitempty" db:"source"`
	Extra       map[string]any  `json:"extra,omitempty"`
}

// Summary is the search-result view of a recipe.
type Summary struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Image     *string         `json:"image"`
	Nutrition json.RawMessage `json:"nutrition"`
	Tags      []string        `json:"tags"`
}

// Detail is the full view returned for a single recipe.
type Detail struct {
	Summary
	Ingredients []Ingredient   `json:"ingredients"`
	Steps       []string       `json:"steps"`
	Source      *string        `json:"source"`
	Extra       map[string]any `json:"extra"`
}

// ImageURLFunc turns an image public id into a URL a client can fetch.
type ImageURLFunc func(publicID string) string

// ToSummary renders the summary view. imageURL may be nil, in which case the
// raw public id is used.
func (r *Recipe) ToSummary(imageURL ImageURLFunc) Summary {
	s := Summary{
		ID:        r.ID,
		Title:     r.Title,
		Nutrition: r.Nutrition,
		Tags:      r.Tags,
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if len(s.Nutrition) == 0 {
		s.Nutrition = json.RawMessage("null")
	}
	if r.Image != "" {
		url := r.Image
		if imageURL != nil {
			url = imageURL(r.Image)
		}
		if url != "" {
			s.Image = &url
		}
	}
	return s
}

// ToDetail renders the full view.
func (r *Recipe) ToDetail(imageURL ImageURLFunc) Detail {
	d := Detail{
		Summary:     r.ToSummary(imageURL),
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
		Extra:       r.Extra,
	}
	if d.Ingredients == nil {
		d.Ingredients = []Ingredient{}
	}
	if d.Steps == nil {
		d.Steps = []string{}
	}
	if d.Extra == nil {
		d.Extra = map[string]any{}
	}
	if r.Source != "" {
		src := r.Source
		d.Source = &src
	}
	return d
}

// IngredientNames returns the ingredient names in display order.
func (r *Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		names = append(names, i.Name)
	}
	return names
}

// ContextText renders the recipe as plain text suitable for an LLM prompt.
func (r *Recipe) ContextText() string {
	parts := make([]string, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		if i.Name == "" {
			continue
		}
		line := i.Name
		if i.Amount != "" {
			line += " " + i.Amount
		}
		parts = append(parts, strings.TrimSpace(line))
	}
	return "Recipe: " + r.Title + "\nIngredients: " + strings.Join(parts, ", ") +
		"\nSteps: " + strings.Join(r.Steps, " ") + "\n\n"
}
