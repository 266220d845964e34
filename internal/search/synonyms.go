package search

// Synonyms maps a canonical token to alternate spellings or translations.
// Entries are matched verbatim and must already be in normalized form;
// expansion is never transitive.
type Synonyms map[string][]string

// DefaultSynonyms is the table shipped with the service.
func DefaultSynonyms() Synonyms {
	return Synonyms{
		"ביצה":      {"ביצים"},
		"גבינה":     {"גבינת"},
		"חמאה":      {"מרגרינה"},
		"חלב":       {"משקה חלב", "milk"},
		"בטטה":      {"בטטות", "sweet potato", "sweetpotato"},
		"קינואה":    {"quinoa", "קינווה"},
		"תפוח אדמה": {"תפוחי אדמה", "תפו\"א", "potato", "potatoes"},
		"טופו":      {"tofu"},
		"שמן זית":   {"olive oil", "שמן-זית"},
	}
}

// Expand returns the token followed by its synonyms. The token itself is
// always the first element, even for a nil table.
func (s Synonyms) Expand(tok string) []string {
	alts := s[tok]
	out := make([]string, 0, 1+len(alts))
	out = append(out, tok)
	return append(out, alts...)
}
