package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Normalize folds s into matchable form: combining marks are stripped after
// compatibility decomposition, every rune outside ASCII letters and digits,
// the Hebrew block and the space becomes a space, and the result is
// lowercased and trimmed.
func Normalize(s string) string {
	decomposed, _, err := transform.String(stripMarks, s)
	if err != nil {
		decomposed = s
	}
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if keepRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.TrimSpace(strings.ToLower(b.String()))
}

func keepRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == ' ':
		return true
	case r >= 0x0590 && r <= 0x05FF:
		return true
	}
	return false
}

func isSeparator(r rune) bool {
	return r == ',' || r == ';' || unicode.IsSpace(r)
}

// Tokenize splits a raw query on commas, semicolons and whitespace, normalizes
// each piece and drops empties. Repeated tokens are kept once, in order of
// first appearance.
func Tokenize(query string) []string {
	var toks []string
	seen := make(map[string]struct{})
	for _, piece := range strings.FieldsFunc(query, isSeparator) {
		for _, t := range strings.Fields(Normalize(piece)) {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			toks = append(toks, t)
		}
	}
	return toks
}
