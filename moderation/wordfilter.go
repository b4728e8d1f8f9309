package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// WordFilter detects banned dictionary words inside chat content with an
// Aho-Corasick automaton. Matching runs on a normalized view of the text:
// lowercase, leet-speak simplified, punctuation and spacing stripped, so
// "B.4.d.g.€r" still matches "badger".
type WordFilter struct {
	matcher *goahocorasick.Machine
}

// NewWordFilter builds the automaton from the dictionary. Entries that
// normalize to nothing (pure noise) are ignored; an empty dictionary yields a
// filter that never matches.
func NewWordFilter(words []string) (*WordFilter, error) {
	var patterns [][]rune
	for _, word := range words {
		normalized := normalizeRunes([]rune(word))
		if len(normalized) == 0 {
			continue
		}
		patterns = append(patterns, normalized)
	}
	if len(patterns) == 0 {
		return &WordFilter{}, nil
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &WordFilter{matcher: m}, nil
}

// Detect returns the normalized dictionary words found in content, in match
// order. Nil when nothing matches.
func (f *WordFilter) Detect(content string) []string {
	if f.matcher == nil {
		return nil
	}
	normalized := normalizeRunes([]rune(content))
	if len(normalized) == 0 {
		return nil
	}

	spans := f.matcher.MultiPatternSearch(normalized, false)
	if len(spans) == 0 {
		return nil
	}
	words := make([]string, 0, len(spans))
	for _, span := range spans {
		words = append(words, string(span.Word))
	}
	return words
}

// normalizeRunes lowercases, maps leet speak back to letters and drops noise.
func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
	}
	return out
}

// simplifyRune maps common leet speak characters back to their standard
// alphabet counterparts.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
