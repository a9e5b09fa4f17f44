package search

import "unicode"

// Match is a half-open region of the document, measured in runes.
type Match struct {
	Start  int
	Length int
}

// Find returns the ordered, non-overlapping, case-insensitive literal matches
// of query in text. An empty query matches nothing.
func Find(query, text string) []Match {
	if query == "" {
		return nil
	}
	q := foldRunes(query)
	t := foldRunes(text)

	matches := make([]Match, 0)
	for i := 0; i+len(q) <= len(t); {
		if matchAt(t, q, i) {
			matches = append(matches, Match{Start: i, Length: len(q)})
			i += len(q)
			continue
		}
		i++
	}
	return matches
}

func matchAt(t, q []rune, at int) bool {
	for i, r := range q {
		if t[at+i] != r {
			return false
		}
	}
	return true
}

func foldRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}
