package storage

import (
	"strings"
	"unicode"
)

// minTermLength drops single letters, which only add noise to the keyword index.
const minTermLength = 2

// Terms splits texts into lowercase index terms.
// Words are separated by anything that is not a letter or digit; duplicates
// are removed and first-seen order is kept.
func Terms(texts ...string) []string {
	seen := make(map[string]struct{})
	var terms []string
	for _, text := range texts {
		words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, word := range words {
			if len([]rune(word)) < minTermLength {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			terms = append(terms, word)
		}
	}
	return terms
}

// EntryTerms returns the index terms of an entry's enrichment fields.
func EntryTerms(keywords, persons, entities []string, location, topic string) []string {
	texts := make([]string, 0, len(keywords)+len(persons)+len(entities)+2)
	texts = append(texts, keywords...)
	texts = append(texts, persons...)
	texts = append(texts, entities...)
	texts = append(texts, location, topic)
	return Terms(texts...)
}
