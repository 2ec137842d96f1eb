package search

import "strings"

// Stop words to filter out of queries before keyword lookup and verbatim checks.
// Question words are included since most queries are questions.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "be": {}, "is": {}, "are": {}, "was": {},
	"were": {}, "to": {}, "of": {}, "and": {}, "or": {}, "in": {}, "that": {},
	"have": {}, "has": {}, "it": {}, "for": {}, "not": {}, "on": {}, "with": {},
	"as": {}, "you": {}, "do": {}, "does": {}, "did": {}, "at": {}, "this": {},
	"but": {}, "by": {}, "from": {}, "what": {}, "which": {}, "who": {},
	"whom": {}, "when": {}, "where": {}, "why": {}, "how": {}, "about": {},
	"any": {}, "me": {}, "my": {}, "i": {}, "tell": {},
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation, and removes stop words.
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned == "" {
			continue
		}
		if _, stop := stopWords[cleaned]; stop {
			continue
		}
		filtered = append(filtered, cleaned)
	}

	return filtered
}

// containsAllQueryWords reports whether every filtered query word appears in
// one of the documents.
func containsAllQueryWords(query string, documents ...string) bool {
	queryWords := tokenizeAndFilter(query)
	if len(queryWords) == 0 {
		return false
	}

	docWordSet := make(map[string]struct{})
	for _, doc := range documents {
		for _, word := range tokenizeAndFilter(doc) {
			docWordSet[word] = struct{}{}
		}
	}

	for _, qWord := range queryWords {
		if _, ok := docWordSet[qWord]; !ok {
			return false
		}
	}
	return true
}
