// Package keywords derives normalized 3D-model search terms from free-text
// prompts. Extraction is a pure function: no I/O, total over every string
// input including empty and non-ASCII text.
package keywords

import (
	"strings"
	"unicode"
)

// Extraction is the result of analysing a prompt.
type Extraction struct {
	// Keywords is the space-joined search phrase. Empty means "no query":
	// callers must not search on it.
	Keywords string
	// Category is the first matching category from the detection table, or
	// empty when none matched.
	Category string
	// Animated reports whether the prompt asks for motion.
	Animated bool
}

// maxKeywords is the number of tokens kept in the final search phrase.
const maxKeywords = 3

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "with": {},
	"by": {}, "about": {}, "like": {}, "as": {}, "of": {}, "from": {},
	"that": {}, "this": {}, "these": {}, "those": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "shall": {}, "should": {},
	"may": {}, "might": {}, "must": {}, "can": {}, "could": {},
	"i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {}, "they": {},
	"me": {}, "him": {}, "her": {}, "us": {}, "them": {},
	"my": {}, "your": {}, "his": {}, "its": {}, "our": {}, "their": {},
}

// categoryTable is scanned in declaration order; the first category with a
// trigger word present in the prompt wins. Order is the tie-break, so this is
// a slice rather than a map.
var categoryTable = []struct {
	name     string
	triggers []string
}{
	{"food", []string{"food", "fruit", "vegetable", "meal", "drink", "beverage", "dish", "cuisine"}},
	{"weapons", []string{"weapon", "sword", "gun", "rifle", "knife", "blade", "axe", "bow", "arrow"}},
	{"transport", []string{"car", "vehicle", "truck", "bus", "train", "plane", "boat", "ship", "bicycle"}},
	{"furniture", []string{"furniture", "chair", "table", "desk", "sofa", "bed", "cabinet", "shelf"}},
	{"nature", []string{"tree", "plant", "flower", "rock", "mountain", "river", "lake", "ocean", "forest"}},
	{"animals", []string{"animal", "dog", "cat", "bird", "fish", "horse", "cow", "lion", "tiger", "bear"}},
	{"buildings", []string{"building", "house", "skyscraper", "tower", "castle", "temple", "church", "office"}},
	{"characters", []string{"character", "person", "human", "man", "woman", "boy", "girl", "hero", "villain"}},
	{"scenes", []string{"scene", "landscape", "environment", "world", "room", "interior", "exterior"}},
}

var animationWords = []string{"animated", "moving", "animation", "motion", "walking", "running", "flying"}

// Extract derives search keywords plus category and animation hints from a
// prompt. An empty or whitespace-only prompt yields a zero Extraction.
func Extract(prompt string) Extraction {
	if strings.TrimSpace(prompt) == "" {
		return Extraction{}
	}

	lower := strings.ToLower(prompt)
	tokens := tokenize(lower)

	tokenSet := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		tokenSet[t] = struct{}{}
	}

	ext := Extraction{
		Category: detectCategory(tokenSet, lower),
		Animated: detectAnimation(tokenSet, lower),
	}

	// Prefer tokens that look like object nouns: not gerunds or adverbs, and
	// long enough to be meaningful.
	important := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !strings.HasSuffix(t, "ing") && !strings.HasSuffix(t, "ly") && len(t) > 3 {
			important = append(important, t)
		}
	}

	chosen := important
	if len(chosen) == 0 {
		chosen = tokens
	}
	if len(chosen) > maxKeywords {
		chosen = chosen[:maxKeywords]
	}
	ext.Keywords = strings.Join(chosen, " ")

	return ext
}

// tokenize lowercases are assumed done by the caller; it strips punctuation,
// splits on whitespace, and drops stop words and tokens of length <= 2.
func tokenize(lower string) []string {
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	fields := strings.Fields(b.String())
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) <= 2 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// detectCategory returns the first category whose trigger appears either as a
// whole token or as a substring of the raw lowercase prompt.
func detectCategory(tokens map[string]struct{}, lower string) string {
	for _, cat := range categoryTable {
		for _, trigger := range cat.triggers {
			if _, ok := tokens[trigger]; ok {
				return cat.name
			}
			if strings.Contains(lower, trigger) {
				return cat.name
			}
		}
	}
	return ""
}

// detectAnimation reports whether any motion word appears as a token or as a
// substring of the raw lowercase prompt.
func detectAnimation(tokens map[string]struct{}, lower string) bool {
	for _, w := range animationWords {
		if _, ok := tokens[w]; ok {
			return true
		}
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
