// Package assetmap holds the fixed keyword lookup tables that shortcut the
// network: procedural terms rendered as generated primitives, and hand-pinned
// asset URLs for common nouns. Lookups are pure and case-insensitive.
package assetmap

import "strings"

// Direct describes a keyword's fast-path disposition.
type Direct struct {
	// ProceduralOnly means the caller must render a generated primitive and
	// skip resolution entirely. URL is empty in that case.
	ProceduralOnly bool
	// URL is a pinned, hosted asset for the keyword.
	URL string
}

// proceduralKeywords are terms a generated shape serves better than any
// fetched mesh; they are intentionally never searched.
var proceduralKeywords = map[string]struct{}{
	"mountain": {},
	"water":    {},
	"lake":     {},
	"river":    {},
	"ocean":    {},
	"hill":     {},
	"forest":   {},
	"woods":    {},
	"woodland": {},
}

// pinnedURLs maps common nouns to specific hosted assets, bypassing both the
// provider and the cache.
var pinnedURLs = map[string]string{
	"car":    "https://static.poly.pizza/179e43ce-b9e0-40cf-8b99-641693d3207e.glb",
	"robot":  "https://static.poly.pizza/f1d12388-e39b-4157-b32a-646a1d089fc4.glb",
	"dragon": "https://static.poly.pizza/f1d12388-e39b-4157-b32a-646a1d089fc4.glb",
	"castle": "https://static.poly.pizza/44e4f447-5ba2-4ab9-ab5d-33d3b3c1f5de.glb",
	"house":  "https://static.poly.pizza/44e4f447-5ba2-4ab9-ab5d-33d3b3c1f5de.glb",
	"dog":    "https://static.poly.pizza/611d25c7-430f-4bb5-ab2c-d8f5f3cb9712.glb",
	"cat":    "https://static.poly.pizza/ba6d0ee3-bcc0-4ef0-9d3c-a3e245b41c77.glb",
	"tree":   "https://static.poly.pizza/2e6df40d-305c-4ebe-b61a-dcb2df03fb03.glb",
}

// searchTerms maps keywords and their synonyms to curated search phrases that
// return better low-poly results than the bare noun.
var searchTerms = map[string]string{
	"car":        "car low poly",
	"vehicle":    "car low poly",
	"automobile": "car low poly",

	"house":    "house low poly",
	"home":     "house low poly",
	"building": "building low poly",
	"castle":   "castle low poly",
	"fortress": "castle low poly",

	"dog":    "dog low poly",
	"puppy":  "dog low poly",
	"canine": "dog low poly",
	"cat":    "cat low poly",
	"feline": "cat low poly",

	"dragon": "dragon low poly",
	"drake":  "dragon low poly",

	"robot":   "robot low poly",
	"android": "robot low poly",
	"mech":    "robot low poly",

	"tree":  "tree low poly",
	"plant": "plant low poly",
}

// DefaultSearchTerm is queried when a fallback-quality result is wanted and no
// keyword is available.
const DefaultSearchTerm = "cube low poly"

// ResolveDirect looks up a keyword's fast path. The second return value is
// false when the keyword has neither a procedural mapping nor a pinned URL
// and the caller should proceed to the full resolver.
func ResolveDirect(keyword string) (Direct, bool) {
	k := strings.ToLower(strings.TrimSpace(keyword))
	if k == "" {
		return Direct{}, false
	}
	if _, ok := proceduralKeywords[k]; ok {
		return Direct{ProceduralOnly: true}, true
	}
	if url, ok := pinnedURLs[k]; ok {
		return Direct{URL: url}, true
	}
	return Direct{}, false
}

// IsProcedural reports whether the keyword belongs to the procedural set.
func IsProcedural(keyword string) bool {
	_, ok := proceduralKeywords[strings.ToLower(strings.TrimSpace(keyword))]
	return ok
}

// SearchTerm returns the curated provider search phrase for a keyword, or the
// keyword itself when no curated phrase exists.
func SearchTerm(keyword string) string {
	k := strings.ToLower(strings.TrimSpace(keyword))
	if term, ok := searchTerms[k]; ok {
		return term
	}
	return k
}
