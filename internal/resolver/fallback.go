package resolver

import "sceneforge/internal/core"

// fallbackAsset is the process-wide last-resort model reference: a bundled
// placeholder cube that is always resolvable. It is never mutated and never
// expires.
var fallbackAsset = core.ModelRecord{
	ID:           "fallback-cube",
	Title:        "Placeholder Cube",
	ThumbnailURL: "/placeholder-cube.png",
	DownloadURL:  "/fallback-cube.glb",
	Attribution:  "sceneforge bundled asset",
	Creator:      "sceneforge",
	TriCount:     12,
	Category:     "props",
	Tags:         []string{"cube", "fallback", "placeholder"},
	Animated:     false,
}

// Fallback returns the guaranteed-resolvable placeholder record. Every call
// returns an identical value; callers get a copy with its own tag slice so
// the constant can never be mutated through a result.
func Fallback() core.ModelRecord {
	rec := fallbackAsset
	rec.Tags = append([]string(nil), fallbackAsset.Tags...)
	return rec
}

// proceduralRecord builds the synthetic record handed to the rendering layer
// when a keyword belongs to the procedural set. Its empty download URL is the
// signal to generate a primitive instead of loading a mesh.
func proceduralRecord(keyword, category string) core.ModelRecord {
	rec := core.ModelRecord{
		ID:       "procedural-" + keyword,
		Title:    keyword,
		Category: category,
		Tags:     []string{keyword, "procedural"},
	}
	return rec.Defaulted()
}

// pinnedRecord builds the record for a hand-pinned asset URL.
func pinnedRecord(keyword, url, category string) core.ModelRecord {
	rec := core.ModelRecord{
		ID:          "pinned-" + keyword,
		Title:       keyword,
		DownloadURL: url,
		Category:    category,
		Tags:        []string{keyword, "pinned"},
	}
	return rec.Defaulted()
}
