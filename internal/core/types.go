// Package core provides the shared types and error taxonomy for the
// model-resolution pipeline.
package core

import (
	"sort"
	"strings"
)

// DefaultLimit is the number of results requested from a provider when the
// caller does not specify one.
const DefaultLimit = 5

// SearchQuery is the normalized form of a model search derived from a prompt.
// Two semantically identical queries always compare equal field-by-field.
type SearchQuery struct {
	RawPrompt string `json:"raw_prompt"`
	Keywords  string `json:"keywords"`
	Category  string `json:"category,omitempty"`
	Animated  bool   `json:"animated,omitempty"`
	Limit     int    `json:"limit"`
}

// Normalized returns a copy with whitespace-trimmed lowercase keywords and the
// limit defaulted. RawPrompt is carried through untouched; it never
// participates in cache keying.
func (q SearchQuery) Normalized() SearchQuery {
	q.Keywords = strings.ToLower(strings.TrimSpace(q.Keywords))
	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	return q
}

// ModelRecord is the provider-agnostic description of one searchable 3D asset.
// Every field is populated; normalizers substitute safe defaults for anything
// a provider omits.
type ModelRecord struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	ThumbnailURL string   `json:"thumbnail_url"`
	DownloadURL  string   `json:"download_url"`
	Attribution  string   `json:"attribution"`
	Creator      string   `json:"creator"`
	TriCount     int      `json:"tri_count"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	Animated     bool     `json:"animated"`
}

// Defaulted fills zero-valued fields with the documented safe defaults so a
// record never carries an absent value downstream.
func (m ModelRecord) Defaulted() ModelRecord {
	if m.Title == "" {
		m.Title = "Unknown"
	}
	if m.Attribution == "" {
		m.Attribution = "Unknown"
	}
	if m.Creator == "" {
		m.Creator = "Unknown"
	}
	if m.Category == "" {
		m.Category = "Unknown"
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	return m
}

// SortedTags returns the record's tags in a stable order for display and
// comparison. The original slice is not modified.
func (m ModelRecord) SortedTags() []string {
	tags := make([]string, len(m.Tags))
	copy(tags, m.Tags)
	sort.Strings(tags)
	return tags
}
