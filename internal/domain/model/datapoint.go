// Package model contains domain models passed between layers.
package model

import (
	"math"
	"strings"
)

// MaxSourceURLs caps DataPoint.SourceURLs.
const MaxSourceURLs = 3

// SourceType classifies where a candidate value was collected.
type SourceType string

// Known source types. Anything else is treated as unranked.
const (
	SourceFirstParty SourceType = "first_party"
	SourceVendorAPI  SourceType = "vendor_api"
	SourcePress      SourceType = "press"
	SourceSocial     SourceType = "social"
	SourceDirectory  SourceType = "directory"
	SourcePrior      SourceType = "prior"
	SourceUserInput  SourceType = "user_input"
)

// Decision sources recorded on a DataPoint that are not collector types.
const (
	DecidedByReasoning = "reasoning"
	DecidedByFallback  = "fallback"
)

// CandidateValue is one collector's pre-fusion input for a field.
type CandidateValue struct {
	Value      string     `json:"value"`
	Confidence float64    `json:"confidence"`
	SourceURL  string     `json:"source_url,omitempty"`
	SourceType SourceType `json:"source_type"`
}

// DataPoint is a fused fact.
type DataPoint struct {
	Value      string   `json:"value"`
	Confidence float64  `json:"confidence"`
	SourceURLs []string `json:"source_urls"`
	// Source is the winning source type, or one of the DecidedBy* values.
	Source string `json:"source,omitempty"`
}

// Empty reports whether the data point carries no value.
func (d DataPoint) Empty() bool {
	return strings.TrimSpace(d.Value) == ""
}

// ClampConfidence bounds c to [0,1]. NaN maps to 0.
func ClampConfidence(c float64) float64 {
	switch {
	case math.IsNaN(c):
		return 0
	case c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}

// CapURLs removes blanks and duplicates and keeps at most MaxSourceURLs,
// preserving order.
func CapURLs(urls []string) []string {
	out := make([]string, 0, MaxSourceURLs)
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
		if len(out) == MaxSourceURLs {
			break
		}
	}
	return out
}

// Field names understood by the resolver and normalizer.
const (
	FieldName      = "name"
	FieldEmail     = "email"
	FieldAvatarURL = "avatar_url"
	FieldHeadline  = "headline"
	FieldTitle     = "title"
	FieldCompany   = "company"
	FieldGeo       = "geo"
	FieldBio       = "bio"
)

// FreeTextField reports whether a field may carry a synthesized summary
// instead of one of its candidate values.
func FreeTextField(field string) bool {
	return field == FieldBio || field == FieldHeadline
}
