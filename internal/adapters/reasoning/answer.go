package reasoning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/resolver"
)

type wireAnswer struct {
	Value       *string  `json:"value"`
	Confidence  *float64 `json:"confidence"`
	SourceURLs  []string `json:"source_urls"`
	Explanation string   `json:"explanation"`
}

// stripFence removes a surrounding markdown code fence.
func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseAnswer decodes a field-resolution answer. Unknown keys, missing
// keys, out of range confidence and more than three URLs are rejected.
func ParseAnswer(raw string) (resolver.Answer, error) {
	dec := json.NewDecoder(bytes.NewBufferString(stripFence(raw)))
	dec.DisallowUnknownFields()

	var w wireAnswer
	if err := dec.Decode(&w); err != nil {
		return resolver.Answer{}, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if dec.More() {
		return resolver.Answer{}, fmt.Errorf("%w: trailing data", ErrSchema)
	}
	switch {
	case w.Value == nil || strings.TrimSpace(*w.Value) == "":
		return resolver.Answer{}, fmt.Errorf("%w: missing value", ErrSchema)
	case w.Confidence == nil:
		return resolver.Answer{}, fmt.Errorf("%w: missing confidence", ErrSchema)
	case *w.Confidence < 0 || *w.Confidence > 1:
		return resolver.Answer{}, fmt.Errorf("%w: confidence %v", ErrSchema, *w.Confidence)
	case len(w.SourceURLs) > model.MaxSourceURLs:
		return resolver.Answer{}, fmt.Errorf("%w: %d source urls", ErrSchema, len(w.SourceURLs))
	}
	return resolver.Answer{
		Value:       strings.TrimSpace(*w.Value),
		Confidence:  *w.Confidence,
		SourceURLs:  w.SourceURLs,
		Explanation: strings.TrimSpace(w.Explanation),
	}, nil
}
