// Package scoring computes explainable compatibility scores between members.
package scoring

import (
	"strings"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/signals"
)

// Score components.
const (
	BaseScore         = 30
	MaxScore          = 100
	tagPoints         = 10
	maxTagScore       = 40
	roleScore         = 20
	serendipityScore  = 10
	sharedReasonFloor = 20
)

// Reasons, in the order they are reported.
const (
	ReasonShared        = "Shared interests or skills"
	ReasonRole          = "Similar roles/seniority"
	ReasonComplementary = "Complementary backgrounds"
	ReasonEvent         = "Overlapping event context"
)

// Input is the part of a member the scorer looks at.
type Input struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// Score is a compatibility score with its reasons. Reasons is never empty.
type Score struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// InputFromSignals adapts stored signals to scorer input. Persona
// vocabulary tags are shared by every member of a kind and are left out.
func InputFromSignals(s *model.MatchSignals) Input {
	all := s.MatchTags()
	tags := make([]string, 0, len(all))
	for _, t := range all {
		if !signals.PersonaVocabularyTag(t) {
			tags = append(tags, t)
		}
	}
	return Input{Title: s.Title, Tags: tags}
}

// ScorePair scores a against b. It is pure and symmetric in its tag and
// title checks.
func ScorePair(a, b Input) Score {
	tags := min(maxTagScore, sharedTags(a.Tags, b.Tags)*tagPoints)

	ta, tb := strings.TrimSpace(a.Title), strings.TrimSpace(b.Title)
	role := 0
	if fa, fb := firstToken(ta), firstToken(tb); fa != "" && fa == fb {
		role = roleScore
	}
	serendipity := 0
	if ta != "" && tb != "" && ta != tb {
		serendipity = serendipityScore
	}

	out := Score{Score: min(MaxScore, BaseScore+tags+role+serendipity)}
	if tags >= sharedReasonFloor {
		out.Reasons = append(out.Reasons, ReasonShared)
	}
	if role > 0 {
		out.Reasons = append(out.Reasons, ReasonRole)
	}
	if serendipity > 0 {
		out.Reasons = append(out.Reasons, ReasonComplementary)
	}
	if len(out.Reasons) == 0 {
		out.Reasons = []string{ReasonEvent}
	}
	return out
}

func firstToken(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}

// sharedTags counts distinct tags present in both lists, ignoring case.
func sharedTags(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			set[t] = struct{}{}
		}
	}
	n := 0
	for _, t := range b {
		t = strings.ToLower(strings.TrimSpace(t))
		if _, ok := set[t]; ok {
			n++
			delete(set, t)
		}
	}
	return n
}
