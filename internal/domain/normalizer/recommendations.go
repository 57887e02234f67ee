package normalizer

import (
	"strings"

	"github.com/okian/affinity/internal/domain/model"
)

var recommendationRules = map[model.PersonaKind]model.Recommendations{
	model.PersonaInvestor: {
		GoalSuggestions:   []string{"Meet founders raising in your focus sectors", "Find co-investors for upcoming rounds"},
		MissionPack:       []string{"Review five founder profiles", "Host an office-hours slot", "Share your investment thesis"},
		ConnectionTargets: []string{"Founder", "Investor"},
		SponsorTargets:    []string{"Fund administration", "Legal services"},
	},
	model.PersonaFounder: {
		GoalSuggestions:   []string{"Meet investors who back your stage", "Hire your next key role"},
		MissionPack:       []string{"Pitch to three investors", "Post an open role", "Ask an advisor for feedback"},
		ConnectionTargets: []string{"Investor", "Advisor", "Operator"},
		SponsorTargets:    []string{"Cloud credits", "Banking", "Recruiting"},
	},
	model.PersonaOperator: {
		GoalSuggestions:   []string{"Meet founders who need your expertise", "Explore your next role"},
		MissionPack:       []string{"List the services you offer", "Join a topic roundtable"},
		ConnectionTargets: []string{"Founder", "Operator"},
		SponsorTargets:    []string{"Tooling", "Training"},
	},
	model.PersonaAdvisor: {
		GoalSuggestions:   []string{"Find founders to advise", "Grow your advisory practice"},
		MissionPack:       []string{"Offer two mentoring sessions", "Publish your areas of expertise"},
		ConnectionTargets: []string{"Founder", "Investor"},
		SponsorTargets:    []string{"Professional services"},
	},
	model.PersonaOther: {
		GoalSuggestions:   []string{"Meet people who share your interests"},
		MissionPack:       []string{"Complete your profile", "Join a topic roundtable"},
		ConnectionTargets: []string{"Operator", "Founder"},
		SponsorTargets:    []string{},
	},
}

// Recommend builds the recommendation block for a persona kind and the
// event's topics. Every list is non-nil.
func Recommend(kind model.PersonaKind, topics []string) model.Recommendations {
	rule, ok := recommendationRules[kind]
	if !ok {
		rule = recommendationRules[model.PersonaOther]
	}
	out := model.Recommendations{
		GoalSuggestions:   append([]string{}, rule.GoalSuggestions...),
		MissionPack:       append([]string{}, rule.MissionPack...),
		ConnectionTargets: append([]string{}, rule.ConnectionTargets...),
		SponsorTargets:    append([]string{}, rule.SponsorTargets...),
	}
	for _, t := range topics {
		if t = strings.TrimSpace(t); t != "" {
			out.GoalSuggestions = append(out.GoalSuggestions, "Connect with people working on "+t)
		}
	}
	return out
}
