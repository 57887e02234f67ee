package signals

import (
	"strings"

	"github.com/okian/affinity/internal/domain/model"
)

// ProfileCompletion is the share of profile sections that are filled, 0-100.
func ProfileCompletion(p *model.CanonicalProfile) int {
	l := p.Links
	checks := []bool{
		!p.Name.Empty(),
		!p.Email.Empty(),
		!p.AvatarURL.Empty(),
		!p.Headline.Empty(),
		!p.CurrentRole.Title.Empty(),
		!p.CurrentRole.Company.Empty(),
		!p.Geo.Empty(),
		!p.Bio.Empty(),
		strings.TrimSpace(l.Website+l.GitHub+l.X+l.LinkedIn+l.Company) != "",
		len(p.Industries) > 0,
		len(p.SkillsKeywords) > 0,
		len(p.InterestsTopics) > 0,
	}
	filled := 0
	for _, ok := range checks {
		if ok {
			filled++
		}
	}
	return (filled*100 + len(checks)/2) / len(checks)
}

func trustSignals(m *model.Member) model.TrustSignals {
	v := m.Verification
	links := make(map[string]model.VerifiedLink, len(v.Links))
	for platform, link := range v.Links {
		links[platform] = link
	}
	return model.TrustSignals{
		VerifiedEmail:     v.EmailVerified,
		VerifiedPhone:     v.PhoneVerified,
		ProfileCompletion: ProfileCompletion(&m.Normalized.Profile),
		VerifiedLinks:     links,
		MutualConnections: max(v.MutualConnections, 0),
		Endorsements:      max(v.Endorsements, 0),
		EventsAttended:    max(v.EventsAttended, 0),
	}
}
