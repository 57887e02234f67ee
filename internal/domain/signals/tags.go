package signals

import (
	"github.com/okian/affinity/internal/domain/model"
)

type vocabulary struct {
	intent string
	supply []string
	demand []string
}

var vocabularies = map[model.PersonaKind]vocabulary{
	model.PersonaInvestor: {intent: "deal_flow", supply: []string{"capital", "investor_network"}, demand: []string{"deal_flow", "founders"}},
	model.PersonaFounder:  {intent: "fundraising", supply: []string{"product", "equity"}, demand: []string{"funding", "talent", "advisors"}},
	model.PersonaOperator: {intent: "opportunities", supply: []string{"operational_expertise"}, demand: []string{"opportunities"}},
	model.PersonaAdvisor:  {intent: "advising", supply: []string{"advisory", "mentorship"}, demand: []string{"advisory_clients"}},
	model.PersonaOther:    {intent: "networking", demand: []string{"networking"}},
}

var vocabularyTags = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, v := range vocabularies {
		for _, t := range v.supply {
			set[t] = struct{}{}
		}
		for _, t := range v.demand {
			set[t] = struct{}{}
		}
	}
	return set
}()

// PersonaVocabularyTag reports whether tag comes from a persona's fixed
// vocabulary rather than from the member's own profile.
func PersonaVocabularyTag(tag string) bool {
	_, ok := vocabularyTags[tag]
	return ok
}

func vocabularyFor(kind model.PersonaKind) vocabulary {
	if v, ok := vocabularies[kind]; ok {
		return v
	}
	return vocabularies[model.PersonaOther]
}

type tagFamilies struct {
	supply, demand, icp, geo, stage []string
}

func families(np *model.NormalizedProfile) tagFamilies {
	p := &np.Profile
	v := vocabularyFor(np.Persona.Kind)

	var supply, demand, icp, geos, stage []string
	if inv, ok := np.Persona.InvestorDetails(); ok {
		icp = inv.Sectors
		geos = inv.Geographies
		stage = inv.Stages
	}
	if f, ok := np.Persona.FounderDetails(); ok {
		icp = f.Sectors
		demand = f.Hiring
		stage = []string{f.Stage}
	}
	if op, ok := np.Persona.OperatorDetails(); ok {
		supply = append(append(supply, op.Expertise...), op.Services...)
		demand = op.OpenTo
	}
	if adv, ok := np.Persona.AdvisorDetails(); ok {
		supply = append(append(supply, adv.Expertise...), adv.Services...)
	}

	return tagFamilies{
		supply: model.Tags(v.supply, p.SkillsKeywords, supply),
		demand: model.Tags(v.demand, p.InterestsTopics, demand),
		icp:    model.Tags(p.Industries, icp),
		geo:    GeoTags(append([]string{p.Geo.Value}, geos...)...),
		stage:  model.Tags(stage),
	}
}
