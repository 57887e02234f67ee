package loadgen

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/pkg/logger"
)

type archetype struct {
	kind      model.PersonaKind
	titles    []string
	companies []string
	persona   func(i int, company string) model.Persona
}

var (
	sectors   = []string{"fintech", "climate", "healthtech", "devtools", "edtech", "robotics"}
	stages    = []string{"pre-seed", "seed", "series a", "series b"}
	locations = []string{"Berlin, Germany", "London, UK", "San Francisco, CA", "New York, NY", "Paris, France", "Singapore"}
	expertise = []string{"go-to-market", "pricing", "hiring", "fundraising", "product strategy", "security"}
)

func pick(list []string, i int) string {
	return list[i%len(list)]
}

var archetypes = []archetype{
	{
		kind:      model.PersonaInvestor,
		titles:    []string{"Partner", "Principal", "Managing Partner"},
		companies: []string{"Northwind Ventures", "Blue Harbor Capital", "Seedcraft"},
		persona: func(i int, company string) model.Persona {
			return model.Persona{Kind: model.PersonaInvestor, Investor: &model.InvestorBlock{
				Firm:        company,
				CheckSize:   pick([]string{"250K", "1M", "1.5M"}, i),
				FundSize:    pick([]string{"50M", "120M", "1.2B"}, i),
				Stages:      []string{pick(stages, i), pick(stages, i+1)},
				Sectors:     []string{pick(sectors, i), pick(sectors, i+2)},
				Geographies: []string{pick(locations, i)},
			}}
		},
	},
	{
		kind:      model.PersonaFounder,
		titles:    []string{"Founder & CEO", "Co-founder & CTO", "Founder"},
		companies: []string{"Acme Robotics", "Lumen Health", "Gridwise"},
		persona: func(i int, company string) model.Persona {
			return model.Persona{Kind: model.PersonaFounder, Founder: &model.FounderBlock{
				Company:     company,
				Stage:       pick(stages, i),
				RaiseAmount: pick([]string{"2M", "5M", "750K"}, i),
				Revenue:     pick([]string{"100K", "1.2M", "0"}, i),
				Sectors:     []string{pick(sectors, i)},
				Hiring:      []string{pick([]string{"engineering", "sales", "design"}, i)},
			}}
		},
	},
	{
		kind:      model.PersonaOperator,
		titles:    []string{"VP Engineering", "Head of Growth", "COO"},
		companies: []string{"Globex", "Initech", "Umbrella Analytics"},
		persona: func(i int, _ string) model.Persona {
			return model.Persona{Kind: model.PersonaOperator, Operator: &model.OperatorBlock{
				Function:  pick([]string{"engineering", "growth", "operations"}, i),
				Expertise: []string{pick(expertise, i), pick(expertise, i+3)},
				OpenTo:    []string{pick([]string{"advising", "board seats", "full-time roles"}, i)},
			}}
		},
	},
	{
		kind:      model.PersonaAdvisor,
		titles:    []string{"Advisor", "Board Advisor", "Fractional CFO"},
		companies: []string{"Independent", "Keystone Advisory", "Meridian Partners"},
		persona: func(i int, _ string) model.Persona {
			return model.Persona{Kind: model.PersonaAdvisor, Advisor: &model.AdvisorBlock{
				Expertise:  []string{pick(expertise, i)},
				Services:   []string{pick([]string{"board prep", "fundraising support", "hiring plans"}, i)},
				HourlyRate: pick([]string{"300", "450", "600"}, i),
			}}
		},
	},
}

// GenerateIntakes builds n member intakes spread across persona kinds. User
// and request ids are random; everything else is derived from the index.
func GenerateIntakes(ctx context.Context, n int) []model.Intake {
	logger.Get().Info(ctx, "generating member intakes", logger.Int("members", n))

	out := make([]model.Intake, n)
	for i := range out {
		out[i] = generateIntake(i)
	}
	return out
}

func generateIntake(i int) model.Intake {
	a := archetypes[i%len(archetypes)]
	round := i / len(archetypes)
	title := pick(a.titles, round)
	company := pick(a.companies, round)
	userID := uuid.NewString()
	slug := strings.ToLower(strings.ReplaceAll(company, " ", ""))
	site := "https://" + slug + ".example"

	in := model.Intake{
		RequestID:    uuid.NewString(),
		UserID:       userID,
		Email:        "member" + userID[:8] + "@" + slug + ".example",
		FirstName:    pick([]string{"Ada", "Grace", "Linus", "Margaret", "Ken", "Barbara"}, i),
		LastName:     pick([]string{"Lovelace", "Hopper", "Torvalds", "Hamilton", "Thompson", "Liskov"}, i+1),
		CompanyGuess: company,
		CompanySite:  &model.SiteInfo{URL: site, Name: company, About: company + " builds for " + pick(sectors, i) + " teams."},
		Candidates: map[string][]model.CandidateValue{
			model.FieldTitle: {
				{Value: title, Confidence: 0.85, SourceURL: site + "/team", SourceType: model.SourceFirstParty},
			},
			model.FieldGeo: {
				{Value: pick(locations, i), Confidence: 0.7, SourceType: model.SourceSocial},
			},
		},
		EventContext: model.EventContext{
			EventID:     "load-test",
			EventTopics: []string{pick(sectors, i), pick(sectors, i+1)},
		},
		Persona: a.persona(i, company),
		Goal:    "Meet people working on " + pick(sectors, i),
		Verification: model.Verification{
			EmailVerified:  i%2 == 0,
			EventsAttended: i % 5,
		},
	}
	// A few ambiguous titles exercise the resolver's tie-break path.
	if i%7 == 0 {
		in.Candidates[model.FieldTitle] = append(in.Candidates[model.FieldTitle], model.CandidateValue{
			Value: pick(a.titles, round+1), Confidence: 0.8, SourceType: model.SourceFirstParty,
		})
	}
	return in
}
