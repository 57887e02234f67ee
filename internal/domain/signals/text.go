package signals

import (
	"strings"

	"github.com/okian/affinity/internal/domain/model"
)

// TextDelimiter separates the parts of the embedding text.
const TextDelimiter = " | "

type labeled []string

func (l *labeled) add(label, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*l = append(*l, label+": "+value)
	}
}

func (l *labeled) list(label string, values []string) {
	l.add(label, strings.Join(values, ", "))
}

// personaText renders the block that matches the persona kind.
func personaText(p model.Persona) string {
	var l labeled
	if b, ok := p.InvestorDetails(); ok {
		l.add("Firm", b.Firm)
		l.add("Check size", b.CheckSize)
		l.add("Fund size", b.FundSize)
		l.list("Stages", b.Stages)
		l.list("Sectors", b.Sectors)
		l.list("Geographies", b.Geographies)
	}
	if b, ok := p.FounderDetails(); ok {
		l.add("Company", b.Company)
		l.add("Stage", b.Stage)
		l.add("Raising", b.RaiseAmount)
		l.add("Revenue", b.Revenue)
		l.list("Sectors", b.Sectors)
		l.list("Hiring", b.Hiring)
	}
	if b, ok := p.OperatorDetails(); ok {
		l.add("Function", b.Function)
		l.list("Expertise", b.Expertise)
		l.list("Services", b.Services)
		l.list("Open to", b.OpenTo)
	}
	if b, ok := p.AdvisorDetails(); ok {
		l.list("Expertise", b.Expertise)
		l.list("Services", b.Services)
		l.add("Hourly rate", b.HourlyRate)
	}
	return strings.Join(l, "; ")
}

// EmbeddingText renders the deterministic text handed to embedding models.
func EmbeddingText(m *model.Member) string {
	np := &m.Normalized
	p := &np.Profile

	who := ""
	if np.Persona.Kind != "" && np.Persona.Kind != model.PersonaOther {
		who = string(np.Persona.Kind)
	}
	if loc := strings.TrimSpace(p.Geo.Value); loc != "" {
		if who == "" {
			who = loc
		} else {
			who += " in " + loc
		}
	}

	parts := []string{
		p.Name.Value,
		p.Headline.Value,
		who,
		m.Goal,
		personaText(np.Persona),
		strings.Join(p.Industries, ", "),
		strings.Join(p.SkillsKeywords, ", "),
	}
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, TextDelimiter)
}
