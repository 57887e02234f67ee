package normalizer

import (
	"strings"
	"unicode"

	"github.com/okian/affinity/internal/domain/model"
)

var titleKinds = []struct {
	kind   model.PersonaKind
	tokens []string
}{
	{model.PersonaInvestor, []string{"investor", "partner", "vc", "angel"}},
	{model.PersonaFounder, []string{"founder", "co-founder", "cofounder", "ceo"}},
	{model.PersonaAdvisor, []string{"advisor", "adviser", "mentor", "consultant"}},
}

func titleTokens(title string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}

// InferPersonaKind maps a job title to a persona kind by whole words.
// Investor words win over founder words, founder over advisor. Any other
// non-empty title is an Operator.
func InferPersonaKind(title string) model.PersonaKind {
	if strings.TrimSpace(title) == "" {
		return model.PersonaOther
	}
	tokens := titleTokens(title)
	for _, tk := range titleKinds {
		for _, t := range tk.tokens {
			if _, ok := tokens[t]; ok {
				return tk.kind
			}
		}
	}
	return model.PersonaOperator
}

// persona resolves the member's persona. A supplied kind is parsed exactly;
// otherwise it is inferred from the resolved title and seeded from the role.
func persona(supplied model.Persona, role model.Role) model.Persona {
	if supplied.Kind != "" {
		return supplied.Normalized()
	}
	title, company := role.Title.Value, role.Company.Value
	p := model.Persona{Kind: InferPersonaKind(title)}
	switch p.Kind {
	case model.PersonaInvestor:
		p.Investor = &model.InvestorBlock{Firm: company}
	case model.PersonaFounder:
		p.Founder = &model.FounderBlock{Company: company}
	case model.PersonaOperator:
		p.Operator = &model.OperatorBlock{Function: title}
	case model.PersonaAdvisor:
		p.Advisor = &model.AdvisorBlock{}
	}
	return p
}
