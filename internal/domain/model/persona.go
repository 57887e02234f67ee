package model

import "strings"

// PersonaKind is the closed set of member persona categories.
type PersonaKind string

// Persona kinds.
const (
	PersonaInvestor PersonaKind = "Investor"
	PersonaFounder  PersonaKind = "Founder"
	PersonaOperator PersonaKind = "Operator"
	PersonaAdvisor  PersonaKind = "Advisor"
	PersonaOther    PersonaKind = "Other"
)

// PersonaKinds lists every kind in declaration order.
var PersonaKinds = []PersonaKind{PersonaInvestor, PersonaFounder, PersonaOperator, PersonaAdvisor, PersonaOther}

// ParsePersonaKind matches label against the kind names exactly, ignoring
// case and surrounding space. Anything else is PersonaOther.
func ParsePersonaKind(label string) PersonaKind {
	label = strings.TrimSpace(label)
	for _, k := range PersonaKinds {
		if strings.EqualFold(label, string(k)) {
			return k
		}
	}
	return PersonaOther
}

// InvestorBlock describes an investing member.
type InvestorBlock struct {
	Firm        string   `json:"firm,omitempty"`
	CheckSize   string   `json:"check_size,omitempty"`
	FundSize    string   `json:"fund_size,omitempty"`
	Stages      []string `json:"stages,omitempty"`
	Sectors     []string `json:"sectors,omitempty"`
	Geographies []string `json:"geographies,omitempty"`
}

// FounderBlock describes a founding member.
type FounderBlock struct {
	Company     string   `json:"company,omitempty"`
	Stage       string   `json:"stage,omitempty"`
	RaiseAmount string   `json:"raise_amount,omitempty"`
	Revenue     string   `json:"revenue,omitempty"`
	Sectors     []string `json:"sectors,omitempty"`
	Hiring      []string `json:"hiring,omitempty"`
}

// OperatorBlock describes an operator.
type OperatorBlock struct {
	Function  string   `json:"function,omitempty"`
	Expertise []string `json:"expertise,omitempty"`
	Services  []string `json:"services,omitempty"`
	OpenTo    []string `json:"open_to,omitempty"`
}

// AdvisorBlock describes an advisor.
type AdvisorBlock struct {
	Expertise  []string `json:"expertise,omitempty"`
	Services   []string `json:"services,omitempty"`
	HourlyRate string   `json:"hourly_rate,omitempty"`
}

// Persona is a tagged variant: Kind selects which block is meaningful.
// Blocks that do not match Kind are ignored by every consumer.
type Persona struct {
	Kind     PersonaKind    `json:"kind"`
	Investor *InvestorBlock `json:"investor,omitempty"`
	Founder  *FounderBlock  `json:"founder,omitempty"`
	Operator *OperatorBlock `json:"operator,omitempty"`
	Advisor  *AdvisorBlock  `json:"advisor,omitempty"`
}

// InvestorDetails returns the investor block when Kind is Investor.
func (p Persona) InvestorDetails() (InvestorBlock, bool) {
	if p.Kind != PersonaInvestor {
		return InvestorBlock{}, false
	}
	if p.Investor == nil {
		return InvestorBlock{}, true
	}
	return *p.Investor, true
}

// FounderDetails returns the founder block when Kind is Founder.
func (p Persona) FounderDetails() (FounderBlock, bool) {
	if p.Kind != PersonaFounder {
		return FounderBlock{}, false
	}
	if p.Founder == nil {
		return FounderBlock{}, true
	}
	return *p.Founder, true
}

// OperatorDetails returns the operator block when Kind is Operator.
func (p Persona) OperatorDetails() (OperatorBlock, bool) {
	if p.Kind != PersonaOperator {
		return OperatorBlock{}, false
	}
	if p.Operator == nil {
		return OperatorBlock{}, true
	}
	return *p.Operator, true
}

// AdvisorDetails returns the advisor block when Kind is Advisor.
func (p Persona) AdvisorDetails() (AdvisorBlock, bool) {
	if p.Kind != PersonaAdvisor {
		return AdvisorBlock{}, false
	}
	if p.Advisor == nil {
		return AdvisorBlock{}, true
	}
	return *p.Advisor, true
}

// Normalized returns p with an empty Kind mapped to PersonaOther.
func (p Persona) Normalized() Persona {
	if p.Kind == "" {
		p.Kind = PersonaOther
	} else {
		p.Kind = ParsePersonaKind(string(p.Kind))
	}
	return p
}
