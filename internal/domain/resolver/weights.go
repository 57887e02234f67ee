package resolver

import (
	"github.com/okian/affinity/internal/domain/model"
)

// AgreementSignal is the weight-table key for the per-agreeing-candidate bonus.
const AgreementSignal = "agreement"

// Weights is the tunable table behind deterministic candidate ranking.
type Weights struct {
	Sources   map[model.SourceType]float64
	Agreement float64
}

// DefaultWeights returns the built-in table.
func DefaultWeights() Weights {
	return Weights{
		Sources: map[model.SourceType]float64{
			model.SourceFirstParty: 0.20,
			model.SourceUserInput:  0.20,
			model.SourceVendorAPI:  0.15,
			model.SourcePress:      0.10,
			model.SourceSocial:     0.05,
			model.SourcePrior:      0.05,
			model.SourceDirectory:  0,
		},
		Agreement: 0.05,
	}
}

// WeightsFromMap builds a table from config keys. The "agreement" key sets
// the agreement bonus; every other key is a source type. Sources missing
// from m weigh zero.
func WeightsFromMap(m map[string]float64) Weights {
	w := Weights{Sources: make(map[model.SourceType]float64, len(m))}
	for k, v := range m {
		if k == AgreementSignal {
			w.Agreement = v
			continue
		}
		w.Sources[model.SourceType(k)] = v
	}
	return w
}

// Score weighs one candidate. agreeing is the number of other candidates
// that carry the same value.
func (w Weights) Score(c model.CandidateValue, agreeing int) float64 {
	return model.ClampConfidence(c.Confidence) + w.Sources[c.SourceType] + w.Agreement*float64(agreeing)
}

// preferenceRank orders source types when weights tie. Lower wins.
func preferenceRank(t model.SourceType) int {
	switch t {
	case model.SourceFirstParty, model.SourceUserInput:
		return 0
	case model.SourceVendorAPI:
		return 1
	case model.SourcePress:
		return 2
	case model.SourceSocial:
		return 3
	case model.SourceDirectory:
		return 4
	case model.SourcePrior:
		return 5
	}
	return 6
}
