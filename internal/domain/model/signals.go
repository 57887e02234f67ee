package model

import "time"

// VerifiedLink records whether a platform link was verified and when.
type VerifiedLink struct {
	Verified   bool      `json:"verified"`
	VerifiedAt time.Time `json:"verified_at"`
}

// TrustSignals are trust indicators. Counters are always present.
type TrustSignals struct {
	VerifiedEmail     bool                    `json:"verified_email"`
	VerifiedPhone     bool                    `json:"verified_phone"`
	ProfileCompletion int                     `json:"profile_completion"`
	VerifiedLinks     map[string]VerifiedLink `json:"verified_links"`
	MutualConnections int                     `json:"mutual_connections"`
	Endorsements      int                     `json:"endorsements"`
	EventsAttended    int                     `json:"events_attended"`
}

// MatchSignals is the per-member artifact consumed by matching. One record
// per UserID, rebuilt wholesale and upserted.
type MatchSignals struct {
	UserID             string             `json:"user_id"`
	EmbeddingReadyText string             `json:"embedding_ready_text"`
	PrimaryIntent      string             `json:"primary_intent"`
	SupplyTags         []string           `json:"supply_tags"`
	DemandTags         []string           `json:"demand_tags"`
	ICPTags            []string           `json:"icp_tags"`
	GeoTags            []string           `json:"geo_tags"`
	StageTags          []string           `json:"stage_tags"`
	TrustSignals       TrustSignals       `json:"trust_signals"`
	NumericFeatures    map[string]float64 `json:"numeric_features"`
	RecencyWeight      time.Time          `json:"recency_weight"`
	OptOutIDs          []string           `json:"opt_out_ids"`
	Title              string             `json:"title,omitempty"`
	Company            string             `json:"company,omitempty"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// MatchTags returns the tags compared by the compatibility scorer.
func (s *MatchSignals) MatchTags() []string {
	n := len(s.SupplyTags) + len(s.DemandTags) + len(s.ICPTags) + len(s.StageTags)
	out := make([]string, 0, n)
	out = append(out, s.SupplyTags...)
	out = append(out, s.DemandTags...)
	out = append(out, s.ICPTags...)
	out = append(out, s.StageTags...)
	return out
}

// OptedOut reports whether s excludes userID from matching.
func (s *MatchSignals) OptedOut(userID string) bool {
	for _, id := range s.OptOutIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Build is the full output of a profile build.
type Build struct {
	Normalized NormalizedProfile `json:"normalized"`
	Signals    MatchSignals      `json:"signals"`
}
