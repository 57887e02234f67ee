package model

import "strings"

// EventContext identifies the event a build was triggered from.
type EventContext struct {
	EventID     string   `json:"event_id,omitempty"`
	EventTopics []string `json:"event_topics,omitempty"`
}

// SiteInfo is scraped company website metadata.
type SiteInfo struct {
	URL     string `json:"url,omitempty"`
	Name    string `json:"name,omitempty"`
	About   string `json:"about,omitempty"`
	Title   string `json:"title,omitempty"`
	Founded string `json:"founded,omitempty"`
}

// OpenGraph is OpenGraph metadata from the member's personal page.
type OpenGraph struct {
	URL         string `json:"url,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Gravatar is a gravatar lookup result.
type Gravatar struct {
	ProfileURL  string `json:"profile_url,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Snippet is a search engine result.
type Snippet struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// VendorEnrichment is a verified enrichment vendor record.
type VendorEnrichment struct {
	URL        string   `json:"url,omitempty"`
	FullName   string   `json:"full_name,omitempty"`
	Title      string   `json:"title,omitempty"`
	Company    string   `json:"company,omitempty"`
	Headline   string   `json:"headline,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Location   string   `json:"location,omitempty"`
	PhotoURL   string   `json:"photo_url,omitempty"`
	LinkedIn   string   `json:"linkedin,omitempty"`
	GitHub     string   `json:"github,omitempty"`
	X          string   `json:"x,omitempty"`
	Industries []string `json:"industries,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Interests  []string `json:"interests,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`
}

// Verification holds externally supplied verification flags and counters.
type Verification struct {
	EmailVerified     bool                    `json:"email_verified"`
	PhoneVerified     bool                    `json:"phone_verified"`
	Links             map[string]VerifiedLink `json:"links,omitempty"`
	MutualConnections int                     `json:"mutual_connections,omitempty"`
	Endorsements      int                     `json:"endorsements,omitempty"`
	EventsAttended    int                     `json:"events_attended,omitempty"`
}

// Intake is everything a profile build consumes.
type Intake struct {
	RequestID        string                      `json:"request_id,omitempty"`
	UserID           string                      `json:"user_id"`
	Email            string                      `json:"email"`
	FirstName        string                      `json:"first_name,omitempty"`
	LastName         string                      `json:"last_name,omitempty"`
	EmailDomain      string                      `json:"email_domain,omitempty"`
	CompanyGuess     string                      `json:"company_guess,omitempty"`
	CompanySite      *SiteInfo                   `json:"company_site,omitempty"`
	OpenGraph        *OpenGraph                  `json:"opengraph,omitempty"`
	Gravatar         *Gravatar                   `json:"gravatar,omitempty"`
	SearchSnippets   []Snippet                   `json:"search_snippets,omitempty"`
	VendorEnrichment *VendorEnrichment           `json:"vendor_enrichment,omitempty"`
	EventContext     EventContext                `json:"event_context"`
	Candidates       map[string][]CandidateValue `json:"candidates,omitempty"`
	Prior            *CanonicalProfile           `json:"prior,omitempty"`
	Persona          Persona                     `json:"persona"`
	Goal             string                      `json:"goal,omitempty"`
	Verification     Verification                `json:"verification"`
	OptOutIDs        []string                    `json:"opt_out_ids,omitempty"`
}

// Domain returns EmailDomain or the part of Email after '@'.
func (in *Intake) Domain() string {
	if d := strings.TrimSpace(in.EmailDomain); d != "" {
		return strings.ToLower(d)
	}
	if i := strings.LastIndexByte(in.Email, '@'); i >= 0 {
		return strings.ToLower(strings.TrimSpace(in.Email[i+1:]))
	}
	return ""
}

// Member is the generator input: a normalized profile plus self-described
// intent and verification state.
type Member struct {
	UserID       string
	Normalized   NormalizedProfile
	Goal         string
	EventContext EventContext
	Verification Verification
	OptOutIDs    []string
}
