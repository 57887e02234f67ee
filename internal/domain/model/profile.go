package model

// Role is the member's current position.
type Role struct {
	Title   DataPoint `json:"title"`
	Company DataPoint `json:"company"`
}

// Links are direct, non-conflicting profile links.
type Links struct {
	Website  string `json:"website,omitempty"`
	GitHub   string `json:"github,omitempty"`
	X        string `json:"x,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Company  string `json:"company,omitempty"`
}

// CanonicalProfile is the fused profile produced after conflict resolution.
// It is rebuilt wholesale on every build.
type CanonicalProfile struct {
	Name            DataPoint `json:"name"`
	Email           DataPoint `json:"email"`
	AvatarURL       DataPoint `json:"avatar_url"`
	Headline        DataPoint `json:"headline"`
	CurrentRole     Role      `json:"current_role"`
	Geo             DataPoint `json:"geo"`
	Bio             DataPoint `json:"bio"`
	Links           Links     `json:"links"`
	Industries      []string  `json:"industries"`
	SkillsKeywords  []string  `json:"skills_keywords"`
	InterestsTopics []string  `json:"interests_topics"`
}

// Field returns the DataPoint stored under a resolver field name.
func (p *CanonicalProfile) Field(name string) (DataPoint, bool) {
	switch name {
	case FieldName:
		return p.Name, true
	case FieldEmail:
		return p.Email, true
	case FieldAvatarURL:
		return p.AvatarURL, true
	case FieldHeadline:
		return p.Headline, true
	case FieldTitle:
		return p.CurrentRole.Title, true
	case FieldCompany:
		return p.CurrentRole.Company, true
	case FieldGeo:
		return p.Geo, true
	case FieldBio:
		return p.Bio, true
	}
	return DataPoint{}, false
}

// SetField stores dp under a resolver field name. Unknown names are ignored.
func (p *CanonicalProfile) SetField(name string, dp DataPoint) {
	switch name {
	case FieldName:
		p.Name = dp
	case FieldEmail:
		p.Email = dp
	case FieldAvatarURL:
		p.AvatarURL = dp
	case FieldHeadline:
		p.Headline = dp
	case FieldTitle:
		p.CurrentRole.Title = dp
	case FieldCompany:
		p.CurrentRole.Company = dp
	case FieldGeo:
		p.Geo = dp
	case FieldBio:
		p.Bio = dp
	}
}

// Recommendations are rule-table suggestions returned with a profile.
type Recommendations struct {
	GoalSuggestions   []string `json:"goal_suggestions"`
	MissionPack       []string `json:"mission_pack"`
	ConnectionTargets []string `json:"connection_targets"`
	SponsorTargets    []string `json:"sponsor_targets"`
}

// NormalizedProfile is the normalizer output.
type NormalizedProfile struct {
	Profile         CanonicalProfile `json:"profile"`
	Persona         Persona          `json:"persona"`
	Recommendations Recommendations  `json:"recommendations"`
}
