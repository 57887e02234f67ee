package normalizer

import (
	"strings"

	"github.com/okian/affinity/internal/domain/model"
)

// Default confidences for side inputs that carry none of their own.
const (
	confFirstParty = 0.9
	confVendor     = 0.8
	confSite       = 0.7
	confSocial     = 0.6
	confSnippet    = 0.5
	confGuess      = 0.4
)

// resolvedFields are resolved in this order. Email bypasses resolution.
var resolvedFields = []string{
	model.FieldName,
	model.FieldAvatarURL,
	model.FieldHeadline,
	model.FieldTitle,
	model.FieldCompany,
	model.FieldGeo,
	model.FieldBio,
}

type buckets map[string][]model.CandidateValue

func (b buckets) add(field, value string, conf float64, url string, st model.SourceType) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	b[field] = append(b[field], model.CandidateValue{
		Value:      value,
		Confidence: conf,
		SourceURL:  url,
		SourceType: st,
	})
}

// bucket turns an intake into per-field candidate lists. Explicit collector
// candidates come first, then side inputs, then prior canonical values with
// their confidence scaled by priorFactor so fresh input outranks them.
func bucket(in *model.Intake, priorFactor float64) buckets {
	b := buckets{}
	for _, f := range resolvedFields {
		for _, c := range in.Candidates[f] {
			b.add(f, c.Value, c.Confidence, c.SourceURL, c.SourceType)
		}
	}

	b.add(model.FieldName, strings.TrimSpace(in.FirstName+" "+in.LastName), confFirstParty, "", model.SourceFirstParty)

	if v := in.VendorEnrichment; v != nil {
		conf := v.Confidence
		if conf <= 0 {
			conf = confVendor
		}
		b.add(model.FieldName, v.FullName, conf, v.URL, model.SourceVendorAPI)
		b.add(model.FieldTitle, v.Title, conf, v.URL, model.SourceVendorAPI)
		b.add(model.FieldCompany, v.Company, conf, v.URL, model.SourceVendorAPI)
		b.add(model.FieldHeadline, v.Headline, conf, v.URL, model.SourceVendorAPI)
		b.add(model.FieldBio, v.Summary, conf, v.URL, model.SourceVendorAPI)
		b.add(model.FieldGeo, v.Location, conf, v.URL, model.SourceVendorAPI)
		b.add(model.FieldAvatarURL, v.PhotoURL, conf, v.URL, model.SourceVendorAPI)
	}

	if g := in.Gravatar; g != nil {
		b.add(model.FieldName, g.DisplayName, confSocial, g.ProfileURL, model.SourceSocial)
		b.add(model.FieldAvatarURL, g.AvatarURL, confSite, g.ProfileURL, model.SourceSocial)
		b.add(model.FieldGeo, g.Location, confSocial, g.ProfileURL, model.SourceSocial)
	}

	if s := in.CompanySite; s != nil {
		b.add(model.FieldCompany, s.Name, confSite, s.URL, model.SourceFirstParty)
		b.add(model.FieldBio, s.About, confSite, s.URL, model.SourceFirstParty)
	}
	b.add(model.FieldCompany, in.CompanyGuess, confGuess, "", model.SourceDirectory)

	if og := in.OpenGraph; og != nil {
		b.add(model.FieldHeadline, og.Description, confSocial, og.URL, model.SourceFirstParty)
	}

	for _, s := range in.SearchSnippets {
		b.add(model.FieldBio, s.Snippet, confSnippet, s.URL, model.SourcePress)
	}

	if p := in.Prior; p != nil {
		for _, f := range resolvedFields {
			dp, _ := p.Field(f)
			url := ""
			if len(dp.SourceURLs) > 0 {
				url = dp.SourceURLs[0]
			}
			b.add(f, dp.Value, model.ClampConfidence(dp.Confidence)*priorFactor, url, model.SourcePrior)
		}
	}
	return b
}
