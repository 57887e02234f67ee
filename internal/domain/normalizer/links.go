package normalizer

import (
	"net/url"
	"strings"

	"github.com/okian/affinity/internal/domain/model"
)

// Candidate keys for explicit links.
const (
	LinkWebsite  = "website"
	LinkGitHub   = "github"
	LinkX        = "x"
	LinkLinkedIn = "linkedin"
	LinkCompany  = "company_url"
)

var defaultFreeMail = []string{
	"gmail.com", "googlemail.com", "yahoo.com", "outlook.com", "hotmail.com",
	"live.com", "icloud.com", "me.com", "aol.com", "proton.me", "protonmail.com",
	"gmx.com", "yandex.com", "fastmail.com",
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func explicit(in *model.Intake, key string) string {
	for _, c := range in.Candidates[key] {
		if v := strings.TrimSpace(c.Value); v != "" {
			return v
		}
	}
	return ""
}

// platformOf classifies a URL by host.
func platformOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "linkedin.com":
		return LinkLinkedIn
	case "github.com":
		return LinkGitHub
	case "x.com", "twitter.com":
		return LinkX
	}
	return ""
}

func (n *Normalizer) links(in *model.Intake) model.Links {
	found := map[string]string{}
	for _, s := range in.SearchSnippets {
		if p := platformOf(s.URL); p != "" && found[p] == "" {
			found[p] = s.URL
		}
	}

	var vendor model.VendorEnrichment
	if in.VendorEnrichment != nil {
		vendor = *in.VendorEnrichment
	}
	var og model.OpenGraph
	if in.OpenGraph != nil {
		og = *in.OpenGraph
	}
	var site model.SiteInfo
	if in.CompanySite != nil {
		site = *in.CompanySite
	}

	return model.Links{
		Website:  firstNonEmpty(explicit(in, LinkWebsite), og.URL),
		GitHub:   firstNonEmpty(explicit(in, LinkGitHub), vendor.GitHub, found[LinkGitHub]),
		X:        firstNonEmpty(explicit(in, LinkX), vendor.X, found[LinkX]),
		LinkedIn: firstNonEmpty(explicit(in, LinkLinkedIn), vendor.LinkedIn, found[LinkLinkedIn]),
		Company:  firstNonEmpty(explicit(in, LinkCompany), site.URL, n.domainLink(in.Domain())),
	}
}

func (n *Normalizer) domainLink(domain string) string {
	if domain == "" {
		return ""
	}
	if _, free := n.freeMail[domain]; free {
		return ""
	}
	return "https://" + domain
}
