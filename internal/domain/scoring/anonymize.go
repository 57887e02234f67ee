package scoring

import "strings"

// UndisclosedRegion stands in for a member's location before reveal.
const UndisclosedRegion = "Undisclosed region"

const (
	companyKeep = 10
	companyMax  = 12
)

// Preview is what a member sees of a match before it is revealed.
type Preview struct {
	Handle   string `json:"handle"`
	Location string `json:"location"`
}

// Anonymize builds a preview handle such as "VP Engineering @ Acme Corpo…".
func Anonymize(title, company string) Preview {
	role := strings.TrimSpace(strings.SplitN(title, ",", 2)[0])
	if role == "" {
		role = "Professional"
	}
	handle := role
	if company = strings.TrimSpace(company); company != "" {
		if r := []rune(company); len(r) > companyMax {
			company = string(r[:companyKeep]) + "…"
		}
		handle += " @ " + company
	}
	return Preview{Handle: handle, Location: UndisclosedRegion}
}
