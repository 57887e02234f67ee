package signals

import (
	"strings"

	"github.com/okian/affinity/internal/domain/model"
)

var gazetteer = map[string][]string{
	"sf":            {"san_francisco", "bay_area", "california", "usa"},
	"san francisco": {"san_francisco", "bay_area", "california", "usa"},
	"bay area":      {"bay_area", "california", "usa"},
	"nyc":           {"new_york", "usa"},
	"new york":      {"new_york", "usa"},
	"la":            {"los_angeles", "california", "usa"},
	"los angeles":   {"los_angeles", "california", "usa"},
	"london":        {"london", "uk", "europe"},
	"berlin":        {"berlin", "germany", "europe"},
	"austin":        {"austin", "texas", "usa"},
	"seattle":       {"seattle", "washington", "usa"},
	"boston":        {"boston", "massachusetts", "usa"},
	"toronto":       {"toronto", "canada"},
	"remote":        {"remote"},
}

func splitLocation(loc string) []string {
	return strings.FieldsFunc(loc, func(r rune) bool {
		return r == ',' || r == '/' || r == '|' || r == ';'
	})
}

// GeoTags turns free-form locations into geo tags. Each segment becomes a
// tag and known places expand to their region chain.
func GeoTags(locations ...string) []string {
	var raw []string
	for _, loc := range locations {
		for _, seg := range splitLocation(loc) {
			key := model.Key(seg)
			if key == "" {
				continue
			}
			raw = append(raw, key)
			raw = append(raw, gazetteer[key]...)
		}
	}
	return model.Tags(raw)
}
