// Package types contains read shapes shared by the scorer and the HTTP API.
package types

// MatchEntry is one ranked, anonymized match candidate.
type MatchEntry struct {
	Rank     int      `json:"rank"`
	UserID   string   `json:"user_id"`
	Score    int      `json:"score"`
	Reasons  []string `json:"reasons"`
	Handle   string   `json:"handle"`
	Location string   `json:"location"`
}
