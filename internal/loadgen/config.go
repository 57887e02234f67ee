package loadgen

import "time"

// Config holds configuration for a load run.
type Config struct {
	BaseURL       string        // Base URL of the service
	Members       int           // Number of member intakes to generate
	Workers       int           // Number of concurrent workers
	Timeout       time.Duration // HTTP request timeout
	MatchLimit    int           // limit passed to GET /matches
	SettleTimeout time.Duration // How long to wait for queued builds to land
	PollInterval  time.Duration // Spacing of settle polls
	OutputFile    string        // Optional JSON dump of generated intakes
	Verbose       bool          // Log every match list
}

// Stats holds run statistics.
type Stats struct {
	Generated       int
	Submitted       int
	Accepted        int
	Duplicate       int
	Failed          int
	SignalsReadBack int
	MatchLists      int
	MatchEntries    int
	MatchSkipped    int // members never stored, so never matched
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
