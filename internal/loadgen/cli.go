package loadgen

import "os"

// ShowHelp prints usage information for the load tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Profile Load Tool
=================

Submits generated member intakes to a running service, waits for the
builds to be stored and checks every member's match list.

Usage:
  profile-loadgen [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -members int
        Number of member intakes to generate (default 200)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -limit int
        Match list size to request (default 10)
  -timeout duration
        HTTP request timeout (default 10s)
  -settle duration
        How long to wait for queued builds (default 2m)
  -output string
        Write the generated intakes to this JSON file
  -verbose
        Log each member's top match
  -help
        Show this help message
`)
}
