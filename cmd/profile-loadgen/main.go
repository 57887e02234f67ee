package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/affinity/internal/loadgen"
	"github.com/okian/affinity/pkg/logger"
)

const (
	defaultWorkers = 2 // multiplier for runtime.NumCPU()
	runTimeout     = 10 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		members = flag.Int("members", loadgen.DefaultMembers, "Number of member intakes to generate")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		limit   = flag.Int("limit", loadgen.DefaultMatchLimit, "Match list size to request")
		timeout = flag.Duration("timeout", loadgen.DefaultTimeout, "HTTP request timeout")
		settle  = flag.Duration("settle", loadgen.DefaultSettleTimeout, "How long to wait for queued builds")
		output  = flag.String("output", "", "Write the generated intakes to this JSON file")
		verbose = flag.Bool("verbose", false, "Log each member's top match")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadgen.ShowHelp()
		return
	}
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	_, err := loadgen.Run(ctx, &loadgen.Config{
		BaseURL:       *baseURL,
		Members:       *members,
		Workers:       *workers,
		Timeout:       *timeout,
		MatchLimit:    *limit,
		SettleTimeout: *settle,
		OutputFile:    *output,
		Verbose:       *verbose,
	})
	if err != nil {
		logger.Get().Error(ctx, "load run failed", logger.Error(err))
		cancel()
		os.Exit(1)
	}
}
