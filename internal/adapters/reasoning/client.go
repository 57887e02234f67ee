// Package reasoning adapts a generative model to the resolver's reasoning
// step: one call per ambiguous field, strict JSON answers, bounded retries
// and a rate limit between calls.
package reasoning

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/resolver"
	"github.com/okian/affinity/pkg/logger"
	"github.com/okian/affinity/pkg/metrics"
)

//go:embed prompts/resolve_field.md
var resolveFieldPrompt string

const (
	defaultTimeout    = 8 * time.Second
	defaultRetries    = 1
	defaultRetryDelay = 200 * time.Millisecond
	defaultInterval   = 250 * time.Millisecond
	maxJitter         = 100 * time.Millisecond
)

// Call outcomes reported to metrics.
const (
	outcomeOK      = "ok"
	outcomeError   = "error"
	outcomeInvalid = "invalid"
)

// Generator produces raw model text for a prompt.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Client implements resolver.Reasoner on top of a Generator.
type Client struct {
	gen        Generator
	timeout    time.Duration
	retries    uint
	retryDelay time.Duration
	interval   time.Duration
	limiter    *rate.Limiter
	logger     logger.Logger
}

var _ resolver.Reasoner = (*Client)(nil)

// New creates a Client.
func New(gen Generator, opts ...Option) *Client {
	c := &Client{
		gen:        gen,
		timeout:    defaultTimeout,
		retries:    defaultRetries,
		retryDelay: defaultRetryDelay,
		interval:   defaultInterval,
		logger:     logger.Get().Named("reasoning"),
	}
	for _, opt := range opts {
		opt(c)
	}
	limit := rate.Inf
	if c.interval > 0 {
		limit = rate.Every(c.interval)
	}
	c.limiter = rate.NewLimiter(limit, 1)
	return c
}

type fieldPrompt struct {
	Field      string                 `json:"field"`
	MaxLength  int                    `json:"max_length"`
	Candidates []model.CandidateValue `json:"candidates"`
}

// ResolveField asks the model to choose between req's candidates.
func (c *Client) ResolveField(ctx context.Context, req resolver.Request) (resolver.Answer, error) {
	if c == nil || c.gen == nil {
		return resolver.Answer{}, ErrNotConfigured
	}
	prompt, err := json.Marshal(fieldPrompt{Field: req.Field, MaxLength: req.MaxLength, Candidates: req.Candidates})
	if err != nil {
		return resolver.Answer{}, fmt.Errorf("encode prompt: %w", err)
	}

	start := time.Now()
	ans, err := retry.DoWithData(
		func() (resolver.Answer, error) {
			return c.attempt(ctx, string(prompt))
		},
		retry.Context(ctx),
		retry.Attempts(c.retries+1),
		retry.Delay(c.retryDelay),
		retry.MaxJitter(maxJitter),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			metrics.RecordReasoningRetry()
			c.logger.Debug(ctx, "retrying reasoning call",
				logger.FieldName(req.Field),
				logger.Int("attempt", int(n)+1),
				logger.Error(err),
			)
		}),
	)
	metrics.RecordReasoningLatency(float64(time.Since(start).Nanoseconds()) / 1e6)

	switch {
	case err == nil:
		metrics.RecordReasoningCall(outcomeOK)
		return ans, nil
	case errors.Is(err, ErrSchema):
		metrics.RecordReasoningCall(outcomeInvalid)
	default:
		metrics.RecordReasoningCall(outcomeError)
	}
	c.logger.Warn(ctx, "reasoning call failed", logger.FieldName(req.Field), logger.Error(err))
	return resolver.Answer{}, fmt.Errorf("resolve %s: %w", req.Field, err)
}

func (c *Client) attempt(ctx context.Context, prompt string) (resolver.Answer, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return resolver.Answer{}, err
	}
	actx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.gen.Generate(actx, resolveFieldPrompt, prompt)
	if err != nil {
		return resolver.Answer{}, err
	}
	return ParseAnswer(raw)
}

// isRetryable reports whether another attempt could succeed. Schema
// violations and client errors are final.
func isRetryable(err error) bool {
	if errors.Is(err, ErrSchema) || errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}
	return true
}
