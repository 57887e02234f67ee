package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/internal/domain/types"
)

// Submission outcomes.
const (
	outcomeAccepted  = "accepted"
	outcomeDuplicate = "duplicate"
	outcomeFailed    = "failed"
)

// Client talks to the profile service over HTTP.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{base: baseURL, http: &http.Client{Timeout: timeout}}
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp.StatusCode, data, nil
}

// Health checks GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	code, _, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if code != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, code)
	}
	return nil
}

// Submit posts one intake and classifies the answer.
func (c *Client) Submit(ctx context.Context, in model.Intake) string { //nolint:gocritic // hugeParam: intakes travel by value
	code, body, err := c.do(ctx, http.MethodPost, "/profiles", in)
	if err != nil {
		return outcomeFailed
	}
	switch code {
	case http.StatusAccepted:
		return outcomeAccepted
	case http.StatusOK:
		var ack ackResponse
		if json.Unmarshal(body, &ack) == nil && ack.Duplicate {
			return outcomeDuplicate
		}
		return outcomeFailed
	default:
		return outcomeFailed
	}
}

// Signals fetches stored signals. found is false on 404.
func (c *Client) Signals(ctx context.Context, userID string) (sig model.MatchSignals, found bool, err error) {
	code, body, err := c.do(ctx, http.MethodGet, "/signals/"+url.PathEscape(userID), nil)
	if err != nil {
		return sig, false, err
	}
	switch code {
	case http.StatusOK:
		if err := json.Unmarshal(body, &sig); err != nil {
			return sig, false, fmt.Errorf("decode signals: %w", err)
		}
		return sig, true, nil
	case http.StatusNotFound:
		return sig, false, nil
	default:
		return sig, false, fmt.Errorf("%w: GET /signals status %d", ErrUnexpected, code)
	}
}

// Matches fetches the ranked matches of userID.
func (c *Client) Matches(ctx context.Context, userID string, limit int) ([]types.MatchEntry, error) {
	path := "/matches/" + url.PathEscape(userID) + "?limit=" + strconv.Itoa(limit)
	code, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("%w: GET /matches status %d", ErrUnexpected, code)
	}
	var entries []types.MatchEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode matches: %w", err)
	}
	return entries, nil
}
