// Package metalsdev calls the metals.dev pricing API and normalizes its
// responses into the payload shapes the stores persist.
package metalsdev

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/ratestash/ratestash/internal/entities"
)

// AuthMode selects how the API key travels: some deployments use the
// api_key query parameter, others a bearer token header.
type AuthMode string

const (
	AuthQueryParam   AuthMode = "query_param"
	AuthBearerHeader AuthMode = "bearer_header"
)

func ParseAuthMode(s string) (AuthMode, error) {
	switch AuthMode(s) {
	case AuthQueryParam, AuthBearerHeader:
		return AuthMode(s), nil
	default:
		return "", fmt.Errorf("unknown auth mode %q", s)
	}
}

// Query carries everything one upstream call needs besides the context.
type Query struct {
	URL       string
	APIKey    string
	Mode      AuthMode
	Authority string
	Currency  string
	Unit      string
}

type Client struct {
	client *http.Client
	now    func() time.Time
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

func (c *Client) get(ctx context.Context, q Query) ([]byte, error) {
	u, err := url.Parse(q.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url error: %w", err)
	}

	params := u.Query()
	params.Set("currency", q.Currency)
	params.Set("unit", q.Unit)
	if q.Authority != "" {
		params.Set("authority", q.Authority)
	}
	if q.Mode == AuthQueryParam {
		params.Set("api_key", q.APIKey)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request error: %w", err)
	}
	if q.Mode == AuthBearerHeader {
		req.Header.Set("Authorization", "Bearer "+q.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api_client get error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body error: %w", err)
	}

	return body, nil
}

// MetalQuote is the reduced per-slot payload, only what the client app
// renders. Absent rates stay null rather than zero.
type MetalQuote struct {
	Gold      *float64 `json:"gold"`
	Silver    *float64 `json:"silver"`
	UpdatedAt string   `json:"updatedAt"`
}

type authorityResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// MetalRates fetches the authority feed and reduces it to a MetalQuote. A
// 2xx body without a rates object counts as an invalid payload, which the
// caller treats like any other fetch failure.
func (c *Client) MetalRates(ctx context.Context, q Query) (entities.Payload, error) {
	const op = "metalsdev.MetalRates"

	body, err := c.get(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	var resp authorityResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrapf(entities.ErrInvalidPayload, "%s: %v", op, err)
	}
	if resp.Rates == nil {
		return nil, errors.Wrapf(entities.ErrInvalidPayload, "%s: no rates object", op)
	}

	quote := MetalQuote{UpdatedAt: c.now().UTC().Format(time.RFC3339)}
	if v, ok := resp.Rates[q.Authority+"_gold"]; ok {
		quote.Gold = &v
	}
	if v, ok := resp.Rates[q.Authority+"_silver"]; ok {
		quote.Silver = &v
	}

	payload, err := json.Marshal(quote)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return payload, nil
}

type latestResponse struct {
	Metals     json.RawMessage `json:"metals"`
	Currencies json.RawMessage `json:"currencies"`
	Timestamps json.RawMessage `json:"timestamps"`
}

// LatestRates fetches the combined metals+currencies feed and passes the
// interesting sections through unchanged. Both metals and currencies must
// be present for the payload to count as valid.
func (c *Client) LatestRates(ctx context.Context, q Query) (entities.Payload, error) {
	const op = "metalsdev.LatestRates"

	body, err := c.get(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	var resp latestResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrapf(entities.ErrInvalidPayload, "%s: %v", op, err)
	}
	if entities.IsNull(resp.Metals) || entities.IsNull(resp.Currencies) {
		return nil, errors.Wrapf(entities.ErrInvalidPayload, "%s: missing metals or currencies", op)
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return payload, nil
}
