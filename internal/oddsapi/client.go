// Package oddsapi provides the HTTP client for The Odds API v4.
//
// The API uses x-api-key header auth and decimal odds on request. Every
// failure (transport, status, decode) is returned as a *FeedError; the
// client never retries and never panics. Inter-request spacing is enforced
// with a token bucket limiter so multi-league sequences respect the
// upstream quota.
package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is The Odds API v4 root.
	DefaultBaseURL = "https://api.the-odds-api.com/v4"

	// DefaultRequestDelay spaces sequential requests across leagues.
	DefaultRequestDelay = 300 * time.Millisecond

	// DefaultTimeout bounds one outbound call; a timeout surfaces as
	// ReasonNetwork like any other transport failure.
	DefaultTimeout = 10 * time.Second
)

// MarketH2H is the head-to-head (win/draw/win) market key.
const MarketH2H = "h2h"

// Client is the HTTP client for The Odds API endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a rate-limited Odds API client. apiKey may be empty;
// calls then fail with ReasonEmptyCredentials without touching the network.
func NewClient(baseURL, apiKey string, requestDelay time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if requestDelay <= 0 {
		requestDelay = DefaultRequestDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Every(requestDelay), 1),
		logger:     logger,
	}
}

// Sports lists the provider's supported sports.
func (c *Client) Sports(ctx context.Context) ([]SportInfo, error) {
	body, err := c.get(ctx, "/sports", nil)
	if err != nil {
		return nil, err
	}
	var sports []SportInfo
	if jerr := json.Unmarshal(body, &sports); jerr != nil {
		return nil, &FeedError{Reason: ReasonParse, Op: "/sports", Err: jerr}
	}
	return sports, nil
}

// Events lists events with bookmaker odds for one sport key.
func (c *Client) Events(ctx context.Context, sportKey string, regions, markets []string) ([]Event, error) {
	if len(regions) == 0 {
		regions = []string{"uk"}
	}
	if len(markets) == 0 {
		markets = []string{MarketH2H}
	}
	path := fmt.Sprintf("/sports/%s/odds", sportKey)
	params := url.Values{}
	params.Set("regions", strings.Join(regions, ","))
	params.Set("markets", strings.Join(markets, ","))
	params.Set("oddsFormat", "decimal")
	params.Set("dateFormat", "iso")

	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	var events []Event
	if jerr := json.Unmarshal(body, &events); jerr != nil {
		return nil, &FeedError{Reason: ReasonParse, Op: path, Err: jerr}
	}
	return events, nil
}

// LiveEvents lists in-play and recently completed events with scores for
// one sport key.
func (c *Client) LiveEvents(ctx context.Context, sportKey, region string) ([]LiveEvent, error) {
	path := fmt.Sprintf("/sports/%s/scores", sportKey)
	params := url.Values{}
	if region != "" {
		params.Set("regions", region)
	}
	params.Set("dateFormat", "iso")

	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	var events []LiveEvent
	if jerr := json.Unmarshal(body, &events); jerr != nil {
		return nil, &FeedError{Reason: ReasonParse, Op: path, Err: jerr}
	}
	return events, nil
}

// get performs one rate-limited GET and classifies every failure into a
// FeedError. Retry policy lives with the caller, not here.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, *FeedError) {
	if c.apiKey == "" {
		return nil, &FeedError{Reason: ReasonEmptyCredentials, Op: path}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FeedError{Reason: ReasonNetwork, Op: path, Err: err}
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FeedError{Reason: ReasonNetwork, Op: path, Err: err}
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FeedError{Reason: ReasonNetwork, Op: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FeedError{Reason: ReasonNetwork, Op: path, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &FeedError{
			Reason: ReasonRateLimited, Op: path,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200)),
		}
	default:
		return nil, &FeedError{
			Reason: ReasonUpstream, Op: path,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200)),
		}
	}
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
