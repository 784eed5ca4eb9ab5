package quota

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mentorly/entitlement/svc/entitlement"
)

// Client is the HTTP Limiter talking to a remote quota deployment. It maps
// transport and server failures to ErrUnavailable and leaves the
// fail-open/fail-closed decision to the caller.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// ClientOption configures the quota client.
type ClientOption func(*Client)

// WithClientAPIKey sends the given key as a bearer token.
func WithClientAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// NewClient returns a Limiter calling the quota API at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		panic("quota: base URL cannot be empty")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check asks the authority whether one more use fits under limit.
func (c *Client) Check(ctx context.Context, userID uuid.UUID, feature entitlement.Feature, limit int64) (bool, error) {
	var resp checkResponse
	err := c.post(ctx, "/check", checkRequest{UserID: userID, Feature: feature, Limit: limit}, &resp)
	if err != nil {
		return false, err
	}
	return resp.Allowed, nil
}

// Increment records one consumed use with the authority.
func (c *Client) Increment(ctx context.Context, userID uuid.UUID, feature entitlement.Feature) error {
	var resp incrementResponse
	return c.post(ctx, "/increment", incrementRequest{UserID: userID, Feature: feature}, &resp)
}

// Usage fetches the authority's counters for today.
func (c *Client) Usage(ctx context.Context, userID uuid.UUID) (map[entitlement.Feature]int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/usage/"+userID.String(), nil)
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}

	var resp usageResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return resp.Usage, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return errors.Join(ErrBadRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusBadRequest:
		return ErrBadRequest
	default:
		return errors.Join(ErrUnavailable, fmt.Errorf("quota: unexpected status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}
