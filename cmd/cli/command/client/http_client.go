package client

// http_client.go = talks JSON to the tapea API for the CLI.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgmodels "tapea/pkg/models"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.Status)
	}
	return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// constructor for HTTP client
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// set token for HTTP client
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() // Ensure the response body is closed

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e pkgmodels.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) CastVote(ctx context.Context, req pkgmodels.CastVoteRequest) (*pkgmodels.CastVoteResponse, error) {
	var resp pkgmodels.CastVoteResponse
	if err := c.do(ctx, http.MethodPost, "/api/votes", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) MyVotes(ctx context.Context) ([]pkgmodels.Vote, error) {
	var resp struct {
		Votes []pkgmodels.Vote `json:"votes"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/me/votes", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Votes, nil
}

func (c *HTTPClient) Passport(ctx context.Context, eventID string) (*pkgmodels.Passport, error) {
	path := "/api/me/passport"
	if eventID != "" {
		path += "?event_id=" + url.QueryEscape(eventID)
	}
	var resp pkgmodels.Passport
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Venue(ctx context.Context, id string) (*pkgmodels.Venue, error) {
	var resp pkgmodels.Venue
	if err := c.do(ctx, http.MethodGet, "/api/venues/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Venues(ctx context.Context, eventID string) ([]pkgmodels.Venue, error) {
	path := "/api/venues"
	if eventID != "" {
		path += "?event_id=" + url.QueryEscape(eventID)
	}
	var resp struct {
		Venues []pkgmodels.Venue `json:"venues"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Venues, nil
}

func (c *HTTPClient) VenueQR(ctx context.Context, id string) (*pkgmodels.QRResponse, error) {
	var resp pkgmodels.QRResponse
	if err := c.do(ctx, http.MethodGet, "/api/venues/"+url.PathEscape(id)+"/qr", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Events lists running events first, then past and upcoming ones.
func (c *HTTPClient) Events(ctx context.Context) ([]pkgmodels.Event, error) {
	var resp struct {
		Events []pkgmodels.Event `json:"events"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/events", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

func (c *HTTPClient) ActiveEvent(ctx context.Context) (*pkgmodels.Event, error) {
	var resp pkgmodels.Event
	if err := c.do(ctx, http.MethodGet, "/api/events/active", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Ranking(ctx context.Context, eventID string, limit int) (*pkgmodels.RankingResponse, error) {
	q := url.Values{}
	if eventID != "" {
		q.Set("event_id", eventID)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/ranking"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp pkgmodels.RankingResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Raffle(ctx context.Context, minVotes int) (*pkgmodels.RaffleResponse, error) {
	path := "/api/admin/raffle"
	if minVotes > 0 {
		path += "?min_votes=" + strconv.Itoa(minVotes)
	}
	var resp pkgmodels.RaffleResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Role(ctx context.Context) (*pkgmodels.RoleResponse, error) {
	var resp pkgmodels.RoleResponse
	if err := c.do(ctx, http.MethodGet, "/api/me/role", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SignInURL asks the server for a Google consent URL.
func (c *HTTPClient) SignInURL(ctx context.Context, redirect, deviceID string) (string, error) {
	q := url.Values{}
	if redirect != "" {
		q.Set("redirect", redirect)
	}
	if deviceID != "" {
		q.Set("device_id", deviceID)
	}
	path := "/auth/google/start"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp pkgmodels.SignInStart
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*pkgmodels.TokenPair, error) {
	var resp pkgmodels.TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", pkgmodels.RefreshRequest{RefreshToken: refreshToken}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", pkgmodels.RevokeRequest{RefreshToken: refreshToken}, nil)
}
