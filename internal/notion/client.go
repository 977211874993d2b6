// Package notion provides a client for the Notion database API and the
// extraction of subscription records from its pages.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/theirongolddev/subwatch/internal/model"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"
	requestTimeout = 30 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

var (
	// ErrUnauthorized indicates the integration token is invalid or revoked.
	ErrUnauthorized = errors.New("notion: unauthorized (integration token invalid or revoked)")
	// ErrDatabaseNotFound indicates the database id is wrong or the
	// database was never shared with the integration.
	ErrDatabaseNotFound = errors.New("notion: database not found (check the id and integration sharing)")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("notion: rate limited")
)

// Client queries one Notion database.
type Client struct {
	token      string
	databaseID string
	baseURL    string
	http       *http.Client
}

// NewClient creates a client for the given integration token and
// database id. Returns nil if either value is empty.
func NewClient(token, databaseID string) *Client {
	token = strings.TrimSpace(token)
	databaseID = strings.TrimSpace(databaseID)
	if token == "" || databaseID == "" {
		return nil
	}
	return &Client{
		token:      token,
		databaseID: databaseID,
		baseURL:    defaultBaseURL,
		http:       &http.Client{},
	}
}

// FetchSubscriptions queries the full database and extracts one
// subscription per row, preserving database order.
func (c *Client) FetchSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	result, err := c.QueryDatabase(ctx)
	if err != nil {
		return nil, err
	}
	return Extract(result.Pages), nil
}

// QueryDatabase fetches every row of the database, following
// pagination until the API reports no more pages.
func (c *Client) QueryDatabase(ctx context.Context) (*QueryResult, error) {
	result := &QueryResult{}

	var cursor string
	for {
		body, err := c.post(ctx, "/databases/"+c.databaseID+"/query", queryRequest{StartCursor: cursor})
		if err != nil {
			return nil, err
		}

		var page queryResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("notion: parsing query response: %w", err)
		}

		result.Pages = append(result.Pages, page.Results...)
		if !page.HasMore || page.NextCursor == nil || *page.NextCursor == "" {
			return result, nil
		}
		cursor = *page.NextCursor
	}
}

// post performs an authenticated POST request and returns the response body.
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("notion: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("notion: creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notion: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, ErrDatabaseNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("notion: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("notion: unexpected status %d: %s", resp.StatusCode, snippet(body))
	}
	return body, nil
}

// snippet returns a single-line prefix of an error body for messages.
func snippet(body []byte) string {
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) > 160 {
		s = s[:160] + "..."
	}
	return s
}
