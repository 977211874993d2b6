// Package pushover provides a minimal client for the Pushover message API.
package pushover

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultEndpoint = "https://api.pushover.net/1/messages.json"
	requestTimeout  = 10 * time.Second
	maxBodySize     = 64 << 10
)

var (
	// ErrUnauthorized indicates the application token or user key was rejected.
	ErrUnauthorized = errors.New("pushover: unauthorized (application token or user key invalid)")
	// ErrRateLimited indicates the application hit its message limit.
	ErrRateLimited = errors.New("pushover: rate limited (message limit reached)")
)

// Client sends plain-text messages through Pushover.
type Client struct {
	token    string
	user     string
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a client for the given application token and user
// key. Returns nil if either value is empty.
func NewClient(token, user string) *Client {
	token = strings.TrimSpace(token)
	user = strings.TrimSpace(user)
	if token == "" || user == "" {
		return nil
	}
	return &Client{
		token:    token,
		user:     user,
		endpoint: defaultEndpoint,
		http:     &http.Client{},
		// Pushover throttles bursts hard; cap our own send rate.
		limiter: rate.NewLimiter(2, 4),
	}
}

// Push sends one message. It waits on the client's rate limiter before
// dispatching, honoring ctx during the wait.
func (c *Client) Push(ctx context.Context, message string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("pushover: waiting for send slot: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	form := url.Values{}
	form.Set("token", c.token)
	form.Set("user", c.user)
	form.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("pushover: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("pushover: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if msg := apiErrors(body); msg != "" {
		return fmt.Errorf("pushover: status %d: %s", resp.StatusCode, msg)
	}
	return fmt.Errorf("pushover: unexpected status %d", resp.StatusCode)
}

// apiErrors extracts the errors array Pushover returns on failures.
func apiErrors(body []byte) string {
	var parsed struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Errors) == 0 {
		return ""
	}
	return strings.Join(parsed.Errors, "; ")
}
