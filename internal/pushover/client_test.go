package pushover

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewClient("app-token", "user-key")
	if c == nil {
		t.Fatal("NewClient returned nil for valid args")
	}
	c.endpoint = srv.URL
	return c
}

func TestNewClient_EmptyArgs(t *testing.T) {
	if NewClient("", "user") != nil {
		t.Error("expected nil client for empty token")
	}
	if NewClient("tok", "") != nil {
		t.Error("expected nil client for empty user key")
	}
}

func TestPush_FormEncoding(t *testing.T) {
	var gotContentType string
	var gotForm map[string]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		gotForm = map[string]string{
			"token":   r.PostForm.Get("token"),
			"user":    r.PostForm.Get("user"),
			"message": r.PostForm.Get("message"),
		}
		_, _ = w.Write([]byte(`{"status":1,"request":"r-1"}`))
	}))

	msg := "❗ 오늘 결제 예정인 서비스가 있습니다.\n  • Netflix | ₩12,000 | D-0 (2024-01-01)"
	if err := c.Push(context.Background(), msg); err != nil {
		t.Fatalf("Push error: %v", err)
	}

	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotForm["token"] != "app-token" || gotForm["user"] != "user-key" {
		t.Errorf("credentials = %q/%q", gotForm["token"], gotForm["user"])
	}
	if gotForm["message"] != msg {
		t.Errorf("message = %q, want multi-line body unchanged", gotForm["message"])
	}
}

func TestPush_ErrorStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, wantErr: ErrUnauthorized},
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			err := c.Push(context.Background(), "x")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPush_BadRequestDecodesErrors(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"user":"invalid","errors":["user identifier is not a valid user"],"status":0}`))
	}))

	err := c.Push(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error for status 400")
	}
	if !strings.Contains(err.Error(), "user identifier is not a valid user") {
		t.Errorf("err = %v, want the API error text included", err)
	}
}

func TestPush_CancelledContext(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Push(ctx, "x"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
