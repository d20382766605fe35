package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-recommender/internal/infrastructure/config"
)

func newTestClient(t *testing.T, url, key string) *Client {
	t.Helper()
	cfg := &config.Config{OpenRouter: config.OpenRouterConfig{
		APIKey:  key,
		BaseURL: url,
		Model:   "openai/gpt-4o-mini",
		Timeout: 5 * time.Second,
		Referer: "http://localhost:8080",
		Title:   "FrigoChef",
	}}
	c := NewClient(cfg)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestChatCompletionSuccess(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if h := r.Header.Get("Authorization"); h != "Bearer sk-test" {
			t.Errorf("authorization header = %q", h)
		}
		if h := r.Header.Get("X-Title"); h != "FrigoChef" {
			t.Errorf("X-Title header = %q", h)
		}
		if h := r.Header.Get("HTTP-Referer"); h != "http://localhost:8080" {
			t.Errorf("HTTP-Referer header = %q", h)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"gen-1","choices":[{"message":{"role":"assistant","content":"` + "```json\\n{}\\n```" + `"}}],"usage":{"total_tokens":42}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "sk-test")
	content, err := c.ChatCompletion(context.Background(), "ciao", 0.8, 800)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content != "```json\n{}\n```" {
		t.Fatalf("content = %q", content)
	}
	if got.Model != "openai/gpt-4o-mini" || got.Temperature != 0.8 || got.MaxTokens != 800 {
		t.Fatalf("unexpected request body %+v", got)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content != "ciao" {
		t.Fatalf("unexpected messages %+v", got.Messages)
	}
}

func TestChatCompletionErrorStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"error message in body", http.StatusUnauthorized, `{"error":{"message":"No auth credentials found","code":401}}`, "No auth credentials found"},
		{"unparseable body", http.StatusBadGateway, `<html>bad gateway</html>`, "HTTP status 502"},
		{"empty body", http.StatusTooManyRequests, ``, "HTTP status 429"},
		{"json without message", http.StatusInternalServerError, `{"error":{}}`, "HTTP status 500"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv.URL, "sk-test").ChatCompletion(context.Background(), "x", 0.7, 500)
			var terr *TransportError
			if !errors.As(err, &terr) {
				t.Fatalf("expected *TransportError, got %T %v", err, err)
			}
			if terr.StatusCode != tc.status || terr.Message != tc.wantMsg {
				t.Fatalf("got status %d message %q, want %d %q", terr.StatusCode, terr.Message, tc.status, tc.wantMsg)
			}
		})
	}
}

func TestChatCompletionUnusableBody(t *testing.T) {
	for name, body := range map[string]string{
		"not json":   `hello`,
		"no choices": `{"choices":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := newTestClient(t, srv.URL, "sk-test").ChatCompletion(context.Background(), "x", 0.7, 500)
			var rerr *ResponseError
			if !errors.As(err, &rerr) {
				t.Fatalf("expected *ResponseError, got %T %v", err, err)
			}
		})
	}
}

func TestChatCompletionNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, url, "sk-test").ChatCompletion(context.Background(), "x", 0.7, 500)
	var terr *TransportError
	if !errors.As(err, &terr) || terr.StatusCode != 0 {
		t.Fatalf("expected transport error without status, got %v", err)
	}
}

func TestChatCompletionWithoutAPIKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "")
	if c.Configured() {
		t.Fatal("client without key should not be configured")
	}
	_, err := c.ChatCompletion(context.Background(), "x", 0.7, 500)
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if called {
		t.Fatal("no request should be sent without an api key")
	}
}
