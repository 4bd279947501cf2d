package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, baseURL string, token string) *Client {
	t.Helper()
	return New(Config{
		BaseURL: baseURL,
		Tokens: func(ctx context.Context) (string, error) {
			return token, nil
		},
		Logger: zerolog.Nop(),
	})
}

func TestDoParsesJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "")
	raw, err := client.Do(context.Background(), "/ping", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || !body.OK {
		t.Fatalf("unexpected body %s (err %v)", raw, err)
	}
}

func TestDoEmptyBodyReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "")
	raw, err := client.Do(context.Background(), "/empty", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != nil {
		t.Fatalf("expected nil body, got %s", raw)
	}
}

func TestDoHeaderDiscipline(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "tok-123")

	// Authenticated POST with a body.
	if _, err := client.Do(context.Background(), "/things", Options{
		Method:       http.MethodPost,
		Body:         map[string]string{"a": "b"},
		RequiresAuth: true,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth := got.Get("Authorization"); auth != "Bearer tok-123" {
		t.Fatalf("unexpected Authorization header %q", auth)
	}
	if ct := got.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected Content-Type %q", ct)
	}
	if got.Get("X-Request-Id") == "" {
		t.Fatal("expected a request id header")
	}

	// Anonymous GET without a body.
	if _, err := client.Do(context.Background(), "/things", Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth := got.Get("Authorization"); auth != "" {
		t.Fatalf("anonymous request carried Authorization %q", auth)
	}
	if ct := got.Get("Content-Type"); ct != "" {
		t.Fatalf("bodyless request carried Content-Type %q", ct)
	}
}

func TestDoNoBearerWithoutToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "")
	if _, err := client.Do(context.Background(), "/x", Options{RequiresAuth: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth != "" {
		t.Fatalf("request without stored token carried Authorization %q", auth)
	}
}

func TestDoRequestErrorMessages(t *testing.T) {
	cases := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantCode    string
	}{
		{"nested envelope", 422, `{"error":{"code":"AMOUNT_INVALID","message":"bad amount"}}`, "bad amount", "AMOUNT_INVALID"},
		{"flat envelope", 409, `{"message":"conflict","code":"DUP"}`, "conflict", "DUP"},
		{"empty body", 500, "", "HTTP 500", ""},
		{"non-json body", 502, "<html>bad gateway</html>", "HTTP 502", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := newTestClient(t, srv.URL, "")
			_, err := client.Do(context.Background(), "/fail", Options{})
			var re *RequestError
			if !errors.As(err, &re) {
				t.Fatalf("expected RequestError, got %v", err)
			}
			if re.Status != tc.status {
				t.Fatalf("status = %d, want %d", re.Status, tc.status)
			}
			if re.Error() != tc.wantMessage {
				t.Fatalf("message = %q, want %q", re.Error(), tc.wantMessage)
			}
			if re.Code != tc.wantCode {
				t.Fatalf("code = %q, want %q", re.Code, tc.wantCode)
			}
			if StatusOf(err) != tc.status {
				t.Fatalf("StatusOf = %d, want %d", StatusOf(err), tc.status)
			}
		})
	}
}

func TestDoIntrinsicTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "")
	_, err := client.Do(context.Background(), "/slow", Options{Timeout: 20 * time.Millisecond})
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if StatusOf(err) != 0 {
		t.Fatalf("timeout StatusOf = %d, want 0", StatusOf(err))
	}
	var re *RequestError
	if errors.As(err, &re) {
		t.Fatal("timeout must not be a RequestError")
	}
}

func TestDoExternalCancel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	client := newTestClient(t, srv.URL, "")
	_, err := client.Do(ctx, "/hang", Options{Timeout: 10 * time.Second})
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected TimeoutError on external cancel, got %v", err)
	}
}

func TestDoNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := newTestClient(t, url, "")
	_, err := client.Do(context.Background(), "/down", Options{})
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if StatusOf(err) != 0 {
		t.Fatalf("network StatusOf = %d, want 0", StatusOf(err))
	}
}

func TestUnauthorizedHandlerInvoked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"nope"}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "tok")
	var gotStatus int
	var gotBody json.RawMessage
	client.SetUnauthorizedHandler(func(u Unauthorized) {
		gotStatus = u.Status
		gotBody = u.Body
	})

	_, err := client.Do(context.Background(), "/me", Options{RequiresAuth: true})
	var re *RequestError
	if !errors.As(err, &re) || re.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 RequestError, got %v", err)
	}
	if gotStatus != http.StatusUnauthorized {
		t.Fatalf("handler saw status %d", gotStatus)
	}
	if len(gotBody) == 0 {
		t.Fatal("handler did not receive the error body")
	}
}

func TestUnauthorizedHandlerPanicContained(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "tok")
	client.SetUnauthorizedHandler(func(u Unauthorized) {
		calls.Add(1)
		panic("misbehaving handler")
	})

	_, err := client.Do(context.Background(), "/admin", Options{RequiresAuth: true})
	var re *RequestError
	if !errors.As(err, &re) || re.Status != http.StatusForbidden {
		t.Fatalf("handler panic corrupted the error path: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("handler calls = %d, want 1", calls.Load())
	}
}

func TestUnauthorizedHandlerLastRegistrationWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "tok")
	var first, second atomic.Int32
	client.SetUnauthorizedHandler(func(Unauthorized) { first.Add(1) })
	client.SetUnauthorizedHandler(func(Unauthorized) { second.Add(1) })

	client.Do(context.Background(), "/x", Options{RequiresAuth: true})
	if first.Load() != 0 || second.Load() != 1 {
		t.Fatalf("handler calls first=%d second=%d", first.Load(), second.Load())
	}

	client.SetUnauthorizedHandler(nil)
	if _, err := client.Do(context.Background(), "/x", Options{RequiresAuth: true}); err == nil {
		t.Fatal("expected RequestError")
	}
	if second.Load() != 1 {
		t.Fatal("cleared handler was still invoked")
	}
}
