package api

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apierrors "github.com/diogo/sahayi/internal/errors"
	"github.com/diogo/sahayi/internal/models"
)

func newTestClient(t *testing.T, doer *mockDoer) *Client {
	t.Helper()
	client, err := NewClient(
		WithHTTPClient(doer),
		WithRequestIDFunc(func() string { return "req-1" }),
	)
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}
	return client
}

// TestNewClient tests the NewClient function
func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		opts        []ClientOption
		wantErr     bool
		wantBaseURL string
		wantTimeout time.Duration
	}{
		{
			name:        "defaults",
			opts:        []ClientOption{WithHTTPClient(newMockDoer(200, "{}"))},
			wantBaseURL: models.DefaultBaseURL,
			wantTimeout: 300 * time.Second,
		},
		{
			name:        "custom base URL trailing slash trimmed",
			opts:        []ClientOption{WithHTTPClient(newMockDoer(200, "{}")), WithBaseURL("https://sahayi.example.org/api/")},
			wantBaseURL: "https://sahayi.example.org/api",
			wantTimeout: 300 * time.Second,
		},
		{
			name:        "custom timeout",
			opts:        []ClientOption{WithHTTPClient(newMockDoer(200, "{}")), WithTimeout(30 * time.Second)},
			wantBaseURL: models.DefaultBaseURL,
			wantTimeout: 30 * time.Second,
		},
		{
			name:    "unsupported scheme",
			opts:    []ClientOption{WithBaseURL("ftp://127.0.0.1:8000")},
			wantErr: true,
		},
		{
			name:    "missing host",
			opts:    []ClientOption{WithBaseURL("http://")},
			wantErr: true,
		},
		{
			name:    "unparseable",
			opts:    []ClientOption{WithBaseURL("http://[::1")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.opts...)

			if tt.wantErr {
				if err == nil {
					t.Errorf("NewClient() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient() unexpected error: %v", err)
			}

			if client.BaseURL() != tt.wantBaseURL {
				t.Errorf("BaseURL() = %s, want %s", client.BaseURL(), tt.wantBaseURL)
			}
			if client.timeout != tt.wantTimeout {
				t.Errorf("timeout = %v, want %v", client.timeout, tt.wantTimeout)
			}
		})
	}
}

func TestNewClient_BuildsTLSTransport(t *testing.T) {
	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}
	if client.httpClient == nil {
		t.Fatal("expected a default transport")
	}
	client.Close()
}

func TestTimeoutSeconds(t *testing.T) {
	tests := []struct {
		timeout time.Duration
		want    int
	}{
		{500 * time.Millisecond, 1},
		{time.Second, 1},
		{1500 * time.Millisecond, 2},
		{300 * time.Second, 300},
	}
	for _, tt := range tests {
		if got := timeoutSeconds(tt.timeout); got != tt.want {
			t.Errorf("timeoutSeconds(%v) = %d, want %d", tt.timeout, got, tt.want)
		}
	}

	client, err := NewClient(WithTimeout(200 * time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}
	client.Close()
}

// TestClient_CreateSession tests the CreateSession method
func TestClient_CreateSession(t *testing.T) {
	tests := []struct {
		name      string
		doer      *mockDoer
		wantID    string
		wantErr   bool
		wantParse bool
		wantNet   bool
	}{
		{
			name:   "success",
			doer:   newMockDoer(200, `{"session_id":"s-1"}`),
			wantID: "s-1",
		},
		{
			name:   "created status",
			doer:   newMockDoer(201, `{"session_id":"s-2","messages":[]}`),
			wantID: "s-2",
		},
		{
			name:    "server error",
			doer:    newMockDoer(500, `{"detail":"boom"}`),
			wantErr: true,
		},
		{
			name:    "network error",
			doer:    newMockDoerWithError(errors.New("connection refused")),
			wantErr: true,
			wantNet: true,
		},
		{
			name:      "invalid json",
			doer:      newMockDoer(200, `<html>`),
			wantErr:   true,
			wantParse: true,
		},
		{
			name:      "missing session id",
			doer:      newMockDoer(200, `{"id":"s-1"}`),
			wantErr:   true,
			wantParse: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.doer)

			session, err := client.CreateSession(context.Background())

			req := tt.doer.last()
			if req.Method != "POST" || req.Path != "/chat/new" {
				t.Errorf("request = %s %s, want POST /chat/new", req.Method, req.Path)
			}
			if req.Body != "" {
				t.Errorf("request body = %q, want empty", req.Body)
			}
			if req.Header.Get("X-Request-ID") != "req-1" {
				t.Errorf("X-Request-ID = %q", req.Header.Get("X-Request-ID"))
			}

			if tt.wantErr {
				if err == nil {
					t.Fatal("CreateSession() expected error but got none")
				}
				if !apierrors.IsSessionCreateError(err) {
					t.Errorf("expected SessionCreateError, got %T: %v", err, err)
				}
				if tt.wantParse && !errors.Is(err, apierrors.ErrInvalidResponse) {
					t.Errorf("expected parse error cause, got %v", err)
				}
				if tt.wantNet && !apierrors.IsNetworkError(err) {
					t.Errorf("expected network error cause, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("CreateSession() unexpected error: %v", err)
			}
			if session.ID != tt.wantID {
				t.Errorf("session.ID = %s, want %s", session.ID, tt.wantID)
			}
		})
	}
}

// TestClient_SendMessage tests the SendMessage method
func TestClient_SendMessage(t *testing.T) {
	tests := []struct {
		name         string
		doer         *mockDoer
		wantResponse string
		wantSession  string
		wantErr      bool
		wantStatus   int
	}{
		{
			name:         "success",
			doer:         newMockDoer(200, `{"session_id":"s-1","response":"നമസ്കാരം"}`),
			wantResponse: "നമസ്കാരം",
			wantSession:  "s-1",
		},
		{
			name:         "empty response is not an error",
			doer:         newMockDoer(200, `{"session_id":"s-1","response":""}`),
			wantResponse: "",
			wantSession:  "s-1",
		},
		{
			name:         "missing fields fall back",
			doer:         newMockDoer(200, `{}`),
			wantResponse: "",
			wantSession:  "s-1",
		},
		{
			name:       "validation error",
			doer:       newMockDoer(422, `{"detail":[{"msg":"field required"}]}`),
			wantErr:    true,
			wantStatus: 422,
		},
		{
			name:    "timeout is just a failure",
			doer:    newMockDoerWithError(context.DeadlineExceeded),
			wantErr: true,
		},
		{
			name:    "invalid json",
			doer:    newMockDoer(200, `not json`),
			wantErr: true,
		},
		{
			name:    "body read failure",
			doer:    &mockDoer{StatusCode: 200, BodyErr: errors.New("unexpected EOF")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.doer)

			reply, err := client.SendMessage(context.Background(), "s-1", "ആധാർ കാർഡ്")

			req := tt.doer.last()
			if req.Method != "POST" || req.Path != "/chat/s-1/message" {
				t.Errorf("request = %s %s", req.Method, req.Path)
			}
			if req.Body != `{"content":"ആധാർ കാർഡ്"}` {
				t.Errorf("request body = %s", req.Body)
			}
			if req.Header.Get("Content-Type") != "application/json" {
				t.Errorf("Content-Type = %s", req.Header.Get("Content-Type"))
			}

			if tt.wantErr {
				if err == nil {
					t.Fatal("SendMessage() expected error but got none")
				}
				if !apierrors.IsMessageSendError(err) {
					t.Errorf("expected MessageSendError, got %T: %v", err, err)
				}
				if got := apierrors.GetHTTPStatus(err); got != tt.wantStatus {
					t.Errorf("GetHTTPStatus() = %d, want %d", got, tt.wantStatus)
				}
				return
			}

			if err != nil {
				t.Fatalf("SendMessage() unexpected error: %v", err)
			}
			if reply.Response != tt.wantResponse {
				t.Errorf("Response = %q, want %q", reply.Response, tt.wantResponse)
			}
			if reply.SessionID != tt.wantSession {
				t.Errorf("SessionID = %q, want %q", reply.SessionID, tt.wantSession)
			}
		})
	}
}

func TestClient_SendMessage_EscapesSessionID(t *testing.T) {
	doer := newMockDoer(200, `{"response":"ok"}`)
	client := newTestClient(t, doer)

	if _, err := client.SendMessage(context.Background(), "a/b", "hi"); err != nil {
		t.Fatalf("SendMessage() unexpected error: %v", err)
	}
	if got := doer.last().Path; got != "/chat/a%2Fb/message" {
		t.Errorf("path = %s", got)
	}
}

// TestClient_FetchHistory tests the FetchHistory method
func TestClient_FetchHistory(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		doer := newMockDoer(200, `{"session_id":"s-1","messages":[
			{"role":"user","content":"ചോദ്യം"},
			{"role":"system","content":"hidden"},
			{"role":"assistant","content":"ഉത്തരം"}
		]}`)
		client := newTestClient(t, doer)

		history, err := client.FetchHistory(context.Background(), "s-1")
		if err != nil {
			t.Fatalf("FetchHistory() unexpected error: %v", err)
		}

		req := doer.last()
		if req.Method != "GET" || req.Path != "/chat/s-1" {
			t.Errorf("request = %s %s", req.Method, req.Path)
		}

		want := []models.Message{
			models.UserMessage("ചോദ്യം"),
			models.AssistantMessage("ഉത്തരം"),
		}
		if len(history.Messages) != len(want) {
			t.Fatalf("len(Messages) = %d, want %d", len(history.Messages), len(want))
		}
		for i := range want {
			if history.Messages[i] != want[i] {
				t.Errorf("Messages[%d] = %+v, want %+v", i, history.Messages[i], want[i])
			}
		}
		if history.SessionID != "s-1" {
			t.Errorf("SessionID = %s", history.SessionID)
		}
	})

	t.Run("empty history", func(t *testing.T) {
		client := newTestClient(t, newMockDoer(200, `{"session_id":"s-1","messages":[]}`))
		history, err := client.FetchHistory(context.Background(), "s-1")
		if err != nil {
			t.Fatalf("FetchHistory() unexpected error: %v", err)
		}
		if history.Messages == nil || len(history.Messages) != 0 {
			t.Errorf("Messages = %#v, want empty slice", history.Messages)
		}
	})

	failures := []struct {
		name string
		doer *mockDoer
	}{
		{"not found", newMockDoer(404, `{"detail":"Session not found"}`)},
		{"network", newMockDoerWithError(errors.New("connection reset by peer"))},
		{"missing messages", newMockDoer(200, `{"session_id":"s-1"}`)},
		{"messages not a list", newMockDoer(200, `{"messages":"none"}`)},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.doer)
			_, err := client.FetchHistory(context.Background(), "s-1")
			if err == nil {
				t.Fatal("FetchHistory() expected error but got none")
			}
			if !apierrors.IsHistoryFetchError(err) {
				t.Errorf("expected HistoryFetchError, got %T: %v", err, err)
			}
		})
	}
}

func TestClient_ErrorBodyTruncated(t *testing.T) {
	client := newTestClient(t, newMockDoer(502, strings.Repeat("x", 10000)))

	_, err := client.CreateSession(context.Background())

	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError in chain, got %v", err)
	}
	if len(apiErr.Body) != maxErrorBody {
		t.Errorf("len(Body) = %d, want %d", len(apiErr.Body), maxErrorBody)
	}
	if apiErr.Endpoint != "/chat/new" {
		t.Errorf("Endpoint = %s", apiErr.Endpoint)
	}
}

func TestClient_Close(t *testing.T) {
	doer := newMockDoer(200, `{"session_id":"s-1"}`)
	client := newTestClient(t, doer)

	client.Close()
	client.Close()

	if !client.IsClosed() {
		t.Error("IsClosed() = false after Close()")
	}
	if !doer.idleClosed {
		t.Error("expected idle connections to be closed")
	}

	if _, err := client.CreateSession(context.Background()); err == nil {
		t.Error("expected error from closed client")
	}
	if len(doer.Requests) != 0 {
		t.Errorf("closed client issued %d requests", len(doer.Requests))
	}
}
