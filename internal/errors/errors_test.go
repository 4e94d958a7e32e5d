package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSessionCreateError(t *testing.T) {
	cause := NewAPIError(500, "/chat/new", "create session failed")
	err := NewSessionCreateError(cause)

	expected := "session creation failed: API error [500] at /chat/new: create session failed"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	if !errors.Is(err, ErrSessionCreate) {
		t.Error("Expected errors.Is(err, ErrSessionCreate)")
	}
	if errors.Is(err, ErrMessageSend) {
		t.Error("Expected session create error not to match ErrMessageSend")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("Expected cause to be reachable through errors.As")
	}
	if apiErr.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
}

func TestSessionCreateError_NilCause(t *testing.T) {
	err := NewSessionCreateError(nil)
	if err.Error() != "session creation failed" {
		t.Errorf("Error() = %s", err.Error())
	}
}

func TestMessageSendError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewMessageSendError("abc", cause)

	expected := "message send failed (session abc): connection reset"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
	if !errors.Is(err, ErrMessageSend) {
		t.Error("Expected errors.Is(err, ErrMessageSend)")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected cause to be unwrapped")
	}
	if !err.Is(NewMessageSendError("other", nil)) {
		t.Error("Expected MessageSendError to match another MessageSendError")
	}
}

func TestHistoryFetchError(t *testing.T) {
	err := NewHistoryFetchError("abc", NewParseError("no messages", "messages"))

	if !errors.Is(err, ErrHistoryFetch) {
		t.Error("Expected errors.Is(err, ErrHistoryFetch)")
	}
	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("Expected wrapped ParseError to match ErrInvalidResponse")
	}
}

func TestOperationOf(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		wantOp Operation
		wantOk bool
	}{
		{"create", NewSessionCreateError(nil), OpCreateSession, true},
		{"send", NewMessageSendError("s", nil), OpSendMessage, true},
		{"history", NewHistoryFetchError("s", nil), OpFetchHistory, true},
		{"wrapped send", fmt.Errorf("turn: %w", NewMessageSendError("s", nil)), OpSendMessage, true},
		{"plain", errors.New("boom"), "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, ok := OperationOf(tt.err)
			if op != tt.wantOp || ok != tt.wantOk {
				t.Errorf("OperationOf() = (%q, %v), want (%q, %v)", op, ok, tt.wantOp, tt.wantOk)
			}
		})
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewNetworkErrorWithEndpoint("send message", "/chat/x/message", cause)

	expected := "network error during send message at /chat/x/message: dial tcp: connection refused"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	wrapped := NewMessageSendError("x", err)
	if !IsNetworkError(wrapped) {
		t.Error("Expected IsNetworkError through MessageSendError")
	}
	if got := GetEndpoint(wrapped); got != "/chat/x/message" {
		t.Errorf("GetEndpoint() = %s", got)
	}
	if got := GetHTTPStatus(wrapped); got != 0 {
		t.Errorf("GetHTTPStatus() = %d, want 0", got)
	}
}

func TestGetHTTPStatus(t *testing.T) {
	err := NewHistoryFetchError("s", NewAPIErrorWithBody(404, "/chat/s", "fetch history failed", `{"detail":"not found"}`))
	if got := GetHTTPStatus(err); got != 404 {
		t.Errorf("GetHTTPStatus() = %d, want 404", got)
	}
	if got := GetEndpoint(err); got != "/chat/s" {
		t.Errorf("GetEndpoint() = %s", got)
	}
}

func TestIsGuardError(t *testing.T) {
	for _, err := range []error{ErrEmptyInput, ErrNoSession, ErrBusy, ErrInvalidTransition} {
		if !IsGuardError(fmt.Errorf("submit: %w", err)) {
			t.Errorf("IsGuardError(%v) = false", err)
		}
	}
	if IsGuardError(NewMessageSendError("s", nil)) {
		t.Error("MessageSendError is not a guard error")
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("missing field", "session_id")
	if err.Error() != `parse error: missing field (path "session_id")` {
		t.Errorf("Error() = %s", err.Error())
	}
	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("Expected ParseError to match ErrInvalidResponse")
	}
	if NewParseError("x", "").Error() != "parse error: x" {
		t.Error("unexpected message without path")
	}
}

func TestGetResponseBody(t *testing.T) {
	err := NewSessionCreateError(NewAPIErrorWithBody(503, "/chat/new", "create session failed", `{"detail":"model loading"}`))
	if got := GetResponseBody(err); got != `{"detail":"model loading"}` {
		t.Errorf("GetResponseBody() = %q", got)
	}
	if got := GetResponseBody(errors.New("plain")); got != "" {
		t.Errorf("GetResponseBody() on plain error = %q, want empty", got)
	}
}
