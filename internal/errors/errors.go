// Package errors provides custom error types for the sahayi remote session client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrSessionCreate   = errors.New("session creation failed")
	ErrMessageSend     = errors.New("message send failed")
	ErrHistoryFetch    = errors.New("history fetch failed")
	ErrInvalidResponse = errors.New("invalid response format")

	// Session manager guards. A guarded call changes no state and issues no remote call.
	ErrEmptyInput        = errors.New("input is empty")
	ErrNoSession         = errors.New("no active session")
	ErrBusy              = errors.New("a message is already being sent")
	ErrInvalidTransition = errors.New("invalid session state transition")
)

// Operation identifies which remote operation failed.
type Operation string

const (
	OpCreateSession Operation = "create session"
	OpSendMessage   Operation = "send message"
	OpFetchHistory  Operation = "fetch history"
)

// SessionCreateError reports a failed createSession round trip.
type SessionCreateError struct {
	Cause error
}

func (e *SessionCreateError) Error() string {
	if e.Cause == nil {
		return ErrSessionCreate.Error()
	}
	return fmt.Sprintf("%s: %v", ErrSessionCreate, e.Cause)
}

func (e *SessionCreateError) Unwrap() error { return e.Cause }

// Is allows comparison with sentinel errors
func (e *SessionCreateError) Is(target error) bool {
	if target == ErrSessionCreate {
		return true
	}
	_, ok := target.(*SessionCreateError)
	return ok
}

// NewSessionCreateError creates a new SessionCreateError
func NewSessionCreateError(cause error) *SessionCreateError {
	return &SessionCreateError{Cause: cause}
}

// MessageSendError reports a failed sendMessage round trip.
type MessageSendError struct {
	SessionID string
	Cause     error
}

func (e *MessageSendError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s (session %s)", ErrMessageSend, e.SessionID)
	}
	return fmt.Sprintf("%s (session %s): %v", ErrMessageSend, e.SessionID, e.Cause)
}

func (e *MessageSendError) Unwrap() error { return e.Cause }

// Is allows comparison with sentinel errors
func (e *MessageSendError) Is(target error) bool {
	if target == ErrMessageSend {
		return true
	}
	_, ok := target.(*MessageSendError)
	return ok
}

// NewMessageSendError creates a new MessageSendError
func NewMessageSendError(sessionID string, cause error) *MessageSendError {
	return &MessageSendError{SessionID: sessionID, Cause: cause}
}

// HistoryFetchError reports a failed fetchHistory round trip.
type HistoryFetchError struct {
	SessionID string
	Cause     error
}

func (e *HistoryFetchError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s (session %s)", ErrHistoryFetch, e.SessionID)
	}
	return fmt.Sprintf("%s (session %s): %v", ErrHistoryFetch, e.SessionID, e.Cause)
}

func (e *HistoryFetchError) Unwrap() error { return e.Cause }

// Is allows comparison with sentinel errors
func (e *HistoryFetchError) Is(target error) bool {
	if target == ErrHistoryFetch {
		return true
	}
	_, ok := target.(*HistoryFetchError)
	return ok
}

// NewHistoryFetchError creates a new HistoryFetchError
func NewHistoryFetchError(sessionID string, cause error) *HistoryFetchError {
	return &HistoryFetchError{SessionID: sessionID, Cause: cause}
}

// APIError represents a non-2xx response from the remote service
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewAPIErrorWithBody creates a new APIError carrying a (truncated) response body
func NewAPIErrorWithBody(statusCode int, endpoint, message, body string) *APIError {
	e := NewAPIError(statusCode, endpoint, message)
	e.Body = body
	return e
}

// NetworkError represents a transport failure (dial, TLS, reset, timeout)
type NetworkError struct {
	Operation string
	Endpoint  string
	Cause     error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s at %s: %v", e.Operation, e.Endpoint, e.Cause)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Cause)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// NewNetworkErrorWithEndpoint creates a new NetworkError
func NewNetworkErrorWithEndpoint(operation, endpoint string, cause error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Cause: cause}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error: %s (path %q)", e.Message, e.Path)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// OperationOf reports which remote operation an error belongs to.
// The second return value is false for errors outside the taxonomy.
func OperationOf(err error) (Operation, bool) {
	switch {
	case errors.Is(err, ErrSessionCreate):
		return OpCreateSession, true
	case errors.Is(err, ErrMessageSend):
		return OpSendMessage, true
	case errors.Is(err, ErrHistoryFetch):
		return OpFetchHistory, true
	}
	return "", false
}

// IsSessionCreateError checks if the error is a SessionCreateError
func IsSessionCreateError(err error) bool {
	return errors.Is(err, ErrSessionCreate)
}

// IsMessageSendError checks if the error is a MessageSendError
func IsMessageSendError(err error) bool {
	return errors.Is(err, ErrMessageSend)
}

// IsHistoryFetchError checks if the error is a HistoryFetchError
func IsHistoryFetchError(err error) bool {
	return errors.Is(err, ErrHistoryFetch)
}

// IsNetworkError checks if the error chain contains a NetworkError
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsGuardError checks if the error is one of the session manager guards
func IsGuardError(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrNoSession) ||
		errors.Is(err, ErrBusy) ||
		errors.Is(err, ErrInvalidTransition)
}

// GetHTTPStatus extracts the HTTP status code from an error chain, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetEndpoint extracts the endpoint from an error chain, or ""
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	return ""
}

// GetResponseBody extracts the service's error body from an error chain, or ""
func GetResponseBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return ""
}
