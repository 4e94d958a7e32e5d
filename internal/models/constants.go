// Package models contains data types and constants for the sahayi chat service.
package models

import (
	"fmt"
	"net/url"
)

// DefaultBaseURL is where the assistant service listens by default
const DefaultBaseURL = "http://127.0.0.1:8000"

// Endpoint paths, relative to the service base URL
const (
	PathNewSession = "/chat/new"
	pathSession    = "/chat/%s"
	pathMessage    = "/chat/%s/message"
)

// SessionPath returns the history path for a session
func SessionPath(sessionID string) string {
	return fmt.Sprintf(pathSession, url.PathEscape(sessionID))
}

// MessagePath returns the send-message path for a session
func MessagePath(sessionID string) string {
	return fmt.Sprintf(pathMessage, url.PathEscape(sessionID))
}

// HeaderRequestID carries a per-call correlation id
const HeaderRequestID = "X-Request-ID"

// DefaultHeaders returns the headers sent on every request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type":  "application/json",
		"Accept":        "application/json",
		"Cache-Control": "no-store",
		"User-Agent":    "sahayi",
	}
}
