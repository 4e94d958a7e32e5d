// Package api provides the client for the assistant chat service.
package api

// GJSON paths for extracting values from service responses.
const (
	PathSessionID = "session_id"
	PathResponse  = "response"
	PathMessages  = "messages"

	// Relative to one entry of PathMessages
	PathMsgRole    = "role"
	PathMsgContent = "content"
)

// maxErrorBody bounds how much of a failed response body is kept for diagnostics
const maxErrorBody = 4096
