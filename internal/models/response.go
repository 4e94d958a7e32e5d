package models

// Session is the result of a successful createSession call
type Session struct {
	ID string `json:"session_id"`
}

// SendRequest is the body of a send-message call
type SendRequest struct {
	Content string `json:"content"`
}

// Reply is the result of a successful sendMessage call
type Reply struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

// History is the result of a successful fetchHistory call
type History struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
}
