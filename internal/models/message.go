package models

import "strings"

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the two known roles
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one entry in the conversation log. Messages are never mutated
// after they are appended.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage builds a user-authored message
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an assistant-authored message
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// IsAssistant reports whether the message was written by the assistant
func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

// IsBlank reports whether the content is empty after trimming whitespace
func IsBlank(content string) bool {
	return strings.TrimSpace(content) == ""
}

// CloneMessages returns an independent copy of a message slice
func CloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return []Message{}
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
