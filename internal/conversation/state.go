// Package conversation owns the state of one chat with the assistant service:
// the ordered message log, the loading flag, the session id and the session
// error. A Manager is the only writer; everyone else reads Snapshots.
package conversation

import "github.com/diogo/sahayi/internal/models"

// Phase is the session manager's position in its state machine.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseInitializing
	PhaseReady
	PhaseSending
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseInitializing:
		return "initializing"
	case PhaseReady:
		return "ready"
	case PhaseSending:
		return "sending"
	case PhaseErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// state is the conversation store. It has no behaviour of its own and is
// only touched with the Manager's lock held.
type state struct {
	phase        Phase
	messages     []models.Message
	sessionID    string
	sessionError string
	isLoading    bool
	// fetching marks an in-flight history fetch; submissions wait for it.
	fetching bool
}

// Snapshot is a read-only copy of the conversation at one instant.
type Snapshot struct {
	Phase        Phase
	Messages     []models.Message
	SessionID    string
	SessionError string
	IsLoading    bool
}

// HasSession reports whether a usable session id is held
func (s Snapshot) HasSession() bool {
	return s.SessionID != ""
}

// HasError reports whether session creation failed
func (s Snapshot) HasError() bool {
	return s.SessionError != ""
}

// LastAssistant returns the most recent assistant message, if any
func (s Snapshot) LastAssistant() (models.Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].IsAssistant() {
			return s.Messages[i], true
		}
	}
	return models.Message{}, false
}

func (st *state) snapshot() Snapshot {
	return Snapshot{
		Phase:        st.phase,
		Messages:     models.CloneMessages(st.messages),
		SessionID:    st.sessionID,
		SessionError: st.sessionError,
		IsLoading:    st.isLoading,
	}
}
