package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/diogo/sahayi/internal/api"
	apierrors "github.com/diogo/sahayi/internal/errors"
	"github.com/diogo/sahayi/internal/locale"
	"github.com/diogo/sahayi/internal/models"
)

// Manager drives one conversation through its lifecycle:
//
//	Uninitialized -> Initializing -> Ready | Errored
//	Errored -> Initializing (retry)
//	Ready -> Sending -> Ready
//
// Only session creation can reach Errored. A failed send is turned into an
// assistant message and the conversation stays usable.
type Manager struct {
	client  api.ClientInterface
	strings locale.Strings
	logger  zerolog.Logger

	mu    sync.RWMutex
	state state
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger for state transitions
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithStrings sets the localized fixed texts (session error, fallbacks)
func WithStrings(s locale.Strings) Option {
	return func(m *Manager) {
		m.strings = s
	}
}

// NewManager creates a Manager for a fresh, uninitialized conversation
func NewManager(client api.ClientInterface, opts ...Option) *Manager {
	m := &Manager{
		client:  client,
		strings: locale.Default().Strings,
		logger:  zerolog.Nop(),
		state: state{
			phase:    PhaseUninitialized,
			messages: []models.Message{},
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns a copy of the current conversation state
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.snapshot()
}

// Phase returns the current state machine phase
func (m *Manager) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.phase
}

// Initialize creates the remote session. It is valid from Uninitialized and
// Errored; on success the log starts empty, on failure the conversation is
// Errored with the localized session error and no session id.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	if m.state.phase != PhaseUninitialized && m.state.phase != PhaseErrored {
		phase := m.state.phase
		m.mu.Unlock()
		return fmt.Errorf("initialize from %s: %w", phase, apierrors.ErrInvalidTransition)
	}
	m.state.phase = PhaseInitializing
	m.state.sessionError = ""
	m.state.sessionID = ""
	m.mu.Unlock()

	session, err := m.client.CreateSession(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil && (session == nil || session.ID == "") {
		err = apierrors.NewSessionCreateError(apierrors.NewParseError("empty session id", "session_id"))
	}
	if err != nil {
		m.state.phase = PhaseErrored
		m.state.sessionError = m.strings.SessionError
		m.logger.Warn().Err(err).Msg("session creation failed")
		return err
	}

	m.state.phase = PhaseReady
	m.state.sessionID = session.ID
	m.state.messages = []models.Message{}
	m.logger.Debug().Str("session_id", session.ID).Msg("conversation ready")
	return nil
}

// Retry re-runs session creation after a failure. Each retry is a fresh,
// independent call with no backoff.
func (m *Manager) Retry(ctx context.Context) error {
	if phase := m.Phase(); phase != PhaseErrored {
		return fmt.Errorf("retry from %s: %w", phase, apierrors.ErrInvalidTransition)
	}
	return m.Initialize(ctx)
}

// Resume attaches an existing remote session without creating a new one.
// Call FetchHistory afterwards to load its log.
func (m *Manager) Resume(sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return apierrors.ErrNoSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.phase != PhaseUninitialized && m.state.phase != PhaseErrored {
		return fmt.Errorf("resume from %s: %w", m.state.phase, apierrors.ErrInvalidTransition)
	}

	m.state.phase = PhaseReady
	m.state.sessionID = sessionID
	m.state.sessionError = ""
	m.state.messages = []models.Message{}
	m.logger.Debug().Str("session_id", sessionID).Msg("conversation resumed")
	return nil
}

// Reset ends the current conversation and returns to Uninitialized so a new
// one can be started. It is refused while a message or fetch is in flight.
func (m *Manager) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.state.phase == PhaseSending || m.state.fetching:
		return apierrors.ErrBusy
	case m.state.phase == PhaseInitializing:
		return fmt.Errorf("reset from %s: %w", m.state.phase, apierrors.ErrInvalidTransition)
	}

	m.state = state{phase: PhaseUninitialized, messages: []models.Message{}}
	return nil
}

// Turn is one accepted submission waiting for its reply.
type Turn struct {
	m         *Manager
	sessionID string
	content   string
	once      sync.Once
}

// Content returns the submitted text
func (t *Turn) Content() string {
	return t.content
}

// Begin validates and records a submission: it appends the user message and
// raises the loading flag. A rejected submission returns a guard error and
// leaves the conversation untouched.
func (m *Manager) Begin(input string) (*Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case models.IsBlank(input):
		return nil, apierrors.ErrEmptyInput
	case m.state.sessionID == "":
		return nil, apierrors.ErrNoSession
	case m.state.phase == PhaseSending || m.state.fetching:
		return nil, apierrors.ErrBusy
	case m.state.phase != PhaseReady:
		return nil, fmt.Errorf("submit from %s: %w", m.state.phase, apierrors.ErrInvalidTransition)
	}

	m.state.messages = append(m.state.messages, models.UserMessage(input))
	m.state.isLoading = true
	m.state.phase = PhaseSending

	return &Turn{m: m, sessionID: m.state.sessionID, content: input}, nil
}

// Resolve sends the turn and appends the assistant's reply. On failure the
// localized technical-error text is appended instead and the send error is
// returned for logging; the conversation is Ready again either way.
// A turn resolves once; later calls return ErrInvalidTransition.
func (t *Turn) Resolve(ctx context.Context) (models.Message, error) {
	resolved := false
	var reply models.Message
	var sendErr error

	t.once.Do(func() {
		resolved = true
		reply, sendErr = t.m.resolve(ctx, t)
	})

	if !resolved {
		return models.Message{}, fmt.Errorf("turn already resolved: %w", apierrors.ErrInvalidTransition)
	}
	return reply, sendErr
}

func (m *Manager) resolve(ctx context.Context, t *Turn) (models.Message, error) {
	result, err := m.client.SendMessage(ctx, t.sessionID, t.content)

	var content string
	switch {
	case err != nil:
		content = m.strings.TechnicalError
		m.logger.Warn().Err(err).Str("session_id", t.sessionID).Msg("message send failed")
	case result == nil || models.IsBlank(result.Response):
		content = m.strings.EmptyReply
		m.logger.Debug().Str("session_id", t.sessionID).Msg("empty reply, using fallback")
	default:
		content = result.Response
	}

	reply := models.AssistantMessage(content)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.messages = append(m.state.messages, reply)
	m.state.isLoading = false
	m.state.phase = PhaseReady

	return reply, err
}

// Submit is Begin followed by Resolve, for callers that can block.
func (m *Manager) Submit(ctx context.Context, input string) (models.Message, error) {
	turn, err := m.Begin(input)
	if err != nil {
		return models.Message{}, err
	}
	return turn.Resolve(ctx)
}

// FetchHistory replaces the whole log with the service's record. It is
// refused while a message is being sent, so a reply can never be overwritten
// by an older record. On failure the log is left exactly as it was.
func (m *Manager) FetchHistory(ctx context.Context) error {
	m.mu.Lock()
	switch {
	case m.state.sessionID == "":
		m.mu.Unlock()
		return apierrors.ErrNoSession
	case m.state.phase == PhaseSending || m.state.fetching:
		m.mu.Unlock()
		return apierrors.ErrBusy
	case m.state.phase != PhaseReady:
		phase := m.state.phase
		m.mu.Unlock()
		return fmt.Errorf("fetch history from %s: %w", phase, apierrors.ErrInvalidTransition)
	}
	m.state.fetching = true
	sessionID := m.state.sessionID
	m.mu.Unlock()

	history, err := m.client.FetchHistory(ctx, sessionID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.fetching = false

	if err != nil {
		m.logger.Warn().Err(err).Str("session_id", sessionID).Msg("history fetch failed, keeping local log")
		return err
	}
	if history == nil {
		history = &models.History{SessionID: sessionID}
	}

	m.state.messages = models.CloneMessages(history.Messages)
	m.logger.Debug().Str("session_id", sessionID).Int("messages", len(history.Messages)).Msg("history replaced")
	return nil
}
