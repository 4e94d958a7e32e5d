package api

import (
	"context"
	"sync"

	"github.com/diogo/sahayi/internal/models"
)

// MockClient is a mock implementation of ClientInterface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Mock return values
	SessionVal *models.Session
	SessionErr error
	ReplyVal   *models.Reply
	ReplyErr   error
	HistoryVal *models.History
	HistoryErr error

	// SendGate, when set, blocks SendMessage until a value is received or
	// the channel is closed. SendStarted is signalled once the call is in flight.
	SendGate    chan struct{}
	SendStarted chan struct{}

	// HistoryGate and HistoryStarted do the same for FetchHistory.
	HistoryGate    chan struct{}
	HistoryStarted chan struct{}

	// Call counters/recorders
	CreateSessionCalls int
	SendMessageCalls   int
	FetchHistoryCalls  int
	LastSessionID      string
	LastContent        string
}

// Ensure MockClient implements ClientInterface
var _ ClientInterface = (*MockClient)(nil)

func (m *MockClient) CreateSession(ctx context.Context) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateSessionCalls++
	return m.SessionVal, m.SessionErr
}

func (m *MockClient) SendMessage(ctx context.Context, sessionID, content string) (*models.Reply, error) {
	m.mu.Lock()
	m.SendMessageCalls++
	m.LastSessionID = sessionID
	m.LastContent = content
	gate, started := m.SendGate, m.SendStarted
	m.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ReplyVal, m.ReplyErr
}

func (m *MockClient) FetchHistory(ctx context.Context, sessionID string) (*models.History, error) {
	m.mu.Lock()
	m.FetchHistoryCalls++
	m.LastSessionID = sessionID
	gate, started := m.HistoryGate, m.HistoryStarted
	m.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.HistoryVal, m.HistoryErr
}

// Calls returns the three call counters under the lock
func (m *MockClient) Calls() (create, send, history int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CreateSessionCalls, m.SendMessageCalls, m.FetchHistoryCalls
}

// SetSession swaps the CreateSession result under the lock
func (m *MockClient) SetSession(session *models.Session, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionVal, m.SessionErr = session, err
}
