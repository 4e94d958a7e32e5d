package api

import (
	"context"

	"github.com/diogo/sahayi/internal/models"
)

// ClientInterface defines the remote operations the session manager needs.
// Each failure is one of the apierrors taxonomy kinds so callers can branch
// on which operation failed.
type ClientInterface interface {
	CreateSession(ctx context.Context) (*models.Session, error)
	SendMessage(ctx context.Context, sessionID, content string) (*models.Reply, error)
	FetchHistory(ctx context.Context, sessionID string) (*models.History, error)
}

var _ ClientInterface = (*Client)(nil)
