package api

import (
	"context"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/sahayi/internal/errors"
	"github.com/diogo/sahayi/internal/models"
)

// CreateSession asks the service for a new conversation.
// Any failure is returned as a *apierrors.SessionCreateError.
func (c *Client) CreateSession(ctx context.Context) (*models.Session, error) {
	body, err := c.roundTrip(ctx, apierrors.OpCreateSession, http.MethodPost, models.PathNewSession, nil)
	if err != nil {
		return nil, apierrors.NewSessionCreateError(err)
	}

	session, err := parseSession(body)
	if err != nil {
		return nil, apierrors.NewSessionCreateError(err)
	}

	c.logger.Debug().Str("session_id", session.ID).Msg("session created")
	return session, nil
}

// FetchHistory returns the service's record of a conversation.
// Any failure is returned as a *apierrors.HistoryFetchError.
func (c *Client) FetchHistory(ctx context.Context, sessionID string) (*models.History, error) {
	body, err := c.roundTrip(ctx, apierrors.OpFetchHistory, http.MethodGet, models.SessionPath(sessionID), nil)
	if err != nil {
		return nil, apierrors.NewHistoryFetchError(sessionID, err)
	}

	history, err := c.parseHistory(body, sessionID)
	if err != nil {
		return nil, apierrors.NewHistoryFetchError(sessionID, err)
	}
	return history, nil
}

func parseSession(body []byte) (*models.Session, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", "")
	}

	id := gjson.GetBytes(body, PathSessionID)
	if !id.Exists() || id.String() == "" {
		return nil, apierrors.NewParseError("missing session id", PathSessionID)
	}

	return &models.Session{ID: id.String()}, nil
}

// parseHistory decodes the message list. Entries with a role other than
// user or assistant are skipped.
func (c *Client) parseHistory(body []byte, sessionID string) (*models.History, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)
	list := parsed.Get(PathMessages)
	if !list.Exists() || !list.IsArray() {
		return nil, apierrors.NewParseError("missing message list", PathMessages)
	}

	history := &models.History{
		SessionID: parsed.Get(PathSessionID).String(),
		Messages:  []models.Message{},
	}
	if history.SessionID == "" {
		history.SessionID = sessionID
	}

	list.ForEach(func(idx, entry gjson.Result) bool {
		role := models.Role(entry.Get(PathMsgRole).String())
		if !role.Valid() {
			c.logger.Debug().Int64("index", idx.Int()).Str("role", string(role)).Msg("skipping history entry")
			return true
		}
		history.Messages = append(history.Messages, models.Message{
			Role:    role,
			Content: entry.Get(PathMsgContent).String(),
		})
		return true
	})

	return history, nil
}
