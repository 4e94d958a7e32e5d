package api

import (
	"context"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/sahayi/internal/errors"
	"github.com/diogo/sahayi/internal/models"
)

// SendMessage posts one user message and returns the assistant's reply.
// The reply text may be empty; deciding what to show then is up to the
// caller. Any failure is returned as a *apierrors.MessageSendError; a timeout
// is not distinguished from a rejection.
func (c *Client) SendMessage(ctx context.Context, sessionID, content string) (*models.Reply, error) {
	body, err := c.roundTrip(ctx, apierrors.OpSendMessage, http.MethodPost, models.MessagePath(sessionID), models.SendRequest{Content: content})
	if err != nil {
		return nil, apierrors.NewMessageSendError(sessionID, err)
	}

	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewMessageSendError(sessionID, apierrors.NewParseError("response is not valid JSON", ""))
	}

	parsed := gjson.ParseBytes(body)
	reply := &models.Reply{
		SessionID: parsed.Get(PathSessionID).String(),
		Response:  parsed.Get(PathResponse).String(),
	}
	if reply.SessionID == "" {
		reply.SessionID = sessionID
	}

	return reply, nil
}
