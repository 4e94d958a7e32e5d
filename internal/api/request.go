package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	http "github.com/bogdanfinn/fhttp"

	apierrors "github.com/diogo/sahayi/internal/errors"
	"github.com/diogo/sahayi/internal/models"
)

// roundTrip performs one request and returns the body of a 2xx response.
// Transport failures become NetworkError, any other status becomes APIError.
func (c *Client) roundTrip(ctx context.Context, op apierrors.Operation, method, path string, payload any) ([]byte, error) {
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	reqID := c.requestID()
	req.Header.Set(models.HeaderRequestID, reqID)

	log := c.logger.With().
		Str("op", string(op)).
		Str("method", method).
		Str("endpoint", path).
		Str("request_id", reqID).
		Logger()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("request failed")
		return nil, apierrors.NewNetworkErrorWithEndpoint(string(op), path, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("non-success response")
		return nil, apierrors.NewAPIErrorWithBody(resp.StatusCode, path, string(op)+" failed", string(errorBody))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn().Err(err).Msg("reading response body failed")
		return nil, apierrors.NewNetworkErrorWithEndpoint(string(op), path, err)
	}

	log.Debug().Int("status", resp.StatusCode).Int("bytes", len(data)).Dur("elapsed", time.Since(start)).Msg("request completed")
	return data, nil
}
