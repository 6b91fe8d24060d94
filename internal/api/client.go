// Package api is the HTTP client for the recommendation service. It covers
// the three endpoints the assistant consumes: chat, product-details and
// switch-model. The client does not retry and does not interpret payloads;
// callers own both policies.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL matches the recommendation service's local development port.
const DefaultBaseURL = "http://localhost:8000"

// Client talks to the recommendation service.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a client for the service at baseURL.
// A zero timeout disables the HTTP client timeout; per-call deadlines then
// come from the caller's context.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Chat sends one conversational turn and returns the raw response body.
// Transport failures and non-2xx statuses fail with a RequestError.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	turnID := uuid.NewString()[:8]
	c.logger.Debug("dispatching chat turn",
		zap.String("turn_id", turnID),
		zap.String("session_id", req.SessionID),
		zap.Bool("is_followup", req.IsFollowup),
		zap.String("model_choice", req.ModelChoice),
		zap.Int("preference_count", len(req.Preferences)))

	var resp ChatResponse
	if err := c.post(ctx, "chat", c.baseURL+"/api/chat", req, &resp); err != nil {
		c.logger.Warn("chat turn failed", zap.String("turn_id", turnID), zap.Error(err))
		return nil, err
	}

	c.logger.Debug("chat turn complete",
		zap.String("turn_id", turnID),
		zap.String("session_id", resp.SessionID),
		zap.Int("response_bytes", len(resp.Response)))
	return &resp, nil
}

// ProductDetails reports the current state of the enrichment fetch for a
// session. One call, one observation; the Poller owns the retry loop.
func (c *Client) ProductDetails(ctx context.Context, sessionID string) (*DetailsStatus, error) {
	url := fmt.Sprintf("%s/api/product-details/%s", c.baseURL, sessionID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &RequestError{Op: "product-details", Err: err}
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &RequestError{Op: "product-details", Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(httpResp.Body)
		return nil, &RequestError{
			Op:         "product-details",
			StatusCode: httpResp.StatusCode,
			Err:        fmt.Errorf("%s", body),
		}
	}

	var status DetailsStatus
	if err := json.NewDecoder(httpResp.Body).Decode(&status); err != nil {
		return nil, &RequestError{Op: "product-details", Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return &status, nil
}

// SwitchModel changes the AI model for an existing session.
func (c *Client) SwitchModel(ctx context.Context, sessionID, model string) error {
	url := fmt.Sprintf("%s/api/switch-model/%s", c.baseURL, sessionID)

	c.logger.Debug("switching model",
		zap.String("session_id", sessionID),
		zap.String("model_choice", model))

	return c.post(ctx, "switch-model", url, switchModelRequest{ModelChoice: model}, nil)
}

// post sends a JSON body and optionally decodes a JSON reply into out.
func (c *Client) post(ctx context.Context, op, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &RequestError{Op: op, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(httpResp.Body)
		return &RequestError{
			Op:         op,
			StatusCode: httpResp.StatusCode,
			Err:        fmt.Errorf("%s", respBody),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return &RequestError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
