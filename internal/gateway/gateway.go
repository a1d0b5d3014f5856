// Package gateway is the HTTP boundary between local state and the backend
// webhooks. It knows nothing about entities: callers hand it a path, a
// method, and a payload, and get back the raw response body. Every write
// carries a user_id field for backend row-level authorization.
//
// The gateway does not retry, cache, or time out on its own; callers layer
// those concerns through the context they pass in.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dotlabs/dot-agent/internal/logger"
)

// Params carries query parameters for GET requests.
type Params map[string]string

// Error is a non-success response from a webhook endpoint. Message is the
// server-provided message when the body carried one, else the HTTP status
// text.
type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway: %s (status %d)", e.Message, e.Status)
}

// Client posts and gets JSON against the webhook base URL.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     logger.Logger
}

// NewClient creates a gateway client rooted at baseURL (no trailing slash).
func NewClient(baseURL string, log logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{},
		log:     log,
	}
}

// Request performs one round trip against path. For GET, payload must be a
// Params map (or nil) serialized as query parameters; for other methods the
// payload is serialized as a JSON body with user_id merged in. A successful
// response with an empty body returns a nil RawMessage rather than a JSON
// parse error.
func (c *Client) Request(ctx context.Context, path, method string, payload any, userID string) (json.RawMessage, error) {
	var req *http.Request
	var err error

	if method == http.MethodGet {
		params, ok := payload.(Params)
		if payload != nil && !ok {
			return nil, fmt.Errorf("gateway: GET payload must be gateway.Params, got %T", payload)
		}
		req, err = c.newGetRequest(ctx, path, params, userID)
	} else {
		req, err = c.newBodyRequest(ctx, path, method, payload, userID)
	}
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gateway: reading %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		gerr := &Error{Status: resp.StatusCode, Message: serverMessage(body, resp.StatusCode)}
		c.log.Warn("gateway request failed",
			logger.String("path", path),
			logger.Int("status", resp.StatusCode),
			logger.String("message", gerr.Message),
		)
		return nil, gerr
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	return json.RawMessage(body), nil
}

func (c *Client) newGetRequest(ctx context.Context, path string, params Params, userID string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path, nil)
	if err != nil {
		return nil, fmt.Errorf("gateway: building request for %s: %w", path, err)
	}
	q := req.URL.Query()
	for key, value := range params {
		q.Set(key, value)
	}
	if userID != "" {
		q.Set("user_id", userID)
	}
	req.URL.RawQuery = q.Encode()
	return req, nil
}

func (c *Client) newBodyRequest(ctx context.Context, path, method string, payload any, userID string) (*http.Request, error) {
	body := map[string]any{}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("gateway: encoding %s payload: %w", path, err)
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return nil, fmt.Errorf("gateway: %s payload must be a JSON object: %w", path, err)
		}
	}
	if userID != "" {
		body["user_id"] = userID
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("gateway: encoding %s body: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gateway: building request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// serverMessage extracts the "message" field from an error body, falling
// back to the status text when the body is empty or not JSON.
func serverMessage(body []byte, status int) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return http.StatusText(status)
}
