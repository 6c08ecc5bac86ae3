// Package upstream is the typed client for the platform REST backend — the
// gateway's sole external collaborator. It attaches the session bearer
// token, enforces an explicit request timeout, normalises the backend's
// loosely shaped list payloads, and maps error responses onto the shared
// error taxonomy.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/belalwws/noor-academy-sub008/pkg/config"
	appErrors "github.com/belalwws/noor-academy-sub008/pkg/errors"
)

// TokenSource hands out a valid bearer token for outgoing requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Observer receives per-request timing, typically for metrics.
type Observer interface {
	ObserveUpstreamRequest(method, path string, status int, duration time.Duration)
}

// Client talks to the backend.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	tokens    TokenSource
	logger    *zap.Logger
	observer  Observer
}

// NewClient configures a backend client. tokens may be nil for unauthenticated
// use (tests, health checks).
func NewClient(cfg config.UpstreamConfig, tokens TokenSource, logger *zap.Logger, observer Observer) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: timeout},
		tokens:    tokens,
		logger:    logger,
		observer:  observer,
	}
}

// Do performs a JSON request and unmarshals the response body into out when
// out is non-nil and the backend returned content.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	raw, status, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil || status == http.StatusNoContent || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "unexpected response body")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, int, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, 0, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.observe(method, path, 0, duration)
		return nil, 0, appErrors.Wrap(err, appErrors.ErrUnreachable.Code, appErrors.ErrUnreachable.Status, appErrors.ErrUnreachable.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	c.observe(method, path, resp.StatusCode, duration)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, appErrors.Wrap(err, appErrors.ErrUnreachable.Code, appErrors.ErrUnreachable.Status, "read response body")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, resp.StatusCode, decodeError(resp.StatusCode, raw)
	}
	return raw, resp.StatusCode, nil
}

func (c *Client) observe(method, path string, status int, duration time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstreamRequest(method, path, status, duration)
	}
}

// errorPayload is the backend's error body: `detail`, `message`, or a
// field-keyed `errors` map whose values are strings or lists of strings.
type errorPayload struct {
	Detail  string                     `json:"detail"`
	Message string                     `json:"message"`
	Errors  map[string]json.RawMessage `json:"errors"`
}

func decodeError(status int, raw []byte) error {
	var payload errorPayload
	_ = json.Unmarshal(raw, &payload)

	fields := make(map[string][]string, len(payload.Errors))
	for field, value := range payload.Errors {
		fields[field] = decodeFieldMessages(value)
	}

	message := payload.Detail
	if message == "" {
		message = payload.Message
	}
	if message == "" {
		for _, msgs := range fields {
			if len(msgs) > 0 {
				message = msgs[0]
				break
			}
		}
	}

	switch {
	case status == http.StatusBadRequest:
		return appErrors.Validation(message, fields)
	case status == http.StatusUnauthorized:
		return appErrors.Clone(appErrors.ErrUnauthorized, message)
	case status == http.StatusForbidden:
		return appErrors.Clone(appErrors.ErrForbidden, message)
	case status == http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, message)
	case status == http.StatusConflict:
		return appErrors.Clone(appErrors.ErrConflict, message)
	default:
		if message == "" {
			message = fmt.Sprintf("backend returned %d", status)
		}
		return appErrors.Clone(appErrors.ErrUpstream, message)
	}
}

func decodeFieldMessages(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}
	return []string{string(raw)}
}
