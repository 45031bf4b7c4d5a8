package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	internalErrors "github.com/vogiaan1904/ticketbottle-parkgate/internal/errors"
	pkgErrors "github.com/vogiaan1904/ticketbottle-parkgate/pkg/errors"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/response"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerRequestID     = "X-Request-ID"
	contentTypeJSON     = "application/json"
)

// doRequest sends one request. GETs are retried on transport errors and
// 5xx responses; other methods are sent once.
func (c *client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = b
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.retry
	}

	var err error
	for i := 0; i < attempts; i++ {
		err = c.send(ctx, method, path, payload, result)
		if err == nil || !retryable(ctx, err) {
			return err
		}
		c.l.Warnf(ctx, "api.client.doRequest: %s %s attempt %d: %v", method, path, i+1, err)
	}
	return err
}

func (c *client) send(ctx context.Context, method, path string, payload []byte, result any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		if errors.Is(err, internalErrors.ErrSessionExpired) || errors.Is(err, internalErrors.ErrSessionNotFound) {
			c.unauthorized(ctx)
			return fmt.Errorf("%w: %w", internalErrors.ErrUnauthorized, err)
		}
		return err
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(headerAuthorization, "Bearer "+token)
	req.Header.Set(headerRequestID, uuid.NewString())
	if payload != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &transportError{err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &transportError{err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		httpErr := response.ParseHTTPError(resp.StatusCode, respBody)
		if httpErr.IsUnauthorized() {
			c.unauthorized(ctx)
			return fmt.Errorf("%w: %w", internalErrors.ErrUnauthorized, httpErr)
		}
		return httpErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

func (c *client) unauthorized(ctx context.Context) {
	c.l.Warnf(ctx, "api.client.unauthorized: session rejected, forcing logout")
	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
}

type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return "request failed: " + e.err.Error()
}

func (e *transportError) Unwrap() error {
	return e.err
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var te *transportError
	if errors.As(err, &te) {
		return true
	}
	if httpErr, ok := pkgErrors.AsHTTPError(err); ok {
		return httpErr.IsRetryable()
	}
	return false
}

func (c *client) get(ctx context.Context, path string, result any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, result)
}

func (c *client) post(ctx context.Context, path string, body, result any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, result)
}

func (c *client) put(ctx context.Context, path string, body, result any) error {
	return c.doRequest(ctx, http.MethodPut, path, body, result)
}

func (c *client) delete(ctx context.Context, path string) error {
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}
