// Package remote implements the client backends over the passbox HTTP API
// using hashicorp/go-retryablehttp. Only reads are retried.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	apperrors "github.com/allisson/passbox/internal/errors"
	"github.com/allisson/passbox/internal/httputil"
)

const maxErrorBody = 64 << 10

var (
	// ErrRateLimited indicates the server kept rejecting requests with 429.
	ErrRateLimited = apperrors.New("rate limit exceeded")

	errInvalidResponse = apperrors.New("invalid server response")
)

type idempotentKey struct{}

// checkRetry applies the default policy to requests marked idempotent and
// never retries anything else.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if idempotent, _ := ctx.Value(idempotentKey{}).(bool); !idempotent {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// NewHTTPClient builds the retrying HTTP client shared by the backends.
func NewHTTPClient(retryMax int, timeout time.Duration, logger *slog.Logger) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = retryMax
	c.HTTPClient.Timeout = timeout
	c.CheckRetry = checkRetry
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	c.Logger = nil
	if logger != nil {
		c.Logger = logger
	}
	return c
}

type transport struct {
	baseURL string
	http    *retryablehttp.Client
	token   string
}

func (t *transport) do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return err
		}
	}

	if method == http.MethodGet {
		ctx = context.WithValue(ctx, idempotentKey{}, true)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, t.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(errInvalidResponse, err.Error())
	}
	return nil
}

// decodeError maps an error response back to the category the server's
// handler mapped from.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body httputil.ErrorResponse
	_ = json.Unmarshal(raw, &body)
	message := body.Message
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	if err := apperrors.FromCode(body.Error, message); err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.Wrap(apperrors.ErrInvalidInput, message)
	case http.StatusUnauthorized:
		return apperrors.Wrap(apperrors.ErrUnauthorized, message)
	case http.StatusNotFound:
		return apperrors.Wrap(apperrors.ErrNotFound, message)
	case http.StatusTooManyRequests:
		return apperrors.Wrap(ErrRateLimited, message)
	}
	return fmt.Errorf("server responded %d: %s", resp.StatusCode, strings.TrimSpace(message))
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(errInvalidResponse, "malformed id")
	}
	return id, nil
}
