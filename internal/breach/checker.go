// Package breach checks passwords against a k-anonymity range API. Only the
// first five hex characters of the password's SHA-1 leave the process.
package breach

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	cryptoService "github.com/allisson/passbox/internal/crypto/service"
	apperrors "github.com/allisson/passbox/internal/errors"
)

const prefixLength = 5

// ErrEmptyPassword indicates there is nothing to check.
var ErrEmptyPassword = apperrors.Wrap(apperrors.ErrInvalidInput, "password cannot be empty")

// Checker queries the range API.
type Checker struct {
	baseURL string
	http    *retryablehttp.Client
	engine  cryptoService.Engine
}

// NewChecker creates a checker for the range API at baseURL.
func NewChecker(baseURL string, httpClient *retryablehttp.Client, engine cryptoService.Engine) *Checker {
	return &Checker{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		engine:  engine,
	}
}

// Count returns how many times password appears in known breaches. Zero means
// it was not found.
func (c *Checker) Count(ctx context.Context, password string) (int, error) {
	if password == "" {
		return 0, ErrEmptyPassword
	}

	digest := c.engine.Digest(password)
	prefix, suffix := digest[:prefixLength], digest[prefixLength:]

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/range/"+prefix, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Add-Padding", "true")
	req.Header.Set("User-Agent", "passbox")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("breach lookup: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("breach lookup: server responded %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		candidate, count, ok := strings.Cut(strings.TrimSpace(scanner.Text()), ":")
		if !ok || !strings.EqualFold(candidate, suffix) {
			continue
		}
		n, err := strconv.Atoi(count)
		if err != nil {
			return 0, fmt.Errorf("breach lookup: malformed count %q", count)
		}
		return n, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("breach lookup: %w", err)
	}
	return 0, nil
}
