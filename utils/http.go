package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"umroh-scraper/internal/types"
)

// MaxBodySize caps how much of a response body is read
const MaxBodySize = int64(10 * 1024 * 1024)

// ErrContactPageNotFound is returned when none of the configured contact paths respond
var ErrContactPageNotFound = errors.New("no contact page found")

// NonRetryableHTTPError reports a 4xx response, which is not worth retrying
type NonRetryableHTTPError struct {
	StatusCode int
	URL        string
}

func (e *NonRetryableHTTPError) Error() string {
	return fmt.Sprintf("unexpected status code: %d (%s)", e.StatusCode, e.URL)
}

// IsNonRetryableError reports whether err wraps a NonRetryableHTTPError
func IsNonRetryableError(err error) bool {
	var nonRetryable *NonRetryableHTTPError
	return errors.As(err, &nonRetryable)
}

// HTTPClient provides HTTP functionality with polite rate limiting and bounded retries
type HTTPClient struct {
	client  *http.Client
	config  *types.Config
	logger  types.Logger
	limiter *rate.Limiter
}

// NewHTTPClient creates a new HTTP client with the given configuration
func NewHTTPClient(config *types.Config, logger types.Logger) *HTTPClient {
	client := &http.Client{
		Timeout: config.Timeout,
	}

	return &HTTPClient{
		client:  client,
		config:  config,
		logger:  logger,
		limiter: newRequestLimiter(config.RequestDelay),
	}
}

// newRequestLimiter spaces consecutive requests at least delay apart
func newRequestLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// MaxRetryWait bounds a single wait between retries
const MaxRetryWait = 5 * time.Minute

// NewBackOff returns the retry schedule: RequestDelay, doubled after every attempt, no jitter
func NewBackOff(config *types.Config) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = config.RequestDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = retryCeiling(config.RequestDelay, config.MaxRetries)
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// retryCeiling returns delay doubled once per retry, capped at MaxRetryWait
func retryCeiling(delay time.Duration, retries int) time.Duration {
	if delay <= 0 {
		return 0
	}
	if delay >= MaxRetryWait {
		return delay
	}

	ceiling := delay
	for i := 0; i < retries && ceiling < MaxRetryWait; i++ {
		ceiling *= 2
	}
	if ceiling > MaxRetryWait {
		ceiling = MaxRetryWait
	}
	return ceiling
}

// Get performs a GET request with rate limiting and retries.
// The first attempt is followed by at most config.MaxRetries retries.
func (h *HTTPClient) Get(ctx context.Context, url string) ([]byte, error) {
	schedule := NewBackOff(h.config)
	var lastErr error

	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := schedule.NextBackOff()
			h.logger.Infof("Retrying %s (attempt %d/%d) in %v", url, attempt, h.config.MaxRetries, wait)
			if err := sleepContext(ctx, wait); err != nil {
				return nil, err
			}
		}

		// Wait for rate limiter
		if err := h.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		h.logger.Debugf("Making request to %s (attempt %d/%d)", url, attempt+1, h.config.MaxRetries+1)

		body, err := h.doGet(ctx, url)
		if err == nil {
			h.logger.Debugf("Successfully retrieved %d bytes from %s", len(body), url)
			return body, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		lastErr = err
		if IsNonRetryableError(err) {
			h.logger.Debugf("Not retrying %s: %v", url, err)
			return nil, err
		}
		h.logger.Warnf("Error fetching %s (attempt %d): %v", url, attempt+1, err)
	}

	return nil, fmt.Errorf("all retry attempts failed: %w", lastErr)
}

// doGet performs a single GET request
func (h *HTTPClient) doGet(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NonRetryableHTTPError{URL: url}
	}

	// Set headers
	req.Header.Set("User-Agent", h.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "id,en-US;q=0.7,en;q=0.5")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a bounded amount so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxBodySize))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, &NonRetryableHTTPError{StatusCode: resp.StatusCode, URL: url}
		}
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// GetPage fetches a page and returns its text
func (h *HTTPClient) GetPage(ctx context.Context, url string) (string, error) {
	body, err := h.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetContactPage tries the configured contact paths against the site origin and
// returns the first page that can be fetched
func (h *HTTPClient) GetContactPage(ctx context.Context, baseURL string) (string, error) {
	base := strings.TrimRight(baseURL, "/")

	for _, path := range h.config.ContactPaths {
		contactURL := base + path
		content, err := h.GetPage(ctx, contactURL)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			continue
		}

		h.logger.Infof("Found contact page at %s", contactURL)
		return content, nil
	}

	h.logger.Warnf("No contact page found for %s", base)
	return "", fmt.Errorf("%w for %s", ErrContactPageNotFound, base)
}

// Close cleans up resources
func (h *HTTPClient) Close() {
	h.client.CloseIdleConnections()
}

// BaseURL reduces a URL to its origin (scheme and host)
func BaseURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("failed to parse URL %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("URL %q has no scheme or host", rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SleepContext is the exported form of sleepContext for callers pacing their own loops
func SleepContext(ctx context.Context, d time.Duration) error {
	return sleepContext(ctx, d)
}
