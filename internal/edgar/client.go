// internal/edgar/client.go
package edgar

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"edgar-content-service/internal/common/errors"
	"edgar-content-service/internal/common/logger"
	"edgar-content-service/internal/common/metrics"
)

// ErrNotFound reports a 404 from EDGAR. Callers translate it into the
// domain error fitting their operation.
var ErrNotFound = stderrors.New("edgar: resource not found")

// Client talks to the SEC EDGAR endpoints with identity headers, rate
// limiting and retry logic. All three EDGAR hosts share one limiter
// because the fair access policy counts requests per requester, not
// per host.
type Client struct {
	httpClient *http.Client
	config     *ClientConfig
	limiter    *Limiter
	logger     logger.Logger
}

// ClientConfig holds configuration for the EDGAR client.
type ClientConfig struct {
	UserAgent         string
	ArchivesBaseURL   string
	DataBaseURL       string
	FullTextBaseURL   string
	RequestsPerSecond float64
	RequestTimeout    time.Duration
	MaxDocumentBytes  int64
	RetryConfig       *RetryConfig
}

// RetryConfig defines retry behavior for transient upstream failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig provides sensible defaults for EDGAR calls.
var DefaultRetryConfig = &RetryConfig{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
	MaxDelay:   10 * time.Second,
}

// NewClient creates an EDGAR client with default configuration. The
// user agent identifies the caller to the SEC as required by the fair
// access policy; requests without one are rejected with 403.
func NewClient(userAgent string, log logger.Logger) (*Client, error) {
	config := &ClientConfig{
		UserAgent:         userAgent,
		ArchivesBaseURL:   "https://www.sec.gov",
		DataBaseURL:       "https://data.sec.gov",
		FullTextBaseURL:   "https://efts.sec.gov",
		RequestsPerSecond: 10,
		RequestTimeout:    30 * time.Second,
		MaxDocumentBytes:  25 << 20,
		RetryConfig:       DefaultRetryConfig,
	}
	return NewClientWithConfig(config, log)
}

// NewClientWithConfig creates an EDGAR client using explicit configuration.
func NewClientWithConfig(config *ClientConfig, log logger.Logger) (*Client, error) {
	if config.UserAgent == "" {
		return nil, fmt.Errorf("edgar client requires a user agent (set SEC_API_USER_AGENT)")
	}
	if config.RetryConfig == nil {
		config.RetryConfig = DefaultRetryConfig
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 30 * time.Second
	}
	if config.MaxDocumentBytes == 0 {
		config.MaxDocumentBytes = 25 << 20
	}

	return &Client{
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		config:     config,
		limiter:    NewLimiter(config.RequestsPerSecond),
		logger:     log.WithFields(map[string]interface{}{"component": "edgar-client"}),
	}, nil
}

// Config returns the client configuration.
func (c *Client) Config() *ClientConfig {
	return c.config
}

// get fetches url with identity, rate limiting and retry. Every request
// to an EDGAR host funnels through here.
func (c *Client) get(ctx context.Context, url, operation string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.RetryConfig.MaxRetries; attempt++ {
		body, retryable, err := c.once(ctx, http.MethodGet, url)
		if err == nil {
			return body, nil
		}
		if stderrors.Is(err, ErrNotFound) {
			return nil, err
		}

		lastErr = err

		if !retryable || attempt == c.config.RetryConfig.MaxRetries {
			return nil, c.mapEdgarError(err, operation, attempt)
		}

		delay := c.config.RetryConfig.BaseDelay * time.Duration(1<<attempt)
		if delay > c.config.RetryConfig.MaxDelay {
			delay = c.config.RetryConfig.MaxDelay
		}

		c.logger.Warn("retrying EDGAR request", map[string]interface{}{
			"operation": operation,
			"attempt":   attempt + 1,
			"delay":     delay.String(),
			"error":     err.Error(),
		})

		select {
		case <-time.After(delay):
			// Retry
		case <-ctx.Done():
			return nil, fmt.Errorf("operation %s cancelled after %d attempts: %w", operation, attempt, ctx.Err())
		}
	}

	return nil, fmt.Errorf("operation %s failed after %d retries: %w", operation, c.config.RetryConfig.MaxRetries, lastErr)
}

// once performs a single attempt and reports whether a failure is worth
// retrying.
func (c *Client) once(ctx context.Context, method, url string) ([]byte, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json, text/html, */*")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.EdgarRequestsTotal.WithLabelValues(hostOf(url), "error").Inc()
		return nil, isRetryableNetworkError(err), err
	}
	defer resp.Body.Close()

	metrics.EdgarRequestsTotal.WithLabelValues(hostOf(url), strconv.Itoa(resp.StatusCode)).Inc()
	metrics.EdgarRequestDuration.WithLabelValues(hostOf(url)).Observe(time.Since(start).Seconds())

	switch {
	case resp.StatusCode == http.StatusOK:
		if method == http.MethodHead {
			return nil, false, nil
		}
		limited := io.LimitReader(resp.Body, c.config.MaxDocumentBytes+1)
		body, err := io.ReadAll(limited)
		if err != nil {
			return nil, isRetryableNetworkError(err), err
		}
		if int64(len(body)) > c.config.MaxDocumentBytes {
			return nil, false, errors.NewDocumentTooLargeError(url, c.config.MaxDocumentBytes)
		}
		return body, false, nil

	case resp.StatusCode == http.StatusNotFound:
		return nil, false, fmt.Errorf("%w: %s", ErrNotFound, url)

	case resp.StatusCode == http.StatusForbidden:
		// SEC serves 403 to undeclared automated tools.
		return nil, false, errors.NewEdgarForbiddenError(url)

	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, errors.NewEdgarRateLimitedError()

	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("edgar returned %d for %s", resp.StatusCode, url)

	default:
		return nil, false, fmt.Errorf("edgar returned %d for %s", resp.StatusCode, url)
	}
}

// isRetryableNetworkError checks if the error is transient and should be
// retried.
func isRetryableNetworkError(err error) bool {
	msg := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"deadline exceeded",
		"unavailable",
		"unreachable",
		"broken pipe",
		"eof",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// mapEdgarError converts transport failures into standardized application
// errors. StandardErrors pass through untouched.
func (c *Client) mapEdgarError(err error, operation string, attempt int) error {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	msg := err.Error()
	lowerMsg := strings.ToLower(msg)

	enhancedMsg := fmt.Sprintf("EDGAR operation '%s' failed", operation)
	if attempt > 0 {
		enhancedMsg += fmt.Sprintf(" after %d attempts", attempt)
	}

	switch {
	case strings.Contains(lowerMsg, "timeout") ||
		strings.Contains(lowerMsg, "deadline exceeded"):
		return errors.NewEdgarTimeoutError(fmt.Sprintf("%s: %s", enhancedMsg, msg))

	case strings.Contains(lowerMsg, "connection refused") ||
		strings.Contains(lowerMsg, "connection reset") ||
		strings.Contains(lowerMsg, "unavailable") ||
		strings.Contains(lowerMsg, "unreachable"):
		return errors.NewEdgarUnavailableError(fmt.Errorf("%s: %s", enhancedMsg, msg))

	default:
		return errors.NewEdgarUnavailableError(fmt.Errorf("%s: %s", enhancedMsg, msg))
	}
}

// HealthCheck verifies EDGAR is reachable without pulling a payload.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	url := c.config.ArchivesBaseURL + "/files/company_tickers.json"
	if _, _, err := c.once(ctx, http.MethodHead, url); err != nil {
		return fmt.Errorf("edgar health check failed: %w", err)
	}
	return nil
}

func hostOf(url string) string {
	rest := url
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
