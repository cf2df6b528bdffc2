package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/avast/retry-go"
	"go.uber.org/zap"
)

const (
	defaultMaxAttempts = 1
	defaultBackoffMs   = 500
	maxRetryAfter      = 30 * time.Second
)

// retryableStatusError marks a 429 or 5xx response that may be retried.
type retryableStatusError struct {
	status     int
	retryAfter time.Duration
}

func (e *retryableStatusError) Error() string {
	return fmt.Sprintf("status %d", e.status)
}

// doRequestWithRetry executes req up to c.maxAttempts times. Transport errors,
// 429 and 5xx are retried with exponential backoff, honouring Retry-After.
// When attempts run out on a retryable status the last response is returned
// unconsumed so the caller can report it.
func (c *Client) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	attempts := c.maxAttempts
	if attempts == 0 {
		attempts = defaultMaxAttempts
	}

	var last *http.Response
	err := retry.Do(
		func() error {
			if last != nil {
				_ = last.Body.Close()
				last = nil
			}
			if c.limiter != nil {
				if err := c.limiter.Wait(ctx); err != nil {
					return fmt.Errorf("rate limiter: %w", err)
				}
			}

			attempt := req.Clone(ctx)
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return fmt.Errorf("reset request body: %w", err)
				}
				attempt.Body = body
			}

			// #nosec G107 -- URL constructed from the configured API base URL
			resp, err := c.httpClient.Do(attempt)
			if err != nil {
				return err
			}
			if retryAfter, retry := shouldRetry(resp); retry {
				last = resp
				return &retryableStatusError{status: resp.StatusCode, retryAfter: retryAfter}
			}
			last = resp
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}),
		retry.DelayType(func(n uint, err error, _ *retry.Config) time.Duration {
			var se *retryableStatusError
			if errors.As(err, &se) && se.retryAfter > 0 {
				return se.retryAfter
			}
			return c.baseBackoff * time.Duration(1<<n)
		}),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("spotify adapter: retrying request",
				zap.String("path", req.URL.Path),
				zap.Uint("attempt", n+1),
				zap.Uint("max_attempts", attempts),
				zap.Error(err))
		}),
	)

	var se *retryableStatusError
	switch {
	case err == nil:
		return last, nil
	case errors.As(err, &se) && last != nil:
		return last, nil
	default:
		if last != nil {
			_ = last.Body.Close()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("request canceled: %w", ctxErr)
		}
		return nil, fmt.Errorf("request failed after %d attempt(s): %w", attempts, err)
	}
}

func shouldRetry(resp *http.Response) (time.Duration, bool) {
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return parseRetryAfter(resp), true
	}
	return 0, false
}

func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	var d time.Duration
	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		d = time.Duration(seconds) * time.Second
	} else if when, err := http.ParseTime(retryAfter); err == nil {
		d = time.Until(when)
	}

	if d <= 0 {
		return 0
	}
	return min(d, maxRetryAfter)
}
