package suggestions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// statusError is a non-2xx search API response.
type statusError struct {
	Status     int
	Body       string
	RetryAfter time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("search api status %d: %s", e.Status, e.Body)
}

// retryPolicy backs off exponentially between attempts, capped at maxWait.
// A Retry-After header on 429/503 replaces the computed wait when shorter
// than the cap.
type retryPolicy struct {
	attempts int
	wait     time.Duration
	maxWait  time.Duration
}

var defaultRetry = retryPolicy{attempts: 4, wait: 200 * time.Millisecond, maxWait: 2 * time.Second}

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.Status == http.StatusTooManyRequests || se.Status >= 500
	}
	var ne net.Error
	return errors.As(err, &ne)
}

// get performs a GET against endpoint, retrying transient failures.
// The caller closes the returned body.
func (p *HTTPProvider) get(ctx context.Context, endpoint string) (io.ReadCloser, error) {
	wait := p.retry.wait

	for attempt := 1; ; attempt++ {
		body, err := p.getOnce(ctx, endpoint)
		if err == nil {
			return body, nil
		}
		if !retryable(err) || attempt >= p.retry.attempts {
			return nil, err
		}

		delay := wait
		var se *statusError
		if errors.As(err, &se) && se.RetryAfter > 0 && se.RetryAfter < p.retry.maxWait {
			delay = se.RetryAfter
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}

		wait = min(wait*2, p.retry.maxWait)
	}
}

func (p *HTTPProvider) getOnce(ctx context.Context, endpoint string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 == 2 {
		return resp.Body, nil
	}

	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return nil, &statusError{
		Status:     resp.StatusCode,
		Body:       strings.TrimSpace(string(b)),
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
}

// parseRetryAfter reads the delay-seconds form; HTTP dates are ignored.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
