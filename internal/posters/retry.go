package posters

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

const (
	defaultRetryBase = 2 * time.Second
	maxBackoff       = 30 * time.Second
)

// calculateBackoff doubles base for every prior failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

// jitter spreads d by ±20%.
func jitter(d time.Duration) time.Duration {
	return time.Duration(float64(d) * (0.8 + rand.Float64()*0.4))
}

// withRetry runs fn until it succeeds, fails permanently, or the retry budget is spent.
func (c *Client) withRetry(ctx context.Context, endpoint string, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !IsTransient(err) {
			return err
		}
		if attempt >= c.maxRetries {
			break
		}

		class := ClassOf(err)
		wait := jitter(calculateBackoff(attempt, c.retryBase))
		retriesTotal.WithLabelValues(string(class)).Inc()
		c.log.Warn().
			Str("endpoint", endpoint).
			Str("error_class", string(class)).
			Int("attempt", attempt+1).
			Dur("backoff", wait).
			Err(err).
			Msg("retrying request after backoff")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry %s: %w", endpoint, ctx.Err())
		case <-timer.C:
		}
	}

	if c.maxRetries == 0 {
		return err
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, c.maxRetries+1, err)
}
