package poll

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

// Config bounds a single wait: Budget caps the total time spent probing,
// BaseDelay and MaxDelay shape the backoff between probes.
type Config struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
	Budget    time.Duration
}

// ErrBudgetExceeded is returned when the condition never held within the budget.
var ErrBudgetExceeded = errors.New("wait budget exceeded")

// Until probes the condition with exponential backoff until it reports done,
// the budget is spent, or ctx is cancelled. A non-nil error from the probe
// aborts the wait immediately.
func Until[T any](ctx context.Context, config Config, probe func(context.Context) (T, bool, error)) (T, error) {
	var zero T
	deadline := time.Now().Add(config.Budget)

	for attempt := 0; ; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, done, err := probe(ctx)
		if err != nil {
			return zero, err
		}
		if done {
			return result, nil
		}

		delay := backoffDelay(attempt, config.BaseDelay, config.MaxDelay)
		if time.Now().Add(delay).After(deadline) {
			return zero, fmt.Errorf("condition not met within %v: %w", config.Budget, ErrBudgetExceeded)
		}

		log.Debug().
			Dur("delay", delay).
			Int("attempt", attempt+1).
			Msg("Condition not met, waiting before next probe")

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// backoffDelay doubles the base delay per attempt and scales the result by a
// random factor in [0.5, 1.5). MaxDelay bounds the result both before and
// after the jitter is applied.
func backoffDelay(attempt int, baseDelay, maxDelay time.Duration) time.Duration {
	// The shift is capped so the multiplier stays within int range.
	multiplier := 1 << min(attempt, 30)
	delay := time.Duration(multiplier) * baseDelay
	if delay > maxDelay {
		delay = maxDelay
	}

	delay = time.Duration(float64(delay) * (0.5 + rand.Float64()))
	if delay > maxDelay {
		delay = maxDelay
	}

	return delay
}
