package resilience

import "context"

// Guard composes a breaker, a limiter and a retry policy around one
// external dependency.
type Guard struct {
	Breaker *Breaker
	Limiter *AdaptiveLimiter
	Policy  Policy

	// StatusOf extracts an HTTP status from an error, or 0. It drives the
	// limiter's rate-limit backoff.
	StatusOf func(err error) int
}

// Call runs fn through the guard. The breaker sees one result per call, not
// per attempt.
func Call[T any](ctx context.Context, g *Guard, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if g.Breaker != nil {
		if err := g.Breaker.Allow(); err != nil {
			return zero, err
		}
	}

	val, err := Retry(ctx, g.Policy, func(ctx context.Context) (T, error) {
		if g.Limiter != nil {
			if err := g.Limiter.Wait(ctx); err != nil {
				return zero, err
			}
		}
		v, err := fn(ctx)
		g.observe(err)
		return v, err
	})

	if g.Breaker != nil {
		g.Breaker.Record(err)
	}
	return val, err
}

func (g *Guard) observe(err error) {
	if g.Limiter == nil {
		return
	}
	if err == nil {
		g.Limiter.OnSuccess()
		return
	}
	if g.StatusOf != nil && g.StatusOf(err) == 429 {
		g.Limiter.OnRateLimit()
	}
}
