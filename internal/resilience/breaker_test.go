package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestBreaker(threshold int, cooldown time.Duration) (*Breaker, *time.Time) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(threshold, cooldown)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)
	fail := errors.New("fail")

	for range 2 {
		assert.NoError(t, b.Allow())
		b.Record(fail)
	}
	assert.Equal(t, CircuitClosed, b.State())

	b.Record(fail)
	assert.Equal(t, CircuitOpen, b.State())
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)
}

func TestBreaker_SuccessResetsFailures(t *testing.T) {
	b, _ := newTestBreaker(2, time.Minute)
	b.Record(errors.New("fail"))
	b.Record(nil)
	b.Record(errors.New("fail"))
	assert.Equal(t, CircuitClosed, b.State())
}

func TestBreaker_HalfOpenProbe(t *testing.T) {
	b, now := newTestBreaker(1, time.Minute)
	b.Record(errors.New("fail"))
	assert.ErrorIs(t, b.Allow(), ErrCircuitOpen)

	*now = now.Add(time.Minute)
	assert.Equal(t, CircuitHalfOpen, b.State())
	assert.NoError(t, b.Allow())

	b.Record(errors.New("still failing"))
	assert.Equal(t, CircuitOpen, b.State())

	*now = now.Add(time.Minute)
	assert.NoError(t, b.Allow())
	b.Record(nil)
	assert.Equal(t, CircuitClosed, b.State())
}

func TestBreaker_IgnoresCancellation(t *testing.T) {
	b, _ := newTestBreaker(1, time.Minute)
	b.Record(context.Canceled)
	b.Record(context.DeadlineExceeded)
	assert.Equal(t, CircuitClosed, b.State())
}

func TestBreaker_OnStateChange(t *testing.T) {
	b, now := newTestBreaker(1, time.Minute)
	var transitions []string
	b.OnStateChange(func(from, to CircuitState) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})
	b.Record(errors.New("fail"))
	*now = now.Add(time.Minute)
	assert.NoError(t, b.Allow())
	b.Record(nil)
	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestBreaker_Defaults(t *testing.T) {
	b := NewBreaker(0, 0)
	assert.Equal(t, 5, b.threshold)
	assert.Equal(t, 30*time.Second, b.cooldown)
}

func TestBreaker_ConcurrentAccess(t *testing.T) {
	b := NewBreaker(100, time.Minute)
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = b.Allow()
			if i%2 == 0 {
				b.Record(errors.New("fail"))
			} else {
				b.Record(nil)
			}
			_ = b.State()
		}(i)
	}
	wg.Wait()
}

func TestCircuitState_String(t *testing.T) {
	assert.Equal(t, "closed", CircuitClosed.String())
	assert.Equal(t, "open", CircuitOpen.String())
	assert.Equal(t, "half-open", CircuitHalfOpen.String())
	assert.Equal(t, "unknown", CircuitState(9).String())
}
