package bilingo

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Limiter bounds how many backend operations run at once.
//
// Waiters are admitted in FIFO order, and a released slot goes to the head of
// the queue before any caller that arrives later.
type Limiter struct {
	sem      *semaphore.Weighted
	limit    int
	inFlight atomic.Int64
}

// NewLimiter creates a limiter with the given number of slots.
// A limit of 0 or less uses DefaultMaxConcurrency.
func NewLimiter(limit int) *Limiter {
	if limit <= 0 {
		limit = DefaultMaxConcurrency
	}
	return &Limiter{
		sem:   semaphore.NewWeighted(int64(limit)),
		limit: limit,
	}
}

// Limit runs fn while holding one slot of l. The slot is released on every
// exit path, including panics. If ctx is cancelled while waiting, fn is not
// run and the context error is returned.
func Limit[T any](ctx context.Context, l *Limiter, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return zero, err
	}
	l.inFlight.Add(1)
	defer func() {
		l.inFlight.Add(-1)
		l.sem.Release(1)
	}()

	return fn(ctx)
}

// Do runs fn while holding one slot.
func (l *Limiter) Do(ctx context.Context, fn func(context.Context) error) error {
	_, err := Limit(ctx, l, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Size returns the number of slots.
func (l *Limiter) Size() int {
	return l.limit
}

// InFlight returns the number of slots currently held.
func (l *Limiter) InFlight() int {
	return int(l.inFlight.Load())
}
