package floodwait

import (
	"context"
	"sync"
	"time"
)

// bucket implements a token bucket for one RPC method.
type bucket struct {
	capacity    int           // maximum requests per window
	available   int           // current tokens
	window      time.Duration // refill window
	lastRefill  time.Time     // last refill time
	pausedUntil time.Time     // server-imposed pause deadline, zero when none
	cond        *sync.Cond    // waiters blocked in Acquire
}

// refill adds tokens based on elapsed time since last refill.
func (b *bucket) refill(now time.Time) {
	if b.window == 0 || b.capacity == 0 {
		return
	}
	elapsed := now.Sub(b.lastRefill)
	if elapsed <= 0 {
		return
	}
	tokens := int(float64(b.capacity) * float64(elapsed) / float64(b.window))
	if tokens > 0 {
		b.available += tokens
		if b.available > b.capacity {
			b.available = b.capacity
		}
		b.lastRefill = now
	}
}

// paused reports whether the bucket is under a server-imposed pause.
func (b *bucket) paused(now time.Time) bool {
	return now.Before(b.pausedUntil)
}

// Limiter paces outgoing requests per RPC method so the client hits the
// server's flood limits less often. It is safe for concurrent use.
//
// The limiter is advisory: it spreads requests inside the configured window
// and, via PauseFor, freezes a method after the server answered it with a
// flood wait.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	closed  bool
	nowFunc func() time.Time // for testing
}

// NewLimiter creates an empty limiter. Methods without a configured budget
// are not limited.
func NewLimiter() *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		nowFunc: time.Now,
	}
}

// SetBudget configures the request budget for a method: capacity requests
// per window. A non-positive capacity or window removes the budget.
func (l *Limiter) SetBudget(method string, capacity int, window time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	if capacity <= 0 || window <= 0 {
		delete(l.buckets, method)
		return
	}

	if b, exists := l.buckets[method]; exists {
		b.capacity = capacity
		b.window = window
		if b.available > capacity {
			b.available = capacity
		}
		return
	}
	l.buckets[method] = &bucket{
		capacity:   capacity,
		available:  capacity, // start full
		window:     window,
		lastRefill: l.nowFunc(),
	}
}

// PauseFor freezes a method for the given duration, typically the wait
// announced by a flood error on that method. Acquire and TryAcquire fail for
// the method until the deadline passes. Unknown methods are ignored.
func (l *Limiter) PauseFor(method string, d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, exists := l.buckets[method]
	if !exists || l.closed {
		return
	}
	deadline := l.nowFunc().Add(d)
	if deadline.After(b.pausedUntil) {
		b.pausedUntil = deadline
	}
}

// TryAcquire attempts to take a token without blocking. Methods without a
// budget always succeed.
func (l *Limiter) TryAcquire(method string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return false
	}
	b, exists := l.buckets[method]
	if !exists {
		return true
	}

	now := l.nowFunc()
	if b.paused(now) {
		return false
	}
	b.refill(now)
	if b.available > 0 {
		b.available--
		return true
	}
	return false
}

// Acquire blocks until a token is available for the method, the context is
// canceled, or the limiter is closed. Methods without a budget return
// immediately.
func (l *Limiter) Acquire(ctx context.Context, method string) error {
	if l.TryAcquire(method) {
		return nil
	}

	// Wake waiters when the context ends.
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			l.mu.Lock()
			if b, exists := l.buckets[method]; exists && b.cond != nil {
				b.cond.Broadcast()
			}
			l.mu.Unlock()
		case <-done:
		}
	}()
	defer close(done)

	l.mu.Lock()
	defer l.mu.Unlock()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if l.closed {
			return ErrClosed
		}

		b, exists := l.buckets[method]
		if !exists {
			return nil
		}
		if b.cond == nil {
			b.cond = sync.NewCond(&l.mu)
		}

		now := l.nowFunc()
		if !b.paused(now) {
			b.refill(now)
			if b.available > 0 {
				b.available--
				return nil
			}
		}

		// Re-check periodically so refills, pause expiry and context
		// cancellation are all observed.
		go func() {
			time.Sleep(50 * time.Millisecond)
			l.mu.Lock()
			if b.cond != nil {
				b.cond.Broadcast()
			}
			l.mu.Unlock()
		}()
		b.cond.Wait()
	}
}

// Budget returns the remaining tokens and capacity for a method. The last
// return is false for methods without a budget.
func (l *Limiter) Budget(method string) (available, capacity int, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, exists := l.buckets[method]
	if !exists {
		return 0, 0, false
	}
	b.refill(l.nowFunc())
	return b.available, b.capacity, true
}

// Close shuts down the limiter and wakes all waiters.
func (l *Limiter) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	l.closed = true
	for _, b := range l.buckets {
		if b.cond != nil {
			b.cond.Broadcast()
		}
	}
	return nil
}
