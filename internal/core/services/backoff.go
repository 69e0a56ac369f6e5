package services

import (
	"context"
	"time"
)

// BackoffPolicy decides how often generation is attempted and how long to
// wait between attempts.
type BackoffPolicy interface {
	// MaxAttempts returns the total number of attempts, at least 1.
	MaxAttempts() int

	// Delay returns the wait after the given failed attempt (1-based).
	Delay(attempt int) time.Duration
}

// LinearBackoff waits attempt x Step after each failed attempt.
type LinearBackoff struct {
	Attempts int
	Step     time.Duration
}

// DefaultBackoff makes three attempts, waiting 2s then 4s.
func DefaultBackoff() LinearBackoff {
	return LinearBackoff{Attempts: 3, Step: 2 * time.Second}
}

// MaxAttempts returns the number of attempts.
func (b LinearBackoff) MaxAttempts() int {
	if b.Attempts < 1 {
		return 1
	}
	return b.Attempts
}

// Delay returns attempt x Step.
func (b LinearBackoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}
	return time.Duration(attempt) * b.Step
}

// sleepContext blocks for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
