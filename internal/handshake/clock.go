// Package handshake implements the PeerAuth extension connection workflow:
// presence detection, background connection status polling and the
// connect-then-onramp handshake.
package handshake

import (
	"context"
	"time"
)

// Clock abstracts wall-clock time so the timing loops can be driven by tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock is the system clock.
var RealClock Clock = realClock{}

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return RealClock
	}
	return c
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, clock Clock, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-clock.After(d):
		return nil
	}
}
