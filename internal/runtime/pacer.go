package runtime

import (
	"context"
	"time"
)

// Delay is a ports.Pacer that waits a fixed duration.
type Delay time.Duration

// Pause blocks for the configured duration or until ctx is done.
func (d Delay) Pause(ctx context.Context) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(d))
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoDelay replies immediately. Tests and non-interactive hosts use it.
var NoDelay = Delay(0)

// Gate is a ports.Pacer that waits until Release is called; tests use it to hold a
// reply in the composing phase.
type Gate struct {
	ch chan struct{}
}

// NewGate creates a closed gate.
func NewGate() *Gate {
	return &Gate{ch: make(chan struct{})}
}

// Release lets one pending Pause return.
func (g *Gate) Release() {
	g.ch <- struct{}{}
}

func (g *Gate) Pause(ctx context.Context) error {
	select {
	case <-g.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
