package application

import (
	"context"
	"math/rand/v2"
	"time"
)

// Outcome decides a simulated settlement draw. The production provider draws
// uniformly at call time; tests inject fixed outcomes instead of relying on
// probability.
type Outcome interface {
	Approve(rate float64) bool
}

type randomOutcome struct{}

func (randomOutcome) Approve(rate float64) bool { return rand.Float64() < rate }

func RandomOutcome() Outcome { return randomOutcome{} }

type fixedOutcome bool

func (f fixedOutcome) Approve(float64) bool { return bool(f) }

// FixedOutcome forces every draw to the given result.
func FixedOutcome(approve bool) Outcome { return fixedOutcome(approve) }

// sleep stands in for network latency. It honors cancellation; callers that
// must not be interrupted pass a context detached with context.WithoutCancel.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
