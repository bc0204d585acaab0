package transition

import (
	"time"

	"github.com/chewxy/math32"
)

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(k float32) float32

// Linear leaves progress unchanged.
func Linear(k float32) float32 { return k }

// ExponentialInOut accelerates exponentially up to the midpoint and
// decelerates symmetrically after it.
func ExponentialInOut(k float32) float32 {
	switch {
	case k <= 0:
		return 0
	case k >= 1:
		return 1
	}
	k *= 2
	if k < 1 {
		return 0.5 * math32.Pow(1024, k-1)
	}
	return 0.5 * (-math32.Pow(2, -10*(k-1)) + 2)
}

// Tween interpolates a scalar from From to To over Duration, after Delay.
type Tween struct {
	From, To float32
	Delay    time.Duration
	Duration time.Duration
	Easing   Easing

	elapsed time.Duration
}

// Advance moves the tween forward by dt and returns the current value.
func (t *Tween) Advance(dt time.Duration) float32 {
	t.elapsed += dt
	return t.Value()
}

// Value returns the eased value at the current elapsed time.
func (t *Tween) Value() float32 {
	return t.From + (t.To-t.From)*t.progress()
}

// Done reports whether the tween has reached its end value.
func (t *Tween) Done() bool { return t.elapsed >= t.Delay+t.Duration }

// Reset rewinds the tween to its start.
func (t *Tween) Reset() { t.elapsed = 0 }

func (t *Tween) progress() float32 {
	run := t.elapsed - t.Delay
	if run <= 0 {
		return t.ease(0)
	}
	if t.Duration <= 0 || run >= t.Duration {
		return 1
	}
	return t.ease(float32(run) / float32(t.Duration))
}

func (t *Tween) ease(k float32) float32 {
	if t.Easing == nil {
		return k
	}
	return t.Easing(k)
}
