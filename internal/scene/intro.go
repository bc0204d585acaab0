package scene

import (
	"time"

	"github.com/chewxy/math32"

	"github.com/Faultbox/uvstudio/internal/transition"
)

// Intro is the entrance animation played once a model loads: the garment
// fades and grows in, then spins a full turn.
type Intro struct {
	opacity transition.Tween
	scale   transition.Tween
	spin    transition.Tween
}

// NewIntro builds the default entrance animation.
func NewIntro() *Intro {
	ease := transition.ExponentialInOut
	return &Intro{
		opacity: transition.Tween{From: 0, To: 1, Duration: 2 * time.Second, Easing: ease},
		scale:   transition.Tween{From: 0.1, To: 1.1, Duration: 2 * time.Second, Easing: ease},
		spin: transition.Tween{
			From: 0, To: 2 * math32.Pi,
			Delay: 500 * time.Millisecond, Duration: 3 * time.Second,
			Easing: ease,
		},
	}
}

// Done reports whether every track has finished.
func (in *Intro) Done() bool {
	return in.opacity.Done() && in.scale.Done() && in.spin.Done()
}

func (in *Intro) apply(t *Transform, dt time.Duration) {
	t.Opacity = in.opacity.Advance(dt)
	t.Scale = in.scale.Advance(dt)
	t.RotationY = in.spin.Advance(dt)
}

// PlayIntro starts the entrance animation from its first frame.
func (s *Scene) PlayIntro() {
	s.intro = NewIntro()
	s.intro.apply(&s.Root, 0)
}

// Animating reports whether the entrance animation is still running.
func (s *Scene) Animating() bool { return s.intro != nil }

// Tick advances the entrance animation.
func (s *Scene) Tick(dt time.Duration) {
	if s.intro == nil {
		return
	}
	s.intro.apply(&s.Root, dt)
	if s.intro.Done() {
		s.intro = nil
	}
}
