// Package transition animates background and mesh colors toward new values,
// one frame tick at a time.
package transition

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/Faultbox/uvstudio/internal/logger"
	"github.com/Faultbox/uvstudio/internal/surface"
)

// ErrInvalidColor is returned for color strings other than #rrggbb.
var ErrInvalidColor = errors.New("invalid color")

const (
	DefaultDuration = 400 * time.Millisecond
	DefaultStep     = 10 * time.Millisecond
)

var white = colorful.Color{R: 1, G: 1, B: 1}

// ParseBackground accepts only the six-digit #rrggbb form.
func ParseBackground(hex string) (colorful.Color, error) {
	if len(hex) != 7 || hex[0] != '#' || !isHex(hex[1:]) {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return c, nil
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// Target is a material whose color can be animated.
type Target interface {
	Color() colorful.Color
	SetColor(c colorful.Color)
}

// Color is one in-flight interpolation.
type Color struct {
	From, To colorful.Color
	Elapsed  time.Duration
	Duration time.Duration
	// Step, when set, advances Elapsed by a fixed amount per tick regardless
	// of frame time.
	Step time.Duration

	current colorful.Color
	apply   func(colorful.Color)
}

func (c *Color) advance(dt time.Duration) bool {
	if c.Step > 0 {
		dt = c.Step
	}
	c.Elapsed += dt
	if c.Duration <= 0 || c.Elapsed >= c.Duration {
		c.current = c.To
		c.apply(c.To)
		return true
	}
	t := float64(c.Elapsed) / float64(c.Duration)
	c.current = c.From.BlendRgb(c.To, t).Clamped()
	c.apply(c.current)
	return false
}

// Engine owns every in-flight transition, keyed by what it animates.
type Engine struct {
	BackgroundDuration time.Duration
	BackgroundStep     time.Duration
	MeshDuration       time.Duration

	records map[any]*Color
	order   []any
	log     *zap.Logger
}

// New creates an engine with the default 400ms durations.
func New() *Engine {
	return &Engine{
		BackgroundDuration: DefaultDuration,
		BackgroundStep:     DefaultStep,
		MeshDuration:       DefaultDuration,
		records:            make(map[any]*Color),
		log:                logger.Named("transition"),
	}
}

// start registers rec under key, replacing any record already there.
func (e *Engine) start(key any, rec *Color) {
	if _, ok := e.records[key]; !ok {
		e.order = append(e.order, key)
	}
	e.records[key] = rec
}

// from returns the color a new transition on key should start from.
func (e *Engine) from(key any, fallback colorful.Color) colorful.Color {
	if rec, ok := e.records[key]; ok {
		return rec.current
	}
	return fallback
}

// TransitionBackground fades the surface background to "to" in fixed steps,
// one per tick. A transparent background starts from white.
func (e *Engine) TransitionBackground(s *surface.Surface, to colorful.Color) {
	cur, transparent := s.Background()
	if transparent {
		cur = white
	}
	from := e.from(s, cur)
	e.start(s, &Color{
		From:     from,
		To:       to,
		Duration: e.BackgroundDuration,
		Step:     e.BackgroundStep,
		current:  from,
		apply:    s.SetBackground,
	})
	e.log.Debug("background transition", zap.String("from", from.Hex()), zap.String("to", to.Hex()))
}

// TransitionMeshColor starts one time-driven transition per target. A target
// already in flight restarts from its current color.
func (e *Engine) TransitionMeshColor(targets []Target, to colorful.Color) {
	for _, t := range targets {
		from := e.from(t, t.Color())
		e.start(t, &Color{
			From:     from,
			To:       to,
			Duration: e.MeshDuration,
			current:  from,
			apply:    t.SetColor,
		})
	}
	if len(targets) > 0 {
		e.log.Debug("mesh transition", zap.Int("meshes", len(targets)), zap.String("to", to.Hex()))
	}
}

// Tick advances every transition by dt and drops the finished ones.
func (e *Engine) Tick(dt time.Duration) {
	if len(e.order) == 0 {
		return
	}
	e.order = slices.DeleteFunc(e.order, func(key any) bool {
		if e.records[key].advance(dt) {
			delete(e.records, key)
			return true
		}
		return false
	})
}

// Pending reports whether any transition is in flight.
func (e *Engine) Pending() bool { return len(e.order) > 0 }

// Cancel drops the transition keyed by k, leaving its current color applied.
func (e *Engine) Cancel(k any) {
	if _, ok := e.records[k]; !ok {
		return
	}
	delete(e.records, k)
	e.order = slices.DeleteFunc(e.order, func(x any) bool { return x == k })
}
