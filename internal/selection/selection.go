// Package selection turns pointer gestures, already mapped to UV-space
// cursors on the drawing surface, into selection and rotation changes.
package selection

import (
	"go.uber.org/zap"

	"github.com/Faultbox/uvstudio/internal/logger"
	"github.com/Faultbox/uvstudio/internal/surface"
	pmath "github.com/Faultbox/uvstudio/pkg/math"
)

// State is the phase of the current pointer gesture.
type State int

const (
	Idle State = iota
	Probing
	ElementSelected
	HandleSelected
	None
)

func (s State) String() string {
	switch s {
	case Probing:
		return "probing"
	case ElementSelected:
		return "element"
	case HandleSelected:
		return "handle"
	case None:
		return "none"
	default:
		return "idle"
	}
}

// Gesture is the explicit state carried between pointer events.
type Gesture struct {
	State    State
	Target   *surface.Element
	Handle   surface.Handle
	Previous pmath.Vec2 // cursor at the last processed event
	Rotated  float32    // degrees applied since pointer-down, wrapped into [0,360)
}

// Result is the outcome of probing the surface at a cursor.
type Result struct {
	State   State
	Element *surface.Element
	Handle  surface.Handle
}

// Probe finds what lies under cursor. The active element is checked first so
// the current selection stays sticky; the rest are scanned in paint order and
// the first match wins. Within one element, handle proximity beats
// containment. Non-selectable elements are ignored.
func Probe(s *surface.Surface, cursor pmath.Vec2) Result {
	if a := s.Active(); a != nil && a.Selectable {
		if r, ok := probeElement(a, cursor); ok {
			return r
		}
	}
	for _, e := range s.Elements() {
		if !e.Selectable {
			continue
		}
		if r, ok := probeElement(e, cursor); ok {
			return r
		}
	}
	return Result{State: None, Handle: -1}
}

func probeElement(e *surface.Element, cursor pmath.Vec2) (Result, bool) {
	if h, ok := e.HandleAt(cursor); ok {
		return Result{State: HandleSelected, Element: e, Handle: h}, true
	}
	if e.ContainsPoint(cursor) {
		return Result{State: ElementSelected, Element: e, Handle: -1}, true
	}
	return Result{}, false
}

// Engine drives the gesture state machine for one surface.
type Engine struct {
	surface *surface.Surface
	gesture Gesture
	log     *zap.Logger
}

// New creates an idle engine bound to s.
func New(s *surface.Surface) *Engine {
	return &Engine{
		surface: s,
		gesture: Gesture{State: Idle, Handle: -1},
		log:     logger.Named("selection"),
	}
}

// Gesture returns a copy of the current gesture state.
func (e *Engine) Gesture() Gesture { return e.gesture }

// PointerDown probes the surface at cursor. hit is false when the pointer ray
// missed the garment, which counts as a deselection.
func (e *Engine) PointerDown(cursor pmath.Vec2, hit bool) State {
	e.gesture = Gesture{State: Probing, Handle: -1, Previous: cursor}

	res := Result{State: None, Handle: -1}
	if hit {
		res = Probe(e.surface, cursor)
	}

	e.surface.Batch(func() {
		switch res.State {
		case ElementSelected:
			e.surface.SetActive(res.Element)
			e.surface.BringToFront(res.Element)
		case HandleSelected:
			e.surface.SetActive(res.Element)
		default:
			e.surface.Discard()
		}
	})

	e.gesture.State = res.State
	e.gesture.Target = res.Element
	e.gesture.Handle = res.Handle
	e.log.Debug("pointer down",
		zap.Stringer("state", res.State),
		zap.Stringer("handle", res.Handle),
		zap.Float32("x", cursor.X),
		zap.Float32("y", cursor.Y),
	)
	return res.State
}

// PointerMove continues the gesture. A grabbed handle rotates the target by
// the one-step angle around its center; a grabbed body follows the cursor.
// Moves that miss the garment are ignored. It returns the rotation applied.
func (e *Engine) PointerMove(cursor pmath.Vec2, hit bool) float32 {
	g := &e.gesture
	if !hit || g.Target == nil {
		return 0
	}
	switch g.State {
	case HandleSelected:
		delta := CalculateAngle(g.Target.Center(), &g.Previous, cursor)
		if e.surface.Rotate(g.Target, delta) {
			g.Rotated = surface.NormalizeAngle(g.Rotated + delta)
		}
		return delta
	case ElementSelected:
		d := cursor.Sub(g.Previous)
		g.Previous = cursor
		if d != (pmath.Vec2{}) {
			c := g.Target.Center().Add(d)
			e.surface.Modify(g.Target, func(el *surface.Element) { el.SetPosition(c.X, c.Y) })
		}
	}
	return 0
}

// PointerUp ends the gesture. The selection survives until the next
// deselection.
func (e *Engine) PointerUp() {
	e.gesture = Gesture{State: Idle, Handle: -1}
}
