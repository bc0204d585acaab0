// Package surface owns the 2D drawing surface whose pixels become the garment
// texture. It is the single source of truth for what the user has drawn.
package surface

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/uvstudio/internal/uvmap"
	pmath "github.com/Faultbox/uvstudio/pkg/math"
)

// ErrInvalidSurfaceSize is returned when the requested surface is not a
// square with a positive power-of-two side.
var ErrInvalidSurfaceSize = errors.New("invalid surface size")

// Invalidator is notified once per user-visible change of the surface.
type Invalidator interface {
	Invalidate()
}

// Surface is an ordered stack of elements over a background color.
// Insertion order is paint order; the last element is on top.
type Surface struct {
	size        int
	background  colorful.Color
	transparent bool
	elements    []*Element
	active      *Element

	inv     Invalidator
	batch   int
	pending bool
}

// New creates a transparent surface of width x height pixels.
func New(width, height int) (*Surface, error) {
	if width != height || width <= 0 || width&(width-1) != 0 {
		return nil, fmt.Errorf("%w: %dx%d (need square power of two)", ErrInvalidSurfaceSize, width, height)
	}
	return &Surface{size: width, transparent: true}, nil
}

// Size returns the side length in pixels.
func (s *Surface) Size() int { return s.size }

// SetInvalidator registers the receiver of change notifications.
func (s *Surface) SetInvalidator(inv Invalidator) { s.inv = inv }

// Invalidator returns the registered change receiver, if any.
func (s *Surface) Invalidator() Invalidator { return s.inv }

// Batch runs fn and collapses every change made inside it into a single
// invalidation. Batches nest.
func (s *Surface) Batch(fn func()) {
	s.batch++
	defer func() {
		s.batch--
		if s.batch == 0 && s.pending {
			s.pending = false
			s.changed()
		}
	}()
	fn()
}

func (s *Surface) changed() {
	if s.batch > 0 {
		s.pending = true
		return
	}
	if s.inv != nil {
		s.inv.Invalidate()
	}
}

// Background returns the background color and whether the surface is
// currently transparent.
func (s *Surface) Background() (c colorful.Color, transparent bool) {
	return s.background, s.transparent
}

// BackgroundHex returns the background as #rrggbb, or "transparent".
func (s *Surface) BackgroundHex() string {
	if s.transparent {
		return "transparent"
	}
	return s.background.Hex()
}

// SetBackground sets the exact background color.
func (s *Surface) SetBackground(c colorful.Color) {
	if !s.transparent && s.background == c {
		return
	}
	s.background = c
	s.transparent = false
	s.changed()
}

// SetTransparent removes the background fill.
func (s *Surface) SetTransparent() {
	if s.transparent {
		return
	}
	s.transparent = true
	s.changed()
}

// Add appends e on top of the stack.
func (s *Surface) Add(e *Element) {
	if e == nil {
		return
	}
	s.elements = append(s.elements, e)
	s.changed()
}

// Remove deletes e from the surface. It reports whether e was present.
func (s *Surface) Remove(e *Element) bool {
	i := s.indexOf(e)
	if i < 0 {
		return false
	}
	s.elements = slices.Delete(s.elements, i, i+1)
	if s.active == e {
		s.active = nil
	}
	s.changed()
	return true
}

// Clear removes every element but keeps the background.
func (s *Surface) Clear() {
	if len(s.elements) == 0 && s.active == nil {
		return
	}
	s.elements = nil
	s.active = nil
	s.changed()
}

// Elements returns a snapshot of the elements in paint order.
func (s *Surface) Elements() []*Element {
	return slices.Clone(s.elements)
}

// Len returns the number of elements.
func (s *Surface) Len() int { return len(s.elements) }

// Contains reports whether e is on the surface.
func (s *Surface) Contains(e *Element) bool { return s.indexOf(e) >= 0 }

func (s *Surface) indexOf(e *Element) int {
	if e == nil {
		return -1
	}
	return slices.Index(s.elements, e)
}

// Active returns the selected element, or nil.
func (s *Surface) Active() *Element { return s.active }

// SetActive selects e. Elements not on the surface are ignored.
func (s *Surface) SetActive(e *Element) bool {
	if !s.Contains(e) {
		return false
	}
	if s.active != e {
		s.active = e
		s.changed()
	}
	return true
}

// Discard clears the selection.
func (s *Surface) Discard() {
	if s.active == nil {
		return
	}
	s.active = nil
	s.changed()
}

// BringToFront moves e to the top of the paint order.
func (s *Surface) BringToFront(e *Element) {
	i := s.indexOf(e)
	if i < 0 || i == len(s.elements)-1 {
		return
	}
	s.elements = append(slices.Delete(s.elements, i, i+1), e)
	s.changed()
}

// Modify applies fn to an element on this surface and records one change.
func (s *Surface) Modify(e *Element, fn func(*Element)) bool {
	if !s.Contains(e) {
		return false
	}
	fn(e)
	s.changed()
	return true
}

// Rotate turns e by delta degrees.
func (s *Surface) Rotate(e *Element, delta float32) bool {
	if delta == 0 {
		return s.Contains(e)
	}
	return s.Modify(e, func(e *Element) { e.Rotate(delta) })
}

// Copy replaces dst's background and element list with a snapshot of src.
// Elements are shared, not cloned. dst's previous contents are discarded.
func Copy(src, dst *Surface) {
	dst.Batch(func() {
		dst.elements = slices.Clone(src.elements)
		dst.active = nil
		dst.background = src.background
		dst.transparent = src.transparent
		dst.changed()
	})
}

// UVToPixel maps a UV coordinate to surface pixels. The surface's origin is
// top-left while UV's is bottom-left, hence the vertical flip.
func (s *Surface) UVToPixel(uv uvmap.UV) pmath.Vec2 {
	n := float32(s.size)
	return pmath.Vec2{X: uv.U * n, Y: (1 - uv.V) * n}
}

// PixelToUV is the inverse of UVToPixel.
func (s *Surface) PixelToUV(p pmath.Vec2) uvmap.UV {
	n := float32(s.size)
	return uvmap.UV{U: p.X / n, V: 1 - p.Y/n}
}
