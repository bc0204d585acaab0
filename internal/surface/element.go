package surface

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"golang.org/x/image/vector"

	pmath "github.com/Faultbox/uvstudio/pkg/math"
)

// Kind tells how an element's source pixels were produced.
type Kind int

const (
	KindImage Kind = iota
	KindRect
	KindEllipse
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindEllipse:
		return "ellipse"
	default:
		return "image"
	}
}

// Handle names one of the eight control points around an element.
type Handle int

const (
	HandleTL Handle = iota
	HandleMT
	HandleTR
	HandleMR
	HandleBR
	HandleMB
	HandleBL
	HandleML
	handleCount
)

var handleNames = [handleCount]string{"tl", "mt", "tr", "mr", "br", "mb", "bl", "ml"}

func (h Handle) String() string {
	if h < 0 || h >= handleCount {
		return "none"
	}
	return handleNames[h]
}

// handleOffsets are the unit-box positions of each handle relative to center.
var handleOffsets = [handleCount]pmath.Vec2{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 0},
	{X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: 0},
}

// Handles holds the surface-space position of every handle.
type Handles [handleCount]pmath.Vec2

// DefaultCornerColor is the handle color drawn for the active element.
var DefaultCornerColor = color.RGBA{R: 255, A: 255}

// Element is an image or vector shape placed on the surface. Position is the
// element center in surface pixels, Angle is in degrees clockwise, and the
// handle coordinates are recomputed on every transform change.
type Element struct {
	Kind        Kind
	Source      image.Image
	Selectable  bool
	CornerSize  float32
	CornerColor color.RGBA

	width, height  float32
	left, top      float32
	scaleX, scaleY float32
	angle          float32
	coords         Handles

	cache rasterCache
}

// NewImage wraps a decoded image as a selectable element at the origin.
func NewImage(img image.Image) *Element {
	b := img.Bounds()
	e := &Element{
		Kind:        KindImage,
		Source:      img,
		Selectable:  true,
		CornerColor: DefaultCornerColor,
		width:       float32(b.Dx()),
		height:      float32(b.Dy()),
		scaleX:      1,
		scaleY:      1,
	}
	e.CornerSize = e.width / 100
	e.SetCoords()
	return e
}

// kappa places cubic control points so four arcs approximate a quarter
// ellipse each.
const kappa = 0.5522847498

// NewShape rasterizes a filled rectangle or ellipse of w x h pixels.
func NewShape(kind Kind, w, h int, fill color.Color) *Element {
	w, h = max(w, 1), max(h, 1)
	fw, fh := float32(w), float32(h)

	z := vector.NewRasterizer(w, h)
	if kind == KindEllipse {
		rx, ry := fw/2, fh/2
		kx, ky := rx*kappa, ry*kappa
		z.MoveTo(fw, ry)
		z.CubeTo(fw, ry+ky, rx+kx, fh, rx, fh)
		z.CubeTo(rx-kx, fh, 0, ry+ky, 0, ry)
		z.CubeTo(0, ry-ky, rx-kx, 0, rx, 0)
		z.CubeTo(rx+kx, 0, fw, ry-ky, fw, ry)
	} else {
		z.MoveTo(0, 0)
		z.LineTo(fw, 0)
		z.LineTo(fw, fh)
		z.LineTo(0, fh)
	}
	z.ClosePath()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	z.Draw(img, img.Bounds(), image.NewUniform(fill), image.Point{})

	e := NewImage(img)
	e.Kind = kind
	return e
}

// Size returns the intrinsic, unscaled size of the element.
func (e *Element) Size() (w, h float32) { return e.width, e.height }

// Center returns the element center in surface pixels.
func (e *Element) Center() pmath.Vec2 { return pmath.Vec2{X: e.left, Y: e.top} }

// Scale returns the X and Y scale factors.
func (e *Element) Scale() (sx, sy float32) { return e.scaleX, e.scaleY }

// Angle returns the rotation in degrees, within [0,360).
func (e *Element) Angle() float32 { return e.angle }

// Coords returns the current handle coordinates.
func (e *Element) Coords() Handles { return e.coords }

// SetPosition moves the element center.
func (e *Element) SetPosition(left, top float32) {
	e.left, e.top = left, top
	e.SetCoords()
}

// SetScale sets independent X/Y scale factors.
func (e *Element) SetScale(sx, sy float32) {
	e.scaleX, e.scaleY = sx, sy
	e.SetCoords()
}

// SetAngle sets the rotation, normalizing it into [0,360).
func (e *Element) SetAngle(deg float32) {
	e.angle = NormalizeAngle(deg)
	e.SetCoords()
}

// Rotate adds delta degrees to the current rotation.
func (e *Element) Rotate(delta float32) {
	e.SetAngle(e.angle + delta)
}

// SetCoords recomputes the handle coordinates from the current transform.
func (e *Element) SetCoords() {
	half := pmath.Vec2{X: e.width * e.scaleX / 2, Y: e.height * e.scaleY / 2}
	c := e.Center()
	for i, off := range handleOffsets {
		local := pmath.Vec2{X: off.X * half.X, Y: off.Y * half.Y}
		e.coords[i] = c.Add(local.Rotate(e.angle))
	}
}

// Tolerance is the half-size of the square hit window around each handle.
func (e *Element) Tolerance() float32 {
	return e.scaleX * e.width / 10
}

// HandleAt returns the first handle whose tolerance window contains p.
func (e *Element) HandleAt(p pmath.Vec2) (Handle, bool) {
	tol := math32.Abs(e.Tolerance())
	for i, h := range e.coords {
		if p.X >= h.X-tol && p.X <= h.X+tol && p.Y >= h.Y-tol && p.Y <= h.Y+tol {
			return Handle(i), true
		}
	}
	return -1, false
}

// ContainsPoint reports whether p lies inside the element's rotated bounds.
func (e *Element) ContainsPoint(p pmath.Vec2) bool {
	quad := e.corners()
	var pos, neg bool
	for i := range quad {
		a, b := quad[i], quad[(i+1)%len(quad)]
		c := b.Sub(a).Cross(p.Sub(a))
		if c > 0 {
			pos = true
		} else if c < 0 {
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return pos || neg
}

// corners lists the bounding quad in winding order.
func (e *Element) corners() [4]pmath.Vec2 {
	return [4]pmath.Vec2{e.coords[HandleTL], e.coords[HandleTR], e.coords[HandleBR], e.coords[HandleBL]}
}

// NormalizeAngle wraps deg into [0,360).
func NormalizeAngle(deg float32) float32 {
	deg = math32.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}
