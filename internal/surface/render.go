package surface

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/transform"
	"github.com/chewxy/math32"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	pmath "github.com/Faultbox/uvstudio/pkg/math"
)

// minCornerPx keeps handles visible on tiny artwork.
const minCornerPx = 6

var borderColor = color.RGBA{R: 255, G: 255, B: 255, A: 220}

// rasterCache keeps the last scaled and rotated raster of an element.
type rasterCache struct {
	w, h  int
	angle float32
	img   *image.RGBA
}

// raster returns the element's pixels at its current scale and rotation,
// centered in the returned image.
func (e *Element) raster() *image.RGBA {
	w := round(e.width * math32.Abs(e.scaleX))
	h := round(e.height * math32.Abs(e.scaleY))
	if w < 1 || h < 1 || e.Source == nil {
		return nil
	}
	if c := &e.cache; c.img != nil && c.w == w && c.h == h && c.angle == e.angle {
		return c.img
	}
	img := transform.Resize(e.Source, w, h, transform.Linear)
	if e.angle != 0 {
		img = transform.Rotate(img, float64(e.angle), &transform.RotationOptions{ResizeBounds: true})
	}
	e.cache = rasterCache{w: w, h: h, angle: e.angle, img: img}
	return img
}

// Render paints the background, every element in paint order and the
// controls of the active element into dst.
func (s *Surface) Render(dst *image.RGBA) {
	bounds := dst.Bounds()
	if s.transparent {
		draw.Draw(dst, bounds, image.Transparent, image.Point{}, draw.Src)
	} else {
		r, g, b := s.background.Clamped().RGB255()
		draw.Draw(dst, bounds, image.NewUniform(color.RGBA{R: r, G: g, B: b, A: 255}), image.Point{}, draw.Src)
	}

	for _, e := range s.elements {
		img := e.raster()
		if img == nil {
			continue
		}
		rb := img.Bounds()
		at := image.Pt(round(e.left)-rb.Dx()/2, round(e.top)-rb.Dy()/2)
		draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(rb.Size())}, img, rb.Min, draw.Over)
	}

	if s.active != nil {
		drawControls(dst, s.active)
	}
}

// drawControls strokes the active element's bounds and fills its handles.
func drawControls(dst *image.RGBA, e *Element) {
	size := dst.Bounds().Size()
	z := vector.NewRasterizer(size.X, size.Y)

	// Outer quad one pixel larger, inner quad wound the other way: a ring.
	outer := expandedCorners(e, 1)
	inner := e.corners()
	z.MoveTo(outer[0].X, outer[0].Y)
	for _, p := range outer[1:] {
		z.LineTo(p.X, p.Y)
	}
	z.ClosePath()
	z.MoveTo(inner[3].X, inner[3].Y)
	for i := 2; i >= 0; i-- {
		z.LineTo(inner[i].X, inner[i].Y)
	}
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), image.NewUniform(borderColor), image.Point{})

	half := max(e.CornerSize, minCornerPx) / 2
	z.Reset(size.X, size.Y)
	for _, h := range e.coords {
		z.MoveTo(h.X-half, h.Y-half)
		z.LineTo(h.X+half, h.Y-half)
		z.LineTo(h.X+half, h.Y+half)
		z.LineTo(h.X-half, h.Y+half)
		z.ClosePath()
	}
	z.Draw(dst, dst.Bounds(), image.NewUniform(e.CornerColor), image.Point{})
}

func expandedCorners(e *Element, px float32) [4]pmath.Vec2 {
	c := e.Center()
	hw := math32.Abs(e.width*e.scaleX)/2 + px
	hh := math32.Abs(e.height*e.scaleY)/2 + px
	local := [4]pmath.Vec2{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}
	var out [4]pmath.Vec2
	for i, p := range local {
		out[i] = c.Add(p.Rotate(e.angle))
	}
	return out
}

func round(x float32) int {
	return int(math32.Floor(x + 0.5))
}
