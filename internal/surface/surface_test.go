package surface

import (
	"image"
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/uvstudio/internal/uvmap"
	pmath "github.com/Faultbox/uvstudio/pkg/math"
)

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate() { c.n++ }

func newSurface(t *testing.T, size int) (*Surface, *countingInvalidator) {
	t.Helper()
	s, err := New(size, size)
	require.NoError(t, err)
	inv := &countingInvalidator{}
	s.SetInvalidator(inv)
	return s, inv
}

func square(size int) *Element {
	return NewShape(KindRect, size, size, color.RGBA{G: 255, A: 255})
}

func TestNewShape(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}

	rect := NewShape(KindRect, 40, 20, red)
	assert.Equal(t, KindRect, rect.Kind)
	w, h := rect.Size()
	assert.Equal(t, float32(40), w)
	assert.Equal(t, float32(20), h)
	img := rect.Source.(*image.RGBA)
	for _, p := range []image.Point{{0, 0}, {39, 0}, {39, 19}, {0, 19}, {20, 10}} {
		assert.Equal(t, red, img.RGBAAt(p.X, p.Y), "rect pixel %v", p)
	}

	ellipse := NewShape(KindEllipse, 40, 20, red)
	assert.Equal(t, KindEllipse, ellipse.Kind)
	img = ellipse.Source.(*image.RGBA)
	assert.Equal(t, red, img.RGBAAt(20, 10), "center")
	assert.Equal(t, red, img.RGBAAt(2, 10), "left vertex")
	assert.Equal(t, red, img.RGBAAt(20, 1), "top vertex")
	for _, p := range []image.Point{{0, 0}, {39, 0}, {39, 19}, {0, 19}, {4, 2}} {
		assert.Equal(t, color.RGBA{}, img.RGBAAt(p.X, p.Y), "outside pixel %v", p)
	}
}

func TestNewShapeClampsSize(t *testing.T) {
	e := NewShape(KindEllipse, 0, -3, color.White)
	w, h := e.Size()
	assert.Equal(t, float32(1), w)
	assert.Equal(t, float32(1), h)
}

func TestNewValidatesSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		ok            bool
	}{
		{"1024 square", 1024, 1024, true},
		{"one pixel", 1, 1, true},
		{"not square", 1024, 512, false},
		{"not power of two", 1000, 1000, false},
		{"zero", 0, 0, false},
		{"negative", -4, -4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.width, tt.height)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.width, s.Size())
				assert.Equal(t, "transparent", s.BackgroundHex())
				return
			}
			assert.ErrorIs(t, err, ErrInvalidSurfaceSize)
			assert.Nil(t, s)
		})
	}
}

func TestMutationsInvalidateOnce(t *testing.T) {
	s, inv := newSurface(t, 256)
	e := square(10)

	s.Add(e)
	assert.Equal(t, 1, inv.n)

	s.SetActive(e)
	s.SetActive(e)
	assert.Equal(t, 2, inv.n, "re-selecting the active element is not a change")

	s.SetBackground(colorful.Color{R: 1, G: 1, B: 1})
	s.SetBackground(colorful.Color{R: 1, G: 1, B: 1})
	assert.Equal(t, 3, inv.n)

	s.BringToFront(e)
	assert.Equal(t, 3, inv.n, "already on top")

	s.Discard()
	s.Discard()
	assert.Equal(t, 4, inv.n)
}

func TestBatchCollapsesChanges(t *testing.T) {
	s, inv := newSurface(t, 256)
	s.Batch(func() {
		s.Clear()
		s.Add(square(4))
		s.Batch(func() {
			s.Add(square(8))
			s.SetBackground(colorful.Color{R: 1})
		})
		assert.Zero(t, inv.n, "nested batch must not flush early")
	})
	assert.Equal(t, 1, inv.n)
	assert.Equal(t, 2, s.Len())

	s.Batch(func() {})
	assert.Equal(t, 1, inv.n, "empty batch is not a change")
}

func TestClearKeepsBackground(t *testing.T) {
	s, _ := newSurface(t, 64)
	bg, _ := colorful.Hex("#336699")
	s.SetBackground(bg)
	e := square(4)
	s.Add(e)
	s.SetActive(e)

	s.Clear()
	assert.Zero(t, s.Len())
	assert.Nil(t, s.Active())
	assert.Equal(t, "#336699", s.BackgroundHex())
}

func TestCopyRoundTrip(t *testing.T) {
	src, _ := newSurface(t, 128)
	dst, dstInv := newSurface(t, 128)
	bg, _ := colorful.Hex("#ff8800")
	src.SetBackground(bg)
	a, b := square(4), square(6)
	src.Add(a)
	src.Add(b)

	dst.Add(square(2))
	dstInv.n = 0

	Copy(src, dst)
	assert.Equal(t, 1, dstInv.n)
	assert.Equal(t, src.BackgroundHex(), dst.BackgroundHex())
	require.Equal(t, src.Len(), dst.Len())
	assert.Same(t, a, dst.Elements()[0])
	assert.Same(t, b, dst.Elements()[1])

	// Reordering one surface leaves the other alone.
	dst.BringToFront(a)
	assert.Same(t, a, src.Elements()[0])
}

func TestRemove(t *testing.T) {
	s, _ := newSurface(t, 64)
	a := square(4)
	s.Add(a)
	s.SetActive(a)
	assert.True(t, s.Remove(a))
	assert.Nil(t, s.Active())
	assert.False(t, s.Remove(a))
}

func TestBringToFront(t *testing.T) {
	s, _ := newSurface(t, 64)
	a, b, c := square(1), square(2), square(3)
	s.Add(a)
	s.Add(b)
	s.Add(c)
	s.BringToFront(a)
	assert.Equal(t, []*Element{b, c, a}, s.Elements())
}

func TestHandleCoordinates(t *testing.T) {
	e := square(100)
	e.SetPosition(512, 512)

	h := e.Coords()
	assert.Equal(t, pmath.Vec2{X: 462, Y: 462}, h[HandleTL])
	assert.Equal(t, pmath.Vec2{X: 562, Y: 462}, h[HandleTR])
	assert.Equal(t, pmath.Vec2{X: 512, Y: 562}, h[HandleMB])
	assert.Equal(t, pmath.Vec2{X: 462, Y: 512}, h[HandleML])

	e.SetAngle(90)
	h = e.Coords()
	// A quarter turn clockwise moves top-left to top-right.
	assert.InDelta(t, 562, h[HandleTL].X, 1e-3)
	assert.InDelta(t, 462, h[HandleTL].Y, 1e-3)
}

func TestHandleTolerance(t *testing.T) {
	// ml handle sits at (512,512); scale 1, width 100 gives tolerance 10.
	e := square(100)
	e.SetPosition(562, 512)
	require.Equal(t, float32(10), e.Tolerance())

	h, ok := e.HandleAt(pmath.Vec2{X: 521, Y: 512})
	assert.True(t, ok)
	assert.Equal(t, HandleML, h)

	_, ok = e.HandleAt(pmath.Vec2{X: 532, Y: 512})
	assert.False(t, ok)
}

func TestHandleMissOutsideBounds(t *testing.T) {
	e := square(100)
	e.SetPosition(512, 512)

	onHandle := pmath.Vec2{X: 562, Y: 462}
	h, ok := e.HandleAt(onHandle)
	require.True(t, ok)
	assert.Equal(t, HandleTR, h)

	edge := pmath.Vec2{X: 572, Y: 462}
	_, ok = e.HandleAt(edge)
	assert.True(t, ok, "tolerance window is inclusive")

	outside := pmath.Vec2{X: 573, Y: 451}
	_, ok = e.HandleAt(outside)
	assert.False(t, ok)
	assert.False(t, e.ContainsPoint(outside))
}

func TestContainsPoint(t *testing.T) {
	e := square(100)
	e.SetPosition(200, 200)
	assert.True(t, e.ContainsPoint(pmath.Vec2{X: 200, Y: 200}))
	assert.True(t, e.ContainsPoint(pmath.Vec2{X: 150, Y: 150}), "corner is inside")
	assert.True(t, e.ContainsPoint(pmath.Vec2{X: 245, Y: 245}))

	e.SetAngle(45)
	// The rotated square's corners now poke out along the axes.
	assert.True(t, e.ContainsPoint(pmath.Vec2{X: 265, Y: 200}))
	assert.False(t, e.ContainsPoint(pmath.Vec2{X: 245, Y: 245}))
}

func TestZeroScaleContainsNothing(t *testing.T) {
	e := square(10)
	e.SetScale(0, 0)
	assert.False(t, e.ContainsPoint(e.Center()))
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct{ in, want float32 }{
		{0, 0}, {90, 90}, {360, 0}, {370, 10}, {-90, 270}, {-720, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalizeAngle(tt.in), 1e-4, "NormalizeAngle(%v)", tt.in)
	}
}

func TestUVToPixel(t *testing.T) {
	s, _ := newSurface(t, 1024)
	p := s.UVToPixel(uvmap.UV{U: 0.25, V: 0.75})
	assert.Equal(t, pmath.Vec2{X: 256, Y: 256}, p)
	assert.Equal(t, uvmap.UV{U: 0.25, V: 0.75}, s.PixelToUV(p))
}

func TestRender(t *testing.T) {
	s, _ := newSurface(t, 64)
	bg, _ := colorful.Hex("#0000ff")
	s.SetBackground(bg)
	e := square(10)
	e.SetPosition(32, 32)
	s.Add(e)

	dst := image.NewRGBA(image.Rect(0, 0, 64, 64))
	s.Render(dst)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, dst.RGBAAt(2, 2))
	center := dst.RGBAAt(32, 32)
	assert.InDelta(t, 255, center.G, 2)
	assert.Zero(t, center.B)

	s.SetTransparent()
	s.Render(dst)
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(2, 2))
}

func TestRenderDrawsActiveHandles(t *testing.T) {
	s, _ := newSurface(t, 64)
	e := square(20)
	e.SetPosition(32, 32)
	s.Add(e)
	s.SetActive(e)

	dst := image.NewRGBA(image.Rect(0, 0, 64, 64))
	s.Render(dst)
	tl := e.Coords()[HandleTL]
	assert.Equal(t, DefaultCornerColor, dst.RGBAAt(int(tl.X), int(tl.Y)))
}
