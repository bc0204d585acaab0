package camera

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/uvstudio/internal/engine/picking"
)

func near(a, b, eps float32) bool { return math32.Abs(a-b) <= eps }

func TestDefaultPosition(t *testing.T) {
	c := NewOrbitCamera()
	p := c.Position()
	if !near(p.X, 0, 1e-4) || !near(p.Y, 5, 1e-4) || !near(p.Z, 25, 1e-4) {
		t.Errorf("position = %+v, want (0,5,25)", p)
	}
}

func TestZoomClamp(t *testing.T) {
	tests := []struct {
		name  string
		delta float32
		want  float32
	}{
		{"zoom in hard", 100, 16.1},
		{"zoom out hard", -100, 35},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewOrbitCamera()
			for i := 0; i < 10; i++ {
				c.HandleZoom(tt.delta)
			}
			if c.Distance != tt.want {
				t.Errorf("distance = %f, want %f", c.Distance, tt.want)
			}
		})
	}
}

func TestDampedDrag(t *testing.T) {
	c := NewOrbitCamera()
	start := c.RotationX
	c.HandleDrag(0, 100)

	c.Update()
	if got := c.RotationX - start; !near(got, 0.5*0.161, 1e-5) {
		t.Errorf("first step = %f, want %f", got, 0.5*0.161)
	}
	if c.Settled() {
		t.Error("camera settled after one step")
	}

	for i := 0; i < 500 && !c.Settled(); i++ {
		c.Update()
	}
	if !c.Settled() {
		t.Fatal("camera never settled")
	}
	if got := c.RotationX - start; !near(got, 0.5, 1e-3) {
		t.Errorf("total pitch = %f, want 0.5", got)
	}
}

func TestPolarLimit(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(0, -10000)
	for i := 0; i < 500 && !c.Settled(); i++ {
		c.Update()
	}
	want := math32.Pi/2 - math32.Pi/1.61
	if !near(c.RotationX, want, 1e-5) {
		t.Errorf("pitch = %f, want %f", c.RotationX, want)
	}
}

func TestCenterRay(t *testing.T) {
	c := NewOrbitCamera()
	c.SetAspect(1)
	r := c.Ray(400, 400, 800, 800)

	pos := c.Position()
	want := pos.Scale(-1).Normalize()
	got := r.Direction
	if !near(got[0], want.X, 1e-3) || !near(got[1], want.Y, 1e-3) || !near(got[2], want.Z, 1e-3) {
		t.Errorf("direction = %v, want %+v", got, want)
	}
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToBounds(picking.NewAABB(-2, 0, -1, 2, 6, 1))
	if c.CenterY != 3 || c.CenterX != 0 {
		t.Errorf("center = (%f,%f,%f)", c.CenterX, c.CenterY, c.CenterZ)
	}
	if c.Distance < c.MinDistance || c.Distance > c.MaxDistance {
		t.Errorf("distance %f outside limits", c.Distance)
	}
}
