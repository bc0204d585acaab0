package picking

import (
	"testing"

	"github.com/Faultbox/uvstudio/internal/uvmap"
	"github.com/Faultbox/uvstudio/pkg/math"
)

type testTarget struct {
	geom  *uvmap.Component
	model math.Mat4
}

func (t testTarget) Geometry() *uvmap.Component { return t.geom }
func (t testTarget) ModelMatrix() math.Mat4     { return t.model }

// unitQuad spans [-1,1] on X and Y at depth z with UVs covering [0,1].
func unitQuad(z float32) *uvmap.Component {
	return &uvmap.Component{
		Name:      "bodyFMIX",
		Positions: [][3]float32{{-1, -1, z}, {1, -1, z}, {1, 1, z}, {-1, 1, z}},
		UVs:       [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

func near(a, b float32) bool {
	d := a - b
	return d > -1e-4 && d < 1e-4
}

func TestScreenToRayCenter(t *testing.T) {
	r := ScreenToRay(400, 300, 800, 600, math.Identity())
	if !near(r.Origin[0], 0) || !near(r.Origin[1], 0) || !near(r.Origin[2], -1) {
		t.Errorf("origin = %v, want (0,0,-1)", r.Origin)
	}
	if !near(r.Direction[2], 1) {
		t.Errorf("direction = %v, want +Z", r.Direction)
	}
}

func TestIntersectTriangle(t *testing.T) {
	r := Ray{Origin: [3]float32{0.25, 0.25, 5}, Direction: [3]float32{0, 0, -1}}
	d, u, v, ok := r.IntersectTriangle([3]float32{0, 0, 0}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0})
	if !ok {
		t.Fatal("expected hit")
	}
	if !near(d, 5) || !near(u, 0.25) || !near(v, 0.25) {
		t.Errorf("got t=%v u=%v v=%v", d, u, v)
	}

	miss := Ray{Origin: [3]float32{2, 2, 5}, Direction: [3]float32{0, 0, -1}}
	if _, _, _, ok := miss.IntersectTriangle([3]float32{0, 0, 0}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}); ok {
		t.Error("expected miss outside the triangle")
	}

	behind := Ray{Origin: [3]float32{0.25, 0.25, -5}, Direction: [3]float32{0, 0, -1}}
	if _, _, _, ok := behind.IntersectTriangle([3]float32{0, 0, 0}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}); ok {
		t.Error("expected miss behind the origin")
	}
}

func TestPickInterpolatesUV(t *testing.T) {
	targets := []testTarget{{geom: unitQuad(0), model: math.Identity()}}
	r := Ray{Origin: [3]float32{0.5, 0.5, 5}, Direction: [3]float32{0, 0, -1}}

	hit, ok := Pick(r, targets)
	if !ok {
		t.Fatal("expected hit")
	}
	if !hit.HasUV || !near(hit.UV.U, 0.75) || !near(hit.UV.V, 0.75) {
		t.Errorf("UV = %+v, want (0.75, 0.75)", hit.UV)
	}
	if !near(hit.Distance, 5) {
		t.Errorf("distance = %v, want 5", hit.Distance)
	}
}

func TestPickNearest(t *testing.T) {
	targets := []testTarget{
		{geom: unitQuad(-2), model: math.Identity()},
		{geom: unitQuad(1), model: math.Identity()},
	}
	r := Ray{Origin: [3]float32{0, 0, 5}, Direction: [3]float32{0, 0, -1}}

	hit, ok := Pick(r, targets)
	if !ok {
		t.Fatal("expected hit")
	}
	if hit.Index != 1 {
		t.Errorf("picked target %d, want the closer one (1)", hit.Index)
	}
}

func TestPickRespectsModelMatrix(t *testing.T) {
	targets := []testTarget{{geom: unitQuad(0), model: math.Translate(10, 0, 0)}}

	r := Ray{Origin: [3]float32{0, 0, 5}, Direction: [3]float32{0, 0, -1}}
	if _, ok := Pick(r, targets); ok {
		t.Error("expected miss: quad moved away")
	}

	r.Origin[0] = 10.5
	hit, ok := Pick(r, targets)
	if !ok {
		t.Fatal("expected hit on translated quad")
	}
	if !near(hit.UV.U, 0.75) || !near(hit.Point[0], 10.5) {
		t.Errorf("hit = %+v", hit)
	}
}

func TestPickWithoutUV(t *testing.T) {
	geom := unitQuad(0)
	geom.UVs = nil
	r := Ray{Origin: [3]float32{0, 0, 5}, Direction: [3]float32{0, 0, -1}}

	hit, ok := Pick(r, []testTarget{{geom: geom, model: math.Identity()}})
	if !ok {
		t.Fatal("geometry without UVs is still hit")
	}
	if hit.HasUV {
		t.Error("HasUV should be false")
	}
}

func TestIntersectAABB(t *testing.T) {
	box := NewAABB(1, 1, 1, -1, -1, -1)
	r := Ray{Origin: [3]float32{0, 0, 5}, Direction: [3]float32{0, 0, -1}}
	d, ok := r.IntersectAABB(box)
	if !ok || !near(d, 4) {
		t.Errorf("IntersectAABB = %v, %v; want 4, true", d, ok)
	}
}
