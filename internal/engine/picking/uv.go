package picking

import (
	"github.com/Faultbox/uvstudio/internal/uvmap"
	"github.com/Faultbox/uvstudio/pkg/math"
)

const triangleEpsilon = 1e-7

// Target is anything the pointer can hit: UV-mapped geometry placed in the
// world by a model matrix.
type Target interface {
	Geometry() *uvmap.Component
	ModelMatrix() math.Mat4
}

// Hit describes where a ray met a target.
type Hit struct {
	Index    int // position of the target in the slice passed to Pick
	Distance float32
	Point    [3]float32 // world space
	UV       uvmap.UV
	HasUV    bool
}

// IntersectTriangle runs the Möller-Trumbore test. It returns the distance
// along the ray and the barycentric weights of b and c.
func (r Ray) IntersectTriangle(a, b, c [3]float32) (t, u, v float32, ok bool) {
	va, vb, vc := math.V3(a), math.V3(b), math.V3(c)
	dir := math.V3(r.Direction)
	e1 := vb.Sub(va)
	e2 := vc.Sub(va)

	p := dir.Cross(e2)
	det := e1.Dot(p)
	if det > -triangleEpsilon && det < triangleEpsilon {
		return 0, 0, 0, false // parallel
	}
	inv := 1 / det

	s := math.V3(r.Origin).Sub(va)
	u = s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}
	q := s.Cross(e1)
	v = dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}
	t = e2.Dot(q) * inv
	if t < 0 {
		return 0, 0, 0, false // behind the origin
	}
	return t, u, v, true
}

// Bounds returns the local-space bounding box of a component.
func Bounds(c *uvmap.Component) AABB {
	if c == nil || len(c.Positions) == 0 {
		return AABB{}
	}
	lo, hi := c.Positions[0], c.Positions[0]
	for _, p := range c.Positions[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	return NewAABB(lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
}

// IntersectComponent finds the nearest triangle of c hit by a local-space ray.
func (r Ray) IntersectComponent(c *uvmap.Component) (t float32, uv uvmap.UV, hasUV, ok bool) {
	if c == nil || len(c.Positions) == 0 {
		return 0, uvmap.UV{}, false, false
	}
	if _, hit := r.IntersectAABB(Bounds(c)); !hit {
		return 0, uvmap.UV{}, false, false
	}
	hasUV = c.HasUV()
	best := float32(-1)
	for i := 0; i < c.TriangleCount(); i++ {
		ia, ib, ic := c.Triangle(i)
		if int(max(ia, ib, ic)) >= len(c.Positions) {
			continue
		}
		d, bu, bv, hit := r.IntersectTriangle(c.Positions[ia], c.Positions[ib], c.Positions[ic])
		if !hit || (best >= 0 && d >= best) {
			continue
		}
		best = d
		if hasUV {
			w := 1 - bu - bv
			uv = uvmap.UV{
				U: w*c.UVs[ia][0] + bu*c.UVs[ib][0] + bv*c.UVs[ic][0],
				V: w*c.UVs[ia][1] + bu*c.UVs[ib][1] + bv*c.UVs[ic][1],
			}
		}
	}
	if best < 0 {
		return 0, uvmap.UV{}, false, false
	}
	return best, uv, hasUV, true
}

// Pick casts a world-space ray against every target and returns the nearest
// hit. ok is false on a miss.
func Pick[T Target](r Ray, targets []T) (Hit, bool) {
	var best Hit
	found := false
	for i, tg := range targets {
		model := tg.ModelMatrix()
		local := r.Transform(model.Inverse())
		t, uv, hasUV, ok := local.IntersectComponent(tg.Geometry())
		if !ok {
			continue
		}
		world := model.TransformPoint(local.At(t))
		d := math.V3(world).Sub(math.V3(r.Origin)).Length()
		if found && d >= best.Distance {
			continue
		}
		best = Hit{Index: i, Distance: d, Point: world, UV: uv, HasUV: hasUV}
		found = true
	}
	return best, found
}
