package model

import (
	"math"

	"github.com/Faultbox/uvstudio/internal/uvmap"
)

// BuildMesh interleaves a component's positions and UVs and derives
// area-weighted vertex normals from its triangles. Components without a UV
// channel get zero texture coordinates.
func BuildMesh(c *uvmap.Component, opts BuildOptions) *Mesh {
	m := &Mesh{
		Name:     c.Name,
		Vertices: make([]Vertex, len(c.Positions)),
		Indices:  append([]uint32(nil), c.Indices...),
		Bounds: Bounds{
			Min: [3]float32{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
			Max: [3]float32{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
		},
	}

	hasUV := c.HasUV()
	for i, p := range c.Positions {
		m.Vertices[i].Position = p
		if hasUV {
			m.Vertices[i].TexCoord = c.UVs[i]
		}
		updateBounds(&m.Bounds, p)
	}

	acc := make([][3]float32, len(c.Positions))
	for t := 0; t < c.TriangleCount(); t++ {
		a, b, d := c.Triangle(t)
		pa, pb, pd := c.Positions[a], c.Positions[b], c.Positions[d]
		// Unnormalized cross product weights by triangle area.
		n := Cross(sub(pb, pa), sub(pd, pa))
		for _, i := range [3]uint32{a, b, d} {
			acc[i][0] += n[0]
			acc[i][1] += n[1]
			acc[i][2] += n[2]
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = Normalize(acc[i])
	}

	if opts.SmoothSeams {
		SmoothNormals(m.Vertices)
	}
	return m
}

// CenterXZ moves every component so the union of their horizontal (X/Z)
// bounds is centered on the origin. Y is preserved so garments keep standing
// on their authored floor. Returns the offset that was subtracted.
func CenterXZ(comps []*uvmap.Component) (centerX, centerZ float32) {
	b := Bounds{
		Min: [3]float32{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: [3]float32{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
	n := 0
	for _, c := range comps {
		for _, p := range c.Positions {
			updateBounds(&b, p)
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}

	centerX = (b.Min[0] + b.Max[0]) / 2
	centerZ = (b.Min[2] + b.Max[2]) / 2
	for _, c := range comps {
		for i := range c.Positions {
			c.Positions[i][0] -= centerX
			c.Positions[i][2] -= centerZ
		}
	}
	return centerX, centerZ
}

// SmoothNormals averages normals at shared vertex positions, hiding the
// shading crease along UV seams.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		key := [3]int32{
			int32(vertices[i].Position[0] / epsilon),
			int32(vertices[i].Position[1] / epsilon),
			int32(vertices[i].Position[2] / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}
		var sum [3]float32
		for _, idx := range idxs {
			sum[0] += vertices[idx].Normal[0]
			sum[1] += vertices[idx].Normal[1]
			sum[2] += vertices[idx].Normal[2]
		}
		avg := Normalize(sum)
		for _, idx := range idxs {
			vertices[idx].Normal = avg
		}
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}
