// Package uvmap analyzes the UV layout of mesh components so new artwork can be
// placed and sized sensibly on the drawing surface.
package uvmap

import "errors"

// ErrNoUVChannel is returned alongside default statistics when a component
// carries no texture coordinates.
var ErrNoUVChannel = errors.New("component has no UV channel")

// MinExtent is the extent reported for empty or degenerate UV sets so that
// placement never produces zero-scale artwork.
const MinExtent float32 = 0.01

// UV is a normalized texture coordinate.
type UV struct {
	U, V float32
}

// Center is the fallback coordinate used when no UV data is available.
var Center = UV{0.5, 0.5}

// Component is the geometry of one named mesh part. Positions and UVs are
// per-vertex and parallel; Indices lists triangles (three per face). When
// Indices is empty the vertices are read as an unindexed triangle list.
type Component struct {
	Name      string
	Positions [][3]float32
	UVs       [][2]float32
	Indices   []uint32
}

// HasUV reports whether the component carries a usable UV channel.
func (c *Component) HasUV() bool {
	return c != nil && len(c.UVs) > 0 && len(c.UVs) == len(c.Positions)
}

// TriangleCount returns the number of triangles in the component.
func (c *Component) TriangleCount() int {
	if c == nil {
		return 0
	}
	if len(c.Indices) > 0 {
		return len(c.Indices) / 3
	}
	return len(c.Positions) / 3
}

// Triangle returns the vertex indices of triangle i.
func (c *Component) Triangle(i int) (a, b, d uint32) {
	if len(c.Indices) > 0 {
		return c.Indices[i*3], c.Indices[i*3+1], c.Indices[i*3+2]
	}
	base := uint32(i * 3)
	return base, base + 1, base + 2
}

// Stats summarizes the UV layout of a component.
type Stats struct {
	AverageU float32
	AverageV float32
	Extent   float32
}

// Average returns the average UV as a coordinate.
func (s Stats) Average() UV {
	return UV{s.AverageU, s.AverageV}
}

// DefaultStats is what Analyze reports for components without UVs.
func DefaultStats() Stats {
	return Stats{AverageU: Center.U, AverageV: Center.V, Extent: MinExtent}
}

// AverageUV averages the UV attribute of every vertex of the component.
// Components without a UV channel yield Center.
func AverageUV(c *Component) UV {
	if !c.HasUV() {
		return Center
	}
	var su, sv float64
	for _, uv := range c.UVs {
		su += float64(uv[0])
		sv += float64(uv[1])
	}
	n := float64(len(c.UVs))
	return UV{float32(su / n), float32(sv / n)}
}

// Extent returns the area of the UV bounding box. It is a scale multiplier,
// not an exact fit. Degenerate islands with no area report MinExtent.
func Extent(c *Component) float32 {
	if !c.HasUV() {
		return MinExtent
	}
	minU, minV := c.UVs[0][0], c.UVs[0][1]
	maxU, maxV := minU, minV
	for _, uv := range c.UVs[1:] {
		minU = min(minU, uv[0])
		maxU = max(maxU, uv[0])
		minV = min(minV, uv[1])
		maxV = max(maxV, uv[1])
	}
	area := (maxU - minU) * (maxV - minV)
	if area <= 0 {
		return MinExtent
	}
	return area
}

// Analyze computes the statistics of a component. The returned Stats are always
// usable; ErrNoUVChannel only tells the caller defaults were substituted.
func Analyze(c *Component) (Stats, error) {
	if !c.HasUV() {
		return DefaultStats(), ErrNoUVChannel
	}
	avg := AverageUV(c)
	return Stats{AverageU: avg.U, AverageV: avg.V, Extent: Extent(c)}, nil
}
