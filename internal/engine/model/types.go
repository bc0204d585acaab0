// Package model turns UV-mapped components into interleaved vertex data
// ready for GPU upload.
package model

// Vertex is one interleaved GPU vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh holds the complete mesh data ready for GPU upload.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the middle of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{(b.Min[0] + b.Max[0]) / 2, (b.Min[1] + b.Max[1]) / 2, (b.Min[2] + b.Max[2]) / 2}
}

// Union grows b to contain o.
func (b Bounds) Union(o Bounds) Bounds {
	updateBounds(&b, o.Min)
	updateBounds(&b, o.Max)
	return b
}

// BuildOptions contains options for mesh building.
type BuildOptions struct {
	// SmoothSeams averages normals of vertices split only by a UV seam.
	SmoothSeams bool
}
