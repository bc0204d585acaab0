// Package scene holds the garment model: named UV-mapped meshes, their
// materials, and the root transform animated on load.
package scene

import (
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/uvstudio/internal/engine/texture"
	"github.com/Faultbox/uvstudio/internal/transition"
	"github.com/Faultbox/uvstudio/internal/uvmap"
	"github.com/Faultbox/uvstudio/pkg/math"
)

// Material is the surface appearance of a mesh. Color tints the sampled map.
type Material struct {
	color   colorful.Color
	Map     *texture.Texture
	Opacity float32
}

// NewMaterial creates an opaque white material.
func NewMaterial() *Material {
	return &Material{color: colorful.Color{R: 1, G: 1, B: 1}, Opacity: 1}
}

// Color returns the material tint.
func (m *Material) Color() colorful.Color { return m.color }

// SetColor replaces the material tint.
func (m *Material) SetColor(c colorful.Color) { m.color = c }

// Mesh is one named component of the garment.
type Mesh struct {
	Name     string
	geometry *uvmap.Component
	Material *Material

	root *Transform
}

// NewMesh wraps a decoded component. The mesh is named after it.
func NewMesh(c *uvmap.Component) *Mesh {
	return &Mesh{Name: c.Name, geometry: c, Material: NewMaterial()}
}

// Geometry returns the mesh vertex data.
func (m *Mesh) Geometry() *uvmap.Component { return m.geometry }

// ModelMatrix places the mesh in the world through its scene root.
func (m *Mesh) ModelMatrix() math.Mat4 {
	if m.root == nil {
		return math.Identity()
	}
	return m.root.Matrix()
}

// Transform is the root placement shared by every mesh.
type Transform struct {
	Position  math.Vec3
	RotationY float32
	Scale     float32
	Opacity   float32
}

// Matrix composes translation, rotation about Y and uniform scale.
func (t *Transform) Matrix() math.Mat4 {
	return math.TRS(t.Position, t.RotationY, t.Scale)
}

// Scene is the loaded garment.
type Scene struct {
	Root   Transform
	meshes []*Mesh
	intro  *Intro
}

// New creates an empty scene at rest.
func New() *Scene {
	return &Scene{Root: Transform{Scale: 1, Opacity: 1}}
}

// Add attaches meshes to the scene root.
func (s *Scene) Add(meshes ...*Mesh) {
	for _, m := range meshes {
		m.root = &s.Root
		s.meshes = append(s.meshes, m)
	}
}

// Meshes returns the meshes in load order.
func (s *Scene) Meshes() []*Mesh { return s.meshes }

// Traverse calls fn for every mesh in load order.
func (s *Scene) Traverse(fn func(*Mesh)) {
	for _, m := range s.meshes {
		fn(m)
	}
}

// Find returns the first mesh with the given name.
func (s *Scene) Find(name string) (*Mesh, bool) {
	i := slices.IndexFunc(s.meshes, func(m *Mesh) bool { return m.Name == name })
	if i < 0 {
		return nil, false
	}
	return s.meshes[i], true
}

// ComponentNames lists distinct mesh names in load order.
func (s *Scene) ComponentNames() []string {
	var names []string
	for _, m := range s.meshes {
		if m.Name != "" && !slices.Contains(names, m.Name) {
			names = append(names, m.Name)
		}
	}
	return names
}

// ColorTargets returns the materials of every mesh called name.
func (s *Scene) ColorTargets(name string) []transition.Target {
	var out []transition.Target
	for _, m := range s.meshes {
		if m.Name == name {
			out = append(out, m.Material)
		}
	}
	return out
}

// AssignMap makes every mesh sample tex.
func (s *Scene) AssignMap(tex *texture.Texture) {
	for _, m := range s.meshes {
		m.Material.Map = tex
	}
}
