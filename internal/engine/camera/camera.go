// Package camera provides the orbit camera that frames the garment.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/uvstudio/internal/engine/picking"
	"github.com/Faultbox/uvstudio/pkg/math"
)

// OrbitCamera orbits around a center point. Drag input is damped: each
// Update applies a fraction of the pending rotation and decays the rest.
type OrbitCamera struct {
	// Center point to orbit around
	CenterX, CenterY, CenterZ float32

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (elevation above the XZ plane, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Projection
	FOV        float32 // vertical, degrees
	Near, Far  float32
	aspect     float32
	projection math.Mat4

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Damping is the share of pending rotation applied per Update, in (0,1].
	Damping float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	pendingX, pendingY float32
}

// NewOrbitCamera creates a camera at (0,5,25) looking at the origin.
func NewOrbitCamera() *OrbitCamera {
	c := &OrbitCamera{
		Distance:        math32.Sqrt(5*5 + 25*25),
		RotationX:       math32.Atan2(5, 25),
		FOV:             35,
		Near:            0.1,
		Far:             1000,
		MinDistance:     16.1,
		MaxDistance:     35,
		MaxPitch:        math32.Pi/2 - 0.001,
		Damping:         0.161,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
	c.SetMaxPolar(math32.Pi / 1.61)
	c.SetAspect(16.0 / 10.0)
	return c
}

// SetMaxPolar limits how far below the top pole the camera may swing.
// The polar angle is measured from +Y.
func (c *OrbitCamera) SetMaxPolar(polar float32) {
	c.MinPitch = math32.Pi/2 - polar
}

// SetAspect updates the projection for a new viewport shape.
func (c *OrbitCamera) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.aspect = aspect
	c.projection = math.Perspective(c.FOV*math32.Pi/180, aspect, c.Near, c.Far)
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sinP, cosP := math32.Sin(c.RotationX), math32.Cos(c.RotationX)
	sinY, cosY := math32.Sin(c.RotationY), math32.Cos(c.RotationY)
	return math.Vec3{
		X: c.CenterX + c.Distance*cosP*sinY,
		Y: c.CenterY + c.Distance*sinP,
		Z: c.CenterZ + c.Distance*cosP*cosY,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	center := math.Vec3{X: c.CenterX, Y: c.CenterY, Z: c.CenterZ}
	return math.LookAt(c.Position(), center, math.Vec3{Y: 1})
}

// ViewProjection returns projection * view.
func (c *OrbitCamera) ViewProjection() math.Mat4 {
	return c.projection.Mul(c.ViewMatrix())
}

// Ray casts a world-space ray through a window pixel.
func (c *OrbitCamera) Ray(screenX, screenY, width, height float32) picking.Ray {
	return picking.ScreenToRay(screenX, screenY, width, height, c.ViewProjection().Inverse())
}

// HandleDrag queues rotation from a mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.pendingY -= deltaX * c.DragSensitivity
	c.pendingX += deltaY * c.DragSensitivity
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// Update applies damped rotation. Call once per frame.
func (c *OrbitCamera) Update() {
	d := c.Damping
	if d <= 0 || d > 1 {
		d = 1
	}
	c.RotationY += c.pendingY * d
	c.RotationX = clamp(c.RotationX+c.pendingX*d, c.MinPitch, c.MaxPitch)
	c.pendingX *= 1 - d
	c.pendingY *= 1 - d
	if math32.Abs(c.pendingX) < 1e-5 {
		c.pendingX = 0
	}
	if math32.Abs(c.pendingY) < 1e-5 {
		c.pendingY = 0
	}
}

// Settled reports whether no damped rotation is pending.
func (c *OrbitCamera) Settled() bool { return c.pendingX == 0 && c.pendingY == 0 }

// FitToBounds centers the orbit on a model's bounding box. Distance stays
// within the zoom limits.
func (c *OrbitCamera) FitToBounds(box picking.AABB) {
	c.CenterX = (box.Min[0] + box.Max[0]) / 2
	c.CenterY = (box.Min[1] + box.Max[1]) / 2
	c.CenterZ = (box.Min[2] + box.Max[2]) / 2

	size := max(box.Max[0]-box.Min[0], box.Max[1]-box.Min[1], box.Max[2]-box.Min[2])
	fit := size / 2 / math32.Tan(c.FOV*math32.Pi/360)
	c.Distance = clamp(fit*1.2, c.MinDistance, c.MaxDistance)
}

func clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
