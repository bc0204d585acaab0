// Package math provides the small vector and matrix toolkit shared by the
// surface, picking and renderer packages.
package math

import "github.com/chewxy/math32"

// Vec2 is a 2D vector. On the drawing surface X grows right and Y grows down.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product.
func (v Vec2) Dot(other Vec2) float32 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the z component of the 3D cross product of v and other.
func (v Vec2) Cross(other Vec2) float32 {
	return v.X*other.Y - v.Y*other.X
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Distance returns the distance to another point.
func (v Vec2) Distance(other Vec2) float32 {
	return v.Sub(other).Length()
}

// Heading returns the angle of v in radians, measured with atan2(y, x).
func (v Vec2) Heading() float32 {
	return math32.Atan2(v.Y, v.X)
}

// Rotate rotates v around the origin by deg degrees. With Y pointing down,
// positive angles turn clockwise on screen.
func (v Vec2) Rotate(deg float32) Vec2 {
	rad := deg * math32.Pi / 180
	sin, cos := math32.Sin(rad), math32.Cos(rad)
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}
