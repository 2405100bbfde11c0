// Package geometry holds the small amount of pure 2D math the strip
// pipeline needs: vectors, rotations and unit conversion. Nothing in
// here carries state or can fail.
package geometry

import "math"

type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 {
	return Vec2{x, y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Mul multiplies component-wise.
func (v Vec2) Mul(o Vec2) Vec2 {
	return Vec2{v.X * o.X, v.Y * o.Y}
}

// Div divides component-wise.
func (v Vec2) Div(o Vec2) Vec2 {
	return Vec2{v.X / o.X, v.Y / o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Rot2 is a precomputed 2D rotation. Positive angles rotate
// counter-clockwise in the usual math convention.
type Rot2 struct {
	sin, cos float64
}

// FromAngle builds a rotation from an angle in radians.
func FromAngle(rad float64) Rot2 {
	sin, cos := math.Sincos(rad)
	return Rot2{sin: sin, cos: cos}
}

// FromDegrees builds a rotation from an angle in degrees.
func FromDegrees(deg float64) Rot2 {
	return FromAngle(Deg2Rad(deg))
}

// Inverse returns the opposite rotation.
func (r Rot2) Inverse() Rot2 {
	return Rot2{sin: -r.sin, cos: r.cos}
}

// Apply rotates v about the origin.
func (r Rot2) Apply(v Vec2) Vec2 {
	return Vec2{
		X: r.cos*v.X - r.sin*v.Y,
		Y: r.sin*v.X + r.cos*v.Y,
	}
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
