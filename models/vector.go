package models

import (
	"github.com/chewxy/math32"
)

// Epsilon is the smallest magnitude used as a divisor in geometry
// computations.
const Epsilon float32 = 1e-6

func EqualWithEpsilon(a float32, b float32, epsilon float32) bool {
	return math32.Abs(a-b) <= epsilon
}

// Vector3f is a point or a direction in display space.
type Vector3f struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

func NewVector3f(x, y, z float32) Vector3f {
	return Vector3f{x, y, z}
}

func (v1 Vector3f) EqualWithEpsilon(v2 Vector3f, epsilon float32) bool {
	return EqualWithEpsilon(v1.X, v2.X, epsilon) &&
		EqualWithEpsilon(v1.Y, v2.Y, epsilon) &&
		EqualWithEpsilon(v1.Z, v2.Z, epsilon)
}

// InsideOpen reports whether every component lies strictly between min and
// max.
func (v Vector3f) InsideOpen(min, max float32) bool {
	return min < v.X && v.X < max &&
		min < v.Y && v.Y < max &&
		min < v.Z && v.Z < max
}

func (v Vector3f) Add(o Vector3f) Vector3f {
	return Vector3f{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3f) Sub(o Vector3f) Vector3f {
	return Vector3f{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3f) Mul(s float32) Vector3f {
	return Vector3f{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector3f) Div(s float32) Vector3f {
	return Vector3f{v.X / s, v.Y / s, v.Z / s}
}

// Mag2 returns the squared length.
func (v Vector3f) Mag2() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vector3f) Length() float32 {
	return math32.Sqrt(v.Mag2())
}

func (v Vector3f) Dot(o Vector3f) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func Distance(a, b Vector3f) float32 {
	return a.Sub(b).Length()
}

// Clamp returns v with each component limited to [min, max].
func (v Vector3f) Clamp(min, max float32) Vector3f {
	return Vector3f{
		X: math32.Min(math32.Max(v.X, min), max),
		Y: math32.Min(math32.Max(v.Y, min), max),
		Z: math32.Min(math32.Max(v.Z, min), max),
	}
}

// Average accumulates points and returns their mean.
type Average struct {
	sum   Vector3f
	count int
}

func (a *Average) Add(v Vector3f) {
	a.sum = a.sum.Add(v)
	a.count++
}

func (a *Average) Count() int {
	return a.count
}

// Mean returns the mean of the added points. ok is false when no point was
// added.
func (a *Average) Mean() (v Vector3f, ok bool) {
	if a.count == 0 {
		return Vector3f{}, false
	}
	return a.sum.Div(float32(a.count)), true
}
