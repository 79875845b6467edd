package geometry

import (
	"fmt"
	"math"
)

// Vector3 represents a 3D point or vector
type Vector3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// NewVector3 creates a new 3D vector
func NewVector3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Sub returns the difference between two vectors
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Mul multiplies the vector by a scalar
func (v Vector3) Mul(scalar float64) Vector3 {
	return Vector3{
		X: v.X * scalar,
		Y: v.Y * scalar,
		Z: v.Z * scalar,
	}
}

// Dot returns the dot product of two vectors
func (v Vector3) Dot(other Vector3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude of the vector
func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Distance returns the distance between two points
func (v Vector3) Distance(other Vector3) float64 {
	return v.Sub(other).Length()
}

// Normalize returns a unit vector in the same direction
func (v Vector3) Normalize() Vector3 {
	length := v.Length()
	if length == 0 {
		return Vector3{}
	}
	return v.Mul(1.0 / length)
}

// Angle returns the unsigned angle between two vectors in the range [0, π].
// A zero-length operand yields 0.
func (v Vector3) Angle(other Vector3) float64 {
	if v.Length() == 0 || other.Length() == 0 {
		return 0
	}
	return math.Atan2(v.Cross(other).Length(), v.Dot(other))
}

// Get returns the component of v along axis
func (v Vector3) Get(axis Axis) float64 {
	switch axis {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// With returns a copy of v with the component along axis replaced
func (v Vector3) With(axis Axis, value float64) Vector3 {
	switch axis {
	case AxisX:
		v.X = value
	case AxisY:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}

// Project drops v onto the plane orthogonal to axis.
func (v Vector3) Project(axis Axis) Vector3 {
	return v.With(axis, 0)
}

// Rotate turns v by angle radians about axis, counter-clockwise when looking
// down the positive axis (right-hand rule). The component along axis is kept.
func (v Vector3) Rotate(axis Axis, angle float64) Vector3 {
	k := axis.Unit()
	height := v.Get(axis)
	inPlane := v.Project(axis)

	sin, cos := math.Sincos(angle)
	rotated := inPlane.Mul(cos).Add(k.Cross(inPlane).Mul(sin))
	return rotated.With(axis, height)
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Axis names one of the three coordinate axes
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Unit returns the positive unit vector along the axis
func (a Axis) Unit() Vector3 {
	return Vector3{}.With(a, 1)
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}
