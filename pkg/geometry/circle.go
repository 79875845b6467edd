package geometry

import (
	"fmt"
	"math"
)

// CircleFit represents the result of fitting a circle to points
type CircleFit struct {
	Center Vector3 // Circle center, height taken from the first point
	Radius float64
	Axis   Axis    // Axis the circle is wound around
	StdDev float64 // Standard deviation of the point distances from Radius
}

// planeCoords returns the two in-plane coordinates of p for the given height axis,
// in right-handed order (XY for Z, ZX for Y, YZ for X).
func planeCoords(p Vector3, axis Axis) (float64, float64) {
	switch axis {
	case AxisX:
		return p.Y, p.Z
	case AxisY:
		return p.Z, p.X
	default:
		return p.X, p.Y
	}
}

func fromPlaneCoords(u, w, height float64, axis Axis) Vector3 {
	switch axis {
	case AxisX:
		return NewVector3(height, u, w)
	case AxisY:
		return NewVector3(w, height, u)
	default:
		return NewVector3(u, w, height)
	}
}

// FitCircle fits a circle to points wound around axis, ignoring each point's
// height along that axis, so helices fit as well as flat arcs.
//
// The first, middle and last points define the circle through the determinant formula:
//
//	D  = 2(x₁(y₂-y₃) + x₂(y₃-y₁) + x₃(y₁-y₂))
//	cx = ((x₁²+y₁²)(y₂-y₃) + (x₂²+y₂²)(y₃-y₁) + (x₃²+y₃²)(y₁-y₂)) / D
//	cy = ((x₁²+y₁²)(x₃-x₂) + (x₂²+y₂²)(x₁-x₃) + (x₃²+y₃²)(x₂-x₁)) / D
func FitCircle(points []Vector3, axis Axis) (*CircleFit, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("need at least 3 points to fit a circle")
	}
	if axis < AxisX || axis > AxisZ {
		return nil, fmt.Errorf("invalid axis: %d", int(axis))
	}

	x1, y1 := planeCoords(points[0], axis)
	x2, y2 := planeCoords(points[len(points)/2], axis)
	x3, y3 := planeCoords(points[len(points)-1], axis)

	D := 2.0 * (x1*(y2-y3) + x2*(y3-y1) + x3*(y1-y2))
	if math.Abs(D) < 1e-10 {
		return nil, fmt.Errorf("points are collinear")
	}

	x1sq := x1*x1 + y1*y1
	x2sq := x2*x2 + y2*y2
	x3sq := x3*x3 + y3*y3

	cx := (x1sq*(y2-y3) + x2sq*(y3-y1) + x3sq*(y1-y2)) / D
	cy := (x1sq*(x3-x2) + x2sq*(x1-x3) + x3sq*(x2-x1)) / D
	radius := math.Hypot(x1-cx, y1-cy)

	var sumError float64
	for _, p := range points {
		u, w := planeCoords(p, axis)
		d := math.Hypot(u-cx, w-cy) - radius
		sumError += d * d
	}

	return &CircleFit{
		Center: fromPlaneCoords(cx, cy, points[0].Get(axis), axis),
		Radius: radius,
		Axis:   axis,
		StdDev: math.Sqrt(sumError / float64(len(points))),
	}, nil
}
