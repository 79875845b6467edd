package pathgeom

import (
	"log/slog"
	"math"

	"github.com/philipparndt/gopath/pkg/geometry"
)

const (
	// MinArcSegments is the least number of segments any arc is split into
	MinArcSegments = 20

	// MaxArcSegments bounds the segment count for vanishing tolerances
	MaxArcSegments = 1 << 16
)

// Arc is a circular or helical move around Center. Center is already resolved
// to an absolute position.
type Arc struct {
	Start     geometry.Vector3
	End       geometry.Vector3
	Center    geometry.Vector3
	Clockwise bool
	Height    geometry.Axis
}

// Sweep returns the angle the arc turns through in the plane orthogonal to
// Height, in (0, 2π]. The minor angle between start and end is replaced by the
// major one when it runs against the requested direction; coincident start and
// end directions make a full circle.
func (a Arc) Sweep() float64 {
	s := a.Start.Sub(a.Center).Project(a.Height)
	e := a.End.Sub(a.Center).Project(a.Height)

	angle := e.Angle(s)
	turn := s.Cross(e).Get(a.Height)

	switch {
	case turn < 0 && !a.Clockwise:
		angle = 2*math.Pi - angle
	case turn > 0 && a.Clockwise:
		angle = 2*math.Pi - angle
	case turn == 0 && angle == 0:
		angle = 2 * math.Pi
	}
	return angle
}

// Segments returns how many chords approximate an arc sweeping angle radians:
// 3·angle/deviation truncated, never fewer than MinArcSegments.
func Segments(angle, deviation float64) int {
	n := 3 * angle / deviation
	switch {
	case math.IsNaN(n) || n < MinArcSegments:
		return MinArcSegments
	case n > MaxArcSegments:
		Logger().Warn("arc segment count capped",
			slog.Float64("requested", n), slog.Int("cap", MaxArcSegments))
		return MaxArcSegments
	}
	return int(n)
}

// TessellateArc returns the points following Start along the arc: the
// intermediate chord ends and finally End itself. Height advances linearly
// across the sweep, so helices come out as well.
func TessellateArc(a Arc, deviation float64) []geometry.Vector3 {
	angle := a.Sweep()
	n := Segments(angle, deviation)

	step := angle / float64(n)
	if a.Clockwise {
		step = -step
	}

	startHeight := a.Start.Get(a.Height)
	dh := (a.End.Get(a.Height) - startHeight) / float64(n)
	radial := a.Start.Sub(a.Center).Project(a.Height)
	center := a.Center.Project(a.Height)

	points := make([]geometry.Vector3, 0, n)
	for j := 1; j < n; j++ {
		p := center.Add(radial.Rotate(a.Height, step*float64(j)))
		points = append(points, p.With(a.Height, startHeight+dh*float64(j)))
	}
	return append(points, a.End)
}
