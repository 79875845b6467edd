package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/gopath/pkg/geometry"
	"github.com/philipparndt/gopath/pkg/pathgeom"
)

// ClassInfo aggregates the segments of one class
type ClassInfo struct {
	Class    pathgeom.SegmentClass
	Segments int
	Length   float64
	Longest  float64
}

// Summary contains derived figures for a built toolpath
type Summary struct {
	Commands     int
	PointCount   int
	MarkerCount  int
	SegmentCount int
	TotalLength  float64
	MinSegment   float64
	MaxSegment   float64
	AvgSegment   float64
	Start        geometry.Vector3
	End          geometry.Vector3
	Classes      []ClassInfo
	ZeroSegments int
}

// Summarize walks the polyline of g once and collects per-class statistics
func Summarize(g *pathgeom.Geometry, commands int) *Summary {
	result := &Summary{
		Commands:    commands,
		PointCount:  len(g.Points),
		MarkerCount: len(g.Markers),
		Classes: []ClassInfo{
			{Class: pathgeom.Rapid},
			{Class: pathgeom.Feed},
			{Class: pathgeom.Probe},
		},
	}

	if len(g.Points) == 0 {
		return result
	}
	result.Start = g.Points[0]
	result.End = g.Points[len(g.Points)-1]

	minLength := math.MaxFloat64
	for i, class := range g.Classes {
		if i+1 >= len(g.Points) {
			break
		}
		length := g.Points[i].Distance(g.Points[i+1])

		if int(class) >= 0 && int(class) < len(result.Classes) {
			info := &result.Classes[class]
			info.Segments++
			info.Length += length
			info.Longest = math.Max(info.Longest, length)
		}

		result.SegmentCount++
		result.TotalLength += length
		if length == 0 {
			result.ZeroSegments++
		}
		minLength = math.Min(minLength, length)
		result.MaxSegment = math.Max(result.MaxSegment, length)
	}

	if result.SegmentCount > 0 {
		result.MinSegment = minLength
		result.AvgSegment = result.TotalLength / float64(result.SegmentCount)
	}

	return result
}

// Class returns the aggregate for one segment class
func (s *Summary) Class(class pathgeom.SegmentClass) ClassInfo {
	for _, info := range s.Classes {
		if info.Class == class {
			return info
		}
	}
	return ClassInfo{Class: class}
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
