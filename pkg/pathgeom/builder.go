// Package pathgeom turns a toolpath into renderable geometry: one polyline of
// points, a set of marker points, and a classification for every segment of the
// polyline.
//
// Building is a single forward pass. A fresh Builder owns its modal state and
// output, so independent toolpaths can be built concurrently.
package pathgeom

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/philipparndt/gopath/pkg/geometry"
	"github.com/philipparndt/gopath/pkg/toolpath"
)

// DefaultDeviation is the arc deviation tolerance used when none is configured
const DefaultDeviation = 0.2

// SegmentClass tells a renderer how to color one polyline segment
type SegmentClass int

const (
	Rapid SegmentClass = iota
	Feed
	Probe
)

func (c SegmentClass) String() string {
	switch c {
	case Rapid:
		return "rapid"
	case Feed:
		return "feed"
	case Probe:
		return "probe"
	default:
		return fmt.Sprintf("SegmentClass(%d)", int(c))
	}
}

// MarshalText encodes the class by name
func (c SegmentClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a class name
func (c *SegmentClass) UnmarshalText(text []byte) error {
	switch string(text) {
	case "rapid":
		*c = Rapid
	case "feed":
		*c = Feed
	case "probe":
		*c = Probe
	default:
		return fmt.Errorf("unknown segment class %q", text)
	}
	return nil
}

// Options are the display settings that shape the geometry
type Options struct {
	Deviation      float64 // chord tolerance for arcs, > 0
	ShowFirstRapid bool    // draw the initial rapid move from the origin
	ShowNodes      bool    // add markers at move end points and arc centers
}

// DefaultOptions returns the settings a new path object starts with
func DefaultOptions() Options {
	return Options{
		Deviation:      DefaultDeviation,
		ShowFirstRapid: true,
	}
}

// Geometry is the result of a build. Points form one connected polyline;
// Classes[i] describes the segment from Points[i] to Points[i+1].
type Geometry struct {
	Points  []geometry.Vector3 `json:"points" yaml:"points"`
	Markers []geometry.Vector3 `json:"markers" yaml:"markers"`
	Classes []SegmentClass     `json:"classes" yaml:"classes"`
}

// Empty reports whether the build produced no polyline
func (g *Geometry) Empty() bool {
	return len(g.Points) == 0
}

// Consistent reports whether there is exactly one class per segment
func (g *Geometry) Consistent() bool {
	if len(g.Points) == 0 {
		return len(g.Classes) == 0
	}
	return len(g.Points) == len(g.Classes)+1
}

// Builder accumulates geometry one command at a time.
type Builder struct {
	opts  Options
	state ModalState
	geom  Geometry
}

// NewBuilder creates a builder at the start of a toolpath. A non-positive
// deviation falls back to DefaultDeviation.
func NewBuilder(opts Options) *Builder {
	if !(opts.Deviation > 0) || math.IsInf(opts.Deviation, 0) {
		Logger().Warn("invalid arc deviation, using default",
			slog.Float64("deviation", opts.Deviation),
			slog.Float64("default", DefaultDeviation))
		opts.Deviation = DefaultDeviation
	}

	return &Builder{
		opts:  opts,
		state: NewModalState(),
		geom: Geometry{
			Points:  make([]geometry.Vector3, 0),
			Markers: make([]geometry.Vector3, 0),
			Classes: make([]SegmentClass, 0),
		},
	}
}

// Build runs one pass over path and returns its geometry.
func Build(path toolpath.Toolpath, opts Options) *Geometry {
	b := NewBuilder(opts)
	for _, cmd := range path {
		b.Add(cmd)
	}

	Logger().Debug("built toolpath geometry",
		slog.Int("commands", len(path)),
		slog.Int("points", len(b.geom.Points)),
		slog.Int("markers", len(b.geom.Markers)))

	return &b.geom
}

// State returns the modal state after the commands added so far
func (b *Builder) State() ModalState {
	return b.state
}

// Geometry returns a copy of the geometry accumulated so far
func (b *Builder) Geometry() *Geometry {
	return &Geometry{
		Points:  slices.Clone(b.geom.Points),
		Markers: slices.Clone(b.geom.Markers),
		Classes: slices.Clone(b.geom.Classes),
	}
}

// Add consumes one command.
func (b *Builder) Add(cmd toolpath.Command) {
	if b.state.Apply(cmd) {
		return
	}

	next := b.state.Resolve(cmd)

	switch cmd.Kind() {
	case toolpath.KindRapid, toolpath.KindFeed:
		b.straight(cmd, next)
	case toolpath.KindArcCW, toolpath.KindArcCCW:
		b.arc(cmd, next)
	case toolpath.KindDrill:
		b.drill(cmd, next)
	case toolpath.KindProbe:
		b.probe(next)
	default:
		Logger().Debug("ignoring command", slog.String("command", cmd.String()))
		b.state.Last = next
	}
}

// begin records the current position as the start of the polyline, once.
func (b *Builder) begin() {
	if len(b.geom.Points) == 0 {
		b.geom.Points = append(b.geom.Points, b.state.Last)
		b.geom.Markers = append(b.geom.Markers, b.state.Last)
	}
}

func (b *Builder) lineTo(p geometry.Vector3, class SegmentClass) {
	b.geom.Points = append(b.geom.Points, p)
	b.geom.Classes = append(b.geom.Classes, class)
}

func (b *Builder) marker(p geometry.Vector3) {
	b.geom.Markers = append(b.geom.Markers, p)
}

func (b *Builder) node(p geometry.Vector3) {
	if b.opts.ShowNodes {
		b.marker(p)
	}
}

func (b *Builder) straight(cmd toolpath.Command, next geometry.Vector3) {
	if len(b.geom.Points) == 0 && cmd.Kind() == toolpath.KindRapid && !b.opts.ShowFirstRapid {
		// the hidden move still fixes where the path starts
		b.geom.Points = append(b.geom.Points, next)
		b.marker(next)
		b.state.Last = next
		return
	}

	class := Feed
	if cmd.Kind() == toolpath.KindRapid {
		class = Rapid
	}

	b.begin()
	b.lineTo(next, class)
	b.node(next)
	b.state.Last = next
}

func (b *Builder) arc(cmd toolpath.Command, next geometry.Vector3) {
	arc := Arc{
		Start:     b.state.Last,
		End:       next,
		Center:    cmd.Center(b.state.Last, b.state.CenterAbsolute),
		Clockwise: cmd.Kind() == toolpath.KindArcCW,
		Height:    b.state.Height,
	}

	b.begin()
	for _, p := range TessellateArc(arc, b.opts.Deviation) {
		b.lineTo(p, Feed)
	}
	b.node(next)
	b.node(arc.Center)
	b.state.Last = next
}
