package pathgeom

import (
	"log/slog"

	"github.com/philipparndt/gopath/pkg/geometry"
	"github.com/philipparndt/gopath/pkg/toolpath"
)

// MaxPeckMarkers bounds the peck markers drawn for a single drilling cycle
const MaxPeckMarkers = 10000

// drill expands G81-G86/G89: rapid over the hole at the current height, rapid
// down to R, feed to depth, then rapid back up. A positive Q adds one marker per
// peck between R and the final depth.
func (b *Builder) drill(cmd toolpath.Command, next geometry.Vector3) {
	h := b.state.Height
	r := cmd.Value('R', 0)

	above := next.With(h, b.state.Last.Get(h))
	retract := next.With(h, r)

	b.begin()
	b.lineTo(above, Rapid)
	b.node(above)
	b.lineTo(retract, Rapid)
	b.node(retract)
	b.lineTo(next, Feed)
	b.node(next)

	if q := cmd.Value('Q', 0); q > 0 {
		b.pecks(next, r, q)
	}

	b.lineTo(above, Rapid)
	b.node(above)
	b.state.Last = above
}

func (b *Builder) pecks(bottom geometry.Vector3, r, q float64) {
	h := b.state.Height
	depth := bottom.Get(h)

	for i := 0; ; i++ {
		level := r - q*float64(i)
		if level <= depth {
			return
		}
		if i == MaxPeckMarkers {
			Logger().Warn("peck markers capped",
				slog.Float64("r", r), slog.Float64("q", q),
				slog.Float64("depth", depth), slog.Int("cap", MaxPeckMarkers))
			return
		}
		b.marker(bottom.With(h, level))
	}
}

// probe expands G38.2-G38.5: rapid over the target at the current Z, probe
// move to the target, rapid back up. Probing is always along Z, whatever the
// selected plane.
func (b *Builder) probe(next geometry.Vector3) {
	above := next.With(geometry.AxisZ, b.state.Last.Z)

	b.begin()
	b.lineTo(above, Rapid)
	b.lineTo(next, Probe)
	b.lineTo(above, Rapid)
	b.state.Last = above
}
