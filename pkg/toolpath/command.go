package toolpath

import (
	"sort"
	"strconv"
	"strings"

	"github.com/philipparndt/gopath/pkg/geometry"
)

// Kind is the behaviour a command name maps to
type Kind int

const (
	KindUnknown Kind = iota
	KindRapid
	KindFeed
	KindArcCW
	KindArcCCW
	KindDrill
	KindProbe
	KindAbsolute
	KindIncremental
	KindCenterAbsolute
	KindCenterIncremental
	KindPlaneXY
	KindPlaneXZ
	KindPlaneYZ
)

var kinds = map[string]Kind{
	"G0":    KindRapid,
	"G00":   KindRapid,
	"G1":    KindFeed,
	"G01":   KindFeed,
	"G2":    KindArcCW,
	"G02":   KindArcCW,
	"G3":    KindArcCCW,
	"G03":   KindArcCCW,
	"G81":   KindDrill,
	"G82":   KindDrill,
	"G83":   KindDrill,
	"G84":   KindDrill,
	"G85":   KindDrill,
	"G86":   KindDrill,
	"G89":   KindDrill,
	"G38.2": KindProbe,
	"G38.3": KindProbe,
	"G38.4": KindProbe,
	"G38.5": KindProbe,
	"G90":   KindAbsolute,
	"G91":   KindIncremental,
	"G90.1": KindCenterAbsolute,
	"G91.1": KindCenterIncremental,
	"G17":   KindPlaneXY,
	"G18":   KindPlaneXZ,
	"G19":   KindPlaneYZ,
}

// Classify maps a command name such as "G01" or "g38.2" to its Kind.
func Classify(name string) Kind {
	return kinds[strings.ToUpper(strings.TrimSpace(name))]
}

// IsModal reports whether the kind only changes interpreter state
func (k Kind) IsModal() bool {
	return k >= KindAbsolute && k <= KindPlaneYZ
}

// IsMotion reports whether the kind moves the tool
func (k Kind) IsMotion() bool {
	return k >= KindRapid && k <= KindProbe
}

func (k Kind) String() string {
	switch k {
	case KindRapid:
		return "rapid"
	case KindFeed:
		return "feed"
	case KindArcCW:
		return "arc-cw"
	case KindArcCCW:
		return "arc-ccw"
	case KindDrill:
		return "drill"
	case KindProbe:
		return "probe"
	case KindAbsolute:
		return "absolute"
	case KindIncremental:
		return "incremental"
	case KindCenterAbsolute:
		return "center-absolute"
	case KindCenterIncremental:
		return "center-incremental"
	case KindPlaneXY:
		return "plane-xy"
	case KindPlaneXZ:
		return "plane-xz"
	case KindPlaneYZ:
		return "plane-yz"
	default:
		return "unknown"
	}
}

// Command is a single toolpath instruction: a code and its lettered parameters.
type Command struct {
	Name   string
	Params map[rune]float64
	kind   Kind
}

// NewCommand creates a command, resolving its Kind once. Parameter letters are
// upper-cased.
func NewCommand(name string, params map[rune]float64) Command {
	p := make(map[rune]float64, len(params))
	for letter, value := range params {
		if letter >= 'a' && letter <= 'z' {
			letter -= 'a' - 'A'
		}
		p[letter] = value
	}
	name = strings.ToUpper(strings.TrimSpace(name))
	return Command{Name: name, Params: p, kind: Classify(name)}
}

// Kind returns the behaviour of the command. Commands built as struct literals
// rather than through NewCommand are classified on demand.
func (c Command) Kind() Kind {
	if c.kind == KindUnknown {
		return Classify(c.Name)
	}
	return c.kind
}

// Has reports whether the parameter letter is present
func (c Command) Has(letter rune) bool {
	_, ok := c.Params[letter]
	return ok
}

// Value returns the parameter value, or def if the letter is absent
func (c Command) Value(letter rune, def float64) float64 {
	if v, ok := c.Params[letter]; ok {
		return v
	}
	return def
}

// Target resolves the position the command moves to from last. In absolute mode
// present axes are taken as-is, otherwise they are offsets from last. Absent
// axes hold last's value.
func (c Command) Target(last geometry.Vector3, absolute bool) geometry.Vector3 {
	next := last
	for _, axis := range []geometry.Axis{geometry.AxisX, geometry.AxisY, geometry.AxisZ} {
		v, ok := c.Params[axisLetter(axis)]
		if !ok {
			continue
		}
		if !absolute {
			v += last.Get(axis)
		}
		next = next.With(axis, v)
	}
	return next
}

// Center resolves the arc center from I/J/K. Absent letters count as 0; in
// relative mode the offsets are added to start.
func (c Command) Center(start geometry.Vector3, absoluteCenter bool) geometry.Vector3 {
	center := geometry.NewVector3(c.Value('I', 0), c.Value('J', 0), c.Value('K', 0))
	if !absoluteCenter {
		center = start.Add(center)
	}
	return center
}

func (c Command) String() string {
	letters := make([]rune, 0, len(c.Params))
	for letter := range c.Params {
		letters = append(letters, letter)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })

	var b strings.Builder
	b.WriteString(c.Name)
	for _, letter := range letters {
		b.WriteByte(' ')
		b.WriteRune(letter)
		b.WriteString(strconv.FormatFloat(c.Params[letter], 'f', -1, 64))
	}
	return b.String()
}

func axisLetter(axis geometry.Axis) rune {
	return rune('X' + int(axis))
}

// Toolpath is an ordered sequence of commands
type Toolpath []Command
