package pathgeom

import (
	"github.com/philipparndt/gopath/pkg/geometry"
	"github.com/philipparndt/gopath/pkg/toolpath"
)

// ModalState is the interpreter context carried from one command to the next.
type ModalState struct {
	Absolute       bool          // G90 when true, G91 otherwise
	CenterAbsolute bool          // G90.1 when true, G91.1 otherwise
	Height         geometry.Axis // out-of-plane axis: Z (G17), Y (G18), X (G19)
	Last           geometry.Vector3
}

// NewModalState returns the state at the start of a toolpath: absolute
// positioning, relative arc centers, XY plane, tool at the origin.
func NewModalState() ModalState {
	return ModalState{
		Absolute: true,
		Height:   geometry.AxisZ,
	}
}

// Apply consumes positioning, center-mode and plane directives. It returns false
// for any other command, leaving the state untouched.
func (s *ModalState) Apply(cmd toolpath.Command) bool {
	switch cmd.Kind() {
	case toolpath.KindAbsolute:
		s.Absolute = true
	case toolpath.KindIncremental:
		s.Absolute = false
	case toolpath.KindCenterAbsolute:
		s.CenterAbsolute = true
	case toolpath.KindCenterIncremental:
		s.CenterAbsolute = false
	case toolpath.KindPlaneXY:
		s.Height = geometry.AxisZ
	case toolpath.KindPlaneXZ:
		s.Height = geometry.AxisY
	case toolpath.KindPlaneYZ:
		s.Height = geometry.AxisX
	default:
		return false
	}
	return true
}

// Resolve folds the command's axis words into a target position.
func (s *ModalState) Resolve(cmd toolpath.Command) geometry.Vector3 {
	return cmd.Target(s.Last, s.Absolute)
}
