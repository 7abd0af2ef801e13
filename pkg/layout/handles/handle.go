// Package handles picks the connection side of every edge endpoint and fans
// out parallel connectors that enter the same side of a node.
package handles

import (
	"math"
)

// Side is one of the four sides of a node.
type Side int

const (
	Top Side = iota
	Right
	Bottom
	Left
)

var sideNames = [...]string{"top", "right", "bottom", "left"}

func (s Side) String() string {
	if s < Top || s > Left {
		return "unknown"
	}
	return sideNames[s]
}

// Opposite returns the side facing s.
func (s Side) Opposite() Side { return (s + 2) % 4 }

// IsHorizontal reports whether the side is left or right. Connectors on
// these sides fan out along the y axis.
func (s Side) IsHorizontal() bool { return s == Left || s == Right }

// Role tells whether a handle is where an edge leaves or enters a node.
type Role int

const (
	Source Role = iota
	Target
)

func (r Role) String() string {
	if r == Target {
		return "target"
	}
	return "source"
}

// Handle identifies a connection point. It is formatted only when written
// to an edge.
type Handle struct {
	Side Side
	Role Role
}

// String returns the serialized form, for example "right-source".
func (h Handle) String() string { return h.Side.String() + "-" + h.Role.String() }

// SideForAngle maps the angle from source centre to target centre, in
// degrees with y pointing down, to the side the edge leaves the source:
// [-45, 45) right, [45, 135) bottom, [135, 225) left, otherwise top.
func SideForAngle(deg float64) Side {
	a := math.Mod(deg, 360)
	if a < -45 {
		a += 360
	} else if a >= 315 {
		a -= 360
	}
	switch {
	case a < 45:
		return Right
	case a < 135:
		return Bottom
	case a < 225:
		return Left
	default:
		return Top
	}
}

// Angle returns the direction from (x1, y1) to (x2, y2) in degrees.
func Angle(x1, y1, x2, y2 float64) float64 {
	return math.Atan2(y2-y1, x2-x1) * 180 / math.Pi
}
