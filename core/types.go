package core

import "math"

// Side identifies one of the two stacks
type Side uint8

const (
	SideLeft Side = iota
	SideRight
)

// Sides lists both sides in render order
var Sides = [2]Side{SideLeft, SideRight}

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "unknown"
	}
}

// Other returns the opposite side
func (s Side) Other() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// StackID names a geometry region supplied by the layout
type StackID uint8

const (
	StackLeft StackID = iota
	StackRight
	// StackOverlay is the drawing surface all coordinates are relative to
	StackOverlay
)

// StackOf maps a side to its stack region
func StackOf(s Side) StackID {
	if s == SideRight {
		return StackRight
	}
	return StackLeft
}

func (id StackID) String() string {
	switch id {
	case StackLeft:
		return "left"
	case StackRight:
		return "right"
	case StackOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// Point is a position in overlay space
type Point struct {
	X, Y float64
}

// Dist returns the euclidean distance between p and q
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis-aligned box, zero value means unmounted
type Rect struct {
	Top, Bottom, Left, Right float64
}

// Empty reports whether the rect has no area
func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Contains reports whether p lies inside r, right and bottom edges exclusive
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// Endpoint is one of the four connection anchors beside the stacks
type Endpoint uint8

const (
	LeftTop Endpoint = iota
	LeftBottom
	RightTop
	RightBottom
)

// Endpoints lists all anchors
var Endpoints = [4]Endpoint{LeftTop, LeftBottom, RightTop, RightBottom}

// EndpointClass groups endpoints that may connect to each other
type EndpointClass uint8

const (
	ClassTop EndpointClass = iota
	ClassBottom
)

// Class returns whether the endpoint sits on top or at the bottom of its stack
func (e Endpoint) Class() EndpointClass {
	if e == LeftTop || e == RightTop {
		return ClassTop
	}
	return ClassBottom
}

// Side returns the stack the endpoint belongs to
func (e Endpoint) Side() Side {
	if e == LeftTop || e == LeftBottom {
		return SideLeft
	}
	return SideRight
}

func (e Endpoint) String() string {
	switch e {
	case LeftTop:
		return "left-top"
	case LeftBottom:
		return "left-bottom"
	case RightTop:
		return "right-top"
	case RightBottom:
		return "right-bottom"
	default:
		return "unknown"
	}
}

// ParseEndpoint is the inverse of Endpoint.String
func ParseEndpoint(s string) (Endpoint, bool) {
	for _, e := range Endpoints {
		if e.String() == s {
			return e, true
		}
	}
	return 0, false
}
