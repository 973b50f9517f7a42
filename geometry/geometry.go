// Package geometry resolves endpoint coordinates from layout rectangles
package geometry

import (
	"github.com/lixenwraith/blockcompare/core"
)

// Provider supplies bounding rectangles for the stacks and the overlay
// Unmounted regions return the zero Rect
type Provider interface {
	RectOf(id core.StackID) core.Rect
}

// Static is a fixed Provider, missing entries are zero rects
type Static map[core.StackID]core.Rect

func (s Static) RectOf(id core.StackID) core.Rect {
	return s[id]
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func(id core.StackID) core.Rect

func (f ProviderFunc) RectOf(id core.StackID) core.Rect { return f(id) }

// Metrics are the block dimensions the stacks are drawn with
type Metrics struct {
	BlockHeight float64
	BlockGap    float64
}

// Endpoints holds the four anchor coordinates in overlay space
type Endpoints struct {
	LeftX, RightX             float64
	LeftTopY, RightTopY       float64
	LeftBottomY, RightBottomY float64
}

// Compute derives endpoint coordinates for the given counts
// The x anchors sit on the inner edges of the stacks, the bottom anchors at the
// middle of the lowest block and the top anchors at the middle of the highest
func Compute(p Provider, m Metrics, leftCount, rightCount int) Endpoints {
	var left, right, overlay core.Rect
	if p != nil {
		left = p.RectOf(core.StackLeft)
		right = p.RectOf(core.StackRight)
		overlay = p.RectOf(core.StackOverlay)
	}

	half := m.BlockHeight / 2
	step := m.BlockHeight + m.BlockGap

	return Endpoints{
		LeftX:        left.Right - overlay.Left,
		RightX:       right.Left - overlay.Left,
		LeftTopY:     left.Bottom - half - float64(leftCount-1)*step - overlay.Top,
		RightTopY:    right.Bottom - half - float64(rightCount-1)*step - overlay.Top,
		LeftBottomY:  left.Bottom - half - overlay.Top,
		RightBottomY: right.Bottom - half - overlay.Top,
	}
}

// At returns the coordinate of one anchor
func (e Endpoints) At(ep core.Endpoint) core.Point {
	switch ep {
	case core.LeftTop:
		return core.Point{X: e.LeftX, Y: e.LeftTopY}
	case core.LeftBottom:
		return core.Point{X: e.LeftX, Y: e.LeftBottomY}
	case core.RightTop:
		return core.Point{X: e.RightX, Y: e.RightTopY}
	default:
		return core.Point{X: e.RightX, Y: e.RightBottomY}
	}
}

// Nearest returns the anchor closest to p within radius
func (e Endpoints) Nearest(p core.Point, radius float64) (core.Endpoint, bool) {
	best := core.Endpoint(0)
	bestDist := radius
	found := false
	for _, ep := range core.Endpoints {
		if d := e.At(ep).Dist(p); d <= bestDist {
			best, bestDist, found = ep, d, true
		}
	}
	return best, found
}

// BlockRect returns the overlay rect of block index on a side, bottom up
func BlockRect(p Provider, m Metrics, side core.Side, index int) core.Rect {
	if p == nil {
		return core.Rect{}
	}
	stack := p.RectOf(core.StackOf(side))
	overlay := p.RectOf(core.StackOverlay)
	bottom := stack.Bottom - float64(index)*(m.BlockHeight+m.BlockGap) - overlay.Top
	return core.Rect{
		Top:    bottom - m.BlockHeight,
		Bottom: bottom,
		Left:   stack.Left - overlay.Left,
		Right:  stack.Right - overlay.Left,
	}
}
