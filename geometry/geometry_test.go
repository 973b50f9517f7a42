package geometry

import (
	"testing"

	"github.com/lixenwraith/blockcompare/core"
)

var browserMetrics = Metrics{BlockHeight: 48, BlockGap: 4}

func TestComputeMatchesLayoutFormula(t *testing.T) {
	p := Static{
		core.StackLeft:    {Top: 100, Bottom: 620, Left: 200, Right: 248},
		core.StackRight:   {Top: 100, Bottom: 620, Left: 600, Right: 648},
		core.StackOverlay: {Top: 50, Bottom: 700, Left: 100, Right: 800},
	}

	e := Compute(p, browserMetrics, 3, 1)

	if e.LeftX != 148 {
		t.Errorf("Expected LeftX 148, got %v", e.LeftX)
	}
	if e.RightX != 500 {
		t.Errorf("Expected RightX 500, got %v", e.RightX)
	}
	// 620 - 24 - 2*52 - 50
	if e.LeftTopY != 442 {
		t.Errorf("Expected LeftTopY 442, got %v", e.LeftTopY)
	}
	if e.LeftBottomY != 546 {
		t.Errorf("Expected LeftBottomY 546, got %v", e.LeftBottomY)
	}
	// single block: top and bottom anchors coincide
	if e.RightTopY != e.RightBottomY {
		t.Errorf("Expected single block anchors equal, got %v and %v", e.RightTopY, e.RightBottomY)
	}
}

func TestComputeMissingGeometryIsZero(t *testing.T) {
	e := Compute(Static{}, browserMetrics, 1, 1)
	if e.LeftX != 0 || e.RightX != 0 {
		t.Errorf("Expected zero x anchors, got %v, %v", e.LeftX, e.RightX)
	}
	if e.LeftBottomY != -24 {
		t.Errorf("Expected -24, got %v", e.LeftBottomY)
	}

	nilProvider := Compute(nil, browserMetrics, 2, 2)
	if nilProvider.LeftX != 0 {
		t.Errorf("Expected zero from nil provider, got %v", nilProvider.LeftX)
	}
}

func TestNearest(t *testing.T) {
	e := Endpoints{LeftX: 10, RightX: 30, LeftTopY: 5, RightTopY: 5, LeftBottomY: 15, RightBottomY: 15}

	ep, ok := e.Nearest(core.Point{X: 10.5, Y: 14.5}, 1)
	if !ok || ep != core.LeftBottom {
		t.Errorf("Expected LeftBottom, got %v, %v", ep, ok)
	}
	if _, ok := e.Nearest(core.Point{X: 20, Y: 10}, 1); ok {
		t.Error("Expected miss between anchors")
	}
}

func TestBlockRect(t *testing.T) {
	p := Static{
		core.StackLeft:    {Top: 0, Bottom: 10, Left: 2, Right: 8},
		core.StackOverlay: {},
	}
	r := BlockRect(p, Metrics{BlockHeight: 1}, core.SideLeft, 2)
	want := core.Rect{Top: 7, Bottom: 8, Left: 2, Right: 8}
	if r != want {
		t.Errorf("Expected %+v, got %+v", want, r)
	}
}
