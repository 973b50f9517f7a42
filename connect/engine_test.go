package connect

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/lixenwraith/blockcompare/core"
	"github.com/lixenwraith/blockcompare/event"
	"github.com/lixenwraith/blockcompare/geometry"
)

var testGeometry = geometry.Static{
	core.StackLeft:    {Top: 0, Bottom: 20, Left: 2, Right: 8},
	core.StackRight:   {Top: 0, Bottom: 20, Left: 20, Right: 26},
	core.StackOverlay: {Top: 0, Bottom: 24, Left: 0, Right: 30},
}

func newTestEngine(t *testing.T, mode Mode) (*Engine, *[]event.Event) {
	t.Helper()
	var events []event.Event
	e, err := NewEngine(Options{
		Geometry:   testGeometry,
		Metrics:    geometry.Metrics{BlockHeight: 1},
		Radius:     1,
		Mode:       mode,
		LeftCount:  3,
		RightCount: 5,
		Sink:       event.SinkFunc(func(ev event.Event) { events = append(events, ev) }),
		Logger:     log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return e, &events
}

func TestIsValidConnection(t *testing.T) {
	for _, a := range core.Endpoints {
		for _, b := range core.Endpoints {
			want := a != b && a.Class() == b.Class()
			if got := IsValidConnection(a, b); got != want {
				t.Errorf("IsValidConnection(%s, %s) = %v, want %v", a, b, got, want)
			}
			if IsValidConnection(a, b) != IsValidConnection(b, a) {
				t.Errorf("Expected symmetry for %s, %s", a, b)
			}
		}
	}
}

func TestDragCommitsValidConnection(t *testing.T) {
	e, events := newTestEngine(t, ModeDraw)

	e.PointerDown(core.LeftTop)
	if e.State() != StateDragging {
		t.Fatalf("Expected Dragging, got %s", e.State())
	}

	e.PointerUp(core.RightTop)
	if e.State() != StateIdle {
		t.Errorf("Expected Idle, got %s", e.State())
	}
	if diff := cmp.Diff([]Connection{{Start: core.LeftTop, End: core.RightTop}}, e.Connections()); diff != "" {
		t.Errorf("Connections mismatch (-want +got):\n%s", diff)
	}
	if !e.IsUsed(core.LeftTop) || !e.IsUsed(core.RightTop) {
		t.Error("Expected both endpoints used")
	}
	if len(*events) != 1 || (*events)[0].Type != event.EventConnectionMade {
		t.Errorf("Expected one connection event, got %v", *events)
	}
}

func TestDragRejectsInvalidConnection(t *testing.T) {
	e, _ := newTestEngine(t, ModeDraw)

	e.PointerDown(core.LeftTop)
	e.PointerUp(core.RightBottom)

	if e.State() != StateIdle {
		t.Errorf("Expected Idle after rejected drop, got %s", e.State())
	}
	if len(e.Connections()) != 0 {
		t.Error("Expected no connection for mixed classes")
	}
}

func TestDragCancel(t *testing.T) {
	e, _ := newTestEngine(t, ModeDraw)
	e.PointerDown(core.LeftBottom)
	e.PointerCancel()
	if e.State() != StateIdle {
		t.Errorf("Expected Idle, got %s", e.State())
	}
	if _, ok := e.Anchor(); ok {
		t.Error("Expected anchor cleared")
	}
}

func TestClickSelection(t *testing.T) {
	e, _ := newTestEngine(t, ModeDraw)

	e.Click(core.RightBottom)
	if e.State() != StatePointSelected {
		t.Fatalf("Expected PointSelected, got %s", e.State())
	}

	// wrong class: selection dropped, nothing committed
	e.Click(core.LeftTop)
	if e.State() != StateIdle || len(e.Connections()) != 0 {
		t.Fatalf("Expected Idle with no connection, got %s and %v", e.State(), e.Connections())
	}

	e.Click(core.RightBottom)
	e.Click(core.LeftBottom)
	want := []Connection{{Start: core.RightBottom, End: core.LeftBottom}}
	if diff := cmp.Diff(want, e.Connections()); diff != "" {
		t.Errorf("Connections mismatch (-want +got):\n%s", diff)
	}
}

func TestPressAndReleaseOnAnchorSelects(t *testing.T) {
	e, _ := newTestEngine(t, ModeDraw)
	e.PointerDown(core.LeftTop)
	e.Click(core.LeftTop)
	if e.State() != StatePointSelected {
		t.Errorf("Expected PointSelected, got %s", e.State())
	}
}

func TestUsedEndpointIsNoOp(t *testing.T) {
	e, _ := newTestEngine(t, ModeDraw)
	e.Click(core.LeftTop)
	e.Click(core.RightTop)

	if e.Click(core.LeftTop) {
		t.Error("Expected click on used endpoint ignored in Idle")
	}
	if e.PointerDown(core.RightTop) {
		t.Error("Expected drag from used endpoint ignored")
	}

	e.Click(core.LeftBottom)
	if e.Click(core.RightTop) {
		t.Error("Expected click on used endpoint ignored while selected")
	}
	if e.State() != StatePointSelected {
		t.Errorf("Expected selection kept, got %s", e.State())
	}
	if len(e.Connections()) != 1 {
		t.Errorf("Expected one connection, got %d", len(e.Connections()))
	}
}

func TestShowModeIgnoresInput(t *testing.T) {
	e, _ := newTestEngine(t, ModeShow)
	if e.PointerDown(core.LeftTop) || e.Click(core.LeftTop) {
		t.Error("Expected input ignored in show mode")
	}

	pts := e.Endpoints()
	want := []Line{
		{From: pts.At(core.LeftTop), To: pts.At(core.RightTop)},
		{From: pts.At(core.LeftBottom), To: pts.At(core.RightBottom)},
	}
	if diff := cmp.Diff(want, e.Lines()); diff != "" {
		t.Errorf("Canonical lines mismatch (-want +got):\n%s", diff)
	}
}

func TestPreviewLine(t *testing.T) {
	e, _ := newTestEngine(t, ModeDraw)
	e.PointerDown(core.LeftBottom)
	e.PointerMove(core.Point{X: 15, Y: 12})

	lines := e.Lines()
	if len(lines) != 1 || !lines[0].Dashed {
		t.Fatalf("Expected one dashed preview line, got %v", lines)
	}
	if lines[0].To != (core.Point{X: 15, Y: 12}) {
		t.Errorf("Expected preview to follow pointer, got %v", lines[0].To)
	}
	if lines[0].From != e.Endpoints().At(core.LeftBottom) {
		t.Errorf("Expected preview from anchor, got %v", lines[0].From)
	}
}

func TestResetOnCountChange(t *testing.T) {
	e, events := newTestEngine(t, ModeDraw)
	e.Click(core.LeftTop)
	e.Click(core.RightTop)
	e.Click(core.LeftBottom)

	e.SetCounts(3, 5)
	if len(e.Connections()) != 1 {
		t.Fatal("Expected unchanged counts to keep connections")
	}

	e.SetCounts(4, 5)
	if len(e.Connections()) != 0 || e.IsUsed(core.LeftTop) {
		t.Error("Expected connections cleared after count change")
	}
	if e.State() != StateIdle {
		t.Errorf("Expected Idle after reset, got %s", e.State())
	}
	last := (*events)[len(*events)-1]
	if last.Type != event.EventConnectionsCleared {
		t.Errorf("Expected connections cleared event, got %v", last.Type)
	}
}

func TestEndpointAt(t *testing.T) {
	e, _ := newTestEngine(t, ModeDraw)
	pts := e.Endpoints()

	// left stack: x anchor on its right edge, bottom anchor mid lowest block
	if pts.LeftX != 8 || pts.LeftBottomY != 19.5 {
		t.Fatalf("Unexpected anchors %+v", pts)
	}
	if pts.LeftTopY != 17.5 {
		t.Errorf("Expected left top 17.5 for three blocks, got %v", pts.LeftTopY)
	}

	ep, ok := e.EndpointAt(core.Point{X: 8.5, Y: 19.5})
	if !ok || ep != core.LeftBottom {
		t.Errorf("Expected LeftBottom hit, got %v, %v", ep, ok)
	}
	if _, ok := e.EndpointAt(core.Point{X: 14, Y: 10}); ok {
		t.Error("Expected miss in the gap")
	}
}

func TestModeSwitchAbandonsSelection(t *testing.T) {
	e, _ := newTestEngine(t, ModeDraw)
	e.Click(core.LeftTop)
	e.SetMode(ModeShow)
	if e.State() != StateIdle {
		t.Errorf("Expected Idle after mode switch, got %s", e.State())
	}
	if e.Mode() != ModeShow {
		t.Errorf("Expected show mode, got %s", e.Mode())
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateIdle, "Idle"},
		{StatePointSelected, "PointSelected"},
		{StateDragging, "Dragging"},
		{State(9), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
		if tt.want != "Unknown" && stateByName[tt.want] != tt.s {
			t.Errorf("stateByName[%q] = %v, want %v", tt.want, stateByName[tt.want], tt.s)
		}
	}
}
