package render

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/blockcompare/board"
	"github.com/lixenwraith/blockcompare/compare"
	"github.com/lixenwraith/blockcompare/connect"
	"github.com/lixenwraith/blockcompare/core"
	"github.com/lixenwraith/blockcompare/engine"
	"github.com/lixenwraith/blockcompare/tutorial"
)

const (
	testWidth  = 80
	testHeight = 24
)

type fixture struct {
	clock  *engine.MockTimeProvider
	layout *Layout
	board  *board.Board
}

func newFixture(t *testing.T, left, right int, mode connect.Mode) *fixture {
	t.Helper()
	f := &fixture{
		clock:  engine.NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		layout: NewLayout(10, testWidth, testHeight),
	}
	opts := board.DefaultOptions()
	opts.InitialLeft = left
	opts.InitialRight = right
	opts.LineMode = mode
	opts.Geometry = f.layout
	opts.Clock = f.clock
	opts.Logger = log.New(io.Discard)
	b, err := board.New(opts)
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}
	f.board = b
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.clock.Advance(d)
	f.board.Tick()
}

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	s.SetSize(testWidth, testHeight)
	t.Cleanup(s.Fini)
	return s
}

func runeAt(s tcell.Screen, x, y int) rune {
	ch, _, _, _ := s.GetContent(x, y)
	return ch
}

func TestLayoutEndpointsOnCellCentres(t *testing.T) {
	f := newFixture(t, 3, 7, connect.ModeDraw)
	snap := f.board.Snapshot()

	tests := []struct {
		ep    core.Endpoint
		wantX int
		wantY int
	}{
		{core.LeftBottom, f.layout.compX, f.layout.SlotRow(0)},
		{core.LeftTop, f.layout.compX, f.layout.SlotRow(2)},
		{core.RightBottom, f.layout.StackX(core.SideRight) - 1, f.layout.SlotRow(0)},
		{core.RightTop, f.layout.StackX(core.SideRight) - 1, f.layout.SlotRow(6)},
	}
	for _, tt := range tests {
		p := snap.Endpoints.At(tt.ep)
		x, y := PointCell(p)
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("%s at cell (%d,%d), want (%d,%d)", tt.ep, x, y, tt.wantX, tt.wantY)
		}
		if got, ok := f.board.EndpointAt(CellPoint(x, y)); !ok || got != tt.ep {
			t.Errorf("EndpointAt(%s cell) = %s %v", tt.ep, got, ok)
		}
	}
}

func TestLayoutBlockHit(t *testing.T) {
	f := newFixture(t, 3, 0, connect.ModeShow)
	x := f.layout.StackX(core.SideLeft) + 2
	key, ok := f.board.BlockAt(CellPoint(x, f.layout.SlotRow(1)))
	if !ok || key.Side != core.SideLeft || key.Index != 1 {
		t.Fatalf("BlockAt = %+v %v, want left 1", key, ok)
	}
	if _, ok := f.board.BlockAt(CellPoint(x, f.layout.SlotRow(3))); ok {
		t.Errorf("empty slot should not hit")
	}
	if _, ok := f.board.BlockAt(CellPoint(f.layout.compX, f.layout.SlotRow(0))); ok {
		t.Errorf("endpoint column should not hit a block")
	}
}

func TestHitTestControls(t *testing.T) {
	l := NewLayout(10, testWidth, testHeight)

	x, y := l.DigitCell(core.SideRight, 7)
	if got := l.HitTest(x+1, y, board.TutorialView{}); got.Kind != TargetKeypadDigit || got.Side != core.SideRight || got.Value != 7 {
		t.Errorf("digit hit = %+v", got)
	}
	x, y = l.OperatorCell(compare.OpGreater)
	if got := l.HitTest(x, y, board.TutorialView{}); got.Kind != TargetOperator || got.Operator != compare.OpGreater {
		t.Errorf("operator hit = %+v", got)
	}
	x, y = l.AddCell(core.SideLeft)
	if got := l.HitTest(x, y, board.TutorialView{}); got.Kind != TargetAdd || got.Side != core.SideLeft {
		t.Errorf("add hit = %+v", got)
	}
	x, y, _ = l.LineModeCell()
	if got := l.HitTest(x, y, board.TutorialView{}); got.Kind != TargetLineMode {
		t.Errorf("line mode hit = %+v", got)
	}
	if got := l.HitTest(0, 0, board.TutorialView{}); got.Kind != TargetNone {
		t.Errorf("title hit = %+v", got)
	}
}

func TestHitTestTutorialModal(t *testing.T) {
	l := NewLayout(10, testWidth, testHeight)
	tut := board.TutorialView{Active: true, Step: tutorial.DefaultSteps[0], Len: 4, Button: "Continue"}
	box := l.TutorialBox(tut.Step, tut.Button)

	nx, ny, _ := box.NextButton()
	if got := l.HitTest(nx, ny, tut); got.Kind != TargetTutorialNext {
		t.Errorf("next hit = %+v", got)
	}
	mx, my, _ := box.MuteButton()
	if got := l.HitTest(mx, my, tut); got.Kind != TargetTutorialMute {
		t.Errorf("mute hit = %+v", got)
	}
	x, y := l.AddCell(core.SideLeft)
	if got := l.HitTest(x, y, tut); got.Kind != TargetNone {
		t.Errorf("controls should be blocked under the tutorial, got %+v", got)
	}
}

func TestRenderCountsAndEndpoints(t *testing.T) {
	f := newFixture(t, 3, 7, connect.ModeDraw)
	screen := newScreen(t)
	r := NewTerminalRenderer(screen, f.layout, nil)
	r.RenderFrame(f.board.Snapshot(), Status{})

	lx, ly := f.layout.CountCell(core.SideLeft)
	if got := runeAt(screen, lx+1, ly); got != '3' {
		t.Errorf("left count glyph = %q, want '3'", got)
	}
	rx, ry := f.layout.CountCell(core.SideRight)
	if got := runeAt(screen, rx+1, ry); got != '7' {
		t.Errorf("right count glyph = %q, want '7'", got)
	}

	snap := f.board.Snapshot()
	for _, ep := range core.Endpoints {
		x, y := PointCell(snap.Endpoints.At(ep))
		if got := runeAt(screen, x, y); got != '○' {
			t.Errorf("%s glyph = %q, want '○'", ep, got)
		}
	}

	sx := f.layout.StackX(core.SideLeft)
	if got := runeAt(screen, sx, f.layout.SlotRow(2)); got != '█' {
		t.Errorf("block 2 glyph = %q", got)
	}
	if got := runeAt(screen, sx, f.layout.SlotRow(3)); got != '·' {
		t.Errorf("empty slot glyph = %q", got)
	}
}

func TestRenderUsedEndpointAndLine(t *testing.T) {
	f := newFixture(t, 2, 2, connect.ModeDraw)
	f.board.Click(core.LeftBottom)
	f.board.Click(core.RightBottom)
	f.board.Tick()

	screen := newScreen(t)
	NewTerminalRenderer(screen, f.layout, nil).RenderFrame(f.board.Snapshot(), Status{})

	snap := f.board.Snapshot()
	x, y := PointCell(snap.Endpoints.At(core.LeftBottom))
	if got := runeAt(screen, x, y); got != '●' {
		t.Errorf("used endpoint glyph = %q, want '●'", got)
	}
	mid := (f.layout.compX + f.layout.StackX(core.SideRight)) / 2
	if got := runeAt(screen, mid, y); got != '─' {
		t.Errorf("line glyph = %q, want '─'", got)
	}
}

func TestRenderPopMarker(t *testing.T) {
	f := newFixture(t, 3, 0, connect.ModeShow)
	f.board.RemoveBlock(core.SideLeft, 1)

	screen := newScreen(t)
	NewTerminalRenderer(screen, f.layout, nil).RenderFrame(f.board.Snapshot(), Status{})

	if got := runeAt(screen, f.layout.StackX(core.SideLeft), f.layout.SlotRow(1)); got != '░' {
		t.Errorf("popping glyph = %q, want '░'", got)
	}
}

func TestRenderStackFull(t *testing.T) {
	f := newFixture(t, 10, 0, connect.ModeShow)
	screen := newScreen(t)
	NewTerminalRenderer(screen, f.layout, nil).RenderFrame(f.board.Snapshot(), Status{})

	x, y := f.layout.AddCell(core.SideLeft)
	var sb strings.Builder
	for i := x - 5; i < x+10; i++ {
		sb.WriteRune(runeAt(screen, i, y))
	}
	if !strings.Contains(sb.String(), "Stack Full!") {
		t.Errorf("row %q missing full label", sb.String())
	}
}

func TestAnimatorLandsBlock(t *testing.T) {
	f := newFixture(t, 0, 0, connect.ModeShow)
	anim := NewAnimator(f.board, 250*time.Millisecond)
	f.board.Register(anim)

	if !f.board.AddBlock(core.SideLeft) {
		t.Fatal("AddBlock refused")
	}
	f.board.Tick()
	marker, ok := f.board.Snapshot().Sides[core.SideLeft].Marker(0)
	if !ok {
		t.Fatal("no arriving marker")
	}

	f.advance(300 * time.Millisecond)
	if anim.Dropping() != 1 {
		t.Fatalf("Dropping = %d, want 1", anim.Dropping())
	}
	f.advance(100 * time.Millisecond)
	p, ok := anim.Progress(marker.Token, f.clock.Now())
	if !ok || p < 0.35 || p > 0.45 {
		t.Errorf("progress = %v %v, want ~0.4", p, ok)
	}

	f.advance(150 * time.Millisecond)
	if anim.Dropping() != 0 {
		t.Errorf("Dropping = %d after landing", anim.Dropping())
	}
	if n := len(f.board.Side(core.SideLeft).Controller.State().PendingAdds); n != 0 {
		t.Errorf("PendingAdds = %d after landing", n)
	}
}

func TestAnimatorLandsRenumberedBlock(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
	}{
		{"dropping", 250 * time.Millisecond},
		{"immediate", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 5, 0, connect.ModeShow)
			anim := NewAnimator(f.board, tt.duration)
			f.board.Register(anim)

			if !f.board.AddBlock(core.SideLeft) {
				t.Fatal("AddBlock refused")
			}
			if !f.board.RemoveBlock(core.SideLeft, 2) {
				t.Fatal("RemoveBlock refused")
			}
			f.board.Tick()

			// Add and removal settle in the same tick, the arriving block moves from 5 to 4
			f.advance(300 * time.Millisecond)
			if tt.duration > 0 && anim.Dropping() != 1 {
				t.Errorf("Dropping = %d, want 1", anim.Dropping())
			}

			f.advance(2 * time.Second)
			ctrl := f.board.Side(core.SideLeft).Controller
			if ctrl.Count() != 5 {
				t.Errorf("count = %d, want 5", ctrl.Count())
			}
			if n := len(ctrl.State().PendingAdds); n != 0 {
				t.Errorf("PendingAdds = %v, want none", ctrl.State().PendingAdds)
			}
			if anim.Dropping() != 0 {
				t.Errorf("Dropping = %d after landing", anim.Dropping())
			}
		})
	}
}

func TestAnimatorZeroDurationLandsImmediately(t *testing.T) {
	f := newFixture(t, 0, 0, connect.ModeShow)
	f.board.Register(NewAnimator(f.board, 0))

	f.board.AddBlock(core.SideRight)
	f.advance(300 * time.Millisecond)
	if n := len(f.board.Side(core.SideRight).Controller.State().PendingAdds); n != 0 {
		t.Errorf("PendingAdds = %d, want 0", n)
	}
}

func TestRenderText(t *testing.T) {
	f := newFixture(t, 4, 6, connect.ModeShow)
	out, err := RenderText(f.layout, f.board.Snapshot(), Status{}, false)
	if err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	if !strings.Contains(out, "Block Compare") {
		t.Errorf("missing title in:\n%s", out)
	}
	if !strings.Contains(out, "[<]") || !strings.Contains(out, "[>]") {
		t.Errorf("missing operators in:\n%s", out)
	}
}

func TestTraverse(t *testing.T) {
	var cells [][2]int
	Traverse(0.5, 0.5, 4.5, 0.5, func(x, y int) bool {
		cells = append(cells, [2]int{x, y})
		return true
	})
	if len(cells) != 5 || cells[4] != [2]int{4, 0} {
		t.Errorf("horizontal cells = %v", cells)
	}

	cells = cells[:0]
	Traverse(0.5, 3.5, 3.5, 0.5, func(x, y int) bool {
		cells = append(cells, [2]int{x, y})
		return true
	})
	if cells[0] != [2]int{0, 3} || cells[len(cells)-1] != [2]int{3, 0} {
		t.Errorf("diagonal cells = %v", cells)
	}

	count := 0
	Traverse(0.5, 0.5, 9.5, 0.5, func(x, y int) bool {
		count++
		return count < 3
	})
	if count != 3 {
		t.Errorf("early stop visited %d", count)
	}
}

func TestLineGlyph(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   rune
	}{
		{10, 0, '─'},
		{0, 5, '│'},
		{5, 5, '╲'},
		{5, -5, '╱'},
	}
	for _, tt := range tests {
		if got := lineGlyph(tt.dx, tt.dy); got != tt.want {
			t.Errorf("lineGlyph(%v,%v) = %q, want %q", tt.dx, tt.dy, got, tt.want)
		}
	}
}
