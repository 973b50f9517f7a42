// Package render draws the board on a tcell screen and maps cells back to controls
package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/blockcompare/board"
	"github.com/lixenwraith/blockcompare/compare"
	"github.com/lixenwraith/blockcompare/connect"
	"github.com/lixenwraith/blockcompare/core"
	"github.com/lixenwraith/blockcompare/parameter"
	"github.com/lixenwraith/blockcompare/stack"
)

var spinner = [4]rune{'|', '/', '-', '\\'}

// Status is UI state owned outside the board
type Status struct {
	Focus   core.Side
	Muted   bool
	Message string
}

// TerminalRenderer draws board snapshots
type TerminalRenderer struct {
	screen   tcell.Screen
	layout   *Layout
	animator *Animator
	base     tcell.Style
}

// NewTerminalRenderer creates a renderer, animator may be nil
func NewTerminalRenderer(screen tcell.Screen, layout *Layout, animator *Animator) *TerminalRenderer {
	return &TerminalRenderer{
		screen:   screen,
		layout:   layout,
		animator: animator,
		base:     tcell.StyleDefault.Background(RgbBackground).Foreground(RgbText),
	}
}

// Layout returns the layout the renderer draws with
func (r *TerminalRenderer) Layout() *Layout {
	return r.layout
}

// RenderFrame draws one complete frame and shows it
func (r *TerminalRenderer) RenderFrame(snap board.Snapshot, status Status) {
	r.screen.Fill(' ', r.base)

	r.drawHeader(snap, status)
	for _, side := range core.Sides {
		view := snap.Sides[side]
		r.drawDispenser(view)
		r.drawStack(snap, view)
		r.drawKeypad(view, status.Focus == side)
		r.drawCount(view)
		r.drawAddButton(view)
	}
	r.drawLines(snap)
	r.drawEndpoints(snap)
	r.drawOperators(snap)
	r.drawLineToggle(snap.LineMode)
	r.drawFooter(status)
	if snap.Tutorial.Active {
		r.drawTutorial(snap.Tutorial)
	}

	r.screen.Show()
}

func (r *TerminalRenderer) drawText(x, y int, s string, style tcell.Style) int {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}

func (r *TerminalRenderer) drawCentered(y int, s string, style tcell.Style) {
	x := max(0, (r.layout.Width-len([]rune(s)))/2)
	r.drawText(x, y, s, style)
}

func (r *TerminalRenderer) drawHeader(snap board.Snapshot, status Status) {
	r.drawCentered(0, "Block Compare", r.base.Foreground(RgbTitle).Bold(true))

	sound := "on"
	if status.Muted {
		sound = "off"
	}
	info := fmt.Sprintf("focus: %s  sound: %s  lines: %s", status.Focus, sound, snap.LineMode)
	if status.Message != "" {
		info = status.Message
	}
	r.drawCentered(1, info, r.base.Foreground(RgbDim))
}

func (r *TerminalRenderer) drawDispenser(view board.SideView) {
	x := r.layout.StackX(view.Side)
	y := r.layout.DispenserRow()
	style := r.base.Foreground(RgbDispenser)

	r.screen.SetContent(x+parameter.BlockWidth/2, y, spinner[view.DispenseRotation%len(spinner)], nil, style)

	filled := 0
	if view.Dispensing {
		filled = int(math.Round(view.DispenseProgress * parameter.BlockWidth))
	}
	for i := 0; i < parameter.BlockWidth; i++ {
		if i < filled {
			r.screen.SetContent(x+i, y+1, '▄', nil, style)
		} else {
			r.screen.SetContent(x+i, y+1, '▁', nil, r.base.Foreground(RgbDim))
		}
	}
}

func (r *TerminalRenderer) drawStack(snap board.Snapshot, view board.SideView) {
	x := r.layout.StackX(view.Side)
	maxBlocks := r.layout.maxBlocks
	blockStyle := r.base.Foreground(sideColor(view.Side))

	// Slots first, then settled blocks
	for i := 0; i < maxBlocks; i++ {
		y := r.layout.SlotRow(i)
		r.fillRow(x, y, '·', r.base.Foreground(RgbDim))
		if i < view.Count {
			r.fillRow(x, y, '█', blockStyle)
		}
	}

	for _, m := range view.Markers {
		y := r.layout.SlotRow(m.Key.Index)
		if m.Key.Index >= maxBlocks {
			continue
		}
		switch m.Kind {
		case stack.MarkerRemoving:
			r.fillRow(x, y, '░', r.base.Foreground(RgbBlockPopping))
		case stack.MarkerAdding:
			p, dropping := r.dropProgress(m, snap)
			if !dropping {
				r.fillRow(x, y, '▒', r.base.Foreground(RgbBlockArriving))
				continue
			}
			if p < 1 {
				// Slot stays empty until the block lands
				r.fillRow(x, y, '·', r.base.Foreground(RgbDim))
				from := r.layout.DispenserRow() + 1
				fy := from + int(math.Round(p*float64(y-from)))
				r.fillRow(x, fy, '█', r.base.Foreground(RgbBlockArriving))
			}
		}
	}

	if snap.Pressing && snap.PressKey.Side == view.Side && snap.PressKey.Index < view.Count {
		y := r.layout.SlotRow(snap.PressKey.Index)
		held := int(math.Round(snap.PressProgress * parameter.BlockWidth))
		for i := 0; i < held; i++ {
			r.screen.SetContent(x+i, y, '█', nil, r.base.Foreground(RgbBlockHeld))
		}
	}
}

func (r *TerminalRenderer) dropProgress(m stack.Marker, snap board.Snapshot) (float64, bool) {
	if r.animator == nil {
		return 0, false
	}
	return r.animator.Progress(m.Token, snap.At)
}

func (r *TerminalRenderer) fillRow(x, y int, ch rune, style tcell.Style) {
	for i := 0; i < parameter.BlockWidth; i++ {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func (r *TerminalRenderer) drawCount(view board.SideView) {
	x, y := r.layout.CountCell(view.Side)
	r.drawText(x, y, fmt.Sprintf("%2d", view.Count), r.base.Foreground(sideColor(view.Side)).Bold(true))
}

func (r *TerminalRenderer) drawAddButton(view board.SideView) {
	x, y := r.layout.AddCell(view.Side)
	if view.Full {
		label := "Stack Full!"
		r.drawText(x+parameter.BlockWidth/2-len(label)/2, y, label, r.base.Foreground(RgbIncorrect))
		return
	}
	style := r.buttonStyle()
	if view.Dispensing {
		style = style.Foreground(RgbDim)
	}
	r.drawText(x, y, "[Add] ", style)
}

func (r *TerminalRenderer) buttonStyle() tcell.Style {
	return tcell.StyleDefault.Background(RgbButton).Foreground(RgbButtonText)
}

func (r *TerminalRenderer) drawKeypad(view board.SideView, focused bool) {
	l := r.layout
	kx := l.keypadX[view.Side]
	frame := r.base.Foreground(RgbDim)
	if focused {
		frame = r.base.Foreground(sideColor(view.Side))
	}
	r.drawText(kx+1, l.topRow, "[-]", r.buttonStyle())
	r.drawText(kx+parameter.KeypadWidth-4, l.topRow, "[+]", r.buttonStyle())
	vx, vy := l.KeypadValueCell(view.Side)
	r.drawText(vx, vy, fmt.Sprintf("%2d", view.Keypad), frame.Bold(true))

	for n := 0; n <= l.maxBlocks; n++ {
		x, y := l.DigitCell(view.Side, n)
		style := frame
		if n == view.Keypad {
			style = style.Reverse(true)
		}
		r.drawText(x, y, fmt.Sprintf("%2d", n), style)
	}
}

func (r *TerminalRenderer) drawLines(snap board.Snapshot) {
	for _, line := range snap.Lines {
		r.drawLine(line)
	}
}

func (r *TerminalRenderer) drawLine(line connect.Line) {
	dx, dy := line.To.X-line.From.X, line.To.Y-line.From.Y
	glyph := lineGlyph(dx, dy)
	style := r.base.Foreground(RgbLine)
	if line.Dashed {
		style = r.base.Foreground(RgbLineDraft)
	}
	step := 0
	Traverse(line.From.X, line.From.Y, line.To.X, line.To.Y, func(x, y int) bool {
		if !line.Dashed || step%2 == 0 {
			r.screen.SetContent(x, y, glyph, nil, style)
		}
		step++
		return true
	})
}

func (r *TerminalRenderer) drawEndpoints(snap board.Snapshot) {
	for _, ep := range core.Endpoints {
		x, y := PointCell(snap.Endpoints.At(ep))
		glyph, style := '•', r.base.Foreground(RgbDim)
		if snap.LineMode == connect.ModeDraw {
			glyph, style = '○', r.base.Foreground(RgbEndpoint)
			if snap.Used[ep] {
				glyph = '●'
			}
			if snap.Anchored && snap.Anchor == ep {
				glyph, style = '◉', r.base.Foreground(RgbEndpointOn)
			}
		}
		r.screen.SetContent(x, y, glyph, nil, style)
	}
}

func (r *TerminalRenderer) drawOperators(snap board.Snapshot) {
	for _, op := range compare.Operators {
		x, y := r.layout.OperatorCell(op)
		style := r.buttonStyle()
		if snap.Operator == op {
			switch snap.Flash {
			case compare.FlashCorrect:
				style = style.Background(RgbCorrect)
			case compare.FlashIncorrect:
				style = style.Background(RgbIncorrect)
			}
		}
		r.drawText(x, y, "["+op.String()+"]", style)
	}
}

func (r *TerminalRenderer) drawLineToggle(mode connect.Mode) {
	x, y, _ := r.layout.LineModeCell()
	r.drawText(x, y, lineModeLabel(mode == connect.ModeDraw), r.buttonStyle())
}

func (r *TerminalRenderer) drawFooter(status Status) {
	y := r.layout.FooterRow()
	style := r.base.Foreground(RgbDim)
	r.drawCentered(y, "a/space add  x remove  0-9 target  tab side  < = > answer", style)
	r.drawCentered(y+1, "hold a block to pop it  t lines  enter tutorial  q quit", style)
}

func (r *TerminalRenderer) drawTutorial(tut board.TutorialView) {
	l := r.layout
	f := l.TutorialBox(tut.Step, tut.Button)
	bg := tcell.StyleDefault.Background(RgbTutorialBg).Foreground(RgbText)
	border := bg.Foreground(RgbTitle)

	for y := f.Y; y < f.Y+f.H; y++ {
		for x := f.X; x < f.X+f.W; x++ {
			ch := ' '
			switch {
			case (y == f.Y || y == f.Y+f.H-1) && (x == f.X || x == f.X+f.W-1):
				ch = '+'
			case y == f.Y || y == f.Y+f.H-1:
				ch = '─'
			case x == f.X || x == f.X+f.W-1:
				ch = '│'
			}
			st := bg
			if ch != ' ' {
				st = border
			}
			r.screen.SetContent(x, y, ch, nil, st)
		}
	}
	r.drawText(f.X+f.W-8, f.Y, fmt.Sprintf(" %d/%d ", tut.Index+1, tut.Len), border)
	for i, line := range f.Lines {
		r.drawText(f.X+2, f.Y+1+i, line, bg)
	}

	nx, ny, _ := f.NextButton()
	r.drawText(nx, ny, "["+tut.Button+"]", r.buttonStyle())
	mx, my, _ := f.MuteButton()
	r.drawText(mx, my, muteLabel(tut.Muted), r.buttonStyle())

	if tut.Step.Arrows {
		for _, side := range core.Sides {
			x := l.keypadX[side] + parameter.KeypadWidth/2
			r.screen.SetContent(x, l.topRow-1, '▼', nil, border)
		}
	}
}
