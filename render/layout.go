package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lixenwraith/blockcompare/board"
	"github.com/lixenwraith/blockcompare/compare"
	"github.com/lixenwraith/blockcompare/core"
	"github.com/lixenwraith/blockcompare/parameter"
	"github.com/lixenwraith/blockcompare/tutorial"
)

// TargetKind identifies a clickable control
type TargetKind uint8

const (
	TargetNone TargetKind = iota
	TargetKeypadDigit
	TargetKeypadStep
	TargetAdd
	TargetOperator
	TargetLineMode
	TargetTutorialNext
	TargetTutorialMute
)

// Target is the control under a cell
type Target struct {
	Kind     TargetKind
	Side     core.Side
	Value    int // digit, or +1/-1 for steps
	Operator compare.Operator
}

type region struct {
	x, y, w, h int
	target     Target
}

func (r region) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// Layout places the board on the terminal grid
// Cell (x, y) covers overlay points [x, x+1) x [y, y+1), so the overlay is the whole screen
// Stack rects extend half a cell into the comparator so endpoints land on cell centres
type Layout struct {
	Width, Height int

	maxBlocks    int
	stackX       [2]int
	keypadX      [2]int
	compX        int
	dispenserRow int
	topRow       int
	baseRow      int

	regions []region
}

// KeypadColumns is the digit grid width
const KeypadColumns = 5

// NewLayout creates a layout for stacks of maxBlocks
func NewLayout(maxBlocks, width, height int) *Layout {
	l := &Layout{maxBlocks: maxBlocks}
	l.Resize(width, height)
	return l
}

// ContentWidth is the minimum width that fits every control
func ContentWidth() int {
	return 2*parameter.KeypadWidth + 2*parameter.StackColumnGap + 2*parameter.BlockWidth + parameter.ComparatorWidth
}

// ContentHeight is the minimum height for maxBlocks
func ContentHeight(maxBlocks int) int {
	return parameter.HeaderHeight + parameter.DispenserHeight + maxBlocks + 4 + parameter.FooterHeight
}

// Resize recomputes every position for a new terminal size
func (l *Layout) Resize(width, height int) {
	l.Width, l.Height = width, height

	originX := max(0, (width-ContentWidth())/2)
	l.keypadX[core.SideLeft] = originX
	l.stackX[core.SideLeft] = originX + parameter.KeypadWidth + parameter.StackColumnGap
	l.compX = l.stackX[core.SideLeft] + parameter.BlockWidth
	l.stackX[core.SideRight] = l.compX + parameter.ComparatorWidth
	l.keypadX[core.SideRight] = l.stackX[core.SideRight] + parameter.BlockWidth + parameter.StackColumnGap

	l.dispenserRow = parameter.HeaderHeight
	l.topRow = l.dispenserRow + parameter.DispenserHeight
	l.baseRow = l.topRow + l.maxBlocks - 1

	l.buildRegions()
}

func (l *Layout) buildRegions() {
	l.regions = l.regions[:0]

	for _, side := range core.Sides {
		kx := l.keypadX[side]
		l.regions = append(l.regions,
			region{x: kx + 1, y: l.topRow, w: 3, h: 1, target: Target{Kind: TargetKeypadStep, Side: side, Value: -1}},
			region{x: kx + parameter.KeypadWidth - 4, y: l.topRow, w: 3, h: 1, target: Target{Kind: TargetKeypadStep, Side: side, Value: 1}},
		)
		for n := 0; n <= l.maxBlocks; n++ {
			x, y := l.DigitCell(side, n)
			l.regions = append(l.regions, region{x: x, y: y, w: 3, h: 1, target: Target{Kind: TargetKeypadDigit, Side: side, Value: n}})
		}
		ax, ay := l.AddCell(side)
		l.regions = append(l.regions, region{x: ax, y: ay, w: parameter.BlockWidth, h: 1, target: Target{Kind: TargetAdd, Side: side}})
	}

	for _, op := range compare.Operators {
		x, y := l.OperatorCell(op)
		l.regions = append(l.regions, region{x: x, y: y, w: 3, h: 1, target: Target{Kind: TargetOperator, Operator: op}})
	}
	x, y, w := l.LineModeCell()
	l.regions = append(l.regions, region{x: x, y: y, w: w, h: 1, target: Target{Kind: TargetLineMode}})
}

// RectOf implements geometry.Provider
func (l *Layout) RectOf(id core.StackID) core.Rect {
	top := float64(l.topRow)
	bottom := float64(l.baseRow + 1)
	switch id {
	case core.StackLeft:
		return core.Rect{
			Top:    top,
			Bottom: bottom,
			Left:   float64(l.stackX[core.SideLeft]),
			Right:  float64(l.compX) + 0.5,
		}
	case core.StackRight:
		return core.Rect{
			Top:    top,
			Bottom: bottom,
			Left:   float64(l.stackX[core.SideRight]) - 0.5,
			Right:  float64(l.stackX[core.SideRight] + parameter.BlockWidth),
		}
	case core.StackOverlay:
		return core.Rect{Right: float64(l.Width), Bottom: float64(l.Height)}
	}
	return core.Rect{}
}

// CellPoint maps a cell to its centre in overlay space
func CellPoint(x, y int) core.Point {
	return core.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
}

// PointCell maps an overlay point to the cell containing it
func PointCell(p core.Point) (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}

// StackX is the first column of a stack
func (l *Layout) StackX(side core.Side) int { return l.stackX[side] }

// SlotRow is the row of block index on a stack, bottom up
func (l *Layout) SlotRow(index int) int { return l.baseRow - index }

// DispenserRow is the first dispenser row above both stacks
func (l *Layout) DispenserRow() int { return l.dispenserRow }

// CountCell is where a side's count label starts
func (l *Layout) CountCell(side core.Side) (int, int) {
	return l.stackX[side] + parameter.BlockWidth/2 - 1, l.baseRow + 1
}

// AddCell is the add button position
func (l *Layout) AddCell(side core.Side) (int, int) {
	return l.stackX[side], l.baseRow + 2
}

// KeypadValueCell is where the keypad target is shown
func (l *Layout) KeypadValueCell(side core.Side) (int, int) {
	return l.keypadX[side] + parameter.KeypadWidth/2 - 1, l.topRow
}

// DigitCell is the position of keypad digit n
func (l *Layout) DigitCell(side core.Side, n int) (int, int) {
	return l.keypadX[side] + 1 + (n%KeypadColumns)*3, l.topRow + 2 + n/KeypadColumns
}

// OperatorCell is the position of an answer button
func (l *Layout) OperatorCell(op compare.Operator) (int, int) {
	span := len(compare.Operators)*3 + (len(compare.Operators)-1)*2
	x := l.compX + (parameter.ComparatorWidth-span)/2 + int(op)*5
	return x, l.baseRow + 2
}

// LineModeCell is the position and width of the line mode toggle
func (l *Layout) LineModeCell() (int, int, int) {
	w := len(lineModeLabel(false))
	return l.compX + (parameter.ComparatorWidth-w)/2, l.baseRow + 3, w
}

// FooterRow is the first help row
func (l *Layout) FooterRow() int {
	return max(l.baseRow+4, l.Height-parameter.FooterHeight)
}

// HitTest returns the control at a cell
// While the tutorial is showing only its buttons respond
func (l *Layout) HitTest(x, y int, tut board.TutorialView) Target {
	if tut.Active {
		box := l.TutorialBox(tut.Step, tut.Button)
		if box.next.contains(x, y) {
			return box.next.target
		}
		if box.mute.contains(x, y) {
			return box.mute.target
		}
		return Target{}
	}
	for _, r := range l.regions {
		if r.contains(x, y) {
			return r.target
		}
	}
	return Target{}
}

// TutorialFrame is the placed instruction box
type TutorialFrame struct {
	X, Y, W, H int
	Lines      []string
	next, mute region
}

// NextButton returns the position and width of the continue button
func (f TutorialFrame) NextButton() (int, int, int) { return f.next.x, f.next.y, f.next.w }

// MuteButton returns the position and width of the mute button
func (f TutorialFrame) MuteButton() (int, int, int) { return f.mute.x, f.mute.y, f.mute.w }

// TutorialBox wraps and places the instruction text
func (l *Layout) TutorialBox(step tutorial.Step, button string) TutorialFrame {
	w := min(48, max(24, l.Width-4))
	wrapped := lipgloss.NewStyle().Width(w - 4).Render(step.Text)
	lines := strings.Split(wrapped, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	h := len(lines) + 4

	f := TutorialFrame{W: w, H: h, Lines: lines}
	f.X = max(0, (l.Width-w)/2)
	if step.Placement == tutorial.PlaceCenter {
		f.Y = max(0, l.topRow+(l.maxBlocks-h)/2)
	} else {
		f.Y = max(0, l.baseRow+1-h)
	}

	next := "[" + button + "]"
	mute := muteLabel(false)
	f.next = region{x: f.X + 2, y: f.Y + h - 2, w: len(next), h: 1, target: Target{Kind: TargetTutorialNext}}
	f.mute = region{x: f.X + w - 2 - len(mute), y: f.Y + h - 2, w: len(mute), h: 1, target: Target{Kind: TargetTutorialMute}}
	return f
}

func lineModeLabel(draw bool) string {
	if draw {
		return "[Draw Lines]"
	}
	return "[Show Lines]"
}

// muteLabel keeps both states the same width
func muteLabel(muted bool) string {
	if muted {
		return "[Unmute]"
	}
	return "[ Mute ]"
}
