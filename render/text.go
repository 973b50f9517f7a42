package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/lixenwraith/blockcompare/board"
)

// RenderText draws snap off-screen and returns it as styled text
// The layout must be the geometry the board was built with
func RenderText(layout *Layout, snap board.Snapshot, status Status, color bool) (string, error) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		return "", errors.Wrap(err, "simulation screen init")
	}
	defer screen.Fini()
	screen.SetSize(layout.Width, layout.Height)

	NewTerminalRenderer(screen, layout, nil).RenderFrame(snap, status)

	cells, w, h := screen.GetContents()
	rows := make([]string, 0, h)
	for y := 0; y < h; y++ {
		rows = append(rows, textRow(cells[y*w:(y+1)*w], color))
	}
	for len(rows) > 0 && strings.TrimSpace(rows[len(rows)-1]) == "" {
		rows = rows[:len(rows)-1]
	}

	frame := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if color {
		frame = frame.BorderForeground(lipgloss.Color(hexColor(RgbTitle)))
	}
	return frame.Render(strings.Join(rows, "\n")), nil
}

// textRow joins a row of cells, grouping runs of one foreground color
func textRow(cells []tcell.SimCell, color bool) string {
	var sb strings.Builder
	var run strings.Builder
	var runColor tcell.Color

	flush := func() {
		if run.Len() == 0 {
			return
		}
		if color && runColor.Hex() >= 0 {
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(runColor))).Render(run.String()))
		} else {
			sb.WriteString(run.String())
		}
		run.Reset()
	}

	for _, c := range cells {
		ch := ' '
		if len(c.Runes) > 0 {
			ch = c.Runes[0]
		}
		fg, _, _ := c.Style.Decompose()
		if fg != runColor {
			flush()
			runColor = fg
		}
		run.WriteRune(ch)
	}
	flush()
	return strings.TrimRight(sb.String(), " ")
}

func hexColor(c tcell.Color) string {
	return fmt.Sprintf("#%06x", c.Hex())
}
