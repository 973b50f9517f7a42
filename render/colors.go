package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/blockcompare/core"
)

// RGB color definitions
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbText       = tcell.NewRGBColor(200, 200, 200) // Light gray
	RgbDim        = tcell.NewRGBColor(90, 90, 110)   // Muted frame
	RgbTitle      = tcell.NewRGBColor(135, 206, 250) // Light sky blue

	RgbBlockLeft     = tcell.NewRGBColor(100, 150, 255) // Normal Blue
	RgbBlockRight    = tcell.NewRGBColor(255, 165, 0)   // Orange
	RgbBlockArriving = tcell.NewRGBColor(140, 190, 255) // Bright Blue
	RgbBlockPopping  = tcell.NewRGBColor(255, 120, 120) // Bright Red
	RgbBlockHeld     = tcell.NewRGBColor(255, 255, 200) // Yellow-white

	RgbDispenser = tcell.NewRGBColor(0, 200, 200) // Vibrant Cyan

	RgbCorrect   = tcell.NewRGBColor(0, 200, 0)   // Normal Green
	RgbIncorrect = tcell.NewRGBColor(200, 50, 50) // Red

	RgbLine       = tcell.NewRGBColor(255, 255, 255) // White
	RgbLineDraft  = tcell.NewRGBColor(180, 180, 180) // Brighter gray
	RgbEndpoint   = tcell.NewRGBColor(144, 238, 144) // Light grass green
	RgbEndpointOn = tcell.NewRGBColor(255, 255, 0)   // Bright Yellow

	RgbButton     = tcell.NewRGBColor(60, 60, 90)
	RgbButtonText = tcell.NewRGBColor(255, 255, 255)
	RgbTutorialBg = tcell.NewRGBColor(40, 42, 60)
)

func sideColor(side core.Side) tcell.Color {
	if side == core.SideLeft {
		return RgbBlockLeft
	}
	return RgbBlockRight
}
