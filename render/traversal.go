package render

import "math"

// Traverse visits every grid cell intersected by the segment (x1, y1) to (x2, y2)
// Uses Supercover DDA so no cell is skipped, stops early when callback returns false
func Traverse(x1, y1, x2, y2 float64, callback func(x, y int) bool) {
	ix, iy := int(math.Floor(x1)), int(math.Floor(y1))
	targetX, targetY := int(math.Floor(x2)), int(math.Floor(y2))

	if !callback(ix, iy) {
		return
	}
	if ix == targetX && iy == targetY {
		return
	}

	dx := x2 - x1
	dy := y2 - y1

	stepX, stepY := 1, 1
	if dx < 0 {
		stepX = -1
		dx = -dx
	}
	if dy < 0 {
		stepY = -1
		dy = -dy
	}

	tMaxX, tMaxY := math.Inf(1), math.Inf(1)
	var tDeltaX, tDeltaY float64
	if dx > 0 {
		tDeltaX = 1 / dx
		if stepX > 0 {
			tMaxX = (math.Floor(x1) + 1 - x1) * tDeltaX
		} else {
			tMaxX = (x1 - math.Floor(x1)) * tDeltaX
		}
	}
	if dy > 0 {
		tDeltaY = 1 / dy
		if stepY > 0 {
			tMaxY = (math.Floor(y1) + 1 - y1) * tDeltaY
		} else {
			tMaxY = (y1 - math.Floor(y1)) * tDeltaY
		}
	}

	// Target bounds are checked before stepping so the loop always terminates
	for ix != targetX || iy != targetY {
		switch {
		case tMaxX < tMaxY:
			if ix != targetX {
				ix += stepX
				tMaxX += tDeltaX
			} else {
				iy += stepY
				tMaxY += tDeltaY
			}
		case tMaxX > tMaxY:
			if iy != targetY {
				iy += stepY
				tMaxY += tDeltaY
			} else {
				ix += stepX
				tMaxX += tDeltaX
			}
		default:
			if ix != targetX {
				ix += stepX
				tMaxX += tDeltaX
			}
			if iy != targetY {
				iy += stepY
				tMaxY += tDeltaY
			}
		}
		if !callback(ix, iy) {
			return
		}
	}
}

// lineGlyph picks a character matching the segment slope
func lineGlyph(dx, dy float64) rune {
	adx, ady := math.Abs(dx), math.Abs(dy)
	switch {
	case ady <= adx*0.25:
		return '─'
	case adx <= ady*0.25:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}
