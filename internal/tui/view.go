package tui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"labyrinth/internal/sim"
)

// hudRows are reserved below the board.
const hudRows = 1

var (
	styleFloor    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(120, 96, 64))
	styleFloorHot = tcell.StyleDefault.Foreground(tcell.NewRGBColor(200, 160, 96))
	styleWall     = tcell.StyleDefault.Foreground(tcell.NewRGBColor(180, 180, 190))
	styleTrap     = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleGoal     = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleBall     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleHUD      = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleSplash   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true).Reverse(true)
)

const (
	runeFloor = '·'
	runeWall  = '█'
	runeTrap  = 'o'
	runeGoal  = '◎'
)

// layout maps board coordinates onto terminal cells. Cells are roughly twice
// as tall as wide, so X gets two columns per row.
type layout struct {
	originX, originY int
	cols, rows       int
	unitX, unitY     float64 // cells per world unit
	half             float64
}

func newLayout(w, h int, arena float64) layout {
	unitY := float64(h-hudRows) / arena
	unitX := 2 * unitY
	if unitX*arena > float64(w) {
		unitX = float64(w) / arena
		unitY = unitX / 2
	}
	cols := int(unitX * arena)
	rows := int(unitY * arena)
	return layout{
		originX: (w - cols) / 2,
		originY: (h - hudRows - rows) / 2,
		cols:    cols,
		rows:    rows,
		unitX:   unitX,
		unitY:   unitY,
		half:    arena / 2,
	}
}

// cell returns the screen cell containing board point (x, z).
func (l layout) cell(x, z float64) (int, int) {
	col := int(math.Floor((x + l.half) * l.unitX))
	row := int(math.Floor((z + l.half) * l.unitY))
	return l.originX + clampInt(col, 0, l.cols-1), l.originY + clampInt(row, 0, l.rows-1)
}

// span returns the inclusive cell range covered by [lo, hi] along one axis.
func span(lo, hi, half, unit float64, n int) (int, int) {
	a := int(math.Floor((lo + half) * unit))
	b := int(math.Ceil((hi+half)*unit)) - 1
	if b < a {
		b = a
	}
	return clampInt(a, 0, n-1), clampInt(b, 0, n-1)
}

// Draw renders the board, ball and HUD, then shows the frame.
func Draw(screen tcell.Screen, s *sim.Simulation) {
	screen.Clear()
	w, h := screen.Size()
	l := newLayout(w, h, s.ArenaSize())
	if l.cols < 8 || l.rows < 4 {
		drawText(screen, 0, 0, "terminal too small", styleHUD)
		screen.Show()
		return
	}
	snap := s.Snapshot()

	// Floor. The half the board leans towards is drawn brighter.
	for row := 0; row < l.rows; row++ {
		for col := 0; col < l.cols; col++ {
			x := (float64(col)+0.5)/l.unitX - l.half
			z := (float64(row)+0.5)/l.unitY - l.half
			style := styleFloor
			if z*snap.Tilt.X()-x*snap.Tilt.Y() > 0 {
				style = styleFloorHot
			}
			screen.SetContent(l.originX+col, l.originY+row, runeFloor, nil, style)
		}
	}

	for _, o := range s.Obstacles() {
		b := o.Box()
		c0, c1 := span(o.Position.X()-b.HalfW, o.Position.X()+b.HalfW, l.half, l.unitX, l.cols)
		r0, r1 := span(o.Position.Y()-b.HalfH, o.Position.Y()+b.HalfH, l.half, l.unitY, l.rows)
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				screen.SetContent(l.originX+col, l.originY+row, runeWall, nil, styleWall)
			}
		}
	}

	for _, hole := range s.Holes() {
		x, y := l.cell(hole.Position.X(), hole.Position.Y())
		if hole.Final {
			screen.SetContent(x, y, runeGoal, nil, styleGoal)
		} else {
			screen.SetContent(x, y, runeTrap, nil, styleTrap)
		}
	}

	if r, ok := ballRune(snap.BallScale); ok && !outside(snap, l.half) {
		x, y := l.cell(snap.BallPosition.X(), snap.BallPosition.Z())
		screen.SetContent(x, y, r, nil, styleBall)
	}

	drawText(screen, 0, h-1, hudLine(snap), styleHUD)

	if snap.Phase == sim.PhaseSplash {
		msg := " YOU WIN! "
		drawText(screen, l.originX+(l.cols-len([]rune(msg)))/2, l.originY+l.rows/2, msg, styleSplash)
	}
	screen.Show()
}

// ballRune picks a glyph by scale so grow and shrink read on a terminal.
func ballRune(scale float64) (rune, bool) {
	switch {
	case scale >= 0.66:
		return '●', true
	case scale >= 0.33:
		return '•', true
	case scale > 0:
		return '∙', true
	}
	return 0, false
}

func outside(snap sim.Snapshot, half float64) bool {
	return math.Abs(snap.BallPosition.X()) > half || math.Abs(snap.BallPosition.Z()) > half
}

func hudLine(snap sim.Snapshot) string {
	return fmt.Sprintf(" attempt %d  time %5.1fs  falls %d  tilt %+.2f %+.2f  %s",
		snap.Stats.Attempts, snap.Stats.RunTime, snap.Stats.Falls,
		snap.Tilt.X(), snap.Tilt.Y(), snap.Phase)
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
