package viz

import (
	"math"
	"strings"
)

// Each cell is a 2x4 Braille dot matrix; blank is U+2800.
const brailleBlank = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a Braille pixel grid of Width x Height cells, that is
// Width*2 x Height*4 dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at (x, y), origin top-left. Out of range dots are
// ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Viewport maps world metres onto canvas dots with one scale for both
// axes, y pointing up.
type Viewport struct {
	MinX, MinY float64
	Scale      float64
	dotsH      int
}

// FitViewport frames the box [minX,maxX] x [minY,maxY] on c.
func FitViewport(c *Canvas, minX, maxX, minY, maxY float64) Viewport {
	w, h := float64(c.Width*2-1), float64(c.Height*4-1)
	spanX, spanY := maxX-minX, maxY-minY
	if !(spanX > 0) {
		spanX = 1
	}
	if !(spanY > 0) {
		spanY = 1
	}
	return Viewport{
		MinX:  minX,
		MinY:  minY,
		Scale: math.Min(w/spanX, h/spanY),
		dotsH: c.Height * 4,
	}
}

// Dot converts a world point to canvas dot coordinates.
func (v Viewport) Dot(x, y float64) (int, int) {
	px := int(math.Round((x - v.MinX) * v.Scale))
	py := v.dotsH - 1 - int(math.Round((y-v.MinY)*v.Scale))
	return px, py
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
