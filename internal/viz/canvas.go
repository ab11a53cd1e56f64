package viz

import (
	"strings"
)

// Braille dots, 2 wide by 4 tall per cell:
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank rune = 0x2800

// Canvas is a character grid addressed in braille sub-pixels. Cells can also
// hold an arbitrary glyph, which replaces any dots drawn into that cell.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// SubWidth is the canvas width in sub-pixels.
func (c *Canvas) SubWidth() int { return c.Width * 2 }

// SubHeight is the canvas height in sub-pixels.
func (c *Canvas) SubHeight() int { return c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// Set lights the sub-pixel at (x, y). Points outside the canvas and cells
// already holding a glyph are left alone.
func (c *Canvas) Set(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok || !isBraille(c.Grid[row][col]) {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

// Mark places glyph g in the cell containing sub-pixel (x, y).
func (c *Canvas) Mark(x, y int, g rune) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] = g
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
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

// Dots reports the lit sub-pixels of cell (row, col) as (dx, dy) offsets.
// Glyph cells report none.
func (c *Canvas) Dots(row, col int) [][2]int {
	r := c.Grid[row][col]
	if !isBraille(r) {
		return nil
	}
	var dots [][2]int
	for dy := 0; dy < 4; dy++ {
		for dx := 0; dx < 2; dx++ {
			if (r-brailleBlank)&pixelMap[dy][dx] != 0 {
				dots = append(dots, [2]int{dx, dy})
			}
		}
	}
	return dots
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func isBraille(r rune) bool { return r >= brailleBlank && r <= brailleBlank+0xff }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
