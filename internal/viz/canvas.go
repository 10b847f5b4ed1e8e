package viz

import (
	"strings"

	"github.com/san-kum/attractor/internal/field"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
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

// Set lights the dot at (x, y) in sub-pixel coordinates. The canvas is
// (Width*2) x (Height*4) dots with y growing downwards.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Braille draws every block of f whose brightest cell exceeds threshold as a
// lit dot, on a canvas of cols x rows characters.
func Braille(f *field.Field, cols, rows int, threshold float64) *Canvas {
	c := NewCanvas(cols, rows)
	grid := sample(f, cols*2, rows*4)
	for y, line := range grid {
		for x, v := range line {
			if v > threshold {
				c.Set(x, y)
			}
		}
	}
	return c
}

// sample reduces f to w x h blocks holding the largest normalised value of
// each block. Row 0 is the top of the plot (highest y bins).
func sample(f *field.Field, w, h int) [][]float64 {
	out := make([][]float64, h)
	n := f.Bins
	for r := 0; r < h; r++ {
		out[r] = make([]float64, w)
		j0 := (h - 1 - r) * n / h
		j1 := (h - r) * n / h
		if j1 <= j0 {
			j1 = j0 + 1
		}
		for col := 0; col < w; col++ {
			i0 := col * n / w
			i1 := (col + 1) * n / w
			if i1 <= i0 {
				i1 = i0 + 1
			}
			best := 0.0
			for i := i0; i < i1 && i < n; i++ {
				for j := j0; j < j1 && j < n; j++ {
					if v := f.Normalized(i, j); v > best {
						best = v
					}
				}
			}
			out[r][col] = best
		}
	}
	return out
}
