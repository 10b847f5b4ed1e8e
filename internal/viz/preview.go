package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/attractor/internal/colormap"
	"github.com/san-kum/attractor/internal/field"
)

// HalfBlocks renders f as cols x rows terminal cells. Each cell shows two
// vertically stacked blocks using the upper half block glyph with separate
// foreground and background colours.
func HalfBlocks(f *field.Field, cm *colormap.Colormap, cols, rows int) string {
	grid := sample(f, cols, rows*2)
	bg := lipgloss.Color(cm.Hex(0))

	var b strings.Builder
	for r := 0; r < rows; r++ {
		top, bottom := grid[2*r], grid[2*r+1]
		for c := 0; c < cols; c++ {
			style := lipgloss.NewStyle().
				Foreground(cellColor(cm, top[c], bg)).
				Background(cellColor(cm, bottom[c], bg))
			b.WriteString(style.Render("▀"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func cellColor(cm *colormap.Colormap, v float64, bg lipgloss.Color) lipgloss.Color {
	if v <= 0 {
		return bg
	}
	return lipgloss.Color(cm.Hex(v))
}
