package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/attractor/internal/colormap"
	"github.com/san-kum/attractor/internal/field"
)

// FieldToSVG draws every occupied cell of f as a square of side scale, with
// the origin at the lower left. Meant for coarse grids.
func FieldToSVG(f *field.Field, cm *colormap.Colormap, scale float64) string {
	if f == nil || f.Bins == 0 {
		return ""
	}
	size := float64(f.Bins) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g shape-rendering="crispEdges">
`, size, size, size, size, cm.Hex(0)))

	for i := 0; i < f.Bins; i++ {
		for j := 0; j < f.Bins; j++ {
			v := f.At(i, j)
			if v <= 0 {
				continue
			}
			x := float64(i) * scale
			y := float64(f.Bins-1-j) * scale
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, x, y, scale, scale, cm.Hex(f.Scale(v))))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// WriteSVG saves FieldToSVG output to path.
func WriteSVG(path string, f *field.Field, cm *colormap.Colormap, scale float64) error {
	return os.WriteFile(path, []byte(FieldToSVG(f, cm, scale)), 0644)
}
