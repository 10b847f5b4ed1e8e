package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/attractor/internal/dynamo"
)

var (
	textColor = color.RGBA{255, 255, 255, 255}
	boxColor  = color.RGBA{0, 0, 0, 178}
)

// Overlay describes the text drawn on top of a frame.
type Overlay struct {
	Title string
	// Lines are printed bottom left inside a rounded translucent box.
	Lines []string
}

// ParamLines formats the parameters of kind, three decimals for the swept
// parameter and one for the rest.
func ParamLines(kind dynamo.Kind, p dynamo.Params, swept string) []string {
	names := kind.ParamNames()
	lines := make([]string, 0, len(names))
	for _, n := range names {
		v, _ := p.Get(n)
		if n == swept {
			lines = append(lines, fmt.Sprintf("%s = %.3f", n, v))
		} else {
			lines = append(lines, fmt.Sprintf("%s = %.1f", n, v))
		}
	}
	return lines
}

// Draw paints o onto img in place.
func (o Overlay) Draw(img *image.RGBA) {
	b := img.Bounds()
	scale := 1 + b.Dx()/600

	if o.Title != "" {
		title := textImage(o.Title, scale+1)
		tb := title.Bounds()
		x := b.Min.X + (b.Dx()-tb.Dx())/2
		y := b.Min.Y + b.Dy()/20
		draw.Draw(img, tb.Add(image.Pt(x, y)), title, image.Point{}, draw.Over)
	}

	if len(o.Lines) == 0 {
		return
	}
	face := basicfont.Face7x13
	lineH := face.Metrics().Height.Ceil() * scale
	textW := 0
	for _, l := range o.Lines {
		if w := font.MeasureString(face, l).Ceil() * scale; w > textW {
			textW = w
		}
	}

	pad := 6 * scale
	margin := b.Dx() / 50
	x0 := float64(b.Min.X + margin)
	y1 := float64(b.Max.Y - margin)
	x1 := x0 + float64(textW+2*pad)
	y0 := y1 - float64(lineH*len(o.Lines)+2*pad)

	gc := draw2dimg.NewGraphicContext(img)
	gc.SetFillColor(boxColor)
	draw2dkit.RoundedRectangle(gc, x0, y0, x1, y1, float64(4*pad), float64(4*pad))
	gc.Fill()

	block := textImage(strings.Join(o.Lines, "\n"), scale)
	at := image.Pt(int(x0)+pad, int(y0)+pad)
	draw.Draw(img, block.Bounds().Add(at), block, image.Point{}, draw.Over)
}

// textImage renders newline separated text in the 7x13 face on a
// transparent background, magnified scale times.
func textImage(s string, scale int) *image.RGBA {
	face := basicfont.Face7x13
	lines := strings.Split(s, "\n")
	lineH := face.Metrics().Height.Ceil()
	w := 0
	for _, l := range lines {
		if lw := font.MeasureString(face, l).Ceil(); lw > w {
			w = lw
		}
	}
	img := image.NewRGBA(image.Rect(0, 0, w+1, lineH*len(lines)+1))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: face,
	}
	for i, l := range lines {
		d.Dot = fixed.P(0, i*lineH+face.Metrics().Ascent.Ceil())
		d.DrawString(l)
	}
	if scale <= 1 {
		return img
	}
	b := img.Bounds()
	return transform.Resize(img, b.Dx()*scale, b.Dy()*scale, transform.NearestNeighbor)
}
