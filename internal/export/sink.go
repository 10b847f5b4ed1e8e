package export

import (
	"image"

	"github.com/san-kum/attractor/internal/colormap"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/experiment"
	"github.com/san-kum/attractor/internal/viz"
)

// Painter turns frames into output images.
type Painter struct {
	Colormap *colormap.Colormap
	Size     int
	Kind     dynamo.Kind
	// Param is printed with three decimals in the overlay.
	Param   string
	Overlay bool
	Title   string
}

func (p Painter) Paint(f *experiment.Frame) *image.RGBA {
	img := viz.Scale(viz.Raster(f.Field, p.Colormap), p.Size)
	if p.Overlay {
		viz.Overlay{
			Title: p.Title,
			Lines: viz.ParamLines(p.Kind, f.Params, p.Param),
		}.Draw(img)
	}
	return img
}

// FrameSink paints each frame and hands it to an encoder.
type FrameSink struct {
	Painter Painter
	Encoder Encoder
}

func (s *FrameSink) Consume(f *experiment.Frame) error {
	return s.Encoder.Encode(s.Painter.Paint(f))
}
