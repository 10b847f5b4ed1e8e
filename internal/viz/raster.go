package viz

import (
	"image"

	"github.com/anthonynsimon/bild/transform"

	"github.com/san-kum/attractor/internal/colormap"
	"github.com/san-kum/attractor/internal/field"
)

// Raster paints f one pixel per cell. Column x is the x bin and rows count y
// bins from the bottom, so the image reads like a plot with the origin at
// the lower left. Empty cells take the lowest colour of cm.
func Raster(f *field.Field, cm *colormap.Colormap) *image.RGBA {
	n := f.Bins
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			img.SetRGBA(i, n-1-j, cm.At(f.Scale(f.At(i, j))))
		}
	}
	return img
}

// Scale resizes img to size x size pixels.
func Scale(img image.Image, size int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		if rgba, ok := img.(*image.RGBA); ok {
			return rgba
		}
	}
	filter := transform.Linear
	if b.Dx() > size {
		filter = transform.Lanczos
	}
	return transform.Resize(img, size, size, filter)
}
