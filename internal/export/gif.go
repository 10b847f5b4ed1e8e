package export

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"

	"github.com/san-kum/attractor/internal/viz"
)

// GIF accumulates frames and writes a looping animation on Close. Every
// frame stays in memory as a paletted image until then.
type GIF struct {
	path  string
	delay int
	anim  gif.GIF
	// MaxSize downscales larger frames to MaxSize x MaxSize when positive.
	MaxSize int
}

// NewGIF records frames shown for 1/fps seconds each.
func NewGIF(path string, fps int) *GIF {
	delay := 100 / max(1, fps)
	return &GIF{path: path, delay: max(2, delay), anim: gif.GIF{LoopCount: 0}}
}

func (g *GIF) Encode(img image.Image) error {
	if b := img.Bounds(); g.MaxSize > 0 && (b.Dx() > g.MaxSize || b.Dy() > g.MaxSize) {
		img = viz.Scale(img, g.MaxSize)
	}
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(p, b, img, b.Min)
	g.anim.Image = append(g.anim.Image, p)
	g.anim.Delay = append(g.anim.Delay, g.delay)
	return nil
}

func (g *GIF) Frames() int { return len(g.anim.Image) }

func (g *GIF) Close() error {
	f, err := os.Create(g.path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &g.anim); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (g *GIF) Path() string { return g.path }
