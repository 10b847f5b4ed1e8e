package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FallbackGIFSize bounds the frame size of the GIF written when mp4 is
// unavailable. A 60 s sweep at 24 fps then holds about 330 MB of frames.
const FallbackGIFSize = 480

// ErrNoFFmpeg is returned when the ffmpeg binary cannot be found.
var ErrNoFFmpeg = errors.New("export: ffmpeg not found in PATH")

// Encoder consumes rendered frames in order.
type Encoder interface {
	Encode(img image.Image) error
	Close() error
	// Path is where the output ends up.
	Path() string
}

// Options configures Open.
type Options struct {
	Format string
	Path   string
	FPS    int
	Logger *log.Logger
}

// Open creates the encoder for format. An mp4 request falls back to a GIF at
// half the frame rate, capped at FallbackGIFSize pixels, when ffmpeg cannot
// be started.
func Open(opts Options) (Encoder, error) {
	switch strings.ToLower(opts.Format) {
	case "png":
		return &pngEncoder{path: opts.Path}, nil
	case "svg":
		return nil, fmt.Errorf("export: svg is a still format, use WriteSVG")
	case "gif":
		return NewGIF(opts.Path, opts.FPS), nil
	case "frames":
		return NewFrameDir(opts.Path)
	case "mp4":
		enc, err := NewFFmpeg(opts.Path, opts.FPS)
		if err == nil {
			return enc, nil
		}
		gifPath := strings.TrimSuffix(opts.Path, filepath.Ext(opts.Path)) + ".gif"
		if opts.Logger != nil {
			opts.Logger.Warn("mp4 unavailable, falling back to gif", "err", err, "path", gifPath)
		}
		g := NewGIF(gifPath, max(1, opts.FPS/2))
		g.MaxSize = FallbackGIFSize
		return g, nil
	}
	return nil, fmt.Errorf("export: unknown format %q", opts.Format)
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// pngEncoder keeps only the latest frame and writes it on Close.
type pngEncoder struct {
	path string
	last image.Image
}

func (e *pngEncoder) Encode(img image.Image) error {
	e.last = img
	return nil
}

func (e *pngEncoder) Close() error {
	if e.last == nil {
		return fmt.Errorf("export: no frame to write to %s", e.path)
	}
	return SavePNG(e.path, e.last)
}

func (e *pngEncoder) Path() string { return e.path }

// FrameDir writes every frame as frame_00000.png, frame_00001.png, ...
type FrameDir struct {
	dir string
	n   int
}

func NewFrameDir(dir string) (*FrameDir, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FrameDir{dir: dir}, nil
}

func (d *FrameDir) Encode(img image.Image) error {
	path := filepath.Join(d.dir, fmt.Sprintf("frame_%05d.png", d.n))
	if err := SavePNG(path, img); err != nil {
		return err
	}
	d.n++
	return nil
}

func (d *FrameDir) Close() error { return nil }

func (d *FrameDir) Path() string { return d.dir }
