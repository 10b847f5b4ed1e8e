package export

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/attractor/internal/colormap"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/experiment"
	"github.com/san-kum/attractor/internal/field"
	"github.com/san-kum/attractor/internal/histogram"
)

func testFrame(index int) *experiment.Frame {
	d := histogram.NewDensity(8, dynamo.Square(3))
	d.Counts[3*8+4] = 20
	d.Counts[5*8+1] = 2
	return &experiment.Frame{
		Index:   index,
		Params:  dynamo.Params{A: -1.4, B: 1.6, C: 1.0, D: 0.7},
		Density: d,
		Field:   field.Compress(d, field.Ceiling{Mode: field.PerFrame}),
	}
}

func testPainter() Painter {
	return Painter{
		Colormap: colormap.MustNew("test", "#000033", "#ff0033"),
		Size:     64,
		Kind:     dynamo.Clifford,
		Param:    "a",
	}
}

func TestPaint(t *testing.T) {
	img := testPainter().Paint(testFrame(0))
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Errorf("expected 64x64, got %v", img.Bounds())
	}
}

func TestPNGEncoder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "still.png")
	enc, err := Open(Options{Format: "png", Path: path})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	sink := &FrameSink{Painter: testPainter(), Encoder: enc}
	if err := sink.Consume(testFrame(0)); err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("expected png at %s, got %v", path, err)
	}
}

func TestPNGEncoderEmpty(t *testing.T) {
	enc, _ := Open(Options{Format: "png", Path: filepath.Join(t.TempDir(), "x.png")})
	if err := enc.Close(); err == nil {
		t.Error("expected error when closing without frames")
	}
}

func TestGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.gif")
	g := NewGIF(path, 10)
	p := testPainter()
	for i := 0; i < 3; i++ {
		if err := g.Encode(p.Paint(testFrame(i))); err != nil {
			t.Fatalf("encode failed: %v", err)
		}
	}
	if err := g.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(anim.Image) != 3 {
		t.Errorf("expected 3 frames, got %d", len(anim.Image))
	}
	if anim.Delay[0] != 10 {
		t.Errorf("expected delay 10, got %d", anim.Delay[0])
	}
}

func TestFrameDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	enc, err := Open(Options{Format: "frames", Path: dir})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(1, 1, color.RGBA{255, 0, 0, 255})
	for i := 0; i < 2; i++ {
		if err := enc.Encode(img); err != nil {
			t.Fatalf("encode failed: %v", err)
		}
	}
	for _, name := range []string{"frame_00000.png", "frame_00001.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestMP4FallsBackToGIF(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	path := filepath.Join(t.TempDir(), "sweep.mp4")

	enc, err := Open(Options{Format: "mp4", Path: path, FPS: 24})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	g, ok := enc.(*GIF)
	if !ok {
		t.Fatalf("expected gif fallback, got %T", enc)
	}
	if !strings.HasSuffix(g.Path(), "sweep.gif") {
		t.Errorf("expected .gif path, got %s", g.Path())
	}
	if g.delay != 100/12 {
		t.Errorf("expected half frame rate delay %d, got %d", 100/12, g.delay)
	}

	big := FallbackGIFSize + 120
	if err := g.Encode(image.NewRGBA(image.Rect(0, 0, big, big))); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if err := g.Encode(image.NewRGBA(image.Rect(0, 0, 64, 64))); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if got := g.anim.Image[0].Bounds().Dx(); got != FallbackGIFSize {
		t.Errorf("expected fallback frame downscaled to %d, got %d", FallbackGIFSize, got)
	}
	if got := g.anim.Image[1].Bounds().Dx(); got != 64 {
		t.Errorf("expected small frame kept at 64, got %d", got)
	}
}

func TestFFmpegStartFailure(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(bin, []byte("not an executable image\n"), 0755); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	prev := ffmpegBin
	ffmpegBin = bin
	t.Cleanup(func() { ffmpegBin = prev })

	if _, err := NewFFmpeg(filepath.Join(t.TempDir(), "out.mp4"), 24); err == nil || errors.Is(err, ErrNoFFmpeg) {
		t.Fatalf("expected start failure, got %v", err)
	}

	enc, err := Open(Options{Format: "mp4", Path: filepath.Join(t.TempDir(), "out.mp4"), FPS: 24})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if _, ok := enc.(*GIF); !ok {
		t.Errorf("expected gif fallback after start failure, got %T", enc)
	}
}

func TestFFmpegArgs(t *testing.T) {
	args := strings.Join(FFmpegArgs("out.mp4", 24), " ")
	for _, want := range []string{"-framerate 24", "-c:v libx264", "-b:v 6000k", "out.mp4"} {
		if !strings.Contains(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := Open(Options{Format: "avi"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFieldToSVG(t *testing.T) {
	f := testFrame(0).Field
	svg := FieldToSVG(f, colormap.MustNew("test", "#000000", "#ffffff"), 2)
	if strings.Count(svg, "<rect x=") != 2 {
		t.Errorf("expected 2 cells, got %d", strings.Count(svg, "<rect x="))
	}
	if !strings.Contains(svg, `fill="#ffffff"`) {
		t.Error("brightest cell should use the top colour")
	}
}
