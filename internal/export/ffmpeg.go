package export

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os/exec"
	"strconv"
)

// FFmpeg pipes PNG frames into an ffmpeg process encoding H.264 at 6000k.
type FFmpeg struct {
	path   string
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	buf    *bufio.Writer
	stderr bytes.Buffer
	enc    png.Encoder
}

// ffmpegBin is the encoder binary looked up in PATH.
var ffmpegBin = "ffmpeg"

// FFmpegArgs is the ffmpeg command line for path at fps.
func FFmpegArgs(path string, fps int) []string {
	rate := strconv.Itoa(fps)
	return []string{
		"-y", "-loglevel", "error",
		"-f", "image2pipe", "-framerate", rate, "-i", "-",
		"-c:v", "libx264", "-b:v", "6000k", "-pix_fmt", "yuv420p",
		"-r", rate, path,
	}
}

func NewFFmpeg(path string, fps int) (*FFmpeg, error) {
	bin, err := exec.LookPath(ffmpegBin)
	if err != nil {
		return nil, ErrNoFFmpeg
	}
	e := &FFmpeg{path: path, enc: png.Encoder{CompressionLevel: png.BestSpeed}}
	e.cmd = exec.Command(bin, FFmpegArgs(path, fps)...)
	e.cmd.Stderr = &e.stderr
	e.stdin, err = e.cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	if err := e.cmd.Start(); err != nil {
		e.stdin.Close()
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	e.buf = bufio.NewWriterSize(e.stdin, 1<<20)
	return e, nil
}

func (e *FFmpeg) Encode(img image.Image) error {
	if err := e.enc.Encode(e.buf, img); err != nil {
		return fmt.Errorf("ffmpeg pipe: %w (%s)", err, e.stderr.String())
	}
	return nil
}

func (e *FFmpeg) Close() error {
	flushErr := e.buf.Flush()
	e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, e.stderr.String())
	}
	return flushErr
}

func (e *FFmpeg) Path() string { return e.path }
